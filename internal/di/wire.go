//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/KayJJUNE/steam-bot/internal/app"
)

func InitializeApp() (*app.App, error) {
	panic(wire.Build(
		ConfigSet,
		ObservabilitySet,
		DatabaseSet,
		SteamSet,
		DiscordSet,
		QuestSet,
		HTTPSet,
		AppSet,
	))
}

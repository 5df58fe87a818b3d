package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"gorm.io/gorm"

	"github.com/KayJJUNE/steam-bot/internal/config"
	"github.com/KayJJUNE/steam-bot/internal/database"
	"github.com/KayJJUNE/steam-bot/internal/discordbot"
	"github.com/KayJJUNE/steam-bot/internal/observability"
)

// App bundles the process-wide collaborators. Everything is passed in
// explicitly at construction; there is no ambient bot or database singleton.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *gorm.DB
	Bot    *discordbot.Bot
	Server *http.Server

	metricsShutdown func(context.Context) error
}

func New(cfg *config.Config, logger *slog.Logger, db *gorm.DB, bot *discordbot.Bot, server *http.Server) *App {
	return &App{Config: cfg, Logger: logger, DB: db, Bot: bot, Server: server}
}

// Start migrates the schema, connects to Discord and serves the ops API.
func (a *App) Start() error {
	shutdown, err := observability.SetupMetrics(context.Background())
	if err != nil {
		return err
	}
	a.metricsShutdown = shutdown

	if err := database.Migrate(a.DB); err != nil {
		return err
	}
	if err := a.Bot.Start(); err != nil {
		return err
	}
	go func() {
		a.Logger.Info("ops server starting", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("ops server failed", "error", err)
		}
	}()
	return nil
}

// Shutdown stops the gateway session and drains the ops server.
func (a *App) Shutdown(ctx context.Context) {
	if err := a.Bot.Stop(); err != nil {
		a.Logger.Warn("discord session close failed", "error", err)
	}
	if err := a.Server.Shutdown(ctx); err != nil {
		a.Logger.Warn("ops server shutdown failed", "error", err)
	}
	if a.metricsShutdown != nil {
		if err := a.metricsShutdown(ctx); err != nil {
			a.Logger.Warn("meter provider shutdown failed", "error", err)
		}
	}
}

// RunMigrationOnly applies the schema and exits; used by `bot migrate`.
func RunMigrationOnly() error {
	cfg, err := config.LoadTooling()
	if err != nil {
		return err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	return database.Migrate(db)
}

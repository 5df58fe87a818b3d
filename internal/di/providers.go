package di

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"

	"github.com/KayJJUNE/steam-bot/internal/app"
	"github.com/KayJJUNE/steam-bot/internal/config"
	"github.com/KayJJUNE/steam-bot/internal/database"
	"github.com/KayJJUNE/steam-bot/internal/discordbot"
	questhttp "github.com/KayJJUNE/steam-bot/internal/http"
	"github.com/KayJJUNE/steam-bot/internal/http/handler"
	"github.com/KayJJUNE/steam-bot/internal/observability"
	"github.com/KayJJUNE/steam-bot/internal/quest"
	"github.com/KayJJUNE/steam-bot/internal/repository"
	"github.com/KayJJUNE/steam-bot/internal/reward"
	"github.com/KayJJUNE/steam-bot/internal/steam"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(observability.NewLogger)

var DatabaseSet = wire.NewSet(database.Open, repository.NewUserRecordRepository)

var SteamSet = wire.NewSet(provideIdentityVerifier, provideWishlistChecker)

var QuestSet = wire.NewSet(provideSessionStore, provideRewarder, provideMachine)

var DiscordSet = wire.NewSet(discordbot.NewSession, discordbot.New)

var HTTPSet = wire.NewSet(
	handler.NewHealthHandler,
	handler.NewAdminHandler,
	questhttp.NewRouter,
	provideServer,
)

var AppSet = wire.NewSet(app.New)

func provideIdentityVerifier(cfg *config.Config, logger *slog.Logger) quest.IdentityVerifier {
	return steam.NewIdentityVerifier(cfg.SteamAPIKey, logger)
}

func provideWishlistChecker(cfg *config.Config, logger *slog.Logger) quest.WishlistChecker {
	return steam.NewWishlistChecker(cfg.WishlistTimeout, logger)
}

// provideSessionStore picks Redis when configured so guided-flow state is
// shared across replicas, and falls back to the in-process store otherwise.
func provideSessionStore(cfg *config.Config, logger *slog.Logger) (quest.SessionStore, error) {
	if cfg.RedisURL == "" {
		return quest.NewMemorySessionStore(cfg.SessionTTL), nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	logger.Info("using redis session store", "addr", opts.Addr)
	return quest.NewRedisSessionStore(redis.NewClient(opts), cfg.SessionTTL), nil
}

func provideRewarder(session *discordgo.Session, cfg *config.Config, logger *slog.Logger) quest.Rewarder {
	return reward.NewDispatcher(
		discordbot.NewDiscordRoleService(session),
		cfg.DiscordGuildID,
		cfg.RewardRoleID,
		logger,
	)
}

func provideMachine(
	users repository.UserRecordRepository,
	verifier quest.IdentityVerifier,
	wishlist quest.WishlistChecker,
	sessions quest.SessionStore,
	rewarder quest.Rewarder,
	cfg *config.Config,
	logger *slog.Logger,
) *quest.Machine {
	return quest.NewMachine(users, verifier, wishlist, sessions, rewarder, cfg.SteamAppID, logger)
}

func provideServer(cfg *config.Config, router http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

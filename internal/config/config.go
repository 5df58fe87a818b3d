package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env      string
	HTTPPort string

	DiscordToken   string
	DiscordGuildID string
	RewardRoleID   string

	SteamAPIKey      string
	SteamAppID       string
	StorePageURL     string
	CommunityPostURL string

	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	RedisURL string

	AdminAPIToken string

	WishlistTimeout     time.Duration
	SessionTTL          time.Duration
	TargetWishlistCount int

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment. A .env file is honored when
// present, matching how the bot is deployed on Railway.
func Load() (*Config, error) {
	cfg, err := build()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTooling is Load without the bot-credential requirements; the offline
// admin tools only need the database settings.
func LoadTooling() (*Config, error) {
	cfg, err := build()
	if err != nil {
		return nil, err
	}
	if err := cfg.validateDatabase(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func build() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		DiscordToken:        os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID:      os.Getenv("DISCORD_GUILD_ID"),
		RewardRoleID:        os.Getenv("REWARD_ROLE_ID"),
		SteamAPIKey:         os.Getenv("STEAM_API_KEY"),
		SteamAppID:          getEnv("APP_ID", "123456"),
		StorePageURL:        getEnv("STORE_PAGE_URL", "https://store.steampowered.com/app/123456"),
		CommunityPostURL:    getEnv("COMMUNITY_POST_URL", "https://steamcommunity.com/app/123456"),
		DBDriver:            strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		SQLitePath:          getEnv("SQLITE_PATH", "user_data.db"),
		RedisURL:            os.Getenv("REDIS_URL"),
		AdminAPIToken:       os.Getenv("ADMIN_API_TOKEN"),
		TargetWishlistCount: getEnvInt("TARGET_WISHLIST_COUNT", 50000),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	wishlistTimeout, err := time.ParseDuration(getEnv("WISHLIST_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("parse WISHLIST_TIMEOUT: %w", err)
	}
	cfg.WishlistTimeout = wishlistTimeout

	sessionTTL, err := time.ParseDuration(getEnv("QUEST_SESSION_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("parse QUEST_SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = sessionTTL

	return cfg, nil
}

func (c *Config) validateDatabase() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q", DriverSQLite, DriverPostgres)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []string
	if c.DiscordToken == "" {
		errs = append(errs, "DISCORD_TOKEN is required")
	}
	if err := c.validateDatabase(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.SteamAppID == "" {
		errs = append(errs, "APP_ID is required")
	}
	if c.WishlistTimeout <= 0 {
		errs = append(errs, "WISHLIST_TIMEOUT must be > 0")
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, "QUEST_SESSION_TTL must be > 0")
	}
	if c.TargetWishlistCount <= 0 {
		errs = append(errs, "TARGET_WISHLIST_COUNT must be > 0")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" && c.LogFormat != "both" {
		errs = append(errs, "LOG_FORMAT must be text, json or both")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// RewardConfigured reports whether role granting has enough configuration to
// run. The quest flow still works without it; completion is simply not
// rewarded until an operator fills these in.
func (c *Config) RewardConfigured() bool {
	return c.DiscordGuildID != "" && c.RewardRoleID != ""
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

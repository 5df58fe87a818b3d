package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KayJJUNE/steam-bot/internal/config"
)

// Open connects to the store selected by explicit configuration: sqlite for
// local development, postgres for the hosted deployment. Both sit behind the
// same gorm handle so the repository's conditional-update contract holds on
// either backend.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	case config.DriverPostgres:
		return gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

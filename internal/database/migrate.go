package database

import (
	"gorm.io/gorm"

	"github.com/KayJJUNE/steam-bot/internal/domain"
)

// Migrate applies the schema. AutoMigrate only adds columns, so an existing
// users table picks up new quest flags without data loss (quest4_complete was
// introduced this way).
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.UserRecord{},
	)
}

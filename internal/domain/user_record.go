package domain

import "time"

// UserRecord is the single row tracked per Discord user. Quest flags are
// monotonic: once true they are never cleared except by administrative reset,
// which preserves the linked Steam account.
type UserRecord struct {
	DiscordID      int64     `gorm:"primaryKey;autoIncrement:false" json:"discord_id"`
	SteamID        *string   `gorm:"size:32;index" json:"steam_id,omitempty"`
	Quest1Complete bool      `gorm:"not null;default:false" json:"quest1_complete"`
	Quest2Complete bool      `gorm:"not null;default:false" json:"quest2_complete"`
	Quest3Complete bool      `gorm:"not null;default:false" json:"quest3_complete"`
	Quest4Complete bool      `gorm:"not null;default:false" json:"quest4_complete"`
	CreatedAt      time.Time `json:"created_at"`
}

func (UserRecord) TableName() string { return "users" }

// Linked reports whether a Steam account has been attached to this record.
func (r *UserRecord) Linked() bool {
	return r.SteamID != nil && *r.SteamID != ""
}

// StepComplete reports the flag for one quest step.
func (r *UserRecord) StepComplete(step Step) bool {
	switch step {
	case StepLinkAccount:
		return r.Quest1Complete
	case StepWishlist:
		return r.Quest2Complete
	case StepFollow:
		return r.Quest3Complete
	case StepLike:
		return r.Quest4Complete
	}
	return false
}

// AllComplete is re-evaluated on every mutation, never cached.
func (r *UserRecord) AllComplete() bool {
	return r.Quest1Complete && r.Quest2Complete && r.Quest3Complete && r.Quest4Complete
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KayJJUNE/steam-bot/internal/domain"
	"github.com/KayJJUNE/steam-bot/internal/observability"
)

var (
	ErrUserNotFound = errors.New("user record not found")
	ErrInvalidStep  = errors.New("invalid quest step")
)

// stepColumns is the fixed step-to-column mapping. Indexing by the Step enum
// replaces the column-name interpolation the quest flags were originally
// updated with.
var stepColumns = [...]string{
	domain.StepLinkAccount: "quest1_complete",
	domain.StepWishlist:    "quest2_complete",
	domain.StepFollow:      "quest3_complete",
	domain.StepLike:        "quest4_complete",
}

func stepColumn(step domain.Step) (string, error) {
	if !step.Valid() {
		return "", ErrInvalidStep
	}
	return stepColumns[step], nil
}

// MilestoneStats aggregates completion counts for the admin surfaces.
type MilestoneStats struct {
	TotalUsers       int64 `json:"total_users"`
	LinkedAccounts   int64 `json:"linked_accounts"`
	CompletedThrough2 int64 `json:"completed_through_step2"`
	CompletedThrough3 int64 `json:"completed_through_step3"`
	CompletedAll     int64 `json:"completed_all"`
}

// DuplicateSteamID reports a Steam account linked by more than one Discord
// user. Uniqueness is not enforced; this exists so moderators can audit.
type DuplicateSteamID struct {
	SteamID string `json:"steam_id"`
	Count   int64  `json:"count"`
}

type UserRecordRepository interface {
	Find(ctx context.Context, discordID int64) (*domain.UserRecord, error)
	InsertIfAbsent(ctx context.Context, discordID int64) (*domain.UserRecord, error)
	// LinkSteamAccount atomically sets the steam id and the step-1 flag.
	// It affects zero rows when step 1 is already complete, which makes the
	// linked account immutable and double-submits harmless.
	LinkSteamAccount(ctx context.Context, discordID int64, steamID string) (bool, error)
	// MarkStepComplete flips one quest flag with a conditional update
	// (WHERE flag = false). The boolean reports whether this call performed
	// the transition, so concurrent confirms resolve to a single winner.
	MarkStepComplete(ctx context.Context, discordID int64, step domain.Step) (bool, error)
	FindBySteamID(ctx context.Context, steamID string) ([]domain.UserRecord, error)
	ResetUser(ctx context.Context, discordID int64) error
	ResetAllUsers(ctx context.Context) (int64, error)
	MilestoneStats(ctx context.Context) (*MilestoneStats, error)
	ListCompletedThrough(ctx context.Context, step domain.Step) ([]domain.UserRecord, error)
	DuplicateSteamIDs(ctx context.Context) ([]DuplicateSteamID, error)
}

type GormUserRecordRepository struct{ db *gorm.DB }

func NewUserRecordRepository(db *gorm.DB) UserRecordRepository {
	return &GormUserRecordRepository{db: db}
}

func (r *GormUserRecordRepository) Find(ctx context.Context, discordID int64) (*domain.UserRecord, error) {
	var record domain.UserRecord
	err := r.db.WithContext(ctx).First(&record, "discord_id = ?", discordID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "user_record", "find", "not_found")
			return nil, ErrUserNotFound
		}
		observability.RecordRepositoryOperation(ctx, "user_record", "find", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "user_record", "find", "success")
	return &record, nil
}

func (r *GormUserRecordRepository) InsertIfAbsent(ctx context.Context, discordID int64) (*domain.UserRecord, error) {
	record := domain.UserRecord{DiscordID: discordID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&record).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "user_record", "insert_if_absent", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "user_record", "insert_if_absent", "success")
	return r.Find(ctx, discordID)
}

func (r *GormUserRecordRepository) LinkSteamAccount(ctx context.Context, discordID int64, steamID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.UserRecord{}).
		Where("discord_id = ? AND quest1_complete = ?", discordID, false).
		Updates(map[string]any{
			"steam_id":        steamID,
			"quest1_complete": true,
		})
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "user_record", "link_steam", "error")
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "user_record", "link_steam", "noop")
		return false, nil
	}
	observability.RecordRepositoryOperation(ctx, "user_record", "link_steam", "success")
	return true, nil
}

func (r *GormUserRecordRepository) MarkStepComplete(ctx context.Context, discordID int64, step domain.Step) (bool, error) {
	column, err := stepColumn(step)
	if err != nil {
		return false, err
	}
	res := r.db.WithContext(ctx).Model(&domain.UserRecord{}).
		Where("discord_id = ? AND "+column+" = ?", discordID, false).
		Update(column, true)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "user_record", "mark_step", "error")
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "user_record", "mark_step", "noop")
		return false, nil
	}
	observability.RecordRepositoryOperation(ctx, "user_record", "mark_step", "success")
	return true, nil
}

func (r *GormUserRecordRepository) FindBySteamID(ctx context.Context, steamID string) ([]domain.UserRecord, error) {
	var records []domain.UserRecord
	err := r.db.WithContext(ctx).
		Where("steam_id = ?", steamID).
		Order("created_at asc").
		Find(&records).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "user_record", "find_by_steam_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "user_record", "find_by_steam_id", "success")
	return records, nil
}

func (r *GormUserRecordRepository) ResetUser(ctx context.Context, discordID int64) error {
	res := r.db.WithContext(ctx).Model(&domain.UserRecord{}).
		Where("discord_id = ?", discordID).
		Updates(map[string]any{
			"quest1_complete": false,
			"quest2_complete": false,
			"quest3_complete": false,
			"quest4_complete": false,
		})
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "user_record", "reset", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "user_record", "reset", "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation(ctx, "user_record", "reset", "success")
	return nil
}

func (r *GormUserRecordRepository) ResetAllUsers(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.UserRecord{}).
		Where("1 = 1").
		Updates(map[string]any{
			"quest1_complete": false,
			"quest2_complete": false,
			"quest3_complete": false,
			"quest4_complete": false,
		})
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "user_record", "reset_all", "error")
		return 0, res.Error
	}
	observability.RecordRepositoryOperation(ctx, "user_record", "reset_all", "success")
	return res.RowsAffected, nil
}

func (r *GormUserRecordRepository) MilestoneStats(ctx context.Context) (*MilestoneStats, error) {
	stats := &MilestoneStats{}
	db := r.db.WithContext(ctx).Model(&domain.UserRecord{})

	counts := []struct {
		dest *int64
		cond string
	}{
		{&stats.TotalUsers, ""},
		{&stats.LinkedAccounts, "quest1_complete = true"},
		{&stats.CompletedThrough2, "quest1_complete = true AND quest2_complete = true"},
		{&stats.CompletedThrough3, "quest1_complete = true AND quest2_complete = true AND quest3_complete = true"},
		{&stats.CompletedAll, "quest1_complete = true AND quest2_complete = true AND quest3_complete = true AND quest4_complete = true"},
	}
	for _, c := range counts {
		q := db.Session(&gorm.Session{})
		if c.cond != "" {
			q = q.Where(c.cond)
		}
		if err := q.Count(c.dest).Error; err != nil {
			observability.RecordRepositoryOperation(ctx, "user_record", "stats", "error")
			return nil, err
		}
	}
	observability.RecordRepositoryOperation(ctx, "user_record", "stats", "success")
	return stats, nil
}

func (r *GormUserRecordRepository) ListCompletedThrough(ctx context.Context, step domain.Step) ([]domain.UserRecord, error) {
	if !step.Valid() {
		return nil, ErrInvalidStep
	}
	q := r.db.WithContext(ctx).Model(&domain.UserRecord{})
	for s := domain.StepLinkAccount; s <= step; s++ {
		column, err := stepColumn(s)
		if err != nil {
			return nil, err
		}
		q = q.Where(column+" = ?", true)
	}
	var records []domain.UserRecord
	if err := q.Order("created_at desc").Find(&records).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "user_record", "list_completed", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "user_record", "list_completed", "success")
	return records, nil
}

func (r *GormUserRecordRepository) DuplicateSteamIDs(ctx context.Context) ([]DuplicateSteamID, error) {
	var dupes []DuplicateSteamID
	err := r.db.WithContext(ctx).Model(&domain.UserRecord{}).
		Select("steam_id, COUNT(*) as count").
		Where("steam_id IS NOT NULL AND steam_id <> ''").
		Group("steam_id").
		Having("COUNT(*) > 1").
		Order("count desc").
		Scan(&dupes).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "user_record", "duplicate_steam_ids", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "user_record", "duplicate_steam_ids", "success")
	return dupes, nil
}

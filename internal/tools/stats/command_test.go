package stats

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KayJJUNE/steam-bot/internal/domain"
	"github.com/KayJJUNE/steam-bot/internal/repository"
)

func newRepoForTest(t *testing.T) repository.UserRecordRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.UserRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.NewUserRecordRepository(db)
}

func TestRunPrintsMilestoneReport(t *testing.T) {
	users := newRepoForTest(t)
	ctx := context.Background()

	// Two users share a Steam account; one has finished everything.
	for _, f := range []struct {
		id      int64
		steamID string
		through domain.Step
	}{
		{1, "76561197960287930", domain.StepLinkAccount},
		{2, "76561197960287930", domain.StepLike},
	} {
		if _, err := users.InsertIfAbsent(ctx, f.id); err != nil {
			t.Fatalf("insert %d: %v", f.id, err)
		}
		if _, err := users.LinkSteamAccount(ctx, f.id, f.steamID); err != nil {
			t.Fatalf("link %d: %v", f.id, err)
		}
		for step := domain.StepWishlist; step <= f.through; step++ {
			if _, err := users.MarkStepComplete(ctx, f.id, step); err != nil {
				t.Fatalf("mark %d step %d: %v", f.id, int(step), err)
			}
		}
	}

	var out bytes.Buffer
	if err := Run(ctx, users, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	report := out.String()
	for _, want := range []string{
		"=== Quest Milestones ===",
		"total users",
		"completed all steps",
		"=== Completed through step 2 (1 users) ===",
		"=== Completed through step 4 (1 users) ===",
		"=== Steam accounts linked by multiple users (1) ===",
		"76561197960287930",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

func TestRunEmptyDatabase(t *testing.T) {
	users := newRepoForTest(t)

	var out bytes.Buffer
	if err := Run(context.Background(), users, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "=== Steam accounts linked by multiple users (0) ===") {
		t.Fatalf("expected empty duplicates section:\n%s", out.String())
	}
}

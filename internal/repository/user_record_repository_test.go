package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/KayJJUNE/steam-bot/internal/domain"
)

func TestInsertIfAbsentIsIdempotent(t *testing.T) {
	repo := NewUserRecordRepository(newRepositoryDBForTest(t))
	ctx := context.Background()

	first, err := repo.InsertIfAbsent(ctx, 1001)
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if first.DiscordID != 1001 || first.Linked() || first.AllComplete() {
		t.Fatalf("unexpected fresh record: %+v", first)
	}

	second, err := repo.InsertIfAbsent(ctx, 1001)
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("created_at changed on re-insert: %v vs %v", second.CreatedAt, first.CreatedAt)
	}
}

func TestFindNotFound(t *testing.T) {
	repo := NewUserRecordRepository(newRepositoryDBForTest(t))

	if _, err := repo.Find(context.Background(), 42); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLinkSteamAccountIsConditional(t *testing.T) {
	repo := NewUserRecordRepository(newRepositoryDBForTest(t))
	ctx := context.Background()
	if _, err := repo.InsertIfAbsent(ctx, 1); err != nil {
		t.Fatalf("insert: %v", err)
	}

	changed, err := repo.LinkSteamAccount(ctx, 1, "76561197960287930")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if !changed {
		t.Fatal("expected first link to change the record")
	}

	// A second link must not overwrite the stored account.
	changed, err = repo.LinkSteamAccount(ctx, 1, "76561197960287999")
	if err != nil {
		t.Fatalf("second link: %v", err)
	}
	if changed {
		t.Fatal("expected second link to be a no-op")
	}

	record, err := repo.Find(ctx, 1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !record.Quest1Complete || record.SteamID == nil || *record.SteamID != "76561197960287930" {
		t.Fatalf("unexpected record after links: %+v", record)
	}
}

func TestMarkStepCompleteReportsSingleWinner(t *testing.T) {
	repo := NewUserRecordRepository(newRepositoryDBForTest(t))
	ctx := context.Background()
	if _, err := repo.InsertIfAbsent(ctx, 7); err != nil {
		t.Fatalf("insert: %v", err)
	}

	changed, err := repo.MarkStepComplete(ctx, 7, domain.StepFollow)
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !changed {
		t.Fatal("expected first mark to win")
	}

	changed, err = repo.MarkStepComplete(ctx, 7, domain.StepFollow)
	if err != nil {
		t.Fatalf("re-mark: %v", err)
	}
	if changed {
		t.Fatal("expected second mark to affect zero rows")
	}

	record, err := repo.Find(ctx, 7)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !record.Quest3Complete || record.Quest2Complete || record.Quest4Complete {
		t.Fatalf("expected only step 3 set, got %+v", record)
	}
}

func TestMarkStepCompleteRejectsInvalidStep(t *testing.T) {
	repo := NewUserRecordRepository(newRepositoryDBForTest(t))

	if _, err := repo.MarkStepComplete(context.Background(), 7, domain.Step(9)); !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("expected ErrInvalidStep, got %v", err)
	}
}

func TestResetUserPreservesSteamID(t *testing.T) {
	repo := NewUserRecordRepository(newRepositoryDBForTest(t))
	ctx := context.Background()
	if _, err := repo.InsertIfAbsent(ctx, 5); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := repo.LinkSteamAccount(ctx, 5, "76561197960287930"); err != nil {
		t.Fatalf("link: %v", err)
	}
	for _, step := range []domain.Step{domain.StepWishlist, domain.StepFollow, domain.StepLike} {
		if _, err := repo.MarkStepComplete(ctx, 5, step); err != nil {
			t.Fatalf("mark step %d: %v", int(step), err)
		}
	}

	if err := repo.ResetUser(ctx, 5); err != nil {
		t.Fatalf("reset: %v", err)
	}
	record, err := repo.Find(ctx, 5)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if record.Quest1Complete || record.Quest2Complete || record.Quest3Complete || record.Quest4Complete {
		t.Fatalf("expected all flags cleared, got %+v", record)
	}
	if record.SteamID == nil || *record.SteamID != "76561197960287930" {
		t.Fatalf("expected steam id preserved, got %+v", record.SteamID)
	}
}

func TestResetUserNotFound(t *testing.T) {
	repo := NewUserRecordRepository(newRepositoryDBForTest(t))

	if err := repo.ResetUser(context.Background(), 404); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestResetAllUsersReturnsCount(t *testing.T) {
	repo := NewUserRecordRepository(newRepositoryDBForTest(t))
	ctx := context.Background()
	for _, id := range []int64{1, 2, 3} {
		if _, err := repo.InsertIfAbsent(ctx, id); err != nil {
			t.Fatalf("insert %d: %v", id, err)
		}
	}

	count, err := repo.ResetAllUsers(ctx)
	if err != nil {
		t.Fatalf("reset all: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 rows reset, got %d", count)
	}
}

func seedMilestoneFixture(t *testing.T, repo UserRecordRepository) {
	t.Helper()
	ctx := context.Background()
	// user 1: linked only; user 2: through step 2; user 3: everything.
	fixtures := []struct {
		id      int64
		steamID string
		through domain.Step
	}{
		{1, "76561197960287930", domain.StepLinkAccount},
		{2, "76561197960287931", domain.StepWishlist},
		{3, "76561197960287930", domain.StepLike},
	}
	for _, f := range fixtures {
		if _, err := repo.InsertIfAbsent(ctx, f.id); err != nil {
			t.Fatalf("insert %d: %v", f.id, err)
		}
		if _, err := repo.LinkSteamAccount(ctx, f.id, f.steamID); err != nil {
			t.Fatalf("link %d: %v", f.id, err)
		}
		for step := domain.StepWishlist; step <= f.through; step++ {
			if _, err := repo.MarkStepComplete(ctx, f.id, step); err != nil {
				t.Fatalf("mark %d step %d: %v", f.id, int(step), err)
			}
		}
	}
}

func TestMilestoneStatsAndLists(t *testing.T) {
	repo := NewUserRecordRepository(newRepositoryDBForTest(t))
	seedMilestoneFixture(t, repo)
	ctx := context.Background()

	stats, err := repo.MilestoneStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalUsers != 3 || stats.LinkedAccounts != 3 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.CompletedThrough2 != 2 || stats.CompletedThrough3 != 1 || stats.CompletedAll != 1 {
		t.Fatalf("unexpected milestone counts: %+v", stats)
	}

	through2, err := repo.ListCompletedThrough(ctx, domain.StepWishlist)
	if err != nil {
		t.Fatalf("list through 2: %v", err)
	}
	if len(through2) != 2 {
		t.Fatalf("expected 2 users through step 2, got %d", len(through2))
	}

	all, err := repo.ListCompletedThrough(ctx, domain.StepLike)
	if err != nil {
		t.Fatalf("list through 4: %v", err)
	}
	if len(all) != 1 || all[0].DiscordID != 3 {
		t.Fatalf("expected only user 3 fully complete, got %+v", all)
	}
}

func TestDuplicateSteamIDs(t *testing.T) {
	repo := NewUserRecordRepository(newRepositoryDBForTest(t))
	seedMilestoneFixture(t, repo)

	dupes, err := repo.DuplicateSteamIDs(context.Background())
	if err != nil {
		t.Fatalf("duplicates: %v", err)
	}
	if len(dupes) != 1 || dupes[0].SteamID != "76561197960287930" || dupes[0].Count != 2 {
		t.Fatalf("unexpected duplicate report: %+v", dupes)
	}
}

func TestFindBySteamID(t *testing.T) {
	repo := NewUserRecordRepository(newRepositoryDBForTest(t))
	seedMilestoneFixture(t, repo)

	records, err := repo.FindBySteamID(context.Background(), "76561197960287930")
	if err != nil {
		t.Fatalf("find by steam id: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 users sharing the account, got %d", len(records))
	}
}

package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KayJJUNE/steam-bot/internal/config"
	"github.com/KayJJUNE/steam-bot/internal/domain"
	"github.com/KayJJUNE/steam-bot/internal/http/handler"
	"github.com/KayJJUNE/steam-bot/internal/quest"
	"github.com/KayJJUNE/steam-bot/internal/repository"
	"github.com/KayJJUNE/steam-bot/internal/steam"
)

type noopWishlist struct{}

func (noopWishlist) Check(context.Context, string, string) steam.WishlistStatus {
	return steam.WishlistUnknown
}

type noopRewarder struct{}

func (noopRewarder) Grant(context.Context, int64) bool { return false }

func newRouterForTest(t *testing.T, adminToken string) (http.Handler, repository.UserRecordRepository) {
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

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := repository.NewUserRecordRepository(db)
	machine := quest.NewMachine(
		users,
		steam.NewIdentityVerifier("", discard),
		noopWishlist{},
		quest.NewMemorySessionStore(time.Minute),
		noopRewarder{},
		"123456",
		discard,
	)

	cfg := &config.Config{AdminAPIToken: adminToken}
	router := NewRouter(cfg, handler.NewHealthHandler(db), handler.NewAdminHandler(users, machine))
	return router, users
}

func doRequest(t *testing.T, router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router, _ := newRouterForTest(t, "secret")

	rec := doRequest(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminDisabledWithoutToken(t *testing.T) {
	router, _ := newRouterForTest(t, "")

	rec := doRequest(t, router, http.MethodGet, "/api/v1/admin/stats", "anything")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when admin token unset, got %d", rec.Code)
	}
}

func TestAdminRejectsWrongToken(t *testing.T) {
	router, _ := newRouterForTest(t, "secret")

	rec := doRequest(t, router, http.MethodGet, "/api/v1/admin/stats", "wrong")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminStats(t *testing.T) {
	router, users := newRouterForTest(t, "secret")
	ctx := context.Background()
	for _, id := range []int64{1, 2} {
		if _, err := users.InsertIfAbsent(ctx, id); err != nil {
			t.Fatalf("insert %d: %v", id, err)
		}
	}
	if _, err := users.LinkSteamAccount(ctx, 1, "76561197960287930"); err != nil {
		t.Fatalf("link: %v", err)
	}

	rec := doRequest(t, router, http.MethodGet, "/api/v1/admin/stats", "secret")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Milestones struct {
				TotalUsers     int64 `json:"total_users"`
				LinkedAccounts int64 `json:"linked_accounts"`
			} `json:"milestones"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Data.Milestones.TotalUsers != 2 || body.Data.Milestones.LinkedAccounts != 1 {
		t.Fatalf("unexpected stats body: %s", rec.Body.String())
	}
}

func TestAdminResetUser(t *testing.T) {
	router, users := newRouterForTest(t, "secret")
	ctx := context.Background()
	if _, err := users.InsertIfAbsent(ctx, 10); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := users.LinkSteamAccount(ctx, 10, "76561197960287930"); err != nil {
		t.Fatalf("link: %v", err)
	}

	rec := doRequest(t, router, http.MethodPost, "/api/v1/admin/users/10/reset", "secret")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	record, err := users.Find(ctx, 10)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if record.Quest1Complete {
		t.Fatalf("expected flags cleared, got %+v", record)
	}
	if record.SteamID == nil {
		t.Fatal("reset must preserve the steam id")
	}
}

func TestAdminResetUserNotFound(t *testing.T) {
	router, _ := newRouterForTest(t, "secret")

	rec := doRequest(t, router, http.MethodPost, "/api/v1/admin/users/404/reset", "secret")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAdminResetUserBadID(t *testing.T) {
	router, _ := newRouterForTest(t, "secret")

	rec := doRequest(t, router, http.MethodPost, "/api/v1/admin/users/abc/reset", "secret")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

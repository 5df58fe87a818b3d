package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/KayJJUNE/steam-bot/internal/observability"
)

const defaultStoreBaseURL = "https://store.steampowered.com"

// WishlistStatus is deliberately tri-state. Private profiles, login pages
// served where JSON was expected, and timeouts are all Unknown; only a parsed
// wishlist that lacks the app is Absent. Callers treat Absent and Unknown the
// same, the distinction is for logs.
type WishlistStatus int

const (
	WishlistUnknown WishlistStatus = iota
	WishlistPresent
	WishlistAbsent
)

func (s WishlistStatus) String() string {
	switch s {
	case WishlistPresent:
		return "present"
	case WishlistAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// WishlistChecker queries the store's per-profile wishlist data endpoint.
// The endpoint is undocumented: it answers JSON for public profiles, an HTML
// login page for private ones, and changes key typing between responses.
type WishlistChecker struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewWishlistChecker(timeout time.Duration, logger *slog.Logger) *WishlistChecker {
	return &WishlistChecker{
		baseURL: defaultStoreBaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// NewWishlistCheckerWithBaseURL exists for tests pointing at a fake store.
func NewWishlistCheckerWithBaseURL(baseURL string, client *http.Client, logger *slog.Logger) *WishlistChecker {
	c := &WishlistChecker{baseURL: baseURL, client: client, logger: logger}
	if c.client == nil {
		c.client = &http.Client{Timeout: 10 * time.Second}
	}
	return c
}

// Check reports whether appID is on the profile's public wishlist.
func (c *WishlistChecker) Check(ctx context.Context, steamID, appID string) WishlistStatus {
	status := c.check(ctx, steamID, appID)
	observability.RecordVerificationEvent(ctx, "wishlist_check", status.String())
	return status
}

func (c *WishlistChecker) check(ctx context.Context, steamID, appID string) WishlistStatus {
	endpoint := fmt.Sprintf("%s/wishlist/profiles/%s/wishlistdata/", c.baseURL, steamID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return WishlistUnknown
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "wishlist request failed", "steam_id", steamID, "error", err)
		return WishlistUnknown
	}
	defer resp.Body.Close()

	// 403 and 404 mean private profile or no such profile.
	if resp.StatusCode != http.StatusOK {
		c.logger.DebugContext(ctx, "wishlist endpoint non-200",
			"steam_id", steamID, "status", resp.StatusCode)
		return WishlistUnknown
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return WishlistUnknown
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return WishlistUnknown
	}
	if looksLikeHTML(trimmed) {
		// Login or error page where the JSON endpoint should be.
		return WishlistUnknown
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
		c.logger.DebugContext(ctx, "wishlist body unparseable", "steam_id", steamID, "error", err)
		return WishlistUnknown
	}

	for _, key := range appIDKeyForms(appID) {
		if _, ok := entries[key]; ok {
			return WishlistPresent
		}
	}
	return WishlistAbsent
}

func looksLikeHTML(body string) bool {
	lower := strings.ToLower(body)
	return strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html")
}

// appIDKeyForms returns the key spellings to probe: the id as configured and
// its canonical numeric form, since the endpoint is inconsistent about
// leading zeros and numeric typing.
func appIDKeyForms(appID string) []string {
	forms := []string{appID}
	if n, err := strconv.ParseUint(appID, 10, 64); err == nil {
		canonical := strconv.FormatUint(n, 10)
		if canonical != appID {
			forms = append(forms, canonical)
		}
	}
	return forms
}

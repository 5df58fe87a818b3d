package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/KayJJUNE/steam-bot/internal/observability"
)

const (
	defaultAPIBaseURL = "https://api.steampowered.com"

	// steamID64Length is the canonical length of a SteamID64 digit string.
	steamID64Length = 17
)

var (
	// ErrVanityNotFound covers both an unknown vanity name and an
	// unconfigured verifier; callers cannot resolve either way.
	ErrVanityNotFound = errors.New("vanity url could not be resolved")

	profilePathRe = regexp.MustCompile(`/profiles/(\d+)`)
	vanityPathRe  = regexp.MustCompile(`/id/([^/?#]+)`)
	digitsRe      = regexp.MustCompile(`^\d+$`)
)

// ProfileInput is the parsed form of what a user typed into the link modal:
// either a canonical SteamID64 or a vanity name that still needs resolving.
type ProfileInput struct {
	SteamID string
	Vanity  string
}

var ErrUnrecognizedInput = errors.New("input is not a steam id or profile url")

// ParseProfileInput accepts a raw SteamID64, a /profiles/<id> URL or an
// /id/<vanity> URL. Anything else is rejected.
func ParseProfileInput(raw string) (ProfileInput, error) {
	if m := profilePathRe.FindStringSubmatch(raw); m != nil {
		return ProfileInput{SteamID: m[1]}, nil
	}
	if m := vanityPathRe.FindStringSubmatch(raw); m != nil {
		return ProfileInput{Vanity: m[1]}, nil
	}
	if digitsRe.MatchString(raw) {
		return ProfileInput{SteamID: raw}, nil
	}
	return ProfileInput{}, ErrUnrecognizedInput
}

// ValidIDFormat is the structural check used when the Web API is unavailable:
// exactly 17 digits. It cannot tell a well-formed id from a nonexistent one.
func ValidIDFormat(steamID string) bool {
	return len(steamID) == steamID64Length && digitsRe.MatchString(steamID)
}

// IdentityVerifier validates claimed Steam accounts against the Steam Web
// API. Without an API key it degrades to the structural format check, and a
// transport or parse failure degrades the same way rather than blocking
// linking on Steam availability.
type IdentityVerifier struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewIdentityVerifier(apiKey string, logger *slog.Logger) *IdentityVerifier {
	return &IdentityVerifier{
		apiKey:  apiKey,
		baseURL: defaultAPIBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// NewIdentityVerifierWithBaseURL exists for tests pointing at a fake API.
func NewIdentityVerifierWithBaseURL(apiKey, baseURL string, client *http.Client, logger *slog.Logger) *IdentityVerifier {
	v := NewIdentityVerifier(apiKey, logger)
	v.baseURL = baseURL
	if client != nil {
		v.client = client
	}
	return v
}

func (v *IdentityVerifier) Configured() bool { return v.apiKey != "" }

type vanityResponse struct {
	Response struct {
		Success int    `json:"success"`
		SteamID string `json:"steamid"`
	} `json:"response"`
}

// ResolveVanity turns a custom profile name into a SteamID64. It requires a
// configured API key; there is no offline fallback for vanity names.
func (v *IdentityVerifier) ResolveVanity(ctx context.Context, name string) (string, error) {
	if !v.Configured() {
		observability.RecordVerificationEvent(ctx, "resolve_vanity", "unconfigured")
		return "", ErrVanityNotFound
	}

	endpoint := fmt.Sprintf("%s/ISteamUser/ResolveVanityURL/v0001/?%s", v.baseURL, url.Values{
		"key":       {v.apiKey},
		"vanityurl": {name},
	}.Encode())
	var body vanityResponse
	if err := v.getJSON(ctx, endpoint, &body); err != nil {
		v.logger.WarnContext(ctx, "vanity resolution failed", "vanity", name, "error", err)
		observability.RecordVerificationEvent(ctx, "resolve_vanity", "error")
		return "", ErrVanityNotFound
	}
	if body.Response.Success != 1 || body.Response.SteamID == "" {
		observability.RecordVerificationEvent(ctx, "resolve_vanity", "not_found")
		return "", ErrVanityNotFound
	}
	observability.RecordVerificationEvent(ctx, "resolve_vanity", "success")
	return body.Response.SteamID, nil
}

type playerSummariesResponse struct {
	Response struct {
		Players []struct {
			SteamID string `json:"steamid"`
		} `json:"players"`
	} `json:"response"`
}

// Verify reports whether the id refers to a real Steam account. With an API
// key the answer requires exactly one player whose id matches the input; on
// any transport or parse failure the structural check stands in so a Steam
// outage does not block linking.
func (v *IdentityVerifier) Verify(ctx context.Context, steamID string) bool {
	if !v.Configured() {
		observability.RecordVerificationEvent(ctx, "verify_identity", "degraded")
		return ValidIDFormat(steamID)
	}

	endpoint := fmt.Sprintf("%s/ISteamUser/GetPlayerSummaries/v0002/?%s", v.baseURL, url.Values{
		"key":      {v.apiKey},
		"steamids": {steamID},
	}.Encode())
	var body playerSummariesResponse
	if err := v.getJSON(ctx, endpoint, &body); err != nil {
		v.logger.WarnContext(ctx, "identity verification degraded to format check",
			"steam_id", steamID, "error", err)
		observability.RecordVerificationEvent(ctx, "verify_identity", "degraded")
		return ValidIDFormat(steamID)
	}

	players := body.Response.Players
	ok := len(players) == 1 && players[0].SteamID == steamID
	if ok {
		observability.RecordVerificationEvent(ctx, "verify_identity", "success")
	} else {
		observability.RecordVerificationEvent(ctx, "verify_identity", "not_found")
	}
	return ok
}

func (v *IdentityVerifier) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("steam api returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

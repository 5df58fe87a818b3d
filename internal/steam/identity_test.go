package steam

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseProfileInput(t *testing.T) {
	cases := []struct {
		in      string
		steamID string
		vanity  string
		wantErr bool
	}{
		{in: "76561197960287930", steamID: "76561197960287930"},
		{in: "https://steamcommunity.com/profiles/76561197960287930", steamID: "76561197960287930"},
		{in: "https://steamcommunity.com/profiles/76561197960287930/", steamID: "76561197960287930"},
		{in: "https://steamcommunity.com/id/gaben", vanity: "gaben"},
		{in: "https://steamcommunity.com/id/gaben/?l=en", vanity: "gaben"},
		{in: "not-a-valid-id", wantErr: true},
		{in: "", wantErr: true},
		{in: "https://steamcommunity.com/groups/whatever", wantErr: true},
	}
	for _, c := range cases {
		got, err := ParseProfileInput(c.in)
		if c.wantErr {
			if !errors.Is(err, ErrUnrecognizedInput) {
				t.Fatalf("ParseProfileInput(%q): expected ErrUnrecognizedInput, got %v", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseProfileInput(%q): %v", c.in, err)
		}
		if got.SteamID != c.steamID || got.Vanity != c.vanity {
			t.Fatalf("ParseProfileInput(%q) = %+v, want steamID=%q vanity=%q", c.in, got, c.steamID, c.vanity)
		}
	}
}

func TestValidIDFormat(t *testing.T) {
	cases := map[string]bool{
		"76561197960287930":  true,
		"7656119796028793":   false, // 16 digits
		"765611979602879301": false, // 18 digits
		"7656119796028793a":  false,
		"":                   false,
	}
	for in, want := range cases {
		if got := ValidIDFormat(in); got != want {
			t.Fatalf("ValidIDFormat(%q)=%v want=%v", in, got, want)
		}
	}
}

func TestVerifyUnconfiguredUsesFormatCheck(t *testing.T) {
	v := NewIdentityVerifier("", discardLogger())

	if !v.Verify(context.Background(), "76561197960287930") {
		t.Fatal("expected structural pass for 17-digit id")
	}
	if v.Verify(context.Background(), "12345") {
		t.Fatal("expected structural fail for short id")
	}
}

func TestVerifyConfiguredExactMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"players":[{"steamid":"76561197960287930"}]}}`))
	}))
	defer srv.Close()

	v := NewIdentityVerifierWithBaseURL("key", srv.URL, srv.Client(), discardLogger())
	if !v.Verify(context.Background(), "76561197960287930") {
		t.Fatal("expected match for returned player")
	}
	// The API echoing a different id is not a pass.
	if v.Verify(context.Background(), "76561197960287931") {
		t.Fatal("expected mismatch to fail verification")
	}
}

func TestVerifyConfiguredNoPlayers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"players":[]}}`))
	}))
	defer srv.Close()

	v := NewIdentityVerifierWithBaseURL("key", srv.URL, srv.Client(), discardLogger())
	if v.Verify(context.Background(), "76561197960287930") {
		t.Fatal("expected empty player list to fail verification")
	}
}

func TestVerifyTransportFailureDegradesToFormatCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := NewIdentityVerifierWithBaseURL("key", srv.URL, srv.Client(), discardLogger())
	if !v.Verify(context.Background(), "76561197960287930") {
		t.Fatal("expected degraded pass for well-formed id on api failure")
	}
	if v.Verify(context.Background(), "12345") {
		t.Fatal("expected degraded fail for malformed id on api failure")
	}
}

func TestResolveVanity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("vanityurl") == "gaben" {
			w.Write([]byte(`{"response":{"success":1,"steamid":"76561197960287930"}}`))
			return
		}
		w.Write([]byte(`{"response":{"success":42,"message":"No match"}}`))
	}))
	defer srv.Close()

	v := NewIdentityVerifierWithBaseURL("key", srv.URL, srv.Client(), discardLogger())

	id, err := v.ResolveVanity(context.Background(), "gaben")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != "76561197960287930" {
		t.Fatalf("unexpected id %q", id)
	}

	if _, err := v.ResolveVanity(context.Background(), "nobody"); !errors.Is(err, ErrVanityNotFound) {
		t.Fatalf("expected ErrVanityNotFound, got %v", err)
	}
}

func TestResolveVanityUnconfigured(t *testing.T) {
	v := NewIdentityVerifier("", discardLogger())

	if _, err := v.ResolveVanity(context.Background(), "gaben"); !errors.Is(err, ErrVanityNotFound) {
		t.Fatalf("expected ErrVanityNotFound without api key, got %v", err)
	}
}

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/KayJJUNE/steam-bot/internal/http/response"
)

// AdminToken guards the operator endpoints with a static bearer token. An
// empty configured token disables the admin surface entirely rather than
// leaving it open.
func AdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				response.Error(w, r, http.StatusServiceUnavailable, "ADMIN_DISABLED", "admin API is not configured")
				return
			}
			presented := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid admin token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/KayJJUNE/steam-bot/internal/config"
	"github.com/KayJJUNE/steam-bot/internal/http/handler"
	"github.com/KayJJUNE/steam-bot/internal/http/middleware"
)

// NewRouter wires the ops surface: liveness plus the token-guarded admin API.
func NewRouter(cfg *config.Config, health *handler.HealthHandler, admin *handler.AdminHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", health.Healthz)

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.AdminToken(cfg.AdminAPIToken))
		r.Get("/stats", admin.Stats)
		r.Post("/users/{id}/reset", admin.ResetUser)
	})

	return r
}

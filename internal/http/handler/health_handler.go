package handler

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/KayJJUNE/steam-bot/internal/http/response"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		response.Error(w, r, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "database ping failed")
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

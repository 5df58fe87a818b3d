package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/KayJJUNE/steam-bot/internal/http/response"
	"github.com/KayJJUNE/steam-bot/internal/quest"
	"github.com/KayJJUNE/steam-bot/internal/repository"
)

// AdminHandler exposes the reporting and reset operations the Python-era
// console scripts provided, as authenticated HTTP endpoints.
type AdminHandler struct {
	users   repository.UserRecordRepository
	machine *quest.Machine
}

func NewAdminHandler(users repository.UserRecordRepository, machine *quest.Machine) *AdminHandler {
	return &AdminHandler{users: users, machine: machine}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.users.MilestoneStats(r.Context())
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load stats")
		return
	}
	dupes, err := h.users.DuplicateSteamIDs(r.Context())
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load duplicate report")
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{
		"milestones":          stats,
		"duplicate_steam_ids": dupes,
	})
}

func (h *AdminHandler) ResetUser(w http.ResponseWriter, r *http.Request) {
	discordID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "discord id must be numeric")
		return
	}
	if err := h.machine.ResetUser(r.Context(), discordID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found")
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "reset failed")
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"discord_id": discordID, "reset": true})
}

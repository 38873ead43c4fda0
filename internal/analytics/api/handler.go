package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"myday-qr/internal/analytics"
	"myday-qr/internal/apperr"
	"myday-qr/internal/logger"
	"myday-qr/internal/utils"
)

// Handler handles analytics HTTP endpoints
type Handler struct {
	Service *analytics.Service
	Logger  *logger.Logger
}

func NewHandler(service *analytics.Service, logger *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: logger}
}

// RegisterRoutes mounts the dashboard endpoints under an admin-gated router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.GetStats)
	r.Get("/stats/daily", h.GetDailySales)
	r.Get("/users", h.GetUsers)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		h.Logger.Error("ANALYTICS", fmt.Sprintf("Stats: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", stats)
}

func (h *Handler) GetDailySales(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			utils.WriteError(w, apperr.Invalid("invalid days", apperr.FieldErrors{"days": "must be between 1 and 365"}))
			return
		}
		days = n
	}

	sales, err := h.Service.DailySales(r.Context(), days)
	if err != nil {
		h.Logger.Error("ANALYTICS", fmt.Sprintf("DailySales: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", sales)
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.Users(r.Context())
	if err != nil {
		h.Logger.Error("ANALYTICS", fmt.Sprintf("Users: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", users)
}

package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"myday-qr/internal/content"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/utils"
)

type Handler struct {
	Service *content.Service
	Logger  *logger.Logger
}

func NewHandler(svc *content.Service, log *logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/site-config", h.List)
	r.Put("/site-config/{key}", h.Upsert)
}

// Public serves the settings map the site reads on load.
func (h *Handler) Public(w http.ResponseWriter, r *http.Request) {
	values, err := h.Service.Public(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("SiteConfig: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", values)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.List(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", rows)
}

func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req models.SiteConfigUpdate
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	row, err := h.Service.Upsert(r.Context(), chi.URLParam(r, "key"), req)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("UpsertSiteConfig: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "setting saved", row)
}

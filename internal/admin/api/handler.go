package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"myday-qr/internal/admin"
	"myday-qr/internal/apperr"
	"myday-qr/internal/auth"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/utils"
)

type Handler struct {
	Gate    *admin.Gate
	Service *admin.Service
	Logger  *logger.Logger
}

func NewHandler(gate *admin.Gate, service *admin.Service, log *logger.Logger) *Handler {
	return &Handler{Gate: gate, Service: service, Logger: log}
}

type verifyRequest struct {
	AccessToken string `json:"accessToken"`
}

// Verify answers {isAdmin, role?}. Token problems are 401; a valid token that
// is not exactly one administrator is a plain isAdmin=false.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if r.ContentLength != 0 {
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			utils.WriteError(w, err)
			return
		}
	}
	if req.AccessToken == "" {
		req.AccessToken, _ = auth.ExtractTokenFromRequest(r)
	}

	result, err := h.Gate.Verify(r.Context(), req.AccessToken)
	switch {
	case err == nil:
		utils.WriteJSON(w, http.StatusOK, result)
	case errors.Is(err, apperr.ErrUnauthorized):
		utils.WriteJSON(w, http.StatusUnauthorized, result)
	case admin.IsDenied(err):
		utils.WriteJSON(w, http.StatusOK, result)
	default:
		h.Logger.Error("API", fmt.Sprintf("Verify: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, result)
	}
}

func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	var req models.AdminSetupRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	created, err := h.Service.Setup(r.Context(), req)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("Setup: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "administrator ready", created)
}

// RegisterRoutes mounts the roster under /admins. Reads need an admin, writes
// need a super_admin.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admins", func(r chi.Router) {
		r.Get("/", h.List)
		r.Group(func(r chi.Router) {
			r.Use(admin.RequireSuperAdmin)
			r.Post("/", h.Create)
			r.Put("/{id}/role", h.UpdateRole)
			r.Delete("/{id}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	admins, err := h.Service.List(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListAdmins: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", admins)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := admin.AdministratorFrom(r.Context())

	var req models.CreateAdminRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), actor, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "administrator added", created)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, _ := admin.AdministratorFrom(r.Context())

	var req struct {
		Role string `json:"role" validate:"required"`
	}
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	updated, err := h.Service.UpdateRole(r.Context(), actor, chi.URLParam(r, "id"), req.Role)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "role updated", updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := admin.AdministratorFrom(r.Context())

	if err := h.Service.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		utils.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

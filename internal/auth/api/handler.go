package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"myday-qr/internal/apperr"
	"myday-qr/internal/auth"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/utils"
)

type Handler struct {
	Accounts *auth.Accounts
	Logger   *logger.Logger
}

func NewHandler(accounts *auth.Accounts, log *logger.Logger) *Handler {
	return &Handler{Accounts: accounts, Logger: log}
}

// RegisterPublicRoutes mounts register and login under /auth.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	user, err := h.Accounts.Register(r.Context(), req)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("Register: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "account created", user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	token, err := h.Accounts.Login(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, token)
}

// Me returns the account behind the bearer token, or the token's claims when
// the identity lives at an external provider.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.WriteError(w, apperr.ErrUnauthorized)
		return
	}

	user, err := h.Accounts.Get(r.Context(), principal.ID)
	if err != nil {
		utils.WriteSuccess(w, http.StatusOK, "", principal)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", user)
}

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"myday-qr/internal/admin"
	"myday-qr/internal/admindata"
	"myday-qr/internal/apperr"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/utils"
)

const maxBodyBytes = 1 << 20

type listRequest struct {
	Table       string           `json:"table" validate:"required"`
	Query       models.ListQuery `json:"query"`
	AccessToken string           `json:"accessToken,omitempty"`
}

type saveRequest struct {
	Table       string                 `json:"table" validate:"required"`
	ID          string                 `json:"id,omitempty"`
	Updates     map[string]interface{} `json:"updates"`
	AccessToken string                 `json:"accessToken,omitempty"`
}

type deleteRequest struct {
	Table       string `json:"table" validate:"required"`
	ID          string `json:"id" validate:"required"`
	AccessToken string `json:"accessToken,omitempty"`
}

type Handler struct {
	Service *admindata.Service
	Logger  *logger.Logger
}

func NewHandler(svc *admindata.Service, log *logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// RegisterRoutes mounts the proxy on r. The caller wraps r with BodyToken,
// auth.Middleware and the admin gate, in that order.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.List)
	r.Put("/", h.Save)
	r.Delete("/", h.Delete)
}

// BodyToken lets clients that cannot set headers send the bearer token as
// accessToken in the JSON body. A token in the Authorization header wins.
func BodyToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		r.Body.Close()
		if err != nil {
			utils.WriteError(w, apperr.Invalid("invalid request body", nil))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		var peek struct {
			AccessToken string `json:"accessToken"`
		}
		if json.Unmarshal(body, &peek) == nil && peek.AccessToken != "" {
			r.Header.Set("Authorization", "Bearer "+peek.AccessToken)
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	actor, _ := admin.AdministratorFrom(r.Context())

	rows, err := h.Service.List(r.Context(), actor, req.Table, req.Query)
	if err != nil {
		h.fail(w, "List", req.Table, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", rows)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	actor, _ := admin.AdministratorFrom(r.Context())

	row, err := h.Service.Save(r.Context(), actor, req.Table, req.ID, req.Updates)
	if err != nil {
		h.fail(w, "Save", req.Table, err)
		return
	}
	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	utils.WriteSuccess(w, status, "", row)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	actor, _ := admin.AdministratorFrom(r.Context())

	if err := h.Service.Delete(r.Context(), actor, req.Table, req.ID); err != nil {
		h.fail(w, "Delete", req.Table, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "deleted", nil)
}

func (h *Handler) fail(w http.ResponseWriter, op, table string, err error) {
	if apperr.Status(err) >= http.StatusInternalServerError {
		h.Logger.Error("API", fmt.Sprintf("AdminData %s %s: %v", op, table, err))
	} else {
		h.Logger.Warn("API", fmt.Sprintf("AdminData %s %s: %v", op, table, err))
	}
	utils.WriteError(w, err)
}

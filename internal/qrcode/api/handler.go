package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"myday-qr/internal/apperr"
	"myday-qr/internal/auth"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/qrcode"
	"myday-qr/internal/utils"
)

type Handler struct {
	Service *qrcode.Service
	Logger  *logger.Logger
	HomeURL string
}

func NewHandler(service *qrcode.Service, homeURL string, log *logger.Logger) *Handler {
	return &Handler{Service: service, HomeURL: homeURL, Logger: log}
}

// RegisterOwnerRoutes mounts the owner endpoints. It expects auth.Middleware upstream.
func (h *Handler) RegisterOwnerRoutes(r chi.Router) {
	r.Get("/qrcodes", h.List)
	r.Post("/qrcodes", h.Create)
	r.Put("/qrcodes", h.Rename)
	r.Delete("/qrcodes", h.Delete)
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/qrcodes", h.AdminList)
	r.Delete("/qrcodes/{id}", h.AdminDelete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	codes, err := h.Service.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListQRCodes: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", codes)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.QRCodeRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	qr, err := h.Service.Create(r.Context(), auth.UserID(r.Context()), req.Phrase)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("CreateQRCode: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "qr code created", qr)
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req models.QRCodeRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	qr, err := h.Service.Rename(r.Context(), req.ID, auth.UserID(r.Context()), req.Phrase)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("RenameQRCode %s: %v", req.ID, err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "qr code updated", qr)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if err := h.Service.Delete(r.Context(), id, auth.UserID(r.Context())); err != nil {
		h.Logger.Warn("API", fmt.Sprintf("DeleteQRCode %s: %v", id, err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "qr code deleted", nil)
}

func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Resolve(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

// Viewer renders the public page for a short code. Missing and malformed codes
// both get the not-found page, with their own status codes.
func (h *Handler) Viewer(w http.ResponseWriter, r *http.Request) {
	data := viewerData{HomeURL: h.HomeURL}
	status := http.StatusOK

	view, err := h.Service.Resolve(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		status = apperr.Status(err)
		if status == http.StatusInternalServerError {
			h.Logger.Error("API", fmt.Sprintf("Viewer: %v", err))
		}
	} else {
		data.Found = true
		data.Phrase = view.Phrase
		data.CreatedAt = view.CreatedAt
	}

	var buf bytes.Buffer
	if err := viewerTemplate.Execute(&buf, data); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Viewer: template failed: %v", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (h *Handler) PNG(w http.ResponseWriter, r *http.Request) {
	png, err := h.Service.RenderPNG(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(png)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	codes, err := h.Service.ListAll(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("AdminListQRCodes: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", codes)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.AdminDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

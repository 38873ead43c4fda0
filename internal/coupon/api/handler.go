package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"myday-qr/internal/coupon"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/utils"
)

type Handler struct {
	Service *coupon.Service
	Logger  *logger.Logger
}

type activeRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func NewHandler(svc *coupon.Service, log *logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/coupons", h.List)
	r.Post("/coupons", h.Create)
	r.Put("/coupons/{id}", h.Update)
	r.Put("/coupons/{id}/active", h.SetActive)
	r.Delete("/coupons/{id}", h.Delete)
}

// Check is public: the cart asks whether a code applies to its subtotal.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var req models.CouponCheckRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	result, err := h.Service.Check(r.Context(), req)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("CheckCoupon: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", result)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.Service.List(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListCoupons: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", coupons)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.Coupon
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	c, err := h.Service.Create(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "coupon created", c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.Coupon
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	c, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "coupon updated", c)
}

func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req activeRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	c, err := h.Service.SetActive(r.Context(), chi.URLParam(r, "id"), *req.IsActive)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "coupon updated", c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

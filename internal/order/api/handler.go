package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"myday-qr/internal/apperr"
	"myday-qr/internal/auth"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/order"
	"myday-qr/internal/utils"
)

type Handler struct {
	OrderService *order.Service
	Logger       *logger.Logger
}

func NewHandler(svc *order.Service, log *logger.Logger) *Handler {
	return &Handler{OrderService: svc, Logger: log}
}

// RegisterAdminRoutes mounts order management. Callers wrap it with the admin gate.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/orders", h.ListOrders)
	r.Get("/orders/{orderId}", h.GetOrder)
	r.Put("/orders/{orderId}/status", h.UpdateStatus)
	r.Delete("/orders/{orderId}", h.DeleteOrder)
}

// Checkout places the cart. The bearer token is optional; guests check out too.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	principal, _ := auth.PrincipalFrom(r.Context())
	result, err := h.OrderService.Checkout(r.Context(), req, principal)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("Checkout: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "order placed", result)
}

func (h *Handler) Prefill(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())
	prefill, err := h.OrderService.Prefill(r.Context(), principal)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", prefill)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.OrderFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		utils.WriteError(w, apperr.Invalid("invalid limit", apperr.FieldErrors{"limit": "must be a number"}))
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		utils.WriteError(w, apperr.Invalid("invalid offset", apperr.FieldErrors{"offset": "must be a number"}))
		return
	}

	orders, err := h.OrderService.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListOrders: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", orders)
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.OrderService.Get(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", o)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var req models.StatusUpdateRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	updated, err := h.OrderService.SetStatus(r.Context(), orderID, req.Status)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("UpdateStatus %s: %v", orderID, err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "order updated", updated)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	if err := h.OrderService.Delete(r.Context(), orderID); err != nil {
		h.Logger.Warn("API", fmt.Sprintf("DeleteOrder %s: %v", orderID, err))
		utils.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

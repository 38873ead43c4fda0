package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"myday-qr/internal/catalog"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/utils"
)

type Handler struct {
	Service *catalog.Service
	Logger  *logger.Logger
}

func NewHandler(svc *catalog.Service, log *logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/storefront", h.Storefront)
	r.Get("/examples", h.PublicExamples)
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Post("/products", h.CreateProduct)
	r.Put("/products/{id}", h.UpdateProduct)
	r.Delete("/products/{id}", h.DeleteProduct)

	r.Get("/examples", h.ListExamples)
	r.Post("/examples", h.CreateExample)
	r.Put("/examples/{id}", h.UpdateExample)
	r.Delete("/examples/{id}", h.DeleteExample)
}

func (h *Handler) Storefront(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Service.Storefront(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Storefront: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", cats)
}

func (h *Handler) PublicExamples(w http.ResponseWriter, r *http.Request) {
	examples, err := h.Service.PublicExamples(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("PublicExamples: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", examples)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.ListProducts(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", products)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.Product
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	p, err := h.Service.CreateProduct(r.Context(), req)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("CreateProduct: %v", err))
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "product created", p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.Product
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	p, err := h.Service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "product updated", p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListExamples(w http.ResponseWriter, r *http.Request) {
	examples, err := h.Service.ListExamples(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", examples)
}

func (h *Handler) CreateExample(w http.ResponseWriter, r *http.Request) {
	var req models.Example
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	e, err := h.Service.CreateExample(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "example created", e)
}

func (h *Handler) UpdateExample(w http.ResponseWriter, r *http.Request) {
	var req models.Example
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	e, err := h.Service.UpdateExample(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "example updated", e)
}

func (h *Handler) DeleteExample(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteExample(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

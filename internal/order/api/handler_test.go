package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myday-qr/internal/auth"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/order"
	orderdb "myday-qr/internal/order/db"
	"myday-qr/internal/testutil"
)

const cartBody = `{
	"items": [{"product_name": "Caneca LOVE", "quantity": 2, "unit_price": 13.90}],
	"customer": {"name": "Ana", "email": "ana@example.com", "phone": "+351910000000", "address": "Rua X, 1"},
	"short_code": "ab12cd34"
}`

func setupRouter(t *testing.T) chi.Router {
	store := &orderdb.DB{Bun: testutil.NewSQLiteDB(t, (*models.Order)(nil))}
	svc := order.NewService(store, order.Options{ContactEmail: "geral@mydayqr.pt"}, logger.NewNopLogger())
	h := NewHandler(svc, logger.NewNopLogger())

	r := chi.NewRouter()
	r.Post("/api/checkout", h.Checkout)
	r.With(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := &models.Principal{ID: "user-1", Email: "ana@example.com", FullName: "Ana"}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}).Get("/api/checkout/prefill", h.Prefill)
	r.Route("/api/admin", h.RegisterAdminRoutes)
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCheckoutAndAdminFlow(t *testing.T) {
	r := setupRouter(t)

	rec := send(r, http.MethodPost, "/api/checkout", cartBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var placed struct {
		Data models.CheckoutResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	require.Len(t, placed.Data.Orders, 2)
	id := placed.Data.Orders[0].ID

	rec = send(r, http.MethodGet, "/api/admin/orders?status=pending&search=caneca", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Data []models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed.Data, 2)

	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodGet, "/api/admin/orders?limit=abc", "").Code)

	rec = send(r, http.MethodPut, "/api/admin/orders/"+id+"/status", `{"status":"shipped"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"shipped"`)

	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPut, "/api/admin/orders/"+id+"/status", `{"status":"lost"}`).Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodPut, "/api/admin/orders/nope/status", `{"status":"paid"}`).Code)

	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/api/admin/orders/"+id, "").Code)
	assert.Equal(t, http.StatusNoContent, send(r, http.MethodDelete, "/api/admin/orders/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodGet, "/api/admin/orders/"+id, "").Code)
}

func TestCheckoutValidationErrors(t *testing.T) {
	r := setupRouter(t)

	rec := send(r, http.MethodPost, "/api/checkout", `{"items":[],"customer":{"name":"Ana","email":"nope","phone":"1","address":"x"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fields"`)

	rec = send(r, http.MethodPost, "/api/checkout", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPrefillEndpoint(t *testing.T) {
	r := setupRouter(t)

	rec := send(r, http.MethodGet, "/api/checkout/prefill", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"ana@example.com"`)
	assert.Contains(t, rec.Body.String(), `"name":"Ana"`)
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myday-qr/internal/admin"
	admindb "myday-qr/internal/admin/db"
	"myday-qr/internal/admindata"
	"myday-qr/internal/apperr"
	"myday-qr/internal/auth"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/testutil"
)

type tokenTable map[string]*models.Principal

func (t tokenTable) ResolveToken(ctx context.Context, rawToken string) (*models.Principal, error) {
	if p, ok := t[rawToken]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("unknown token: %w", apperr.ErrUnauthorized)
}

// memoryResource records the last write it received.
type memoryResource struct {
	rows    []map[string]interface{}
	savedBy string
}

func (m *memoryResource) List(ctx context.Context, q models.ListQuery) (interface{}, error) {
	return m.rows, nil
}

func (m *memoryResource) Save(ctx context.Context, actor *models.Administrator, id string, updates map[string]interface{}) (interface{}, error) {
	m.savedBy = actor.ID
	m.rows = append(m.rows, updates)
	return updates, nil
}

func (m *memoryResource) Delete(ctx context.Context, actor *models.Administrator, id string) error {
	m.rows = nil
	return nil
}

func setupRouter(t *testing.T) (http.Handler, *memoryResource) {
	log := logger.NewNopLogger()
	store := &admindb.DB{Bun: testutil.NewSQLiteDB(t, (*models.Administrator)(nil))}
	userID := "u-admin"
	require.NoError(t, store.Create(context.Background(), &models.Administrator{
		ID: "a-1", Email: "admin@example.com", Role: models.RoleAdmin, UserID: &userID, CreatedAt: time.Now(),
	}))

	tokens := tokenTable{
		"tok":   {ID: "u-admin", Email: "admin@example.com"},
		"guest": {ID: "u-guest", Email: "guest@example.com"},
	}
	gate := admin.NewGate(tokens, store, log)

	res := &memoryResource{}
	svc := admindata.NewService(log)
	svc.Register("products", res, admindata.ReadWrite)
	svc.Register("users", res, admindata.ReadOnly)
	h := NewHandler(svc, log)

	r := chi.NewRouter()
	r.Route("/api/admin-data", func(r chi.Router) {
		r.Use(BodyToken, auth.Middleware(tokens, log), gate.RequireAdmin)
		h.RegisterRoutes(r)
	})
	return r, res
}

func send(r http.Handler, method, body, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/admin-data", strings.NewReader(body))
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAdminDataTokenFromBodyOrHeader(t *testing.T) {
	r, _ := setupRouter(t)

	rec := send(r, http.MethodPost, `{"table":"products","accessToken":"tok"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = send(r, http.MethodPost, `{"table":"products","accessToken":"nope"}`, "Bearer tok")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, send(r, http.MethodPost, `{"table":"products"}`, "").Code)
	assert.Equal(t, http.StatusUnauthorized, send(r, http.MethodPost, `{"table":"products","accessToken":"nope"}`, "").Code)
	assert.Equal(t, http.StatusForbidden, send(r, http.MethodPost, `{"table":"products","accessToken":"guest"}`, "").Code)
}

func TestAdminDataOperations(t *testing.T) {
	r, res := setupRouter(t)

	rec := send(r, http.MethodPut, `{"table":"products","updates":{"name":"Caneca"},"accessToken":"tok"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"name":"Caneca"`)
	assert.Equal(t, "a-1", res.savedBy)

	rec = send(r, http.MethodPut, `{"table":"products","id":"p-1","updates":{"name":"Caneca 2"},"accessToken":"tok"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = send(r, http.MethodPost, `{"table":"products","query":{"order":{"column":"name"}},"accessToken":"tok"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Caneca 2"`)

	assert.Equal(t, http.StatusForbidden, send(r, http.MethodPost, `{"table":"secrets","accessToken":"tok"}`, "").Code)
	assert.Equal(t, http.StatusForbidden, send(r, http.MethodPut, `{"table":"users","id":"u-1","updates":{"email":"x"},"accessToken":"tok"}`, "").Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPut, `{"table":"products","updates":{},"accessToken":"tok"}`, "").Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodDelete, `{"table":"products","accessToken":"tok"}`, "").Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPost, `{"table":"products","limit":5,"accessToken":"tok"}`, "").Code)

	rec = send(r, http.MethodDelete, `{"table":"products","id":"p-1","accessToken":"tok"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, res.rows)
}

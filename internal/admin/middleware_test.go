package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"myday-qr/internal/auth"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
)

func TestRequireAdminAndSuperAdmin(t *testing.T) {
	store := setupStore(t)
	seedAdmin(t, store, "a-1", "admin@example.com", models.RoleAdmin, strPtr("u-admin"))
	seedAdmin(t, store, "s-1", "super@example.com", models.RoleSuperAdmin, strPtr("u-super"))
	gate := NewGate(tokenTable{}, store, logger.NewNopLogger())

	var role string
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, _ := AdministratorFrom(r.Context())
		role = a.Role
	})
	adminOnly := gate.RequireAdmin(ok)
	superOnly := gate.RequireAdmin(RequireSuperAdmin(ok))

	serve := func(h http.Handler, p *models.Principal) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if p != nil {
			req = req.WithContext(auth.WithPrincipal(req.Context(), p))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(adminOnly, nil))
	assert.Equal(t, http.StatusForbidden, serve(adminOnly, &models.Principal{ID: "u-x", Email: "x@example.com"}))

	assert.Equal(t, http.StatusOK, serve(adminOnly, &models.Principal{ID: "u-admin"}))
	assert.Equal(t, models.RoleAdmin, role)
	assert.Equal(t, http.StatusForbidden, serve(superOnly, &models.Principal{ID: "u-admin"}))

	assert.Equal(t, http.StatusOK, serve(superOnly, &models.Principal{ID: "u-super"}))
	assert.Equal(t, models.RoleSuperAdmin, role)
}

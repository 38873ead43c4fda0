package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"myday-qr/internal/auth"
	authdb "myday-qr/internal/auth/db"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/testutil"
)

func setupHandler(t *testing.T) (*Handler, *auth.JWTResolver, chi.Router) {
	store := &authdb.DB{Bun: testutil.NewSQLiteDB(t, (*models.User)(nil))}
	issuer := auth.NewJWTIssuer("secret", time.Hour)
	accounts := auth.NewAccounts(store, issuer, logger.NewNopLogger())
	accounts.Cost = bcrypt.MinCost

	h := NewHandler(accounts, logger.NewNopLogger())
	resolver := &auth.JWTResolver{Issuer: issuer, Users: store}

	r := chi.NewRouter()
	h.RegisterPublicRoutes(r)
	r.With(auth.Middleware(resolver, logger.NewNopLogger())).Get("/auth/me", h.Me)
	return h, resolver, r
}

func do(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginMe(t *testing.T) {
	_, resolver, r := setupHandler(t)

	rec := do(r, http.MethodPost, "/auth/register", `{"email":"ana@example.com","password":"long-enough","full_name":"Ana"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password_hash")

	rec = do(r, http.MethodPost, "/auth/register", `{"email":"ana@example.com","password":"long-enough"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(r, http.MethodPost, "/auth/login", `{"email":"ana@example.com","password":"long-enough"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tok models.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))

	p, err := resolver.ResolveToken(context.Background(), tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", p.Email)

	rec = do(r, http.MethodGet, "/auth/me", "", tok.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"full_name":"Ana"`)
}

func TestRegisterValidation(t *testing.T) {
	_, _, r := setupHandler(t)

	rec := do(r, http.MethodPost, "/auth/register", `{"email":"not-an-email","password":"short"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"must be a valid email"`)
	assert.Contains(t, rec.Body.String(), `"password":"must be at least 8"`)
}

func TestLoginWrongPassword(t *testing.T) {
	_, _, r := setupHandler(t)
	do(r, http.MethodPost, "/auth/register", `{"email":"ana@example.com","password":"long-enough"}`, "")

	rec := do(r, http.MethodPost, "/auth/login", `{"email":"ana@example.com","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "not authorized")
}

package admin

import (
	"context"
	"fmt"
	"net/http"

	"myday-qr/internal/apperr"
	"myday-qr/internal/auth"
	"myday-qr/internal/models"
	"myday-qr/internal/utils"
)

type contextKey string

const adminCtxKey contextKey = "administrator"

func WithAdministrator(ctx context.Context, a *models.Administrator) context.Context {
	return context.WithValue(ctx, adminCtxKey, a)
}

func AdministratorFrom(ctx context.Context) (*models.Administrator, bool) {
	a, ok := ctx.Value(adminCtxKey).(*models.Administrator)
	return a, ok && a != nil
}

// RequireAdmin must run after auth.Middleware. It resolves the principal to an
// administrator once for the whole route group.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFrom(r.Context())
		if !ok {
			utils.WriteError(w, apperr.ErrUnauthorized)
			return
		}

		admin, err := g.Authorize(r.Context(), principal)
		if err != nil {
			if !IsDenied(err) {
				g.Logger.Error("ADMIN", fmt.Sprintf("Administrator lookup failed: %v", err))
			}
			utils.WriteError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAdministrator(r.Context(), admin)))
	})
}

// RequireSuperAdmin must run after RequireAdmin.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin, ok := AdministratorFrom(r.Context())
		if !ok || !admin.IsSuperAdmin() {
			utils.WriteError(w, apperr.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

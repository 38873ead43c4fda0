package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"myday-qr/internal/apperr"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/utils"
)

type contextKey string

const principalCtxKey contextKey = "principal"

func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// PrincipalFrom returns the authenticated principal stored by the middleware.
func PrincipalFrom(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(*models.Principal)
	return p, ok && p != nil
}

func UserID(ctx context.Context) string {
	if p, ok := PrincipalFrom(ctx); ok {
		return p.ID
	}
	return ""
}

// Middleware rejects requests without a valid bearer token.
func Middleware(resolver TokenResolver, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken, err := ExtractTokenFromRequest(r)
			if err != nil {
				utils.WriteError(w, err)
				return
			}

			principal, err := resolver.ResolveToken(r.Context(), rawToken)
			if err != nil {
				log.LogSecurity("TOKEN_REJECTED", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
				utils.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// OptionalMiddleware attaches a principal when a bearer token is present and
// lets anonymous requests through. A token that is present but invalid is
// still rejected.
func OptionalMiddleware(resolver TokenResolver, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			rawToken, err := ExtractTokenFromRequest(r)
			if err == nil {
				var principal *models.Principal
				principal, err = resolver.ResolveToken(r.Context(), rawToken)
				if err == nil {
					next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
					return
				}
			}

			if !errors.Is(err, apperr.ErrUnauthorized) {
				log.Error("AUTH", fmt.Sprintf("Token resolution failed: %v", err))
			}
			utils.WriteError(w, err)
		})
	}
}

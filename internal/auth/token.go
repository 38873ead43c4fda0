package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"myday-qr/internal/apperr"
	"myday-qr/internal/models"
)

// TokenResolver turns a bearer access token into the identity it was issued for.
// Missing, malformed or expired tokens resolve to an apperr.ErrUnauthorized.
type TokenResolver interface {
	ResolveToken(ctx context.Context, rawToken string) (*models.Principal, error)
}

// ExtractTokenFromRequest extracts the bearer token from the Authorization header.
func ExtractTokenFromRequest(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header is missing: %w", apperr.ErrUnauthorized)
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("authorization header format must be 'Bearer {token}': %w", apperr.ErrUnauthorized)
	}

	return parts[1], nil
}

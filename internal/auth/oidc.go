package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"myday-qr/internal/apperr"
	"myday-qr/internal/models"
)

// OIDCResolver accepts ID tokens from an external OpenID Connect provider.
// The email claim is normalized the same way stored accounts and
// administrators are.
type OIDCResolver struct {
	verifier *oidc.IDTokenVerifier
}

func NewOIDCResolver(ctx context.Context, issuer string) (*OIDCResolver, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}
	return NewOIDCResolverFromVerifier(provider.Verifier(&oidc.Config{SkipClientIDCheck: true})), nil
}

func NewOIDCResolverFromVerifier(verifier *oidc.IDTokenVerifier) *OIDCResolver {
	return &OIDCResolver{verifier: verifier}
}

func (o *OIDCResolver) ResolveToken(ctx context.Context, rawToken string) (*models.Principal, error) {
	idToken, err := o.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %v: %w", err, apperr.ErrUnauthorized)
	}

	var claims struct {
		Sub         string `json:"sub"`
		Email       string `json:"email"`
		Name        string `json:"name"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %v: %w", err, apperr.ErrUnauthorized)
	}

	return &models.Principal{
		ID:        claims.Sub,
		Email:     NormalizeEmail(claims.Email),
		FullName:  claims.Name,
		Phone:     claims.PhoneNumber,
		ExpiresAt: idToken.Expiry,
	}, nil
}

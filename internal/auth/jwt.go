package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"myday-qr/internal/apperr"
	"myday-qr/internal/models"
)

const tokenIssuer = "myday-qr"

type AccessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTIssuer signs and verifies the HS256 access tokens handed out by Login.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (j *JWTIssuer) Issue(user *models.User) (*models.TokenResponse, error) {
	now := j.now()
	expiresAt := now.Add(j.ttl)
	claims := AccessClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// Verify checks signature, issuer and expiry and returns the token claims.
func (j *JWTIssuer) Verify(rawToken string) (*AccessClaims, error) {
	if rawToken == "" {
		return nil, fmt.Errorf("empty token: %w", apperr.ErrUnauthorized)
	}

	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(rawToken, claims,
		func(*jwt.Token) (interface{}, error) { return j.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %v: %w", err, apperr.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("subject claim not found in token: %w", apperr.ErrUnauthorized)
	}
	return claims, nil
}

// JWTResolver verifies a locally issued token and loads the account it names.
type JWTResolver struct {
	Issuer *JWTIssuer
	Users  UserStore
}

func (r *JWTResolver) ResolveToken(ctx context.Context, rawToken string) (*models.Principal, error) {
	claims, err := r.Issuer.Verify(rawToken)
	if err != nil {
		return nil, err
	}

	user, err := r.Users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("account %s no longer exists: %w", claims.Subject, apperr.ErrUnauthorized)
		}
		return nil, err
	}

	return &models.Principal{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

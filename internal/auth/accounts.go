package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"myday-qr/internal/apperr"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Accounts is the built-in identity provider: registration, password login
// and the account lookups other components need.
type Accounts struct {
	Store  UserStore
	Issuer *JWTIssuer
	Logger *logger.Logger
	Cost   int
}

func NewAccounts(store UserStore, issuer *JWTIssuer, log *logger.Logger) *Accounts {
	return &Accounts{Store: store, Issuer: issuer, Logger: log, Cost: bcrypt.DefaultCost}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *Accounts) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := NormalizeEmail(req.Email)
	if _, err := a.Store.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", apperr.ErrConflict)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), a.Cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.Store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	a.Logger.Info("AUTH", fmt.Sprintf("Registered account %s", user.ID))
	return user, nil
}

// Login checks the password and issues an access token. Unknown email and wrong
// password fail the same way.
func (a *Accounts) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error) {
	user, err := a.Store.GetUserByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			a.Logger.LogSecurity("LOGIN_FAILED", "unknown email")
			return nil, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		a.Logger.LogSecurity("LOGIN_FAILED", fmt.Sprintf("bad password for account %s", user.ID))
		return nil, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}

	return a.Issuer.Issue(user)
}

func (a *Accounts) Get(ctx context.Context, id string) (*models.User, error) {
	return a.Store.GetUserByID(ctx, id)
}

func (a *Accounts) List(ctx context.Context) ([]models.User, error) {
	return a.Store.ListUsers(ctx)
}

// EnsureAccount creates the account for email or resets its password when it
// already exists.
func (a *Accounts) EnsureAccount(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.Cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.Store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if err := a.Store.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
		a.Logger.Info("AUTH", fmt.Sprintf("Reset password for account %s", user.ID))
		return user, nil
	case errors.Is(err, apperr.ErrNotFound):
		user = &models.User{
			ID:           uuid.New().String(),
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    time.Now().UTC(),
		}
		if err := a.Store.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		a.Logger.Info("AUTH", fmt.Sprintf("Created account %s", user.ID))
		return user, nil
	default:
		return nil, err
	}
}

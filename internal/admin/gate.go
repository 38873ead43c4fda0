// Package admin decides whether a principal is an administrator and manages
// the administrator roster.
package admin

import (
	"context"
	"errors"
	"fmt"

	"myday-qr/internal/apperr"
	"myday-qr/internal/auth"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
)

var (
	ErrNotAdmin       = fmt.Errorf("principal is not an administrator: %w", apperr.ErrForbidden)
	ErrAmbiguousAdmin = fmt.Errorf("more than one administrator matches the principal: %w", apperr.ErrForbidden)
)

// lookupLimit is two so that a second match can be detected without
// loading the whole table.
const lookupLimit = 2

type Store interface {
	FindByUserID(ctx context.Context, userID string, limit int) ([]models.Administrator, error)
	FindByEmail(ctx context.Context, email string, limit int) ([]models.Administrator, error)
	LinkUser(ctx context.Context, id, userID string) error
	List(ctx context.Context) ([]models.Administrator, error)
	GetByID(ctx context.Context, id string) (*models.Administrator, error)
	Create(ctx context.Context, admin *models.Administrator) error
	UpdateRole(ctx context.Context, id, role string) (*models.Administrator, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type Gate struct {
	Resolver auth.TokenResolver
	Store    Store
	Logger   *logger.Logger
}

func NewGate(resolver auth.TokenResolver, store Store, log *logger.Logger) *Gate {
	return &Gate{Resolver: resolver, Store: store, Logger: log}
}

// Verify resolves the token and reports whether its bearer is an administrator.
// Token failures return ErrUnauthorized; a principal that is not exactly one
// administrator gets IsAdmin false and the reason as error.
func (g *Gate) Verify(ctx context.Context, accessToken string) (*models.AdminVerification, error) {
	if accessToken == "" {
		return &models.AdminVerification{}, fmt.Errorf("missing access token: %w", apperr.ErrUnauthorized)
	}

	principal, err := g.Resolver.ResolveToken(ctx, accessToken)
	if err != nil {
		return &models.AdminVerification{}, err
	}

	admin, err := g.Authorize(ctx, principal)
	if err != nil {
		return &models.AdminVerification{}, err
	}
	return &models.AdminVerification{IsAdmin: true, Role: admin.Role}, nil
}

// Authorize finds the single administrator row for principal: first by linked
// user id, then by exact email. A row found by email is linked to the
// principal's id so the next lookup takes the first path.
func (g *Gate) Authorize(ctx context.Context, principal *models.Principal) (*models.Administrator, error) {
	if principal == nil || principal.ID == "" {
		return nil, fmt.Errorf("no principal: %w", apperr.ErrUnauthorized)
	}

	admin, err := g.findOne(ctx, "user_id", func() ([]models.Administrator, error) {
		return g.Store.FindByUserID(ctx, principal.ID, lookupLimit)
	})
	if err != nil {
		return nil, err
	}

	if admin == nil && principal.Email != "" {
		admin, err = g.findOne(ctx, "email", func() ([]models.Administrator, error) {
			return g.Store.FindByEmail(ctx, principal.Email, lookupLimit)
		})
		if err != nil {
			return nil, err
		}
	}

	if admin == nil {
		g.Logger.LogSecurity("ADMIN_DENIED", fmt.Sprintf("principal %s has no administrator row", principal.ID))
		return nil, ErrNotAdmin
	}

	if admin.UserID == nil || *admin.UserID != principal.ID {
		if err := g.Store.LinkUser(ctx, admin.ID, principal.ID); err != nil {
			g.Logger.Warn("ADMIN", fmt.Sprintf("Failed to link administrator %s to principal %s: %v", admin.ID, principal.ID, err))
		} else {
			g.Logger.Info("ADMIN", fmt.Sprintf("Linked administrator %s to principal %s", admin.ID, principal.ID))
			id := principal.ID
			admin.UserID = &id
		}
	}
	return admin, nil
}

func (g *Gate) findOne(ctx context.Context, key string, find func() ([]models.Administrator, error)) (*models.Administrator, error) {
	rows, err := find()
	if err != nil {
		return nil, fmt.Errorf("administrator lookup by %s: %w", key, err)
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return &rows[0], nil
	default:
		g.Logger.LogSecurity("ADMIN_AMBIGUOUS", fmt.Sprintf("%d administrator rows match by %s", len(rows), key))
		return nil, ErrAmbiguousAdmin
	}
}

// IsDenied reports whether err means "not an administrator" rather than a
// failure to find out.
func IsDenied(err error) bool {
	return errors.Is(err, apperr.ErrForbidden) || errors.Is(err, apperr.ErrUnauthorized)
}

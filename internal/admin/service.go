package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"myday-qr/internal/apperr"
	"myday-qr/internal/auth"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
)

// AccountProvisioner creates or resets the login account used by setup.
type AccountProvisioner interface {
	EnsureAccount(ctx context.Context, email, password string) (*models.User, error)
}

type Service struct {
	Store        Store
	Accounts     AccountProvisioner
	Logger       *logger.Logger
	SetupEnabled bool
}

func NewService(store Store, accounts AccountProvisioner, setupEnabled bool, log *logger.Logger) *Service {
	return &Service{Store: store, Accounts: accounts, SetupEnabled: setupEnabled, Logger: log}
}

func (s *Service) List(ctx context.Context) ([]models.Administrator, error) {
	return s.Store.List(ctx)
}

// Create adds an administrator by email. Only a super_admin may call it.
func (s *Service) Create(ctx context.Context, actor *models.Administrator, req models.CreateAdminRequest) (*models.Administrator, error) {
	if !actor.IsSuperAdmin() {
		return nil, fmt.Errorf("only a super_admin can add administrators: %w", apperr.ErrForbidden)
	}

	role := req.Role
	if role == "" {
		role = models.RoleAdmin
	}
	if !models.ValidRole(role) {
		return nil, apperr.Invalid("invalid role", apperr.FieldErrors{"role": "must be admin or super_admin"})
	}

	admin := &models.Administrator{
		ID:        uuid.New().String(),
		Email:     auth.NormalizeEmail(req.Email),
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		admin.Name = &name
	}

	if err := s.Store.Create(ctx, admin); err != nil {
		return nil, err
	}
	s.Logger.Info("ADMIN", fmt.Sprintf("Administrator %s added by %s with role %s", admin.ID, actor.ID, role))
	return admin, nil
}

// UpdateRole changes any administrator's role, the caller's own included.
func (s *Service) UpdateRole(ctx context.Context, actor *models.Administrator, id, role string) (*models.Administrator, error) {
	if !actor.IsSuperAdmin() {
		return nil, fmt.Errorf("only a super_admin can change roles: %w", apperr.ErrForbidden)
	}
	if !models.ValidRole(role) {
		return nil, apperr.Invalid("invalid role", apperr.FieldErrors{"role": "must be admin or super_admin"})
	}

	admin, err := s.Store.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("ADMIN", fmt.Sprintf("Administrator %s role set to %s by %s", id, role, actor.ID))
	return admin, nil
}

func (s *Service) Delete(ctx context.Context, actor *models.Administrator, id string) error {
	if !actor.IsSuperAdmin() {
		return fmt.Errorf("only a super_admin can remove administrators: %w", apperr.ErrForbidden)
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("ADMIN", fmt.Sprintf("Administrator %s removed by %s", id, actor.ID))
	return nil
}

// Setup provisions a login account and its administrator row in one step.
// The first administrator ever created becomes super_admin. The endpoint is
// off unless explicitly enabled.
func (s *Service) Setup(ctx context.Context, req models.AdminSetupRequest) (*models.Administrator, error) {
	if !s.SetupEnabled {
		return nil, fmt.Errorf("admin setup is disabled: %w", apperr.ErrNotFound)
	}

	user, err := s.Accounts.EnsureAccount(ctx, req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to provision account: %w", err)
	}

	existing, err := s.Store.FindByEmail(ctx, user.Email, lookupLimit)
	if err != nil {
		return nil, err
	}
	if len(existing) > 1 {
		return nil, ErrAmbiguousAdmin
	}
	if len(existing) == 1 {
		admin := existing[0]
		if admin.UserID == nil || *admin.UserID != user.ID {
			if err := s.Store.LinkUser(ctx, admin.ID, user.ID); err != nil {
				return nil, err
			}
			admin.UserID = &user.ID
		}
		s.Logger.LogSecurity("ADMIN_SETUP", fmt.Sprintf("Reset credentials for administrator %s", admin.ID))
		return &admin, nil
	}

	count, err := s.Store.Count(ctx)
	if err != nil {
		return nil, err
	}
	role := models.RoleAdmin
	if count == 0 {
		role = models.RoleSuperAdmin
	}

	admin := &models.Administrator{
		ID:        uuid.New().String(),
		UserID:    &user.ID,
		Email:     user.Email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.Create(ctx, admin); err != nil {
		return nil, err
	}
	s.Logger.LogSecurity("ADMIN_SETUP", fmt.Sprintf("Created administrator %s with role %s", admin.ID, role))
	return admin, nil
}

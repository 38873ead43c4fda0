package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

type Administrator struct {
	bun.BaseModel `bun:"table:admins"`

	ID        string    `bun:"id,pk" json:"id"`
	UserID    *string   `bun:"user_id" json:"user_id"`
	Email     string    `bun:"email,unique,notnull" json:"email"`
	Name      *string   `bun:"name" json:"name"`
	Role      string    `bun:"role,notnull" json:"role"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

func (a *Administrator) IsSuperAdmin() bool {
	return a != nil && a.Role == RoleSuperAdmin
}

// AdminVerification is the public answer of the admin gate.
type AdminVerification struct {
	IsAdmin bool   `json:"isAdmin"`
	Role    string `json:"role,omitempty"`
}

type AdminSetupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type CreateAdminRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"max=200"`
	Role  string `json:"role" validate:"omitempty,oneof=admin super_admin"`
}

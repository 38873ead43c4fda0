package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is an account of the built-in identity provider.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           string    `bun:"id,pk" json:"id"`
	Email        string    `bun:"email,unique,notnull" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	FullName     string    `bun:"full_name" json:"full_name"`
	Phone        string    `bun:"phone" json:"phone"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
}

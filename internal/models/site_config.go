package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ConfigTypeText     = "text"
	ConfigTypeTextarea = "textarea"
	ConfigTypeColor    = "color"
)

type SiteConfig struct {
	bun.BaseModel `bun:"table:site_config"`

	ID          string    `bun:"id,pk" json:"id"`
	Key         string    `bun:"key,unique,notnull" json:"key"`
	Value       string    `bun:"value" json:"value"`
	Type        string    `bun:"type,notnull" json:"type"`
	Category    string    `bun:"category,notnull" json:"category"`
	Label       string    `bun:"label" json:"label"`
	Description string    `bun:"description" json:"description"`
	UpdatedAt   time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// SiteConfigUpdate leaves fields it does not carry untouched. Value is a
// pointer so an empty string can still be set explicitly.
type SiteConfigUpdate struct {
	Value       *string `json:"value" validate:"omitempty,max=10000"`
	Type        string  `json:"type" validate:"omitempty,oneof=text textarea color"`
	Category    string  `json:"category" validate:"max=60"`
	Label       string  `json:"label" validate:"max=200"`
	Description string  `json:"description" validate:"max=1000"`
}

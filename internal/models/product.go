package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Product struct {
	bun.BaseModel `bun:"table:products"`

	ID           string    `bun:"id,pk" json:"id"`
	Name         string    `bun:"name,notnull" json:"name" validate:"required,max=200"`
	Description  string    `bun:"description" json:"description" validate:"max=2000"`
	Price        float64   `bun:"price,notnull" json:"price" validate:"gte=0"`
	ImageURL     *string   `bun:"image_url" json:"image_url"`
	Category     *string   `bun:"category" json:"category"`
	IsActive     bool      `bun:"is_active,notnull" json:"is_active"`
	DisplayOrder int       `bun:"display_order,notnull" json:"display_order"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

type Example struct {
	bun.BaseModel `bun:"table:examples"`

	ID           string    `bun:"id,pk" json:"id"`
	Title        string    `bun:"title,notnull" json:"title" validate:"required,max=200"`
	Description  string    `bun:"description" json:"description" validate:"max=2000"`
	ImageURL     *string   `bun:"image_url" json:"image_url"`
	DisplayOrder int       `bun:"display_order,notnull" json:"display_order"`
	IsActive     bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
}

// StorefrontProduct is a product as shown inside a storefront category.
type StorefrontProduct struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url"`
	Price       float64 `json:"price"`
}

type StorefrontCategory struct {
	ID       string              `json:"id"`
	Label    string              `json:"label"`
	Colour   string              `json:"colour"`
	Order    int                 `json:"order"`
	MinPrice float64             `json:"min_price"`
	Products []StorefrontProduct `json:"products"`
}

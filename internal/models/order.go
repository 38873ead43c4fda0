package models

import (
	"time"

	"github.com/uptrace/bun"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusShipped   OrderStatus = "shipped"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{StatusPending, StatusPaid, StatusShipped, StatusCompleted, StatusCancelled}

func (s OrderStatus) Valid() bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Order is one purchased unit. A checkout creates one row per unit of quantity.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID              string      `bun:"id,pk" json:"id"`
	UserID          *string     `bun:"user_id" json:"user_id"`
	ProductID       *string     `bun:"product_id" json:"product_id"`
	ProductName     string      `bun:"product_name,notnull" json:"product_name"`
	Price           float64     `bun:"price,notnull" json:"price"`
	Status          OrderStatus `bun:"status,notnull" json:"status"`
	CustomerEmail   string      `bun:"customer_email,notnull" json:"customer_email"`
	CustomerName    string      `bun:"customer_name" json:"customer_name"`
	CustomerPhone   *string     `bun:"customer_phone" json:"customer_phone,omitempty"`
	ShippingAddress string      `bun:"shipping_address" json:"shipping_address"`
	Notes           *string     `bun:"notes" json:"notes,omitempty"`
	ShortCode       *string     `bun:"short_code" json:"short_code"`
	CreatedAt       time.Time   `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt       time.Time   `bun:"updated_at,notnull" json:"updated_at"`
}

type CartItem struct {
	ProductID   string  `json:"product_id" validate:"omitempty,max=64"`
	ProductName string  `json:"product_name" validate:"required,max=200"`
	Quantity    int     `json:"quantity" validate:"required,min=1,max=100"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

type CustomerForm struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"required,max=40"`
	Address string `json:"address" validate:"required,max=500"`
	Notes   string `json:"notes" validate:"max=1000"`
}

type CheckoutRequest struct {
	Items     []CartItem   `json:"items" validate:"required,min=1,dive"`
	Customer  CustomerForm `json:"customer"`
	ShortCode string       `json:"short_code"`
}

type CheckoutResult struct {
	Orders    []Order `json:"orders"`
	ShortCode string  `json:"short_code,omitempty"`
}

type CheckoutPrefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type StatusUpdateRequest struct {
	Status OrderStatus `json:"status"`
}

type OrderFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

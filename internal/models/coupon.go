package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Coupon struct {
	bun.BaseModel `bun:"table:coupons"`

	ID                string     `bun:"id,pk" json:"id"`
	Code              string     `bun:"code,unique,notnull" json:"code" validate:"required,max=40"`
	DiscountType      string     `bun:"discount_type,notnull" json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue     float64    `bun:"discount_value,notnull" json:"discount_value" validate:"gt=0"`
	MinPurchaseAmount float64    `bun:"min_purchase_amount,notnull" json:"min_purchase_amount" validate:"gte=0"`
	ExpiresAt         *time.Time `bun:"expires_at" json:"expires_at"`
	UsageLimit        *int       `bun:"usage_limit" json:"usage_limit" validate:"omitempty,gte=1"`
	UsageCount        int        `bun:"usage_count,notnull" json:"usage_count"`
	IsActive          bool       `bun:"is_active,notnull" json:"is_active"`
	CreatedAt         time.Time  `bun:"created_at,notnull" json:"created_at"`
}

type CouponCheckRequest struct {
	Code     string  `json:"code" validate:"required"`
	Subtotal float64 `json:"subtotal" validate:"gte=0"`
}

type CouponCheckResult struct {
	Valid    bool    `json:"valid"`
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
	Reason   string  `json:"reason,omitempty"`
}

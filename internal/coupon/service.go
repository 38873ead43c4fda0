// Package coupon manages discount codes and checks them against a cart subtotal.
package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"myday-qr/internal/apperr"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/utils"
)

type Store interface {
	GetByID(ctx context.Context, id string) (*models.Coupon, error)
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	List(ctx context.Context) ([]models.Coupon, error)
	Create(ctx context.Context, c *models.Coupon) error
	Update(ctx context.Context, c *models.Coupon) error
	Delete(ctx context.Context, id string) error
}

type Service struct {
	Store  Store
	Logger *logger.Logger
	now    func() time.Time
}

func NewService(store Store, log *logger.Logger) *Service {
	return &Service{Store: store, Logger: log, now: time.Now}
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validateCoupon(c *models.Coupon) error {
	c.Code = NormalizeCode(c.Code)
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if c.DiscountType == models.DiscountPercentage && c.DiscountValue > 100 {
		return apperr.Invalid("percentage above 100", apperr.FieldErrors{"discount_value": "must be at most 100"})
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]models.Coupon, error) {
	return s.Store.List(ctx)
}

func (s *Service) Create(ctx context.Context, c models.Coupon) (*models.Coupon, error) {
	if err := validateCoupon(&c); err != nil {
		return nil, err
	}
	c.ID = uuid.New().String()
	c.UsageCount = 0
	c.CreatedAt = s.now().UTC()
	if err := s.Store.Create(ctx, &c); err != nil {
		return nil, err
	}
	s.Logger.Info("COUPON", fmt.Sprintf("Created coupon %s", c.Code))
	return &c, nil
}

func (s *Service) Update(ctx context.Context, id string, c models.Coupon) (*models.Coupon, error) {
	if err := validateCoupon(&c); err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.Store.Update(ctx, &c); err != nil {
		return nil, err
	}
	return s.Store.GetByID(ctx, id)
}

func (s *Service) SetActive(ctx context.Context, id string, active bool) (*models.Coupon, error) {
	c, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.IsActive = active
	if err := s.Store.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("COUPON", fmt.Sprintf("Deleted coupon %s", id))
	return nil
}

// Check validates code against subtotal. An unusable coupon is a result with
// Valid false and a reason, not an error.
func (s *Service) Check(ctx context.Context, req models.CouponCheckRequest) (*models.CouponCheckResult, error) {
	code := NormalizeCode(req.Code)
	subtotal := decimal.NewFromFloat(req.Subtotal).Round(2)
	result := &models.CouponCheckResult{Code: code, Total: subtotal.InexactFloat64()}

	if code == "" {
		return nil, apperr.Invalid("code is required", apperr.FieldErrors{"code": "is required"})
	}
	if subtotal.IsNegative() {
		return nil, apperr.Invalid("subtotal is negative", apperr.FieldErrors{"subtotal": "must be at least 0"})
	}

	c, err := s.Store.GetByCode(ctx, code)
	if errors.Is(err, apperr.ErrNotFound) {
		result.Reason = "Cupão inválido"
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	if reason := s.rejectReason(c, subtotal); reason != "" {
		result.Reason = reason
		return result, nil
	}

	discount := Discount(c, subtotal)
	result.Valid = true
	result.Discount = discount.InexactFloat64()
	result.Total = subtotal.Sub(discount).InexactFloat64()
	return result, nil
}

func (s *Service) rejectReason(c *models.Coupon, subtotal decimal.Decimal) string {
	switch {
	case !c.IsActive:
		return "Cupão inativo"
	case c.ExpiresAt != nil && !s.now().Before(*c.ExpiresAt):
		return "Cupão expirado"
	case c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit:
		return "Cupão esgotado"
	case subtotal.LessThan(decimal.NewFromFloat(c.MinPurchaseAmount)):
		return fmt.Sprintf("Compra mínima de %s€", decimal.NewFromFloat(c.MinPurchaseAmount).StringFixed(2))
	}
	return ""
}

// Discount is the amount taken off subtotal, never more than subtotal.
func Discount(c *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	value := decimal.NewFromFloat(c.DiscountValue)
	var amount decimal.Decimal
	switch c.DiscountType {
	case models.DiscountPercentage:
		amount = subtotal.Mul(value).Div(decimal.NewFromInt(100))
	case models.DiscountFixed:
		amount = value
	}
	amount = amount.Round(2)
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	return amount
}

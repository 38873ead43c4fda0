package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"myday-qr/internal/apperr"
	"myday-qr/internal/models"
	orderdb "myday-qr/internal/order/db"
	"myday-qr/internal/qrcode"
	"myday-qr/internal/utils"
)

const insertAttempts = 3

var ErrCheckoutFailed = errors.New("checkout failed")

// CheckoutError is shown to the customer as is. The cause stays in the logs.
type CheckoutError struct {
	ContactEmail string
	Cause        error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("we could not register your order, please try again or contact us at %s", e.ContactEmail)
}

func (e *CheckoutError) Unwrap() []error {
	return []error{ErrCheckoutFailed, apperr.ErrUnavailable}
}

func normalizeCheckout(req *models.CheckoutRequest) {
	req.Items = append([]models.CartItem(nil), req.Items...)
	req.Customer.Name = utils.SanitizeString(req.Customer.Name, 0)
	req.Customer.Email = strings.ToLower(utils.SanitizeString(req.Customer.Email, 0))
	req.Customer.Phone = utils.SanitizeString(req.Customer.Phone, 0)
	req.Customer.Address = utils.SanitizeString(req.Customer.Address, 0)
	req.Customer.Notes = utils.SanitizeString(req.Customer.Notes, 1000)
	req.ShortCode = strings.TrimSpace(req.ShortCode)
	for i := range req.Items {
		req.Items[i].ProductID = strings.TrimSpace(req.Items[i].ProductID)
		req.Items[i].ProductName = utils.SanitizeString(req.Items[i].ProductName, 0)
	}
}

func (s *Service) validateCheckout(req *models.CheckoutRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	if req.ShortCode != "" && !qrcode.ValidShortCode(req.ShortCode) {
		return apperr.Invalid("malformed short code", apperr.FieldErrors{"short_code": "is not a valid short code"})
	}
	return nil
}

// resolveItems replaces client-supplied names and prices with catalog values
// for lines that reference a product.
func (s *Service) resolveItems(ctx context.Context, items []models.CartItem) error {
	if s.Catalog == nil {
		return nil
	}
	for i, item := range items {
		if item.ProductID == "" {
			continue
		}
		field := fmt.Sprintf("items[%d].product_id", i)
		product, err := s.Catalog.GetProduct(ctx, item.ProductID)
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Invalid("unknown product", apperr.FieldErrors{field: "does not exist"})
		}
		if err != nil {
			return err
		}
		if !product.IsActive {
			return apperr.Invalid("product unavailable", apperr.FieldErrors{field: "is not available"})
		}
		items[i].ProductName = product.Name
		items[i].UnitPrice = product.Price
	}
	return nil
}

// expand turns the cart into one pending order per unit.
func (s *Service) expand(req *models.CheckoutRequest, principal *models.Principal) ([]models.Order, decimal.Decimal) {
	now := s.now()
	total := decimal.Zero

	var userID, phone, notes, shortCode *string
	if principal != nil && principal.ID != "" {
		userID = &principal.ID
	}
	if req.Customer.Phone != "" {
		phone = &req.Customer.Phone
	}
	if req.Customer.Notes != "" {
		notes = &req.Customer.Notes
	}
	if req.ShortCode != "" {
		shortCode = &req.ShortCode
	}

	var orders []models.Order
	for _, item := range req.Items {
		price := decimal.NewFromFloat(item.UnitPrice).Round(2)
		var productID *string
		if item.ProductID != "" {
			id := item.ProductID
			productID = &id
		}
		for q := 0; q < item.Quantity; q++ {
			orders = append(orders, models.Order{
				ID:              uuid.New().String(),
				UserID:          userID,
				ProductID:       productID,
				ProductName:     item.ProductName,
				Price:           price.InexactFloat64(),
				Status:          models.StatusPending,
				CustomerEmail:   req.Customer.Email,
				CustomerName:    req.Customer.Name,
				CustomerPhone:   phone,
				ShippingAddress: req.Customer.Address,
				Notes:           notes,
				ShortCode:       shortCode,
				CreatedAt:       now,
				UpdatedAt:       now,
			})
			total = total.Add(price)
		}
	}
	return orders, total
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// insert writes the orders, dropping optional columns the store turns out
// not to have. Anything else aborts.
func (s *Service) insert(ctx context.Context, orders []models.Order) ([]string, error) {
	exclude := s.Store.MissingColumns()
	for attempt := 1; ; attempt++ {
		err := s.Store.InsertOrders(ctx, orders, exclude)
		if err == nil {
			return exclude, nil
		}

		var mce *orderdb.MissingColumnError
		if !errors.As(err, &mce) || !orderdb.IsOptional(mce.Column) || contains(exclude, mce.Column) || attempt == insertAttempts {
			return nil, err
		}

		s.Logger.Warn("ORDER", fmt.Sprintf("Orders table has no %s column, retrying without it (attempt %d)", mce.Column, attempt))
		s.Store.MarkMissing(mce.Column)
		exclude = append(exclude, mce.Column)
	}
}

// Checkout validates the cart and customer form and records one pending order
// per unit. principal is nil for guest checkout.
func (s *Service) Checkout(ctx context.Context, req models.CheckoutRequest, principal *models.Principal) (*models.CheckoutResult, error) {
	normalizeCheckout(&req)
	if err := s.validateCheckout(&req); err != nil {
		return nil, err
	}
	if err := s.resolveItems(ctx, req.Items); err != nil {
		return nil, err
	}

	token := uuid.New().String()
	locked, err := s.Lock.Lock(ctx, req.Customer.Email, token)
	if err != nil {
		s.Logger.Warn("ORDER", fmt.Sprintf("Checkout lock unavailable, continuing without it: %v", err))
	} else if !locked {
		return nil, fmt.Errorf("checkout already in progress for this email: %w", apperr.ErrConflict)
	} else {
		defer func() {
			if err := s.Lock.Unlock(context.WithoutCancel(ctx), req.Customer.Email, token); err != nil {
				s.Logger.Warn("ORDER", fmt.Sprintf("Failed to release checkout lock: %v", err))
			}
		}()
	}

	orders, total := s.expand(&req, principal)

	excluded, err := s.insert(ctx, orders)
	if err != nil {
		s.Logger.Error("ORDER", fmt.Sprintf("Checkout for %s failed: %v", req.Customer.Email, err))
		return nil, &CheckoutError{ContactEmail: s.ContactEmail, Cause: err}
	}
	for i := range orders {
		if contains(excluded, "notes") {
			orders[i].Notes = nil
		}
		if contains(excluded, "customer_phone") {
			orders[i].CustomerPhone = nil
		}
	}

	for i := range orders {
		s.Events.PublishOrderCreated(ctx, &orders[i])
	}
	s.Logger.LogOrder("CHECKOUT", req.Customer.Email, fmt.Sprintf("%d orders, total %s", len(orders), total.StringFixed(2)))

	return &models.CheckoutResult{Orders: orders, ShortCode: req.ShortCode}, nil
}

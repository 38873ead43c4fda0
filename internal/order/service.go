// Package order takes carts through checkout into pending orders and lets
// administrators move those orders through their status lifecycle.
package order

import (
	"context"
	"fmt"
	"time"

	"myday-qr/internal/apperr"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
)

type Store interface {
	InsertOrders(ctx context.Context, orders []models.Order, exclude []string) error
	MissingColumns() []string
	MarkMissing(column string)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus, at time.Time) (*models.Order, error)
	DeleteOrder(ctx context.Context, id string) (*models.Order, error)
	LatestForUser(ctx context.Context, userID string) (*models.Order, error)
}

// Catalog resolves cart lines that reference a product.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

type Locker interface {
	Lock(ctx context.Context, customer, token string) (bool, error)
	Unlock(ctx context.Context, customer, token string) error
}

type Events interface {
	PublishOrderCreated(ctx context.Context, order *models.Order)
	PublishStatusChanged(ctx context.Context, order *models.Order, previous models.OrderStatus)
	PublishOrderDeleted(ctx context.Context, order *models.Order)
}

type Service struct {
	Store        Store
	Catalog      Catalog
	Lock         Locker
	Events       Events
	Transitions  Transitions
	ContactEmail string
	Logger       *logger.Logger
	now          func() time.Time
}

type Options struct {
	Catalog      Catalog
	Lock         Locker
	Events       Events
	Transitions  Transitions
	ContactEmail string
}

func NewService(store Store, opts Options, log *logger.Logger) *Service {
	s := &Service{
		Store:        store,
		Catalog:      opts.Catalog,
		Lock:         opts.Lock,
		Events:       opts.Events,
		Transitions:  opts.Transitions,
		ContactEmail: opts.ContactEmail,
		Logger:       log,
		now:          func() time.Time { return time.Now().UTC() },
	}
	if s.Lock == nil {
		s.Lock = noopLock{}
	}
	if s.Events == nil {
		s.Events = noopEvents{}
	}
	return s
}

func (s *Service) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	if filter.Status != "" && !models.OrderStatus(filter.Status).Valid() {
		return nil, apperr.Invalid("unknown status", apperr.FieldErrors{"status": "is not a valid status"})
	}
	return s.Store.ListOrders(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Order, error) {
	return s.Store.GetOrder(ctx, id)
}

// SetStatus moves an order to status when the transition table allows it.
func (s *Service) SetStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperr.Invalid("unknown status", apperr.FieldErrors{"status": "is not a valid status"})
	}

	current, err := s.Store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Transitions.Check(current.Status, status); err != nil {
		return nil, err
	}

	updated, err := s.Store.UpdateStatus(ctx, id, status, s.now())
	if err != nil {
		return nil, err
	}

	s.Logger.LogOrder("STATUS", id, fmt.Sprintf("%s -> %s", current.Status, status))
	s.Events.PublishStatusChanged(ctx, updated, current.Status)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.Store.DeleteOrder(ctx, id)
	if err != nil {
		return err
	}
	s.Logger.LogOrder("DELETE", id, deleted.CustomerEmail)
	s.Events.PublishOrderDeleted(ctx, deleted)
	return nil
}

// Prefill fills the checkout form from the signed-in account and the
// address of its most recent order.
func (s *Service) Prefill(ctx context.Context, principal *models.Principal) (*models.CheckoutPrefill, error) {
	if principal == nil {
		return nil, fmt.Errorf("no principal: %w", apperr.ErrUnauthorized)
	}

	prefill := &models.CheckoutPrefill{
		Name:  principal.FullName,
		Email: principal.Email,
		Phone: principal.Phone,
	}

	latest, err := s.Store.LatestForUser(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		prefill.Address = latest.ShippingAddress
		if prefill.Phone == "" && latest.CustomerPhone != nil {
			prefill.Phone = *latest.CustomerPhone
		}
		if prefill.Name == "" {
			prefill.Name = latest.CustomerName
		}
		if prefill.Email == "" {
			prefill.Email = latest.CustomerEmail
		}
	}
	return prefill, nil
}

type noopLock struct{}

func (noopLock) Lock(context.Context, string, string) (bool, error) { return true, nil }
func (noopLock) Unlock(context.Context, string, string) error { return nil }

type noopEvents struct{}

func (noopEvents) PublishOrderCreated(context.Context, *models.Order) {}
func (noopEvents) PublishStatusChanged(context.Context, *models.Order, models.OrderStatus) {}
func (noopEvents) PublishOrderDeleted(context.Context, *models.Order) {}

// Package analytics computes the admin dashboard figures.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"myday-qr/internal/logger"
	"myday-qr/internal/models"
)

const recentLimit = 5

type RecentOrder struct {
	ID            string             `bun:"id" json:"id"`
	ProductName   string             `bun:"product_name" json:"product_name"`
	Price         float64            `bun:"price" json:"price"`
	Status        models.OrderStatus `bun:"status" json:"status"`
	CustomerName  string             `bun:"customer_name" json:"customer_name"`
	CustomerEmail string             `bun:"customer_email" json:"customer_email"`
	CreatedAt     time.Time          `bun:"created_at" json:"created_at"`
}

// UserActivity is one QR owner on the users page.
type UserActivity struct {
	UserID       string    `bun:"user_id" json:"user_id"`
	Email        *string   `bun:"email" json:"email"`
	QRCount      int       `bun:"qr_count" json:"qr_count"`
	LastActivity time.Time `bun:"last_activity" json:"last_activity"`
}

type SaleRow struct {
	Price     float64            `bun:"price"`
	Status    models.OrderStatus `bun:"status"`
	CreatedAt time.Time          `bun:"created_at"`
}

// DailySalesMetrics contains metrics for a single day
type DailySalesMetrics struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Units   int     `json:"units"`
}

type DashboardStats struct {
	TotalUsers    int                 `json:"total_users"`
	TotalQRCodes  int                 `json:"total_qrcodes"`
	TotalProducts int                 `json:"total_products"`
	TotalOrders   int                 `json:"total_orders"`
	RecentOrders  []RecentOrder       `json:"recent_orders"`
	RecentQRCodes []models.QRCode     `json:"recent_qrcodes"`
	DailySales    []DailySalesMetrics `json:"daily_sales"`
}

type Store interface {
	CountQRCodes(ctx context.Context) (int, error)
	CountQROwners(ctx context.Context) (int, error)
	CountProducts(ctx context.Context) (int, error)
	CountOrders(ctx context.Context) (int, error)
	RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error)
	RecentQRCodes(ctx context.Context, limit int) ([]models.QRCode, error)
	QRActivityByUser(ctx context.Context) ([]UserActivity, error)
	OrdersSince(ctx context.Context, since time.Time) ([]SaleRow, error)
}

type Service struct {
	Store  Store
	Logger *logger.Logger
	now    func() time.Time
}

func NewService(store Store, log *logger.Logger) *Service {
	return &Service{Store: store, Logger: log, now: time.Now}
}

// Stats gathers the dashboard counters. Users are counted as distinct QR owners.
func (s *Service) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	counters := []struct {
		name string
		dst  *int
		fn   func(context.Context) (int, error)
	}{
		{"users", &stats.TotalUsers, s.Store.CountQROwners},
		{"qrcodes", &stats.TotalQRCodes, s.Store.CountQRCodes},
		{"products", &stats.TotalProducts, s.Store.CountProducts},
		{"orders", &stats.TotalOrders, s.Store.CountOrders},
	}
	for _, c := range counters {
		if *c.dst, err = c.fn(ctx); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.name, err)
		}
	}

	if stats.RecentOrders, err = s.Store.RecentOrders(ctx, recentLimit); err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}
	if stats.RecentQRCodes, err = s.Store.RecentQRCodes(ctx, recentLimit); err != nil {
		return nil, fmt.Errorf("failed to load recent qr codes: %w", err)
	}
	if stats.DailySales, err = s.DailySales(ctx, 30); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Service) Users(ctx context.Context) ([]UserActivity, error) {
	return s.Store.QRActivityByUser(ctx)
}

// DailySales sums non-cancelled order revenue per UTC day over the last days.
func (s *Service) DailySales(ctx context.Context, days int) ([]DailySalesMetrics, error) {
	since := s.now().UTC().AddDate(0, 0, -days)
	rows, err := s.Store.OrdersSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	revenue := map[string]decimal.Decimal{}
	units := map[string]int{}
	for _, row := range rows {
		if row.Status == models.StatusCancelled {
			continue
		}
		day := row.CreatedAt.UTC().Format("2006-01-02")
		revenue[day] = revenue[day].Add(decimal.NewFromFloat(row.Price))
		units[day]++
	}

	out := make([]DailySalesMetrics, 0, len(revenue))
	for day, total := range revenue {
		out = append(out, DailySalesMetrics{Date: day, Revenue: total.Round(2).InexactFloat64(), Units: units[day]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"myday-qr/internal/apperr"
	"myday-qr/internal/database"
	"myday-qr/internal/models"
)

// OptionalColumns may be absent from an older orders table.
var OptionalColumns = []string{"notes", "customer_phone"}

const defaultListLimit = 100

// MissingColumnError is returned by InsertOrders when the store rejects a column.
type MissingColumnError struct {
	Column string
	Err    error
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("orders column %q missing: %v", e.Column, e.Err)
}

func (e *MissingColumnError) Unwrap() error { return e.Err }

type DB struct {
	Bun *bun.DB

	mu      sync.RWMutex
	missing map[string]bool
}

func IsOptional(column string) bool {
	for _, c := range OptionalColumns {
		if c == column {
			return true
		}
	}
	return false
}

// ProbeOptionalColumns checks the live orders table and remembers which
// optional columns it lacks. It returns the missing ones.
func (d *DB) ProbeOptionalColumns(ctx context.Context) ([]string, error) {
	var present []string
	var err error
	if d.Bun.Dialect().Name() == dialect.SQLite {
		err = d.Bun.NewRaw("SELECT name FROM pragma_table_info('orders')").Scan(ctx, &present)
	} else {
		err = d.Bun.NewRaw(
			"SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = 'orders'",
		).Scan(ctx, &present)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to probe orders columns: %w", err)
	}

	have := make(map[string]bool, len(present))
	for _, name := range present {
		have[strings.ToLower(name)] = true
	}

	var missing []string
	for _, c := range OptionalColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}

	d.mu.Lock()
	d.missing = make(map[string]bool, len(missing))
	for _, c := range missing {
		d.missing[c] = true
	}
	d.mu.Unlock()
	return missing, nil
}

// MarkMissing records an optional column found absent after startup.
func (d *DB) MarkMissing(column string) {
	if !IsOptional(column) {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.missing == nil {
		d.missing = make(map[string]bool)
	}
	d.missing[column] = true
}

func (d *DB) MissingColumns() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []string
	for _, c := range OptionalColumns {
		if d.missing[c] {
			out = append(out, c)
		}
	}
	return out
}

func (d *DB) selectOrders(model interface{}) *bun.SelectQuery {
	q := d.Bun.NewSelect().Model(model)
	if missing := d.MissingColumns(); len(missing) > 0 {
		q = q.ExcludeColumn(missing...)
	}
	return q
}

// InsertOrders writes every row in one statement, leaving out the excluded columns.
func (d *DB) InsertOrders(ctx context.Context, orders []models.Order, exclude []string) error {
	if len(orders) == 0 {
		return nil
	}
	q := d.Bun.NewInsert().Model(&orders)
	if len(exclude) > 0 {
		q = q.ExcludeColumn(exclude...)
	}
	_, err := q.Exec(ctx)
	if column, ok := database.MissingColumn(err); ok {
		return &MissingColumnError{Column: column, Err: err}
	}
	return err
}

func (d *DB) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := d.selectOrders(&order).Where("id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns orders newest first. Search matches email, product or customer name.
func (d *DB) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	orders := []models.Order{}
	q := d.selectOrders(&orders).OrderExpr("created_at DESC")

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("LOWER(customer_email) LIKE ?", pattern).
				WhereOr("LOWER(product_name) LIKE ?", pattern).
				WhereOr("LOWER(customer_name) LIKE ?", pattern)
		})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	q = q.Limit(limit)
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	err := q.Scan(ctx)
	return orders, err
}

func (d *DB) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, at time.Time) (*models.Order, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Order)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", at).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
	}
	return d.GetOrder(ctx, id)
}

func (d *DB) DeleteOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := d.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := d.Bun.NewDelete().Model((*models.Order)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

// LatestForUser returns the most recent order placed by userID, or nil.
func (d *DB) LatestForUser(ctx context.Context, userID string) (*models.Order, error) {
	var order models.Order
	err := d.selectOrders(&order).
		Where("user_id = ?", userID).
		OrderExpr("created_at DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *DB) CountOrders(ctx context.Context) (int, error) {
	return d.Bun.NewSelect().Model((*models.Order)(nil)).Count(ctx)
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"myday-qr/internal/apperr"
	"myday-qr/internal/database"
	"myday-qr/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) scanOne(ctx context.Context, q *bun.SelectQuery, what string) error {
	err := q.Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("coupon %s: %w", what, apperr.ErrNotFound)
	}
	return err
}

func (d *DB) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	var c models.Coupon
	if err := d.scanOne(ctx, d.Bun.NewSelect().Model(&c).Where("id = ?", id), id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (d *DB) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	if err := d.scanOne(ctx, d.Bun.NewSelect().Model(&c).Where("code = ?", code), code); err != nil {
		return nil, err
	}
	return &c, nil
}

func (d *DB) List(ctx context.Context) ([]models.Coupon, error) {
	coupons := []models.Coupon{}
	err := d.Bun.NewSelect().Model(&coupons).OrderExpr("created_at DESC").Scan(ctx)
	return coupons, err
}

func (d *DB) Create(ctx context.Context, c *models.Coupon) error {
	_, err := d.Bun.NewInsert().Model(c).Exec(ctx)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("coupon code %s already exists: %w", c.Code, apperr.ErrConflict)
	}
	return err
}

// Update rewrites the editable fields. Usage count and creation time are kept.
func (d *DB) Update(ctx context.Context, c *models.Coupon) error {
	res, err := d.Bun.NewUpdate().
		Model(c).
		Column("code", "discount_type", "discount_value", "min_purchase_amount", "expires_at", "usage_limit", "is_active").
		WherePK().
		Exec(ctx)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("coupon code %s already exists: %w", c.Code, apperr.ErrConflict)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("coupon %s: %w", c.ID, apperr.ErrNotFound)
	}
	return nil
}

func (d *DB) Delete(ctx context.Context, id string) error {
	res, err := d.Bun.NewDelete().Model((*models.Coupon)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("coupon %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

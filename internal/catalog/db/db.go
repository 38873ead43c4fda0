package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"myday-qr/internal/apperr"
	"myday-qr/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- PRODUCTS ----------------

func (d *DB) ListProducts(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	products := []models.Product{}
	q := d.Bun.NewSelect().Model(&products).OrderExpr("display_order ASC, created_at ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Scan(ctx)
	return products, err
}

func (d *DB) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := d.Bun.NewSelect().Model(&p).Where("id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *DB) CreateProduct(ctx context.Context, p *models.Product) error {
	_, err := d.Bun.NewInsert().Model(p).Exec(ctx)
	return err
}

func (d *DB) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := d.Bun.NewUpdate().
		Model(p).
		Column("name", "description", "price", "image_url", "category", "is_active", "display_order", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %s: %w", p.ID, apperr.ErrNotFound)
	}
	return nil
}

func (d *DB) DeleteProduct(ctx context.Context, id string) error {
	return d.deleteByID(ctx, (*models.Product)(nil), "product", id)
}

// ---------------- EXAMPLES ----------------

func (d *DB) ListExamples(ctx context.Context, activeOnly bool) ([]models.Example, error) {
	examples := []models.Example{}
	q := d.Bun.NewSelect().Model(&examples).OrderExpr("display_order ASC, created_at ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Scan(ctx)
	return examples, err
}

func (d *DB) GetExample(ctx context.Context, id string) (*models.Example, error) {
	var e models.Example
	err := d.Bun.NewSelect().Model(&e).Where("id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("example %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (d *DB) CreateExample(ctx context.Context, e *models.Example) error {
	_, err := d.Bun.NewInsert().Model(e).Exec(ctx)
	return err
}

func (d *DB) UpdateExample(ctx context.Context, e *models.Example) error {
	res, err := d.Bun.NewUpdate().
		Model(e).
		Column("title", "description", "image_url", "display_order", "is_active").
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("example %s: %w", e.ID, apperr.ErrNotFound)
	}
	return nil
}

func (d *DB) DeleteExample(ctx context.Context, id string) error {
	return d.deleteByID(ctx, (*models.Example)(nil), "example", id)
}

func (d *DB) deleteByID(ctx context.Context, model interface{}, kind, id string) error {
	res, err := d.Bun.NewDelete().Model(model).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, apperr.ErrNotFound)
	}
	return nil
}

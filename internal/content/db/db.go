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

func (d *DB) List(ctx context.Context) ([]models.SiteConfig, error) {
	rows := []models.SiteConfig{}
	err := d.Bun.NewSelect().Model(&rows).OrderExpr("category ASC, key ASC").Scan(ctx)
	return rows, err
}

func (d *DB) GetByKey(ctx context.Context, key string) (*models.SiteConfig, error) {
	var row models.SiteConfig
	err := d.Bun.NewSelect().Model(&row).Where("key = ?", key).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("site config %s: %w", key, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) Create(ctx context.Context, row *models.SiteConfig) error {
	_, err := d.Bun.NewInsert().Model(row).Exec(ctx)
	return err
}

func (d *DB) Update(ctx context.Context, row *models.SiteConfig) error {
	_, err := d.Bun.NewUpdate().
		Model(row).
		Column("value", "type", "category", "label", "description", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

func (d *DB) DeleteByID(ctx context.Context, id string) error {
	res, err := d.Bun.NewDelete().Model((*models.SiteConfig)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("site config %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

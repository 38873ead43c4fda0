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

// DB is the privileged administrator repository. Every query runs with the
// service's own credentials.
type DB struct {
	Bun *bun.DB
}

func (d *DB) FindByUserID(ctx context.Context, userID string, limit int) ([]models.Administrator, error) {
	var admins []models.Administrator
	err := d.Bun.NewSelect().
		Model(&admins).
		Where("user_id = ?", userID).
		OrderExpr("created_at ASC").
		Limit(limit).
		Scan(ctx)
	return admins, err
}

// FindByEmail matches the stored email exactly.
func (d *DB) FindByEmail(ctx context.Context, email string, limit int) ([]models.Administrator, error) {
	var admins []models.Administrator
	err := d.Bun.NewSelect().
		Model(&admins).
		Where("email = ?", email).
		OrderExpr("created_at ASC").
		Limit(limit).
		Scan(ctx)
	return admins, err
}

func (d *DB) LinkUser(ctx context.Context, id, userID string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Administrator)(nil)).
		Set("user_id = ?", userID).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (d *DB) List(ctx context.Context) ([]models.Administrator, error) {
	var admins []models.Administrator
	err := d.Bun.NewSelect().
		Model(&admins).
		OrderExpr("created_at DESC").
		Scan(ctx)
	return admins, err
}

func (d *DB) GetByID(ctx context.Context, id string) (*models.Administrator, error) {
	var admin models.Administrator
	err := d.Bun.NewSelect().
		Model(&admin).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("administrator %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (d *DB) Create(ctx context.Context, admin *models.Administrator) error {
	_, err := d.Bun.NewInsert().Model(admin).Exec(ctx)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("administrator %s already exists: %w", admin.Email, apperr.ErrConflict)
	}
	return err
}

func (d *DB) UpdateRole(ctx context.Context, id, role string) (*models.Administrator, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Administrator)(nil)).
		Set("role = ?", role).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("administrator %s: %w", id, apperr.ErrNotFound)
	}
	return d.GetByID(ctx, id)
}

func (d *DB) Delete(ctx context.Context, id string) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Administrator)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("administrator %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (d *DB) Count(ctx context.Context) (int, error) {
	return d.Bun.NewSelect().Model((*models.Administrator)(nil)).Count(ctx)
}

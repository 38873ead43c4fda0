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

func (d *DB) Create(ctx context.Context, qr *models.QRCode) error {
	_, err := d.Bun.NewInsert().Model(qr).Exec(ctx)
	return err
}

func (d *DB) GetByShortCode(ctx context.Context, shortCode string) (*models.QRCode, error) {
	var qr models.QRCode
	err := d.Bun.NewSelect().
		Model(&qr).
		Where("short_code = ?", shortCode).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("qr code %s: %w", shortCode, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &qr, nil
}

func (d *DB) get(ctx context.Context, q *bun.SelectQuery, qr *models.QRCode, id string) (*models.QRCode, error) {
	err := q.Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("qr code %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return qr, nil
}

func (d *DB) getOwned(ctx context.Context, id, ownerID string) (*models.QRCode, error) {
	var qr models.QRCode
	return d.get(ctx, d.Bun.NewSelect().Model(&qr).Where("id = ?", id).Where("user_id = ?", ownerID), &qr, id)
}

func (d *DB) GetByID(ctx context.Context, id string) (*models.QRCode, error) {
	var qr models.QRCode
	return d.get(ctx, d.Bun.NewSelect().Model(&qr).Where("id = ?", id), &qr, id)
}

// UpdatePhrase changes the phrase of a code owned by ownerID. A code that does
// not exist and a code owned by someone else are both not found.
func (d *DB) UpdatePhrase(ctx context.Context, id, ownerID, phrase string) (*models.QRCode, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.QRCode)(nil)).
		Set("phrase = ?", phrase).
		Where("id = ?", id).
		Where("user_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("qr code %s: %w", id, apperr.ErrNotFound)
	}
	return d.getOwned(ctx, id, ownerID)
}

// DeleteOwned removes a code owned by ownerID and returns the removed row.
func (d *DB) DeleteOwned(ctx context.Context, id, ownerID string) (*models.QRCode, error) {
	qr, err := d.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	res, err := d.Bun.NewDelete().
		Model((*models.QRCode)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("qr code %s: %w", id, apperr.ErrNotFound)
	}
	return qr, nil
}

// DeleteByID removes any code. Only the admin routes reach it.
func (d *DB) DeleteByID(ctx context.Context, id string) (*models.QRCode, error) {
	qr, err := d.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := d.Bun.NewDelete().Model((*models.QRCode)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
		return nil, err
	}
	return qr, nil
}

func (d *DB) ListByOwner(ctx context.Context, ownerID string) ([]models.QRCode, error) {
	codes := []models.QRCode{}
	err := d.Bun.NewSelect().
		Model(&codes).
		Where("user_id = ?", ownerID).
		OrderExpr("created_at DESC").
		Scan(ctx)
	return codes, err
}

func (d *DB) ListAll(ctx context.Context) ([]models.QRCode, error) {
	codes := []models.QRCode{}
	err := d.Bun.NewSelect().
		Model(&codes).
		OrderExpr("created_at DESC").
		Scan(ctx)
	return codes, err
}

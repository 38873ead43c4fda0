package analytics

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"myday-qr/internal/models"
)

// DB runs the read-only dashboard queries.
type DB struct {
	bun *bun.DB
}

func NewDB(db *bun.DB) *DB {
	return &DB{bun: db}
}

func (db *DB) CountQRCodes(ctx context.Context) (int, error) {
	return db.bun.NewSelect().Model((*models.QRCode)(nil)).Count(ctx)
}

func (db *DB) CountQROwners(ctx context.Context) (int, error) {
	var count int
	err := db.bun.NewSelect().
		Model((*models.QRCode)(nil)).
		ColumnExpr("COUNT(DISTINCT user_id)").
		Scan(ctx, &count)
	return count, err
}

func (db *DB) CountProducts(ctx context.Context) (int, error) {
	return db.bun.NewSelect().Model((*models.Product)(nil)).Count(ctx)
}

func (db *DB) CountOrders(ctx context.Context) (int, error) {
	return db.bun.NewSelect().Model((*models.Order)(nil)).Count(ctx)
}

// RecentOrders selects only the columns every orders table has.
func (db *DB) RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error) {
	orders := []RecentOrder{}
	err := db.bun.NewSelect().
		TableExpr("orders").
		Column("id", "product_name", "price", "status", "customer_name", "customer_email", "created_at").
		OrderExpr("created_at DESC").
		Limit(limit).
		Scan(ctx, &orders)
	return orders, err
}

func (db *DB) RecentQRCodes(ctx context.Context, limit int) ([]models.QRCode, error) {
	codes := []models.QRCode{}
	err := db.bun.NewSelect().
		Model(&codes).
		OrderExpr("created_at DESC").
		Limit(limit).
		Scan(ctx)
	return codes, err
}

// QRActivityByUser groups QR codes by owner, most recently active first.
func (db *DB) QRActivityByUser(ctx context.Context) ([]UserActivity, error) {
	rows := []UserActivity{}
	err := db.bun.NewSelect().
		TableExpr("qrcodes AS q").
		ColumnExpr("q.user_id AS user_id").
		ColumnExpr("u.email AS email").
		ColumnExpr("COUNT(*) AS qr_count").
		ColumnExpr("MAX(q.created_at) AS last_activity").
		Join("LEFT JOIN users AS u ON CAST(u.id AS TEXT) = q.user_id").
		GroupExpr("q.user_id, u.email").
		OrderExpr("last_activity DESC").
		Scan(ctx, &rows)
	return rows, err
}

func (db *DB) OrdersSince(ctx context.Context, since time.Time) ([]SaleRow, error) {
	rows := []SaleRow{}
	err := db.bun.NewSelect().
		TableExpr("orders").
		Column("price", "status", "created_at").
		Where("created_at >= ?", since).
		OrderExpr("created_at ASC").
		Scan(ctx, &rows)
	return rows, err
}

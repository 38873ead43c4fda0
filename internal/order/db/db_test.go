package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myday-qr/internal/apperr"
	"myday-qr/internal/models"
	"myday-qr/internal/order/db"
	"myday-qr/internal/testutil"
)

// legacyOrdersTable predates the notes and customer_phone columns.
const legacyOrdersTable = `CREATE TABLE orders (
	id TEXT PRIMARY KEY,
	user_id TEXT,
	product_id TEXT,
	product_name TEXT NOT NULL,
	price REAL NOT NULL,
	status TEXT NOT NULL,
	customer_email TEXT NOT NULL,
	customer_name TEXT,
	shipping_address TEXT,
	short_code TEXT,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

func strPtr(s string) *string { return &s }

func newOrder(email, product string, price float64, created time.Time) models.Order {
	return models.Order{
		ID:              uuid.New().String(),
		ProductName:     product,
		Price:           price,
		Status:          models.StatusPending,
		CustomerEmail:   email,
		CustomerName:    "Ana",
		CustomerPhone:   strPtr("912345678"),
		ShippingAddress: "Rua A",
		Notes:           strPtr("embrulhar"),
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

func setupTestDB(t *testing.T) *db.DB {
	return &db.DB{Bun: testutil.NewSQLiteDB(t, (*models.Order)(nil))}
}

func setupLegacyDB(t *testing.T) *db.DB {
	bunDB := testutil.NewSQLiteDB(t)
	_, err := bunDB.ExecContext(context.Background(), legacyOrdersTable)
	require.NoError(t, err)
	return &db.DB{Bun: bunDB}
}

func TestProbeOptionalColumns(t *testing.T) {
	ctx := context.Background()

	full := setupTestDB(t)
	missing, err := full.ProbeOptionalColumns(ctx)
	require.NoError(t, err)
	assert.Empty(t, missing)

	legacy := setupLegacyDB(t)
	missing, err = legacy.ProbeOptionalColumns(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"notes", "customer_phone"}, missing)
	assert.ElementsMatch(t, []string{"notes", "customer_phone"}, legacy.MissingColumns())
}

func TestInsertOrdersReportsMissingColumn(t *testing.T) {
	ctx := context.Background()
	store := setupLegacyDB(t)

	orders := []models.Order{newOrder("a@x.pt", "Caneca", 12.5, time.Now().UTC())}
	err := store.InsertOrders(ctx, orders, nil)

	var mce *db.MissingColumnError
	require.True(t, errors.As(err, &mce), "%v", err)
	assert.True(t, db.IsOptional(mce.Column))

	require.NoError(t, store.InsertOrders(ctx, orders, db.OptionalColumns))

	store.MarkMissing("notes")
	store.MarkMissing("customer_phone")
	store.MarkMissing("price")
	assert.ElementsMatch(t, db.OptionalColumns, store.MissingColumns())

	got, err := store.GetOrder(ctx, orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Caneca", got.ProductName)
	assert.Nil(t, got.Notes)
}

func TestListOrdersFiltersAndSearches(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)

	base := time.Now().UTC().Add(-time.Hour)
	orders := []models.Order{
		newOrder("ana@x.pt", "Caneca LOVE", 12.5, base),
		newOrder("rui@x.pt", "Porta-chaves", 6, base.Add(time.Minute)),
		newOrder("eva@x.pt", "Íman", 4, base.Add(2*time.Minute)),
	}
	orders[2].Status = models.StatusPaid
	require.NoError(t, store.InsertOrders(ctx, orders, nil))

	all, err := store.ListOrders(ctx, models.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, orders[2].ID, all[0].ID)

	paid, err := store.ListOrders(ctx, models.OrderFilter{Status: "paid"})
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, "eva@x.pt", paid[0].CustomerEmail)

	found, err := store.ListOrders(ctx, models.OrderFilter{Search: "caneca"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "ana@x.pt", found[0].CustomerEmail)

	paged, err := store.ListOrders(ctx, models.OrderFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, orders[1].ID, paged[0].ID)
}

func TestUpdateStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)

	created := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	order := newOrder("ana@x.pt", "Caneca", 12.5, created)
	require.NoError(t, store.InsertOrders(ctx, []models.Order{order}, nil))

	later := created.Add(30 * time.Minute)
	updated, err := store.UpdateStatus(ctx, order.ID, models.StatusShipped, later)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.Status)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	_, err = store.UpdateStatus(ctx, "missing", models.StatusPaid, later)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	deleted, err := store.DeleteOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, deleted.ID)

	_, err = store.GetOrder(ctx, order.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestLatestForUser(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)

	none, err := store.LatestForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, none)

	first := newOrder("ana@x.pt", "Caneca", 10, time.Now().UTC().Add(-time.Hour))
	second := newOrder("ana@x.pt", "Íman", 4, time.Now().UTC())
	second.ShippingAddress = "Rua B"
	first.UserID, second.UserID = strPtr("user-1"), strPtr("user-1")
	require.NoError(t, store.InsertOrders(ctx, []models.Order{first, second}, nil))

	latest, err := store.LatestForUser(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "Rua B", latest.ShippingAddress)

	count, err := store.CountOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

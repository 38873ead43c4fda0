package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/testutil"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, db *bun.DB) {
	ctx := context.Background()

	user := &models.User{ID: uuid.New().String(), Email: "ana@x.pt", PasswordHash: "x", CreatedAt: fixedNow}
	_, err := db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	codes := []models.QRCode{
		{ID: uuid.New().String(), UserID: user.ID, Phrase: "a", ShortCode: "aaaaaaa1", CreatedAt: fixedNow.Add(-3 * time.Hour)},
		{ID: uuid.New().String(), UserID: user.ID, Phrase: "b", ShortCode: "aaaaaaa2", CreatedAt: fixedNow.Add(-time.Hour)},
		{ID: uuid.New().String(), UserID: "oidc-subject", Phrase: "c", ShortCode: "aaaaaaa3", CreatedAt: fixedNow.Add(-2 * time.Hour)},
	}
	_, err = db.NewInsert().Model(&codes).Exec(ctx)
	require.NoError(t, err)

	_, err = db.NewInsert().Model(&models.Product{ID: uuid.New().String(), Name: "Caneca", Price: 13.9, IsActive: true, CreatedAt: fixedNow, UpdatedAt: fixedNow}).Exec(ctx)
	require.NoError(t, err)

	order := func(price float64, status models.OrderStatus, at time.Time) models.Order {
		return models.Order{ID: uuid.New().String(), ProductName: "Caneca", Price: price, Status: status, CustomerEmail: "ana@x.pt", CreatedAt: at, UpdatedAt: at}
	}
	orders := []models.Order{
		order(13.9, models.StatusPending, fixedNow.Add(-48*time.Hour)),
		order(13.9, models.StatusPaid, fixedNow.Add(-47*time.Hour)),
		order(6, models.StatusCancelled, fixedNow.Add(-47*time.Hour)),
		order(4.1, models.StatusShipped, fixedNow.Add(-time.Hour)),
		order(99, models.StatusPaid, fixedNow.AddDate(0, 0, -60)),
	}
	_, err = db.NewInsert().Model(&orders).Exec(ctx)
	require.NoError(t, err)
}

func setupService(t *testing.T) *Service {
	db := testutil.NewSQLiteDB(t, (*models.User)(nil), (*models.QRCode)(nil), (*models.Product)(nil), (*models.Order)(nil))
	seed(t, db)
	svc := NewService(NewDB(db), logger.NewNopLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestStats(t *testing.T) {
	svc := setupService(t)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 3, stats.TotalQRCodes)
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 5, stats.TotalOrders)
	require.Len(t, stats.RecentOrders, 5)
	assert.InDelta(t, 4.1, stats.RecentOrders[0].Price, 0.0001)
	require.Len(t, stats.RecentQRCodes, 3)
	assert.Equal(t, "b", stats.RecentQRCodes[0].Phrase)
}

func TestDailySalesSkipsCancelledAndOldOrders(t *testing.T) {
	svc := setupService(t)

	sales, err := svc.DailySales(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, "2026-10-15", sales[0].Date)
	assert.InDelta(t, 27.8, sales[0].Revenue, 0.0001)
	assert.Equal(t, 2, sales[0].Units)
	assert.Equal(t, "2026-10-17", sales[1].Date)
	assert.Equal(t, 1, sales[1].Units)
}

func TestUsersGroupsQRCodesByOwner(t *testing.T) {
	svc := setupService(t)

	users, err := svc.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, 2, users[0].QRCount)
	require.NotNil(t, users[0].Email)
	assert.Equal(t, "ana@x.pt", *users[0].Email)
	assert.Equal(t, "oidc-subject", users[1].UserID)
	assert.Nil(t, users[1].Email)
	assert.Equal(t, 1, users[1].QRCount)
}

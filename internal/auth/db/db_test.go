package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myday-qr/internal/apperr"
	"myday-qr/internal/auth/db"
	"myday-qr/internal/models"
	"myday-qr/internal/testutil"
)

func setupTestDB(t *testing.T) *db.DB {
	return &db.DB{Bun: testutil.NewSQLiteDB(t, (*models.User)(nil))}
}

func TestUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)

	user := &models.User{ID: "u-1", Email: "ana@example.com", PasswordHash: "hash", FullName: "Ana", CreatedAt: time.Now()}
	require.NoError(t, store.CreateUser(ctx, user))

	byEmail, err := store.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", byEmail.ID)

	require.NoError(t, store.UpdatePassword(ctx, "u-1", "new-hash"))
	byID, err := store.GetUserByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", byID.PasswordHash)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserErrors(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)

	_, err := store.GetUserByID(ctx, "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.True(t, errors.Is(store.UpdatePassword(ctx, "missing", "x"), apperr.ErrNotFound))

	user := &models.User{ID: "u-1", Email: "ana@example.com", PasswordHash: "hash", CreatedAt: time.Now()}
	require.NoError(t, store.CreateUser(ctx, user))
	dup := &models.User{ID: "u-2", Email: "ana@example.com", PasswordHash: "hash", CreatedAt: time.Now()}
	assert.True(t, errors.Is(store.CreateUser(ctx, dup), apperr.ErrConflict))
}

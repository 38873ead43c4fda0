package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myday-qr/internal/apperr"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/testutil"
)

func TestCachingResolverServesRepeatTokensFromRedis(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	next := &staticResolver{principal: &models.Principal{ID: "u-1", Email: "ana@example.com", ExpiresAt: time.Now().Add(time.Hour)}}
	cache := NewCachingResolver(next, client, time.Minute, logger.NewNopLogger())
	ctx := context.Background()

	first, err := cache.ResolveToken(ctx, "token-a")
	require.NoError(t, err)
	second, err := cache.ResolveToken(ctx, "token-a")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Email, second.Email)

	key := principalKey("token-a")
	assert.True(t, mr.Exists(key))
	assert.NotContains(t, key, "token-a")
	assert.LessOrEqual(t, mr.TTL(key), time.Minute)
}

func TestCachingResolverBoundsTTLByTokenExpiry(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	next := &staticResolver{principal: &models.Principal{ID: "u-1", ExpiresAt: time.Now().Add(10 * time.Second)}}
	cache := NewCachingResolver(next, client, time.Hour, logger.NewNopLogger())

	_, err := cache.ResolveToken(context.Background(), "short-lived")
	require.NoError(t, err)
	assert.LessOrEqual(t, mr.TTL(principalKey("short-lived")), 10*time.Second)
}

func TestCachingResolverDoesNotCacheFailures(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	next := &staticResolver{err: fmt.Errorf("bad token: %w", apperr.ErrUnauthorized)}
	cache := NewCachingResolver(next, client, time.Minute, logger.NewNopLogger())

	_, err := cache.ResolveToken(context.Background(), "bad")
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
	assert.False(t, mr.Exists(principalKey("bad")))
}

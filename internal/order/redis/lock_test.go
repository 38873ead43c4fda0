package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myday-qr/internal/logger"
	"myday-qr/internal/testutil"
)

func TestLockIsExclusivePerCustomer(t *testing.T) {
	ctx := context.Background()
	client, _ := testutil.NewRedis(t)
	lock := NewCheckoutLock(client, time.Minute, logger.NewNopLogger())

	ok, err := lock.Lock(ctx, "Ana@x.pt", "token-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock.Lock(ctx, " ana@x.pt ", "token-2")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = lock.Lock(ctx, "rui@x.pt", "token-3")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUnlockOnlyByOwner(t *testing.T) {
	ctx := context.Background()
	client, mr := testutil.NewRedis(t)
	lock := NewCheckoutLock(client, time.Minute, logger.NewNopLogger())

	ok, err := lock.Lock(ctx, "ana@x.pt", "token-1")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, lock.Unlock(ctx, "ana@x.pt", "someone-else"))
	assert.True(t, mr.Exists(lockKey("ana@x.pt")))

	require.NoError(t, lock.Unlock(ctx, "ana@x.pt", "token-1"))
	assert.False(t, mr.Exists(lockKey("ana@x.pt")))

	require.NoError(t, lock.Unlock(ctx, "ana@x.pt", "token-1"))
}

func TestLockExpires(t *testing.T) {
	ctx := context.Background()
	client, mr := testutil.NewRedis(t)
	lock := NewCheckoutLock(client, 5*time.Second, logger.NewNopLogger())

	ok, err := lock.Lock(ctx, "ana@x.pt", "token-1")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(6 * time.Second)

	ok, err = lock.Lock(ctx, "ana@x.pt", "token-2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConcurrentLockSingleWinner(t *testing.T) {
	ctx := context.Background()
	client, _ := testutil.NewRedis(t)
	lock := NewCheckoutLock(client, time.Minute, logger.NewNopLogger())

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := lock.Lock(ctx, "ana@x.pt", string(rune('a'+i)))
			if err == nil && ok {
				atomic.AddInt32(&wins, 1)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}

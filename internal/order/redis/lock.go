package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"myday-qr/internal/logger"
)

const lockPrefix = "checkout_lock:"

// unlockScript deletes the key only while it still holds the caller's token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CheckoutLock keeps one checkout per customer in flight.
type CheckoutLock struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *logger.Logger
}

func NewCheckoutLock(client *redis.Client, ttl time.Duration, log *logger.Logger) *CheckoutLock {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CheckoutLock{Client: client, TTL: ttl, Logger: log}
}

func lockKey(customer string) string {
	return lockPrefix + strings.ToLower(strings.TrimSpace(customer))
}

// Lock reports false when another checkout for customer holds the lock.
func (l *CheckoutLock) Lock(ctx context.Context, customer, token string) (bool, error) {
	ok, err := l.Client.SetNX(ctx, lockKey(customer), token, l.TTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to lock checkout: %w", err)
	}
	if !ok {
		l.Logger.Debug("REDIS", fmt.Sprintf("Checkout lock busy for %s", customer))
	}
	return ok, nil
}

// Unlock releases the lock if token still owns it.
func (l *CheckoutLock) Unlock(ctx context.Context, customer, token string) error {
	if err := unlockScript.Run(ctx, l.Client, []string{lockKey(customer)}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("failed to unlock checkout: %w", err)
	}
	return nil
}

// NoopLock always grants the lock. Used when Redis is not configured.
type NoopLock struct{}

func (NoopLock) Lock(context.Context, string, string) (bool, error) { return true, nil }
func (NoopLock) Unlock(context.Context, string, string) error { return nil }

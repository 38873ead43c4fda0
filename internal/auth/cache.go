package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"myday-qr/internal/logger"
	"myday-qr/internal/models"
)

const principalKeyPrefix = "principal:"

type cachedPrincipal struct {
	Principal models.Principal `json:"principal"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// CachingResolver keeps resolved principals in Redis so repeated requests with
// the same token skip signature checks and account lookups. An entry never
// outlives the token it was built from.
type CachingResolver struct {
	Next   TokenResolver
	Client *redis.Client
	TTL    time.Duration
	Logger *logger.Logger
}

func NewCachingResolver(next TokenResolver, client *redis.Client, ttl time.Duration, log *logger.Logger) *CachingResolver {
	return &CachingResolver{Next: next, Client: client, TTL: ttl, Logger: log}
}

func principalKey(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return principalKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *CachingResolver) ResolveToken(ctx context.Context, rawToken string) (*models.Principal, error) {
	key := principalKey(rawToken)

	if cached, err := c.Client.Get(ctx, key).Result(); err == nil {
		var entry cachedPrincipal
		if err := json.Unmarshal([]byte(cached), &entry); err == nil && time.Now().Before(entry.ExpiresAt) {
			p := entry.Principal
			p.ExpiresAt = entry.ExpiresAt
			return &p, nil
		}
	} else if err != redis.Nil {
		c.Logger.Warn("AUTH", fmt.Sprintf("Principal cache read failed: %v", err))
	}

	principal, err := c.Next.ResolveToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	ttl := c.TTL
	if !principal.ExpiresAt.IsZero() {
		if remaining := time.Until(principal.ExpiresAt); remaining < ttl {
			ttl = remaining
		}
	}
	if ttl <= 0 {
		return principal, nil
	}

	payload, err := json.Marshal(cachedPrincipal{Principal: *principal, ExpiresAt: time.Now().Add(ttl)})
	if err != nil {
		return principal, nil
	}
	if err := c.Client.Set(ctx, key, payload, ttl).Err(); err != nil {
		c.Logger.Warn("AUTH", fmt.Sprintf("Principal cache write failed: %v", err))
	}
	return principal, nil
}

package qrcode

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"myday-qr/internal/logger"
	"myday-qr/internal/models"
)

const resolveKeyPrefix = "qr:resolve:"

// Cache holds the public view of resolved short codes.
type Cache interface {
	Get(ctx context.Context, shortCode string) (*models.PublicQRCode, bool)
	Set(ctx context.Context, shortCode string, view *models.PublicQRCode)
	Invalidate(ctx context.Context, shortCode string)
}

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *logger.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl, Logger: log}
}

func (c *RedisCache) Get(ctx context.Context, shortCode string) (*models.PublicQRCode, bool) {
	raw, err := c.Client.Get(ctx, resolveKeyPrefix+shortCode).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.Logger.Warn("QRCODE", fmt.Sprintf("Cache read failed for %s: %v", shortCode, err))
		}
		return nil, false
	}

	var view models.PublicQRCode
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, false
	}
	return &view, true
}

func (c *RedisCache) Set(ctx context.Context, shortCode string, view *models.PublicQRCode) {
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, resolveKeyPrefix+shortCode, raw, c.TTL).Err(); err != nil {
		c.Logger.Warn("QRCODE", fmt.Sprintf("Cache write failed for %s: %v", shortCode, err))
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, shortCode string) {
	if err := c.Client.Del(ctx, resolveKeyPrefix+shortCode).Err(); err != nil {
		c.Logger.Warn("QRCODE", fmt.Sprintf("Cache invalidation failed for %s: %v", shortCode, err))
	}
}

// NoopCache is used when Redis is not configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*models.PublicQRCode, bool) { return nil, false }
func (NoopCache) Set(context.Context, string, *models.PublicQRCode) {}
func (NoopCache) Invalidate(context.Context, string) {}

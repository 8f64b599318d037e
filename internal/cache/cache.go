// Package cache holds the read-through cache for a trailer's weekly template.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"buurbak-availability/internal/domain"
	"buurbak-availability/internal/logger"
)

// Template is the cached part of a trailer's schedule: the trailer itself and
// its weekly rows. Exceptions, blocks and rentals are always read fresh.
type Template struct {
	Trailer domain.Trailer              `json:"trailer"`
	Weekly  []domain.WeeklyAvailability `json:"weekly"`
}

type TemplateCache interface {
	// Get returns nil and no error on a miss.
	Get(ctx context.Context, trailerID int32) (*Template, error)
	Set(ctx context.Context, t *Template) error
	Invalidate(ctx context.Context, trailerID int32) error
}

func key(trailerID int32) string {
	return fmt.Sprintf("availability:template:%d", trailerID)
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) TemplateCache {
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, trailerID int32) (*Template, error) {
	logger.ExternalServiceCall("redis", "GET", "key", key(trailerID))
	raw, err := c.client.Get(ctx, key(trailerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		logger.ExternalServiceResult("redis", "GET", nil, "hit", false)
		return nil, nil
	}
	if err != nil {
		logger.ExternalServiceResult("redis", "GET", err)
		return nil, err
	}

	var t Template
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode cached template: %w", err)
	}
	logger.ExternalServiceResult("redis", "GET", nil, "hit", true)
	return &t, nil
}

func (c *redisCache) Set(ctx context.Context, t *Template) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	err = c.client.Set(ctx, key(t.Trailer.ID), raw, c.ttl).Err()
	logger.ExternalServiceResult("redis", "SET", err, "key", key(t.Trailer.ID))
	return err
}

func (c *redisCache) Invalidate(ctx context.Context, trailerID int32) error {
	err := c.client.Del(ctx, key(trailerID)).Err()
	logger.ExternalServiceResult("redis", "DEL", err, "key", key(trailerID))
	return err
}

type noopCache struct{}

// NewNoopCache returns a cache that never hits. It is used when no redis
// address is configured.
func NewNoopCache() TemplateCache { return noopCache{} }

func (noopCache) Get(context.Context, int32) (*Template, error) { return nil, nil }
func (noopCache) Set(context.Context, *Template) error          { return nil }
func (noopCache) Invalidate(context.Context, int32) error       { return nil }

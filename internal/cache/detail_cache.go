package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DetailCache holds serialized single-user responses so repeated detail
// lookups don't hit the directory every time. All methods are best-effort
// from the caller's point of view.
type DetailCache interface {
	GetByID(ctx context.Context, id int) ([]byte, error)
	Set(ctx context.Context, id int, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, id int) error
}

type detailCache struct {
	client *RedisClient
	prefix string
}

func NewDetailCache(redisClient *RedisClient) DetailCache {
	return &detailCache{
		client: redisClient,
		prefix: "user:",
	}
}

func (c *detailCache) key(id int) string {
	return fmt.Sprintf("%s%d", c.prefix, id)
}

func (c *detailCache) GetByID(ctx context.Context, id int) ([]byte, error) {
	data, err := c.client.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}
	return data, nil
}

func (c *detailCache) Set(ctx context.Context, id int, data []byte, ttl time.Duration) error {
	return c.client.client.Set(ctx, c.key(id), data, ttl).Err()
}

func (c *detailCache) Delete(ctx context.Context, id int) error {
	return c.client.client.Del(ctx, c.key(id)).Err()
}

// NoopDetailCache is used when Redis is disabled; every lookup is a miss.
type NoopDetailCache struct{}

func (NoopDetailCache) GetByID(ctx context.Context, id int) ([]byte, error) { return nil, nil }
func (NoopDetailCache) Set(ctx context.Context, id int, data []byte, ttl time.Duration) error {
	return nil
}
func (NoopDetailCache) Delete(ctx context.Context, id int) error { return nil }

package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/example/nyksales/pkg/config"
)

const (
	statsKey = "dashboard:stats"
	statsTTL = 30 * time.Second
)

type Cache struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewCache(cfg *config.RedisConfig) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

// CacheStats stores the dashboard statistics snapshot. The snapshot is
// short-lived and additionally invalidated on every order write.
func (c *Cache) CacheStats(ctx context.Context, stats interface{}) error {
	return c.SetJSON(ctx, statsKey, stats, statsTTL)
}

// GetStats loads the cached snapshot into dest. Returns false on a miss.
func (c *Cache) GetStats(ctx context.Context, dest interface{}) (bool, error) {
	err := c.GetJSON(ctx, statsKey, dest)
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) InvalidateStats(ctx context.Context) error {
	return c.Del(ctx, statsKey)
}

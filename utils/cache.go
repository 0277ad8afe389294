package utils

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCache is a thin byte cache over a go-redis client.
type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache connects and pings so a bad address shows up at boot.
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisCache{Client: client}, nil
}

// Get returns redis.Nil on a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.Client.Get(ctx, key).Bytes()
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

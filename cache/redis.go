package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

// Redis is a Cache shared between processes. Values are stored as JSON
// under prefix+key.
type Redis[V any] struct {
	client *goredis.Client
	prefix string
}

func NewRedis[V any](client *goredis.Client, prefix string) *Redis[V] {
	return &Redis[V]{client: client, prefix: prefix}
}

// DialRedis connects and pings addr.
func DialRedis(ctx context.Context, addr, password string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var v V
	b, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return v, ErrMiss
	}
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

func (r *Redis[V]) Set(ctx context.Context, key string, v V, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, r.prefix+key, b, ttl).Err()
}

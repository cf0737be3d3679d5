// Package cache provides expiring key/value caches used as read-through
// wrappers in front of slow lookups such as the mutual fund scheme list.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrMiss = errors.New("cache miss")

// Cache stores values of type V with a time to live. Get returns ErrMiss
// for absent or expired keys. A ttl <= 0 never expires.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, v V, ttl time.Duration) error
}

type entry[V any] struct {
	v       V
	expires time.Time
}

// Memory is a process-local Cache.
type Memory[V any] struct {
	mu    sync.Mutex
	items map[string]entry[V]
	now   func() time.Time
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func NewMemory[V any](opts ...Option) *Memory[V] {
	o := options{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	return &Memory[V]{items: make(map[string]entry[V]), now: o.now}
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	e, ok := m.items[key]
	if !ok {
		return zero, ErrMiss
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.items, key)
		return zero, ErrMiss
	}
	return e.v, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, v V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry[V]{v: v}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.items[key] = e
	return nil
}

func (m *Memory[V]) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

// Len counts stored entries, including expired ones not yet evicted.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// GetOrLoad returns the cached value for key, calling load and storing its
// result on a miss. A failing Set does not fail the call.
func GetOrLoad[V any](ctx context.Context, c Cache[V], key string, ttl time.Duration, load func(context.Context) (V, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	_ = c.Set(ctx, key, v, ttl)
	return v, nil
}

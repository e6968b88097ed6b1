package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Cache is a key-value store with per-key expiry. Expired entries read as
// absent. Get swallows store errors so a flaky backend degrades to misses.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, val string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Counters is the quota counter store. Unlike Cache, store errors are
// surfaced: quota accounting must fail closed when its backend is down.
type Counters interface {
	// IncrWithTTL atomically increments key and returns the new count.
	// The expiry is fixed on the first increment of the key.
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// PrefixDeleter invalidates a whole key family at once, e.g. every cached
// recommendation page after the genre reference set changes.
type PrefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) error
}

type InMemoryCache struct {
	mu       sync.Mutex
	data     map[string]item
	counters map[string]counter
}

type item struct {
	val string
	exp time.Time
}

type counter struct {
	n   int64
	exp time.Time
}

func NewInMemory() *InMemoryCache {
	return &InMemoryCache{data: make(map[string]item), counters: make(map[string]counter)}
}

func (c *InMemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.data[key]
	if !ok {
		return "", false
	}
	if !it.exp.IsZero() && time.Now().After(it.exp) {
		delete(c.data, key)
		return "", false
	}
	return it.val, true
}

func (c *InMemoryCache) Set(_ context.Context, key string, val string, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.data[key] = item{val: val, exp: exp}
	c.mu.Unlock()
	return nil
}

func (c *InMemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}

func (c *InMemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	c.mu.Unlock()
	return nil
}

func (c *InMemoryCache) IncrWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ct, ok := c.counters[key]
	if !ok || (!ct.exp.IsZero() && time.Now().After(ct.exp)) {
		ct = counter{}
		if ttl > 0 {
			ct.exp = time.Now().Add(ttl)
		}
	}
	ct.n++
	c.counters[key] = ct
	return ct.n, nil
}

// Package cache provides a small TTL cache used for feed rankings, backed
// either by an in-process LRU or by Redis.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache stores JSON-encodable values under string keys.
type Cache interface {
	// Get decodes the cached value into dest; ok is false on a miss.
	Get(ctx context.Context, key string, dest any) (ok bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type item struct {
	data      []byte
	expiresAt time.Time
}

// LRU is an in-process Cache with a fixed capacity.
type LRU struct {
	// mu serialises the expiry check and eviction in Get with writers.
	mu    sync.Mutex
	items *lru.Cache[string, item]
	now   func() time.Time
}

func NewLRU(size int) (*LRU, error) {
	l, err := lru.New[string, item](size)
	if err != nil {
		return nil, err
	}
	return &LRU{items: l, now: time.Now}, nil
}

func (c *LRU) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	it, ok := c.items.Get(key)
	if ok && c.now().After(it.expiresAt) {
		c.items.Remove(key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(it.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *LRU) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items.Add(key, item{data: data, expiresAt: c.now().Add(ttl)})
	c.mu.Unlock()
	return nil
}

func (c *LRU) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		c.items.Remove(key)
	}
	return nil
}

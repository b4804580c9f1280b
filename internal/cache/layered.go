package cache

import (
	"context"
	"errors"
	"time"
)

// LayeredCache checks memory before disk and writes to both
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache creates a memory cache in front of a disk cache
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// Get checks memory first; disk hits are promoted to memory
func (c *LayeredCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if val, found := c.memory.Get(ctx, key); found {
		return val, true
	}

	if val, found := c.disk.Get(ctx, key); found {
		_ = c.memory.Set(ctx, key, val, 0)
		return val, true
	}

	return nil, false
}

// Set stores a value in both layers
func (c *LayeredCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.disk.Set(ctx, key, value, ttl)
}

// Delete removes a value from both layers
func (c *LayeredCache) Delete(ctx context.Context, key string) error {
	return errors.Join(c.memory.Delete(ctx, key), c.disk.Delete(ctx, key))
}

// Clear empties both layers
func (c *LayeredCache) Clear(ctx context.Context) error {
	return errors.Join(c.memory.Clear(ctx), c.disk.Clear(ctx))
}

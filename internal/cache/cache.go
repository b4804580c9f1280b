// Package cache stores provider responses so repeated questions do not hit
// the weather and search APIs again within a TTL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/raychel/internal/model"
)

// Cache defines the interface for caching. A ttl of 0 means the backend
// default.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

const keyPrefix = "raychel:v1:"

// Key derives a cache key from a namespace and the request parts,
// e.g. Key("weather", "current", "Paris").
func Key(namespace string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return keyPrefix + namespace + ":" + hex.EncodeToString(hash[:])
}

// New builds the backend selected by cfg. A disabled cache never stores
// anything.
func New(cfg model.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return Nop{}, nil
	}

	switch cfg.Backend {
	case "", "memory":
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute), nil
	case "disk":
		return NewDiskCache(cfg.DiskDir, cfg.DiskTTL), nil
	case "layered":
		return NewLayeredCache(cfg.MemoryTTL, cfg.DiskDir, cfg.DiskTTL), nil
	case "redis":
		return NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.MemoryTTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Nop is a Cache that stores nothing
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool)               { return nil, false }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Delete(context.Context, string) error                     { return nil }
func (Nop) Clear(context.Context) error                              { return nil }

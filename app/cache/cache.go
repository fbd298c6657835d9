package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Cache is a file-backed response cache with a fixed TTL. Entries older than
// the TTL behave as misses and are removed on the next read.
type Cache struct {
	dir string
	ttl time.Duration
}

func New(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Cache{dir: dir, ttl: ttl}, nil
}

// Read returns the cached body for key, or false when the entry is missing,
// unreadable or expired.
func (c *Cache) Read(key string) ([]byte, bool) {
	path := c.path(key)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.ttl {
		os.Remove(path)
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	return data, true
}

// Write stores body under key. Failures are logged and swallowed: a broken
// cache must never break fetching.
func (c *Cache) Write(key string, body []byte) {
	if err := os.WriteFile(c.path(key), body, 0o644); err != nil {
		slog.Warn("Failed to write cache entry", "key", key, "error", err)
	}
}

func (c *Cache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".xml")
}

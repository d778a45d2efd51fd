// Package cache keeps copies of remotely fetched destination documents on
// disk so the map still works when the source is unreachable.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// DefaultTTL is how long a fetched document counts as fresh
const DefaultTTL = 10 * time.Minute

// FileCache stores one JSON envelope per key. Expired entries stay on disk
// and are still served by GetStale until Cleanup drops them.
type FileCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

type entry struct {
	Data      []byte    `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Option configures a FileCache
type Option func(*FileCache)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(c *FileCache) {
		c.now = now
	}
}

// NewFileCache creates the cache directory if needed
func NewFileCache(dir string, ttl time.Duration, opts ...Option) (*FileCache, error) {
	// 0750 keeps other users out of fetched data
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, err
	}
	c := &FileCache{dir: dir, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/roamly or ~/.cache/roamly
func DefaultCacheDir() string {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, "roamly")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "roamly-cache")
	}
	return filepath.Join(home, ".cache", "roamly")
}

func (c *FileCache) path(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:])+".json")
}

func (c *FileCache) read(key string) (entry, bool) {
	filename := c.path(key)
	// #nosec G304 -- filename is a hash of the key inside the cache dir
	data, err := os.ReadFile(filename)
	if err != nil {
		return entry{}, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		_ = os.Remove(filename)
		return entry{}, false
	}
	return e, true
}

// Get returns a fresh value for key
func (c *FileCache) Get(key string) ([]byte, bool) {
	e, ok := c.read(key)
	if !ok || c.now().After(e.ExpiresAt) {
		return nil, false
	}
	return e.Data, true
}

// GetStale returns the value for key regardless of expiry, with its age
func (c *FileCache) GetStale(key string) ([]byte, time.Duration, bool) {
	e, ok := c.read(key)
	if !ok {
		return nil, 0, false
	}
	return e.Data, c.now().Sub(e.FetchedAt), true
}

// Set stores value under key
func (c *FileCache) Set(key string, value []byte) error {
	now := c.now()
	data, err := json.Marshal(entry{
		Data:      value,
		FetchedAt: now,
		ExpiresAt: now.Add(c.ttl),
	})
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(key), data, 0600)
}

// Clear removes every entry
func (c *FileCache) Clear() error {
	return c.sweep(func(entry) bool { return true })
}

// Cleanup removes entries that expired more than maxStale ago
func (c *FileCache) Cleanup(maxStale time.Duration) error {
	cutoff := c.now().Add(-maxStale)
	return c.sweep(func(e entry) bool { return e.ExpiresAt.Before(cutoff) })
}

func (c *FileCache) sweep(drop func(entry) bool) error {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		filename := filepath.Join(c.dir, f.Name())
		// #nosec G304 -- filename comes from ReadDir of the cache dir
		data, err := os.ReadFile(filename)
		if err != nil {
			continue
		}
		var e entry
		if err := json.Unmarshal(data, &e); err != nil || drop(e) {
			_ = os.Remove(filename)
		}
	}
	return nil
}

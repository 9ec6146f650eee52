// Package cache keeps decoded judgment text so re-running stage 1 after a
// vocabulary change skips PDF parsing. Entries are keyed by the content
// hash of the source file, never by its name.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"
	"time"

	"github.com/ppiankov/putusan/internal/model"
)

// keyVersion changes whenever decoder output for the same bytes changes
const keyVersion = "putusan:v1:"

// Store is a byte-oriented key/value cache with per-entry TTL
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for a source document's bytes
func Key(content []byte) string {
	hash := sha256.Sum256(content)
	return keyVersion + hex.EncodeToString(hash[:])
}

// New builds the store described by cfg; a disabled cache never hits
func New(cfg model.CacheConfig) Store {
	if !cfg.Enabled {
		return Nop{}
	}
	return NewLayered(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}

// Nop is a Store that keeps nothing
type Nop struct{}

func (Nop) Get(string) ([]byte, bool)               { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error                     { return nil }
func (Nop) Clear() error                            { return nil }

// TextCache maps source bytes to their decoded text
type TextCache struct {
	store  Store
	hits   atomic.Int64
	misses atomic.Int64
}

// NewTextCache wraps store
func NewTextCache(store Store) *TextCache {
	if store == nil {
		store = Nop{}
	}
	return &TextCache{store: store}
}

// Lookup returns the decoded text cached for content
func (c *TextCache) Lookup(content []byte) (string, bool) {
	val, ok := c.store.Get(Key(content))
	if !ok {
		c.misses.Add(1)
		return "", false
	}
	c.hits.Add(1)
	return string(val), true
}

// Remember caches text as the decoding of content, using the store's TTL
func (c *TextCache) Remember(content []byte, text string) error {
	return c.store.Set(Key(content), []byte(text), 0)
}

// Counts returns lookup hits and misses so far
func (c *TextCache) Counts() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

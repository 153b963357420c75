package entsoe

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"

	"dayahead-prices/internal/model"
)

// CacheEntry represents a cached decoded publication.
type CacheEntry struct {
	Document  *model.MarketDocument
	ExpiresAt time.Time
}

// DocumentCache provides in-memory caching of decoded publications.
//
// It exists for LOCAL DEVELOPMENT: iterating on the pipeline against the
// live API burns through the request quota for documents that only change
// once per day. The cache is opt-in via ENABLE_ENTSOE_CACHE=true and is
// force-disabled when API_ENV=production.
type DocumentCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
}

var globalCache *DocumentCache
var cacheOnce sync.Once

// GetCache returns the global cache instance if caching is enabled.
// Returns nil if caching is disabled.
func GetCache() *DocumentCache {
	if os.Getenv("ENABLE_ENTSOE_CACHE") != "true" {
		return nil
	}

	// Safety check: never cache in production, a stale document would
	// silently mask a republication.
	if os.Getenv("API_ENV") == "production" {
		return nil
	}

	cacheOnce.Do(func() {
		ttl := 1 * time.Hour
		if ttlStr := os.Getenv("ENTSOE_CACHE_TTL"); ttlStr != "" {
			if parsed, err := time.ParseDuration(ttlStr); err == nil {
				ttl = parsed
			}
		}

		globalCache = &DocumentCache{
			store: make(map[string]*CacheEntry),
			ttl:   ttl,
		}

		go globalCache.cleanup()
	})

	return globalCache
}

// Get retrieves a cached document if available and not expired.
func (c *DocumentCache) Get(key string) (*model.MarketDocument, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Document, true
}

// Set stores a document in the cache.
func (c *DocumentCache) Set(key string, doc *model.MarketDocument) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &CacheEntry{
		Document:  doc,
		ExpiresAt: time.Now().Add(c.ttl),
	}
}

// Clear removes all entries from the cache.
func (c *DocumentCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CacheEntry)
}

// cleanup periodically removes expired entries.
func (c *DocumentCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.store {
			if now.After(entry.ExpiresAt) {
				delete(c.store, key)
			}
		}
		c.mu.Unlock()
	}
}

// GenerateCacheKey creates a cache key from the request window.
func GenerateCacheKey(domain string, startUTC, endUTC time.Time) string {
	keyStr := fmt.Sprintf("%s:%s:%s",
		domain,
		startUTC.UTC().Format(periodLayout),
		endUTC.UTC().Format(periodLayout),
	)

	// Hash the key to keep it reasonably sized.
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}

package cache

import (
	"sync"
	"time"
)

const minCleanupInterval = time.Second

// Item is a cached value with expiration
type Item struct {
	Value     interface{}
	ExpiresAt time.Time
}

// IsExpired checks if the item has expired relative to now
func (item *Item) IsExpired(now time.Time) bool {
	return !now.Before(item.ExpiresAt)
}

// Cache is a thread-safe in-memory cache with per-key TTL
type Cache struct {
	items map[string]*Item
	mu    sync.RWMutex
	now   func() time.Time

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewCache creates a new cache and starts a sweeper that drops expired
// items every cleanupInterval.
func NewCache(cleanupInterval time.Duration) *Cache {
	interval := cleanupInterval
	if interval < minCleanupInterval {
		interval = minCleanupInterval
	}

	c := &Cache{
		items:       make(map[string]*Item),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	go c.cleanup(interval)

	return c
}

// Get retrieves a live value from cache
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || item.IsExpired(c.now()) {
		return nil, false
	}

	return item.Value, true
}

// SetUntil stores a value that expires at the given instant
func (c *Cache) SetUntil(key string, value interface{}, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &Item{Value: value, ExpiresAt: expiresAt}
}

// removeExpired drops every item past its expiry.
func (c *Cache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, item := range c.items {
		if item.IsExpired(now) {
			delete(c.items, key)
		}
	}
}

func (c *Cache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

// Stop stops the cleanup goroutine. Safe to call more than once.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCleanup) })
}

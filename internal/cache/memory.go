package cache

import (
	"sync"
	"time"
)

// CacheEntry represents a cached item with expiration
type CacheEntry struct {
	Value      interface{}
	Expiration time.Time // zero means the entry never expires
}

// IsExpired checks if the cache entry has expired
func (e *CacheEntry) IsExpired() bool {
	return !e.Expiration.IsZero() && time.Now().After(e.Expiration)
}

// MemoryCache implements a simple in-memory cache. A ttl <= 0 keeps entries
// until they are deleted.
type MemoryCache struct {
	items map[string]*CacheEntry
	mutex sync.RWMutex
	ttl   time.Duration
	done  chan struct{}
	once  sync.Once
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	cache := &MemoryCache{
		items: make(map[string]*CacheEntry),
		ttl:   ttl,
		done:  make(chan struct{}),
	}

	if ttl > 0 {
		go cache.cleanupExpired(cleanupInterval(ttl))
	}

	return cache
}

// Set stores a value in the cache
func (c *MemoryCache) Set(key string, value interface{}) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry := &CacheEntry{Value: value}
	if c.ttl > 0 {
		entry.Expiration = time.Now().Add(c.ttl)
	}
	c.items[key] = entry
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(key string) (interface{}, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.items[key]
	if !exists || entry.IsExpired() {
		return nil, false
	}

	return entry.Value, true
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, key)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items = make(map[string]*CacheEntry)
}

// Size returns the number of items in the cache
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.items)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *MemoryCache) Close() {
	c.once.Do(func() { close(c.done) })
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl < 5*time.Minute {
		return ttl
	}
	return 5 * time.Minute
}

// cleanupExpired removes expired entries periodically
func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mutex.Lock()
			for key, entry := range c.items {
				if entry.IsExpired() {
					delete(c.items, key)
				}
			}
			c.mutex.Unlock()
		}
	}
}

// KVStore is a non-persistent string key/value store, used when the storage
// driver is "memory" and in tests.
type KVStore struct {
	items *MemoryCache
}

// NewKVStore creates an empty store whose entries never expire.
func NewKVStore() *KVStore {
	return &KVStore{items: NewMemoryCache(0)}
}

// Get returns the value stored under key.
func (s *KVStore) Get(key string) (string, bool, error) {
	value, ok := s.items.Get(key)
	if !ok {
		return "", false, nil
	}
	str, ok := value.(string)
	return str, ok, nil
}

// Set stores value under key.
func (s *KVStore) Set(key, value string) error {
	s.items.Set(key, value)
	return nil
}

// Ping always succeeds.
func (s *KVStore) Ping() error {
	return nil
}

// Close releases the backing cache.
func (s *KVStore) Close() error {
	s.items.Close()
	return nil
}

package settings

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const cacheShardCount = 32

// Cache lazily mirrors setting containers per (scope, entity id). Shard
// locks keep unrelated guilds from serializing each other; no lock is held
// across a Store call result being applied except the owning shard's.
type Cache struct {
	store  Store
	ttl    time.Duration
	clock  clockwork.Clock
	shards [cacheShardCount]cacheShard
}

type cacheShard struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	container *Container
	loadedAt  time.Time
}

func NewCache(store Store, ttl time.Duration, clock clockwork.Clock) *Cache {
	c := &Cache{
		store: store,
		ttl:   ttl,
		clock: clock,
	}
	for i := range c.shards {
		c.shards[i].entries = make(map[string]*cacheEntry)
	}
	return c
}

func cacheKey(scope Scope, entityID string) string {
	return string(scope) + ":" + entityID
}

func (c *Cache) shard(key string) *cacheShard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &c.shards[h.Sum32()%cacheShardCount]
}

// Container returns the cached container for an entity, loading it from the
// store on first access or after the TTL has lapsed. Entities with no stored
// rows still get a (cached) empty container.
func (c *Cache) Container(scope Scope, entityID string) (*Container, error) {
	key := cacheKey(scope, entityID)
	s := c.shard(key)

	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok && c.clock.Since(entry.loadedAt) < c.ttl {
		container := entry.container
		s.mu.Unlock()
		return container, nil
	}
	s.mu.Unlock()

	// Store read happens outside the lock; last writer wins on overlap.
	values, err := c.store.ReadAll(string(scope), entityID)
	if err != nil {
		return nil, err
	}
	container := &Container{Scope: scope, EntityID: entityID, values: values}

	s.mu.Lock()
	s.entries[key] = &cacheEntry{container: container, loadedAt: c.clock.Now()}
	s.mu.Unlock()

	return container, nil
}

// Set persists a value and then updates the cached container. A store
// failure leaves the cache untouched.
func (c *Cache) Set(scope Scope, entityID, name, value string) error {
	if err := c.store.Write(string(scope), entityID, name, value); err != nil {
		return err
	}

	key := cacheKey(scope, entityID)
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		// Not loaded yet; the next Container call reads the fresh row.
		return nil
	}
	entry.container = entry.container.with(name, value)
	return nil
}

// Reset removes a stored value, falling back to the next scope up. Resetting
// an already-absent value is a no-op on both store and cache.
func (c *Cache) Reset(scope Scope, entityID, name string) error {
	if err := c.store.Delete(string(scope), entityID, name); err != nil {
		return err
	}

	key := cacheKey(scope, entityID)
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil
	}
	entry.container = entry.container.without(name)
	return nil
}

func (c *Cache) Invalidate(scope Scope, entityID string) {
	key := cacheKey(scope, entityID)
	s := c.shard(key)
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// EvictStale drops containers past their TTL and returns how many went.
// Expired entries are reloaded lazily, so eviction never changes behavior.
func (c *Cache) EvictStale() int {
	evicted := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		for key, entry := range s.entries {
			if c.clock.Since(entry.loadedAt) >= c.ttl {
				delete(s.entries, key)
				evicted++
			}
		}
		s.mu.Unlock()
	}
	return evicted
}

package cache

import (
	"container/list"
	"sync"
	"time"
)

// localEntry is one item tracked by the local cache
type localEntry struct {
	key        string
	value      interface{}
	expiresAt  time.Time
	lastAccess time.Time
}

// LocalCache is the in-process tier: a bounded LRU with both an absolute
// write-TTL and an idle-TTL measured from last access. An entry dies when
// either timer fires or when capacity pressure evicts the least recently
// used item.
//
// The cache is private to one process. It makes no network calls, never
// returns an error, and is allowed to be stale up to its TTL; eviction is
// silent and nothing propagates to other processes.
//
// LocalCache is safe for concurrent use.
type LocalCache struct {
	maxEntries int
	ttl        time.Duration
	maxIdle    time.Duration

	mu    sync.Mutex
	items map[string]*list.Element
	lru   *list.List

	stopCh    chan struct{}
	closeOnce sync.Once
}

// NewLocalCache creates a local cache bounded to maxEntries with the given
// tier's expiry settings. A background janitor sweeps expired entries once
// a minute; expiry is also checked lazily on every read.
func NewLocalCache(maxEntries int, tier Tier) *LocalCache {
	if maxEntries <= 0 {
		maxEntries = 1000
	}

	c := &LocalCache{
		maxEntries: maxEntries,
		ttl:        tier.TTL,
		maxIdle:    tier.MaxIdle,
		items:      make(map[string]*list.Element),
		lru:        list.New(),
		stopCh:     make(chan struct{}),
	}

	go c.janitor()

	return c
}

// Get retrieves a value. A hit refreshes the entry's idle timer and its LRU
// position.
func (c *LocalCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.items[key]
	if !ok {
		return nil, false
	}

	entry := element.Value.(*localEntry)
	if c.expired(entry, time.Now()) {
		c.remove(element)
		return nil, false
	}

	entry.lastAccess = time.Now()
	c.lru.MoveToFront(element)
	return entry.value, true
}

// Set stores a value, resetting both expiry timers. When the cache is full
// the least recently used entry is evicted to make room.
func (c *LocalCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()

	if element, ok := c.items[key]; ok {
		entry := element.Value.(*localEntry)
		entry.value = value
		entry.expiresAt = now.Add(c.ttl)
		entry.lastAccess = now
		c.lru.MoveToFront(element)
		return
	}

	element := c.lru.PushFront(&localEntry{
		key:        key,
		value:      value,
		expiresAt:  now.Add(c.ttl),
		lastAccess: now,
	})
	c.items[key] = element

	for c.lru.Len() > c.maxEntries {
		if oldest := c.lru.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
}

// Delete removes a key. Removing an absent key is a no-op.
func (c *LocalCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, ok := c.items[key]; ok {
		c.remove(element)
	}
}

// Len returns the current number of entries, including any that have
// expired but not yet been swept.
func (c *LocalCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Close stops the janitor goroutine. Safe to call more than once.
func (c *LocalCache) Close() {
	c.closeOnce.Do(func() {
		close(c.stopCh)
	})
}

// expired reports whether an entry's write-TTL or idle-TTL has fired.
// Caller must hold the lock.
func (c *LocalCache) expired(entry *localEntry, now time.Time) bool {
	if now.After(entry.expiresAt) {
		return true
	}
	if c.maxIdle > 0 && now.Sub(entry.lastAccess) > c.maxIdle {
		return true
	}
	return false
}

// remove drops an entry from both the map and the LRU list. Caller must
// hold the lock.
func (c *LocalCache) remove(element *list.Element) {
	entry := element.Value.(*localEntry)
	c.lru.Remove(element)
	delete(c.items, entry.key)
}

// janitor periodically sweeps expired entries so idle items do not pin
// memory until their next read.
func (c *LocalCache) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopCh:
			return
		}
	}
}

// sweep removes every expired entry
func (c *LocalCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for element := c.lru.Back(); element != nil; {
		prev := element.Prev()
		if c.expired(element.Value.(*localEntry), now) {
			c.remove(element)
		}
		element = prev
	}
}

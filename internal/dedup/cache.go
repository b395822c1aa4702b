package dedup

import (
	"sync"
	"time"

	"duel-ladder/internal/domain"
)

type cacheEntry struct {
	result    *domain.SettlementResult
	writtenAt time.Time
}

// ResultCache holds settled results for a short TTL so retries arriving after
// the in-flight window closes are answered without touching the store. It is
// process-local: another instance has its own cache, which is why the durable
// lookback scan exists behind it.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock swaps the time source. Tests use this to step past the TTL
// without sleeping.
func (c *ResultCache) WithClock(now func() time.Time) *ResultCache {
	c.now = now
	return c
}

func (c *ResultCache) Get(key string) (*domain.SettlementResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.writtenAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.result, true
}

// Set stores a settled result. A later write for the same key supersedes the
// earlier entry.
func (c *ResultCache) Set(key string, result *domain.SettlementResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{result: result, writtenAt: c.now()}
}

// Sweep drops expired entries. The orchestrator calls it opportunistically;
// expired entries are also dropped lazily on Get.
func (c *ResultCache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if now.Sub(entry.writtenAt) > c.ttl {
			delete(c.entries, key)
		}
	}
}

func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

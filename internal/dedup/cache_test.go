package dedup

import (
	"testing"
	"time"

	"duel-ladder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult(id string) *domain.SettlementResult {
	return &domain.SettlementResult{
		PlayerA: domain.PlayerOutcome{PlayerID: id, RatingChange: 20},
		PlayerB: domain.PlayerOutcome{PlayerID: "other", RatingChange: -20},
	}
}

func TestCacheHitWithinTTL(t *testing.T) {
	clock := time.Unix(1000, 0)
	c := NewResultCache(30 * time.Second).WithClock(func() time.Time { return clock })

	c.Set("key", testResult("alice"))

	clock = clock.Add(29 * time.Second)
	got, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, "alice", got.PlayerA.PlayerID)
}

func TestCacheMissAfterTTL(t *testing.T) {
	clock := time.Unix(1000, 0)
	c := NewResultCache(30 * time.Second).WithClock(func() time.Time { return clock })

	c.Set("key", testResult("alice"))

	clock = clock.Add(31 * time.Second)
	_, ok := c.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry is dropped on read")
}

func TestCacheMissUnknownKey(t *testing.T) {
	c := NewResultCache(30 * time.Second)
	_, ok := c.Get("never-set")
	assert.False(t, ok)
}

func TestCacheLaterWriteSupersedes(t *testing.T) {
	clock := time.Unix(1000, 0)
	c := NewResultCache(30 * time.Second).WithClock(func() time.Time { return clock })

	c.Set("key", testResult("old"))
	clock = clock.Add(25 * time.Second)
	c.Set("key", testResult("new"))

	// the rewrite restarted the TTL
	clock = clock.Add(20 * time.Second)
	got, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, "new", got.PlayerA.PlayerID)
}

func TestCacheSweep(t *testing.T) {
	clock := time.Unix(1000, 0)
	c := NewResultCache(30 * time.Second).WithClock(func() time.Time { return clock })

	c.Set("a", testResult("a"))
	clock = clock.Add(20 * time.Second)
	c.Set("b", testResult("b"))
	clock = clock.Add(15 * time.Second)

	c.Sweep()
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("b")
	assert.True(t, ok)
}

package identity

import (
	"sync"
	"time"

	"github.com/aussiebroadwan/creditpos/internal/posauth/metrics"
)

// RefreshWindow is how long before expiry an entry counts as near expiry.
const RefreshWindow = 5 * time.Minute

// evictionDelay is how long after expiry the per-entry timer fires.
const evictionDelay = time.Second

// CacheEntry is the identity resolved for one raw token, frozen at
// validation time.
type CacheEntry struct {
	Shop             string
	UserID           string
	SessionID        string
	ExpiresAt        time.Time
	RefreshThreshold time.Time
	CachedAt         time.Time
}

// NewCacheEntry derives the refresh threshold from the claims expiry.
func NewCacheEntry(c ValidatedClaims) CacheEntry {
	return CacheEntry{
		Shop:             c.Shop,
		UserID:           c.UserID,
		SessionID:        c.SessionID,
		ExpiresAt:        c.ExpiresAt,
		RefreshThreshold: c.ExpiresAt.Add(-RefreshWindow),
	}
}

// TokenCache maps raw bearer strings to previously resolved identities.
// It is safe for concurrent use.
type TokenCache struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry
	timers  map[string]Timer

	clock Clock
	sched Scheduler
}

// NewTokenCache creates an empty cache. A nil scheduler disables per-entry
// eviction timers and leaves cleanup to Sweep.
func NewTokenCache(clock Clock, sched Scheduler) *TokenCache {
	if clock == nil {
		clock = SystemClock
	}
	return &TokenCache{
		entries: make(map[string]CacheEntry),
		timers:  make(map[string]Timer),
		clock:   clock,
		sched:   sched,
	}
}

// Get returns the entry for token unless it is absent or expired. Expired
// entries are left in place for a later Put or Sweep.
func (c *TokenCache) Get(token string) (CacheEntry, bool) {
	c.mu.RLock()
	e, ok := c.entries[token]
	c.mu.RUnlock()

	if !ok {
		metrics.CacheEvents.WithLabelValues(metrics.CacheMiss).Inc()
		return CacheEntry{}, false
	}
	if !c.clock.Now().Before(e.ExpiresAt) {
		metrics.CacheEvents.WithLabelValues(metrics.CacheStale).Inc()
		return CacheEntry{}, false
	}
	return e, true
}

// Put upserts the entry for token and schedules its eviction shortly after
// it expires. A pending eviction for the previous entry is stopped.
func (c *TokenCache) Put(token string, e CacheEntry) {
	now := c.clock.Now()
	if e.CachedAt.IsZero() {
		e.CachedAt = now
	}
	if e.RefreshThreshold.IsZero() {
		e.RefreshThreshold = e.ExpiresAt.Add(-RefreshWindow)
	}

	c.mu.Lock()
	c.entries[token] = e
	if c.sched != nil {
		if old, ok := c.timers[token]; ok {
			old.Stop()
		}
		delay := max(e.ExpiresAt.Sub(now), 0) + evictionDelay
		c.timers[token] = c.sched.AfterFunc(delay, func() { c.evictIfExpired(token) })
	}
	n := len(c.entries)
	c.mu.Unlock()

	metrics.CacheEvents.WithLabelValues(metrics.CachePut).Inc()
	metrics.CacheEntries.Set(float64(n))
}

// IsNearExpiry reports whether now has reached the entry's refresh threshold.
func (c *TokenCache) IsNearExpiry(e CacheEntry) bool {
	return !c.clock.Now().Before(e.RefreshThreshold)
}

// Sweep removes every entry past its expiry and returns how many went.
func (c *TokenCache) Sweep() int {
	now := c.clock.Now()

	c.mu.Lock()
	removed := 0
	for token, e := range c.entries {
		if now.After(e.ExpiresAt) {
			delete(c.entries, token)
			if t, ok := c.timers[token]; ok {
				t.Stop()
				delete(c.timers, token)
			}
			removed++
		}
	}
	n := len(c.entries)
	c.mu.Unlock()

	if removed > 0 {
		metrics.CacheEvents.WithLabelValues(metrics.CacheSwept).Add(float64(removed))
	}
	metrics.CacheEntries.Set(float64(n))
	return removed
}

// Len is the number of entries, expired ones included.
func (c *TokenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictIfExpired runs from the eviction timer. The entry may have been
// replaced by a fresh validation since the timer was armed, so it is only
// removed if it is still expired.
func (c *TokenCache) evictIfExpired(token string) {
	now := c.clock.Now()

	c.mu.Lock()
	e, ok := c.entries[token]
	evicted := ok && now.After(e.ExpiresAt)
	if evicted {
		delete(c.entries, token)
		delete(c.timers, token)
	}
	n := len(c.entries)
	c.mu.Unlock()

	if evicted {
		metrics.CacheEvents.WithLabelValues(metrics.CacheEvicted).Inc()
	}
	metrics.CacheEntries.Set(float64(n))
}

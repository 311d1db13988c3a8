package bandit

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"time"

	"splitHub/domain"
)

type cacheEntry struct {
	decision  Decision
	createdAt time.Time
}

// ScoreCache memoizes scorer output for a short TTL. Keys are fingerprints of
// the stats snapshot, so new counters simply miss and nothing has to be
// invalidated by hand. A nil *ScoreCache is a valid, always-missing cache.
type ScoreCache struct {
	mu         sync.RWMutex
	entries    map[string]cacheEntry
	ttl        time.Duration
	now        func() time.Time
	maxEntries int
}

// NewScoreCache returns a cache; ttl <= 0 disables it. now defaults to
// time.Now.
func NewScoreCache(ttl time.Duration, now func() time.Time) *ScoreCache {
	if now == nil {
		now = time.Now
	}
	return &ScoreCache{
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		now:        now,
		maxEntries: maxCacheEntries,
	}
}

func (c *ScoreCache) enabled() bool {
	return c != nil && c.ttl > 0
}

// Get returns a live entry for key.
func (c *ScoreCache) Get(key string) (Decision, bool) {
	if !c.enabled() {
		return Decision{}, false
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.createdAt) >= c.ttl {
		ScoreCacheLookupsTotal.WithLabelValues("miss").Inc()
		return Decision{}, false
	}

	ScoreCacheLookupsTotal.WithLabelValues("hit").Inc()
	return e.decision, true
}

// Put upserts key.
func (c *ScoreCache) Put(key string, d Decision) {
	if !c.enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.sweepLocked()
		c.capLocked(c.maxEntries - 1)
	}
	c.entries[key] = cacheEntry{decision: d, createdAt: c.now()}
}

// Sweep drops expired entries and returns how many were removed.
func (c *ScoreCache) Sweep() int {
	if !c.enabled() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked()
}

func (c *ScoreCache) sweepLocked() int {
	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if now.Sub(e.createdAt) >= c.ttl {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

func (c *ScoreCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Fingerprint identifies a scoring input: which experiment, which policy and
// parameters, and the exact counters of every arm in order.
func Fingerprint(experimentID string, alg domain.Algorithm, cfg Config, arms []Arm) string {
	var b strings.Builder
	b.WriteString(experimentID)
	b.WriteByte('|')
	b.WriteString(string(alg))
	fmt.Fprintf(&b, "|%g,%g,%g,%g,%t", cfg.PriorAlpha, cfg.PriorBeta, cfg.UCBConfidence, cfg.Epsilon, cfg.EpsilonDecay)
	for _, a := range arms {
		b.WriteByte('|')
		b.WriteString(a.VariantID)
		b.WriteByte(':')
		b.WriteString(strconv.FormatInt(a.Visitors, 10))
		b.WriteByte(':')
		b.WriteString(strconv.FormatInt(a.Conversions, 10))
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(a.TrafficPercentage, 'g', -1, 64))
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(b.String()))
	return experimentID + ":" + strconv.FormatUint(h.Sum64(), 16)
}

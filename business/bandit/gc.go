package bandit

import "sort"

const maxCacheEntries = 10000

// capLocked evicts the oldest entries until at most limit remain.
// Caller holds c.mu.
func (c *ScoreCache) capLocked(limit int) {
	if limit < 0 {
		limit = 0
	}
	if len(c.entries) <= limit {
		return
	}

	type entryInfo struct {
		key   string
		entry cacheEntry
	}

	infos := make([]entryInfo, 0, len(c.entries))
	for k, e := range c.entries {
		infos = append(infos, entryInfo{key: k, entry: e})
	}

	// oldest first
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].entry.createdAt.Before(infos[j].entry.createdAt)
	})

	toDrop := len(c.entries) - limit
	for i := 0; i < toDrop && i < len(infos); i++ {
		delete(c.entries, infos[i].key)
	}
}

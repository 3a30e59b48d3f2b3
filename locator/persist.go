package locator

import (
	"github.com/cinelane/cinelane/filesystem"
	"github.com/metafates/gache"
)

func newStore(path string) *gache.Cache[[]Entry] {
	return gache.New[[]Entry](&gache.Options{
		Path:       path,
		FileSystem: &filesystem.GacheFs{},
	})
}

// Save writes every fresh entry to the snapshot file. It is a no-op without a Path.
func (c *Cache) Save() error {
	if c.store == nil {
		return nil
	}

	c.mu.Lock()
	now := c.opts.Now()
	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		if c.fresh(entry, now) {
			entries = append(entries, entry)
		}
	}
	c.mu.Unlock()

	return c.store.Set(entries)
}

// Load merges the snapshot into the cache, keeping original insertion times so the TTL
// keeps counting across runs. Expired entries are skipped and capacity still applies.
// It returns the number of entries loaded.
func (c *Cache) Load() (int, error) {
	if c.store == nil {
		return 0, nil
	}

	entries, expired, err := c.store.Get()
	if err != nil {
		return 0, err
	}
	if expired || entries == nil {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.Now()
	var loaded int
	for _, entry := range entries {
		entry.Key = NormalizeKey(entry.Key)
		if !c.fresh(entry, now) {
			continue
		}
		if current, ok := c.entries[entry.Key]; ok && !current.InsertedAt.Before(entry.InsertedAt) {
			continue
		}
		if _, exists := c.entries[entry.Key]; !exists && len(c.entries) >= c.opts.Capacity {
			oldest, _ := c.oldest()
			if !oldest.InsertedAt.Before(entry.InsertedAt) {
				continue
			}
			c.evictOldest()
		}
		c.entries[entry.Key] = entry
		loaded++
	}
	return loaded, nil
}

// Package locator caches resolved playable locators by normalized content key, bounded by
// a per-entry TTL and a hard capacity.
package locator

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cinelane/cinelane/key"
	"github.com/cinelane/cinelane/log"
	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Entry keeps the locator and its insertion time together.
type Entry struct {
	Key        string    `json:"key"`
	Value      string    `json:"value"`
	InsertedAt time.Time `json:"inserted_at"`
}

// Stats summarizes the cache content.
type Stats struct {
	Count  int                  `json:"count"`
	Oldest mo.Option[time.Time] `json:"oldest"`
}

// Options configures a Cache.
type Options struct {
	Capacity int
	TTL      time.Duration
	// Path of the JSON snapshot used by Save and Load. Empty disables persistence.
	Path string
	Now  func() time.Time
}

// DefaultOptions returns a 100 entry, one hour cache without persistence.
func DefaultOptions() Options {
	return Options{Capacity: 100, TTL: time.Hour, Now: time.Now}
}

// OptionsFromConfig reads the cache.* configuration keys. path is used when persistence is enabled.
func OptionsFromConfig(path string) Options {
	opts := Options{
		Capacity: viper.GetInt(key.CacheCapacity),
		TTL:      viper.GetDuration(key.CacheTTL),
		Now:      time.Now,
	}
	if viper.GetBool(key.CachePersist) {
		opts.Path = path
	}
	return opts
}

// Cache is safe for concurrent use; every operation, eviction included, holds one lock.
type Cache struct {
	mu      sync.Mutex
	opts    Options
	entries map[string]Entry
	store   *gache.Cache[[]Entry]
}

// New returns an empty cache.
func New(opts Options) *Cache {
	d := DefaultOptions()
	if opts.Capacity <= 0 {
		opts.Capacity = d.Capacity
	}
	if opts.TTL <= 0 {
		opts.TTL = d.TTL
	}
	if opts.Now == nil {
		opts.Now = d.Now
	}

	c := &Cache{
		opts:    opts,
		entries: make(map[string]Entry, opts.Capacity),
	}
	if opts.Path != "" {
		c.store = newStore(opts.Path)
	}
	return c
}

// NormalizeKey lowercases and trims a content key, so logically equal titles collide.
func NormalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// Get returns the locator cached for k. Expired entries are evicted and reported as a miss.
func (c *Cache) Get(k string) mo.Option[string] {
	k = NormalizeKey(k)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[k]
	if !ok {
		return mo.None[string]()
	}

	if !c.fresh(entry, c.opts.Now()) {
		delete(c.entries, k)
		return mo.None[string]()
	}

	return mo.Some(entry.Value)
}

// Put stores locator under k. Adding a new key to a full cache first evicts the entry
// with the oldest insertion time.
func (c *Cache) Put(k, locator string) {
	k = NormalizeKey(k)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[k]; !exists && len(c.entries) >= c.opts.Capacity {
		c.evictOldest()
	}

	c.entries[k] = Entry{Key: k, Value: locator, InsertedAt: c.opts.Now()}
}

// Remove drops the entry for k, if any.
func (c *Cache) Remove(k string) {
	k = NormalizeKey(k)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, k)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// ClearOn clears the cache whenever signal fires, until ctx is done or signal is closed.
// It is meant for resource-pressure notifications.
func (c *Cache) ClearOn(ctx context.Context, signal <-chan struct{}) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-signal:
				if !ok {
					return
				}
				log.Info("clearing locator cache on pressure signal")
				c.Clear()
			}
		}
	}()
}

// Prune evicts every expired entry and returns how many were removed.
func (c *Cache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.Now()
	var removed int
	for k, entry := range c.entries {
		if !c.fresh(entry, now) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included until they are touched.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the entry count and the oldest insertion time.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{Count: len(c.entries), Oldest: mo.None[time.Time]()}
	if oldest, ok := c.oldest(); ok {
		stats.Oldest = mo.Some(oldest.InsertedAt)
	}
	return stats
}

// Entries returns a copy of every stored entry.
func (c *Cache) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry)
	}
	return out
}

func (c *Cache) fresh(entry Entry, now time.Time) bool {
	return now.Sub(entry.InsertedAt) < c.opts.TTL
}

func (c *Cache) oldest() (Entry, bool) {
	var (
		oldest Entry
		found  bool
	)
	for _, entry := range c.entries {
		if !found || entry.InsertedAt.Before(oldest.InsertedAt) {
			oldest, found = entry, true
		}
	}
	return oldest, found
}

func (c *Cache) evictOldest() {
	if oldest, ok := c.oldest(); ok {
		delete(c.entries, oldest.Key)
		log.With(log.Fields{"key": oldest.Key}).Debugf("evicted oldest locator")
	}
}

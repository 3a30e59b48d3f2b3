// Package catalog implements session.Resolver over a static title catalog.
//
// A catalog is a TOML, YAML or JSON document:
//
//	popular = "Big Buck Bunny"
//
//	[[entries]]
//	title = "Big Buck Bunny"
//	locator = "https://example.com/bbb.mp4"
//	tags = ["movie", "animation"]
package catalog

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cinelane/cinelane/filesystem"
	"github.com/cinelane/cinelane/network"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Entry is one catalog title.
type Entry struct {
	Title   string   `mapstructure:"title" json:"title"`
	Locator string   `mapstructure:"locator" json:"locator"`
	Tags    []string `mapstructure:"tags" json:"tags,omitempty"`
}

// Catalog is immutable once loaded and safe for concurrent use.
type Catalog struct {
	entries []Entry
	popular string
}

// New returns a catalog over entries. popular names the title returned by Popular.
func New(entries []Entry, popular string) *Catalog {
	entries = lo.Filter(entries, func(e Entry, _ int) bool {
		return strings.TrimSpace(e.Title) != "" && e.Locator != ""
	})
	return &Catalog{entries: entries, popular: popular}
}

// Load reads a catalog from a local path or an http(s) URL.
func Load(ctx context.Context, location string) (*Catalog, error) {
	var (
		contents []byte
		err      error
	)

	if isRemote(location) {
		contents, err = network.Fetch(ctx, location)
	} else {
		contents, err = filesystem.API().ReadFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", location, err)
	}

	return Parse(contents, configType(location))
}

// Parse decodes a catalog document of the given type ("toml", "yaml", "json").
func Parse(contents []byte, kind string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigType(kind)
	if err := v.ReadConfig(bytes.NewReader(contents)); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	var entries []Entry
	if err := v.UnmarshalKey("entries", &entries); err != nil {
		return nil, fmt.Errorf("parse catalog entries: %w", err)
	}

	return New(entries, v.GetString("popular")), nil
}

// Entries returns a copy of the catalog entries.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Search resolves query to an entry locator. An exact title wins, otherwise the fuzzy
// matches over titles and tags are ranked by edit distance to the query.
func (c *Catalog) Search(_ context.Context, query string) (mo.Option[string], error) {
	entry, ok := c.Find(query).Get()
	if !ok {
		return mo.None[string](), nil
	}
	return mo.Some(entry.Locator), nil
}

// Popular returns the locator of the configured popular title.
func (c *Catalog) Popular(_ context.Context) (mo.Option[string], error) {
	if c.popular == "" {
		return mo.None[string](), nil
	}

	entry, ok := lo.Find(c.entries, func(e Entry) bool {
		return strings.EqualFold(e.Title, c.popular)
	})
	if !ok {
		return mo.None[string](), nil
	}
	return mo.Some(entry.Locator), nil
}

// Find returns the entry best matching query.
func (c *Catalog) Find(query string) mo.Option[Entry] {
	query = normalize(query)
	if query == "" {
		return mo.None[Entry]()
	}

	if entry, ok := lo.Find(c.entries, func(e Entry) bool {
		return normalize(e.Title) == query
	}); ok {
		return mo.Some(entry)
	}

	type candidate struct {
		entry    Entry
		distance int
	}

	var candidates []candidate
	for _, entry := range c.entries {
		keys := append([]string{entry.Title}, entry.Tags...)
		matches := fuzzy.FindNormalizedFold(query, keys)
		if len(matches) == 0 {
			continue
		}

		best := lo.Min(lo.Map(matches, func(m string, _ int) int {
			return levenshtein.Distance(query, normalize(m))
		}))
		candidates = append(candidates, candidate{entry: entry, distance: best})
	}

	if len(candidates) == 0 {
		return mo.None[Entry]()
	}

	// MinBy keeps the first of equal candidates, so ties fall back to catalog order.
	best := lo.MinBy(candidates, func(a, b candidate) bool {
		return a.distance < b.distance
	})
	return mo.Some(best.entry)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func configType(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 && isRemote(location) {
		location = location[:i]
	}

	switch ext := strings.TrimPrefix(filepath.Ext(location), "."); ext {
	case "json", "yaml", "yml", "toml":
		return ext
	default:
		return "toml"
	}
}

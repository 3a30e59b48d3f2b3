// Package query remembers the titles a user resolved and suggests them back, most
// frequently used first.
package query

import (
	"strings"
	"sync"

	"github.com/cinelane/cinelane/filesystem"
	"github.com/cinelane/cinelane/key"
	"github.com/cinelane/cinelane/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

type record struct {
	Rank  int    `json:"rank"`
	Title string `json:"title"`
}

var (
	mu       sync.Mutex
	store    *gache.Cache[map[string]*record]
	memoized = make(map[string][]string)
)

func history() *gache.Cache[map[string]*record] {
	if store == nil {
		store = gache.New[map[string]*record](&gache.Options{
			Path:       where.Queries(),
			FileSystem: &filesystem.GacheFs{},
		})
	}
	return store
}

// Remember records a resolved title, adding weight to its rank.
func Remember(title string, weight int) error {
	title = normalize(title)
	if title == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	records, expired, err := history().Get()
	if expired || err != nil || records == nil {
		records = make(map[string]*record)
	}

	if r, ok := records[title]; ok {
		r.Rank += weight
	} else {
		records[title] = &record{Rank: weight, Title: title}
	}

	clear(memoized)
	return history().Set(records)
}

// Suggest returns the best remembered title matching partial input.
func Suggest(partial string) mo.Option[string] {
	suggestions := SuggestMany(partial)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns every remembered title fuzzily matching partial, highest rank first.
// It returns nothing when search.show_query_suggestions is off.
func SuggestMany(partial string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return nil
	}

	partial = normalize(partial)

	mu.Lock()
	defer mu.Unlock()

	if prev, ok := memoized[partial]; ok {
		return prev
	}

	records, expired, err := history().Get()
	if err != nil || expired || records == nil {
		return nil
	}

	matching := lo.Filter(lo.Values(records), func(r *record, _ int) bool {
		return fuzzy.Match(partial, r.Title)
	})
	slices.SortFunc(matching, func(a, b *record) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return strings.Compare(a.Title, b.Title)
	})

	titles := lo.Map(matching, func(r *record, _ int) string { return r.Title })
	memoized[partial] = titles
	return titles
}

func normalize(title string) string {
	return strings.TrimSpace(strings.ToLower(title))
}

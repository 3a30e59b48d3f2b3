package subtitle

import (
	"sort"
	"sync"
	"time"

	"github.com/cinelane/cinelane/filesystem"
	"github.com/samber/mo"
	"golang.org/x/exp/slices"
)

// active values that do not point at a cue.
const (
	idle = -1
	// stale means a cue is on screen but the track it came from was replaced.
	stale = -2
)

// Index holds one track sorted by start time and remembers the active cue.
// It is safe for concurrent use.
type Index struct {
	mu      sync.Mutex
	cues    []Cue
	active  int
	enabled bool
}

// New returns an empty, enabled Index.
func New() *Index {
	return &Index{active: idle, enabled: true}
}

// Load replaces the track. The input is copied and sorted by start time; equal starts
// keep their input order. A cue still on screen is hidden by the next Resolve unless
// the new track shows something at that time.
func (x *Index) Load(cues []Cue) {
	sorted := sortByStart(cues)

	x.mu.Lock()
	defer x.mu.Unlock()
	x.cues = sorted
	x.forget()
}

// LoadFile parses a block-format subtitle file and loads it. It returns the number of cues loaded.
func (x *Index) LoadFile(path string) (int, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return 0, err
	}

	cues := ParseBlocks(string(data))
	x.Load(cues)
	return len(cues), nil
}

// Resolve reports the transition caused by moving the playhead to t, if any.
//
// The first cue in start order containing t is the visible one, so with overlapping
// cues the earliest-starting cue wins. Repeated calls with the same visible cue emit nothing.
func (x *Index) Resolve(t time.Duration) mo.Option[Transition] {
	x.mu.Lock()
	defer x.mu.Unlock()

	found := -1
	if x.enabled {
		found = x.find(t)
	}

	switch {
	case found >= 0 && found != x.active:
		x.active = found
		return mo.Some(Transition{Kind: Show, Text: x.cues[found].Text, Index: found})
	case found < 0 && x.active != idle:
		x.active = idle
		return mo.Some(Transition{Kind: Hide, Index: -1})
	default:
		return mo.None[Transition]()
	}
}

// find scans cues starting at or before t and returns the first containing it.
func (x *Index) find(t time.Duration) int {
	upper := sort.Search(len(x.cues), func(i int) bool {
		return x.cues[i].Start > t
	})

	for i := 0; i < upper; i++ {
		if x.cues[i].Contains(t) {
			return i
		}
	}
	return -1
}

// SetEnabled toggles subtitles. While disabled nothing is shown, and an active cue is
// hidden on the next Resolve.
func (x *Index) SetEnabled(enabled bool) {
	x.mu.Lock()
	x.enabled = enabled
	x.mu.Unlock()
}

// Enabled reports whether subtitles are shown.
func (x *Index) Enabled() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.enabled
}

// Active returns the currently visible cue.
func (x *Index) Active() mo.Option[Cue] {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.active < 0 {
		return mo.None[Cue]()
	}
	return mo.Some(x.cues[x.active])
}

// Cues returns a copy of the loaded track.
func (x *Index) Cues() []Cue {
	x.mu.Lock()
	defer x.mu.Unlock()
	return slices.Clone(x.cues)
}

// Len returns the number of loaded cues.
func (x *Index) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.cues)
}

// Clear unloads the track. A visible cue is hidden by the next Resolve.
func (x *Index) Clear() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.cues = nil
	x.forget()
}

func (x *Index) forget() {
	if x.active != idle {
		x.active = stale
	}
}

func sortByStart(cues []Cue) []Cue {
	sorted := slices.Clone(cues)
	slices.SortStableFunc(sorted, func(a, b Cue) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		default:
			return 0
		}
	})
	return sorted
}

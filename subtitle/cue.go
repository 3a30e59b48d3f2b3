// Package subtitle resolves the active subtitle cue for a playback position and emits
// edge-triggered show/hide transitions.
package subtitle

import (
	"fmt"
	"time"
)

// Cue is a subtitle fragment valid over the closed interval [Start, End].
type Cue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Contains reports whether t falls inside the cue.
func (c Cue) Contains(t time.Duration) bool {
	return c.Start <= t && t <= c.End
}

func (c Cue) String() string {
	return fmt.Sprintf("%s --> %s %q", formatTimestamp(c.Start), formatTimestamp(c.End), c.Text)
}

// Kind classifies a transition.
type Kind int

const (
	Show Kind = iota
	Hide
)

func (k Kind) String() string {
	if k == Show {
		return "show"
	}
	return "hide"
}

// Transition is emitted when the visible cue changes. Index is the cue's position in
// the loaded track, or -1 for Hide.
type Transition struct {
	Kind  Kind
	Text  string
	Index int
}

func formatTimestamp(d time.Duration) string {
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, d/time.Millisecond)
}

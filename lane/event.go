// Package lane assigns floating live comments to a fixed set of horizontal lanes so that
// concurrently visible comments never overlap vertically.
package lane

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cinelane/cinelane/color"
	"github.com/cinelane/cinelane/util"
	"github.com/samber/mo"
)

// DefaultFontSize is used for events submitted without an explicit size.
const DefaultFontSize = 16

// Event is a single live comment. It is an immutable value once submitted.
type Event struct {
	Text     string
	Color    lipgloss.Color
	FontSize float64
	// Crossing is the time the comment takes to traverse the surface.
	Crossing time.Duration
}

// withDefaults fills zero fields: white text, 16pt, and the scheduler's crossing time.
func (e Event) withDefaults(crossing time.Duration) Event {
	if e.Color == "" {
		e.Color = color.White
	}
	if e.FontSize <= 0 {
		e.FontSize = DefaultFontSize
	}
	if e.Crossing <= 0 {
		e.Crossing = crossing
	}
	return e
}

// Assignment tells the surface which lane to animate an event in and for how long.
// Token identifies the occupancy and must be passed back to Release.
type Assignment struct {
	Lane     int
	Crossing time.Duration
	Token    uint64
}

// Occupant describes the live event currently holding a lane.
type Occupant struct {
	Event      Event
	Token      uint64
	AssignedAt time.Time
}

// Progress returns how far the occupant has crossed at now, clamped to [0, 1].
func (o Occupant) Progress(now time.Time) float64 {
	if o.Event.Crossing <= 0 {
		return 1
	}
	return util.Clamp(float64(now.Sub(o.AssignedAt))/float64(o.Event.Crossing), 0, 1)
}

// Snapshot is a read-only view of one lane.
type Snapshot struct {
	Index       int
	Available   bool
	LastRelease mo.Option[time.Time]
	Occupant    mo.Option[Occupant]
}

// NoticeKind classifies scheduler notifications.
type NoticeKind int

const (
	Assigned NoticeKind = iota
	Dropped
	Freed
)

func (k NoticeKind) String() string {
	switch k {
	case Assigned:
		return "assigned"
	case Dropped:
		return "dropped"
	case Freed:
		return "freed"
	default:
		return "unknown"
	}
}

// Notice is published to subscribers whenever a lane changes hands.
// Lane is -1 for Dropped notices.
type Notice struct {
	Kind  NoticeKind
	Lane  int
	Token uint64
	Event Event
}

// Stats are cumulative scheduler counters.
type Stats struct {
	Submitted uint64
	Assigned  uint64
	Reclaimed uint64
	Dropped   uint64
	Busy      int
}

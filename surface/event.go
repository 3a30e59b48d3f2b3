package surface

import (
	"fmt"
	"time"
)

// Kind of a surface event.
type Kind int

const (
	SubtitleShow Kind = iota
	SubtitleHide
	LaneAssigned
	LaneDropped
	LaneFreed
	SessionResolving
	SessionReady
	SessionFailed
	PlaybackEnded
)

var kindNames = map[Kind]string{
	SubtitleShow:     "subtitle-show",
	SubtitleHide:     "subtitle-hide",
	LaneAssigned:     "lane-assigned",
	LaneDropped:      "lane-dropped",
	LaneFreed:        "lane-freed",
	SessionResolving: "session-resolving",
	SessionReady:     "session-ready",
	SessionFailed:    "session-failed",
	PlaybackEnded:    "playback-ended",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is published on the surface event channel. Only the fields relevant to Kind are set.
type Event struct {
	Kind Kind

	// Text is the subtitle or annotation text.
	Text string

	// Lane and Token identify a lane occupancy; Lane is -1 for drops.
	Lane     int
	Token    uint64
	Crossing time.Duration

	// Key, Locator and Err describe a resolution session.
	Key     string
	Locator string
	Err     error

	// Position is the playback position the event was derived from.
	Position time.Duration
}

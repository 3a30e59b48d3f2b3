// Package player abstracts the playback backend: it consumes resolved locators and
// supplies the playback clock that drives subtitles.
package player

import (
	"fmt"
	"time"
)

// Clock reports the current playback position.
type Clock interface {
	TimePos() (time.Duration, error)
}

// Player plays a locator and exposes its position.
type Player interface {
	Clock

	// Play starts playback of locator, replacing the current media if already running.
	Play(locator, title string) error

	// ShowText displays text over the video for d.
	ShowText(text string, d time.Duration) error

	// Close stops playback and releases the backend.
	Close() error

	// Wait returns a channel closed when playback ends.
	Wait() <-chan struct{}
}

// New returns the backend called name: "mpv" or "none" (a stopwatch without video).
func New(name string) (Player, error) {
	switch name {
	case "mpv", "":
		return NewMPV(), nil
	case "none":
		return NewStopwatch(time.Now), nil
	default:
		return nil, fmt.Errorf("unknown player %q, available: mpv, none", name)
	}
}

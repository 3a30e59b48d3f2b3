package player

import "errors"

var (
	// ErrNotPlaying is returned by TimePos before media is loaded.
	ErrNotPlaying = errors.New("nothing is playing")

	// ErrClosed is returned when using a closed player.
	ErrClosed = errors.New("player closed")
)

package player

import (
	"sync"
	"time"
)

// Stopwatch is a Player without video: its position is the time elapsed since Play.
// It drives subtitles and comments when no media backend is wanted.
type Stopwatch struct {
	now func() time.Time

	mu      sync.Mutex
	started time.Time
	playing bool
	closed  bool
	done    chan struct{}
	last    string
}

// NewStopwatch returns a stopped Stopwatch reading now.
func NewStopwatch(now func() time.Time) *Stopwatch {
	return &Stopwatch{now: now, done: make(chan struct{})}
}

// Play restarts the stopwatch at zero.
func (s *Stopwatch) Play(string, string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.started = s.now()
	s.playing = true
	return nil
}

// TimePos returns the elapsed time since Play, or ErrNotPlaying.
func (s *Stopwatch) TimePos() (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing {
		return 0, ErrNotPlaying
	}
	return s.now().Sub(s.started), nil
}

// ShowText records text; LastText returns it.
func (s *Stopwatch) ShowText(text string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = text
	return nil
}

// LastText returns the text passed to the last ShowText.
func (s *Stopwatch) LastText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Close stops the stopwatch. Closing twice is a no-op.
func (s *Stopwatch) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		s.playing = false
		close(s.done)
	}
	return nil
}

// Wait returns a channel closed by Close.
func (s *Stopwatch) Wait() <-chan struct{} {
	return s.done
}

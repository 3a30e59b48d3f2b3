// Package session resolves a content key to a playable locator through the locator
// cache and a resolver, invalidating stale work with generation tokens.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/samber/mo"
)

var (
	// ErrNotFound is returned when the exact query, every fallback query and the
	// popular query all came back empty.
	ErrNotFound = errors.New("no locator found")

	// ErrSuperseded is returned to the waiter of a session replaced by a newer one.
	ErrSuperseded = errors.New("session superseded")
)

// State of a resolution session.
type State int

const (
	Idle State = iota
	Resolving
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Resolving:
		return "resolving"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resolver maps queries to locators. An empty result is None, not an error.
type Resolver interface {
	Search(ctx context.Context, query string) (mo.Option[string], error)
	Popular(ctx context.Context) (mo.Option[string], error)
}

// Cache is the subset of the locator cache used by a Manager.
type Cache interface {
	Get(key string) mo.Option[string]
	Put(key, locator string)
}

// Update is published whenever a live session changes state.
type Update struct {
	Token   uint64
	Key     string
	State   State
	Locator mo.Option[string]
	Err     error
}

// Session is one resolution request. Its fields are written only by the Manager that
// created it, and only while its token is current.
type Session struct {
	Key   string
	Token uint64

	mu         sync.Mutex
	state      State
	locator    mo.Option[string]
	err        error
	superseded bool
	done       chan struct{}
}

func newSession(key string, token uint64) *Session {
	return &Session{
		Key:     key,
		Token:   token,
		state:   Idle,
		locator: mo.None[string](),
		done:    make(chan struct{}),
	}
}

// State returns the last state reached while the session was current.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Locator returns the resolved locator once the session is Ready.
func (s *Session) Locator() mo.Option[string] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locator
}

// Superseded reports whether a newer session replaced this one before it finished.
func (s *Session) Superseded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.superseded
}

// Done is closed when the session reaches Ready or Failed, or is superseded.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session finishes. It returns the locator, ErrNotFound,
// ErrSuperseded or the error of ctx.
func (s *Session) Wait(ctx context.Context) (string, error) {
	select {
	case <-s.done:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return "", s.err
	}
	return s.locator.OrEmpty(), nil
}

func (s *Session) transition(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// finish moves the session to a terminal state. It reports false if the session was
// already finished.
func (s *Session) finish(locator mo.Option[string], err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished() {
		return false
	}

	s.locator = locator
	s.err = err
	if err != nil {
		s.state = Failed
	} else {
		s.state = Ready
	}
	close(s.done)
	return true
}

// supersede releases the waiters of an unfinished session with ErrSuperseded, leaving
// its state untouched.
func (s *Session) supersede() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished() {
		return
	}

	s.superseded = true
	s.err = ErrSuperseded
	close(s.done)
}

func (s *Session) finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Session) update() Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Update{
		Token:   s.Token,
		Key:     s.Key,
		State:   s.state,
		Locator: s.locator,
		Err:     s.err,
	}
}

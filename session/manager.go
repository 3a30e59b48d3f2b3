package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cinelane/cinelane/key"
	"github.com/cinelane/cinelane/log"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// DefaultFallbacks are tried in order after the exact query comes back empty.
var DefaultFallbacks = []string{"movie", "cinema", "film", "trailer"}

// FallbacksFromConfig reads resolver.fallbacks, defaulting when unset.
func FallbacksFromConfig() []string {
	fallbacks := viper.GetStringSlice(key.ResolverFallbacks)
	if len(fallbacks) == 0 {
		return DefaultFallbacks
	}
	return fallbacks
}

// Manager runs at most one live session at a time. Starting a session supersedes the
// previous one: its context is cancelled and its late completion is discarded.
type Manager struct {
	cache    Cache
	resolver Resolver

	fallbacks []string

	mu         sync.Mutex
	generation uint64
	current    *Session
	cancel     context.CancelFunc
	updates    chan Update
}

// NewManager returns a Manager. A nil fallbacks slice uses DefaultFallbacks.
func NewManager(cache Cache, resolver Resolver, fallbacks []string) *Manager {
	if fallbacks == nil {
		fallbacks = DefaultFallbacks
	}

	return &Manager{
		cache:     cache,
		resolver:  resolver,
		fallbacks: lo.Compact(lo.Map(fallbacks, func(q string, _ int) string { return strings.TrimSpace(q) })),
	}
}

// Updates returns the channel on which state changes are published, in order per
// session. Updates are dropped when the reader falls behind by more than buffer.
func (m *Manager) Updates(buffer int) <-chan Update {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.updates == nil {
		m.updates = make(chan Update, max(buffer, 1))
	}
	return m.updates
}

// Current returns the latest session, if any was started.
func (m *Manager) Current() mo.Option[*Session] {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return mo.None[*Session]()
	}
	return mo.Some(m.current)
}

// Start begins resolving k and returns immediately. A cache hit makes the returned
// session Ready before Start returns.
func (m *Manager) Start(ctx context.Context, k string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.supersede()

	m.generation++
	s := newSession(k, m.generation)
	m.current = s

	if locator, ok := m.cache.Get(k).Get(); ok {
		log.With(log.Fields{"key": k, "token": s.Token}).Debugf("locator cache hit")
		if s.finish(mo.Some(locator), nil) {
			m.publish(s)
		}
		return s
	}

	s.transition(Resolving)
	m.publish(s)

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	go m.resolve(ctx, s)
	return s
}

// Stop supersedes the current session without starting a new one.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	m.supersede()
	m.current = nil
}

// supersede must be called with mu held.
func (m *Manager) supersede() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.current != nil {
		m.current.supersede()
	}
}

func (m *Manager) resolve(ctx context.Context, s *Session) {
	locator, err := m.lookup(ctx, s)
	if err == nil && locator.IsAbsent() {
		err = ErrNotFound
	}
	m.complete(s, locator, err)
}

// lookup walks the exact query, the fallbacks and the popular query, stopping at the
// first non-empty result. It returns an error only when ctx ends.
func (m *Manager) lookup(ctx context.Context, s *Session) (mo.Option[string], error) {
	queries := append([]string{s.Key}, m.fallbacks...)

	for _, query := range queries {
		if err := ctx.Err(); err != nil {
			return mo.None[string](), err
		}

		found, err := m.resolver.Search(ctx, query)
		if err != nil {
			log.With(log.Fields{"key": s.Key, "query": query}).Warnf("resolver search failed: %s", err)
			continue
		}
		if locator, ok := found.Get(); ok && locator != "" {
			return found, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return mo.None[string](), err
	}

	found, err := m.resolver.Popular(ctx)
	if err != nil {
		log.With(log.Fields{"key": s.Key}).Warnf("resolver popular query failed: %s", err)
		return mo.None[string](), nil
	}
	if locator, ok := found.Get(); ok && locator != "" {
		return found, nil
	}

	return mo.None[string](), nil
}

// complete commits the outcome of s, unless a newer session took its place.
func (m *Manager) complete(s *Session, locator mo.Option[string], err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.Token != m.generation {
		log.With(log.Fields{"key": s.Key, "token": s.Token, "current": m.generation}).
			Debugf("discarding stale resolution")
		return
	}

	if err != nil && !errors.Is(err, ErrNotFound) {
		err = fmt.Errorf("resolve %q: %w", s.Key, err)
	}

	if err == nil {
		m.cache.Put(s.Key, locator.MustGet())
	}

	if s.finish(locator, err) {
		m.publish(s)
	}

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// publish must be called with mu held.
func (m *Manager) publish(s *Session) {
	if m.updates == nil {
		return
	}

	select {
	case m.updates <- s.update():
	default:
	}
}

// Package surface composes the lane scheduler, the subtitle index and the resolution
// sessions around a player, turning their transitions into one ordered event stream.
package surface

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cinelane/cinelane/key"
	"github.com/cinelane/cinelane/lane"
	"github.com/cinelane/cinelane/log"
	"github.com/cinelane/cinelane/player"
	"github.com/cinelane/cinelane/session"
	"github.com/cinelane/cinelane/subtitle"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// DefaultPoll is the playback clock cadence.
const DefaultPoll = 500 * time.Millisecond

// Options configures a Surface.
type Options struct {
	// Poll is the interval between playback clock reads.
	Poll time.Duration

	// MirrorSubtitles shows subtitle cues on the player OSD too.
	MirrorSubtitles bool

	// Buffer is the capacity of the event channel.
	Buffer int

	Now func() time.Time
}

// OptionsFromConfig reads subtitle.poll.
func OptionsFromConfig() Options {
	return Options{Poll: viper.GetDuration(key.SubtitlePoll), Now: time.Now}
}

// View is a snapshot of what the surface currently shows.
type View struct {
	Title    string
	Position time.Duration
	Subtitle mo.Option[string]
	Lanes    []lane.Snapshot
	Session  session.State
	Err      error
}

// Surface is safe for concurrent use. Run is the only goroutine that reads the clock.
type Surface struct {
	lanes    *lane.Scheduler
	subs     *subtitle.Index
	sessions *session.Manager
	player   player.Player
	opts     Options

	notices <-chan lane.Notice
	events  chan Event

	mu       sync.Mutex
	title    string
	position time.Duration
	subtitle mo.Option[string]
	state    session.State
	err      error
}

// New wires the given components to p.
func New(lanes *lane.Scheduler, subs *subtitle.Index, sessions *session.Manager, p player.Player, opts Options) *Surface {
	if opts.Poll <= 0 {
		opts.Poll = DefaultPoll
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 64
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Surface{
		lanes:    lanes,
		subs:     subs,
		sessions: sessions,
		player:   p,
		opts:     opts,
		notices:  lanes.Subscribe(opts.Buffer),
		events:   make(chan Event, opts.Buffer),
		subtitle: mo.None[string](),
	}
}

// Events returns the event stream. Run and Open block on it when it is full.
func (s *Surface) Events() <-chan Event {
	return s.events
}

// Lanes exposes the scheduler, e.g. to toggle it.
func (s *Surface) Lanes() *lane.Scheduler {
	return s.lanes
}

// Subtitles exposes the subtitle index.
func (s *Surface) Subtitles() *subtitle.Index {
	return s.subs
}

// View returns the current state of the surface.
func (s *Surface) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		Title:    s.title,
		Position: s.position,
		Subtitle: s.subtitle,
		Lanes:    s.lanes.Lanes(),
		Session:  s.state,
		Err:      s.err,
	}
}

// Comment submits an annotation. The assignment, or the drop, is also published by Run.
func (s *Surface) Comment(e lane.Event) mo.Option[lane.Assignment] {
	return s.lanes.Submit(e)
}

// Open resolves k and starts playing the locator. A superseded open returns
// session.ErrSuperseded without publishing anything.
func (s *Surface) Open(ctx context.Context, k string) error {
	sess := s.sessions.Start(ctx, k)

	if sess.State() == session.Resolving {
		s.setSession(k, session.Resolving, nil)
		s.publish(ctx, Event{Kind: SessionResolving, Key: k})
	}

	locator, err := sess.Wait(ctx)
	if errors.Is(err, session.ErrSuperseded) {
		return err
	}
	if current, ok := s.sessions.Current().Get(); !ok || current != sess {
		return session.ErrSuperseded
	}
	if err != nil {
		s.setSession(k, session.Failed, err)
		s.publish(ctx, Event{Kind: SessionFailed, Key: k, Err: err})
		return err
	}

	s.setSession(k, session.Ready, nil)
	s.publish(ctx, Event{Kind: SessionReady, Key: k, Locator: locator})

	if err := s.player.Play(locator, k); err != nil {
		s.setSession(k, session.Failed, err)
		s.publish(ctx, Event{Kind: SessionFailed, Key: k, Locator: locator, Err: err})
		return err
	}

	return nil
}

// Cancel abandons the open in progress. Its Open returns session.ErrSuperseded and
// does not reach the player.
func (s *Surface) Cancel() {
	s.sessions.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == session.Resolving {
		s.state = session.Idle
	}
}

// Run polls the playback clock, ticks the lanes and forwards lane notices until ctx is
// done. Every playback that ends is published once as PlaybackEnded; a later Open keeps
// being polled by the same loop.
func (s *Surface) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.Poll)
	defer ticker.Stop()

	var reported <-chan struct{}
	for {
		wait := s.player.Wait()
		if wait == reported {
			wait = nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-wait:
			reported = wait
			s.publish(ctx, Event{Kind: PlaybackEnded, Position: s.View().Position})
		case n := <-s.notices:
			s.forward(ctx, n)
		case <-ticker.C:
			s.Poll(ctx)
		}
	}
}

// Poll performs one clock read: the subtitle index is resolved at the playback position
// and the lanes are ticked. Clock errors leave the subtitle untouched.
func (s *Surface) Poll(ctx context.Context) {
	s.lanes.Tick(s.opts.Now())

	pos, err := s.player.TimePos()
	if err != nil {
		if !errors.Is(err, player.ErrNotPlaying) {
			log.Debugf("reading playback position: %s", err)
		}
		return
	}

	s.mu.Lock()
	s.position = pos
	s.mu.Unlock()

	transition, ok := s.subs.Resolve(pos).Get()
	if !ok {
		return
	}

	event := Event{Position: pos, Text: transition.Text}
	switch transition.Kind {
	case subtitle.Show:
		event.Kind = SubtitleShow
		s.setSubtitle(mo.Some(transition.Text))
	case subtitle.Hide:
		event.Kind = SubtitleHide
		s.setSubtitle(mo.None[string]())
	}

	s.publish(ctx, event)
}

func (s *Surface) forward(ctx context.Context, n lane.Notice) {
	event := Event{Lane: n.Lane, Token: n.Token, Text: n.Event.Text, Crossing: n.Event.Crossing}
	switch n.Kind {
	case lane.Assigned:
		event.Kind = LaneAssigned
	case lane.Dropped:
		event.Kind = LaneDropped
	case lane.Freed:
		event.Kind = LaneFreed
	}
	s.publish(ctx, event)
}

func (s *Surface) setSubtitle(text mo.Option[string]) {
	if s.opts.MirrorSubtitles {
		if err := s.player.ShowText(text.OrEmpty(), time.Hour); err != nil {
			log.Debugf("mirroring subtitle: %s", err)
		}
	}

	s.mu.Lock()
	s.subtitle = text
	s.mu.Unlock()
}

func (s *Surface) setSession(title string, state session.State, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.title = title
	s.state = state
	s.err = err
}

func (s *Surface) publish(ctx context.Context, e Event) {
	select {
	case s.events <- e:
	case <-ctx.Done():
	}
}

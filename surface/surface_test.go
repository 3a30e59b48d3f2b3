package surface

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cinelane/cinelane/lane"
	"github.com/cinelane/cinelane/locator"
	"github.com/cinelane/cinelane/player"
	"github.com/cinelane/cinelane/session"
	"github.com/cinelane/cinelane/subtitle"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type fakePlayer struct {
	mu      sync.Mutex
	pos     time.Duration
	playing bool
	played  []string
	shown   []string
	done    chan struct{}
	playErr error
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{done: make(chan struct{})}
}

func (p *fakePlayer) TimePos() (time.Duration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return 0, player.ErrNotPlaying
	}
	return p.pos, nil
}

func (p *fakePlayer) Seek(pos time.Duration) {
	p.mu.Lock()
	p.playing = true
	p.pos = pos
	p.mu.Unlock()
}

func (p *fakePlayer) Play(locator, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playErr != nil {
		return p.playErr
	}
	p.played = append(p.played, locator)
	p.playing = true
	select {
	case <-p.done:
		p.done = make(chan struct{})
	default:
	}
	return nil
}

func (p *fakePlayer) ShowText(text string, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = append(p.shown, text)
	return nil
}

func (p *fakePlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	close(p.done)
	return nil
}

func (p *fakePlayer) Wait() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

type mapResolver map[string]string

func (r mapResolver) Search(_ context.Context, q string) (mo.Option[string], error) {
	if v, ok := r[q]; ok {
		return mo.Some(v), nil
	}
	return mo.None[string](), nil
}

func (r mapResolver) Popular(context.Context) (mo.Option[string], error) {
	return mo.None[string](), nil
}

// gatedResolver answers Search only once gate is closed, ignoring cancellation.
type gatedResolver struct {
	gate   chan struct{}
	result string
}

func (r gatedResolver) Search(context.Context, string) (mo.Option[string], error) {
	<-r.gate
	return mo.Some(r.result), nil
}

func (r gatedResolver) Popular(context.Context) (mo.Option[string], error) {
	return mo.None[string](), nil
}

func newTestSurface(p *fakePlayer, resolver session.Resolver, opts Options) *Surface {
	subs := subtitle.New()
	subs.Load([]subtitle.Cue{
		{Start: 5 * time.Second, End: 8 * time.Second, Text: "a"},
		{Start: 10 * time.Second, End: 13 * time.Second, Text: "b"},
	})

	cache := locator.New(locator.DefaultOptions())
	return New(lane.New(lane.DefaultOptions()), subs, session.NewManager(cache, resolver, nil), p, opts)
}

func next(s *Surface) Event {
	select {
	case e := <-s.Events():
		return e
	case <-time.After(2 * time.Second):
		return Event{Kind: Kind(-1)}
	}
}

func pending(s *Surface) int {
	return len(s.events)
}

func TestPoll(t *testing.T) {
	Convey("Given a surface over two cues", t, func() {
		p := newFakePlayer()
		s := newTestSurface(p, mapResolver{}, Options{})
		ctx := context.Background()

		Convey("Nothing happens before playback starts", func() {
			s.Poll(ctx)
			So(pending(s), ShouldEqual, 0)
		})

		Convey("The clock drives show and hide transitions", func() {
			p.Seek(6 * time.Second)
			s.Poll(ctx)
			e := next(s)
			So(e.Kind, ShouldEqual, SubtitleShow)
			So(e.Text, ShouldEqual, "a")
			So(s.View().Subtitle.MustGet(), ShouldEqual, "a")

			p.Seek(9 * time.Second)
			s.Poll(ctx)
			So(next(s).Kind, ShouldEqual, SubtitleHide)
			So(s.View().Subtitle.IsAbsent(), ShouldBeTrue)

			p.Seek(11 * time.Second)
			s.Poll(ctx)
			So(next(s).Text, ShouldEqual, "b")

			s.Poll(ctx)
			So(pending(s), ShouldEqual, 0)
			So(s.View().Position, ShouldEqual, 11*time.Second)
		})

		Convey("Mirrored subtitles reach the player OSD", func() {
			s := newTestSurface(p, mapResolver{}, Options{MirrorSubtitles: true})
			p.Seek(6 * time.Second)
			s.Poll(ctx)
			p.Seek(9 * time.Second)
			s.Poll(ctx)
			So(p.shown, ShouldResemble, []string{"a", ""})
		})
	})
}

func TestOpen(t *testing.T) {
	Convey("Given a surface with a resolver", t, func() {
		p := newFakePlayer()
		s := newTestSurface(p, mapResolver{"movie": "movie.mp4"}, Options{})
		ctx := context.Background()

		Convey("A resolved key is handed to the player", func() {
			So(s.Open(ctx, "Dune"), ShouldBeNil)
			So(next(s).Kind, ShouldEqual, SessionResolving)
			ready := next(s)
			So(ready.Kind, ShouldEqual, SessionReady)
			So(ready.Locator, ShouldEqual, "movie.mp4")
			So(p.played, ShouldResemble, []string{"movie.mp4"})
			So(s.View().Session, ShouldEqual, session.Ready)
			So(s.View().Title, ShouldEqual, "Dune")

			Convey("And reopening hits the cache without resolving", func() {
				So(s.Open(ctx, "dune"), ShouldBeNil)
				So(next(s).Kind, ShouldEqual, SessionReady)
			})
		})

		Convey("An unresolvable key fails", func() {
			s := newTestSurface(p, mapResolver{}, Options{})
			err := s.Open(ctx, "Dune")
			So(errors.Is(err, session.ErrNotFound), ShouldBeTrue)
			So(next(s).Kind, ShouldEqual, SessionResolving)
			failed := next(s)
			So(failed.Kind, ShouldEqual, SessionFailed)
			So(s.View().Session, ShouldEqual, session.Failed)
		})

		Convey("A cancelled open never reaches the player", func() {
			gate := make(chan struct{})
			s := newTestSurface(p, gatedResolver{gate: gate, result: "matrix.mp4"}, Options{})

			opened := make(chan error, 1)
			go func() { opened <- s.Open(ctx, "Matrix") }()
			So(next(s).Kind, ShouldEqual, SessionResolving)

			s.Cancel()
			close(gate)

			So(<-opened, ShouldEqual, session.ErrSuperseded)
			So(p.played, ShouldBeEmpty)
			So(s.View().Session, ShouldEqual, session.Idle)
			So(pending(s), ShouldEqual, 0)
		})

		Convey("A player error fails the open", func() {
			p.playErr = errors.New("no mpv")
			So(s.Open(ctx, "Dune"), ShouldNotBeNil)
			So(s.View().Session, ShouldEqual, session.Failed)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running surface", t, func() {
		p := newFakePlayer()
		s := newTestSurface(p, mapResolver{}, Options{Poll: 10 * time.Millisecond})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		Convey("Comments are published as lane assignments", func() {
			a := s.Comment(lane.Event{Text: "hello"})
			So(a.IsPresent(), ShouldBeTrue)

			e := next(s)
			So(e.Kind, ShouldEqual, LaneAssigned)
			So(e.Text, ShouldEqual, "hello")
			So(e.Lane, ShouldEqual, a.MustGet().Lane)
		})

		Convey("Each ended playback is published once and Run keeps going", func() {
			So(p.Close(), ShouldBeNil)
			So(next(s).Kind, ShouldEqual, PlaybackEnded)

			So(p.Play("next", "Next"), ShouldBeNil)
			So(p.Close(), ShouldBeNil)
			So(next(s).Kind, ShouldEqual, PlaybackEnded)

			cancel()
			So(<-done, ShouldEqual, context.Canceled)
		})

		Convey("Run ends with the context", func() {
			cancel()
			So(<-done, ShouldEqual, context.Canceled)
		})
	})
}

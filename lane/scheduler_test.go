package lane

import (
	"sync"
	"testing"
	"time"

	"github.com/cinelane/cinelane/color"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestScheduler(clk *fakeClock) *Scheduler {
	opts := DefaultOptions()
	opts.Now = clk.Now
	return New(opts)
}

func fill(s *Scheduler) []Assignment {
	var out []Assignment
	for i := 0; i < s.Len(); i++ {
		out = append(out, s.Submit(Event{Text: "hi"}).MustGet())
	}
	return out
}

func TestSubmit(t *testing.T) {
	Convey("Given a scheduler with six lanes", t, func() {
		clk := &fakeClock{now: time.Unix(1000, 0)}
		s := newTestScheduler(clk)

		Convey("Submissions within one clearance window get distinct lanes", func() {
			seen := make(map[int]bool)
			for i := 0; i < s.Len(); i++ {
				a := s.Submit(Event{Text: "hello"})
				So(a.IsPresent(), ShouldBeTrue)
				seen[a.MustGet().Lane] = true
				clk.Advance(100 * time.Millisecond)
			}
			So(len(seen), ShouldEqual, 6)
		})

		Convey("Lanes are scanned lowest index first", func() {
			So(s.Submit(Event{Text: "a"}).MustGet().Lane, ShouldEqual, 0)
			So(s.Submit(Event{Text: "b"}).MustGet().Lane, ShouldEqual, 1)
		})

		Convey("Zero fields are filled with defaults", func() {
			s.Submit(Event{Text: "defaults"})
			occ := s.Lanes()[0].Occupant.MustGet()
			So(occ.Event.Color, ShouldEqual, color.White)
			So(occ.Event.FontSize, ShouldEqual, DefaultFontSize)
			So(occ.Event.Crossing, ShouldEqual, 8*time.Second)
		})

		Convey("When every lane is busy", func() {
			fill(s)

			Convey("The next event is dropped silently", func() {
				So(s.Submit(Event{Text: "late"}).IsAbsent(), ShouldBeTrue)
				stats := s.Stats()
				So(stats.Dropped, ShouldEqual, 1)
				So(stats.Busy, ShouldEqual, 6)
			})

			Convey("A finished lane is not reused before the grace window", func() {
				clk.Advance(8*time.Second + 200*time.Millisecond)
				So(s.Submit(Event{Text: "early"}).IsAbsent(), ShouldBeTrue)
			})

			Convey("A lane is reused after crossing plus grace", func() {
				clk.Advance(8*time.Second + 500*time.Millisecond)
				a := s.Submit(Event{Text: "next"})
				So(a.IsPresent(), ShouldBeTrue)
				So(a.MustGet().Lane, ShouldEqual, 0)
			})
		})
	})
}

func TestReclaim(t *testing.T) {
	Convey("Given a grace window longer than the clearance window", t, func() {
		clk := &fakeClock{now: time.Unix(1000, 0)}
		opts := DefaultOptions()
		opts.Now = clk.Now
		opts.Grace = 3 * time.Second
		s := New(opts)

		first := fill(s)[0]

		Convey("A finished lane is reclaimed once clearance elapsed", func() {
			clk.Advance(8*time.Second + 1100*time.Millisecond)
			a := s.Submit(Event{Text: "reclaim"})
			So(a.IsPresent(), ShouldBeTrue)
			So(a.MustGet().Lane, ShouldEqual, 0)
			So(a.MustGet().Token, ShouldNotEqual, first.Token)
			So(s.Stats().Reclaimed, ShouldEqual, 1)

			Convey("A late release for the old occupant is a no-op", func() {
				So(s.Release(first.Token, clk.Now()), ShouldBeFalse)
				occ := s.Lanes()[0].Occupant.MustGet()
				So(occ.Token, ShouldEqual, a.MustGet().Token)
				So(s.Lanes()[0].Available, ShouldBeFalse)
			})
		})

		Convey("Clearance is measured strictly", func() {
			clk.Advance(9 * time.Second)
			So(s.Submit(Event{Text: "exactly"}).IsAbsent(), ShouldBeTrue)
		})
	})
}

func TestRelease(t *testing.T) {
	Convey("Given one assigned event", t, func() {
		clk := &fakeClock{now: time.Unix(1000, 0)}
		s := newTestScheduler(clk)
		a := s.Submit(Event{Text: "x"}).MustGet()

		Convey("Release is idempotent", func() {
			clk.Advance(2 * time.Second)
			So(s.Release(a.Token, clk.Now()), ShouldBeTrue)
			So(s.Release(a.Token, clk.Now()), ShouldBeFalse)
		})

		Convey("An early release frees the lane after the grace window", func() {
			clk.Advance(2 * time.Second)
			So(s.Release(a.Token, clk.Now()), ShouldBeTrue)
			So(s.Lanes()[0].Available, ShouldBeFalse)

			clk.Advance(500 * time.Millisecond)
			s.Tick(clk.Now())
			So(s.Lanes()[0].Available, ShouldBeTrue)

			Convey("And the freed token cannot be released again", func() {
				So(s.Release(a.Token, clk.Now()), ShouldBeFalse)
			})
		})

		Convey("Tick finishes the occupant after its crossing", func() {
			clk.Advance(8 * time.Second)
			s.Tick(clk.Now())
			lane := s.Lanes()[0]
			So(lane.Available, ShouldBeFalse)
			So(lane.LastRelease.MustGet().Equal(time.Unix(1008, 0)), ShouldBeTrue)
			So(s.Release(a.Token, clk.Now()), ShouldBeFalse)
		})

		Convey("The zero token never releases anything", func() {
			So(s.Release(0, clk.Now()), ShouldBeFalse)
		})
	})
}

func TestEnableDisable(t *testing.T) {
	Convey("Given a disabled scheduler", t, func() {
		clk := &fakeClock{now: time.Unix(1000, 0)}
		s := newTestScheduler(clk)
		fill(s)
		s.Disable()

		Convey("Lanes are freed and submissions dropped", func() {
			So(s.Stats().Busy, ShouldEqual, 0)
			So(s.Submit(Event{Text: "muted"}).IsAbsent(), ShouldBeTrue)
		})

		Convey("Enabling resumes assignment", func() {
			s.Enable()
			So(s.Enabled(), ShouldBeTrue)
			So(s.Submit(Event{Text: "back"}).MustGet().Lane, ShouldEqual, 0)
		})
	})
}

func TestNotices(t *testing.T) {
	Convey("Given a subscriber", t, func() {
		clk := &fakeClock{now: time.Unix(1000, 0)}
		s := newTestScheduler(clk)
		notices := s.Subscribe(16)

		s.Submit(Event{Text: "one"})
		clk.Advance(8*time.Second + 500*time.Millisecond)
		s.Tick(clk.Now())

		So((<-notices).Kind, ShouldEqual, Assigned)
		freed := <-notices
		So(freed.Kind, ShouldEqual, Freed)
		So(freed.Lane, ShouldEqual, 0)
		So(freed.Event.Text, ShouldEqual, "one")
	})

	Convey("A full subscriber buffer never blocks submissions", t, func() {
		s := New(DefaultOptions())
		_ = s.Subscribe(0)
		So(func() { fill(s) }, ShouldNotPanic)
		So(s.Stats().Assigned, ShouldEqual, 6)
	})
}

func TestConcurrentSubmit(t *testing.T) {
	Convey("Given many concurrent producers", t, func() {
		clk := &fakeClock{now: time.Unix(1000, 0)}
		s := newTestScheduler(clk)

		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			lanes = make(map[int]int)
		)
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if a, ok := s.Submit(Event{Text: "race"}).Get(); ok {
					mu.Lock()
					lanes[a.Lane]++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		So(len(lanes), ShouldEqual, 6)
		for _, n := range lanes {
			So(n, ShouldEqual, 1)
		}
		So(s.Stats().Dropped, ShouldEqual, 44)
	})
}

func TestOccupantProgress(t *testing.T) {
	Convey("Progress is clamped to [0, 1]", t, func() {
		start := time.Unix(0, 0)
		o := Occupant{Event: Event{Crossing: 4 * time.Second}, AssignedAt: start}
		So(o.Progress(start.Add(-time.Second)), ShouldEqual, 0)
		So(o.Progress(start.Add(time.Second)), ShouldEqual, 0.25)
		So(o.Progress(start.Add(time.Minute)), ShouldEqual, 1)
	})
}

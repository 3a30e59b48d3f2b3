package subtitle

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func sec(n float64) time.Duration {
	return time.Duration(n * float64(time.Second))
}

func TestResolve(t *testing.T) {
	Convey("Given cues (5,8,a) and (10,13,b)", t, func() {
		x := New()
		x.Load([]Cue{
			{Start: sec(10), End: sec(13), Text: "b"},
			{Start: sec(5), End: sec(8), Text: "a"},
		})

		Convey("Resolve walks through show, hide and show", func() {
			tr := x.Resolve(sec(6))
			So(tr.MustGet().Kind, ShouldEqual, Show)
			So(tr.MustGet().Text, ShouldEqual, "a")

			So(x.Resolve(sec(9)).MustGet().Kind, ShouldEqual, Hide)

			tr = x.Resolve(sec(11))
			So(tr.MustGet().Kind, ShouldEqual, Show)
			So(tr.MustGet().Text, ShouldEqual, "b")

			So(x.Resolve(sec(11)).IsAbsent(), ShouldBeTrue)
			So(x.Resolve(sec(12.5)).IsAbsent(), ShouldBeTrue)
		})

		Convey("Cue bounds are inclusive", func() {
			So(x.Resolve(sec(5)).MustGet().Text, ShouldEqual, "a")
			So(x.Resolve(sec(8)).IsAbsent(), ShouldBeTrue)
		})

		Convey("Nothing is emitted before the first cue", func() {
			So(x.Resolve(0).IsAbsent(), ShouldBeTrue)
			So(x.Resolve(sec(4.5)).IsAbsent(), ShouldBeTrue)
		})

		Convey("Seeking backwards shows the earlier cue again", func() {
			x.Resolve(sec(11))
			So(x.Resolve(sec(6)).MustGet().Text, ShouldEqual, "a")
		})

		Convey("Going straight from one cue to the next emits only a show", func() {
			x.Load([]Cue{
				{Start: sec(1), End: sec(2), Text: "one"},
				{Start: sec(2.5), End: sec(4), Text: "two"},
			})
			x.Resolve(sec(1))
			tr := x.Resolve(sec(3))
			So(tr.MustGet().Kind, ShouldEqual, Show)
			So(tr.MustGet().Text, ShouldEqual, "two")
		})

		Convey("Identical text in distinct cues is still a new show", func() {
			x.Load([]Cue{
				{Start: sec(1), End: sec(2), Text: "same"},
				{Start: sec(2.5), End: sec(4), Text: "same"},
			})
			So(x.Resolve(sec(1)).IsPresent(), ShouldBeTrue)
			So(x.Resolve(sec(3)).MustGet().Index, ShouldEqual, 1)
		})
	})
}

func TestOverlap(t *testing.T) {
	Convey("Given overlapping cues", t, func() {
		x := New()
		x.Load([]Cue{
			{Start: sec(2), End: sec(10), Text: "late"},
			{Start: sec(1), End: sec(10), Text: "early"},
		})

		Convey("The earliest-starting cue wins", func() {
			So(x.Resolve(sec(5)).MustGet().Text, ShouldEqual, "early")
			So(x.Resolve(sec(6)).IsAbsent(), ShouldBeTrue)
		})
	})
}

func TestEnabled(t *testing.T) {
	Convey("Given a visible cue", t, func() {
		x := New()
		x.Load(Sample())
		x.Resolve(sec(6))
		So(x.Active().IsPresent(), ShouldBeTrue)

		Convey("Disabling hides it on the next resolve", func() {
			x.SetEnabled(false)
			So(x.Resolve(sec(6)).MustGet().Kind, ShouldEqual, Hide)
			So(x.Resolve(sec(11)).IsAbsent(), ShouldBeTrue)

			Convey("Re-enabling shows the current cue", func() {
				x.SetEnabled(true)
				So(x.Resolve(sec(11)).MustGet().Kind, ShouldEqual, Show)
			})
		})

		Convey("Clearing hides it on the next resolve", func() {
			x.Clear()
			So(x.Active().IsAbsent(), ShouldBeTrue)
			So(x.Resolve(sec(6)).MustGet().Kind, ShouldEqual, Hide)
			So(x.Len(), ShouldEqual, 0)
		})

		Convey("Reloading re-shows a cue at the same time", func() {
			x.Load(Sample())
			So(x.Resolve(sec(6)).MustGet().Kind, ShouldEqual, Show)
		})
	})
}

func TestConcurrentResolve(t *testing.T) {
	Convey("Concurrent clock and loader goroutines do not race", t, func() {
		x := New()
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				for ms := 0; ms < 30000; ms += 500 {
					x.Resolve(time.Duration(ms) * time.Millisecond)
				}
			}()
			go func() {
				defer wg.Done()
				x.Load(Sample())
			}()
		}
		wg.Wait()
		So(x.Len(), ShouldEqual, len(Sample()))
	})
}

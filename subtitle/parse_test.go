package subtitle

import (
	"testing"
	"time"

	"github.com/cinelane/cinelane/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

const srt = `2
00:00:10,500 --> 00:00:13,000
Second line one
Second line two

garbage block without a time line
still garbage
more garbage

1
00:00:01,000 --> 00:00:04,250
First
`

func TestParseBlocks(t *testing.T) {
	Convey("Given two well-formed blocks and one malformed block", t, func() {
		cues := ParseBlocks(srt)

		Convey("Exactly two cues are parsed in ascending order", func() {
			So(len(cues), ShouldEqual, 2)
			So(cues[0].Text, ShouldEqual, "First")
			So(cues[0].Start, ShouldEqual, time.Second)
			So(cues[0].End, ShouldEqual, 4*time.Second+250*time.Millisecond)
			So(cues[1].Text, ShouldEqual, "Second line one\nSecond line two")
			So(cues[1].Start, ShouldEqual, 10*time.Second+500*time.Millisecond)
		})
	})

	Convey("CRLF input is accepted", t, func() {
		cues := ParseBlocks("1\r\n00:00:01,000 --> 00:00:02,000\r\nhi\r\n\r\n")
		So(len(cues), ShouldEqual, 1)
		So(cues[0].Text, ShouldEqual, "hi")
	})

	Convey("Hours are weighted 3600 seconds", t, func() {
		cues := ParseBlocks("1\n01:02:03,004 --> 01:02:04,000\nlate")
		So(cues[0].Start, ShouldEqual, time.Hour+2*time.Minute+3*time.Second+4*time.Millisecond)
	})

	Convey("Blocks are skipped when", t, func() {
		Convey("they have too few lines", func() {
			So(ParseBlocks("1\n00:00:01,000 --> 00:00:02,000"), ShouldBeEmpty)
		})
		Convey("the time range is unparsable", func() {
			So(ParseBlocks("1\n00:00:01 --> 00:00:02\ntext"), ShouldBeEmpty)
			So(ParseBlocks("1\n00:00:01,000 -> 00:00:02,000\ntext"), ShouldBeEmpty)
			So(ParseBlocks("1\n00:61:01,000 --> 00:62:02,000\ntext"), ShouldBeEmpty)
		})
		Convey("the range ends before it starts", func() {
			So(ParseBlocks("1\n00:00:05,000 --> 00:00:02,000\ntext"), ShouldBeEmpty)
		})
	})

	Convey("Empty input yields no cues", t, func() {
		So(ParseBlocks(""), ShouldBeEmpty)
		So(ParseBlocks("\n\n\n"), ShouldBeEmpty)
	})
}

func TestLoadFile(t *testing.T) {
	Convey("Given a subtitle file on the in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		So(filesystem.API().WriteFile("/subs/demo.srt", []byte(srt), 0o644), ShouldBeNil)

		Convey("LoadFile parses and loads it", func() {
			x := New()
			n, err := x.LoadFile("/subs/demo.srt")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
			So(x.Resolve(2*time.Second).MustGet().Text, ShouldEqual, "First")
		})

		Convey("A missing file is an error", func() {
			_, err := New().LoadFile("/subs/missing.srt")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestCueString(t *testing.T) {
	Convey("Cues format with SRT timestamps", t, func() {
		c := Cue{Start: time.Hour + 1500*time.Millisecond, End: 2 * time.Hour, Text: "x"}
		So(c.String(), ShouldEqual, `01:00:01,500 --> 02:00:00,000 "x"`)
	})
}

package player

import (
	"bufio"
	"encoding/json"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitize(t *testing.T) {
	Convey("Media targets", t, func() {
		Convey("http(s) URLs pass through", func() {
			got, err := sanitizeMediaTarget("  https://example.com/a.mp4 ")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "https://example.com/a.mp4")
		})

		Convey("Local paths are cleaned", func() {
			got, err := sanitizeMediaTarget("videos/../videos/a.mkv")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, filepath.Clean("videos/a.mkv"))
		})

		Convey("Flags, control characters and other schemes are rejected", func() {
			for _, bad := range []string{"", "--script=evil.lua", "a\nb", "file:///etc/passwd", "ytdl://x"} {
				_, err := sanitizeMediaTarget(bad)
				So(err, ShouldNotBeNil)
			}
		})
	})

	Convey("Titles lose control characters", t, func() {
		So(sanitizeTitle(" The\tMatrix\n\x00"), ShouldEqual, "The Matrix")
	})

	Convey("mpv arguments end with the target after --", t, func() {
		args := mpvArgs("/tmp/s.sock", "a.mp4", "A")
		So(args, ShouldContain, "--input-ipc-server=/tmp/s.sock")
		So(args, ShouldContain, "--force-media-title=A")
		So(args[len(args)-2:], ShouldResemble, []string{"--", "a.mp4"})
	})
}

func TestReadReply(t *testing.T) {
	Convey("Replies are matched by request id and events are skipped", t, func() {
		stream := strings.Join([]string{
			`{"event":"playback-restart"}`,
			`{"data":1.0,"error":"success","request_id":6}`,
			`{"data":12.5,"error":"success","request_id":7}`,
		}, "\n")

		data, err := readReply(bufio.NewScanner(strings.NewReader(stream)), 7)
		So(err, ShouldBeNil)
		So(data, ShouldEqual, 12.5)
	})

	Convey("mpv errors are reported", t, func() {
		stream := `{"data":null,"error":"property unavailable","request_id":3}`
		_, err := readReply(bufio.NewScanner(strings.NewReader(stream)), 3)
		So(err, ShouldHaveSameTypeAs, mpvError(""))
	})

	Convey("A closed stream without the reply is an error", t, func() {
		_, err := readReply(bufio.NewScanner(strings.NewReader("")), 1)
		So(err, ShouldNotBeNil)
	})
}

// fakeMPV answers get_property time-pos on a unix socket.
func fakeMPV(t *testing.T, seconds float64) string {
	socket := filepath.Join(t.TempDir(), "mpv.sock")
	ln, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				scanner := bufio.NewScanner(conn)
				for scanner.Scan() {
					var cmd ipcCommand
					if json.Unmarshal(scanner.Bytes(), &cmd) != nil {
						return
					}
					reply, _ := json.Marshal(ipcResponse{Data: seconds, Error: "success", RequestID: cmd.RequestID})
					_, _ = conn.Write(append(reply, '\n'))
				}
			}(conn)
		}
	}()

	return socket
}

func TestMPVClock(t *testing.T) {
	Convey("TimePos reads time-pos over IPC", t, func() {
		m := NewMPV()
		m.socketPath = fakeMPV(t, 12.5)

		pos, err := m.TimePos()
		So(err, ShouldBeNil)
		So(pos, ShouldEqual, 12500*time.Millisecond)
	})

	Convey("TimePos before Play is ErrNotPlaying", t, func() {
		_, err := NewMPV().TimePos()
		So(err, ShouldEqual, ErrNotPlaying)
	})
}

func TestStopwatch(t *testing.T) {
	Convey("Given a stopwatch on a fake clock", t, func() {
		var mu sync.Mutex
		now := time.Unix(100, 0)
		clock := func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}
		s := NewStopwatch(clock)

		Convey("It reports ErrNotPlaying before Play", func() {
			_, err := s.TimePos()
			So(err, ShouldEqual, ErrNotPlaying)
		})

		Convey("It counts from Play", func() {
			So(s.Play("x", "X"), ShouldBeNil)
			mu.Lock()
			now = now.Add(6 * time.Second)
			mu.Unlock()

			pos, err := s.TimePos()
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 6*time.Second)
		})

		Convey("Close ends Wait and rejects Play", func() {
			So(s.Close(), ShouldBeNil)
			So(s.Close(), ShouldBeNil)
			_, open := <-s.Wait()
			So(open, ShouldBeFalse)
			So(s.Play("x", "X"), ShouldEqual, ErrClosed)
		})
	})

	Convey("New knows the configured backends", t, func() {
		_, err := New("none")
		So(err, ShouldBeNil)
		_, err = New("vlc")
		So(err, ShouldNotBeNil)
	})
}

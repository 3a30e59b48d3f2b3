//go:build !windows

package cmd

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/cinelane/cinelane/locator"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPressure(t *testing.T) {
	Convey("Given a cache cleared on pressure", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		cache := locator.New(locator.DefaultOptions())
		cache.Put("sintel", "sintel.mp4")

		relay := pressure(ctx)
		cleared := make(chan struct{})
		go func() {
			<-relay
			cache.Clear()
			close(cleared)
		}()

		Convey("SIGUSR1 empties it", func() {
			So(syscall.Kill(syscall.Getpid(), syscall.SIGUSR1), ShouldBeNil)

			select {
			case <-cleared:
			case <-time.After(2 * time.Second):
				t.Fatal("pressure signal was not relayed")
			}
			So(cache.Len(), ShouldEqual, 0)
		})

		Convey("The relay closes with the context", func() {
			cancel()
			select {
			case <-cleared:
			case <-time.After(2 * time.Second):
				t.Fatal("relay stayed open")
			}
		})
	})
}

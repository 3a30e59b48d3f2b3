//go:build !windows

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// pressure relays SIGUSR1 as a locator cache pressure notification until ctx is done.
func pressure(ctx context.Context) <-chan struct{} {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGUSR1)

	relay := make(chan struct{})
	go func() {
		defer close(relay)
		defer signal.Stop(signals)

		for {
			select {
			case <-ctx.Done():
				return
			case <-signals:
				select {
				case relay <- struct{}{}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return relay
}

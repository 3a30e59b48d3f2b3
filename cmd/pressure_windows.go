//go:build windows

package cmd

import "context"

// pressure never fires on windows; there is no user signal to relay.
func pressure(context.Context) <-chan struct{} {
	return nil
}

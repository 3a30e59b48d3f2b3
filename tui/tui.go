// Package tui renders a surface in the terminal: the lanes of live comments, the current
// subtitle and the session status, with an input line to send comments.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cinelane/cinelane/surface"
)

// Options configures Run.
type Options struct {
	// Title is resolved right away when set; otherwise the search prompt is shown first.
	Title string
}

// Run drives the bubbletea program until the user quits or ctx ends.
func Run(ctx context.Context, s *surface.Surface, options *Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bubble := newBubble(ctx, s, options)
	if options.Title != "" {
		bubble.inputC.SetValue(options.Title)
		bubble.newState(resolvingState)
	}

	go func() {
		if err := s.Run(ctx); err != nil && ctx.Err() == nil {
			bubble.errorChannel <- err
		}
	}()

	_, err := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

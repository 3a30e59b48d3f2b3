package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cinelane/cinelane/log"
	"github.com/cinelane/cinelane/query"
	"github.com/cinelane/cinelane/surface"
)

type (
	surfaceEventMsg surface.Event
	openedMsg       struct {
		title string
		err   error
	}
	frameMsg time.Time
)

// frameInterval paces lane animation redraws.
const frameInterval = 100 * time.Millisecond

func (b *statefulBubble) open(title string) tea.Cmd {
	b.resolving = title
	return func() tea.Msg {
		log.Info("opening " + title)
		err := b.surface.Open(b.ctx, title)
		if err == nil {
			if err := query.Remember(title, 1); err != nil {
				log.Warnf("remembering %s: %s", title, err)
			}
		}
		return openedMsg{title: title, err: err}
	}
}

func (b *statefulBubble) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-b.surface.Events():
			return surfaceEventMsg(e)
		case err := <-b.errorChannel:
			return err
		case <-b.ctx.Done():
			return nil
		}
	}
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

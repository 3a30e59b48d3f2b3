package tui

import (
	"errors"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cinelane/cinelane/lane"
	"github.com/cinelane/cinelane/query"
	"github.com/cinelane/cinelane/session"
	"github.com/cinelane/cinelane/surface"
	"github.com/samber/mo"
)

func (b *statefulBubble) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, b.spinnerC.Tick, b.waitForEvent(), nextFrame()}
	if b.state == resolvingState {
		cmds = append(cmds, b.open(b.inputC.Value()))
	}
	return tea.Batch(cmds...)
}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	notifyCmd := b.notifier.Update(msg)

	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
		return b, tea.Batch(notifyCmd, b.waitForEvent())
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, notifyCmd
	case frameMsg:
		return b, nextFrame()
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	case surfaceEventMsg:
		return b, tea.Batch(notifyCmd, b.handleEvent(surface.Event(msg)), b.waitForEvent())
	case openedMsg:
		return b, tea.Batch(notifyCmd, b.handleOpened(msg))
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch b.state {
	case searchState:
		cmd = b.updateSearch(msg)
	case resolvingState:
		cmd = b.updateResolving(msg)
	case watchingState:
		cmd = b.updateWatching(msg)
	case commentState:
		cmd = b.updateComment(msg)
	case errorState:
		cmd = b.updateError(msg)
	}

	return b, tea.Batch(notifyCmd, cmd)
}

func (b *statefulBubble) handleEvent(e surface.Event) tea.Cmd {
	switch e.Kind {
	case surface.LaneDropped:
		return notify("comment dropped, every lane is busy")
	case surface.PlaybackEnded:
		b.setState(searchState)
		b.inputC.Focus()
		return notify("playback ended")
	}
	return nil
}

func (b *statefulBubble) handleOpened(msg openedMsg) tea.Cmd {
	if errors.Is(msg.err, session.ErrSuperseded) || msg.title != b.resolving {
		return nil
	}

	if msg.err != nil {
		b.raiseError(msg.err)
		return nil
	}

	if b.state == resolvingState {
		b.newState(watchingState)
	}
	return nil
}

func (b *statefulBubble) updateSearch(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			title := b.inputC.Value()
			if title == "" {
				return nil
			}
			b.newState(resolvingState)
			return b.open(title)
		case bubblesKey.Matches(msg, b.keymap.acceptSearchSuggestion):
			if suggestion, ok := b.searchSuggestion.Get(); ok {
				b.inputC.SetValue(suggestion)
				b.inputC.CursorEnd()
				b.searchSuggestion = mo.None[string]()
			}
			return nil
		}
	}

	var cmd tea.Cmd
	b.inputC, cmd = b.inputC.Update(msg)

	if value := b.inputC.Value(); value != "" {
		b.searchSuggestion = query.Suggest(value)
	} else {
		b.searchSuggestion = mo.None[string]()
	}

	return cmd
}

func (b *statefulBubble) updateResolving(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(msg, b.keymap.back) {
		b.surface.Cancel()
		b.resolving = ""
		b.previousState()
		b.inputC.Focus()
	}
	return nil
}

func (b *statefulBubble) updateWatching(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.comment):
		b.newState(commentState)
		b.commentC.SetValue("")
		return b.commentC.Focus()
	case bubblesKey.Matches(keyMsg, b.keymap.toggleLanes):
		lanes := b.surface.Lanes()
		if lanes.Enabled() {
			lanes.Disable()
			return notify("comments hidden")
		}
		lanes.Enable()
		return notify("comments shown")
	case bubblesKey.Matches(keyMsg, b.keymap.toggleSubtitles):
		subs := b.surface.Subtitles()
		subs.SetEnabled(!subs.Enabled())
		return nil
	case bubblesKey.Matches(keyMsg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
		return nil
	case bubblesKey.Matches(keyMsg, b.keymap.back):
		b.previousState()
		b.inputC.Focus()
		return nil
	}
	return nil
}

func (b *statefulBubble) updateComment(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			text := b.commentC.Value()
			b.commentC.Blur()
			b.previousState()
			if text == "" {
				return nil
			}
			b.surface.Comment(lane.Event{Text: text})
			return nil
		case bubblesKey.Matches(msg, b.keymap.back):
			b.commentC.Blur()
			b.previousState()
			return nil
		}
	}

	var cmd tea.Cmd
	b.commentC, cmd = b.commentC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.back):
		b.lastError = nil
		b.previousState()
		if b.state == searchState {
			b.inputC.Focus()
		}
	}
	return nil
}

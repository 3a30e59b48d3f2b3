package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/cinelane/cinelane/color"
	"github.com/cinelane/cinelane/style"
)

type statefulKeymap struct {
	state state

	quit, forceQuit,
	confirm, back,
	acceptSearchSuggestion,
	comment, toggleLanes, toggleSubtitles,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		acceptSearchSuggestion: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "accept search suggestion"),
		),
		comment: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp(style.Fg(color.Orange)("c"), style.Fg(color.Orange)("comment")),
		),
		toggleLanes: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "toggle comments"),
		),
		toggleSubtitles: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle subtitles"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case searchState:
		return to2(h(k.confirm, k.acceptSearchSuggestion, k.forceQuit))
	case resolvingState:
		return to2(h(k.back, k.forceQuit))
	case watchingState:
		return h(k.comment, k.back, k.quit), h(k.comment, k.toggleLanes, k.toggleSubtitles, k.back, k.quit)
	case commentState:
		return to2(h(withDescription(k.confirm, "send"), k.back))
	case errorState:
		return to2(h(k.back, k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func withDescription(k key.Binding, description string) key.Binding {
	return key.NewBinding(
		key.WithKeys(k.Keys()...),
		key.WithHelp(k.Help().Key, description),
	)
}

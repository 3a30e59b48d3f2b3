package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/cinelane/cinelane/constant"
	"github.com/cinelane/cinelane/surface"
	"github.com/cinelane/cinelane/util"
	"github.com/samber/mo"
)

type statefulBubble struct {
	ctx     context.Context
	surface *surface.Surface

	state         state
	previous      []state
	keymap        *statefulKeymap
	notifier      *notifier
	lastError     error
	width, height int

	spinnerC spinner.Model
	inputC   textinput.Model
	commentC textinput.Model
	helpC    help.Model

	searchSuggestion mo.Option[string]
	resolving        string

	errorChannel chan error
	options      *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState records the current state so previousState can return to it.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if b.state != resolvingState && b.state != errorState {
		b.previous = append(b.previous, b.state)
	}
	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if n := len(b.previous); n > 0 {
		b.setState(b.previous[n-1])
		b.previous = b.previous[:n-1]
		return
	}
	b.setState(searchState)
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y
	b.helpC.Width = b.width
	b.inputC.Width = b.width
	b.commentC.Width = b.width
}

func newBubble(ctx context.Context, s *surface.Surface, options *Options) *statefulBubble {
	bubble := &statefulBubble{
		ctx:          ctx,
		surface:      s,
		keymap:       newStatefulKeymap(),
		notifier:     &notifier{},
		errorChannel: make(chan error, 1),
		options:      options,
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = fmt.Sprintf("Search a title (v%s)", constant.Version)
	bubble.inputC.CharLimit = 80
	bubble.inputC.Prompt = "> "

	bubble.commentC = textinput.New()
	bubble.commentC.Placeholder = "Say something"
	bubble.commentC.CharLimit = 120
	bubble.commentC.Prompt = "# "

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.setState(searchState)
	bubble.inputC.Focus()

	return bubble
}

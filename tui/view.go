package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cinelane/cinelane/color"
	"github.com/cinelane/cinelane/icon"
	"github.com/cinelane/cinelane/lane"
	"github.com/cinelane/cinelane/style"
	"github.com/muesli/reflow/wrap"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case searchState:
		output = b.viewSearch()
	case resolvingState:
		output = b.viewResolving()
	case watchingState, commentState:
		output = b.viewWatching()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewSearch() string {
	lines := []string{
		style.Title("Search"),
		"",
		b.inputC.View(),
	}

	if suggestion, ok := b.searchSuggestion.Get(); ok && suggestion != b.inputC.Value() {
		lines = append(lines, "", style.Faint(icon.Get(icon.Search)+" "+suggestion+" (tab)"))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewResolving() string {
	return b.renderLines(true, []string{
		style.Title("Resolving"),
		"",
		style.Truncate(b.width)(b.spinnerC.View() + " " + style.Fg(color.Purple)(b.resolving)),
	})
}

func (b *statefulBubble) viewWatching() string {
	view := b.surface.View()
	now := time.Now()

	lines := []string{
		style.Title("Now Playing") + " " + style.Truncate(max(b.width-14, 0))(style.Fg(color.Purple)(view.Title)),
		statusTags(b.surface.Lanes().Enabled(), b.surface.Subtitles().Enabled()),
	}

	for _, snap := range view.Lanes {
		lines = append(lines, renderLane(snap, b.width, now))
	}

	lines = append(lines, "")

	subtitle := ""
	if text, ok := view.Subtitle.Get(); ok {
		subtitle = style.Bg(subtitleBackground)(style.Bold(text))
	}
	lines = append(lines, lipgloss.PlaceHorizontal(b.width, lipgloss.Center, wrap.String(subtitle, b.width)))

	stats := b.surface.Lanes().Stats()
	status := fmt.Sprintf("%s %s  %s %d/%d busy, %d dropped",
		icon.Get(icon.Progress), formatPosition(view.Position),
		icon.Get(icon.Lane), stats.Busy, len(view.Lanes), stats.Dropped,
	)
	lines = append(lines, "", style.Faint(style.Truncate(b.width)(status)))

	if b.state == commentState {
		lines = append(lines, "", b.commentC.View())
	}

	return b.renderLines(true, lines)
}

var subtitleBackground = color.New("236")

// statusTags marks the hidden layers of the surface; it is empty when both are shown.
func statusTags(lanes, subtitles bool) string {
	var tags []string
	if !lanes {
		tags = append(tags, style.Tag(color.New("230"), color.Yellow)("comments off"))
	}
	if !subtitles {
		tags = append(tags, style.Tag(color.New("230"), color.Blue)("subtitles off"))
	}
	return strings.Join(tags, " ")
}

func (b *statefulBubble) viewError() string {
	body := lipgloss.NewStyle().Foreground(color.New("196")).Bold(true).Render(b.lastError.Error())
	return b.renderLines(true, []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " Something went wrong:",
		"",
		wrap.String(body, b.width),
	})
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

// renderLane draws the occupant of a lane moving right to left across width cells. The
// text enters from the right edge at progress 0 and has left the surface at progress 1.
func renderLane(snap lane.Snapshot, width int, now time.Time) string {
	if width <= 0 {
		return ""
	}

	occupant, ok := snap.Occupant.Get()
	if !ok {
		return strings.Repeat(" ", width)
	}

	text := []rune(occupant.Event.Text)
	travel := width + len(text)
	left := width - int(occupant.Progress(now)*float64(travel))

	var visible []rune
	switch {
	case left >= width:
		return strings.Repeat(" ", width)
	case left < 0:
		if -left >= len(text) {
			return strings.Repeat(" ", width)
		}
		visible = text[-left:]
		left = 0
	default:
		visible = text
	}

	if len(visible) > width-left {
		visible = visible[:width-left]
	}

	rendered := lipgloss.NewStyle().Foreground(occupant.Event.Color).Render(string(visible))
	return strings.Repeat(" ", left) + rendered + strings.Repeat(" ", width-left-len(visible))
}

func formatPosition(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

package app

import (
	"fmt"
	"math"
	"strings"

	"github.com/jwulff/trimbar/internal/geometry"
	"github.com/jwulff/trimbar/internal/trim"
	"github.com/jwulff/trimbar/internal/ui"
)

// Screen rows. The track row is where presses start drags; the playhead row
// above it is accepted too.
const (
	playheadRow = 4
	trackRow    = 5
)

func onTrack(y int) bool {
	return y == trackRow || y == playheadRow
}

// View renders the full TUI.
func (m Model) View() string {
	if m.layout.width == 0 {
		return "Initializing..."
	}

	divider := ui.DividerStyle.Render(strings.Repeat("─", m.layout.width))
	sections := []string{
		m.renderHeader(),
		m.renderStatusBar(),
		divider,
		"",
		m.renderPlayhead(),
		m.renderTrack(),
		m.renderLabels(),
		"",
		m.renderSummary(),
		divider,
	}

	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("TRIMBAR")
	return title + ui.DimStyle.Render("  "+m.socket)
}

func (m Model) renderStatusBar() string {
	if !m.connected {
		if m.reconnecting {
			return ui.ErrorTextStyle.Render(m.statusText)
		}
		return ui.StatusStyle.Render(m.statusText)
	}

	var dot string
	if m.paused {
		dot = ui.PausedDotStyle.Render("‖ PAUSED")
	} else {
		dot = ui.PlayingDotStyle.Render("▶ PLAYING")
	}

	pos := fmt.Sprintf("  %s / %s",
		geometry.FormatClock(m.host.position),
		geometry.FormatClock(m.ctrl.Duration()))

	return dot + ui.StatusStyle.Render(pos+"  "+m.statusText)
}

// column maps a time to a track column, consistent with layout.trackRect.
func (m Model) column(t float64) int {
	cols := m.layout.trackCols()
	frac := geometry.TimeToFraction(t, m.ctrl.Duration())
	return int(math.Round(frac * float64(cols-1)))
}

func (m Model) trackReady() bool {
	return m.layout.trackCols() >= 2 && m.ctrl.Duration() > 0
}

func (m Model) renderPlayhead() string {
	if !m.trackReady() {
		return ""
	}
	col := m.column(m.host.position)
	return strings.Repeat(" ", trackPadding+col) + ui.PlayheadStyle.Render("▼")
}

func (m Model) renderTrack() string {
	pad := strings.Repeat(" ", trackPadding)
	cols := m.layout.trackCols()
	if !m.trackReady() {
		if cols <= 0 {
			return ""
		}
		return pad + ui.TrackStyle.Render(strings.Repeat("─", cols))
	}

	r := m.view.rendered
	startCol, endCol := m.column(r.Start), m.column(r.End)
	mode := m.ctrl.Mode()

	rangeStyle := ui.SelectedRangeStyle
	if mode == trim.DraggingRange {
		rangeStyle = ui.DraggedRangeStyle
	}
	startStyle, endStyle := ui.HandleStyle, ui.HandleStyle
	switch mode {
	case trim.DraggingStart:
		startStyle = ui.HandleActiveStyle
	case trim.DraggingEnd:
		endStyle = ui.HandleActiveStyle
	}

	var b strings.Builder
	b.WriteString(pad)
	b.WriteString(ui.TrackStyle.Render(strings.Repeat("─", startCol)))
	if startCol == endCol {
		b.WriteString(startStyle.Render("┃"))
	} else {
		b.WriteString(startStyle.Render("┃"))
		b.WriteString(rangeStyle.Render(strings.Repeat("━", endCol-startCol-1)))
		b.WriteString(endStyle.Render("┃"))
	}
	b.WriteString(ui.TrackStyle.Render(strings.Repeat("─", cols-endCol-1)))
	return b.String()
}

// renderLabels places the start label under the start handle and the end
// label so that it ends under the end handle.
func (m Model) renderLabels() string {
	if !m.trackReady() {
		return ""
	}
	cols := m.layout.trackCols()
	r := m.view.rendered
	line := []rune(strings.Repeat(" ", cols))

	startLabel := []rune(geometry.FormatClock(r.Start))
	endLabel := []rune(geometry.FormatClock(r.End))

	startAt := min(m.column(r.Start), max(0, cols-len(startLabel)))
	endAt := max(m.column(r.End)-len(endLabel)+1, startAt+len(startLabel)+1)
	place(line, startLabel, startAt)
	place(line, endLabel, endAt)

	return strings.Repeat(" ", trackPadding) + ui.LabelStyle.Render(string(line))
}

func place(line, label []rune, at int) {
	for i, r := range label {
		if at+i >= 0 && at+i < len(line) {
			line[at+i] = r
		}
	}
}

func (m Model) renderSummary() string {
	if m.ctrl.Duration() <= 0 {
		return ui.DimStyle.Render("  Waiting for media...")
	}
	r := m.view.rendered
	summary := fmt.Sprintf("  Trimmed duration: %s  (%s → %s of %s)",
		geometry.FormatClock(r.Length()),
		geometry.FormatClock(r.Start),
		geometry.FormatClock(r.End),
		geometry.FormatClock(m.ctrl.Duration()))

	keys := ui.DimStyle.Render(fmt.Sprintf("  keys: %s", keyModeLabel(m.keyMode)))
	return ui.SummaryStyle.Render(summary) + keys
}

func keyModeLabel(mode trim.Mode) string {
	switch mode {
	case trim.DraggingEnd:
		return "end"
	case trim.DraggingRange:
		return "window"
	default:
		return "start"
	}
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage)
}

func (m Model) renderFooter() string {
	var parts []string

	if m.connected {
		if m.paused {
			parts = append(parts, ui.FooterKeyStyle.Render("Space")+ui.FooterDescStyle.Render(" Play"))
		} else {
			parts = append(parts, ui.FooterKeyStyle.Render("Space")+ui.FooterDescStyle.Render(" Pause"))
		}
	}
	parts = append(parts, ui.FooterKeyStyle.Render("[ ] w")+ui.FooterDescStyle.Render(" Select"))
	parts = append(parts, ui.FooterKeyStyle.Render("←→")+ui.FooterDescStyle.Render(" Nudge"))
	parts = append(parts, ui.FooterKeyStyle.Render("Enter")+ui.FooterDescStyle.Render(" Replay"))
	parts = append(parts, ui.FooterKeyStyle.Render("q")+ui.FooterDescStyle.Render(" Quit"))

	return strings.Join(parts, "  ")
}

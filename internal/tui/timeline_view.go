package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tmarchal/planboard/internal/plan/conflict"
	"github.com/tmarchal/planboard/internal/plan/timeline"
)

const timelineLabelWidth = 26

var (
	barStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	conflictBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	columnRuleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// barWidth is the character width available for bars.
func (a *App) barWidth() int {
	w := a.width - timelineLabelWidth - 2
	if w < 20 {
		w = 60
	}
	return w
}

// renderColumns draws the column header, scaling each column's percentage
// width to terminal cells. Rounding is done against the running total so the
// header always fills the bar area exactly.
func renderColumns(cols []timeline.Column, width int) string {
	var b strings.Builder
	used := 0
	acc := 0.0
	for i, c := range cols {
		acc += c.WidthPct
		next := int(acc*float64(width)/100 + 0.5)
		w := next - used
		if i == len(cols)-1 {
			w = width - used
		}
		if w <= 0 {
			continue
		}
		label := truncate(c.Label, w)
		b.WriteString(fmt.Sprintf("%-*s", w, label))
		used += w
	}
	return b.String()
}

// renderBar draws one proportional bar into a width-character lane.
func renderBar(bar timeline.Bar, width int, conflicted bool) string {
	left := int(bar.LeftPct*float64(width)/100 + 0.5)
	span := int(bar.WidthPct*float64(width)/100 + 0.5)
	if span < 1 {
		span = 1
	}
	if left+span > width {
		span = width - left
	}
	if span < 1 {
		return strings.Repeat(" ", width)
	}
	lane := strings.Repeat(" ", left) + strings.Repeat("█", span) + strings.Repeat(" ", width-left-span)
	if conflicted {
		return conflictBarStyle.Render(lane)
	}
	return barStyle.Render(lane)
}

func (a *App) timelineView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Timeline  %s .. %s  (%s)", a.window.Start, a.window.End, a.window.Gran)))
	b.WriteString("\n\n")
	width := a.barWidth()

	b.WriteString(strings.Repeat(" ", timelineLabelWidth))
	b.WriteString(columnRuleStyle.Render(renderColumns(a.window.Columns(), width)))
	b.WriteString("\n")

	if a.snapshot == nil || len(a.snapshot.Tasks) == 0 {
		b.WriteString(mutedStyle.Render("No tasks in this window."))
		return b.String()
	}

	conflicted := map[string]bool{}
	for _, c := range conflict.DetectAll(a.snapshot.Tasks) {
		conflicted[c.TaskID] = true
	}

	shown := 0
	for _, t := range a.snapshot.Tasks {
		bar, ok := a.window.Project(t.Start, t.End)
		if !ok {
			continue
		}
		label := truncate(t.Title, timelineLabelWidth-2)
		b.WriteString(fmt.Sprintf("%-*s", timelineLabelWidth, label))
		b.WriteString(renderBar(bar, width, conflicted[t.ID]))
		b.WriteString("\n")
		shown++
	}
	if shown == 0 {
		b.WriteString(mutedStyle.Render("No dated tasks intersect this window."))
	}
	if n := len(conflicted); n > 0 {
		b.WriteString("\n")
		b.WriteString(conflictBarStyle.Render(fmt.Sprintf("%d task(s) start before a dependency ends", n)))
	}
	return b.String()
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tmarchal/planboard/internal/plan/grid"
	"github.com/tmarchal/planboard/internal/plan/reassign"
)

// truncate cuts a display string to the given cell width without splitting
// runes. Uppercased accented family names would otherwise be byte-sliced
// mid-rune.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "")
}

const (
	nameColWidth = 22
	dayColWidth  = 5
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	weekendStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	leaveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	holidayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	teleworkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2AA198"))
	taskStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	dragStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B57EDC")).Bold(true)
)

// cellLabel renders the content markers of one cell: task count, leave,
// holiday and telework. Suppressed affordances still show their markers;
// suppression only affects interaction.
func cellLabel(c grid.Cell) string {
	switch {
	case c.OnLeave():
		return "LLLL"
	case c.HasHoliday && !c.Holiday.IsWorkDay:
		return "HHHH"
	}
	var b strings.Builder
	if len(c.Tasks) > 0 {
		b.WriteString(fmt.Sprintf("%d", len(c.Tasks)))
	} else {
		b.WriteString("·")
	}
	if c.HasHoliday {
		b.WriteString("h")
	}
	if c.Telework {
		b.WriteString("~")
	}
	return b.String()
}

func styleCell(c grid.Cell, label string) string {
	padded := fmt.Sprintf("%-*s", dayColWidth-1, label)
	switch {
	case c.OnLeave():
		return leaveStyle.Render(padded)
	case c.HasHoliday && !c.Holiday.IsWorkDay:
		return holidayStyle.Render(padded)
	case len(c.Tasks) > 0:
		return taskStyle.Render(padded)
	case c.Telework:
		return teleworkStyle.Render(padded)
	default:
		return mutedStyle.Render(padded)
	}
}

func (a *App) gridView() string {
	var b strings.Builder
	end := a.gridStart.AddDays(gridDays - 1)
	b.WriteString(titleStyle.Render(fmt.Sprintf("Planning  %s .. %s", a.gridStart, end)))
	b.WriteString("\n\n")

	// Day header row.
	b.WriteString(strings.Repeat(" ", nameColWidth))
	for col := 0; col < gridDays; col++ {
		day := a.gridStart.AddDays(col)
		label := fmt.Sprintf("%-*s", dayColWidth-1, day.Time().Format("Mon")[:2]+day.Time().Format("02"))
		if wd := day.Weekday(); wd == 0 || wd == 6 {
			b.WriteString(weekendStyle.Render(label))
		} else {
			b.WriteString(headerStyle.Render(label))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n")

	if a.snapshot == nil {
		b.WriteString(mutedStyle.Render("Loading..."))
		return b.String()
	}
	if len(a.rows) == 0 {
		b.WriteString(mutedStyle.Render("No users yet. Run `planboard seed` to load data."))
		return b.String()
	}

	lastGroup := -1
	for ri, row := range a.rows {
		if row.group != lastGroup {
			lastGroup = row.group
			g := a.groups[row.group]
			groupStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(g.Color))
			b.WriteString(groupStyle.Render("— " + g.Name))
			b.WriteString("\n")
		}
		name := truncate(row.user.FullName(), nameColWidth-2)
		b.WriteString(fmt.Sprintf("%-*s", nameColWidth, name))
		for col := 0; col < gridDays; col++ {
			day := a.gridStart.AddDays(col)
			cell := a.snapshot.CellFor(row.user.ID, day)
			rendered := styleCell(cell, cellLabel(cell))
			if ri == a.cursorRow && col == a.cursorCol {
				rendered = cursorStyle.Render(fmt.Sprintf("%-*s", dayColWidth-1, cellLabel(cell)))
			}
			b.WriteString(rendered)
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) statusBar() string {
	var parts []string
	if drag, ok := a.drag.Active(); ok {
		parts = append(parts, dragStyle.Render(fmt.Sprintf("dragging %s", a.dragTitle(drag))))
	}
	if a.statusMsg != "" {
		parts = append(parts, statusStyle.Render(a.statusMsg))
	}
	if len(parts) == 0 {
		return statusStyle.Render("Ready")
	}
	return strings.Join(parts, "  ")
}

func (a *App) dragTitle(drag reassign.Drag) string {
	if a.snapshot != nil {
		for _, t := range a.snapshot.Tasks {
			if t.ID == drag.TaskID {
				return fmt.Sprintf("%q", t.Title)
			}
		}
	}
	return drag.TaskID
}

package timeline

import (
	"fmt"
	"strings"

	"github.com/tmarchal/planboard/internal/calendar"
)

// Granularity is the time unit the projector lays its columns out in. The
// values form an ordered zoom scale: day is the most zoomed in.
type Granularity int

const (
	GranularityDay Granularity = iota
	GranularityWeek
	GranularityMonth
)

func (g Granularity) String() string {
	switch g {
	case GranularityDay:
		return "day"
	case GranularityWeek:
		return "week"
	default:
		return "month"
	}
}

// ParseGranularity maps a label to its granularity. Unknown labels fall back
// to week.
func ParseGranularity(s string) Granularity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day":
		return GranularityDay
	case "month":
		return GranularityMonth
	default:
		return GranularityWeek
	}
}

// Window extents per granularity, in days (months for the month scale).
const (
	dayWindowDays   = 30
	weekWindowDays  = 84 // 12 ISO weeks
	monthWindowSpan = 12 // months
)

// Window is the visible [Start, End] range plus the active granularity.
type Window struct {
	Start calendar.Day
	End   calendar.Day
	Gran  Granularity
}

// NewWindow builds a window of the granularity's natural extent around a
// center day: 30 days for the day scale, 12 ISO weeks for the week scale,
// 12 calendar months for the month scale.
func NewWindow(center calendar.Day, g Granularity) Window {
	switch g {
	case GranularityDay:
		start := center.AddDays(-dayWindowDays / 2)
		return Window{Start: start, End: start.AddDays(dayWindowDays - 1), Gran: g}
	case GranularityWeek:
		start := center.AddDays(-weekWindowDays / 2).StartOfWeek()
		return Window{Start: start, End: start.AddDays(weekWindowDays - 1), Gran: g}
	default:
		start := center.AddMonths(-monthWindowSpan / 2).StartOfMonth()
		return Window{Start: start, End: start.AddMonths(monthWindowSpan).AddDays(-1), Gran: GranularityMonth}
	}
}

// Days returns the inclusive day count of the window.
func (w Window) Days() int {
	return calendar.DaysBetween(w.Start, w.End) + 1
}

// Center returns the window's middle day.
func (w Window) Center() calendar.Day {
	return w.Start.AddDays(w.Days() / 2)
}

// Shift moves the window by the granularity's fixed step: 30 days on the day
// scale, 7 days on the week scale, 12 months on the month scale. dir is +1
// for forward, -1 for back.
func (w Window) Shift(dir int) Window {
	switch w.Gran {
	case GranularityDay:
		return Window{Start: w.Start.AddDays(dir * 30), End: w.End.AddDays(dir * 30), Gran: w.Gran}
	case GranularityWeek:
		return Window{Start: w.Start.AddDays(dir * 7), End: w.End.AddDays(dir * 7), Gran: w.Gran}
	default:
		return Window{Start: w.Start.AddMonths(dir * 12), End: w.End.AddMonths(dir * 12), Gran: w.Gran}
	}
}

// ZoomIn switches to the next finer granularity, keeping the window centered
// on the same day. Already at the day scale, it returns the window unchanged.
func (w Window) ZoomIn() Window {
	if w.Gran == GranularityDay {
		return w
	}
	return NewWindow(w.Center(), w.Gran-1)
}

// ZoomOut switches to the next coarser granularity around the same center.
func (w Window) ZoomOut() Window {
	if w.Gran == GranularityMonth {
		return w
	}
	return NewWindow(w.Center(), w.Gran+1)
}

// Column is one header column of the timeline. Widths are percentages of the
// window and always sum to 100.
type Column struct {
	Start    calendar.Day
	End      calendar.Day
	Label    string
	WidthPct float64
}

// Columns lays the window out in columns of the active granularity. Week and
// month columns at the window edges are clipped, their width proportional to
// the days actually inside the window.
func (w Window) Columns() []Column {
	total := float64(w.Days())
	var cols []Column
	switch w.Gran {
	case GranularityDay:
		for d := w.Start; !d.After(w.End); d = d.AddDays(1) {
			cols = append(cols, Column{
				Start:    d,
				End:      d,
				Label:    d.Time().Format("02"),
				WidthPct: 100 / total,
			})
		}
	case GranularityWeek:
		for start := w.Start; !start.After(w.End); {
			end := calendar.Min(start.StartOfWeek().AddDays(6), w.End)
			_, week := start.ISOWeek()
			cols = append(cols, Column{
				Start:    start,
				End:      end,
				Label:    fmt.Sprintf("W%02d", week),
				WidthPct: float64(calendar.DaysBetween(start, end)+1) / total * 100,
			})
			start = end.AddDays(1)
		}
	default:
		for start := w.Start; !start.After(w.End); {
			end := calendar.Min(start.EndOfMonth(), w.End)
			cols = append(cols, Column{
				Start:    start,
				End:      end,
				Label:    start.Time().Format("Jan 2006"),
				WidthPct: float64(calendar.DaysBetween(start, end)+1) / total * 100,
			})
			start = end.AddDays(1)
		}
	}
	return cols
}

// Bar is a proportional position inside the window, for laying an entity's
// interval out against the column header.
type Bar struct {
	LeftPct  float64
	WidthPct float64
}

// Project translates an entity's [start, end] interval into a bar. A zero
// end is read as "still running" and replaced with today. It returns false
// when the interval misses the window entirely or the start is unknown;
// otherwise the interval is clipped to the window.
func (w Window) Project(start, end calendar.Day) (Bar, bool) {
	if start.IsZero() {
		return Bar{}, false
	}
	if end.IsZero() {
		end = calendar.Today()
	}
	if end.Before(w.Start) || start.After(w.End) {
		return Bar{}, false
	}
	clippedStart := calendar.Max(start, w.Start)
	clippedEnd := calendar.Min(end, w.End)
	total := float64(w.Days())
	return Bar{
		LeftPct:  float64(calendar.DaysBetween(w.Start, clippedStart)) / total * 100,
		WidthPct: float64(calendar.DaysBetween(clippedStart, clippedEnd)+1) / total * 100,
	}, true
}

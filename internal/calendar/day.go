// Package calendar provides the date-only Day value the planning grid is
// built on. All scheduling in planboard happens at day granularity; Day keeps
// that explicit and avoids the timezone traps of passing time.Time around.
package calendar

import (
	"fmt"
	"time"
)

// Layout is the wire format for days ("2006-01-02").
const Layout = "2006-01-02"

// Day is a single calendar day, normalized to midnight UTC. The zero Day
// means "unknown" (a task without a start date, for example).
type Day struct {
	t time.Time
}

// NewDay builds a Day from its components.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its calendar day.
func FromTime(t time.Time) Day {
	if t.IsZero() {
		return Day{}
	}
	y, m, d := t.Date()
	return NewDay(y, m, d)
}

// Parse reads a Day from its "2006-01-02" form.
func Parse(s string) (Day, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Day{}, fmt.Errorf("calendar: parse day %q: %w", s, err)
	}
	return FromTime(t), nil
}

// Today returns the current calendar day.
func Today() Day {
	return FromTime(time.Now().UTC())
}

// IsZero reports whether the day is unset.
func (d Day) IsZero() bool { return d.t.IsZero() }

// Time exposes the underlying midnight-UTC instant.
func (d Day) Time() time.Time { return d.t }

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(Layout)
}

// Date returns the day's components.
func (d Day) Date() (int, time.Month, int) { return d.t.Date() }

// Weekday returns the day of week.
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

// Before reports whether d falls strictly before o.
func (d Day) Before(o Day) bool { return d.t.Before(o.t) }

// After reports whether d falls strictly after o.
func (d Day) After(o Day) bool { return d.t.After(o.t) }

// Equal reports whether d and o are the same calendar day.
func (d Day) Equal(o Day) bool { return d.t.Equal(o.t) }

// AddDays returns the day n days later (earlier for negative n).
func (d Day) AddDays(n int) Day {
	return FromTime(d.t.AddDate(0, 0, n))
}

// AddMonths returns the same day-of-month n months later, with the usual
// time.AddDate overflow rules (Jan 31 + 1 month = Mar 2 or 3).
func (d Day) AddMonths(n int) Day {
	return FromTime(d.t.AddDate(0, n, 0))
}

// DaysBetween returns b minus a in whole days. Negative when b precedes a.
func DaysBetween(a, b Day) int {
	return int(b.t.Sub(a.t) / (24 * time.Hour))
}

// StartOfWeek returns the Monday of d's ISO week.
func (d Day) StartOfWeek() Day {
	offset := (int(d.t.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDays(-offset)
}

// StartOfMonth returns the first day of d's month.
func (d Day) StartOfMonth() Day {
	y, m, _ := d.t.Date()
	return NewDay(y, m, 1)
}

// EndOfMonth returns the last day of d's month.
func (d Day) EndOfMonth() Day {
	return d.StartOfMonth().AddMonths(1).AddDays(-1)
}

// ISOWeek returns the ISO 8601 year and week number.
func (d Day) ISOWeek() (int, int) { return d.t.ISOWeek() }

// Min returns the earlier of two days.
func Min(a, b Day) Day {
	if a.Before(b) {
		return a
	}
	return b
}

// Max returns the later of two days.
func Max(a, b Day) Day {
	if a.After(b) {
		return a
	}
	return b
}

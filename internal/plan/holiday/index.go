// Package holiday resolves calendar days against the holiday records loaded
// for the visible window.
package holiday

import (
	"github.com/tmarchal/planboard/internal/calendar"
	"github.com/tmarchal/planboard/internal/model"
)

// Index answers "is this day a holiday" by exact calendar-day lookup.
type Index struct {
	byDay map[calendar.Day]model.Holiday
}

// NewIndex builds an index over the given records. If two records share a
// day, the first one listed wins; the index does not try to de-duplicate.
func NewIndex(holidays []model.Holiday) *Index {
	byDay := make(map[calendar.Day]model.Holiday, len(holidays))
	for _, h := range holidays {
		if h.Day.IsZero() {
			continue
		}
		if _, exists := byDay[h.Day]; exists {
			continue
		}
		byDay[h.Day] = h
	}
	return &Index{byDay: byDay}
}

// ForDay returns the holiday on day d, if any.
func (x *Index) ForDay(d calendar.Day) (model.Holiday, bool) {
	if x == nil {
		return model.Holiday{}, false
	}
	h, ok := x.byDay[d]
	return h, ok
}

// NonWorking reports whether d is a holiday on which no work is planned.
func (x *Index) NonWorking(d calendar.Day) bool {
	h, ok := x.ForDay(d)
	return ok && !h.IsWorkDay
}

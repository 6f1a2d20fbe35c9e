package grid

import (
	"context"
	"fmt"

	"github.com/tmarchal/planboard/internal/calendar"
	"github.com/tmarchal/planboard/internal/model"
	"github.com/tmarchal/planboard/internal/plan/holiday"
)

// Snapshot holds the raw records for one visible window. Cells are computed
// from it without touching any shared mutable state, so two CellFor calls on
// the same snapshot always agree.
type Snapshot struct {
	Tasks    []model.Task
	Leaves   []model.Leave
	Telework []model.TeleworkDay
	Holidays *holiday.Index
}

// Cell is the derived occupancy of one (user, day) pair.
type Cell struct {
	UserID string
	Day    calendar.Day

	// Tasks due this day (task end == day) and assigned to the user.
	Tasks []model.Task
	// Leaves covering the day, rejected ones excluded.
	Leaves []model.Leave
	// Telework is the declared remote flag; false when no record exists.
	Telework bool

	Holiday    model.Holiday
	HasHoliday bool
}

// OnLeave reports whether at least one leave covers the cell.
func (c Cell) OnLeave() bool { return len(c.Leaves) > 0 }

// Interactive reports whether task and telework affordances are offered on
// this cell. A covering leave suppresses them; so does a holiday, unless the
// holiday is still a work day. The underlying records stay in the cell either
// way: suppression hides affordances, it does not drop data.
func (c Cell) Interactive() bool {
	if c.OnLeave() {
		return false
	}
	if c.HasHoliday && !c.Holiday.IsWorkDay {
		return false
	}
	return true
}

// CellFor composes the cell for one user and day. Pure: recomputing from the
// same snapshot yields a structurally identical cell.
func (s *Snapshot) CellFor(userID string, day calendar.Day) Cell {
	cell := Cell{UserID: userID, Day: day}
	for _, l := range s.Leaves {
		if l.UserID != userID || l.Status == model.LeaveRejected {
			continue
		}
		if l.Covers(day) {
			cell.Leaves = append(cell.Leaves, l)
		}
	}
	if h, ok := s.Holidays.ForDay(day); ok {
		cell.Holiday = h
		cell.HasHoliday = true
	}
	for _, tw := range s.Telework {
		if tw.UserID == userID && tw.Day.Equal(day) {
			cell.Telework = tw.Telework
			break
		}
	}
	for _, t := range s.Tasks {
		if t.DueOn(day) && t.HasAssignee(userID) {
			cell.Tasks = append(cell.Tasks, t)
		}
	}
	return cell
}

// TeleworkStore is the slice of the persistence collaborator the toggle
// needs: exact-day lookup and upsert.
type TeleworkStore interface {
	TeleworkByUserDay(ctx context.Context, userID string, day calendar.Day) (model.TeleworkDay, bool, error)
	SaveTelework(ctx context.Context, rec model.TeleworkDay) (model.TeleworkDay, error)
}

// ToggleTelework flips the telework flag for (user, day): an existing record
// is inverted, a missing one is created with telework set. This is the only
// mutation the compositor side performs; leave and holiday data are never
// touched.
func ToggleTelework(ctx context.Context, store TeleworkStore, userID string, day calendar.Day) (model.TeleworkDay, error) {
	rec, found, err := store.TeleworkByUserDay(ctx, userID, day)
	if err != nil {
		return model.TeleworkDay{}, fmt.Errorf("grid: look up telework for %s on %s: %w", userID, day, err)
	}
	if found {
		rec.Telework = !rec.Telework
	} else {
		rec = model.TeleworkDay{UserID: userID, Day: day, Telework: true}
	}
	saved, err := store.SaveTelework(ctx, rec)
	if err != nil {
		return model.TeleworkDay{}, fmt.Errorf("grid: save telework for %s on %s: %w", userID, day, err)
	}
	return saved, nil
}

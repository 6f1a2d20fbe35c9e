package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tmarchal/planboard/internal/calendar"
	"github.com/tmarchal/planboard/internal/model"
)

// CreateLeave inserts a leave record, minting an id when none is set.
func (s *SQLite) CreateLeave(ctx context.Context, l model.Leave) (model.Leave, error) {
	if l.ID == "" {
		l.ID = newID()
	}
	if l.Status == "" {
		l.Status = model.LeavePending
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leaves (id, user_id, start_day, end_day, type, status) VALUES (?,?,?,?,?,?)`,
		l.ID, l.UserID, l.Start.String(), l.End.String(), l.Type, string(l.Status),
	)
	if err != nil {
		return model.Leave{}, fmt.Errorf("store: insert leave: %w", err)
	}
	return l, nil
}

// ListLeaves returns leaves overlapping the window, rejected ones included;
// filtering rejected leaves is display policy, not storage policy.
func (s *SQLite) ListLeaves(ctx context.Context, r Range) ([]model.Leave, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, start_day, end_day, type, status FROM leaves
		WHERE end_day >= ? AND start_day <= ?
		ORDER BY start_day, id`,
		r.Start.String(), r.End.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("store: list leaves: %w", err)
	}
	defer rows.Close()

	var leaves []model.Leave
	for rows.Next() {
		var l model.Leave
		var startDay, endDay, status string
		if err := rows.Scan(&l.ID, &l.UserID, &startDay, &endDay, &l.Type, &status); err != nil {
			return nil, fmt.Errorf("store: scan leave: %w", err)
		}
		l.Status = model.LeaveStatus(status)
		if l.Start, err = parseDay(startDay); err != nil {
			return nil, fmt.Errorf("store: leave %s start: %w", l.ID, err)
		}
		if l.End, err = parseDay(endDay); err != nil {
			return nil, fmt.Errorf("store: leave %s end: %w", l.ID, err)
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

// SaveTelework inserts or updates the single record for (user, day).
func (s *SQLite) SaveTelework(ctx context.Context, rec model.TeleworkDay) (model.TeleworkDay, error) {
	if rec.ID == "" {
		rec.ID = newID()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO telework (id, user_id, day, telework) VALUES (?,?,?,?)
		ON CONFLICT (user_id, day) DO UPDATE SET telework = excluded.telework`,
		rec.ID, rec.UserID, rec.Day.String(), boolToInt(rec.Telework),
	)
	if err != nil {
		return model.TeleworkDay{}, fmt.Errorf("store: save telework: %w", err)
	}
	saved, found, err := s.TeleworkByUserDay(ctx, rec.UserID, rec.Day)
	if err != nil {
		return model.TeleworkDay{}, err
	}
	if !found {
		return model.TeleworkDay{}, fmt.Errorf("store: telework for %s on %s: %w", rec.UserID, rec.Day, ErrNotFound)
	}
	return saved, nil
}

// TeleworkByUserDay returns the record for (user, day), if one exists.
func (s *SQLite) TeleworkByUserDay(ctx context.Context, userID string, day calendar.Day) (model.TeleworkDay, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, day, telework FROM telework WHERE user_id = ? AND day = ?`,
		userID, day.String(),
	)
	rec, err := scanTelework(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TeleworkDay{}, false, nil
		}
		return model.TeleworkDay{}, false, fmt.Errorf("store: telework by user/day: %w", err)
	}
	return rec, true, nil
}

// ListTelework returns the telework declarations inside the window.
func (s *SQLite) ListTelework(ctx context.Context, r Range) ([]model.TeleworkDay, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, day, telework FROM telework
		WHERE day >= ? AND day <= ? ORDER BY day, user_id`,
		r.Start.String(), r.End.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("store: list telework: %w", err)
	}
	defer rows.Close()

	var recs []model.TeleworkDay
	for rows.Next() {
		rec, err := scanTelework(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func scanTelework(row rowScanner) (model.TeleworkDay, error) {
	var rec model.TeleworkDay
	var day string
	var flag int
	if err := row.Scan(&rec.ID, &rec.UserID, &day, &flag); err != nil {
		return model.TeleworkDay{}, err
	}
	rec.Telework = flag != 0
	var err error
	if rec.Day, err = parseDay(day); err != nil {
		return model.TeleworkDay{}, fmt.Errorf("store: telework %s day: %w", rec.ID, err)
	}
	return rec, nil
}

// CreateHoliday inserts a holiday record, minting an id when none is set.
func (s *SQLite) CreateHoliday(ctx context.Context, h model.Holiday) (model.Holiday, error) {
	if h.ID == "" {
		h.ID = newID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO holidays (id, day, name, is_work_day) VALUES (?,?,?,?)`,
		h.ID, h.Day.String(), h.Name, boolToInt(h.IsWorkDay),
	)
	if err != nil {
		return model.Holiday{}, fmt.Errorf("store: insert holiday: %w", err)
	}
	return h, nil
}

// ListHolidays returns the holidays inside the window, in insertion order
// per day so duplicate days resolve to the first record inserted.
func (s *SQLite) ListHolidays(ctx context.Context, r Range) ([]model.Holiday, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, day, name, is_work_day FROM holidays
		WHERE day >= ? AND day <= ? ORDER BY day, rowid`,
		r.Start.String(), r.End.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("store: list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []model.Holiday
	for rows.Next() {
		var h model.Holiday
		var day string
		var workDay int
		if err := rows.Scan(&h.ID, &day, &h.Name, &workDay); err != nil {
			return nil, fmt.Errorf("store: scan holiday: %w", err)
		}
		h.IsWorkDay = workDay != 0
		if h.Day, err = parseDay(day); err != nil {
			return nil, fmt.Errorf("store: holiday %s day: %w", h.ID, err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

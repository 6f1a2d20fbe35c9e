package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tmarchal/planboard/internal/calendar"
	"github.com/tmarchal/planboard/internal/model"
)

const taskColumns = `id, title, status, priority, start_day, end_day, estimated_hours, assignee_ids, depends_on, project_id`

// CreateTask inserts a task record, minting an id when none is set.
func (s *SQLite) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	if t.ID == "" {
		t.ID = newID()
	}
	assignees, _ := json.Marshal(emptyAsList(t.AssigneeIDs))
	dependsOn, _ := json.Marshal(emptyAsList(t.DependsOn))
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		t.ID, t.Title, string(t.Status), int(t.Priority),
		t.Start.String(), t.End.String(), t.EstimatedHours,
		string(assignees), string(dependsOn), t.ProjectID,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("store: insert task: %w", err)
	}
	return t, nil
}

// GetTask retrieves a task by id.
func (s *SQLite) GetTask(ctx context.Context, id string) (model.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, fmt.Errorf("store: task %s: %w", id, ErrNotFound)
	}
	return t, err
}

// ListTasks returns the tasks relevant to the window: everything except
// tasks known to end before it or start after it. Tasks with no dates at all
// are included; the grid simply has nowhere to pin them.
func (s *SQLite) ListTasks(ctx context.Context, r Range) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE (end_day = '' OR end_day >= ?)
		  AND (start_day = '' OR start_day <= ?)
		ORDER BY end_day, priority DESC, id`,
		r.Start.String(), r.End.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("store: list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTaskSchedule sets the task's start and end days and replaces its
// assignee list in one statement. This is the single-assignee drop path.
func (s *SQLite) UpdateTaskSchedule(ctx context.Context, id string, start, end calendar.Day, assignees []string) (model.Task, error) {
	encoded, _ := json.Marshal(emptyAsList(assignees))
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET start_day = ?, end_day = ?, assignee_ids = ? WHERE id = ?`,
		start.String(), end.String(), string(encoded), id,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("store: update task %s schedule: %w", id, err)
	}
	if err := requireRow(res, id); err != nil {
		return model.Task{}, err
	}
	return s.GetTask(ctx, id)
}

// UpdateTaskAssignees replaces the task's assignee list, dates untouched.
// This is the multi-assignee drop path.
func (s *SQLite) UpdateTaskAssignees(ctx context.Context, id string, assignees []string) (model.Task, error) {
	encoded, _ := json.Marshal(emptyAsList(assignees))
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET assignee_ids = ? WHERE id = ?`,
		string(encoded), id,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("store: update task %s assignees: %w", id, err)
	}
	if err := requireRow(res, id); err != nil {
		return model.Task{}, err
	}
	return s.GetTask(ctx, id)
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("store: task %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var t model.Task
	var status, startDay, endDay, assignees, dependsOn string
	var priority int
	if err := row.Scan(&t.ID, &t.Title, &status, &priority, &startDay, &endDay,
		&t.EstimatedHours, &assignees, &dependsOn, &t.ProjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, err
		}
		return model.Task{}, fmt.Errorf("store: scan task: %w", err)
	}
	t.Status = model.TaskStatus(status)
	t.Priority = model.TaskPriority(priority)
	var err error
	if t.Start, err = parseDay(startDay); err != nil {
		return model.Task{}, fmt.Errorf("store: task %s start: %w", t.ID, err)
	}
	if t.End, err = parseDay(endDay); err != nil {
		return model.Task{}, fmt.Errorf("store: task %s end: %w", t.ID, err)
	}
	if err := json.Unmarshal([]byte(assignees), &t.AssigneeIDs); err != nil {
		return model.Task{}, fmt.Errorf("store: task %s assignees: %w", t.ID, err)
	}
	if err := json.Unmarshal([]byte(dependsOn), &t.DependsOn); err != nil {
		return model.Task{}, fmt.Errorf("store: task %s depends_on: %w", t.ID, err)
	}
	return t, nil
}

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tmarchal/planboard/internal/calendar"
	"github.com/tmarchal/planboard/internal/model"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "planboard.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTaskRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	start := calendar.NewDay(2026, time.April, 1)
	end := calendar.NewDay(2026, time.April, 3)

	created, err := s.CreateTask(ctx, model.Task{
		Title:       "Write report",
		Status:      model.StatusInProgress,
		Priority:    model.PriorityHigh,
		Start:       start,
		End:         end,
		AssigneeIDs: []string{"u1", "u2"},
		DependsOn:   []string{"t0"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("create must mint an id")
	}
	got, err := s.GetTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Write report" || got.Status != model.StatusInProgress || got.Priority != model.PriorityHigh {
		t.Fatalf("fields lost: %+v", got)
	}
	if !got.Start.Equal(start) || !got.End.Equal(end) {
		t.Fatalf("dates lost: %s..%s", got.Start, got.End)
	}
	if len(got.AssigneeIDs) != 2 || got.AssigneeIDs[0] != "u1" {
		t.Fatalf("assignee order lost: %v", got.AssigneeIDs)
	}
	if len(got.DependsOn) != 1 || got.DependsOn[0] != "t0" {
		t.Fatalf("dependencies lost: %v", got.DependsOn)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetTask(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTasksWindow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	day := func(d int) calendar.Day { return calendar.NewDay(2026, time.April, d) }

	mustCreateTask(t, s, model.Task{ID: "in", Title: "in", Start: day(5), End: day(10)})
	mustCreateTask(t, s, model.Task{ID: "before", Title: "before", Start: day(1), End: day(2)})
	mustCreateTask(t, s, model.Task{ID: "after", Title: "after", Start: day(25), End: day(28)})
	mustCreateTask(t, s, model.Task{ID: "open", Title: "open", Start: day(5)})
	mustCreateTask(t, s, model.Task{ID: "dateless", Title: "dateless"})

	tasks, err := s.ListTasks(ctx, Range{Start: day(4), End: day(12)})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := map[string]bool{}
	for _, task := range tasks {
		ids[task.ID] = true
	}
	for _, want := range []string{"in", "open", "dateless"} {
		if !ids[want] {
			t.Fatalf("task %q missing from window, got %v", want, ids)
		}
	}
	if ids["before"] || ids["after"] {
		t.Fatalf("out-of-window tasks leaked: %v", ids)
	}
}

func TestUpdateTaskSchedule(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	day20 := calendar.NewDay(2026, time.May, 20)

	mustCreateTask(t, s, model.Task{ID: "t1", Title: "Move me", AssigneeIDs: []string{"u1"}})
	got, err := s.UpdateTaskSchedule(ctx, "t1", day20, day20, []string{"u2"})
	if err != nil {
		t.Fatalf("update schedule: %v", err)
	}
	if !got.Start.Equal(day20) || !got.End.Equal(day20) {
		t.Fatalf("dates not updated: %s..%s", got.Start, got.End)
	}
	if len(got.AssigneeIDs) != 1 || got.AssigneeIDs[0] != "u2" {
		t.Fatalf("assignees not updated: %v", got.AssigneeIDs)
	}

	if _, err := s.UpdateTaskSchedule(ctx, "ghost", day20, day20, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing task, got %v", err)
	}
}

func TestUpdateTaskAssigneesKeepsDates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	start := calendar.NewDay(2026, time.May, 1)
	end := calendar.NewDay(2026, time.May, 2)

	mustCreateTask(t, s, model.Task{ID: "t1", Title: "Shared", Start: start, End: end, AssigneeIDs: []string{"u1", "u2"}})
	got, err := s.UpdateTaskAssignees(ctx, "t1", []string{"u3", "u2"})
	if err != nil {
		t.Fatalf("update assignees: %v", err)
	}
	if !got.Start.Equal(start) || !got.End.Equal(end) {
		t.Fatalf("dates must be untouched: %s..%s", got.Start, got.End)
	}
	if got.AssigneeIDs[0] != "u3" || got.AssigneeIDs[1] != "u2" {
		t.Fatalf("assignees wrong: %v", got.AssigneeIDs)
	}
}

func TestTeleworkUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	day := calendar.NewDay(2026, time.April, 7)

	if _, found, err := s.TeleworkByUserDay(ctx, "u1", day); err != nil || found {
		t.Fatalf("expected no record, found=%v err=%v", found, err)
	}
	first, err := s.SaveTelework(ctx, model.TeleworkDay{UserID: "u1", Day: day, Telework: true})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !first.Telework {
		t.Fatalf("saved record lost flag")
	}
	// Second save for the same (user, day) must update, not duplicate.
	if _, err := s.SaveTelework(ctx, model.TeleworkDay{UserID: "u1", Day: day, Telework: false}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	recs, err := s.ListTelework(ctx, Range{Start: day, End: day})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 1 || recs[0].Telework {
		t.Fatalf("expected single flipped record, got %+v", recs)
	}
}

func TestLeaveWindowOverlap(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	day := func(d int) calendar.Day { return calendar.NewDay(2026, time.August, d) }

	if _, err := s.CreateLeave(ctx, model.Leave{UserID: "u1", Start: day(1), End: day(10), Status: model.LeaveApproved}); err != nil {
		t.Fatalf("create leave: %v", err)
	}
	if _, err := s.CreateLeave(ctx, model.Leave{UserID: "u1", Start: day(20), End: day(22)}); err != nil {
		t.Fatalf("create leave: %v", err)
	}
	leaves, err := s.ListLeaves(ctx, Range{Start: day(8), End: day(12)})
	if err != nil {
		t.Fatalf("list leaves: %v", err)
	}
	if len(leaves) != 1 || !leaves[0].Start.Equal(day(1)) {
		t.Fatalf("expected only the overlapping leave, got %+v", leaves)
	}
}

func TestSeedLoadsFixture(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	fixture := `
services:
  - id: svc-dev
    name: Development
users:
  - id: u1
    first_name: Anna
    family_name: Zimmer
    role: director
  - id: u2
    family_name: Brun
    services: [svc-dev]
tasks:
  - id: t1
    title: Ship release
    status: in-progress
    priority: high
    start: 2026-04-01
    end: 2026-04-03
    assignees: [u2]
leaves:
  - user_id: u2
    start: 2026-04-06
    end: 2026-04-08
    type: vacation
    status: approved
telework:
  - user_id: u2
    day: 2026-04-02
    telework: true
holidays:
  - day: 2026-04-06
    name: Easter Monday
`
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := s.Seed(ctx, path); err != nil {
		t.Fatalf("seed: %v", err)
	}
	users, err := s.ListUsers(ctx)
	if err != nil || len(users) != 2 {
		t.Fatalf("users = %v err=%v", users, err)
	}
	if users[0].FamilyName != "Brun" {
		t.Fatalf("users must come back in family-name order, got %s", users[0].FamilyName)
	}
	got, err := s.GetTask(ctx, "t1")
	if err != nil || got.Priority != model.PriorityHigh || got.Start.String() != "2026-04-01" {
		t.Fatalf("task t1 = %+v err=%v", got, err)
	}
	window := Range{Start: calendar.NewDay(2026, time.April, 1), End: calendar.NewDay(2026, time.April, 30)}
	holidays, err := s.ListHolidays(ctx, window)
	if err != nil || len(holidays) != 1 || holidays[0].Name != "Easter Monday" {
		t.Fatalf("holidays = %+v err=%v", holidays, err)
	}
}

func mustCreateTask(t *testing.T, s *SQLite, task model.Task) {
	t.Helper()
	if _, err := s.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("create task %s: %v", task.ID, err)
	}
}

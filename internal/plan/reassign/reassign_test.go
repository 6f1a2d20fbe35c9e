package reassign

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tmarchal/planboard/internal/calendar"
	"github.com/tmarchal/planboard/internal/model"
)

var day20 = calendar.NewDay(2026, time.May, 20)

type fakeTaskStore struct {
	scheduleCalls int
	assigneeCalls int
	failWith      error
	lastStart     calendar.Day
	lastEnd       calendar.Day
	lastAssignees []string
}

func (f *fakeTaskStore) UpdateTaskSchedule(_ context.Context, id string, start, end calendar.Day, assignees []string) (model.Task, error) {
	if f.failWith != nil {
		return model.Task{}, f.failWith
	}
	f.scheduleCalls++
	f.lastStart, f.lastEnd, f.lastAssignees = start, end, assignees
	return model.Task{ID: id, Start: start, End: end, AssigneeIDs: assignees}, nil
}

func (f *fakeTaskStore) UpdateTaskAssignees(_ context.Context, id string, assignees []string) (model.Task, error) {
	if f.failWith != nil {
		return model.Task{}, f.failWith
	}
	f.assigneeCalls++
	f.lastAssignees = assignees
	return model.Task{ID: id, AssigneeIDs: assignees}, nil
}

func TestRegimeSelection(t *testing.T) {
	if _, ok := RegimeFor(model.Task{}).(SingleAssignee); !ok {
		t.Fatalf("zero assignees must take the single regime")
	}
	if _, ok := RegimeFor(model.Task{AssigneeIDs: []string{"u1"}}).(SingleAssignee); !ok {
		t.Fatalf("one assignee must take the single regime")
	}
	if _, ok := RegimeFor(model.Task{AssigneeIDs: []string{"u1", "u2"}}).(MultiAssignee); !ok {
		t.Fatalf("two assignees must take the multi regime")
	}
}

func TestSingleAssigneeMoveAndReassign(t *testing.T) {
	store := &fakeTaskStore{}
	engine := NewEngine(store, nil)
	task := model.Task{ID: "t1", Title: "Deploy", AssigneeIDs: []string{"u1"}}

	out, err := engine.Drop(context.Background(), task, "u1", Target{UserID: "u2", Day: day20})
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if out.Code != OutcomeMoved || !out.Applied {
		t.Fatalf("expected applied move, got %+v", out)
	}
	if !store.lastStart.Equal(day20) || !store.lastEnd.Equal(day20) {
		t.Fatalf("start and end must both be the target day, got %s..%s", store.lastStart, store.lastEnd)
	}
	if len(store.lastAssignees) != 1 || store.lastAssignees[0] != "u2" {
		t.Fatalf("sole assignee must be replaced, got %v", store.lastAssignees)
	}
	if store.scheduleCalls != 1 || store.assigneeCalls != 0 {
		t.Fatalf("single regime must issue exactly one schedule update")
	}
}

func TestSingleAssigneeDateOnlyMoveKeepsOwner(t *testing.T) {
	store := &fakeTaskStore{}
	engine := NewEngine(store, nil)
	task := model.Task{ID: "t1", AssigneeIDs: []string{"u1"}}

	out, err := engine.Drop(context.Background(), task, "u1", Target{UserID: "u1", Day: day20})
	if err != nil || !out.Applied {
		t.Fatalf("same-user move must apply: %+v err=%v", out, err)
	}
	if len(store.lastAssignees) != 1 || store.lastAssignees[0] != "u1" {
		t.Fatalf("same-user move must keep the assignee, got %v", store.lastAssignees)
	}
}

func TestZeroAssigneeDegeneratesSafely(t *testing.T) {
	store := &fakeTaskStore{}
	engine := NewEngine(store, nil)
	task := model.Task{ID: "t1"}

	out, err := engine.Drop(context.Background(), task, "", Target{UserID: "u2", Day: day20})
	if err != nil || !out.Applied {
		t.Fatalf("zero-assignee drop must apply as a date move: %+v err=%v", out, err)
	}
	if len(store.lastAssignees) != 0 {
		t.Fatalf("assignee substitution must be a no-op when absent, got %v", store.lastAssignees)
	}
}

func TestMultiAssigneeDateMoveRejected(t *testing.T) {
	store := &fakeTaskStore{}
	engine := NewEngine(store, nil)
	task := model.Task{ID: "t1", AssigneeIDs: []string{"u1", "u2"}}

	out, err := engine.Drop(context.Background(), task, "u1", Target{UserID: "u1", Day: day20})
	if err != nil {
		t.Fatalf("rejection must not be an error: %v", err)
	}
	if out.Applied || out.Code != OutcomeDateMoveRejected {
		t.Fatalf("expected date-move rejection, got %+v", out)
	}
	if store.scheduleCalls != 0 && store.assigneeCalls != 0 {
		t.Fatalf("rejection must not mutate")
	}
}

func TestMultiAssigneeDuplicateTargetRejected(t *testing.T) {
	engine := NewEngine(&fakeTaskStore{}, nil)
	task := model.Task{ID: "t1", AssigneeIDs: []string{"u1", "u2"}}

	out, err := engine.Drop(context.Background(), task, "u1", Target{UserID: "u2", Day: day20})
	if err != nil {
		t.Fatalf("rejection must not be an error: %v", err)
	}
	if out.Applied || out.Code != OutcomeDuplicateRejected {
		t.Fatalf("expected duplicate rejection, got %+v", out)
	}
}

func TestMultiAssigneeSubstitutesInPlace(t *testing.T) {
	store := &fakeTaskStore{}
	engine := NewEngine(store, nil)
	task := model.Task{ID: "t1", AssigneeIDs: []string{"u1", "u2"}}

	out, err := engine.Drop(context.Background(), task, "u1", Target{UserID: "u3", Day: day20})
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if out.Code != OutcomeReassigned || !out.Applied {
		t.Fatalf("expected reassignment, got %+v", out)
	}
	if len(store.lastAssignees) != 2 || store.lastAssignees[0] != "u3" || store.lastAssignees[1] != "u2" {
		t.Fatalf("u1 must be replaced in place, got %v", store.lastAssignees)
	}
	if store.scheduleCalls != 0 {
		t.Fatalf("multi regime must never touch dates")
	}
}

func TestStoreFailureIsRecoverable(t *testing.T) {
	store := &fakeTaskStore{failWith: errors.New("connection reset")}
	engine := NewEngine(store, nil)
	task := model.Task{ID: "t1", AssigneeIDs: []string{"u1"}}

	_, err := engine.Drop(context.Background(), task, "u1", Target{UserID: "u2", Day: day20})
	if err == nil {
		t.Fatalf("store failure must surface as an error")
	}
}

func TestDropSessionClearsUnconditionally(t *testing.T) {
	task := model.Task{ID: "t1", AssigneeIDs: []string{"u1"}}
	lookup := func(id string) (model.Task, bool) { return task, id == "t1" }

	// Failure path still clears.
	engine := NewEngine(&fakeTaskStore{failWith: errors.New("down")}, nil)
	session := &Session{}
	session.Start(Drag{TaskID: "t1", FromUserID: "u1"})
	if _, err := engine.DropSession(context.Background(), session, lookup, Target{UserID: "u2", Day: day20}); err == nil {
		t.Fatalf("expected error from failing store")
	}
	if _, ok := session.Active(); ok {
		t.Fatalf("session must be cleared after a failed drop")
	}

	// Success path clears too.
	engine = NewEngine(&fakeTaskStore{}, nil)
	session.Start(Drag{TaskID: "t1", FromUserID: "u1"})
	out, err := engine.DropSession(context.Background(), session, lookup, Target{UserID: "u2", Day: day20})
	if err != nil || !out.Applied {
		t.Fatalf("drop session: %+v err=%v", out, err)
	}
	if _, ok := session.Active(); ok {
		t.Fatalf("session must be cleared after a successful drop")
	}
}

func TestDropSessionWithoutDrag(t *testing.T) {
	engine := NewEngine(&fakeTaskStore{}, nil)
	out, err := engine.DropSession(context.Background(), &Session{}, func(string) (model.Task, bool) {
		return model.Task{}, false
	}, Target{UserID: "u1", Day: day20})
	if err != nil || out.Code != OutcomeNoDrag {
		t.Fatalf("empty session drop should be a no-drag outcome, got %+v err=%v", out, err)
	}
}

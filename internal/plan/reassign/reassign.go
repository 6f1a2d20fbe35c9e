package reassign

import (
	"context"
	"fmt"

	"github.com/tmarchal/planboard/internal/calendar"
	"github.com/tmarchal/planboard/internal/journal"
	"github.com/tmarchal/planboard/internal/model"
)

// TaskStore is the slice of the persistence collaborator the engine mutates
// through. Each method is one atomic update; the engine never issues two
// updates for a single drop.
type TaskStore interface {
	// UpdateTaskSchedule sets the task's start and end days and replaces its
	// assignee list in a single update.
	UpdateTaskSchedule(ctx context.Context, id string, start, end calendar.Day, assignees []string) (model.Task, error)

	// UpdateTaskAssignees replaces the task's assignee list, leaving its
	// dates untouched.
	UpdateTaskAssignees(ctx context.Context, id string, assignees []string) (model.Task, error)
}

// Target is the cell a dragged task is dropped on.
type Target struct {
	UserID string
	Day    calendar.Day
}

// OutcomeCode classifies what a drop did.
type OutcomeCode string

const (
	// OutcomeMoved: single-assignee regime applied; the task's dates changed
	// and its sole assignee may have been replaced.
	OutcomeMoved OutcomeCode = "moved"
	// OutcomeReassigned: multi-assignee regime applied; one assignee was
	// substituted in place, dates untouched.
	OutcomeReassigned OutcomeCode = "reassigned"
	// OutcomeDateMoveRejected: a multi-assignee task was dropped back on its
	// own user at another day; dates of shared tasks cannot move here.
	OutcomeDateMoveRejected OutcomeCode = "date-move-rejected"
	// OutcomeDuplicateRejected: the drop target is already an assignee.
	OutcomeDuplicateRejected OutcomeCode = "duplicate-rejected"
	// OutcomeNoDrag: drop with no active drag session.
	OutcomeNoDrag OutcomeCode = "no-drag"
)

// Outcome is the structured result of a drop. Policy rejections are outcomes
// with Applied=false, not errors; errors are reserved for store failures.
type Outcome struct {
	Code    OutcomeCode
	Applied bool
	Message string
	// Task holds the post-update record when Applied is true.
	Task model.Task
}

// Regime is the tagged behavior set for moving one task. The two variants
// enumerate the reject branches explicitly instead of re-checking assignee
// counts at each step.
type Regime interface {
	drop(ctx context.Context, store TaskStore, task model.Task, fromUserID string, target Target) (Outcome, error)
}

// SingleAssignee covers tasks with zero or one assignee: a drop moves the
// task to the target day (start and end both set) and, when the target user
// differs, replaces the sole assignee in the same update. The zero-assignee
// case degenerates safely: the date moves and the empty assignee list stays
// empty.
type SingleAssignee struct {
	Current string // current assignee id, empty when none
}

// MultiAssignee covers shared tasks: only the dragged user's slot may change,
// and the dates never move through this engine.
type MultiAssignee struct {
	Assignees []string
}

// RegimeFor selects the regime from the task's assignee count.
func RegimeFor(task model.Task) Regime {
	if len(task.AssigneeIDs) > 1 {
		assignees := make([]string, len(task.AssigneeIDs))
		copy(assignees, task.AssigneeIDs)
		return MultiAssignee{Assignees: assignees}
	}
	var current string
	if len(task.AssigneeIDs) == 1 {
		current = task.AssigneeIDs[0]
	}
	return SingleAssignee{Current: current}
}

func (r SingleAssignee) drop(ctx context.Context, store TaskStore, task model.Task, fromUserID string, target Target) (Outcome, error) {
	assignees := task.AssigneeIDs
	if r.Current != "" && target.UserID != fromUserID {
		assignees = []string{target.UserID}
	}
	updated, err := store.UpdateTaskSchedule(ctx, task.ID, target.Day, target.Day, assignees)
	if err != nil {
		return Outcome{}, fmt.Errorf("reassign: move task %s: %w", task.ID, err)
	}
	msg := fmt.Sprintf("%q moved to %s", task.Title, target.Day)
	if r.Current != "" && target.UserID != fromUserID {
		msg = fmt.Sprintf("%q moved to %s and reassigned", task.Title, target.Day)
	}
	return Outcome{Code: OutcomeMoved, Applied: true, Message: msg, Task: updated}, nil
}

func (r MultiAssignee) drop(ctx context.Context, store TaskStore, task model.Task, fromUserID string, target Target) (Outcome, error) {
	if target.UserID == fromUserID {
		return Outcome{
			Code:    OutcomeDateMoveRejected,
			Message: fmt.Sprintf("%q is shared; its dates cannot be moved from the grid", task.Title),
		}, nil
	}
	for _, id := range r.Assignees {
		if id == target.UserID {
			return Outcome{
				Code:    OutcomeDuplicateRejected,
				Message: fmt.Sprintf("%q is already assigned to that user", task.Title),
			}, nil
		}
	}
	assignees := make([]string, len(r.Assignees))
	copy(assignees, r.Assignees)
	for i, id := range assignees {
		if id == fromUserID {
			assignees[i] = target.UserID
		}
	}
	updated, err := store.UpdateTaskAssignees(ctx, task.ID, assignees)
	if err != nil {
		return Outcome{}, fmt.Errorf("reassign: reassign task %s: %w", task.ID, err)
	}
	return Outcome{
		Code:    OutcomeReassigned,
		Applied: true,
		Message: fmt.Sprintf("%q: only the assignment changed, dates kept", task.Title),
		Task:    updated,
	}, nil
}

// Engine validates and applies drag-and-drop moves through the task store,
// reporting every outcome to the notifier.
type Engine struct {
	tasks  TaskStore
	notify journal.Notifier
}

// NewEngine wires the engine to its collaborators. A nil notifier discards.
func NewEngine(tasks TaskStore, notify journal.Notifier) *Engine {
	if notify == nil {
		notify = journal.Discard
	}
	return &Engine{tasks: tasks, notify: notify}
}

// Drop applies one drag-and-drop move. Policy rejections come back as
// non-applied outcomes with a nil error; a store failure comes back as a
// recoverable error after being reported to the notifier. The caller's view
// stays on pre-mutation data until its next refresh either way.
func (e *Engine) Drop(ctx context.Context, task model.Task, fromUserID string, target Target) (Outcome, error) {
	outcome, err := RegimeFor(task).drop(ctx, e.tasks, task, fromUserID, target)
	if err != nil {
		e.notify.Error("%v", err)
		return Outcome{}, err
	}
	e.notify.Info("%s", outcome.Message)
	return outcome, nil
}

package reassign

import (
	"context"

	"github.com/tmarchal/planboard/internal/model"
)

// Drag identifies the task currently picked up and the user row it was
// picked up from.
type Drag struct {
	TaskID     string
	FromUserID string
}

// Session is the transient "currently dragged" state owned by the
// interaction layer. It lives outside the data model and is cleared
// unconditionally on drop so the UI affordance can never get stuck. It is
// not synchronized; a single goroutine must own all reads and clears.
type Session struct {
	active *Drag
}

// Start records a pick-up, replacing any previous one.
func (s *Session) Start(d Drag) {
	s.active = &d
}

// Active returns the current drag, if any.
func (s *Session) Active() (Drag, bool) {
	if s.active == nil {
		return Drag{}, false
	}
	return *s.active, true
}

// Clear drops the session state.
func (s *Session) Clear() {
	s.active = nil
}

// DropSession resolves the session's drag against the engine and clears the
// session whatever happens: applied, rejected, or store failure.
func (e *Engine) DropSession(ctx context.Context, s *Session, task func(id string) (model.Task, bool), target Target) (Outcome, error) {
	defer s.Clear()
	drag, ok := s.Active()
	if !ok {
		return Outcome{Code: OutcomeNoDrag, Message: "nothing picked up"}, nil
	}
	t, ok := task(drag.TaskID)
	if !ok {
		return Outcome{Code: OutcomeNoDrag, Message: "picked-up task is gone"}, nil
	}
	return e.Drop(ctx, t, drag.FromUserID, target)
}

// Package conflict flags scheduling violations between dependent tasks: a
// task must start strictly after every task it depends on has finished.
// Detection is a pure query over the task snapshot and is safe to run on
// every render.
package conflict

import (
	"fmt"

	"github.com/tmarchal/planboard/internal/calendar"
	"github.com/tmarchal/planboard/internal/model"
)

// Conflict is one violated dependency edge.
type Conflict struct {
	TaskID        string
	TaskTitle     string
	DependsOnID   string
	DependsOnName string
	TaskStart     calendar.Day
	DependencyEnd calendar.Day
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s starts %s but depends on %s which ends %s",
		c.TaskTitle, c.TaskStart, c.DependsOnName, c.DependencyEnd)
}

// Detect checks task against its upstream tasks and returns one conflict per
// violated edge, in the task's dependency declaration order. An edge is
// violated when both dates are known and the task does not start strictly
// after the dependency ends (start == end counts as a conflict). A missing
// date on either side suppresses the check for that edge.
func Detect(task model.Task, upstream []model.Task) []Conflict {
	if len(task.DependsOn) == 0 {
		return nil
	}
	byID := make(map[string]model.Task, len(upstream))
	for _, t := range upstream {
		byID[t.ID] = t
	}
	var out []Conflict
	for _, depID := range task.DependsOn {
		dep, ok := byID[depID]
		if !ok {
			continue
		}
		if task.Start.IsZero() || dep.End.IsZero() {
			continue
		}
		if !task.Start.After(dep.End) {
			out = append(out, Conflict{
				TaskID:        task.ID,
				TaskTitle:     task.Title,
				DependsOnID:   dep.ID,
				DependsOnName: dep.Title,
				TaskStart:     task.Start,
				DependencyEnd: dep.End,
			})
		}
	}
	return out
}

// DetectAll runs Detect for every task in the snapshot, resolving dependency
// references within the snapshot itself. Output follows the input task order.
func DetectAll(tasks []model.Task) []Conflict {
	var out []Conflict
	for _, t := range tasks {
		out = append(out, Detect(t, tasks)...)
	}
	return out
}

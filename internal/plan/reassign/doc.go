// Package reassign implements drag-and-drop task moves on the planning grid.
// A task with at most one assignee may change day and owner in one atomic
// update; a shared task may only swap the dragged user for the target user,
// keeping its dates. The two regimes are explicit tagged variants so every
// reject branch is enumerated by the type rather than scattered count checks.
package reassign

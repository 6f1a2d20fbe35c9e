// Package model defines the planning domain entities: users and their
// organizational placement, tasks, leave requests, telework declarations and
// holidays. These are plain value types; all derived views (day cells, service
// groups, timeline bars) are recomputed from them and never stored.
package model

import (
	"strings"

	"github.com/tmarchal/planboard/internal/calendar"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not-started"
	StatusInProgress TaskStatus = "in-progress"
	StatusInReview   TaskStatus = "in-review"
	StatusDone       TaskStatus = "done"
	StatusBlocked    TaskStatus = "blocked"
)

// TaskPriority orders tasks by urgency.
type TaskPriority int

const (
	PriorityLow TaskPriority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

func (p TaskPriority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "normal"
	}
}

// ParsePriority maps a priority label back to its value. Unknown labels fall
// back to normal.
func ParsePriority(s string) TaskPriority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow
	case "high":
		return PriorityHigh
	case "critical":
		return PriorityCritical
	default:
		return PriorityNormal
	}
}

// RoleTag is a user's organizational role, drawn from a closed set.
type RoleTag string

const (
	RoleEmployee    RoleTag = "employee"
	RoleServiceLead RoleTag = "service-lead"
	RoleDirector    RoleTag = "director"
	RoleAdmin       RoleTag = "admin"
)

// DefaultManagementRoles lists the role tags that place a user in the
// management group regardless of service membership.
var DefaultManagementRoles = []RoleTag{RoleDirector, RoleAdmin}

// User is an employee visible on the planning grid. Users are owned by an
// external directory; this core only reads them.
type User struct {
	ID         string
	FirstName  string
	FamilyName string
	Role       RoleTag

	// ServiceIDs lists service memberships in declaration order. The first
	// entry decides which service group the user is displayed under.
	ServiceIDs []string

	// ManagedServiceIDs lists services this user is the manager of.
	ManagedServiceIDs []string

	DepartmentID      string
	ManagesDepartment bool
}

// FullName renders "First FAMILY" for display.
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + strings.ToUpper(u.FamilyName))
	if name == "" {
		return u.ID
	}
	return name
}

// Service is an organizational unit users belong to.
type Service struct {
	ID           string
	Name         string
	DepartmentID string
}

// Task is a unit of planned work. Start and End are optional (zero Day =
// unknown); a task is displayed on the grid on its End day.
type Task struct {
	ID             string
	Title          string
	Status         TaskStatus
	Priority       TaskPriority
	Start          calendar.Day
	End            calendar.Day
	EstimatedHours float64

	// AssigneeIDs lists the assigned users in a stable order; reassignment
	// substitutes members in place so the order survives moves.
	AssigneeIDs []string

	// DependsOn references tasks that must complete before this one starts.
	// The graph is assumed acyclic; this core never validates cycles.
	DependsOn []string

	ProjectID string
}

// DueOn reports whether the task is displayed on day d: due day equals d.
func (t Task) DueOn(d calendar.Day) bool {
	return !t.End.IsZero() && t.End.Equal(d)
}

// HasAssignee reports whether userID is among the task's assignees.
func (t Task) HasAssignee(userID string) bool {
	for _, id := range t.AssigneeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// LeaveStatus is the approval state of a leave request.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// Leave is an absence request over an inclusive day range. Rejected leaves
// stay in the store but are inert for display.
type Leave struct {
	ID     string
	UserID string
	Start  calendar.Day
	End    calendar.Day
	Type   string
	Status LeaveStatus
}

// Covers reports whether day d falls inside the leave's inclusive range.
func (l Leave) Covers(d calendar.Day) bool {
	return !l.Start.After(d) && !l.End.Before(d)
}

// TeleworkDay declares whether a user works remotely on one day. At most one
// record exists per (user, day); absence means "in office".
type TeleworkDay struct {
	ID       string
	UserID   string
	Day      calendar.Day
	Telework bool
}

// Holiday is a calendar holiday. IsWorkDay marks holidays that are still
// worked (the grid shows the marker but keeps the cell interactive).
type Holiday struct {
	ID        string
	Day       calendar.Day
	Name      string
	IsWorkDay bool
}

package roster

import (
	"sort"
	"strings"

	"github.com/tmarchal/planboard/internal/model"
)

// Reserved group identifiers for the two synthetic buckets.
const (
	GroupManagement = "management"
	GroupUnassigned = "unassigned"
)

// groupPalette colors service buckets in emission order. Management and
// unassigned have fixed colors so they read the same across refreshes.
var groupPalette = []string{
	"#5B8DEF", "#4CAF50", "#B57EDC", "#2AA198", "#E07A5F", "#7F9CF5",
}

const (
	managementColor = "#F7B801"
	unassignedColor = "#999999"
)

// ServiceGroup is a derived, ordered bucket of users sharing a display
// identity. It is recomputed from the user and service snapshots on every
// refresh and never persisted.
type ServiceGroup struct {
	ID    string
	Name  string
	Color string
	Users []model.User
}

// Resolver classifies users into display groups. The management role set is
// configurable; everything else about the grouping is fixed policy.
type Resolver struct {
	managementRoles map[model.RoleTag]struct{}
}

// NewResolver builds a resolver for the given management role set. An empty
// set falls back to the defaults.
func NewResolver(managementRoles []model.RoleTag) *Resolver {
	if len(managementRoles) == 0 {
		managementRoles = model.DefaultManagementRoles
	}
	set := make(map[model.RoleTag]struct{}, len(managementRoles))
	for _, r := range managementRoles {
		set[r] = struct{}{}
	}
	return &Resolver{managementRoles: set}
}

// IsManagement is the single source of truth for the management predicate.
// A user belongs to management when any of the three holds: their role tag is
// in the management set, they manage at least one service, or they manage
// their own department.
func (r *Resolver) IsManagement(u model.User) bool {
	if _, ok := r.managementRoles[u.Role]; ok {
		return true
	}
	if len(u.ManagedServiceIDs) > 0 {
		return true
	}
	return u.ManagesDepartment
}

// GroupUsers partitions users into ordered service groups: one synthetic
// management group first, then one bucket per service in ascending service
// name order, then an unassigned bucket. Every user lands in exactly one
// group; a user with several service memberships is bucketed by the first
// membership only. Empty input yields an empty list.
func (r *Resolver) GroupUsers(users []model.User, services []model.Service) []ServiceGroup {
	byService := make(map[string][]model.User)
	var management, unassigned []model.User

	serviceByID := make(map[string]model.Service, len(services))
	for _, s := range services {
		serviceByID[s.ID] = s
	}

	for _, u := range users {
		switch {
		case r.IsManagement(u):
			management = append(management, u)
		case len(u.ServiceIDs) > 0:
			first := u.ServiceIDs[0]
			if _, known := serviceByID[first]; !known {
				// Membership points at a service outside the snapshot;
				// treat like no membership at all.
				unassigned = append(unassigned, u)
				continue
			}
			byService[first] = append(byService[first], u)
		default:
			unassigned = append(unassigned, u)
		}
	}

	ordered := make([]model.Service, 0, len(byService))
	for id := range byService {
		ordered = append(ordered, serviceByID[id])
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Name != ordered[j].Name {
			return strings.ToLower(ordered[i].Name) < strings.ToLower(ordered[j].Name)
		}
		return ordered[i].ID < ordered[j].ID
	})

	var groups []ServiceGroup
	if len(management) > 0 {
		groups = append(groups, ServiceGroup{
			ID:    GroupManagement,
			Name:  "Management",
			Color: managementColor,
			Users: sortUsers(management),
		})
	}
	for i, svc := range ordered {
		groups = append(groups, ServiceGroup{
			ID:    svc.ID,
			Name:  svc.Name,
			Color: groupPalette[i%len(groupPalette)],
			Users: sortUsers(byService[svc.ID]),
		})
	}
	if len(unassigned) > 0 {
		groups = append(groups, ServiceGroup{
			ID:    GroupUnassigned,
			Name:  "Unassigned",
			Color: unassignedColor,
			Users: sortUsers(unassigned),
		})
	}
	return groups
}

// sortUsers orders users by family name, then first name, then ID so the
// grouping is deterministic for a given snapshot.
func sortUsers(users []model.User) []model.User {
	out := make([]model.User, len(users))
	copy(out, users)
	sort.Slice(out, func(i, j int) bool {
		fi := strings.ToLower(out[i].FamilyName)
		fj := strings.ToLower(out[j].FamilyName)
		if fi != fj {
			return fi < fj
		}
		gi := strings.ToLower(out[i].FirstName)
		gj := strings.ToLower(out[j].FirstName)
		if gi != gj {
			return gi < gj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

package roster

import (
	"testing"

	"github.com/tmarchal/planboard/internal/model"
)

var testServices = []model.Service{
	{ID: "svc-ops", Name: "Operations"},
	{ID: "svc-dev", Name: "Development"},
}

func TestIsManagementThreeRoutes(t *testing.T) {
	r := NewResolver(nil)
	cases := []struct {
		name string
		user model.User
		want bool
	}{
		{"role tag", model.User{ID: "u1", Role: model.RoleDirector}, true},
		{"admin tag", model.User{ID: "u2", Role: model.RoleAdmin}, true},
		{"service manager", model.User{ID: "u3", Role: model.RoleEmployee, ManagedServiceIDs: []string{"svc-dev"}}, true},
		{"department manager", model.User{ID: "u4", Role: model.RoleEmployee, ManagesDepartment: true}, true},
		{"plain employee", model.User{ID: "u5", Role: model.RoleEmployee}, false},
	}
	for _, c := range cases {
		if got := r.IsManagement(c.user); got != c.want {
			t.Fatalf("%s: IsManagement = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestGroupOrderAndSorting(t *testing.T) {
	users := []model.User{
		{ID: "u1", FamilyName: "Zimmer", FirstName: "Anna", Role: model.RoleDirector},
		{ID: "u2", FamilyName: "Albert", FirstName: "Marc", Role: model.RoleAdmin},
		{ID: "u3", FamilyName: "Brun", Role: model.RoleEmployee, ServiceIDs: []string{"svc-ops"}},
		{ID: "u4", FamilyName: "Avril", Role: model.RoleEmployee, ServiceIDs: []string{"svc-ops"}},
		{ID: "u5", FamilyName: "Costa", Role: model.RoleEmployee, ServiceIDs: []string{"svc-dev"}},
		{ID: "u6", FamilyName: "Drift", Role: model.RoleEmployee},
	}
	groups := NewResolver(nil).GroupUsers(users, testServices)
	if len(groups) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(groups))
	}
	if groups[0].ID != GroupManagement {
		t.Fatalf("management group must come first, got %s", groups[0].ID)
	}
	// Management sorted by family name.
	if groups[0].Users[0].ID != "u2" || groups[0].Users[1].ID != "u1" {
		t.Fatalf("management order wrong: %s, %s", groups[0].Users[0].ID, groups[0].Users[1].ID)
	}
	// Services in ascending name order: Development before Operations.
	if groups[1].ID != "svc-dev" || groups[2].ID != "svc-ops" {
		t.Fatalf("service order wrong: %s, %s", groups[1].ID, groups[2].ID)
	}
	if groups[2].Users[0].ID != "u4" || groups[2].Users[1].ID != "u3" {
		t.Fatalf("operations bucket not sorted by family name")
	}
	if groups[3].ID != GroupUnassigned || groups[3].Users[0].ID != "u6" {
		t.Fatalf("unassigned bucket wrong: %+v", groups[3])
	}
}

func TestManagerNeverDuplicatedIntoService(t *testing.T) {
	users := []model.User{
		{ID: "u1", FamilyName: "Faro", Role: model.RoleEmployee, ManagesDepartment: true, ServiceIDs: []string{"svc-dev"}},
		{ID: "u2", FamilyName: "Gallo", Role: model.RoleEmployee, ServiceIDs: []string{"svc-dev"}},
	}
	groups := NewResolver(nil).GroupUsers(users, testServices)
	seen := map[string]int{}
	for _, g := range groups {
		for _, u := range g.Users {
			seen[u.ID]++
		}
	}
	if seen["u1"] != 1 || seen["u2"] != 1 {
		t.Fatalf("users must each appear exactly once, got %v", seen)
	}
	if groups[0].ID != GroupManagement || groups[0].Users[0].ID != "u1" {
		t.Fatalf("department manager must land in management, got %+v", groups[0])
	}
}

func TestMultiMembershipUsesFirstService(t *testing.T) {
	users := []model.User{
		{ID: "u1", FamilyName: "Haas", Role: model.RoleEmployee, ServiceIDs: []string{"svc-ops", "svc-dev"}},
	}
	groups := NewResolver(nil).GroupUsers(users, testServices)
	if len(groups) != 1 || groups[0].ID != "svc-ops" {
		t.Fatalf("expected single svc-ops group, got %+v", groups)
	}
}

func TestUnknownServiceMembershipFallsToUnassigned(t *testing.T) {
	users := []model.User{
		{ID: "u1", FamilyName: "Ibis", Role: model.RoleEmployee, ServiceIDs: []string{"svc-gone"}},
	}
	groups := NewResolver(nil).GroupUsers(users, testServices)
	if len(groups) != 1 || groups[0].ID != GroupUnassigned {
		t.Fatalf("expected unassigned group, got %+v", groups)
	}
}

func TestEmptyInputs(t *testing.T) {
	if groups := NewResolver(nil).GroupUsers(nil, nil); len(groups) != 0 {
		t.Fatalf("empty input should give empty output, got %+v", groups)
	}
}

func TestCustomManagementRoles(t *testing.T) {
	r := NewResolver([]model.RoleTag{model.RoleServiceLead})
	if !r.IsManagement(model.User{ID: "u1", Role: model.RoleServiceLead}) {
		t.Fatalf("configured role should classify as management")
	}
	if r.IsManagement(model.User{ID: "u2", Role: model.RoleDirector}) {
		t.Fatalf("default roles should not apply when overridden")
	}
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tmarchal/planboard/internal/model"
)

// CreateUser inserts a user record, minting an id when none is set.
func (s *SQLite) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	if u.ID == "" {
		u.ID = newID()
	}
	serviceIDs, _ := json.Marshal(emptyAsList(u.ServiceIDs))
	managed, _ := json.Marshal(emptyAsList(u.ManagedServiceIDs))
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users
			(id, first_name, family_name, role, service_ids, managed_service_ids, department_id, manages_department)
		VALUES (?,?,?,?,?,?,?,?)`,
		u.ID, u.FirstName, u.FamilyName, string(u.Role),
		string(serviceIDs), string(managed), u.DepartmentID, boolToInt(u.ManagesDepartment),
	)
	if err != nil {
		return model.User{}, fmt.Errorf("store: insert user: %w", err)
	}
	return u, nil
}

// ListUsers returns every user, in family-name order.
func (s *SQLite) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, family_name, role, service_ids, managed_service_ids, department_id, manages_department
		FROM users ORDER BY family_name, first_name, id`)
	if err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(rows *sql.Rows) (model.User, error) {
	var u model.User
	var role, serviceIDs, managed string
	var managesDept int
	if err := rows.Scan(&u.ID, &u.FirstName, &u.FamilyName, &role, &serviceIDs, &managed, &u.DepartmentID, &managesDept); err != nil {
		return model.User{}, fmt.Errorf("store: scan user: %w", err)
	}
	u.Role = model.RoleTag(role)
	u.ManagesDepartment = managesDept != 0
	if err := json.Unmarshal([]byte(serviceIDs), &u.ServiceIDs); err != nil {
		return model.User{}, fmt.Errorf("store: user %s service_ids: %w", u.ID, err)
	}
	if err := json.Unmarshal([]byte(managed), &u.ManagedServiceIDs); err != nil {
		return model.User{}, fmt.Errorf("store: user %s managed_service_ids: %w", u.ID, err)
	}
	return u, nil
}

// CreateService inserts a service record.
func (s *SQLite) CreateService(ctx context.Context, svc model.Service) (model.Service, error) {
	if svc.ID == "" {
		svc.ID = newID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO services (id, name, department_id) VALUES (?,?,?)`,
		svc.ID, svc.Name, svc.DepartmentID,
	)
	if err != nil {
		return model.Service{}, fmt.Errorf("store: insert service: %w", err)
	}
	return svc, nil
}

// ListServices returns every service, in name order.
func (s *SQLite) ListServices(ctx context.Context) ([]model.Service, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, department_id FROM services ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("store: list services: %w", err)
	}
	defer rows.Close()

	var services []model.Service
	for rows.Next() {
		var svc model.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.DepartmentID); err != nil {
			return nil, fmt.Errorf("store: scan service: %w", err)
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

// emptyAsList keeps nil slices serializing as [] rather than null.
func emptyAsList(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

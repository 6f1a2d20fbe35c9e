package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tmarchal/planboard/internal/calendar"
	"github.com/tmarchal/planboard/internal/model"
)

// seedFile models the yaml fixture format accepted by `planboard seed`.
// Days are "2006-01-02" strings; omitted task dates stay unknown.
type seedFile struct {
	Services []struct {
		ID           string `yaml:"id"`
		Name         string `yaml:"name"`
		DepartmentID string `yaml:"department_id"`
	} `yaml:"services"`
	Users []struct {
		ID                string   `yaml:"id"`
		FirstName         string   `yaml:"first_name"`
		FamilyName        string   `yaml:"family_name"`
		Role              string   `yaml:"role"`
		Services          []string `yaml:"services"`
		ManagedServices   []string `yaml:"managed_services"`
		DepartmentID      string   `yaml:"department_id"`
		ManagesDepartment bool     `yaml:"manages_department"`
	} `yaml:"users"`
	Tasks []struct {
		ID        string   `yaml:"id"`
		Title     string   `yaml:"title"`
		Status    string   `yaml:"status"`
		Priority  string   `yaml:"priority"`
		Start     string   `yaml:"start"`
		End       string   `yaml:"end"`
		Hours     float64  `yaml:"hours"`
		Assignees []string `yaml:"assignees"`
		DependsOn []string `yaml:"depends_on"`
		ProjectID string   `yaml:"project_id"`
	} `yaml:"tasks"`
	Leaves []struct {
		ID     string `yaml:"id"`
		UserID string `yaml:"user_id"`
		Start  string `yaml:"start"`
		End    string `yaml:"end"`
		Type   string `yaml:"type"`
		Status string `yaml:"status"`
	} `yaml:"leaves"`
	Telework []struct {
		ID       string `yaml:"id"`
		UserID   string `yaml:"user_id"`
		Day      string `yaml:"day"`
		Telework bool   `yaml:"telework"`
	} `yaml:"telework"`
	Holidays []struct {
		ID        string `yaml:"id"`
		Day       string `yaml:"day"`
		Name      string `yaml:"name"`
		IsWorkDay bool   `yaml:"is_work_day"`
	} `yaml:"holidays"`
}

// Seed loads a yaml fixture file into the store. Records are inserted as
// given; ids are minted for entries that omit them.
func (s *SQLite) Seed(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("store: read seed file: %w", err)
	}
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("store: parse seed file %s: %w", path, err)
	}

	for _, svc := range file.Services {
		if _, err := s.CreateService(ctx, model.Service{ID: svc.ID, Name: svc.Name, DepartmentID: svc.DepartmentID}); err != nil {
			return err
		}
	}
	for _, u := range file.Users {
		role := model.RoleTag(u.Role)
		if role == "" {
			role = model.RoleEmployee
		}
		user := model.User{
			ID:                u.ID,
			FirstName:         u.FirstName,
			FamilyName:        u.FamilyName,
			Role:              role,
			ServiceIDs:        u.Services,
			ManagedServiceIDs: u.ManagedServices,
			DepartmentID:      u.DepartmentID,
			ManagesDepartment: u.ManagesDepartment,
		}
		if _, err := s.CreateUser(ctx, user); err != nil {
			return err
		}
	}
	for _, t := range file.Tasks {
		start, err := seedDay(t.Start)
		if err != nil {
			return fmt.Errorf("store: task %q start: %w", t.Title, err)
		}
		end, err := seedDay(t.End)
		if err != nil {
			return fmt.Errorf("store: task %q end: %w", t.Title, err)
		}
		status := model.TaskStatus(t.Status)
		if status == "" {
			status = model.StatusNotStarted
		}
		task := model.Task{
			ID:             t.ID,
			Title:          t.Title,
			Status:         status,
			Priority:       model.ParsePriority(t.Priority),
			Start:          start,
			End:            end,
			EstimatedHours: t.Hours,
			AssigneeIDs:    t.Assignees,
			DependsOn:      t.DependsOn,
			ProjectID:      t.ProjectID,
		}
		if _, err := s.CreateTask(ctx, task); err != nil {
			return err
		}
	}
	for _, l := range file.Leaves {
		start, err := seedDay(l.Start)
		if err != nil {
			return fmt.Errorf("store: leave for %s start: %w", l.UserID, err)
		}
		end, err := seedDay(l.End)
		if err != nil {
			return fmt.Errorf("store: leave for %s end: %w", l.UserID, err)
		}
		leave := model.Leave{
			ID:     l.ID,
			UserID: l.UserID,
			Start:  start,
			End:    end,
			Type:   l.Type,
			Status: model.LeaveStatus(l.Status),
		}
		if _, err := s.CreateLeave(ctx, leave); err != nil {
			return err
		}
	}
	for _, tw := range file.Telework {
		day, err := seedDay(tw.Day)
		if err != nil {
			return fmt.Errorf("store: telework for %s: %w", tw.UserID, err)
		}
		rec := model.TeleworkDay{ID: tw.ID, UserID: tw.UserID, Day: day, Telework: tw.Telework}
		if _, err := s.SaveTelework(ctx, rec); err != nil {
			return err
		}
	}
	for _, h := range file.Holidays {
		day, err := seedDay(h.Day)
		if err != nil {
			return fmt.Errorf("store: holiday %q: %w", h.Name, err)
		}
		holiday := model.Holiday{ID: h.ID, Day: day, Name: h.Name, IsWorkDay: h.IsWorkDay}
		if _, err := s.CreateHoliday(ctx, holiday); err != nil {
			return err
		}
	}
	return nil
}

func seedDay(s string) (calendar.Day, error) {
	if s == "" {
		return calendar.Day{}, nil
	}
	return calendar.Parse(s)
}

// Package config handles configuration and the .planboard directory
// structure. Every project tracked with planboard gets a .planboard/ folder
// holding the config file, the database and the logs.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tmarchal/planboard/internal/model"
)

// PlanboardDir is the name of the directory created in each project.
const PlanboardDir = ".planboard"

const defaultDatabaseFile = "planboard.db"

const defaultProjectConfigYAML = `# planboard project configuration
version: 1

# Path of the sqlite database, relative to .planboard/ unless absolute.
database: planboard.db

# Role tags that place a user in the management group of the grid.
management_roles:
  - director
  - admin

timeline:
  # Initial granularity of the timeline view: day, week or month.
  granularity: week
`

// TimelineConfig captures timeline view preferences.
type TimelineConfig struct {
	Granularity string `yaml:"granularity"`
}

// ProjectConfig models .planboard/config.yaml.
type ProjectConfig struct {
	Version         int            `yaml:"version"`
	Database        string         `yaml:"database"`
	ManagementRoles []string       `yaml:"management_roles"`
	Timeline        TimelineConfig `yaml:"timeline"`
}

// Config holds the runtime configuration for planboard.
type Config struct {
	// ProjectDir is the directory planboard was started from.
	ProjectDir string

	// PlanboardProjectDir is ProjectDir/.planboard.
	PlanboardProjectDir string

	Project ProjectConfig
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version:         1,
		Database:        defaultDatabaseFile,
		ManagementRoles: []string{string(model.RoleDirector), string(model.RoleAdmin)},
		Timeline:        TimelineConfig{Granularity: "week"},
	}
}

// InitPlanboardDir creates the .planboard directory structure in the given
// project directory and writes a commented default config if none exists.
//
// Structure created:
// .planboard/
// ├── config.yaml
// ├── planboard.db   <- created on first store open
// └── logs/
func InitPlanboardDir(projectDir string) error {
	planboardDir := filepath.Join(projectDir, PlanboardDir)
	if err := os.MkdirAll(filepath.Join(planboardDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", planboardDir, err)
	}
	return ensureProjectConfig(filepath.Join(planboardDir, "config.yaml"))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644); err != nil {
		return fmt.Errorf("config: write default %s: %w", path, err)
	}
	return nil
}

// NewConfig creates a Config populated from .planboard/config.yaml, falling
// back to defaults for anything missing.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:          projectDir,
		PlanboardProjectDir: filepath.Join(projectDir, PlanboardDir),
		Project:             defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProjectConfigPath returns the on-disk location of the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.PlanboardProjectDir, "config.yaml")
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.PlanboardProjectDir, "logs")
}

// DatabasePath resolves the configured database location. Relative paths are
// anchored at the .planboard directory.
func (c *Config) DatabasePath() string {
	db := strings.TrimSpace(c.Project.Database)
	if db == "" {
		db = defaultDatabaseFile
	}
	if filepath.IsAbs(db) {
		return db
	}
	return filepath.Join(c.PlanboardProjectDir, db)
}

// ManagementRoles returns the configured management role tags.
func (c *Config) ManagementRoles() []model.RoleTag {
	roles := make([]model.RoleTag, 0, len(c.Project.ManagementRoles))
	for _, r := range c.Project.ManagementRoles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		roles = append(roles, model.RoleTag(r))
	}
	return roles
}

// TimelineGranularity returns the configured initial granularity label.
func (c *Config) TimelineGranularity() string {
	return c.Project.Timeline.Granularity
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	parsed := defaultProjectConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	if parsed.Version == 0 {
		parsed.Version = 1
	}
	if len(parsed.ManagementRoles) == 0 {
		parsed.ManagementRoles = defaultProjectConfig().ManagementRoles
	}
	c.Project = parsed
	return nil
}

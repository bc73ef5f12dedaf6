// internal/config/config.go
//
// This package handles configuration and the .taskdeck directory structure.
// Every project directory taskdeck runs in gets a .taskdeck/ folder holding
// the config file and the activity log.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/taskdeck/internal/session"
	"github.com/kingrea/taskdeck/internal/store"
)

const (
	// Dir is the name of the directory we create in each project
	Dir = ".taskdeck"

	// LatencyEnv disables simulated store latency when set to "off".
	LatencyEnv = "TASKDECK_LATENCY"

	defaultLogLines = 3
)

const defaultProjectConfigYAML = `# taskdeck project configuration
version: 1

# Tasks loaded into the in-memory store at startup. Nothing is saved on exit.
seed:
  builtin: true
  # file: tasks.yaml

# Simulated store round-trip times. Set TASKDECK_LATENCY=off to disable.
latency:
  list: 100ms
  create: 150ms
  update: 150ms
  delete: 100ms

view:
  default_filter: all
  log_lines: 3
`

// SeedConfig chooses the initial tasks.
type SeedConfig struct {
	Builtin *bool  `yaml:"builtin"`
	File    string `yaml:"file,omitempty"`
}

// LatencyConfig mirrors store.Latency in the config file.
type LatencyConfig struct {
	List   time.Duration `yaml:"list"`
	Create time.Duration `yaml:"create"`
	Update time.Duration `yaml:"update"`
	Delete time.Duration `yaml:"delete"`
}

// ViewConfig captures UI preferences.
type ViewConfig struct {
	DefaultFilter string `yaml:"default_filter"`
	LogLines      int    `yaml:"log_lines"`
}

// ProjectConfig models .taskdeck/config.yaml.
type ProjectConfig struct {
	Version int            `yaml:"version"`
	Seed    SeedConfig     `yaml:"seed"`
	Latency *LatencyConfig `yaml:"latency"`
	View    ViewConfig     `yaml:"view"`
}

// Config holds the runtime configuration for taskdeck.
type Config struct {
	// ProjectDir is the directory where the user ran `taskdeck` from
	ProjectDir string

	// DataDir is ProjectDir/.taskdeck
	DataDir string

	Project ProjectConfig

	latencyOff bool
}

// InitDir creates the .taskdeck directory structure and writes the default
// config file when none exists.
func InitDir(projectDir string) error {
	dataDir := filepath.Join(projectDir, Dir)
	if err := os.MkdirAll(filepath.Join(dataDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: ensure %s: %w", dataDir, err)
	}
	return ensureProjectConfig(filepath.Join(dataDir, "config.yaml"))
}

// Load reads the project config, falling back to defaults when the file is
// missing.
func Load(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		DataDir:    filepath.Join(projectDir, Dir),
		Project:    defaultProjectConfig(),
		latencyOff: strings.EqualFold(strings.TrimSpace(os.Getenv(LatencyEnv)), "off"),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ActivityLogPath returns the logbook file.
func (c *Config) ActivityLogPath() string {
	return filepath.Join(c.LogsDir(), "activity.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.DataDir, "config.yaml")
}

// UseBuiltinSeed reports whether the sample tasks should be loaded.
func (c *Config) UseBuiltinSeed() bool {
	return c.Project.Seed.Builtin == nil || *c.Project.Seed.Builtin
}

// SeedFile returns the absolute seed file path, or "" when none is set.
func (c *Config) SeedFile() string {
	return c.Project.Seed.File
}

// StoreLatency returns the latency the store should simulate.
func (c *Config) StoreLatency() store.Latency {
	if c.latencyOff || c.Project.Latency == nil {
		return store.Latency{}
	}
	l := c.Project.Latency
	return store.Latency{List: l.List, Create: l.Create, Update: l.Update, Delete: l.Delete}
}

// DefaultFilter returns the filter the board opens with.
func (c *Config) DefaultFilter() session.Filter {
	return session.Filter(c.Project.View.DefaultFilter)
}

// LogLines returns how many activity lines the footer shows.
func (c *Config) LogLines() int {
	return c.Project.View.LogLines
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

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	latency := LatencyConfig(store.DefaultLatency)
	return ProjectConfig{
		Version: 1,
		Latency: &latency,
		View: ViewConfig{
			DefaultFilter: string(session.FilterAll),
			LogLines:      defaultLogLines,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Latency == nil {
		latency := LatencyConfig(store.DefaultLatency)
		pc.Latency = &latency
	}
	if pc.View.LogLines == 0 {
		pc.View.LogLines = defaultLogLines
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Seed.File = resolvePath(base, pc.Seed.File)
	pc.View.DefaultFilter = strings.ToLower(strings.TrimSpace(pc.View.DefaultFilter))
	if pc.View.DefaultFilter == "" {
		pc.View.DefaultFilter = string(session.FilterAll)
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if l := pc.Latency; l != nil {
		for name, d := range map[string]time.Duration{
			"list": l.List, "create": l.Create, "update": l.Update, "delete": l.Delete,
		} {
			if d < 0 {
				return fmt.Errorf("latency.%s must not be negative", name)
			}
		}
	}
	if _, err := session.ParseFilter(pc.View.DefaultFilter); err != nil {
		return fmt.Errorf("view.default_filter: %w", err)
	}
	if pc.View.LogLines < 0 {
		return fmt.Errorf("view.log_lines must not be negative")
	}
	return nil
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

func resolvePath(base, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Clean(filepath.Join(base, value))
}

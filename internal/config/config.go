package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir     string `toml:"data_dir"`
	ProjectsDir string `toml:"projects_dir"`
	LogDir      string `toml:"log_dir"`

	// CategoryFile points at the JSON category catalog. Empty disables
	// catalog validation when logging punches.
	CategoryFile string `toml:"category_file"`
}

// Workbook contains the versioned workbook-template contract: sheet names
// and fixed row offsets that every cabinet workbook must expose.
type Workbook struct {
	PunchSheet        string `toml:"punch_sheet"`
	ChecklistSheet    string `toml:"checklist_sheet"`
	PunchStartRow     int    `toml:"punch_start_row"`
	ChecklistStartRow int    `toml:"checklist_start_row"`
	ScanRowCap        int    `toml:"scan_row_cap"`
}

// Matching contains fuzzy-match settings for annotation binding.
type Matching struct {
	// Threshold is the minimum similarity ratio for a fuzzy description
	// match to be accepted when no serial number is available.
	Threshold float64 `toml:"threshold"`
}

// Handoff contains retention settings for the hand-off queues.
type Handoff struct {
	CleanupDays int `toml:"cleanup_days"`
}

// Recent contains the recent-projects cache bound.
type Recent struct {
	Limit int `toml:"limit"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for punchtrack.
//
// Configuration sections by subsystem:
//   - Paths: data, project, and log directories
//   - Workbook: sheet names and fixed row offsets (template contract)
//   - Matching: annotation binder threshold
//   - Handoff: queue retention
//   - Recent: recent-projects cache size
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Workbook Workbook `toml:"workbook"`
	Matching Matching `toml:"matching"`
	Handoff  Handoff  `toml:"handoff"`
	Recent   Recent   `toml:"recent"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/punchtrack/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. The boolean reports whether a
// config file was found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("punchtrack.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the stores and logger require.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.ProjectsDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HandoffDBPath returns the path of the hand-off queue database.
func (c *Config) HandoffDBPath() string {
	return filepath.Join(c.Paths.DataDir, "handoff.db")
}

// CabinetDBPath returns the path of the cabinet aggregate database.
func (c *Config) CabinetDBPath() string {
	return filepath.Join(c.Paths.DataDir, "cabinets.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

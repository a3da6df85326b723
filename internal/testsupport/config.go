package testsupport

import (
	"path/filepath"
	"testing"

	"punchtrack/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ProjectsDir = filepath.Join(base, "projects")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithMatchThreshold overrides the fuzzy-match acceptance threshold.
func WithMatchThreshold(threshold float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matching.Threshold = threshold
	}
}

// WithRecentLimit overrides the recent-projects cache bound.
func WithRecentLimit(limit int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Recent.Limit = limit
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

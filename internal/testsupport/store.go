package testsupport

import (
	"testing"

	"punchtrack/internal/cabinet"
	"punchtrack/internal/config"
	"punchtrack/internal/handoff"
)

// MustOpenHandoff opens the hand-off store for the given config and fails
// the test on error. The store is closed during cleanup.
func MustOpenHandoff(t testing.TB, cfg *config.Config) *handoff.Store {
	t.Helper()

	store, err := handoff.Open(cfg)
	if err != nil {
		t.Fatalf("handoff.Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close handoff store: %v", err)
		}
	})
	return store
}

// MustOpenCabinets opens the cabinet aggregate store for the given config
// and fails the test on error. The store is closed during cleanup.
func MustOpenCabinets(t testing.TB, cfg *config.Config) *cabinet.Store {
	t.Helper()

	store, err := cabinet.Open(cfg)
	if err != nil {
		t.Fatalf("cabinet.Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close cabinet store: %v", err)
		}
	})
	return store
}

package handoff

import (
	"context"
	"testing"

	"punchtrack/internal/config"
)

// Exercises the repair path of CompleteAndHandback: the forward update and
// the backward insert are separate statements, so a crash in between leaves
// a COMPLETED row with no handback. Re-running the call must insert exactly
// one.
func TestCompleteAndHandbackRecoversHalfDoneState(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.ProjectsDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()

	store, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	ok, err := store.SubmitForward(ctx, Submission{
		ProjectName: "P-100",
		CabinetNo:   "CAB-01",
		SubmittedBy: "alice",
	})
	if err != nil || !ok {
		t.Fatalf("SubmitForward = %v, %v", ok, err)
	}
	if _, err := store.CompleteAndHandback(ctx, "CAB-01", "bob", "", 0); err != nil {
		t.Fatalf("CompleteAndHandback: %v", err)
	}

	// Simulate the crash window: forward committed, backward lost.
	if _, err := store.db.ExecContext(ctx, "DELETE FROM production_to_quality"); err != nil {
		t.Fatalf("drop handback row: %v", err)
	}

	ok, err = store.CompleteAndHandback(ctx, "CAB-01", "bob", "", 0)
	if err != nil || !ok {
		t.Fatalf("re-run = %v, %v", ok, err)
	}
	assertPendingCount(t, store, 1)

	// And it stays at one on a third run.
	if _, err := store.CompleteAndHandback(ctx, "CAB-01", "bob", "", 0); err != nil {
		t.Fatalf("third run: %v", err)
	}
	assertPendingCount(t, store, 1)
}

func assertPendingCount(t *testing.T, store *Store, want int) {
	t.Helper()
	var count int
	err := store.db.QueryRow(
		"SELECT COUNT(1) FROM production_to_quality WHERE status = ?", StatusPending,
	).Scan(&count)
	if err != nil {
		t.Fatalf("count handbacks: %v", err)
	}
	if count != want {
		t.Fatalf("pending handbacks = %d, want %d", count, want)
	}
}

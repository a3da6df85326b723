package punch_test

import (
	"errors"
	"testing"
	"time"

	"punchtrack/internal/faults"
	"punchtrack/internal/punch"
	"punchtrack/internal/testsupport"
)

func newStore(t *testing.T) *punch.Store {
	t.Helper()
	wb := testsupport.NewWorkbook(t, "cab.xlsx")
	store, err := punch.NewStore(wb, punch.DefaultLayout())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func appendPunch(t *testing.T, store *punch.Store, ref, desc string) (int, int) {
	t.Helper()
	row, serial, err := store.Append(punch.Entry{
		ReferenceNo: ref,
		Description: desc,
		Category:    "Wiring",
		CheckedBy:   "alice",
		CheckedAt:   time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	return row, serial
}

func TestSerialsAreGapFree(t *testing.T) {
	store := newStore(t)

	const n = 6
	for i := 0; i < n; i++ {
		row, serial, err := store.Append(punch.Entry{
			ReferenceNo: "12",
			Description: "defect",
			CheckedBy:   "alice",
		})
		if err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
		if serial != i+1 {
			t.Fatalf("serial %d, want %d", serial, i+1)
		}
		if row != 8+i {
			t.Fatalf("row %d, want %d", row, 8+i)
		}
		// Closing a row must not disturb subsequent serial assignment.
		if i == 2 {
			if err := store.MarkClosed(row, "quinn", time.Now()); err != nil {
				t.Fatalf("MarkClosed: %v", err)
			}
		}
	}

	next, err := store.NextSerial()
	if err != nil {
		t.Fatalf("NextSerial: %v", err)
	}
	if next != n+1 {
		t.Fatalf("NextSerial = %d, want %d", next, n+1)
	}
}

func TestNextSerialEmptySheet(t *testing.T) {
	store := newStore(t)
	next, err := store.NextSerial()
	if err != nil {
		t.Fatalf("NextSerial: %v", err)
	}
	if next != 1 {
		t.Fatalf("NextSerial on empty sheet = %d", next)
	}
}

func TestAppendValidation(t *testing.T) {
	store := newStore(t)
	if _, _, err := store.Append(punch.Entry{CheckedBy: "alice"}); !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("missing description should be a validation error, got %v", err)
	}
	if _, _, err := store.Append(punch.Entry{Description: "defect"}); !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("missing checked_by should be a validation error, got %v", err)
	}
}

func TestLifecycleTransitions(t *testing.T) {
	store := newStore(t)
	row, _ := appendPunch(t, store, "14", "Loose terminal on X1")

	rec, err := store.Record(row)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !rec.Open() || rec.Implemented() {
		t.Fatalf("new punch should be open and unimplemented: %+v", rec)
	}
	if rec.CheckedBy != "alice" {
		t.Fatalf("checked_by = %q", rec.CheckedBy)
	}

	implAt := time.Date(2026, 5, 5, 14, 0, 0, 0, time.UTC)
	if err := store.MarkImplemented(row, "bob", implAt); err != nil {
		t.Fatalf("MarkImplemented: %v", err)
	}
	rec, _ = store.Record(row)
	if !rec.Implemented() {
		t.Fatalf("punch should be implemented: %+v", rec)
	}
	if !rec.ImplementedAt.Equal(implAt) {
		t.Fatalf("implemented_at = %v, want %v", rec.ImplementedAt, implAt)
	}

	if err := store.MarkClosed(row, "quinn", time.Now()); err != nil {
		t.Fatalf("MarkClosed: %v", err)
	}
	rec, _ = store.Record(row)
	if rec.Open() || rec.Implemented() {
		t.Fatalf("closed punch should be neither open nor implemented: %+v", rec)
	}
}

func TestCloseWithoutImplementIsPermitted(t *testing.T) {
	store := newStore(t)
	row, _ := appendPunch(t, store, "3", "Rejected as duplicate")
	if err := store.MarkClosed(row, "quinn", time.Now()); err != nil {
		t.Fatalf("closing an unimplemented punch should succeed: %v", err)
	}
}

func TestMarkOnMissingRow(t *testing.T) {
	store := newStore(t)
	if err := store.MarkImplemented(42, "bob", time.Now()); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not-found for empty row, got %v", err)
	}
	if err := store.MarkImplemented(3, "bob", time.Now()); !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected validation error above data region, got %v", err)
	}
}

func TestListOpenAndCount(t *testing.T) {
	store := newStore(t)
	rowA, _ := appendPunch(t, store, "5", "first")
	rowB, _ := appendPunch(t, store, "6", "second")
	appendPunch(t, store, "7", "third")

	if err := store.MarkImplemented(rowA, "bob", time.Now()); err != nil {
		t.Fatalf("MarkImplemented: %v", err)
	}
	if err := store.MarkClosed(rowB, "quinn", time.Now()); err != nil {
		t.Fatalf("MarkClosed: %v", err)
	}

	open, err := store.ListOpen()
	if err != nil {
		t.Fatalf("ListOpen: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("ListOpen returned %d rows, want 2", len(open))
	}
	for _, rec := range open {
		if rec.Row == rowB {
			t.Fatal("closed punch listed as open")
		}
	}

	counts, err := store.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	want := punch.Counts{Total: 3, Implemented: 1, Closed: 1}
	if counts != want {
		t.Fatalf("Count = %+v, want %+v", counts, want)
	}
	if counts.OpenCount() != len(open) {
		t.Fatalf("OpenCount = %d, want %d to agree with ListOpen", counts.OpenCount(), len(open))
	}
}

func TestClosedWinsOverImplemented(t *testing.T) {
	store := newStore(t)
	row, _ := appendPunch(t, store, "5", "both marks")
	if err := store.MarkImplemented(row, "bob", time.Now()); err != nil {
		t.Fatalf("MarkImplemented: %v", err)
	}
	if err := store.MarkClosed(row, "quinn", time.Now()); err != nil {
		t.Fatalf("MarkClosed: %v", err)
	}
	counts, err := store.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if counts.Closed != 1 || counts.Implemented != 0 {
		t.Fatalf("row with both marks should count as closed only: %+v", counts)
	}
}

func TestFindBySerial(t *testing.T) {
	store := newStore(t)
	appendPunch(t, store, "5", "first")
	row, serial := appendPunch(t, store, "6", "second")

	rec, ok, err := store.FindBySerial(serial)
	if err != nil {
		t.Fatalf("FindBySerial: %v", err)
	}
	if !ok || rec.Row != row {
		t.Fatalf("FindBySerial(%d) = %+v ok=%v", serial, rec, ok)
	}

	if _, ok, _ := store.FindBySerial(99); ok {
		t.Fatal("unknown serial should not be found")
	}
}

func TestSortNotImplementedFirst(t *testing.T) {
	records := []punch.Record{
		{Row: 8, ImplementedBy: "bob"},
		{Row: 9},
		{Row: 10, ClosedBy: "quinn"},
		{Row: 11},
	}
	punch.SortNotImplementedFirst(records)
	if records[0].Row != 9 || records[1].Row != 11 {
		t.Fatalf("open unimplemented rows should sort first: %+v", records)
	}
}

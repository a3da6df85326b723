package testsupport

import (
	"path/filepath"
	"testing"

	"punchtrack/internal/workbook"
)

// NewWorkbook creates a cabinet workbook with the standard two sheets in the
// test's temp directory and registers cleanup of the handle.
func NewWorkbook(t testing.TB, name string) *workbook.Handle {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	h, err := workbook.Create(path, "Punch Sheet", "Interphase")
	if err != nil {
		t.Fatalf("workbook.Create: %v", err)
	}
	t.Cleanup(func() {
		h.Close()
	})
	return h
}

// SetChecklistRow fills one checklist row: reference number, description,
// status, actor, and date columns (B..F) at the given row.
func SetChecklistRow(t testing.TB, h *workbook.Handle, row int, ref, description, status, actor, date string) {
	t.Helper()

	cells := []struct {
		col   string
		value string
	}{
		{"B", ref}, {"C", description}, {"D", status}, {"E", actor}, {"F", date},
	}
	for _, c := range cells {
		col, err := workbook.ColumnNumber(c.col)
		if err != nil {
			t.Fatalf("column %s: %v", c.col, err)
		}
		if err := h.Write("Interphase", row, col, c.value); err != nil {
			t.Fatalf("write checklist %s%d: %v", c.col, row, err)
		}
	}
}

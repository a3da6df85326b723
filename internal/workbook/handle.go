package workbook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gofrs/flock"
	"github.com/xuri/excelize/v2"

	"punchtrack/internal/faults"
	"punchtrack/internal/fileutil"
)

// Handle owns an open workbook and its exclusive sidecar lock. Only one
// process may hold a handle for writing at a time; a second opener receives
// a contention error and is expected to retry after the first writer closes.
type Handle struct {
	file *excelize.File
	path string
	lock *flock.Flock
}

// Open acquires the workbook lock and loads the file.
func Open(path string) (*Handle, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, faults.Wrap(faults.ErrNotFound, "open workbook", path, err)
		}
		return nil, fmt.Errorf("stat workbook: %w", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire workbook lock: %w", err)
	}
	if !ok {
		return nil, faults.Wrap(faults.ErrContention, "open workbook", path+" is open in another process", nil)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Handle{file: file, path: path, lock: lock}, nil
}

// Create builds a new workbook containing the named sheets and acquires its
// lock. The default sheet is replaced by the first name.
func Create(path string, sheets ...string) (*Handle, error) {
	if len(sheets) == 0 {
		return nil, faults.Wrap(faults.ErrValidation, "create workbook", "at least one sheet name required", nil)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire workbook lock: %w", err)
	}
	if !ok {
		return nil, faults.Wrap(faults.ErrContention, "create workbook", path+" is open in another process", nil)
	}

	file := excelize.NewFile()
	for _, name := range sheets {
		if _, err := file.NewSheet(name); err != nil {
			_ = lock.Unlock()
			_ = file.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	if sheets[0] != "Sheet1" {
		if err := file.DeleteSheet("Sheet1"); err != nil {
			_ = lock.Unlock()
			_ = file.Close()
			return nil, fmt.Errorf("remove default sheet: %w", err)
		}
	}
	if err := file.SaveAs(path); err != nil {
		_ = lock.Unlock()
		_ = file.Close()
		return nil, fmt.Errorf("save workbook %s: %w", path, err)
	}
	return &Handle{file: file, path: path, lock: lock}, nil
}

// Path returns the workbook file path.
func (h *Handle) Path() string {
	return h.path
}

// HasSheet reports whether the named sheet exists.
func (h *Handle) HasSheet(name string) bool {
	idx, err := h.file.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// Save persists pending changes to the workbook file.
func (h *Handle) Save() error {
	if err := h.file.Save(); err != nil {
		return fmt.Errorf("save workbook %s: %w", h.path, err)
	}
	return nil
}

// SaveWithBackup copies the on-disk workbook to its .bak sidecar before
// overwriting it, so a failed save never destroys the only copy.
func (h *Handle) SaveWithBackup() error {
	if _, err := os.Stat(h.path); err == nil {
		if err := fileutil.CopyFile(h.path, fileutil.BackupPath(h.path)); err != nil {
			return fmt.Errorf("back up workbook %s: %w", h.path, err)
		}
	}
	return h.Save()
}

// Close releases the workbook and its lock on every path.
func (h *Handle) Close() error {
	if h == nil || h.file == nil {
		return nil
	}
	err := h.file.Close()
	if h.lock != nil {
		if unlockErr := h.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}
	h.file = nil
	return err
}

// Resolve returns the top-left anchor when (row, col) falls inside a merged
// range, or the input coordinates unchanged.
func (h *Handle) Resolve(sheet string, row, col int) (int, int, error) {
	merged, err := h.file.GetMergeCells(sheet)
	if err != nil {
		return 0, 0, fmt.Errorf("merged ranges for %s: %w", sheet, err)
	}
	for _, rng := range merged {
		startCol, startRow, err := excelize.CellNameToCoordinates(rng.GetStartAxis())
		if err != nil {
			continue
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(rng.GetEndAxis())
		if err != nil {
			continue
		}
		if startRow <= row && row <= endRow && startCol <= col && col <= endCol {
			return startRow, startCol, nil
		}
	}
	return row, col, nil
}

// Read returns the trimmed string value at (row, col) after merged-range
// resolution. Empty cells read as "".
func (h *Handle) Read(sheet string, row, col int) (string, error) {
	targetRow, targetCol, err := h.Resolve(sheet, row, col)
	if err != nil {
		return "", err
	}
	cell, err := excelize.CoordinatesToCellName(targetCol, targetRow)
	if err != nil {
		return "", faults.Wrap(faults.ErrValidation, "cell coordinates", fmt.Sprintf("row %d col %d", targetRow, targetCol), err)
	}
	value, err := h.file.GetCellValue(sheet, cell)
	if err != nil {
		return "", fmt.Errorf("read %s!%s: %w", sheet, cell, err)
	}
	return value, nil
}

// Write sets the value at (row, col) after merged-range resolution.
func (h *Handle) Write(sheet string, row, col int, value any) error {
	targetRow, targetCol, err := h.Resolve(sheet, row, col)
	if err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(targetCol, targetRow)
	if err != nil {
		return faults.Wrap(faults.ErrValidation, "cell coordinates", fmt.Sprintf("row %d col %d", targetRow, targetCol), err)
	}
	if err := h.file.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// MergeRange merges the rectangle between two references. Used by template
// builders and tests to reproduce the header layout of cabinet workbooks.
func (h *Handle) MergeRange(sheet, topLeft, bottomRight string) error {
	if err := h.file.MergeCell(sheet, topLeft, bottomRight); err != nil {
		return fmt.Errorf("merge %s:%s: %w", topLeft, bottomRight, err)
	}
	return nil
}

package punch

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"punchtrack/internal/faults"
	"punchtrack/internal/workbook"
)

// Store exposes punch-row operations over an open workbook handle. The
// handle is passed in by the caller, which keeps open/close scoping and the
// single-writer discipline at the session level.
type Store struct {
	wb     *workbook.Handle
	layout Layout
}

// NewStore binds a store to an open workbook.
func NewStore(wb *workbook.Handle, layout Layout) (*Store, error) {
	if wb == nil {
		return nil, faults.Wrap(faults.ErrValidation, "punch store", "workbook handle required", nil)
	}
	if !wb.HasSheet(layout.Sheet) {
		return nil, faults.Wrap(faults.ErrNotFound, "punch store", "sheet "+layout.Sheet+" missing from workbook", nil)
	}
	return &Store{wb: wb, layout: layout}, nil
}

// Entry carries the fields for a newly logged punch.
type Entry struct {
	ReferenceNo string
	Description string
	Category    string
	CheckedBy   string
	CheckedAt   time.Time
}

// NextSerial scans from the start row until the first row without a serial
// number and returns max(existing)+1, or 1 when the sheet has no punches.
func (s *Store) NextSerial() (int, error) {
	maxSerial := 0
	row := s.layout.StartRow
	for row <= s.layout.ScanCap {
		value, err := s.wb.Read(s.layout.Sheet, row, colSerial)
		if err != nil {
			return 0, err
		}
		if strings.TrimSpace(value) == "" {
			break
		}
		if serial, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && serial > maxSerial {
			maxSerial = serial
		}
		row++
	}
	return maxSerial + 1, nil
}

// Append writes a new punch at the first free row and returns the row index
// and assigned serial number. The checked actor and timestamp are required:
// a punch only exists because somebody found it.
func (s *Store) Append(entry Entry) (int, int, error) {
	if strings.TrimSpace(entry.Description) == "" {
		return 0, 0, faults.Wrap(faults.ErrValidation, "append punch", "description required", nil)
	}
	if strings.TrimSpace(entry.CheckedBy) == "" {
		return 0, 0, faults.Wrap(faults.ErrValidation, "append punch", "checked_by required", nil)
	}
	checkedAt := entry.CheckedAt
	if checkedAt.IsZero() {
		checkedAt = time.Now()
	}

	serial, err := s.NextSerial()
	if err != nil {
		return 0, 0, err
	}
	row, err := s.firstFreeRow()
	if err != nil {
		return 0, 0, err
	}

	writes := []struct {
		col   int
		value any
	}{
		{colSerial, serial},
		{colReference, entry.ReferenceNo},
		{colDescription, entry.Description},
		{colCategory, entry.Category},
		{colCheckedBy, entry.CheckedBy},
		{colCheckedAt, checkedAt.Format(TimeLayout)},
	}
	for _, w := range writes {
		if err := s.wb.Write(s.layout.Sheet, row, w.col, w.value); err != nil {
			return 0, 0, err
		}
	}
	return row, serial, nil
}

// MarkImplemented records production's fix on an existing punch row.
func (s *Store) MarkImplemented(row int, actor string, at time.Time) error {
	return s.markPair(row, colImplementedBy, colImplementedAt, actor, at, "mark implemented")
}

// MarkClosed records quality's sign-off on an existing punch row. Closing a
// row that was never marked implemented is permitted: quality may close a
// punch it fixed on the spot or rejected as not-a-defect.
func (s *Store) MarkClosed(row int, actor string, at time.Time) error {
	return s.markPair(row, colClosedBy, colClosedAt, actor, at, "mark closed")
}

func (s *Store) markPair(row, actorCol, timeCol int, actor string, at time.Time, op string) error {
	if row < s.layout.StartRow {
		return faults.Wrap(faults.ErrValidation, op, fmt.Sprintf("row %d precedes punch data", row), nil)
	}
	if strings.TrimSpace(actor) == "" {
		return faults.Wrap(faults.ErrValidation, op, "actor required", nil)
	}
	serial, err := s.wb.Read(s.layout.Sheet, row, colSerial)
	if err != nil {
		return err
	}
	if strings.TrimSpace(serial) == "" {
		return faults.Wrap(faults.ErrNotFound, op, fmt.Sprintf("no punch at row %d", row), nil)
	}
	if at.IsZero() {
		at = time.Now()
	}
	if err := s.wb.Write(s.layout.Sheet, row, actorCol, actor); err != nil {
		return err
	}
	return s.wb.Write(s.layout.Sheet, row, timeCol, at.Format(TimeLayout))
}

// Record reads one punch row.
func (s *Store) Record(row int) (Record, error) {
	rec, ok, err := s.readRow(row)
	if err != nil {
		return Record{}, err
	}
	if !ok {
		return Record{}, faults.Wrap(faults.ErrNotFound, "read punch", fmt.Sprintf("no punch at row %d", row), nil)
	}
	return rec, nil
}

// Records returns all punches in row order. The scan tolerates rows with a
// description but no serial (partially filled sheets) and stops once both
// are empty or the cap is reached.
func (s *Store) Records() ([]Record, error) {
	var records []Record
	row := s.layout.StartRow
	for row <= s.layout.ScanCap {
		rec, ok, err := s.readRow(row)
		if err != nil {
			return nil, err
		}
		if !ok {
			if strings.TrimSpace(rec.Description) == "" {
				break
			}
			row++
			continue
		}
		records = append(records, rec)
		row++
	}
	return records, nil
}

// ListOpen returns punches with no closed actor, in row order.
func (s *Store) ListOpen() ([]Record, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	open := records[:0]
	for _, rec := range records {
		if rec.Open() {
			open = append(open, rec)
		}
	}
	return open, nil
}

// FindBySerial returns the punch carrying the serial number, if present.
func (s *Store) FindBySerial(serial int) (Record, bool, error) {
	records, err := s.Records()
	if err != nil {
		return Record{}, false, err
	}
	for _, rec := range records {
		if rec.SerialNo == serial {
			return rec, true, nil
		}
	}
	return Record{}, false, nil
}

// Count performs a full linear scan and tallies total, implemented, and
// closed punches. Closed wins over implemented for rows carrying both.
func (s *Store) Count() (Counts, error) {
	records, err := s.Records()
	if err != nil {
		return Counts{}, err
	}
	var counts Counts
	for _, rec := range records {
		counts.Total++
		switch {
		case strings.TrimSpace(rec.ClosedBy) != "":
			counts.Closed++
		case strings.TrimSpace(rec.ImplementedBy) != "":
			counts.Implemented++
		}
	}
	return counts, nil
}

// readRow reads a row; ok is false when the row has no serial number.
func (s *Store) readRow(row int) (Record, bool, error) {
	cells := make([]string, 10)
	for i, col := range []int{
		colSerial, colReference, colDescription, colCategory,
		colCheckedBy, colCheckedAt, colImplementedBy, colImplementedAt,
		colClosedBy, colClosedAt,
	} {
		value, err := s.wb.Read(s.layout.Sheet, row, col)
		if err != nil {
			return Record{}, false, err
		}
		cells[i] = value
	}

	rec := Record{
		Row:           row,
		ReferenceNo:   strings.TrimSpace(cells[1]),
		Description:   strings.TrimSpace(cells[2]),
		Category:      strings.TrimSpace(cells[3]),
		CheckedBy:     strings.TrimSpace(cells[4]),
		CheckedAt:     parseCellTime(cells[5]),
		ImplementedBy: strings.TrimSpace(cells[6]),
		ImplementedAt: parseCellTime(cells[7]),
		ClosedBy:      strings.TrimSpace(cells[8]),
		ClosedAt:      parseCellTime(cells[9]),
	}

	serialText := strings.TrimSpace(cells[0])
	if serialText == "" {
		return rec, false, nil
	}
	serial, err := strconv.Atoi(serialText)
	if err != nil {
		// Non-numeric serials exist in hand-edited sheets; keep the row
		// visible with serial 0 rather than dropping it.
		serial = 0
	}
	rec.SerialNo = serial
	return rec, true, nil
}

// firstFreeRow finds the first row at/after the start offset with no serial.
func (s *Store) firstFreeRow() (int, error) {
	row := s.layout.StartRow
	for row <= s.layout.ScanCap {
		value, err := s.wb.Read(s.layout.Sheet, row, colSerial)
		if err != nil {
			return 0, err
		}
		if strings.TrimSpace(value) == "" {
			return row, nil
		}
		row++
	}
	return 0, faults.Wrap(faults.ErrValidation, "append punch", fmt.Sprintf("no free row below scan cap %d", s.layout.ScanCap), nil)
}

package checklist

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"punchtrack/internal/config"
	"punchtrack/internal/faults"
	"punchtrack/internal/punch"
	"punchtrack/internal/workbook"
)

// Column positions on the progress sheet. Column A is decorative.
var (
	colRef         = workbook.MustColumn("B")
	colDescription = workbook.MustColumn("C")
	colStatus      = workbook.MustColumn("D")
	colActor       = workbook.MustColumn("E")
	colDate        = workbook.MustColumn("F")
	colRemark      = workbook.MustColumn("G")
)

// Layout locates the checklist data region inside a workbook.
type Layout struct {
	Sheet    string
	StartRow int
	ScanCap  int
}

func DefaultLayout() Layout {
	return Layout{Sheet: "Interphase", StartRow: 11, ScanCap: 2000}
}

func LayoutFromConfig(cfg *config.Config) Layout {
	return Layout{
		Sheet:    cfg.Workbook.ChecklistSheet,
		StartRow: cfg.Workbook.ChecklistStartRow,
		ScanCap:  cfg.Workbook.ScanRowCap,
	}
}

// Row is one checklist entry as read from the sheet.
type Row struct {
	Row         int
	Reference   string
	Description string
	Status      string
	Actor       string
	Date        string
	Remark      string
}

// Completed reports whether the row has been signed off. A populated status
// cell is the completion marker, whatever its text.
func (r Row) Completed() bool {
	return strings.TrimSpace(r.Status) != ""
}

// Sheet reads and updates the progress sheet of one workbook.
type Sheet struct {
	wb     *workbook.Handle
	layout Layout
}

func NewSheet(wb *workbook.Handle, layout Layout) (*Sheet, error) {
	if !wb.HasSheet(layout.Sheet) {
		return nil, faults.Wrap(faults.ErrValidation, "checklist open",
			fmt.Sprintf("workbook %s has no sheet %q", wb.Path(), layout.Sheet), nil)
	}
	return &Sheet{wb: wb, layout: layout}, nil
}

// Rows returns the checklist entries in sheet order. The scan stops at the
// first row with neither reference nor description, capped at the layout's
// scan limit.
func (s *Sheet) Rows() ([]Row, error) {
	var rows []Row
	for rowIdx := s.layout.StartRow; rowIdx < s.layout.StartRow+s.layout.ScanCap; rowIdx++ {
		row, ok, err := s.readRow(rowIdx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// HighestCompletedRef returns the largest reference number among completed
// rows. ok is false when nothing has been signed off yet.
func (s *Sheet) HighestCompletedRef() (ref int, ok bool, err error) {
	rows, err := s.Rows()
	if err != nil {
		return 0, false, err
	}
	for _, row := range rows {
		if !row.Completed() {
			continue
		}
		n, perr := RefNumber(row.Reference)
		if perr != nil {
			continue
		}
		if !ok || n > ref {
			ref = n
			ok = true
		}
	}
	return ref, ok, nil
}

// MarkRef updates the status columns of the row whose reference cell matches
// ref. The punch workflow marks a reference NOK when a defect is logged
// against it.
func (s *Sheet) MarkRef(ref, status, actor string, at time.Time, remark string) error {
	if strings.TrimSpace(status) == "" {
		return faults.Wrap(faults.ErrValidation, "checklist mark", "status required", nil)
	}
	rows, err := s.Rows()
	if err != nil {
		return err
	}
	for _, row := range rows {
		if strings.TrimSpace(row.Reference) != strings.TrimSpace(ref) {
			continue
		}
		if at.IsZero() {
			at = time.Now()
		}
		writes := []struct {
			col   int
			value string
		}{
			{colStatus, status},
			{colActor, actor},
			{colDate, at.Format(punch.TimeLayout)},
			{colRemark, remark},
		}
		for _, w := range writes {
			if err := s.wb.Write(s.layout.Sheet, row.Row, w.col, w.value); err != nil {
				return err
			}
		}
		return nil
	}
	return faults.Wrap(faults.ErrNotFound, "checklist mark",
		fmt.Sprintf("no checklist row with reference %q", ref), nil)
}

func (s *Sheet) readRow(rowIdx int) (Row, bool, error) {
	read := func(col int) (string, error) {
		return s.wb.Read(s.layout.Sheet, rowIdx, col)
	}
	ref, err := read(colRef)
	if err != nil {
		return Row{}, false, err
	}
	desc, err := read(colDescription)
	if err != nil {
		return Row{}, false, err
	}
	if strings.TrimSpace(ref) == "" && strings.TrimSpace(desc) == "" {
		return Row{}, false, nil
	}
	status, err := read(colStatus)
	if err != nil {
		return Row{}, false, err
	}
	actor, err := read(colActor)
	if err != nil {
		return Row{}, false, err
	}
	date, err := read(colDate)
	if err != nil {
		return Row{}, false, err
	}
	remark, err := read(colRemark)
	if err != nil {
		return Row{}, false, err
	}
	return Row{
		Row:         rowIdx,
		Reference:   strings.TrimSpace(ref),
		Description: strings.TrimSpace(desc),
		Status:      strings.TrimSpace(status),
		Actor:       strings.TrimSpace(actor),
		Date:        strings.TrimSpace(date),
		Remark:      strings.TrimSpace(remark),
	}, true, nil
}

// RefNumber parses a reference cell into its numeric value. Range references
// such as "1-2" resolve to the last number, since completing the range means
// reaching its end.
func RefNumber(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, faults.Wrap(faults.ErrValidation, "checklist ref", "empty reference", nil)
	}
	if idx := strings.LastIndex(ref, "-"); idx >= 0 && idx < len(ref)-1 {
		ref = ref[idx+1:]
	}
	n, err := strconv.Atoi(strings.TrimSpace(ref))
	if err != nil {
		return 0, faults.Wrap(faults.ErrValidation, "checklist ref",
			fmt.Sprintf("reference %q is not numeric", ref), err)
	}
	return n, nil
}

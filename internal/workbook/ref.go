package workbook

import (
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"punchtrack/internal/faults"
)

// refPattern is the only accepted cell-reference shape: column letters
// followed by a 1-based row number.
var refPattern = regexp.MustCompile(`^[A-Za-z]{1,3}[1-9][0-9]*$`)

// ParseRef splits a reference like "C8" into a 1-based (row, column) pair.
// Malformed references are an input error, never silently corrected.
func ParseRef(ref string) (row, col int, err error) {
	trimmed := strings.TrimSpace(ref)
	if !refPattern.MatchString(trimmed) {
		return 0, 0, faults.Wrap(faults.ErrValidation, "parse cell reference", trimmed, nil)
	}
	col, row, convErr := excelize.CellNameToCoordinates(strings.ToUpper(trimmed))
	if convErr != nil {
		return 0, 0, faults.Wrap(faults.ErrValidation, "parse cell reference", trimmed, convErr)
	}
	return row, col, nil
}

// ColumnNumber converts a column name ("A", "AB") to its 1-based index.
func ColumnNumber(name string) (int, error) {
	col, err := excelize.ColumnNameToNumber(strings.ToUpper(strings.TrimSpace(name)))
	if err != nil {
		return 0, faults.Wrap(faults.ErrValidation, "parse column name", name, err)
	}
	return col, nil
}

// MustColumn converts a column name known at compile time. It panics on
// malformed input and exists for package-level column layout tables.
func MustColumn(name string) int {
	col, err := ColumnNumber(name)
	if err != nil {
		panic(err)
	}
	return col
}

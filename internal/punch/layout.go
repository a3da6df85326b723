package punch

import (
	"punchtrack/internal/config"
	"punchtrack/internal/workbook"
)

// Column positions of the punch sheet. The layout is a versioned contract
// with the workbook template; replacement templates must keep the same
// column semantics.
var (
	colSerial        = workbook.MustColumn("A")
	colReference     = workbook.MustColumn("B")
	colDescription   = workbook.MustColumn("C")
	colCategory      = workbook.MustColumn("D")
	colCheckedBy     = workbook.MustColumn("E")
	colCheckedAt     = workbook.MustColumn("F")
	colImplementedBy = workbook.MustColumn("G")
	colImplementedAt = workbook.MustColumn("H")
	colClosedBy      = workbook.MustColumn("I")
	colClosedAt      = workbook.MustColumn("J")
)

// TimeLayout is the cell format for actor timestamps.
const TimeLayout = "2006-01-02 15:04:05"

// Layout locates punch data inside a workbook.
type Layout struct {
	Sheet    string
	StartRow int
	ScanCap  int
}

// DefaultLayout matches the stock workbook template.
func DefaultLayout() Layout {
	return Layout{Sheet: "Punch Sheet", StartRow: 8, ScanCap: 2000}
}

// LayoutFromConfig builds the layout from loaded configuration.
func LayoutFromConfig(cfg *config.Config) Layout {
	if cfg == nil {
		return DefaultLayout()
	}
	return Layout{
		Sheet:    cfg.Workbook.PunchSheet,
		StartRow: cfg.Workbook.PunchStartRow,
		ScanCap:  cfg.Workbook.ScanRowCap,
	}
}

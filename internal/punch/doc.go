// Package punch is the canonical store of defect records inside a cabinet
// workbook.
//
// One punch is one row in a fixed-layout sheet: serial number, checklist
// reference, description, category, and three actor/timestamp pairs for
// checked, implemented, and closed. Rows are append-only — serial numbers
// increase monotonically and are never reused, and undoing the annotation
// that logged a punch does not retract the row.
//
// All row scans start at the layout's start row and stop at the safety cap;
// exceeding the cap truncates the scan rather than erroring, which keeps a
// malformed sheet from hanging the tool.
package punch

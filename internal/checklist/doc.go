// Package checklist reads the assembly progress sheet of a cabinet workbook
// and derives the build phase from the highest completed reference number.
package checklist

// Package workbook wraps a cabinet workbook file behind an explicit Handle.
//
// The Handle owns the spreadsheet plus an exclusive advisory lock on a
// sidecar lock file, so "file is open elsewhere" surfaces as a retryable
// contention error at open time instead of a corrupted save later. All cell
// access goes through merged-range resolution: reading or writing anywhere
// inside a merged range addresses the range's top-left anchor.
//
// Cell references are letters+digits ("C8"); anything else is rejected as a
// fatal input error rather than guessed at.
package workbook

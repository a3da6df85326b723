// Package faults defines the error taxonomy shared by the stores.
//
// Input errors reject the operation before any write. Contention errors are
// retryable by the user and never retried automatically, since an automatic
// retry could overwrite a concurrent edit. Consistency-guard outcomes
// (duplicate submit, verify with no pending row) are boolean results on the
// store APIs, not errors.
package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks malformed input: bad cell references, missing
	// required fields. Fail fast, no partial write.
	ErrValidation = errors.New("validation error")

	// ErrContention marks a resource held by another process, typically the
	// workbook file. The caller should surface it and let the user retry.
	ErrContention = errors.New("resource busy")

	// ErrNotFound marks a missing record or sheet.
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error that includes operation context while tagging it with
// the provided marker for later classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsRetryable reports whether the error represents a contention condition the
// user can resolve by closing the other writer and retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrContention)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "store failure"
	}
	return strings.Join(parts, ": ")
}

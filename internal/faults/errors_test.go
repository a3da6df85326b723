package faults

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapPreservesMarker(t *testing.T) {
	inner := fmt.Errorf("file locked")
	err := Wrap(ErrContention, "workbook open", "CAB-1.xlsx", inner)
	if !errors.Is(err, ErrContention) {
		t.Fatalf("expected ErrContention, got %v", err)
	}
	if !errors.Is(err, inner) {
		t.Fatalf("expected inner error preserved, got %v", err)
	}
}

func TestWrapDefaultsToValidation(t *testing.T) {
	err := Wrap(nil, "parse ref", "bad column", nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation default, got %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(Wrap(ErrContention, "save", "", nil)) {
		t.Fatal("contention should be retryable")
	}
	if IsRetryable(Wrap(ErrValidation, "save", "", nil)) {
		t.Fatal("validation should not be retryable")
	}
}

package textutil

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  Loose   Terminal\tConnection ", "loose terminal connection"},
		{"MISSING LABEL", "missing label"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRatioIdentical(t *testing.T) {
	if got := Ratio("Loose terminal", "loose   TERMINAL"); got != 1 {
		t.Fatalf("normalized-identical strings should score 1, got %v", got)
	}
}

func TestRatioDisjoint(t *testing.T) {
	if got := Ratio("abc", "xyz"); got != 0 {
		t.Fatalf("disjoint strings should score 0, got %v", got)
	}
}

func TestRatioEmpty(t *testing.T) {
	if got := Ratio("", ""); got != 1 {
		t.Fatalf("two empty strings should score 1, got %v", got)
	}
	if got := Ratio("abc", ""); got != 0 {
		t.Fatalf("one empty string should score 0, got %v", got)
	}
}

func TestRatioPartial(t *testing.T) {
	// "loose terminal" vs "loose terminal connection": matching length 14,
	// combined length 14+24, ratio = 28/38.
	got := Ratio("loose terminal", "loose terminal connection")
	want := 2.0 * 14.0 / 38.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Ratio = %v, want %v", got, want)
	}
}

func TestRatioSymmetric(t *testing.T) {
	a, b := "missing cable tag", "cable tag missing"
	if Ratio(a, b) != Ratio(b, a) {
		t.Fatal("Ratio should be symmetric")
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := NewFingerprint("loose terminal connection at main breaker")
	b := NewFingerprint("terminal connection loose near breaker")
	c := NewFingerprint("paint scratch rear panel")

	if got := CosineSimilarity(a, a); math.Abs(got-1) > 1e-9 {
		t.Fatalf("self similarity should be 1, got %v", got)
	}
	if CosineSimilarity(a, b) <= CosineSimilarity(a, c) {
		t.Fatal("related text should outscore unrelated text")
	}
	if got := CosineSimilarity(nil, a); got != 0 {
		t.Fatalf("nil fingerprint should score 0, got %v", got)
	}
}

func TestTokenizeFiltersShortTokens(t *testing.T) {
	tokens := Tokenize("a DB-9 connector on I/O rail")
	for _, tok := range tokens {
		if len(tok) < 3 {
			t.Fatalf("short token %q should be filtered", tok)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := SanitizeFileName(`CAB/01: rev*2?`); got != "CAB-01- rev-2" {
		t.Fatalf("SanitizeFileName = %q", got)
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken("CAB 01/Rev.2"); got != "cab_01_rev_2" {
		t.Fatalf("SanitizeToken = %q", got)
	}
	if got := SanitizeToken("  "); got != "unknown" {
		t.Fatalf("empty input should yield unknown, got %q", got)
	}
}

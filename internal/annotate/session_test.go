package annotate_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"punchtrack/internal/annotate"
	"punchtrack/internal/faults"
	"punchtrack/internal/geometry"
)

func TestSessionSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := annotate.SessionPath(dir, "SO-4711", "CAB/01")

	s := annotate.NewSession("P-100", "SO-4711", "CAB/01", "drawings/cab01.pdf", 12)
	s.CurrentPage = 3
	s.Zoom = 1.5
	s.CurrentSerial = 7
	s.MarkLogged("5")

	a := annotate.New(annotate.KindStroke, 3,
		[]geometry.Point{{X: 12.5, Y: 40}, {X: 80, Y: 22.25}, {X: 55, Y: 90}},
		annotate.SeverityDefect)
	a.SerialNo = 7
	a.RowIndex = 14
	a.ExtractedText = "K3 relay"
	s.Add(a)

	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := annotate.LoadSession(path)
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if loaded.Project != "P-100" || loaded.CabinetNo != "CAB/01" {
		t.Fatalf("identity lost: %+v", loaded)
	}
	if loaded.CurrentPage != 3 || loaded.Zoom != 1.5 || loaded.CurrentSerial != 7 {
		t.Fatalf("view state lost: %+v", loaded)
	}
	if !loaded.Logged("5") {
		t.Fatal("logged reference set lost")
	}
	if len(loaded.Annotations) != 1 {
		t.Fatalf("annotations = %d", len(loaded.Annotations))
	}
	got := loaded.Annotations[0]
	if got.ID != a.ID || got.SerialNo != 7 || got.RowIndex != 14 {
		t.Fatalf("annotation identity lost: %+v", got)
	}
	if len(got.Points) != 3 || got.Points[1] != (geometry.Point{X: 80, Y: 22.25}) {
		t.Fatalf("points lost: %+v", got.Points)
	}
	if got.BBox != a.BBox {
		t.Fatalf("bbox %+v, want %+v", got.BBox, a.BBox)
	}
}

func TestSessionPathIsSanitized(t *testing.T) {
	path := annotate.SessionPath("/data/p100", "SO-4711", "CAB/01")
	base := filepath.Base(path)
	if base != "SO-4711_CAB-01_session.json" {
		t.Fatalf("session file name = %q", base)
	}
}

func TestLoadSessionMissing(t *testing.T) {
	_, err := annotate.LoadSession(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestLoadSessionCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := annotate.LoadSession(path); !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRemoveAndOnPage(t *testing.T) {
	s := annotate.NewSession("P", "SO", "C", "x.pdf", 2)
	a1 := annotate.New(annotate.KindHighlight, 0, nil, annotate.SeverityInformational)
	a2 := annotate.New(annotate.KindLabel, 1, nil, annotate.SeverityDefect)
	a3 := annotate.New(annotate.KindStroke, 1, nil, annotate.SeverityProcedural)
	s.Add(a1)
	s.Add(a2)
	s.Add(a3)

	if got := s.OnPage(1); len(got) != 2 {
		t.Fatalf("OnPage(1) = %d annotations", len(got))
	}
	if !s.Remove(a2.ID) {
		t.Fatal("Remove should report the annotation existed")
	}
	if s.Remove(a2.ID) {
		t.Fatal("second Remove should report absence")
	}
	if got := s.OnPage(1); len(got) != 1 || got[0].ID != a3.ID {
		t.Fatalf("OnPage(1) after remove = %+v", got)
	}
	if _, ok := s.Find(a1.ID); !ok {
		t.Fatal("Find lost an unrelated annotation")
	}
}

package annotate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"punchtrack/internal/faults"
	"punchtrack/internal/textutil"
)

// Session is the per-cabinet editing state, persisted wholesale as one JSON
// document next to the project files.
type Session struct {
	Project     string  `json:"project"`
	SalesOrder  string  `json:"sales_order"`
	CabinetNo   string  `json:"cabinet_no"`
	PDFPath     string  `json:"pdf_path"`
	PageCount   int     `json:"page_count"`
	CurrentPage int     `json:"current_page"`
	Zoom        float64 `json:"zoom"`

	// CurrentSerial is the punch serial the operator is working on;
	// LoggedRefs records checklist references already marked from this
	// session so re-logging is skipped.
	CurrentSerial int             `json:"current_serial"`
	LoggedRefs    map[string]bool `json:"logged_refs,omitempty"`

	Annotations []Annotation `json:"annotations"`

	SavedAt time.Time `json:"saved_at"`
}

// NewSession starts an empty session for one cabinet drawing.
func NewSession(project, salesOrder, cabinetNo, pdfPath string, pageCount int) *Session {
	return &Session{
		Project:    project,
		SalesOrder: salesOrder,
		CabinetNo:  cabinetNo,
		PDFPath:    pdfPath,
		PageCount:  pageCount,
		Zoom:       1.0,
		LoggedRefs: map[string]bool{},
	}
}

// SessionPath returns the canonical session file location for a cabinet
// inside a project directory.
func SessionPath(projectDir, salesOrder, cabinetNo string) string {
	name := textutil.SanitizeFileName(fmt.Sprintf("%s_%s_session.json", salesOrder, cabinetNo))
	return filepath.Join(projectDir, name)
}

// Add appends an annotation to the session.
func (s *Session) Add(a Annotation) {
	s.Annotations = append(s.Annotations, a)
}

// Remove deletes the annotation with the given id, reporting whether it
// existed.
func (s *Session) Remove(id string) bool {
	for i, a := range s.Annotations {
		if a.ID == id {
			s.Annotations = append(s.Annotations[:i], s.Annotations[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the annotation with the given id.
func (s *Session) Find(id string) (Annotation, bool) {
	for _, a := range s.Annotations {
		if a.ID == id {
			return a, true
		}
	}
	return Annotation{}, false
}

// OnPage returns the annotations of one page in stable creation order.
func (s *Session) OnPage(page int) []Annotation {
	var out []Annotation
	for _, a := range s.Annotations {
		if a.Page == page {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// AnnotatedPageCount returns how many distinct pages carry at least one
// annotation.
func (s *Session) AnnotatedPageCount() int {
	pages := map[int]bool{}
	for _, a := range s.Annotations {
		pages[a.Page] = true
	}
	return len(pages)
}

// MarkLogged records that a checklist reference was already marked from this
// session.
func (s *Session) MarkLogged(ref string) {
	if s.LoggedRefs == nil {
		s.LoggedRefs = map[string]bool{}
	}
	s.LoggedRefs[ref] = true
}

func (s *Session) Logged(ref string) bool {
	return s.LoggedRefs[ref]
}

// Save writes the session document atomically via a temp file rename.
func (s *Session) Save(path string) error {
	s.SavedAt = time.Now().UTC()
	payload, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

// LoadSession reads a session document written by Save.
func LoadSession(path string) (*Session, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, faults.Wrap(faults.ErrNotFound, "session load", path, err)
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, faults.Wrap(faults.ErrValidation, "session load",
			fmt.Sprintf("%s is not a session document", path), err)
	}
	return &s, nil
}

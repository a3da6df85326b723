package annotate

import (
	"time"

	"github.com/google/uuid"

	"punchtrack/internal/geometry"
)

// Kind classifies how an annotation was drawn.
type Kind string

const (
	KindHighlight Kind = "highlight"
	KindStroke    Kind = "stroke"
	KindLabel     Kind = "label"
)

// Severity classifies what an annotation flags.
type Severity string

const (
	SeverityInformational Severity = "informational"
	SeverityDefect        Severity = "defect"
	SeverityProcedural    Severity = "procedural"
)

// Annotation is one piece of markup on a drawing page. Points are stored in
// page space so a session survives zoom changes; BBox is derived from them.
type Annotation struct {
	ID       string           `json:"id"`
	Kind     Kind             `json:"kind"`
	Page     int              `json:"page"`
	Points   []geometry.Point `json:"points"`
	BBox     geometry.Rect    `json:"bbox"`
	Severity Severity         `json:"severity"`

	// Binding to a punch record, when established.
	SerialNo int `json:"serial_no,omitempty"`
	RowIndex int `json:"row_index,omitempty"`

	// ExtractedText is the drawing text under the annotation's region;
	// Text is the free-form body of label annotations.
	ExtractedText string `json:"extracted_text,omitempty"`
	Text          string `json:"text,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New builds an annotation with a fresh identifier and its bounding box
// computed from the points.
func New(kind Kind, page int, points []geometry.Point, severity Severity) Annotation {
	now := time.Now().UTC()
	return Annotation{
		ID:        uuid.NewString(),
		Kind:      kind,
		Page:      page,
		Points:    points,
		BBox:      geometry.BoundingBox(points),
		Severity:  severity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Bound reports whether the annotation is linked to a punch record.
func (a Annotation) Bound() bool {
	return a.SerialNo > 0
}

// MatchText returns the text the binder compares against punch
// descriptions: extracted drawing text first, label body as fallback.
func (a Annotation) MatchText() string {
	if a.ExtractedText != "" {
		return a.ExtractedText
	}
	return a.Text
}

package annotate

import (
	"context"
	"fmt"
	"log/slog"

	"punchtrack/internal/collab"
	"punchtrack/internal/geometry"
	"punchtrack/internal/logging"
	"punchtrack/internal/punch"
	"punchtrack/internal/textutil"
)

// Matcher scores the similarity of two texts in [0,1].
type Matcher interface {
	Score(a, b string) float64
}

// RatioMatcher scores with the difflib-style ratio over normalized text.
// It is the default matcher.
type RatioMatcher struct{}

func (RatioMatcher) Score(a, b string) float64 {
	return textutil.Ratio(textutil.Normalize(a), textutil.Normalize(b))
}

// TokenMatcher scores with cosine similarity over token fingerprints. It
// tolerates reordered words better than the ratio matcher.
type TokenMatcher struct{}

func (TokenMatcher) Score(a, b string) float64 {
	return textutil.CosineSimilarity(textutil.NewFingerprint(a), textutil.NewFingerprint(b))
}

// Binder links annotations to punch records. An exact serial match always
// wins; otherwise the annotation's text is fuzzy-matched against every punch
// description and the highest-scoring record at or above the threshold is
// chosen, earlier rows winning ties.
type Binder struct {
	matcher   Matcher
	threshold float64
	logger    *slog.Logger
}

func NewBinder(matcher Matcher, threshold float64, logger *slog.Logger) *Binder {
	if matcher == nil {
		matcher = RatioMatcher{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Binder{matcher: matcher, threshold: threshold, logger: logger}
}

// Bind resolves the punch record an annotation belongs to and stamps the
// annotation's SerialNo/RowIndex. It reports false when nothing matched.
func (b *Binder) Bind(a *Annotation, records []punch.Record) bool {
	if a.SerialNo > 0 {
		for _, rec := range records {
			if rec.SerialNo == a.SerialNo {
				a.RowIndex = rec.Row
				return true
			}
		}
		b.logger.Warn("annotation serial has no punch record", "serial_no", a.SerialNo)
		return false
	}

	text := a.MatchText()
	if text == "" {
		return false
	}
	best, score, ok := b.bestMatch(text, records)
	if !ok {
		return false
	}
	a.SerialNo = best.SerialNo
	a.RowIndex = best.Row
	b.logger.Debug("annotation bound by description",
		"serial_no", best.SerialNo, "score", fmt.Sprintf("%.2f", score))
	return true
}

// bestMatch scores text against every record and returns the highest-scoring
// one when it clears the threshold. Earlier rows win ties.
func (b *Binder) bestMatch(text string, records []punch.Record) (punch.Record, float64, bool) {
	var (
		best      punch.Record
		bestScore float64
		found     bool
	)
	for _, rec := range records {
		score := b.matcher.Score(text, rec.Description)
		if score > bestScore {
			best = rec
			bestScore = score
			found = true
		}
	}
	if !found || bestScore < b.threshold {
		return punch.Record{}, 0, false
	}
	return best, bestScore, true
}

// BindAll binds every unbound annotation in the session, returning how many
// were newly bound.
func (b *Binder) BindAll(s *Session, records []punch.Record) int {
	bound := 0
	for i := range s.Annotations {
		a := &s.Annotations[i]
		if a.Bound() && a.RowIndex > 0 {
			continue
		}
		if b.Bind(a, records) {
			bound++
		}
	}
	return bound
}

// FindForRecord runs the binding precedence in reverse: given a punch
// record, find the annotation that refers to it, by serial first and then by
// fuzzy text.
func (b *Binder) FindForRecord(rec punch.Record, annotations []Annotation) (Annotation, bool) {
	for _, a := range annotations {
		if a.SerialNo == rec.SerialNo && a.SerialNo > 0 {
			return a, true
		}
	}
	var (
		best      Annotation
		bestScore float64
		found     bool
	)
	for _, a := range annotations {
		text := a.MatchText()
		if text == "" {
			continue
		}
		if score := b.matcher.Score(text, rec.Description); score > bestScore {
			best = a
			bestScore = score
			found = true
		}
	}
	if !found || bestScore < b.threshold {
		return Annotation{}, false
	}
	return best, true
}

// FillExtractedText populates an annotation's extracted text from the
// drawing, expanding the bounding box by a small margin so clipped glyphs
// are still captured.
func FillExtractedText(ctx context.Context, extractor collab.TextExtractor, a *Annotation) error {
	const margin = 2.0
	region := geometry.Rect{
		MinX: a.BBox.MinX - margin,
		MinY: a.BBox.MinY - margin,
		MaxX: a.BBox.MaxX + margin,
		MaxY: a.BBox.MaxY + margin,
	}
	text, err := extractor.TextInRect(ctx, a.Page, region)
	if err != nil {
		return fmt.Errorf("extract text under annotation %s: %w", a.ID, err)
	}
	a.ExtractedText = text
	return nil
}

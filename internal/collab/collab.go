// Package collab declares the collaborator interfaces the annotation
// workflow consumes. Implementations live with the callers; tests use the
// fakes in testsupport.
package collab

import (
	"context"
	"image"

	"punchtrack/internal/geometry"
)

// PageRenderer rasterizes one document page at a uniform scale.
type PageRenderer interface {
	// RenderPage renders the zero-based page at the given scale. Size is
	// the unscaled page size in page units.
	RenderPage(ctx context.Context, page int, scale float64) (image.Image, error)
	PageCount() int
	PageSize(page int) (width, height float64, err error)
	Rotation(page int) (geometry.Rotation, error)
}

// TextExtractor pulls the text under a page-space region, used to seed an
// annotation's extracted text before binding.
type TextExtractor interface {
	TextInRect(ctx context.Context, page int, r geometry.Rect) (string, error)
}

// Authenticator resolves the acting user for operations that record an
// actor, such as sign-offs and hand-off transitions.
type Authenticator interface {
	CurrentUser(ctx context.Context) (string, error)
}

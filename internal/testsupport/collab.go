package testsupport

import (
	"context"
	"image"

	"punchtrack/internal/geometry"
)

// FakeRenderer is a canned PageRenderer for tests.
type FakeRenderer struct {
	Pages  int
	Width  float64
	Height float64
}

func (f *FakeRenderer) RenderPage(_ context.Context, page int, scale float64) (image.Image, error) {
	w := int(f.Width * scale)
	h := int(f.Height * scale)
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}

func (f *FakeRenderer) PageCount() int { return f.Pages }

func (f *FakeRenderer) PageSize(int) (float64, float64, error) {
	return f.Width, f.Height, nil
}

func (f *FakeRenderer) Rotation(int) (geometry.Rotation, error) {
	return geometry.Rotate0, nil
}

// FakeExtractor returns canned text per page and records the regions it was
// asked about.
type FakeExtractor struct {
	Text    map[int]string
	Queried []geometry.Rect
}

func (f *FakeExtractor) TextInRect(_ context.Context, page int, r geometry.Rect) (string, error) {
	f.Queried = append(f.Queried, r)
	return f.Text[page], nil
}

// FakeAuthenticator resolves a fixed user.
type FakeAuthenticator struct {
	User string
}

func (f *FakeAuthenticator) CurrentUser(context.Context) (string, error) {
	return f.User, nil
}

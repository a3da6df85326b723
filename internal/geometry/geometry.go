// Package geometry maps annotation coordinates between page space, device
// space, and the rotated output space used when compositing annotations into
// an exported document.
//
// Page space is the unrotated coordinate system annotations are stored in.
// Device space is page space scaled by the current zoom. Output space applies
// one of the four cardinal page rotations; the transforms here are exact
// inverses of each other up to floating point.
package geometry

import "fmt"

// Point is a coordinate in page or device space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned box with Min as top-left and Max as bottom-right.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// BoundingBox derives the enclosing rect of a point set.
func BoundingBox(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		if p.X < r.MinX {
			r.MinX = p.X
		}
		if p.Y < r.MinY {
			r.MinY = p.Y
		}
		if p.X > r.MaxX {
			r.MaxX = p.X
		}
		if p.Y > r.MaxY {
			r.MaxY = p.Y
		}
	}
	return r
}

// ToDevice scales a page-space point by the zoom factor.
func ToDevice(p Point, scale float64) Point {
	return Point{X: p.X * scale, Y: p.Y * scale}
}

// ToPage inverts ToDevice for the same scale.
func ToPage(p Point, scale float64) Point {
	return Point{X: p.X / scale, Y: p.Y / scale}
}

// Rotation is a cardinal page rotation in degrees.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// ParseRotation validates a degree value read from a document.
func ParseRotation(degrees int) (Rotation, error) {
	switch r := Rotation(((degrees % 360) + 360) % 360); r {
	case Rotate0, Rotate90, Rotate180, Rotate270:
		return r, nil
	default:
		return Rotate0, fmt.Errorf("rotation must be a multiple of 90, got %d", degrees)
	}
}

// Inverse returns the rotation that undoes r.
func (r Rotation) Inverse() Rotation {
	switch r {
	case Rotate90:
		return Rotate270
	case Rotate270:
		return Rotate90
	default:
		return r
	}
}

// RotatePoint maps a page-space point into the output space of a page with
// the given rotation. Width and height are the unrotated page dimensions.
func RotatePoint(p Point, r Rotation, width, height float64) Point {
	switch r {
	case Rotate90:
		return Point{X: p.Y, Y: width - p.X}
	case Rotate180:
		return Point{X: width - p.X, Y: height - p.Y}
	case Rotate270:
		return Point{X: height - p.Y, Y: p.X}
	default:
		return p
	}
}

// UnrotatePoint maps a point from output space back into page space. It is
// the exact inverse of RotatePoint for the same rotation and dimensions.
func UnrotatePoint(p Point, r Rotation, width, height float64) Point {
	switch r {
	case Rotate90:
		return Point{X: width - p.Y, Y: p.X}
	case Rotate180:
		return Point{X: width - p.X, Y: height - p.Y}
	case Rotate270:
		return Point{X: p.Y, Y: height - p.X}
	default:
		return p
	}
}

// RotatePoints transforms a stroke path point by point.
func RotatePoints(points []Point, r Rotation, width, height float64) []Point {
	if len(points) == 0 {
		return nil
	}
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = RotatePoint(p, r, width, height)
	}
	return out
}

// RotateRect transforms a bounding box by rotating its opposite corners and
// re-normalizing so Min stays top-left.
func RotateRect(rect Rect, r Rotation, width, height float64) Rect {
	a := RotatePoint(Point{X: rect.MinX, Y: rect.MinY}, r, width, height)
	b := RotatePoint(Point{X: rect.MaxX, Y: rect.MaxY}, r, width, height)
	return BoundingBox([]Point{a, b})
}

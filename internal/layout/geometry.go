// Package layout provides the reference-point layout engine: coordinate mapping between
// normalized, displayed and original pixel space, hit testing, drag handling and text placement.
package layout

import "math"

// Point is a position in displayed-pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PixelPoint is a position in original-image pixel space.
type PixelPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ReferencePoint is a position expressed as a percentage (0-100) of the image extent on each axis.
type ReferencePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DefaultReferencePoint is the center of the image.
var DefaultReferencePoint = ReferencePoint{X: 50, Y: 50}

// Clamp returns the point with both axes limited to [0, 100].
func (p ReferencePoint) Clamp() ReferencePoint {
	return ReferencePoint{X: clampPercent(p.X), Y: clampPercent(p.Y)}
}

// ImageExtent is the size of the uploaded image in original pixels.
type ImageExtent struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (e ImageExtent) Valid() bool {
	return e.Width > 0 && e.Height > 0
}

// DisplayExtent is the size of the rendered image in displayed pixels.
type DisplayExtent struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (d DisplayExtent) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// Rect is a box in displayed-pixel space.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextBounds is the text box reported in original-image pixel space.
type TextBounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the right edge of the reported box.
func (b TextBounds) Right() int {
	return b.X + b.Width
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

// roundHalfUp rounds to the nearest integer with ties going toward positive infinity,
// so -2.5 becomes -2 and 2.5 becomes 3.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

package layout

import (
	"errors"
	"math"
	"strings"
)

// ErrInvalidAnchorMode is returned for an unknown anchor mode name.
var ErrInvalidAnchorMode = errors.New("invalid anchor mode")

// AnchorMode positions the text box relative to the reference point.
type AnchorMode int

// Anchor modes.
const (
	AnchorCenter AnchorMode = iota
	AnchorLeft
	AnchorRight
)

// String returns the wire name of the mode.
func (m AnchorMode) String() string {
	switch m {
	case AnchorLeft:
		return "left"
	case AnchorRight:
		return "right"
	default:
		return "center"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m AnchorMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *AnchorMode) UnmarshalText(text []byte) error {
	parsed, err := ParseAnchorMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseAnchorMode parses "center", "left" or "right".
func ParseAnchorMode(s string) (AnchorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center":
		return AnchorCenter, nil
	case "left":
		return AnchorLeft, nil
	case "right":
		return AnchorRight, nil
	}
	return AnchorCenter, ErrInvalidAnchorMode
}

// TextSpec describes the label. Size is in logical pixels at original image scale.
type TextSpec struct {
	Content string     `json:"content"`
	Size    float64    `json:"size"`
	Color   string     `json:"color"`
	Mode    AnchorMode `json:"mode"`
}

// DefaultTextSpec returns the initial label configuration.
func DefaultTextSpec() TextSpec {
	return TextSpec{
		Content: "Sample Text",
		Size:    48,
		Color:   "#000000",
		Mode:    AnchorCenter,
	}
}

// TextMetrics is a measured text size in displayed pixels.
type TextMetrics struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Measurer measures a string at a font size, returning metrics in the same pixel space.
type Measurer interface {
	Measure(text string, size float64) TextMetrics
}

// TextLayout is the placed text.
type TextLayout struct {
	// Origin is where the text is drawn; Y is the baseline, on the horizontal reference line.
	Origin   Point      `json:"origin"`
	Display  Rect       `json:"display"`
	Reported TextBounds `json:"reported"`
}

// LayoutText places the text box relative to the reference point in displayed pixels.
//
// The reported bounds convert each of x, y, width and height to original pixels and round
// them independently, so Reported.Width can differ by one pixel from the rounded right edge
// minus the rounded left edge.
func LayoutText(mode AnchorMode, ref Point, m TextMetrics, d DisplayExtent, e ImageExtent) TextLayout {
	var textX float64
	switch mode {
	case AnchorLeft:
		textX = math.Max(0, ref.X-m.Width)
	case AnchorRight:
		textX = ref.X
	default:
		textX = ref.X - m.Width/2
	}
	textY := ref.Y

	box := Rect{
		X:      textX,
		Y:      textY - m.Height,
		Width:  m.Width,
		Height: m.Height,
	}

	return TextLayout{
		Origin:  Point{X: textX, Y: textY},
		Display: box,
		Reported: TextBounds{
			X:      displayToOriginal(box.X, d.Width, e.Width),
			Y:      displayToOriginal(box.Y, d.Height, e.Height),
			Width:  displayToOriginal(box.Width, d.Width, e.Width),
			Height: displayToOriginal(box.Height, d.Height, e.Height),
		},
	}
}

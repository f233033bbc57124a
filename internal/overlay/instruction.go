// Package overlay builds draw instruction lists for the reference-point editor and paints them.
package overlay

import (
	"fmt"
	"image/color"

	"github.com/kyiku/textpin-back/internal/layout"
)

// Kind is the primitive an Instruction draws.
type Kind string

// Primitive kinds accepted by the drawing sink.
const (
	KindLine       Kind = "line"
	KindArc        Kind = "arc"
	KindFillRect   Kind = "fill_rect"
	KindStrokeRect Kind = "stroke_rect"
	KindText       Kind = "text"
)

// Instruction is one primitive in displayed-pixel coordinates.
// Line uses From/To, Arc uses From as its center and Radius, the rect kinds use Rect and
// Text draws Text with its baseline starting at From.
type Instruction struct {
	Kind      Kind         `json:"kind"`
	From      layout.Point `json:"from"`
	To        layout.Point `json:"to,omitempty"`
	Rect      layout.Rect  `json:"rect,omitempty"`
	Radius    float64      `json:"radius,omitempty"`
	Text      string       `json:"text,omitempty"`
	FontSize  float64      `json:"font_size,omitempty"`
	LineWidth float64      `json:"line_width,omitempty"`
	Color     string       `json:"color"`
}

// Guide colors.
const (
	VerticalColor    = "#ff0000"
	HorizontalColor  = "#0000ff"
	PointColor       = "#008000"
	LabelColor       = "#000000"
	TextBackground   = "rgba(255,255,255,0.7)"
	TextBorder       = "rgba(0,0,0,0.5)"
	SimulationMarker = "rgba(0,128,0,0.5)"
)

const (
	guideLineWidth   = 2
	pointRadius      = 5
	previewRadius    = 4
	simulationRadius = 3
	labelFontSize    = 12
)

// Guides returns the live overlay: both reference lines, the intersection point, the coordinate
// labels and the text with its background and border.
func Guides(f layout.Frame, text layout.TextSpec) []Instruction {
	if !f.Ready {
		return nil
	}

	vx, hy := f.DisplayRef.X, f.DisplayRef.Y
	ins := []Instruction{
		{
			Kind:      KindLine,
			From:      layout.Point{X: vx, Y: 0},
			To:        layout.Point{X: vx, Y: f.Display.Height},
			LineWidth: guideLineWidth,
			Color:     VerticalColor,
		},
		{
			Kind:      KindLine,
			From:      layout.Point{X: 0, Y: hy},
			To:        layout.Point{X: f.Display.Width, Y: hy},
			LineWidth: guideLineWidth,
			Color:     HorizontalColor,
		},
		{
			Kind:   KindArc,
			From:   f.DisplayRef,
			Radius: pointRadius,
			Color:  PointColor,
		},
		{
			Kind:     KindText,
			From:     layout.Point{X: vx + 8, Y: 15},
			Text:     fmt.Sprintf("X = %d", f.OriginalRef.X),
			FontSize: labelFontSize,
			Color:    LabelColor,
		},
		{
			Kind:     KindText,
			From:     layout.Point{X: 5, Y: hy - 5},
			Text:     fmt.Sprintf("Y = %d", f.OriginalRef.Y),
			FontSize: labelFontSize,
			Color:    LabelColor,
		},
	}

	ins = append(ins, label(f, text)...)
	ins = append(ins, Instruction{
		Kind:      KindStrokeRect,
		Rect:      f.Text.Display,
		LineWidth: 1,
		Color:     TextBorder,
	})
	return ins
}

// Simulation returns how the finished template looks: the label and a faint reference dot.
func Simulation(f layout.Frame, text layout.TextSpec) []Instruction {
	if !f.Ready {
		return nil
	}

	ins := label(f, text)
	return append(ins, Instruction{
		Kind:   KindArc,
		From:   f.DisplayRef,
		Radius: simulationRadius,
		Color:  SimulationMarker,
	})
}

// Preview returns the confirmation preview: the reference marker and the label.
func Preview(f layout.Frame, text layout.TextSpec) []Instruction {
	if !f.Ready {
		return nil
	}

	ins := []Instruction{{
		Kind:   KindArc,
		From:   f.DisplayRef,
		Radius: previewRadius,
		Color:  PointColor,
	}}
	return append(ins, label(f, text)...)
}

func label(f layout.Frame, text layout.TextSpec) []Instruction {
	return []Instruction{
		{
			Kind:  KindFillRect,
			Rect:  f.Text.Display,
			Color: TextBackground,
		},
		{
			Kind:     KindText,
			From:     f.Text.Origin,
			Text:     text.Content,
			FontSize: f.FontSize,
			Color:    text.Color,
		},
	}
}

// ParseColor converts an instruction color to a color.Color. It accepts 3 or 6 digit hex
// strings and the rgba(r,g,b,a) form used for translucent guides.
func ParseColor(s string) (color.Color, error) {
	var r, g, b uint8
	var a float64
	if n, _ := fmt.Sscanf(s, "rgba(%d,%d,%d,%g)", &r, &g, &b, &a); n == 4 {
		return color.NRGBA{R: r, G: g, B: b, A: uint8(a*255 + 0.5)}, nil
	}
	return parseHex(s)
}

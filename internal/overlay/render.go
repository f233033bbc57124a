package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"

	"github.com/kyiku/textpin-back/internal/layout"
)

// ErrEmptyCanvas is returned when the display extent is smaller than one pixel.
var ErrEmptyCanvas = errors.New("display extent is empty")

// FaceSource provides font faces by pixel size.
type FaceSource interface {
	Face(size float64) (font.Face, error)
}

// Render scales img to the display extent and paints the instructions over it.
// A nil img renders the instructions on a transparent canvas.
func Render(img image.Image, d layout.DisplayExtent, ins []Instruction, faces FaceSource) (image.Image, error) {
	// Canvas sizes truncate like an HTML canvas does.
	w, h := int(d.Width), int(d.Height)
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyCanvas
	}

	dc := gg.NewContext(w, h)
	if img != nil {
		dc.DrawImage(imaging.Resize(img, w, h, imaging.Lanczos), 0, 0)
	}

	for i, in := range ins {
		if err := paint(dc, in, faces); err != nil {
			return nil, fmt.Errorf("instruction %d (%s): %w", i, in.Kind, err)
		}
	}

	return dc.Image(), nil
}

func paint(dc *gg.Context, in Instruction, faces FaceSource) error {
	c, err := ParseColor(in.Color)
	if err != nil {
		return err
	}
	dc.SetColor(c)

	switch in.Kind {
	case KindLine:
		dc.SetLineWidth(in.LineWidth)
		dc.DrawLine(in.From.X, in.From.Y, in.To.X, in.To.Y)
		dc.Stroke()
	case KindArc:
		dc.DrawCircle(in.From.X, in.From.Y, in.Radius)
		dc.Fill()
	case KindFillRect:
		dc.DrawRectangle(in.Rect.X, in.Rect.Y, in.Rect.Width, in.Rect.Height)
		dc.Fill()
	case KindStrokeRect:
		dc.SetLineWidth(in.LineWidth)
		dc.DrawRectangle(in.Rect.X, in.Rect.Y, in.Rect.Width, in.Rect.Height)
		dc.Stroke()
	case KindText:
		if in.Text == "" || in.FontSize <= 0 {
			return nil
		}
		face, err := faces.Face(in.FontSize)
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		dc.DrawString(in.Text, in.From.X, in.From.Y)
	default:
		return fmt.Errorf("unknown instruction kind %q", in.Kind)
	}
	return nil
}

func parseHex(s string) (color.Color, error) {
	normalized, err := layout.NormalizeHexColor(s)
	if err != nil {
		return nil, err
	}
	c, err := colorful.Hex(normalized)
	if err != nil {
		return nil, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

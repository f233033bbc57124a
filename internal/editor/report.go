package editor

import (
	"image"

	"github.com/kyiku/textpin-back/internal/layout"
	"github.com/kyiku/textpin-back/internal/overlay"
)

// Report is the state exposed to clients. Positions are in original-image pixels.
type Report struct {
	Ready          bool                  `json:"ready"`
	Image          layout.ImageExtent    `json:"image"`
	Display        layout.DisplayExtent  `json:"display"`
	Normalized     layout.ReferencePoint `json:"normalized"`
	ReferencePoint layout.PixelPoint     `json:"reference_point"`
	TextBounds     layout.TextBounds     `json:"text_bounds"`
	Text           layout.TextSpec       `json:"text"`
	Drag           layout.DragState      `json:"drag"`
	Status         string                `json:"status"`
	TemplateID     string                `json:"template_id,omitempty"`
	LastError      string                `json:"last_error,omitempty"`
}

// Report returns the current reference point and text bounds with the editor state.
func (e *Editor) Report() Report {
	f := e.Frame()
	return Report{
		Ready:          f.Ready,
		Image:          e.extent,
		Display:        e.display,
		Normalized:     e.point,
		ReferencePoint: f.OriginalRef,
		TextBounds:     f.Text.Reported,
		Text:           e.text,
		Drag:           e.drag.State(),
		Status:         e.template.Status,
		TemplateID:     e.template.TemplateID,
		LastError:      e.template.LastError,
	}
}

// Guides returns the live overlay instructions.
func (e *Editor) Guides() []overlay.Instruction {
	return overlay.Guides(e.Frame(), e.text)
}

// RenderOverlay paints the image at display size with the live overlay.
func (e *Editor) RenderOverlay() (image.Image, error) {
	if !e.HasImage() {
		return nil, ErrNoImage
	}
	return overlay.Render(e.img, e.display, e.Guides(), e.ts)
}

// RenderSimulation paints the image at display size as the finished template would look.
func (e *Editor) RenderSimulation() (image.Image, error) {
	if !e.HasImage() {
		return nil, ErrNoImage
	}
	return overlay.Render(e.img, e.display, overlay.Simulation(e.Frame(), e.text), e.ts)
}

// RenderPreview paints the confirmation preview at PreviewWidth.
func (e *Editor) RenderPreview() (image.Image, error) {
	if !e.HasImage() {
		return nil, ErrNoImage
	}

	s := e.Snapshot()
	s.Display = layout.FitWidth(PreviewWidth, e.extent)
	f := layout.Compute(s, e.ts)

	return overlay.Render(e.img, s.Display, overlay.Preview(f, e.text), e.ts)
}

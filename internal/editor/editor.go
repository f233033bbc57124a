// Package editor owns the state of one reference-point editing session and applies events to it.
package editor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/kyiku/textpin-back/internal/layout"
	"github.com/kyiku/textpin-back/internal/model"
	"github.com/kyiku/textpin-back/internal/overlay"
)

// PreviewWidth is the width of the confirmation preview in pixels.
const PreviewWidth = 300

var (
	// ErrNoImage is returned by operations that need an uploaded image.
	ErrNoImage = errors.New("no image loaded")
	// ErrSubmitting is returned while a submission is pending.
	ErrSubmitting = errors.New("submission already in progress")
	// ErrNotConfirming is returned when submitting without an open confirmation.
	ErrNotConfirming = errors.New("confirmation is not open")
)

// Typesetter measures text and provides faces to paint it with.
type Typesetter interface {
	layout.Measurer
	overlay.FaceSource
}

// ResizeSource notifies subscribers when the container size changes.
// Subscribe returns the function that removes the subscription.
type ResizeSource interface {
	Subscribe(fn func(layout.DisplayExtent)) (unsubscribe func())
}

// Editor holds the reference point, the text configuration and the image of one session.
// It is not safe for concurrent use; callers serialize access.
type Editor struct {
	ts Typesetter

	imageData []byte
	filename  string
	img       image.Image
	extent    layout.ImageExtent

	container layout.DisplayExtent
	display   layout.DisplayExtent

	point layout.ReferencePoint
	text  layout.TextSpec
	drag  layout.DragController

	template *model.Template
}

// New creates an Editor with the default reference point and text.
func New(ts Typesetter) *Editor {
	return &Editor{
		ts:       ts,
		point:    layout.DefaultReferencePoint,
		text:     layout.DefaultTextSpec(),
		template: model.NewTemplate(),
	}
}

// LoadImage decodes an uploaded image and makes it the current image.
// On failure the previous image is kept. The image cannot change while a submission is pending.
func (e *Editor) LoadImage(data []byte, filename string) error {
	if e.template.Submitting() {
		return ErrSubmitting
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return fmt.Errorf("failed to decode image: empty bounds %v", bounds)
	}

	e.imageData = data
	e.filename = filename
	e.img = img
	e.extent = layout.ImageExtent{Width: bounds.Dx(), Height: bounds.Dy()}
	e.drag.PointerUp()
	e.template.Reset()
	e.recomputeDisplay()
	return nil
}

// HasImage reports whether an image is loaded.
func (e *Editor) HasImage() bool {
	return e.img != nil
}

// Image returns the decoded image, or nil.
func (e *Editor) Image() image.Image {
	return e.img
}

// SetContainer sets the size of the area the image is displayed in.
func (e *Editor) SetContainer(c layout.DisplayExtent) {
	e.container = c
	e.recomputeDisplay()
}

// Attach subscribes the editor to container size changes. The returned detach function
// removes the subscription and may be called more than once.
func (e *Editor) Attach(src ResizeSource) (detach func()) {
	unsubscribe := src.Subscribe(e.SetContainer)
	var once sync.Once
	return func() {
		once.Do(unsubscribe)
	}
}

func (e *Editor) recomputeDisplay() {
	e.display = layout.FitDisplay(e.container, e.extent)
}

// SetContent sets the label text.
func (e *Editor) SetContent(s string) {
	e.text.Content = s
}

// SetTextSize parses and sets the text size. Invalid input leaves the size unchanged.
func (e *Editor) SetTextSize(s string) error {
	v, err := layout.ParseTextSize(s)
	if err != nil {
		return err
	}
	e.text.Size = v
	return nil
}

// SetTextSizeValue sets the text size. Negative sizes are clamped to 0.
func (e *Editor) SetTextSizeValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return layout.ErrInvalidTextSize
	}
	e.text.Size = math.Max(0, v)
	return nil
}

// SetColor validates and sets the text color. Invalid input leaves the color unchanged.
func (e *Editor) SetColor(s string) error {
	c, err := layout.NormalizeHexColor(s)
	if err != nil {
		return err
	}
	e.text.Color = c
	return nil
}

// SetMode sets the anchor mode by name.
func (e *Editor) SetMode(s string) error {
	m, err := layout.ParseAnchorMode(s)
	if err != nil {
		return err
	}
	e.text.Mode = m
	return nil
}

// SetPoint moves the reference point, clamped to [0, 100].
func (e *Editor) SetPoint(p layout.ReferencePoint) {
	e.point = p.Clamp()
}

// PointerDown starts a drag when the pointer is over a guide. It reports whether a drag started.
func (e *Editor) PointerDown(pos layout.Point, shift bool) bool {
	if !e.HasImage() {
		return false
	}
	e.point = e.drag.PointerDown(e.point, pos, shift, e.display)
	return e.drag.State().Active
}

// PointerMove moves the dragged guide.
func (e *Editor) PointerMove(pos layout.Point, shift bool) {
	if !e.HasImage() {
		return
	}
	e.point = e.drag.PointerMove(e.point, pos, shift, e.display)
}

// PointerUp ends the drag.
func (e *Editor) PointerUp() {
	e.drag.PointerUp()
}

// PointerLeave ends the drag when the pointer leaves the image area.
func (e *Editor) PointerLeave() {
	e.drag.PointerLeave()
}

// DragState returns the drag state.
func (e *Editor) DragState() layout.DragState {
	return e.drag.State()
}

// Snapshot returns the current state by value.
func (e *Editor) Snapshot() layout.Snapshot {
	return layout.Snapshot{
		Point:   e.point,
		Image:   e.extent,
		Display: e.display,
		Text:    e.text,
	}
}

// Frame computes the derived positions for the current state.
func (e *Editor) Frame() layout.Frame {
	return layout.Compute(e.Snapshot(), e.ts)
}

// Template returns a copy of the workflow record.
func (e *Editor) Template() model.Template {
	return *e.template
}

// Close releases the typesetter's faces when it holds any.
func (e *Editor) Close() error {
	if c, ok := e.ts.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

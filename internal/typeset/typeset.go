// Package typeset measures label text with the embedded Go Regular font.
package typeset

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/kyiku/textpin-back/internal/layout"
)

var (
	fontOnce    sync.Once
	regularFont *opentype.Font
	fontErr     error
)

// loadFont parses the embedded Go regular font once.
func loadFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		parsed, err := opentype.Parse(goregular.TTF)
		if err != nil {
			fontErr = fmt.Errorf("parse embedded font: %w", err)
			return
		}
		regularFont = parsed
	})
	return regularFont, fontErr
}

// MaxCachedFaces is how many face sizes a Typesetter keeps. The least recently used size is
// closed when a new one is needed. A render uses at most two sizes.
const MaxCachedFaces = 8

// Typesetter creates font faces and measures text. Faces are cached per size.
// The faces it returns must not be used from more than one goroutine at a time, so each
// editing session gets its own Typesetter.
type Typesetter struct {
	mu    sync.Mutex
	faces map[float64]font.Face
	order []float64 // least recently used first
}

// New creates a Typesetter backed by the embedded font.
func New() (*Typesetter, error) {
	if _, err := loadFont(); err != nil {
		return nil, err
	}
	return &Typesetter{faces: make(map[float64]font.Face)}, nil
}

// Face returns the face for a size in pixels (72 DPI, so points equal pixels).
func (t *Typesetter) Face(size float64) (font.Face, error) {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("invalid font size %v", size)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if face, ok := t.faces[size]; ok {
		t.touch(size)
		return face, nil
	}

	f, err := loadFont()
	if err != nil {
		return nil, err
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}

	if len(t.order) >= MaxCachedFaces {
		oldest := t.order[0]
		t.order = t.order[1:]
		_ = t.faces[oldest].Close()
		delete(t.faces, oldest)
	}
	t.faces[size] = face
	t.order = append(t.order, size)
	return face, nil
}

// touch marks size as the most recently used.
func (t *Typesetter) touch(size float64) {
	for i, s := range t.order {
		if s == size {
			t.order = append(append(t.order[:i:i], t.order[i+1:]...), size)
			return
		}
	}
}

// Cached returns how many faces are held.
func (t *Typesetter) Cached() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.faces)
}

// Measure returns the advance width of text and uses the font size as its height.
// A size the font cannot be built at measures as zero width.
func (t *Typesetter) Measure(text string, size float64) layout.TextMetrics {
	metrics := layout.TextMetrics{Height: size}
	if text == "" {
		return metrics
	}

	face, err := t.Face(size)
	if err != nil {
		return metrics
	}

	metrics.Width = fixedToFloat(font.MeasureString(face, text))
	return metrics
}

// Close releases all cached faces.
func (t *Typesetter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for size, face := range t.faces {
		_ = face.Close()
		delete(t.faces, size)
	}
	t.order = nil
	return nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Package submit builds the template submission payload and sends it to the template endpoint.
package submit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/kyiku/textpin-back/internal/layout"
)

// DefaultFilename is the file name the image is sent under.
const DefaultFilename = "image.png"

// ErrNoImage is returned when a payload has no image data.
var ErrNoImage = errors.New("no image data")

// Payload is the finalized template sent to the endpoint.
type Payload struct {
	Image          []byte
	Filename       string
	TextSize       float64
	ReferencePoint layout.PixelPoint
	Mode           layout.AnchorMode
	TextColor      string
}

// Encode writes the payload as a multipart form and returns the body and its content type.
func (p Payload) Encode() (*bytes.Buffer, string, error) {
	if len(p.Image) == 0 {
		return nil, "", ErrNoImage
	}

	filename := p.Filename
	if filename == "" {
		filename = DefaultFilename
	}

	ref, err := json.Marshal(p.ReferencePoint)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode reference point: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image part: %w", err)
	}
	if _, err := part.Write(p.Image); err != nil {
		return nil, "", fmt.Errorf("failed to write image part: %w", err)
	}

	fields := []struct {
		name  string
		value string
	}{
		{"textSize", strconv.FormatFloat(p.TextSize, 'f', -1, 64)},
		{"referencePoint", string(ref)},
		{"mode", p.Mode.String()},
		{"textColor", p.TextColor},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write %s: %w", f.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

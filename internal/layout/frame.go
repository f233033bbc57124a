package layout

// Snapshot is the immutable state the engine derives everything from.
type Snapshot struct {
	Point   ReferencePoint `json:"point"`
	Image   ImageExtent    `json:"image"`
	Display DisplayExtent  `json:"display"`
	Text    TextSpec       `json:"text"`
}

// Frame holds every value derived from a Snapshot.
type Frame struct {
	Ready       bool          `json:"ready"`
	Display     DisplayExtent `json:"display"`
	DisplayRef  Point         `json:"display_ref"`
	OriginalRef PixelPoint    `json:"original_ref"`
	FontSize    float64       `json:"font_size"`
	Metrics     TextMetrics   `json:"metrics"`
	Text        TextLayout    `json:"text"`
}

// Compute derives the display and original pixel positions and the text layout for s.
// Without an image or a display extent the returned frame is not Ready and carries zero values.
// The text height is the scaled font size, which is the line height the label is drawn with.
func Compute(s Snapshot, m Measurer) Frame {
	if !s.Image.Valid() || !s.Display.Valid() {
		return Frame{}
	}

	fontSize := ScaledFontSize(s.Text.Size, s.Display, s.Image)
	metrics := TextMetrics{Height: fontSize}
	if m != nil {
		metrics.Width = m.Measure(s.Text.Content, fontSize).Width
	}

	ref := ToDisplayPixels(s.Point, s.Display)

	return Frame{
		Ready:       true,
		Display:     s.Display,
		DisplayRef:  ref,
		OriginalRef: ToOriginalPixels(s.Point, s.Image),
		FontSize:    fontSize,
		Metrics:     metrics,
		Text:        LayoutText(s.Text.Mode, ref, metrics, s.Display, s.Image),
	}
}

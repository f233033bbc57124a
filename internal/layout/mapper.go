package layout

// ToDisplayPixels converts a normalized point to displayed-pixel space.
func ToDisplayPixels(p ReferencePoint, d DisplayExtent) Point {
	return Point{
		X: p.X / 100 * d.Width,
		Y: p.Y / 100 * d.Height,
	}
}

// ToOriginalPixels converts a normalized point to original-image pixels, rounded to integers.
func ToOriginalPixels(p ReferencePoint, e ImageExtent) PixelPoint {
	return PixelPoint{
		X: roundHalfUp(p.X / 100 * float64(e.Width)),
		Y: roundHalfUp(p.Y / 100 * float64(e.Height)),
	}
}

// FromDisplayPixels converts a displayed-pixel position to a normalized point.
// The result is clamped to [0, 100]; an axis with a non-positive extent maps to 0.
func FromDisplayPixels(px Point, d DisplayExtent) ReferencePoint {
	var p ReferencePoint
	if d.Width > 0 {
		p.X = px.X / d.Width * 100
	}
	if d.Height > 0 {
		p.Y = px.Y / d.Height * 100
	}
	return p.Clamp()
}

// ScaledFontSize converts a font size defined at original image scale to display scale.
func ScaledFontSize(base float64, d DisplayExtent, e ImageExtent) float64 {
	if e.Width <= 0 {
		return 0
	}
	return base * d.Width / float64(e.Width)
}

// FitDisplay returns the largest extent with the image's aspect ratio that fits the container.
// The width is tried first and the height shrinks it when the image would overflow vertically.
func FitDisplay(container DisplayExtent, e ImageExtent) DisplayExtent {
	if !e.Valid() || !container.Valid() {
		return DisplayExtent{}
	}

	aspect := float64(e.Width) / float64(e.Height)
	width := container.Width
	height := width / aspect

	if height > container.Height {
		height = container.Height
		width = height * aspect
	}

	return DisplayExtent{Width: width, Height: height}
}

// FitWidth returns the extent with the given width and the image's aspect ratio.
func FitWidth(width float64, e ImageExtent) DisplayExtent {
	if !e.Valid() || width <= 0 {
		return DisplayExtent{}
	}
	return DisplayExtent{
		Width:  width,
		Height: width * float64(e.Height) / float64(e.Width),
	}
}

// displayToOriginal scales a displayed-pixel length on one axis to original pixels.
func displayToOriginal(v, displayAxis float64, imageAxis int) int {
	if displayAxis <= 0 {
		return 0
	}
	return roundHalfUp(v / displayAxis * float64(imageAxis))
}

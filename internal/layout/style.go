package layout

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidColor is returned for a color that is not a 3 or 6 digit hex string.
	ErrInvalidColor = errors.New("invalid hex color")
	// ErrInvalidTextSize is returned for a non-numeric text size.
	ErrInvalidTextSize = errors.New("invalid text size")
)

var hexColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// NormalizeHexColor validates a hex color, adding the leading '#' when it is missing.
func NormalizeHexColor(s string) (string, error) {
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if !hexColorPattern.MatchString(s) {
		return "", ErrInvalidColor
	}
	return s, nil
}

// ParseTextSize parses a text size. Negative sizes are clamped to 0.
func ParseTextSize(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidTextSize
	}
	return math.Max(0, v), nil
}

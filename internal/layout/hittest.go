package layout

import "math"

// HitThreshold is the proximity, in displayed pixels, within which a draggable element is hit.
const HitThreshold = 10.0

// Target identifies a draggable element.
type Target int

// Draggable elements. TargetNone means the pointer is over nothing draggable.
const (
	TargetNone Target = iota
	TargetPoint
	TargetVertical
	TargetHorizontal
)

var targetNames = map[Target]string{
	TargetNone:       "none",
	TargetPoint:      "point",
	TargetVertical:   "vertical",
	TargetHorizontal: "horizontal",
}

// String returns the lowercase name of the target.
func (t Target) String() string {
	if name, ok := targetNames[t]; ok {
		return name
	}
	return "none"
}

// MarshalText implements encoding.TextMarshaler.
func (t Target) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode as TargetNone.
func (t *Target) UnmarshalText(text []byte) error {
	*t = TargetNone
	for target, name := range targetNames {
		if name == string(text) {
			*t = target
		}
	}
	return nil
}

// HitTest decides which element the pointer is over.
// The intersection point wins over the lines, and the vertical line wins over the horizontal one.
func HitTest(pointer, ref Point) Target {
	if pointer.Distance(ref) < HitThreshold {
		return TargetPoint
	}
	if math.Abs(pointer.X-ref.X) < HitThreshold {
		return TargetVertical
	}
	if math.Abs(pointer.Y-ref.Y) < HitThreshold {
		return TargetHorizontal
	}
	return TargetNone
}

package layout

import "math"

// DragState is the state of the drag state machine. The zero value is Idle.
type DragState struct {
	Active bool   `json:"active"`
	Mode   Target `json:"mode"`
}

// Idle is the state with no drag in progress.
var Idle = DragState{}

// Dragging returns the state for a drag of the given element.
func Dragging(mode Target) DragState {
	return DragState{Active: true, Mode: mode}
}

// DragController turns pointer events into reference point updates.
// It owns the drag session for the duration of one gesture; the reference point itself is
// owned by the caller and passed in by value.
type DragController struct {
	state DragState
}

// State returns the current drag state.
func (c *DragController) State() DragState {
	return c.state
}

// PointerDown starts a drag if the pointer is over a draggable element and applies the
// first update at pos. When nothing is hit the event is ignored and ref is returned unchanged.
func (c *DragController) PointerDown(ref ReferencePoint, pos Point, shift bool, d DisplayExtent) ReferencePoint {
	if !d.Valid() {
		return ref
	}

	mode := HitTest(pos, ToDisplayPixels(ref, d))
	if mode == TargetNone {
		return ref
	}

	c.state = Dragging(mode)
	return c.apply(ref, pos, shift, d)
}

// PointerMove updates the reference point while dragging. It is a no-op while idle.
func (c *DragController) PointerMove(ref ReferencePoint, pos Point, shift bool, d DisplayExtent) ReferencePoint {
	if !c.state.Active || !d.Valid() {
		return ref
	}
	return c.apply(ref, pos, shift, d)
}

// PointerUp ends the drag.
func (c *DragController) PointerUp() {
	c.state = Idle
}

// PointerLeave ends the drag when the pointer leaves the interactive area.
func (c *DragController) PointerLeave() {
	c.state = Idle
}

func (c *DragController) apply(ref ReferencePoint, pos Point, shift bool, d DisplayExtent) ReferencePoint {
	candidate := FromDisplayPixels(pos, d)
	next := ref

	switch c.state.Mode {
	case TargetPoint:
		if shift {
			// Move only the line nearest to the pointer, ties go to the vertical line.
			current := ToDisplayPixels(ref, d)
			if math.Abs(pos.X-current.X) <= math.Abs(pos.Y-current.Y) {
				next.X = candidate.X
			} else {
				next.Y = candidate.Y
			}
		} else {
			next.X = candidate.X
			next.Y = candidate.Y
		}
	case TargetVertical:
		next.X = candidate.X
	case TargetHorizontal:
		next.Y = candidate.Y
	}

	return next.Clamp()
}

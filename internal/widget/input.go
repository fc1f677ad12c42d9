package widget

import "math"

// PointerAction is the kind of a pointer event.
type PointerAction int

const (
	PointerPress PointerAction = iota
	PointerMove
	PointerRelease
)

// PointerEvent is a single pointer sample in widget-local coordinates.
type PointerEvent struct {
	Action PointerAction
	X, Y   float64
}

// HandlePointer rotates the ring by dragging. Press records the pointer's
// angle around the center and the current rotation; Move applies the angular
// difference to that baseline. Every event is consumed.
func (w *Widget) HandlePointer(ev PointerEvent) bool {
	switch ev.Action {
	case PointerPress:
		w.startAngle = w.angleAt(ev.X, ev.Y)
		w.dragBaseline = w.rotationAngle
	case PointerMove:
		diff := w.angleAt(ev.X, ev.Y) - w.startAngle
		w.rotationAngle = w.dragBaseline + diff
		w.invalidate()
	}
	return true
}

// angleAt is measured clockwise from 12 o'clock, in degrees.
func (w *Widget) angleAt(x, y float64) float32 {
	rad := math.Atan2(x-float64(w.width)/2, float64(w.height)/2-y)
	return float32(rad * 180 / math.Pi)
}

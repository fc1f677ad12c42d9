package widget

import (
	"image"
	"image/color"
	"math"
)

// Icon is the image drawn for every node. *ebiten.Image and image.Image both
// satisfy it.
type Icon interface {
	Bounds() image.Rectangle
}

// Composite selects how an icon is blended onto the surface.
type Composite int

const (
	// CompositeSourceOver is normal alpha blending.
	CompositeSourceOver Composite = iota
	// CompositeDestinationOut erases the destination where the icon is
	// opaque. The selected node is drawn this way.
	CompositeDestinationOut
)

// Paint styles the ring outline.
type Paint struct {
	Color       color.Color
	StrokeWidth float32
}

func DefaultRingPaint() Paint {
	return Paint{
		Color:       color.RGBA{R: 0x26, G: 0xa6, B: 0x9a, A: 0xff},
		StrokeWidth: 2,
	}
}

// IconOp places an icon. The surface is translated to (PivotX, PivotY),
// rotated by Rotation degrees, and the icon's top-left corner is drawn at
// (X, Y) in that rotated frame.
type IconOp struct {
	PivotX, PivotY float64
	Rotation       float64
	X, Y           float64
	Composite      Composite
}

// Canvas is the drawing surface the host hands to Draw.
type Canvas interface {
	StrokeCircle(cx, cy, radius float64, paint Paint)
	DrawIcon(icon Icon, op IconOp)
}

// Node is one laid out ring position. X and Y are the node center's offset
// from the widget center before the ring rotation is applied.
type Node struct {
	Index    int
	Angle    float64
	X, Y     float64
	Selected bool
}

// Frame is the geometry of one draw pass.
type Frame struct {
	CenterX, CenterY float64
	Expanded         bool
	Radius           float64
	Rotation         float64
	Nodes            []Node
}

// Measure records the size the host laid the widget out at.
func (w *Widget) Measure(width, height int) {
	w.width, w.height = width, height
}

func (w *Widget) Size() (int, int) { return w.width, w.height }

func (w *Widget) SetRingPaint(p Paint) {
	w.ringPaint = p
	w.invalidate()
}

func (w *Widget) RingPaint() Paint { return w.ringPaint }

// Layout computes the frame for an icon of the given size. It has no side
// effects. A non-positive node count yields an empty ring.
func (w *Widget) Layout(iconSize image.Point) Frame {
	f := Frame{
		CenterX:  float64(w.width / 2),
		CenterY:  float64(w.height / 2),
		Expanded: w.expanded,
		Rotation: float64(w.rotationAngle),
	}
	if !w.expanded {
		return f
	}

	radiusOffset := max(iconSize.X/2, iconSize.Y/2)
	f.Radius = float64(min(w.width/2, w.height/2)-radiusOffset) * float64(w.scaleFactor)

	if w.nodeCount <= 0 {
		return f
	}
	step := 2 * math.Pi / float64(w.nodeCount)
	f.Nodes = make([]Node, w.nodeCount)
	for i := range f.Nodes {
		angle := step * float64(i)
		f.Nodes[i] = Node{
			Index:    i,
			Angle:    angle,
			X:        f.Radius * math.Cos(angle),
			Y:        f.Radius * math.Sin(angle),
			Selected: i == w.selectedIndex,
		}
	}
	return f
}

// Draw renders the current state onto c. The icon is loaded on first use.
// Without an icon only the outline of an expanded ring is drawn, sized as if
// the icon had no extent.
func (w *Widget) Draw(c Canvas) {
	icon := w.ensureIcon()
	var size image.Point
	if icon != nil {
		size = icon.Bounds().Size()
	}
	halfW, halfH := float64(size.X/2), float64(size.Y/2)
	f := w.Layout(size)

	if !f.Expanded {
		if icon != nil {
			c.DrawIcon(icon, IconOp{PivotX: f.CenterX, PivotY: f.CenterY, X: -halfW, Y: -halfH})
		}
		return
	}

	c.StrokeCircle(f.CenterX, f.CenterY, f.Radius, w.ringPaint)
	if icon == nil {
		return
	}
	for _, n := range f.Nodes {
		op := IconOp{
			PivotX:   f.CenterX,
			PivotY:   f.CenterY,
			Rotation: f.Rotation,
			X:        n.X - halfW,
			Y:        n.Y - halfH,
		}
		if n.Selected {
			op.Composite = CompositeDestinationOut
		}
		c.DrawIcon(icon, op)
	}
}

func (w *Widget) ensureIcon() Icon {
	if w.icon != nil {
		return w.icon
	}
	if w.loadIcon == nil {
		return nil
	}
	icon, err := w.loadIcon()
	if err != nil {
		// log each distinct failure once; retried on the next draw
		if w.iconErr == nil || w.iconErr.Error() != err.Error() {
			w.log.Error("load icon", "err", err)
		}
		w.iconErr = err
		return nil
	}
	w.icon, w.iconErr = icon, nil
	return w.icon
}

// SetIconLoader swaps the icon source. The cached icon is released and the
// new loader runs on the next Draw.
func (w *Widget) SetIconLoader(load func() (Icon, error)) {
	if d, ok := w.icon.(interface{ Deallocate() }); ok {
		d.Deallocate()
	}
	w.icon = nil
	w.iconErr = nil
	w.loadIcon = load
	w.invalidate()
}

// Package render draws the widget with ebiten.
package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/circle-expandable/internal/widget"
)

// Canvas implements widget.Canvas on top of an ebiten image. OffsetX/Y place
// the widget's local origin on the screen.
type Canvas struct {
	Dst              *ebiten.Image
	OffsetX, OffsetY float64
}

func NewCanvas(dst *ebiten.Image, offsetX, offsetY float64) *Canvas {
	return &Canvas{Dst: dst, OffsetX: offsetX, OffsetY: offsetY}
}

func (c *Canvas) StrokeCircle(cx, cy, radius float64, paint widget.Paint) {
	if radius <= 0 {
		return
	}
	vector.StrokeCircle(c.Dst,
		float32(cx+c.OffsetX), float32(cy+c.OffsetY), float32(radius),
		paint.StrokeWidth, paint.Color, true)
}

func (c *Canvas) DrawIcon(icon widget.Icon, op widget.IconOp) {
	img, ok := icon.(*ebiten.Image)
	if !ok {
		return
	}
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(op.X, op.Y)
	opts.GeoM.Rotate(op.Rotation * math.Pi / 180)
	opts.GeoM.Translate(op.PivotX+c.OffsetX, op.PivotY+c.OffsetY)
	opts.Filter = ebiten.FilterLinear
	if op.Composite == widget.CompositeDestinationOut {
		opts.Blend = ebiten.BlendDestinationOut
	}
	c.Dst.DrawImage(img, opts)
}

package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/circle-expandable/internal/config"
	"github.com/iburimskiy/circle-expandable/internal/render"
)

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawBackground(screen)
	g.drawWidget(screen)

	for _, b := range g.buttons {
		drawButton(screen, b)
	}

	ebitenutil.DebugPrintAt(screen, g.status(), 12, 12)
}

func (g *Game) drawBackground(screen *ebiten.Image) {
	h := g.cfg.Window.Height
	for y := 0; y < h; y++ {
		ratio := float64(y) / float64(h)
		c := color.RGBA{
			R: uint8(18 + 14*ratio),
			G: uint8(22 + 18*ratio),
			B: uint8(34 + 30*ratio),
			A: 255,
		}
		vector.StrokeLine(screen, 0, float32(y), float32(g.cfg.Window.Width), float32(y), 1, c, false)
	}
	// panel behind the widget so the selected node's cut-out shows through
	vector.DrawFilledRect(screen,
		float32(g.widgetX), float32(g.widgetY), config.WidgetSize, config.WidgetSize,
		color.RGBA{R: 40, G: 48, B: 66, A: 255}, false)
}

// drawWidget renders the widget into its own layer, re-rendering only after
// the widget asked for a redraw, then composites the layer onto the screen.
func (g *Game) drawWidget(screen *ebiten.Image) {
	if g.layer == nil {
		g.layer = ebiten.NewImage(config.WidgetSize, config.WidgetSize)
		g.dirty = true
	}
	if g.dirty {
		g.layer.Clear()
		g.widget.Draw(render.NewCanvas(g.layer, 0, 0))
		g.dirty = false
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(float64(g.widgetX), float64(g.widgetY))
	screen.DrawImage(g.layer, opts)
}

func drawButton(screen *ebiten.Image, b *button) {
	var bgColor color.Color
	switch {
	case !b.isEnabled():
		bgColor = color.RGBA{R: 70, G: 76, B: 90, A: 255} // Disabled
	case b.pressed:
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255} // Pressed
	case b.hovered:
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255} // Hovered
	default:
		bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 255} // Normal
	}

	vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), bgColor, false)

	borderColor := color.RGBA{R: 150, G: 170, B: 200, A: 255}
	vector.StrokeRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), 2, borderColor, false)

	text := b.label()
	textWidth := len(text) * 6 // debug font glyph width
	textX := b.x + (b.w-textWidth)/2
	textY := b.y + (b.h-16)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}

func (g *Game) status() string {
	w := g.widget
	selected := "none"
	if i := w.SelectedIndex(); i >= 0 {
		selected = fmt.Sprint(i)
	}
	status := fmt.Sprintf("%s | nodes: %d | selected: %s | rotation: %.1f deg",
		w.Phase(), w.NodeCount(), selected, w.RotationAngle())
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	return status
}

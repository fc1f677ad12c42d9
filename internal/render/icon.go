package render

import (
	"fmt"
	"image/color"
	_ "image/png"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/circle-expandable/internal/widget"
)

const (
	sunSize  = 48
	sunRays  = 12
	sunCore  = 11
	rayInner = 14
	rayOuter = 22
)

// SunIcon returns a loader for the built-in icon: a filled disc with rays.
func SunIcon() func() (widget.Icon, error) {
	return func() (widget.Icon, error) {
		img := ebiten.NewImage(sunSize, sunSize)
		c := float32(sunSize) / 2
		body := color.RGBA{R: 0xff, G: 0xb3, B: 0x00, A: 0xff}

		vector.DrawFilledCircle(img, c, c, sunCore, body, true)
		for i := 0; i < sunRays; i++ {
			angle := float64(i) * (2 * math.Pi / sunRays)
			x1 := c + float32(math.Cos(angle)*rayInner)
			y1 := c + float32(math.Sin(angle)*rayInner)
			x2 := c + float32(math.Cos(angle)*rayOuter)
			y2 := c + float32(math.Sin(angle)*rayOuter)
			vector.StrokeLine(img, x1, y1, x2, y2, 3, body, true)
		}
		return img, nil
	}
}

// FileIcon returns a loader reading a PNG icon from path.
func FileIcon(path string) func() (widget.Icon, error) {
	return func() (widget.Icon, error) {
		img, _, err := ebitenutil.NewImageFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("load icon %s: %w", path, err)
		}
		return img, nil
	}
}

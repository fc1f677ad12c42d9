// Package game is the demo screen around the circle widget: a row of buttons
// and keyboard shortcuts driving the widget's public operations, mouse drag
// forwarded as pointer input, and state kept across runs.
package game

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/circle-expandable/internal/config"
	"github.com/iburimskiy/circle-expandable/internal/render"
	"github.com/iburimskiy/circle-expandable/internal/sound"
	"github.com/iburimskiy/circle-expandable/internal/store"
	"github.com/iburimskiy/circle-expandable/internal/widget"
)

// ringHue is the outline hue; only its brightness follows the click level.
const ringHue = 174

// Game implements ebiten.Game.
type Game struct {
	cfg    config.Config
	log    *slog.Logger
	player *sound.Player
	store  *store.Store

	widget  *widget.Widget
	widgetX int
	widgetY int
	layer   *ebiten.Image
	dirty   bool

	// screen-side mirror of the widget, kept the way the buttons see it
	expanded  bool
	nodeCount int

	buttons []*button
	dialogs dialogs

	// pointer
	dragging   bool
	lastCursor [2]int

	// input edge detection
	prevKey map[ebiten.Key]bool

	lastErr error
}

// Options are the collaborators the screen needs. Player and Store may be
// nil: the screen then runs silent and forgets state on exit.
type Options struct {
	Config config.Config
	Logger *slog.Logger
	Player *sound.Player
	Store  *store.Store
	Widget []widget.Option
}

func New(opts Options) *Game {
	g := &Game{
		cfg:     opts.Config,
		log:     opts.Logger,
		player:  opts.Player,
		store:   opts.Store,
		prevKey: map[ebiten.Key]bool{},
		dialogs: zenityDialogs{},
		dirty:   true,
	}
	if g.log == nil {
		g.log = slog.Default()
	}

	icon := render.SunIcon()
	if opts.Config.Widget.Icon != "" {
		icon = render.FileIcon(opts.Config.Widget.Icon)
	}
	wopts := []widget.Option{
		widget.WithLogger(g.log.With("component", "widget")),
		widget.WithIconLoader(icon),
		widget.WithInvalidate(func() { g.dirty = true }),
	}
	wopts = append(wopts, opts.Widget...)

	g.widget = widget.New(widget.Config{
		NodeCount: opts.Config.Widget.NodeCount,
		Expanded:  opts.Config.Widget.Expanded,
	}, wopts...)
	g.widget.Measure(config.WidgetSize, config.WidgetSize)
	g.widgetX = (opts.Config.Window.Width - config.WidgetSize) / 2
	g.widgetY = config.WidgetY

	g.syncFromWidget()

	if g.store != nil && opts.Config.State.Restore {
		g.restore()
	}

	g.buttons = g.newButtons()
	return g
}

func (g *Game) Widget() *widget.Widget { return g.widget }

func (g *Game) Update() error {

	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	mouseX, mouseY := ebiten.CursorPosition()
	g.updateButtons(mouseX, mouseY)
	g.updatePointer(mouseX, mouseY)

	if justPressed(ebiten.KeySpace) {
		g.run(g.toggleExpanded, 1.25)
	}
	if justPressed(ebiten.KeyRight) {
		g.run(g.rotateClockwise, 1.5)
	}
	if justPressed(ebiten.KeyLeft) {
		g.run(g.rotateCounterClockwise, 1.4)
	}
	if justPressed(ebiten.KeyEqual) || justPressed(ebiten.KeyKPAdd) {
		g.run(g.addNode, 1.0)
	}
	if (justPressed(ebiten.KeyMinus) || justPressed(ebiten.KeyKPSubtract)) && g.nodeCount > 0 {
		g.run(g.removeNode, 0.8)
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	g.widget.Update()
	g.updateRingPaint()
	return nil
}

func (g *Game) updateButtons(mouseX, mouseY int) {
	for _, b := range g.buttons {
		b.hovered = b.contains(mouseX, mouseY) && b.isEnabled()
		if b.hovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			b.pressed = true
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			if b.pressed && b.hovered {
				g.run(b.onClick, b.pitch)
			}
			b.pressed = false
		}
	}
}

// updatePointer forwards a drag that started inside the widget area, in
// widget-local coordinates.
func (g *Game) updatePointer(mouseX, mouseY int) {
	localX := float64(mouseX - g.widgetX)
	localY := float64(mouseY - g.widgetY)

	inside := localX >= 0 && localY >= 0 && localX < config.WidgetSize && localY < config.WidgetSize
	if inside && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragging = true
		g.lastCursor = [2]int{mouseX, mouseY}
		g.widget.HandlePointer(widget.PointerEvent{Action: widget.PointerPress, X: localX, Y: localY})
		return
	}
	if !g.dragging {
		return
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.dragging = false
		g.widget.HandlePointer(widget.PointerEvent{Action: widget.PointerRelease, X: localX, Y: localY})
		return
	}
	if [2]int{mouseX, mouseY} != g.lastCursor {
		g.lastCursor = [2]int{mouseX, mouseY}
		g.widget.HandlePointer(widget.PointerEvent{Action: widget.PointerMove, X: localX, Y: localY})
	}
}

func (g *Game) updateRingPaint() {
	paint := g.widget.RingPaint()
	next := ringColor(ringHue, g.player.Level())
	if paint.Color != next {
		paint.Color = next
		g.widget.SetRingPaint(paint)
	}
}

// run executes a screen action, plays its click and keeps the last error for
// the status line.
func (g *Game) run(action func() error, pitch float64) {
	g.player.Click(pitch)
	if err := action(); err != nil {
		g.log.Warn("action failed", "err", err)
		g.lastErr = err
		return
	}
	g.lastErr = nil
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

// Close persists the widget and releases its resources. Running animations
// are finished first so a restart never resumes from a half-drawn ring.
func (g *Game) Close() error {
	g.widget.Finish()
	var err error
	if g.store != nil {
		err = g.save()
	}
	g.widget.Close()
	if g.layer != nil {
		g.layer.Deallocate()
		g.layer = nil
	}
	return err
}

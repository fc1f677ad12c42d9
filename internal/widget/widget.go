// Package widget implements the circle expandable view: a ring of icon nodes
// that expands from and collapses into a single icon, rotates in 45 degree
// steps or by dragging, and highlights one selected node.
//
// The widget is host agnostic. A host measures it, forwards pointer events,
// calls Update once per frame and hands Draw a Canvas. All calls are expected
// on one goroutine; nothing in here locks.
package widget

import (
	"log/slog"
	"time"

	"github.com/iburimskiy/circle-expandable/internal/anim"
)

const (
	DefaultNodes    = 3
	DefaultExpanded = true
	NotSelected     = -1

	MaxScaleFactor float32 = 1
	MinScaleFactor float32 = 0

	// RotationStep is the angle in degrees one RotateClockwise adds.
	RotationStep = 45
)

// Phase is the position of the widget in its expand/collapse cycle.
type Phase int

const (
	Collapsed Phase = iota
	Expanding
	Expanded
	Collapsing
)

func (p Phase) String() string {
	switch p {
	case Collapsed:
		return "collapsed"
	case Expanding:
		return "expanding"
	case Expanded:
		return "expanded"
	case Collapsing:
		return "collapsing"
	}
	return "unknown"
}

// Config carries the construction attributes (cev_nodeCount, cev_expanded).
type Config struct {
	NodeCount int
	Expanded  bool
}

func DefaultConfig() Config {
	return Config{NodeCount: DefaultNodes, Expanded: DefaultExpanded}
}

// Option customizes a Widget at construction.
type Option func(*Widget)

func WithClock(c anim.Clock) Option {
	return func(w *Widget) { w.clock = c }
}

// WithIconLoader sets how the icon is produced. It is called lazily on the
// first Draw and the result is cached for the widget's lifetime.
func WithIconLoader(load func() (Icon, error)) Option {
	return func(w *Widget) { w.loadIcon = load }
}

// WithInvalidate registers the host's redraw request hook.
func WithInvalidate(fn func()) Option {
	return func(w *Widget) { w.onInvalidate = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Widget) { w.log = l }
}

func WithDuration(d time.Duration) Option {
	return func(w *Widget) { w.duration = d }
}

type Widget struct {
	selectedIndex int
	expanded      bool
	nodeCount     int

	// draw values
	scaleFactor   float32
	rotationAngle float32

	// touch values
	startAngle    float32
	dragBaseline  float32
	rotationStart float32

	width, height int

	expandAnim   anim.Animation
	collapseAnim anim.Animation
	rotateAnim   anim.Animation

	ringPaint Paint
	icon      Icon
	loadIcon  func() (Icon, error)
	iconErr   error

	clock        anim.Clock
	duration     time.Duration
	onInvalidate func()
	log          *slog.Logger
}

// New builds a widget and applies cfg the same way host attributes are
// applied: node count first, then Expand or Collapse. A widget configured
// collapsed therefore animates into the collapsed state.
func New(cfg Config, opts ...Option) *Widget {
	w := &Widget{
		selectedIndex: NotSelected,
		expanded:      DefaultExpanded,
		nodeCount:     DefaultNodes,
		scaleFactor:   MaxScaleFactor,
		ringPaint:     DefaultRingPaint(),
		clock:         anim.SystemClock{},
		duration:      anim.DefaultDuration,
		log:           slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.initAnimations()

	w.SetNodeCount(cfg.NodeCount)
	if cfg.Expanded {
		w.Expand()
	} else {
		w.Collapse()
	}
	return w
}

func (w *Widget) initAnimations() {
	w.expandAnim = anim.Animation{
		From:     float64(MinScaleFactor),
		To:       float64(MaxScaleFactor),
		Duration: w.duration,
		Easing:   anim.Decelerate,
		OnUpdate: w.setScale,
	}

	w.collapseAnim = anim.Animation{
		From:     float64(MaxScaleFactor),
		To:       float64(MinScaleFactor),
		Duration: w.duration,
		Easing:   anim.Decelerate,
		OnUpdate: w.setScale,
		// Cancel fires OnEnd as well, so an interrupted collapse still
		// finishes in the collapsed state.
		OnEnd: func() { w.expanded = false },
	}

	w.rotateAnim = anim.Animation{
		From:     0,
		Duration: w.duration,
		Easing:   anim.Decelerate,
		OnStart:  func() { w.rotationStart = w.rotationAngle },
		OnUpdate: func(v float64) {
			w.rotationAngle = w.rotationStart + float32(v)
			w.invalidate()
		},
	}
}

func (w *Widget) setScale(v float64) {
	w.scaleFactor = float32(v)
	w.invalidate()
}

func (w *Widget) invalidate() {
	if w.onInvalidate != nil {
		w.onInvalidate()
	}
}

// Update advances every running animation to the clock's current time.
func (w *Widget) Update() {
	now := w.clock.Now()
	w.expandAnim.Tick(now)
	w.collapseAnim.Tick(now)
	w.rotateAnim.Tick(now)
}

// Animating reports whether any animation is in flight.
func (w *Widget) Animating() bool {
	return w.expandAnim.Running() || w.collapseAnim.Running() || w.rotateAnim.Running()
}

// Stop cancels all in-flight animations, as a host does when the widget is
// detached. A cancelled collapse still lands in the collapsed state.
func (w *Widget) Stop() {
	w.expandAnim.Cancel()
	w.collapseAnim.Cancel()
	w.rotateAnim.Cancel()
}

// Finish completes all in-flight animations at their end values. A host
// calls it before snapshotting so the saved state is a resting one.
func (w *Widget) Finish() {
	w.expandAnim.Finish()
	w.collapseAnim.Finish()
	w.rotateAnim.Finish()
}

// SetSelectedIndex selects node i. Indices outside [0, NodeCount) clear the
// selection instead.
func (w *Widget) SetSelectedIndex(i int) {
	if i < 0 || i >= w.nodeCount {
		w.selectedIndex = NotSelected
	} else {
		w.selectedIndex = i
	}
	w.invalidate()
}

func (w *Widget) SelectedIndex() int { return w.selectedIndex }

// SetNodeCount replaces the node count. The selection is not revalidated: a
// selection beyond the new count stays until the next SetSelectedIndex.
func (w *Widget) SetNodeCount(n int) {
	w.nodeCount = n
	w.invalidate()
}

func (w *Widget) NodeCount() int { return w.nodeCount }

func (w *Widget) IsExpanded() bool { return w.expanded }

func (w *Widget) ScaleFactor() float32 { return w.scaleFactor }

func (w *Widget) RotationAngle() float32 { return w.rotationAngle }

func (w *Widget) Phase() Phase {
	switch {
	case !w.expanded:
		return Collapsed
	case w.collapseAnim.Running():
		return Collapsing
	case w.expandAnim.Running():
		return Expanding
	default:
		return Expanded
	}
}

// Expand shows the ring and grows it from the center. No-op while expanded
// or collapsing.
func (w *Widget) Expand() {
	if w.expanded {
		return
	}
	w.expanded = true
	w.log.Debug("expand", "nodes", w.nodeCount)
	w.expandAnim.Start(w.clock.Now())
}

// Collapse shrinks the ring into the center. The ring stays visible while it
// shrinks; the expanded flag drops once the animation ends or is cancelled.
func (w *Widget) Collapse() {
	if !w.expanded || w.collapseAnim.Running() {
		return
	}
	w.expandAnim.Cancel()
	w.log.Debug("collapse", "scale", w.scaleFactor)
	w.collapseAnim.Start(w.clock.Now())
}

func (w *Widget) RotateClockwise() {
	w.rotate(RotationStep)
}

func (w *Widget) RotateCounterClockwise() {
	w.rotate(-RotationStep)
}

// rotate animates by delta degrees relative to the angle at the moment the
// animation starts. A rotation already in flight is superseded, not summed.
func (w *Widget) rotate(delta float64) {
	w.rotateAnim.Cancel()
	w.rotateAnim.To = delta
	w.log.Debug("rotate", "from", w.rotationAngle, "delta", delta)
	w.rotateAnim.Start(w.clock.Now())
}

// Close releases the cached icon.
func (w *Widget) Close() {
	w.Stop()
	if d, ok := w.icon.(interface{ Deallocate() }); ok {
		d.Deallocate()
	}
	w.icon = nil
}

// Capabilities a host drives the widget through.
type (
	Drawable interface {
		Measure(width, height int)
		Draw(c Canvas)
	}

	InputConsumer interface {
		HandlePointer(ev PointerEvent) bool
	}

	StateSnapshottable interface {
		SaveState(super []byte) *SavedState
		RestoreState(state any) any
	}
)

var (
	_ Drawable           = (*Widget)(nil)
	_ InputConsumer      = (*Widget)(nil)
	_ StateSnapshottable = (*Widget)(nil)
)

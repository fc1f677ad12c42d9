package widget

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/circle-expandable/internal/anim"
)

type iconCall struct {
	icon Icon
	op   IconOp
}

type circleCall struct {
	cx, cy, r float64
	paint     Paint
}

// recordingCanvas keeps every primitive issued by Draw.
type recordingCanvas struct {
	circles []circleCall
	icons   []iconCall
}

func (c *recordingCanvas) StrokeCircle(cx, cy, r float64, p Paint) {
	c.circles = append(c.circles, circleCall{cx, cy, r, p})
}

func (c *recordingCanvas) DrawIcon(icon Icon, op IconOp) {
	c.icons = append(c.icons, iconCall{icon, op})
}

func testIcon(w, h int) Icon {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func newTestWidget(t *testing.T, cfg Config) (*Widget, *anim.ManualClock) {
	t.Helper()
	clock := anim.NewManualClock()
	icon := testIcon(20, 20)
	w := New(cfg,
		WithClock(clock),
		WithIconLoader(func() (Icon, error) { return icon, nil }),
	)
	w.Measure(200, 200)
	return w, clock
}

func settle(w *Widget, clock *anim.ManualClock) {
	clock.Advance(anim.DefaultDuration)
	w.Update()
}

func TestNew_Defaults(t *testing.T) {
	w, _ := newTestWidget(t, DefaultConfig())

	assert.Equal(t, DefaultNodes, w.NodeCount())
	assert.True(t, w.IsExpanded())
	assert.Equal(t, NotSelected, w.SelectedIndex())
	assert.Equal(t, MaxScaleFactor, w.ScaleFactor())
	assert.Equal(t, float32(0), w.RotationAngle())
	assert.Equal(t, Expanded, w.Phase())
	assert.False(t, w.Animating())
}

func TestNew_CollapsedConfigAnimatesClosed(t *testing.T) {
	w, clock := newTestWidget(t, Config{NodeCount: 5, Expanded: false})

	assert.Equal(t, 5, w.NodeCount())
	assert.Equal(t, Collapsing, w.Phase())
	assert.True(t, w.IsExpanded())

	settle(w, clock)
	assert.Equal(t, Collapsed, w.Phase())
	assert.False(t, w.IsExpanded())
	assert.Equal(t, MinScaleFactor, w.ScaleFactor())
}

func TestSetSelectedIndex(t *testing.T) {
	w, _ := newTestWidget(t, Config{NodeCount: 4, Expanded: true})

	tests := []struct {
		in   int
		want int
	}{
		{0, 0},
		{3, 3},
		{4, NotSelected},
		{-1, NotSelected},
		{-7, NotSelected},
		{2, 2},
	}
	for _, tt := range tests {
		w.SetSelectedIndex(tt.in)
		assert.Equal(t, tt.want, w.SelectedIndex(), "SetSelectedIndex(%d)", tt.in)
	}
}

func TestSetNodeCount_KeepsStaleSelection(t *testing.T) {
	w, _ := newTestWidget(t, Config{NodeCount: 6, Expanded: true})
	w.SetSelectedIndex(5)

	w.SetNodeCount(2)

	// selection is only revalidated by SetSelectedIndex
	assert.Equal(t, 5, w.SelectedIndex())
	assert.Equal(t, 2, w.NodeCount())

	c := &recordingCanvas{}
	w.Draw(c)
	require.Len(t, c.icons, 2)
	for _, call := range c.icons {
		assert.Equal(t, CompositeSourceOver, call.op.Composite)
	}
}

func TestInvalidateOnMutation(t *testing.T) {
	clock := anim.NewManualClock()
	redraws := 0
	w := New(DefaultConfig(), WithClock(clock), WithInvalidate(func() { redraws++ }))
	redraws = 0

	w.SetSelectedIndex(1)
	w.SetSelectedIndex(99)
	w.SetNodeCount(7)
	assert.Equal(t, 3, redraws)

	w.Measure(100, 100)
	w.HandlePointer(PointerEvent{Action: PointerPress, X: 50, Y: 0})
	assert.Equal(t, 3, redraws, "press does not redraw")
	w.HandlePointer(PointerEvent{Action: PointerMove, X: 100, Y: 50})
	assert.Equal(t, 4, redraws)
}

func TestExpandCollapse_Phases(t *testing.T) {
	w, clock := newTestWidget(t, DefaultConfig())

	w.Collapse()
	assert.Equal(t, Collapsing, w.Phase())
	assert.True(t, w.IsExpanded(), "ring stays visible while shrinking")

	clock.Advance(100 * time.Millisecond)
	w.Update()
	assert.Equal(t, Collapsing, w.Phase())
	assert.Less(t, w.ScaleFactor(), MaxScaleFactor)
	assert.Greater(t, w.ScaleFactor(), MinScaleFactor)

	// expand is a no-op until the collapse has landed
	w.Expand()
	assert.Equal(t, Collapsing, w.Phase())

	settle(w, clock)
	assert.Equal(t, Collapsed, w.Phase())
	assert.Equal(t, MinScaleFactor, w.ScaleFactor())

	w.Expand()
	assert.Equal(t, Expanding, w.Phase())
	assert.True(t, w.IsExpanded())
	assert.Equal(t, MinScaleFactor, w.ScaleFactor())

	settle(w, clock)
	assert.Equal(t, Expanded, w.Phase())
	assert.Equal(t, MaxScaleFactor, w.ScaleFactor())
}

func TestCollapse_WhileCollapsingIsNoop(t *testing.T) {
	w, clock := newTestWidget(t, DefaultConfig())

	w.Collapse()
	clock.Advance(200 * time.Millisecond)
	w.Update()
	mid := w.ScaleFactor()

	w.Collapse()
	assert.Equal(t, mid, w.ScaleFactor(), "collapse must not restart from 1")

	clock.Advance(150 * time.Millisecond)
	w.Update()
	assert.Equal(t, Collapsed, w.Phase())
}

func TestCollapse_DuringExpandSupersedesIt(t *testing.T) {
	w, clock := newTestWidget(t, Config{NodeCount: 3, Expanded: false})
	settle(w, clock)

	w.Expand()
	clock.Advance(50 * time.Millisecond)
	w.Update()
	w.Collapse()
	assert.Equal(t, Collapsing, w.Phase())

	settle(w, clock)
	assert.False(t, w.IsExpanded())
	assert.Equal(t, MinScaleFactor, w.ScaleFactor())
}

func TestStop_ExpandCancelKeepsExpanded(t *testing.T) {
	w, clock := newTestWidget(t, Config{NodeCount: 3, Expanded: false})
	settle(w, clock)

	w.Expand()
	clock.Advance(100 * time.Millisecond)
	w.Update()
	scale := w.ScaleFactor()

	w.Stop()
	assert.True(t, w.IsExpanded())
	assert.Equal(t, Expanded, w.Phase())
	assert.Equal(t, scale, w.ScaleFactor())
}

func TestRotate_SupersedesFromCurrentAngle(t *testing.T) {
	w, clock := newTestWidget(t, DefaultConfig())

	w.RotateClockwise()
	clock.Advance(100 * time.Millisecond)
	w.Update()
	mid := w.RotationAngle()
	require.Greater(t, mid, float32(0))
	require.Less(t, mid, float32(RotationStep))

	w.RotateCounterClockwise()
	settle(w, clock)

	assert.InDelta(t, float64(mid-RotationStep), float64(w.RotationAngle()), 1e-4)
	assert.NotEqual(t, float32(0), w.RotationAngle(), "overlapping taps do not cancel out")
}

func TestHandlePointer_DragRotation(t *testing.T) {
	w, _ := newTestWidget(t, DefaultConfig())

	// 12 o'clock to 3 o'clock is a quarter turn clockwise
	assert.True(t, w.HandlePointer(PointerEvent{Action: PointerPress, X: 100, Y: 0}))
	assert.True(t, w.HandlePointer(PointerEvent{Action: PointerMove, X: 200, Y: 100}))
	assert.InDelta(t, 90, float64(w.RotationAngle()), 1e-4)

	// second gesture starts from the accumulated angle
	w.HandlePointer(PointerEvent{Action: PointerPress, X: 200, Y: 100})
	w.HandlePointer(PointerEvent{Action: PointerMove, X: 100, Y: 200})
	assert.InDelta(t, 180, float64(w.RotationAngle()), 1e-4)

	assert.True(t, w.HandlePointer(PointerEvent{Action: PointerRelease, X: 5, Y: 5}))
	assert.InDelta(t, 180, float64(w.RotationAngle()), 1e-4)
}

func TestDraw_Collapsed(t *testing.T) {
	w, clock := newTestWidget(t, Config{NodeCount: 3, Expanded: false})
	settle(w, clock)

	c := &recordingCanvas{}
	w.Draw(c)

	assert.Empty(t, c.circles)
	require.Len(t, c.icons, 1)
	assert.Equal(t, IconOp{PivotX: 100, PivotY: 100, X: -10, Y: -10}, c.icons[0].op)
}

func TestDraw_ExpandedRing(t *testing.T) {
	w, _ := newTestWidget(t, Config{NodeCount: 4, Expanded: true})
	w.SetSelectedIndex(2)
	w.HandlePointer(PointerEvent{Action: PointerPress, X: 100, Y: 0})
	w.HandlePointer(PointerEvent{Action: PointerMove, X: 200, Y: 100})

	c := &recordingCanvas{}
	w.Draw(c)

	require.Len(t, c.circles, 1)
	assert.Equal(t, 100.0, c.circles[0].cx)
	assert.Equal(t, 100.0, c.circles[0].cy)
	assert.Equal(t, 90.0, c.circles[0].r)
	assert.Equal(t, DefaultRingPaint(), c.circles[0].paint)

	require.Len(t, c.icons, 4)
	for i, call := range c.icons {
		assert.InDelta(t, 90, call.op.Rotation, 1e-4)
		if i == 2 {
			assert.Equal(t, CompositeDestinationOut, call.op.Composite)
		} else {
			assert.Equal(t, CompositeSourceOver, call.op.Composite)
		}
	}
	assert.InDelta(t, 80, c.icons[0].op.X, 1e-9)
	assert.InDelta(t, -10, c.icons[0].op.Y, 1e-9)
}

func TestLayout_NodeGeometry(t *testing.T) {
	w, _ := newTestWidget(t, Config{NodeCount: 4, Expanded: true})

	f := w.Layout(image.Pt(20, 20))
	r := f.Radius
	require.Equal(t, 90.0, r)
	require.Len(t, f.Nodes, 4)

	want := [][2]float64{{r, 0}, {0, r}, {-r, 0}, {0, -r}}
	for i, n := range f.Nodes {
		assert.InDelta(t, want[i][0], n.X, 1e-9, "node %d x", i)
		assert.InDelta(t, want[i][1], n.Y, 1e-9, "node %d y", i)
	}
}

func TestLayout_RadiusUsesSmallerSideAndScale(t *testing.T) {
	w, clock := newTestWidget(t, DefaultConfig())
	w.Measure(300, 120)

	f := w.Layout(image.Pt(16, 24))
	assert.Equal(t, 150.0, f.CenterX)
	assert.Equal(t, 60.0, f.CenterY)
	assert.Equal(t, 48.0, f.Radius)

	w.Collapse()
	clock.Advance(100 * time.Millisecond)
	w.Update()
	f = w.Layout(image.Pt(16, 24))
	assert.InDelta(t, 48*float64(w.ScaleFactor()), f.Radius, 1e-6)
}

func TestDraw_ZeroAndNegativeNodeCount(t *testing.T) {
	for _, n := range []int{0, -3} {
		w, _ := newTestWidget(t, Config{NodeCount: n, Expanded: true})

		c := &recordingCanvas{}
		require.NotPanics(t, func() { w.Draw(c) })
		assert.Len(t, c.circles, 1, "outline is still drawn for %d nodes", n)
		assert.Empty(t, c.icons)
	}
}

func TestDraw_IconLoadedOnce(t *testing.T) {
	loads := 0
	w := New(DefaultConfig(), WithClock(anim.NewManualClock()), WithIconLoader(func() (Icon, error) {
		loads++
		return testIcon(10, 10), nil
	}))
	w.Measure(100, 100)

	w.Draw(&recordingCanvas{})
	w.Draw(&recordingCanvas{})
	assert.Equal(t, 1, loads)

	w.SetIconLoader(func() (Icon, error) {
		loads++
		return testIcon(12, 12), nil
	})
	w.Draw(&recordingCanvas{})
	assert.Equal(t, 2, loads)
}

func TestDraw_IconLoadFailureDrawsOutlineOnly(t *testing.T) {
	fail := true
	w := New(DefaultConfig(), WithClock(anim.NewManualClock()), WithIconLoader(func() (Icon, error) {
		if fail {
			return nil, errors.New("no icon")
		}
		return testIcon(10, 10), nil
	}))
	w.Measure(100, 100)

	c := &recordingCanvas{}
	w.Draw(c)
	require.Len(t, c.circles, 1)
	assert.Equal(t, circleCall{50, 50, 50, DefaultRingPaint()}, c.circles[0])
	assert.Empty(t, c.icons)

	fail = false
	c = &recordingCanvas{}
	w.Draw(c)
	require.Len(t, c.circles, 1)
	assert.InDelta(t, 45, c.circles[0].r, 1e-9, "icon extent shrinks the ring")
	assert.Len(t, c.icons, DefaultNodes)
}

func TestDraw_NoIconLoaderCollapsedDrawsNothing(t *testing.T) {
	clock := anim.NewManualClock()
	w := New(Config{NodeCount: 4, Expanded: false}, WithClock(clock))
	w.Measure(100, 100)
	settle(w, clock)

	c := &recordingCanvas{}
	w.Draw(c)
	assert.Empty(t, c.circles)
	assert.Empty(t, c.icons)
}

func TestFinish_CollapseMidwayRestoresCollapsed(t *testing.T) {
	w, clock := newTestWidget(t, DefaultConfig())
	w.Collapse()
	clock.Advance(100 * time.Millisecond)
	w.Update()
	require.Equal(t, Collapsing, w.Phase())

	w.Finish()
	assert.False(t, w.Animating())
	assert.False(t, w.IsExpanded())
	assert.Equal(t, MinScaleFactor, w.ScaleFactor())

	snap := w.SaveState(nil)
	fresh, freshClock := newTestWidget(t, DefaultConfig())
	fresh.RestoreState(snap)
	assert.Equal(t, Collapsed, fresh.Phase())

	fresh.Expand()
	assert.Equal(t, Expanding, fresh.Phase())
	settle(fresh, freshClock)
	assert.Equal(t, Expanded, fresh.Phase())
	assert.Equal(t, MaxScaleFactor, fresh.ScaleFactor())
}

func TestFinish_ExpandAndRotateLandOnEndValues(t *testing.T) {
	w, clock := newTestWidget(t, Config{NodeCount: 3, Expanded: false})
	settle(w, clock)

	w.Expand()
	w.RotateCounterClockwise()
	clock.Advance(50 * time.Millisecond)
	w.Update()

	w.Finish()
	assert.Equal(t, Expanded, w.Phase())
	assert.Equal(t, MaxScaleFactor, w.ScaleFactor())
	assert.Equal(t, float32(-RotationStep), w.RotationAngle())
}

type deallocIcon struct {
	*image.RGBA
	freed bool
}

func (d *deallocIcon) Deallocate() { d.freed = true }

func TestClose_ReleasesIcon(t *testing.T) {
	icon := &deallocIcon{RGBA: image.NewRGBA(image.Rect(0, 0, 8, 8))}
	w := New(DefaultConfig(), WithClock(anim.NewManualClock()), WithIconLoader(func() (Icon, error) {
		return icon, nil
	}))
	w.Measure(64, 64)
	w.Draw(&recordingCanvas{})

	w.Close()
	assert.True(t, icon.freed)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "collapsed", Collapsed.String())
	assert.Equal(t, "expanding", Expanding.String())
	assert.Equal(t, "expanded", Expanded.String())
	assert.Equal(t, "collapsing", Collapsing.String())
	assert.Equal(t, "unknown", Phase(42).String())
}

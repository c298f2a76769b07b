package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBoundEngine returns an engine with a 200x200 container and one artwork
// bound to the front side.
func newBoundEngine(t *testing.T) (*Engine, ArtworkInfo) {
	t.Helper()
	e := NewEngine()
	e.SetContainerSize(200, 200)
	art, err := e.AddArtwork(MemoryFile{FileName: "logo.png", Type: "image/png"})
	require.NoError(t, err)
	require.NoError(t, e.BindArtwork(SideFront, art.ID))
	return e, art
}

func TestDragMovesByPointerDelta(t *testing.T) {
	e, _ := newBoundEngine(t)
	start, ok := e.PlacementFor(SideFront)
	require.True(t, ok)

	e.BeginDrag(Point{X: 100, Y: 100})
	e.UpdateGesture(Point{X: 120, Y: 100}) // 10% of container width
	e.EndGesture()

	p, _ := e.PlacementFor(SideFront)
	assert.InDelta(t, start.X+0.10, p.X, 1e-12)
	assert.InDelta(t, start.Y, p.Y, 1e-12)
}

func TestDragClampInvariant(t *testing.T) {
	e, _ := newBoundEngine(t)

	moves := []Point{
		{X: 5000, Y: 5000},
		{X: -5000, Y: 300},
		{X: 40, Y: -9999},
		{X: 100000, Y: 100000},
	}
	e.BeginDrag(Point{X: 100, Y: 100})
	for _, m := range moves {
		e.UpdateGesture(m)
		p, _ := e.PlacementFor(SideFront)
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.LessOrEqual(t, p.X, 1.0)
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.LessOrEqual(t, p.Y, 1.0)
	}
	e.EndGesture()
}

func TestDragZeroContainerKeepsPlacement(t *testing.T) {
	e, _ := newBoundEngine(t)
	start, _ := e.PlacementFor(SideFront)

	e.SetContainerSize(0, 0)
	e.BeginDrag(Point{X: 100, Y: 100})
	e.UpdateGesture(Point{X: 180, Y: 150})
	e.EndGesture()

	p, _ := e.PlacementFor(SideFront)
	assert.Equal(t, start.X, p.X)
	assert.Equal(t, start.Y, p.Y)
}

func TestResizeScalesByDistanceRatio(t *testing.T) {
	e, _ := newBoundEngine(t)
	start, _ := e.PlacementFor(SideFront)
	center := start.CenterPixels(Size{Width: 200, Height: 200})

	// begin 50px from center, move to 100px: widthFraction doubles
	e.BeginResize(Point{X: center.X + 50, Y: center.Y})
	e.UpdateGesture(Point{X: center.X + 100, Y: center.Y})
	e.EndGesture()

	p, _ := e.PlacementFor(SideFront)
	assert.InDelta(t, start.WidthFraction*2, p.WidthFraction, 1e-12)
}

func TestResizeBoundsInvariant(t *testing.T) {
	e, _ := newBoundEngine(t)
	start, _ := e.PlacementFor(SideFront)
	center := start.CenterPixels(Size{Width: 200, Height: 200})

	e.BeginResize(Point{X: center.X + 10, Y: center.Y})
	for _, px := range []float64{1, 0.1, 9000, 0.0001, 400} {
		e.UpdateGesture(Point{X: center.X + px, Y: center.Y})
		p, _ := e.PlacementFor(SideFront)
		assert.GreaterOrEqual(t, p.WidthFraction, MinWidthFraction)
		assert.LessOrEqual(t, p.WidthFraction, MaxWidthFraction)
	}
	e.EndGesture()
}

func TestResizeIsRotationInvariant(t *testing.T) {
	run := func(rotation float64) float64 {
		e, _ := newBoundEngine(t)
		e.SetRotationDegrees(rotation)
		start, _ := e.PlacementFor(SideFront)
		center := start.CenterPixels(Size{Width: 200, Height: 200})

		e.BeginResize(Point{X: center.X + 40, Y: center.Y + 30})
		e.UpdateGesture(Point{X: center.X + 64, Y: center.Y + 48})
		e.EndGesture()

		p, _ := e.PlacementFor(SideFront)
		return p.WidthFraction
	}

	// identical pointer-distance sequence at different rotations
	assert.InDelta(t, run(0), run(137), 1e-12)
	assert.InDelta(t, run(0), run(-45), 1e-12)
}

func TestResizeZeroStartDistance(t *testing.T) {
	e, _ := newBoundEngine(t)
	start, _ := e.PlacementFor(SideFront)
	center := start.CenterPixels(Size{Width: 200, Height: 200})

	// pointer exactly on center at gesture start: distance treated as 1
	e.BeginResize(center)
	e.UpdateGesture(Point{X: center.X + 2, Y: center.Y})
	p, _ := e.PlacementFor(SideFront)
	assert.InDelta(t, clampWidth(start.WidthFraction*2), p.WidthFraction, 1e-12)
	e.EndGesture()
}

func TestRotateFollowsPointerAngle(t *testing.T) {
	e, _ := newBoundEngine(t)
	start, _ := e.PlacementFor(SideFront)
	center := start.CenterPixels(Size{Width: 200, Height: 200})

	tests := []struct {
		name    string
		pointer Point
		want    float64
	}{
		{"right_of_center", Point{X: center.X + 50, Y: center.Y}, 90},
		{"below_center", Point{X: center.X, Y: center.Y + 50}, 180},
		{"above_center", Point{X: center.X, Y: center.Y - 50}, 0},
		{"left_of_center", Point{X: center.X - 50, Y: center.Y}, -90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.BeginRotate(Point{X: center.X, Y: center.Y - 60})
			e.UpdateGesture(tt.pointer)
			e.EndGesture()
			p, _ := e.PlacementFor(SideFront)
			assert.InDelta(t, tt.want, p.RotationDegrees, 1e-9)
		})
	}
}

func TestPlaceholderClickOpensPicker(t *testing.T) {
	e := NewEngine()
	e.SetContainerSize(200, 200)

	picked := 0
	e.SetOpenPickerFunc(func() { picked++ })

	e.BeginPlaceholder(Point{X: 100, Y: 100})
	e.UpdateGesture(Point{X: 101, Y: 101}) // ~1.4px, under threshold
	e.EndGesture()

	assert.Equal(t, 1, picked)
	// a click must not alter the placement
	p, ok := e.PlacementFor(SideFront)
	require.True(t, ok)
	assert.Equal(t, e.DefaultPlacement(SideFront), p)
}

func TestPlaceholderDragMovesWithoutPicker(t *testing.T) {
	e := NewEngine()
	e.SetContainerSize(200, 200)

	picked := 0
	e.SetOpenPickerFunc(func() { picked++ })
	def := e.DefaultPlacement(SideFront)

	e.BeginPlaceholder(Point{X: 100, Y: 100})
	e.UpdateGesture(Point{X: 120, Y: 100}) // 20px, over threshold
	e.EndGesture()

	assert.Zero(t, picked)
	p, _ := e.PlacementFor(SideFront)
	assert.InDelta(t, def.X+0.10, p.X, 1e-12)
}

func TestPlaceholderDragCommitsOnceThresholdCrossed(t *testing.T) {
	e := NewEngine()
	e.SetContainerSize(200, 200)

	picked := 0
	e.SetOpenPickerFunc(func() { picked++ })

	// cross the threshold, then return near the start: still a drag
	e.BeginPlaceholder(Point{X: 100, Y: 100})
	e.UpdateGesture(Point{X: 130, Y: 100})
	e.UpdateGesture(Point{X: 101, Y: 100})
	e.EndGesture()

	assert.Zero(t, picked)
}

func TestNewGestureEndsPriorGesture(t *testing.T) {
	e, _ := newBoundEngine(t)
	start, _ := e.PlacementFor(SideFront)
	center := start.CenterPixels(Size{Width: 200, Height: 200})

	e.BeginDrag(Point{X: 100, Y: 100})
	e.BeginResize(Point{X: center.X + 50, Y: center.Y})
	assert.True(t, e.Gesturing())

	// the move applies to the resize, not the abandoned drag
	e.UpdateGesture(Point{X: center.X + 100, Y: center.Y})
	e.EndGesture()

	p, _ := e.PlacementFor(SideFront)
	assert.Equal(t, start.X, p.X)
	assert.InDelta(t, start.WidthFraction*2, p.WidthFraction, 1e-12)
}

func TestGestureEndsCleanlyWhenPickerPanics(t *testing.T) {
	e := NewEngine()
	e.SetContainerSize(200, 200)
	e.SetOpenPickerFunc(func() { panic("host failure") })

	e.BeginPlaceholder(Point{X: 100, Y: 100})
	assert.Panics(t, func() { e.EndGesture() })
	assert.False(t, e.Gesturing())

	// the gesture must be over: further moves are ignored
	e.UpdateGesture(Point{X: 180, Y: 180})
	p, _ := e.PlacementFor(SideFront)
	assert.Equal(t, e.DefaultPlacement(SideFront), p)
}

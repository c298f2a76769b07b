package placement

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCustomizationScenario walks the full shopper flow: upload, bind, drag,
// resize, reset.
func TestCustomizationScenario(t *testing.T) {
	e := NewEngine()
	e.SetContainerSize(400, 400)

	art, err := e.AddArtwork(pngFile(t, "logo.png", 100, 100)) // 1:1
	require.NoError(t, err)
	require.NoError(t, e.BindArtwork(SideFront, art.ID))

	def := e.DefaultPlacement(SideFront)
	p, ok := e.PlacementFor(SideFront)
	require.True(t, ok)
	assert.Equal(t, def, p)

	// drag 10% of container width to the right
	e.BeginDrag(Point{X: 200, Y: 200})
	e.UpdateGesture(Point{X: 240, Y: 200})
	e.EndGesture()
	p, _ = e.PlacementFor(SideFront)
	assert.InDelta(t, def.X+0.10, p.X, 1e-12)

	// resize doubling the pointer-to-center distance
	center := p.CenterPixels(Size{Width: 400, Height: 400})
	e.BeginResize(Point{X: center.X + 80, Y: center.Y})
	e.UpdateGesture(Point{X: center.X + 160, Y: center.Y})
	e.EndGesture()
	p, _ = e.PlacementFor(SideFront)
	assert.InDelta(t, clampWidth(def.WidthFraction*2), p.WidthFraction, 1e-12)

	// reset returns exactly to the default
	e.ResetPlacement()
	p, _ = e.PlacementFor(SideFront)
	assert.Equal(t, def, p)
}

func TestShortcuts(t *testing.T) {
	e := NewEngine()
	e.SetContainerSize(200, 200)
	art, err := e.AddArtwork(MemoryFile{FileName: "a.png", Type: "image/png"})
	require.NoError(t, err)
	require.NoError(t, e.BindArtwork(SideFront, art.ID))

	t.Run("center_leaves_size_and_rotation", func(t *testing.T) {
		e.SetRotationDegrees(33)
		e.SetWidthFraction(0.5)
		e.Flip()

		e.BeginDrag(Point{X: 100, Y: 100})
		e.UpdateGesture(Point{X: 180, Y: 30})
		e.EndGesture()

		e.Center()
		p, _ := e.PlacementFor(SideFront)
		area := e.PrintArea(SideFront)
		assert.Equal(t, area.CenterX, p.X)
		assert.Equal(t, area.CenterY, p.Y)
		assert.Equal(t, 33.0, p.RotationDegrees)
		assert.Equal(t, 0.5, p.WidthFraction)
		assert.True(t, p.Flipped)
	})

	t.Run("flip_toggles", func(t *testing.T) {
		p, _ := e.PlacementFor(SideFront)
		was := p.Flipped
		e.Flip()
		p, _ = e.PlacementFor(SideFront)
		assert.Equal(t, !was, p.Flipped)
	})

	t.Run("slider_overrides_clamped", func(t *testing.T) {
		e.SetWidthFraction(2.5)
		p, _ := e.PlacementFor(SideFront)
		assert.Equal(t, MaxWidthFraction, p.WidthFraction)

		e.SetWidthFraction(0.001)
		p, _ = e.PlacementFor(SideFront)
		assert.Equal(t, MinWidthFraction, p.WidthFraction)

		e.SetRotationDegrees(540)
		p, _ = e.PlacementFor(SideFront)
		assert.Equal(t, 180.0, p.RotationDegrees)
	})
}

func TestShortcutsWithoutPlacementAreNoops(t *testing.T) {
	e := NewEngine()
	e.Center()
	e.ResetPlacement()
	e.Flip()
	e.SetWidthFraction(0.5)
	e.SetRotationDegrees(45)
	_, ok := e.PlacementFor(SideFront)
	assert.False(t, ok)
}

func TestConfigRoundTrip(t *testing.T) {
	e := NewEngine()
	e.SetContainerSize(200, 200)

	a, err := e.AddArtwork(MemoryFile{FileName: "a.png", Type: "image/png"})
	require.NoError(t, err)
	b, err := e.AddArtwork(MemoryFile{FileName: "b.png", Type: "image/png"})
	require.NoError(t, err)

	require.NoError(t, e.BindArtwork(SideFront, a.ID))
	require.NoError(t, e.BindArtwork(SideBack, b.ID))
	e.SetActiveSide(SideBack)
	e.SetRotationDegrees(-30)
	e.Flip()

	cfg := e.Config()
	assert.Equal(t, ConfigVersion, cfg.Version)
	require.NotNil(t, cfg.Front)
	require.NotNil(t, cfg.Back)
	assert.Equal(t, a.ID, cfg.Front.ArtworkRef)
	assert.Equal(t, b.ID, cfg.Back.ArtworkRef)
	assert.Equal(t, -30.0, cfg.Back.Placement.RotationDegrees)
	assert.True(t, cfg.Back.Placement.Flipped)

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	parsed, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)

	// restoring into a fresh engine reproduces the placements
	restored := NewEngine()
	require.NoError(t, restored.RestoreConfig(parsed))
	p, ok := restored.PlacementFor(SideBack)
	require.True(t, ok)
	assert.Equal(t, cfg.Back.Placement, p)
	bound, ok := restored.BoundArtwork(SideFront)
	require.True(t, ok)
	assert.Equal(t, a.ID, bound.ID)
}

func TestConfigSkipsUnboundSides(t *testing.T) {
	e := NewEngine()
	cfg := e.Config()
	assert.Nil(t, cfg.Front)
	assert.Nil(t, cfg.Back)

	// a placeholder placement without a bound artwork is not serialized
	e.SetContainerSize(200, 200)
	e.BeginPlaceholder(Point{X: 100, Y: 100})
	e.UpdateGesture(Point{X: 150, Y: 100})
	e.EndGesture()
	cfg = e.Config()
	assert.Nil(t, cfg.Front)
}

func TestParseConfigRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not_json", "{"},
		{"zero_version", `{"version":0}`},
		{"future_version", `{"version":99}`},
		{"missing_artwork_ref", `{"version":1,"front":{"placement":{"x":0.5,"y":0.5,"widthFraction":0.3}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseConfigSanitizesStoredValues(t *testing.T) {
	data := `{"version":1,"front":{"artworkRef":"art_1","placement":{"x":1.7,"y":-0.2,"widthFraction":3,"rotationDegrees":450}}}`
	cfg, err := ParseConfig([]byte(data))
	require.NoError(t, err)
	p := cfg.Front.Placement
	assert.Equal(t, 1.0, p.X)
	assert.Equal(t, 0.0, p.Y)
	assert.Equal(t, MaxWidthFraction, p.WidthFraction)
	assert.Equal(t, 90.0, p.RotationDegrees)
}

func TestStateSnapshot(t *testing.T) {
	e := NewEngine()
	e.SetContainerSize(300, 400)
	art, err := e.AddArtwork(MemoryFile{FileName: "a.png", Type: "image/png"})
	require.NoError(t, err)
	require.NoError(t, e.BindArtwork(SideFront, art.ID))

	st := e.State()
	assert.Equal(t, SideFront, st.ActiveSide)
	assert.Equal(t, Size{Width: 300, Height: 400}, st.Container)
	require.Len(t, st.Artworks, 1)

	front := st.Sides["front"]
	require.NotNil(t, front.Placement)
	assert.Equal(t, art.ID, front.ArtworkID)
	// aspect fallback of 1: heightFraction = widthPx / containerHeight
	wantHeight := front.Placement.WidthFraction * 300 / 400
	assert.InDelta(t, wantHeight, front.HeightFraction, 1e-12)

	back := st.Sides["back"]
	assert.Nil(t, back.Placement)
	assert.Empty(t, back.ArtworkID)

	var decoded State
	require.NoError(t, json.Unmarshal([]byte(e.StateJSON()), &decoded))
	assert.Equal(t, st.ActiveSide, decoded.ActiveSide)
}

func TestOverlayTransform(t *testing.T) {
	e := NewEngine()
	e.SetContainerSize(400, 400)
	art, err := e.AddArtwork(MemoryFile{FileName: "a.png", Type: "image/png"})
	require.NoError(t, err)
	require.NoError(t, e.BindArtwork(SideFront, art.ID))
	e.SetRotationDegrees(90)

	m, ok := e.OverlayTransformFor(SideFront, 200, 100)
	require.True(t, ok)

	// the artwork's natural center maps to the placement center
	p, _ := e.PlacementFor(SideFront)
	cx, cy := m.TransformPoint(100, 50)
	center := p.CenterPixels(Size{Width: 400, Height: 400})
	assert.InDelta(t, center.X, cx, 1e-9)
	assert.InDelta(t, center.Y, cy, 1e-9)

	// no placement on the back side
	_, ok = e.OverlayTransformFor(SideBack, 200, 100)
	assert.False(t, ok)
}

func TestSideSerialization(t *testing.T) {
	data, err := json.Marshal(map[Side]string{SideBack: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"back":"x"}`, string(data))

	var s Side
	require.NoError(t, json.Unmarshal([]byte(`"back"`), &s))
	assert.Equal(t, SideBack, s)
	require.NoError(t, json.Unmarshal([]byte(`"pocket"`), &s))
	assert.Equal(t, SideFront, s)
}

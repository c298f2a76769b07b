package live

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkthread/inkthread/backend-go/internal/placement"
)

func apply(t *testing.T, r *Room, cmd Command) {
	t.Helper()
	require.NoError(t, r.Apply(cmd))
}

func TestRoomAppliesDesignSession(t *testing.T) {
	r := NewRoom("design_test")

	apply(t, r, Command{Op: OpSetContainer, Width: 400, Height: 400})
	apply(t, r, Command{Op: OpAddArtwork, ArtworkID: "asset_a", Name: "logo.png", AspectRatio: 2})
	apply(t, r, Command{Op: OpBindArtwork, ArtworkID: "asset_a"})

	p, ok := r.engine.PlacementFor(placement.SideFront)
	require.True(t, ok)
	assert.InDelta(t, 0.50, p.X, 1e-9)

	// drag the artwork body 40px right
	start := p
	apply(t, r, Command{Op: OpBeginDrag, X: 200, Y: 200})
	apply(t, r, Command{Op: OpMovePointer, X: 240, Y: 200})
	apply(t, r, Command{Op: OpEndPointer})

	p, _ = r.engine.PlacementFor(placement.SideFront)
	assert.InDelta(t, start.X+0.1, p.X, 1e-9)

	cfg := r.Config()
	require.NotNil(t, cfg.Front)
	assert.Equal(t, "asset_a", cfg.Front.ArtworkRef)
	assert.Nil(t, cfg.Back)
}

func TestRoomBindsExplicitSide(t *testing.T) {
	r := NewRoom("design_test")
	apply(t, r, Command{Op: OpAddArtwork, ArtworkID: "asset_a", Name: "logo.png"})
	apply(t, r, Command{Op: OpBindArtwork, ArtworkID: "asset_a", Side: "back"})

	_, ok := r.engine.BoundArtwork(placement.SideBack)
	assert.True(t, ok)
	_, ok = r.engine.BoundArtwork(placement.SideFront)
	assert.False(t, ok)
}

func TestRoomShortcuts(t *testing.T) {
	r := NewRoom("design_test")
	apply(t, r, Command{Op: OpSetContainer, Width: 400, Height: 400})
	apply(t, r, Command{Op: OpAddArtwork, ArtworkID: "asset_a", Name: "logo.png"})
	apply(t, r, Command{Op: OpBindArtwork, ArtworkID: "asset_a"})

	apply(t, r, Command{Op: OpSetWidth, Value: 0.3})
	apply(t, r, Command{Op: OpSetRotation, Value: 45})
	apply(t, r, Command{Op: OpFlip})

	p, _ := r.engine.PlacementFor(placement.SideFront)
	assert.InDelta(t, 0.3, p.WidthFraction, 1e-9)
	assert.InDelta(t, 45, p.RotationDegrees, 1e-9)
	assert.True(t, p.Flipped)

	apply(t, r, Command{Op: OpReset})
	p, _ = r.engine.PlacementFor(placement.SideFront)
	assert.False(t, p.Flipped)
	assert.InDelta(t, 0, p.RotationDegrees, 1e-9)
}

func TestRoomRejectsBadCommands(t *testing.T) {
	r := NewRoom("design_test")

	assert.Error(t, r.Apply(Command{Op: "selfdestruct"}))
	assert.ErrorIs(t, r.Apply(Command{Op: OpBindArtwork, ArtworkID: "nope"}), placement.ErrArtworkNotFound)
}

func TestRoomStateMessage(t *testing.T) {
	r := NewRoom("design_test")
	apply(t, r, Command{Op: OpSetSide, Side: "back"})

	msg := r.StateMessage()
	assert.Equal(t, TypeState, msg.Type)
	assert.Equal(t, "design_test", msg.DesignID)

	var st placement.State
	require.NoError(t, json.Unmarshal(msg.Payload, &st))
	assert.Equal(t, placement.SideBack, st.ActiveSide)
	assert.Contains(t, st.Sides, "front")
	assert.Contains(t, st.Sides, "back")
}

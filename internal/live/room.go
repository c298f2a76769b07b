package live

import (
	"encoding/json"
	"fmt"

	"github.com/inkthread/inkthread/backend-go/internal/placement"
)

// Room is one design's live session: the authoritative placement engine plus
// the clients viewing it.
type Room struct {
	designID string
	engine   *placement.Engine
	clients  map[string]*Client // clientID -> client
}

func NewRoom(designID string, opts ...placement.Option) *Room {
	return &Room{
		designID: designID,
		engine:   placement.NewEngine(opts...),
		clients:  make(map[string]*Client),
	}
}

// Apply executes one protocol command against the room's engine. Unknown
// operations and unknown artwork references are the only errors; gesture
// commands outside a live gesture are no-ops, matching the engine.
func (r *Room) Apply(cmd Command) error {
	switch cmd.Op {
	case OpSetContainer:
		r.engine.SetContainerSize(cmd.Width, cmd.Height)
	case OpSetSide:
		r.engine.SetActiveSide(placement.ParseSide(cmd.Side))
	case OpAddArtwork:
		_, err := r.engine.AddArtworkReference(cmd.ArtworkID, cmd.Name, cmd.AspectRatio)
		return err
	case OpBindArtwork:
		side := r.engine.ActiveSide()
		if cmd.Side != "" {
			side = placement.ParseSide(cmd.Side)
		}
		return r.engine.BindArtwork(side, cmd.ArtworkID)
	case OpRemoveArtwork:
		return r.engine.RemoveArtwork(cmd.ArtworkID)
	case OpBeginDrag:
		r.engine.BeginDrag(placement.Point{X: cmd.X, Y: cmd.Y})
	case OpBeginResize:
		r.engine.BeginResize(placement.Point{X: cmd.X, Y: cmd.Y})
	case OpBeginRotate:
		r.engine.BeginRotate(placement.Point{X: cmd.X, Y: cmd.Y})
	case OpBeginPlaceholder:
		r.engine.BeginPlaceholder(placement.Point{X: cmd.X, Y: cmd.Y})
	case OpMovePointer:
		r.engine.UpdateGesture(placement.Point{X: cmd.X, Y: cmd.Y})
	case OpEndPointer:
		r.engine.EndGesture()
	case OpCenter:
		r.engine.Center()
	case OpReset:
		r.engine.ResetPlacement()
	case OpFlip:
		r.engine.Flip()
	case OpSetWidth:
		r.engine.SetWidthFraction(cmd.Value)
	case OpSetRotation:
		r.engine.SetRotationDegrees(cmd.Value)
	default:
		return fmt.Errorf("unknown command op: %s", cmd.Op)
	}
	return nil
}

// StateMessage snapshots the engine into a broadcastable state message.
func (r *Room) StateMessage() *Message {
	return &Message{
		Type:     TypeState,
		DesignID: r.designID,
		Payload:  json.RawMessage(r.engine.StateJSON()),
	}
}

// Config returns the room's current serializable design configuration.
func (r *Room) Config() placement.DesignConfig {
	return r.engine.Config()
}

// Package live runs the websocket-backed live preview: every open tab of a
// design joins a room whose authoritative placement engine applies commands
// and fans the resulting state out to all viewers.
package live

import "encoding/json"

type Message struct {
	Type     string          `json:"type"`
	DesignID string          `json:"designId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	TypeWelcome = "welcome"
	TypeCommand = "command"
	TypeState   = "state"
	TypeError   = "error"

	TypePresenceJoin  = "presence.join"
	TypePresenceLeave = "presence.leave"
)

// Command is the payload of a "command" message: one engine operation.
// Fields beyond Op are operation-specific; unused ones stay empty.
type Command struct {
	Op string `json:"op"`

	// Pointer position for gesture operations, container dimensions for
	// setContainer.
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Slider value for setWidth / setRotation.
	Value float64 `json:"value,omitempty"`

	Side      string `json:"side,omitempty"`
	ArtworkID string `json:"artworkId,omitempty"`

	// Artwork metadata for addArtwork.
	Name        string  `json:"name,omitempty"`
	AspectRatio float64 `json:"aspectRatio,omitempty"`
}

const (
	OpSetContainer     = "setContainer"
	OpSetSide          = "setSide"
	OpAddArtwork       = "addArtwork"
	OpBindArtwork      = "bindArtwork"
	OpRemoveArtwork    = "removeArtwork"
	OpBeginDrag        = "beginDrag"
	OpBeginResize      = "beginResize"
	OpBeginRotate      = "beginRotate"
	OpBeginPlaceholder = "beginPlaceholder"
	OpMovePointer      = "movePointer"
	OpEndPointer       = "endPointer"
	OpCenter           = "center"
	OpReset            = "reset"
	OpFlip             = "flip"
	OpSetWidth         = "setWidth"
	OpSetRotation      = "setRotation"
)

type WelcomePayload struct {
	ClientID string `json:"clientId"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

type ErrorPayload struct {
	Reason string `json:"reason"`
}

package placement

// Side identifies a garment side. It is a closed set: anything the parser
// does not recognize resolves to SideFront, so print-area lookups can switch
// exhaustively instead of carrying a runtime default branch.
type Side int

const (
	SideFront Side = iota
	SideBack
)

// Sides lists every recognized side in a stable order.
var Sides = []Side{SideFront, SideBack}

// ParseSide resolves a side identifier from the host. Unrecognized
// identifiers fall back to the front side.
func ParseSide(s string) Side {
	switch s {
	case "back":
		return SideBack
	default:
		return SideFront
	}
}

func (s Side) String() string {
	switch s {
	case SideBack:
		return "back"
	default:
		return "front"
	}
}

// MarshalText implements encoding.TextMarshaler so Side serializes as its
// identifier in JSON payloads.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	*s = ParseSide(string(text))
	return nil
}

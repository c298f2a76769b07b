package placement

import (
	"encoding/json"
	"fmt"
)

// ConfigVersion is the current serialized design configuration version.
// Downstream consumers (cart preview, order admin, fulfillment) match on it
// instead of duck-typing fields.
const ConfigVersion = 1

// PlacementRecord is one side's persisted placement plus the artwork it
// refers to. ArtworkRef is the engine-local artwork identity; the host's
// upload pipeline resolves it to a durable storage path at submission time.
type PlacementRecord struct {
	Placement  Placement `json:"placement"`
	ArtworkRef string    `json:"artworkRef"`
}

// DesignConfig is the versioned, serializable state of a whole customization
// session: at most one placed artwork per garment side.
type DesignConfig struct {
	Version int              `json:"version"`
	Front   *PlacementRecord `json:"front"`
	Back    *PlacementRecord `json:"back"`
}

// EmptyConfig returns a config with no sides placed.
func EmptyConfig() DesignConfig {
	return DesignConfig{Version: ConfigVersion}
}

// Record returns the record for a side, or nil when the side is unplaced.
func (c DesignConfig) Record(side Side) *PlacementRecord {
	switch side {
	case SideBack:
		return c.Back
	default:
		return c.Front
	}
}

// setRecord assigns a side's record.
func (c *DesignConfig) setRecord(side Side, rec *PlacementRecord) {
	switch side {
	case SideBack:
		c.Back = rec
	default:
		c.Front = rec
	}
}

// ParseConfig decodes and sanitizes a persisted design configuration.
// Coordinates are clamped and rotation normalized so a stored blob can never
// put the engine outside its invariants.
func ParseConfig(data []byte) (DesignConfig, error) {
	var cfg DesignConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DesignConfig{}, fmt.Errorf("parse design config: %w", err)
	}
	if cfg.Version <= 0 || cfg.Version > ConfigVersion {
		return DesignConfig{}, fmt.Errorf("unsupported design config version %d", cfg.Version)
	}
	for _, side := range Sides {
		rec := cfg.Record(side)
		if rec == nil {
			continue
		}
		if rec.ArtworkRef == "" {
			return DesignConfig{}, fmt.Errorf("design config side %s has no artwork reference", side)
		}
		rec.Placement = sanitize(rec.Placement)
	}
	return cfg, nil
}

func sanitize(p Placement) Placement {
	p.X = Clamp(p.X, 0, 1)
	p.Y = Clamp(p.Y, 0, 1)
	p.WidthFraction = clampWidth(p.WidthFraction)
	p.RotationDegrees = NormalizeDegrees(p.RotationDegrees)
	return p
}

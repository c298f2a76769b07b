package placement

import "math"

// Point is a pointer position in container pixel space.
type Point struct {
	X float64
	Y float64
}

// Size is the live pixel size of the placement container. The host measures
// it (resize observer or equivalent) and pushes it into the engine; the
// engine never does layout measurement itself.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether either dimension is unusable for fraction math.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// ToPixels converts a fractional coordinate to pixels for the given
// container dimension.
func ToPixels(fraction, sizePx float64) float64 {
	return fraction * sizePx
}

// ToFraction converts a pixel coordinate back to a fraction. A zero-size
// container is an expected transient state (initial layout), so the prior
// fraction is returned unchanged instead of dividing by zero.
func ToFraction(px, sizePx, prior float64) float64 {
	if sizePx == 0 {
		return prior
	}
	return px / sizePx
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Distance returns the Euclidean pixel distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// NormalizeDegrees maps an angle into (-180, 180]. Rotation can accumulate
// past a full turn through repeated gestures; every write normalizes so the
// persisted value stays in the display range.
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}

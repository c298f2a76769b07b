package placement

// Engine-enforced resize bounds. They prevent degenerate (invisible) and
// oversized artwork regardless of how a width value arrives: gesture, slider,
// or restored configuration.
const (
	MinWidthFraction = 0.05
	MaxWidthFraction = 0.90
)

// FallbackAspectRatio is assumed until an artwork's image decode resolves,
// so height derivation never divides by zero.
const FallbackAspectRatio = 1.0

// Placement is the position, size, rotation and mirror state of one artwork
// on one garment side. X and Y locate the artwork's center as fractions of
// the container; WidthFraction is the artwork width as a fraction of the
// container width. Height is always derived from the artwork's aspect ratio,
// never stored: the artwork is never scaled non-uniformly.
type Placement struct {
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	WidthFraction   float64 `json:"widthFraction"`
	RotationDegrees float64 `json:"rotationDegrees"`
	Flipped         bool    `json:"flipped"`
}

// HeightFraction derives the fractional height for the given aspect ratio
// and container. Width fractions are relative to container width, so the
// pixel width must be converted through the container to get height.
func (p Placement) HeightFraction(aspectRatio float64, container Size) float64 {
	if aspectRatio <= 0 {
		aspectRatio = FallbackAspectRatio
	}
	if container.IsZero() {
		return p.WidthFraction / aspectRatio
	}
	widthPx := ToPixels(p.WidthFraction, container.Width)
	return widthPx / aspectRatio / container.Height
}

// CenterPixels returns the placement center in container pixel space.
func (p Placement) CenterPixels(container Size) Point {
	return Point{
		X: ToPixels(p.X, container.Width),
		Y: ToPixels(p.Y, container.Height),
	}
}

// clampWidth applies the engine resize bounds.
func clampWidth(w float64) float64 {
	return Clamp(w, MinWidthFraction, MaxWidthFraction)
}

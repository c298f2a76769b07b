package placement

// PrintArea is the designer-configured printable region of one garment side,
// in fractions of the container. It is static configuration: the engine reads
// it for defaults and resets but never mutates it.
type PrintArea struct {
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// DefaultWidthScale is the initial artwork width relative to the print
// area's width when a side gets its first placement.
const DefaultWidthScale = 0.70

// Default print areas for a standard garment mockup: chest-centered on the
// front, slightly higher and wider on the back.
var (
	defaultFrontArea = PrintArea{CenterX: 0.50, CenterY: 0.42, Width: 0.46, Height: 0.52}
	defaultBackArea  = PrintArea{CenterX: 0.50, CenterY: 0.38, Width: 0.50, Height: 0.56}
)

// Registry supplies the print area and default placement per side. Exactly
// one area exists per recognized side.
type Registry struct {
	front PrintArea
	back  PrintArea
}

// NewRegistry creates a registry with the built-in garment areas.
func NewRegistry() *Registry {
	return &Registry{front: defaultFrontArea, back: defaultBackArea}
}

// NewRegistryWithAreas creates a registry from per-side configuration, e.g.
// loaded from the product catalog. Sides missing from the map keep the
// built-in defaults.
func NewRegistryWithAreas(areas map[Side]PrintArea) *Registry {
	r := NewRegistry()
	if a, ok := areas[SideFront]; ok {
		r.front = a
	}
	if a, ok := areas[SideBack]; ok {
		r.back = a
	}
	return r
}

// Area returns the print area for a side.
func (r *Registry) Area(side Side) PrintArea {
	switch side {
	case SideBack:
		return r.back
	default:
		return r.front
	}
}

// DefaultPlacement computes the fresh placement for a side: centered on the
// side's print area, width at 70% of the area, upright, not flipped.
func (r *Registry) DefaultPlacement(side Side) Placement {
	area := r.Area(side)
	return Placement{
		X:             area.CenterX,
		Y:             area.CenterY,
		WidthFraction: Clamp(area.Width*DefaultWidthScale, MinWidthFraction, MaxWidthFraction),
	}
}

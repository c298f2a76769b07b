package placement

import "math"

// TapThresholdPx is the net pointer movement below which a pointer sequence
// on the placeholder target counts as a click rather than a drag. Movement,
// not time: a slow deliberate tap must still open the picker.
const TapThresholdPx = 4.0

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureDrag
	gestureResize
	gestureRotate
	gesturePlaceholder
)

// gesture is the state of one in-flight pointer interaction, captured at
// pointer-down and consumed on every move. Exactly one may be active per
// controller; beginning a new one implicitly ends the prior (pointer-up
// semantics).
type gesture struct {
	kind gestureKind

	// pointer position at gesture start, container pixels
	startPointer Point

	// placement fields at gesture start
	startX     float64
	startY     float64
	startWidth float64

	// resize: pointer-to-center distance at gesture start
	startDistance float64

	// placeholder: pointer has exceeded the tap threshold at least once,
	// committing the sequence to a drag
	dragging bool
}

// controller translates pointer sequences into placement mutations. It
// mutates placements handed to it by the engine; it holds no side or binding
// state of its own.
type controller struct {
	active *gesture
}

// beginDrag starts a body drag.
func (c *controller) beginDrag(p *Placement, pointer Point) {
	c.end(nil)
	c.active = &gesture{
		kind:         gestureDrag,
		startPointer: pointer,
		startX:       p.X,
		startY:       p.Y,
	}
}

// beginResize starts a corner-handle resize. The pointer-to-center distance
// captured here makes the gesture rotation-invariant: distance from center
// does not change when the artwork rotates, so dragging any corner scales
// uniformly regardless of the current rotation.
func (c *controller) beginResize(p *Placement, pointer Point, container Size) {
	c.end(nil)
	dist := Distance(pointer, p.CenterPixels(container))
	if dist == 0 {
		// pointer exactly on center; avoid a zero divisor
		dist = 1
	}
	c.active = &gesture{
		kind:          gestureResize,
		startPointer:  pointer,
		startWidth:    p.WidthFraction,
		startDistance: dist,
	}
}

// beginRotate starts a rotate-handle gesture.
func (c *controller) beginRotate(p *Placement, pointer Point) {
	c.end(nil)
	c.active = &gesture{kind: gestureRotate, startPointer: pointer}
}

// beginPlaceholder starts a pointer sequence on the add-design placeholder.
// Whether it is a click or a drag is decided by the movement threshold as
// the sequence unfolds.
func (c *controller) beginPlaceholder(p *Placement, pointer Point) {
	c.end(nil)
	c.active = &gesture{
		kind:         gesturePlaceholder,
		startPointer: pointer,
		startX:       p.X,
		startY:       p.Y,
	}
}

// update applies one pointer-move to the placement. Moves are applied in the
// order received, last write wins.
func (c *controller) update(p *Placement, pointer Point, container Size) {
	g := c.active
	if g == nil {
		return
	}

	switch g.kind {
	case gestureDrag:
		applyDrag(p, g, pointer, container)

	case gesturePlaceholder:
		if !g.dragging && Distance(pointer, g.startPointer) <= TapThresholdPx {
			// still a tap candidate; leave the placement untouched
			return
		}
		g.dragging = true
		applyDrag(p, g, pointer, container)

	case gestureResize:
		dist := Distance(pointer, p.CenterPixels(container))
		p.WidthFraction = clampWidth(g.startWidth * (dist / g.startDistance))

	case gestureRotate:
		center := p.CenterPixels(container)
		angle := math.Atan2(pointer.Y-center.Y, pointer.X-center.X) * 180 / math.Pi
		// +90 aligns angle zero with the handle resting at top-center
		p.RotationDegrees = NormalizeDegrees(angle + 90)
	}
}

// end terminates the active gesture. If the sequence was a placeholder tap
// the onTap callback fires; the gesture state is cleared first so a
// panicking host callback cannot leave a gesture active.
func (c *controller) end(onTap func()) {
	g := c.active
	c.active = nil
	if g == nil {
		return
	}
	if g.kind == gesturePlaceholder && !g.dragging && onTap != nil {
		onTap()
	}
}

// gesturing reports whether a gesture is in flight.
func (c *controller) gesturing() bool {
	return c.active != nil
}

func applyDrag(p *Placement, g *gesture, pointer Point, container Size) {
	dx := ToFraction(pointer.X-g.startPointer.X, container.Width, 0)
	dy := ToFraction(pointer.Y-g.startPointer.Y, container.Height, 0)
	p.X = Clamp(g.startX+dx, 0, 1)
	p.Y = Clamp(g.startY+dy, 0, 1)
}

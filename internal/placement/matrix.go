package placement

import "math"

// Matrix2D is a 2D affine transform.
// Layout: [a, b, c, d, e, f] representing:
// | a  c  e |
// | b  d  f |
// | 0  0  1 |
type Matrix2D [6]float64

// Identity returns the identity matrix.
func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

// Scale returns a scale matrix.
func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// RotateDegrees returns a rotation matrix.
func RotateDegrees(degrees float64) Matrix2D {
	rad := degrees * math.Pi / 180.0
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	return Matrix2D{cos, sin, -sin, cos, 0, 0}
}

// Multiply multiplies this matrix by another: result = m * other.
// This applies 'other' first, then 'm'.
func (m Matrix2D) Multiply(other Matrix2D) Matrix2D {
	return Matrix2D{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

// TransformPoint applies the matrix to a point.
func (m Matrix2D) TransformPoint(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ToSlice returns the matrix as a float64 slice for JSON serialization.
func (m Matrix2D) ToSlice() []float64 {
	return []float64{m[0], m[1], m[2], m[3], m[4], m[5]}
}

// OverlayTransform composes the affine transform that maps an artwork's
// natural pixel box (0,0)-(naturalW,naturalH) onto the container for the
// given placement: uniform scale to the placed width, optional horizontal
// mirror, rotation about the artwork center, then translation to the
// placement center. Hosts apply it to the overlay element; the preview
// compositor applies it when flattening the design onto the mockup photo.
func OverlayTransform(p Placement, container Size, naturalW, naturalH float64) Matrix2D {
	if naturalW <= 0 || naturalH <= 0 {
		return Identity()
	}
	widthPx := ToPixels(p.WidthFraction, container.Width)
	s := widthPx / naturalW
	sx := s
	if p.Flipped {
		sx = -s
	}
	center := p.CenterPixels(container)

	m := Translate(center.X, center.Y)
	m = m.Multiply(RotateDegrees(p.RotationDegrees))
	m = m.Multiply(Scale(sx, s))
	m = m.Multiply(Translate(-naturalW/2, -naturalH/2))
	return m
}

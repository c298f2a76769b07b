package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFraction(t *testing.T) {
	assert.Equal(t, 0.25, ToFraction(50, 200, 0.9))
	// zero-size container keeps the prior fraction
	assert.Equal(t, 0.9, ToFraction(50, 0, 0.9))
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"inside", 0.5, 0, 1, 0.5},
		{"below", -2, 0, 1, 0},
		{"above", 7, 0, 1, 1},
		{"at_lower", 0, 0, 1, 0},
		{"at_upper", 1, 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.v, tt.lo, tt.hi))
		})
	}
}

func TestNormalizeDegrees(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"upright_range", 90, 90},
		{"positive_boundary", 180, 180},
		{"negative_boundary", -180, 180},
		{"past_full_turn", 450, 90},
		{"negative_past_full_turn", -450, -90},
		{"two_turns", 720, 0},
		{"just_over", 181, -179},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeDegrees(tt.in), 1e-12)
		})
	}
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Distance(Point{X: 0, Y: 0}, Point{X: 3, Y: 4}))
	assert.Equal(t, 0.0, Distance(Point{X: 1, Y: 1}, Point{X: 1, Y: 1}))
}

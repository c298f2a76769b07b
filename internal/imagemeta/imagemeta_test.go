package imagemeta

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestDimensionsPNG(t *testing.T) {
	w, h, err := Dimensions(pngBytes(t, 320, 200), "image/png")
	require.NoError(t, err)
	assert.Equal(t, 320.0, w)
	assert.Equal(t, 200.0, h)
}

func TestDimensionsGarbage(t *testing.T) {
	_, _, err := Dimensions([]byte("not an image"), "image/png")
	assert.Error(t, err)
}

func TestAspectRatio(t *testing.T) {
	ratio, err := AspectRatio(pngBytes(t, 400, 200), "image/png")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, ratio, 1e-9)
}

func TestSVGDimensions(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		w, h float64
	}{
		{
			"width_height_attrs",
			`<svg xmlns="http://www.w3.org/2000/svg" width="120" height="80"></svg>`,
			120, 80,
		},
		{
			"px_units",
			`<svg width="64px" height="32px"></svg>`,
			64, 32,
		},
		{
			"single_quotes",
			`<svg width='10' height='20'></svg>`,
			10, 20,
		},
		{
			"viewbox_fallback",
			`<svg viewBox="0 0 300 150"></svg>`,
			300, 150,
		},
		{
			"viewbox_with_commas",
			`<svg viewBox="0, 0, 24, 24"></svg>`,
			24, 24,
		},
		{
			"xml_prolog",
			`<?xml version="1.0"?><svg width="5" height="5"/>`,
			5, 5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := Dimensions([]byte(tt.svg), "image/svg+xml")
			require.NoError(t, err)
			assert.Equal(t, tt.w, w)
			assert.Equal(t, tt.h, h)
		})
	}
}

func TestSVGRejected(t *testing.T) {
	tests := []struct {
		name string
		svg  string
	}{
		{"no_root", `<div>nope</div>`},
		{"no_dimensions", `<svg xmlns="http://www.w3.org/2000/svg"></svg>`},
		{"percent_only", `<svg width="100%" height="100%"></svg>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Dimensions([]byte(tt.svg), "image/svg+xml")
			assert.ErrorIs(t, err, ErrUnknownDimensions)
		})
	}
}

// stroke-width on the root element must not satisfy a width lookup.
func TestSVGStrokeWidthIgnored(t *testing.T) {
	svg := `<svg stroke-width="3" viewBox="0 0 40 40"></svg>`
	w, h, err := Dimensions([]byte(svg), "image/svg+xml")
	require.NoError(t, err)
	assert.Equal(t, 40.0, w)
	assert.Equal(t, 40.0, h)
}

// Package render flattens a design configuration onto a product mockup
// photo, producing the static preview image used by the cart and order
// confirmation pages.
package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	_ "golang.org/x/image/webp"

	"github.com/inkthread/inkthread/backend-go/internal/placement"
)

// aff3 converts our column-layout affine matrix into the row-major form
// x/image/draw transforms expect.
func aff3(m placement.Matrix2D) f64.Aff3 {
	return f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
}

// Compose draws the artwork onto the mockup at the given placement. The
// mockup's pixel bounds act as the placement container, so fractional
// coordinates land on the same spot the shopper saw in the editor.
func Compose(mockup, artwork image.Image, p placement.Placement) *image.RGBA {
	mb := mockup.Bounds()
	dst := image.NewRGBA(mb)
	draw.Copy(dst, mb.Min, mockup, mb, draw.Src, nil)

	ab := artwork.Bounds()
	container := placement.Size{
		Width:  float64(mb.Dx()),
		Height: float64(mb.Dy()),
	}
	m := placement.OverlayTransform(p, container, float64(ab.Dx()), float64(ab.Dy()))

	draw.ApproxBiLinear.Transform(dst, aff3(m), artwork, ab, draw.Over, nil)
	return dst
}

// ComposePNG decodes the mockup and artwork blobs, composes them, and
// returns the flattened preview as PNG bytes.
func ComposePNG(mockupData, artworkData []byte, p placement.Placement) ([]byte, error) {
	mockup, _, err := image.Decode(bytes.NewReader(mockupData))
	if err != nil {
		return nil, fmt.Errorf("decode mockup: %w", err)
	}
	artwork, _, err := image.Decode(bytes.NewReader(artworkData))
	if err != nil {
		return nil, fmt.Errorf("decode artwork: %w", err)
	}

	out := Compose(mockup, artwork, p)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

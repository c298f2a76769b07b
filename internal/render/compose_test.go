package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkthread/inkthread/backend-go/internal/placement"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestComposePlacesArtworkAtCenter(t *testing.T) {
	mockup := solidPNG(t, 100, 100, color.White)
	artwork := solidPNG(t, 10, 10, color.RGBA{R: 255, A: 255})

	p := placement.Placement{X: 0.5, Y: 0.5, WidthFraction: 0.5}
	out, err := ComposePNG(mockup, artwork, p)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	// 0.5 width fraction on a 100px container: a 50px red square at center
	r, g, b, _ := img.At(50, 50).RGBA()
	assert.Greater(t, r, g)
	assert.Greater(t, r, b)

	// well outside the placed artwork the mockup shows through
	r, g, b, _ = img.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}

func TestComposeOffCenterPlacement(t *testing.T) {
	mockup := solidPNG(t, 200, 200, color.White)
	artwork := solidPNG(t, 20, 20, color.RGBA{B: 255, A: 255})

	p := placement.Placement{X: 0.25, Y: 0.25, WidthFraction: 0.2}
	out, err := ComposePNG(mockup, artwork, p)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	_, _, b, _ := img.At(50, 50).RGBA()
	assert.Equal(t, uint32(0xffff), b)
	r, g, _, _ := img.At(50, 50).RGBA()
	assert.Less(t, r, uint32(0xffff))
	assert.Less(t, g, uint32(0xffff))

	// placement center is far from the image center
	r, g, b, _ = img.At(150, 150).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}

func TestComposeRejectsGarbage(t *testing.T) {
	_, err := ComposePNG([]byte("junk"), solidPNG(t, 4, 4, color.Black), placement.Placement{})
	assert.Error(t, err)

	_, err = ComposePNG(solidPNG(t, 4, 4, color.Black), []byte("junk"), placement.Placement{})
	assert.Error(t, err)
}

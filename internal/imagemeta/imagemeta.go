// Package imagemeta extracts pixel dimensions from uploaded artwork files
// without fully decoding them.
package imagemeta

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"

	// registers the webp decoder with image
	_ "golang.org/x/image/webp"
)

// ErrUnknownDimensions is returned when a file's dimensions cannot be
// determined.
var ErrUnknownDimensions = errors.New("cannot determine image dimensions")

// Dimensions returns the intrinsic width and height of an image file.
// Raster formats (PNG, JPEG, WebP) go through the stdlib config decoders;
// SVG is parsed from its width/height or viewBox attributes.
func Dimensions(data []byte, contentType string) (w, h float64, err error) {
	if contentType == "image/svg+xml" {
		return svgDimensions(data)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, ErrUnknownDimensions
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

// AspectRatio returns width/height for an image file.
func AspectRatio(data []byte, contentType string) (float64, error) {
	w, h, err := Dimensions(data, contentType)
	if err != nil {
		return 0, err
	}
	if h == 0 {
		return 0, ErrUnknownDimensions
	}
	return w / h, nil
}

// svgDimensions reads the root <svg> element's width/height attributes,
// falling back to the viewBox. SVG files from design tools carry one or the
// other; anything without both is rejected.
func svgDimensions(data []byte) (float64, float64, error) {
	root, ok := svgRootTag(string(data))
	if !ok {
		return 0, 0, fmt.Errorf("%w: no svg root element", ErrUnknownDimensions)
	}

	w, wok := svgLength(attrValue(root, "width"))
	h, hok := svgLength(attrValue(root, "height"))
	if wok && hok && w > 0 && h > 0 {
		return w, h, nil
	}

	if vb := attrValue(root, "viewBox"); vb != "" {
		parts := strings.Fields(strings.ReplaceAll(vb, ",", " "))
		if len(parts) == 4 {
			vw, errW := strconv.ParseFloat(parts[2], 64)
			vh, errH := strconv.ParseFloat(parts[3], 64)
			if errW == nil && errH == nil && vw > 0 && vh > 0 {
				return vw, vh, nil
			}
		}
	}

	return 0, 0, fmt.Errorf("%w: svg has no usable width/height or viewBox", ErrUnknownDimensions)
}

// svgRootTag returns the contents of the opening <svg ...> tag.
func svgRootTag(s string) (string, bool) {
	start := strings.Index(s, "<svg")
	if start < 0 {
		return "", false
	}
	end := strings.Index(s[start:], ">")
	if end < 0 {
		return "", false
	}
	return s[start : start+end], true
}

// attrValue extracts a quoted attribute value from a tag string. The
// attribute name must be preceded by whitespace so "width" does not match
// inside "stroke-width".
func attrValue(tag, name string) string {
	for _, quote := range []string{`"`, `'`} {
		marker := name + "=" + quote
		rest := tag
		for {
			idx := strings.Index(rest, marker)
			if idx < 0 {
				break
			}
			boundary := idx == 0 || rest[idx-1] == ' ' || rest[idx-1] == '\t' ||
				rest[idx-1] == '\n' || rest[idx-1] == '\r'
			rest = rest[idx+len(marker):]
			if !boundary {
				continue
			}
			end := strings.Index(rest, quote)
			if end < 0 {
				break
			}
			return rest[:end]
		}
	}
	return ""
}

// svgLength parses an SVG length, ignoring a trailing unit like "px".
func svgLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "%") {
		return 0, false
	}
	s = strings.TrimRight(s, "abcdefghijklmnopqrstuvwxyz")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

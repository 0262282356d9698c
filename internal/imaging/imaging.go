// Package imaging provides the small amount of local pixel work the pipeline
// needs: validating and normalizing provider payloads to PNG, resizing to the
// requested format dimensions, and compositing the brand logo onto finals.
// Anything beyond simple resize/format conversion stays with the providers.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // decoder registration
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// LogoWidthRatio is the fraction of the base image width the overlaid logo
// occupies.
const LogoWidthRatio = 0.12

// logoMargin is the pixel gap between the logo and the image edges.
const logoMargin = 24

// Decode parses PNG or JPEG bytes.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// EncodePNG serializes an image as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Normalize validates provider bytes, flattens any alpha channel onto a white
// background, and re-encodes as PNG. Returns the normalized bytes and the
// image dimensions.
func Normalize(data []byte) ([]byte, int, int, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, 0, 0, err
	}

	flattened := flattenOnWhite(img)
	out, err := EncodePNG(flattened)
	if err != nil {
		return nil, 0, 0, err
	}

	bounds := flattened.Bounds()
	return out, bounds.Dx(), bounds.Dy(), nil
}

// Resize scales an image to exactly width x height using bilinear filtering.
func Resize(img image.Image, width, height int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}

// EnsureSize decodes, resizes when the dimensions differ, and re-encodes PNG.
func EnsureSize(data []byte, width, height int) ([]byte, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height {
		return data, nil
	}
	return EncodePNG(Resize(img, width, height))
}

// OverlayLogo composites the logo onto the base image's bottom-right corner,
// scaled to LogoWidthRatio of the base width. Returns PNG bytes.
func OverlayLogo(base, logo []byte) ([]byte, error) {
	baseImg, err := Decode(base)
	if err != nil {
		return nil, fmt.Errorf("base image: %w", err)
	}
	logoImg, err := Decode(logo)
	if err != nil {
		return nil, fmt.Errorf("logo image: %w", err)
	}

	baseBounds := baseImg.Bounds()
	logoWidth := int(float64(baseBounds.Dx()) * LogoWidthRatio)
	if logoWidth < 1 {
		logoWidth = 1
	}
	logoBounds := logoImg.Bounds()
	logoHeight := logoWidth * logoBounds.Dy() / maxInt(logoBounds.Dx(), 1)
	if logoHeight < 1 {
		logoHeight = 1
	}
	scaled := Resize(logoImg, logoWidth, logoHeight)

	canvas := image.NewRGBA(baseBounds)
	draw.Draw(canvas, baseBounds, baseImg, baseBounds.Min, draw.Src)

	pos := image.Rect(
		baseBounds.Max.X-logoWidth-logoMargin,
		baseBounds.Max.Y-logoHeight-logoMargin,
		baseBounds.Max.X-logoMargin,
		baseBounds.Max.Y-logoMargin,
	)
	draw.Draw(canvas, pos, scaled, scaled.Bounds().Min, draw.Over)

	return EncodePNG(canvas)
}

// flattenOnWhite removes transparency by compositing over a white background.
// Opaque images pass through untouched.
func flattenOnWhite(img image.Image) image.Image {
	if opaque, ok := img.(interface{ Opaque() bool }); ok && opaque.Opaque() {
		return img
	}
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Over)
	return dst
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

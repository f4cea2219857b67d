// Package mapart renders the ownership map and keeps the versioned artifact
// log in sync with the authoritative district table.
package mapart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// maskOpacity attenuates every district mask so the base map stays visible
// under the owner color.
const maskOpacity = 0.83

// Layer pairs one district mask with the color blended through it.
type Layer struct {
	Mask  []byte
	Color color.RGBA
}

// ParseHexColor decodes a #RRGGBB string.
func ParseHexColor(value string) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(value, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", value, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Compose renders the ownership map: the base canvas, one color pass per
// district layer, and the legend overlay. Layer order does not affect the
// output because district masks never overlap. The result is a
// deterministically encoded PNG.
func Compose(base []byte, layers []Layer, legend []byte) ([]byte, error) {
	baseImage, err := decodeRGBA(base)
	if err != nil {
		return nil, fmt.Errorf("decode base canvas: %w", err)
	}
	bounds := baseImage.Bounds()

	for i, layer := range layers {
		maskImage, err := decodeGray(layer.Mask, bounds)
		if err != nil {
			return nil, fmt.Errorf("decode district mask %d: %w", i, err)
		}
		blend(baseImage, maskImage, layer.Color)
	}

	legendImage, err := decodeRGBA(legend)
	if err != nil {
		return nil, fmt.Errorf("decode legend layer: %w", err)
	}
	draw.Draw(baseImage, bounds, legendImage, legendImage.Bounds().Min, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, baseImage); err != nil {
		return nil, fmt.Errorf("encode map: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeRGBA(data []byte) (*image.RGBA, error) {
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	rgba := image.NewRGBA(decoded.Bounds())
	draw.Draw(rgba, rgba.Bounds(), decoded, decoded.Bounds().Min, draw.Src)
	return rgba, nil
}

// decodeGray decodes a mask and scales it to the canvas size so masks can be
// authored at any resolution.
func decodeGray(data []byte, bounds image.Rectangle) (*image.Gray, error) {
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	gray := image.NewGray(decoded.Bounds())
	draw.Draw(gray, gray.Bounds(), decoded, decoded.Bounds().Min, draw.Src)
	if gray.Bounds().Size() == bounds.Size() {
		return gray, nil
	}
	scaled := image.NewGray(bounds)
	xdraw.ApproxBiLinear.Scale(scaled, bounds, gray, gray.Bounds(), xdraw.Src, nil)
	return scaled, nil
}

// blend mixes the layer color into the canvas using the mask value as a
// per-pixel factor attenuated by maskOpacity.
func blend(canvas *image.RGBA, mask *image.Gray, layerColor color.RGBA) {
	bounds := canvas.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			weight := float64(mask.GrayAt(x, y).Y) / 255 * maskOpacity
			if weight == 0 {
				continue
			}
			current := canvas.RGBAAt(x, y)
			canvas.SetRGBA(x, y, color.RGBA{
				R: mix(current.R, layerColor.R, weight),
				G: mix(current.G, layerColor.G, weight),
				B: mix(current.B, layerColor.B, weight),
				A: 0xff,
			})
		}
	}
}

func mix(base, overlay uint8, weight float64) uint8 {
	return uint8(float64(base)*(1-weight) + float64(overlay)*weight + 0.5)
}

package codec

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/soniakeys/quant/median"
)

// PaletteSize converts a PNG quality range into a palette size: up to
// 256*max/100 colors and never fewer than 256*min/100, clamped to [2, 256].
func PaletteSize(qualityMin, qualityMax int) int {
	n := 256 * qualityMax / 100
	if floor := 256 * qualityMin / 100; n < floor {
		n = floor
	}
	switch {
	case n < 2:
		n = 2
	case n > 256:
		n = 256
	}
	return n
}

// Quantize reduces img to at most colors colors with Floyd-Steinberg
// dithering.
func Quantize(img image.Image, colors int) *image.Paletted {
	b := img.Bounds()
	pal := median.Quantizer(colors).Quantize(make(color.Palette, 0, colors), img)
	if len(pal) == 0 {
		pal = color.Palette{color.Transparent}
	}
	out := image.NewPaletted(b, pal)
	draw.FloydSteinberg.Draw(out, b, img, b.Min)
	return out
}

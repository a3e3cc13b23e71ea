package codec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, q int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, gradient(64, 48), imaging.JPEG, imaging.JPEGQuality(q)))
	return buf.Bytes()
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, gradient(64, 48)))
	return buf.Bytes()
}

func encodeGIF(t *testing.T, frames int) []byte {
	t.Helper()
	g := &gif.GIF{}
	for i := 0; i < frames; i++ {
		p := image.NewPaletted(image.Rect(0, 0, 16, 16), palette.Plan9)
		for x := 0; x < 16; x++ {
			p.SetColorIndex(x, i%16, uint8(x+i))
		}
		g.Image = append(g.Image, p)
		g.Delay = append(g.Delay, 10)
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))
	return buf.Bytes()
}

var testOpts = Options{JPEGQuality: 80, WebPQuality: 80, PNGQualityMin: 70, PNGQualityMax: 80}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.jpg", JPEG},
		{"a.JPEG", JPEG},
		{"b.png", PNG},
		{"c.Gif", GIF},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
	_, err := FormatOf("x.bmp")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestPaletteSize(t *testing.T) {
	assert.Equal(t, 204, PaletteSize(70, 80))
	assert.Equal(t, 256, PaletteSize(100, 100))
	assert.Equal(t, 2, PaletteSize(0, 0))
	assert.Equal(t, 128, PaletteSize(50, 10), "the minimum wins when the range is inverted")
}

func TestReencode_JPEG(t *testing.T) {
	src := encodeJPEG(t, 100)
	im, err := Decode(src, JPEG)
	require.NoError(t, err)

	out, err := New(testOpts).Reencode(im)
	require.NoError(t, err)
	assert.Less(t, len(out), len(src))

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, cfg.Width)
}

func TestReencode_PNGIsPaletted(t *testing.T) {
	im, err := Decode(encodePNG(t), PNG)
	require.NoError(t, err)

	out, err := New(testOpts).Reencode(im)
	require.NoError(t, err)

	dec, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	p, ok := dec.(*image.Paletted)
	require.True(t, ok, "quantized PNG should decode as paletted, got %T", dec)
	assert.LessOrEqual(t, len(p.Palette), PaletteSize(70, 80))
}

func TestReencode_GIFKeepsFrames(t *testing.T) {
	im, err := Decode(encodeGIF(t, 3), GIF)
	require.NoError(t, err)
	assert.Equal(t, 3, im.Frames())

	out, err := New(testOpts).Reencode(im)
	require.NoError(t, err)
	g, err := gif.DecodeAll(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, g.Image, 3)
}

func TestEncodeWebP(t *testing.T) {
	c := New(testOpts)

	im, err := Decode(encodeJPEG(t, 90), JPEG)
	require.NoError(t, err)
	out, err := c.EncodeWebP(im)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(out[:4]))
	assert.Equal(t, "WEBP", string(out[8:12]))

	still, err := Decode(encodeGIF(t, 1), GIF)
	require.NoError(t, err)
	_, err = c.EncodeWebP(still)
	assert.NoError(t, err, "single-frame GIF gets a WebP sibling")

	anim, err := Decode(encodeGIF(t, 2), GIF)
	require.NoError(t, err)
	_, err = c.EncodeWebP(anim)
	assert.True(t, errors.Is(err, ErrAnimated))
}

func TestDecode_Corrupt(t *testing.T) {
	for _, f := range []Format{JPEG, PNG, GIF} {
		_, err := Decode([]byte("definitely not an image"), f)
		assert.Error(t, err, string(f))
	}
}

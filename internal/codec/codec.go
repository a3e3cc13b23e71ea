// Package codec re-encodes raster images within their own format family and
// derives WebP siblings.
//
// JPEG and PNG go through imaging (with EXIF auto-orientation on decode); PNG
// output is palette-quantized with a median-cut quantizer. GIF is decoded and
// re-encoded frame by frame with image/gif so animation survives. WebP is
// always lossy.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Format is a source image family.
type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	GIF  Format = "gif"
)

// ErrUnsupportedFormat is returned for extensions outside the raster set.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ErrAnimated is returned by EncodeWebP for multi-frame GIFs.
var ErrAnimated = errors.New("animated image has no WebP sibling")

// FormatOf maps a file extension to its Format.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".png":
		return PNG, nil
	case ".gif":
		return GIF, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// Options holds the quality targets.
type Options struct {
	JPEGQuality   int // 1-100
	WebPQuality   int // 1-100
	PNGQualityMin int // 1-100
	PNGQualityMax int // 1-100
}

// Image is a decoded source. Animated holds every frame for GIF input.
type Image struct {
	Format   Format
	Image    image.Image
	Animated *gif.GIF
}

// Frames returns the number of frames (1 for still images).
func (im *Image) Frames() int {
	if im.Animated != nil {
		return len(im.Animated.Image)
	}
	return 1
}

// Decode decodes data as format f.
func Decode(data []byte, f Format) (*Image, error) {
	switch f {
	case JPEG, PNG:
		img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err != nil {
			return nil, err
		}
		return &Image{Format: f, Image: img}, nil
	case GIF:
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		if len(g.Image) == 0 {
			return nil, errors.New("gif: no frames")
		}
		return &Image{Format: f, Image: g.Image[0], Animated: g}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
}

// Codec encodes decoded images with fixed Options.
type Codec struct {
	opts Options
}

// New returns a Codec for opts.
func New(opts Options) *Codec {
	return &Codec{opts: opts}
}

// Reencode encodes im in its own format family.
func (c *Codec) Reencode(im *Image) ([]byte, error) {
	var buf bytes.Buffer
	switch im.Format {
	case JPEG:
		if err := imaging.Encode(&buf, im.Image, imaging.JPEG, imaging.JPEGQuality(c.opts.JPEGQuality)); err != nil {
			return nil, err
		}
	case PNG:
		pal := Quantize(im.Image, PaletteSize(c.opts.PNGQualityMin, c.opts.PNGQualityMax))
		if err := imaging.Encode(&buf, pal, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
			return nil, err
		}
	case GIF:
		if err := gif.EncodeAll(&buf, im.Animated); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, im.Format)
	}
	return buf.Bytes(), nil
}

// EncodeWebP encodes a lossy WebP sibling. Multi-frame GIFs yield ErrAnimated.
func (c *Codec) EncodeWebP(im *Image) ([]byte, error) {
	if im.Frames() > 1 {
		return nil, ErrAnimated
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, im.Image, &webp.Options{Quality: float32(c.opts.WebPQuality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

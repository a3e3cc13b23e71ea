package probe

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strconv"

	_ "golang.org/x/image/webp"
)

// Result is the header information of one image.
type Result struct {
	Format string // "jpeg", "png", "gif", "webp"
	Width  int
	Height int
}

// Pixels returns Width*Height.
func (r *Result) Pixels() int {
	return r.Width * r.Height
}

// Resolution returns "WxH", or "unknown" when either dimension is missing.
func (r *Result) Resolution() string {
	if r.Width <= 0 || r.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(r.Width) + "x" + strconv.Itoa(r.Height)
}

// Probe reads the header of the image at path.
func Probe(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := probe(f)
	if err != nil {
		return nil, fmt.Errorf("probe %q: %w", path, err)
	}
	return r, nil
}

// ProbeBytes reads the header of an in-memory image.
func ProbeBytes(data []byte) (*Result, error) {
	return probe(bytes.NewReader(data))
}

func probe(r io.Reader) (*Result, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return nil, err
	}
	return &Result{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

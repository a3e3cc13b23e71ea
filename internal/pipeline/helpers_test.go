package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/backmassage/assetpress/internal/config"
	"github.com/backmassage/assetpress/internal/logging"
)

func testConfig(stage config.Stage, source, output string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Stage = stage
	cfg.Source = source
	cfg.OutputDir = output
	cfg.ColorMode = config.ColorNever
	cfg.Workers = 3
	return &cfg
}

// captureLogger returns a verbose logger writing everything to one buffer.
func captureLogger() (*logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.NewLoggerTo(&buf, &buf, true), &buf
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

// sized creates a file of exactly size bytes without writing its content.
func sized(t *testing.T, dir, name string, size int64) string {
	t.Helper()
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := f.Truncate(size); err != nil {
		t.Fatal(err)
	}
	return p
}

func pattern(w, h, seed int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x*7 + seed), G: uint8(y*5 + seed), B: uint8((x + y) * 3), A: 255})
		}
	}
	return img
}

func writeJPEG(t *testing.T, dir, name string, seed int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, pattern(48, 32, seed), &jpeg.Options{Quality: 100}); err != nil {
		t.Fatal(err)
	}
	return write(t, dir, name, buf.String())
}

func writePNG(t *testing.T, dir, name string, seed int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, pattern(48, 32, seed)); err != nil {
		t.Fatal(err)
	}
	return write(t, dir, name, buf.String())
}

func writeGIF(t *testing.T, dir, name string, frames int) string {
	t.Helper()
	g := &gif.GIF{}
	for i := 0; i < frames; i++ {
		p := image.NewPaletted(image.Rect(0, 0, 16, 16), palette.Plan9)
		for x := 0; x < 16; x++ {
			p.SetColorIndex(x, (x+i)%16, uint8(40+i))
		}
		g.Image = append(g.Image, p)
		g.Delay = append(g.Delay, 5)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatal(err)
	}
	return write(t, dir, name, buf.String())
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

package asset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestDiscover_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b.PNG", "bb")
	write(t, dir, "a.jpg", "a")
	write(t, dir, "c.gif", "ccc")
	write(t, dir, "d.jpeg", "dddd")
	write(t, dir, "notes.txt", "x")
	write(t, dir, "a.webp", "w")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0o755))
	write(t, filepath.Join(dir, "nested.png"), "deep.png", "x")

	got, err := Discover(dir, ImageExtensions)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.jpg", "b.PNG", "c.gif", "d.jpeg"}, Names(got))
	assert.Equal(t, int64(2), got[1].Size)
	assert.Equal(t, RasterImage, got[1].Kind)
	assert.Equal(t, filepath.Join(dir, "c.gif"), got[2].Path)
}

func TestDiscover_Scripts(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "z.js", "z")
	write(t, dir, "app.js", "a")
	write(t, dir, "app.js.map", "m")
	write(t, dir, "types.ts", "t")

	got, err := Discover(dir, ScriptExtensions)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.js", "z.js"}, Names(got))
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), ImageExtensions)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, "main.css", "body{}")

	a, data, err := Read(p)
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(data))
	assert.Equal(t, int64(6), a.Size)
	assert.Equal(t, Stylesheet, a.Kind)
	assert.Equal(t, "main.css", a.Name)

	_, _, err = Read(filepath.Join(dir, "missing.css"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		path string
		want Kind
		ok   bool
	}{
		{"x.css", Stylesheet, true},
		{"x.JS", Script, true},
		{"x.jpeg", RasterImage, true},
		{"x.webp", "", false},
		{"x", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := KindOf(tt.path)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

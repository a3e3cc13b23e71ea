// Package asset models the source files a stage consumes and enumerates them
// from a directory in a deterministic order.
package asset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind is the broad family of an asset.
type Kind string

const (
	Stylesheet  Kind = "stylesheet"
	Script      Kind = "script"
	RasterImage Kind = "raster-image"
)

// Extension sets per kind (lowercase, with leading dot).
var (
	StylesheetExtensions = []string{".css"}
	ScriptExtensions     = []string{".js"}
	ImageExtensions      = []string{".jpg", ".jpeg", ".png", ".gif"}
)

// Asset is one source file. Path is its identity.
type Asset struct {
	Path string
	Name string
	Kind Kind
	Size int64
}

// KindOf returns the kind for path's extension (case-insensitive).
func KindOf(path string) (Kind, bool) {
	ext := filepath.Ext(path)
	switch {
	case hasExt(ext, StylesheetExtensions):
		return Stylesheet, true
	case hasExt(ext, ScriptExtensions):
		return Script, true
	case hasExt(ext, ImageExtensions):
		return RasterImage, true
	}
	return "", false
}

func hasExt(ext string, exts []string) bool {
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// Stat builds the Asset for a single file. A missing file is reported with
// an error satisfying errors.Is(err, fs.ErrNotExist).
func Stat(path string) (Asset, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Asset{}, err
	}
	if !fi.Mode().IsRegular() {
		return Asset{}, fmt.Errorf("%s is not a regular file", path)
	}
	kind, _ := KindOf(path)
	return Asset{Path: path, Name: fi.Name(), Kind: kind, Size: fi.Size()}, nil
}

// Read returns the Asset for path together with its content.
func Read(path string) (Asset, []byte, error) {
	a, err := Stat(path)
	if err != nil {
		return Asset{}, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Asset{}, nil, err
	}
	a.Size = int64(len(data))
	return a, data, nil
}

// Discover lists the regular files directly inside dir (no recursion) whose
// extension matches one of exts, case-insensitively. The result is in
// lexicographic name order.
func Discover(dir string, exts []string) ([]Asset, error) {
	entries, err := os.ReadDir(dir) // sorted by filename
	if err != nil {
		return nil, err
	}
	var assets []Asset
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if !hasExt(filepath.Ext(e.Name()), exts) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, e.Name())
		kind, _ := KindOf(path)
		assets = append(assets, Asset{Path: path, Name: e.Name(), Kind: kind, Size: fi.Size()})
	}
	return assets, nil
}

// Names returns the Name of every asset, in order.
func Names(assets []Asset) []string {
	names := make([]string, len(assets))
	for i, a := range assets {
		names[i] = a.Name
	}
	return names
}

package pipeline

import (
	"os"
	"path/filepath"

	"github.com/backmassage/assetpress/internal/asset"
)

// discover lists the matching files directly inside dir in lexicographic
// order. A missing dir is reported as ErrInputMissing.
func discover(dir string, exts []string) ([]asset.Asset, error) {
	assets, err := asset.Discover(dir, exts)
	if err != nil {
		return nil, inputError(dir, err)
	}
	return assets, nil
}

// dirNames returns the exact names of the regular files in dir. Lookups are
// case-sensitive regardless of the filesystem.
func dirNames(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names[e.Name()] = true
		}
	}
	return names, nil
}

// resolveDir returns the absolute, symlink-resolved form of dir. A dir that
// does not exist yet resolves to its absolute path.
func resolveDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

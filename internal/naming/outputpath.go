package naming

import (
	"path/filepath"
	"strings"
)

// Fixed artifact names. Re-runs overwrite them.
const (
	MinifiedCSS = "main.min.css"
	CriticalCSS = "critical.css"
	BundleJS    = "bundle.min.js"
	BundleMap   = BundleJS + ".map"
)

// Stem returns name without its final extension.
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// WebPName replaces the extension of name with ".webp".
func WebPName(name string) string {
	return Stem(name) + ".webp"
}

// OutputPath is where the re-encoded copy of the named source is written.
// The original name is kept.
func OutputPath(outputDir, name string) string {
	return filepath.Join(outputDir, name)
}

// WebPPath is where the WebP sibling of the named source is written.
func WebPPath(outputDir, name string) string {
	return filepath.Join(outputDir, WebPName(name))
}

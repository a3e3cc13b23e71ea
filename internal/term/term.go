// Package term resolves ANSI color support and terminal detection.
//
// A [Palette] is resolved once at startup from the configured color mode and
// handed to the logger and the banner printer. When colors are disabled every
// field is the empty string, so concatenation is a no-op.
package term

import (
	"os"
	"strings"

	"github.com/backmassage/assetpress/internal/config"
)

// Palette holds the escape sequences used for leveled output.
type Palette struct {
	Red     string
	Green   string
	Yellow  string
	Blue    string
	Cyan    string
	Magenta string
	Reset   string
}

var ansi = Palette{
	Red:     "\033[1;91m",
	Green:   "\033[1;92m",
	Yellow:  "\033[1;93m",
	Blue:    "\033[1;94m",
	Cyan:    "\033[1;96m",
	Magenta: "\033[1;95m",
	Reset:   "\033[0m",
}

// Resolve returns the ANSI palette when colors should be used for out, or the
// empty palette otherwise.
func Resolve(mode config.ColorMode, out *os.File) Palette {
	if enabled(mode, out) {
		return ansi
	}
	return Palette{}
}

// Enabled reports whether the palette emits escape sequences.
func (p Palette) Enabled() bool { return p.Reset != "" }

// Paint wraps s in color when the palette is enabled.
func (p Palette) Paint(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + p.Reset
}

// enabled determines whether colors should be used based on the configured
// mode, TTY detection, and the NO_COLOR env var (https://no-color.org).
func enabled(mode config.ColorMode, out *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(out) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

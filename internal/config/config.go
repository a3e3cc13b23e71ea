// Package config holds runtime configuration: defaults, .env and environment
// overrides, CLI flag parsing, and validation. Defaults reproduce the
// conventional src/ -> dist/ layout of a static website build.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// --- Enum types for validated string fields ---

// Stage selects which pipeline stage a run executes.
type Stage string

const (
	StageCSS    Stage = "css"    // Stylesheet prefix + minify + critical subset.
	StageJS     Stage = "js"     // Script concatenation + minify + source map.
	StageImages Stage = "images" // Raster re-encode + WebP siblings.
	StageAudit  Stage = "audit"  // Image size and format-coverage audit.
	StageCheck  Stage = "check"  // Engine diagnostics.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// S3Config describes the optional artifact publishing target.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then by [LoadEnv], then mutated by [ParseFlags] before being passed (by
// pointer) to the stage that runs.
type Config struct {
	Stage Stage

	// Paths. Source is the positional argument: a file for css, a directory
	// for js/images/audit, or an http(s) URL for audit.
	Source    string
	OutputDir string

	// Stylesheet transform.
	BrowserTargets     []string // esbuild engine targets, e.g. "chrome58".
	KeepAnimationNames bool     // Default: true. @keyframes names must survive minification.

	// Script bundle.
	ScriptExt         string // Fixed: ".js".
	DropConsole       bool   // Default: false.
	KeepFunctionNames bool   // Default: false.
	KeepClassNames    bool   // Default: false.
	MangleTopLevel    bool   // Default: true.
	Passes            int    // Default: 2. Minimum 2.
	SourceMap         bool   // Default: true.

	// Image transcode.
	JPEGQuality   int // Default: 80.
	WebPQuality   int // Default: 80.
	PNGQualityMin int // Default: 70.
	PNGQualityMax int // Default: 80.
	Workers       int // Default: GOMAXPROCS.
	DryRun        bool

	// Publishing.
	Publish bool
	S3      S3Config

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode
	LogFile   string
	EnvFile   string // Default: ".env".
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [LoadEnv] and [ParseFlags] apply overrides.
func DefaultConfig() Config {
	return Config{
		BrowserTargets:     []string{"chrome58", "edge16", "firefox57", "safari11"},
		KeepAnimationNames: true,
		ScriptExt:          ".js",
		DropConsole:        false,
		KeepFunctionNames:  false,
		KeepClassNames:     false,
		MangleTopLevel:     true,
		Passes:             2,
		SourceMap:          true,
		JPEGQuality:        80,
		WebPQuality:        80,
		PNGQualityMin:      70,
		PNGQualityMax:      80,
		Workers:            runtime.GOMAXPROCS(0),
		S3: S3Config{
			Region: "us-east-1",
			Bucket: "assetpress-artifacts",
		},
		ColorMode: ColorAuto,
		EnvFile:   ".env",
	}
}

// DefaultSource returns the source path used when no positional argument is
// given for the stage.
func DefaultSource(stage Stage) string {
	switch stage {
	case StageCSS:
		return filepath.Join("src", "css", "main.css")
	case StageJS:
		return filepath.Join("src", "js")
	case StageImages, StageAudit:
		return filepath.Join("src", "images")
	}
	return ""
}

// DefaultOutputDir returns the artifact directory for the stage. The audit
// and check stages write no artifacts and return "".
func DefaultOutputDir(stage Stage) string {
	switch stage {
	case StageCSS:
		return filepath.Join("dist", "css")
	case StageJS:
		return filepath.Join("dist", "js")
	case StageImages:
		return filepath.Join("dist", "images", "optimized")
	}
	return ""
}

// IsRemote reports whether Source names an http(s) URL rather than a path.
func (c *Config) IsRemote() bool {
	s := strings.ToLower(c.Source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and numeric ranges, then fills Source and
// OutputDir from the stage defaults when they are empty.
func (c *Config) Validate() error {
	switch c.Stage {
	case StageCSS, StageJS, StageImages, StageAudit, StageCheck:
		// valid
	default:
		return fmt.Errorf("invalid stage %q (use css, js, images, audit or check)", c.Stage)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if err := checkQuality("JPEG quality", c.JPEGQuality); err != nil {
		return err
	}
	if err := checkQuality("WebP quality", c.WebPQuality); err != nil {
		return err
	}
	if err := checkQuality("PNG minimum quality", c.PNGQualityMin); err != nil {
		return err
	}
	if err := checkQuality("PNG maximum quality", c.PNGQualityMax); err != nil {
		return err
	}
	if c.PNGQualityMin > c.PNGQualityMax {
		return fmt.Errorf("PNG quality range %d-%d is inverted", c.PNGQualityMin, c.PNGQualityMax)
	}
	if c.Passes < 2 {
		return fmt.Errorf("compression passes must be at least 2 (got %d)", c.Passes)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (got %d)", c.Workers)
	}
	if len(c.BrowserTargets) == 0 {
		return errors.New("at least one browser target is required")
	}

	if c.Stage == StageCheck {
		return nil
	}
	if c.Source == "" {
		c.Source = DefaultSource(c.Stage)
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir(c.Stage)
	}
	if c.Publish && c.Stage == StageAudit {
		return errors.New("--publish has no artifacts to upload for the audit stage")
	}
	return nil
}

func checkQuality(name string, q int) error {
	if q < 1 || q > 100 {
		return fmt.Errorf("%s must be between 1 and 100 (got %d)", name, q)
	}
	return nil
}

// ValidatePaths ensures the resolved output directory is not inside (or equal
// to) the resolved input directory. This prevents a re-run from discovering
// its own output files. Both arguments must be absolute, symlink-resolved
// paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}

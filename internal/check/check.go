// Package check provides system diagnostics (the check stage) and pre-stage
// dependency validation (CheckDeps) for the CSS prefixer, the CSS and JS
// minifiers, the WebP encoder and the publishing target.
package check

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/backmassage/assetpress/internal/codec"
	"github.com/backmassage/assetpress/internal/config"
	"github.com/backmassage/assetpress/internal/minify"
	"github.com/backmassage/assetpress/internal/pipeline"
	"github.com/backmassage/assetpress/internal/planner"
)

// Sentinel errors returned by CheckDeps when an engine or setting is unusable.
var (
	ErrBrowserTargets  = errors.New("browser targets are not understood by the CSS prefixer")
	ErrStyleEngine     = errors.New("CSS engine self-test failed")
	ErrScriptEngine    = errors.New("JS minifier self-test failed")
	ErrWebPEncoder     = errors.New("WebP encoder self-test failed")
	ErrS3Incomplete    = errors.New("publishing enabled but the S3 endpoint or bucket is not set")
	ErrS3NoCredentials = errors.New("publishing enabled but S3 credentials are missing")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// stays testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

const (
	sampleCSS = "a{display:flex;user-select:none}@keyframes spin{to{transform:rotate(1turn)}}"
	sampleJS  = "function add(a, b) { debugger; return a + b; }\nadd(1, 2);\n"
)

// RunCheck runs the interactive check flow: each engine is exercised on a
// tiny input, default source paths are looked up and the publishing settings
// are reviewed. Missing paths are informational; it returns false only when
// an engine or the enabled publishing target is unusable.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")
	log.Debug("Workers: %d, JS passes: %d", cfg.Workers, cfg.Passes)

	ok := true
	for _, c := range []struct {
		name string
		run  func(*config.Config) error
	}{
		{"CSS prefixer (" + strings.Join(cfg.BrowserTargets, ", ") + ")", checkPrefixer},
		{"CSS minifier", checkStyleMinifier},
		{"JS minifier", checkScriptMinifier},
		{"WebP encoder", checkWebP},
	} {
		if err := c.run(cfg); err != nil {
			log.Error("%s: %v", c.name, err)
			ok = false
			continue
		}
		log.Success("%s works", c.name)
	}

	checkSourcePaths(log)

	if err := checkPublish(cfg); err != nil {
		log.Error("%v", err)
		ok = false
	} else if cfg.Publish {
		log.Success("Publishing to %s/%s", cfg.S3.Endpoint, cfg.S3.Bucket)
	} else {
		log.Info("Publishing: disabled")
	}
	return ok
}

// checkSourcePaths reports which default stage inputs exist.
func checkSourcePaths(log Logger) {
	log.Info("Default sources:")
	for _, stage := range []config.Stage{config.StageCSS, config.StageJS, config.StageImages} {
		p := config.DefaultSource(stage)
		if _, err := os.Stat(p); err != nil {
			log.Warn("  %s: %s (not found)", stage, p)
			continue
		}
		log.Info("  %s: %s", stage, p)
	}
}

// CheckDeps is the pre-stage validation: it verifies that the engines the
// selected stage relies on actually run, and that publishing is configured
// when enabled. Returns a sentinel error (wrapping the cause) on failure.
func CheckDeps(cfg *config.Config) error {
	switch cfg.Stage {
	case config.StageCSS:
		if err := checkPrefixer(cfg); err != nil {
			return err
		}
		if err := checkStyleMinifier(cfg); err != nil {
			return err
		}
	case config.StageJS:
		if err := checkScriptMinifier(cfg); err != nil {
			return err
		}
	case config.StageImages:
		if err := checkWebP(cfg); err != nil {
			return err
		}
	}
	return checkPublish(cfg)
}

// --- internal helpers ---

func checkPrefixer(cfg *config.Config) error {
	p, err := minify.NewPrefixer(cfg.BrowserTargets)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserTargets, err)
	}
	if _, err := p.Transform([]byte(sampleCSS), "check.css"); err != nil {
		return fmt.Errorf("%w: %v", ErrStyleEngine, err)
	}
	return nil
}

func checkStyleMinifier(cfg *config.Config) error {
	out, err := minify.NewStyleMinifier(cfg.KeepAnimationNames).Minify([]byte(sampleCSS))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStyleEngine, err)
	}
	if len(out) == 0 {
		return fmt.Errorf("%w: empty output", ErrStyleEngine)
	}
	return nil
}

func checkScriptMinifier(cfg *config.Config) error {
	res, err := minify.NewScriptMinifier(pipeline.ScriptOptions(cfg)).Minify([]byte(sampleJS))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScriptEngine, err)
	}
	if cfg.SourceMap && res.Map == nil {
		return fmt.Errorf("%w: no source map produced", ErrScriptEngine)
	}
	return nil
}

// checkWebP encodes a small still image, which needs the cgo libwebp
// bindings to be linked in.
func checkWebP(cfg *config.Config) error {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < 8; i++ {
		img.Set(i, i, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	}
	data, err := codec.New(planner.CodecOptions(cfg)).EncodeWebP(&codec.Image{Format: codec.PNG, Image: img})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebPEncoder, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty output", ErrWebPEncoder)
	}
	return nil
}

func checkPublish(cfg *config.Config) error {
	if !cfg.Publish {
		return nil
	}
	if cfg.S3.Endpoint == "" || cfg.S3.Bucket == "" {
		return ErrS3Incomplete
	}
	if cfg.S3.AccessKey == "" || cfg.S3.SecretKey == "" {
		return ErrS3NoCredentials
	}
	return nil
}

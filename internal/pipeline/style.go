package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/assetpress/internal/asset"
	"github.com/backmassage/assetpress/internal/config"
	"github.com/backmassage/assetpress/internal/critical"
	"github.com/backmassage/assetpress/internal/display"
	"github.com/backmassage/assetpress/internal/logging"
	"github.com/backmassage/assetpress/internal/minify"
	"github.com/backmassage/assetpress/internal/naming"
	"github.com/backmassage/assetpress/internal/report"
)

// StyleReport is the result of a stylesheet run.
type StyleReport struct {
	Source   asset.Asset
	Result   report.Result // outputs "minified" and "critical"
	Minified report.Output
	Critical report.Output
}

// Artifacts returns the written files in write order.
func (r *StyleReport) Artifacts() []string {
	return []string{r.Minified.Path, r.Critical.Path}
}

// RunStyle prefixes and minifies cfg.Source into main.min.css and extracts
// its critical subset into critical.css. Every transform completes before
// anything is written, so a failure leaves the output directory untouched.
func RunStyle(ctx context.Context, cfg *config.Config, log *logging.Logger) (*StyleReport, error) {
	src, css, err := asset.Read(cfg.Source)
	if err != nil {
		return nil, inputError(cfg.Source, err)
	}
	log.Info("Building CSS: %s", src.Path)
	log.Debug("Browser targets: %s", strings.Join(cfg.BrowserTargets, ", "))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefixer, err := minify.NewPrefixer(cfg.BrowserTargets)
	if err != nil {
		return nil, &TransformError{Stage: config.StageCSS, Path: src.Path, Err: err}
	}
	prefixed, err := prefixer.Transform(css, src.Name)
	if err != nil {
		return nil, &TransformError{Stage: config.StageCSS, Path: src.Path, Err: err}
	}
	log.Debug("Prefixed: %s", display.FormatTransition(int64(len(css)), int64(len(prefixed))))

	minified, err := minify.NewStyleMinifier(cfg.KeepAnimationNames).Minify(prefixed)
	if err != nil {
		return nil, &TransformError{Stage: config.StageCSS, Path: src.Path, Err: err}
	}
	crit := []byte(critical.Extract(string(css)))

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	rep := &StyleReport{
		Source:   src,
		Minified: report.Output{Label: "minified", Path: filepath.Join(cfg.OutputDir, naming.MinifiedCSS), Size: int64(len(minified))},
		Critical: report.Output{Label: "critical", Path: filepath.Join(cfg.OutputDir, naming.CriticalCSS), Size: int64(len(crit))},
	}
	if err := os.WriteFile(rep.Minified.Path, minified, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", rep.Minified.Path, err)
	}
	if err := os.WriteFile(rep.Critical.Path, crit, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", rep.Critical.Path, err)
	}
	rep.Result = report.Result{
		Path:      src.Path,
		InputSize: src.Size,
		Outputs:   []report.Output{rep.Minified, rep.Critical},
	}

	logStyleSummary(log, rep)
	return rep, nil
}

func logStyleSummary(log *logging.Logger, rep *StyleReport) {
	log.Success("CSS minified: %s", display.FormatTransition(rep.Source.Size, rep.Minified.Size))
	savings := rep.Result.Savings("minified")
	if savings >= 0 {
		log.Info("  Savings: %s", display.FormatPercent(savings))
	} else {
		log.Warn("  Savings: %s (minified output is larger)", display.FormatPercent(savings))
	}
	log.Success("Critical CSS extracted")
	log.Info("  Size: %s", display.FormatKB(rep.Critical.Size))
	log.Success("CSS build complete: %s", filepath.Dir(rep.Minified.Path))
}

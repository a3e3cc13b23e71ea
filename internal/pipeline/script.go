package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/backmassage/assetpress/internal/asset"
	"github.com/backmassage/assetpress/internal/config"
	"github.com/backmassage/assetpress/internal/display"
	"github.com/backmassage/assetpress/internal/logging"
	"github.com/backmassage/assetpress/internal/minify"
	"github.com/backmassage/assetpress/internal/naming"
	"github.com/backmassage/assetpress/internal/report"
)

// ScriptReport is the result of a script bundle run. A run that found no
// scripts has no Files and no outputs.
type ScriptReport struct {
	Files     []asset.Asset
	Parts     []asset.Part
	Result    report.Result // InputSize is the concatenation length
	Bundle    report.Output
	Map       *report.Output // nil when source maps are disabled
	Passes    int
	SourceMap bool
}

// Artifacts returns the written files in write order.
func (r *ScriptReport) Artifacts() []string {
	if len(r.Files) == 0 {
		return nil
	}
	paths := []string{r.Bundle.Path}
	if r.Map != nil {
		paths = append(paths, r.Map.Path)
	}
	return paths
}

// ScriptOptions maps the configuration onto minifier options.
func ScriptOptions(cfg *config.Config) minify.ScriptOptions {
	return minify.ScriptOptions{
		DropConsole:       cfg.DropConsole,
		KeepFunctionNames: cfg.KeepFunctionNames,
		KeepClassNames:    cfg.KeepClassNames,
		MangleTopLevel:    cfg.MangleTopLevel,
		Passes:            cfg.Passes,
		SourceMap:         cfg.SourceMap,
		OutputName:        naming.BundleJS,
	}
}

// RunScript concatenates the scripts of cfg.Source in name order and
// minifies the result into bundle.min.js. An empty directory is a
// successful no-op that writes nothing.
func RunScript(ctx context.Context, cfg *config.Config, log *logging.Logger) (*ScriptReport, error) {
	files, err := discover(cfg.Source, []string{cfg.ScriptExt})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		log.Warn("No %s files found in %s", cfg.ScriptExt, cfg.Source)
		return &ScriptReport{}, nil
	}
	log.Info("Bundling %d scripts from %s", len(files), cfg.Source)

	sources := make([]asset.Source, 0, len(files))
	for i, f := range files {
		_, data, err := asset.Read(f.Path)
		if err != nil {
			return nil, inputError(f.Path, err)
		}
		files[i].Size = int64(len(data))
		sources = append(sources, asset.Source{Name: f.Name, Content: data})
		log.Debug("  + %s (%s)", f.Name, display.FormatKB(files[i].Size))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bundle := asset.Concatenate(sources)
	res, err := minify.NewScriptMinifier(ScriptOptions(cfg)).Minify(bundle.Data)
	if err != nil {
		return nil, &TransformError{Stage: config.StageJS, Path: cfg.Source, Err: err}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	rep := &ScriptReport{
		Files:     files,
		Parts:     bundle.Parts,
		Bundle:    report.Output{Label: "bundle", Path: filepath.Join(cfg.OutputDir, naming.BundleJS), Size: int64(len(res.Code))},
		Passes:    res.Passes,
		SourceMap: res.Map != nil,
	}
	if err := os.WriteFile(rep.Bundle.Path, res.Code, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", rep.Bundle.Path, err)
	}
	rep.Result = report.Result{Path: cfg.Source, InputSize: int64(len(bundle.Data)), Outputs: []report.Output{rep.Bundle}}
	if res.Map != nil {
		m := report.Output{Label: "sourcemap", Path: filepath.Join(cfg.OutputDir, res.MapName), Size: int64(len(res.Map))}
		if err := os.WriteFile(m.Path, res.Map, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", m.Path, err)
		}
		rep.Map = &m
		rep.Result.Outputs = append(rep.Result.Outputs, m)
	}

	logScriptSummary(log, rep)
	return rep, nil
}

func logScriptSummary(log *logging.Logger, rep *ScriptReport) {
	log.Success("JS minified: %s", display.FormatTransition(rep.Result.InputSize, rep.Bundle.Size))
	savings := rep.Result.Savings("bundle")
	if savings >= 0 {
		log.Info("  Savings: %s", display.FormatPercent(savings))
	} else {
		log.Warn("  Savings: %s (minified output is larger)", display.FormatPercent(savings))
	}
	log.Info("  Files bundled: %d (%d passes)", len(rep.Files), rep.Passes)

	ranked := report.Ranked(rep.Parts, func(p asset.Part) int64 { return int64(p.Length) })
	lines := make([]string, len(ranked))
	for i, p := range ranked {
		lines[i] = fmt.Sprintf("%s: %s", p.Name, display.FormatKB(int64(p.Length)))
	}
	log.Info("  Largest inputs:")
	for _, l := range report.Listing(lines) {
		log.Info("    %s", l)
	}

	if rep.Map != nil {
		log.Success("Source map generated: %s", filepath.Base(rep.Map.Path))
	} else {
		log.Info("Source map: disabled")
	}
	log.Success("JS build complete: %s", filepath.Dir(rep.Bundle.Path))
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/backmassage/assetpress/internal/asset"
	"github.com/backmassage/assetpress/internal/codec"
	"github.com/backmassage/assetpress/internal/config"
	"github.com/backmassage/assetpress/internal/display"
	"github.com/backmassage/assetpress/internal/logging"
	"github.com/backmassage/assetpress/internal/naming"
	"github.com/backmassage/assetpress/internal/planner"
	"github.com/backmassage/assetpress/internal/probe"
	"github.com/backmassage/assetpress/internal/report"
)

// Status is the outcome state of one image.
type Status int

const (
	StatusPending Status = iota // never started (interrupted run)
	StatusDone
	StatusFailed
	StatusPlanned // dry run
)

// ImageResult is the outcome of one image: either outputs or a Failure.
type ImageResult struct {
	Plan        *planner.FilePlan
	Status      Status
	Result      report.Result // outputs "reencoded" and, when produced, "webp"
	Frames      int
	WebPSkipped string // reason the WebP sibling was not produced
	Failure     *Failure
}

// ImageReport is the result of a transcode run. Results are in enumeration
// order regardless of worker scheduling.
type ImageReport struct {
	Results []ImageResult
	Stats   RunStats
	DryRun  bool
}

// Artifacts returns every written file, in enumeration order.
func (r *ImageReport) Artifacts() []string {
	var paths []string
	for _, res := range r.Results {
		if res.Status != StatusDone {
			continue
		}
		for _, o := range res.Result.Outputs {
			paths = append(paths, o.Path)
		}
	}
	return paths
}

// RunImages re-encodes every raster image of cfg.Source into cfg.OutputDir
// and writes a WebP sibling next to each copy. Per-file failures are
// recorded in the report; only setup errors are returned.
func RunImages(ctx context.Context, cfg *config.Config, log *logging.Logger) (*ImageReport, error) {
	files, err := discover(cfg.Source, asset.ImageExtensions)
	if err != nil {
		return nil, err
	}
	if err := checkOutputOutsideInput(cfg); err != nil {
		return nil, err
	}

	rep := &ImageReport{DryRun: cfg.DryRun}
	rep.Stats.Total = len(files)
	if len(files) == 0 {
		log.Warn("No images found in %s", cfg.Source)
		return rep, nil
	}
	logImageHeader(cfg, log, len(files))

	resolver := naming.NewCollisionResolver()
	plans := make([]*planner.FilePlan, len(files))
	for i, f := range files {
		pr, err := probe.Probe(f.Path)
		if err != nil {
			log.Debug("Header unreadable for %s: %v", f.Name, err)
		}
		plan, err := planner.BuildPlan(cfg, f, pr, resolver)
		if err != nil {
			return nil, err
		}
		if plan.WebPRenamed {
			log.Warn("WebP name %s already taken, writing %s for %s",
				naming.WebPName(f.Name), filepath.Base(plan.WebPPath), f.Name)
		}
		plans[i] = plan
	}

	rep.Results = make([]ImageResult, len(plans))
	for i, p := range plans {
		rep.Results[i].Plan = p
	}

	if cfg.DryRun {
		for i := range rep.Results {
			rep.Results[i].Status = StatusPlanned
		}
	} else {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
		transcodeAll(ctx, cfg, rep.Results)
	}

	for i := range rep.Results {
		logImageResult(log, &rep.Results[i], i+1, len(rep.Results))
		accumulate(&rep.Stats, &rep.Results[i])
	}
	logImageSummary(cfg, log, rep)
	return rep, nil
}

// transcodeAll fills results in place on a pool of cfg.Workers goroutines.
// Each worker writes only its own slot. After cancellation no new file is
// started; started files finish.
func transcodeAll(ctx context.Context, cfg *config.Config, results []ImageResult) {
	c := codec.New(planner.CodecOptions(cfg))
	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for i := range results {
		if ctx.Err() != nil {
			break
		}
		slot := &results[i]
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			*slot = transcodeOne(c, slot.Plan)
			return nil
		})
	}
	_ = g.Wait()
}

// transcodeOne encodes both outputs in memory, then writes them. Any failure
// leaves the slot as a Failure and writes nothing further.
func transcodeOne(c *codec.Codec, plan *planner.FilePlan) ImageResult {
	res := ImageResult{Plan: plan}
	fail := func(kind FailureKind, err error) ImageResult {
		res.Status = StatusFailed
		res.Failure = &Failure{Kind: kind, Path: plan.Source.Path, Err: err}
		return res
	}

	data, err := os.ReadFile(plan.Source.Path)
	if err != nil {
		return fail(FailDecode, err)
	}
	im, err := codec.Decode(data, plan.Format)
	if err != nil {
		return fail(FailDecode, err)
	}
	res.Frames = im.Frames()

	reencoded, err := c.Reencode(im)
	if err != nil {
		return fail(FailEncode, err)
	}
	webpData, err := c.EncodeWebP(im)
	switch {
	case errors.Is(err, codec.ErrAnimated):
		res.WebPSkipped = fmt.Sprintf("animated, %d frames", res.Frames)
		webpData = nil
	case err != nil:
		return fail(FailWebP, err)
	}

	if err := os.WriteFile(plan.OutputPath, reencoded, 0o644); err != nil {
		return fail(FailWrite, err)
	}
	res.Result = report.Result{
		Path:      plan.Source.Path,
		InputSize: int64(len(data)),
		Outputs:   []report.Output{{Label: "reencoded", Path: plan.OutputPath, Size: int64(len(reencoded))}},
	}
	if webpData != nil {
		if err := os.WriteFile(plan.WebPPath, webpData, 0o644); err != nil {
			os.Remove(plan.OutputPath)
			return fail(FailWrite, err)
		}
		res.Result.Outputs = append(res.Result.Outputs,
			report.Output{Label: "webp", Path: plan.WebPPath, Size: int64(len(webpData))})
	}
	res.Status = StatusDone
	return res
}

func accumulate(s *RunStats, r *ImageResult) {
	switch r.Status {
	case StatusDone:
		s.Processed++
		out, _ := r.Result.Output("reencoded")
		s.Primary.Add(r.Result.InputSize, out.Size)
		if w, ok := r.Result.Output("webp"); ok {
			s.WebP.Add(r.Result.InputSize, w.Size)
		}
	case StatusPlanned:
		s.Processed++
	case StatusFailed:
		s.Failed++
	default:
		s.Skipped++
	}
}

func checkOutputOutsideInput(cfg *config.Config) error {
	in, err := resolveDir(cfg.Source)
	if err != nil {
		return err
	}
	out, err := resolveDir(cfg.OutputDir)
	if err != nil {
		return err
	}
	return cfg.ValidatePaths(in, out)
}

// --- Logging helpers ---

func logImageHeader(cfg *config.Config, log *logging.Logger, n int) {
	log.Info("Found %d images in %s", n, cfg.Source)
	log.Info("Targets: jpeg q%d, png %d-%d (%d colors), gif lossless, webp q%d",
		cfg.JPEGQuality, cfg.PNGQualityMin, cfg.PNGQualityMax,
		codec.PaletteSize(cfg.PNGQualityMin, cfg.PNGQualityMax), cfg.WebPQuality)
	log.Info("Output: %s (workers: %d)", cfg.OutputDir, cfg.Workers)
	if cfg.DryRun {
		log.Info("Dry run: nothing will be written")
	}
}

func logImageResult(log *logging.Logger, r *ImageResult, n, total int) {
	p := r.Plan
	log.Info("[%d/%d] %s", n, total, p.Source.Name)
	if p.Probe != nil {
		log.Debug("  Image: %s | %s | %d px", p.Probe.Resolution(), p.Probe.Format, p.Probe.Pixels())
	}

	switch r.Status {
	case StatusPlanned:
		log.Success("  [DRY] Would write %s (%s) and %s (%s)",
			filepath.Base(p.OutputPath), p.Target, filepath.Base(p.WebPPath), p.WebPTarget)
	case StatusFailed:
		log.Error("  %s failed: %v", r.Failure.Kind, r.Failure.Err)
	case StatusPending:
		log.Warn("  Not started (interrupted)")
	case StatusDone:
		out, _ := r.Result.Output("reencoded")
		log.Success("  %s: %s (%s)", p.Target,
			display.FormatTransition(r.Result.InputSize, out.Size),
			display.FormatPercent(r.Result.Savings("reencoded")))
		if w, ok := r.Result.Output("webp"); ok {
			log.Success("  WebP: %s (%s)", display.FormatKB(w.Size),
				display.FormatPercent(r.Result.Savings("webp")))
			if wp, err := probe.Probe(w.Path); err == nil {
				log.Debug("  WebP image: %s", wp.Resolution())
			}
		} else if r.WebPSkipped != "" {
			log.Info("  WebP: not produced (%s)", r.WebPSkipped)
		}
	}
}

func logImageSummary(cfg *config.Config, log *logging.Logger, rep *ImageReport) {
	s := &rep.Stats
	log.Info("==============================")
	log.Info("Done: %d processed, %d failed, %d not started", s.Processed, s.Failed, s.Skipped)
	log.Info("Summary report:")
	log.Info("  Total files: %d", s.Total)

	if cfg.DryRun {
		log.Info("  Total space saved: n/a (dry run)")
		return
	}

	saved := s.SpaceSaved()
	if saved >= 0 {
		log.Success("  Total space saved: %s (%s, %s)",
			display.FormatBytes(saved),
			display.FormatTransition(s.Primary.TotalInput, s.Primary.TotalOutput),
			display.FormatPercent(s.Primary.Savings()))
	} else {
		log.Warn("  Total space saved: -%s (overall output is larger)", display.FormatBytes(-saved))
	}
	if s.WebP.Count > 0 {
		log.Info("  WebP siblings: %d, %s (%s vs originals)",
			s.WebP.Count, display.FormatKB(s.WebP.TotalOutput), display.FormatPercent(s.WebP.Savings()))
	}
	if s.Failed > 0 {
		// Failures are listed in full, never capped.
		log.Warn("  Failures:")
		n := 0
		for _, r := range rep.Results {
			if r.Failure != nil {
				n++
				log.Warn("    %d. %s (%s): %v", n, r.Plan.Source.Name, r.Failure.Kind, r.Failure.Err)
			}
		}
	}
}

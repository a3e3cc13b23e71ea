package pipeline

import (
	"context"
	"fmt"

	"github.com/backmassage/assetpress/internal/asset"
	"github.com/backmassage/assetpress/internal/config"
	"github.com/backmassage/assetpress/internal/display"
	"github.com/backmassage/assetpress/internal/logging"
	"github.com/backmassage/assetpress/internal/naming"
	"github.com/backmassage/assetpress/internal/probe"
	"github.com/backmassage/assetpress/internal/report"
)

// AuditReport is the result of an image audit. Findings keep enumeration
// order; counts always use the full lists.
type AuditReport struct {
	Source          string
	Totals          report.Totals // Count and TotalInput only
	Oversized       []report.Finding
	MissingModern   []report.Finding
	Skipped         []string // remote images whose size could not be read
	Recommendations []string
}

// RunAudit audits cfg.Source, which is either a directory or an http(s) page
// URL. Nothing is written.
func RunAudit(ctx context.Context, cfg *config.Config, log *logging.Logger) (*AuditReport, error) {
	var (
		rep *AuditReport
		err error
	)
	if cfg.IsRemote() {
		rep, err = AuditURL(ctx, cfg.Source, nil, log)
	} else {
		rep, err = auditDir(cfg.Source, log)
	}
	if err != nil {
		return nil, err
	}
	rep.Recommendations = report.Recommendations(len(rep.Oversized), len(rep.MissingModern), rep.Totals.TotalInput)
	logAuditReport(log, rep)
	return rep, nil
}

// auditDir classifies every raster image directly inside dir. An image is
// missing its modern format when no "<stem>.webp" with the exact same stem
// exists next to it.
func auditDir(dir string, log *logging.Logger) (*AuditReport, error) {
	files, err := discover(dir, asset.ImageExtensions)
	if err != nil {
		return nil, err
	}
	names, err := dirNames(dir)
	if err != nil {
		return nil, inputError(dir, err)
	}
	log.Info("Auditing images in: %s", dir)

	rep := &AuditReport{Source: dir}
	for _, f := range files {
		rep.Totals.Add(f.Size, 0)
		if f.Size > report.OversizedBytes {
			rep.Oversized = append(rep.Oversized, report.Finding{Kind: report.Oversized, Path: f.Path, Name: f.Name, Size: f.Size})
			if pr, err := probe.Probe(f.Path); err == nil {
				log.Debug("  %s: %s | %s", f.Name, pr.Resolution(), pr.Format)
			}
		}
		if !names[naming.WebPName(f.Name)] {
			rep.MissingModern = append(rep.MissingModern, report.Finding{Kind: report.MissingModernFormat, Path: f.Path, Name: f.Name, Size: f.Size})
		}
	}
	return rep, nil
}

func logAuditReport(log *logging.Logger, rep *AuditReport) {
	log.Info("==============================")
	log.Info("IMAGE AUDIT REPORT")
	log.Info("==============================")
	log.Info("Total images: %d", rep.Totals.Count)
	log.Info("Total size: %s", display.FormatMB(rep.Totals.TotalInput))
	log.Info("Average size: %s", display.FormatKB(rep.Totals.AverageInput()))

	if len(rep.Oversized) > 0 {
		log.Warn("Oversized images (> 200KB): %d", len(rep.Oversized))
		lines := make([]string, len(rep.Oversized))
		for i, f := range rep.Oversized {
			lines[i] = fmt.Sprintf("%s: %s", f.Name, display.FormatKB(f.Size))
		}
		for _, l := range report.Listing(lines) {
			log.Warn("  %s", l)
		}
	}
	if len(rep.MissingModern) > 0 {
		log.Warn("Missing WebP version: %d", len(rep.MissingModern))
		lines := make([]string, len(rep.MissingModern))
		for i, f := range rep.MissingModern {
			lines[i] = f.Name
		}
		for _, l := range report.Listing(lines) {
			log.Warn("  %s", l)
		}
	}
	if len(rep.Skipped) > 0 {
		log.Warn("Unreachable images: %d", len(rep.Skipped))
		for _, l := range report.Listing(rep.Skipped) {
			log.Warn("  %s", l)
		}
	}

	if len(rep.Recommendations) == 0 {
		log.Success("No issues found")
	} else {
		log.Info("Recommendations:")
		for _, r := range rep.Recommendations {
			log.Info("  - %s", r)
		}
	}
	log.Success("Audit complete")
}

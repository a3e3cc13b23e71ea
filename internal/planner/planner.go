package planner

import (
	"fmt"

	"github.com/backmassage/assetpress/internal/asset"
	"github.com/backmassage/assetpress/internal/codec"
	"github.com/backmassage/assetpress/internal/config"
	"github.com/backmassage/assetpress/internal/naming"
	"github.com/backmassage/assetpress/internal/probe"
)

// FilePlan holds every decision for one source image.
type FilePlan struct {
	Source asset.Asset
	Format codec.Format
	Probe  *probe.Result // nil when the header could not be read

	OutputPath  string
	WebPPath    string
	WebPRenamed bool // the default WebP name was taken by another source

	Target     string // e.g. "jpeg q80", "png 204 colors", "gif lossless"
	WebPTarget string // e.g. "webp q80"
}

// BuildPlan produces the plan for src. The resolver is shared by the whole
// run so WebP siblings of same-stem sources get distinct names.
func BuildPlan(cfg *config.Config, src asset.Asset, pr *probe.Result, resolver *naming.CollisionResolver) (*FilePlan, error) {
	format, err := codec.FormatOf(src.Name)
	if err != nil {
		return nil, err
	}
	plan := &FilePlan{
		Source:     src,
		Format:     format,
		Probe:      pr,
		OutputPath: naming.OutputPath(cfg.OutputDir, src.Name),
		Target:     Target(cfg, format),
		WebPTarget: fmt.Sprintf("webp q%d", cfg.WebPQuality),
	}
	resolver.Claim(src.Path, plan.OutputPath)
	plan.WebPPath, plan.WebPRenamed = resolver.Resolve(src.Path, naming.WebPPath(cfg.OutputDir, src.Name))
	return plan, nil
}

// Target describes the same-family re-encode for format.
func Target(cfg *config.Config, format codec.Format) string {
	switch format {
	case codec.JPEG:
		return fmt.Sprintf("jpeg q%d", cfg.JPEGQuality)
	case codec.PNG:
		return fmt.Sprintf("png %d colors", codec.PaletteSize(cfg.PNGQualityMin, cfg.PNGQualityMax))
	case codec.GIF:
		return "gif lossless"
	}
	return string(format)
}

// CodecOptions maps the configured quality targets onto codec.Options.
func CodecOptions(cfg *config.Config) codec.Options {
	return codec.Options{
		JPEGQuality:   cfg.JPEGQuality,
		WebPQuality:   cfg.WebPQuality,
		PNGQualityMin: cfg.PNGQualityMin,
		PNGQualityMax: cfg.PNGQualityMax,
	}
}

package pipeline

import (
	"context"
	"fmt"

	"github.com/backmassage/assetpress/internal/config"
	"github.com/backmassage/assetpress/internal/logging"
)

// Outcome is what a stage run leaves behind for the caller.
type Outcome struct {
	Stage     config.Stage
	Artifacts []string // written files, in write order
	Style     *StyleReport
	Script    *ScriptReport
	Images    *ImageReport
	Audit     *AuditReport
}

// Run executes the stage selected by cfg.Stage.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (*Outcome, error) {
	out := &Outcome{Stage: cfg.Stage}
	switch cfg.Stage {
	case config.StageCSS:
		rep, err := RunStyle(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		out.Style, out.Artifacts = rep, rep.Artifacts()
	case config.StageJS:
		rep, err := RunScript(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		out.Script, out.Artifacts = rep, rep.Artifacts()
	case config.StageImages:
		rep, err := RunImages(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		out.Images, out.Artifacts = rep, rep.Artifacts()
	case config.StageAudit:
		rep, err := RunAudit(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		out.Audit = rep
	default:
		return nil, fmt.Errorf("stage %q has no pipeline", cfg.Stage)
	}
	return out, nil
}

// Command assetpress is the CLI entrypoint for the assetpress build tool.
//
// It parses the stage and flags, validates configuration, and runs one of
// the css, js, images or audit stages (or the check diagnostics), optionally
// publishing the written artifacts to S3-compatible storage.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/assetpress/internal/check"
	"github.com/backmassage/assetpress/internal/config"
	"github.com/backmassage/assetpress/internal/display"
	"github.com/backmassage/assetpress/internal/logging"
	"github.com/backmassage/assetpress/internal/pipeline"
	"github.com/backmassage/assetpress/internal/publish"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) > 0 && (args[0] == "version" || args[0] == "--version") {
		fmt.Printf("assetpress %s (%s)\n", version, commit)
		return exitOK
	}

	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr.
	cfg := config.DefaultConfig()
	if err := config.LoadEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "assetpress: %v\n", err)
		return exitUsage
	}
	if err := config.ParseFlags(&cfg, args); err != nil {
		if errors.Is(err, config.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "assetpress: %v\n", err)
		return exitUsage
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "assetpress: %v\n", err)
		return exitUsage
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "assetpress: %v\n", err)
		return exitFatal
	}
	defer log.Close()

	// Phase 2: Logger available. All output goes through log from here on.
	display.PrintBanner(os.Stdout, log.Palette())

	if cfg.Stage == config.StageCheck {
		if !check.RunCheck(&cfg, log) {
			return exitFatal
		}
		return exitOK
	}

	log.Info("=== assetpress v%s (%s): %s ===", version, commit, cfg.Stage)
	log.Info("In:  %s", cfg.Source)
	if cfg.Stage != config.StageAudit {
		log.Info("Out: %s", cfg.OutputDir)
	}
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	}

	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return exitFatal
	}

	// Phase 3: Cancel the context on SIGINT/SIGTERM so the image stage stops
	// scheduling new files.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outcome, err := pipeline.Run(ctx, &cfg, log)
	if err != nil {
		log.Error("%v", err)
		return exitFatal
	}

	if cfg.Publish && !cfg.DryRun {
		if err := publishArtifacts(ctx, &cfg, log, outcome); err != nil {
			log.Error("Publish failed: %v", err)
			return exitFatal
		}
	}
	return exitOK
}

// publishArtifacts uploads everything the stage wrote under
// <prefix>/<stage>/<name>.
func publishArtifacts(ctx context.Context, cfg *config.Config, log *logging.Logger, outcome *pipeline.Outcome) error {
	if len(outcome.Artifacts) == 0 {
		log.Info("Nothing to publish")
		return nil
	}
	store, err := publish.NewS3Store(cfg.S3)
	if err != nil {
		return err
	}
	uploads, err := publish.NewPublisher(store, cfg.S3.Prefix).Publish(ctx, string(outcome.Stage), outcome.Artifacts)
	if err != nil {
		return err
	}
	for _, u := range uploads {
		log.Debug("  %s -> s3://%s/%s", u.Path, store.Bucket(), u.Key)
	}
	log.Success("Published %d artifacts to s3://%s", len(uploads), store.Bucket())
	return nil
}

package config

// This file implements CLI flag parsing and help text.
// The first argument selects the stage; flags follow; at most one positional
// argument (the source) comes last. Negated flags (e.g. --no-source-map) are
// applied after Parse so Config defaults hold unless set.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrHelp is returned when the user asked for help; usage has already been
// printed and the caller should exit successfully.
var ErrHelp = flag.ErrHelp

// ParseFlags parses args (typically os.Args[1:]) into cfg.
// On error it returns non-nil (e.g. unknown stage, unknown flag, too many
// positional args).
func ParseFlags(cfg *Config, args []string) error {
	if len(args) == 0 {
		printUsage(os.Stderr)
		return errors.New("missing stage (css, js, images, audit or check)")
	}
	switch args[0] {
	case "-h", "--help", "help":
		printUsage(os.Stderr)
		return ErrHelp
	}
	cfg.Stage = Stage(strings.ToLower(args[0]))

	fs := flag.NewFlagSet("assetpress "+args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Negated/override flags: we capture bools then apply to cfg after Parse,
	// so that defaults from DefaultConfig() hold unless the user passes the flag.
	var negated negatedFlags

	defineStyleFlags(fs, cfg, &negated)
	defineScriptFlags(fs, cfg, &negated)
	defineImageFlags(fs, cfg)
	definePublishFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(os.Stderr)
		}
		return err
	}

	applyNegatedFlags(cfg, &negated)
	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
type negatedFlags struct {
	noKeepKeyframes  bool
	noMangleTopLevel bool
	noSourceMap      bool
	forceColor       bool
	noColor          bool
}

// defineStyleFlags registers --browsers and --no-keep-keyframes.
func defineStyleFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.Var(&listValue{&cfg.BrowserTargets}, "browsers", "Comma-separated esbuild engine targets")
	fs.BoolVar(&n.noKeepKeyframes, "no-keep-keyframes", false, "Do not verify @keyframes names survive minification")
}

// defineScriptFlags registers the minifier toggles and pass count.
func defineScriptFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.DropConsole, "drop-console", cfg.DropConsole, "Remove console.* calls")
	fs.BoolVar(&cfg.KeepFunctionNames, "keep-fnames", cfg.KeepFunctionNames, "Preserve function names (also keeps class names)")
	fs.BoolVar(&cfg.KeepClassNames, "keep-classnames", cfg.KeepClassNames, "Preserve class names (also keeps function names)")
	fs.BoolVar(&n.noMangleTopLevel, "no-mangle-toplevel", false, "Keep top-level identifiers global")
	fs.IntVar(&cfg.Passes, "passes", cfg.Passes, "Compression passes (>= 2)")
	fs.BoolVar(&n.noSourceMap, "no-source-map", false, "Do not emit bundle.min.js.map")
}

// defineImageFlags registers quality targets, worker count and dry-run.
func defineImageFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.JPEGQuality, "jpeg-quality", cfg.JPEGQuality, "JPEG re-encode quality (1-100)")
	fs.IntVar(&cfg.WebPQuality, "webp-quality", cfg.WebPQuality, "WebP quality (1-100)")
	fs.Var(&qualityRangeValue{&cfg.PNGQualityMin, &cfg.PNGQualityMax}, "png-quality", "PNG quantization quality range, e.g. 70-80")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Parallel image workers")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Plan only; do not write images")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
}

// definePublishFlags registers --publish and the S3 overrides.
func definePublishFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.Publish, "publish", false, "Upload artifacts to S3/MinIO after the stage")
	fs.StringVar(&cfg.S3.Endpoint, "s3-endpoint", cfg.S3.Endpoint, "S3 endpoint (host:port)")
	fs.StringVar(&cfg.S3.Bucket, "s3-bucket", cfg.S3.Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3.Prefix, "s3-prefix", cfg.S3.Prefix, "Object key prefix")
}

// defineDisplayFlags registers output dir, colors, verbose and --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Output directory")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "Same as --out")
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noKeepKeyframes {
		cfg.KeepAnimationNames = false
	}
	if n.noMangleTopLevel {
		cfg.MangleTopLevel = false
	}
	if n.noSourceMap {
		cfg.SourceMap = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets Source from the optional positional argument.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if len(args) > 1 {
		return fmt.Errorf("expected at most one source argument, got %d", len(args))
	}
	if len(args) == 1 {
		cfg.Source = args[0]
		if !cfg.IsRemote() {
			cfg.Source = NormalizeDirArg(cfg.Source)
		}
	}
	if cfg.OutputDir != "" {
		cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)
	}
	return nil
}

// ParseQualityRange parses "70-80" (or a single "80", meaning 80-80).
func ParseQualityRange(s string) (int, int, error) {
	loRaw, hiRaw, found := strings.Cut(strings.TrimSpace(s), "-")
	lo, err := parseInt(loRaw, "PNG quality")
	if err != nil {
		return 0, 0, err
	}
	if !found {
		return lo, lo, nil
	}
	hi, err := parseInt(hiRaw, "PNG quality")
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

// parseInt parses a string as an integer for quality/worker flags; returns a clear error on failure.
func parseInt(s, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number (got %q)", name, s)
	}
	return n, nil
}

// printUsage writes the help text. Column-aligned for readability.
func printUsage(w io.Writer) {
	const col1 = 30
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "assetpress - website asset optimization pipeline"},
		{"", ""},
		{"  assetpress <stage> [OPTIONS] [source]", ""},
		{"", ""},
		{"Stages", ""},
		{"  css [file]", "Prefix + minify a stylesheet (default: src/css/main.css)"},
		{"  js [dir]", "Bundle + minify scripts (default: src/js)"},
		{"  images [dir]", "Re-encode images + WebP (default: src/images)"},
		{"  audit [dir|url]", "Audit image sizes and WebP coverage"},
		{"  check", "Engine diagnostics"},
		{"  version", "Print version and exit"},
		{"", ""},
		{"Stylesheets", ""},
		{"  --browsers <list>", "Engine targets (default: chrome58,edge16,firefox57,safari11)"},
		{"  --no-keep-keyframes", "Skip the @keyframes name check"},
		{"", ""},
		{"Scripts", ""},
		{"  --drop-console", "Remove console.* calls"},
		{"  --keep-fnames", "Preserve function names (also keeps class names)"},
		{"  --keep-classnames", "Preserve class names (also keeps function names)"},
		{"  --no-mangle-toplevel", "Keep top-level identifiers"},
		{"  --passes <n>", "Compression passes (default: 2, minimum 2)"},
		{"  --no-source-map", "Do not emit a source map"},
		{"", ""},
		{"Images", ""},
		{"  --jpeg-quality <1-100>", "JPEG quality (default: 80)"},
		{"  --webp-quality <1-100>", "WebP quality (default: 80)"},
		{"  --png-quality <min-max>", "PNG quantization range (default: 70-80)"},
		{"  --workers <n>", "Parallel workers (default: CPU count)"},
		{"  -d, --dry-run", "Plan only; write nothing"},
		{"", ""},
		{"Publishing", ""},
		{"  --publish", "Upload artifacts to S3/MinIO"},
		{"  --s3-endpoint <host>", "Endpoint (env: ASSETPRESS_S3_ENDPOINT)"},
		{"  --s3-bucket <name>", "Bucket (default: assetpress-artifacts)"},
		{"  --s3-prefix <prefix>", "Object key prefix"},
		{"", ""},
		{"Display", ""},
		{"  -o, --out <dir>", "Output directory"},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"  -l, --log <path>", "Append logs to file"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters for list and range flags.

type listValue struct{ p *[]string }

func (l *listValue) String() string {
	if l.p == nil {
		return ""
	}
	return strings.Join(*l.p, ",")
}

func (l *listValue) Set(s string) error {
	items := splitList(s)
	if len(items) == 0 {
		return fmt.Errorf("empty list %q", s)
	}
	*l.p = items
	return nil
}

type qualityRangeValue struct{ min, max *int }

func (q *qualityRangeValue) String() string {
	if q.min == nil || q.max == nil {
		return ""
	}
	return fmt.Sprintf("%d-%d", *q.min, *q.max)
}

func (q *qualityRangeValue) Set(s string) error {
	lo, hi, err := ParseQualityRange(s)
	if err != nil {
		return err
	}
	*q.min, *q.max = lo, hi
	return nil
}

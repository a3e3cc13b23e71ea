package minify

import (
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// MinPasses is the lowest number of compression passes ScriptMinifier runs.
const MinPasses = 2

// ScriptOptions configures ScriptMinifier.
type ScriptOptions struct {
	DropConsole       bool
	KeepFunctionNames bool
	KeepClassNames    bool
	MangleTopLevel    bool
	Passes            int
	SourceMap         bool
	// OutputName is the file the minified code is written to; the source
	// map's "file" field and the sourceMappingURL comment derive from it.
	OutputName string
	// SourceName names the unminified input inside the source map.
	SourceName string
}

// ScriptResult is the output of ScriptMinifier.Minify.
type ScriptResult struct {
	Code    []byte
	Map     []byte // nil when source maps are disabled
	MapName string // OutputName + ".map"
	Passes  int
}

// ScriptMinifier minifies a JavaScript bundle with esbuild.
type ScriptMinifier struct {
	opts ScriptOptions
}

// NewScriptMinifier returns a minifier for opts. Passes below MinPasses are
// raised to MinPasses.
func NewScriptMinifier(opts ScriptOptions) *ScriptMinifier {
	if opts.Passes < MinPasses {
		opts.Passes = MinPasses
	}
	if opts.OutputName == "" {
		opts.OutputName = "bundle.min.js"
	}
	if opts.SourceName == "" {
		opts.SourceName = "bundle.js"
	}
	return &ScriptMinifier{opts: opts}
}

// Minify runs every pass over code. Each intermediate pass carries an inline
// source map so the final map points back at the original input.
func (s *ScriptMinifier) Minify(code []byte) (ScriptResult, error) {
	o := s.opts
	src := string(code)
	var res api.TransformResult
	for pass := 1; pass <= o.Passes; pass++ {
		last := pass == o.Passes
		res = api.Transform(src, s.transformOptions(pass, last))
		if err := esbuildError(res.Errors); err != nil {
			return ScriptResult{}, err
		}
		src = string(res.Code)
	}

	out := ScriptResult{Code: res.Code, Passes: o.Passes}
	if !o.SourceMap {
		return out, nil
	}
	m, err := patchSourceMap(res.Map, o.OutputName, o.SourceName)
	if err != nil {
		return ScriptResult{}, &EngineError{Engine: "esbuild", Err: err}
	}
	out.Map = m
	out.MapName = o.OutputName + ".map"
	out.Code = appendMappingURL(out.Code, out.MapName)
	return out, nil
}

func (s *ScriptMinifier) transformOptions(pass int, last bool) api.TransformOptions {
	o := s.opts
	drop := api.DropDebugger
	if o.DropConsole {
		drop |= api.DropConsole
	}
	opts := api.TransformOptions{
		Loader:            api.LoaderJS,
		Sourcefile:        o.SourceName,
		MinifyWhitespace:  true,
		MinifySyntax:      true,
		MinifyIdentifiers: true,
		Drop:              drop,
		LegalComments:     api.LegalCommentsNone,
		TreeShaking:       api.TreeShakingFalse,
		LogLevel:          api.LogLevelSilent,
	}
	if pass == 1 {
		// Wrapping once makes top-level bindings local so they are renamed too.
		if o.MangleTopLevel {
			opts.Format = api.FormatIIFE
		}
		// The first pass pins names with helper calls; repeating it would add
		// another top-level helper per pass.
		opts.KeepNames = o.KeepFunctionNames || o.KeepClassNames
	}
	if o.SourceMap {
		if last {
			opts.Sourcemap = api.SourceMapExternal
		} else {
			opts.Sourcemap = api.SourceMapInline
		}
	}
	return opts
}

func appendMappingURL(code []byte, mapName string) []byte {
	s := strings.TrimRight(string(code), "\n")
	return []byte(s + "\n//# sourceMappingURL=" + mapName)
}

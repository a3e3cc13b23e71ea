package minify

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	tdminify "github.com/tdewolff/minify/v2"
	tdcss "github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/parse/v2"
	parsecss "github.com/tdewolff/parse/v2/css"
)

var engineNames = map[string]api.EngineName{
	"chrome":  api.EngineChrome,
	"edge":    api.EngineEdge,
	"firefox": api.EngineFirefox,
	"safari":  api.EngineSafari,
	"ios":     api.EngineIOS,
	"opera":   api.EngineOpera,
	"ie":      api.EngineIE,
}

// ParseEngines converts targets such as "chrome58" or "safari11.1" into
// esbuild engine constraints.
func ParseEngines(targets []string) ([]api.Engine, error) {
	engines := make([]api.Engine, 0, len(targets))
	for _, t := range targets {
		t = strings.ToLower(strings.TrimSpace(t))
		i := strings.IndexAny(t, "0123456789")
		if i <= 0 {
			return nil, fmt.Errorf("invalid browser target %q (want e.g. chrome58)", t)
		}
		name, ok := engineNames[t[:i]]
		if !ok {
			return nil, fmt.Errorf("unknown browser %q in target %q", t[:i], t)
		}
		engines = append(engines, api.Engine{Name: name, Version: t[i:]})
	}
	return engines, nil
}

// Prefixer adds vendor-prefixed fallbacks for the configured browsers.
type Prefixer struct {
	engines []api.Engine
}

// NewPrefixer validates targets and returns a Prefixer for them.
func NewPrefixer(targets []string) (*Prefixer, error) {
	engines, err := ParseEngines(targets)
	if err != nil {
		return nil, err
	}
	return &Prefixer{engines: engines}, nil
}

// Transform runs the portability pass over css. The output is not minified.
func (p *Prefixer) Transform(css []byte, sourcefile string) ([]byte, error) {
	res := api.Transform(string(css), api.TransformOptions{
		Loader:     api.LoaderCSS,
		Engines:    p.engines,
		Sourcefile: sourcefile,
		LogLevel:   api.LogLevelSilent,
	})
	if err := esbuildError(res.Errors); err != nil {
		return nil, err
	}
	return res.Code, nil
}

// StyleMinifier strips comments and whitespace and normalizes values.
type StyleMinifier struct {
	m              *tdminify.M
	keepAnimations bool
}

// NewStyleMinifier returns a minifier. With keepAnimationNames set, Minify
// fails when an @keyframes name of the input is absent from the output.
func NewStyleMinifier(keepAnimationNames bool) *StyleMinifier {
	m := tdminify.New()
	m.Add("text/css", &tdcss.Minifier{})
	return &StyleMinifier{m: m, keepAnimations: keepAnimationNames}
}

// Minify returns the minified form of css.
func (s *StyleMinifier) Minify(css []byte) ([]byte, error) {
	out, err := s.m.Bytes("text/css", css)
	if err != nil {
		return nil, &EngineError{Engine: "tdewolff", Err: err}
	}
	if !s.keepAnimations {
		return out, nil
	}
	want, err := KeyframesNames(css)
	if err != nil {
		return nil, &EngineError{Engine: "tdewolff", Err: err}
	}
	if len(want) == 0 {
		return out, nil
	}
	got, err := KeyframesNames(out)
	if err != nil {
		return nil, &EngineError{Engine: "tdewolff", Err: err}
	}
	have := make(map[string]bool, len(got))
	for _, n := range got {
		have[n] = true
	}
	for _, n := range want {
		if !have[n] {
			return nil, fmt.Errorf("%w: @keyframes %s", ErrKeyframesRenamed, n)
		}
	}
	return out, nil
}

// KeyframesNames returns the names declared by @keyframes rules in css,
// including vendor-prefixed forms, in source order.
func KeyframesNames(css []byte) ([]string, error) {
	p := parsecss.NewParser(parse.NewInput(bytes.NewReader(css)), false)
	var names []string
	for {
		gt, _, data := p.Next()
		if gt == parsecss.ErrorGrammar {
			if err := p.Err(); err != nil && err != io.EOF {
				return nil, err
			}
			return names, nil
		}
		if gt != parsecss.BeginAtRuleGrammar {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(string(data)), "keyframes") {
			continue
		}
		for _, v := range p.Values() {
			if v.TokenType == parsecss.IdentToken || v.TokenType == parsecss.StringToken {
				names = append(names, strings.Trim(string(v.Data), `"'`))
				break
			}
		}
	}
}

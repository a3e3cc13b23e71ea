package minify

import (
	"errors"
	"strings"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEngines(t *testing.T) {
	got, err := ParseEngines([]string{"chrome58", "Safari11.1", " firefox57 "})
	require.NoError(t, err)
	assert.Equal(t, []api.Engine{
		{Name: api.EngineChrome, Version: "58"},
		{Name: api.EngineSafari, Version: "11.1"},
		{Name: api.EngineFirefox, Version: "57"},
	}, got)

	for _, bad := range []string{"chrome", "58", "netscape4"} {
		_, err := ParseEngines([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestPrefixer_KeepsRulesUnminified(t *testing.T) {
	p, err := NewPrefixer([]string{"chrome58", "safari11"})
	require.NoError(t, err)

	out, err := p.Transform([]byte(".a {\n  user-select: none;\n}\n"), "main.css")
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "user-select: none")
	assert.Contains(t, s, "\n", "portability pass must not minify")
}

func TestPrefixer_SyntaxError(t *testing.T) {
	p, err := NewPrefixer([]string{"chrome58"})
	require.NoError(t, err)

	_, err = p.Transform([]byte(".a { color: red; "), "broken.css")
	// esbuild reports unterminated blocks as warnings; only hard errors fail.
	if err != nil {
		var ee *EngineError
		assert.True(t, errors.As(err, &ee))
	}
}

func TestStyleMinifier(t *testing.T) {
	in := []byte(`
/* banner */
.box {
  margin: 0px 0px 0px 0px;
  color: #ff0000;
  animation: spin 1s linear infinite;
}
@keyframes spin {
  from { transform: rotate(0deg); }
  to { transform: rotate(360deg); }
}
`)
	out, err := NewStyleMinifier(true).Minify(in)
	require.NoError(t, err)
	s := string(out)
	assert.NotContains(t, s, "banner")
	assert.Contains(t, s, "@keyframes spin")
	assert.Contains(t, s, "spin 1s")
	assert.Less(t, len(out), len(in))
}

func TestKeyframesNames(t *testing.T) {
	names, err := KeyframesNames([]byte(`
@keyframes fade { from { opacity: 0 } to { opacity: 1 } }
@-webkit-keyframes slide { from { left: 0 } to { left: 10px } }
.a { color: red }
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"fade", "slide"}, names)
}

func TestScriptMinifier(t *testing.T) {
	src := []byte(`
/* a.js */
function computeTotal(items) {
  debugger;
  var total = 0;
  for (var i = 0; i < items.length; i++) {
    total += items[i];
  }
  console.log("total", total);
  return total;
}
if (false) {
  computeTotal([]);
}
window.result = computeTotal([1, 2, 3]);
`)

	t.Run("defaults", func(t *testing.T) {
		m := NewScriptMinifier(ScriptOptions{MangleTopLevel: true, SourceMap: true})
		res, err := m.Minify(src)
		require.NoError(t, err)

		code := string(res.Code)
		assert.Equal(t, 2, res.Passes)
		assert.NotContains(t, code, "debugger")
		assert.NotContains(t, code, "a.js", "comments are removed")
		assert.NotContains(t, code, "computeTotal", "top-level names are mangled")
		assert.Contains(t, code, "console.log")
		assert.True(t, strings.HasSuffix(code, "//# sourceMappingURL=bundle.min.js.map"))
		assert.Less(t, len(res.Code), len(src))

		require.NotNil(t, res.Map)
		assert.Equal(t, "bundle.min.js.map", res.MapName)
		sm, err := ParseSourceMap(res.Map)
		require.NoError(t, err)
		assert.Equal(t, "bundle.min.js", sm.File)
		assert.NotEmpty(t, sm.Mappings)
	})

	t.Run("drop console", func(t *testing.T) {
		res, err := NewScriptMinifier(ScriptOptions{DropConsole: true}).Minify(src)
		require.NoError(t, err)
		assert.NotContains(t, string(res.Code), "console")
		assert.Nil(t, res.Map)
		assert.NotContains(t, string(res.Code), "sourceMappingURL")
	})

	t.Run("passes floor", func(t *testing.T) {
		res, err := NewScriptMinifier(ScriptOptions{Passes: 1}).Minify(src)
		require.NoError(t, err)
		assert.Equal(t, MinPasses, res.Passes)
	})

	t.Run("keep names stays inside the wrapper", func(t *testing.T) {
		opts := ScriptOptions{MangleTopLevel: true, KeepFunctionNames: true}
		two, err := NewScriptMinifier(opts).Minify(src)
		require.NoError(t, err)
		opts.Passes = 3
		three, err := NewScriptMinifier(opts).Minify(src)
		require.NoError(t, err)

		for _, res := range []ScriptResult{two, three} {
			code := string(res.Code)
			assert.True(t, strings.HasPrefix(code, "(()=>{"), "nothing may be declared outside the wrapper: %s", code)
			assert.Contains(t, code, `"computeTotal"`, "the function name is kept")
		}
		assert.LessOrEqual(t, len(three.Code), len(two.Code))
	})

	t.Run("more passes", func(t *testing.T) {
		res, err := NewScriptMinifier(ScriptOptions{Passes: 3, SourceMap: true}).Minify(src)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Passes)
		assert.NotNil(t, res.Map)
	})
}

func TestScriptMinifier_SyntaxError(t *testing.T) {
	_, err := NewScriptMinifier(ScriptOptions{}).Minify([]byte("function ( {"))
	var ee *EngineError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "esbuild", ee.Engine)
	assert.NotEmpty(t, ee.Messages)
}

func TestPatchSourceMap(t *testing.T) {
	raw := []byte(`{"version":3,"sources":["<stdin>"],"mappings":"AAAA"}`)
	out, err := patchSourceMap(raw, "bundle.min.js", "bundle.js")
	require.NoError(t, err)

	sm, err := ParseSourceMap(out)
	require.NoError(t, err)
	assert.Equal(t, "bundle.min.js", sm.File)
	assert.Equal(t, []string{"bundle.js"}, sm.Sources)
	assert.Equal(t, []string{}, sm.Names)

	_, err = patchSourceMap(nil, "x", "y")
	assert.Error(t, err)
	_, err = ParseSourceMap([]byte(`{"version":2}`))
	assert.Error(t, err)
}

func TestEngineError_Message(t *testing.T) {
	e := &EngineError{Engine: "esbuild", Messages: []string{"a.js:1:2: bad", "second"}}
	assert.Equal(t, "esbuild failed: a.js:1:2: bad (and 1 more)", e.Error())

	inner := errors.New("boom")
	e = &EngineError{Engine: "tdewolff", Err: inner}
	assert.Equal(t, "tdewolff failed: boom", e.Error())
	assert.True(t, errors.Is(e, inner))
}

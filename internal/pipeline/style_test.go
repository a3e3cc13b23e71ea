package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/assetpress/internal/config"
	"github.com/backmassage/assetpress/internal/naming"
)

const heroCSS = `/* Site styles */
.hero {
  color: red;
}
.unrelated-widget {
  color: blue;
  animation: pulse 2s infinite;
}
@keyframes pulse {
  from { opacity: 0.5; }
  to { opacity: 1; }
}
`

func TestRunStyle(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "dist", "css")
	cssPath := write(t, src, "main.css", heroCSS)
	log, buf := captureLogger()

	rep, err := RunStyle(context.Background(), testConfig(config.StageCSS, cssPath, out), log)
	require.NoError(t, err)

	minified, err := os.ReadFile(filepath.Join(out, naming.MinifiedCSS))
	require.NoError(t, err)
	assert.Equal(t, int64(len(minified)), rep.Minified.Size)
	assert.NotContains(t, string(minified), "Site styles")
	assert.Contains(t, string(minified), "@keyframes pulse")

	assert.Equal(t, int64(len(heroCSS)), rep.Result.InputSize)
	want := 1 - float64(len(minified))/float64(len(heroCSS))
	assert.InDelta(t, want, rep.Result.Savings("minified"), 1e-9)

	crit, err := os.ReadFile(filepath.Join(out, naming.CriticalCSS))
	require.NoError(t, err)
	// The comment opener matches "*", so the first line opens a block that
	// runs through the hero rule.
	assert.Equal(t, "/* Site styles */\n.hero {\n  color: red;\n}", string(crit))
	assert.Equal(t, int64(len(crit)), rep.Critical.Size)

	assert.Equal(t, []string{filepath.Join(out, naming.MinifiedCSS), filepath.Join(out, naming.CriticalCSS)}, rep.Artifacts())
	assert.Contains(t, buf.String(), "CSS build complete")
}

func TestRunStyle_CriticalHeroOnly(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	cssPath := write(t, src, "main.css", ".hero {\n  color: red;\n}\n.unrelated-widget {\n  color: blue;\n}\n")
	log, _ := captureLogger()

	_, err := RunStyle(context.Background(), testConfig(config.StageCSS, cssPath, out), log)
	require.NoError(t, err)

	crit, err := os.ReadFile(filepath.Join(out, naming.CriticalCSS))
	require.NoError(t, err)
	assert.Equal(t, ".hero {\n  color: red;\n}", string(crit))
}

func TestRunStyle_GrowthIsNegative(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	cssPath := write(t, src, "main.css", "a{user-select:none}")
	log, buf := captureLogger()

	cfg := testConfig(config.StageCSS, cssPath, out)
	cfg.BrowserTargets = []string{"safari11", "firefox57"}
	rep, err := RunStyle(context.Background(), cfg, log)
	require.NoError(t, err)

	assert.Greater(t, rep.Minified.Size, rep.Source.Size)
	assert.Less(t, rep.Result.Savings("minified"), 0.0)
	assert.Contains(t, buf.String(), "minified output is larger")
}

func TestRunStyle_MissingSource(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	log, _ := captureLogger()

	_, err := RunStyle(context.Background(), testConfig(config.StageCSS, filepath.Join(t.TempDir(), "nope.css"), out), log)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputMissing))
	assert.False(t, exists(out), "nothing may be written")
}

func TestRunStyle_TransformFailureWritesNothing(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "dist")
	cssPath := write(t, src, "main.css", heroCSS)
	log, _ := captureLogger()

	cfg := testConfig(config.StageCSS, cssPath, out)
	cfg.BrowserTargets = []string{"netscape4"}
	_, err := RunStyle(context.Background(), cfg, log)

	var te *TransformError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, config.StageCSS, te.Stage)
	assert.Equal(t, cssPath, te.Path)
	assert.False(t, exists(out))
}

package minify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// ErrKeyframesRenamed is returned when an @keyframes name present in the
// input is missing from the minified output.
var ErrKeyframesRenamed = errors.New("animation name not preserved")

// EngineError reports a failed engine run.
type EngineError struct {
	Engine   string   // "esbuild", "tdewolff"
	Messages []string // one line per diagnostic, "file:line:col: text"
	Err      error    // underlying error when the engine returned one
}

func (e *EngineError) Error() string {
	var b strings.Builder
	b.WriteString(e.Engine)
	b.WriteString(" failed")
	switch {
	case len(e.Messages) > 0:
		b.WriteString(": ")
		b.WriteString(e.Messages[0])
		if n := len(e.Messages) - 1; n > 0 {
			fmt.Fprintf(&b, " (and %d more)", n)
		}
	case e.Err != nil:
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *EngineError) Unwrap() error { return e.Err }

// esbuildError converts esbuild diagnostics into an *EngineError, or nil when
// there are none.
func esbuildError(msgs []api.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = formatMessage(m)
	}
	return &EngineError{Engine: "esbuild", Messages: lines}
}

func formatMessage(m api.Message) string {
	if m.Location == nil {
		return m.Text
	}
	l := m.Location
	return fmt.Sprintf("%s:%d:%d: %s", l.File, l.Line, l.Column, m.Text)
}

package pipeline

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/backmassage/assetpress/internal/config"
)

// ErrInputMissing is returned (wrapped with the path) when a stage's source
// file or directory does not exist.
var ErrInputMissing = errors.New("input not found")

// TransformError reports a failed engine run for a stage input. It is fatal
// for the css and js stages.
type TransformError struct {
	Stage config.Stage
	Path  string
	Err   error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("%s: transform %s: %v", e.Stage, e.Path, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// FailureKind classifies a per-image failure.
type FailureKind string

const (
	FailDecode FailureKind = "decode"
	FailEncode FailureKind = "encode"
	FailWebP   FailureKind = "webp"
	FailWrite  FailureKind = "write"
)

// Failure is the recorded outcome of an image that could not be transcoded.
type Failure struct {
	Kind FailureKind
	Path string
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", f.Kind, f.Path, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// inputError wraps a not-exist error as ErrInputMissing and passes others
// through with the path attached.
func inputError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrInputMissing, path)
	}
	return fmt.Errorf("read %s: %w", path, err)
}

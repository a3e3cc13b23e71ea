package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/assetpress/internal/config"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = ""
	cfg.ColorMode = config.ColorNever
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	if l.Palette().Enabled() {
		t.Error("ColorNever should yield an empty palette")
	}
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(dir, "logs", "assetpress.log")
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("to file")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(cfg.LogFile)
	if !bytes.Contains(b, []byte("INFO")) || !bytes.Contains(b, []byte("to file")) {
		t.Errorf("log file content: %s", string(b))
	}
}

func TestLogger_ErrorGoesToErrWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut, false)
	l.Info("hello")
	l.Error("boom")

	if !strings.Contains(out.String(), "[INFO] hello") {
		t.Errorf("stdout = %q", out.String())
	}
	if strings.Contains(out.String(), "boom") {
		t.Error("ERROR lines must not be written to stdout")
	}
	if !strings.Contains(errOut.String(), "[ERROR] boom") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestLogger_DebugGatedByVerbose(t *testing.T) {
	var quiet, loud bytes.Buffer
	NewLoggerTo(&quiet, &quiet, false).Debug("hidden %d", 1)
	NewLoggerTo(&loud, &loud, true).Debug("shown %d", 2)

	if quiet.Len() != 0 {
		t.Errorf("non-verbose logger wrote %q", quiet.String())
	}
	if !strings.Contains(loud.String(), "[DEBUG] shown 2") {
		t.Errorf("verbose logger wrote %q", loud.String())
	}
}

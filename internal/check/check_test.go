package check

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/backmassage/assetpress/internal/config"
)

type recordLogger struct {
	lines []string
}

func (r *recordLogger) add(level, format string, args ...interface{}) {
	r.lines = append(r.lines, level+" "+fmt.Sprintf(format, args...))
}

func (r *recordLogger) Info(f string, a ...interface{})    { r.add("INFO", f, a...) }
func (r *recordLogger) Success(f string, a ...interface{}) { r.add("SUCCESS", f, a...) }
func (r *recordLogger) Warn(f string, a ...interface{})    { r.add("WARN", f, a...) }
func (r *recordLogger) Error(f string, a ...interface{})   { r.add("ERROR", f, a...) }
func (r *recordLogger) Debug(f string, a ...interface{})   { r.add("DEBUG", f, a...) }

func (r *recordLogger) has(prefix, substr string) bool {
	for _, l := range r.lines {
		if strings.HasPrefix(l, prefix) && strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func defaultConfig(stage config.Stage) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Stage = stage
	return &cfg
}

func TestCheckDeps(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"css defaults", func(c *config.Config) { c.Stage = config.StageCSS }, nil},
		{"js defaults", func(c *config.Config) { c.Stage = config.StageJS }, nil},
		{"images defaults", func(c *config.Config) { c.Stage = config.StageImages }, nil},
		{"audit needs nothing", func(c *config.Config) { c.Stage = config.StageAudit; c.BrowserTargets = []string{"bogus"} }, nil},
		{"css bad target", func(c *config.Config) {
			c.Stage = config.StageCSS
			c.BrowserTargets = []string{"netscape4"}
		}, ErrBrowserTargets},
		{"publish without bucket", func(c *config.Config) {
			c.Stage = config.StageJS
			c.Publish = true
			c.S3 = config.S3Config{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s"}
		}, ErrS3Incomplete},
		{"publish without credentials", func(c *config.Config) {
			c.Stage = config.StageJS
			c.Publish = true
			c.S3 = config.S3Config{Endpoint: "localhost:9000", Bucket: "assets"}
		}, ErrS3NoCredentials},
		{"publish complete", func(c *config.Config) {
			c.Stage = config.StageJS
			c.Publish = true
			c.S3 = config.S3Config{Endpoint: "localhost:9000", Bucket: "assets", AccessKey: "k", SecretKey: "s"}
		}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(config.StageCSS)
			tt.mutate(cfg)
			err := CheckDeps(cfg)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("CheckDeps() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("CheckDeps() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRunCheck(t *testing.T) {
	log := &recordLogger{}
	if !RunCheck(defaultConfig(config.StageCheck), log) {
		t.Fatalf("RunCheck() = false; log:\n%s", strings.Join(log.lines, "\n"))
	}
	for _, want := range []string{"CSS prefixer", "CSS minifier", "JS minifier", "WebP encoder"} {
		if !log.has("SUCCESS", want) {
			t.Errorf("missing success line for %s", want)
		}
	}
	if !log.has("INFO", "Publishing: disabled") {
		t.Error("missing publishing line")
	}
}

func TestRunCheck_ReportsFailures(t *testing.T) {
	cfg := defaultConfig(config.StageCheck)
	cfg.BrowserTargets = []string{"mosaic1"}
	cfg.Publish = true
	cfg.S3 = config.S3Config{}
	log := &recordLogger{}

	if RunCheck(cfg, log) {
		t.Fatal("RunCheck() = true, want false")
	}
	if !log.has("ERROR", "CSS prefixer") {
		t.Error("prefixer failure not logged")
	}
	if !log.has("ERROR", ErrS3Incomplete.Error()) {
		t.Error("publishing failure not logged")
	}
	if !log.has("SUCCESS", "JS minifier") {
		t.Error("a failing engine must not stop the remaining checks")
	}
}

package config

// This file layers .env and ASSETPRESS_* environment variables over the
// defaults. CLI flags are applied afterwards by ParseFlags and win.

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv loads cfg.EnvFile (if it exists) into the process environment and
// then applies the recognized ASSETPRESS_* variables to cfg. Variables that
// are already set in the environment are not overwritten by the file.
func LoadEnv(cfg *Config) error {
	if file := strings.TrimSpace(os.Getenv("ASSETPRESS_ENV_FILE")); file != "" {
		cfg.EnvFile = file
	}
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", cfg.EnvFile, err)
		}
	}

	if v := env("ASSETPRESS_BROWSERS"); v != "" {
		cfg.BrowserTargets = splitList(v)
	}
	if v := env("ASSETPRESS_LOG"); v != "" {
		cfg.LogFile = v
	}
	if v := env("ASSETPRESS_COLOR"); v != "" {
		cfg.ColorMode = ColorMode(strings.ToLower(v))
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"ASSETPRESS_JPEG_QUALITY", &cfg.JPEGQuality},
		{"ASSETPRESS_WEBP_QUALITY", &cfg.WebPQuality},
		{"ASSETPRESS_WORKERS", &cfg.Workers},
		{"ASSETPRESS_PASSES", &cfg.Passes},
	}
	for _, it := range ints {
		v := env(it.key)
		if v == "" {
			continue
		}
		n, err := parseInt(v, it.key)
		if err != nil {
			return err
		}
		*it.dst = n
	}
	if v := env("ASSETPRESS_PNG_QUALITY"); v != "" {
		lo, hi, err := ParseQualityRange(v)
		if err != nil {
			return err
		}
		cfg.PNGQualityMin, cfg.PNGQualityMax = lo, hi
	}

	cfg.S3 = loadS3Config(cfg.S3)
	return nil
}

// loadS3Config resolves publishing settings, falling back to the MinIO root
// credentials used by local docker-compose setups.
func loadS3Config(base S3Config) S3Config {
	return S3Config{
		Endpoint:  firstNonEmpty(env("ASSETPRESS_S3_ENDPOINT"), base.Endpoint),
		Region:    firstNonEmpty(env("ASSETPRESS_S3_REGION"), base.Region, "us-east-1"),
		AccessKey: firstNonEmpty(env("ASSETPRESS_S3_ACCESS_KEY"), env("MINIO_ROOT_USER"), base.AccessKey),
		SecretKey: firstNonEmpty(env("ASSETPRESS_S3_SECRET_KEY"), env("MINIO_ROOT_PASSWORD"), base.SecretKey),
		Bucket:    firstNonEmpty(env("ASSETPRESS_S3_BUCKET"), base.Bucket),
		Prefix:    firstNonEmpty(env("ASSETPRESS_S3_PREFIX"), base.Prefix),
		UseSSL:    parseBoolDefault(env("ASSETPRESS_S3_USE_SSL"), base.UseSSL),
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func parseBoolDefault(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

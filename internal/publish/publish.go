// Package publish uploads a stage's written artifacts to S3-compatible object
// storage (AWS S3 or MinIO). Objects are keyed "<prefix>/<stage>/<name>".
package publish

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Store puts one object.
type Store interface {
	Put(ctx context.Context, key string, content []byte, contentType string) error
}

// Upload records one published artifact.
type Upload struct {
	Path string // local file
	Key  string // object key
	Size int64
}

// Publisher uploads artifact files through a Store.
type Publisher struct {
	store  Store
	prefix string
}

// NewPublisher returns a Publisher that writes under prefix (may be empty).
func NewPublisher(store Store, prefix string) *Publisher {
	return &Publisher{store: store, prefix: prefix}
}

// Publish uploads every path under "<prefix>/<stage>/<base name>", in order.
// It stops at the first failure and returns the uploads completed so far.
func (p *Publisher) Publish(ctx context.Context, stage string, paths []string) ([]Upload, error) {
	if p == nil || p.store == nil {
		return nil, errors.New("publisher has no store")
	}
	uploads := make([]Upload, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return uploads, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return uploads, fmt.Errorf("read artifact: %w", err)
		}
		key := ObjectKey(p.prefix, stage, filepath.Base(path))
		if err := p.store.Put(ctx, key, data, ContentType(path)); err != nil {
			return uploads, fmt.Errorf("upload %s: %w", key, err)
		}
		uploads = append(uploads, Upload{Path: path, Key: key, Size: int64(len(data))})
	}
	return uploads, nil
}

// ObjectKey joins the non-empty segments with "/".
func ObjectKey(prefix, stage, name string) string {
	var parts []string
	for _, s := range []string{prefix, stage, name} {
		s = strings.Trim(strings.TrimSpace(s), "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

var contentTypes = map[string]string{
	".css":  "text/css; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".map":  "application/json",
	".webp": "image/webp",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// ContentType returns the MIME type for an artifact path.
func ContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/backmassage/assetpress/internal/config"
)

// Sentinel errors returned (wrapped with detail) by S3Store.
var (
	ErrIncompleteS3Config = errors.New("incomplete S3 settings")
	ErrEmptyKey           = errors.New("empty object key")
)

const defaultRegion = "us-east-1"

// S3Store publishes artifacts to one S3-compatible bucket. The bucket is
// checked, and created when missing, before the first upload of a run.
type S3Store struct {
	client *minio.Client
	bucket string
	region string

	bucketOnce sync.Once
	bucketErr  error
}

// NewS3Store builds a client from the publishing settings. Every missing
// setting is named in the returned error. No network call is made.
func NewS3Store(cfg config.S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	bucket := strings.TrimSpace(cfg.Bucket)
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)

	var missing []string
	for _, f := range []struct{ name, val string }{
		{"ASSETPRESS_S3_ENDPOINT", endpoint},
		{"ASSETPRESS_S3_BUCKET", bucket},
		{"ASSETPRESS_S3_ACCESS_KEY", access},
		{"ASSETPRESS_S3_SECRET_KEY", secret},
	} {
		if f.val == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: set %s", ErrIncompleteS3Config, strings.Join(missing, ", "))
	}

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultRegion
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client for %s: %w", endpoint, err)
	}
	return &S3Store{client: client, bucket: bucket, region: region}, nil
}

// Bucket returns the target bucket name.
func (s *S3Store) Bucket() string { return s.bucket }

// prepareBucket runs once per store; its outcome is reused by every Put.
func (s *S3Store) prepareBucket(ctx context.Context) error {
	s.bucketOnce.Do(func() {
		ok, err := s.client.BucketExists(ctx, s.bucket)
		switch {
		case err != nil:
			s.bucketErr = fmt.Errorf("bucket %s: %w", s.bucket, err)
		case !ok:
			if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
				s.bucketErr = fmt.Errorf("create bucket %s: %w", s.bucket, err)
			}
		}
	})
	return s.bucketErr
}

// Put uploads content under key. Keys are relative to the bucket root; a
// leading slash is dropped.
func (s *S3Store) Put(ctx context.Context, key string, content []byte, contentType string) error {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.prepareBucket(ctx); err != nil {
		return err
	}
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)), opts); err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// Package snapshot uploads site database backups to S3-compatible
// storage. When a bucket is not configured the NoopUploader is used and
// the site runs local-only.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/medstock/sitesync/internal/config"
)

// ErrNotConfigured is returned when snapshot storage is not configured.
var ErrNotConfigured = errors.New("snapshot storage not configured")

// Uploader uploads site database snapshots.
type Uploader interface {
	// Upload uploads the database file at filePath as the current
	// snapshot for the given site.
	Upload(ctx context.Context, siteID int64, filePath string) error
}

// s3Client is the minimal minio.Client surface S3Uploader uses, split
// out so tests can substitute a mock.
type s3Client interface {
	FPutObject(ctx context.Context, bucket, objectName, filePath string) error
}

// minioClientWrapper adapts *minio.Client to s3Client; the concrete
// method takes option types the interface deliberately hides.
type minioClientWrapper struct {
	client *minio.Client
}

func (w *minioClientWrapper) FPutObject(ctx context.Context, bucket, objectName, filePath string) error {
	_, err := w.client.FPutObject(ctx, bucket, objectName, filePath, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	return err
}

// S3Uploader uploads snapshots to S3-compatible storage.
type S3Uploader struct {
	client s3Client
	bucket string
	prefix string
	now    func() time.Time
}

// Upload uploads the site database under a timestamped key and
// refreshes the current.db alias, so both a restore point history and a
// stable latest pointer exist.
func (u *S3Uploader) Upload(ctx context.Context, siteID int64, filePath string) error {
	stamped := u.objectKey(siteID, u.now().UTC().Format("20060102T150405Z")+".db")
	if err := u.client.FPutObject(ctx, u.bucket, stamped, filePath); err != nil {
		return fmt.Errorf("upload snapshot: %w", err)
	}
	current := u.objectKey(siteID, "current.db")
	if err := u.client.FPutObject(ctx, u.bucket, current, filePath); err != nil {
		return fmt.Errorf("refresh current snapshot: %w", err)
	}
	return nil
}

func (u *S3Uploader) objectKey(siteID int64, name string) string {
	key := fmt.Sprintf("site-%d/snapshot/%s", siteID, name)
	if u.prefix != "" {
		key = u.prefix + "/" + key
	}
	return key
}

// NoopUploader is used when snapshot storage is not configured.
type NoopUploader struct{}

// Upload is a no-op.
func (u *NoopUploader) Upload(ctx context.Context, siteID int64, filePath string) error {
	return nil
}

// NewUploader creates the appropriate Uploader for the configuration:
// NoopUploader when disabled, S3Uploader otherwise.
func NewUploader(cfg config.SnapshotConfig) (Uploader, error) {
	if !cfg.Enabled {
		return &NoopUploader{}, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create S3 client: %w", err)
	}

	return &S3Uploader{
		client: &minioClientWrapper{client: client},
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		now:    time.Now,
	}, nil
}

// Package minio publishes generated model files to a MinIO (or any
// S3-compatible) bucket through filestore.Store.
package minio

import (
	"context"
	"io"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/koustreak/modelgen/internal/errs"
	"github.com/koustreak/modelgen/internal/filestore"
)

// Driver talks to one MinIO endpoint. It is safe for concurrent use.
type Driver struct {
	client *miniogo.Client
	bucket string
}

var _ filestore.Store = (*Driver)(nil)

// New builds the client and pings it, so a wrong endpoint, bad credentials
// or a missing bucket fail before any model is rendered.
func New(ctx context.Context, cfg *filestore.Config) (*Driver, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	d := &Driver{client: client, bucket: cfg.Bucket}
	if err := d.Ping(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func newClient(cfg *filestore.Config) (*miniogo.Client, error) {
	if cfg.Endpoint == "" {
		return nil, errs.New(errs.ErrKindInvalidConfig, "minio endpoint is required")
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidConfig, "create minio client", err)
	}
	return client, nil
}

// Ping lists buckets when none is configured, otherwise checks that the
// configured bucket exists.
func (d *Driver) Ping(ctx context.Context) error {
	if d.bucket == "" {
		_, err := d.client.ListBuckets(ctx)
		return mapError(err, "ping minio")
	}

	ok, err := d.client.BucketExists(ctx, d.bucket)
	switch {
	case err != nil:
		return mapError(err, "ping minio")
	case !ok:
		return errs.Newf(errs.ErrKindNotFound, "bucket %q does not exist", d.bucket)
	}
	return nil
}

// Close does nothing; the SDK keeps no connection open between calls.
func (d *Driver) Close() error {
	return nil
}

func (d *Driver) StatObject(ctx context.Context, bucket, key string) (*filestore.ObjectInfo, error) {
	stat, err := d.client.StatObject(ctx, bucket, key, miniogo.StatObjectOptions{})
	if err != nil {
		return nil, mapError(err, "stat "+bucket+"/"+key)
	}
	return &filestore.ObjectInfo{
		Key:          stat.Key,
		Size:         stat.Size,
		ContentType:  stat.ContentType,
		ETag:         stat.ETag,
		LastModified: stat.LastModified,
	}, nil
}

func (d *Driver) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) (*filestore.ObjectInfo, error) {
	up, err := d.client.PutObject(ctx, bucket, key, r, size, miniogo.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, mapError(err, "put "+bucket+"/"+key)
	}
	return &filestore.ObjectInfo{
		Key:          up.Key,
		Size:         up.Size,
		ContentType:  contentType,
		ETag:         up.ETag,
		LastModified: up.LastModified,
	}, nil
}

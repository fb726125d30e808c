// Package filestore is the object storage seam used to publish generated
// model files to a bucket instead of a local directory. Callers depend on
// Store; provider packages (currently minio) implement it.
//
//	store, err := minio.New(ctx, filestore.DefaultConfig("localhost:9000", key, secret))
//	if err != nil { ... }
//	defer store.Close()
//	info, err := store.PutObject(ctx, "models", "shop/User.ts", r, size, "application/typescript")
package filestore

import (
	"context"
	"io"
	"time"
)

// Provider names a storage backend.
type Provider string

const ProviderMinIO Provider = "minio"

// Config locates a bucket on an S3-compatible server.
type Config struct {
	Provider  Provider
	Endpoint  string // host:port, e.g. "localhost:9000"
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string // empty for MinIO
	Bucket    string // must exist; Ping checks it
}

// DefaultConfig returns a plain-HTTP MinIO config for endpoint.
func DefaultConfig(endpoint, accessKey, secretKey string) *Config {
	return &Config{
		Provider:  ProviderMinIO,
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
	}
}

// ObjectInfo is what the backend reports about a stored model file.
type ObjectInfo struct {
	Key          string
	Size         int64 // -1 when the backend does not say
	ContentType  string
	ETag         string
	LastModified time.Time // may be zero on upload
}

// Store publishes files to a bucket.
type Store interface {
	// Ping checks that the server answers and the configured bucket exists.
	Ping(ctx context.Context) error

	Close() error

	// StatObject reports an existing object. A missing key is
	// errs.ErrKindNotFound.
	StatObject(ctx context.Context, bucket, key string) (*ObjectInfo, error)

	// PutObject uploads size bytes from r, replacing any object at key.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) (*ObjectInfo, error)
}

package emit

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/koustreak/modelgen/internal/errs"
	"github.com/koustreak/modelgen/internal/filestore"
)

// ContentType is the MIME type objects are uploaded with.
const ContentType = "application/typescript"

// ObjectStore uploads files to a bucket under an optional key prefix.
type ObjectStore struct {
	store  filestore.Store
	bucket string
	prefix string
	log    func(string)
}

// NewObjectStore returns an emitter writing to bucket through store.
// log may be nil.
func NewObjectStore(store filestore.Store, bucket, prefix string, log func(string)) *ObjectStore {
	if log == nil {
		log = func(string) {}
	}
	return &ObjectStore{
		store:  store,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		log:    log,
	}
}

// Key returns the object key used for file.
func (o *ObjectStore) Key(file File) string {
	if o.prefix == "" {
		return file.Path
	}
	return path.Join(o.prefix, file.Path)
}

// Emit uploads file.Content, replacing any existing object at the same key.
func (o *ObjectStore) Emit(ctx context.Context, file File) error {
	key := o.Key(file)

	if _, err := o.store.StatObject(ctx, o.bucket, key); err == nil {
		o.log(fmt.Sprintf("\tReplacing existing object '%s/%s'", o.bucket, key))
	}

	_, err := o.store.PutObject(ctx, o.bucket, key, bytes.NewReader(file.Content), int64(len(file.Content)), ContentType)
	if err != nil {
		return errs.Wrap(errs.ErrKindWriteFailed, fmt.Sprintf("put %s/%s", o.bucket, key), err)
	}
	return nil
}

package emit

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/modelgen/internal/errs"
	"github.com/koustreak/modelgen/internal/filestore"
)

func TestLocal_CreatesDirectoryAndWrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "models", "nested")
	local := NewLocal(dir, nil)

	err := local.Emit(context.Background(), File{Path: "User.ts", ClassName: "User", Content: []byte("export class User {}")})
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "User.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export class User {}", string(got))
	assert.Equal(t, dir, local.Dir())
}

func TestLocal_OverwritesAndLogs(t *testing.T) {
	dir := t.TempDir()
	var messages []string
	local := NewLocal(dir, func(m string) { messages = append(messages, m) })

	require.NoError(t, local.Emit(context.Background(), File{Path: "User.ts", Content: []byte("first")}))
	assert.Empty(t, messages)

	require.NoError(t, local.Emit(context.Background(), File{Path: "User.ts", Content: []byte("second")}))
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "Replacing existing file")

	got, err := os.ReadFile(filepath.Join(dir, "User.ts"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestLocal_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	// a directory where the file should go makes the write fail
	require.NoError(t, os.Mkdir(filepath.Join(dir, "User.ts"), 0o755))

	err := NewLocal(dir, nil).Emit(context.Background(), File{Path: "User.ts", Content: []byte("x")})
	require.Error(t, err)
	assert.True(t, errs.IsWriteFailed(err))
	assert.False(t, errs.Fatal(err))
}

type putCall struct {
	bucket      string
	key         string
	body        string
	size        int64
	contentType string
}

type fakeStore struct {
	existing map[string]bool
	puts     []putCall
	putErr   error
}

func (f *fakeStore) Ping(context.Context) error { return nil }
func (f *fakeStore) Close() error               { return nil }

func (f *fakeStore) StatObject(_ context.Context, bucket, key string) (*filestore.ObjectInfo, error) {
	if f.existing[bucket+"/"+key] {
		return &filestore.ObjectInfo{Key: key}, nil
	}
	return nil, errs.New(errs.ErrKindNotFound, "no such key")
}

func (f *fakeStore) PutObject(_ context.Context, bucket, key string, r io.Reader, size int64, contentType string) (*filestore.ObjectInfo, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.puts = append(f.puts, putCall{bucket: bucket, key: key, body: string(body), size: size, contentType: contentType})
	return &filestore.ObjectInfo{Key: key, Size: size}, nil
}

func TestObjectStore_Emit(t *testing.T) {
	store := &fakeStore{}
	emitter := NewObjectStore(store, "models", "/shop/v1/", nil)

	require.NoError(t, emitter.Emit(context.Background(), File{Path: "User.ts", Content: []byte("export class User {}")}))

	require.Len(t, store.puts, 1)
	assert.Equal(t, putCall{
		bucket:      "models",
		key:         "shop/v1/User.ts",
		body:        "export class User {}",
		size:        20,
		contentType: ContentType,
	}, store.puts[0])
}

func TestObjectStore_NoPrefix(t *testing.T) {
	emitter := NewObjectStore(&fakeStore{}, "models", "", nil)
	assert.Equal(t, "User.ts", emitter.Key(File{Path: "User.ts"}))
}

func TestObjectStore_LogsReplace(t *testing.T) {
	store := &fakeStore{existing: map[string]bool{"models/User.ts": true}}
	var messages []string
	emitter := NewObjectStore(store, "models", "", func(m string) { messages = append(messages, m) })

	require.NoError(t, emitter.Emit(context.Background(), File{Path: "User.ts", Content: []byte("x")}))
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "models/User.ts")
}

func TestObjectStore_PutFailureIsWriteFailed(t *testing.T) {
	store := &fakeStore{putErr: errs.New(errs.ErrKindPermissionDenied, "access denied")}

	err := NewObjectStore(store, "models", "", nil).Emit(context.Background(), File{Path: "User.ts", Content: []byte("x")})
	require.Error(t, err)
	assert.True(t, errs.IsWriteFailed(err))
}

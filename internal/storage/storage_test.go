package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koba/xcellab/internal/config"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestLocalStorageUpload(t *testing.T) {
	base := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	src := writeTemp(t, "practice.csv", "ID,Name\n1,Amit\n")
	key := ObjectKey("exports", "gen-1", src)
	require.NoError(t, store.Upload(context.Background(), src, key))

	got, err := os.ReadFile(filepath.Join(base, "exports", "gen-1", "practice.csv"))
	require.NoError(t, err)
	assert.Equal(t, "ID,Name\n1,Amit\n", string(got))
	assert.Equal(t, filepath.Join(base, "exports", "gen-1", "practice.csv"), store.URL(key))

	_, err = os.Stat(filepath.Join(base, "exports", "gen-1", "practice.csv.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageUploadErrors(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = store.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"), "x.xlsx")
	assert.ErrorIs(t, err, ErrUploadFailed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = store.Upload(ctx, writeTemp(t, "a.csv", "x"), "a.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "exports/abc/data.xlsx", ObjectKey("exports", "abc", filepath.Join("out", "data.xlsx")))
	assert.Equal(t, "abc/data.db", ObjectKey("", "abc", "data.db"))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	store, err := New(ctx, config.StorageConfig{})
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = New(ctx, config.StorageConfig{Type: "local", Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, store)

	_, err = New(ctx, config.StorageConfig{Type: "gcs"})
	assert.Error(t, err)
}

type fakeS3 struct {
	mu      sync.Mutex
	status  int
	method  string
	path    string
	payload int64
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n, _ := io.Copy(io.Discard, r.Body)
	f.mu.Lock()
	f.method, f.path, f.payload = r.Method, r.URL.Path, n
	status := f.status
	f.mu.Unlock()

	w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
	w.WriteHeader(status)
}

func newTestS3(t *testing.T, status int) (*S3Storage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{status: status}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	awsCfg := aws.Config{Region: "us-east-1", Credentials: aws.AnonymousCredentials{}}
	store := NewS3StorageWithConfig(awsCfg, "practice-data", S3Config{Endpoint: srv.URL, UsePathStyle: true})
	store.maxRetries = 0
	return store, fake
}

func TestS3StorageUpload(t *testing.T) {
	store, fake := newTestS3(t, http.StatusOK)
	src := writeTemp(t, "practice.json", `[{"ID": 1}]`)

	require.NoError(t, store.Upload(context.Background(), src, "exports/gen-1/practice.json"))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, http.MethodPut, fake.method)
	assert.Equal(t, "/practice-data/exports/gen-1/practice.json", fake.path)
	assert.Positive(t, fake.payload)
	assert.Equal(t, "s3://practice-data/exports/gen-1/practice.json", store.URL("exports/gen-1/practice.json"))
}

func TestS3StorageUploadFailure(t *testing.T) {
	store, _ := newTestS3(t, http.StatusForbidden)
	src := writeTemp(t, "practice.json", `[]`)

	err := store.Upload(context.Background(), src, "practice.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUploadFailed))

	err = store.Upload(context.Background(), filepath.Join(t.TempDir(), "missing"), "x")
	assert.ErrorIs(t, err, ErrUploadFailed)
}

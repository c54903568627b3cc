package sink

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/trendlens/internal/compression"
	"github.com/soltixdb/trendlens/internal/config"
)

func TestFileSink_Put(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSink(dir)
	require.NoError(t, err)

	loc, err := s.Put(context.Background(), "reports/population.json", []byte(`{"ok":true}`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reports", "population.json"), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))

	// overwrite
	_, err = s.Put(context.Background(), "reports/population.json", []byte("second"))
	require.NoError(t, err)
	data, err = os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "reports"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileSink_RejectsEscapingKeys(t *testing.T) {
	s, err := NewFileSink(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../outside.json", "/etc/passwd", "", "a/../../b"} {
		_, err := s.Put(context.Background(), key, []byte("x"))
		assert.Error(t, err, "key %q", key)
	}
}

func TestFileSink_CanceledContext(t *testing.T) {
	s, err := NewFileSink(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Put(ctx, "a.txt", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewFileSink_EmptyDir(t *testing.T) {
	_, err := NewFileSink("")
	assert.Error(t, err)
}

func TestWithCompression(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileSink(dir)
	require.NoError(t, err)

	snappy := compression.NewSnappyCompressor()
	s := WithCompression(fs, snappy)

	payload := []byte(strings.Repeat("trend ", 100))
	loc, err := s.Put(context.Background(), "out.json", payload)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(loc, "out.json.sz"))

	raw, err := os.ReadFile(loc)
	require.NoError(t, err)
	decoded, err := snappy.Decompress(raw)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
	require.NoError(t, s.Close())
}

func TestWithCompression_NoneReturnsSameSink(t *testing.T) {
	fs, err := NewFileSink(t.TempDir())
	require.NoError(t, err)
	assert.Same(t, fs, WithCompression(fs, &compression.NoneCompressor{}).(*FileSink))
	assert.Same(t, fs, WithCompression(fs, nil).(*FileSink))
}

func TestNopSink(t *testing.T) {
	loc, err := NopSink{}.Put(context.Background(), "anything", []byte("x"))
	assert.NoError(t, err)
	assert.Empty(t, loc)
	assert.NoError(t, NopSink{}.Close())
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, config.OutputConfig{Sink: "file", Dir: t.TempDir(), Compression: "none"})
	require.NoError(t, err)
	assert.IsType(t, &FileSink{}, s)

	s, err = New(ctx, config.OutputConfig{Sink: "file", Dir: t.TempDir(), Compression: "snappy"})
	require.NoError(t, err)
	assert.IsType(t, &compressedSink{}, s)

	s, err = New(ctx, config.OutputConfig{Sink: "none"})
	require.NoError(t, err)
	assert.IsType(t, NopSink{}, s)

	_, err = New(ctx, config.OutputConfig{Sink: "ftp"})
	assert.Error(t, err)

	_, err = New(ctx, config.OutputConfig{Sink: "file", Dir: t.TempDir(), Compression: "zstd"})
	assert.Error(t, err)

	_, err = New(ctx, config.OutputConfig{Sink: "s3"})
	assert.Error(t, err, "bucket is required")
}

// fakeS3 records PUT requests sent by the SDK
type fakeS3 struct {
	mu     sync.Mutex
	paths  []string
	bodies []string
	ctypes []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.paths = append(f.paths, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.ctypes = append(f.ctypes, r.Header.Get("Content-Type"))
	f.mu.Unlock()
	w.Header().Set("ETag", `"etag"`)
	w.WriteHeader(http.StatusOK)
}

func TestS3Sink_Put(t *testing.T) {
	fake := &fakeS3{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	s, err := NewS3Sink(context.Background(), S3Config{
		Bucket:          "reports",
		Region:          "us-east-1",
		Prefix:          "trendlens",
		Endpoint:        srv.URL,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		UsePathStyle:    true,
	})
	require.NoError(t, err)

	loc, err := s.Put(context.Background(), "runs/abc.json", []byte(`{"indicator":"GDP"}`))
	require.NoError(t, err)
	assert.Equal(t, "s3://reports/trendlens/runs/abc.json", loc)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.paths, 1)
	assert.Equal(t, "PUT /reports/trendlens/runs/abc.json", fake.paths[0])
	assert.Contains(t, fake.bodies[0], `{"indicator":"GDP"}`)
	assert.Equal(t, "application/json", fake.ctypes[0])
	require.NoError(t, s.Close())
}

func TestS3Sink_ObjectKey(t *testing.T) {
	s := &S3Sink{config: S3Config{Bucket: "b"}}
	assert.Equal(t, "a/b.json", s.objectKey("/a/b.json"))

	s.config.Prefix = "p/"
	assert.Equal(t, "p/a.json", s.objectKey("a.json"))
}

func TestS3Sink_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
	}))
	defer srv.Close()

	s, err := NewS3Sink(context.Background(), S3Config{
		Bucket: "reports", Endpoint: srv.URL,
		AccessKeyID: "k", SecretAccessKey: "s", UsePathStyle: true,
	})
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "x.json", []byte("{}"))
	assert.Error(t, err)
}

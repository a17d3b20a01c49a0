package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theplanbeta/invoice/internal/infrastructure/config"
	infra "github.com/theplanbeta/invoice/internal/infrastructure/printing"
	"go.uber.org/zap/zaptest"
)

// fakeS3 is a path-style S3 endpoint holding objects in memory
type fakeS3 struct {
	mu       sync.Mutex
	bucket   string
	objects  map[string][]byte
	modified map[string]time.Time
	types    map[string]string
}

func newFakeS3(bucket string) *fakeS3 {
	return &fakeS3{
		bucket:   bucket,
		objects:  make(map[string][]byte),
		modified: make(map[string]time.Time),
		types:    make(map[string]string),
	}
}

func (f *fakeS3) put(key string, data []byte, modified time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.modified[key] = modified
}

func (f *fakeS3) object(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	return data, ok
}

func (f *fakeS3) contentType(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.types[key]
}

func (f *fakeS3) has(key string) bool {
	_, ok := f.object(key)
	return ok
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rest := strings.TrimPrefix(r.URL.Path, "/"+f.bucket)
	key := strings.TrimPrefix(rest, "/")

	switch {
	case r.Method == http.MethodGet && key == "" && r.URL.Query().Get("list-type") == "2":
		f.list(w, r.URL.Query().Get("prefix"))
	case r.Method == http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		f.objects[key] = data
		f.modified[key] = time.Now()
		f.types[key] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet:
		data, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		w.Header().Set("Content-Length", fmt.Sprint(len(data)))
		_, _ = w.Write(data)
	case r.Method == http.MethodDelete:
		delete(f.objects, key)
		delete(f.modified, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeS3) list(w http.ResponseWriter, prefix string) {
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">`)
	fmt.Fprintf(&b, `<Name>%s</Name><Prefix>%s</Prefix><KeyCount>%d</KeyCount><MaxKeys>1000</MaxKeys><IsTruncated>false</IsTruncated>`,
		f.bucket, prefix, len(keys))
	for _, k := range keys {
		fmt.Fprintf(&b, `<Contents><Key>%s</Key><LastModified>%s</LastModified><Size>%d</Size></Contents>`,
			k, f.modified[k].UTC().Format("2006-01-02T15:04:05.000Z"), len(f.objects[k]))
	}
	b.WriteString(`</ListBucketResult>`)

	w.Header().Set("Content-Type", "application/xml")
	_, _ = io.WriteString(w, b.String())
}

func newTestStorage(t *testing.T, fake *fakeS3, prefix string, now time.Time) *S3Storage {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewS3Storage(&config.ArchiveS3Config{
		Bucket:       fake.bucket,
		Prefix:       prefix,
		Endpoint:     srv.URL,
		Region:       "eu-central-1",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		UsePathStyle: true,
	}, WithLogger(zaptest.NewLogger(t)), WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	return s
}

func TestNewS3Storage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.ArchiveS3Config
		wantErr string
	}{
		{"nil config", nil, "configuration is required"},
		{"missing bucket", &config.ArchiveS3Config{AccessKey: "k", SecretKey: "s"}, "bucket is required"},
		{"missing access key", &config.ArchiveS3Config{Bucket: "b", SecretKey: "s"}, "access key"},
		{"missing secret key", &config.ArchiveS3Config{Bucket: "b", AccessKey: "k"}, "secret key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3Storage(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("valid config with defaults", func(t *testing.T) {
		s, err := NewS3Storage(&config.ArchiveS3Config{
			Bucket:    "invoices",
			Prefix:    "/planbeta/",
			Endpoint:  "localhost:9000",
			AccessKey: "k",
			SecretKey: "s",
		})
		require.NoError(t, err)
		assert.Equal(t, "invoices", s.Bucket())
		assert.Equal(t, "planbeta", s.prefix)
		assert.Equal(t, 15*time.Minute, s.presignExpiration)
	})
}

func TestS3Storage_StoreAndGet(t *testing.T) {
	fake := newFakeS3("invoices")
	s := newTestStorage(t, fake, "planbeta", time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	res, err := s.Store(ctx, &infra.StoreRequest{
		Filename: "PlanBeta_Invoice_INV-1_Anna_Joseph.pdf",
		Data:     []byte("%PDF-1.4 test"),
		IssuedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "2026/03/PlanBeta_Invoice_INV-1_Anna_Joseph.pdf", res.Path)
	assert.Equal(t, int64(13), res.Size)

	key := "planbeta/2026/03/PlanBeta_Invoice_INV-1_Anna_Joseph.pdf"
	stored, ok := fake.object(key)
	require.True(t, ok)
	assert.Equal(t, []byte("%PDF-1.4 test"), stored)
	assert.Equal(t, "application/pdf", fake.contentType(key))

	rc, err := s.Get(ctx, res.Path)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(data))

	t.Run("undated documents use the clock", func(t *testing.T) {
		res, err := s.Store(ctx, &infra.StoreRequest{Filename: "a.png", Data: []byte{1}})
		require.NoError(t, err)
		assert.Equal(t, "2026/10/a.png", res.Path)
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := s.Get(ctx, "2026/03/none.pdf")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestS3Storage_RejectsBadInput(t *testing.T) {
	s := newTestStorage(t, newFakeS3("invoices"), "", time.Now())
	ctx := context.Background()

	_, err := s.Store(ctx, nil)
	assert.Error(t, err)
	_, err = s.Store(ctx, &infra.StoreRequest{Filename: "../x.pdf", Data: []byte{1}})
	assert.Error(t, err)
	_, err = s.Store(ctx, &infra.StoreRequest{Filename: "x.pdf"})
	assert.Error(t, err)

	for _, p := range []string{"", "/abs.pdf", "../up.pdf", "2026/../../x.pdf", `2026\x.pdf`} {
		_, err := s.Get(ctx, p)
		assert.Error(t, err, p)
		assert.Error(t, s.Delete(ctx, p), p)
	}
}

func TestS3Storage_Delete(t *testing.T) {
	fake := newFakeS3("invoices")
	s := newTestStorage(t, fake, "", time.Now())
	fake.put("2026/01/a.pdf", []byte("x"), time.Now())

	require.NoError(t, s.Delete(context.Background(), "2026/01/a.pdf"))
	assert.False(t, fake.has("2026/01/a.pdf"))
}

func TestS3Storage_CleanupOlderThan(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	fake := newFakeS3("invoices")
	s := newTestStorage(t, fake, "planbeta", now)

	fake.put("planbeta/2025/01/old.pdf", []byte("x"), now.AddDate(0, 0, -400))
	fake.put("planbeta/2026/10/new.pdf", []byte("x"), now.Add(-time.Hour))
	fake.put("planbeta/2025/01/notes.txt", []byte("x"), now.AddDate(0, 0, -400))
	fake.put("other/2025/01/old.pdf", []byte("x"), now.AddDate(0, 0, -400))

	deleted, err := s.CleanupOlderThan(context.Background(), 365*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.False(t, fake.has("planbeta/2025/01/old.pdf"))
	assert.True(t, fake.has("planbeta/2026/10/new.pdf"))
	assert.True(t, fake.has("planbeta/2025/01/notes.txt"))
	assert.True(t, fake.has("other/2025/01/old.pdf"))
}

func TestS3Storage_DownloadURL(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	s := newTestStorage(t, newFakeS3("invoices"), "planbeta", now)

	url, expires, err := s.DownloadURL(context.Background(), "2026/03/a.pdf", 0)
	require.NoError(t, err)
	assert.Contains(t, url, "/invoices/planbeta/2026/03/a.pdf")
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Equal(t, now.Add(15*time.Minute), expires)

	_, _, err = s.DownloadURL(context.Background(), "../a.pdf", time.Minute)
	assert.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	for name, want := range map[string]bool{
		"a.pdf": true, "a.PNG": true, "a.jpg": true, "a.webp": true, "a.txt": false, "a": false,
	} {
		_, ok := formatOf(name)
		assert.Equal(t, want, ok, name)
	}
}

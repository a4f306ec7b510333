package backup

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTransport accepts every PUT and remembers the last request.
type recordingTransport struct {
	mu          sync.Mutex
	path        string
	contentType string
	body        []byte
	status      int
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	status := rt.status
	if status == 0 {
		status = http.StatusOK
	}
	if req.Method == http.MethodPut {
		body, _ := io.ReadAll(req.Body)
		rt.path = req.URL.Path
		rt.contentType = req.Header.Get("Content-Type")
		rt.body = body
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Header:     http.Header{"ETag": {"\"etag\""}},
		Request:    req,
	}, nil
}

func newTestUploader(t *testing.T, rt http.RoundTripper, prefix string) *Uploader {
	t.Helper()
	u, err := New(context.Background(), Config{
		Bucket:          "backups",
		Endpoint:        "https://mock.s3.local",
		Prefix:          prefix,
		PathStyle:       true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
	}, nil, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	require.NoError(t, err)
	u.now = func() time.Time { return time.Date(2026, 3, 1, 12, 30, 5, 0, time.FixedZone("CET", 3600)) }
	return u
}

func writeDB(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "demo.db")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil)
	assert.ErrorIs(t, err, ErrBucketRequired)
}

func TestKey(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 30, 5, 0, time.UTC)
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "demo/20260301T123005Z.db"},
		{"games", "games/demo/20260301T123005Z.db"},
		{"games/", "games/demo/20260301T123005Z.db"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			u := &Uploader{prefix: tt.prefix}
			assert.Equal(t, tt.want, u.Key("/home/me/demo.db", at))
		})
	}
}

func TestUpload(t *testing.T) {
	rt := &recordingTransport{}
	u := newTestUploader(t, rt, "games")
	dbPath := writeDB(t, "SQLite format 3\x00payload")

	key, err := u.Upload(context.Background(), dbPath)
	require.NoError(t, err)
	assert.Equal(t, "games/demo/20260301T113005Z.db", key, "timestamp is UTC")

	rt.mu.Lock()
	defer rt.mu.Unlock()
	assert.Equal(t, "/backups/"+key, rt.path)
	assert.Equal(t, ContentType, rt.contentType)
	assert.True(t, strings.Contains(string(rt.body), "payload"))
}

func TestUploadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		u := newTestUploader(t, &recordingTransport{}, "")
		_, err := u.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.db"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("server rejects", func(t *testing.T) {
		u := newTestUploader(t, &recordingTransport{status: http.StatusForbidden}, "")
		_, err := u.Upload(context.Background(), writeDB(t, "x"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "s3://backups/")
	})
}

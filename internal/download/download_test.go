package download

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"dexsource/internal/domain"
	"dexsource/internal/files"
	"dexsource/internal/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 20, 40))))
	return buf.Bytes()
}

func zipNames(t *testing.T, path string) []string {
	t.Helper()

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

func newDownloader(t *testing.T) *Downloader {
	t.Helper()

	limiter, err := ratelimit.New(10, time.Millisecond)
	require.NoError(t, err)

	return New("dexsource-test", limiter, WithRetry(3, 10*time.Millisecond))
}

func TestDownloader_Chapter(t *testing.T) {
	img := pngBytes(t)

	var userAgents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgents = append(userAgents, r.UserAgent())
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(img)
	}))
	defer srv.Close()

	pages := []domain.Page{
		{Index: 0, URL: srv.URL + "/a.png"},
		{Index: 1, URL: srv.URL + "/b.png"},
		{Index: 2, Data: img},
	}

	out := filepath.Join(t.TempDir(), "Enigma", "Ch. 001.cbz")
	require.NoError(t, newDownloader(t).Chapter(context.Background(), out, pages, files.FormatAuto, domain.ReadingModeRightToLeft))

	assert.Equal(t, []string{"001.png", "002.png", "003.png"}, zipNames(t, out))
	assert.Equal(t, []string{"dexsource-test", "dexsource-test"}, userAgents)
}

func TestDownloader_RetriesRetryableStatus(t *testing.T) {
	img := pngBytes(t)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png; charset=binary")
		_, _ = w.Write(img)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "Ch. 001.cbz")
	pages := []domain.Page{{Index: 0, URL: srv.URL}}

	require.NoError(t, newDownloader(t).Chapter(context.Background(), out, pages, files.FormatCBZ, domain.ReadingModeRightToLeft))
	assert.Equal(t, int32(2), calls.Load())
}

func TestDownloader_DoesNotRetryForbidden(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "Ch. 001.cbz")
	pages := []domain.Page{{Index: 0, URL: srv.URL}}

	err := newDownloader(t).Chapter(context.Background(), out, pages, files.FormatCBZ, domain.ReadingModeRightToLeft)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDownloader_NoPages(t *testing.T) {
	err := newDownloader(t).Chapter(context.Background(), filepath.Join(t.TempDir(), "x.cbz"), nil, files.FormatCBZ, domain.ReadingModeRightToLeft)
	assert.Error(t, err)
}

func TestAppendImageExtension(t *testing.T) {
	tests := map[string]string{
		"image/jpeg":               "001.jpg",
		"image/png":                "001.png",
		"image/webp":               "001.webp",
		"image/gif":                "001.gif",
		"Image/PNG; charset=UTF-8": "001.png",
	}

	for contentType, want := range tests {
		got, err := appendImageExtension(contentType, "001")
		require.NoError(t, err, contentType)
		assert.Equal(t, want, got)
	}

	_, err := appendImageExtension("text/html", "001")
	assert.Error(t, err)
}

package download

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dexsource/internal/domain"
	"dexsource/internal/files"
	"dexsource/internal/ratelimit"
	"dexsource/internal/sharedhttp"

	"github.com/avast/retry-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Downloader fetches chapter images one after another and packs them into an archive.
type Downloader struct {
	client    *http.Client
	limiter   *ratelimit.Limiter
	userAgent string
	log       zerolog.Logger

	attempts uint
	delay    time.Duration
}

type Option func(*Downloader)

func WithLogger(log zerolog.Logger) Option {
	return func(d *Downloader) {
		d.log = log
	}
}

func WithRetry(attempts uint, delay time.Duration) Option {
	return func(d *Downloader) {
		d.attempts = attempts
		d.delay = delay
	}
}

func WithClient(client *http.Client) Option {
	return func(d *Downloader) {
		d.client = client
	}
}

func New(userAgent string, limiter *ratelimit.Limiter, opts ...Option) *Downloader {
	d := &Downloader{
		client:    sharedhttp.NewClient(60 * time.Second),
		limiter:   limiter,
		userAgent: userAgent,
		log:       zerolog.Nop(),
		attempts:  3,
		delay:     3 * time.Second,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Chapter downloads the pages of a chapter and packs them into contentPath.
func (d *Downloader) Chapter(ctx context.Context, contentPath string, pages []domain.Page, format files.Format, mode domain.ReadingMode) error {
	if len(pages) == 0 {
		return errors.New("chapter has no pages")
	}

	temp, err := os.MkdirTemp("", "dexsource-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(temp)

	for _, page := range pages {
		filenameNoExt := filepath.Join(temp, fmt.Sprintf("%03d", page.Index+1))

		if len(page.Data) > 0 {
			if err := writeData(page.Data, filenameNoExt); err != nil {
				return errors.Wrapf(err, "could not store page %d", page.Index+1)
			}
			continue
		}

		if err := d.singleFile(ctx, page.URL, filenameNoExt); err != nil {
			return errors.Wrapf(err, "could not download page %d", page.Index+1)
		}
	}

	return files.Archive(temp, contentPath, format, mode)
}

// singleFile downloads a single file
func (d *Downloader) singleFile(ctx context.Context, url, filenameNoExt string) error {
	return retry.Do(func() error {
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("User-Agent", d.userAgent)

		resp, err := sharedhttp.ExecRequest(d.client, req)
		if err != nil {
			return fmt.Errorf("failed to get image: %w", err)
		}
		defer resp.Body.Close()

		filename, err := appendImageExtension(resp.Header.Get("Content-Type"), filenameNoExt)
		if err != nil {
			return err
		}

		out, err := os.Create(filename)
		if err != nil {
			return err
		}
		defer out.Close()

		readBuf := bufio.NewReader(resp.Body)
		writeBuf := bufio.NewWriter(out)

		if _, err := io.Copy(writeBuf, readBuf); err != nil {
			return err
		}

		return writeBuf.Flush()
	},
		retry.Context(ctx),
		retry.RetryIf(sharedhttp.IsRetryable),
		retry.Delay(d.delay),
		retry.Attempts(d.attempts),
		retry.MaxJitter(d.delay/3+time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			d.log.Debug().Err(err).Str("url", url).Uint("attempt", n+1).Msg("retrying image download")
		}),
	)
}

// writeData stores page bytes that came with the page list.
func writeData(data []byte, filenameNoExt string) error {
	filename, err := appendImageExtension(http.DetectContentType(data), filenameNoExt)
	if err != nil {
		return err
	}

	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, bytes.NewReader(data))
	return err
}

func appendImageExtension(contentType, filename string) (string, error) {
	mediaType, _, _ := strings.Cut(contentType, ";")

	switch strings.TrimSpace(strings.ToLower(mediaType)) {
	case "image/jpeg", "image/jpg":
		return filename + ".jpg", nil
	case "image/png":
		return filename + ".png", nil
	case "image/gif":
		return filename + ".gif", nil
	case "image/webp":
		return filename + ".webp", nil
	default:
		return filename, fmt.Errorf("unsupported content type: %s", contentType)
	}
}

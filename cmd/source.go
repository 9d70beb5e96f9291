package cmd

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"dexsource/internal/buildinfo"
	"dexsource/internal/config"
	"dexsource/internal/domain"
	"dexsource/internal/download"
	"dexsource/internal/files"
	"dexsource/internal/logger"
	"dexsource/internal/mangadex"
	"dexsource/internal/ratelimit"
	"dexsource/internal/sanitize"
	"dexsource/internal/sharedhttp"
	"dexsource/internal/templater"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// setup reads the config and creates the logger used by a command.
func setup() (*config.AppConfig, logger.Logger) {
	cfg := config.New(configPath, buildinfo.Version)
	log := logger.New(cfg.Config)

	return cfg, log
}

func newSource(cfg *config.AppConfig, log logger.Logger) (domain.Source, error) {
	sourceLog := zerolog.Nop()
	if verbose {
		sourceLog = log.With().Str("source", "MangaDex").Logger()
	}

	burst, period := cfg.RateLimit()

	s := mangadex.New(
		sharedhttp.NewRequester(),
		cfg,
		mangadex.WithLogger(sourceLog),
		mangadex.WithRateLimit(burst, period),
	)

	if err := s.Initialize(); err != nil {
		return nil, errors.Wrapf(err, "could not initialize %s", s)
	}

	return s, nil
}

// newDownloader returns a downloader with its own request budget, so image
// fetches don't eat into the API limit.
func newDownloader(cfg *config.AppConfig, log logger.Logger) (*download.Downloader, error) {
	burst, period := cfg.RateLimit()

	limiter, err := ratelimit.New(burst, period)
	if err != nil {
		return nil, err
	}

	return download.New(
		buildinfo.UserAgent(),
		limiter,
		download.WithLogger(log.With().Str("module", "download").Logger()),
	), nil
}

func validateID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrapf(err, "invalid %s id %q", kind, id)
	}
	return nil
}

var retryDelay = 2 * time.Second

// isRetryable reports whether a failed source call may succeed when repeated.
// Decode and schema errors never go away by asking again.
func isRetryable(err error) bool {
	return errors.Is(err, domain.ErrTransport) && sharedhttp.IsRetryable(err)
}

// withRetry repeats fn for transient transport failures.
func withRetry[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var out T

	err := retry.Do(func() error {
		var err error
		out, err = fn()
		return err
	},
		retry.Context(ctx),
		retry.RetryIf(isRetryable),
		retry.Attempts(3),
		retry.Delay(retryDelay),
		retry.MaxJitter(retryDelay/2+time.Millisecond),
		retry.LastErrorOnly(true),
	)

	return out, err
}

type chapterJob struct {
	manga     domain.Manga
	chapter   domain.Chapter
	directory string
	naming    string
	format    files.Format
}

// contentPath returns the chapter name and the archive it is stored in.
func (j chapterJob) contentPath() (string, string) {
	templatedName := templater.New(j.manga, j.chapter).ExecTemplate(j.naming)
	ext := j.format.Resolve(j.manga.ReadingMode).Ext()

	return templatedName, filepath.Join(j.directory, sanitize.Filename(j.manga.Title), sanitize.Filename(templatedName)+ext)
}

// downloadChapter fetches the page list of a chapter and downloads it unless
// the archive already exists.
func downloadChapter(ctx context.Context, s domain.Source, dl *download.Downloader, job chapterJob) (name string, skipped bool, err error) {
	name, contentPath := job.contentPath()

	if _, err := os.Stat(contentPath); err == nil {
		return name, true, nil
	}

	pages, err := withRetry(ctx, func() ([]domain.Page, error) {
		return s.GetPageList(ctx, job.manga.ID, job.chapter.ID)
	})
	if err != nil {
		return name, false, errors.Wrap(err, "could not get page list")
	}

	if err := dl.Chapter(ctx, contentPath, pages, job.format, job.manga.ReadingMode); err != nil {
		return name, false, err
	}

	return name, false, nil
}

// cachedDetails returns the manga details from c when present and fetches and
// stores them otherwise. Failures are not cached.
func cachedDetails(ctx context.Context, c *cache.Cache, s domain.Source, mangaID string) (domain.Manga, error) {
	if m, ok := c.Get(mangaID); ok {
		if manga, ok := m.(domain.Manga); ok {
			return manga, nil
		}
	}

	manga, err := withRetry(ctx, func() (domain.Manga, error) {
		return s.GetMangaDetails(ctx, mangaID)
	})
	if err != nil {
		return domain.Manga{}, err
	}

	c.SetDefault(mangaID, manga)

	return manga, nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"dexsource/internal/config"
	"dexsource/internal/domain"
	"dexsource/internal/download"
	"dexsource/internal/files"
	"dexsource/internal/logger"
	"dexsource/internal/parse"

	"github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"
)

// how long monitor reuses fetched manga details
const detailsTTL = 6 * time.Hour

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Monitor the configured manga for new chapters",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// read config
		cfg, log := setup()

		if err := cfg.UpdateConfig(); err != nil {
			log.Error().Err(err).Msgf("error updating config")
		}

		// init dynamic config
		cfg.DynamicReload(log)

		if err := files.IsValidLocation(cfg.Config.DownloadLocation); err != nil {
			log.Fatal().Err(err).Msgf("invalid download location, please provide a valid path to the directory you want your downloads to go to")
		}

		s, err := newSource(cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("error creating source")
		}

		dl, err := newDownloader(cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("error creating downloader")
		}

		names := make([]string, 0, len(cfg.Config.MonitoredManga))
		for name, monitoredManga := range cfg.Config.MonitoredManga {
			if monitoredManga == nil {
				continue
			}
			if err := validateID("manga", monitoredManga.Manga); err != nil {
				log.Error().Err(err).Msgf("skipping monitored manga %s", name)
				continue
			}
			names = append(names, name)
		}
		sort.Strings(names)

		interval := time.Duration(max(cfg.Config.CheckInterval, 1)) * time.Minute

		log.Info().Int("manga", len(names)).Dur("interval", interval).Msg("starting to monitor configured manga")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		details := cache.New(detailsTTL, time.Hour)
		done := make(chan struct{})

		go func() {
			defer close(done)

			for {
				for _, name := range names {
					if ctx.Err() != nil {
						return
					}
					checkManga(ctx, cfg, log, s, dl, details, name, cfg.Config.MonitoredManga[name])
				}

				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}
		}()

		// set up a channel to catch signals for graceful shutdown
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

		fmt.Printf("received signal: %s, stopping monitoring.\n", <-sigCh)
		cancel()
		<-done
	},
}

// checkManga downloads the latest chapter of a monitored manga if it is missing.
func checkManga(ctx context.Context, cfg *config.AppConfig, log logger.Logger, s domain.Source, dl *download.Downloader, details *cache.Cache, name string, monitoredManga *domain.MonitoredManga) {
	mLog := log.With().Str("entry", name).Str("source", s.String()).Logger()

	selectedManga, err := cachedDetails(ctx, details, s, monitoredManga.Manga)
	if err != nil {
		mLog.Error().Err(err).Msg("error getting manga")
		return
	}
	mLog = mLog.With().Str("manga", selectedManga.Title).Logger()

	chapters, err := withRetry(ctx, func() ([]domain.Chapter, error) {
		return s.GetChapterList(ctx, monitoredManga.Manga)
	})
	if err != nil {
		mLog.Error().Err(err).Msg("error getting manga chapters")
		return
	}

	_, latestChapter, err := parse.FirstAndLatest(chapters)
	if err != nil {
		mLog.Error().Err(err).Msg("error finding latest chapter")
		return
	}

	chapterName, skipped, err := downloadChapter(ctx, s, dl, chapterJob{
		manga:     selectedManga,
		chapter:   latestChapter,
		directory: cfg.Config.DownloadLocation,
		naming:    cfg.Config.NamingTemplate,
		format:    files.FormatAuto,
	})
	switch {
	case err != nil:
		mLog.Error().Err(err).Msgf("error downloading chapter %q", chapterName)
	case skipped:
		mLog.Debug().Msgf("chapter has already been downloaded, skipping %q", chapterName)
	default:
		mLog.Info().Msgf("finished downloading %q", chapterName)
	}
}

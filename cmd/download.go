package cmd

import (
	"fmt"
	"os"

	"dexsource/internal/domain"
	"dexsource/internal/files"
	"dexsource/internal/parse"

	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download chapters of a manga",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		if !cmd.Flags().Changed("first") && !cmd.Flags().Changed("chapters") {
			latest = true
		}

		if err := files.IsValidLocation(downloadDirectory); err != nil {
			fmt.Println("Invalid location:", err)
			os.Exit(1)
		}

		if err := validateID("manga", manga); err != nil {
			fmt.Println("Invalid input:", err)
			os.Exit(1)
		}

		archiveFormat, err := files.ParseFormat(format)
		if err != nil {
			fmt.Println("Invalid input:", err)
			os.Exit(1)
		}

		cfg, log := setup()

		s, err := newSource(cfg, log)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		dl, err := newDownloader(cfg, log)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		selectedManga, err := withRetry(ctx, func() (domain.Manga, error) {
			return s.GetMangaDetails(ctx, manga)
		})
		if err != nil {
			fmt.Printf("Failed to get manga from %s: %v\n", s, err)
			os.Exit(1)
		}

		chapters, err := withRetry(ctx, func() ([]domain.Chapter, error) {
			return s.GetChapterList(ctx, manga)
		})
		if err != nil {
			fmt.Printf("Failed to get chapters for %q: %v\n", selectedManga.Title, err)
			os.Exit(1)
		}

		chapters = parse.ByGroup(chapters, group)

		var selectedChapters []domain.Chapter

		switch {
		case first || latest:
			firstChapter, latestChapter, err := parse.FirstAndLatest(chapters)
			if err != nil {
				fmt.Printf("Failed to find a numbered chapter for %q: %v\n", selectedManga.Title, err)
				os.Exit(1)
			}

			if first {
				selectedChapters = []domain.Chapter{firstChapter}
			} else {
				selectedChapters = []domain.Chapter{latestChapter}
			}
		default:
			selectedChapters, err = parse.ChapterSelection(chapterNumbers, chapters)
			if err != nil {
				fmt.Printf("Failed to parse chapter selection for %q: %v\n", selectedManga.Title, err)
				os.Exit(1)
			}
		}

		if len(selectedChapters) == 0 {
			fmt.Printf("Failed to find matching chapters in range %s for %q\n", chapterNumbers, selectedManga.Title)
			os.Exit(1)
		}

		failed := 0

		for _, selectedChapter := range selectedChapters {
			job := chapterJob{
				manga:     selectedManga,
				chapter:   selectedChapter,
				directory: downloadDirectory,
				naming:    naming,
				format:    archiveFormat,
			}

			name, _ := job.contentPath()
			fmt.Printf("Downloading %q...\n", name)

			_, skipped, err := downloadChapter(ctx, s, dl, job)
			switch {
			case err != nil:
				fmt.Printf("Failed to download chapter %q: %v\n", name, err)
				failed++
			case skipped:
				fmt.Printf("Chapter has already been downloaded, skipping %q\n", name)
			default:
				fmt.Printf("Finished downloading %q\n", name)
			}
		}

		if failed > 0 {
			os.Exit(1)
		}
	},
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"dexsource/internal/domain"

	"github.com/spf13/cobra"
)

var detailsCmd = &cobra.Command{
	Use:   "details",
	Short: "Show the details of a manga",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		if err := validateID("manga", manga); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		cfg, log := setup()

		s, err := newSource(cfg, log)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		m, err := withRetry(ctx, func() (domain.Manga, error) {
			return s.GetMangaDetails(ctx, manga)
		})
		if err != nil {
			fmt.Printf("Failed to get manga from %s: %v\n", s, err)
			os.Exit(1)
		}

		fmt.Println("Title:", m.Title)
		fmt.Println("URL:", m.URL)
		fmt.Println("Author:", m.AuthorName)
		fmt.Println("Artist:", m.ArtistName)
		fmt.Println("Status:", m.Status)
		fmt.Println("Content rating:", m.ContentRating)
		fmt.Println("Reading mode:", m.ReadingMode)
		fmt.Println("Tags:", strings.Join(m.Categories, ", "))
		fmt.Println("Cover:", m.CoverURL)
		fmt.Println()
		fmt.Println(m.Description)
	},
}

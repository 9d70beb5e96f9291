package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dexsource/internal/domain"
	"dexsource/internal/utils"

	"github.com/spf13/cobra"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "List the chapters of a manga",
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

		chapters, err := withRetry(ctx, func() ([]domain.Chapter, error) {
			return s.GetChapterList(ctx, manga)
		})
		if err != nil {
			fmt.Printf("Failed to get chapters from %s: %v\n", s, err)
			os.Exit(1)
		}

		if len(chapters) == 0 {
			fmt.Println("No chapters found")
			return
		}

		for _, c := range chapters {
			fmt.Println(formatChapter(c))
		}
	},
}

func formatChapter(c domain.Chapter) string {
	var b strings.Builder

	b.WriteString(c.ID)

	if c.Volume >= 0 {
		fmt.Fprintf(&b, " Vol. %s", utils.FormatFloat(c.Volume))
	}
	if c.Chapter >= 0 {
		fmt.Fprintf(&b, " Ch. %s", utils.FormatFloat(c.Chapter))
	}
	if c.Title != "" {
		fmt.Fprintf(&b, " - %s", c.Title)
	}
	if c.Scanlator != "" {
		fmt.Fprintf(&b, " [%s]", c.Scanlator)
	}

	fmt.Fprintf(&b, " (%s, %s)", c.Language, time.Unix(c.DateUpdated, 0).UTC().Format(time.DateOnly))

	return b.String()
}

package cmd

import (
	"fmt"
	"os"

	"dexsource/internal/domain"

	"github.com/spf13/cobra"
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List the page image URLs of a chapter",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		for kind, id := range map[string]string{"manga": manga, "chapter": chapter} {
			if err := validateID(kind, id); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}

		cfg, log := setup()

		s, err := newSource(cfg, log)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		pages, err := withRetry(ctx, func() ([]domain.Page, error) {
			return s.GetPageList(ctx, manga, chapter)
		})
		if err != nil {
			fmt.Printf("Failed to get pages from %s: %v\n", s, err)
			os.Exit(1)
		}

		for _, p := range pages {
			fmt.Printf("%03d %s\n", p.Index+1, p.URL)
		}
	},
}

package cmd

import (
	"fmt"
	"os"

	"dexsource/internal/domain"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search manga on MangaDex",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		cfg, log := setup()

		s, err := newSource(cfg, log)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		var filters []domain.Filter
		if title != "" {
			filters = append(filters, domain.TitleFilter{Query: title})
		}
		if cmd.Flags().Changed("sort") || reversed {
			filters = append(filters, domain.SortFilter{OptionIndex: sortBy, Reversed: reversed})
		}

		type result struct {
			list    []domain.Manga
			hasNext bool
		}

		res, err := withRetry(ctx, func() (result, error) {
			list, hasNext, err := s.GetMangaList(ctx, filters, page)
			return result{list: list, hasNext: hasNext}, err
		})
		if err != nil {
			fmt.Printf("Failed to search %s: %v\n", s, err)
			os.Exit(1)
		}

		if len(res.list) == 0 {
			fmt.Println("No manga found")
			return
		}

		for _, m := range res.list {
			fmt.Printf("%s  %s [%s, %s]\n", m.ID, m.Title, m.Status, m.ContentRating)
		}

		if res.hasNext {
			fmt.Printf("\nMore results available with --page %d\n", page+1)
		}
	},
}

package cmd

import "github.com/spf13/cobra"

const defaultNaming = "{manga:<.>}{vol: Vol. <.>} Ch. {num:3}{title: - <.>}"

var (
	configPath string
	verbose    bool

	title    string
	sortBy   int
	reversed bool
	page     int

	manga   string
	chapter string

	naming            string
	downloadDirectory string
	format            string
	group             string
	chapterNumbers    string
	first             bool
	latest            bool
)

func initRootFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"specifies the path to your config file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"log every request sent to MangaDex",
	)
}

func initSearchFlags() {
	searchCmd.Flags().StringVarP(
		&title,
		"title",
		"t",
		"",
		"only list manga whose title matches",
	)
	searchCmd.Flags().IntVarP(
		&sortBy,
		"sort",
		"s",
		0,
		"sort option: 0 latest upload, 1 relevance, 2 follows, 3 created, 4 updated, 5 title",
	)
	searchCmd.Flags().BoolVarP(
		&reversed,
		"reversed",
		"r",
		false,
		"reverse the sort order",
	)
	searchCmd.Flags().IntVarP(
		&page,
		"page",
		"p",
		0,
		"zero based result page",
	)
}

func initLookupFlags() {
	for _, cmd := range []*cobra.Command{detailsCmd, chaptersCmd, pagesCmd} {
		cmd.Flags().StringVarP(
			&manga,
			"manga",
			"m",
			"",
			"specifies the id of the manga",
		)
		_ = cmd.MarkFlagRequired("manga")
	}

	pagesCmd.Flags().StringVarP(
		&chapter,
		"chapter",
		"C",
		"",
		"specifies the id of the chapter",
	)
	_ = pagesCmd.MarkFlagRequired("chapter")
}

func initDownloadFlags() {
	downloadCmd.Flags().StringVarP(
		&downloadDirectory,
		"downloadDirectory",
		"d",
		"",
		"specifies the directory where you want to save your downloads to",
	)
	downloadCmd.Flags().StringVarP(
		&naming,
		"naming",
		"n",
		defaultNaming,
		"specifies the naming template you want to use for naming chapters",
	)
	downloadCmd.Flags().StringVarP(
		&format,
		"format",
		"f",
		"",
		"archive format: cbz or pdf. default: pdf for long strip manga, cbz otherwise",
	)

	downloadCmd.Flags().StringVarP(
		&manga,
		"manga",
		"m",
		"",
		"specifies the id of the manga you want to download",
	)

	downloadCmd.Flags().StringVarP(
		&group,
		"group",
		"g",
		"",
		"only download chapters from scanlation groups matching this name",
	)

	downloadCmd.Flags().StringVarP(
		&chapterNumbers,
		"chapters",
		"C",
		"",
		"specifies the chapter numbers you want to download, e.g. 1,3,5-7",
	)
	downloadCmd.Flags().BoolVarP(
		&first,
		"first",
		"1",
		false,
		"download the first chapter",
	)
	downloadCmd.Flags().BoolVarP(
		&latest,
		"latest",
		"L",
		false,
		"download the latest chapter",
	)

	downloadCmd.MarkFlagsMutuallyExclusive("first", "chapters")
	downloadCmd.MarkFlagsMutuallyExclusive("latest", "chapters")
	downloadCmd.MarkFlagsMutuallyExclusive("first", "latest")

	_ = downloadCmd.MarkFlagRequired("downloadDirectory")
	_ = downloadCmd.MarkFlagRequired("manga")
}

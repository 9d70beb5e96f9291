package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dexsource",
	Short: "Browse, download and monitor manga from MangaDex.",
	Long: `Browse, download and monitor manga from MangaDex.

Provide a configuration file using one of the following methods:
1. Use the --config <path> or -c <path> flag.
2. Place a config.yaml file in the default user configuration directory (e.g., ~/.config/dexsource/).
3. Place a config.yaml file a folder inside your home directory (e.g., ~/.dexsource/).
4. Place a config.yaml file in the directory of the binary.`,
	SilenceUsage: true,
}

func init() {
	initRootFlags()
	initSearchFlags()
	initLookupFlags()
	initDownloadFlags()

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(detailsCmd)
	rootCmd.AddCommand(chaptersCmd)
	rootCmd.AddCommand(pagesCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(monitorCmd)
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

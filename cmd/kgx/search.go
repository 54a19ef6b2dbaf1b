package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultListLimit, "Maximum results")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over titles, subjects, and node labels",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()

	db := mustOpenIndex(root)
	defer db.Close()

	if err := syncIndex(root, db); err != nil {
		exitWithError(ExitDataError, "syncing index: %v", err)
	}

	results, err := db.Search(strings.Join(args, " "), searchLimit)
	if err != nil {
		exitWithError(ExitDataError, "search failed: %v", err)
	}

	if humanOutput {
		for _, r := range results {
			title := r.Title
			if title == "" {
				title = r.Subject
			}
			outputHuman("%-36s  %s (%d nodes)\n", r.ID, truncate(title, ListTitleMaxLen), r.NodeCount)
		}
		return nil
	}
	return outputJSON(results)
}

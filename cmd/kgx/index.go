package main

import (
	"github.com/knotted/kgx/internal/config"
	"github.com/knotted/kgx/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	indexCmd.AddCommand(indexRebuildCmd, indexStatusCmd)
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the SQLite search index",
	Long: `Manage the SQLite search index.

The index is a derived cache under .kgx/cache/ keyed on the content hash
of graphs.jsonl. It rebuilds automatically when stale; these commands
force a rebuild or report its state.`,
}

// IndexStatus reports index freshness.
type IndexStatus struct {
	Graphs   int    `json:"graphs"`
	Stale    bool   `json:"stale"`
	LastSync string `json:"lastSync,omitempty"`
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the index from graphs.jsonl",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := mustFindWorkspace()

		db := mustOpenIndex(root)
		defer db.Close()

		hash, err := storage.ComputeFileHash(config.GraphsPath(root))
		if err != nil {
			exitWithError(ExitDataError, "hashing graphs file: %v", err)
		}
		graphs, err := storage.ReadGraphs(config.GraphsPath(root))
		if err != nil {
			exitWithError(ExitDataError, "reading graphs: %v", err)
		}
		n, err := db.Rebuild(graphs, hash)
		if err != nil {
			exitWithError(ExitDataError, "rebuilding index: %v", err)
		}

		if humanOutput {
			outputHuman("Indexed %d graphs\n", n)
			return nil
		}
		return outputJSON(map[string]int{"indexed": n})
	},
}

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index freshness",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := mustFindWorkspace()

		db := mustOpenIndex(root)
		defer db.Close()

		hash, err := storage.ComputeFileHash(config.GraphsPath(root))
		if err != nil {
			exitWithError(ExitDataError, "hashing graphs file: %v", err)
		}
		stale, err := db.NeedsSync(hash)
		if err != nil {
			exitWithError(ExitDataError, "checking index: %v", err)
		}
		count, err := db.Count()
		if err != nil {
			exitWithError(ExitDataError, "counting index: %v", err)
		}

		status := IndexStatus{Graphs: count, Stale: stale}
		if t, err := db.LastSyncTime(); err == nil && !t.IsZero() {
			status.LastSync = t.Format("2006-01-02T15:04:05Z07:00")
		}

		if humanOutput {
			state := "fresh"
			if status.Stale {
				state = "stale"
			}
			outputHuman("%d graphs indexed (%s)\n", status.Graphs, state)
			if status.LastSync != "" {
				outputHuman("last sync: %s\n", status.LastSync)
			}
			return nil
		}
		return outputJSON(status)
	},
}

// Package main provides the kgx CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/knotted/kgx/internal/collection"
	"github.com/knotted/kgx/internal/config"
	"github.com/knotted/kgx/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kgx",
	Short: "Knowledge-graph explorer CLI",
	Long: `kgx explores a forest of AI-generated knowledge graphs.

Core features:
  - Stream graph generation from a remote service, node by node
  - Expand any node into a linked child graph
  - Navigate, search, export, import, and visualize stored graphs

Data is stored in git-versionable JSONL with an ephemeral SQLite index
for search. All commands output JSON by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustFindWorkspace finds and validates the workspace, exits on error.
// Returns the workspace root path.
func mustFindWorkspace() string {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	root, err := config.FindWorkspace(cwd)
	if err != nil {
		exitWithError(ExitWorkspaceError, "%v\n\nRun 'kgx init' to create a workspace.", err)
	}
	return root
}

// mustLoadCollection loads the graph collection, exits on error.
func mustLoadCollection(root string) *collection.Collection {
	c, err := collection.Load(root)
	if err != nil {
		exitWithError(ExitDataError, "loading collection: %v", err)
	}
	return c
}

// mustOpenIndex opens the SQLite search index, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenIndex(root string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.IndexPath(root))
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}
	return db
}

// syncIndex rebuilds the index if the graphs file changed since last sync.
func syncIndex(root string, db *storage.DB) error {
	hash, err := storage.ComputeFileHash(config.GraphsPath(root))
	if err != nil {
		return err
	}
	stale, err := db.NeedsSync(hash)
	if err != nil || stale {
		graphs, rerr := storage.ReadGraphs(config.GraphsPath(root))
		if rerr != nil {
			return rerr
		}
		if _, err := db.Rebuild(graphs, hash); err != nil {
			return err
		}
	}
	return nil
}

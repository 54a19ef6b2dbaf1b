package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/knotted/kgx/internal/config"
	"github.com/knotted/kgx/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the search index in sync while graphs.jsonl changes",
	Long: `Keep the search index in sync while graphs.jsonl changes.

Watches the graphs file and rebuilds the index on every write, so
external edits (git pulls, hand edits) are picked up immediately.
Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()

	db := mustOpenIndex(root)
	defer db.Close()

	if err := syncIndex(root, db); err != nil {
		exitWithError(ExitDataError, "syncing index: %v", err)
	}

	// Serialize resyncs; fsnotify can fire several events per save.
	kicks := make(chan struct{}, 1)
	stop, err := storage.Watch(config.GraphsPath(root), func() {
		select {
		case kicks <- struct{}{}:
		default:
		}
	})
	if err != nil {
		exitWithError(ExitError, "starting watcher: %v", err)
	}
	defer stop()

	fmt.Fprintf(os.Stderr, "watching %s\n", config.GraphsPath(root))

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-kicks:
			if err := syncIndex(root, db); err != nil {
				fmt.Fprintf(os.Stderr, "warning: resync failed: %v\n", err)
				continue
			}
			count, err := db.Count()
			if err != nil {
				continue
			}
			fmt.Fprintf(os.Stderr, "resynced: %d graphs indexed\n", count)
		case <-sigs:
			return nil
		}
	}
}

package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(restoreCmd)
}

var removeCmd = &cobra.Command{
	Use:   "remove <graph-id>",
	Short: "Hide a graph and unlink it from its relatives",
	Long: `Hide a graph and unlink it from its relatives.

Removal is a soft delete: the graph record is kept, its id joins the
hidden set, and parent/child references to it are cleared. 'kgx restore'
makes it visible again.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

// RemoveResult reports a removal.
type RemoveResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Removed bool   `json:"removed"`
}

func runRemove(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	col := mustLoadCollection(root)

	title, err := col.Remove(args[0])
	if err != nil {
		return err
	}

	if humanOutput {
		outputHuman("Removed %q\n", title)
		return nil
	}
	return outputJSON(RemoveResult{ID: args[0], Title: title, Removed: true})
}

var restoreCmd = &cobra.Command{
	Use:   "restore <graph-id>",
	Short: "Make a hidden graph visible again",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	col := mustLoadCollection(root)

	if err := col.Restore(args[0]); err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	g := col.FindByID(args[0])
	if humanOutput {
		outputHuman("Restored %q\n", g.DisplayTitle())
		return nil
	}
	return outputGraphResult(g, col.CurrentIndex())
}

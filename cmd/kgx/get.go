package main

import (
	"strconv"

	"github.com/knotted/kgx/internal/collection"
	"github.com/knotted/kgx/internal/graph"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get [graph-id|index]",
	Short: "Show a stored graph in full",
	Long: `Show a stored graph in full.

With no argument, shows the current graph. Accepts a graph id or a
visible-list index.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	col := mustLoadCollection(root)

	var g *graph.Graph
	if len(args) == 0 {
		g = col.Current()
		if g == nil {
			exitWithError(ExitDataError, "no graphs in workspace")
		}
	} else {
		g = resolveGraph(col, args[0])
		if g == nil {
			exitWithError(ExitDataError, "graph %q not found", args[0])
		}
	}

	if humanOutput {
		outputHuman("%s [%s]\nsubject: %s  model: %s\n", g.DisplayTitle(), g.ID, g.Subject, g.Model)
		if g.ParentGraphID != "" {
			outputHuman("parent: %s (node %d, %q)\n", g.ParentGraphID, g.ParentNodeID, g.SourceNodeLabel)
		}
		for _, n := range g.Data.Nodes {
			outputHuman("  node %d: %s\n", n.ID, n.Label)
		}
		for _, e := range g.Data.Edges {
			outputHuman("  edge %d -> %d: %s\n", e.Source, e.Target, e.Label)
		}
		return nil
	}
	return outputJSON(g)
}

// resolveGraph resolves an argument to a stored graph: first as an id over
// the full collection, then as a visible-list index.
func resolveGraph(col *collection.Collection, arg string) *graph.Graph {
	if g := col.FindByID(arg); g != nil {
		return g
	}
	if idx, err := strconv.Atoi(arg); err == nil {
		visible := col.Visible()
		if idx >= 0 && idx < len(visible) {
			return visible[idx]
		}
	}
	return nil
}

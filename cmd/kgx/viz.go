package main

import (
	"os"

	"github.com/knotted/kgx/internal/viz"
	"github.com/spf13/cobra"
)

var (
	vizLayout string
	vizOut    string
)

func init() {
	vizCmd.Flags().StringVar(&vizLayout, "layout", "force", "Layout algorithm: force, circle, or grid")
	vizCmd.Flags().StringVarP(&vizOut, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(vizCmd)
}

var vizCmd = &cobra.Command{
	Use:   "viz [graph-id|index]",
	Short: "Render a graph as a standalone HTML page",
	Long: `Render a graph as a standalone HTML page.

The page embeds the graph data and draws it with Cytoscape.js. With no
argument, renders the current graph. A captured layout seed keeps node
placement stable across renders of the same graph.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runViz,
}

func runViz(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	col := mustLoadCollection(root)

	g := resolveExportTarget(col, args)

	html, err := viz.GenerateHTML(viz.BuildGraphData(g), viz.HTMLOptions{Layout: vizLayout})
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if vizOut != "" {
		if err := os.WriteFile(vizOut, []byte(html), 0644); err != nil {
			exitWithError(ExitError, "writing %s: %v", vizOut, err)
		}
		if humanOutput {
			outputHuman("Wrote visualization for %q to %s\n", g.DisplayTitle(), vizOut)
			return nil
		}
		return outputJSON(map[string]string{"id": g.ID, "file": vizOut})
	}

	os.Stdout.WriteString(html)
	return nil
}

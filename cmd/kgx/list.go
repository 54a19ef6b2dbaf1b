package main

import (
	"github.com/knotted/kgx/internal/graph"
	"github.com/spf13/cobra"
)

var listAll bool

func init() {
	listCmd.Flags().BoolVar(&listAll, "all", false, "Include hidden graphs")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored graphs",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

// ListEntry is one row of list output.
type ListEntry struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	Nodes     int    `json:"nodes"`
	Edges     int    `json:"edges"`
	CreatedAt int64  `json:"createdAt"`
	Parent    string `json:"parentGraphId,omitempty"`
	Children  int    `json:"children,omitempty"`
	Current   bool   `json:"current,omitempty"`
	Hidden    bool   `json:"hidden,omitempty"`
}

// ListResult is the list command output.
type ListResult struct {
	Total   int         `json:"total"`
	Current int         `json:"currentIndex"`
	Graphs  []ListEntry `json:"graphs"`
}

func runList(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	col := mustLoadCollection(root)

	hidden := make(map[string]bool)
	for _, id := range col.HiddenIDs() {
		hidden[id] = true
	}

	var entries []ListEntry
	for i, g := range col.Visible() {
		entries = append(entries, listEntry(g, i, i == col.CurrentIndex(), false))
	}
	if listAll {
		for _, g := range col.All() {
			if hidden[g.ID] {
				entries = append(entries, listEntry(g, -1, false, true))
			}
		}
	}

	if humanOutput {
		for _, e := range entries {
			marker := " "
			if e.Current {
				marker = "*"
			}
			if e.Hidden {
				marker = "x"
			}
			outputHuman("%s %3d  %-36s  %s (%d nodes, %d edges)\n",
				marker, e.Index, e.ID, truncate(e.Title, ListTitleMaxLen), e.Nodes, e.Edges)
		}
		return nil
	}

	return outputJSON(ListResult{
		Total:   len(entries),
		Current: col.CurrentIndex(),
		Graphs:  entries,
	})
}

func listEntry(g *graph.Graph, index int, current, hidden bool) ListEntry {
	return ListEntry{
		Index:     index,
		ID:        g.ID,
		Title:     g.DisplayTitle(),
		Subject:   g.Subject,
		Nodes:     len(g.Data.Nodes),
		Edges:     len(g.Data.Edges),
		CreatedAt: g.CreatedAt,
		Parent:    g.ParentGraphID,
		Children:  len(g.ChildGraphIDs),
		Current:   current,
		Hidden:    hidden,
	}
}

package main

import (
	"github.com/knotted/kgx/internal/collection"
	"github.com/knotted/kgx/internal/config"
	"github.com/knotted/kgx/internal/graph"
	"github.com/knotted/kgx/internal/storage"
	"github.com/spf13/cobra"
)

var checkFix bool

func init() {
	checkCmd.Flags().BoolVar(&checkFix, "fix", false, "Repair broken links instead of only reporting them")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Detect and optionally repair broken relationship links",
	Long: `Detect and optionally repair broken relationship links.

A link is broken when a graph or node references a graph id that no
longer exists in the collection. Without --fix, problems are reported
and nothing is written.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// CheckResult reports a consistency check.
type CheckResult struct {
	Broken   []BrokenLink `json:"broken,omitempty"`
	Repaired bool         `json:"repaired"`
}

// BrokenLink is one dangling reference found by check.
type BrokenLink struct {
	GraphID   string `json:"graphId"`
	Field     string `json:"field"`
	MissingID string `json:"missingId"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()

	// Inspect the raw file: Load repairs links in memory, which would hide
	// exactly what this command reports.
	stored, err := storage.ReadGraphs(config.GraphsPath(root))
	if err != nil {
		exitWithError(ExitDataError, "reading graphs: %v", err)
	}
	res := CheckResult{Broken: findBrokenLinks(stored, collection.ExampleGraphs())}

	if checkFix && len(res.Broken) > 0 {
		col := mustLoadCollection(root)
		if err := col.ReplaceAll(col.All()); err != nil {
			return err
		}
		res.Repaired = true
	}

	if humanOutput {
		if len(res.Broken) == 0 {
			outputHuman("All relationship links are consistent\n")
			return nil
		}
		for _, b := range res.Broken {
			outputHuman("%s: %s references missing graph %s\n", b.GraphID, b.Field, b.MissingID)
		}
		if res.Repaired {
			outputHuman("Repaired %d broken links\n", len(res.Broken))
		} else if !checkFix {
			outputHuman("Run 'kgx check --fix' to repair\n")
		}
		return nil
	}
	return outputJSON(res)
}

// findBrokenLinks lists every reference in graphs to a graph id not present
// in graphs or builtin. The built-in examples count as present even before
// the first write persists them, matching what Load resolves against.
func findBrokenLinks(graphs, builtin []*graph.Graph) []BrokenLink {
	present := make(map[string]bool, len(graphs)+len(builtin))
	for _, g := range graphs {
		present[g.ID] = true
	}
	for _, g := range builtin {
		present[g.ID] = true
	}

	var broken []BrokenLink
	for _, g := range graphs {
		if g.ParentGraphID != "" && !present[g.ParentGraphID] {
			broken = append(broken, BrokenLink{GraphID: g.ID, Field: "parentGraphId", MissingID: g.ParentGraphID})
		}
		for _, id := range g.ChildGraphIDs {
			if !present[id] {
				broken = append(broken, BrokenLink{GraphID: g.ID, Field: "childGraphIds", MissingID: id})
			}
		}
		for _, n := range g.Data.Nodes {
			if n.ChildGraphID != "" && !present[n.ChildGraphID] {
				broken = append(broken, BrokenLink{GraphID: g.ID, Field: "node.childGraphId", MissingID: n.ChildGraphID})
			}
			if n.ParentGraphID != "" && !present[n.ParentGraphID] {
				broken = append(broken, BrokenLink{GraphID: g.ID, Field: "node.parentGraphId", MissingID: n.ParentGraphID})
			}
		}
	}
	return broken
}

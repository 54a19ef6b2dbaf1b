package main

import (
	"fmt"
	"strconv"

	"github.com/knotted/kgx/internal/graph"
	"github.com/knotted/kgx/internal/stream"
	"github.com/spf13/cobra"
)

func init() {
	expandCmd.Flags().StringVar(&generateModel, "model", "", "Generation model (default: selected model)")
	rootCmd.AddCommand(expandCmd)
}

var expandCmd = &cobra.Command{
	Use:   "expand <graph-id> <node-id>",
	Short: "Expand a node into a linked child graph",
	Long: `Expand a node into a linked child graph.

Generates a new graph for the node's label and links it to the parent:
the parent node is marked as having a child graph, and the child's root
node points back at the parent.`,
	Args: cobra.ExactArgs(2),
	RunE: runExpand,
}

func runExpand(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	col := mustLoadCollection(root)

	parent := col.FindByID(args[0])
	if parent == nil {
		exitWithError(ExitDataError, "graph %q not found", args[0])
	}

	nodeID, err := strconv.Atoi(args[1])
	if err != nil {
		exitWithError(ExitDataError, "invalid node id %q", args[1])
	}
	node := parent.FindNode(nodeID)
	if node == nil {
		exitWithError(ExitDataError, "node %d not found in graph %q", nodeID, parent.ID)
	}
	if node.HasChildGraph {
		exitWithError(ExitDataError, "node %d already has child graph %s", nodeID, node.ChildGraphID)
	}

	req := stream.Request{
		Subject:         node.Label,
		Model:           resolveModel(root, generateModel),
		ParentGraphID:   parent.ID,
		ParentNodeID:    nodeID,
		SourceNodeLabel: node.Label,
	}

	child := runGeneration(root, req)

	linked := graph.Link(parent, child, nodeID, node.Label)
	if linked.Child == child {
		// Linking is a no-op only when the parent node vanished under us.
		return fmt.Errorf("linking child graph: node %d no longer exists", nodeID)
	}

	if err := col.AddChild(linked.Parent, linked.Child); err != nil {
		return err
	}
	return outputGraphResult(linked.Child, col.CurrentIndex())
}

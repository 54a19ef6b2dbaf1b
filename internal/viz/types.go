// Package viz renders a stored knowledge graph as a standalone HTML page
// using Cytoscape.js.
package viz

import (
	"fmt"

	"github.com/knotted/kgx/internal/graph"
)

// Node type classes used for styling.
const (
	NodeTypeRoot       = "root"       // root node of a child graph
	NodeTypeExpandable = "expandable" // node with a child graph
	NodeTypePlain      = "plain"
)

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Title      string `json:"title"`
	LayoutSeed string `json:"layoutSeed,omitempty"`
	Nodes      []Node `json:"nodes"`
	Edges      []Edge `json:"edges"`
}

// Node is one rendered node.
type Node struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
	Color string `json:"color"`

	// Link context for tooltips
	ChildGraphID  string `json:"childGraphId,omitempty"`
	ParentGraphID string `json:"parentGraphId,omitempty"`
}

// Edge is one rendered edge.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
	Color  string `json:"color"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// BuildGraphData converts a stored graph to its rendered form. Node ids
// become strings since Cytoscape element ids are strings.
func BuildGraphData(g *graph.Graph) *GraphData {
	data := &GraphData{
		Title:      g.DisplayTitle(),
		LayoutSeed: g.LayoutSeed,
		Nodes:      make([]Node, 0, len(g.Data.Nodes)),
		Edges:      make([]Edge, 0, len(g.Data.Edges)),
	}

	for _, n := range g.Data.Nodes {
		data.Nodes = append(data.Nodes, Node{
			ID:            fmt.Sprintf("%d", n.ID),
			Type:          nodeType(n),
			Label:         n.Label,
			Color:         n.Color,
			ChildGraphID:  n.ChildGraphID,
			ParentGraphID: n.ParentGraphID,
		})
	}

	for _, e := range g.Data.Edges {
		data.Edges = append(data.Edges, Edge{
			Source: fmt.Sprintf("%d", e.Source),
			Target: fmt.Sprintf("%d", e.Target),
			Label:  e.Label,
			Color:  e.Color,
		})
	}

	return data
}

// nodeType classifies a node for styling.
func nodeType(n graph.Node) string {
	switch {
	case n.IsRootNode:
		return NodeTypeRoot
	case n.HasChildGraph:
		return NodeTypeExpandable
	default:
		return NodeTypePlain
	}
}

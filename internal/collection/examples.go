package collection

import "github.com/knotted/kgx/internal/graph"

// Built-in example graphs, merged into the collection at load time unless a
// graph with the same id was already persisted. The pair below demonstrates
// a parent/child link: the "Chlorophyll" node of the photosynthesis graph
// expands into its own graph.

const (
	examplePhotosynthesisID = "example-photosynthesis"
	exampleChlorophyllID    = "example-chlorophyll"
)

// ExampleGraphs returns fresh copies of the built-in examples.
func ExampleGraphs() []*graph.Graph {
	parent := &graph.Graph{
		ID:        examplePhotosynthesisID,
		Title:     "Photosynthesis",
		Subject:   "Photosynthesis",
		CreatedAt: 1700000000000,
		Model:     "example",
		IsExample: true,
		Data: graph.Data{
			Nodes: []graph.Node{
				{ID: 1, Label: "Photosynthesis", Color: "#4caf50"},
				{ID: 2, Label: "Sunlight", Color: "#ffc107"},
				{ID: 3, Label: "Chlorophyll", Color: "#2e7d32", HasChildGraph: true, ChildGraphID: exampleChlorophyllID},
				{ID: 4, Label: "Carbon Dioxide", Color: "#90a4ae"},
				{ID: 5, Label: "Glucose", Color: "#ff9800"},
				{ID: 6, Label: "Oxygen", Color: "#03a9f4"},
			},
			Edges: []graph.Edge{
				{Source: 2, Target: 1, Label: "powers", Color: "black"},
				{Source: 3, Target: 1, Label: "absorbs light for", Color: "black"},
				{Source: 4, Target: 1, Label: "is consumed by", Color: "black"},
				{Source: 1, Target: 5, Label: "produces", Color: "black"},
				{Source: 1, Target: 6, Label: "releases", Color: "black"},
			},
		},
		ChildGraphIDs: []string{exampleChlorophyllID},
	}

	child := &graph.Graph{
		ID:        exampleChlorophyllID,
		Title:     "Chlorophyll",
		Subject:   "Chlorophyll",
		CreatedAt: 1700000060000,
		Model:     "example",
		IsExample: true,
		Data: graph.Data{
			Nodes: []graph.Node{
				{ID: 1, Label: "Chlorophyll", Color: "#2e7d32", IsRootNode: true, ParentGraphID: examplePhotosynthesisID, ParentNodeID: 3},
				{ID: 2, Label: "Chloroplast", Color: "#66bb6a"},
				{ID: 3, Label: "Magnesium", Color: "#9e9e9e"},
				{ID: 4, Label: "Light Absorption", Color: "#fdd835"},
			},
			Edges: []graph.Edge{
				{Source: 1, Target: 2, Label: "located in", Color: "black"},
				{Source: 3, Target: 1, Label: "is central atom of", Color: "black"},
				{Source: 1, Target: 4, Label: "enables", Color: "black"},
			},
		},
		ParentGraphID:   examplePhotosynthesisID,
		ParentNodeID:    3,
		SourceNodeLabel: "Chlorophyll",
	}

	return []*graph.Graph{parent, child}
}

// Package graph defines the core domain types for stored knowledge graphs
// and the pure functions that maintain parent/child relationships between
// them.
package graph

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Node is a single concept in a knowledge graph. Node ids are only unique
// within their own graph.
type Node struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`

	// Set together when this node has been expanded into a child graph.
	HasChildGraph bool   `json:"hasChildGraph,omitempty"`
	ChildGraphID  string `json:"childGraphId,omitempty"`

	// Set together on the root node of a child graph.
	IsRootNode    bool   `json:"isRootNode,omitempty"`
	ParentGraphID string `json:"parentGraphId,omitempty"`
	ParentNodeID  int    `json:"parentNodeId,omitempty"`
}

// Edge is a directed, labeled connection between two nodes of the same
// graph. Edges carry no persisted identity of their own.
type Edge struct {
	Source int    `json:"source"`
	Target int    `json:"target"`
	Label  string `json:"label"`
	Color  string `json:"color"`
}

// Data holds the node and edge sets of one graph.
type Data struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Graph is one stored knowledge graph with metadata and optional links to a
// parent and children. Field names match the persisted/wire JSON shape.
type Graph struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	Data      Data   `json:"data"`
	CreatedAt int64  `json:"createdAt"` // Unix milliseconds
	Model     string `json:"model"`
	IsExample bool   `json:"isExample,omitempty"`

	// Parent link, set when this graph was expanded from a node of another
	// graph.
	ParentGraphID   string `json:"parentGraphId,omitempty"`
	ParentNodeID    int    `json:"parentNodeId,omitempty"`
	SourceNodeLabel string `json:"sourceNodeLabel,omitempty"`

	// Ids of graphs expanded from nodes of this graph. No duplicates.
	ChildGraphIDs []string `json:"childGraphIds,omitempty"`

	// Opaque value controlling deterministic layout on re-render. Stable
	// once captured.
	LayoutSeed string `json:"layoutSeed,omitempty"`
}

// Validation errors.
var (
	ErrEmptyID      = errors.New("graph id is required")
	ErrEmptySubject = errors.New("subject is required")
	ErrNoNodes      = errors.New("graph has no nodes")
)

// NewID returns a fresh globally unique graph id.
func NewID() string {
	return uuid.NewString()
}

// Now returns the current time in Unix milliseconds, the timestamp unit used
// throughout the persisted model.
func Now() int64 {
	return time.Now().UnixMilli()
}

// ValidateForCreate validates a graph before it is added to a collection.
func (g *Graph) ValidateForCreate() error {
	if g.ID == "" {
		return ErrEmptyID
	}
	if g.Subject == "" {
		return ErrEmptySubject
	}
	if len(g.Data.Nodes) == 0 {
		return ErrNoNodes
	}
	return nil
}

// DisplayTitle returns the title shown to users, falling back to the subject
// when no explicit title was set.
func (g *Graph) DisplayTitle() string {
	if g.Title != "" {
		return g.Title
	}
	return g.Subject
}

// FindNode returns a pointer to the node with the given id, or nil.
func (g *Graph) FindNode(nodeID int) *Node {
	for i := range g.Data.Nodes {
		if g.Data.Nodes[i].ID == nodeID {
			return &g.Data.Nodes[i]
		}
	}
	return nil
}

// HasChild reports whether childID is present in ChildGraphIDs.
func (g *Graph) HasChild(childID string) bool {
	for _, id := range g.ChildGraphIDs {
		if id == childID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the graph. Relationship functions operate on
// clones so callers keep untouched inputs on no-op paths.
func (g *Graph) Clone() *Graph {
	out := *g
	out.Data.Nodes = append([]Node(nil), g.Data.Nodes...)
	out.Data.Edges = append([]Edge(nil), g.Data.Edges...)
	out.ChildGraphIDs = append([]string(nil), g.ChildGraphIDs...)
	return &out
}

// ByID builds an id-to-graph index over a slice of graphs.
func ByID(graphs []*Graph) map[string]*Graph {
	m := make(map[string]*Graph, len(graphs))
	for _, g := range graphs {
		m[g.ID] = g
	}
	return m
}

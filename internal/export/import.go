package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/knotted/kgx/internal/graph"
)

// Import accepts five document shapes: the three envelope formats plus two
// legacy ones (a bare {nodes, edges} object and a bare array of stored
// graphs). The shape is resolved up front, then one normalizer per shape
// produces stored graphs with defaulted fields; individually malformed
// records become warnings, not failures.

// Shape identifies a recognized import document shape.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeEnvelope
	ShapeGraphList
	ShapeBareData
)

// Placeholder values for fields an imported document omits.
const (
	DefaultNodeLabel = "Unnamed"
	DefaultNodeColor = "#cccccc"
	DefaultEdgeLabel = "related to"
	DefaultEdgeColor = "black"
	DefaultTitle     = "Imported graph"
)

// Result is the structured outcome of parsing an import document. Callers
// present Errors/Warnings as a preview before committing the graphs.
type Result struct {
	IsValid  bool           `json:"isValid"`
	Errors   []string       `json:"errors,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Graphs   []*graph.Graph `json:"graphs,omitempty"`
}

// DetectShape resolves the document shape discriminator.
func DetectShape(data []byte) Shape {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ShapeUnknown
	}

	if trimmed[0] == '[' {
		return ShapeGraphList
	}

	var probe struct {
		Format *string         `json:"format"`
		Graphs json.RawMessage `json:"graphs"`
		Nodes  json.RawMessage `json:"nodes"`
		Edges  json.RawMessage `json:"edges"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return ShapeUnknown
	}

	switch {
	case probe.Format != nil || probe.Graphs != nil:
		return ShapeEnvelope
	case probe.Nodes != nil || probe.Edges != nil:
		return ShapeBareData
	default:
		return ShapeUnknown
	}
}

// Parse reads an import document of any recognized shape and normalizes it
// to stored graphs. A completely unparseable document yields an invalid
// result; individually malformed graphs are skipped with warnings.
func Parse(data []byte) *Result {
	res := &Result{}

	switch DetectShape(data) {
	case ShapeEnvelope:
		parseEnvelope(data, res)
	case ShapeGraphList:
		parseGraphList(data, res)
	case ShapeBareData:
		parseBareData(data, res)
	default:
		res.Errors = append(res.Errors, "unrecognized document shape")
	}

	res.IsValid = len(res.Errors) == 0 && len(res.Graphs) > 0
	if len(res.Graphs) == 0 && len(res.Errors) == 0 {
		res.Errors = append(res.Errors, "document contains no graphs")
	}
	return res
}

// parseEnvelope handles the three envelope formats. Relationships arrays
// are advisory: embedded fields are authoritative, but a relationship entry
// absent from the embedded fields is re-applied.
func parseEnvelope(data []byte, res *Result) {
	var doc struct {
		Format        string               `json:"format"`
		Graphs        []json.RawMessage    `json:"graphs"`
		Relationships []graph.Relationship `json:"relationships"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("parsing document: %v", err))
		return
	}

	if doc.Format != "" {
		if err := ValidateFormat(doc.Format); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("unknown format %q, importing anyway", doc.Format))
		}
	}

	for i, raw := range doc.Graphs {
		g, err := normalizeGraph(raw)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("skipping graph %d: %v", i+1, err))
			continue
		}
		defaultFields(g, res)
		res.Graphs = append(res.Graphs, g)
	}

	applyRelationships(res, doc.Relationships)
}

// parseGraphList handles the legacy bare array of stored graphs.
func parseGraphList(data []byte, res *Result) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("parsing graph list: %v", err))
		return
	}

	for i, raw := range raws {
		g, err := normalizeGraph(raw)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("skipping graph %d: %v", i+1, err))
			continue
		}
		defaultFields(g, res)
		res.Graphs = append(res.Graphs, g)
	}
}

// parseBareData handles the legacy single {nodes, edges} object, wrapping
// it in a fresh stored graph.
func parseBareData(data []byte, res *Result) {
	var d graph.Data
	if err := json.Unmarshal(data, &d); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("parsing graph data: %v", err))
		return
	}
	if len(d.Nodes) == 0 {
		res.Errors = append(res.Errors, "graph data contains no nodes")
		return
	}

	g := &graph.Graph{
		ID:        graph.NewID(),
		Title:     DefaultTitle,
		Subject:   DefaultTitle,
		Data:      d,
		CreatedAt: graph.Now(),
	}
	defaultFields(g, res)
	res.Graphs = append(res.Graphs, g)
}

// normalizeGraph decodes one stored-graph record and fills defaults.
// Rejects only records that fail to decode or have no nodes at all.
func normalizeGraph(raw json.RawMessage) (*graph.Graph, error) {
	var g graph.Graph
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	if len(g.Data.Nodes) == 0 {
		return nil, fmt.Errorf("no nodes")
	}
	if g.ID == "" {
		g.ID = graph.NewID()
	}
	if g.CreatedAt == 0 {
		g.CreatedAt = graph.Now()
	}
	return &g, nil
}

// defaultFields fills placeholder values for missing fields, recording a
// warning per defaulted graph-level field.
func defaultFields(g *graph.Graph, res *Result) {
	if g.Subject == "" {
		g.Subject = DefaultTitle
		res.Warnings = append(res.Warnings, fmt.Sprintf("graph %s: missing subject, defaulted", g.ID))
	}
	if g.Title == "" {
		g.Title = g.Subject
	}
	for i := range g.Data.Nodes {
		n := &g.Data.Nodes[i]
		if n.Label == "" {
			n.Label = DefaultNodeLabel
		}
		if n.Color == "" {
			n.Color = DefaultNodeColor
		}
	}
	for i := range g.Data.Edges {
		e := &g.Data.Edges[i]
		if e.Label == "" {
			e.Label = DefaultEdgeLabel
		}
		if e.Color == "" {
			e.Color = DefaultEdgeColor
		}
	}
}

// applyRelationships re-links graphs named in an explicit relationships
// array when the embedded fields do not already record the link. Entries
// referencing graphs outside the document are ignored.
func applyRelationships(res *Result, rels []graph.Relationship) {
	if len(rels) == 0 {
		return
	}
	index := graph.ByID(res.Graphs)

	for _, rel := range rels {
		parent, pok := index[rel.ParentGraphID]
		child, cok := index[rel.ChildGraphID]
		if !pok || !cok {
			continue
		}
		if child.ParentGraphID == parent.ID {
			continue
		}
		linked := graph.Link(parent, child, rel.ParentNodeID, rel.SourceNodeLabel)
		replace(res.Graphs, linked.Parent)
		replace(res.Graphs, linked.Child)
		index[linked.Parent.ID] = linked.Parent
		index[linked.Child.ID] = linked.Child
	}
}

// replace swaps the graph with the same id in the slice.
func replace(graphs []*graph.Graph, g *graph.Graph) {
	for i := range graphs {
		if graphs[i].ID == g.ID {
			graphs[i] = g
			return
		}
	}
}

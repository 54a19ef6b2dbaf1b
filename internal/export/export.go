// Package export serializes graph collections to interchange documents and
// imports them back, accepting current and legacy document shapes.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/knotted/kgx/internal/graph"
)

// Document format names.
const (
	FormatStandard  = "standard"  // full graphs + explicit relationships
	FormatMinimal   = "minimal"   // graph identity + data only
	FormatShareable = "shareable" // one graph or a connected set, for hand-off
)

// DocumentVersion is the current envelope version.
const DocumentVersion = 1

// ValidFormats lists the supported export format names.
var ValidFormats = []string{FormatStandard, FormatMinimal, FormatShareable}

// Document is the export envelope shared by all three formats.
type Document struct {
	Format        string               `json:"format"`
	Version       int                  `json:"version"`
	ExportedAt    int64                `json:"exportedAt"`
	Graphs        []*graph.Graph       `json:"graphs"`
	Relationships []graph.Relationship `json:"relationships,omitempty"`
}

// ValidateFormat checks an export format name.
func ValidateFormat(format string) error {
	for _, f := range ValidFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format: %s (valid: %v)", format, ValidFormats)
}

// Build assembles an export document for the given graphs.
func Build(graphs []*graph.Graph, format string) (*Document, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	doc := &Document{
		Format:     format,
		Version:    DocumentVersion,
		ExportedAt: graph.Now(),
	}

	switch format {
	case FormatMinimal:
		doc.Graphs = stripToMinimal(graphs)
	default:
		doc.Graphs = graphs
		doc.Relationships = graph.ExtractRelationships(graphs)
	}

	return doc, nil
}

// BuildSingle assembles a shareable document holding one graph.
func BuildSingle(g *graph.Graph) *Document {
	doc, _ := Build([]*graph.Graph{g}, FormatShareable)
	return doc
}

// BuildConnected assembles a shareable document holding the subgraph
// transitively connected to root.
func BuildConnected(root *graph.Graph, all []*graph.Graph) *Document {
	doc, _ := Build(graph.ConnectedSubgraph(root, all), FormatShareable)
	return doc
}

// Marshal renders a document as indented JSON.
func (d *Document) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return data, nil
}

// stripToMinimal drops relationship fields, layout seeds, and example flags,
// keeping identity and data only.
func stripToMinimal(graphs []*graph.Graph) []*graph.Graph {
	out := make([]*graph.Graph, 0, len(graphs))
	for _, g := range graphs {
		m := g.Clone()
		m.IsExample = false
		m.ParentGraphID = ""
		m.ParentNodeID = 0
		m.SourceNodeLabel = ""
		m.ChildGraphIDs = nil
		m.LayoutSeed = ""
		for i := range m.Data.Nodes {
			n := &m.Data.Nodes[i]
			n.HasChildGraph = false
			n.ChildGraphID = ""
			n.IsRootNode = false
			n.ParentGraphID = ""
			n.ParentNodeID = 0
		}
		out = append(out, m)
	}
	return out
}

package export

import (
	"encoding/json"
	"testing"

	"github.com/knotted/kgx/internal/graph"
)

func testGraph(id string) *graph.Graph {
	return &graph.Graph{
		ID:        id,
		Title:     "Title " + id,
		Subject:   "subject " + id,
		CreatedAt: 1700000000000,
		Data: graph.Data{
			Nodes: []graph.Node{{ID: 1, Label: "n1", Color: "#abc"}},
		},
	}
}

func linkedPair() (*graph.Graph, *graph.Graph) {
	res := graph.Link(testGraph("parent"), testGraph("child"), 1, "n1")
	return res.Parent, res.Child
}

func TestValidateFormat(t *testing.T) {
	for _, f := range ValidFormats {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", f, err)
		}
	}
	if err := ValidateFormat("yaml"); err == nil {
		t.Error("unknown format should be rejected")
	}
}

func TestBuild_Standard(t *testing.T) {
	parent, child := linkedPair()

	doc, err := Build([]*graph.Graph{parent, child}, FormatStandard)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Format != FormatStandard || doc.Version != DocumentVersion {
		t.Errorf("envelope = %+v", doc)
	}
	if doc.ExportedAt == 0 {
		t.Error("ExportedAt not set")
	}
	if len(doc.Graphs) != 2 {
		t.Errorf("got %d graphs", len(doc.Graphs))
	}
	if len(doc.Relationships) != 1 || doc.Relationships[0].ChildGraphID != "child" {
		t.Errorf("relationships = %v", doc.Relationships)
	}
}

func TestBuild_MinimalStripsLinks(t *testing.T) {
	parent, child := linkedPair()
	child.LayoutSeed = "0.5"
	child.IsExample = true

	doc, err := Build([]*graph.Graph{parent, child}, FormatMinimal)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Relationships) != 0 {
		t.Error("minimal format should carry no relationships")
	}
	for _, g := range doc.Graphs {
		if g.ParentGraphID != "" || len(g.ChildGraphIDs) != 0 {
			t.Errorf("graph %s still carries links", g.ID)
		}
		if g.LayoutSeed != "" || g.IsExample {
			t.Errorf("graph %s still carries seed/example flags", g.ID)
		}
		for _, n := range g.Data.Nodes {
			if n.HasChildGraph || n.IsRootNode || n.ChildGraphID != "" {
				t.Errorf("node %d of %s still carries link flags", n.ID, g.ID)
			}
		}
	}

	// Stripping must not touch the originals.
	if !parent.HasChild("child") || child.ParentGraphID != "parent" {
		t.Error("Build mutated the input graphs")
	}
}

func TestBuildConnected(t *testing.T) {
	parent, child := linkedPair()
	stranger := testGraph("stranger")
	all := []*graph.Graph{parent, child, stranger}

	doc := BuildConnected(child, all)
	if doc.Format != FormatShareable {
		t.Errorf("format = %q", doc.Format)
	}
	ids := make(map[string]bool)
	for _, g := range doc.Graphs {
		ids[g.ID] = true
	}
	if !ids["parent"] || !ids["child"] || ids["stranger"] {
		t.Errorf("connected set = %v", ids)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	parent, child := linkedPair()
	doc, err := Build([]*graph.Graph{parent, child}, FormatStandard)
	if err != nil {
		t.Fatal(err)
	}
	data, err := doc.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	res := Parse(data)
	if !res.IsValid {
		t.Fatalf("re-import invalid: %v", res.Errors)
	}
	if len(res.Graphs) != 2 {
		t.Fatalf("got %d graphs", len(res.Graphs))
	}
	imported := graph.ByID(res.Graphs)
	if imported["child"].ParentGraphID != "parent" {
		t.Error("relationship lost in round trip")
	}
}

func TestMarshal_IsJSON(t *testing.T) {
	doc, err := Build([]*graph.Graph{testGraph("g1")}, FormatStandard)
	if err != nil {
		t.Fatal(err)
	}
	data, err := doc.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	var probe map[string]any
	if err := json.Unmarshal(data, &probe); err != nil {
		t.Fatalf("Marshal produced invalid JSON: %v", err)
	}
}

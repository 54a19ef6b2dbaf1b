package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/knotted/kgx/internal/graph"
)

func testGraph(id string) *graph.Graph {
	return &graph.Graph{
		ID:        id,
		Subject:   "subject " + id,
		CreatedAt: 1700000000000,
		Data: graph.Data{
			Nodes: []graph.Node{{ID: 1, Label: "n1", Color: "#abc"}},
			Edges: []graph.Edge{},
		},
	}
}

func TestReadGraphs_MissingFile(t *testing.T) {
	graphs, err := ReadGraphs(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if graphs != nil {
		t.Errorf("got %d graphs, want none", len(graphs))
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphs.jsonl")

	in := []*graph.Graph{testGraph("a"), testGraph("b")}
	in[0].ChildGraphIDs = []string{"b"}
	if err := WriteGraphs(path, in); err != nil {
		t.Fatal(err)
	}

	out, err := ReadGraphs(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d graphs, want 2", len(out))
	}
	if out[0].ID != "a" || out[1].ID != "b" {
		t.Errorf("order not preserved: %s, %s", out[0].ID, out[1].ID)
	}
	if len(out[0].ChildGraphIDs) != 1 || out[0].ChildGraphIDs[0] != "b" {
		t.Errorf("ChildGraphIDs = %v", out[0].ChildGraphIDs)
	}
}

func TestReadGraphs_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphs.jsonl")
	content := `{"id":"good","subject":"s","createdAt":1,"data":{"nodes":[{"id":1,"label":"n","color":"c"}],"edges":[]}}
this is not json
{"id":"also-good","subject":"s","createdAt":2,"data":{"nodes":[],"edges":[]}}

`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	graphs, err := ReadGraphs(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(graphs) != 2 {
		t.Fatalf("got %d graphs, want 2 (malformed line skipped)", len(graphs))
	}
	if graphs[0].ID != "good" || graphs[1].ID != "also-good" {
		t.Errorf("ids = %s, %s", graphs[0].ID, graphs[1].ID)
	}
}

func TestAppendGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphs.jsonl")

	if err := AppendGraph(path, testGraph("a")); err != nil {
		t.Fatal(err)
	}
	if err := AppendGraph(path, testGraph("b")); err != nil {
		t.Fatal(err)
	}

	graphs, err := ReadGraphs(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(graphs) != 2 {
		t.Fatalf("got %d graphs, want 2", len(graphs))
	}
}

func TestWriteGraphs_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphs.jsonl")

	if err := WriteGraphs(path, []*graph.Graph{testGraph("a"), testGraph("b")}); err != nil {
		t.Fatal(err)
	}
	if err := WriteGraphs(path, []*graph.Graph{testGraph("c")}); err != nil {
		t.Fatal(err)
	}

	graphs, err := ReadGraphs(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(graphs) != 1 || graphs[0].ID != "c" {
		t.Errorf("got %v, want just graph c", graphs)
	}
}

func TestComputeFileHash(t *testing.T) {
	dir := t.TempDir()

	missing, err := ComputeFileHash(filepath.Join(dir, "nope"))
	if err != nil {
		t.Fatal(err)
	}

	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}
	emptyHash, err := ComputeFileHash(empty)
	if err != nil {
		t.Fatal(err)
	}
	if missing != emptyHash {
		t.Error("missing file should hash like empty content")
	}

	full := filepath.Join(dir, "full")
	if err := os.WriteFile(full, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}
	fullHash, err := ComputeFileHash(full)
	if err != nil {
		t.Fatal(err)
	}
	if fullHash == emptyHash {
		t.Error("different content should produce a different hash")
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")

	if got := ReadPreferences(path); len(got.HiddenGraphIDs) != 0 {
		t.Errorf("missing file should yield empty preferences, got %v", got)
	}

	p := &Preferences{HiddenGraphIDs: []string{"a", "b"}}
	if err := WritePreferences(path, p); err != nil {
		t.Fatal(err)
	}
	got := ReadPreferences(path)
	if len(got.HiddenGraphIDs) != 2 || got.HiddenGraphIDs[0] != "a" {
		t.Errorf("got %v", got.HiddenGraphIDs)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cursor.json")

	if got := ReadCursor(path); got != -1 {
		t.Errorf("missing cursor file = %d, want -1", got)
	}

	if err := WriteCursor(path, 3); err != nil {
		t.Fatal(err)
	}
	if got := ReadCursor(path); got != 3 {
		t.Errorf("ReadCursor() = %d, want 3", got)
	}

	// Malformed file falls back to -1.
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := ReadCursor(path); got != -1 {
		t.Errorf("malformed cursor = %d, want -1", got)
	}
}

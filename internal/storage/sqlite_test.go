package storage

import (
	"path/filepath"
	"testing"

	"github.com/knotted/kgx/internal/graph"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func indexedGraph(id, title string, labels ...string) *graph.Graph {
	g := &graph.Graph{
		ID:        id,
		Title:     title,
		Subject:   title,
		CreatedAt: 1700000000000,
	}
	for i, l := range labels {
		g.Data.Nodes = append(g.Data.Nodes, graph.Node{ID: i + 1, Label: l, Color: "#abc"})
	}
	return g
}

func TestRebuildAndCount(t *testing.T) {
	db := openTestDB(t)

	graphs := []*graph.Graph{
		indexedGraph("g1", "Photosynthesis", "Light", "Chlorophyll"),
		indexedGraph("g2", "Gravity", "Mass", "Spacetime"),
	}
	n, err := db.Rebuild(graphs, "hash1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Rebuild() = %d, want 2", n)
	}

	count, err := db.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}

	// Rebuild replaces, never accumulates.
	if _, err := db.Rebuild(graphs[:1], "hash2"); err != nil {
		t.Fatal(err)
	}
	count, err = db.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Count() after second rebuild = %d, want 1", count)
	}
}

func TestSearch(t *testing.T) {
	db := openTestDB(t)

	graphs := []*graph.Graph{
		indexedGraph("g1", "Photosynthesis", "Light", "Chlorophyll"),
		indexedGraph("g2", "Gravity", "Mass", "Spacetime"),
	}
	if _, err := db.Rebuild(graphs, "h"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		query  string
		wantID string
	}{
		{"matches title", "Photosynthesis", "g1"},
		{"matches node label", "Spacetime", "g2"},
		{"case insensitive", "chlorophyll", "g1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := db.Search(tt.query, 10)
			if err != nil {
				t.Fatal(err)
			}
			if len(results) != 1 || results[0].ID != tt.wantID {
				t.Errorf("Search(%q) = %v, want single hit %s", tt.query, results, tt.wantID)
			}
		})
	}

	t.Run("no match", func(t *testing.T) {
		results, err := db.Search("quantum", 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 0 {
			t.Errorf("got %d results, want none", len(results))
		}
	})
}

func TestSearch_SummaryFields(t *testing.T) {
	db := openTestDB(t)

	g := indexedGraph("g1", "Photosynthesis", "Light", "Water")
	g.Model = "gpt-4.1"
	g.ParentGraphID = "parent"
	g.Data.Edges = []graph.Edge{{Source: 1, Target: 2, Label: "feeds"}}
	if _, err := db.Rebuild([]*graph.Graph{g}, "h"); err != nil {
		t.Fatal(err)
	}

	results, err := db.Search("Photosynthesis", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	s := results[0]
	if s.NodeCount != 2 || s.EdgeCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", s.NodeCount, s.EdgeCount)
	}
	if s.Model != "gpt-4.1" || s.ParentGraphID != "parent" {
		t.Errorf("summary = %+v", s)
	}
}

func TestNeedsSync(t *testing.T) {
	db := openTestDB(t)

	stale, err := db.NeedsSync("h1")
	if err != nil {
		t.Fatal(err)
	}
	if !stale {
		t.Error("fresh index with no recorded hash should be stale")
	}

	if _, err := db.Rebuild(nil, "h1"); err != nil {
		t.Fatal(err)
	}

	stale, err = db.NeedsSync("h1")
	if err != nil {
		t.Fatal(err)
	}
	if stale {
		t.Error("index should be fresh after rebuild with the same hash")
	}

	stale, err = db.NeedsSync("h2")
	if err != nil {
		t.Fatal(err)
	}
	if !stale {
		t.Error("changed source hash should mark the index stale")
	}
}

func TestLastSyncTime(t *testing.T) {
	db := openTestDB(t)

	ts, err := db.LastSyncTime()
	if err != nil {
		t.Fatal(err)
	}
	if !ts.IsZero() {
		t.Error("never-synced index should report zero time")
	}

	if _, err := db.Rebuild(nil, "h"); err != nil {
		t.Fatal(err)
	}
	ts, err = db.LastSyncTime()
	if err != nil {
		t.Fatal(err)
	}
	if ts.IsZero() {
		t.Error("sync time should be recorded by rebuild")
	}
}

func TestListAll(t *testing.T) {
	db := openTestDB(t)

	newer := indexedGraph("newer", "B", "n")
	newer.CreatedAt = 2000
	older := indexedGraph("older", "A", "n")
	older.CreatedAt = 1000
	if _, err := db.Rebuild([]*graph.Graph{older, newer}, "h"); err != nil {
		t.Fatal(err)
	}

	results, err := db.ListAll(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].ID != "newer" {
		t.Errorf("ListAll() = %v, want newest first", results)
	}
}

package collection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/knotted/kgx/internal/config"
	"github.com/knotted/kgx/internal/graph"
	"github.com/knotted/kgx/internal/storage"
)

// setupWorkspace creates an empty .kgx workspace in a temp directory.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(config.KgxPath(root), 0755); err != nil {
		t.Fatal(err)
	}
	return root
}

func newGraph(id string, createdAt int64) *graph.Graph {
	return &graph.Graph{
		ID:        id,
		Subject:   "subject " + id,
		CreatedAt: createdAt,
		Data: graph.Data{
			Nodes: []graph.Node{{ID: 1, Label: "n1", Color: "#abc"}},
		},
	}
}

func TestLoad_EmptyWorkspaceGetsExamples(t *testing.T) {
	root := setupWorkspace(t)

	c, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}

	examples := ExampleGraphs()
	if len(c.All()) != len(examples) {
		t.Fatalf("got %d graphs, want the %d examples", len(c.All()), len(examples))
	}
	for _, g := range c.All() {
		if !g.IsExample {
			t.Errorf("graph %s missing IsExample flag", g.ID)
		}
	}
	if c.Current() == nil {
		t.Error("cursor should land on a visible graph")
	}
}

func TestLoad_ExamplesNotDuplicated(t *testing.T) {
	root := setupWorkspace(t)

	ex := ExampleGraphs()[0]
	if err := storage.WriteGraphs(config.GraphsPath(root), []*graph.Graph{ex}); err != nil {
		t.Fatal(err)
	}

	c, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}

	count := 0
	for _, g := range c.All() {
		if g.ID == ex.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("example %s appears %d times, want 1", ex.ID, count)
	}
}

func TestLoad_CursorRestoredWhenValid(t *testing.T) {
	root := setupWorkspace(t)
	c, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.GoTo(0); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.CurrentIndex() != 0 {
		t.Errorf("restored cursor = %d, want 0", reloaded.CurrentIndex())
	}
}

func TestLoad_StaleCursorFallsBackToNewest(t *testing.T) {
	root := setupWorkspace(t)

	// Timestamps above the built-in examples' so "newest" wins the fallback.
	base := int64(1800000000000)
	graphs := []*graph.Graph{
		newGraph("old", base+100),
		newGraph("newest", base+300),
		newGraph("middle", base+200),
	}
	if err := storage.WriteGraphs(config.GraphsPath(root), graphs); err != nil {
		t.Fatal(err)
	}
	if err := storage.WriteCursor(config.CursorPath(root), 99); err != nil {
		t.Fatal(err)
	}

	c, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Current(); got == nil || got.ID != "newest" {
		t.Errorf("Current() = %v, want newest graph", got)
	}
}

func TestAdd(t *testing.T) {
	root := setupWorkspace(t)
	c, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}

	g := newGraph("g1", graph.Now())
	if err := c.Add(g); err != nil {
		t.Fatal(err)
	}

	if c.Current() == nil || c.Current().ID != "g1" {
		t.Error("cursor should move to the added graph")
	}

	// Duplicate id rejected.
	if err := c.Add(newGraph("g1", graph.Now())); err == nil {
		t.Error("expected ErrDuplicateID")
	}

	// Persisted through reload.
	reloaded, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.FindByID("g1") == nil {
		t.Error("added graph not persisted")
	}
}

func TestRemoveAndRestore(t *testing.T) {
	root := setupWorkspace(t)
	c, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	g := newGraph("g1", graph.Now())
	g.Title = "My graph"
	if err := c.Add(g); err != nil {
		t.Fatal(err)
	}

	title, err := c.Remove("g1")
	if err != nil {
		t.Fatal(err)
	}
	if title != "My graph" {
		t.Errorf("Remove title = %q", title)
	}

	// Record survives, visibility does not.
	if c.FindByID("g1") == nil {
		t.Error("removed graph should stay in the full set")
	}
	for _, v := range c.Visible() {
		if v.ID == "g1" {
			t.Error("removed graph still visible")
		}
	}

	// Hidden set persists through reload.
	reloaded, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range reloaded.Visible() {
		if v.ID == "g1" {
			t.Error("hidden set not persisted")
		}
	}

	if err := reloaded.Restore("g1"); err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Current(); got == nil || got.ID != "g1" {
		t.Error("restore should reveal the graph and move the cursor to it")
	}
}

func TestRemove_UnknownIDIsNoOp(t *testing.T) {
	root := setupWorkspace(t)
	c, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}

	before := len(c.Visible())
	title, err := c.Remove("no-such-graph")
	if err != nil {
		t.Fatal(err)
	}
	if title != UnknownTitle {
		t.Errorf("title = %q, want %q", title, UnknownTitle)
	}
	if len(c.Visible()) != before {
		t.Error("unknown-id removal changed the visible set")
	}
}

func TestRemove_UnlinksRelatives(t *testing.T) {
	root := setupWorkspace(t)
	c, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}

	parent := newGraph("parent", graph.Now())
	child := newGraph("child", graph.Now())
	linked := graph.Link(parent, child, 1, "n1")
	if err := c.Add(linked.Parent); err != nil {
		t.Fatal(err)
	}
	if err := c.AddChild(linked.Parent, linked.Child); err != nil {
		t.Fatal(err)
	}

	if _, err := c.Remove("child"); err != nil {
		t.Fatal(err)
	}

	p := c.FindByID("parent")
	if p.HasChild("child") {
		t.Error("parent still lists removed child")
	}
	if n := p.FindNode(1); n.HasChildGraph {
		t.Error("parent node still flags a child graph")
	}
}

func TestRestore_RelinksParent(t *testing.T) {
	root := setupWorkspace(t)
	c, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}

	parent := newGraph("parent", graph.Now())
	child := newGraph("child", graph.Now())
	linked := graph.Link(parent, child, 1, "n1")
	if err := c.Add(linked.Parent); err != nil {
		t.Fatal(err)
	}
	if err := c.AddChild(linked.Parent, linked.Child); err != nil {
		t.Fatal(err)
	}

	if _, err := c.Remove("child"); err != nil {
		t.Fatal(err)
	}
	if err := c.Restore("child"); err != nil {
		t.Fatal(err)
	}

	// Both sides must survive a reload, not just the in-memory view.
	reloaded, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}

	p := reloaded.FindByID("parent")
	if !p.HasChild("child") {
		t.Error("parent lost the child id through remove/restore")
	}
	if n := p.FindNode(1); !n.HasChildGraph || n.ChildGraphID != "child" {
		t.Errorf("parent node = %+v, want child link rebuilt", n)
	}

	ch := reloaded.FindByID("child")
	if ch.ParentGraphID != "parent" || ch.ParentNodeID != 1 || ch.SourceNodeLabel != "n1" {
		t.Errorf("child parent fields = %q/%d/%q", ch.ParentGraphID, ch.ParentNodeID, ch.SourceNodeLabel)
	}
	if rn := &ch.Data.Nodes[0]; !rn.IsRootNode || rn.ParentGraphID != "parent" {
		t.Errorf("child root node = %+v", rn)
	}
}

func TestRestore_RelinksChildren(t *testing.T) {
	root := setupWorkspace(t)
	c, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}

	parent := newGraph("parent", graph.Now())
	child := newGraph("child", graph.Now())
	linked := graph.Link(parent, child, 1, "n1")
	if err := c.Add(linked.Parent); err != nil {
		t.Fatal(err)
	}
	if err := c.AddChild(linked.Parent, linked.Child); err != nil {
		t.Fatal(err)
	}

	// Removing the parent strips the child's back-link; restoring it must
	// put the link back on both sides.
	if _, err := c.Remove("parent"); err != nil {
		t.Fatal(err)
	}
	if ch := c.FindByID("child"); ch.ParentGraphID != "" {
		t.Fatalf("child still points at removed parent: %q", ch.ParentGraphID)
	}
	if err := c.Restore("parent"); err != nil {
		t.Fatal(err)
	}

	ch := c.FindByID("child")
	if ch.ParentGraphID != "parent" || ch.ParentNodeID != 1 {
		t.Errorf("child parent fields = %q/%d", ch.ParentGraphID, ch.ParentNodeID)
	}
	if rn := &ch.Data.Nodes[0]; !rn.IsRootNode {
		t.Error("child root flag not rebuilt")
	}
	p := c.FindByID("parent")
	if n := p.FindNode(1); !n.HasChildGraph || n.ChildGraphID != "child" {
		t.Errorf("parent node = %+v", n)
	}
}

func TestCursorNavigation(t *testing.T) {
	root := setupWorkspace(t)
	c, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"a", "b", "c"} {
		if err := c.Add(newGraph(id, graph.Now())); err != nil {
			t.Fatal(err)
		}
	}
	total := len(c.Visible())

	// Add left the cursor on the last added graph.
	if c.Current().ID != "c" {
		t.Fatalf("cursor = %s, want c", c.Current().ID)
	}

	// Next clamps at the end.
	if err := c.Next(); err != nil {
		t.Fatal(err)
	}
	if c.Current().ID != "c" {
		t.Error("Next should clamp at the last graph")
	}

	if err := c.Previous(); err != nil {
		t.Fatal(err)
	}
	if c.Current().ID != "b" {
		t.Errorf("cursor = %s, want b", c.Current().ID)
	}

	// GoTo out of range is a no-op.
	if err := c.GoTo(total + 5); err != nil {
		t.Fatal(err)
	}
	if c.Current().ID != "b" {
		t.Error("out-of-range GoTo moved the cursor")
	}

	if err := c.GoToByID("a"); err != nil {
		t.Fatal(err)
	}
	if c.Current().ID != "a" {
		t.Errorf("cursor = %s, want a", c.Current().ID)
	}

	// Previous clamps at the start.
	if err := c.Previous(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := c.Previous(); err != nil {
			t.Fatal(err)
		}
	}
	if c.CurrentIndex() != 0 {
		t.Errorf("cursor = %d, want clamp at 0", c.CurrentIndex())
	}
}

func TestRemove_ClampsCursor(t *testing.T) {
	root := setupWorkspace(t)
	c, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Add(newGraph("a", graph.Now())); err != nil {
		t.Fatal(err)
	}
	if err := c.Add(newGraph("b", graph.Now())); err != nil {
		t.Fatal(err)
	}

	// Cursor on the last visible graph; removing it must clamp backwards.
	last := c.Current().ID
	if _, err := c.Remove(last); err != nil {
		t.Fatal(err)
	}
	if c.CurrentIndex() != len(c.Visible())-1 {
		t.Errorf("cursor = %d, want %d", c.CurrentIndex(), len(c.Visible())-1)
	}
	if c.Current() == nil {
		t.Error("cursor should stay on a visible graph")
	}
}

func TestUpdateSeed(t *testing.T) {
	root := setupWorkspace(t)
	c, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Add(newGraph("g1", graph.Now())); err != nil {
		t.Fatal(err)
	}

	if err := c.UpdateSeed("g1", "0.12345"); err != nil {
		t.Fatal(err)
	}
	if got := c.FindByID("g1").LayoutSeed; got != "0.12345" {
		t.Errorf("LayoutSeed = %q", got)
	}

	// Unknown id is a no-op, not an error.
	if err := c.UpdateSeed("missing", "seed"); err != nil {
		t.Fatal(err)
	}

	// Persisted.
	reloaded, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if got := reloaded.FindByID("g1").LayoutSeed; got != "0.12345" {
		t.Errorf("persisted LayoutSeed = %q", got)
	}
}

func TestImportMany(t *testing.T) {
	root := setupWorkspace(t)
	c, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}

	batch := []*graph.Graph{
		newGraph("i1", graph.Now()),
		newGraph("i2", graph.Now()),
	}
	if err := c.ImportMany(batch); err != nil {
		t.Fatal(err)
	}

	if c.FindByID("i1") == nil || c.FindByID("i2") == nil {
		t.Error("imported graphs missing")
	}
	if got := c.Current(); got == nil || got.ID != "i1" {
		t.Error("cursor should land on the first imported graph")
	}
}

func TestLoad_RepairsBrokenLinksFromDisk(t *testing.T) {
	root := setupWorkspace(t)

	g := newGraph("lonely", graph.Now())
	g.ChildGraphIDs = []string{"vanished"}
	g.Data.Nodes[0].HasChildGraph = true
	g.Data.Nodes[0].ChildGraphID = "vanished"
	if err := storage.WriteGraphs(config.GraphsPath(root), []*graph.Graph{g}); err != nil {
		t.Fatal(err)
	}

	c, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	loaded := c.FindByID("lonely")
	if loaded.HasChild("vanished") || loaded.Data.Nodes[0].HasChildGraph {
		t.Error("dangling references survived load")
	}
}

// Guards against stray files breaking the tolerant loader.
func TestLoad_ToleratesJunkInWorkspace(t *testing.T) {
	root := setupWorkspace(t)
	junk := filepath.Join(config.KgxPath(root), "cursor.json")
	if err := os.WriteFile(junk, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(root); err != nil {
		t.Fatalf("Load() with malformed cursor file: %v", err)
	}
}

// Package collection owns the authoritative list of stored graphs, the
// derived visible subset, and the navigation cursor over it. Every mutation
// persists before returning.
package collection

import (
	"errors"
	"fmt"
	"os"

	"github.com/knotted/kgx/internal/config"
	"github.com/knotted/kgx/internal/graph"
	"github.com/knotted/kgx/internal/storage"
)

// UnknownTitle is returned by Remove when the graph id is not found.
// Removal of a missing graph is a recoverable no-op, not an error.
const UnknownTitle = "Unknown graph"

// Collection is the in-memory view of the persisted graph set.
type Collection struct {
	root string

	all     []*graph.Graph
	visible []*graph.Graph
	hidden  map[string]bool

	// current indexes into visible; -1 when there are no visible graphs.
	current int
}

var (
	// ErrNotFound indicates a graph id absent from the collection.
	ErrNotFound = errors.New("graph not found")

	// ErrDuplicateID indicates an id collision on Add. Import paths must
	// remap colliding ids before calling ImportMany.
	ErrDuplicateID = errors.New("graph with this id already exists")
)

// Load reads the persisted collection from a workspace root: merges stored
// graphs with the built-in examples (skipping ids already present), repairs
// broken relationship links, filters by the hidden set, and restores the
// last-viewed position if still valid, else selects the most recently
// created visible graph.
func Load(root string) (*Collection, error) {
	stored, err := storage.ReadGraphs(config.GraphsPath(root))
	if err != nil {
		return nil, fmt.Errorf("loading graphs: %w", err)
	}

	present := make(map[string]bool, len(stored))
	for _, g := range stored {
		present[g.ID] = true
	}
	for _, ex := range ExampleGraphs() {
		if !present[ex.ID] {
			stored = append(stored, ex)
		}
	}

	// Stale references would otherwise surface as navigation to a
	// nonexistent graph.
	stored = graph.RepairBrokenLinks(stored)

	prefs := storage.ReadPreferences(config.PreferencesPath(root))
	hidden := make(map[string]bool, len(prefs.HiddenGraphIDs))
	for _, id := range prefs.HiddenGraphIDs {
		hidden[id] = true
	}

	c := &Collection{
		root:   root,
		all:    stored,
		hidden: hidden,
	}
	c.recomputeVisible()

	c.current = -1
	if idx := storage.ReadCursor(config.CursorPath(root)); idx >= 0 && idx < len(c.visible) {
		c.current = idx
	} else if len(c.visible) > 0 {
		c.current = c.newestVisibleIndex()
	}

	return c, nil
}

// All returns every stored graph, hidden ones included.
func (c *Collection) All() []*graph.Graph { return c.all }

// Visible returns the graphs not hidden by the user, in insertion order.
func (c *Collection) Visible() []*graph.Graph { return c.visible }

// HiddenIDs returns the ids in the hidden set.
func (c *Collection) HiddenIDs() []string {
	ids := make([]string, 0, len(c.hidden))
	for _, g := range c.all {
		if c.hidden[g.ID] {
			ids = append(ids, g.ID)
		}
	}
	return ids
}

// FindByID returns the stored graph with the given id, or nil.
func (c *Collection) FindByID(id string) *graph.Graph {
	for _, g := range c.all {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// Add appends a graph to the collection and moves the cursor to it.
func (c *Collection) Add(g *graph.Graph) error {
	if err := g.ValidateForCreate(); err != nil {
		return err
	}
	if c.FindByID(g.ID) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateID, g.ID)
	}

	c.all = append(c.all, g)
	c.recomputeVisible()
	c.current = c.indexOf(g.ID)
	return c.persist()
}

// ImportMany appends a batch of graphs and moves the cursor to the first
// imported graph. Callers must have already resolved id collisions.
func (c *Collection) ImportMany(graphs []*graph.Graph) error {
	if len(graphs) == 0 {
		return nil
	}
	for _, g := range graphs {
		if c.FindByID(g.ID) != nil {
			return fmt.Errorf("%w: %s", ErrDuplicateID, g.ID)
		}
	}

	c.all = append(c.all, graphs...)
	c.recomputeVisible()
	if idx := c.indexOf(graphs[0].ID); idx >= 0 {
		c.current = idx
	}
	return c.persist()
}

// AddChild appends a freshly linked child graph and swaps in the updated
// parent record, moving the cursor to the child.
func (c *Collection) AddChild(updatedParent, child *graph.Graph) error {
	if err := child.ValidateForCreate(); err != nil {
		return err
	}
	if c.FindByID(child.ID) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateID, child.ID)
	}

	for i, g := range c.all {
		if g.ID == updatedParent.ID {
			c.all[i] = updatedParent
			break
		}
	}
	c.all = append(c.all, child)
	c.recomputeVisible()
	c.current = c.indexOf(child.ID)
	return c.persist()
}

// ReplaceAll swaps the full graph set, keeping the hidden set. Used by
// relationship-mutating operations that transform the whole collection.
func (c *Collection) ReplaceAll(graphs []*graph.Graph) error {
	c.all = graphs
	c.recomputeVisible()
	c.clampCursor()
	return c.persist()
}

// Remove soft-deletes a graph: the id joins the hidden set, dangling
// relationship fields on other graphs are cleared, and the cursor is
// re-clamped. Returns the removed graph's display title for user feedback;
// an unknown id returns UnknownTitle and changes nothing.
func (c *Collection) Remove(id string) (string, error) {
	g := c.FindByID(id)
	if g == nil {
		return UnknownTitle, nil
	}
	title := g.DisplayTitle()

	c.hidden[id] = true
	c.all = graph.UnlinkOnDelete(c.all, id)
	c.recomputeVisible()
	c.clampCursor()

	if err := c.persist(); err != nil {
		return title, err
	}
	return title, nil
}

// Restore removes a graph id from the hidden set, making it visible again,
// and rebuilds the relationship links its removal stripped from relatives.
func (c *Collection) Restore(id string) error {
	g := c.FindByID(id)
	if g == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !c.hidden[id] {
		return nil
	}
	delete(c.hidden, id)
	c.relink(g)
	c.recomputeVisible()
	c.current = c.indexOf(id)
	return c.persist()
}

// relink re-applies the links a restored graph still records. Remove clears
// relationship fields on relatives but leaves the removed graph's own fields
// intact, so they are enough to rebuild both sides. Any relative that was
// itself removed in the meantime has already been stripped from this graph,
// so every target here is present.
func (c *Collection) relink(g *graph.Graph) {
	if g.ParentGraphID != "" {
		if parent := c.FindByID(g.ParentGraphID); parent != nil {
			res := graph.Link(parent, g, g.ParentNodeID, g.SourceNodeLabel)
			c.replaceGraph(res.Parent)
			c.replaceGraph(res.Child)
			g = res.Child
		}
	}
	for i := range g.Data.Nodes {
		n := g.Data.Nodes[i]
		if n.ChildGraphID == "" {
			continue
		}
		child := c.FindByID(n.ChildGraphID)
		if child == nil {
			continue
		}
		res := graph.Link(g, child, n.ID, n.Label)
		c.replaceGraph(res.Parent)
		c.replaceGraph(res.Child)
		g = res.Parent
	}
}

// replaceGraph swaps in the record with the same id.
func (c *Collection) replaceGraph(g *graph.Graph) {
	for i := range c.all {
		if c.all[i].ID == g.ID {
			c.all[i] = g
			return
		}
	}
}

// UpdateSeed captures a layout seed on the matching graph. Idempotent;
// persists immediately. Unknown ids are a no-op.
func (c *Collection) UpdateSeed(id, seed string) error {
	g := c.FindByID(id)
	if g == nil || g.LayoutSeed == seed {
		return nil
	}
	g.LayoutSeed = seed
	return c.persist()
}

// Repair strips references to graphs absent from the collection and
// persists the result. Returns true when anything changed.
func (c *Collection) Repair() (bool, error) {
	repaired := graph.RepairBrokenLinks(c.all)
	changed := false
	for i := range repaired {
		if repaired[i] != c.all[i] {
			changed = true
			break
		}
	}
	if !changed {
		return false, nil
	}
	c.all = repaired
	c.recomputeVisible()
	return true, c.persist()
}

// recomputeVisible rebuilds the visible list from the all list minus the
// hidden set, preserving insertion order.
func (c *Collection) recomputeVisible() {
	c.visible = c.visible[:0]
	for _, g := range c.all {
		if !c.hidden[g.ID] {
			c.visible = append(c.visible, g)
		}
	}
}

// indexOf returns the visible index of a graph id, or -1.
func (c *Collection) indexOf(id string) int {
	for i, g := range c.visible {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// newestVisibleIndex returns the index of the most recently created visible
// graph, or -1 when the visible list is empty.
func (c *Collection) newestVisibleIndex() int {
	best := -1
	var bestAt int64
	for i, g := range c.visible {
		if best == -1 || g.CreatedAt > bestAt {
			best = i
			bestAt = g.CreatedAt
		}
	}
	return best
}

// persist writes the graph set, preferences, and cursor to the workspace.
func (c *Collection) persist() error {
	if err := os.MkdirAll(config.KgxPath(c.root), 0755); err != nil {
		return fmt.Errorf("creating workspace directory: %w", err)
	}
	if err := storage.WriteGraphs(config.GraphsPath(c.root), c.all); err != nil {
		return err
	}
	prefs := &storage.Preferences{HiddenGraphIDs: c.HiddenIDs()}
	if err := storage.WritePreferences(config.PreferencesPath(c.root), prefs); err != nil {
		return err
	}
	return storage.WriteCursor(config.CursorPath(c.root), c.current)
}

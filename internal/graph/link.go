package graph

// Relationship functions maintain the bidirectional parent/child invariants
// between graphs: a node flagged HasChildGraph points at a graph whose root
// node points back. All functions here are total over well-typed input and
// never return errors; stale or dangling references degrade to no-ops or to
// stripping the offending fields. Relationship fields must only be mutated
// through this file.

// LinkResult holds the updated pair produced by Link.
type LinkResult struct {
	Parent *Graph
	Child  *Graph
}

// Link attaches child to the parent node with id parentNodeID. The parent
// node gains HasChildGraph/ChildGraphID, the parent records the child id,
// and the child's first node becomes the root node pointing back at the
// parent. If the parent has no node with that id (stale UI state), both
// graphs are returned unchanged.
func Link(parent, child *Graph, parentNodeID int, sourceNodeLabel string) LinkResult {
	if parent.FindNode(parentNodeID) == nil || len(child.Data.Nodes) == 0 {
		return LinkResult{Parent: parent, Child: child}
	}

	p := parent.Clone()
	c := child.Clone()

	n := p.FindNode(parentNodeID)
	n.HasChildGraph = true
	n.ChildGraphID = c.ID
	if !p.HasChild(c.ID) {
		p.ChildGraphIDs = append(p.ChildGraphIDs, c.ID)
	}

	// The root flag is stored explicitly at link time and never re-derived
	// from node order afterwards.
	root := &c.Data.Nodes[0]
	root.IsRootNode = true
	root.ParentGraphID = p.ID
	root.ParentNodeID = parentNodeID

	c.ParentGraphID = p.ID
	c.ParentNodeID = parentNodeID
	c.SourceNodeLabel = sourceNodeLabel

	return LinkResult{Parent: p, Child: c}
}

// UnlinkOnDelete removes every reference to deletedID from the given graphs:
// parents lose the child id and the node-level child flags, children of the
// deleted graph lose their parent fields and root-node flags. Idempotent and
// order-independent across sequential deletions. The input slice is not
// modified.
func UnlinkOnDelete(all []*Graph, deletedID string) []*Graph {
	out := make([]*Graph, 0, len(all))
	for _, g := range all {
		out = append(out, stripReferencesTo(g, deletedID))
	}
	return out
}

// stripReferencesTo returns g with any parent/child reference to id removed.
// Returns g itself when nothing referenced id.
func stripReferencesTo(g *Graph, id string) *Graph {
	if !g.HasChild(id) && g.ParentGraphID != id && !nodeReferences(g, id) && !nodeParentReferences(g, id) {
		return g
	}

	c := g.Clone()

	if c.HasChild(id) {
		kept := c.ChildGraphIDs[:0]
		for _, cid := range c.ChildGraphIDs {
			if cid != id {
				kept = append(kept, cid)
			}
		}
		c.ChildGraphIDs = kept
		if len(c.ChildGraphIDs) == 0 {
			c.ChildGraphIDs = nil
		}
	}

	for i := range c.Data.Nodes {
		n := &c.Data.Nodes[i]
		if n.ChildGraphID == id {
			n.HasChildGraph = false
			n.ChildGraphID = ""
		}
	}

	if c.ParentGraphID == id {
		c.ParentGraphID = ""
		c.ParentNodeID = 0
		c.SourceNodeLabel = ""
	}
	for i := range c.Data.Nodes {
		n := &c.Data.Nodes[i]
		if n.IsRootNode && n.ParentGraphID == id {
			n.IsRootNode = false
			n.ParentGraphID = ""
			n.ParentNodeID = 0
		}
	}

	return c
}

// nodeParentReferences reports whether any root node of g points at id as
// its parent graph.
func nodeParentReferences(g *Graph, id string) bool {
	for i := range g.Data.Nodes {
		if g.Data.Nodes[i].ParentGraphID == id {
			return true
		}
	}
	return false
}

// nodeReferences reports whether any node of g carries a child link to id.
func nodeReferences(g *Graph, id string) bool {
	for i := range g.Data.Nodes {
		if g.Data.Nodes[i].ChildGraphID == id {
			return true
		}
	}
	return false
}

// RepairBrokenLinks strips every parent/child reference to a graph id absent
// from the collection, using the same rules as UnlinkOnDelete. Run once at
// load time before computing the visible set so stale references from
// corrupted or partially imported state never reach navigation. Idempotent.
func RepairBrokenLinks(all []*Graph) []*Graph {
	present := make(map[string]bool, len(all))
	for _, g := range all {
		present[g.ID] = true
	}

	out := all
	repaired := false
	for _, g := range all {
		for _, id := range danglingIDs(g, present) {
			if !repaired {
				out = append([]*Graph(nil), all...)
				repaired = true
			}
			for i := range out {
				out[i] = stripReferencesTo(out[i], id)
			}
		}
	}
	return out
}

// danglingIDs collects referenced graph ids that do not exist in the
// collection.
func danglingIDs(g *Graph, present map[string]bool) []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if id != "" && !present[id] && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	add(g.ParentGraphID)
	for _, id := range g.ChildGraphIDs {
		add(id)
	}
	for i := range g.Data.Nodes {
		add(g.Data.Nodes[i].ChildGraphID)
		add(g.Data.Nodes[i].ParentGraphID)
	}
	return ids
}

// ConnectedSubgraph returns all graphs transitively connected to root
// through parent and child links, root included, in breadth-first order.
// Cycle-safe via a visited set; dangling references are skipped.
func ConnectedSubgraph(root *Graph, all []*Graph) []*Graph {
	if root == nil {
		return nil
	}
	index := ByID(all)

	visited := map[string]bool{root.ID: true}
	result := []*Graph{root}
	queue := []*Graph{root}

	for len(queue) > 0 {
		g := queue[0]
		queue = queue[1:]

		var neighbors []string
		if g.ParentGraphID != "" {
			neighbors = append(neighbors, g.ParentGraphID)
		}
		neighbors = append(neighbors, g.ChildGraphIDs...)

		for _, id := range neighbors {
			if visited[id] {
				continue
			}
			n, ok := index[id]
			if !ok {
				continue
			}
			visited[id] = true
			result = append(result, n)
			queue = append(queue, n)
		}
	}
	return result
}

// Relationship is an explicit parent/child record, for serialization formats
// that want relationships as first-class entries rather than embedded
// fields.
type Relationship struct {
	ParentGraphID   string `json:"parentGraphId"`
	ParentNodeID    int    `json:"parentNodeId"`
	ChildGraphID    string `json:"childGraphId"`
	SourceNodeLabel string `json:"sourceNodeLabel,omitempty"`
}

// ExtractRelationships flattens the parent-pointer fields of a graph set
// into an explicit relationship list.
func ExtractRelationships(graphs []*Graph) []Relationship {
	var rels []Relationship
	for _, g := range graphs {
		if g.ParentGraphID == "" {
			continue
		}
		rels = append(rels, Relationship{
			ParentGraphID:   g.ParentGraphID,
			ParentNodeID:    g.ParentNodeID,
			ChildGraphID:    g.ID,
			SourceNodeLabel: g.SourceNodeLabel,
		})
	}
	return rels
}

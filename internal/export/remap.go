package export

import "github.com/knotted/kgx/internal/graph"

// RemapCollidingIDs assigns fresh ids to imported graphs whose ids already
// exist in the target collection, rewriting every internal reference
// (graph-level parent/child fields and node-level link fields) to the
// renamed ids consistently. References leaving the imported batch are left
// alone. Returns the remapped graphs and the old-to-new id mapping.
func RemapCollidingIDs(imported []*graph.Graph, existing map[string]bool) ([]*graph.Graph, map[string]string) {
	remap := make(map[string]string)
	for _, g := range imported {
		if existing[g.ID] {
			remap[g.ID] = graph.NewID()
		}
	}
	if len(remap) == 0 {
		return imported, remap
	}

	rename := func(id string) string {
		if newID, ok := remap[id]; ok {
			return newID
		}
		return id
	}

	out := make([]*graph.Graph, 0, len(imported))
	for _, g := range imported {
		c := g.Clone()
		c.ID = rename(c.ID)
		c.ParentGraphID = rename(c.ParentGraphID)
		for i, id := range c.ChildGraphIDs {
			c.ChildGraphIDs[i] = rename(id)
		}
		for i := range c.Data.Nodes {
			n := &c.Data.Nodes[i]
			n.ChildGraphID = rename(n.ChildGraphID)
			n.ParentGraphID = rename(n.ParentGraphID)
		}
		out = append(out, c)
	}
	return out, remap
}

package collection

import "github.com/knotted/kgx/internal/graph"

// Navigation over the visible sequence. The cursor is exclusively mutated
// here; everything else reads it. Out-of-range requests are no-ops and
// boundary moves clamp rather than wrap.

// Current returns the graph under the cursor, or nil when the visible list
// is empty.
func (c *Collection) Current() *graph.Graph {
	if c.current < 0 || c.current >= len(c.visible) {
		return nil
	}
	return c.visible[c.current]
}

// CurrentIndex returns the cursor position, -1 when nothing is visible.
func (c *Collection) CurrentIndex() int { return c.current }

// GoTo moves the cursor to index. No-op if out of [0, len(visible)).
func (c *Collection) GoTo(index int) error {
	if index < 0 || index >= len(c.visible) {
		return nil
	}
	c.current = index
	return c.persist()
}

// Next advances the cursor, clamping at the end.
func (c *Collection) Next() error {
	if c.current+1 >= len(c.visible) {
		return nil
	}
	c.current++
	return c.persist()
}

// Previous moves the cursor back, clamping at the start.
func (c *Collection) Previous() error {
	if c.current <= 0 {
		return nil
	}
	c.current--
	return c.persist()
}

// GoToByID resolves a graph id to its visible index and moves there.
// No-op if the id is not visible, or already current.
func (c *Collection) GoToByID(id string) error {
	idx := c.indexOf(id)
	if idx < 0 || idx == c.current {
		return nil
	}
	c.current = idx
	return c.persist()
}

// clampCursor pulls the cursor back into the valid range after the visible
// list shrinks: min(current, len-1), floored at 0, -1 only when empty.
func (c *Collection) clampCursor() {
	if len(c.visible) == 0 {
		c.current = -1
		return
	}
	if c.current >= len(c.visible) {
		c.current = len(c.visible) - 1
	}
	if c.current < 0 {
		c.current = 0
	}
}

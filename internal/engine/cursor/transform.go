package cursor

import "github.com/dshills/caret/internal/engine/buffer"

// Apply updates the cursor after a store mutation.
//
// Transformation rules, for a cursor on the edited line:
//   - Insert at or before the cursor: shift right by the inserted length
//   - Delete covering the cursor: move to the start of the deleted text
//   - Delete before the cursor: shift left by the deleted length
//   - Split at or before the cursor: follow the text onto the new line
//   - Join: cursors on the joined line move onto the target line
//   - Remove: cursors on the removed line move to the nearest survivor
//
// Swaps and added lines never move a cursor; it follows its line handle.
func (c *Cursor) Apply(e buffer.Edit) {
	switch e.Kind {
	case buffer.EditInsert:
		if c.line == e.Line && c.col >= e.Column {
			c.col += e.Length
		}
	case buffer.EditDelete:
		if c.line != e.Line || c.col <= e.Column {
			return
		}
		if c.col <= e.Column+e.Length {
			c.col = e.Column
		} else {
			c.col -= e.Length
		}
	case buffer.EditSplit:
		if c.line == e.Line && c.col >= e.Column {
			c.line = e.Target
			c.col -= e.Column
		}
	case buffer.EditJoin:
		if c.line == e.Line {
			c.line = e.Target
			c.col += e.Column
		}
	case buffer.EditRemoveLine:
		if c.line == e.Line {
			c.line = e.Target
			c.col = e.Column
		}
	}
}

// apply transforms both ends of the range.
func (r *Range) apply(e buffer.Edit) {
	r.head.Apply(e)
	if r.tail != nil {
		r.tail.Apply(e)
	}
}

// apply transforms every range of the collection.
func (c *Collection) apply(e buffer.Edit) {
	for _, r := range c.ranges {
		r.apply(e)
	}
}

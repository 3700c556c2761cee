// Package cursor provides carets, selection ranges and multi-caret
// collections over a buffer.Store.
//
// The cursor package handles:
//
//   - Single caret positioning and navigation with the Cursor type
//   - Selections with a tail/head model via the Range type
//   - Multi-caret editing with Collection
//   - Cursor transformation after store mutations
//
// Selection Model:
//
// A Range holds an optional tail (the anchor) and a head (the active end,
// where typing occurs). Without a tail the range is a bare caret. The
// selection keeps its direction; OrderedCursors returns the bounds in
// document order regardless of direction.
//
// Live References:
//
// A Cursor references a line by its store handle, not by number, so it
// follows the line through insertions, removals and swaps of other lines.
// Cursors held by a Collection are transformed on every store mutation;
// the edited line's cursors shift with inserted or deleted text.
//
// Recording:
//
// Every mutating Range method appends the history actions it performed to
// a caller-supplied *history.ActionList, so a whole command can be undone
// and redone.
//
// Basic usage:
//
//	store := buffer.New("hello world")
//	carets := cursor.NewCollection(store)
//
//	// Add a second caret
//	carets.Add(buffer.CaretAt(buffer.NewPosition(0, 5)))
//
//	// Type at the primary caret
//	list := history.NewActionList(0)
//	carets.Primary().InsertString("!", list)
//
// Thread Safety:
//
// Cursors, ranges and collections are owned by one document and are not
// safe for concurrent use.
package cursor

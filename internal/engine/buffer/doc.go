// Package buffer provides the line store that backs a source document.
//
// The buffer package provides:
//
//   - Store: an ordered sequence of mutable lines with stable identity
//   - Handle: a generation-checked reference to one line of a Store
//   - Position: a durable (line, column) value independent of any live line
//   - Selection: a durable (tail?, head) pair used to save and restore carets
//   - Offsets: a cumulative line-start table for character index conversion
//
// Lines are kept in an arena. A Handle names an arena slot plus the slot's
// generation, so a handle to a removed line fails with ErrInvalidState
// instead of silently pointing at whatever line reuses the slot.
//
// Basic usage:
//
//	s := buffer.New("int a;\nint b;")
//
//	h, _ := s.At(1)
//	s.InsertText(h, 0, "// ")   // "// int b;"
//	next, _ := s.Split(h, 3)     // "// " and "int b;"
//	s.Join(h)                    // back to "// int b;"
//	_ = next
//
// Columns are rune offsets into a line. A line never contains a line break;
// line breaks exist only between lines.
//
// Every structural or textual mutation is reported to subscribers as an
// Edit, which is how live cursors stay attached to the text they point at.
//
// Thread Safety:
//
// Store is not safe for concurrent use. A document and everything it owns
// is mutated from one goroutine.
package buffer

package cursor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/caret/internal/engine/buffer"
	"github.com/dshills/caret/internal/engine/history"
	"github.com/dshills/caret/internal/syntax"
)

// Cursor is a live position: a line handle plus a rune column.
type Cursor struct {
	store *buffer.Store
	line  buffer.Handle
	col   int
}

// New creates a cursor at a durable position of store.
func New(store *buffer.Store, p buffer.Position) (*Cursor, error) {
	h, col, err := store.Resolve(p)
	if err != nil {
		return nil, err
	}
	return &Cursor{store: store, line: h, col: col}, nil
}

// Clone returns an independent copy of the cursor.
func (c *Cursor) Clone() *Cursor {
	cp := *c
	return &cp
}

// Line returns the handle of the cursor's line.
func (c *Cursor) Line() buffer.Handle {
	return c.line
}

// Column returns the cursor's rune column.
func (c *Cursor) Column() int {
	return c.col
}

// Valid returns true if the cursor's line is still in the store and the
// column is within it.
func (c *Cursor) Valid() bool {
	return c.store.Valid(c.line) && c.col >= 0 && c.col <= c.store.RuneLen(c.line)
}

// Resolve returns the durable position of the cursor.
func (c *Cursor) Resolve() (buffer.Position, error) {
	n, err := c.store.Number(c.line)
	if err != nil {
		return buffer.Position{}, err
	}
	if c.col < 0 || c.col > c.store.RuneLen(c.line) {
		return buffer.Position{}, fmt.Errorf("column %d: %w", c.col, buffer.ErrInvalidState)
	}
	return buffer.NewPosition(n, c.col), nil
}

// Position returns the durable position of the cursor, or the zero
// position if the cursor is no longer valid.
func (c *Cursor) Position() buffer.Position {
	p, _ := c.Resolve()
	return p
}

// MoveTo places the cursor at p.
func (c *Cursor) MoveTo(p buffer.Position) error {
	h, col, err := c.store.Resolve(p)
	if err != nil {
		return err
	}
	c.line, c.col = h, col
	return nil
}

// String returns a string representation of the cursor.
func (c *Cursor) String() string {
	return fmt.Sprintf("Cursor%s", c.Position())
}

// ============================================================================
// Navigation
// ============================================================================

// ShiftLeft moves one character left, crossing to the end of the previous
// line at column 0. Returns false at the start of the document.
func (c *Cursor) ShiftLeft() bool {
	if c.col > 0 {
		c.col--
		return true
	}
	prev, ok := c.store.Prev(c.line)
	if !ok {
		return false
	}
	c.line, c.col = prev, c.store.RuneLen(prev)
	return true
}

// ShiftRight moves one character right, crossing to the start of the next
// line at the end of a line. Returns false at the end of the document.
func (c *Cursor) ShiftRight() bool {
	if c.col < c.store.RuneLen(c.line) {
		c.col++
		return true
	}
	next, ok := c.store.Next(c.line)
	if !ok {
		return false
	}
	c.line, c.col = next, 0
	return true
}

// ShiftUp moves to the previous line, keeping the column where possible.
func (c *Cursor) ShiftUp() bool {
	prev, ok := c.store.Prev(c.line)
	if !ok {
		return false
	}
	c.line, c.col = prev, min(c.col, c.store.RuneLen(prev))
	return true
}

// ShiftDown moves to the next line, keeping the column where possible.
func (c *Cursor) ShiftDown() bool {
	next, ok := c.store.Next(c.line)
	if !ok {
		return false
	}
	c.line, c.col = next, min(c.col, c.store.RuneLen(next))
	return true
}

// ShiftHome moves to column 0.
func (c *Cursor) ShiftHome() bool {
	if c.col == 0 {
		return false
	}
	c.col = 0
	return true
}

// ShiftEnd moves to the end of the line.
func (c *Cursor) ShiftEnd() bool {
	n := c.store.RuneLen(c.line)
	if c.col == n {
		return false
	}
	c.col = n
	return true
}

// ShiftDocumentStart moves to the first column of the first line.
func (c *Cursor) ShiftDocumentStart() bool {
	first := c.store.First()
	if c.line == first && c.col == 0 {
		return false
	}
	c.line, c.col = first, 0
	return true
}

// ShiftDocumentEnd moves past the last character of the document.
func (c *Cursor) ShiftDocumentEnd() bool {
	last := c.store.Last()
	n := c.store.RuneLen(last)
	if c.line == last && c.col == n {
		return false
	}
	c.line, c.col = last, n
	return true
}

// ShiftWordLeft moves to the start of the nearest token starting before
// the cursor. hl must reflect the current text; nil uses plain-text
// segmentation. Returns false at the start of the document.
func (c *Cursor) ShiftWordLeft(hl syntax.Highlighter) bool {
	lines, offsets, index, ok := c.locate()
	if !ok || index == 0 {
		return false
	}
	target := 0
	if spans := highlighter(hl, lines).SpansBefore(index); len(spans) > 0 {
		target = spans[0].Start
	}
	return c.moveToIndex(offsets, target)
}

// ShiftWordRight moves to the start of the nearest token starting after
// the cursor, or to the end of the document when no token follows.
// Returns false at the end of the document.
func (c *Cursor) ShiftWordRight(hl syntax.Highlighter) bool {
	lines, offsets, index, ok := c.locate()
	if !ok || index == offsets.Len() {
		return false
	}
	target := offsets.Len()
	for _, s := range highlighter(hl, lines).SpansAfter(index) {
		if s.Start > index {
			target = s.Start
			break
		}
	}
	return c.moveToIndex(offsets, target)
}

// highlighter returns hl, or a plain segmenter updated with lines.
func highlighter(hl syntax.Highlighter, lines []string) syntax.Highlighter {
	if hl != nil {
		return hl
	}
	p := syntax.NewPlain()
	p.Update(lines)
	return p
}

// locate returns the document lines, their offsets and the cursor's
// character index.
func (c *Cursor) locate() ([]string, buffer.Offsets, int, bool) {
	p, err := c.Resolve()
	if err != nil {
		return nil, buffer.Offsets{}, 0, false
	}
	lines := c.store.Lines()
	offsets := buffer.NewOffsets(lines)
	index, err := offsets.Index(p)
	if err != nil {
		return nil, buffer.Offsets{}, 0, false
	}
	return lines, offsets, index, true
}

func (c *Cursor) moveToIndex(offsets buffer.Offsets, index int) bool {
	p, err := offsets.Position(index)
	if err != nil {
		return false
	}
	return c.MoveTo(p) == nil
}

// ============================================================================
// Mutations
// ============================================================================

// InsertText inserts single-line text at the cursor and moves past it.
func (c *Cursor) InsertText(text string) (history.Action, error) {
	return c.insert(text, history.NewInsertCharacter)
}

// InsertTab inserts indentation text at the cursor and moves past it.
func (c *Cursor) InsertTab(text string) (history.Action, error) {
	return c.insert(text, history.NewInsertTab)
}

func (c *Cursor) insert(text string, record func(buffer.Position, string) history.Action) (history.Action, error) {
	p, err := c.Resolve()
	if err != nil {
		return history.Action{}, err
	}
	if err := c.store.InsertText(c.line, c.col, text); err != nil {
		return history.Action{}, err
	}
	c.col = p.Column + utf8.RuneCountInString(text)
	return record(p, text), nil
}

// InsertLineBreak splits the line at the cursor and moves to the start of
// the new line.
func (c *Cursor) InsertLineBreak() (history.Action, error) {
	p, err := c.Resolve()
	if err != nil {
		return history.Action{}, err
	}
	nh, err := c.store.Split(c.line, c.col)
	if err != nil {
		return history.Action{}, err
	}
	c.line, c.col = nh, 0
	return history.NewInsertLineBreak(p), nil
}

// RemoveCharacterBefore deletes the character before the cursor. At column
// 0 the line is joined to the previous one. Returns false at the start of
// the document.
func (c *Cursor) RemoveCharacterBefore() (history.Action, bool, error) {
	p, err := c.Resolve()
	if err != nil {
		return history.Action{}, false, err
	}
	if c.col > 0 {
		removed, err := c.store.DeleteText(c.line, c.col-1, 1)
		if err != nil {
			return history.Action{}, false, err
		}
		c.col = p.Column - 1
		at := buffer.NewPosition(p.Line, p.Column-1)
		return history.NewDeleteCharacter(at, removed, p), true, nil
	}

	prev, ok := c.store.Prev(c.line)
	if !ok {
		return history.Action{}, false, nil
	}
	prevLen := c.store.RuneLen(prev)
	if err := c.store.Join(prev); err != nil {
		return history.Action{}, false, err
	}
	c.line, c.col = prev, prevLen
	at := buffer.NewPosition(p.Line-1, prevLen)
	return history.NewDeleteLineBreak(at, p), true, nil
}

// RemoveCharacterAfter deletes the character after the cursor. At the end
// of a line the next line is joined to it. Returns false at the end of the
// document.
func (c *Cursor) RemoveCharacterAfter() (history.Action, bool, error) {
	p, err := c.Resolve()
	if err != nil {
		return history.Action{}, false, err
	}
	if c.col < c.store.RuneLen(c.line) {
		a, err := c.DeleteForward(1)
		return a, err == nil, err
	}

	if _, ok := c.store.Next(c.line); !ok {
		return history.Action{}, false, nil
	}
	if err := c.store.Join(c.line); err != nil {
		return history.Action{}, false, err
	}
	return history.NewDeleteLineBreak(p, p), true, nil
}

// DeleteForward deletes n characters after the cursor on its line.
func (c *Cursor) DeleteForward(n int) (history.Action, error) {
	p, err := c.Resolve()
	if err != nil {
		return history.Action{}, err
	}
	removed, err := c.store.DeleteText(c.line, c.col, n)
	if err != nil {
		return history.Action{}, err
	}
	return history.NewDeleteCharacter(p, removed, p), nil
}

// IncreaseIndent inserts one indentation unit at the cursor.
func (c *Cursor) IncreaseIndent(unit string) (history.Action, error) {
	return c.InsertTab(unit)
}

// PartialIncreaseIndent inserts n spaces at the cursor. Returns false if
// n is not positive.
func (c *Cursor) PartialIncreaseIndent(n int) (history.Action, bool, error) {
	if n <= 0 {
		return history.Action{}, false, nil
	}
	a, err := c.InsertTab(strings.Repeat(" ", n))
	return a, err == nil, err
}

// DecreaseIndent removes one leading tab, or up to width leading spaces,
// from the cursor's line. Returns false if the line has no leading
// whitespace to remove.
func (c *Cursor) DecreaseIndent(width int) (history.Action, bool, error) {
	p, err := c.Resolve()
	if err != nil {
		return history.Action{}, false, err
	}
	n := leadingIndent(c.store.Runes(c.line), width)
	if n == 0 {
		return history.Action{}, false, nil
	}
	removed, err := c.store.DeleteText(c.line, 0, n)
	if err != nil {
		return history.Action{}, false, err
	}
	c.col = max(p.Column-n, 0)

	a := history.NewDeleteTab(buffer.NewPosition(p.Line, 0), removed, p)
	a.After = buffer.CaretAt(buffer.NewPosition(p.Line, c.col))
	return a, true, nil
}

// leadingIndent returns how many runes one indentation step removes.
func leadingIndent(runes []rune, width int) int {
	if len(runes) > 0 && runes[0] == '\t' {
		return 1
	}
	n := 0
	for n < width && n < len(runes) && runes[n] == ' ' {
		n++
	}
	return n
}


package engine

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/caret/internal/engine/buffer"
	"github.com/dshills/caret/internal/engine/cursor"
	"github.com/dshills/caret/internal/syntax"
)

// ============================================================================
// Caret Movement
// ============================================================================

// move applies fn to the head of every caret. With extend the selection
// grows from its anchor; without it the selection is dropped. Carets that
// meet are merged. Returns true if any caret moved.
func (d *SourceCode) move(extend bool, fn func(*cursor.Cursor) bool) bool {
	moved := false
	for _, r := range d.ranges.Ranges() {
		if r.Move(extend, fn) {
			moved = true
		}
	}
	d.ranges.Normalize()
	d.notify(false)
	return moved
}

// ShiftLeft moves every caret one character left.
func (d *SourceCode) ShiftLeft(extend bool) bool {
	return d.move(extend, (*cursor.Cursor).ShiftLeft)
}

// ShiftRight moves every caret one character right.
func (d *SourceCode) ShiftRight(extend bool) bool {
	return d.move(extend, (*cursor.Cursor).ShiftRight)
}

// ShiftUp moves every caret one line up.
func (d *SourceCode) ShiftUp(extend bool) bool {
	return d.move(extend, (*cursor.Cursor).ShiftUp)
}

// ShiftDown moves every caret one line down.
func (d *SourceCode) ShiftDown(extend bool) bool {
	return d.move(extend, (*cursor.Cursor).ShiftDown)
}

// ShiftHome moves every caret to the start of its line.
func (d *SourceCode) ShiftHome(extend bool) bool {
	return d.move(extend, (*cursor.Cursor).ShiftHome)
}

// ShiftEnd moves every caret to the end of its line.
func (d *SourceCode) ShiftEnd(extend bool) bool {
	return d.move(extend, (*cursor.Cursor).ShiftEnd)
}

// ShiftDocumentStart moves every caret to the start of the document.
func (d *SourceCode) ShiftDocumentStart(extend bool) bool {
	return d.move(extend, (*cursor.Cursor).ShiftDocumentStart)
}

// ShiftDocumentEnd moves every caret to the end of the document.
func (d *SourceCode) ShiftDocumentEnd(extend bool) bool {
	return d.move(extend, (*cursor.Cursor).ShiftDocumentEnd)
}

// ShiftWordLeft moves every caret to the previous token boundary reported
// by hl. hl is updated with the current text first; nil uses plain-text
// segmentation.
func (d *SourceCode) ShiftWordLeft(hl syntax.Highlighter, extend bool) bool {
	hl = d.highlighter(hl)
	return d.move(extend, func(c *cursor.Cursor) bool { return c.ShiftWordLeft(hl) })
}

// ShiftWordRight moves every caret to the next token boundary reported by
// hl.
func (d *SourceCode) ShiftWordRight(hl syntax.Highlighter, extend bool) bool {
	hl = d.highlighter(hl)
	return d.move(extend, func(c *cursor.Cursor) bool { return c.ShiftWordRight(hl) })
}

func (d *SourceCode) highlighter(hl syntax.Highlighter) syntax.Highlighter {
	if hl == nil {
		hl = syntax.NewPlain()
	}
	hl.Update(d.store.Lines())
	return hl
}

// ============================================================================
// Selection
// ============================================================================

// SetCaret replaces every caret with a single caret at p.
func (d *SourceCode) SetCaret(p Position) error {
	return d.SetPrimarySelectionRange(buffer.CaretAt(p))
}

// SelectRange replaces every caret with a single selection from tail to
// head.
func (d *SourceCode) SelectRange(tail, head Position) error {
	return d.SetPrimarySelectionRange(buffer.NewSelection(tail, head))
}

// SetPrimarySelectionRange replaces every caret with sel.
func (d *SourceCode) SetPrimarySelectionRange(sel Selection) error {
	if err := d.ranges.SetPrimary(sel); err != nil {
		return err
	}
	d.notify(false)
	return nil
}

// AddSelectionRange adds a caret. A selection that coincides with or
// overlaps an existing caret is absorbed by it.
func (d *SourceCode) AddSelectionRange(sel Selection) error {
	if _, err := d.ranges.Add(sel); err != nil {
		return err
	}
	d.notify(false)
	return nil
}

// AddCaret adds a caret at p.
func (d *SourceCode) AddCaret(p Position) error {
	return d.AddSelectionRange(buffer.CaretAt(p))
}

// SelectRanges replaces every caret, keeping the given order. Overlapping
// selections are merged, lower index first.
func (d *SourceCode) SelectRanges(sels []Selection) error {
	if err := d.ranges.SelectRanges(sels); err != nil {
		return err
	}
	d.notify(false)
	return nil
}

// SelectAll selects the whole document with a single caret at the end.
func (d *SourceCode) SelectAll() {
	// The full-document selection is always valid.
	_ = d.SetPrimarySelectionRange(d.allSelection())
}

// SelectTokenAtPosition places a single caret at p and selects the token
// under it. Returns false if p is not on a token; the caret is still moved.
func (d *SourceCode) SelectTokenAtPosition(p Position, hl syntax.Highlighter) (bool, error) {
	if err := d.ranges.SetPrimary(buffer.CaretAt(p)); err != nil {
		return false, err
	}
	ok := d.ranges.Primary().SelectToken(d.highlighter(hl))
	d.notify(false)
	return ok, nil
}

// ColumnSelect selects the rectangle between from and to, one caret per
// line. Columns are measured visually, expanding tabs and counting wide
// characters twice; lines shorter than the rectangle get a caret at their
// end. The caret on from's line becomes primary.
func (d *SourceCode) ColumnSelect(from, to Position) error {
	if err := d.Validate(from); err != nil {
		return err
	}
	if err := d.Validate(to); err != nil {
		return err
	}
	tabWidth := d.indent.Width
	fromRunes := []rune(d.mustLine(from.Line))
	toRunes := []rune(d.mustLine(to.Line))
	tailCol := visualWidth(fromRunes[:from.Column], tabWidth)
	headCol := visualWidth(toRunes[:to.Column], tabWidth)

	step := 1
	if to.Line < from.Line {
		step = -1
	}
	sels := make([]Selection, 0, abs(to.Line-from.Line)+1)
	for line := from.Line; ; line += step {
		runes := []rune(d.mustLine(line))
		sels = append(sels, buffer.NewSelection(
			buffer.NewPosition(line, columnAt(runes, tailCol, tabWidth)),
			buffer.NewPosition(line, columnAt(runes, headCol, tabWidth)),
		))
		if line == to.Line {
			break
		}
	}
	return d.SelectRanges(sels)
}

// visualWidth returns the display width of runes.
func visualWidth(runes []rune, tabWidth int) int {
	width := 0
	for _, r := range runes {
		if r == '\t' {
			width += tabWidth - width%tabWidth
			continue
		}
		width += runewidth.RuneWidth(r)
	}
	return width
}

// columnAt returns the rune column at display column visual, clamped to
// the end of the line.
func columnAt(runes []rune, visual, tabWidth int) int {
	width := 0
	for i, r := range runes {
		if width >= visual {
			return i
		}
		if r == '\t' {
			width += tabWidth - width%tabWidth
			continue
		}
		width += runewidth.RuneWidth(r)
	}
	return len(runes)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ClearSecondaryCarets removes every caret except the primary.
func (d *SourceCode) ClearSecondaryCarets() {
	d.ranges.ClearSecondary()
	d.notify(false)
}

// RemoveCaret removes the caret at index. The last caret cannot be
// removed.
func (d *SourceCode) RemoveCaret(index int) bool {
	if !d.ranges.Remove(index) {
		return false
	}
	d.notify(false)
	return true
}

// ClearSelections drops the selection of every caret, keeping the carets.
func (d *SourceCode) ClearSelections() {
	for _, r := range d.ranges.Ranges() {
		r.ClearSelection()
	}
	d.ranges.Normalize()
	d.notify(false)
}

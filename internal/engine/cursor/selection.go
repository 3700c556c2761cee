package cursor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/caret/internal/engine/buffer"
	"github.com/dshills/caret/internal/engine/history"
	"github.com/dshills/caret/internal/syntax"
)

// IndentStyle describes one level of indentation.
type IndentStyle struct {
	Width int  // columns per level
	Tabs  bool // indent with a tab rather than Width spaces
}

// Unit returns the text of one indentation level.
func (s IndentStyle) Unit() string {
	if s.Tabs {
		return "\t"
	}
	return strings.Repeat(" ", s.width())
}

func (s IndentStyle) width() int {
	if s.Width <= 0 {
		return 4
	}
	return s.Width
}

// Range is one caret plus an optional selection.
// The tail is the anchor and is nil for a bare caret; the head is the
// active end where typing occurs.
type Range struct {
	store *buffer.Store
	tail  *Cursor
	head  *Cursor
}

// NewRange creates a range from a durable selection.
func NewRange(store *buffer.Store, sel buffer.Selection) (*Range, error) {
	r := &Range{store: store}
	if err := r.Set(sel); err != nil {
		return nil, err
	}
	return r, nil
}

// Head returns the active end of the range.
func (r *Range) Head() *Cursor {
	return r.head
}

// Tail returns the anchor of the range, or nil for a bare caret.
func (r *Range) Tail() *Cursor {
	return r.tail
}

// Set replaces the range with a durable selection.
func (r *Range) Set(sel buffer.Selection) error {
	head, err := New(r.store, sel.Head)
	if err != nil {
		return err
	}
	var tail *Cursor
	if sel.HasTail {
		if tail, err = New(r.store, sel.Tail); err != nil {
			return err
		}
	}
	r.head, r.tail = head, tail
	return nil
}

// SetCaret collapses the range to a caret at p.
func (r *Range) SetCaret(p buffer.Position) error {
	return r.Set(buffer.CaretAt(p))
}

// Selection returns the durable form of the range.
func (r *Range) Selection() buffer.Selection {
	if r.tail == nil {
		return buffer.CaretAt(r.head.Position())
	}
	return buffer.NewSelection(r.tail.Position(), r.head.Position())
}

// Resolve returns the durable form of the range, or an error wrapping
// buffer.ErrInvalidState if either end no longer resolves.
func (r *Range) Resolve() (buffer.Selection, error) {
	head, err := r.head.Resolve()
	if err != nil {
		return buffer.Selection{}, fmt.Errorf("head: %w", err)
	}
	if r.tail == nil {
		return buffer.CaretAt(head), nil
	}
	tail, err := r.tail.Resolve()
	if err != nil {
		return buffer.Selection{}, fmt.Errorf("tail: %w", err)
	}
	return buffer.NewSelection(tail, head), nil
}

// IsRangeSelected returns true if the tail is present and differs from
// the head.
func (r *Range) IsRangeSelected() bool {
	return r.Selection().IsRange()
}

// OrderedCursors returns the ends of the range in document order.
func (r *Range) OrderedCursors() (start, end *Cursor) {
	if r.tail == nil {
		return r.head, r.head
	}
	if r.tail.Position().After(r.head.Position()) {
		return r.head, r.tail
	}
	return r.tail, r.head
}

// Start returns the lower bound of the range.
func (r *Range) Start() buffer.Position {
	return r.Selection().Start()
}

// End returns the upper bound of the range.
func (r *Range) End() buffer.Position {
	return r.Selection().End()
}

// ClearSelection drops the tail, leaving a caret at the head.
func (r *Range) ClearSelection() {
	r.tail = nil
}

// SelectedText returns the text between the bounds, lines joined by "\n".
func (r *Range) SelectedText() string {
	if !r.IsRangeSelected() {
		return ""
	}
	return textBetween(r.store, r.Start(), r.End())
}

// textBetween returns the text from start to end.
func textBetween(store *buffer.Store, start, end buffer.Position) string {
	var sb strings.Builder
	for line := start.Line; line <= end.Line; line++ {
		h, err := store.At(line)
		if err != nil {
			break
		}
		runes := store.Runes(h)
		from, to := 0, len(runes)
		if line == start.Line {
			from = min(start.Column, to)
		}
		if line == end.Line {
			to = min(end.Column, to)
		}
		if line > start.Line {
			sb.WriteByte('\n')
		}
		if from < to {
			sb.WriteString(string(runes[from:to]))
		}
	}
	return sb.String()
}

// Move moves the head with move. With extend the tail is kept (or set at
// the old head); without it the selection is dropped.
func (r *Range) Move(extend bool, move func(*Cursor) bool) bool {
	if extend {
		if r.tail == nil {
			r.tail = r.head.Clone()
		}
	} else {
		r.tail = nil
	}
	return move(r.head)
}

// SelectToken selects the token under or directly before the head.
// Returns false if the head is not on a token.
func (r *Range) SelectToken(hl syntax.Highlighter) bool {
	lines, offsets, index, ok := r.head.locate()
	if !ok {
		return false
	}
	hl = highlighter(hl, lines)

	var span syntax.Span
	found := false
	if after := hl.SpansAfter(index); len(after) > 0 && after[0].Start <= index {
		span, found = after[0], true
	} else if before := hl.SpansBefore(index); len(before) > 0 && before[0].End == index {
		span, found = before[0], true
	}
	if !found {
		return false
	}

	start, err := offsets.Position(span.Start)
	if err != nil {
		return false
	}
	end, err := offsets.Position(span.End)
	if err != nil {
		return false
	}
	return r.Set(buffer.NewSelection(start, end)) == nil
}

// ============================================================================
// Recorded edits
// ============================================================================

// RemoveSelectedRange deletes the selected text and collapses the range
// to a caret at its start. Returns false if nothing is selected.
func (r *Range) RemoveSelectedRange(list *history.ActionList) (bool, error) {
	if !r.IsRangeSelected() {
		return false, nil
	}
	start, end := r.Start(), r.End()
	if err := removeBetween(r.store, start, end, list); err != nil {
		return false, err
	}
	r.tail = nil
	return true, r.head.MoveTo(start)
}

// removeBetween deletes from start to end as a sequence of character and
// line break deletions at start.
func removeBetween(store *buffer.Store, start, end buffer.Position, list *history.ActionList) error {
	lines := store.Lines()
	if end.Line >= len(lines) {
		return fmt.Errorf("remove to %s: %w", end, buffer.ErrInvalidPosition)
	}
	c, err := New(store, start)
	if err != nil {
		return err
	}

	if start.Line == end.Line {
		return deleteForward(c, end.Column-start.Column, list)
	}

	if err := deleteForward(c, utf8.RuneCountInString(lines[start.Line])-start.Column, list); err != nil {
		return err
	}
	for line := start.Line + 1; line <= end.Line; line++ {
		a, _, err := c.RemoveCharacterAfter()
		if err != nil {
			return err
		}
		list.Add(a)

		n := utf8.RuneCountInString(lines[line])
		if line == end.Line {
			n = end.Column
		}
		if err := deleteForward(c, n, list); err != nil {
			return err
		}
	}
	return nil
}

func deleteForward(c *Cursor, n int, list *history.ActionList) error {
	if n <= 0 {
		return nil
	}
	a, err := c.DeleteForward(n)
	if err != nil {
		return err
	}
	list.Add(a)
	return nil
}

// InsertString replaces the selection with text. Line breaks in text
// split lines.
func (r *Range) InsertString(text string, list *history.ActionList) error {
	if _, err := r.RemoveSelectedRange(list); err != nil {
		return err
	}
	r.tail = nil
	return insertAt(r.head, text, list)
}

// insertAt inserts text at c as character and line break actions,
// leaving c after the inserted text.
func insertAt(c *Cursor, text string, list *history.ActionList) error {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for i, part := range strings.Split(text, "\n") {
		if i > 0 {
			a, err := c.InsertLineBreak()
			if err != nil {
				return err
			}
			list.Add(a)
		}
		if part == "" {
			continue
		}
		a, err := c.InsertText(part)
		if err != nil {
			return err
		}
		list.Add(a)
	}
	return nil
}

// InsertCharacter replaces the selection with ch.
func (r *Range) InsertCharacter(ch rune, list *history.ActionList) error {
	return r.InsertString(string(ch), list)
}

// InsertLineBreak replaces the selection with a line break.
func (r *Range) InsertLineBreak(list *history.ActionList) error {
	return r.InsertString("\n", list)
}

// RemoveCharacterBefore deletes the selection, or the character before the
// caret. Returns false at the start of the document.
func (r *Range) RemoveCharacterBefore(list *history.ActionList) (bool, error) {
	if removed, err := r.RemoveSelectedRange(list); removed || err != nil {
		return removed, err
	}
	r.tail = nil
	a, ok, err := r.head.RemoveCharacterBefore()
	if ok {
		list.Add(a)
	}
	return ok, err
}

// RemoveCharacterAfter deletes the selection, or the character after the
// caret. Returns false at the end of the document.
func (r *Range) RemoveCharacterAfter(list *history.ActionList) (bool, error) {
	if removed, err := r.RemoveSelectedRange(list); removed || err != nil {
		return removed, err
	}
	r.tail = nil
	a, ok, err := r.head.RemoveCharacterAfter()
	if ok {
		list.Add(a)
	}
	return ok, err
}

// LineSpan returns the lines touched by the range. A selection ending at
// column 0 of a later line does not include that line.
func (r *Range) LineSpan() (first, last int) {
	start, end := r.Start(), r.End()
	first, last = start.Line, end.Line
	if last > first && end.Column == 0 {
		last--
	}
	return first, last
}

// IncreaseIndent indents every selected line by one level. Without a
// selection, indentation is inserted at the caret up to the next tab stop.
func (r *Range) IncreaseIndent(style IndentStyle, list *history.ActionList) error {
	if !r.IsRangeSelected() {
		r.tail = nil
		if style.Tabs {
			a, err := r.head.IncreaseIndent("\t")
			if err != nil {
				return err
			}
			list.Add(a)
			return nil
		}
		w := style.width()
		a, ok, err := r.head.PartialIncreaseIndent(w - visualColumn(r.store.Runes(r.head.line)[:r.head.col], w)%w)
		if ok {
			list.Add(a)
		}
		return err
	}

	// Ends at column 0 stay at the line start so whole lines stay selected.
	var anchored []*Cursor
	for _, c := range []*Cursor{r.tail, r.head} {
		if c != nil && c.col == 0 {
			anchored = append(anchored, c)
		}
	}
	defer func() {
		for _, c := range anchored {
			c.col = 0
		}
	}()

	first, last := r.LineSpan()
	unit := style.Unit()
	for line := first; line <= last; line++ {
		text, err := r.store.LineText(line)
		if err != nil {
			return err
		}
		if text == "" {
			continue
		}
		c, err := New(r.store, buffer.NewPosition(line, 0))
		if err != nil {
			return err
		}
		a, err := c.InsertTab(unit)
		if err != nil {
			return err
		}
		list.Add(a)
	}
	return nil
}

// DecreaseIndent removes one level of leading whitespace from every line
// touched by the range. Lines without leading whitespace are unchanged.
func (r *Range) DecreaseIndent(style IndentStyle, list *history.ActionList) error {
	first, last := r.LineSpan()
	for line := first; line <= last; line++ {
		c, err := New(r.store, buffer.NewPosition(line, 0))
		if err != nil {
			return err
		}
		a, ok, err := c.DecreaseIndent(style.width())
		if err != nil {
			return err
		}
		if ok {
			list.Add(a)
		}
	}
	return nil
}

// visualColumn returns the display column after runes, expanding tabs.
func visualColumn(runes []rune, tabWidth int) int {
	col := 0
	for _, r := range runes {
		if r == '\t' {
			col += tabWidth - col%tabWidth
			continue
		}
		col++
	}
	return col
}

// DuplicateSelection inserts a copy of the selection after it and selects
// the copy. Without a selection the current line is duplicated below and
// the caret moves onto the copy.
func (r *Range) DuplicateSelection(list *history.ActionList) error {
	if r.IsRangeSelected() {
		text := r.SelectedText()
		end := r.End()
		c, err := New(r.store, end)
		if err != nil {
			return err
		}
		if err := insertAt(c, text, list); err != nil {
			return err
		}
		return r.Set(buffer.NewSelection(end, c.Position()))
	}

	p := r.head.Position()
	text := r.store.Line(r.head.line)
	c, err := New(r.store, buffer.NewPosition(p.Line, utf8.RuneCountInString(text)))
	if err != nil {
		return err
	}
	if err := insertAt(c, "\n"+text, list); err != nil {
		return err
	}
	return r.SetCaret(buffer.NewPosition(p.Line+1, p.Column))
}

// MoveLinesUp moves the lines touched by the range above the previous
// line. Returns false on the first line.
func (r *Range) MoveLinesUp(list *history.ActionList) (bool, error) {
	first, last := r.LineSpan()
	if first == 0 {
		return false, nil
	}
	sel := r.Selection()
	for line := first - 1; line < last; line++ {
		if err := r.swap(line, list); err != nil {
			return false, err
		}
	}
	return true, r.Set(r.shiftLines(sel, -1))
}

// MoveLinesDown moves the lines touched by the range below the next line.
// Returns false on the last line.
func (r *Range) MoveLinesDown(list *history.ActionList) (bool, error) {
	first, last := r.LineSpan()
	if last+1 >= r.store.Len() {
		return false, nil
	}
	sel := r.Selection()
	for line := last; line >= first; line-- {
		if err := r.swap(line, list); err != nil {
			return false, err
		}
	}
	return true, r.Set(r.shiftLines(sel, 1))
}

// swap exchanges line with line+1.
func (r *Range) swap(line int, list *history.ActionList) error {
	h, err := r.store.At(line)
	if err != nil {
		return err
	}
	before := r.head.Position()
	if err := r.store.SwapWithNext(h); err != nil {
		return err
	}
	list.Add(history.NewSwapLine(line, before, r.head.Position()))
	return nil
}

// shiftLines moves sel by delta lines. A position pushed past the last
// line is clamped to the end of the document.
func (r *Range) shiftLines(sel buffer.Selection, delta int) buffer.Selection {
	shift := func(p buffer.Position) buffer.Position {
		p.Line += delta
		if last := r.store.Len() - 1; p.Line > last {
			return buffer.NewPosition(last, r.store.RuneLen(r.store.Last()))
		}
		return p
	}
	sel.Head = shift(sel.Head)
	if sel.HasTail {
		sel.Tail = shift(sel.Tail)
	}
	return sel
}

// ReplaceSelection replaces the selected text with convert(text) and
// selects the result, keeping the selection direction. Returns false if
// nothing is selected or the text is unchanged.
func (r *Range) ReplaceSelection(convert func(string) string, list *history.ActionList) (bool, error) {
	if !r.IsRangeSelected() {
		return false, nil
	}
	sel := r.Selection()
	text := r.SelectedText()
	replaced := convert(text)
	if replaced == text {
		return false, nil
	}

	if _, err := r.RemoveSelectedRange(list); err != nil {
		return false, err
	}
	start := r.head.Position()
	if err := insertAt(r.head, replaced, list); err != nil {
		return false, err
	}
	end := r.head.Position()

	if sel.Head.Before(sel.Tail) {
		return true, r.Set(buffer.NewSelection(end, start))
	}
	return true, r.Set(buffer.NewSelection(start, end))
}

package engine

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/dshills/caret/internal/engine/buffer"
	"github.com/dshills/caret/internal/engine/cursor"
	"github.com/dshills/caret/internal/engine/history"
)

// Re-export commonly used types for convenience.
type (
	// Position is a durable line/column position.
	Position = buffer.Position

	// Selection is a durable (tail?, head) pair.
	Selection = buffer.Selection

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding

	// IndentStyle describes one level of indentation.
	IndentStyle = cursor.IndentStyle
)

// Re-export constants.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
	LineEndingCR   = buffer.LineEndingCR
)

// SourceCode is an in-memory source document: a line store, the carets
// editing it and their undo history.
//
// Every edit command visits the carets in document order and records what
// each caret did, so one Undo restores the text and every caret exactly.
// SourceCode is not safe for concurrent use.
type SourceCode struct {
	id uuid.UUID

	// Core components
	store   *buffer.Store
	ranges  *cursor.Collection
	history *history.Manager

	// Collaborators
	listeners  []Listener
	clipboard  Clipboard
	completion CompletionHandler
	log        commonlog.Logger

	// Configuration
	indent         cursor.IndentStyle
	lineEnding     *buffer.LineEnding
	maxUndoEntries int
	readOnly       bool

	revision uint64

	// Initialization
	initContent string
}

// New creates a document with the given options.
func New(opts ...Option) *SourceCode {
	d := &SourceCode{
		id:             uuid.New(),
		indent:         cursor.IndentStyle{Width: DefaultTabWidth},
		maxUndoEntries: DefaultMaxUndoEntries,
		log:            commonlog.GetLogger("caret.engine"),
	}

	for _, opt := range opts {
		opt(d)
	}

	storeOpts := []buffer.Option{buffer.WithDetectedLineEnding(d.initContent)}
	if d.lineEnding != nil {
		storeOpts = append(storeOpts, buffer.WithLineEnding(*d.lineEnding))
	}
	d.store = buffer.New(d.initContent, storeOpts...)
	d.initContent = ""

	d.ranges = cursor.NewCollection(d.store)
	d.history = history.NewManager(d.maxUndoEntries)
	return d
}

// NewFromReader creates a document with content read from r.
func NewFromReader(r io.Reader, opts ...Option) (*SourceCode, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return New(append([]Option{WithContent(string(data))}, opts...)...), nil
}

// ID returns the document's unique identifier.
func (d *SourceCode) ID() uuid.UUID {
	return d.id
}

// Revision returns a counter incremented on every text change, including
// undo and redo.
func (d *SourceCode) Revision() uint64 {
	return d.revision
}

// IsReadOnly returns true if edits are rejected.
func (d *SourceCode) IsReadOnly() bool {
	return d.readOnly
}

// IndentStyle returns the indentation used by indent commands.
func (d *SourceCode) IndentStyle() cursor.IndentStyle {
	return d.indent
}

// TabWidth returns the number of columns per indentation level.
func (d *SourceCode) TabWidth() int {
	return d.indent.Width
}

// LineEnding returns the line ending used by Text.
func (d *SourceCode) LineEnding() LineEnding {
	return d.store.LineEnding()
}

// AddListener registers a listener.
func (d *SourceCode) AddListener(l Listener) {
	d.listeners = append(d.listeners, l)
}

// SetClipboard replaces the clipboard used by Cut, Copy and Paste.
func (d *SourceCode) SetClipboard(c Clipboard) {
	d.clipboard = c
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full document joined with its line ending.
func (d *SourceCode) Text() string {
	return d.store.String()
}

// Lines returns the text of every line.
func (d *SourceCode) Lines() []string {
	return d.store.Lines()
}

// LineCount returns the number of lines. A document has at least one.
func (d *SourceCode) LineCount() int {
	return d.store.Len()
}

// Line returns the text of a 0-indexed line.
func (d *SourceCode) Line(line int) (string, error) {
	return d.store.LineText(line)
}

// mustLine returns the text of a line already checked by Validate.
func (d *SourceCode) mustLine(line int) string {
	text, err := d.store.LineText(line)
	if err != nil {
		d.log.Errorf("document %s: line %d: %s", d.id, line, err)
	}
	return text
}

// LineLength returns the rune length of a line.
func (d *SourceCode) LineLength(line int) (int, error) {
	text, err := d.store.LineText(line)
	if err != nil {
		return 0, err
	}
	return utf8.RuneCountInString(text), nil
}

// IsEmpty returns true if the document holds no text.
func (d *SourceCode) IsEmpty() bool {
	return d.store.Len() == 1 && d.store.RuneLen(d.store.First()) == 0
}

// Validate returns ErrInvalidPosition if p is outside the document.
func (d *SourceCode) Validate(p Position) error {
	_, _, err := d.store.Resolve(p)
	return err
}

// CharacterIndex converts a position into a flat character index, counting
// one character per line break.
func (d *SourceCode) CharacterIndex(p Position) (int, error) {
	return p.ToCharacterIndex(d.store.Lines())
}

// PositionAt converts a flat character index into a position.
func (d *SourceCode) PositionAt(index int) (Position, error) {
	return buffer.FromCharacterIndex(index, d.store.Lines())
}

// Offsets returns a character index table for the current text.
func (d *SourceCode) Offsets() buffer.Offsets {
	return buffer.NewOffsets(d.store.Lines())
}

// TextRange returns the text between two positions, lines joined by "\n".
func (d *SourceCode) TextRange(from, to Position) (string, error) {
	if err := d.Validate(from); err != nil {
		return "", err
	}
	if err := d.Validate(to); err != nil {
		return "", err
	}
	start, end := buffer.MinPosition(from, to), buffer.MaxPosition(from, to)

	lines := d.store.Lines()[start.Line : end.Line+1]
	last := len(lines) - 1
	lines[last] = string([]rune(lines[last])[:end.Column])
	if last == 0 {
		return string([]rune(lines[0])[start.Column:]), nil
	}
	lines[0] = string([]rune(lines[0])[start.Column:])
	return strings.Join(lines, "\n"), nil
}

// ============================================================================
// Caret Queries
// ============================================================================

// CaretCount returns the number of carets.
func (d *SourceCode) CaretCount() int {
	return d.ranges.Count()
}

// Selections returns every caret's selection in collection order.
// A caret that no longer resolves is logged and reported leniently.
func (d *SourceCode) Selections() []Selection {
	sels, err := d.ranges.Resolve()
	if err != nil {
		d.log.Errorf("document %s: %s", d.id, err)
		return d.ranges.Selections()
	}
	return sels
}

// PrimarySelection returns the selection of the primary caret.
func (d *SourceCode) PrimarySelection() Selection {
	return d.ranges.Primary().Selection()
}

// PrimaryPosition returns the head of the primary caret.
func (d *SourceCode) PrimaryPosition() Position {
	return d.ranges.Primary().Head().Position()
}

// HasSelection returns true if any caret has a selection.
func (d *SourceCode) HasSelection() bool {
	return d.ranges.HasSelection()
}

// GetSelectedText returns the selected text of every caret in document
// order, joined by "\n". Carets without a selection contribute nothing.
func (d *SourceCode) GetSelectedText() string {
	var parts []string
	for _, i := range d.ranges.DocumentOrder() {
		r := d.ranges.Get(i)
		if r.IsRangeSelected() {
			parts = append(parts, r.SelectedText())
		}
	}
	return strings.Join(parts, "\n")
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo reverts the most recent edit and restores every caret.
func (d *SourceCode) Undo() error {
	if d.readOnly {
		return ErrReadOnly
	}
	err := d.history.Undo(replayTarget{d})
	d.afterReplay(err)
	return err
}

// Redo reapplies the most recently undone edit and restores every caret.
func (d *SourceCode) Redo() error {
	if d.readOnly {
		return ErrReadOnly
	}
	err := d.history.Redo(replayTarget{d})
	d.afterReplay(err)
	return err
}

func (d *SourceCode) afterReplay(err error) {
	if errors.Is(err, ErrNothingToUndo) || errors.Is(err, ErrNothingToRedo) {
		return
	}
	if err != nil {
		d.log.Errorf("document %s: %s", d.id, err)
	}
	d.revision++
	d.notify(true)
}

// CanUndo returns true if undo is available.
func (d *SourceCode) CanUndo() bool {
	return d.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (d *SourceCode) CanRedo() bool {
	return d.history.CanRedo()
}

// UndoCount returns the number of undo entries available.
func (d *SourceCode) UndoCount() int {
	return d.history.UndoCount()
}

// RedoCount returns the number of redo entries available.
func (d *SourceCode) RedoCount() int {
	return d.history.RedoCount()
}

// BeginUndoGroup starts merging edits into one undo entry.
func (d *SourceCode) BeginUndoGroup() {
	d.history.BeginGroup()
}

// EndUndoGroup ends the undo group, naming the merged entry.
func (d *SourceCode) EndUndoGroup(description string) {
	d.history.EndGroup(description)
}

// CancelUndoGroup discards the pending undo group.
func (d *SourceCode) CancelUndoGroup() {
	d.history.CancelGroup()
}

// ClearHistory removes all undo/redo history.
func (d *SourceCode) ClearHistory() {
	d.history.Clear()
}

// History returns the document's history manager.
func (d *SourceCode) History() *history.Manager {
	return d.history
}

// replayTarget applies history actions to the document's store.
type replayTarget struct {
	d *SourceCode
}

func (t replayTarget) InsertText(at Position, text string) error {
	h, col, err := t.d.store.Resolve(at)
	if err != nil {
		return err
	}
	return t.d.store.InsertText(h, col, text)
}

func (t replayTarget) DeleteText(at Position, text string) error {
	h, col, err := t.d.store.Resolve(at)
	if err != nil {
		return err
	}
	runes := t.d.store.Runes(h)
	n := utf8.RuneCountInString(text)
	if col+n > len(runes) || string(runes[col:col+n]) != text {
		return fmt.Errorf("expected %q at %s: %w", text, at, ErrInvalidState)
	}
	_, err = t.d.store.DeleteText(h, col, n)
	return err
}

func (t replayTarget) InsertLineBreak(at Position) error {
	h, col, err := t.d.store.Resolve(at)
	if err != nil {
		return err
	}
	_, err = t.d.store.Split(h, col)
	return err
}

func (t replayTarget) DeleteLineBreak(line int) error {
	h, err := t.d.store.At(line)
	if err != nil {
		return err
	}
	return t.d.store.Join(h)
}

func (t replayTarget) SwapLines(line int) error {
	h, err := t.d.store.At(line)
	if err != nil {
		return err
	}
	return t.d.store.SwapWithNext(h)
}

func (t replayTarget) SelectRanges(sels []Selection) error {
	return t.d.ranges.SelectRanges(sels)
}

// ============================================================================
// Batch Edits
// ============================================================================

// rangeEdit performs one caret's part of an edit, recording into list.
type rangeEdit func(r *cursor.Range, list *history.ActionList) error

// batch runs edit for every caret in document order (reverse order when
// reverse is set) and commits the recorded actions as one history item.
//
// Each caret sees the text as left by the carets before it. A caret whose
// head has converged onto an already edited caret is skipped. A failing
// caret is logged and skipped; the carets that succeeded are still
// committed and the errors are joined.
func (d *SourceCode) batch(description string, reverse bool, edit rangeEdit) error {
	if d.readOnly {
		return ErrReadOnly
	}

	before, err := d.ranges.Resolve()
	if err != nil {
		d.log.Errorf("document %s: %s: %s", d.id, description, err)
		return err
	}
	order := d.ranges.DocumentOrder()
	if reverse {
		slices.Reverse(order)
	}

	lists := make([]*history.ActionList, 0, len(order))
	done := make([]*cursor.Range, 0, len(order))
	var errs []error
	for _, i := range order {
		r := d.ranges.Get(i)
		lists = append(lists, history.NewActionList(i))
		if converged(r, done) {
			continue
		}
		if err := edit(r, lists[len(lists)-1]); err != nil {
			d.log.Warningf("document %s: %s: caret %d at %s skipped: %s",
				d.id, description, i, before[i].Head, err)
			errs = append(errs, fmt.Errorf("caret %d: %w", i, err))
		}
		done = append(done, r)
	}

	item := history.NewItem(description)
	for _, list := range lists {
		after, err := d.ranges.Get(list.Index).Resolve()
		if err != nil {
			d.log.Errorf("document %s: %s: caret %d: %s", d.id, description, list.Index, err)
			errs = append(errs, fmt.Errorf("caret %d: %w", list.Index, err))
			after = d.ranges.Get(list.Index).Selection()
		}
		list.SetCursorMove(before[list.Index], after)
		item.Add(list)
	}
	changed := item.HasChanges()
	d.history.Add(item)
	d.ranges.Normalize()

	if changed {
		d.revision++
	}
	d.notify(changed)
	return errors.Join(errs...)
}

// converged returns true if r's head coincides with the head of a caret
// already edited in this pass.
func converged(r *cursor.Range, done []*cursor.Range) bool {
	head := r.Head().Position()
	return slices.ContainsFunc(done, func(o *cursor.Range) bool {
		return o.Head().Position() == head
	})
}

// ============================================================================
// Notifications
// ============================================================================

func (d *SourceCode) notify(textChanged bool) {
	for _, l := range d.listeners {
		if textChanged {
			l.TextChanged()
		}
		l.CursorsChanged()
	}
}

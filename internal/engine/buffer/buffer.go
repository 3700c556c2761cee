package buffer

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Handle references one line of a Store.
// The zero Handle never refers to a line.
type Handle struct {
	slot int32
	gen  uint32
}

// IsZero returns true for the zero handle.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

// String returns a debugging representation of the handle.
func (h Handle) String() string {
	return fmt.Sprintf("#%d.%d", h.slot, h.gen)
}

type record struct {
	text   []rune
	number int
	gen    uint32
	live   bool
}

// Store is an ordered sequence of lines with stable identity.
// A store always holds at least one line.
type Store struct {
	records     []record
	order       []int32
	free        []int32
	lineEnding  LineEnding
	subscribers []func(Edit)
}

// New creates a store holding text split into lines.
// Both \r\n and \r are accepted as line breaks.
func New(text string, opts ...Option) *Store {
	s := &Store{lineEnding: LineEndingLF}
	for _, opt := range opts {
		opt(s)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for _, line := range strings.Split(text, "\n") {
		s.insertAt(len(s.order), []rune(line))
	}
	return s
}

// alloc places text in a free slot and returns its handle.
func (s *Store) alloc(text []rune) int32 {
	if n := len(s.free); n > 0 {
		slot := s.free[n-1]
		s.free = s.free[:n-1]
		r := &s.records[slot]
		r.text = text
		r.live = true
		return slot
	}
	s.records = append(s.records, record{text: text, gen: 1, live: true})
	return int32(len(s.records) - 1)
}

// release frees a slot; its generation moves on so old handles go stale.
func (s *Store) release(slot int32) {
	r := &s.records[slot]
	r.text = nil
	r.live = false
	r.gen++
	s.free = append(s.free, slot)
}

func (s *Store) handleOf(slot int32) Handle {
	return Handle{slot: slot, gen: s.records[slot].gen}
}

func (s *Store) record(h Handle) (*record, error) {
	if h.slot < 0 || int(h.slot) >= len(s.records) {
		return nil, fmt.Errorf("line %s: %w", h, ErrInvalidState)
	}
	r := &s.records[h.slot]
	if !r.live || r.gen != h.gen {
		return nil, fmt.Errorf("line %s: %w", h, ErrInvalidState)
	}
	return r, nil
}

func (s *Store) renumber(from int) {
	for i := from; i < len(s.order); i++ {
		s.records[s.order[i]].number = i
	}
}

// insertAt links a new line at index and renumbers the lines after it.
func (s *Store) insertAt(index int, text []rune) Handle {
	slot := s.alloc(text)
	s.order = slices.Insert(s.order, index, slot)
	s.renumber(index)
	return s.handleOf(slot)
}

// Len returns the number of lines.
func (s *Store) Len() int {
	return len(s.order)
}

// LineEnding returns the line ending used by String.
func (s *Store) LineEnding() LineEnding {
	return s.lineEnding
}

// Valid returns true if h refers to a line of this store.
func (s *Store) Valid(h Handle) bool {
	_, err := s.record(h)
	return err == nil
}

// At returns the handle of the given 0-indexed line.
func (s *Store) At(line int) (Handle, error) {
	if line < 0 || line >= len(s.order) {
		return Handle{}, fmt.Errorf("line %d of %d: %w", line, len(s.order), ErrInvalidPosition)
	}
	return s.handleOf(s.order[line]), nil
}

// First returns the handle of the first line.
func (s *Store) First() Handle {
	return s.handleOf(s.order[0])
}

// Last returns the handle of the last line.
func (s *Store) Last() Handle {
	return s.handleOf(s.order[len(s.order)-1])
}

// Number returns the 0-indexed line number of h.
func (s *Store) Number(h Handle) (int, error) {
	r, err := s.record(h)
	if err != nil {
		return 0, err
	}
	return r.number, nil
}

// Next returns the line after h.
func (s *Store) Next(h Handle) (Handle, bool) {
	r, err := s.record(h)
	if err != nil || r.number+1 >= len(s.order) {
		return Handle{}, false
	}
	return s.handleOf(s.order[r.number+1]), true
}

// Prev returns the line before h.
func (s *Store) Prev(h Handle) (Handle, bool) {
	r, err := s.record(h)
	if err != nil || r.number == 0 {
		return Handle{}, false
	}
	return s.handleOf(s.order[r.number-1]), true
}

// Line returns the text of h, or "" if h is not valid.
func (s *Store) Line(h Handle) string {
	r, err := s.record(h)
	if err != nil {
		return ""
	}
	return string(r.text)
}

// Runes returns a copy of the runes of h.
func (s *Store) Runes(h Handle) []rune {
	r, err := s.record(h)
	if err != nil {
		return nil
	}
	return slices.Clone(r.text)
}

// RuneLen returns the length of h in runes, or 0 if h is not valid.
func (s *Store) RuneLen(h Handle) int {
	r, err := s.record(h)
	if err != nil {
		return 0
	}
	return len(r.text)
}

// LineText returns the text of the given 0-indexed line.
func (s *Store) LineText(line int) (string, error) {
	h, err := s.At(line)
	if err != nil {
		return "", err
	}
	return s.Line(h), nil
}

// Lines returns the text of every line in order.
func (s *Store) Lines() []string {
	lines := make([]string, len(s.order))
	for i, slot := range s.order {
		lines[i] = string(s.records[slot].text)
	}
	return lines
}

// String returns the full text joined with the store's line ending.
func (s *Store) String() string {
	return strings.Join(s.Lines(), s.lineEnding.Sequence())
}

// All iterates over line numbers and handles from first to last.
func (s *Store) All() iter.Seq2[int, Handle] {
	return func(yield func(int, Handle) bool) {
		for i := 0; i < len(s.order); i++ {
			if !yield(i, s.handleOf(s.order[i])) {
				return
			}
		}
	}
}

// Resolve returns the handle and column of a durable position.
func (s *Store) Resolve(p Position) (Handle, int, error) {
	h, err := s.At(p.Line)
	if err != nil {
		return Handle{}, 0, err
	}
	if p.Column < 0 || p.Column > s.RuneLen(h) {
		return Handle{}, 0, fmt.Errorf("%s: %w", p, ErrInvalidPosition)
	}
	return h, p.Column, nil
}

// ============================================================================
// Structural mutations
// ============================================================================

// AddFirst links a new line before all others.
func (s *Store) AddFirst(text string) Handle {
	h := s.insertAt(0, []rune(text))
	s.emit(Edit{Kind: EditAddLine, Line: h})
	return h
}

// AddLast links a new line after all others.
func (s *Store) AddLast(text string) Handle {
	h := s.insertAt(len(s.order), []rune(text))
	s.emit(Edit{Kind: EditAddLine, Line: h})
	return h
}

// AddAfter links a new line directly after h.
func (s *Store) AddAfter(h Handle, text string) (Handle, error) {
	r, err := s.record(h)
	if err != nil {
		return Handle{}, err
	}
	nh := s.insertAt(r.number+1, []rune(text))
	s.emit(Edit{Kind: EditAddLine, Line: nh})
	return nh, nil
}

// AddBefore links a new line directly before h.
func (s *Store) AddBefore(h Handle, text string) (Handle, error) {
	r, err := s.record(h)
	if err != nil {
		return Handle{}, err
	}
	nh := s.insertAt(r.number, []rune(text))
	s.emit(Edit{Kind: EditAddLine, Line: nh})
	return nh, nil
}

// Remove unlinks h. The last remaining line cannot be removed.
func (s *Store) Remove(h Handle) error {
	r, err := s.record(h)
	if err != nil {
		return err
	}
	if len(s.order) == 1 {
		return fmt.Errorf("remove the only line: %w", ErrInvalidState)
	}

	index := r.number
	var fallback Handle
	fallbackCol := 0
	if index+1 < len(s.order) {
		fallback = s.handleOf(s.order[index+1])
	} else {
		prev := s.order[index-1]
		fallback = s.handleOf(prev)
		fallbackCol = len(s.records[prev].text)
	}

	s.order = slices.Delete(s.order, index, index+1)
	s.renumber(index)
	s.emit(Edit{Kind: EditRemoveLine, Line: h, Target: fallback, Column: fallbackCol})
	s.release(h.slot)
	return nil
}

// SwapWithPrevious exchanges h with the line before it.
func (s *Store) SwapWithPrevious(h Handle) error {
	r, err := s.record(h)
	if err != nil {
		return err
	}
	if r.number == 0 {
		return fmt.Errorf("swap first line with previous: %w", ErrNoNeighbor)
	}
	s.swap(r.number - 1)
	return nil
}

// SwapWithNext exchanges h with the line after it.
func (s *Store) SwapWithNext(h Handle) error {
	r, err := s.record(h)
	if err != nil {
		return err
	}
	if r.number+1 >= len(s.order) {
		return fmt.Errorf("swap last line with next: %w", ErrNoNeighbor)
	}
	s.swap(r.number)
	return nil
}

// swap exchanges the lines at index and index+1.
func (s *Store) swap(index int) {
	a, b := s.order[index], s.order[index+1]
	s.order[index], s.order[index+1] = b, a
	s.records[a].number = index + 1
	s.records[b].number = index
	s.emit(Edit{Kind: EditSwap, Line: s.handleOf(a), Target: s.handleOf(b)})
}

// ============================================================================
// Text mutations
// ============================================================================

// InsertText inserts single-line text into h at col.
func (s *Store) InsertText(h Handle, col int, text string) error {
	r, err := s.record(h)
	if err != nil {
		return err
	}
	if col < 0 || col > len(r.text) {
		return fmt.Errorf("insert at column %d of %d: %w", col, len(r.text), ErrInvalidPosition)
	}
	if strings.ContainsAny(text, "\r\n") {
		return ErrLineBreak
	}
	if text == "" {
		return nil
	}
	runes := []rune(text)
	r.text = slices.Insert(r.text, col, runes...)
	s.emit(Edit{Kind: EditInsert, Line: h, Column: col, Length: len(runes)})
	return nil
}

// DeleteText removes n runes from h starting at col and returns them.
func (s *Store) DeleteText(h Handle, col, n int) (string, error) {
	r, err := s.record(h)
	if err != nil {
		return "", err
	}
	if col < 0 || n < 0 || col+n > len(r.text) {
		return "", fmt.Errorf("delete %d at column %d of %d: %w", n, col, len(r.text), ErrInvalidPosition)
	}
	if n == 0 {
		return "", nil
	}
	removed := string(r.text[col : col+n])
	r.text = slices.Delete(r.text, col, col+n)
	s.emit(Edit{Kind: EditDelete, Line: h, Column: col, Length: n})
	return removed, nil
}

// Split breaks h at col. The text from col on moves to a new line
// directly after h, whose handle is returned.
func (s *Store) Split(h Handle, col int) (Handle, error) {
	r, err := s.record(h)
	if err != nil {
		return Handle{}, err
	}
	if col < 0 || col > len(r.text) {
		return Handle{}, fmt.Errorf("split at column %d of %d: %w", col, len(r.text), ErrInvalidPosition)
	}
	tail := slices.Clone(r.text[col:])
	r.text = r.text[:col]
	index := r.number

	nh := s.insertAt(index+1, tail)
	s.emit(Edit{Kind: EditSplit, Line: h, Target: nh, Column: col})
	return nh, nil
}

// Join appends the line after h to h and removes it.
func (s *Store) Join(h Handle) error {
	r, err := s.record(h)
	if err != nil {
		return err
	}
	if r.number+1 >= len(s.order) {
		return fmt.Errorf("join last line: %w", ErrNoNeighbor)
	}
	index := r.number
	nextSlot := s.order[index+1]
	next := s.handleOf(nextSlot)
	col := len(r.text)

	r.text = append(r.text, s.records[nextSlot].text...)
	s.order = slices.Delete(s.order, index+1, index+2)
	s.renumber(index + 1)
	s.emit(Edit{Kind: EditJoin, Line: next, Target: h, Column: col})
	s.release(nextSlot)
	return nil
}

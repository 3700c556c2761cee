package buffer

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"unicode/utf8"
)

// Position is a durable line and column position.
// Both Line and Column are 0-indexed. Column counts runes from the start
// of the line. A Position does not reference any live line, so it stays
// meaningful across structural mutations of the store.
type Position struct {
	Line   int
	Column int
}

// NewPosition creates a position.
func NewPosition(line, column int) Position {
	return Position{Line: line, Column: column}
}

// String returns the position as "(C:<col>, L:<line>)".
func (p Position) String() string {
	return fmt.Sprintf("(C:%d, L:%d)", p.Column, p.Line)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// MinPosition returns the earlier of two positions.
func MinPosition(a, b Position) Position {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxPosition returns the later of two positions.
func MaxPosition(a, b Position) Position {
	if b.After(a) {
		return b
	}
	return a
}

var positionPattern = regexp.MustCompile(`^\(C:(\d+), L:(\d+)\)$`)

// ParsePosition parses the format produced by Position.String.
func ParsePosition(s string) (Position, error) {
	m := positionPattern.FindStringSubmatch(s)
	if m == nil {
		return Position{}, fmt.Errorf("parse %q: %w", s, ErrInvalidPosition)
	}
	col, err := strconv.Atoi(m[1])
	if err != nil {
		return Position{}, fmt.Errorf("parse column %q: %w", m[1], ErrInvalidPosition)
	}
	line, err := strconv.Atoi(m[2])
	if err != nil {
		return Position{}, fmt.Errorf("parse line %q: %w", m[2], ErrInvalidPosition)
	}
	return Position{Line: line, Column: col}, nil
}

// TryParsePosition is ParsePosition reporting success as a bool.
func TryParsePosition(s string) (Position, bool) {
	p, err := ParsePosition(s)
	return p, err == nil
}

// FromCharacterIndex converts a flat character index into a position.
// Every line break between lines counts as one character.
func FromCharacterIndex(index int, lines []string) (Position, error) {
	if index < 0 {
		return Position{}, fmt.Errorf("character index %d: %w", index, ErrInvalidPosition)
	}
	rest := index
	for i, line := range lines {
		n := utf8.RuneCountInString(line)
		if rest <= n {
			return Position{Line: i, Column: rest}, nil
		}
		rest -= n + 1
	}
	return Position{}, fmt.Errorf("character index %d: %w", index, ErrInvalidPosition)
}

// ToCharacterIndex converts the position into a flat character index.
func (p Position) ToCharacterIndex(lines []string) (int, error) {
	if p.Line < 0 || p.Line >= len(lines) || p.Column < 0 {
		return 0, fmt.Errorf("%s: %w", p, ErrInvalidPosition)
	}
	index := 0
	for i := 0; i < p.Line; i++ {
		index += utf8.RuneCountInString(lines[i]) + 1
	}
	if p.Column > utf8.RuneCountInString(lines[p.Line]) {
		return 0, fmt.Errorf("%s: %w", p, ErrInvalidPosition)
	}
	return index + p.Column, nil
}

// Offsets is a precomputed table of line start indexes.
// Lookups from a character index use binary search.
type Offsets struct {
	starts []int
	total  int
}

// NewOffsets builds the table for the given lines.
func NewOffsets(lines []string) Offsets {
	o := Offsets{starts: make([]int, len(lines))}
	index := 0
	for i, line := range lines {
		o.starts[i] = index
		index += utf8.RuneCountInString(line) + 1
	}
	if len(lines) > 0 {
		index--
	}
	o.total = index
	return o
}

// Len returns the number of characters covered by the table.
func (o Offsets) Len() int {
	return o.total
}

// lineLen returns the rune length of line i.
func (o Offsets) lineLen(i int) int {
	if i+1 < len(o.starts) {
		return o.starts[i+1] - 1 - o.starts[i]
	}
	return o.total - o.starts[i]
}

// Position converts a character index into a position.
func (o Offsets) Position(index int) (Position, error) {
	if index < 0 || index > o.total || len(o.starts) == 0 {
		return Position{}, fmt.Errorf("character index %d: %w", index, ErrInvalidPosition)
	}
	i := sort.Search(len(o.starts), func(i int) bool {
		return o.starts[i] > index
	}) - 1
	return Position{Line: i, Column: index - o.starts[i]}, nil
}

// Index converts a position into a character index.
func (o Offsets) Index(p Position) (int, error) {
	if p.Line < 0 || p.Line >= len(o.starts) || p.Column < 0 || p.Column > o.lineLen(p.Line) {
		return 0, fmt.Errorf("%s: %w", p, ErrInvalidPosition)
	}
	return o.starts[p.Line] + p.Column, nil
}

// Selection is a durable (tail?, head) pair.
// When HasTail is false the selection is a bare caret at Head.
type Selection struct {
	Tail    Position
	Head    Position
	HasTail bool
}

// CaretAt creates a selection without a tail.
func CaretAt(head Position) Selection {
	return Selection{Head: head}
}

// NewSelection creates a selection from tail to head.
func NewSelection(tail, head Position) Selection {
	return Selection{Tail: tail, Head: head, HasTail: true}
}

// IsRange returns true if the selection covers at least one character.
func (s Selection) IsRange() bool {
	return s.HasTail && s.Tail != s.Head
}

// Start returns the lower bound of the selection.
func (s Selection) Start() Position {
	if !s.HasTail {
		return s.Head
	}
	return MinPosition(s.Tail, s.Head)
}

// End returns the upper bound of the selection.
func (s Selection) End() Position {
	if !s.HasTail {
		return s.Head
	}
	return MaxPosition(s.Tail, s.Head)
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if !s.HasTail {
		return fmt.Sprintf("Caret%s", s.Head)
	}
	return fmt.Sprintf("Selection%s→%s", s.Tail, s.Head)
}

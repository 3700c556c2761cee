package buffer

import "fmt"

// EditKind identifies a primitive store mutation.
type EditKind uint8

const (
	EditInsert     EditKind = iota // Text inserted within a line
	EditDelete                     // Text deleted within a line
	EditSplit                      // A line split in two at a column
	EditJoin                       // The following line appended to a line
	EditAddLine                    // A new line linked into the store
	EditRemoveLine                 // A line unlinked from the store
	EditSwap                       // Two adjacent lines exchanged
)

// String returns the edit kind name.
func (k EditKind) String() string {
	switch k {
	case EditInsert:
		return "insert"
	case EditDelete:
		return "delete"
	case EditSplit:
		return "split"
	case EditJoin:
		return "join"
	case EditAddLine:
		return "add-line"
	case EditRemoveLine:
		return "remove-line"
	case EditSwap:
		return "swap"
	default:
		return "unknown"
	}
}

// Edit describes one primitive mutation, reported to store subscribers
// after the mutation is applied.
//
// The meaning of Target and Column depends on Kind:
//
//   - EditInsert, EditDelete: Length runes at Column of Line
//   - EditSplit: runes from Column moved to the new line Target
//   - EditJoin: Line was appended to Target, whose old length was Column
//   - EditAddLine: Line is the new line
//   - EditRemoveLine: Line is gone; Target/Column is the nearest surviving point
//   - EditSwap: Line and Target exchanged places
type Edit struct {
	Kind   EditKind
	Line   Handle
	Target Handle
	Column int
	Length int
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	switch e.Kind {
	case EditInsert, EditDelete:
		return fmt.Sprintf("%s(%s, col %d, len %d)", e.Kind, e.Line, e.Column, e.Length)
	default:
		return fmt.Sprintf("%s(%s, %s, col %d)", e.Kind, e.Line, e.Target, e.Column)
	}
}

// Subscribe registers fn to be called after every mutation.
func (s *Store) Subscribe(fn func(Edit)) {
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) emit(e Edit) {
	for _, fn := range s.subscribers {
		fn(e)
	}
}

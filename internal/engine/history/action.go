package history

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/caret/internal/engine/buffer"
)

// Kind identifies the type of an action.
type Kind uint8

const (
	InsertCharacter Kind = iota // Text inserted within a line
	DeleteCharacter             // Text removed from within a line
	InsertLineBreak             // A line split in two
	DeleteLineBreak             // A line joined with the next
	InsertTab                   // Indentation inserted
	DeleteTab                   // Indentation removed
	SwapLine                    // A line exchanged with the one below
	MoveCursor                  // A caret moved
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case InsertCharacter:
		return "InsertCharacter"
	case DeleteCharacter:
		return "DeleteCharacter"
	case InsertLineBreak:
		return "InsertLineBreak"
	case DeleteLineBreak:
		return "DeleteLineBreak"
	case InsertTab:
		return "InsertTab"
	case DeleteTab:
		return "DeleteTab"
	case SwapLine:
		return "SwapLine"
	case MoveCursor:
		return "MoveCursor"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Direction selects which way an action is replayed.
type Direction uint8

const (
	Undo Direction = iota
	Redo
)

// String returns "undo" or "redo".
func (d Direction) String() string {
	if d == Redo {
		return "redo"
	}
	return "undo"
}

// Target is the document an action is replayed against.
type Target interface {
	// InsertText inserts single-line text at a position.
	InsertText(at buffer.Position, text string) error

	// DeleteText removes text starting at a position. The document must
	// hold exactly text there.
	DeleteText(at buffer.Position, text string) error

	// InsertLineBreak splits a line at a position.
	InsertLineBreak(at buffer.Position) error

	// DeleteLineBreak joins a line with the line after it.
	DeleteLineBreak(line int) error

	// SwapLines exchanges a line with the line after it.
	SwapLines(line int) error

	// SelectRanges replaces every caret with the given selections.
	SelectRanges(sels []buffer.Selection) error
}

// Action is one recorded primitive change.
//
// At is where the change applies. For DeleteLineBreak, At.Column is the
// length the line had before the join, so undo can split it again.
// For SwapLine, At.Line is the upper of the two lines.
// Before and After hold the caret (or, for MoveCursor, the selection)
// around the change.
type Action struct {
	Kind   Kind
	At     buffer.Position
	Text   string
	Before buffer.Selection
	After  buffer.Selection
}

// NewInsertCharacter records text inserted at a position.
func NewInsertCharacter(at buffer.Position, text string) Action {
	return insertAction(InsertCharacter, at, text)
}

// NewInsertTab records indentation inserted at a position.
func NewInsertTab(at buffer.Position, text string) Action {
	return insertAction(InsertTab, at, text)
}

func insertAction(kind Kind, at buffer.Position, text string) Action {
	end := buffer.NewPosition(at.Line, at.Column+utf8.RuneCountInString(text))
	return Action{
		Kind:   kind,
		At:     at,
		Text:   text,
		Before: buffer.CaretAt(at),
		After:  buffer.CaretAt(end),
	}
}

// NewDeleteCharacter records text removed at a position.
// caret is where the caret stood before the removal.
func NewDeleteCharacter(at buffer.Position, text string, caret buffer.Position) Action {
	return Action{
		Kind:   DeleteCharacter,
		At:     at,
		Text:   text,
		Before: buffer.CaretAt(caret),
		After:  buffer.CaretAt(at),
	}
}

// NewDeleteTab records indentation removed at a position.
func NewDeleteTab(at buffer.Position, text string, caret buffer.Position) Action {
	a := NewDeleteCharacter(at, text, caret)
	a.Kind = DeleteTab
	return a
}

// NewInsertLineBreak records a line split at a position.
func NewInsertLineBreak(at buffer.Position) Action {
	return Action{
		Kind:   InsertLineBreak,
		At:     at,
		Before: buffer.CaretAt(at),
		After:  buffer.CaretAt(buffer.NewPosition(at.Line+1, 0)),
	}
}

// NewDeleteLineBreak records the join of line at.Line with the next line.
// at.Column is the length of the line before the join.
func NewDeleteLineBreak(at buffer.Position, caret buffer.Position) Action {
	return Action{
		Kind:   DeleteLineBreak,
		At:     at,
		Before: buffer.CaretAt(caret),
		After:  buffer.CaretAt(at),
	}
}

// NewSwapLine records the exchange of line with line+1.
func NewSwapLine(line int, before, after buffer.Position) Action {
	return Action{
		Kind:   SwapLine,
		At:     buffer.NewPosition(line, 0),
		Before: buffer.CaretAt(before),
		After:  buffer.CaretAt(after),
	}
}

// NewMoveCursor records a caret's selection before and after a command.
func NewMoveCursor(before, after buffer.Selection) Action {
	return Action{
		Kind:   MoveCursor,
		At:     after.Head,
		Before: before,
		After:  after,
	}
}

// Apply replays the action against t.
// MoveCursor actions are a no-op here; carets are restored by the item.
func (a Action) Apply(dir Direction, t Target) error {
	switch a.Kind {
	case InsertCharacter, InsertTab:
		if dir == Redo {
			return t.InsertText(a.At, a.Text)
		}
		return t.DeleteText(a.At, a.Text)
	case DeleteCharacter, DeleteTab:
		if dir == Redo {
			return t.DeleteText(a.At, a.Text)
		}
		return t.InsertText(a.At, a.Text)
	case InsertLineBreak:
		if dir == Redo {
			return t.InsertLineBreak(a.At)
		}
		return t.DeleteLineBreak(a.At.Line)
	case DeleteLineBreak:
		if dir == Redo {
			return t.DeleteLineBreak(a.At.Line)
		}
		return t.InsertLineBreak(a.At)
	case SwapLine:
		return t.SwapLines(a.At.Line)
	case MoveCursor:
		return nil
	default:
		return fmt.Errorf("%s %s: %w", dir, a.Kind, buffer.ErrInvalidState)
	}
}

// Caret returns the caret position after the action is replayed in dir.
func (a Action) Caret(dir Direction) buffer.Position {
	if dir == Redo {
		return a.After.Head
	}
	return a.Before.Head
}

// String returns a human-readable representation of the action.
func (a Action) String() string {
	switch a.Kind {
	case MoveCursor:
		return fmt.Sprintf("%s(%s -> %s)", a.Kind, a.Before, a.After)
	case InsertLineBreak, DeleteLineBreak, SwapLine:
		return fmt.Sprintf("%s%s", a.Kind, a.At)
	default:
		return fmt.Sprintf("%s%s %q", a.Kind, a.At, a.Text)
	}
}

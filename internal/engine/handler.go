package engine

import (
	"github.com/dshills/caret/internal/engine/buffer"
	"github.com/dshills/caret/internal/engine/cursor"
	"github.com/dshills/caret/internal/engine/history"
)

// Listener receives change notifications after every committed edit or
// navigation.
type Listener interface {
	TextChanged()
	CursorsChanged()
}

// ListenerFuncs adapts a pair of functions to Listener. Nil fields are
// skipped.
type ListenerFuncs struct {
	OnTextChanged    func()
	OnCursorsChanged func()
}

// TextChanged calls OnTextChanged.
func (f ListenerFuncs) TextChanged() {
	if f.OnTextChanged != nil {
		f.OnTextChanged()
	}
}

// CursorsChanged calls OnCursorsChanged.
func (f ListenerFuncs) CursorsChanged() {
	if f.OnCursorsChanged != nil {
		f.OnCursorsChanged()
	}
}

// CompletionHandler is asked to offer completions, for example after a
// member access character is typed.
type CompletionHandler interface {
	ShowCompletion(trigger rune, at buffer.Position)
}

// SpecialCharacterHandler adds language-specific behavior to typing.
//
// HandleCharacterInserting runs before a character is inserted by a single
// caret, and HandleCharacterInserted after. HandleLineBreakInserted runs
// for every caret after its line break is inserted. Edits a handler makes
// through r must be recorded in list; they become part of the same undo
// item as the typed character.
type SpecialCharacterHandler interface {
	HandleCharacterInserting(ch rune, doc *SourceCode, r *cursor.Range, list *history.ActionList) error
	HandleCharacterInserted(ch rune, doc *SourceCode, completion CompletionHandler)
	HandleLineBreakInserted(doc *SourceCode, r *cursor.Range, list *history.ActionList) error
}

// Clipboard stores text for Cut, Copy and Paste.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

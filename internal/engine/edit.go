package engine

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/caret/internal/engine/buffer"
	"github.com/dshills/caret/internal/engine/cursor"
	"github.com/dshills/caret/internal/engine/history"
)

// ============================================================================
// Typing
// ============================================================================

// InsertCharacter types ch at every caret, replacing any selection.
//
// With a single caret, h is consulted before and after the insertion.
// Actions the handler records become part of the same undo entry.
// h may be nil.
func (d *SourceCode) InsertCharacter(ch rune, h SpecialCharacterHandler) error {
	if ch == '\n' || ch == '\r' {
		return d.InsertLineBreak(h)
	}
	hooked := h != nil && !d.ranges.IsMulti()

	err := d.batch("Insert character", false, func(r *cursor.Range, list *history.ActionList) error {
		if hooked {
			if err := h.HandleCharacterInserting(ch, d, r, list); err != nil {
				return err
			}
		}
		return r.InsertCharacter(ch, list)
	})
	if err == nil && hooked {
		h.HandleCharacterInserted(ch, d, d.completion)
	}
	return err
}

// InsertString inserts text at every caret as one undo entry.
//
// When several carets paste text with exactly one line per caret, each
// caret receives its own line in document order.
func (d *SourceCode) InsertString(text string) error {
	parts := distribute(text, d.ranges.Count())
	next := 0
	return d.batch("Insert text", false, func(r *cursor.Range, list *history.ActionList) error {
		part := text
		if parts != nil {
			part = parts[next]
			next++
		}
		return r.InsertString(part, list)
	})
}

// distribute splits text into one line per caret, or returns nil if the
// line count does not match.
func distribute(text string, carets int) []string {
	if carets < 2 {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	parts := strings.Split(text, "\n")
	if len(parts) != carets {
		return nil
	}
	return parts
}

// InsertLineBreak splits the line at every caret. h, if not nil, may add
// indentation after each break.
func (d *SourceCode) InsertLineBreak(h SpecialCharacterHandler) error {
	return d.batch("Insert line break", false, func(r *cursor.Range, list *history.ActionList) error {
		if err := r.InsertLineBreak(list); err != nil {
			return err
		}
		if h != nil {
			return h.HandleLineBreakInserted(d, r, list)
		}
		return nil
	})
}

// RemoveCharacterBefore deletes the selection, or the character before
// each caret. Carets at the start of the document are left alone.
func (d *SourceCode) RemoveCharacterBefore() error {
	return d.batch("Delete", false, func(r *cursor.Range, list *history.ActionList) error {
		_, err := r.RemoveCharacterBefore(list)
		return err
	})
}

// RemoveCharacterAfter deletes the selection, or the character after each
// caret. Carets at the end of the document are left alone.
func (d *SourceCode) RemoveCharacterAfter() error {
	return d.batch("Delete forward", false, func(r *cursor.Range, list *history.ActionList) error {
		_, err := r.RemoveCharacterAfter(list)
		return err
	})
}

// RemoveSelection deletes the selected text of every caret.
func (d *SourceCode) RemoveSelection() error {
	return d.batch("Delete selection", false, func(r *cursor.Range, list *history.ActionList) error {
		_, err := r.RemoveSelectedRange(list)
		return err
	})
}

// ============================================================================
// Indentation
// ============================================================================

// IncreaseIndent indents the selected lines, or inserts indentation at
// carets without a selection.
func (d *SourceCode) IncreaseIndent() error {
	seen := make(map[buffer.Handle]bool)
	return d.batch("Indent", false, func(r *cursor.Range, list *history.ActionList) error {
		if r.IsRangeSelected() && !claimLines(d.store, r, seen) {
			return nil
		}
		return r.IncreaseIndent(d.indent, list)
	})
}

// DecreaseIndent removes one level of leading whitespace from every line
// touched by a caret.
func (d *SourceCode) DecreaseIndent() error {
	seen := make(map[buffer.Handle]bool)
	return d.batch("Unindent", false, func(r *cursor.Range, list *history.ActionList) error {
		if !claimLines(d.store, r, seen) {
			return nil
		}
		return r.DecreaseIndent(d.indent, list)
	})
}

// PartialIncreaseIndent inserts n spaces at every caret, dropping any
// selection.
func (d *SourceCode) PartialIncreaseIndent(n int) error {
	return d.batch("Indent", false, func(r *cursor.Range, list *history.ActionList) error {
		r.ClearSelection()
		a, ok, err := r.Head().PartialIncreaseIndent(n)
		if ok {
			list.Add(a)
		}
		return err
	})
}

// claimLines marks the lines touched by r as seen. Returns false if any
// of them was already claimed by an earlier caret.
func claimLines(store *buffer.Store, r *cursor.Range, seen map[buffer.Handle]bool) bool {
	first, last := r.LineSpan()
	handles := make([]buffer.Handle, 0, last-first+1)
	for line := first; line <= last; line++ {
		h, err := store.At(line)
		if err != nil {
			return false
		}
		if seen[h] {
			return false
		}
		handles = append(handles, h)
	}
	for _, h := range handles {
		seen[h] = true
	}
	return true
}

// ============================================================================
// Line and Selection Commands
// ============================================================================

// DuplicateSelection duplicates the selection of every caret, or the
// caret's line when nothing is selected.
func (d *SourceCode) DuplicateSelection() error {
	return d.batch("Duplicate", false, func(r *cursor.Range, list *history.ActionList) error {
		return r.DuplicateSelection(list)
	})
}

// MoveLinesUp moves the lines under every caret up by one line.
func (d *SourceCode) MoveLinesUp() error {
	seen := make(map[buffer.Handle]bool)
	return d.batch("Move lines up", false, func(r *cursor.Range, list *history.ActionList) error {
		if !claimLines(d.store, r, seen) {
			return nil
		}
		_, err := r.MoveLinesUp(list)
		return err
	})
}

// MoveLinesDown moves the lines under every caret down by one line.
func (d *SourceCode) MoveLinesDown() error {
	seen := make(map[buffer.Handle]bool)
	return d.batch("Move lines down", true, func(r *cursor.Range, list *history.ActionList) error {
		if !claimLines(d.store, r, seen) {
			return nil
		}
		_, err := r.MoveLinesDown(list)
		return err
	})
}

// ToUpperCase converts every selection to upper case.
func (d *SourceCode) ToUpperCase() error {
	return d.convertCase("Upper case", cases.Upper(language.Und))
}

// ToLowerCase converts every selection to lower case.
func (d *SourceCode) ToLowerCase() error {
	return d.convertCase("Lower case", cases.Lower(language.Und))
}

func (d *SourceCode) convertCase(description string, caser cases.Caser) error {
	return d.batch(description, false, func(r *cursor.Range, list *history.ActionList) error {
		_, err := r.ReplaceSelection(caser.String, list)
		return err
	})
}

// ============================================================================
// Clipboard
// ============================================================================

// Copy writes the selected text to the clipboard. Nothing is written if no
// caret has a selection.
func (d *SourceCode) Copy() error {
	if d.clipboard == nil {
		return ErrNoClipboard
	}
	if !d.ranges.HasSelection() {
		return nil
	}
	return d.clipboard.WriteText(d.GetSelectedText())
}

// Cut copies the selected text to the clipboard and removes it.
func (d *SourceCode) Cut() error {
	if d.readOnly {
		return ErrReadOnly
	}
	if d.clipboard == nil {
		return ErrNoClipboard
	}
	if !d.ranges.HasSelection() {
		return nil
	}
	if err := d.clipboard.WriteText(d.GetSelectedText()); err != nil {
		return err
	}
	return d.RemoveSelection()
}

// Paste inserts the clipboard text at every caret.
func (d *SourceCode) Paste() error {
	if d.clipboard == nil {
		return ErrNoClipboard
	}
	text, err := d.clipboard.ReadText()
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	return d.InsertString(text)
}

// ============================================================================
// Whole Document
// ============================================================================

// SetContent replaces the whole text as one undo entry and leaves a single
// caret at the end.
func (d *SourceCode) SetContent(text string) error {
	if d.readOnly {
		return ErrReadOnly
	}
	if err := d.ranges.SetPrimary(d.allSelection()); err != nil {
		return err
	}
	return d.InsertString(text)
}

// Clear removes all text as one undo entry.
func (d *SourceCode) Clear() error {
	return d.SetContent("")
}

func (d *SourceCode) allSelection() buffer.Selection {
	last := d.store.Len() - 1
	return buffer.NewSelection(buffer.Position{},
		buffer.NewPosition(last, d.store.RuneLen(d.store.Last())))
}

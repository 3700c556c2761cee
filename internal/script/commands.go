package script

import (
	"errors"

	"github.com/dshills/caret/internal/engine"
	"github.com/dshills/caret/internal/engine/buffer"
	"github.com/dshills/caret/internal/syntax"
)

// builtins are the commands every Runner starts with.
var builtins = concat(
	// Typing
	[]Command{
		{Name: "type", Usage: "type <text>", Run: typeText},
		{Name: "insert", Usage: "insert <text>", Run: insertText},
		repeated("enter", func(r *Runner) error { return r.doc.InsertLineBreak(r.handler) }),
		repeated("backspace", func(r *Runner) error { return r.doc.RemoveCharacterBefore() }),
		repeated("delete", func(r *Runner) error { return r.doc.RemoveCharacterAfter() }),
		simple("delete-selection", (*engine.SourceCode).RemoveSelection),
		{Name: "set-content", Usage: "set-content <text>", Run: setContent},
		simple("clear", (*engine.SourceCode).Clear),
	},

	// Motion
	motion("left", (*engine.SourceCode).ShiftLeft),
	motion("right", (*engine.SourceCode).ShiftRight),
	motion("up", (*engine.SourceCode).ShiftUp),
	motion("down", (*engine.SourceCode).ShiftDown),
	motion("home", (*engine.SourceCode).ShiftHome),
	motion("end", (*engine.SourceCode).ShiftEnd),
	motion("top", (*engine.SourceCode).ShiftDocumentStart),
	motion("bottom", (*engine.SourceCode).ShiftDocumentEnd),
	wordMotion("word-left", (*engine.SourceCode).ShiftWordLeft),
	wordMotion("word-right", (*engine.SourceCode).ShiftWordRight),

	// Carets and selections
	[]Command{
		{Name: "caret", Usage: "caret <pos>", Run: atPosition((*engine.SourceCode).SetCaret)},
		{Name: "add-caret", Usage: "add-caret <pos>", Run: atPosition((*engine.SourceCode).AddCaret)},
		{Name: "select", Usage: "select <tail> <head>", Run: betweenPositions((*engine.SourceCode).SelectRange)},
		{Name: "add-selection", Usage: "add-selection <tail> <head>", Run: betweenPositions(addSelection)},
		{Name: "colselect", Usage: "colselect <from> <to>", Run: betweenPositions((*engine.SourceCode).ColumnSelect)},
		{Name: "select-token", Usage: "select-token <pos>", Run: selectToken},
		{Name: "remove-caret", Usage: "remove-caret <index>", Run: removeCaret},
		simple("select-all", noError((*engine.SourceCode).SelectAll)),
		simple("clear-carets", noError((*engine.SourceCode).ClearSecondaryCarets)),
		simple("clear-selections", noError((*engine.SourceCode).ClearSelections)),
	},

	// Line commands
	[]Command{
		simple("indent", (*engine.SourceCode).IncreaseIndent),
		simple("dedent", (*engine.SourceCode).DecreaseIndent),
		{Name: "indent-by", Usage: "indent-by <columns>", Run: indentBy},
		simple("duplicate", (*engine.SourceCode).DuplicateSelection),
		repeated("move-up", func(r *Runner) error { return r.doc.MoveLinesUp() }),
		repeated("move-down", func(r *Runner) error { return r.doc.MoveLinesDown() }),
		simple("upper", (*engine.SourceCode).ToUpperCase),
		simple("lower", (*engine.SourceCode).ToLowerCase),
	},

	// Clipboard
	[]Command{
		simple("copy", (*engine.SourceCode).Copy),
		simple("cut", (*engine.SourceCode).Cut),
		simple("paste", (*engine.SourceCode).Paste),
	},

	// History
	[]Command{
		{Name: "undo", Usage: "undo [count]", Run: replay((*engine.SourceCode).Undo, engine.ErrNothingToUndo)},
		{Name: "redo", Usage: "redo [count]", Run: replay((*engine.SourceCode).Redo, engine.ErrNothingToRedo)},
		simple("group-begin", noError((*engine.SourceCode).BeginUndoGroup)),
		{Name: "group-end", Usage: "group-end [description]", Run: endGroup},
		simple("group-cancel", noError((*engine.SourceCode).CancelUndoGroup)),
	},

	// Output and assertions
	[]Command{
		{Name: "print", Usage: "print", Run: printText},
		{Name: "carets", Usage: "carets", Run: printCarets},
		{Name: "expect", Usage: "expect <text>", Run: expectText},
		{Name: "expect-carets", Usage: "expect-carets <sel>...", Run: expectCarets},
	},
)

func concat(groups ...[]Command) []Command {
	var out []Command
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// ============================================================================
// Command builders
// ============================================================================

func simple(name string, fn func(*engine.SourceCode) error) Command {
	return Command{Name: name, Usage: name, Run: func(r *Runner, a Args) error {
		if err := a.Count(0, 0); err != nil {
			return err
		}
		return fn(r.doc)
	}}
}

func noError(fn func(*engine.SourceCode)) func(*engine.SourceCode) error {
	return func(d *engine.SourceCode) error {
		fn(d)
		return nil
	}
}

func repeated(name string, fn func(*Runner) error) Command {
	return Command{Name: name, Usage: name + " [count]", Run: func(r *Runner, a Args) error {
		n, err := a.Repeat()
		if err != nil {
			return err
		}
		for range n {
			if err := fn(r); err != nil {
				return err
			}
		}
		return nil
	}}
}

// motion returns name, which moves carets, and select-name, which extends
// selections.
func motion(name string, fn func(*engine.SourceCode, bool) bool) []Command {
	return []Command{
		repeated(name, func(r *Runner) error { fn(r.doc, false); return nil }),
		repeated("select-"+name, func(r *Runner) error { fn(r.doc, true); return nil }),
	}
}

func wordMotion(name string, fn func(*engine.SourceCode, syntax.Highlighter, bool) bool) []Command {
	return []Command{
		repeated(name, func(r *Runner) error { fn(r.doc, r.highlighter, false); return nil }),
		repeated("select-"+name, func(r *Runner) error { fn(r.doc, r.highlighter, true); return nil }),
	}
}

func atPosition(fn func(*engine.SourceCode, buffer.Position) error) func(*Runner, Args) error {
	return func(r *Runner, a Args) error {
		if err := a.Count(1, 1); err != nil {
			return err
		}
		p, err := a.Position(0)
		if err != nil {
			return err
		}
		return fn(r.doc, p)
	}
}

func betweenPositions(fn func(*engine.SourceCode, buffer.Position, buffer.Position) error) func(*Runner, Args) error {
	return func(r *Runner, a Args) error {
		if err := a.Count(2, 2); err != nil {
			return err
		}
		from, err := a.Position(0)
		if err != nil {
			return err
		}
		to, err := a.Position(1)
		if err != nil {
			return err
		}
		return fn(r.doc, from, to)
	}
}

func replay(fn func(*engine.SourceCode) error, exhausted error) func(*Runner, Args) error {
	return func(r *Runner, a Args) error {
		n, err := a.Repeat()
		if err != nil {
			return err
		}
		for range n {
			if err := fn(r.doc); err != nil {
				if errors.Is(err, exhausted) {
					return nil
				}
				return err
			}
		}
		return nil
	}
}

package script

import (
	"fmt"
	"strings"

	"github.com/dshills/caret/internal/engine"
	"github.com/dshills/caret/internal/engine/buffer"
)

func typeText(r *Runner, a Args) error {
	if err := a.Count(1, 1); err != nil {
		return err
	}
	for _, ch := range a[0] {
		if err := r.doc.InsertCharacter(ch, r.handler); err != nil {
			return err
		}
	}
	return nil
}

func insertText(r *Runner, a Args) error {
	if err := a.Count(1, 1); err != nil {
		return err
	}
	return r.doc.InsertString(a[0])
}

func setContent(r *Runner, a Args) error {
	if err := a.Count(1, 1); err != nil {
		return err
	}
	return r.doc.SetContent(a[0])
}

func addSelection(d *engine.SourceCode, tail, head buffer.Position) error {
	return d.AddSelectionRange(buffer.NewSelection(tail, head))
}

func selectToken(r *Runner, a Args) error {
	if err := a.Count(1, 1); err != nil {
		return err
	}
	p, err := a.Position(0)
	if err != nil {
		return err
	}
	found, err := r.doc.SelectTokenAtPosition(p, r.highlighter)
	if err != nil {
		return err
	}
	if !found {
		log.Debugf("no token at %s", p)
	}
	return nil
}

func removeCaret(r *Runner, a Args) error {
	if err := a.Count(1, 1); err != nil {
		return err
	}
	i, err := a.Number(0)
	if err != nil {
		return err
	}
	if !r.doc.RemoveCaret(i) {
		return fmt.Errorf("%w: no caret %d to remove", ErrArguments, i)
	}
	return nil
}

func indentBy(r *Runner, a Args) error {
	if err := a.Count(1, 1); err != nil {
		return err
	}
	n, err := a.Number(0)
	if err != nil {
		return err
	}
	return r.doc.PartialIncreaseIndent(n)
}

func endGroup(r *Runner, a Args) error {
	if err := a.Count(0, 1); err != nil {
		return err
	}
	r.doc.EndUndoGroup(strings.Join(a, ""))
	return nil
}

func printText(r *Runner, a Args) error {
	if err := a.Count(0, 0); err != nil {
		return err
	}
	return r.printf("%s\n", r.doc.Text())
}

func printCarets(r *Runner, a Args) error {
	if err := a.Count(0, 0); err != nil {
		return err
	}
	for _, sel := range r.doc.Selections() {
		if err := r.printf("%s\n", selectionLabel(sel)); err != nil {
			return err
		}
	}
	return nil
}

func expectText(r *Runner, a Args) error {
	if err := a.Count(1, 1); err != nil {
		return err
	}
	if got := r.doc.Text(); got != a[0] {
		return fmt.Errorf("%w: text is %q, want %q", ErrExpectation, got, a[0])
	}
	return nil
}

func expectCarets(r *Runner, a Args) error {
	if len(a) == 0 {
		return fmt.Errorf("%w: want at least one selection", ErrArguments)
	}
	want := make([]string, len(a))
	for i := range a {
		sel, err := a.Selection(i)
		if err != nil {
			return err
		}
		want[i] = selectionLabel(sel)
	}

	sels := r.doc.Selections()
	got := make([]string, len(sels))
	for i, sel := range sels {
		got[i] = selectionLabel(sel)
	}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		return fmt.Errorf("%w: carets are %s, want %s", ErrExpectation, strings.Join(got, " "), strings.Join(want, " "))
	}
	return nil
}

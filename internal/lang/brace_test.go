package lang

import (
	"testing"

	"github.com/dshills/caret/internal/engine"
	"github.com/dshills/caret/internal/engine/buffer"
)

func newDoc(t *testing.T, text string, line, col int, opts ...engine.Option) *engine.SourceCode {
	t.Helper()
	d := engine.New(append([]engine.Option{engine.WithContent(text)}, opts...)...)
	if err := d.SetCaret(buffer.NewPosition(line, col)); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestLineBreakIndent(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		line  int
		col   int
		want  string
		caret buffer.Position
	}{
		{"after opener", "func f() {", 0, 10, "func f() {\n    ", buffer.NewPosition(1, 4)},
		{"keep indent", "    foo", 0, 7, "    foo\n    ", buffer.NewPosition(1, 4)},
		{"no indent", "foo", 0, 3, "foo\n", buffer.NewPosition(1, 0)},
		{"between pair", "{}", 0, 1, "{\n    \n}", buffer.NewPosition(1, 4)},
		{"nested pair", "  f(x)", 0, 4, "  f(\n      x)", buffer.NewPosition(1, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDoc(t, tt.text, tt.line, tt.col)
			if err := d.InsertLineBreak(NewBraceHandler()); err != nil {
				t.Fatal(err)
			}
			if d.Text() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, d.Text())
			}
			if d.PrimaryPosition() != tt.caret {
				t.Errorf("expected caret %v, got %v", tt.caret, d.PrimaryPosition())
			}
		})
	}
}

func TestLineBreakIndentTabs(t *testing.T) {
	d := newDoc(t, "\tif x {", 0, 7, engine.WithTabs(true))
	if err := d.InsertLineBreak(NewBraceHandler()); err != nil {
		t.Fatal(err)
	}
	if d.Text() != "\tif x {\n\t\t" {
		t.Errorf("unexpected text %q", d.Text())
	}
}

func TestCloserDedents(t *testing.T) {
	d := newDoc(t, "{\n    ", 1, 4)

	if err := d.InsertCharacter('}', NewBraceHandler()); err != nil {
		t.Fatal(err)
	}
	if d.Text() != "{\n}" {
		t.Errorf("expected dedented closer, got %q", d.Text())
	}
	if d.PrimaryPosition() != buffer.NewPosition(1, 1) {
		t.Errorf("unexpected caret %v", d.PrimaryPosition())
	}

	if d.UndoCount() != 1 {
		t.Fatalf("dedent and closer must be one undo entry, got %d", d.UndoCount())
	}
	if err := d.Undo(); err != nil {
		t.Fatal(err)
	}
	if d.Text() != "{\n    " {
		t.Errorf("undo should restore indentation, got %q", d.Text())
	}
}

func TestCloserAfterCodeKeepsIndent(t *testing.T) {
	d := newDoc(t, "    x", 0, 5)
	if err := d.InsertCharacter('}', NewBraceHandler()); err != nil {
		t.Fatal(err)
	}
	if d.Text() != "    x}" {
		t.Errorf("unexpected text %q", d.Text())
	}
}

type recordingCompletion struct {
	triggers []rune
	at       []buffer.Position
}

func (c *recordingCompletion) ShowCompletion(trigger rune, at buffer.Position) {
	c.triggers = append(c.triggers, trigger)
	c.at = append(c.at, at)
}

func TestCompletionTrigger(t *testing.T) {
	completion := &recordingCompletion{}
	d := newDoc(t, "obj", 0, 3, engine.WithCompletionHandler(completion))
	h := NewBraceHandler()

	if err := d.InsertCharacter('.', h); err != nil {
		t.Fatal(err)
	}
	if err := d.InsertCharacter('x', h); err != nil {
		t.Fatal(err)
	}

	if len(completion.triggers) != 1 || completion.triggers[0] != '.' {
		t.Fatalf("expected one '.' trigger, got %q", completion.triggers)
	}
	if completion.at[0] != buffer.NewPosition(0, 4) {
		t.Errorf("unexpected completion position %v", completion.at[0])
	}
}

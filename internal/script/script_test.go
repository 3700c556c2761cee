package script

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/dshills/caret/internal/engine"
	"github.com/dshills/caret/internal/lang"
)

func run(t *testing.T, content, src string, opts ...Option) (*Runner, error) {
	t.Helper()
	doc := engine.New(engine.WithContent(content))
	r := New(doc, opts...)
	return r, r.Run(context.Background(), strings.NewReader(src))
}

func mustRun(t *testing.T, content, src string, opts ...Option) *Runner {
	t.Helper()
	r, err := run(t, content, src, opts...)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	return r
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"undo", []string{"undo"}},
		{"undo 3  # twice more", []string{"undo", "3"}},
		{`type "a b\n"`, []string{"type", "a b\n"}},
		{"caret (C:4, L:2)", []string{"caret", "(C:4, L:2)"}},
		{"expect-carets (C:0, L:0)-(C:2, L:0) (C:1, L:1)", []string{"expect-carets", "(C:0, L:0)-(C:2, L:0)", "(C:1, L:1)"}},
		{"type `raw #`", []string{"type", "raw #"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := tokenize(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("tokenize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	for _, bad := range []string{"caret (C:1, L:2", `type "open`} {
		if _, err := tokenize(bad); !errors.Is(err, ErrArguments) {
			t.Errorf("tokenize(%q) error = %v, want ErrArguments", bad, err)
		}
	}
}

func TestTypingAndUndo(t *testing.T) {
	mustRun(t, "", `
type "ab"
enter
type "c"
expect "ab\nc"
expect-carets (C:1, L:1)
undo 100
expect ""
redo 100
expect "ab\nc"
`)
}

func TestMultiCaretTyping(t *testing.T) {
	mustRun(t, "foo\nbar", `
caret (C:0, L:0)
add-caret (C:0, L:1)
type "x"
expect "xfoo\nxbar"
expect-carets (C:1, L:0) (C:1, L:1)
backspace
expect "foo\nbar"
expect-carets (C:0, L:0) (C:0, L:1)
`)
}

func TestSelectionReplace(t *testing.T) {
	mustRun(t, "hello world", `
select (C:0, L:0) (C:5, L:0)
expect-carets (C:0, L:0)-(C:5, L:0)
type "bye"
expect "bye world"
`)
}

func TestColumnSelectScript(t *testing.T) {
	mustRun(t, "abc\ndef\nghi", `
colselect (C:1, L:0) (C:2, L:2)
expect-carets (C:1, L:0)-(C:2, L:0) (C:1, L:1)-(C:2, L:1) (C:1, L:2)-(C:2, L:2)
type "X"
expect "aXc\ndXf\ngXi"
undo
expect "abc\ndef\nghi"
`)
}

func TestMotionCommands(t *testing.T) {
	mustRun(t, "one\ntwo", `
caret (C:0, L:0)
right 2
expect-carets (C:2, L:0)
select-end
expect-carets (C:2, L:0)-(C:3, L:0)
bottom
expect-carets (C:3, L:1)
select-home
expect-carets (C:3, L:1)-(C:0, L:1)
`)
}

func TestLineCommands(t *testing.T) {
	mustRun(t, "a\nb\nc", `
caret (C:0, L:0)
move-down 2
expect "b\nc\na"
indent
expect "b\nc\n    a"
dedent
expect "b\nc\na"
select (C:0, L:0) (C:1, L:1)
upper
expect "B\nC\na"
`)
}

func TestUndoGroup(t *testing.T) {
	mustRun(t, "", `
group-begin
type "abc"
enter
group-end "burst"
undo
expect ""
`)
}

func TestHandlerIsUsed(t *testing.T) {
	mustRun(t, "if x {", `
caret (C:6, L:0)
enter
expect "if x {\n    "
expect-carets (C:4, L:1)
`, WithHandler(lang.NewBraceHandler()))
}

func TestPrintAndCarets(t *testing.T) {
	var out bytes.Buffer
	mustRun(t, "ab", `
caret (C:1, L:0)
add-caret (C:2, L:0)
print
carets
`, WithOutput(&out))

	want := "ab\n(C:1, L:0)\n(C:2, L:0)\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		want error
	}{
		{"unknown", "# start\nfrobnicate", 2, ErrUnknownCommand},
		{"expectation", `expect "nope"`, 1, ErrExpectation},
		{"missing argument", "caret", 1, ErrArguments},
		{"extra argument", "paste now", 1, ErrArguments},
		{"bad count", "undo zero", 1, ErrArguments},
		{"bad position", "caret (L:1, C:0)", 1, ErrArguments},
		{"engine error", "caret (C:9, L:0)", 1, engine.ErrInvalidPosition},
		{"no clipboard", "copy", 1, engine.ErrNoClipboard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "abc", tt.src)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var serr *Error
			if !errors.As(err, &serr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if serr.Line != tt.line {
				t.Errorf("Line = %d, want %d", serr.Line, tt.line)
			}
		})
	}
}

func TestRunStopsAtFirstError(t *testing.T) {
	r, err := run(t, "", "type \"a\"\nbogus\ntype \"b\"")
	if err == nil {
		t.Fatal("expected an error")
	}
	if r.Document().Text() != "a" {
		t.Errorf("commands after the error ran: %q", r.Document().Text())
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(engine.New())
	if err := r.Run(ctx, strings.NewReader(`type "a"`)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCustomCommand(t *testing.T) {
	var calls int
	hello := Command{Name: "hello", Run: func(r *Runner, a Args) error {
		calls++
		return r.Document().InsertString("hi")
	}}

	mustRun(t, "", "hello\nexpect \"hi\"", WithCommand(hello))
	if calls != 1 {
		t.Errorf("custom command ran %d times", calls)
	}

	r := New(engine.New(), WithCommand(hello))
	names := make([]string, 0)
	for _, c := range r.Commands() {
		names = append(names, c.Name)
	}
	if !slices.IsSorted(names) || !slices.Contains(names, "hello") || !slices.Contains(names, "select-word-right") {
		t.Errorf("unexpected command list %v", names)
	}
}

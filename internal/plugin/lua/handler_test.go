package lua

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/caret/internal/engine"
	"github.com/dshills/caret/internal/engine/buffer"
)

const braceScript = `
function on_linebreak()
  local line, col = caret.position()
  local prev = caret.line(line - 1)
  local indent = string.match(prev, "^%s*")
  if string.sub(prev, -1) == "{" then
    indent = indent .. caret.indent_unit()
  end
  if indent ~= "" then
    caret.insert(indent)
  end
end

function on_inserting(ch)
  if ch ~= "}" then return end
  local line, col = caret.position()
  local before = string.sub(caret.line(), 1, col)
  if col > 0 and string.match(before, "^%s*$") then
    caret.unindent()
  end
end

function on_inserted(ch)
  if ch == "." then caret.complete(ch) end
end
`

func newDoc(t *testing.T, text string, line, col int, opts ...engine.Option) *engine.SourceCode {
	t.Helper()
	d := engine.New(append([]engine.Option{engine.WithContent(text)}, opts...)...)
	if err := d.SetCaret(buffer.NewPosition(line, col)); err != nil {
		t.Fatal(err)
	}
	return d
}

func newHandlerT(t *testing.T, script string) *Handler {
	t.Helper()
	h, err := NewHandlerFromString(script)
	if err != nil {
		t.Fatalf("NewHandlerFromString() error = %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHandlerLineBreak(t *testing.T) {
	h := newHandlerT(t, braceScript)
	d := newDoc(t, "  if x {", 0, 8)

	if err := d.InsertLineBreak(h); err != nil {
		t.Fatal(err)
	}
	if d.Text() != "  if x {\n      " {
		t.Errorf("unexpected text %q", d.Text())
	}
	if d.PrimaryPosition() != buffer.NewPosition(1, 6) {
		t.Errorf("unexpected caret %v", d.PrimaryPosition())
	}

	if err := d.Undo(); err != nil {
		t.Fatal(err)
	}
	if d.Text() != "  if x {" {
		t.Errorf("hook edits should undo with the line break, got %q", d.Text())
	}
}

func TestHandlerUnindentOnCloser(t *testing.T) {
	h := newHandlerT(t, braceScript)
	d := newDoc(t, "{\n    ", 1, 4)

	if err := d.InsertCharacter('}', h); err != nil {
		t.Fatal(err)
	}
	if d.Text() != "{\n}" {
		t.Errorf("unexpected text %q", d.Text())
	}
}

type recordingCompletion struct {
	at []buffer.Position
}

func (c *recordingCompletion) ShowCompletion(trigger rune, at buffer.Position) {
	c.at = append(c.at, at)
}

func TestHandlerCompletion(t *testing.T) {
	h := newHandlerT(t, braceScript)
	completion := &recordingCompletion{}
	d := newDoc(t, "obj", 0, 3, engine.WithCompletionHandler(completion))

	if err := d.InsertCharacter('.', h); err != nil {
		t.Fatal(err)
	}
	if len(completion.at) != 1 || completion.at[0] != buffer.NewPosition(0, 4) {
		t.Errorf("unexpected completions %v", completion.at)
	}
}

func TestHandlerMissingHooks(t *testing.T) {
	h := newHandlerT(t, `-- no hooks`)
	d := newDoc(t, "ab", 0, 1)

	if err := d.InsertCharacter('x', h); err != nil {
		t.Fatal(err)
	}
	if err := d.InsertLineBreak(h); err != nil {
		t.Fatal(err)
	}
	if d.Text() != "ax\nb" {
		t.Errorf("unexpected text %q", d.Text())
	}
}

func TestHandlerError(t *testing.T) {
	h := newHandlerT(t, `function on_linebreak() error("boom") end`)
	d := newDoc(t, "ab", 0, 1)

	err := d.InsertLineBreak(h)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected hook error, got %v", err)
	}
	if d.Text() != "a\nb" {
		t.Errorf("line break should still be committed, got %q", d.Text())
	}
}

func TestHandlerOutsideEdit(t *testing.T) {
	h := newHandlerT(t, `function probe() caret.insert("x") end`)
	if _, err := h.state.Call("probe"); err == nil {
		t.Error("caret.insert outside a hook should fail")
	}
}

func TestNewHandlerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brace.lua")
	if err := os.WriteFile(path, []byte(braceScript), 0o644); err != nil {
		t.Fatal(err)
	}
	h, err := NewHandler(path)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	defer h.Close()

	if _, err := NewHandler(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("expected error for a missing script")
	}
}

func TestHandlerTimeout(t *testing.T) {
	h, err := NewHandlerFromString(`function on_linebreak() while true do end end`,
		WithExecutionTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	d := newDoc(t, "ab", 0, 1)
	if err := d.InsertLineBreak(h); !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("expected ErrExecutionTimeout, got %v", err)
	}
}

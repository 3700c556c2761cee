package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/caret/internal/config"
	"github.com/dshills/caret/internal/engine"
	"github.com/dshills/caret/internal/lang"
	"github.com/dshills/caret/internal/plugin/lua"
	"github.com/dshills/caret/internal/syntax"
)

func testSettings() *config.Settings {
	s := config.Default()
	s.Clipboard.System = false
	return s
}

func newApp(t *testing.T, opts Options) *Application {
	t.Helper()
	if opts.Settings == nil {
		opts.Settings = testSettings()
	}
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = a.Shutdown() })
	return a
}

func runScript(t *testing.T, a *Application, src string) {
	t.Helper()
	if err := a.RunScript(context.Background(), strings.NewReader(src)); err != nil {
		t.Fatalf("script failed: %v", err)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScratchSession(t *testing.T) {
	var out bytes.Buffer
	a := newApp(t, Options{Output: &out})

	if !a.Document().IsScratch() {
		t.Fatal("expected scratch document")
	}
	runScript(t, a, "type \"func f() {\"\nenter\nprint")

	if got := a.Document().Source.Text(); got != "func f() {\n    " {
		t.Errorf("text = %q", got)
	}
	if out.String() != "func f() {\n    \n" {
		t.Errorf("output = %q", out.String())
	}
	if !a.Document().IsModified() {
		t.Error("document should be modified")
	}
	if err := a.Save(); !errors.Is(err, ErrNoFile) {
		t.Errorf("Save() on scratch = %v, want ErrNoFile", err)
	}
}

func TestOpenEditSave(t *testing.T) {
	path := writeFile(t, "main.go", "package main\r\n")
	a := newApp(t, Options{File: path})

	runScript(t, a, "bottom\ninsert \"\\nfunc main() {}\"")
	if a.Document().Name != "main.go" {
		t.Errorf("Name = %q", a.Document().Name)
	}
	if err := a.Save(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "package main\r\n\r\nfunc main() {}" {
		t.Errorf("saved %q", data)
	}
	if a.Document().IsModified() {
		t.Error("Save should clear the modified flag")
	}
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.txt")
	a := newApp(t, Options{File: path})

	runScript(t, a, `type "hello"`)
	if err := a.Save(); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(path); string(data) != "hello" {
		t.Errorf("saved %q", data)
	}
}

func TestReadOnly(t *testing.T) {
	a := newApp(t, Options{ReadOnly: true})
	err := a.RunScript(context.Background(), strings.NewReader(`type "x"`))
	if !errors.Is(err, engine.ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

func TestInitErrors(t *testing.T) {
	_, err := New(Options{ConfigPath: filepath.Join(t.TempDir(), "missing.toml")})
	var ierr *InitError
	if !errors.As(err, &ierr) || ierr.Component != "config" {
		t.Fatalf("expected config InitError, got %v", err)
	}
	if !errors.Is(err, config.ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}

	s := testSettings()
	s.Language.Script = filepath.Join(t.TempDir(), "missing.lua")
	_, err = New(Options{Settings: s})
	if !errors.As(err, &ierr) || ierr.Component != "handler" {
		t.Errorf("expected handler InitError, got %v", err)
	}
}

func TestLuaHandlerFromSettings(t *testing.T) {
	script := writeFile(t, "h.lua", `
function on_linebreak()
  caret.insert("--")
end
`)
	s := testSettings()
	s.Language.Script = script

	a := newApp(t, Options{Settings: s})
	if _, ok := a.handler.(*lua.Handler); !ok {
		t.Fatalf("handler is %T, want *lua.Handler", a.handler)
	}
	runScript(t, a, "type \"a\"\nenter")
	if got := a.Document().Source.Text(); got != "a\n--" {
		t.Errorf("text = %q", got)
	}
}

func TestCompletions(t *testing.T) {
	a := newApp(t, Options{})
	runScript(t, a, `type "fmt."`)

	got := a.Completions()
	if len(got) != 1 || got[0].Trigger != '.' {
		t.Fatalf("completions = %+v", got)
	}
	if got[0].At.Column != 4 {
		t.Errorf("completion at %s", got[0].At)
	}
}

func TestHighlighterChoice(t *testing.T) {
	s := testSettings()
	if _, ok := newHighlighter(s, "", "x.go").(*syntax.Plain); !ok {
		t.Error("plain highlighter by default")
	}

	s.Language.Highlighter = config.HighlighterChroma
	hl, ok := newHighlighter(s, "", "x.go").(*syntax.Chroma)
	if !ok || hl.Language() != "Go" {
		t.Errorf("expected Go chroma highlighter, got %T", hl)
	}
}

func TestDiagnosticsReport(t *testing.T) {
	diags := writeFile(t, "vet.txt", `(C:4, L:1)-(C:5, L:1) warning: unused
(C:0, L:2) error: missing return
`)
	a := newApp(t, Options{DiagnosticsPath: diags, Settings: testSettings()})
	if err := a.Document().Source.SetContent("a\nb x\nc"); err != nil {
		t.Fatal(err)
	}
	// SetContent is an edit, so publish again for the new revision.
	if err := a.Diagnostics().Publish(a.Document().Source, a.Diagnostics().All()); err != nil {
		t.Fatal(err)
	}

	runScript(t, a, "caret (C:0, L:1)")
	var out bytes.Buffer
	if err := a.Report(&out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "(C:4, L:1)-(C:5, L:1) warning: unused\n" {
		t.Errorf("report = %q", out.String())
	}

	runScript(t, a, `type "y"`)
	out.Reset()
	if err := a.Report(&out); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("stale diagnostics reported: %q", out.String())
	}
}

func TestReload(t *testing.T) {
	a := newApp(t, Options{})
	if _, ok := a.handler.(*lang.BraceHandler); !ok {
		t.Fatalf("handler is %T", a.handler)
	}

	s := testSettings()
	s.Language.Highlighter = config.HighlighterChroma
	s.Language.Name = "go"
	if err := a.Reload(s); err != nil {
		t.Fatal(err)
	}
	if a.Settings() != s {
		t.Error("settings not replaced")
	}
	if _, ok := a.highlighter.(*syntax.Chroma); !ok {
		t.Errorf("highlighter is %T after reload", a.highlighter)
	}

	bad := testSettings()
	bad.Editor.TabWidth = 0
	if err := a.Reload(bad); !errors.Is(err, config.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
}

func TestShutdown(t *testing.T) {
	a := newApp(t, Options{})
	if err := a.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if err := a.Shutdown(); err != nil {
		t.Errorf("second Shutdown() = %v", err)
	}
	if err := a.RunScript(context.Background(), strings.NewReader("")); !errors.Is(err, ErrShutdown) {
		t.Errorf("expected ErrShutdown, got %v", err)
	}
}

// Package app wires configuration, the document, its language support and
// the script runner into one editing session.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dshills/caret/internal/clipboard"
	"github.com/dshills/caret/internal/config"
	"github.com/dshills/caret/internal/diagnostics"
	"github.com/dshills/caret/internal/engine"
	"github.com/dshills/caret/internal/engine/buffer"
	"github.com/dshills/caret/internal/lang"
	"github.com/dshills/caret/internal/plugin/lua"
	"github.com/dshills/caret/internal/script"
	"github.com/dshills/caret/internal/syntax"
)

var log = commonlog.GetLogger("caret.app")

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty uses defaults
	// and the environment.
	ConfigPath string

	// Settings, when set, is used instead of loading ConfigPath.
	Settings *config.Settings

	// File is the file to edit. Empty opens a scratch document.
	File string

	// Language overrides language.name from the settings.
	Language string

	// ReadOnly opens the document in read-only mode.
	ReadOnly bool

	// DiagnosticsPath is a file of diagnostic labels to attach.
	DiagnosticsPath string

	// Output receives script print and carets output.
	Output io.Writer
}

// Completion is a completion request raised by a special character handler.
type Completion struct {
	Trigger rune
	At      buffer.Position
}

// Application is one editing session.
type Application struct {
	mu sync.Mutex

	opts     Options
	settings *config.Settings

	clipboard   *clipboard.Clipboard
	highlighter syntax.Highlighter
	handler     engine.SpecialCharacterHandler
	document    *Document
	diagnostics *diagnostics.Store

	completions []Completion
	shutdown    bool
}

// New creates an application and initializes its components in dependency
// order. Components already started are released if a later one fails.
func New(opts Options) (*Application, error) {
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	a := &Application{opts: opts}

	steps := []struct {
		name string
		init func() error
	}{
		{"config", a.initConfig},
		{"clipboard", a.initClipboard},
		{"highlighter", a.initHighlighter},
		{"handler", a.initHandler},
		{"document", a.initDocument},
		{"diagnostics", a.initDiagnostics},
	}
	for _, step := range steps {
		if err := step.init(); err != nil {
			a.closeHandler()
			return nil, &InitError{Component: step.name, Err: err}
		}
		log.Debugf("initialized %s", step.name)
	}
	return a, nil
}

func (a *Application) initConfig() error {
	if a.opts.Settings != nil {
		a.settings = a.opts.Settings
		return a.settings.Validate()
	}
	settings, err := config.Load(a.opts.ConfigPath)
	if err != nil {
		return err
	}
	a.settings = settings
	return nil
}

func (a *Application) initClipboard() error {
	cb, err := clipboard.New(a.settings.Clipboard.System)
	if err != nil {
		log.Noticef("clipboard: %v", err)
	}
	a.clipboard = cb
	return nil
}

func (a *Application) initHighlighter() error {
	a.highlighter = newHighlighter(a.settings, a.opts.Language, a.opts.File)
	return nil
}

func (a *Application) initHandler() error {
	h, err := newHandler(a.settings)
	if err != nil {
		return err
	}
	a.handler = h
	return nil
}

func (a *Application) initDocument() error {
	opts := append(a.settings.EngineOptions(),
		engine.WithClipboard(a.clipboard),
		engine.WithCompletionHandler(a),
	)
	if a.opts.ReadOnly {
		opts = append(opts, engine.WithReadOnly())
	}

	if a.opts.File == "" {
		a.document = NewScratchDocument("", opts...)
		return nil
	}
	doc, err := OpenDocument(a.opts.File, opts...)
	if err != nil {
		return err
	}
	a.document = doc
	return nil
}

func (a *Application) initDiagnostics() error {
	a.diagnostics = diagnostics.NewStore()
	if a.opts.DiagnosticsPath == "" {
		return nil
	}

	f, err := os.Open(a.opts.DiagnosticsPath)
	if err != nil {
		return err
	}
	defer f.Close()

	diags, err := diagnostics.Parse(f, a.opts.DiagnosticsPath)
	if err != nil {
		log.Warningf("diagnostics: %v", err)
	}
	return a.diagnostics.Publish(a.document.Source, diags)
}

// newHighlighter picks the highlighter named by the settings. A chroma
// highlighter uses language, then language.name, then the file name.
func newHighlighter(s *config.Settings, language, file string) syntax.Highlighter {
	if s.Language.Highlighter != config.HighlighterChroma {
		return syntax.NewPlain()
	}
	if language == "" {
		language = s.Language.Name
	}
	if language != "" {
		return syntax.NewChroma(language)
	}
	return syntax.NewChromaForFile(file)
}

// newHandler loads the Lua script named by the settings, or returns the
// built-in brace handler.
func newHandler(s *config.Settings) (engine.SpecialCharacterHandler, error) {
	if s.Language.Script == "" {
		h := lang.NewBraceHandler()
		h.Triggers = s.Language.CompletionTriggers
		return h, nil
	}
	h, err := lua.NewHandler(s.Language.Script, lua.WithExecutionTimeout(s.ScriptTimeout()))
	if err != nil {
		return nil, err
	}
	return h, nil
}

// ============================================================================
// Accessors
// ============================================================================

// Settings returns the active settings.
func (a *Application) Settings() *config.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings
}

// Document returns the open document.
func (a *Application) Document() *Document {
	return a.document
}

// Diagnostics returns the diagnostics store.
func (a *Application) Diagnostics() *diagnostics.Store {
	return a.diagnostics
}

// Completions returns the completion requests raised so far.
func (a *Application) Completions() []Completion {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Completion(nil), a.completions...)
}

// ShowCompletion records a completion request.
func (a *Application) ShowCompletion(trigger rune, at buffer.Position) {
	log.Infof("completion for %q at %s", trigger, at)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.completions = append(a.completions, Completion{Trigger: trigger, At: at})
}

// ============================================================================
// Operations
// ============================================================================

// RunScript executes an edit script against the document.
func (a *Application) RunScript(ctx context.Context, src io.Reader) error {
	a.mu.Lock()
	if a.shutdown {
		a.mu.Unlock()
		return ErrShutdown
	}
	runner := script.New(a.document.Source,
		script.WithHandler(a.handler),
		script.WithHighlighter(a.highlighter),
		script.WithOutput(a.opts.Output),
	)
	a.mu.Unlock()

	if err := runner.Run(ctx, src); err != nil {
		return NewOperationError("script", a.document.Name, err)
	}
	return nil
}

// Report writes the diagnostics on each caret's line. Nothing is written
// when the snapshot no longer matches the document.
func (a *Application) Report(w io.Writer) error {
	doc := a.document.Source
	if a.diagnostics.Len() == 0 {
		return nil
	}
	if !a.diagnostics.Current(doc) {
		log.Warningf("diagnostics are stale (revision %d, document %d)", a.diagnostics.Revision(), doc.Revision())
		return nil
	}

	seen := make(map[int]bool)
	for _, sel := range doc.Selections() {
		line := sel.Head.Line
		if seen[line] {
			continue
		}
		seen[line] = true
		for _, d := range a.diagnostics.Line(line) {
			if _, err := fmt.Fprintln(w, d.Label()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Reload applies new settings. The highlighter, handler and clipboard are
// replaced; editor settings apply to documents opened later.
func (a *Application) Reload(s *config.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	h, err := newHandler(s)
	if err != nil {
		return NewOperationError("reload", "handler", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.shutdown {
		closeIfCloser(h)
		return ErrShutdown
	}
	closeIfCloser(a.handler)
	a.handler = h
	a.highlighter = newHighlighter(s, a.opts.Language, a.opts.File)
	if s.Clipboard.System != a.settings.Clipboard.System {
		cb, err := clipboard.New(s.Clipboard.System)
		if err != nil {
			log.Noticef("clipboard: %v", err)
		}
		a.clipboard = cb
		a.document.Source.SetClipboard(cb)
	}
	a.settings = s
	log.Info("settings reloaded")
	return nil
}

// Save writes the document to its file.
func (a *Application) Save() error {
	return a.document.Save()
}

// Shutdown releases the handler. It is safe to call more than once.
func (a *Application) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true
	a.closeHandler()
	return nil
}

func (a *Application) closeHandler() {
	closeIfCloser(a.handler)
}

func closeIfCloser(h engine.SpecialCharacterHandler) {
	c, ok := h.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil && !errors.Is(err, lua.ErrStateClosed) {
		log.Warningf("closing handler: %v", err)
	}
}

package script

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dshills/caret/internal/engine"
	"github.com/dshills/caret/internal/syntax"
)

var log = commonlog.GetLogger("caret.script")

// Command is one script command.
type Command struct {
	// Name is the word that invokes the command.
	Name string
	// Usage documents the arguments.
	Usage string
	// Run executes the command.
	Run func(r *Runner, a Args) error
}

// Runner executes scripts against a document.
type Runner struct {
	doc         *engine.SourceCode
	handler     engine.SpecialCharacterHandler
	highlighter syntax.Highlighter
	out         io.Writer
	commands    map[string]Command
}

// Option configures a Runner.
type Option func(*Runner)

// WithHandler sets the special character handler used by type and enter.
func WithHandler(h engine.SpecialCharacterHandler) Option {
	return func(r *Runner) {
		r.handler = h
	}
}

// WithHighlighter sets the highlighter used for word motion and
// select-token. The plain highlighter is used by default.
func WithHighlighter(hl syntax.Highlighter) Option {
	return func(r *Runner) {
		if hl != nil {
			r.highlighter = hl
		}
	}
}

// WithOutput sets where print and carets write. Output is discarded by
// default.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithCommand registers an additional command, replacing a built-in one
// with the same name.
func WithCommand(c Command) Option {
	return func(r *Runner) {
		r.commands[c.Name] = c
	}
}

// New creates a runner for doc.
func New(doc *engine.SourceCode, opts ...Option) *Runner {
	r := &Runner{
		doc:         doc,
		highlighter: syntax.NewPlain(),
		out:         io.Discard,
		commands:    make(map[string]Command, len(builtins)),
	}
	for _, c := range builtins {
		r.commands[c.Name] = c
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Document returns the document the runner edits.
func (r *Runner) Document() *engine.SourceCode {
	return r.doc
}

// Commands returns the registered commands sorted by name.
func (r *Runner) Commands() []Command {
	out := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Run executes the script read from src line by line. It stops at the
// first failing command and returns an *Error locating it.
func (r *Runner) Run(ctx context.Context, src io.Reader) error {
	sc := bufio.NewScanner(src)
	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		text := strings.TrimSpace(sc.Text())
		if err := r.Exec(text); err != nil {
			return &Error{Line: line, Text: text, Err: err}
		}
	}
	return sc.Err()
}

// Exec executes a single command line. Blank lines and comments are
// accepted and do nothing.
func (r *Runner) Exec(line string) error {
	words, err := tokenize(line)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return nil
	}

	c, ok := r.commands[words[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, words[0])
	}
	log.Debugf("exec %s %q", c.Name, words[1:])
	return c.Run(r, Args(words[1:]))
}

func (r *Runner) printf(format string, a ...any) error {
	_, err := fmt.Fprintf(r.out, format, a...)
	return err
}

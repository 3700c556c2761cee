package engine

import (
	"github.com/tliron/commonlog"

	"github.com/dshills/caret/internal/engine/buffer"
	"github.com/dshills/caret/internal/engine/history"
)

// Default configuration values.
const (
	DefaultTabWidth       = 4
	DefaultMaxUndoEntries = history.DefaultMaxEntries
)

// Option configures a SourceCode during creation.
type Option func(*SourceCode)

// WithContent sets the initial text of the document.
func WithContent(content string) Option {
	return func(d *SourceCode) {
		d.initContent = content
	}
}

// WithTabWidth sets the number of columns per indentation level.
func WithTabWidth(width int) Option {
	return func(d *SourceCode) {
		if width > 0 {
			d.indent.Width = width
		}
	}
}

// WithTabs indents with tab characters instead of spaces.
func WithTabs(tabs bool) Option {
	return func(d *SourceCode) {
		d.indent.Tabs = tabs
	}
}

// WithLineEnding sets the line ending used by Text. By default it is
// detected from the initial content.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(d *SourceCode) {
		d.lineEnding = &ending
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(d *SourceCode) {
		if max > 0 {
			d.maxUndoEntries = max
		}
	}
}

// WithReadOnly creates a read-only document.
// Edit operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(d *SourceCode) {
		d.readOnly = true
	}
}

// WithLogger sets the logger used for skipped ranges and failed replays.
func WithLogger(log commonlog.Logger) Option {
	return func(d *SourceCode) {
		if log != nil {
			d.log = log
		}
	}
}

// WithListener registers a listener at creation.
func WithListener(l Listener) Option {
	return func(d *SourceCode) {
		if l != nil {
			d.listeners = append(d.listeners, l)
		}
	}
}

// WithClipboard sets the clipboard used by Cut, Copy and Paste.
func WithClipboard(c Clipboard) Option {
	return func(d *SourceCode) {
		d.clipboard = c
	}
}

// WithCompletionHandler sets the completion handler passed to special
// character handlers.
func WithCompletionHandler(c CompletionHandler) Option {
	return func(d *SourceCode) {
		d.completion = c
	}
}

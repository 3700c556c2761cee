package config

import (
	"errors"
	"time"

	"github.com/dshills/caret/internal/engine"
	"github.com/dshills/caret/internal/engine/buffer"
)

// Highlighter names accepted by language.highlighter.
const (
	HighlighterPlain  = "plain"
	HighlighterChroma = "chroma"
)

// Line ending names accepted by editor.line_ending.
const (
	LineEndingAuto = "auto"
	LineEndingLF   = "lf"
	LineEndingCRLF = "crlf"
	LineEndingCR   = "cr"
)

// Settings is the complete caret configuration.
type Settings struct {
	Editor    EditorSettings    `toml:"editor" yaml:"editor"`
	Language  LanguageSettings  `toml:"language" yaml:"language"`
	Logging   LoggingSettings   `toml:"logging" yaml:"logging"`
	Clipboard ClipboardSettings `toml:"clipboard" yaml:"clipboard"`
}

// EditorSettings configures documents.
type EditorSettings struct {
	TabWidth   int    `toml:"tab_width" yaml:"tab_width"`
	UseTabs    bool   `toml:"use_tabs" yaml:"use_tabs"`
	MaxUndo    int    `toml:"max_undo" yaml:"max_undo"`
	LineEnding string `toml:"line_ending" yaml:"line_ending"`
	ReadOnly   bool   `toml:"read_only" yaml:"read_only"`
}

// LanguageSettings selects the highlighter and special character handler.
type LanguageSettings struct {
	// Highlighter is "plain" or "chroma".
	Highlighter string `toml:"highlighter" yaml:"highlighter"`
	// Name is a chroma lexer name. Empty selects the lexer by file name.
	Name string `toml:"name" yaml:"name"`
	// Script is a Lua handler script. Empty uses the built-in brace handler.
	Script string `toml:"script" yaml:"script"`
	// ScriptTimeout bounds each hook call, in milliseconds.
	ScriptTimeout int `toml:"script_timeout_ms" yaml:"script_timeout_ms"`
	// CompletionTriggers are the characters that ask for completions.
	CompletionTriggers string `toml:"completion_triggers" yaml:"completion_triggers"`
}

// LoggingSettings configures commonlog.
type LoggingSettings struct {
	Verbosity int    `toml:"verbosity" yaml:"verbosity"`
	File      string `toml:"file" yaml:"file"`
}

// ClipboardSettings configures the clipboard.
type ClipboardSettings struct {
	// System uses the system clipboard when available.
	System bool `toml:"system" yaml:"system"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		Editor: EditorSettings{
			TabWidth:   engine.DefaultTabWidth,
			MaxUndo:    engine.DefaultMaxUndoEntries,
			LineEnding: LineEndingAuto,
		},
		Language: LanguageSettings{
			Highlighter:        HighlighterPlain,
			ScriptTimeout:      1000,
			CompletionTriggers: ".",
		},
		Logging: LoggingSettings{
			Verbosity: 0,
		},
		Clipboard: ClipboardSettings{
			System: true,
		},
	}
}

// Validate checks every setting and returns all failures joined.
func (s *Settings) Validate() error {
	var errs []error
	check := func(ok bool, path string, value any, msg string) {
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Value: value, Message: msg})
		}
	}

	check(s.Editor.TabWidth >= 1 && s.Editor.TabWidth <= 16, "editor.tab_width", s.Editor.TabWidth, "must be between 1 and 16")
	check(s.Editor.MaxUndo >= 1, "editor.max_undo", s.Editor.MaxUndo, "must be positive")
	switch s.Editor.LineEnding {
	case LineEndingAuto, LineEndingLF, LineEndingCRLF, LineEndingCR:
	default:
		check(false, "editor.line_ending", s.Editor.LineEnding, "must be auto, lf, crlf or cr")
	}
	switch s.Language.Highlighter {
	case HighlighterPlain, HighlighterChroma:
	default:
		check(false, "language.highlighter", s.Language.Highlighter, "must be plain or chroma")
	}
	check(s.Language.ScriptTimeout > 0, "language.script_timeout_ms", s.Language.ScriptTimeout, "must be positive")
	check(s.Logging.Verbosity >= -4 && s.Logging.Verbosity <= 2, "logging.verbosity", s.Logging.Verbosity, "must be between -4 and 2")

	return errors.Join(errs...)
}

// ScriptTimeout returns language.script_timeout_ms as a duration.
func (s *Settings) ScriptTimeout() time.Duration {
	return time.Duration(s.Language.ScriptTimeout) * time.Millisecond
}

// LineEnding returns the configured line ending. ok is false for "auto".
func (s *Settings) LineEnding() (le buffer.LineEnding, ok bool) {
	switch s.Editor.LineEnding {
	case LineEndingLF:
		return buffer.LineEndingLF, true
	case LineEndingCRLF:
		return buffer.LineEndingCRLF, true
	case LineEndingCR:
		return buffer.LineEndingCR, true
	}
	return buffer.LineEndingLF, false
}

// EngineOptions converts the editor settings to document options.
func (s *Settings) EngineOptions() []engine.Option {
	opts := []engine.Option{
		engine.WithTabWidth(s.Editor.TabWidth),
		engine.WithTabs(s.Editor.UseTabs),
		engine.WithMaxUndoEntries(s.Editor.MaxUndo),
	}
	if le, ok := s.LineEnding(); ok {
		opts = append(opts, engine.WithLineEnding(le))
	}
	if s.Editor.ReadOnly {
		opts = append(opts, engine.WithReadOnly())
	}
	return opts
}

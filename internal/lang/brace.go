package lang

import (
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dshills/caret/internal/engine"
	"github.com/dshills/caret/internal/engine/buffer"
	"github.com/dshills/caret/internal/engine/cursor"
	"github.com/dshills/caret/internal/engine/history"
)

var log = commonlog.GetLogger("caret.lang")

// BraceHandler implements engine.SpecialCharacterHandler for
// brace-delimited languages.
type BraceHandler struct {
	// Triggers are the characters that open a completion list.
	Triggers string
}

// NewBraceHandler creates a handler that triggers completion on '.'.
func NewBraceHandler() *BraceHandler {
	return &BraceHandler{Triggers: "."}
}

var _ engine.SpecialCharacterHandler = (*BraceHandler)(nil)

// HandleCharacterInserting removes one indentation level when a closing
// bracket is typed on a line holding only whitespace.
func (h *BraceHandler) HandleCharacterInserting(ch rune, doc *engine.SourceCode, r *cursor.Range, list *history.ActionList) error {
	if !isCloser(ch) || r.IsRangeSelected() {
		return nil
	}
	head := r.Head().Position()
	text, err := doc.Line(head.Line)
	if err != nil {
		return err
	}
	before := string([]rune(text)[:head.Column])
	if before == "" || strings.TrimLeft(before, " \t") != "" {
		return nil
	}
	return r.DecreaseIndent(doc.IndentStyle(), list)
}

// HandleCharacterInserted offers completions after a trigger character.
func (h *BraceHandler) HandleCharacterInserted(ch rune, doc *engine.SourceCode, completion engine.CompletionHandler) {
	if completion == nil || !strings.ContainsRune(h.Triggers, ch) {
		return
	}
	log.Debugf("completion triggered by %q at %s", ch, doc.PrimaryPosition())
	completion.ShowCompletion(ch, doc.PrimaryPosition())
}

// HandleLineBreakInserted indents the new line to match the line above.
func (h *BraceHandler) HandleLineBreakInserted(doc *engine.SourceCode, r *cursor.Range, list *history.ActionList) error {
	head := r.Head().Position()
	if head.Line == 0 {
		return nil
	}
	prev, err := doc.Line(head.Line - 1)
	if err != nil {
		return err
	}
	current, err := doc.Line(head.Line)
	if err != nil {
		return err
	}

	style := doc.IndentStyle()
	indent := leadingWhitespace(prev)
	trimmed := strings.TrimRight(prev, " \t")
	opened := trimmed != "" && isOpener(rune(trimmed[len(trimmed)-1]))
	if !opened {
		if indent == "" {
			return nil
		}
		return r.InsertString(indent, list)
	}

	inner := indent + style.Unit()
	rest := strings.TrimLeft(current[len(string([]rune(current)[:head.Column])):], " \t")
	if rest == "" || !isCloser([]rune(rest)[0]) {
		return r.InsertString(inner, list)
	}

	// Between a bracket pair: the closer goes on its own line.
	if err := r.InsertString(inner, list); err != nil {
		return err
	}
	caret := r.Head().Position()
	if err := r.InsertString("\n"+indent, list); err != nil {
		return err
	}
	return r.SetCaret(buffer.NewPosition(caret.Line, caret.Column))
}

// leadingWhitespace returns the leading whitespace of s.
func leadingWhitespace(s string) string {
	for i, r := range s {
		if r != ' ' && r != '\t' {
			return s[:i]
		}
	}
	return s
}

func isOpener(r rune) bool {
	return r == '{' || r == '[' || r == '('
}

func isCloser(r rune) bool {
	return r == '}' || r == ']' || r == ')'
}

package syntax

import (
	"strings"
	"unicode"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Chroma produces spans from a chroma lexer.
// Each token is split on whitespace, so a span never contains a space.
type Chroma struct {
	lexer chroma.Lexer
	spans Spans
}

// NewChroma creates a highlighter for a chroma language name or alias
// such as "csharp" or "go". Unknown names use chroma's fallback lexer.
func NewChroma(language string) *Chroma {
	lex := lexers.Get(language)
	if lex == nil {
		lex = lexers.Fallback
	}
	return &Chroma{lexer: chroma.Coalesce(lex)}
}

// NewChromaForFile picks the lexer matching a file name.
func NewChromaForFile(filename string) *Chroma {
	lex := lexers.Match(filename)
	if lex == nil {
		lex = lexers.Fallback
	}
	return &Chroma{lexer: chroma.Coalesce(lex)}
}

// Language returns the lexer name.
func (c *Chroma) Language() string {
	return c.lexer.Config().Name
}

// Update implements Highlighter.
func (c *Chroma) Update(lines []string) {
	text := strings.Join(lines, "\n")
	it, err := c.lexer.Tokenise(nil, text)
	if err != nil {
		c.spans = segment(text)
		return
	}

	var spans Spans
	index := 0
	for _, tok := range it.Tokens() {
		index = appendFields(&spans, tok.Value, index)
	}
	c.spans = spans
}

// SpansBefore implements Highlighter.
func (c *Chroma) SpansBefore(index int) []Span {
	return c.spans.Before(index)
}

// SpansAfter implements Highlighter.
func (c *Chroma) SpansAfter(index int) []Span {
	return c.spans.After(index)
}

// Spans returns all spans in document order.
func (c *Chroma) Spans() Spans {
	return c.spans
}

// appendFields adds one span per whitespace-separated run of value.
func appendFields(spans *Spans, value string, index int) int {
	start := -1
	for _, r := range value {
		if unicode.IsSpace(r) {
			if start >= 0 {
				*spans = append(*spans, Span{Start: start, End: index})
				start = -1
			}
		} else if start < 0 {
			start = index
		}
		index++
	}
	if start >= 0 {
		*spans = append(*spans, Span{Start: start, End: index})
	}
	return index
}

package syntax

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Plain finds word boundaries without any language knowledge.
// Words come from Unicode word segmentation; whitespace is dropped and
// every punctuation or symbol character (other than '_') stands alone.
type Plain struct {
	spans Spans
}

// NewPlain creates a plain-text highlighter.
func NewPlain() *Plain {
	return &Plain{}
}

// Update implements Highlighter.
func (p *Plain) Update(lines []string) {
	p.spans = segment(strings.Join(lines, "\n"))
}

// SpansBefore implements Highlighter.
func (p *Plain) SpansBefore(index int) []Span {
	return p.spans.Before(index)
}

// SpansAfter implements Highlighter.
func (p *Plain) SpansAfter(index int) []Span {
	return p.spans.After(index)
}

// Spans returns all spans in document order.
func (p *Plain) Spans() Spans {
	return p.spans
}

// segment splits text into word spans.
func segment(text string) Spans {
	var spans Spans
	index := 0
	state := -1
	for len(text) > 0 {
		var word string
		word, text, state = uniseg.FirstWordInString(text, state)
		index = appendWord(&spans, word, index)
	}
	return spans
}

// appendWord adds the spans of one segment and returns the index after it.
func appendWord(spans *Spans, word string, index int) int {
	start := -1
	for _, r := range word {
		switch {
		case unicode.IsSpace(r):
			if start >= 0 {
				*spans = append(*spans, Span{Start: start, End: index})
				start = -1
			}
		case isPunct(r):
			if start >= 0 {
				*spans = append(*spans, Span{Start: start, End: index})
				start = -1
			}
			*spans = append(*spans, Span{Start: index, End: index + 1})
		default:
			if start < 0 {
				start = index
			}
		}
		index++
	}
	if start >= 0 {
		*spans = append(*spans, Span{Start: start, End: index})
	}
	return index
}

func isPunct(r rune) bool {
	return r != '_' && (unicode.IsPunct(r) || unicode.IsSymbol(r))
}

// Package syntax provides token spans for syntax-aware word navigation.
//
// A Highlighter turns the lines of a document into an ordered list of
// token spans measured in flat character indexes (runes, with one character
// per line break). Cursor movement asks for the spans nearest to a
// character index and lands on their edges.
//
// Two implementations are provided:
//
//   - Plain segments text at word, whitespace and punctuation boundaries.
//   - Chroma tokenises text with a chroma lexer for a named language.
//
// Highlighters are restartable: Update may be called after every edit and
// replaces all previously computed spans.
package syntax

import "sort"

// Span is a half-open range [Start, End) of character indexes.
type Span struct {
	Start int
	End   int
}

// Len returns the number of characters in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains returns true if index lies inside the span.
func (s Span) Contains(index int) bool {
	return index >= s.Start && index < s.End
}

// Highlighter produces token spans for a document.
type Highlighter interface {
	// Update recomputes spans for the given lines.
	Update(lines []string)

	// SpansBefore returns the spans starting before index, nearest first.
	SpansBefore(index int) []Span

	// SpansAfter returns the spans ending after index, nearest first.
	SpansAfter(index int) []Span
}

// Spans is an ordered, non-overlapping list of spans.
type Spans []Span

// Before returns the spans with Start < index, nearest first.
func (ss Spans) Before(index int) []Span {
	n := sort.Search(len(ss), func(i int) bool {
		return ss[i].Start >= index
	})
	result := make([]Span, n)
	for i := 0; i < n; i++ {
		result[i] = ss[n-1-i]
	}
	return result
}

// After returns the spans with End > index, nearest first.
func (ss Spans) After(index int) []Span {
	n := sort.Search(len(ss), func(i int) bool {
		return ss[i].End > index
	})
	result := make([]Span, len(ss)-n)
	copy(result, ss[n:])
	return result
}

// At returns the span containing index.
func (ss Spans) At(index int) (Span, bool) {
	n := sort.Search(len(ss), func(i int) bool {
		return ss[i].End > index
	})
	if n < len(ss) && ss[n].Contains(index) {
		return ss[n], true
	}
	return Span{}, false
}

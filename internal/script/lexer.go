package script

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/dshills/caret/internal/engine/buffer"
)

// tokenize splits a command line into words. A parenthesized group such
// as "(C:1, L:2)" is one word, as is a Go-quoted string. Text after an
// unquoted '#' is a comment.
func tokenize(line string) ([]string, error) {
	var words []string
	for i := 0; i < len(line); {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '#':
			return words, nil
		case c == '(':
			// "(C:0, L:0)-(C:4, L:0)" is a single selection word.
			j := i
			for {
				end := strings.IndexByte(line[j:], ')')
				if end < 0 {
					return nil, fmt.Errorf("%w: unclosed %q", ErrArguments, line[i:])
				}
				j += end + 1
				if !strings.HasPrefix(line[j:], "-(") {
					break
				}
				j++
			}
			words = append(words, line[i:j])
			i = j
		case c == '"' || c == '`':
			quoted, err := strconv.QuotedPrefix(line[i:])
			if err != nil {
				return nil, fmt.Errorf("%w: bad string %q", ErrArguments, line[i:])
			}
			s, _ := strconv.Unquote(quoted)
			words = append(words, s)
			i += len(quoted)
		default:
			end := strings.IndexFunc(line[i:], unicode.IsSpace)
			if end < 0 {
				end = len(line) - i
			}
			words = append(words, line[i:i+end])
			i += end
		}
	}
	return words, nil
}

// Args gives typed access to command arguments.
type Args []string

// Count returns ErrArguments unless there are min to max arguments.
func (a Args) Count(min, max int) error {
	if len(a) < min || len(a) > max {
		if min == max {
			return fmt.Errorf("%w: want %d, got %d", ErrArguments, min, len(a))
		}
		return fmt.Errorf("%w: want %d to %d, got %d", ErrArguments, min, max, len(a))
	}
	return nil
}

// Position parses a[i] as a "(C:col, L:line)" position.
func (a Args) Position(i int) (buffer.Position, error) {
	p, err := buffer.ParsePosition(a[i])
	if err != nil {
		return p, fmt.Errorf("%w: %v", ErrArguments, err)
	}
	return p, nil
}

// Number parses a[i] as a decimal integer.
func (a Args) Number(i int) (int, error) {
	n, err := strconv.Atoi(a[i])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrArguments, a[i])
	}
	return n, nil
}

// Repeat returns the optional count in a[0], 1 when absent.
func (a Args) Repeat() (int, error) {
	if err := a.Count(0, 1); err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return 1, nil
	}
	n, err := a.Number(0)
	if err == nil && n < 1 {
		err = fmt.Errorf("%w: count must be positive", ErrArguments)
	}
	return n, err
}

// Selection parses "(tail)-(head)" or a bare "(head)" caret.
func (a Args) Selection(i int) (buffer.Selection, error) {
	tail, head, ranged := strings.Cut(a[i], ")-(")
	if !ranged {
		p, err := a.Position(i)
		return buffer.CaretAt(p), err
	}
	t, err := buffer.ParsePosition(tail + ")")
	if err != nil {
		return buffer.Selection{}, fmt.Errorf("%w: %v", ErrArguments, err)
	}
	h, err := buffer.ParsePosition("(" + head)
	if err != nil {
		return buffer.Selection{}, fmt.Errorf("%w: %v", ErrArguments, err)
	}
	return buffer.NewSelection(t, h), nil
}

// selectionLabel formats a selection the way Selection parses it.
func selectionLabel(sel buffer.Selection) string {
	if !sel.IsRange() {
		return sel.Head.String()
	}
	return sel.Tail.String() + "-" + sel.Head.String()
}

package diagnostics

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dshills/caret/internal/engine/buffer"
)

// ErrSyntax indicates a line that is not a diagnostic label.
var ErrSyntax = errors.New("invalid diagnostic")

// Parse reads one diagnostic label per line, in the format produced by
// Diagnostic.Label. Blank lines and lines starting with '#' are skipped.
// source is recorded on every diagnostic.
func Parse(r io.Reader, source string) ([]Diagnostic, error) {
	var (
		out  []Diagnostic
		errs []error
		n    int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d, ok := ParseLabel(line)
		if !ok {
			errs = append(errs, fmt.Errorf("%w at line %d: %q", ErrSyntax, n, line))
			continue
		}
		d.Source = source
		out = append(out, d)
	}
	if err := sc.Err(); err != nil {
		return out, err
	}
	return out, errors.Join(errs...)
}

// ParseLabel parses the output of Diagnostic.Label.
func ParseLabel(s string) (Diagnostic, bool) {
	var d Diagnostic

	start, rest, ok := cutPosition(s)
	if !ok {
		return d, false
	}
	d.Start, d.End = start, start
	if after, found := strings.CutPrefix(rest, "-"); found {
		if d.End, rest, ok = cutPosition(after); !ok {
			return d, false
		}
	}
	if d.End.Before(d.Start) {
		return d, false
	}

	severity, message, ok := strings.Cut(strings.TrimPrefix(rest, " "), ": ")
	if !ok {
		return d, false
	}
	if d.Severity, ok = ParseSeverity(severity); !ok {
		return d, false
	}
	d.Message = message
	return d, true
}

// cutPosition parses a leading "(C:c, L:l)" and returns the remainder.
func cutPosition(s string) (buffer.Position, string, bool) {
	end := strings.IndexByte(s, ')')
	if end < 0 {
		return buffer.Position{}, s, false
	}
	p, ok := buffer.TryParsePosition(s[:end+1])
	return p, s[end+1:], ok
}

package diagnostics

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rdleal/intervalst/interval"

	"github.com/dshills/caret/internal/engine"
	"github.com/dshills/caret/internal/engine/buffer"
)

// Errors returned by the store.
var (
	// ErrStaleRevision indicates diagnostics computed for an older document revision.
	ErrStaleRevision = errors.New("stale revision")

	// ErrInvalidRange indicates a diagnostic whose end precedes its start.
	ErrInvalidRange = errors.New("invalid diagnostic range")
)

// Severity ranks a diagnostic.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

var severityNames = []string{"error", "warning", "info", "hint"}

// String returns the severity name.
func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "unknown"
}

// ParseSeverity converts a severity name.
func ParseSeverity(name string) (Severity, bool) {
	i := slices.Index(severityNames, strings.ToLower(name))
	if i < 0 {
		return 0, false
	}
	return Severity(i), true
}

// Diagnostic is a message attached to a span of the document.
type Diagnostic struct {
	Start    buffer.Position
	End      buffer.Position
	Severity Severity
	Message  string
	Source   string
}

// Contains reports whether p lies in [Start, End). An empty diagnostic
// contains its start.
func (d Diagnostic) Contains(p buffer.Position) bool {
	if d.Start == d.End {
		return p == d.Start
	}
	return !p.Before(d.Start) && p.Before(d.End)
}

// Label formats the diagnostic as "(C:c, L:l)-(C:c, L:l) severity: message".
// The range part is a single position when Start equals End.
func (d Diagnostic) Label() string {
	span := d.Start.String()
	if d.End != d.Start {
		span += "-" + d.End.String()
	}
	return fmt.Sprintf("%s %s: %s", span, d.Severity, d.Message)
}

// Store holds one snapshot of diagnostics for a document revision.
// It is safe for concurrent use, so a background checker can publish
// while the editor reads.
type Store struct {
	mu       sync.RWMutex
	revision uint64
	items    []Diagnostic
	tree     *interval.MultiValueSearchTree[int, buffer.Position]
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{tree: newTree()}
}

func newTree() *interval.MultiValueSearchTree[int, buffer.Position] {
	return interval.NewMultiValueSearchTreeWithOptions[int, buffer.Position](
		func(a, b buffer.Position) int { return a.Compare(b) },
		interval.TreeWithIntervalPoint(),
	)
}

// Replace swaps in the diagnostics computed for revision. A snapshot for a
// revision older than the current one is rejected with ErrStaleRevision.
func (s *Store) Replace(revision uint64, diags []Diagnostic) error {
	tree := newTree()
	items := slices.Clone(diags)
	slices.SortStableFunc(items, compare)
	for i, d := range items {
		if d.End.Before(d.Start) {
			return fmt.Errorf("%w: %s", ErrInvalidRange, d.Label())
		}
		if err := tree.Insert(d.Start, d.End, i); err != nil {
			return fmt.Errorf("indexing %s: %w", d.Label(), err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if revision < s.revision {
		return fmt.Errorf("%w: have %d, got %d", ErrStaleRevision, s.revision, revision)
	}
	s.revision = revision
	s.items = items
	s.tree = tree
	return nil
}

// Publish replaces the snapshot with diagnostics for doc's current revision.
func (s *Store) Publish(doc *engine.SourceCode, diags []Diagnostic) error {
	return s.Replace(doc.Revision(), diags)
}

// Clear removes every diagnostic and keeps the revision.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.tree = newTree()
}

// Revision returns the revision of the current snapshot.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Current reports whether the snapshot matches doc's revision.
func (s *Store) Current(doc *engine.SourceCode) bool {
	return s.Revision() == doc.Revision()
}

// Len returns the number of diagnostics.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// All returns every diagnostic in document order.
func (s *Store) All() []Diagnostic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// At returns the diagnostics containing p.
func (s *Store) At(p buffer.Position) []Diagnostic {
	return s.find(p, p, func(d Diagnostic) bool { return d.Contains(p) })
}

// InRange returns the diagnostics overlapping [from, to].
func (s *Store) InRange(from, to buffer.Position) []Diagnostic {
	if to.Before(from) {
		from, to = to, from
	}
	return s.find(from, to, func(d Diagnostic) bool {
		return !d.End.Before(from) && !to.Before(d.Start)
	})
}

// Line returns the diagnostics touching line.
func (s *Store) Line(line int) []Diagnostic {
	from := buffer.NewPosition(line, 0)
	to := buffer.NewPosition(line+1, 0)
	return s.find(from, to, func(d Diagnostic) bool {
		return d.Start.Line <= line && d.End.Line >= line
	})
}

func (s *Store) find(from, to buffer.Position, keep func(Diagnostic) bool) []Diagnostic {
	s.mu.RLock()
	defer s.mu.RUnlock()

	indexes, ok := s.tree.AllIntersections(from, to)
	if !ok {
		return nil
	}
	slices.Sort(indexes)
	var out []Diagnostic
	for _, i := range slices.Compact(indexes) {
		if d := s.items[i]; keep(d) {
			out = append(out, d)
		}
	}
	return out
}

func compare(a, b Diagnostic) int {
	if c := a.Start.Compare(b.Start); c != 0 {
		return c
	}
	if c := a.End.Compare(b.End); c != 0 {
		return c
	}
	return int(a.Severity) - int(b.Severity)
}

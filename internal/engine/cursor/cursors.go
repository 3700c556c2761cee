package cursor

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/dshills/caret/internal/engine/buffer"
)

// Collection manages the carets of one document.
// The collection always holds at least one range; index 0 is primary.
// Ranges keep the order they were added in; DocumentOrder gives the order
// in which a batch edit must visit them.
type Collection struct {
	store  *buffer.Store
	ranges []*Range
}

// NewCollection creates a collection with a caret at the start of store
// and subscribes it to store mutations.
func NewCollection(store *buffer.Store) *Collection {
	c := &Collection{store: store}
	c.ranges = []*Range{{store: store, head: &Cursor{store: store, line: store.First()}}}
	store.Subscribe(c.apply)
	return c
}

// Count returns the number of ranges.
func (c *Collection) Count() int {
	return len(c.ranges)
}

// IsMulti returns true if there are multiple ranges.
func (c *Collection) IsMulti() bool {
	return len(c.ranges) > 1
}

// Primary returns the primary range.
func (c *Collection) Primary() *Range {
	return c.ranges[0]
}

// Get returns the range at index, or nil if index is out of range.
func (c *Collection) Get(index int) *Range {
	if index < 0 || index >= len(c.ranges) {
		return nil
	}
	return c.ranges[index]
}

// Ranges returns a copy of the range list in index order.
func (c *Collection) Ranges() []*Range {
	return slices.Clone(c.ranges)
}

// Selections returns the durable form of every range in index order.
func (c *Collection) Selections() []buffer.Selection {
	sels := make([]buffer.Selection, len(c.ranges))
	for i, r := range c.ranges {
		sels[i] = r.Selection()
	}
	return sels
}

// Resolve returns the durable form of every range in index order. The
// first range that no longer resolves stops it with an error.
func (c *Collection) Resolve() ([]buffer.Selection, error) {
	sels := make([]buffer.Selection, len(c.ranges))
	for i, r := range c.ranges {
		sel, err := r.Resolve()
		if err != nil {
			return nil, fmt.Errorf("caret %d: %w", i, err)
		}
		sels[i] = sel
	}
	return sels, nil
}

// Add appends a range and returns it. If the selection coincides with or
// overlaps an existing range, nothing is added and the existing range is
// returned instead.
func (c *Collection) Add(sel buffer.Selection) (*Range, error) {
	r, err := NewRange(c.store, sel)
	if err != nil {
		return nil, err
	}
	sel = r.Selection()
	for _, existing := range c.ranges {
		if Overlaps(existing.Selection(), sel) {
			return existing, nil
		}
	}
	c.ranges = append(c.ranges, r)
	return r, nil
}

// SetPrimary replaces every range with a single one.
func (c *Collection) SetPrimary(sel buffer.Selection) error {
	r, err := NewRange(c.store, sel)
	if err != nil {
		return err
	}
	c.ranges = []*Range{r}
	return nil
}

// SelectRanges replaces every range, keeping the given order.
// Nothing changes if any selection is invalid.
func (c *Collection) SelectRanges(sels []buffer.Selection) error {
	if len(sels) == 0 {
		return fmt.Errorf("select no ranges: %w", buffer.ErrInvalidPosition)
	}
	ranges := make([]*Range, 0, len(sels))
	for _, sel := range sels {
		r, err := NewRange(c.store, sel)
		if err != nil {
			return err
		}
		ranges = append(ranges, r)
	}
	c.ranges = ranges
	c.Normalize()
	return nil
}

// Remove drops the range at index. The last range cannot be removed.
func (c *Collection) Remove(index int) bool {
	if len(c.ranges) == 1 || index < 0 || index >= len(c.ranges) {
		return false
	}
	c.ranges = slices.Delete(c.ranges, index, index+1)
	return true
}

// ClearSecondary removes every range except the primary.
func (c *Collection) ClearSecondary() {
	c.ranges = c.ranges[:1]
}

// HasSelection returns true if any range has a selection.
func (c *Collection) HasSelection() bool {
	for _, r := range c.ranges {
		if r.IsRangeSelected() {
			return true
		}
	}
	return false
}

// Normalize discards every range that coincides with or overlaps a range
// of lower index. Returns the number of ranges discarded.
func (c *Collection) Normalize() int {
	kept := make([]*Range, 0, len(c.ranges))
	keptSels := make([]buffer.Selection, 0, len(c.ranges))
	for _, r := range c.ranges {
		sel := r.Selection()
		if slices.ContainsFunc(keptSels, func(k buffer.Selection) bool { return Overlaps(k, sel) }) {
			continue
		}
		kept = append(kept, r)
		keptSels = append(keptSels, sel)
	}
	removed := len(c.ranges) - len(kept)
	c.ranges = kept
	return removed
}

// DocumentOrder returns range indexes sorted by position in the document.
func (c *Collection) DocumentOrder() []int {
	order := make([]int, len(c.ranges))
	starts := make([]buffer.Position, len(c.ranges))
	for i, r := range c.ranges {
		order[i] = i
		starts[i] = r.Start()
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if d := starts[a].Compare(starts[b]); d != 0 {
			return d
		}
		return cmp.Compare(a, b)
	})
	return order
}

// Overlaps reports whether two selections must be merged: their heads
// coincide, or they share at least one character, or one is a caret
// strictly inside the other.
func Overlaps(a, b buffer.Selection) bool {
	if a.Head == b.Head {
		return true
	}
	return a.Start().Before(b.End()) && b.Start().Before(a.End())
}

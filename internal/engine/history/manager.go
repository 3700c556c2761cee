package history

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dshills/caret/internal/engine/buffer"
)

// DefaultMaxEntries is the undo depth used when none is given.
const DefaultMaxEntries = 1000

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

var log = commonlog.GetLogger("caret.history")

// Manager keeps the undo and redo stacks of one document.
type Manager struct {
	undoStack []*Item
	redoStack []*Item

	// Grouping state
	group      *Item
	grouping   bool
	groupDepth int

	maxEntries int
}

// NewManager creates a manager holding at most maxEntries undo items.
func NewManager(maxEntries int) *Manager {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Manager{maxEntries: maxEntries}
}

// Add pushes an item onto the undo stack and clears the redo stack.
// Items without document changes are dropped.
func (m *Manager) Add(item *Item) {
	if item == nil || !item.HasChanges() {
		return
	}

	if m.grouping {
		if m.group == nil {
			m.group = item
		} else {
			m.group.merge(item)
		}
		return
	}

	m.push(item)
}

func (m *Manager) push(item *Item) {
	m.undoStack = append(m.undoStack, item)
	m.redoStack = nil

	if len(m.undoStack) > m.maxEntries {
		excess := len(m.undoStack) - m.maxEntries
		m.undoStack = m.undoStack[excess:]
	}
}

// Undo reverts the most recent item against t.
// If replay fails the item stays on the undo stack.
func (m *Manager) Undo(t Target) error {
	if len(m.undoStack) == 0 {
		return ErrNothingToUndo
	}

	item := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]

	if err := item.replay(Undo, t); err != nil {
		m.undoStack = append(m.undoStack, item)
		log.Errorf("undo %q failed: %s", item.Description, err)
		return fmt.Errorf("undo %q: %w: %w", item.Description, buffer.ErrInvalidState, err)
	}

	m.redoStack = append(m.redoStack, item)
	log.Debugf("undo %q (%d actions)", item.Description, item.ActionCount())
	return nil
}

// Redo reapplies the most recently undone item against t.
// If replay fails the item stays on the redo stack.
func (m *Manager) Redo(t Target) error {
	if len(m.redoStack) == 0 {
		return ErrNothingToRedo
	}

	item := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]

	if err := item.replay(Redo, t); err != nil {
		m.redoStack = append(m.redoStack, item)
		log.Errorf("redo %q failed: %s", item.Description, err)
		return fmt.Errorf("redo %q: %w: %w", item.Description, buffer.ErrInvalidState, err)
	}

	m.undoStack = append(m.undoStack, item)
	log.Debugf("redo %q (%d actions)", item.Description, item.ActionCount())
	return nil
}

// CanUndo returns true if undo is available.
func (m *Manager) CanUndo() bool {
	return len(m.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (m *Manager) CanRedo() bool {
	return len(m.redoStack) > 0
}

// UndoCount returns the number of undo items available.
func (m *Manager) UndoCount() int {
	return len(m.undoStack)
}

// RedoCount returns the number of redo items available.
func (m *Manager) RedoCount() int {
	return len(m.redoStack)
}

// BeginGroup starts merging added items into one undo unit.
// Nested calls are counted; only the outermost EndGroup closes the group.
func (m *Manager) BeginGroup() {
	m.groupDepth++
	if m.grouping {
		return
	}
	m.grouping = true
	m.group = nil
}

// EndGroup closes the group and pushes the merged item, named description.
func (m *Manager) EndGroup(description string) {
	if !m.grouping {
		return
	}
	m.groupDepth--
	if m.groupDepth > 0 {
		return
	}

	m.grouping = false
	group := m.group
	m.group = nil
	if group == nil {
		return
	}
	if description != "" {
		group.Description = description
	}
	m.push(group)
}

// CancelGroup discards the pending group without adding it to history.
// Edits already applied stay in the document.
func (m *Manager) CancelGroup() {
	m.grouping = false
	m.groupDepth = 0
	m.group = nil
}

// IsGrouping returns true while a group is open.
func (m *Manager) IsGrouping() bool {
	return m.grouping
}

// Transaction runs fn inside a group. The group is cancelled if fn fails.
func (m *Manager) Transaction(description string, fn func() error) error {
	m.BeginGroup()
	if err := fn(); err != nil {
		m.CancelGroup()
		return err
	}
	m.EndGroup(description)
	return nil
}

// Clear removes all undo and redo history.
func (m *Manager) Clear() {
	m.undoStack = nil
	m.redoStack = nil
	m.CancelGroup()
}

// UndoInfo returns info about available undo items, oldest first.
func (m *Manager) UndoInfo() []ItemInfo {
	result := make([]ItemInfo, len(m.undoStack))
	for i, item := range m.undoStack {
		result[i] = item.info()
	}
	return result
}

// RedoInfo returns info about available redo items, oldest first.
func (m *Manager) RedoInfo() []ItemInfo {
	result := make([]ItemInfo, len(m.redoStack))
	for i, item := range m.redoStack {
		result[i] = item.info()
	}
	return result
}

// PeekUndo returns info about the next undo item without removing it.
func (m *Manager) PeekUndo() (ItemInfo, bool) {
	if len(m.undoStack) == 0 {
		return ItemInfo{}, false
	}
	return m.undoStack[len(m.undoStack)-1].info(), true
}

// PeekRedo returns info about the next redo item without removing it.
func (m *Manager) PeekRedo() (ItemInfo, bool) {
	if len(m.redoStack) == 0 {
		return ItemInfo{}, false
	}
	return m.redoStack[len(m.redoStack)-1].info(), true
}

// SetMaxEntries changes the undo depth, dropping the oldest items if needed.
func (m *Manager) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	m.maxEntries = max

	if len(m.undoStack) > max {
		excess := len(m.undoStack) - max
		m.undoStack = m.undoStack[excess:]
	}
}

// MaxEntries returns the undo depth.
func (m *Manager) MaxEntries() int {
	return m.maxEntries
}

// Checkpoint represents a point in history that can be returned to.
type Checkpoint struct {
	undoDepth int
}

// CreateCheckpoint creates a checkpoint at the current history position.
func (m *Manager) CreateCheckpoint() Checkpoint {
	return Checkpoint{undoDepth: len(m.undoStack)}
}

// UndoToCheckpoint undoes all items added since the checkpoint.
func (m *Manager) UndoToCheckpoint(cp Checkpoint, t Target) error {
	for m.UndoCount() > cp.undoDepth {
		if err := m.Undo(t); err != nil {
			return err
		}
	}
	return nil
}

// RedoToCheckpoint redoes items until the checkpoint depth is reached.
func (m *Manager) RedoToCheckpoint(cp Checkpoint, t Target) error {
	for m.UndoCount() < cp.undoDepth && m.CanRedo() {
		if err := m.Redo(t); err != nil {
			return err
		}
	}
	return nil
}

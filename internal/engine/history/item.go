package history

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/dshills/caret/internal/engine/buffer"
)

// ActionList is the sequence of actions one caret produced in a command.
type ActionList struct {
	// Index is the caret's position in the collection when the command ran.
	Index   int
	Actions []Action
}

// NewActionList creates an empty list for the caret at index.
func NewActionList(index int) *ActionList {
	return &ActionList{Index: index}
}

// Add appends an action.
func (l *ActionList) Add(a Action) {
	l.Actions = append(l.Actions, a)
}

// Len returns the number of actions.
func (l *ActionList) Len() int {
	return len(l.Actions)
}

// HasChanges returns true if the list holds any action besides MoveCursor.
func (l *ActionList) HasChanges() bool {
	for _, a := range l.Actions {
		if a.Kind != MoveCursor {
			return true
		}
	}
	return false
}

// SetCursorMove records the caret's selection before and after the command.
// An existing MoveCursor keeps its Before and takes the new After.
func (l *ActionList) SetCursorMove(before, after buffer.Selection) {
	for i := range l.Actions {
		if l.Actions[i].Kind == MoveCursor {
			l.Actions[i].After = after
			l.Actions[i].At = after.Head
			return
		}
	}
	l.Add(NewMoveCursor(before, after))
}

// cursorMove returns the list's MoveCursor action.
func (l *ActionList) cursorMove() (Action, bool) {
	for _, a := range l.Actions {
		if a.Kind == MoveCursor {
			return a, true
		}
	}
	return Action{}, false
}

// Item is the undo unit of one user command.
// Lists are kept in the order the command processed them.
type Item struct {
	Description string
	Timestamp   time.Time
	Lists       []*ActionList

	// marks are the list offsets where merged items begin.
	marks []int
}

// NewItem creates an empty item.
func NewItem(description string) *Item {
	return &Item{
		Description: description,
		Timestamp:   time.Now(),
	}
}

// Add appends a list. Empty lists are ignored.
func (it *Item) Add(l *ActionList) {
	if l == nil || l.Len() == 0 {
		return
	}
	it.Lists = append(it.Lists, l)
}

// HasChanges returns true if any list changed the document.
func (it *Item) HasChanges() bool {
	for _, l := range it.Lists {
		if l.HasChanges() {
			return true
		}
	}
	return false
}

// ActionCount returns the number of actions in all lists.
func (it *Item) ActionCount() int {
	n := 0
	for _, l := range it.Lists {
		n += l.Len()
	}
	return n
}

// merge appends the lists of next so both undo as one unit.
func (it *Item) merge(next *Item) {
	it.marks = append(it.marks, len(it.Lists))
	it.marks = append(it.marks, next.shiftedMarks(len(it.Lists))...)
	it.Lists = append(it.Lists, next.Lists...)
}

func (it *Item) shiftedMarks(by int) []int {
	out := make([]int, len(it.marks))
	for i, m := range it.marks {
		out[i] = m + by
	}
	return out
}

// replay applies every text action in dir, then restores the carets.
func (it *Item) replay(dir Direction, t Target) error {
	if dir == Undo {
		for i := len(it.Lists) - 1; i >= 0; i-- {
			acts := it.Lists[i].Actions
			for j := len(acts) - 1; j >= 0; j-- {
				if err := acts[j].Apply(Undo, t); err != nil {
					return fmt.Errorf("list %d action %s: %w", it.Lists[i].Index, acts[j], err)
				}
			}
		}
	} else {
		for _, l := range it.Lists {
			for _, a := range l.Actions {
				if err := a.Apply(Redo, t); err != nil {
					return fmt.Errorf("list %d action %s: %w", l.Index, a, err)
				}
			}
		}
	}

	sels := it.Selections(dir)
	if len(sels) == 0 {
		return nil
	}
	return t.SelectRanges(sels)
}

// Selections returns the caret state to restore after replaying in dir,
// ordered by caret index. Undo restores the state before the first merged
// command; redo restores the state after the last one.
func (it *Item) Selections(dir Direction) []buffer.Selection {
	lists := it.Lists
	if len(it.marks) > 0 {
		if dir == Undo {
			lists = lists[:it.marks[0]]
		} else {
			lists = lists[it.marks[len(it.marks)-1]:]
		}
	}

	lists = slices.Clone(lists)
	slices.SortStableFunc(lists, func(a, b *ActionList) int {
		return cmp.Compare(a.Index, b.Index)
	})

	sels := make([]buffer.Selection, 0, len(lists))
	for _, l := range lists {
		mv, ok := l.cursorMove()
		if !ok {
			continue
		}
		if dir == Undo {
			sels = append(sels, mv.Before)
		} else {
			sels = append(sels, mv.After)
		}
	}
	return sels
}

// ItemInfo describes an item without exposing its actions.
type ItemInfo struct {
	Description string
	Timestamp   time.Time
	Actions     int
}

func (it *Item) info() ItemInfo {
	return ItemInfo{
		Description: it.Description,
		Timestamp:   it.Timestamp,
		Actions:     it.ActionCount(),
	}
}

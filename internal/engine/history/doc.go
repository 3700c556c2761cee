// Package history provides undo/redo for the editing engine.
//
// Every edit command records what it did as data rather than as a closure,
// so the same record can be replayed in either direction:
//
// # Actions
//
// An Action is one primitive change: a character run inserted or deleted,
// a line break inserted or deleted, a tab inserted or deleted, two lines
// swapped, or a caret moved. Text actions carry the durable position they
// apply at and the text involved; MoveCursor carries the full selection of
// one caret before and after the command.
//
// # Action lists and items
//
// An ActionList holds the actions one caret produced during a command and
// remembers that caret's index in the collection. An Item groups the lists
// of a single user command (one keystroke, one paste) and is the unit that
// Undo and Redo operate on.
//
// # Manager
//
// The Manager keeps bounded undo and redo stacks of items:
//
//	m := NewManager(1000)
//	m.Add(item)
//
//	m.Undo(target)
//	m.Redo(target)
//
// Replay applies text actions in reverse for undo and forward for redo,
// then restores every caret from the MoveCursor actions, ordered by caret
// index. Items can be merged with BeginGroup/EndGroup.
//
// Thread Safety:
//
// A Manager belongs to one document and is not safe for concurrent use.
package history

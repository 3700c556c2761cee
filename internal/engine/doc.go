// Package engine provides the editing engine behind a caret source view.
//
// The engine package serves as the main facade, combining the line store,
// multi-caret handling and undo/redo history into a single document type,
// SourceCode, that a host drives with discrete edit intents.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - buffer: line store with stable line handles, positions and selections
//   - cursor: cursors, selection ranges and the multi-caret collection
//   - history: recorded edit actions and the undo/redo manager
//
// # Basic Usage
//
// Create a document and edit at the caret:
//
//	d := engine.New(engine.WithContent("Hello"))
//	d.SetCaret(engine.Position{Line: 0, Column: 5})
//	d.InsertString(", World")
//
//	d.Text() // "Hello, World"
//	d.Undo() // "Hello"
//
// # Multi-Caret Editing
//
// Every command applies to all carets. Carets are visited in document
// order and each one sees the text as left by the carets before it:
//
//	d := engine.New(engine.WithContent("foo bar foo"))
//	d.SetCaret(engine.Position{Line: 0, Column: 0})
//	d.AddCaret(engine.Position{Line: 0, Column: 8})
//	d.InsertCharacter('X', nil)
//
//	// Result: "Xfoo bar Xfoo"
//
// Carets that coincide or overlap after a command are merged; the caret
// with the lower index survives. A single Undo reverts the command for
// every caret and restores each caret exactly.
//
// # Failures
//
// Out-of-range positions fail with ErrInvalidPosition. Moving or deleting
// past a document boundary is a no-op. If one caret of a multi-caret
// command fails, it is skipped and logged; the other carets are still
// committed as one undo entry and the errors are returned joined.
//
// # Thread Safety
//
// SourceCode is not safe for concurrent use. Handlers and listeners are
// called synchronously and may call back into the document. Results of
// background analysis must be applied between commands.
package engine

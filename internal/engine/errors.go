package engine

import (
	"errors"

	"github.com/dshills/caret/internal/engine/buffer"
	"github.com/dshills/caret/internal/engine/history"
)

// Errors returned by engine operations.
var (
	// ErrInvalidPosition indicates a line or column outside the document.
	ErrInvalidPosition = buffer.ErrInvalidPosition

	// ErrInvalidState indicates a line or cursor no longer owned by the
	// document, typically while replaying stale history.
	ErrInvalidState = buffer.ErrInvalidState

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo

	// ErrReadOnly indicates an edit was attempted on a read-only document.
	ErrReadOnly = errors.New("document is read-only")

	// ErrNoClipboard indicates a clipboard command without a clipboard.
	ErrNoClipboard = errors.New("no clipboard configured")
)

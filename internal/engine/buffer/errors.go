package buffer

import "errors"

// Errors returned by buffer operations.
var (
	// ErrInvalidPosition indicates a line or column outside the document bounds.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrInvalidState indicates a handle that is not, or is no longer, owned
	// by the store it is used with.
	ErrInvalidState = errors.New("invalid state")

	// ErrNoNeighbor indicates a swap or join past the first or last line.
	ErrNoNeighbor = errors.New("no neighboring line")

	// ErrLineBreak indicates text passed to a single-line operation contains
	// a line break.
	ErrLineBreak = errors.New("text contains a line break")
)

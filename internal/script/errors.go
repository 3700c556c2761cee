package script

import (
	"errors"
	"fmt"
)

// Script errors.
var (
	// ErrUnknownCommand indicates a command name with no registered command.
	ErrUnknownCommand = errors.New("script: unknown command")

	// ErrArguments indicates missing, extra or malformed arguments.
	ErrArguments = errors.New("script: bad arguments")

	// ErrExpectation indicates a failed expect command.
	ErrExpectation = errors.New("script: expectation failed")
)

// Error locates a failed command in the script.
type Error struct {
	// Line is the 1-based script line.
	Line int
	// Text is the command as written.
	Text string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Text, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Package clipboard provides the clipboard used by Cut, Copy and Paste.
//
// The system clipboard is used when it can be initialized. Otherwise the
// clipboard falls back to an in-process buffer, so editing keeps working on
// headless machines.
package clipboard

import (
	"sync"

	"github.com/tliron/commonlog"
	"github.com/zyedidia/clipboard"
)

var log = commonlog.GetLogger("caret.clipboard")

// Method is the storage a Clipboard uses.
type Method uint8

const (
	// MethodSystem uses the system clipboard.
	MethodSystem Method = iota
	// MethodInternal keeps text in memory.
	MethodInternal
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodSystem:
		return "system"
	case MethodInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Register is the system clipboard register.
const Register = "clipboard"

// Clipboard reads and writes text through the chosen Method.
// It is safe for concurrent use.
type Clipboard struct {
	mu     sync.Mutex
	method Method
	text   string
}

// New initializes the system clipboard when system is true and falls back
// to the internal method if that fails. The returned error explains the
// fallback and is not fatal.
func New(system bool) (*Clipboard, error) {
	if !system {
		return NewInternal(), nil
	}
	if err := clipboard.Initialize(); err != nil {
		log.Warningf("system clipboard unavailable, using internal: %v", err)
		return NewInternal(), err
	}
	return &Clipboard{method: MethodSystem}, nil
}

// NewInternal returns an in-memory clipboard.
func NewInternal() *Clipboard {
	return &Clipboard{method: MethodInternal}
}

// Method returns the method in use.
func (c *Clipboard) Method() Method {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.method
}

// ReadText returns the clipboard contents.
func (c *Clipboard) ReadText() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.method == MethodSystem {
		return clipboard.ReadAll(Register)
	}
	return c.text, nil
}

// WriteText replaces the clipboard contents.
func (c *Clipboard) WriteText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.method == MethodSystem {
		return clipboard.WriteAll(text, Register)
	}
	c.text = text
	return nil
}

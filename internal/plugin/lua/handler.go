package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/caret/internal/engine"
	"github.com/dshills/caret/internal/engine/buffer"
	"github.com/dshills/caret/internal/engine/cursor"
	"github.com/dshills/caret/internal/engine/history"
)

// Hook names looked up in the script.
const (
	HookInserting = "on_inserting"
	HookInserted  = "on_inserted"
	HookLineBreak = "on_linebreak"
)

// call is the edit a hook is running inside.
type call struct {
	doc        *engine.SourceCode
	r          *cursor.Range
	list       *history.ActionList
	completion engine.CompletionHandler
}

// Handler implements engine.SpecialCharacterHandler with Lua hooks.
type Handler struct {
	state   *State
	current *call
}

var _ engine.SpecialCharacterHandler = (*Handler)(nil)

// NewHandler creates a handler running the script at path.
func NewHandler(path string, opts ...StateOption) (*Handler, error) {
	h, err := newHandler(opts...)
	if err != nil {
		return nil, err
	}
	if err := h.state.DoFile(path); err != nil {
		h.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return h, nil
}

// NewHandlerFromString creates a handler running the given script.
func NewHandlerFromString(script string, opts ...StateOption) (*Handler, error) {
	h, err := newHandler(opts...)
	if err != nil {
		return nil, err
	}
	if err := h.state.DoString(script); err != nil {
		h.Close()
		return nil, fmt.Errorf("load script: %w", err)
	}
	return h, nil
}

func newHandler(opts ...StateOption) (*Handler, error) {
	state, err := NewState(opts...)
	if err != nil {
		return nil, err
	}
	h := &Handler{state: state}
	state.RegisterModule("caret", map[string]lua.LGFunction{
		"position":    h.luaPosition,
		"line":        h.luaLine,
		"insert":      h.luaInsert,
		"unindent":    h.luaUnindent,
		"indent_unit": h.luaIndentUnit,
		"complete":    h.luaComplete,
	})
	return h, nil
}

// Close releases the Lua state.
func (h *Handler) Close() error {
	return h.state.Close()
}

// HandleCharacterInserting runs on_inserting(ch).
func (h *Handler) HandleCharacterInserting(ch rune, doc *engine.SourceCode, r *cursor.Range, list *history.ActionList) error {
	return h.run(HookInserting, &call{doc: doc, r: r, list: list}, lua.LString(string(ch)))
}

// HandleCharacterInserted runs on_inserted(ch). Failures are logged.
func (h *Handler) HandleCharacterInserted(ch rune, doc *engine.SourceCode, completion engine.CompletionHandler) {
	c := &call{doc: doc, completion: completion}
	if err := h.run(HookInserted, c, lua.LString(string(ch))); err != nil {
		log.Errorf("%s: %s", HookInserted, err)
	}
}

// HandleLineBreakInserted runs on_linebreak().
func (h *Handler) HandleLineBreakInserted(doc *engine.SourceCode, r *cursor.Range, list *history.ActionList) error {
	return h.run(HookLineBreak, &call{doc: doc, r: r, list: list})
}

// run calls hook if the script defines it.
func (h *Handler) run(hook string, c *call, args ...lua.LValue) error {
	if !h.state.HasFunction(hook) {
		return nil
	}
	h.current = c
	defer func() { h.current = nil }()

	if _, err := h.state.Call(hook, args...); err != nil {
		return fmt.Errorf("%s: %w", hook, err)
	}
	return nil
}

// ============================================================================
// caret module
// ============================================================================

// editing returns the current call, raising a Lua error outside an edit
// hook.
func (h *Handler) editing(L *lua.LState) *call {
	if h.current == nil || h.current.r == nil {
		L.RaiseError("no caret is being edited")
	}
	return h.current
}

func (h *Handler) luaPosition(L *lua.LState) int {
	p := h.position(L)
	L.Push(lua.LNumber(p.Line))
	L.Push(lua.LNumber(p.Column))
	return 2
}

func (h *Handler) position(L *lua.LState) buffer.Position {
	if h.current == nil {
		L.RaiseError("no edit in progress")
	}
	if h.current.r != nil {
		return h.current.r.Head().Position()
	}
	return h.current.doc.PrimaryPosition()
}

func (h *Handler) luaLine(L *lua.LState) int {
	line := L.OptInt(1, h.position(L).Line)
	text, err := h.current.doc.Line(line)
	if err != nil {
		L.RaiseError("%s", err)
	}
	L.Push(lua.LString(text))
	return 1
}

func (h *Handler) luaInsert(L *lua.LState) int {
	c := h.editing(L)
	if err := c.r.InsertString(L.CheckString(1), c.list); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

func (h *Handler) luaUnindent(L *lua.LState) int {
	c := h.editing(L)
	if err := c.r.DecreaseIndent(c.doc.IndentStyle(), c.list); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

func (h *Handler) luaIndentUnit(L *lua.LState) int {
	if h.current == nil {
		L.RaiseError("no edit in progress")
	}
	L.Push(lua.LString(h.current.doc.IndentStyle().Unit()))
	return 1
}

func (h *Handler) luaComplete(L *lua.LState) int {
	if h.current == nil {
		L.RaiseError("no edit in progress")
	}
	trigger := []rune(L.OptString(1, ""))
	if h.current.completion == nil || len(trigger) == 0 {
		return 0
	}
	h.current.completion.ShowCompletion(trigger[0], h.position(L))
	return 0
}

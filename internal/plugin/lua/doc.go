// Package lua runs special character handlers written in Lua.
//
// A script defines any of three global hooks:
//
//	function on_inserting(ch)  -- before a character is typed
//	function on_inserted(ch)   -- after a character is typed
//	function on_linebreak()    -- after a line break is inserted
//
// Hooks act on the caret being edited through the caret module:
//
//	caret.position()     -- line, column (0-based)
//	caret.line([n])      -- text of line n, or of the caret's line
//	caret.insert(text)   -- insert at the caret, replacing any selection
//	caret.unindent()     -- remove one indentation level from the line
//	caret.indent_unit()  -- text of one indentation level
//	caret.complete(ch)   -- ask the host for completions
//
// Edits made by hooks are recorded with the triggering character and undo
// with it.
//
// # State
//
// The State type manages a sandboxed Lua runtime:
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer state.Close()
//
// Only the base, table, string and math libraries are opened; functions
// that load code from disk or strings are removed, and print is routed to
// the log.
//
// # Thread Safety
//
// A State serializes calls with a mutex. Handlers run synchronously on
// the editing goroutine.
package lua

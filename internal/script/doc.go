// Package script drives a document with line-oriented edit commands.
//
// A script is one command per line. Arguments are separated by spaces;
// positions use the document's position format and strings are Go-quoted,
// so escapes such as \n and \t work. Text after '#' is a comment.
//
//	set-content "func main() {}"
//	caret (C:13, L:0)
//	enter
//	type "x := 1"
//	expect "func main() {\n    x := 1\n}"
//	undo 2
//	carets
//
// Selections are written as "(C:0, L:0)-(C:4, L:0)", tail first.
//
// # Commands
//
// Typing: type, insert, enter, backspace, delete, delete-selection,
// set-content, clear.
//
// Motion: left, right, up, down, home, end, top, bottom, word-left,
// word-right. Each has a select- form that extends the selection, and
// accepts an optional repeat count.
//
// Carets: caret, add-caret, select, add-selection, colselect,
// select-token, select-all, remove-caret, clear-carets, clear-selections.
//
// Lines: indent, dedent, indent-by, duplicate, move-up, move-down, upper,
// lower.
//
// Clipboard: copy, cut, paste.
//
// History: undo, redo, group-begin, group-end, group-cancel.
//
// Output: print, carets, expect, expect-carets.
//
// Run stops at the first failing command and returns an *Error with the
// script line.
package script

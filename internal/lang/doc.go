// Package lang provides special character handlers that give typing
// language-aware behavior.
//
// BraceHandler covers brace-delimited languages (C, C#, Go, Java, ...):
//
//   - a line break keeps the indentation of the line above, one level
//     deeper after an opening bracket
//   - a line break between a bracket pair moves the closing bracket onto
//     its own line
//   - a closing bracket typed on a blank line removes one level
//   - '.' asks the completion handler for member completions
//
// Every edit is recorded into the caller's action list, so it undoes
// together with the character that triggered it.
package lang

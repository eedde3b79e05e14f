// Package buffer provides the line-addressed text buffer behind every open
// document.
//
// Text is held as a slice of rune lines so that the (line, column) addressing
// used throughout the editor maps directly onto storage. Lines are 1-indexed
// and columns are 0-indexed rune offsets, see package position.
//
// Besides the text itself a Buffer tracks three kinds of marks that move
// with edits:
//
//   - the insert cursor ("insert")
//   - the selection anchor ("anchor"), present while a plain selection exists
//   - highlight marks, grouped by a style id (e.g. "column")
//
// All marks have right gravity: text inserted exactly at a mark pushes the
// mark forward. Text deleted around a mark collapses it to the start of the
// deleted range.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("hello\nworld")
//	_ = buf.Insert(position.New(2, 0), "big ")   // "hello\nbig world"
//	_ = buf.DeleteRange(position.New(1, 0), position.New(1, 1))
//
// All Buffer methods are safe for concurrent use, although the editor only
// ever touches a buffer from its event loop.
package buffer

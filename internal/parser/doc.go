// Package parser resolves attached modifiers over the lexeme stream and builds
// the token tree.
//
// Resolution is a single left-to-right pass. Every modifier kind has its own
// stack of pending openers; an opener is written into the flat output as a
// literal placeholder word, and when its closer arrives everything after the
// placeholder is sliced out and becomes the children of one Modifier token.
// Openers that never close therefore already are literal words and need no
// second pass.
//
// While a Verbatim span is open no other delimiter and no link brace is
// interpreted; only a closing backtick ends the span.
package parser

// Package token defines the token tree produced by the norg parser.
// Invariants:
//   - Every Token carries both a zero-based line/column Range and a byte Span
//     into the file content; Range columns count Unicode scalars.
//   - Word, Space and Link text is a copy of the source covered by Span
//     (Link text excludes the braces).
//   - Modifier children exclude the two delimiter characters; the Modifier's
//     own Range and Span include them.
//   - Sibling tokens never overlap and appear in source order.
//   - Concatenating Source() of every top-level token reproduces the input.
package token

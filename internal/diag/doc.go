// Package diag defines the diagnostic model shared by the lexer, the modifier
// resolver and the driver.
//
// The parser never fails on malformed markup: every soft failure (an opener
// that is never closed, a closer without an opener, a link without '}') is
// recovered locally and, when a Reporter is configured, also reported here so
// that editors and the CLI can surface it.
//
// Package diag does not perform any formatting or IO. Rendering lives in
// internal/diagfmt; orchestration and per-file bags live in internal/driver.
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error.
//   - Code: compact numeric identifier with a stable string form (LEX1001).
//   - Message: short human oriented text.
//   - Primary: the source.Span pointing to the issue.
//   - Notes: optional secondary spans, e.g. where a modifier was opened.
//
// Producers go through a Reporter (usually BagReporter) or ReportBuilder;
// Bag keeps diagnostics up to a limit and sorts them for output.
package diag

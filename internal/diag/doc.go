// Package diag defines the core diagnostic model shared by all analysis
// phases.
//
//   - Provide deterministic, serialisable data structures that capture
//     findings produced by the lexer, parser, and rule engine.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model fix suggestions as structured edits that the driver or CLI can
//     optionally apply.
//
// Package diag does not perform any formatting or IO. Rendering lives in
// internal/diagfmt, application of fixes in internal/fix, orchestration in
// internal/driver.
//
// Diagnostic is the central record: severity, code (with a stable string
// id), message, primary span, optional notes, optional fixes. TextEdit spans
// are in source byte coordinates; OldText acts as an optional guard the fix
// engine validates before applying an edit.
//
// Keep the data model deterministic: no new field may introduce side effects
// or ordering that depends on map iteration, so diagnostics stay safely
// serialisable for caching and testing.
package diag

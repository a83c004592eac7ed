// Package diag defines the diagnostic model shared by the lexical
// pipeline and its ambient driver.
//
// # Data model
//
// A Diagnostic carries a Code (a {group, number} pair — this pipeline
// allocates exclusively in LexerGroup, the driver in DriverGroup for
// operational diagnostics) and a list of Explanation parts, each an
// ordered Document of Paragraph and SourceCodeBlock pieces. This mirrors
// the original implementation's diagnostic shape directly rather than
// collapsing it into a single severity+message record: a diagnostic may
// carry a highlighted source excerpt as first-class structured data, not
// a formatted string, so every renderer (pretty, JSON, SARIF) works from
// the same escaped-text-plus-marker representation.
//
// Severity and a one-line Summary are derived accessors on Diagnostic
// rather than stored fields, since they are fully determined by the
// Code's group and the Parts' paragraphs respectively.
//
// # Emitting diagnostics
//
// internal/report constructs Diagnostic values directly from the code
// table in codes.go; there is no builder chain analogous to the AST/sema
// diagnostic builders of this module's lineage, because the lexical
// reporter's construction (excerpt extraction, marker aggregation,
// escaping) does not decompose into independent chained calls the way a
// single-span, single-message diagnostic does.
//
// # Consumers
//
//   - internal/diagfmt: renders Diagnostics into pretty/JSON/SARIF output.
//   - internal/driver: collects a *Bag per file and appends its own
//     timing Diagnostic to the same sink.
package diag

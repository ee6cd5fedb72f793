// Package diag defines the diagnostic model shared by the matching engine.
//
// # Purpose
//
//   - Provide the Diagnostic value type: one compiler message with an
//     optional 1-based source position, comparable so that records can live
//     in sets and map keys without a hand-written hash.
//   - Parse the two marker grammars a fixture may embed in its text
//     (positioned and unpositioned ERROR annotations, plus the SKIP marker).
//   - Parse the compiler's captured combined output into recognized
//     diagnostic lines and residual text.
//
// # Scope
//
// Package diag never touches the filesystem and never runs the compiler.
// Reading fixture text lives in internal/corpus, invoking the binary in
// internal/invoke, and deciding verdicts in internal/harness. Everything
// here is pure: same input, same output, no side effects.
//
// # Matching model
//
// Two diagnostics are equal iff message, line and column all agree, where
// "no position" (zero Line/Col) only equals "no position". Verdicts are
// computed as set differences, so Set wraps a map keyed by the Diagnostic
// value itself; Go's comparable semantics give exactly the equality and
// hash consistency the matching rules need.
//
// Both parsers are line-oriented. The positioned grammar is always tried
// before the unpositioned one, and output classification is total: every
// line ends up either as a Diagnostic or in the residual list, in original
// order. Residual text is carried only for failure reports, never matched.
package diag

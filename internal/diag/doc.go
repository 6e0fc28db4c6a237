// Package diag defines the diagnostic model shared by the parser, the
// binding builder and the path renderer.
//
// Producers talk to a Reporter (usually a BagReporter, optionally wrapped in a
// DedupReporter). Binding and rendering code does not hold a Reporter
// directly; it receives a *Sink whose Mode decides what an error means:
//
//   - ModeLenient: the diagnostic is recorded and the caller substitutes a
//     placeholder (the IR "Empty" node) so the rest of the unit still
//     compiles and every error is reported once.
//   - ModeStrict: the error is returned as a *Fault and the operation stops.
//     Decoding a persisted binding runs in this mode because there is no
//     source position to attach a diagnostic to.
//
// Rendering of diagnostics lives in internal/diagfmt.
package diag

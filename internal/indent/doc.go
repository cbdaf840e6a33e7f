// Package indent computes indentation for PureBasic-style source, one line at
// a time, as a pure function of the text itself.
//
// Purpose: the single-pass state machine behind `basfmt fmt` and the LSP
// formatting handlers, including range formatting via state reconstruction.
// Does not: touch non-whitespace content, perform IO, or cache anything
// across calls.
package indent

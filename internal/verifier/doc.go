// Package verifier decides whether an IR program is well-formed.
//
// A well-formed program satisfies every structural invariant an executor may
// assume without further checking: types have valid layouts, expressions are
// well-typed against the live locals, every block is reached with one
// consistent set of live locals, and globals only point inside other globals.
//
// Checking is a pure, synchronous computation over an immutable ir.Program.
// It is fail-fast: the first violation is returned as an *IllFormedError and
// nothing is accumulated. A Verifier holds no mutable state, so independent
// programs may be checked concurrently.
//
// The value predicate (CheckValue) relates runtime values to already-checked
// types and is independent of program checking.
package verifier

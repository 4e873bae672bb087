// Package ir provides the typed intermediate representation checked by minicheck.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps IR the foundational layer
// with no circular dependencies.
//
// Key design constraints:
//   - Every closed variant set (Type, PtrType, Discriminator, Constant,
//     ValueExpr, PlaceExpr, ArgumentExpr, Statement, Terminator, Value, ...)
//     is a sealed interface. Only the types in this package implement it, so
//     checkers dispatch with exhaustive type switches.
//   - Trees are immutable once built. Blocks, functions and globals are
//     referenced by name through maps, never through pointers, so cyclic
//     control flow needs no pointer cycles.
//   - Integers are arbitrary precision (Int) and comparable with ==.
//   - Sizes, offsets and alignments are byte counts (Size, Align).
package ir

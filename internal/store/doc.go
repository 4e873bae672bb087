// Package store provides the SQLite-backed verdict log.
//
// Every verification run appends one Verdict row keyed by the program's
// content hash and the target it was checked against. The log doubles as a
// cache: a program whose hash already has a verdict at the same pointer
// size does not need to be checked again.
//
// # Ordering
//
//   - Rows are ordered by seq, an SQLite-assigned logical clock
//   - No wall-clock time is stored, so two logs recorded from the same
//     inputs with deterministic run IDs are identical
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Program hashes are computed by the loader via internal/ir/hash.go.
package store

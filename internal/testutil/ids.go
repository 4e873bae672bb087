package testutil

import (
	"fmt"
	"sync"
)

// SequentialRunIDs generates deterministic verdict run IDs for tests:
// "run-0001", "run-0002", ...
//
// Unlike store.UUIDGenerator, SequentialRunIDs can be reset for test reuse,
// so the same scenario recorded twice produces identical verdict logs.
//
// Thread-safety: all methods are safe for concurrent use.
type SequentialRunIDs struct {
	mu  sync.Mutex
	seq int
}

// NewSequentialRunIDs creates a generator whose first ID is "run-0001".
func NewSequentialRunIDs() *SequentialRunIDs {
	return &SequentialRunIDs{}
}

// Generate returns the next run ID.
func (g *SequentialRunIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("run-%04d", g.seq)
}

// Reset restarts the sequence.
func (g *SequentialRunIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}

// FixedRunID always generates the same run ID.
// If the ID is empty, Generate returns "run-fixed".
type FixedRunID string

// Generate returns the fixed ID.
func (f FixedRunID) Generate() string {
	if f == "" {
		return "run-fixed"
	}
	return string(f)
}

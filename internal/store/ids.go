package store

import "github.com/google/uuid"

// RunIDGenerator produces the run ID of each recorded verdict.
type RunIDGenerator interface {
	Generate() string
}

// UUIDGenerator generates time-sortable UUIDv7 run IDs.
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDGenerator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

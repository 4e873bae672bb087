package ir

// Target answers the platform questions the verifier needs.
// Implementations must be safe for concurrent use.
type Target interface {
	// Name identifies the target in diagnostics and verdict logs.
	Name() string
	// PtrSize is the size of a pointer in bytes.
	PtrSize() Size
	// ValidSize reports whether a type of the given size may exist.
	ValidSize(Size) bool
}

// IntAlign is the alignment of an integer of the given size.
func IntAlign(t IntType) Align {
	return Align(t.Size)
}

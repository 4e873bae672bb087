package ir

// Version constants for the IR document schema and the verifier.
const (
	// IRVersion is the IR document schema version.
	IRVersion = "1"

	// VerifierVersion is the minicheck verifier version.
	VerifierVersion = "0.1.0"
)

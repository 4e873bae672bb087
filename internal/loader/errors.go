package loader

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error codes for load failures. They are distinct from verifier error kinds:
// a program that fails to load never reaches the verifier.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeReadFailed    = "E002" // File read error
	ErrCodeFormat        = "E003" // Unsupported document format
	ErrCodeCompileFailed = "E004" // CUE compile failed
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeSchema        = "E006" // Document does not match the #Program schema
	ErrCodeDecode        = "E007" // JSON/YAML decode failed

	// Structural document errors
	ErrCodeUnknownKind  = "E101" // Unknown "kind" tag
	ErrCodeDuplicate    = "E102" // Duplicate name or key
	ErrCodeInvalidInt   = "E103" // Integer out of range for its field
	ErrCodeMissingField = "E104" // Required field missing for this kind
	ErrCodeInvalidBytes = "E105" // Global bytes are not valid hex
)

// LoadError represents an error that occurred while loading a program document.
type LoadError struct {
	Code    string
	Message string
	Path    string    // document path, e.g. "functions[main].blocks[bb0]"
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (at %s)", msg, e.Path)
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), msg)
	}
	return msg
}

func loadErr(code, format string, args ...any) *LoadError {
	return &LoadError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// within prefixes the document path of a LoadError.
func within(err error, format string, args ...any) error {
	le, ok := err.(*LoadError)
	if !ok {
		return err
	}
	elem := fmt.Sprintf(format, args...)
	if le.Path == "" {
		le.Path = elem
	} else {
		le.Path = elem + "." + le.Path
	}
	return le
}

// fromCUE converts a CUE error into a LoadError carrying the first position.
func fromCUE(code string, err error) *LoadError {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

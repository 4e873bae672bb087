package verifier

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind categorizes ill-formedness by the construct that was checked.
// Kinds are stable and safe to match on.
type ErrorKind string

const (
	// KindType indicates an ill-formed type, layout or discriminator.
	KindType ErrorKind = "TYPE"

	// KindExpr indicates an ill-typed value, place or argument expression.
	KindExpr ErrorKind = "EXPR"

	// KindStatement indicates an ill-formed statement.
	KindStatement ErrorKind = "STATEMENT"

	// KindTerminator indicates an ill-formed block terminator.
	KindTerminator ErrorKind = "TERMINATOR"

	// KindFunction indicates a malformed function shape (locals, arguments, blocks).
	KindFunction ErrorKind = "FUNCTION"

	// KindFunctionLiveness indicates a block reached with different live locals.
	KindFunctionLiveness ErrorKind = "FUNCTION_LIVENESS"

	// KindFunctionReachability indicates a declared block that is never reached.
	KindFunctionReachability ErrorKind = "FUNCTION_REACHABILITY"

	// KindProgramEntry indicates a malformed start function.
	KindProgramEntry ErrorKind = "PROGRAM_ENTRY"

	// KindProgramRelocation indicates a relocation that does not fit its globals.
	KindProgramRelocation ErrorKind = "PROGRAM_RELOCATION"

	// KindValue indicates a value that is not well-formed at its type.
	KindValue ErrorKind = "VALUE"
)

// IllFormedError is the single diagnostic produced by a failed check.
//
// Path lists the enclosing constructs from outermost to innermost, e.g.
// ["function main", "block bb1", "statement 0"].
type IllFormedError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Path    []string  `json:"path,omitempty"`
}

// Error implements the error interface.
func (e *IllFormedError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("%s: %s (at %s)", e.Kind, e.Message, e.Location())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Location renders Path as a single string.
func (e *IllFormedError) Location() string {
	return strings.Join(e.Path, " / ")
}

// Kinds lists every error kind in taxonomy order.
func Kinds() []ErrorKind {
	return []ErrorKind{
		KindType, KindExpr, KindStatement, KindTerminator, KindFunction,
		KindFunctionLiveness, KindFunctionReachability,
		KindProgramEntry, KindProgramRelocation, KindValue,
	}
}

// KindOf returns the kind of an ill-formedness error, or "" for other errors.
// Uses errors.As to handle wrapped errors.
func KindOf(err error) ErrorKind {
	var ife *IllFormedError
	if errors.As(err, &ife) {
		return ife.Kind
	}
	return ""
}

// IsKind reports whether err is an ill-formedness error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// IsIllFormed reports whether err is an ill-formedness error of any kind.
func IsIllFormed(err error) bool {
	var ife *IllFormedError
	return errors.As(err, &ife)
}

func illFormed(kind ErrorKind, format string, args ...any) error {
	return &IllFormedError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ensure returns an ill-formedness error unless cond holds.
func ensure(cond bool, kind ErrorKind, message string) error {
	if cond {
		return nil
	}
	return &IllFormedError{Kind: kind, Message: message}
}

// at prepends a location element to the path of an ill-formedness error.
// Other errors and nil pass through unchanged.
func at(err error, format string, args ...any) error {
	var ife *IllFormedError
	if errors.As(err, &ife) {
		ife.Path = append([]string{fmt.Sprintf(format, args...)}, ife.Path...)
	}
	return err
}

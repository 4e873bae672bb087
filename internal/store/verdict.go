package store

import (
	"errors"

	"github.com/roach88/minicheck/internal/ir"
	"github.com/roach88/minicheck/internal/verifier"
)

// Verdict is the outcome of one verification run.
type Verdict struct {
	Seq         int64              `json:"seq"`
	RunID       string             `json:"run_id"`
	ProgramHash string             `json:"program_hash"`
	Target      string             `json:"target"`
	PtrSize     ir.Size            `json:"ptr_size"`
	WellFormed  bool               `json:"well_formed"`
	Kind        verifier.ErrorKind `json:"kind,omitempty"`
	Message     string             `json:"message,omitempty"`
	Path        []string           `json:"path,omitempty"`
	Source      string             `json:"source,omitempty"`
}

// NewVerdict builds the verdict for a check result. err is the value
// returned by the verifier; nil means well-formed. Errors that are not
// ill-formedness errors are recorded with their text and an empty kind.
func NewVerdict(hash string, tgt ir.Target, err error) Verdict {
	v := Verdict{
		ProgramHash: hash,
		Target:      tgt.Name(),
		PtrSize:     tgt.PtrSize(),
		WellFormed:  err == nil,
	}
	if err == nil {
		return v
	}
	var ill *verifier.IllFormedError
	if errors.As(err, &ill) {
		v.Kind = ill.Kind
		v.Message = ill.Message
		v.Path = append([]string(nil), ill.Path...)
		return v
	}
	v.Message = err.Error()
	return v
}

// Err reconstructs the diagnostic of an ill-formed verdict, or nil.
func (v Verdict) Err() error {
	if v.WellFormed {
		return nil
	}
	return &verifier.IllFormedError{Kind: v.Kind, Message: v.Message, Path: v.Path}
}

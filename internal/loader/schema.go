package loader

import (
	"bytes"
	_ "embed"
	"encoding/json"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaSource []byte

// evalCUE compiles a CUE (or JSON) document, unifies it with #Program and
// decodes the concrete result.
//
// A fresh context is used per call: cue contexts are not safe for concurrent use.
func evalCUE(data []byte, name string) (*ProgramDoc, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fromCUE(ErrCodeGeneric, err)
	}
	def := schema.LookupPath(cue.ParsePath("#Program"))

	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, fromCUE(ErrCodeCompileFailed, err)
	}

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fromCUE(ErrCodeSchema, err)
	}

	out, err := unified.MarshalJSON()
	if err != nil {
		return nil, fromCUE(ErrCodeSchema, err)
	}
	return decodeJSON(out)
}

func decodeJSON(data []byte) (*ProgramDoc, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc ProgramDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, loadErr(ErrCodeDecode, "decoding program: %v", err)
	}
	return &doc, nil
}

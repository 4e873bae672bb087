// Package loader reads program documents written in CUE, JSON or YAML and
// decodes them into the IR.
//
// CUE and JSON documents are validated against an embedded #Program schema
// before decoding. YAML documents are decoded directly with unknown fields
// rejected. Both paths produce the same ProgramDoc, so a program has the
// same content hash whichever format it was written in.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/minicheck/internal/ir"
)

// Format is a program document format.
type Format string

const (
	FormatCUE  Format = "cue"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", loadErr(ErrCodeFormat, "unsupported program format %q (want .cue, .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Result is a loaded program.
type Result struct {
	Program  *ir.Program
	Document *ProgramDoc
	Hash     string
	Format   Format
}

// LoadFile reads and loads a program document from disk.
func LoadFile(path string) (*Result, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, loadErr(ErrCodeNotFound, "program file not found: %s", path)
	}
	if err != nil {
		return nil, loadErr(ErrCodeReadFailed, "reading %s: %v", path, err)
	}
	return Load(data, format, path)
}

// Load parses, decodes and hashes a program document. name is used in
// CUE error positions.
func Load(data []byte, format Format, name string) (*Result, error) {
	var (
		doc *ProgramDoc
		err error
	)
	switch format {
	case FormatCUE, FormatJSON:
		doc, err = evalCUE(data, name)
	case FormatYAML:
		doc, err = decodeYAML(data)
	default:
		return nil, loadErr(ErrCodeFormat, "unsupported program format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return FromDocument(doc, format)
}

// FromDocument decodes and hashes an in-memory document.
func FromDocument(doc *ProgramDoc, format Format) (*Result, error) {
	normalize(doc)
	prog, err := Decode(doc)
	if err != nil {
		return nil, err
	}
	hash, err := Hash(doc)
	if err != nil {
		return nil, err
	}
	return &Result{Program: prog, Document: doc, Hash: hash, Format: format}, nil
}

// Hash returns the content hash of a document.
func Hash(doc *ProgramDoc) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", loadErr(ErrCodeGeneric, "encoding program: %v", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return "", loadErr(ErrCodeGeneric, "re-decoding program: %v", err)
	}
	hash, err := ir.ContentHash(ir.DomainProgram, generic)
	if err != nil {
		return "", loadErr(ErrCodeGeneric, "hashing program: %v", err)
	}
	return hash, nil
}

func decodeYAML(data []byte) (*ProgramDoc, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc ProgramDoc
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, loadErr(ErrCodeDecode, "empty program document")
		}
		return nil, loadErr(ErrCodeDecode, "decoding program: %v", err)
	}
	return &doc, nil
}

// normalize fills defaults the CUE schema would otherwise supply, so both
// decode paths hash identically.
func normalize(doc *ProgramDoc) {
	for i := range doc.Functions {
		if doc.Functions[i].CallingConvention == "" {
			doc.Functions[i].CallingConvention = string(ir.CallingConventionC)
		}
	}
}

// Package target provides the platform configurations the verifier runs against.
package target

import (
	"fmt"
	"sort"

	"github.com/roach88/minicheck/internal/ir"
)

// Standard is a target whose sizes are bounded by a signed pointer-sized integer.
type Standard struct {
	name    string
	ptrSize ir.Size
}

// Standard implements ir.Target
var _ ir.Target = Standard{}

// Presets.
var (
	X86_64 = Standard{name: "x86_64", ptrSize: 8}
	Wasm32 = Standard{name: "wasm32", ptrSize: 4}
)

var presets = map[string]Standard{
	X86_64.name: X86_64,
	Wasm32.name: Wasm32,
}

// New creates a target with the given pointer size in bytes.
func New(ptrSize ir.Size) (Standard, error) {
	if ptrSize == 0 || ptrSize > 8 || ptrSize&(ptrSize-1) != 0 {
		return Standard{}, fmt.Errorf("invalid pointer size %d: must be 1, 2, 4 or 8", ptrSize)
	}
	return Standard{name: fmt.Sprintf("ptr%d", ptrSize*8), ptrSize: ptrSize}, nil
}

// Lookup returns a preset by name.
func Lookup(name string) (Standard, error) {
	t, ok := presets[name]
	if !ok {
		return Standard{}, fmt.Errorf("unknown target %q: must be one of %v", name, Names())
	}
	return t, nil
}

// Names lists the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t Standard) Name() string     { return t.name }
func (t Standard) PtrSize() ir.Size { return t.ptrSize }

// ValidSize reports whether size fits in a signed pointer-sized integer.
func (t Standard) ValidSize(size ir.Size) bool {
	bits := uint(t.ptrSize) * 8
	return uint64(size) < uint64(1)<<(bits-1)
}

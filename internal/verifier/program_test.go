package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/minicheck/internal/ir"
	"github.com/roach88/minicheck/internal/target"
	tu "github.com/roach88/minicheck/internal/testutil"
)

// ============================================================================
// Entry point
// ============================================================================

func TestProgram_NoStart(t *testing.T) {
	requireIllFormed(t, checkX86(&ir.Program{}), KindProgramEntry, "Program: start function does not exist")

	p := tu.SmallProgram(nil)
	p.Start = "other"
	requireIllFormed(t, checkX86(p), KindProgramEntry, "Program: start function does not exist")
}

func TestProgram_StartCallingConvention(t *testing.T) {
	p := tu.SmallProgram(nil)
	fn := p.Functions[tu.StartFn]
	fn.CallingConvention = ir.CallingConventionRust
	p.Functions[tu.StartFn] = fn

	requireIllFormed(t, checkX86(p), KindProgramEntry, "Program: start function has invalid calling convention")
}

func TestProgram_StartArguments(t *testing.T) {
	p := tu.SmallProgram([]ir.Type{tu.Bool()})
	fn := p.Functions[tu.StartFn]
	fn.Args = []ir.LocalName{tu.Local(0)}
	p.Functions[tu.StartFn] = fn

	requireIllFormed(t, checkX86(p), KindProgramEntry, "Program: start function has arguments")
}

func TestProgram_StartReturnLayout(t *testing.T) {
	tests := []struct {
		name    string
		ret     ir.Type
		wantErr bool
	}{
		{"unit", tu.Unit(), false},
		{"empty array", tu.Array(tu.Int(tu.U8), 0), false},
		{"int", tu.Int(tu.I32), true},
		{"zero size over-aligned", tu.Tuple(0, 4), true},
		{"empty array of aligned ints", tu.Array(tu.Int(tu.U64), 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tu.SmallProgram(nil)
			p.Functions[tu.StartFn].Locals[tu.RetLocal] = tt.ret

			err := checkX86(p)
			if tt.wantErr {
				requireIllFormed(t, err, KindProgramEntry, "Program: start function return local has invalid layout")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProgram_StartReturnLocalMissing(t *testing.T) {
	p := tu.SmallProgram(nil)
	delete(p.Functions[tu.StartFn].Locals, tu.RetLocal)
	requireIllFormed(t, checkX86(p), KindProgramEntry, "Program: start function return local does not exist")
}

func TestProgram_ChecksEveryFunction(t *testing.T) {
	broken := tu.FunctionOf([]ir.Type{tu.Bool()}, map[ir.BbName]ir.BasicBlock{
		tu.BB(0): tu.Block(tu.Return(), tu.StorageDead(0)),
	})
	p := tu.ProgramOf(tu.FunctionOf(nil, map[ir.BbName]ir.BasicBlock{tu.BB(0): tu.Block(tu.Exit())}),
		map[ir.FnName]ir.Function{"zz_unused": broken})

	ife := requireIllFormed(t, checkX86(p), KindStatement, "Statement::StorageDead: local already dead")
	assert.Equal(t, "function zz_unused", ife.Path[0])
}

// ============================================================================
// Globals and relocations
// ============================================================================

func programWithGlobals(globals map[ir.GlobalName]ir.Global) *ir.Program {
	p := tu.SmallProgram(nil)
	p.Globals = globals
	return p
}

func TestProgram_RelocationBounds(t *testing.T) {
	withReloc := func(offset ir.Offset) *ir.Program {
		return programWithGlobals(map[ir.GlobalName]ir.Global{
			"g": {
				Bytes:       make([]byte, 8),
				Relocations: map[ir.Offset]ir.Relocation{offset: {Name: "g", Offset: 0}},
				Align:       8,
			},
		})
	}

	ife := requireIllFormed(t, checkX86(withReloc(4)), KindProgramRelocation, "Program: invalid global pointer value")
	assert.Equal(t, []string{"global g"}, ife.Path)
	assert.NoError(t, checkX86(withReloc(0)))

	// Four-byte pointers fit at offset 4.
	assert.NoError(t, CheckProgram(withReloc(4), target.Wasm32))
	requireIllFormed(t, CheckProgram(withReloc(5), target.Wasm32), KindProgramRelocation, "Program: invalid global pointer value")
}

func TestProgram_RelocationTarget(t *testing.T) {
	missing := programWithGlobals(map[ir.GlobalName]ir.Global{
		"g": {Bytes: make([]byte, 8), Relocations: map[ir.Offset]ir.Relocation{0: {Name: "h"}}},
	})
	ife := requireIllFormed(t, checkX86(missing), KindProgramRelocation, "Relocation: invalid global name")
	assert.Equal(t, []string{"global g", "relocation at 0"}, ife.Path)

	outOfBounds := programWithGlobals(map[ir.GlobalName]ir.Global{
		"g": {Bytes: make([]byte, 8), Relocations: map[ir.Offset]ir.Relocation{0: {Name: "h", Offset: 3}}},
		"h": {Bytes: make([]byte, 2)},
	})
	requireIllFormed(t, checkX86(outOfBounds), KindProgramRelocation, "Relocation: offset out-of-bounds")

	onePastEnd := programWithGlobals(map[ir.GlobalName]ir.Global{
		"g": {Bytes: make([]byte, 8), Relocations: map[ir.Offset]ir.Relocation{0: {Name: "h", Offset: 2}}},
		"h": {Bytes: make([]byte, 2)},
	})
	assert.NoError(t, checkX86(onePastEnd))
}

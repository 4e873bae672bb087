package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/minicheck/internal/ir"
	"github.com/roach88/minicheck/internal/target"
	tu "github.com/roach88/minicheck/internal/testutil"
)

func ptrVal(addr int64) ir.Value {
	return ir.PtrVal{Ptr: ir.Pointer{Addr: ir.NewInt(addr)}}
}

func TestCheckValue(t *testing.T) {
	union := ir.UnionTy{
		Fields: []ir.Field{tu.Field(0, tu.Int(tu.U32))},
		Size:   8,
		Chunks: []ir.Chunk{{Offset: 0, Size: 4}, {Offset: 4, Size: 2}},
		Align:  4,
	}
	bytes := func(n int) []ir.AbstractByte { return make([]ir.AbstractByte, n) }

	tests := []struct {
		name    string
		val     ir.Value
		ty      ir.Type
		wantErr string
	}{
		{"int fits", ir.IntVal{Value: ir.NewInt(-128)}, tu.Int(tu.I8), ""},
		{"int too large", ir.IntVal{Value: ir.NewInt(128)}, tu.Int(tu.I8), "Value::Int: value does not fit type"},
		{"bool", ir.BoolVal{Value: true}, tu.Bool(), ""},
		{"bool at int", ir.BoolVal{}, tu.Int(tu.U8), "Value: value ir.BoolVal does not match type ir.IntTy"},
		{"raw null", ptrVal(0), tu.RawPtr(), ""},
		{"raw unaligned", ptrVal(3), tu.RawPtr(), ""},
		{"ref null", ptrVal(0), tu.Ref(4, 4), "Value::Ptr: invalid address for pointer type"},
		{"ref unaligned", ptrVal(6), tu.Ref(4, 4), "Value::Ptr: invalid address for pointer type"},
		{"ref aligned", ptrVal(8), tu.Ref(4, 4), ""},
		{"raw negative", ptrVal(-1), tu.RawPtr(), "Value::Ptr: address out-of-bounds"},
		{"tuple", ir.TupleVal{Elems: []ir.Value{ir.IntVal{Value: ir.One}, ir.BoolVal{}}}, pairTy, ""},
		{"tuple arity", ir.TupleVal{Elems: []ir.Value{ir.IntVal{Value: ir.One}}}, pairTy, "Value::Tuple: invalid number of fields"},
		{"tuple component", ir.TupleVal{Elems: []ir.Value{ir.BoolVal{}, ir.BoolVal{}}}, pairTy, "Value: value ir.BoolVal does not match type ir.IntTy"},
		{"array", ir.TupleVal{Elems: []ir.Value{ir.BoolVal{}, ir.BoolVal{}}}, tu.Array(tu.Bool(), 2), ""},
		{"array length", ir.TupleVal{}, tu.Array(tu.Bool(), 2), "Value::Tuple: invalid number of array elements"},
		{"union", ir.UnionVal{Chunks: [][]ir.AbstractByte{bytes(4), bytes(2)}}, union, ""},
		{"union chunk count", ir.UnionVal{Chunks: [][]ir.AbstractByte{bytes(4)}}, union, "Value::Union: invalid number of chunks"},
		{"union chunk size", ir.UnionVal{Chunks: [][]ir.AbstractByte{bytes(4), bytes(3)}}, union, "Value::Union: chunk size mismatch"},
		{"variant", ir.VariantVal{Discriminant: ir.One, Data: ir.TupleVal{Elems: []ir.Value{ir.IntVal{Value: ir.NewInt(255)}}}}, optionEnum(), ""},
		{"variant payload", ir.VariantVal{Discriminant: ir.One, Data: ir.TupleVal{}}, optionEnum(), "Value::Tuple: invalid number of fields"},
		{"variant discriminant", ir.VariantVal{Discriminant: ir.NewInt(4), Data: ir.TupleVal{}}, optionEnum(), "Value::Variant: invalid discriminant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckValue(tt.val, tt.ty, target.X86_64)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.True(t, ValueWellFormed(tt.val, tt.ty, target.X86_64))
				return
			}
			requireIllFormed(t, err, KindValue, tt.wantErr)
			assert.False(t, ValueWellFormed(tt.val, tt.ty, target.X86_64))
		})
	}
}

func TestCheckValue_PointerBoundsDependOnTarget(t *testing.T) {
	v := ir.PtrVal{Ptr: ir.Pointer{Addr: ir.NewUint(1 << 32)}}

	assert.NoError(t, New(target.X86_64).CheckValue(v, tu.RawPtr()))
	requireIllFormed(t, New(target.Wasm32).CheckValue(v, tu.RawPtr()), KindValue, "Value::Ptr: address out-of-bounds")
}

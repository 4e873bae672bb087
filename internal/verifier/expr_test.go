package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/minicheck/internal/ir"
	"github.com/roach88/minicheck/internal/target"
	tu "github.com/roach88/minicheck/internal/testutil"
)

var pairTy = tu.Tuple(8, 4, tu.Field(0, tu.Int(tu.I32)), tu.Field(4, tu.Bool()))

// exprFixture returns a checker over a program with one global and the start
// function, and a liveness set with locals of several shapes.
func exprFixture(tgt ir.Target) (*checker, Locals) {
	prog := tu.SmallProgram(nil)
	prog.Globals["g"] = ir.Global{Bytes: make([]byte, 8), Align: 8}

	live := Locals{
		"i":    tu.Int(tu.I32),
		"u":    tu.Int(tu.U32),
		"b":    tu.Bool(),
		"p":    tu.RawPtr(),
		"pair": pairTy,
		"arr":  tu.Array(tu.Int(tu.I32), 4),
		"opt":  optionEnum(),
	}
	return New(tgt).newChecker(prog), live
}

func local(name ir.LocalName) ir.PlaceExpr { return ir.LocalPlace{Name: name} }

func load(name ir.LocalName) ir.ValueExpr { return ir.Load{Source: local(name)} }

// ============================================================================
// Constants
// ============================================================================

func TestConstant_Int(t *testing.T) {
	c, live := exprFixture(target.X86_64)

	ty, err := c.checkValueExpr(tu.ConstInt(-5, tu.I32), live)
	require.NoError(t, err)
	assert.Equal(t, tu.Int(tu.I32), ty)

	_, err = c.checkValueExpr(tu.ConstInt(300, tu.U8), live)
	requireIllFormed(t, err, KindExpr, "Constant::Int: value does not fit type")

	_, err = c.checkValueExpr(ir.ConstExpr{Value: ir.IntConst{Value: ir.One}, Ty: tu.Bool()}, live)
	requireIllFormed(t, err, KindExpr, "Constant::Int: non-integer type")

	_, err = c.checkValueExpr(ir.ConstExpr{Value: ir.BoolConst{Value: true}, Ty: tu.Int(tu.U8)}, live)
	requireIllFormed(t, err, KindExpr, "Constant::Bool: non-boolean type")
}

func TestConstant_HugeIntTypes(t *testing.T) {
	c, live := exprFixture(target.X86_64)

	for _, it := range []ir.IntType{
		{Signed: ir.Unsigned, Size: 1 << 61},
		{Signed: ir.Signed, Size: 1 << 40},
	} {
		require.NoError(t, c.checkType(tu.Int(it)))
		ty, err := c.checkValueExpr(ir.ConstExpr{Value: ir.IntConst{Value: ir.One}, Ty: tu.Int(it)}, live)
		require.NoError(t, err, "size %d", it.Size)
		assert.Equal(t, tu.Int(it), ty)
	}

	_, err := c.checkValueExpr(ir.ConstExpr{Value: ir.IntConst{Value: ir.NewInt(-1)}, Ty: tu.Int(ir.IntType{Signed: ir.Unsigned, Size: 1 << 61})}, live)
	requireIllFormed(t, err, KindExpr, "Constant::Int: value does not fit type")
}

func TestProgram_HugeIntLocal(t *testing.T) {
	huge := tu.Int(ir.IntType{Signed: ir.Unsigned, Size: 1 << 61})
	p := tu.SmallProgram([]ir.Type{huge},
		tu.StorageLive(0),
		tu.Assign(tu.Place(0), ir.ConstExpr{Value: ir.IntConst{Value: ir.One}, Ty: huge}),
	)
	assert.NoError(t, checkX86(p))
}

func TestConstant_TypeChecked(t *testing.T) {
	c, live := exprFixture(target.X86_64)
	_, err := c.checkValueExpr(tu.ConstInt(1, ir.IntType{Size: 3}), live)
	requireIllFormed(t, err, KindType, "IntType: size is not a power of two")
}

func TestConstant_GlobalPointer(t *testing.T) {
	c, live := exprFixture(target.X86_64)
	ptr := func(name ir.GlobalName, offset ir.Size) ir.ValueExpr {
		return ir.ConstExpr{Value: ir.GlobalPointer{Reloc: ir.Relocation{Name: name, Offset: offset}}, Ty: tu.RawPtr()}
	}

	_, err := c.checkValueExpr(ptr("g", 0), live)
	assert.NoError(t, err)
	_, err = c.checkValueExpr(ptr("g", 8), live)
	assert.NoError(t, err, "one-past-the-end is in bounds")

	_, err = c.checkValueExpr(ptr("g", 9), live)
	requireIllFormed(t, err, KindExpr, "Relocation: offset out-of-bounds")
	_, err = c.checkValueExpr(ptr("missing", 0), live)
	requireIllFormed(t, err, KindExpr, "Relocation: invalid global name")
}

func TestConstant_FnPointer(t *testing.T) {
	c, live := exprFixture(target.X86_64)

	ty, err := c.checkValueExpr(tu.ConstFn(tu.StartFn), live)
	require.NoError(t, err)
	assert.Equal(t, tu.FnPtr(), ty)

	_, err = c.checkValueExpr(tu.ConstFn("nope"), live)
	requireIllFormed(t, err, KindExpr, "Constant::FnPointer: invalid function name")

	_, err = c.checkValueExpr(ir.ConstExpr{Value: ir.FnPointer{Name: tu.StartFn}, Ty: tu.RawPtr()}, live)
	requireIllFormed(t, err, KindExpr, "Constant::FnPointer: non-function-pointer type")
}

func TestConstant_PointerWithoutProvenance(t *testing.T) {
	addr := func(v ir.Int) ir.ValueExpr {
		return ir.ConstExpr{Value: ir.PointerWithoutProvenance{Addr: v}, Ty: tu.RawPtr()}
	}

	x86, live := exprFixture(target.X86_64)
	_, err := x86.checkValueExpr(addr(ir.NewUint(1<<32)), live)
	assert.NoError(t, err)
	_, err = x86.checkValueExpr(addr(ir.MustParseInt("18446744073709551616")), live)
	requireIllFormed(t, err, KindExpr, "Constant::PointerWithoutProvenance: pointer out-of-bounds")

	wasm, live := exprFixture(target.Wasm32)
	_, err = wasm.checkValueExpr(addr(ir.NewUint(1<<32)), live)
	requireIllFormed(t, err, KindExpr, "Constant::PointerWithoutProvenance: pointer out-of-bounds")
	_, err = wasm.checkValueExpr(addr(ir.NewInt(-1)), live)
	requireIllFormed(t, err, KindExpr, "Constant::PointerWithoutProvenance: pointer out-of-bounds")
}

// ============================================================================
// Aggregates
// ============================================================================

func TestTupleExpr(t *testing.T) {
	c, live := exprFixture(target.X86_64)

	ty, err := c.checkValueExpr(ir.TupleExpr{Elems: []ir.ValueExpr{load("i"), load("b")}, Ty: pairTy}, live)
	require.NoError(t, err)
	assert.Equal(t, pairTy, ty)

	_, err = c.checkValueExpr(ir.TupleExpr{Elems: []ir.ValueExpr{load("i")}, Ty: pairTy}, live)
	requireIllFormed(t, err, KindExpr, "ValueExpr::Tuple: invalid number of tuple fields")

	_, err = c.checkValueExpr(ir.TupleExpr{Elems: []ir.ValueExpr{load("u"), load("b")}, Ty: pairTy}, live)
	ife := requireIllFormed(t, err, KindExpr, "ValueExpr::Tuple: invalid tuple field type")
	assert.Equal(t, []string{"element 0"}, ife.Path)

	_, err = c.checkValueExpr(ir.TupleExpr{Ty: tu.Int(tu.I32)}, live)
	requireIllFormed(t, err, KindExpr, "ValueExpr::Tuple: expression does not match type")
}

func TestTupleExpr_Array(t *testing.T) {
	c, live := exprFixture(target.X86_64)
	arr2 := tu.Array(tu.Int(tu.I32), 2)

	_, err := c.checkValueExpr(ir.TupleExpr{Elems: []ir.ValueExpr{load("i"), tu.ConstInt(3, tu.I32)}, Ty: arr2}, live)
	assert.NoError(t, err)

	_, err = c.checkValueExpr(ir.TupleExpr{Elems: []ir.ValueExpr{load("i")}, Ty: arr2}, live)
	requireIllFormed(t, err, KindExpr, "ValueExpr::Tuple: invalid number of array elements")

	_, err = c.checkValueExpr(ir.TupleExpr{Elems: []ir.ValueExpr{load("i"), load("b")}, Ty: arr2}, live)
	requireIllFormed(t, err, KindExpr, "ValueExpr::Tuple: invalid array element type")
}

func TestUnionExpr(t *testing.T) {
	c, live := exprFixture(target.X86_64)
	union := ir.UnionTy{
		Fields: []ir.Field{tu.Field(0, tu.Int(tu.I32)), tu.Field(0, tu.Bool())},
		Size:   4,
		Chunks: []ir.Chunk{{Offset: 0, Size: 4}},
		Align:  4,
	}

	ty, err := c.checkValueExpr(ir.UnionExpr{Field: 1, Expr: load("b"), Ty: union}, live)
	require.NoError(t, err)
	assert.Equal(t, ir.Type(union), ty)

	_, err = c.checkValueExpr(ir.UnionExpr{Field: 2, Expr: load("b"), Ty: union}, live)
	requireIllFormed(t, err, KindExpr, "ValueExpr::Union: invalid field")

	_, err = c.checkValueExpr(ir.UnionExpr{Field: 0, Expr: load("b"), Ty: union}, live)
	requireIllFormed(t, err, KindExpr, "ValueExpr::Union: invalid field type")

	_, err = c.checkValueExpr(ir.UnionExpr{Field: 0, Expr: load("i"), Ty: pairTy}, live)
	requireIllFormed(t, err, KindExpr, "ValueExpr::Union: invalid type")
}

func TestVariantExpr(t *testing.T) {
	c, live := exprFixture(target.X86_64)
	opt := optionEnum()
	someTy := opt.Variants[ir.One].Ty
	some := ir.TupleExpr{Elems: []ir.ValueExpr{tu.ConstInt(7, tu.U8)}, Ty: someTy}

	ty, err := c.checkValueExpr(ir.VariantExpr{Discriminant: ir.One, Data: some, Ty: opt}, live)
	require.NoError(t, err)
	assert.True(t, ir.TypeEqual(opt, ty))

	_, err = c.checkValueExpr(ir.VariantExpr{Discriminant: ir.NewInt(3), Data: some, Ty: opt}, live)
	requireIllFormed(t, err, KindExpr, "ValueExpr::Variant: invalid discriminant")

	_, err = c.checkValueExpr(ir.VariantExpr{Discriminant: ir.Zero, Data: some, Ty: opt}, live)
	requireIllFormed(t, err, KindExpr, "ValueExpr::Variant: invalid type of variant data")

	_, err = c.checkValueExpr(ir.VariantExpr{Discriminant: ir.Zero, Data: some, Ty: pairTy}, live)
	requireIllFormed(t, err, KindExpr, "ValueExpr::Variant: invalid type")
}

// ============================================================================
// Loads, discriminants and addresses
// ============================================================================

func TestLoadAndGetDiscriminant(t *testing.T) {
	c, live := exprFixture(target.X86_64)

	ty, err := c.checkValueExpr(load("pair"), live)
	require.NoError(t, err)
	assert.Equal(t, pairTy, ty)

	_, err = c.checkValueExpr(load("dead"), live)
	requireIllFormed(t, err, KindExpr, `PlaceExpr::Local: unknown or dead local "dead"`)

	ty, err = c.checkValueExpr(ir.GetDiscriminant{Place: local("opt")}, live)
	require.NoError(t, err)
	assert.Equal(t, tu.Int(tu.U8), ty)

	_, err = c.checkValueExpr(ir.GetDiscriminant{Place: local("i")}, live)
	requireIllFormed(t, err, KindExpr, "ValueExpr::GetDiscriminant: invalid type")
}

func TestAddrOf(t *testing.T) {
	c, live := exprFixture(target.X86_64)

	// The pointee layout is not compared with the place type.
	ref := ir.RefPtr{Pointee: ir.Layout{Size: 64, Align: 16}, Mutable: true}
	ty, err := c.checkValueExpr(ir.AddrOf{Target: local("i"), PtrTy: ref}, live)
	require.NoError(t, err)
	assert.Equal(t, ir.Type(ir.PtrTy{Ptr: ref}), ty)

	_, err = c.checkValueExpr(ir.AddrOf{Target: local("gone"), PtrTy: ir.RawPtr{}}, live)
	require.Error(t, err)

	badAlign := ir.RefPtr{Pointee: ir.Layout{Size: 4, Align: 3}}
	_, err = c.checkValueExpr(ir.AddrOf{Target: local("i"), PtrTy: badAlign}, live)
	requireIllFormed(t, err, KindType, "Layout: align is not a power of two")

	_, err = c.checkValueExpr(ir.AddrOf{Target: local("i"), PtrTy: ir.BoxPtr{Pointee: ir.Layout{Size: 1 << 63, Align: 1}}}, live)
	requireIllFormed(t, err, KindType, "Layout: size not valid")
}

func TestAddrOf_IllFormedPointerInProgram(t *testing.T) {
	badAlign := ir.RefPtr{Pointee: ir.Layout{Size: 4, Align: 3}}
	p := tu.SmallProgram([]ir.Type{tu.Int(tu.I32)},
		tu.StorageLive(0),
		ir.Validate{Place: ir.DerefPlace{Operand: ir.AddrOf{Target: tu.Place(0), PtrTy: badAlign}, Ty: tu.Int(tu.I32)}},
	)
	err := checkX86(p)
	requireIllFormed(t, err, KindType, "Layout: align is not a power of two")
}

// ============================================================================
// Operators
// ============================================================================

func TestUnOp(t *testing.T) {
	c, live := exprFixture(target.X86_64)

	tests := []struct {
		name    string
		op      ir.UnOp
		operand ir.ValueExpr
		want    ir.Type
		wantErr string
	}{
		{"int neg", ir.IntNeg, load("i"), tu.Int(tu.I32), ""},
		{"int not on bool", ir.IntBitNot, load("b"), nil, "UnOp::Int: invalid operand"},
		{"bool not", ir.BoolNot, load("b"), tu.Bool(), ""},
		{"bool not on int", ir.BoolNot, load("i"), nil, "UnOp::Bool: invalid operand"},
		{"int to int", ir.IntToInt{To: tu.U8}, load("i"), tu.Int(tu.U8), ""},
		{"int to int on bool", ir.IntToInt{To: tu.U8}, load("b"), nil, "Cast::IntToInt: invalid operand"},
		{"bool to int", ir.BoolToInt{To: tu.I64}, load("b"), tu.Int(tu.I64), ""},
		{"bool to int on int", ir.BoolToInt{To: tu.I64}, load("u"), nil, "Cast::BoolToInt: invalid operand"},
		{"transmute", ir.Transmute{To: tu.Int(tu.U32)}, load("i"), tu.Int(tu.U32), ""},
		{"transmute anything", ir.Transmute{To: tu.Bool()}, load("pair"), tu.Bool(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ty, err := c.checkValueExpr(ir.UnOpExpr{Op: tt.op, Operand: tt.operand}, live)
			if tt.wantErr != "" {
				requireIllFormed(t, err, KindExpr, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ty)
		})
	}
}

func TestUnOp_TransmuteTargetChecked(t *testing.T) {
	c, live := exprFixture(target.X86_64)

	u24 := tu.Int(ir.IntType{Signed: ir.Unsigned, Size: 3})
	_, err := c.checkValueExpr(ir.UnOpExpr{Op: ir.Transmute{To: u24}, Operand: load("i")}, live)
	requireIllFormed(t, err, KindType, "IntType: size is not a power of two")

	badTuple := tu.Tuple(4, 4, tu.Field(2, tu.Int(tu.I32)))
	_, err = c.checkValueExpr(ir.UnOpExpr{Op: ir.Transmute{To: badTuple}, Operand: load("i")}, live)
	require.Error(t, err)
	assert.Equal(t, KindType, KindOf(err))
}

func TestBinOp(t *testing.T) {
	c, live := exprFixture(target.X86_64)

	tests := []struct {
		name        string
		op          ir.BinOp
		left, right ir.ValueExpr
		want        ir.Type
		wantErr     string
	}{
		{"add", ir.IntAdd, load("i"), tu.ConstInt(1, tu.I32), tu.Int(tu.I32), ""},
		{"add mixed signedness", ir.IntAdd, load("i"), load("u"), nil, "BinOp::Int: invalid right type"},
		{"mul on bool", ir.IntMul, load("b"), load("b"), nil, "BinOp::Int: invalid left type"},
		{"lt", ir.IntLt, load("u"), load("u"), tu.Bool(), ""},
		{"eq mismatched", ir.IntEq, load("u"), load("b"), nil, "BinOp::IntRel: invalid right type"},
		{"ptr offset", ir.PtrOffset{Inbounds: true}, load("p"), load("u"), tu.RawPtr(), ""},
		{"ptr offset by bool", ir.PtrOffset{}, load("p"), load("b"), nil, "BinOp::PtrOffset: invalid right type"},
		{"ptr offset on int", ir.PtrOffset{}, load("i"), load("i"), nil, "BinOp::PtrOffset: invalid left type"},
		{"bool xor", ir.BoolBitXor, load("b"), tu.ConstBool(true), tu.Bool(), ""},
		{"bool and int", ir.BoolBitAnd, load("b"), load("i"), nil, "BinOp::Bool: invalid right type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ty, err := c.checkValueExpr(ir.BinOpExpr{Op: tt.op, Left: tt.left, Right: tt.right}, live)
			if tt.wantErr != "" {
				requireIllFormed(t, err, KindExpr, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ty)
		})
	}
}

// ============================================================================
// Places
// ============================================================================

func TestDerefPlace(t *testing.T) {
	c, live := exprFixture(target.X86_64)

	// The declared type wins over the pointer's pointee.
	ty, err := c.checkPlaceExpr(ir.DerefPlace{Operand: load("p"), Ty: pairTy}, live)
	require.NoError(t, err)
	assert.Equal(t, pairTy, ty)

	_, err = c.checkPlaceExpr(ir.DerefPlace{Operand: load("i"), Ty: pairTy}, live)
	requireIllFormed(t, err, KindExpr, "PlaceExpr::Deref: invalid operand type")

	u24 := tu.Int(ir.IntType{Signed: ir.Unsigned, Size: 3})
	_, err = c.checkPlaceExpr(ir.DerefPlace{Operand: load("p"), Ty: u24}, live)
	requireIllFormed(t, err, KindType, "IntType: size is not a power of two")

	// Validate must not let the ill-formed pointee type through either.
	fn := tu.FunctionOf([]ir.Type{tu.RawPtr()}, map[ir.BbName]ir.BasicBlock{
		tu.BB(0): tu.Block(tu.Exit(),
			tu.StorageLive(0),
			ir.Validate{Place: ir.DerefPlace{Operand: tu.Load(0), Ty: u24}},
		),
	})
	requireIllFormed(t, checkX86(tu.ProgramOf(fn, nil)), KindType, "IntType: size is not a power of two")
}

func TestFieldPlace(t *testing.T) {
	c, live := exprFixture(target.X86_64)

	ty, err := c.checkPlaceExpr(ir.FieldPlace{Root: local("pair"), Field: 1}, live)
	require.NoError(t, err)
	assert.Equal(t, tu.Bool(), ty)

	_, err = c.checkPlaceExpr(ir.FieldPlace{Root: local("pair"), Field: 2}, live)
	requireIllFormed(t, err, KindExpr, "PlaceExpr::Field: invalid field")

	_, err = c.checkPlaceExpr(ir.FieldPlace{Root: local("pair"), Field: -1}, live)
	requireIllFormed(t, err, KindExpr, "PlaceExpr::Field: invalid field")

	_, err = c.checkPlaceExpr(ir.FieldPlace{Root: local("arr"), Field: 0}, live)
	requireIllFormed(t, err, KindExpr, "PlaceExpr::Field: expression does not match type")
}

func TestIndexPlace(t *testing.T) {
	c, live := exprFixture(target.X86_64)

	ty, err := c.checkPlaceExpr(ir.IndexPlace{Root: local("arr"), Index: load("u")}, live)
	require.NoError(t, err)
	assert.Equal(t, tu.Int(tu.I32), ty)

	_, err = c.checkPlaceExpr(ir.IndexPlace{Root: local("arr"), Index: load("b")}, live)
	requireIllFormed(t, err, KindExpr, "PlaceExpr::Index: invalid index type")

	_, err = c.checkPlaceExpr(ir.IndexPlace{Root: local("pair"), Index: load("i")}, live)
	requireIllFormed(t, err, KindExpr, "PlaceExpr::Index: expression type is not indexable")
}

func TestDowncastPlace(t *testing.T) {
	c, live := exprFixture(target.X86_64)

	ty, err := c.checkPlaceExpr(ir.DowncastPlace{Root: local("opt"), Discriminant: ir.One}, live)
	require.NoError(t, err)
	assert.True(t, ir.TypeEqual(optionEnum().Variants[ir.One].Ty, ty))

	_, err = c.checkPlaceExpr(ir.DowncastPlace{Root: local("opt"), Discriminant: ir.NewInt(2)}, live)
	requireIllFormed(t, err, KindExpr, "PlaceExpr::Downcast: invalid discriminant")

	_, err = c.checkPlaceExpr(ir.DowncastPlace{Root: local("pair"), Discriminant: ir.Zero}, live)
	requireIllFormed(t, err, KindExpr, "PlaceExpr::Downcast: base must be enum type")
}

func TestArgumentExpr(t *testing.T) {
	c, live := exprFixture(target.X86_64)

	ty, err := c.checkArgumentExpr(ir.ByValue{Value: load("i")}, live)
	require.NoError(t, err)
	assert.Equal(t, tu.Int(tu.I32), ty)

	ty, err = c.checkArgumentExpr(ir.InPlace{Place: local("b")}, live)
	require.NoError(t, err)
	assert.Equal(t, tu.Bool(), ty)
}

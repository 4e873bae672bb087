package testutil

import (
	"fmt"

	"github.com/roach88/minicheck/internal/ir"
)

// Common integer types.
var (
	I8  = ir.IntType{Signed: ir.Signed, Size: 1}
	I32 = ir.IntType{Signed: ir.Signed, Size: 4}
	I64 = ir.IntType{Signed: ir.Signed, Size: 8}
	U8  = ir.IntType{Signed: ir.Unsigned, Size: 1}
	U32 = ir.IntType{Signed: ir.Unsigned, Size: 4}
	U64 = ir.IntType{Signed: ir.Unsigned, Size: 8}
)

// StartFn is the name of the start function built by SmallProgram.
const StartFn ir.FnName = "main"

// RetLocal is the return local of functions built by FunctionOf.
const RetLocal ir.LocalName = "ret"

// Int returns the type of an integer.
func Int(t ir.IntType) ir.Type { return ir.IntTy{IntType: t} }

// Bool returns the boolean type.
func Bool() ir.Type { return ir.BoolTy{} }

// Unit returns the empty tuple type.
func Unit() ir.Type { return ir.Unit }

// RawPtr returns a raw pointer type.
func RawPtr() ir.Type { return ir.PtrTy{Ptr: ir.RawPtr{}} }

// FnPtr returns a function pointer type with no parameters.
func FnPtr() ir.Type {
	return ir.PtrTy{Ptr: ir.FnPtr{Sig: ir.FnSig{CallingConvention: ir.CallingConventionC}}}
}

// Ref returns a shared reference to a pointee with the given layout.
func Ref(size ir.Size, align ir.Align) ir.Type {
	return ir.PtrTy{Ptr: ir.RefPtr{Pointee: ir.Layout{Size: size, Align: align}}}
}

// Field places a field at an offset.
func Field(offset ir.Offset, ty ir.Type) ir.Field {
	return ir.Field{Offset: offset, Ty: ty}
}

// Tuple returns a tuple type.
func Tuple(size ir.Size, align ir.Align, fields ...ir.Field) ir.Type {
	return ir.TupleTy{Fields: fields, Size: size, Align: align}
}

// Array returns an array type.
func Array(elem ir.Type, count int64) ir.Type {
	return ir.ArrayTy{Elem: elem, Count: ir.NewInt(count)}
}

// Range returns the half-open range [start, end).
func Range(start, end int64) ir.Range {
	return ir.Range{Start: ir.NewInt(start), End: ir.NewInt(end)}
}

// Local names the i-th local passed to FunctionOf.
func Local(i int) ir.LocalName {
	return ir.LocalName(fmt.Sprintf("_%d", i))
}

// BB names the i-th basic block.
func BB(i int) ir.BbName {
	return ir.BbName(fmt.Sprintf("bb%d", i))
}

// Place is the place of the i-th local.
func Place(i int) ir.PlaceExpr {
	return ir.LocalPlace{Name: Local(i)}
}

// RetPlace is the place of the return local.
func RetPlace() ir.PlaceExpr {
	return ir.LocalPlace{Name: RetLocal}
}

// ConstInt returns an integer constant of type t.
func ConstInt(v int64, t ir.IntType) ir.ValueExpr {
	return ir.ConstExpr{Value: ir.IntConst{Value: ir.NewInt(v)}, Ty: Int(t)}
}

// ConstBool returns a boolean constant.
func ConstBool(b bool) ir.ValueExpr {
	return ir.ConstExpr{Value: ir.BoolConst{Value: b}, Ty: Bool()}
}

// ConstFn returns a pointer to the named function.
func ConstFn(name ir.FnName) ir.ValueExpr {
	return ir.ConstExpr{Value: ir.FnPointer{Name: name}, Ty: FnPtr()}
}

// Load reads the i-th local.
func Load(i int) ir.ValueExpr {
	return ir.Load{Source: Place(i)}
}

// StorageLive marks the i-th local live.
func StorageLive(i int) ir.Statement { return ir.StorageLive{Local: Local(i)} }

// StorageDead marks the i-th local dead.
func StorageDead(i int) ir.Statement { return ir.StorageDead{Local: Local(i)} }

// Assign stores src into dest.
func Assign(dest ir.PlaceExpr, src ir.ValueExpr) ir.Statement {
	return ir.Assign{Dest: dest, Source: src}
}

// Goto jumps to the i-th block.
func Goto(i int) ir.Terminator { return ir.Goto{Target: BB(i)} }

// If branches on a boolean condition.
func If(cond ir.ValueExpr, then, els int) ir.Terminator {
	return ir.Switch{
		Value:    ir.UnOpExpr{Op: ir.BoolToInt{To: U8}, Operand: cond},
		Cases:    map[ir.Int]ir.BbName{ir.One: BB(then)},
		Fallback: BB(els),
	}
}

// Return returns from the function.
func Return() ir.Terminator { return ir.Return{} }

// Exit stops the program.
func Exit() ir.Terminator {
	return ir.Intrinsic{Op: ir.IntrinsicExit, Ret: RetPlace()}
}

// Block builds a basic block.
func Block(term ir.Terminator, stmts ...ir.Statement) ir.BasicBlock {
	return ir.BasicBlock{Statements: stmts, Terminator: term}
}

// FunctionOf builds a C-convention function without arguments. Locals are
// named with Local(i), the return local is RetLocal of unit type and the
// entry block is BB(0).
func FunctionOf(locals []ir.Type, blocks map[ir.BbName]ir.BasicBlock) ir.Function {
	table := map[ir.LocalName]ir.Type{RetLocal: ir.Unit}
	for i, ty := range locals {
		table[Local(i)] = ty
	}
	return ir.Function{
		Locals:            table,
		Ret:               RetLocal,
		Start:             BB(0),
		Blocks:            blocks,
		CallingConvention: ir.CallingConventionC,
	}
}

// ProgramOf wraps a start function and extra functions into a program.
func ProgramOf(start ir.Function, others map[ir.FnName]ir.Function) *ir.Program {
	fns := map[ir.FnName]ir.Function{StartFn: start}
	for name, fn := range others {
		fns[name] = fn
	}
	return &ir.Program{Functions: fns, Globals: map[ir.GlobalName]ir.Global{}, Start: StartFn}
}

// SmallProgram builds a program whose start function runs stmts in a single
// block and then exits.
func SmallProgram(locals []ir.Type, stmts ...ir.Statement) *ir.Program {
	fn := FunctionOf(locals, map[ir.BbName]ir.BasicBlock{
		BB(0): Block(Exit(), stmts...),
	})
	return ProgramOf(fn, nil)
}

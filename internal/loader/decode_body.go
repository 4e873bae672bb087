package loader

import (
	"github.com/roach88/minicheck/internal/ir"
)

var intUnOps = map[string]ir.IntUnOp{
	"neg":     ir.IntNeg,
	"bit_not": ir.IntBitNot,
}

var intBinOps = map[string]ir.IntBinOp{
	"add":     ir.IntAdd,
	"sub":     ir.IntSub,
	"mul":     ir.IntMul,
	"div":     ir.IntDiv,
	"rem":     ir.IntRem,
	"shl":     ir.IntShl,
	"shr":     ir.IntShr,
	"bit_and": ir.IntBitAnd,
	"bit_or":  ir.IntBitOr,
	"bit_xor": ir.IntBitXor,
}

var intRels = map[string]ir.IntRel{
	"lt": ir.IntLt,
	"le": ir.IntLe,
	"gt": ir.IntGt,
	"ge": ir.IntGe,
	"eq": ir.IntEq,
	"ne": ir.IntNe,
}

var boolBinOps = map[string]ir.BoolBinOp{
	"bool_and": ir.BoolBitAnd,
	"bool_or":  ir.BoolBitOr,
	"bool_xor": ir.BoolBitXor,
}

var basicIntrinsics = map[string]ir.BasicIntrinsic{
	"exit":                            ir.IntrinsicExit,
	"print_stdout":                    ir.IntrinsicPrintStdout,
	"print_stderr":                    ir.IntrinsicPrintStderr,
	"allocate":                        ir.IntrinsicAllocate,
	"deallocate":                      ir.IntrinsicDeallocate,
	"spawn":                           ir.IntrinsicSpawn,
	"join":                            ir.IntrinsicJoin,
	"atomic_store":                    ir.IntrinsicAtomicStore,
	"atomic_load":                     ir.IntrinsicAtomicLoad,
	"atomic_compare_exchange":         ir.IntrinsicAtomicCompareExchange,
	"assume":                          ir.IntrinsicAssume,
	"pointer_expose_provenance":       ir.IntrinsicPointerExposeProvenance,
	"pointer_with_exposed_provenance": ir.IntrinsicPointerWithExposedProvenance,
}

var lockIntrinsics = map[string]ir.LockOp{
	"lock_create":  ir.LockCreate,
	"lock_acquire": ir.LockAcquire,
	"lock_release": ir.LockRelease,
}

// ============================================================================
// Expressions
// ============================================================================

func decodeConst(d *ConstDoc) (ir.Constant, error) {
	if d == nil {
		return nil, loadErr(ErrCodeMissingField, "const is required")
	}
	switch d.Kind {
	case "int":
		v, err := requiredInt(d.Int, "int constant")
		if err != nil {
			return nil, err
		}
		return ir.IntConst{Value: v}, nil
	case "bool":
		return ir.BoolConst{Value: d.Bool}, nil
	case "global":
		if d.Global == "" {
			return nil, loadErr(ErrCodeMissingField, "global constant needs a global name")
		}
		var offset ir.Size
		if d.Offset != nil {
			var err error
			if offset, err = toSize(*d.Offset, "global offset"); err != nil {
				return nil, err
			}
		}
		return ir.GlobalPointer{Reloc: ir.Relocation{Name: ir.GlobalName(d.Global), Offset: offset}}, nil
	case "fn":
		if d.Fn == "" {
			return nil, loadErr(ErrCodeMissingField, "fn constant needs a function name")
		}
		return ir.FnPointer{Name: ir.FnName(d.Fn)}, nil
	case "addr":
		v, err := requiredInt(d.Int, "addr constant")
		if err != nil {
			return nil, err
		}
		return ir.PointerWithoutProvenance{Addr: v}, nil
	default:
		return nil, loadErr(ErrCodeUnknownKind, "unknown constant kind %q", d.Kind)
	}
}

func decodeValue(d *ValueDoc) (ir.ValueExpr, error) {
	if d == nil {
		return nil, loadErr(ErrCodeMissingField, "value expression is required")
	}
	switch d.Kind {
	case "const":
		c, err := decodeConst(d.Const)
		if err != nil {
			return nil, err
		}
		ty, err := decodeType(d.Type)
		if err != nil {
			return nil, err
		}
		return ir.ConstExpr{Value: c, Ty: ty}, nil

	case "tuple":
		elems := make([]ir.ValueExpr, 0, len(d.Elems))
		for i := range d.Elems {
			e, err := decodeValue(&d.Elems[i])
			if err != nil {
				return nil, within(err, "elems[%d]", i)
			}
			elems = append(elems, e)
		}
		ty, err := decodeType(d.Type)
		if err != nil {
			return nil, err
		}
		return ir.TupleExpr{Elems: elems, Ty: ty}, nil

	case "union":
		e, err := decodeValue(d.Expr)
		if err != nil {
			return nil, within(err, "expr")
		}
		ty, err := decodeType(d.Type)
		if err != nil {
			return nil, err
		}
		return ir.UnionExpr{Field: d.Field, Expr: e, Ty: ty}, nil

	case "variant":
		disc, err := requiredInt(d.Discriminant, "variant discriminant")
		if err != nil {
			return nil, err
		}
		data, err := decodeValue(d.Data)
		if err != nil {
			return nil, within(err, "data")
		}
		ty, err := decodeType(d.Type)
		if err != nil {
			return nil, err
		}
		return ir.VariantExpr{Discriminant: disc, Data: data, Ty: ty}, nil

	case "get_discriminant":
		p, err := decodePlace(d.Place)
		if err != nil {
			return nil, within(err, "place")
		}
		return ir.GetDiscriminant{Place: p}, nil

	case "load":
		p, err := decodePlace(d.Place)
		if err != nil {
			return nil, within(err, "place")
		}
		return ir.Load{Source: p}, nil

	case "addr_of":
		p, err := decodePlace(d.Place)
		if err != nil {
			return nil, within(err, "place")
		}
		ptr, err := decodePtr(d.PtrType)
		if err != nil {
			return nil, err
		}
		return ir.AddrOf{Target: p, PtrTy: ptr}, nil

	case "unop":
		op, err := decodeUnOp(d)
		if err != nil {
			return nil, err
		}
		operand, err := decodeValue(d.Operand)
		if err != nil {
			return nil, within(err, "operand")
		}
		return ir.UnOpExpr{Op: op, Operand: operand}, nil

	case "binop":
		op, err := decodeBinOp(d.Op)
		if err != nil {
			return nil, err
		}
		left, err := decodeValue(d.Left)
		if err != nil {
			return nil, within(err, "left")
		}
		right, err := decodeValue(d.Right)
		if err != nil {
			return nil, within(err, "right")
		}
		return ir.BinOpExpr{Op: op, Left: left, Right: right}, nil

	default:
		return nil, loadErr(ErrCodeUnknownKind, "unknown value expression kind %q", d.Kind)
	}
}

func decodeUnOp(d *ValueDoc) (ir.UnOp, error) {
	if op, ok := intUnOps[d.Op]; ok {
		return op, nil
	}
	switch d.Op {
	case "not":
		return ir.BoolNot, nil
	case "int_to_int", "bool_to_int":
		to, err := decodeIntType(d.IntType, d.Op+" int_type")
		if err != nil {
			return nil, err
		}
		if d.Op == "int_to_int" {
			return ir.IntToInt{To: to}, nil
		}
		return ir.BoolToInt{To: to}, nil
	case "transmute":
		to, err := decodeType(d.Type)
		if err != nil {
			return nil, err
		}
		return ir.Transmute{To: to}, nil
	default:
		return nil, loadErr(ErrCodeUnknownKind, "unknown unary operator %q", d.Op)
	}
}

func decodeBinOp(name string) (ir.BinOp, error) {
	if op, ok := intBinOps[name]; ok {
		return op, nil
	}
	if op, ok := intRels[name]; ok {
		return op, nil
	}
	if op, ok := boolBinOps[name]; ok {
		return op, nil
	}
	switch name {
	case "ptr_offset":
		return ir.PtrOffset{}, nil
	case "ptr_offset_inbounds":
		return ir.PtrOffset{Inbounds: true}, nil
	}
	return nil, loadErr(ErrCodeUnknownKind, "unknown binary operator %q", name)
}

func decodePlace(d *PlaceDoc) (ir.PlaceExpr, error) {
	if d == nil {
		return nil, loadErr(ErrCodeMissingField, "place expression is required")
	}
	switch d.Kind {
	case "local":
		if d.Name == "" {
			return nil, loadErr(ErrCodeMissingField, "local place needs a name")
		}
		return ir.LocalPlace{Name: ir.LocalName(d.Name)}, nil

	case "deref":
		operand, err := decodeValue(d.Operand)
		if err != nil {
			return nil, within(err, "operand")
		}
		ty, err := decodeType(d.Type)
		if err != nil {
			return nil, err
		}
		return ir.DerefPlace{Operand: operand, Ty: ty}, nil

	case "field":
		root, err := decodePlace(d.Root)
		if err != nil {
			return nil, within(err, "root")
		}
		return ir.FieldPlace{Root: root, Field: d.Field}, nil

	case "index":
		root, err := decodePlace(d.Root)
		if err != nil {
			return nil, within(err, "root")
		}
		index, err := decodeValue(d.Index)
		if err != nil {
			return nil, within(err, "index")
		}
		return ir.IndexPlace{Root: root, Index: index}, nil

	case "downcast":
		root, err := decodePlace(d.Root)
		if err != nil {
			return nil, within(err, "root")
		}
		disc, err := requiredInt(d.Discriminant, "downcast discriminant")
		if err != nil {
			return nil, err
		}
		return ir.DowncastPlace{Root: root, Discriminant: disc}, nil

	default:
		return nil, loadErr(ErrCodeUnknownKind, "unknown place expression kind %q", d.Kind)
	}
}

func decodeArgument(d *ArgumentDoc) (ir.ArgumentExpr, error) {
	switch d.Kind {
	case "by_value":
		v, err := decodeValue(d.Value)
		if err != nil {
			return nil, err
		}
		return ir.ByValue{Value: v}, nil
	case "in_place":
		p, err := decodePlace(d.Place)
		if err != nil {
			return nil, err
		}
		return ir.InPlace{Place: p}, nil
	default:
		return nil, loadErr(ErrCodeUnknownKind, "unknown argument kind %q", d.Kind)
	}
}

// ============================================================================
// Statements and terminators
// ============================================================================

func decodeStatement(d *StatementDoc) (ir.Statement, error) {
	switch d.Kind {
	case "assign":
		dest, err := decodePlace(d.Dest)
		if err != nil {
			return nil, within(err, "dest")
		}
		src, err := decodeValue(d.Source)
		if err != nil {
			return nil, within(err, "source")
		}
		return ir.Assign{Dest: dest, Source: src}, nil

	case "set_discriminant":
		dest, err := decodePlace(d.Dest)
		if err != nil {
			return nil, within(err, "dest")
		}
		v, err := requiredInt(d.Value, "set_discriminant value")
		if err != nil {
			return nil, err
		}
		return ir.SetDiscriminant{Dest: dest, Value: v}, nil

	case "validate":
		p, err := decodePlace(d.Place)
		if err != nil {
			return nil, within(err, "place")
		}
		return ir.Validate{Place: p, FnEntry: d.FnEntry}, nil

	case "deinit":
		p, err := decodePlace(d.Place)
		if err != nil {
			return nil, within(err, "place")
		}
		return ir.Deinit{Place: p}, nil

	case "storage_live", "storage_dead":
		if d.Local == "" {
			return nil, loadErr(ErrCodeMissingField, "%s needs a local", d.Kind)
		}
		if d.Kind == "storage_live" {
			return ir.StorageLive{Local: ir.LocalName(d.Local)}, nil
		}
		return ir.StorageDead{Local: ir.LocalName(d.Local)}, nil

	default:
		return nil, loadErr(ErrCodeUnknownKind, "unknown statement kind %q", d.Kind)
	}
}

func nextBlock(name string) *ir.BbName {
	if name == "" {
		return nil
	}
	return ir.Next(ir.BbName(name))
}

func decodeTerminator(d *TerminatorDoc) (ir.Terminator, error) {
	if d == nil {
		return nil, loadErr(ErrCodeMissingField, "terminator is required")
	}
	switch d.Kind {
	case "goto":
		if d.Target == "" {
			return nil, loadErr(ErrCodeMissingField, "goto needs a target")
		}
		return ir.Goto{Target: ir.BbName(d.Target)}, nil

	case "switch":
		v, err := decodeValue(d.Value)
		if err != nil {
			return nil, within(err, "value")
		}
		if d.Fallback == "" {
			return nil, loadErr(ErrCodeMissingField, "switch needs a fallback")
		}
		cases := make(map[ir.Int]ir.BbName, len(d.Cases))
		for _, cd := range d.Cases {
			if _, dup := cases[cd.Value.Int]; dup {
				return nil, loadErr(ErrCodeDuplicate, "switch case %s declared twice", cd.Value.Int)
			}
			cases[cd.Value.Int] = ir.BbName(cd.Target)
		}
		return ir.Switch{Value: v, Cases: cases, Fallback: ir.BbName(d.Fallback)}, nil

	case "unreachable":
		return ir.Unreachable{}, nil

	case "return":
		return ir.Return{}, nil

	case "call":
		callee, err := decodeValue(d.Callee)
		if err != nil {
			return nil, within(err, "callee")
		}
		args := make([]ir.ArgumentExpr, 0, len(d.Args))
		for i := range d.Args {
			a, err := decodeArgument(&d.Args[i])
			if err != nil {
				return nil, within(err, "args[%d]", i)
			}
			args = append(args, a)
		}
		ret, err := decodePlace(d.Ret)
		if err != nil {
			return nil, within(err, "ret")
		}
		return ir.Call{Callee: callee, Args: args, Ret: ret, Next: nextBlock(d.Next)}, nil

	case "intrinsic":
		op, err := decodeIntrinsicOp(d)
		if err != nil {
			return nil, err
		}
		operands := make([]ir.ValueExpr, 0, len(d.Operands))
		for i := range d.Operands {
			v, err := decodeValue(&d.Operands[i])
			if err != nil {
				return nil, within(err, "operands[%d]", i)
			}
			operands = append(operands, v)
		}
		ret, err := decodePlace(d.Ret)
		if err != nil {
			return nil, within(err, "ret")
		}
		return ir.Intrinsic{Op: op, Args: operands, Ret: ret, Next: nextBlock(d.Next)}, nil

	default:
		return nil, loadErr(ErrCodeUnknownKind, "unknown terminator kind %q", d.Kind)
	}
}

func decodeIntrinsicOp(d *TerminatorDoc) (ir.IntrinsicOp, error) {
	if op, ok := basicIntrinsics[d.Intrinsic]; ok {
		return op, nil
	}
	if op, ok := lockIntrinsics[d.Intrinsic]; ok {
		return ir.LockIntrinsic{Op: op}, nil
	}
	if d.Intrinsic == "atomic_fetch_and_op" {
		op, ok := intBinOps[d.Op]
		if !ok {
			return nil, loadErr(ErrCodeUnknownKind, "unknown atomic_fetch_and_op operator %q", d.Op)
		}
		return ir.AtomicFetchAndOp{Op: op}, nil
	}
	return nil, loadErr(ErrCodeUnknownKind, "unknown intrinsic %q", d.Intrinsic)
}

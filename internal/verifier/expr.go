package verifier

import (
	"github.com/roach88/minicheck/internal/ir"
)

// Locals maps every live local to its declared type.
type Locals map[ir.LocalName]ir.Type

func (l Locals) clone() Locals {
	out := make(Locals, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// sameKeys reports whether two liveness sets contain the same locals.
// Types are taken from the function's local table, so comparing names is enough.
func (l Locals) sameKeys(other Locals) bool {
	if len(l) != len(other) {
		return false
	}
	for k := range l {
		if _, ok := other[k]; !ok {
			return false
		}
	}
	return true
}

func (c *checker) checkRelocation(r ir.Relocation, kind ErrorKind) error {
	g, ok := c.prog.Globals[r.Name]
	if !ok {
		return illFormed(kind, "Relocation: invalid global name")
	}
	return ensure(uint64(r.Offset) <= uint64(len(g.Bytes)), kind, "Relocation: offset out-of-bounds")
}

func (c *checker) checkConstant(v ir.Constant, ty ir.Type) error {
	switch v := v.(type) {
	case ir.IntConst:
		t, ok := ty.(ir.IntTy)
		if !ok {
			return illFormed(KindExpr, "Constant::Int: non-integer type")
		}
		return ensure(t.CanRepresent(v.Value), KindExpr, "Constant::Int: value does not fit type")
	case ir.BoolConst:
		_, ok := ty.(ir.BoolTy)
		return ensure(ok, KindExpr, "Constant::Bool: non-boolean type")
	case ir.GlobalPointer:
		if _, ok := ty.(ir.PtrTy); !ok {
			return illFormed(KindExpr, "Constant::GlobalPointer: non-pointer type")
		}
		return c.checkRelocation(v.Reloc, KindExpr)
	case ir.FnPointer:
		p, ok := ty.(ir.PtrTy)
		if !ok {
			return illFormed(KindExpr, "Constant::FnPointer: non-pointer type")
		}
		if _, ok := p.Ptr.(ir.FnPtr); !ok {
			return illFormed(KindExpr, "Constant::FnPointer: non-function-pointer type")
		}
		_, ok = c.prog.Functions[v.Name]
		return ensure(ok, KindExpr, "Constant::FnPointer: invalid function name")
	case ir.PointerWithoutProvenance:
		if _, ok := ty.(ir.PtrTy); !ok {
			return illFormed(KindExpr, "Constant::PointerWithoutProvenance: non-pointer type")
		}
		return ensure(v.Addr.InBounds(ir.Unsigned, c.target.PtrSize()), KindExpr,
			"Constant::PointerWithoutProvenance: pointer out-of-bounds")
	default:
		return illFormed(KindExpr, "Constant: unsupported constant %T", v)
	}
}

// checkValueExpr type-checks a value expression and returns its type.
func (c *checker) checkValueExpr(e ir.ValueExpr, live Locals) (ir.Type, error) {
	switch e := e.(type) {
	case ir.ConstExpr:
		if err := c.checkType(e.Ty); err != nil {
			return nil, err
		}
		if err := c.checkConstant(e.Value, e.Ty); err != nil {
			return nil, err
		}
		return e.Ty, nil

	case ir.TupleExpr:
		if err := c.checkType(e.Ty); err != nil {
			return nil, err
		}
		switch t := e.Ty.(type) {
		case ir.TupleTy:
			if len(e.Elems) != len(t.Fields) {
				return nil, illFormed(KindExpr, "ValueExpr::Tuple: invalid number of tuple fields")
			}
			for i, elem := range e.Elems {
				if err := c.expectValueType(elem, t.Fields[i].Ty, live, "ValueExpr::Tuple: invalid tuple field type"); err != nil {
					return nil, at(err, "element %d", i)
				}
			}
		case ir.ArrayTy:
			if t.Count.Cmp(ir.NewInt(int64(len(e.Elems)))) != 0 {
				return nil, illFormed(KindExpr, "ValueExpr::Tuple: invalid number of array elements")
			}
			for i, elem := range e.Elems {
				if err := c.expectValueType(elem, t.Elem, live, "ValueExpr::Tuple: invalid array element type"); err != nil {
					return nil, at(err, "element %d", i)
				}
			}
		default:
			return nil, illFormed(KindExpr, "ValueExpr::Tuple: expression does not match type")
		}
		return e.Ty, nil

	case ir.UnionExpr:
		if err := c.checkType(e.Ty); err != nil {
			return nil, err
		}
		t, ok := e.Ty.(ir.UnionTy)
		if !ok {
			return nil, illFormed(KindExpr, "ValueExpr::Union: invalid type")
		}
		if e.Field < 0 || e.Field >= len(t.Fields) {
			return nil, illFormed(KindExpr, "ValueExpr::Union: invalid field")
		}
		if err := c.expectValueType(e.Expr, t.Fields[e.Field].Ty, live, "ValueExpr::Union: invalid field type"); err != nil {
			return nil, err
		}
		return e.Ty, nil

	case ir.VariantExpr:
		if err := c.checkType(e.Ty); err != nil {
			return nil, err
		}
		t, ok := e.Ty.(ir.EnumTy)
		if !ok {
			return nil, illFormed(KindExpr, "ValueExpr::Variant: invalid type")
		}
		variant, ok := t.Variants[e.Discriminant]
		if !ok {
			return nil, illFormed(KindExpr, "ValueExpr::Variant: invalid discriminant")
		}
		if err := c.expectValueType(e.Data, variant.Ty, live, "ValueExpr::Variant: invalid type of variant data"); err != nil {
			return nil, err
		}
		return e.Ty, nil

	case ir.GetDiscriminant:
		ty, err := c.checkPlaceExpr(e.Place, live)
		if err != nil {
			return nil, err
		}
		t, ok := ty.(ir.EnumTy)
		if !ok {
			return nil, illFormed(KindExpr, "ValueExpr::GetDiscriminant: invalid type")
		}
		return ir.IntTy{IntType: t.DiscriminantTy}, nil

	case ir.Load:
		return c.checkPlaceExpr(e.Source, live)

	case ir.AddrOf:
		if _, err := c.checkPlaceExpr(e.Target, live); err != nil {
			return nil, err
		}
		if e.PtrTy == nil {
			return nil, illFormed(KindExpr, "ValueExpr::AddrOf: missing pointer type")
		}
		if err := c.checkPtrType(e.PtrTy); err != nil {
			return nil, err
		}
		return ir.PtrTy{Ptr: e.PtrTy}, nil

	case ir.UnOpExpr:
		operand, err := c.checkValueExpr(e.Operand, live)
		if err != nil {
			return nil, err
		}
		return c.checkUnOp(e.Op, operand)

	case ir.BinOpExpr:
		left, err := c.checkValueExpr(e.Left, live)
		if err != nil {
			return nil, err
		}
		right, err := c.checkValueExpr(e.Right, live)
		if err != nil {
			return nil, err
		}
		return checkBinOp(e.Op, left, right)

	default:
		return nil, illFormed(KindExpr, "ValueExpr: unsupported expression %T", e)
	}
}

// expectValueType checks e and requires its type to equal want exactly.
func (c *checker) expectValueType(e ir.ValueExpr, want ir.Type, live Locals, msg string) error {
	got, err := c.checkValueExpr(e, live)
	if err != nil {
		return err
	}
	return ensure(ir.TypeEqual(got, want), KindExpr, msg)
}

func (c *checker) checkUnOp(op ir.UnOp, operand ir.Type) (ir.Type, error) {
	switch op := op.(type) {
	case ir.IntUnOp:
		if _, ok := operand.(ir.IntTy); !ok {
			return nil, illFormed(KindExpr, "UnOp::Int: invalid operand")
		}
		return operand, nil
	case ir.BoolUnOp:
		if _, ok := operand.(ir.BoolTy); !ok {
			return nil, illFormed(KindExpr, "UnOp::Bool: invalid operand")
		}
		return operand, nil
	case ir.IntToInt:
		if _, ok := operand.(ir.IntTy); !ok {
			return nil, illFormed(KindExpr, "Cast::IntToInt: invalid operand")
		}
		if err := checkIntType(op.To); err != nil {
			return nil, err
		}
		return ir.IntTy{IntType: op.To}, nil
	case ir.BoolToInt:
		if _, ok := operand.(ir.BoolTy); !ok {
			return nil, illFormed(KindExpr, "Cast::BoolToInt: invalid operand")
		}
		if err := checkIntType(op.To); err != nil {
			return nil, err
		}
		return ir.IntTy{IntType: op.To}, nil
	case ir.Transmute:
		// Bit validity of the result is a decode-time concern.
		if op.To == nil {
			return nil, illFormed(KindExpr, "Cast::Transmute: missing target type")
		}
		if err := c.checkType(op.To); err != nil {
			return nil, err
		}
		return op.To, nil
	default:
		return nil, illFormed(KindExpr, "UnOp: unsupported operator %T", op)
	}
}

func checkBinOp(op ir.BinOp, left, right ir.Type) (ir.Type, error) {
	switch op := op.(type) {
	case ir.IntBinOp:
		l, ok := left.(ir.IntTy)
		if !ok {
			return nil, illFormed(KindExpr, "BinOp::Int: invalid left type")
		}
		if r, ok := right.(ir.IntTy); !ok || r != l {
			return nil, illFormed(KindExpr, "BinOp::Int: invalid right type")
		}
		return l, nil
	case ir.IntRel:
		l, ok := left.(ir.IntTy)
		if !ok {
			return nil, illFormed(KindExpr, "BinOp::IntRel: invalid left type")
		}
		if r, ok := right.(ir.IntTy); !ok || r != l {
			return nil, illFormed(KindExpr, "BinOp::IntRel: invalid right type")
		}
		return ir.BoolTy{}, nil
	case ir.PtrOffset:
		if _, ok := left.(ir.PtrTy); !ok {
			return nil, illFormed(KindExpr, "BinOp::PtrOffset: invalid left type")
		}
		if _, ok := right.(ir.IntTy); !ok {
			return nil, illFormed(KindExpr, "BinOp::PtrOffset: invalid right type")
		}
		return left, nil
	case ir.BoolBinOp:
		if _, ok := left.(ir.BoolTy); !ok {
			return nil, illFormed(KindExpr, "BinOp::Bool: invalid left type")
		}
		if _, ok := right.(ir.BoolTy); !ok {
			return nil, illFormed(KindExpr, "BinOp::Bool: invalid right type")
		}
		return ir.BoolTy{}, nil
	default:
		return nil, illFormed(KindExpr, "BinOp: unsupported operator %T", op)
	}
}

// checkPlaceExpr type-checks a place expression and returns the type of the place.
func (c *checker) checkPlaceExpr(p ir.PlaceExpr, live Locals) (ir.Type, error) {
	switch p := p.(type) {
	case ir.LocalPlace:
		ty, ok := live[p.Name]
		if !ok {
			return nil, illFormed(KindExpr, "PlaceExpr::Local: unknown or dead local %q", p.Name)
		}
		return ty, nil

	case ir.DerefPlace:
		operand, err := c.checkValueExpr(p.Operand, live)
		if err != nil {
			return nil, err
		}
		if _, ok := operand.(ir.PtrTy); !ok {
			return nil, illFormed(KindExpr, "PlaceExpr::Deref: invalid operand type")
		}
		if p.Ty == nil {
			return nil, illFormed(KindExpr, "PlaceExpr::Deref: missing type")
		}
		if err := c.checkType(p.Ty); err != nil {
			return nil, err
		}
		return p.Ty, nil

	case ir.FieldPlace:
		root, err := c.checkPlaceExpr(p.Root, live)
		if err != nil {
			return nil, err
		}
		var fields []ir.Field
		switch t := root.(type) {
		case ir.TupleTy:
			fields = t.Fields
		case ir.UnionTy:
			fields = t.Fields
		default:
			return nil, illFormed(KindExpr, "PlaceExpr::Field: expression does not match type")
		}
		if p.Field < 0 || p.Field >= len(fields) {
			return nil, illFormed(KindExpr, "PlaceExpr::Field: invalid field")
		}
		return fields[p.Field].Ty, nil

	case ir.IndexPlace:
		root, err := c.checkPlaceExpr(p.Root, live)
		if err != nil {
			return nil, err
		}
		index, err := c.checkValueExpr(p.Index, live)
		if err != nil {
			return nil, err
		}
		if _, ok := index.(ir.IntTy); !ok {
			return nil, illFormed(KindExpr, "PlaceExpr::Index: invalid index type")
		}
		t, ok := root.(ir.ArrayTy)
		if !ok {
			return nil, illFormed(KindExpr, "PlaceExpr::Index: expression type is not indexable")
		}
		return t.Elem, nil

	case ir.DowncastPlace:
		root, err := c.checkPlaceExpr(p.Root, live)
		if err != nil {
			return nil, err
		}
		t, ok := root.(ir.EnumTy)
		if !ok {
			return nil, illFormed(KindExpr, "PlaceExpr::Downcast: base must be enum type")
		}
		variant, ok := t.Variants[p.Discriminant]
		if !ok {
			return nil, illFormed(KindExpr, "PlaceExpr::Downcast: invalid discriminant")
		}
		return variant.Ty, nil

	default:
		return nil, illFormed(KindExpr, "PlaceExpr: unsupported place %T", p)
	}
}

func (c *checker) checkArgumentExpr(a ir.ArgumentExpr, live Locals) (ir.Type, error) {
	switch a := a.(type) {
	case ir.ByValue:
		return c.checkValueExpr(a.Value, live)
	case ir.InPlace:
		return c.checkPlaceExpr(a.Place, live)
	default:
		return nil, illFormed(KindExpr, "ArgumentExpr: unsupported argument %T", a)
	}
}

package verifier

import (
	"github.com/roach88/minicheck/internal/ir"
)

// CheckValue reports whether val is well-formed at ty on the given target.
// ty is assumed to be a well-formed type; the check is purely structural and
// independent of any program.
func CheckValue(val ir.Value, ty ir.Type, tgt ir.Target) error {
	switch v := val.(type) {
	case ir.IntVal:
		t, ok := ty.(ir.IntTy)
		if !ok {
			break
		}
		return ensure(t.CanRepresent(v.Value), KindValue, "Value::Int: value does not fit type")

	case ir.BoolVal:
		if _, ok := ty.(ir.BoolTy); ok {
			return nil
		}

	case ir.PtrVal:
		t, ok := ty.(ir.PtrTy)
		if !ok {
			break
		}
		if !addrValid(t.Ptr, v.Ptr.Addr) {
			return illFormed(KindValue, "Value::Ptr: invalid address for pointer type")
		}
		return ensure(v.Ptr.Addr.InBounds(ir.Unsigned, tgt.PtrSize()), KindValue, "Value::Ptr: address out-of-bounds")

	case ir.TupleVal:
		switch t := ty.(type) {
		case ir.TupleTy:
			if len(v.Elems) != len(t.Fields) {
				return illFormed(KindValue, "Value::Tuple: invalid number of fields")
			}
			for i, elem := range v.Elems {
				if err := CheckValue(elem, t.Fields[i].Ty, tgt); err != nil {
					return at(err, "field %d", i)
				}
			}
			return nil
		case ir.ArrayTy:
			if t.Count.Cmp(ir.NewInt(int64(len(v.Elems)))) != 0 {
				return illFormed(KindValue, "Value::Tuple: invalid number of array elements")
			}
			for i, elem := range v.Elems {
				if err := CheckValue(elem, t.Elem, tgt); err != nil {
					return at(err, "element %d", i)
				}
			}
			return nil
		}

	case ir.UnionVal:
		t, ok := ty.(ir.UnionTy)
		if !ok {
			break
		}
		if len(v.Chunks) != len(t.Chunks) {
			return illFormed(KindValue, "Value::Union: invalid number of chunks")
		}
		for i, data := range v.Chunks {
			if uint64(len(data)) != uint64(t.Chunks[i].Size) {
				return at(illFormed(KindValue, "Value::Union: chunk size mismatch"), "chunk %d", i)
			}
		}
		return nil

	case ir.VariantVal:
		t, ok := ty.(ir.EnumTy)
		if !ok {
			break
		}
		variant, ok := t.Variants[v.Discriminant]
		if !ok {
			return illFormed(KindValue, "Value::Variant: invalid discriminant")
		}
		return at(CheckValue(v.Data, variant.Ty, tgt), "variant %s", v.Discriminant)
	}
	return illFormed(KindValue, "Value: value %T does not match type %T", val, ty)
}

// ValueWellFormed is CheckValue as a predicate.
func ValueWellFormed(val ir.Value, ty ir.Type, tgt ir.Target) bool {
	return CheckValue(val, ty, tgt) == nil
}

// addrValid reports whether addr is acceptable for a pointer of type p.
// Safe pointers must be non-null and aligned for their pointee.
func addrValid(p ir.PtrType, addr ir.Int) bool {
	layout, safe := ir.SafePointee(p)
	if !safe {
		return true
	}
	if addr.Sign() == 0 || layout.Align == 0 {
		return false
	}
	a, ok := addr.Uint64()
	if !ok {
		return false
	}
	return a%uint64(layout.Align) == 0
}

package verifier

import (
	"cmp"
	"math/big"
	"math/bits"
	"slices"

	"github.com/roach88/minicheck/internal/ir"
)

// addSize returns a+b and whether the sum did not overflow.
func addSize(a, b ir.Size) (ir.Size, bool) {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	return ir.Size(sum), carry == 0
}

// fits reports whether [offset, offset+size) lies within total.
func fits(offset, size, total ir.Size) bool {
	end, ok := addSize(offset, size)
	return ok && end <= total
}

func checkIntType(t ir.IntType) error {
	return ensure(ir.Align(t.Size).IsPowerOfTwo(), KindType, "IntType: size is not a power of two")
}

func (c *checker) checkLayout(l ir.Layout) error {
	if !c.target.ValidSize(l.Size) {
		return illFormed(KindType, "Layout: size not valid")
	}
	return ensure(l.Align.IsPowerOfTwo(), KindType, "Layout: align is not a power of two")
}

func (c *checker) checkPtrType(p ir.PtrType) error {
	switch p := p.(type) {
	case ir.RefPtr:
		return at(c.checkLayout(p.Pointee), "pointee")
	case ir.BoxPtr:
		return at(c.checkLayout(p.Pointee), "pointee")
	case ir.RawPtr, ir.FnPtr:
		// Function signatures are not validated.
		return nil
	default:
		return illFormed(KindType, "PtrType: unsupported pointer type %T", p)
	}
}

// sizeOf computes the size of a type. It reports false when the size is not
// representable (negative or overflowing array sizes, unknown types).
func (c *checker) sizeOf(ty ir.Type) (ir.Size, bool) {
	switch t := ty.(type) {
	case ir.IntTy:
		return t.Size, true
	case ir.BoolTy:
		return 1, true
	case ir.PtrTy:
		return c.target.PtrSize(), true
	case ir.TupleTy:
		return t.Size, true
	case ir.UnionTy:
		return t.Size, true
	case ir.EnumTy:
		return t.Size, true
	case ir.ArrayTy:
		elem, ok := c.sizeOf(t.Elem)
		if !ok || t.Count.Sign() < 0 {
			return 0, false
		}
		total := new(big.Int).Mul(new(big.Int).SetUint64(uint64(elem)), t.Count.Big())
		if !total.IsUint64() {
			return 0, false
		}
		return ir.Size(total.Uint64()), true
	default:
		return 0, false
	}
}

// alignOf computes the alignment of a type. Unknown types have alignment 0.
func (c *checker) alignOf(ty ir.Type) ir.Align {
	switch t := ty.(type) {
	case ir.IntTy:
		return ir.IntAlign(t.IntType)
	case ir.BoolTy:
		return 1
	case ir.PtrTy:
		return ir.Align(c.target.PtrSize())
	case ir.TupleTy:
		return t.Align
	case ir.UnionTy:
		return t.Align
	case ir.EnumTy:
		return t.Align
	case ir.ArrayTy:
		return c.alignOf(t.Elem)
	default:
		return 0
	}
}

// checkType verifies a type and everything nested in it.
func (c *checker) checkType(ty ir.Type) error {
	switch t := ty.(type) {
	case ir.IntTy:
		if err := checkIntType(t.IntType); err != nil {
			return err
		}
	case ir.BoolTy:
	case ir.PtrTy:
		if err := c.checkPtrType(t.Ptr); err != nil {
			return err
		}
	case ir.TupleTy:
		if err := c.checkTuple(t); err != nil {
			return err
		}
	case ir.ArrayTy:
		if t.Count.Sign() < 0 {
			return illFormed(KindType, "Type::Array: negative amount of elements")
		}
		if err := c.checkType(t.Elem); err != nil {
			return at(err, "array element")
		}
	case ir.UnionTy:
		if err := c.checkUnion(t); err != nil {
			return err
		}
	case ir.EnumTy:
		if err := c.checkEnum(t); err != nil {
			return err
		}
	default:
		return illFormed(KindType, "Type: unsupported type %T", ty)
	}

	size, ok := c.sizeOf(ty)
	if !ok || !c.target.ValidSize(size) {
		return illFormed(KindType, "Type: size not valid")
	}
	align := c.alignOf(ty)
	if !align.IsPowerOfTwo() {
		return illFormed(KindType, "Type: alignment is not a power of two")
	}
	return ensure(uint64(size)%uint64(align) == 0, KindType, "Type: size not a multiple of alignment")
}

func (c *checker) checkTuple(t ir.TupleTy) error {
	// Order by offset, then by end, so the verdict does not depend on the
	// declared field order.
	fields := slices.Clone(t.Fields)
	slices.SortStableFunc(fields, func(a, b ir.Field) int {
		if r := cmp.Compare(a.Offset, b.Offset); r != 0 {
			return r
		}
		sa, _ := c.sizeOf(a.Ty)
		sb, _ := c.sizeOf(b.Ty)
		return cmp.Compare(sa, sb)
	})

	var lastEnd ir.Size
	for _, f := range fields {
		if err := c.checkType(f.Ty); err != nil {
			return at(err, "field at offset %d", f.Offset)
		}
		if f.Offset < lastEnd {
			return illFormed(KindType, "Type::Tuple: overlapping fields")
		}
		size, _ := c.sizeOf(f.Ty)
		end, ok := addSize(f.Offset, size)
		if !ok {
			return illFormed(KindType, "Type::Tuple: field end overflows")
		}
		lastEnd = end
	}
	return ensure(t.Size >= lastEnd, KindType, "Type::Tuple: size of fields is bigger than total size")
}

func (c *checker) checkUnion(t ir.UnionTy) error {
	for i, f := range t.Fields {
		if err := c.checkType(f.Ty); err != nil {
			return at(err, "field %d", i)
		}
		size, _ := c.sizeOf(f.Ty)
		if !fits(f.Offset, size, t.Size) {
			return illFormed(KindType, "Type::Union: field size does not fit union")
		}
	}

	var lastEnd ir.Size
	for _, chunk := range t.Chunks {
		if chunk.Offset < lastEnd {
			return illFormed(KindType, "Type::Union: chunks are not stored in ascending order")
		}
		end, ok := addSize(chunk.Offset, chunk.Size)
		if !ok {
			return illFormed(KindType, "Type::Union: chunk end overflows")
		}
		lastEnd = end
	}
	// Field bytes are not required to lie within a chunk.
	return ensure(t.Size >= lastEnd, KindType, "Type::Union: chunks do not fit union")
}

func (c *checker) checkEnum(t ir.EnumTy) error {
	if err := checkIntType(t.DiscriminantTy); err != nil {
		return at(err, "discriminant type")
	}
	for _, d := range ir.SortedInts(t.Variants) {
		variant := t.Variants[d]
		if !t.DiscriminantTy.CanRepresent(d) {
			return illFormed(KindType, "Type::Enum: invalid value for discriminant")
		}
		if err := c.checkType(variant.Ty); err != nil {
			return at(err, "variant %s", d)
		}
		size, _ := c.sizeOf(variant.Ty)
		if size != t.Size {
			return illFormed(KindType, "Type::Enum: variant size is not the same as enum size")
		}
		if c.alignOf(variant.Ty) > t.Align {
			return illFormed(KindType, "Type::Enum: invalid align requirement")
		}
		// Tagger ranges of different variants may overlap.
		for _, offset := range ir.SortedKeys(variant.Tagger) {
			tag := variant.Tagger[offset]
			if err := checkIntType(tag.Ty); err != nil {
				return at(err, "variant %s", d)
			}
			if !tag.Ty.CanRepresent(tag.Value) {
				return at(illFormed(KindType, "Type::Enum: invalid tagger value"), "variant %s", d)
			}
			if !fits(offset, tag.Ty.Size, t.Size) {
				return at(illFormed(KindType, "Type::Enum: tagger type size too big for enum"), "variant %s", d)
			}
		}
	}
	return at(c.checkDiscriminator(t.Discriminator, t.Size, t.Variants), "discriminator")
}

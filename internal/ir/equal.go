package ir

import (
	"cmp"
	"maps"
	"slices"
)

// TypeEqual reports whether two types are structurally identical.
// Field order matters; nil and empty slices compare equal.
func TypeEqual(a, b Type) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case IntTy:
		b, ok := b.(IntTy)
		return ok && a == b
	case BoolTy:
		_, ok := b.(BoolTy)
		return ok
	case PtrTy:
		b, ok := b.(PtrTy)
		return ok && PtrTypeEqual(a.Ptr, b.Ptr)
	case TupleTy:
		b, ok := b.(TupleTy)
		return ok && a.Size == b.Size && a.Align == b.Align && fieldsEqual(a.Fields, b.Fields)
	case ArrayTy:
		b, ok := b.(ArrayTy)
		return ok && a.Count == b.Count && TypeEqual(a.Elem, b.Elem)
	case UnionTy:
		b, ok := b.(UnionTy)
		return ok && a.Size == b.Size && a.Align == b.Align &&
			slices.Equal(a.Chunks, b.Chunks) && fieldsEqual(a.Fields, b.Fields)
	case EnumTy:
		b, ok := b.(EnumTy)
		if !ok || a.Size != b.Size || a.Align != b.Align || a.DiscriminantTy != b.DiscriminantTy {
			return false
		}
		if !maps.EqualFunc(a.Variants, b.Variants, variantEqual) {
			return false
		}
		return DiscriminatorEqual(a.Discriminator, b.Discriminator)
	default:
		return false
	}
}

// PtrTypeEqual reports whether two pointer types are identical.
func PtrTypeEqual(a, b PtrType) bool {
	switch a := a.(type) {
	case FnPtr:
		b, ok := b.(FnPtr)
		return ok && a.Sig.CallingConvention == b.Sig.CallingConvention &&
			a.Sig.Ret == b.Sig.Ret && slices.Equal(a.Sig.Args, b.Sig.Args)
	default:
		return a == b
	}
}

// DiscriminatorEqual reports whether two discriminator trees are identical.
func DiscriminatorEqual(a, b Discriminator) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case Branch:
		b, ok := b.(Branch)
		if !ok || a.Offset != b.Offset || a.ValueType != b.ValueType {
			return false
		}
		return DiscriminatorEqual(a.Fallback, b.Fallback) &&
			maps.EqualFunc(a.Children, b.Children, DiscriminatorEqual)
	default:
		return a == b
	}
}

func fieldsEqual(a, b []Field) bool {
	return slices.EqualFunc(a, b, func(x, y Field) bool {
		return x.Offset == y.Offset && TypeEqual(x.Ty, y.Ty)
	})
}

func variantEqual(a, b Variant) bool {
	return TypeEqual(a.Ty, b.Ty) && maps.Equal(a.Tagger, b.Tagger)
}

// SortedInts returns the keys of an Int-keyed map in ascending order.
func SortedInts[V any](m map[Int]V) []Int {
	return slices.SortedFunc(maps.Keys(m), Int.Cmp)
}

// SortedRanges returns the keys of a Range-keyed map ordered by start, then end.
func SortedRanges[V any](m map[Range]V) []Range {
	return slices.SortedFunc(maps.Keys(m), func(a, b Range) int {
		if c := a.Start.Cmp(b.Start); c != 0 {
			return c
		}
		return a.End.Cmp(b.End)
	})
}

// SortedKeys returns the keys of a map with an ordered key type in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}

package ir

// Value is a sealed interface over runtime values at the typed level.
type Value interface {
	value()
}

// IntVal is an integer value.
type IntVal struct{ Value Int }

// BoolVal is a boolean value.
type BoolVal struct{ Value bool }

// Pointer is a pointer value. Provenance is opaque to the verifier.
type Pointer struct {
	Addr       Int
	Provenance string
}

// PtrVal is a pointer value.
type PtrVal struct{ Ptr Pointer }

// TupleVal holds the components of a tuple or an array.
type TupleVal struct{ Elems []Value }

// AbstractByte is one byte of memory that may be uninitialised.
type AbstractByte struct {
	Data byte
	Init bool
}

// UnionVal holds the raw bytes of each chunk of a union.
type UnionVal struct{ Chunks [][]AbstractByte }

// VariantVal is an enum value.
type VariantVal struct {
	Discriminant Int
	Data         Value
}

func (IntVal) value()     {}
func (BoolVal) value()    {}
func (PtrVal) value()     {}
func (TupleVal) value()   {}
func (UnionVal) value()   {}
func (VariantVal) value() {}

package ir

// Size is an absolute byte quantity. Offsets are sizes measured from the
// start of the enclosing value.
type Size uint64

// Offset is a byte offset inside a value.
type Offset = Size

// Align is a byte alignment. Well-formed alignments are powers of two.
type Align uint64

// IsPowerOfTwo reports whether a is a non-zero power of two.
func (a Align) IsPowerOfTwo() bool {
	return a != 0 && a&(a-1) == 0
}

// Signedness of an integer type.
type Signedness int

const (
	Unsigned Signedness = iota
	Signed
)

func (s Signedness) String() string {
	if s == Signed {
		return "signed"
	}
	return "unsigned"
}

// IntType describes a fixed-width integer.
type IntType struct {
	Signed Signedness
	Size   Size
}

// CanRepresent reports whether v fits in the integer type.
func (t IntType) CanRepresent(v Int) bool {
	return v.InBounds(t.Signed, t.Size)
}

// Layout is a size/alignment pair, used to describe pointees.
type Layout struct {
	Size  Size
	Align Align
}

// CallingConvention of a function or function pointer.
type CallingConvention string

const (
	// CallingConventionC is the platform-standard calling convention.
	CallingConventionC    CallingConvention = "C"
	CallingConventionRust CallingConvention = "Rust"
)

// FnSig is the signature carried by a function pointer type.
// Signatures are not structurally validated.
type FnSig struct {
	CallingConvention CallingConvention
	Args              []Layout
	Ret               Layout
}

// PtrType is a sealed interface over pointer flavours.
// Only RefPtr, BoxPtr, RawPtr and FnPtr implement it.
type PtrType interface {
	ptrType()
}

// RefPtr is a borrowing pointer. Its pointee layout is constrained.
type RefPtr struct {
	Pointee Layout
	Mutable bool
}

// BoxPtr is an owning pointer. Its pointee layout is constrained.
type BoxPtr struct {
	Pointee Layout
}

// RawPtr is a raw pointer with no constraint on its pointee.
type RawPtr struct{}

// FnPtr is a function pointer.
type FnPtr struct {
	Sig FnSig
}

func (RefPtr) ptrType() {}
func (BoxPtr) ptrType() {}
func (RawPtr) ptrType() {}
func (FnPtr) ptrType()  {}

// SafePointee returns the pointee layout for Ref and Box pointers.
func SafePointee(p PtrType) (Layout, bool) {
	switch p := p.(type) {
	case RefPtr:
		return p.Pointee, true
	case BoxPtr:
		return p.Pointee, true
	default:
		return Layout{}, false
	}
}

// Type is a sealed interface over IR types.
// Only IntTy, BoolTy, PtrTy, TupleTy, ArrayTy, UnionTy and EnumTy implement it.
type Type interface {
	irType()
}

// IntTy is an integer type.
type IntTy struct {
	IntType
}

// BoolTy is the boolean type.
type BoolTy struct{}

// PtrTy is a pointer type.
type PtrTy struct {
	Ptr PtrType
}

// Field is one field of a tuple or union, placed at a byte offset.
type Field struct {
	Offset Offset
	Ty     Type
}

// TupleTy has fields at fixed, non-overlapping offsets.
// Fields are indexed by their position in Fields; the offsets need not be sorted.
type TupleTy struct {
	Fields []Field
	Size   Size
	Align  Align
}

// ArrayTy is Count consecutive elements of Elem.
type ArrayTy struct {
	Elem  Type
	Count Int
}

// Chunk is a contiguous byte range of a union that holds data.
type Chunk struct {
	Offset Offset
	Size   Size
}

// UnionTy has possibly overlapping fields. Chunks are the byte ranges
// preserved on encode/decode.
type UnionTy struct {
	Fields []Field
	Size   Size
	Chunks []Chunk
	Align  Align
}

// Tag is one tagger entry: an integer of type Ty written at Offset.
type Tag struct {
	Ty    IntType
	Value Int
}

// Variant is one arm of an enum: its data type plus the byte pattern
// (Tagger, keyed by offset) that marks the arm as active.
type Variant struct {
	Ty     Type
	Tagger map[Offset]Tag
}

// EnumTy is a tagged union. Variants are keyed by discriminant.
type EnumTy struct {
	Variants       map[Int]Variant
	Size           Size
	Align          Align
	Discriminator  Discriminator
	DiscriminantTy IntType
}

func (IntTy) irType()   {}
func (BoolTy) irType()  {}
func (PtrTy) irType()   {}
func (TupleTy) irType() {}
func (ArrayTy) irType() {}
func (UnionTy) irType() {}
func (EnumTy) irType()  {}

// Discriminator is a decision tree recovering a discriminant from the raw
// bytes of an enum. Only Known, Invalid and Branch implement it.
type Discriminator interface {
	discriminator()
}

// Known yields a fixed discriminant.
type Known struct {
	Discriminant Int
}

// Invalid means no variant can be recovered.
type Invalid struct{}

// Range is a half-open integer range [Start, End).
type Range struct {
	Start Int
	End   Int
}

// Branch reads an integer of ValueType at Offset and continues with the
// child whose range contains it, or with Fallback.
type Branch struct {
	Offset    Offset
	ValueType IntType
	Fallback  Discriminator
	Children  map[Range]Discriminator
}

func (Known) discriminator()   {}
func (Invalid) discriminator() {}
func (Branch) discriminator()  {}

// Unit is the zero-sized tuple type.
var Unit = TupleTy{Size: 0, Align: 1}

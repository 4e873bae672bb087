package ir

// Names used to refer to program entities.
type (
	LocalName  string
	BbName     string
	FnName     string
	GlobalName string
)

// Relocation points at a byte offset inside a named global.
type Relocation struct {
	Name   GlobalName
	Offset Size
}

// Constant is a sealed interface over constant values.
type Constant interface {
	constant()
}

// IntConst is an integer constant.
type IntConst struct{ Value Int }

// BoolConst is a boolean constant.
type BoolConst struct{ Value bool }

// GlobalPointer is a pointer into a global.
type GlobalPointer struct{ Reloc Relocation }

// FnPointer is a pointer to a named function.
type FnPointer struct{ Name FnName }

// PointerWithoutProvenance is a bare address.
type PointerWithoutProvenance struct{ Addr Int }

func (IntConst) constant()                 {}
func (BoolConst) constant()                {}
func (GlobalPointer) constant()            {}
func (FnPointer) constant()                {}
func (PointerWithoutProvenance) constant() {}

// UnOp is a sealed interface over unary operators.
type UnOp interface {
	unOp()
}

// IntUnOp is an integer unary operator.
type IntUnOp int

const (
	IntNeg IntUnOp = iota
	IntBitNot
)

// BoolUnOp is a boolean unary operator.
type BoolUnOp int

const (
	BoolNot BoolUnOp = iota
)

// IntToInt converts between integer types.
type IntToInt struct{ To IntType }

// BoolToInt converts a boolean to an integer type.
type BoolToInt struct{ To IntType }

// Transmute reinterprets the operand's bytes at another type. Bit validity
// is only checked when the value is decoded.
type Transmute struct{ To Type }

func (IntUnOp) unOp()   {}
func (BoolUnOp) unOp()  {}
func (IntToInt) unOp()  {}
func (BoolToInt) unOp() {}
func (Transmute) unOp() {}

// BinOp is a sealed interface over binary operators.
type BinOp interface {
	binOp()
}

// IntBinOp is an integer arithmetic or bitwise operator.
type IntBinOp int

const (
	IntAdd IntBinOp = iota
	IntSub
	IntMul
	IntDiv
	IntRem
	IntShl
	IntShr
	IntBitAnd
	IntBitOr
	IntBitXor
)

var intBinOpNames = [...]string{"Add", "Sub", "Mul", "Div", "Rem", "Shl", "Shr", "BitAnd", "BitOr", "BitXor"}

func (op IntBinOp) String() string {
	if op >= 0 && int(op) < len(intBinOpNames) {
		return intBinOpNames[op]
	}
	return "IntBinOp(?)"
}

// IntRel is an integer comparison yielding a boolean.
type IntRel int

const (
	IntLt IntRel = iota
	IntLe
	IntGt
	IntGe
	IntEq
	IntNe
)

// BoolBinOp is a boolean binary operator.
type BoolBinOp int

const (
	BoolBitAnd BoolBinOp = iota
	BoolBitOr
	BoolBitXor
)

// PtrOffset offsets a pointer by an integer number of bytes.
type PtrOffset struct{ Inbounds bool }

func (IntBinOp) binOp()  {}
func (IntRel) binOp()    {}
func (BoolBinOp) binOp() {}
func (PtrOffset) binOp() {}

// ValueExpr is a sealed interface over expressions that compute a value.
type ValueExpr interface {
	valueExpr()
}

// ConstExpr is a constant of a declared type.
type ConstExpr struct {
	Value Constant
	Ty    Type
}

// TupleExpr builds a tuple or an array from its components.
type TupleExpr struct {
	Elems []ValueExpr
	Ty    Type
}

// UnionExpr builds a union with one field initialised.
type UnionExpr struct {
	Field int
	Expr  ValueExpr
	Ty    Type
}

// VariantExpr builds an enum value of the given discriminant.
type VariantExpr struct {
	Discriminant Int
	Data         ValueExpr
	Ty           Type
}

// GetDiscriminant reads the discriminant of an enum place.
type GetDiscriminant struct {
	Place PlaceExpr
}

// Load reads the value stored at a place.
type Load struct {
	Source PlaceExpr
}

// AddrOf takes the address of a place as a pointer of type PtrTy.
type AddrOf struct {
	Target PlaceExpr
	PtrTy  PtrType
}

// UnOpExpr applies a unary operator.
type UnOpExpr struct {
	Op      UnOp
	Operand ValueExpr
}

// BinOpExpr applies a binary operator.
type BinOpExpr struct {
	Op    BinOp
	Left  ValueExpr
	Right ValueExpr
}

func (ConstExpr) valueExpr()       {}
func (TupleExpr) valueExpr()       {}
func (UnionExpr) valueExpr()       {}
func (VariantExpr) valueExpr()     {}
func (GetDiscriminant) valueExpr() {}
func (Load) valueExpr()            {}
func (AddrOf) valueExpr()          {}
func (UnOpExpr) valueExpr()        {}
func (BinOpExpr) valueExpr()       {}

// PlaceExpr is a sealed interface over expressions that denote a place in memory.
type PlaceExpr interface {
	placeExpr()
}

// LocalPlace names a local variable.
type LocalPlace struct {
	Name LocalName
}

// DerefPlace dereferences a pointer value, viewing the pointee at Ty.
type DerefPlace struct {
	Operand ValueExpr
	Ty      Type
}

// FieldPlace projects to a field of a tuple or union.
type FieldPlace struct {
	Root  PlaceExpr
	Field int
}

// IndexPlace projects to an element of an array.
type IndexPlace struct {
	Root  PlaceExpr
	Index ValueExpr
}

// DowncastPlace projects an enum to the data of one of its variants.
type DowncastPlace struct {
	Root         PlaceExpr
	Discriminant Int
}

func (LocalPlace) placeExpr()    {}
func (DerefPlace) placeExpr()    {}
func (FieldPlace) placeExpr()    {}
func (IndexPlace) placeExpr()    {}
func (DowncastPlace) placeExpr() {}

// ArgumentExpr is a sealed interface over call arguments.
type ArgumentExpr interface {
	argumentExpr()
}

// ByValue passes a computed value.
type ByValue struct{ Value ValueExpr }

// InPlace passes a place without copying it.
type InPlace struct{ Place PlaceExpr }

func (ByValue) argumentExpr() {}
func (InPlace) argumentExpr() {}

package ir

// Statement is a sealed interface over basic-block statements.
type Statement interface {
	statement()
}

// Assign stores the value of Source into Dest.
type Assign struct {
	Dest   PlaceExpr
	Source ValueExpr
}

// SetDiscriminant writes the tagger of the given discriminant into an enum place.
type SetDiscriminant struct {
	Dest  PlaceExpr
	Value Int
}

// Validate asserts that the value at a place is valid for its type.
type Validate struct {
	Place   PlaceExpr
	FnEntry bool
}

// Deinit de-initializes the bytes of a place.
type Deinit struct {
	Place PlaceExpr
}

// StorageLive starts the lifetime of a local.
type StorageLive struct {
	Local LocalName
}

// StorageDead ends the lifetime of a local.
type StorageDead struct {
	Local LocalName
}

func (Assign) statement()          {}
func (SetDiscriminant) statement() {}
func (Validate) statement()        {}
func (Deinit) statement()          {}
func (StorageLive) statement()     {}
func (StorageDead) statement()     {}

// LockOp is an operation on a runtime lock.
type LockOp int

const (
	LockCreate LockOp = iota
	LockAcquire
	LockRelease
)

// IntrinsicOp is a sealed interface over intrinsic operations.
type IntrinsicOp interface {
	intrinsicOp()
}

// BasicIntrinsic is an intrinsic without parameters.
type BasicIntrinsic int

const (
	IntrinsicExit BasicIntrinsic = iota
	IntrinsicPrintStdout
	IntrinsicPrintStderr
	IntrinsicAllocate
	IntrinsicDeallocate
	IntrinsicSpawn
	IntrinsicJoin
	IntrinsicAtomicStore
	IntrinsicAtomicLoad
	IntrinsicAtomicCompareExchange
	IntrinsicAssume
	IntrinsicPointerExposeProvenance
	IntrinsicPointerWithExposedProvenance
)

// AtomicFetchAndOp atomically applies Op to an integer behind a pointer and
// returns the previous value.
type AtomicFetchAndOp struct {
	Op IntBinOp
}

// LockIntrinsic operates on a runtime lock.
type LockIntrinsic struct {
	Op LockOp
}

func (BasicIntrinsic) intrinsicOp()   {}
func (AtomicFetchAndOp) intrinsicOp() {}
func (LockIntrinsic) intrinsicOp()    {}

// Terminator is a sealed interface over block terminators.
type Terminator interface {
	terminator()
}

// Goto jumps unconditionally.
type Goto struct {
	Target BbName
}

// Switch jumps to the case matching Value, or to Fallback.
type Switch struct {
	Value    ValueExpr
	Cases    map[Int]BbName
	Fallback BbName
}

// Unreachable marks code that must never execute.
type Unreachable struct{}

// Call invokes a function pointer. A nil Next means the call never returns.
type Call struct {
	Callee ValueExpr
	Args   []ArgumentExpr
	Ret    PlaceExpr
	Next   *BbName
}

// Intrinsic invokes a built-in operation. A nil Next means it never returns.
type Intrinsic struct {
	Op   IntrinsicOp
	Args []ValueExpr
	Ret  PlaceExpr
	Next *BbName
}

// Return leaves the current function.
type Return struct{}

func (Goto) terminator()        {}
func (Switch) terminator()      {}
func (Unreachable) terminator() {}
func (Call) terminator()        {}
func (Intrinsic) terminator()   {}
func (Return) terminator()      {}

// Next is a helper for the optional continuation of Call and Intrinsic.
func Next(b BbName) *BbName {
	return &b
}

// BasicBlock is a straight-line statement list ended by a terminator.
type BasicBlock struct {
	Statements []Statement
	Terminator Terminator
}

// Function is a body of basic blocks over a table of typed locals.
type Function struct {
	Locals            map[LocalName]Type
	Args              []LocalName
	Ret               LocalName
	Start             BbName
	Blocks            map[BbName]BasicBlock
	CallingConvention CallingConvention
}

// Global is a named byte blob with pointers into other globals.
type Global struct {
	Bytes       []byte
	Relocations map[Offset]Relocation
	Align       Align
}

// Program is a set of functions and globals with a designated start function.
type Program struct {
	Functions map[FnName]Function
	Globals   map[GlobalName]Global
	Start     FnName
}

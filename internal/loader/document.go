package loader

// The document types mirror the IR one-to-one but use lists instead of maps
// and a "kind" tag on every closed variant. They decode from JSON (after CUE
// evaluation) and from YAML with the same field names.
//
// Every optional field is omitempty so that re-encoding a document never
// produces null, which keeps program hashes well-defined.

// ProgramDoc is the root of a program document.
type ProgramDoc struct {
	Start     string        `json:"start" yaml:"start"`
	Functions []FunctionDoc `json:"functions" yaml:"functions"`
	Globals   []GlobalDoc   `json:"globals,omitempty" yaml:"globals,omitempty"`
}

// FunctionDoc is a named function.
type FunctionDoc struct {
	Name              string     `json:"name" yaml:"name"`
	CallingConvention string     `json:"calling_convention,omitempty" yaml:"calling_convention,omitempty"`
	Locals            []LocalDoc `json:"locals,omitempty" yaml:"locals,omitempty"`
	Args              []string   `json:"args,omitempty" yaml:"args,omitempty"`
	Ret               string     `json:"ret" yaml:"ret"`
	Start             string     `json:"start" yaml:"start"`
	Blocks            []BlockDoc `json:"blocks" yaml:"blocks"`
}

// LocalDoc declares a local variable.
type LocalDoc struct {
	Name string   `json:"name" yaml:"name"`
	Type *TypeDoc `json:"type" yaml:"type"`
}

// BlockDoc is a named basic block.
type BlockDoc struct {
	Name       string         `json:"name" yaml:"name"`
	Statements []StatementDoc `json:"statements,omitempty" yaml:"statements,omitempty"`
	Terminator *TerminatorDoc `json:"terminator" yaml:"terminator"`
}

// GlobalDoc is a named global. Bytes are hex encoded.
type GlobalDoc struct {
	Name        string          `json:"name" yaml:"name"`
	Bytes       string          `json:"bytes,omitempty" yaml:"bytes,omitempty"`
	Align       IntLit          `json:"align" yaml:"align"`
	Relocations []RelocationDoc `json:"relocations,omitempty" yaml:"relocations,omitempty"`
}

// RelocationDoc places a pointer to Global+TargetOffset at Offset.
type RelocationDoc struct {
	Offset       IntLit `json:"offset" yaml:"offset"`
	Global       string `json:"global" yaml:"global"`
	TargetOffset IntLit `json:"target_offset" yaml:"target_offset"`
}

// IntTypeDoc is an integer type.
type IntTypeDoc struct {
	Signed bool   `json:"signed,omitempty" yaml:"signed,omitempty"`
	Size   IntLit `json:"size" yaml:"size"`
}

// LayoutDoc is a pointee layout.
type LayoutDoc struct {
	Size  IntLit `json:"size" yaml:"size"`
	Align IntLit `json:"align" yaml:"align"`
}

// PtrDoc is a pointer type: "ref", "box", "raw" or "fn".
type PtrDoc struct {
	Kind    string     `json:"kind" yaml:"kind"`
	Pointee *LayoutDoc `json:"pointee,omitempty" yaml:"pointee,omitempty"`
	Mutable bool       `json:"mutable,omitempty" yaml:"mutable,omitempty"`
}

// FieldDoc is a field of a tuple or union.
type FieldDoc struct {
	Offset IntLit   `json:"offset" yaml:"offset"`
	Type   *TypeDoc `json:"type" yaml:"type"`
}

// ChunkDoc is a byte range of a union.
type ChunkDoc struct {
	Offset IntLit `json:"offset" yaml:"offset"`
	Size   IntLit `json:"size" yaml:"size"`
}

// TagDoc is one tagger entry of a variant.
type TagDoc struct {
	Offset IntLit     `json:"offset" yaml:"offset"`
	Type   IntTypeDoc `json:"type" yaml:"type"`
	Value  IntLit     `json:"value" yaml:"value"`
}

// VariantDoc is an enum variant.
type VariantDoc struct {
	Discriminant IntLit   `json:"discriminant" yaml:"discriminant"`
	Type         *TypeDoc `json:"type" yaml:"type"`
	Tagger       []TagDoc `json:"tagger,omitempty" yaml:"tagger,omitempty"`
}

// TypeDoc is a type: "int", "bool", "ptr", "tuple", "array", "union" or "enum".
type TypeDoc struct {
	Kind string `json:"kind" yaml:"kind"`

	// int
	Signed bool `json:"signed,omitempty" yaml:"signed,omitempty"`

	// int, tuple, union, enum
	Size  *IntLit `json:"size,omitempty" yaml:"size,omitempty"`
	Align *IntLit `json:"align,omitempty" yaml:"align,omitempty"`

	// ptr
	Ptr *PtrDoc `json:"ptr,omitempty" yaml:"ptr,omitempty"`

	// tuple, union
	Fields []FieldDoc `json:"fields,omitempty" yaml:"fields,omitempty"`
	Chunks []ChunkDoc `json:"chunks,omitempty" yaml:"chunks,omitempty"`

	// array
	Elem  *TypeDoc `json:"elem,omitempty" yaml:"elem,omitempty"`
	Count *IntLit  `json:"count,omitempty" yaml:"count,omitempty"`

	// enum
	Variants         []VariantDoc      `json:"variants,omitempty" yaml:"variants,omitempty"`
	Discriminator    *DiscriminatorDoc `json:"discriminator,omitempty" yaml:"discriminator,omitempty"`
	DiscriminantType *IntTypeDoc       `json:"discriminant_type,omitempty" yaml:"discriminant_type,omitempty"`
}

// DiscriminatorDoc is a discriminator: "known", "invalid" or "branch".
type DiscriminatorDoc struct {
	Kind         string            `json:"kind" yaml:"kind"`
	Discriminant *IntLit           `json:"discriminant,omitempty" yaml:"discriminant,omitempty"`
	Offset       *IntLit           `json:"offset,omitempty" yaml:"offset,omitempty"`
	ValueType    *IntTypeDoc       `json:"value_type,omitempty" yaml:"value_type,omitempty"`
	Fallback     *DiscriminatorDoc `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	Children     []BranchChildDoc  `json:"children,omitempty" yaml:"children,omitempty"`
}

// BranchChildDoc maps the half-open range [Start, End) to a sub-discriminator.
type BranchChildDoc struct {
	Start IntLit            `json:"start" yaml:"start"`
	End   IntLit            `json:"end" yaml:"end"`
	Then  *DiscriminatorDoc `json:"then" yaml:"then"`
}

// ConstDoc is a constant: "int", "bool", "global", "fn" or "addr".
type ConstDoc struct {
	Kind   string  `json:"kind" yaml:"kind"`
	Int    *IntLit `json:"int,omitempty" yaml:"int,omitempty"`
	Bool   bool    `json:"bool,omitempty" yaml:"bool,omitempty"`
	Global string  `json:"global,omitempty" yaml:"global,omitempty"`
	Offset *IntLit `json:"offset,omitempty" yaml:"offset,omitempty"`
	Fn     string  `json:"fn,omitempty" yaml:"fn,omitempty"`
}

// ValueDoc is a value expression: "const", "tuple", "union", "variant",
// "get_discriminant", "load", "addr_of", "unop" or "binop".
type ValueDoc struct {
	Kind string `json:"kind" yaml:"kind"`

	Const *ConstDoc `json:"const,omitempty" yaml:"const,omitempty"`
	Type  *TypeDoc  `json:"type,omitempty" yaml:"type,omitempty"`

	// tuple
	Elems []ValueDoc `json:"elems,omitempty" yaml:"elems,omitempty"`

	// union
	Field int       `json:"field,omitempty" yaml:"field,omitempty"`
	Expr  *ValueDoc `json:"expr,omitempty" yaml:"expr,omitempty"`

	// variant
	Discriminant *IntLit   `json:"discriminant,omitempty" yaml:"discriminant,omitempty"`
	Data         *ValueDoc `json:"data,omitempty" yaml:"data,omitempty"`

	// get_discriminant, load, addr_of
	Place   *PlaceDoc `json:"place,omitempty" yaml:"place,omitempty"`
	PtrType *PtrDoc   `json:"ptr_type,omitempty" yaml:"ptr_type,omitempty"`

	// unop, binop
	Op      string      `json:"op,omitempty" yaml:"op,omitempty"`
	IntType *IntTypeDoc `json:"int_type,omitempty" yaml:"int_type,omitempty"`
	Operand *ValueDoc   `json:"operand,omitempty" yaml:"operand,omitempty"`
	Left    *ValueDoc   `json:"left,omitempty" yaml:"left,omitempty"`
	Right   *ValueDoc   `json:"right,omitempty" yaml:"right,omitempty"`
}

// PlaceDoc is a place expression: "local", "deref", "field", "index" or "downcast".
type PlaceDoc struct {
	Kind         string    `json:"kind" yaml:"kind"`
	Name         string    `json:"name,omitempty" yaml:"name,omitempty"`
	Operand      *ValueDoc `json:"operand,omitempty" yaml:"operand,omitempty"`
	Type         *TypeDoc  `json:"type,omitempty" yaml:"type,omitempty"`
	Root         *PlaceDoc `json:"root,omitempty" yaml:"root,omitempty"`
	Field        int       `json:"field,omitempty" yaml:"field,omitempty"`
	Index        *ValueDoc `json:"index,omitempty" yaml:"index,omitempty"`
	Discriminant *IntLit   `json:"discriminant,omitempty" yaml:"discriminant,omitempty"`
}

// ArgumentDoc is a call argument: "by_value" or "in_place".
type ArgumentDoc struct {
	Kind  string    `json:"kind" yaml:"kind"`
	Value *ValueDoc `json:"value,omitempty" yaml:"value,omitempty"`
	Place *PlaceDoc `json:"place,omitempty" yaml:"place,omitempty"`
}

// StatementDoc is a statement: "assign", "set_discriminant", "validate",
// "deinit", "storage_live" or "storage_dead".
type StatementDoc struct {
	Kind    string    `json:"kind" yaml:"kind"`
	Dest    *PlaceDoc `json:"dest,omitempty" yaml:"dest,omitempty"`
	Source  *ValueDoc `json:"source,omitempty" yaml:"source,omitempty"`
	Value   *IntLit   `json:"value,omitempty" yaml:"value,omitempty"`
	Place   *PlaceDoc `json:"place,omitempty" yaml:"place,omitempty"`
	FnEntry bool      `json:"fn_entry,omitempty" yaml:"fn_entry,omitempty"`
	Local   string    `json:"local,omitempty" yaml:"local,omitempty"`
}

// CaseDoc is one switch case.
type CaseDoc struct {
	Value  IntLit `json:"value" yaml:"value"`
	Target string `json:"target" yaml:"target"`
}

// TerminatorDoc is a terminator: "goto", "switch", "unreachable", "call",
// "intrinsic" or "return".
type TerminatorDoc struct {
	Kind   string `json:"kind" yaml:"kind"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`

	// switch
	Value    *ValueDoc `json:"value,omitempty" yaml:"value,omitempty"`
	Cases    []CaseDoc `json:"cases,omitempty" yaml:"cases,omitempty"`
	Fallback string    `json:"fallback,omitempty" yaml:"fallback,omitempty"`

	// call, intrinsic
	Callee    *ValueDoc     `json:"callee,omitempty" yaml:"callee,omitempty"`
	Args      []ArgumentDoc `json:"args,omitempty" yaml:"args,omitempty"`
	Intrinsic string        `json:"intrinsic,omitempty" yaml:"intrinsic,omitempty"`
	Op        string        `json:"op,omitempty" yaml:"op,omitempty"`
	Operands  []ValueDoc    `json:"operands,omitempty" yaml:"operands,omitempty"`
	Ret       *PlaceDoc     `json:"ret,omitempty" yaml:"ret,omitempty"`
	Next      string        `json:"next,omitempty" yaml:"next,omitempty"`
}

package loader

import (
	"encoding/hex"

	"github.com/roach88/minicheck/internal/ir"
)

// Decode converts a program document into the IR.
//
// Decode checks only what the IR cannot represent: unknown kinds, missing
// fields, duplicate names and keys, and integers that do not fit their
// fields. Everything else is left to the verifier.
func Decode(doc *ProgramDoc) (*ir.Program, error) {
	prog := &ir.Program{
		Functions: make(map[ir.FnName]ir.Function, len(doc.Functions)),
		Globals:   make(map[ir.GlobalName]ir.Global, len(doc.Globals)),
		Start:     ir.FnName(doc.Start),
	}
	if doc.Start == "" {
		return nil, loadErr(ErrCodeMissingField, "program start is required")
	}

	for i := range doc.Functions {
		fd := &doc.Functions[i]
		name := ir.FnName(fd.Name)
		if _, dup := prog.Functions[name]; dup {
			return nil, within(loadErr(ErrCodeDuplicate, "function %q declared twice", fd.Name), "functions[%s]", fd.Name)
		}
		fn, err := decodeFunction(fd)
		if err != nil {
			return nil, within(err, "functions[%s]", fd.Name)
		}
		prog.Functions[name] = fn
	}

	for i := range doc.Globals {
		gd := &doc.Globals[i]
		name := ir.GlobalName(gd.Name)
		if _, dup := prog.Globals[name]; dup {
			return nil, within(loadErr(ErrCodeDuplicate, "global %q declared twice", gd.Name), "globals[%s]", gd.Name)
		}
		g, err := decodeGlobal(gd)
		if err != nil {
			return nil, within(err, "globals[%s]", gd.Name)
		}
		prog.Globals[name] = g
	}
	return prog, nil
}

func decodeFunction(fd *FunctionDoc) (ir.Function, error) {
	fn := ir.Function{
		Locals: make(map[ir.LocalName]ir.Type, len(fd.Locals)),
		Ret:    ir.LocalName(fd.Ret),
		Start:  ir.BbName(fd.Start),
		Blocks: make(map[ir.BbName]ir.BasicBlock, len(fd.Blocks)),
	}

	switch fd.CallingConvention {
	case "", string(ir.CallingConventionC):
		fn.CallingConvention = ir.CallingConventionC
	case string(ir.CallingConventionRust):
		fn.CallingConvention = ir.CallingConventionRust
	default:
		return fn, loadErr(ErrCodeUnknownKind, "unknown calling convention %q", fd.CallingConvention)
	}

	for _, ld := range fd.Locals {
		name := ir.LocalName(ld.Name)
		if _, dup := fn.Locals[name]; dup {
			return fn, within(loadErr(ErrCodeDuplicate, "local %q declared twice", ld.Name), "locals[%s]", ld.Name)
		}
		ty, err := decodeType(ld.Type)
		if err != nil {
			return fn, within(err, "locals[%s]", ld.Name)
		}
		fn.Locals[name] = ty
	}

	for _, arg := range fd.Args {
		fn.Args = append(fn.Args, ir.LocalName(arg))
	}

	for i := range fd.Blocks {
		bd := &fd.Blocks[i]
		name := ir.BbName(bd.Name)
		if _, dup := fn.Blocks[name]; dup {
			return fn, within(loadErr(ErrCodeDuplicate, "block %q declared twice", bd.Name), "blocks[%s]", bd.Name)
		}
		block, err := decodeBlock(bd)
		if err != nil {
			return fn, within(err, "blocks[%s]", bd.Name)
		}
		fn.Blocks[name] = block
	}
	return fn, nil
}

func decodeBlock(bd *BlockDoc) (ir.BasicBlock, error) {
	var block ir.BasicBlock
	for i := range bd.Statements {
		stmt, err := decodeStatement(&bd.Statements[i])
		if err != nil {
			return block, within(err, "statements[%d]", i)
		}
		block.Statements = append(block.Statements, stmt)
	}
	term, err := decodeTerminator(bd.Terminator)
	if err != nil {
		return block, within(err, "terminator")
	}
	block.Terminator = term
	return block, nil
}

func decodeGlobal(gd *GlobalDoc) (ir.Global, error) {
	bytes, err := hex.DecodeString(gd.Bytes)
	if err != nil {
		return ir.Global{}, loadErr(ErrCodeInvalidBytes, "bytes: %v", err)
	}
	align, err := toSize(gd.Align, "align")
	if err != nil {
		return ir.Global{}, err
	}
	g := ir.Global{
		Bytes:       bytes,
		Relocations: make(map[ir.Offset]ir.Relocation, len(gd.Relocations)),
		Align:       ir.Align(align),
	}
	for _, rd := range gd.Relocations {
		offset, err := toSize(rd.Offset, "relocation offset")
		if err != nil {
			return g, err
		}
		if _, dup := g.Relocations[offset]; dup {
			return g, loadErr(ErrCodeDuplicate, "two relocations at offset %d", offset)
		}
		target, err := toSize(rd.TargetOffset, "relocation target_offset")
		if err != nil {
			return g, err
		}
		g.Relocations[offset] = ir.Relocation{Name: ir.GlobalName(rd.Global), Offset: target}
	}
	return g, nil
}

// ============================================================================
// Integers
// ============================================================================

func toSize(l IntLit, field string) (ir.Size, error) {
	v, ok := l.Uint64()
	if !ok {
		return 0, loadErr(ErrCodeInvalidInt, "%s: %s is not a valid byte count", field, l.Int)
	}
	return ir.Size(v), nil
}

func requiredSize(l *IntLit, field string) (ir.Size, error) {
	if l == nil {
		return 0, loadErr(ErrCodeMissingField, "%s is required", field)
	}
	return toSize(*l, field)
}

func requiredInt(l *IntLit, field string) (ir.Int, error) {
	if l == nil {
		return ir.Int{}, loadErr(ErrCodeMissingField, "%s is required", field)
	}
	return l.Int, nil
}

func decodeIntType(d *IntTypeDoc, field string) (ir.IntType, error) {
	if d == nil {
		return ir.IntType{}, loadErr(ErrCodeMissingField, "%s is required", field)
	}
	size, err := toSize(d.Size, field+" size")
	if err != nil {
		return ir.IntType{}, err
	}
	t := ir.IntType{Signed: ir.Unsigned, Size: size}
	if d.Signed {
		t.Signed = ir.Signed
	}
	return t, nil
}

// ============================================================================
// Types
// ============================================================================

func decodeType(d *TypeDoc) (ir.Type, error) {
	if d == nil {
		return nil, loadErr(ErrCodeMissingField, "type is required")
	}
	switch d.Kind {
	case "int":
		size, err := requiredSize(d.Size, "int size")
		if err != nil {
			return nil, err
		}
		signed := ir.Unsigned
		if d.Signed {
			signed = ir.Signed
		}
		return ir.IntTy{IntType: ir.IntType{Signed: signed, Size: size}}, nil

	case "bool":
		return ir.BoolTy{}, nil

	case "ptr":
		p, err := decodePtr(d.Ptr)
		if err != nil {
			return nil, err
		}
		return ir.PtrTy{Ptr: p}, nil

	case "tuple":
		fields, err := decodeFields(d.Fields)
		if err != nil {
			return nil, err
		}
		size, align, err := decodeSizeAlign(d)
		if err != nil {
			return nil, err
		}
		return ir.TupleTy{Fields: fields, Size: size, Align: align}, nil

	case "array":
		elem, err := decodeType(d.Elem)
		if err != nil {
			return nil, within(err, "elem")
		}
		count, err := requiredInt(d.Count, "array count")
		if err != nil {
			return nil, err
		}
		return ir.ArrayTy{Elem: elem, Count: count}, nil

	case "union":
		fields, err := decodeFields(d.Fields)
		if err != nil {
			return nil, err
		}
		size, align, err := decodeSizeAlign(d)
		if err != nil {
			return nil, err
		}
		chunks := make([]ir.Chunk, 0, len(d.Chunks))
		for _, cd := range d.Chunks {
			offset, err := toSize(cd.Offset, "chunk offset")
			if err != nil {
				return nil, err
			}
			csize, err := toSize(cd.Size, "chunk size")
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, ir.Chunk{Offset: offset, Size: csize})
		}
		return ir.UnionTy{Fields: fields, Size: size, Chunks: chunks, Align: align}, nil

	case "enum":
		return decodeEnum(d)

	default:
		return nil, loadErr(ErrCodeUnknownKind, "unknown type kind %q", d.Kind)
	}
}

func decodeSizeAlign(d *TypeDoc) (ir.Size, ir.Align, error) {
	size, err := requiredSize(d.Size, d.Kind+" size")
	if err != nil {
		return 0, 0, err
	}
	align, err := requiredSize(d.Align, d.Kind+" align")
	if err != nil {
		return 0, 0, err
	}
	return size, ir.Align(align), nil
}

func decodeFields(docs []FieldDoc) ([]ir.Field, error) {
	fields := make([]ir.Field, 0, len(docs))
	for i, fd := range docs {
		offset, err := toSize(fd.Offset, "field offset")
		if err != nil {
			return nil, within(err, "fields[%d]", i)
		}
		ty, err := decodeType(fd.Type)
		if err != nil {
			return nil, within(err, "fields[%d]", i)
		}
		fields = append(fields, ir.Field{Offset: offset, Ty: ty})
	}
	return fields, nil
}

func decodePtr(d *PtrDoc) (ir.PtrType, error) {
	if d == nil {
		return nil, loadErr(ErrCodeMissingField, "ptr is required")
	}
	switch d.Kind {
	case "ref", "box":
		if d.Pointee == nil {
			return nil, loadErr(ErrCodeMissingField, "%s pointee is required", d.Kind)
		}
		size, err := toSize(d.Pointee.Size, "pointee size")
		if err != nil {
			return nil, err
		}
		align, err := toSize(d.Pointee.Align, "pointee align")
		if err != nil {
			return nil, err
		}
		layout := ir.Layout{Size: size, Align: ir.Align(align)}
		if d.Kind == "ref" {
			return ir.RefPtr{Pointee: layout, Mutable: d.Mutable}, nil
		}
		return ir.BoxPtr{Pointee: layout}, nil
	case "raw":
		return ir.RawPtr{}, nil
	case "fn":
		return ir.FnPtr{Sig: ir.FnSig{CallingConvention: ir.CallingConventionC}}, nil
	default:
		return nil, loadErr(ErrCodeUnknownKind, "unknown pointer kind %q", d.Kind)
	}
}

func decodeEnum(d *TypeDoc) (ir.Type, error) {
	size, align, err := decodeSizeAlign(d)
	if err != nil {
		return nil, err
	}
	discTy, err := decodeIntType(d.DiscriminantType, "discriminant_type")
	if err != nil {
		return nil, err
	}

	variants := make(map[ir.Int]ir.Variant, len(d.Variants))
	for _, vd := range d.Variants {
		if _, dup := variants[vd.Discriminant.Int]; dup {
			return nil, loadErr(ErrCodeDuplicate, "discriminant %s declared twice", vd.Discriminant.Int)
		}
		ty, err := decodeType(vd.Type)
		if err != nil {
			return nil, within(err, "variants[%s]", vd.Discriminant.Int)
		}
		tagger := make(map[ir.Offset]ir.Tag, len(vd.Tagger))
		for _, td := range vd.Tagger {
			offset, err := toSize(td.Offset, "tagger offset")
			if err != nil {
				return nil, within(err, "variants[%s]", vd.Discriminant.Int)
			}
			if _, dup := tagger[offset]; dup {
				return nil, within(loadErr(ErrCodeDuplicate, "two tagger entries at offset %d", offset),
					"variants[%s]", vd.Discriminant.Int)
			}
			tt, err := decodeIntType(&td.Type, "tagger type")
			if err != nil {
				return nil, within(err, "variants[%s]", vd.Discriminant.Int)
			}
			tagger[offset] = ir.Tag{Ty: tt, Value: td.Value.Int}
		}
		variants[vd.Discriminant.Int] = ir.Variant{Ty: ty, Tagger: tagger}
	}

	disc, err := decodeDiscriminator(d.Discriminator)
	if err != nil {
		return nil, within(err, "discriminator")
	}
	return ir.EnumTy{
		Variants:       variants,
		Size:           size,
		Align:          align,
		Discriminator:  disc,
		DiscriminantTy: discTy,
	}, nil
}

func decodeDiscriminator(d *DiscriminatorDoc) (ir.Discriminator, error) {
	if d == nil {
		return nil, loadErr(ErrCodeMissingField, "discriminator is required")
	}
	switch d.Kind {
	case "known":
		v, err := requiredInt(d.Discriminant, "known discriminant")
		if err != nil {
			return nil, err
		}
		return ir.Known{Discriminant: v}, nil
	case "invalid":
		return ir.Invalid{}, nil
	case "branch":
		offset, err := requiredSize(d.Offset, "branch offset")
		if err != nil {
			return nil, err
		}
		vt, err := decodeIntType(d.ValueType, "value_type")
		if err != nil {
			return nil, err
		}
		fallback, err := decodeDiscriminator(d.Fallback)
		if err != nil {
			return nil, within(err, "fallback")
		}
		children := make(map[ir.Range]ir.Discriminator, len(d.Children))
		for _, cd := range d.Children {
			r := ir.Range{Start: cd.Start.Int, End: cd.End.Int}
			if _, dup := children[r]; dup {
				return nil, loadErr(ErrCodeDuplicate, "range [%s, %s) declared twice", r.Start, r.End)
			}
			child, err := decodeDiscriminator(cd.Then)
			if err != nil {
				return nil, within(err, "children[%s..%s]", r.Start, r.End)
			}
			children[r] = child
		}
		return ir.Branch{Offset: offset, ValueType: vt, Fallback: fallback, Children: children}, nil
	default:
		return nil, loadErr(ErrCodeUnknownKind, "unknown discriminator kind %q", d.Kind)
	}
}

package verifier

import (
	"github.com/roach88/minicheck/internal/ir"
)

// successors lists the blocks a terminator may transfer control to, in a
// deterministic order. It performs no checking.
func successors(t ir.Terminator) []ir.BbName {
	switch t := t.(type) {
	case ir.Goto:
		return []ir.BbName{t.Target}
	case ir.Switch:
		out := make([]ir.BbName, 0, len(t.Cases)+1)
		for _, k := range ir.SortedInts(t.Cases) {
			out = append(out, t.Cases[k])
		}
		return append(out, t.Fallback)
	case ir.Call:
		return optional(t.Next)
	case ir.Intrinsic:
		return optional(t.Next)
	default:
		return nil
	}
}

func optional(b *ir.BbName) []ir.BbName {
	if b == nil {
		return nil
	}
	return []ir.BbName{*b}
}

// checkTerminator validates a terminator against the liveness set at the end
// of its block and returns its successors.
func (c *checker) checkTerminator(t ir.Terminator, live Locals) ([]ir.BbName, error) {
	switch t := t.(type) {
	case ir.Goto, ir.Unreachable, ir.Return:
		// Initialization of the return value is a runtime property.

	case ir.Switch:
		ty, err := c.checkValueExpr(t.Value, live)
		if err != nil {
			return nil, err
		}
		it, ok := ty.(ir.IntTy)
		if !ok {
			return nil, illFormed(KindTerminator, "Terminator::Switch: switch is not Int")
		}
		for _, k := range ir.SortedInts(t.Cases) {
			if !it.CanRepresent(k) {
				return nil, illFormed(KindTerminator, "Terminator::Switch: value does not fit switch type")
			}
		}

	case ir.Call:
		ty, err := c.checkValueExpr(t.Callee, live)
		if err != nil {
			return nil, at(err, "callee")
		}
		p, ok := ty.(ir.PtrTy)
		if !ok {
			return nil, illFormed(KindTerminator, "Terminator::Call: invalid type")
		}
		if _, ok := p.Ptr.(ir.FnPtr); !ok {
			return nil, illFormed(KindTerminator, "Terminator::Call: invalid type")
		}
		if _, err := c.checkPlaceExpr(t.Ret, live); err != nil {
			return nil, at(err, "return place")
		}
		// Argument and return types are not matched against the callee signature.
		for i, arg := range t.Args {
			if _, err := c.checkArgumentExpr(arg, live); err != nil {
				return nil, at(err, "argument %d", i)
			}
		}

	case ir.Intrinsic:
		if f, ok := t.Op.(ir.AtomicFetchAndOp); ok && f.Op != ir.IntAdd && f.Op != ir.IntSub {
			return nil, illFormed(KindTerminator, "Terminator::Intrinsic: AtomicFetchAndOp only supports Add and Sub")
		}
		if _, err := c.checkPlaceExpr(t.Ret, live); err != nil {
			return nil, at(err, "return place")
		}
		for i, arg := range t.Args {
			if _, err := c.checkValueExpr(arg, live); err != nil {
				return nil, at(err, "argument %d", i)
			}
		}

	default:
		return nil, illFormed(KindTerminator, "Terminator: unsupported terminator %T", t)
	}
	return successors(t), nil
}

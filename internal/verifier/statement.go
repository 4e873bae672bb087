package verifier

import (
	"slices"

	"github.com/roach88/minicheck/internal/ir"
)

// checkStatement validates one statement and returns the liveness set after it.
// The input set is never mutated.
func (c *checker) checkStatement(s ir.Statement, live Locals, fn *ir.Function) (Locals, error) {
	switch s := s.(type) {
	case ir.Assign:
		dest, err := c.checkPlaceExpr(s.Dest, live)
		if err != nil {
			return nil, err
		}
		src, err := c.checkValueExpr(s.Source, live)
		if err != nil {
			return nil, err
		}
		if !ir.TypeEqual(dest, src) {
			return nil, illFormed(KindStatement, "Statement::Assign: destination and source type differ")
		}
		return live, nil

	case ir.SetDiscriminant:
		dest, err := c.checkPlaceExpr(s.Dest, live)
		if err != nil {
			return nil, err
		}
		t, ok := dest.(ir.EnumTy)
		if !ok {
			return nil, illFormed(KindStatement, "Statement::SetDiscriminant: invalid type")
		}
		// The discriminator need not map back to the written value.
		if _, ok := t.Variants[s.Value]; !ok {
			return nil, illFormed(KindStatement, "Statement::SetDiscriminant: invalid discriminant write")
		}
		return live, nil

	case ir.Validate:
		if _, err := c.checkPlaceExpr(s.Place, live); err != nil {
			return nil, err
		}
		return live, nil

	case ir.Deinit:
		if _, err := c.checkPlaceExpr(s.Place, live); err != nil {
			return nil, err
		}
		return live, nil

	case ir.StorageLive:
		ty, ok := fn.Locals[s.Local]
		if !ok {
			return nil, illFormed(KindStatement, "Statement::StorageLive: invalid local variable")
		}
		if _, ok := live[s.Local]; ok {
			return nil, illFormed(KindStatement, "Statement::StorageLive: local already live")
		}
		next := live.clone()
		next[s.Local] = ty
		return next, nil

	case ir.StorageDead:
		if s.Local == fn.Ret || slices.Contains(fn.Args, s.Local) {
			return nil, illFormed(KindStatement, "Statement::StorageDead: trying to mark argument or return local as dead")
		}
		if _, ok := live[s.Local]; !ok {
			return nil, illFormed(KindStatement, "Statement::StorageDead: local already dead")
		}
		next := live.clone()
		delete(next, s.Local)
		return next, nil

	default:
		return nil, illFormed(KindStatement, "Statement: unsupported statement %T", s)
	}
}

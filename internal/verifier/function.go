package verifier

import (
	"github.com/roach88/minicheck/internal/ir"
)

// checkFunction validates a function: local types, the entry liveness set and
// a worklist pass over the block graph.
//
// Every block has exactly one entry liveness set. The first edge that reaches
// a block records it; every later edge must produce the same set. Because sets
// are never merged, each block is replayed at most once and cycles need no
// widening.
func (c *checker) checkFunction(name ir.FnName, fn *ir.Function) error {
	for _, local := range ir.SortedKeys(fn.Locals) {
		if err := c.checkType(fn.Locals[local]); err != nil {
			return at(err, "local %s", local)
		}
	}

	start := make(Locals, len(fn.Args)+1)
	for _, local := range append([]ir.LocalName{fn.Ret}, fn.Args...) {
		ty, ok := fn.Locals[local]
		if !ok {
			return illFormed(KindFunction, "Function: argument or return local does not exist")
		}
		if _, dup := start[local]; dup {
			return illFormed(KindFunction, "Function: argument or return local is declared twice")
		}
		start[local] = ty
	}

	entry := map[ir.BbName]Locals{fn.Start: start}
	worklist := []ir.BbName{fn.Start}
	for len(worklist) > 0 {
		name := worklist[0]
		worklist = worklist[1:]

		block, ok := fn.Blocks[name]
		if !ok {
			return illFormed(KindFunction, "Function: non-existing block %q", name)
		}
		live, succ, err := c.checkBlock(&block, entry[name], fn)
		if err != nil {
			return at(err, "block %s", name)
		}

		for _, next := range succ {
			if prev, seen := entry[next]; seen {
				if !prev.sameKeys(live) {
					return at(illFormed(KindFunctionLiveness,
						"Function: two different ways to reach a block with different live locals"),
						"block %s", next)
				}
				continue
			}
			entry[next] = live
			worklist = append(worklist, next)
		}
	}

	for _, block := range ir.SortedKeys(fn.Blocks) {
		if _, ok := entry[block]; !ok {
			return at(illFormed(KindFunctionReachability, "Function: unreachable basic block"), "block %s", block)
		}
	}

	c.logger.Debug("function checked", "function", name, "blocks", len(fn.Blocks), "locals", len(fn.Locals))
	return nil
}

// checkBlock replays the statements of a block, checks its terminator and
// returns the exit liveness set together with the successors.
func (c *checker) checkBlock(block *ir.BasicBlock, live Locals, fn *ir.Function) (Locals, []ir.BbName, error) {
	var err error
	for i, stmt := range block.Statements {
		live, err = c.checkStatement(stmt, live, fn)
		if err != nil {
			return nil, nil, at(err, "statement %d", i)
		}
	}
	succ, err := c.checkTerminator(block.Terminator, live)
	if err != nil {
		return nil, nil, at(err, "terminator")
	}
	return live, succ, nil
}

package verifier

import (
	"github.com/roach88/minicheck/internal/ir"
)

func (c *checker) checkProgram() error {
	if err := c.checkEntry(); err != nil {
		return err
	}

	for _, name := range ir.SortedKeys(c.prog.Functions) {
		fn := c.prog.Functions[name]
		if err := c.checkFunction(name, &fn); err != nil {
			return at(err, "function %s", name)
		}
	}

	for _, name := range ir.SortedKeys(c.prog.Globals) {
		if err := c.checkGlobal(c.prog.Globals[name]); err != nil {
			return at(err, "global %s", name)
		}
	}
	return nil
}

// checkEntry validates the shape of the start function.
func (c *checker) checkEntry() error {
	start, ok := c.prog.Functions[c.prog.Start]
	if !ok {
		return illFormed(KindProgramEntry, "Program: start function does not exist")
	}
	if start.CallingConvention != ir.CallingConventionC {
		return illFormed(KindProgramEntry, "Program: start function has invalid calling convention")
	}
	if len(start.Args) != 0 {
		return illFormed(KindProgramEntry, "Program: start function has arguments")
	}

	ret, ok := start.Locals[start.Ret]
	if !ok {
		return illFormed(KindProgramEntry, "Program: start function return local does not exist")
	}
	size, ok := c.sizeOf(ret)
	if !ok || size != 0 || c.alignOf(ret) != 1 {
		return illFormed(KindProgramEntry, "Program: start function return local has invalid layout")
	}
	return nil
}

func (c *checker) checkGlobal(g ir.Global) error {
	length := uint64(len(g.Bytes))
	for _, offset := range ir.SortedKeys(g.Relocations) {
		end, ok := addSize(offset, c.target.PtrSize())
		if !ok || uint64(end) > length {
			return illFormed(KindProgramRelocation, "Program: invalid global pointer value")
		}
		if err := c.checkRelocation(g.Relocations[offset], KindProgramRelocation); err != nil {
			return at(err, "relocation at %d", offset)
		}
	}
	return nil
}

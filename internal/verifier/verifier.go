package verifier

import (
	"io"
	"log/slog"

	"github.com/roach88/minicheck/internal/ir"
)

// Verifier checks programs against one target configuration.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	target ir.Target
	logger *slog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets the structured logger. The default discards all records.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// New creates a Verifier for the given target.
func New(target ir.Target, opts ...Option) *Verifier {
	v := &Verifier{
		target: target,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Target returns the target the verifier checks against.
func (v *Verifier) Target() ir.Target {
	return v.target
}

// CheckProgram verifies a whole program. It returns nil if the program is
// well-formed and the first violation found otherwise.
func (v *Verifier) CheckProgram(prog *ir.Program) error {
	c := v.newChecker(prog)
	err := c.checkProgram()
	if err != nil {
		v.logger.Info("program ill-formed",
			"target", v.target.Name(),
			"kind", KindOf(err),
			"error", err,
		)
		return err
	}
	v.logger.Info("program well-formed",
		"target", v.target.Name(),
		"functions", len(prog.Functions),
		"globals", len(prog.Globals),
	)
	return nil
}

// CheckFunction verifies a single function of a program.
func (v *Verifier) CheckFunction(prog *ir.Program, name ir.FnName) error {
	fn, ok := prog.Functions[name]
	if !ok {
		return illFormed(KindFunction, "Function: %q does not exist", name)
	}
	return at(v.newChecker(prog).checkFunction(name, &fn), "function %s", name)
}

// CheckType verifies a type in isolation.
func (v *Verifier) CheckType(ty ir.Type) error {
	return v.newChecker(&ir.Program{}).checkType(ty)
}

// CheckValue reports whether a value is well-formed at an already-checked type.
func (v *Verifier) CheckValue(val ir.Value, ty ir.Type) error {
	return CheckValue(val, ty, v.target)
}

// CheckProgram verifies prog against tgt with a default Verifier.
func CheckProgram(prog *ir.Program, tgt ir.Target) error {
	return New(tgt).CheckProgram(prog)
}

// checker is the read-only context of one verification run.
type checker struct {
	target ir.Target
	prog   *ir.Program
	logger *slog.Logger
}

func (v *Verifier) newChecker(prog *ir.Program) *checker {
	return &checker{target: v.target, prog: prog, logger: v.logger}
}

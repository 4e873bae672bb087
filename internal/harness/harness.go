package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/minicheck/internal/ir"
	"github.com/roach88/minicheck/internal/loader"
	"github.com/roach88/minicheck/internal/store"
	"github.com/roach88/minicheck/internal/target"
	"github.com/roach88/minicheck/internal/verifier"
)

// Harness runs scenarios. It is safe for sequential reuse; a Harness with a
// store records a verdict for every program that loads.
type Harness struct {
	store  *store.Store
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithStore records every verdict into the given verdict log.
func WithStore(s *store.Store) Option {
	return func(h *Harness) { h.store = s }
}

// WithLogger sets the logger passed to the verifier.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a harness. Logs are discarded unless WithLogger is given.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(context.Background(), scenario)
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Resolve the target
// 2. Load the program (file or inline document)
// 3. Verify it and record the verdict if a store is configured
// 4. Compare the verdict with the expectation
//
// A returned error means the scenario itself could not run (bad target,
// store failure). Load and verification failures are verdicts, not errors.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	tgt, err := resolveTarget(scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult(scenario.Name)
	result.Target = tgt.Name()

	loaded, err := h.load(scenario)
	if err != nil {
		var le *loader.LoadError
		if !errors.As(err, &le) {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		result.Verdict = Verdict{LoadError: le.Code, Message: le.Message}
		h.finish(scenario, result)
		return result, nil
	}
	result.ProgramHash = loaded.Hash

	v := verifier.New(tgt, verifier.WithLogger(h.logger))
	checkErr := v.CheckProgram(loaded.Program)
	result.Verdict = verdictOf(checkErr)

	if h.store != nil {
		rec := store.NewVerdict(loaded.Hash, tgt, checkErr)
		rec.Source = scenario.ProgramFile
		if _, err := h.store.RecordVerdict(ctx, rec); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}

	h.finish(scenario, result)
	return result, nil
}

// RunAll runs scenarios in order and returns their results.
func (h *Harness) RunAll(ctx context.Context, scenarios []*Scenario) ([]*Result, error) {
	results := make([]*Result, 0, len(scenarios))
	for _, sc := range scenarios {
		res, err := h.Run(ctx, sc)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (h *Harness) load(scenario *Scenario) (*loader.Result, error) {
	if scenario.ProgramFile != "" {
		return loader.LoadFile(scenario.ProgramFile)
	}
	return loader.FromDocument(scenario.Program, loader.FormatYAML)
}

func (h *Harness) finish(scenario *Scenario, result *Result) {
	for _, msg := range CompareVerdict(scenario.Expect, result.Verdict) {
		result.AddError(msg)
	}
	h.logger.Debug("scenario finished",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"target", result.Target,
	)
}

func resolveTarget(s *Scenario) (ir.Target, error) {
	if s.PtrSize != 0 {
		return target.New(ir.Size(s.PtrSize))
	}
	if s.Target == "" {
		return target.X86_64, nil
	}
	return target.Lookup(s.Target)
}

func verdictOf(err error) Verdict {
	if err == nil {
		return Verdict{WellFormed: true}
	}
	var ill *verifier.IllFormedError
	if errors.As(err, &ill) {
		return Verdict{
			Kind:    string(ill.Kind),
			Message: ill.Message,
			Path:    append([]string(nil), ill.Path...),
		}
	}
	return Verdict{Message: err.Error()}
}

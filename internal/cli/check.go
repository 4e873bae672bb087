package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/roach88/minicheck/internal/ir"
	"github.com/roach88/minicheck/internal/loader"
	"github.com/roach88/minicheck/internal/store"
	"github.com/roach88/minicheck/internal/target"
	"github.com/roach88/minicheck/internal/verifier"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Target  string // preset target name
	PtrSize uint   // overrides Target when non-zero
	DB      string // verdict log path (optional)
	NoCache bool   // ignore cached verdicts
	Dump    bool   // pretty-print the decoded IR
}

// CheckResult is the JSON payload of the check command.
type CheckResult struct {
	File        string          `json:"file"`
	Target      string          `json:"target"`
	PtrSize     ir.Size         `json:"ptr_size"`
	ProgramHash string          `json:"program_hash"`
	WellFormed  bool            `json:"well_formed"`
	Cached      bool            `json:"cached"`
	Kind        string          `json:"kind,omitempty"`
	Message     string          `json:"message,omitempty"`
	Path        []string        `json:"path,omitempty"`
	Loops       []FunctionLoops `json:"loops,omitempty"`
}

// FunctionLoops lists the control-flow cycles of one function.
type FunctionLoops struct {
	Function string          `json:"function"`
	Loops    []verifier.Loop `json:"loops"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <program>",
		Short: "Check a program for well-formedness",
		Long: `Load a program document (.cue, .json, .yaml) and check that it is
well-formed for the selected target.

With --db, verdicts are recorded in a SQLite verdict log and reused for
programs with the same content hash and pointer size.

Exit codes:
  0 - Program is well-formed
  1 - Program is ill-formed
  2 - Command error (unreadable program, unknown target, etc.)

Examples:
  minicheck check prog.cue
  minicheck check prog.yaml --target wasm32
  minicheck check prog.json --ptr-size 2
  minicheck check prog.cue --db verdicts.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Target, "target", "t", target.X86_64.Name(), fmt.Sprintf("target platform %v", target.Names()))
	cmd.Flags().UintVar(&opts.PtrSize, "ptr-size", 0, "pointer size in bytes (1, 2, 4 or 8); overrides --target")
	cmd.Flags().StringVar(&opts.DB, "db", "", "verdict log database path")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "verify even if a cached verdict exists")
	cmd.Flags().BoolVar(&opts.Dump, "dump", false, "print the decoded program")

	return cmd
}

func runCheck(ctx context.Context, opts *CheckOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	tgt, err := resolveTarget(opts.Target, opts.PtrSize)
	if err != nil {
		if outErr := formatter.Error(ErrCodeInvalidTarget, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "invalid target", err)
	}

	formatter.VerboseLog("Loading program from %s", path)
	loaded, err := loader.LoadFile(path)
	if err != nil {
		return formatter.LoadError(path, err)
	}
	formatter.VerboseLog("Program hash %s", loaded.Hash)

	if opts.Dump {
		// JSON output must stay a single document on stdout.
		w := formatter.Writer
		if opts.Format == "json" {
			w = formatter.GetErrWriter()
		}
		dumpProgram(w, loaded.Program)
	}

	var st *store.Store
	if opts.DB != "" {
		st, err = store.Open(opts.DB)
		if err != nil {
			if outErr := formatter.Error(ErrCodeStore, err.Error(), nil); outErr != nil {
				return outErr
			}
			return WrapExitError(ExitCommandError, "failed to open verdict log", err)
		}
		defer st.Close()
	}

	result := CheckResult{
		File:        path,
		Target:      tgt.Name(),
		PtrSize:     tgt.PtrSize(),
		ProgramHash: loaded.Hash,
	}

	checkErr, cached, err := verify(ctx, formatter, st, opts.NoCache, tgt, loaded, path)
	if err != nil {
		if outErr := formatter.Error(ErrCodeStore, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "verdict log failure", err)
	}
	result.Cached = cached
	result.WellFormed = checkErr == nil

	var ill *verifier.IllFormedError
	if errors.As(checkErr, &ill) {
		result.Kind = string(ill.Kind)
		result.Message = ill.Message
		result.Path = ill.Path
	} else if checkErr != nil {
		result.Message = checkErr.Error()
	}

	if opts.Verbose {
		result.Loops = programLoops(loaded.Program)
		for _, fl := range result.Loops {
			for _, loop := range fl.Loops {
				formatter.VerboseLog("function %s: %s", fl.Function, loop.Message)
			}
		}
	}

	if opts.Format == "json" {
		if result.WellFormed {
			if err := formatter.Success(result); err != nil {
				return err
			}
			return nil
		}
		if err := formatter.Error(ErrCodeIllFormed, checkErr.Error(), result); err != nil {
			return err
		}
		return WrapExitError(ExitFailure, "program is ill-formed", checkErr)
	}

	w := formatter.Writer
	suffix := ""
	if result.Cached {
		suffix = " [cached]"
	}
	if result.WellFormed {
		fmt.Fprintf(w, "✓ %s is well-formed (%s)%s\n", path, result.Target, suffix)
		return nil
	}
	fmt.Fprintf(w, "✗ %s is ill-formed (%s)%s\n", path, result.Target, suffix)
	fmt.Fprintf(w, "  %s\n", checkErr)
	return WrapExitError(ExitFailure, "program is ill-formed", checkErr)
}

// verify returns the verifier's verdict, consulting and updating the verdict
// log when one is open. The returned error is a store failure, never an
// ill-formedness diagnostic.
func verify(ctx context.Context, formatter *OutputFormatter, st *store.Store, noCache bool, tgt ir.Target, loaded *loader.Result, source string) (checkErr error, cached bool, err error) {
	if st != nil && !noCache {
		v, found, err := st.LookupVerdict(ctx, loaded.Hash, tgt.PtrSize())
		if err != nil {
			return nil, false, err
		}
		if found {
			formatter.VerboseLog("Using cached verdict from run %s (%s)", v.RunID, v.Target)
			return v.Err(), true, nil
		}
	}

	v := verifier.New(tgt, verifier.WithLogger(formatter.Logger()))
	checkErr = v.CheckProgram(loaded.Program)

	if st != nil {
		rec := store.NewVerdict(loaded.Hash, tgt, checkErr)
		rec.Source = source
		rec, err = st.RecordVerdict(ctx, rec)
		if err != nil {
			return nil, false, err
		}
		formatter.VerboseLog("Recorded verdict %d (run %s)", rec.Seq, rec.RunID)
	}
	return checkErr, false, nil
}

// resolveTarget picks a generic target when ptrSize is set and a preset otherwise.
func resolveTarget(name string, ptrSize uint) (ir.Target, error) {
	if ptrSize != 0 {
		return target.New(ir.Size(ptrSize))
	}
	return target.Lookup(name)
}

func programLoops(prog *ir.Program) []FunctionLoops {
	var out []FunctionLoops
	for _, name := range ir.SortedKeys(prog.Functions) {
		fn := prog.Functions[name]
		if loops := verifier.AnalyzeLoops(&fn); len(loops) > 0 {
			out = append(out, FunctionLoops{Function: string(name), Loops: loops})
		}
	}
	return out
}

func dumpProgram(w io.Writer, prog *ir.Program) {
	pretty.Fprintf(w, "%# v\n", prog)
}

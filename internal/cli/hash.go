package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/minicheck/internal/loader"
)

// HashResult is the content hash of one program document.
type HashResult struct {
	File   string `json:"file"`
	Format string `json:"format"`
	Hash   string `json:"hash"`
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash <program>...",
		Short: "Print program content hashes",
		Long: `Load program documents and print their content hashes.

The hash covers the decoded program, not the document text, so the same
program written in CUE, JSON or YAML hashes identically. It is the key
under which check --db records verdicts.

Examples:
  minicheck hash prog.cue
  minicheck hash prog.cue prog.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runHash(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	results := make([]HashResult, 0, len(paths))
	for _, path := range paths {
		loaded, err := loader.LoadFile(path)
		if err != nil {
			return formatter.LoadError(path, err)
		}
		results = append(results, HashResult{
			File:   path,
			Format: string(loaded.Format),
			Hash:   loaded.Hash,
		})
	}

	if opts.Format == "json" {
		return formatter.Success(results)
	}
	for _, r := range results {
		fmt.Fprintf(formatter.Writer, "%s  %s\n", r.Hash, r.File)
	}
	return nil
}

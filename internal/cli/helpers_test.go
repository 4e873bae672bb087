package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// Shared fixtures from the loader and harness packages.
var (
	helloProgram     = filepath.Join("..", "loader", "testdata", "hello.yaml")
	helloProgramCUE  = filepath.Join("..", "loader", "testdata", "hello.cue")
	helloProgramJSON = filepath.Join("..", "loader", "testdata", "hello.json")
	danglingProgram  = filepath.Join("..", "loader", "testdata", "dangling_goto.yaml")
	scenariosDir     = filepath.Join("..", "harness", "testdata", "scenarios")
	goldenDir        = filepath.Join("..", "harness", "testdata", "golden")
)

const loopProgram = `start: main
functions:
  - name: main
    locals:
      - name: ret
        type: {kind: tuple, size: 0, align: 1}
    ret: ret
    start: bb0
    blocks:
      - name: bb0
        terminator: {kind: goto, target: bb1}
      - name: bb1
        terminator: {kind: goto, target: bb0}
`

// execute runs a command and returns what it wrote to stdout and stderr.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

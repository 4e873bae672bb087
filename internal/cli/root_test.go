package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "minicheck", cmd.Use)
	assert.Contains(t, cmd.Long, "well-formedness")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"check", "hash", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestCheckCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	checkCmd, _, err := cmd.Find([]string{"check"})
	require.NoError(t, err)

	targetFlag := checkCmd.Flags().Lookup("target")
	require.NotNil(t, targetFlag)
	assert.Equal(t, "t", targetFlag.Shorthand)
	assert.Equal(t, "x86_64", targetFlag.DefValue)

	ptrFlag := checkCmd.Flags().Lookup("ptr-size")
	require.NotNil(t, ptrFlag)
	assert.Equal(t, "0", ptrFlag.DefValue)

	for _, name := range []string{"db", "no-cache", "dump"} {
		assert.NotNil(t, checkCmd.Flags().Lookup(name), "missing flag %s", name)
	}
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	for _, name := range []string{"update", "filter", "golden", "db"} {
		assert.NotNil(t, testCmd.Flags().Lookup(name), "missing flag %s", name)
	}
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	_, _, err := execute(t, cmd, "--format", "invalid", "check", helloProgram)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootCheckEndToEnd(t *testing.T) {
	cmd := NewRootCommand()
	out, _, err := execute(t, cmd, "check", helloProgram, "--target", "wasm32")
	require.NoError(t, err)
	assert.Contains(t, out, "is well-formed (wasm32)")
}

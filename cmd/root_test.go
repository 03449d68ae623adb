package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasAllSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "simulate", "fuzz"} {
		assert.Truef(t, names[want], "missing subcommand %q", want)
	}
}

func TestSimulateCommand_FlagSurface(t *testing.T) {
	for _, flag := range []string{"scenario", "events", "seed", "validate-hash", "record"} {
		require.NotNilf(t, simulateCmd.Flags().Lookup(flag), "missing flag --%s", flag)
	}
}

func TestFuzzCommand_FlagSurface(t *testing.T) {
	for _, flag := range []string{"seed", "iterations", "max-events"} {
		require.NotNilf(t, fuzzCmd.Flags().Lookup(flag), "missing flag --%s", flag)
	}
}

func TestRunCommand_FlagSurface(t *testing.T) {
	require.NotNil(t, runCmd.Flags().Lookup("interface"))
}

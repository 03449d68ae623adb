// cmd/fuzz.go
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	fuzzSeed       uint64
	fuzzIterations int
	fuzzMaxEvents  int
)

var fuzzCmd = &cobra.Command{
	Use:   "fuzz",
	Short: "Fuzz the pipeline with seed-derived reproducible scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		watchSignals(rt)
		return rt.RunFuzz(fuzzSeed, fuzzIterations, fuzzMaxEvents)
	},
}

func init() {
	fuzzCmd.Flags().Uint64Var(&fuzzSeed, "seed", 1, "Base seed; iteration i uses seed+i")
	fuzzCmd.Flags().IntVar(&fuzzIterations, "iterations", 10, "Fuzz iterations (0 = run until interrupted)")
	fuzzCmd.Flags().IntVar(&fuzzMaxEvents, "max-events", 1000, "Maximum events per fuzz iteration")
	rootCmd.AddCommand(fuzzCmd)
}

// cmd/simulate.go
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	scenarioPath string
	simEvents    int
	simSeed      uint64
	validateHash string
	recordPath   string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a deterministic simulation or replay a recorded scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		watchSignals(rt)

		if scenarioPath != "" {
			hash, err := rt.RunScenario(scenarioPath)
			if err != nil {
				return err
			}
			logrus.Infof("Replay complete, final state hash: %s", hash)
			return nil
		}

		simCfg := cfg.Simulator
		if cmd.Flags().Changed("seed") {
			simCfg.Seed = simSeed
		}
		if cmd.Flags().Changed("events") {
			simCfg.EventCount = simEvents
		}

		hash, err := rt.RunSimulation(simCfg, validateHash, recordPath)
		if err != nil {
			return err
		}
		logrus.Infof("Simulation complete, final state hash: %s", hash)
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario file to replay")
	simulateCmd.Flags().IntVar(&simEvents, "events", 10000, "Number of events to simulate")
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 42, "Simulation seed")
	simulateCmd.Flags().StringVar(&validateHash, "validate-hash", "", "Expected final state hash to validate against")
	simulateCmd.Flags().StringVar(&recordPath, "record", "", "Path to save the run's scenario for later replay")
	rootCmd.AddCommand(simulateCmd)
}

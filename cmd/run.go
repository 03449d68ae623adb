// cmd/run.go
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vakthund/vakthund/core"
	"github.com/vakthund/vakthund/core/capture"
)

var runInterface string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run live capture and detection on a network interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		iface := runInterface
		if iface == "" {
			iface = cfg.Capture.Interface
		}
		logrus.Infof("Starting production mode on %s", iface)

		rt, err := newRuntime()
		if err != nil {
			return err
		}
		watchSignals(rt)

		return rt.RunLive(func(emit func(core.Event)) error {
			return capture.Run(capture.Options{
				Address:    iface,
				BufferSize: cfg.Capture.BufferSize,
			}, rt.Stopping, emit)
		})
	},
}

func init() {
	runCmd.Flags().StringVar(&runInterface, "interface", "", "Interface (listen address) to capture on")
	rootCmd.AddCommand(runCmd)
}

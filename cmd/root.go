// cmd/root.go
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vakthund/vakthund/core"
	_ "github.com/vakthund/vakthund/core/impairment" // registers impairment model constructors
	"github.com/vakthund/vakthund/core/prevention"
)

var (
	cfgPath  string
	logLevel string

	cfg VakthundConfig
)

var rootCmd = &cobra.Command{
	Use:   "vakthund",
	Short: "IoT intrusion detection and prevention system",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err = LoadConfig(cfgPath)
		return err
	},
}

// Execute runs the CLI. Exit code is non-zero on validation failure or
// initialization error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRuntime builds the pipeline runtime from the loaded config, with the
// firewall bound to the configured capture interface.
func newRuntime() (*core.Runtime, error) {
	return core.NewRuntime(core.RuntimeOptions{
		BusCapacity:  cfg.Core.EventBus.Capacity,
		BugReportDir: "bug_reports",
		Preventer:    prevention.New(cfg.Capture.Interface),
	})
}

// watchSignals stops the runtime on SIGINT/SIGTERM so producer loops
// terminate between events and the consumer drains cleanly.
func watchSignals(rt *core.Runtime) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-ch
		logrus.Infof("Received %s, shutting down", sig)
		rt.Stop()
	}()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
}

package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nfrund/eventbroker/internal/config"
	"github.com/nfrund/eventbroker/internal/logging"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "brokerctl",
	Short: "Event broker CLI tool",
	Long: `brokerctl drives the in-process event broker from the command line.

Available commands:
  demo      Wire the demo publisher and subscribers and fire events
  topics    Inspect the topics of the demo wiring
  version   Print the version

Configuration is read from the environment (and an optional .env file):
  LOG_FORMAT, LOG_LEVEL, BROKER_RELAY_ENABLED, BROKER_RELAY_TOPIC, BROKER_RELAY_BUFFER

Use "brokerctl [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.New(cfg)
		return nil
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

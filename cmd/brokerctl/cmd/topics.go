package cmd

import (
	"github.com/spf13/cobra"
)

// topicsCmd represents the topics command
var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Inspect broker topics",
	Long: `The topics command shows what the demo wiring registers with the broker.

Available subcommands:
  list      List topics with their subscriber counts
  types     List the types described in the discovery catalog

Examples:
  brokerctl topics list
  brokerctl topics list --format json
  brokerctl topics types`,
}

func init() {
	rootCmd.AddCommand(topicsCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/eventbroker/cmd/brokerctl/internal/topics"
	"github.com/nfrund/eventbroker/internal/app"
	"github.com/nfrund/eventbroker/internal/discovery"
)

var listOutputFormat string

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List topics with their subscriber counts",
	Long: `Resolve the demo components, so that they register with the broker, and list
every topic that has subscriptions.

Output formats:
  table - Human-readable table format (default)
  json  - Machine-readable JSON format`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		if _, _, _, err := application.Components(); err != nil {
			return err
		}

		rows := topics.Collect(application.Broker)
		switch listOutputFormat {
		case "json":
			return topics.DisplayJSON(cmd.OutOrStdout(), rows)
		case "table":
			topics.DisplayTable(cmd.OutOrStdout(), rows)
			return nil
		default:
			return fmt.Errorf("unsupported output format %q, use 'table' or 'json'", listOutputFormat)
		}
	},
}

var topicsTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the types described in the discovery catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch listOutputFormat {
		case "json":
			return topics.DisplayJSON(cmd.OutOrStdout(), discovery.Default().Types())
		case "table":
			topics.DisplayTypes(cmd.OutOrStdout(), discovery.Default().Types())
			return nil
		default:
			return fmt.Errorf("unsupported output format %q, use 'table' or 'json'", listOutputFormat)
		}
	},
}

func init() {
	topicsCmd.AddCommand(topicsListCmd)
	topicsCmd.AddCommand(topicsTypesCmd)

	topicsCmd.PersistentFlags().StringVarP(&listOutputFormat, "format", "f", "table", "Output format (table, json)")
}

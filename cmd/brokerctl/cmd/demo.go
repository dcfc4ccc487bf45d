package cmd

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/nfrund/eventbroker/internal/app"
	"github.com/nfrund/eventbroker/internal/broker"
	"github.com/nfrund/eventbroker/internal/demo"
)

var (
	demoFires int
	demoDrop  bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Fire the demo ticker and report subscriber counters",
	Long: `Resolve the demo ticker, counter and auditor through the injector, which
registers each of them with the shared broker, then tick the ticker.

With --drop, an extra counter is registered outside the injector and released
before ticking, showing that the broker does not keep it alive and purges it.

Examples:
  brokerctl demo
  brokerctl demo --fires 3 --drop
  BROKER_RELAY_ENABLED=true brokerctl demo`,
	RunE: runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	out := cmd.OutOrStdout()
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var journal <-chan string
	if application.Relay != nil {
		if journal, err = application.Relay.Journal(ctx); err != nil {
			return err
		}
	}

	ticker, counter, auditor, err := application.Components()
	if err != nil {
		return err
	}

	fired := 0
	if demoDrop {
		if err := tickWithTransient(application.Broker, ticker); err != nil {
			return err
		}
		fired++
		runtime.GC()
		fmt.Fprintf(out, "released transient counter, %s holds %d subscriptions\n",
			demo.TopicTick, application.Broker.SubscriberCount(demo.TopicTick))
	}

	for i := 0; i < demoFires; i++ {
		if err := ticker.Tick(); err != nil {
			return err
		}
		fired++
	}

	fmt.Fprintf(out, "counter %q: %d hits\n", counter.Name, counter.Hits())
	fmt.Fprintf(out, "auditor: %d entries\n", auditor.Entries())
	fmt.Fprintf(out, "%s now holds %d subscriptions\n",
		demo.TopicTick, application.Broker.SubscriberCount(demo.TopicTick))

	if journal != nil {
		printJournal(cmd, journal, fired*2)
	}
	return nil
}

// tickWithTransient registers a counter that nothing else references and
// ticks once while it is still reachable.
func tickWithTransient(b *broker.Broker, ticker *demo.Ticker) error {
	transient := demo.NewCounter("transient")
	if err := b.Register(transient); err != nil {
		return err
	}
	return ticker.Tick()
}

func printJournal(cmd *cobra.Command, journal <-chan string, want int) {
	out := cmd.OutOrStdout()
	timeout := time.After(time.Second)
	for i := 0; i < want; i++ {
		select {
		case topic := <-journal:
			fmt.Fprintf(out, "journal: %s\n", topic)
		case <-timeout:
			fmt.Fprintf(out, "journal: %d of %d entries received\n", i, want)
			return
		}
	}
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().IntVarP(&demoFires, "fires", "n", 2, "Number of ticks to fire")
	demoCmd.Flags().BoolVar(&demoDrop, "drop", false, "Register and release a transient counter first")
}

package topics

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nfrund/eventbroker/internal/broker"
	"github.com/nfrund/eventbroker/internal/discovery"
)

// TopicDisplay represents a topic for display purposes
type TopicDisplay struct {
	Name        string `json:"name"`
	Subscribers int    `json:"subscribers"`
}

// Collect lists b's topics with their subscriber counts.
func Collect(b *broker.Broker) []TopicDisplay {
	names := b.Topics()
	rows := make([]TopicDisplay, 0, len(names))
	for _, name := range names {
		rows = append(rows, TopicDisplay{
			Name:        name,
			Subscribers: b.SubscriberCount(name),
		})
	}
	return rows
}

// DisplayTable writes topics as a table
func DisplayTable(w io.Writer, rows []TopicDisplay) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "TOPIC\tSUBSCRIBERS")
	fmt.Fprintln(tw, "-----\t-----------")

	if len(rows) == 0 {
		fmt.Fprintln(tw, "No topics found")
		return
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%d\n", row.Name, row.Subscribers)
	}
}

// DisplayTypes writes catalog entries as a table
func DisplayTypes(w io.Writer, types []discovery.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "TYPE\tSUBSCRIBES\tPUBLISHES")
	fmt.Fprintln(tw, "----\t----------\t---------")

	for _, s := range types {
		publishes := make([]string, 0, len(s.Publishes))
		for _, topics := range s.Publishes {
			publishes = append(publishes, strings.Join(topics, "+"))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Type, orDash(strings.Join(s.Subscribes, ", ")), orDash(strings.Join(publishes, ", ")))
	}
}

// DisplayJSON writes v as indented JSON
func DisplayJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

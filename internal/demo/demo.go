// Package demo holds the small publisher and subscribers used by brokerctl.
package demo

import (
	"log/slog"
	"sync/atomic"

	"github.com/nfrund/eventbroker/internal/broker"
	"github.com/nfrund/eventbroker/internal/discovery"
)

// Topics used by the demo components.
const (
	TopicTick  = "demo.tick"
	TopicAudit = "demo.audit"
)

// Ticker publishes TopicTick and TopicAudit each time it ticks.
type Ticker struct {
	Ticked broker.Event
}

// NewTicker creates a ticker with no handlers installed.
func NewTicker() *Ticker {
	return &Ticker{}
}

// Tick emits the Ticked event.
func (t *Ticker) Tick() error {
	return t.Ticked.Emit()
}

// Counter counts TopicTick fires.
type Counter struct {
	Name string
	hits atomic.Int64
}

// NewCounter creates a counter identified by name.
func NewCounter(name string) *Counter {
	return &Counter{Name: name}
}

// OnTick records one TopicTick fire.
func (c *Counter) OnTick() error {
	c.hits.Add(1)
	return nil
}

// Hits returns the number of TopicTick fires seen.
func (c *Counter) Hits() int64 {
	return c.hits.Load()
}

// Auditor logs every TopicAudit fire.
type Auditor struct {
	logger  *slog.Logger
	entries atomic.Int64
}

// NewAuditor creates an auditor logging to logger, or slog.Default() if nil.
func NewAuditor(logger *slog.Logger) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{logger: logger}
}

// OnAudit logs and counts one TopicAudit fire.
func (a *Auditor) OnAudit() error {
	n := a.entries.Add(1)
	a.logger.Info("Audit entry", "topic", TopicAudit, "entry", n)
	return nil
}

// Entries returns the number of audit entries logged.
func (a *Auditor) Entries() int64 {
	return a.entries.Load()
}

// Describe declares the demo bindings in c.
func Describe(c *discovery.Catalog) {
	discovery.Describe[Ticker](c).
		Publish(func(t *Ticker) *broker.Event { return &t.Ticked }, TopicTick, TopicAudit)
	discovery.Describe[Counter](c).
		Subscribe(TopicTick, (*Counter).OnTick)
	discovery.Describe[Auditor](c).
		Subscribe(TopicAudit, (*Auditor).OnAudit)
}

func init() {
	Describe(discovery.Default())
}

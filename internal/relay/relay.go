// Package relay mirrors broker traffic onto an in-memory watermill GoChannel.
//
// Outbound, every fired topic is published as a message on a journal topic.
// Inbound, messages arriving on a watermill topic fire broker topics, which
// lets any watermill producer act as a broker publisher.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/nfrund/eventbroker/internal/broker"
	"github.com/nfrund/eventbroker/internal/config"
)

// Metadata key carrying the broker topic through watermill messages.
const metaKeyTopic = "topic"

// Relay connects a broker to a watermill GoChannel.
type Relay struct {
	pubSub       *gochannel.GoChannel
	journalTopic string
	logger       *slog.Logger
	closed       atomic.Bool
}

// New creates a relay using cfg's journal topic and channel buffer.
func New(cfg config.RelayConfig, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	goChannel := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: cfg.Buffer},
		watermill.NewStdLogger(false, false),
	)

	return &Relay{
		pubSub:       goChannel,
		journalTopic: cfg.JournalTopic,
		logger:       logger,
	}
}

// JournalTopic returns the watermill topic fired topics are published on.
func (r *Relay) JournalTopic() string {
	return r.journalTopic
}

// Hook returns a broker fire hook publishing each fired topic to the journal.
// Pass it to broker.WithFireHook. The hook does nothing once the relay is
// closed.
func (r *Relay) Hook() func(topic string) {
	return func(topic string) {
		if r.closed.Load() {
			return
		}
		msg := message.NewMessage(watermill.NewUUID(), []byte(topic))
		msg.Metadata.Set(metaKeyTopic, topic)
		if err := r.pubSub.Publish(r.journalTopic, msg); err != nil {
			r.logger.Warn("Failed to journal fired topic", "topic", topic, "error", err)
		}
	}
}

// Journal streams the topics fired after the call. The channel is closed
// when ctx is done or the relay is closed.
func (r *Relay) Journal(ctx context.Context) (<-chan string, error) {
	messages, err := r.pubSub.Subscribe(ctx, r.journalTopic)
	if err != nil {
		return nil, err
	}

	out := make(chan string)
	go func() {
		defer close(out)
		for msg := range messages {
			topic := msg.Metadata.Get(metaKeyTopic)
			msg.Ack()
			select {
			case out <- topic:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// inbound is the publisher object that Forward registers with the broker.
type inbound struct {
	source   string
	Received broker.Event
}

var receivedEvent = broker.EventOf(func(in *inbound) *broker.Event { return &in.Received })

// Forward fires topics on b, in order, for every message that arrives on the
// watermill topic source until ctx is done. Handler errors are logged and
// the message is still acked; GoChannel would otherwise redeliver it
// indefinitely.
func (r *Relay) Forward(ctx context.Context, b *broker.Broker, source string, topics ...string) error {
	if source == r.journalTopic {
		return &broker.Error{
			Kind:    broker.KindInvalidArgument,
			Arg:     "source",
			Message: fmt.Sprintf("cannot forward the journal topic %q", source),
		}
	}

	in := &inbound{source: source}
	if err := b.AddPublisher(topics, in, receivedEvent); err != nil {
		return err
	}

	messages, err := r.pubSub.Subscribe(ctx, source)
	if err != nil {
		return err
	}

	// Process messages in the background so Forward returns once subscribed.
	go func() {
		for msg := range messages {
			if err := in.Received.Emit(); err != nil {
				r.logger.Error("Failed to fire forwarded topics", "source", source, "msg_id", msg.UUID, "error", err)
			}
			msg.Ack()
		}
		r.logger.Debug("Forwarding loop ended", "source", source)
	}()
	return nil
}

// Send publishes an empty message on the watermill topic.
func (r *Relay) Send(topic string) error {
	return r.pubSub.Publish(topic, message.NewMessage(watermill.NewUUID(), nil))
}

// Close shuts down the GoChannel and ends every Journal and Forward loop.
func (r *Relay) Close() error {
	r.closed.Store(true)
	return r.pubSub.Close()
}

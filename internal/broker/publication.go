package broker

import (
	"slices"

	"github.com/google/uuid"
)

// publication fires a fixed list of topics each time its source event is
// emitted. It is reachable only through the callback installed on the
// source, so it lives exactly as long as the source keeps that callback.
type publication struct {
	id     string
	topics []string
	broker *Broker
}

// fire fires each topic in order and stops at the first error.
func (p *publication) fire() error {
	for _, topic := range p.topics {
		if err := p.broker.Fire(topic); err != nil {
			return err
		}
	}
	return nil
}

// AddPublisher installs a callback on source, through binding, that fires
// topics in order whenever the source's event is emitted. It fails with
// ErrInvalidArgument when source or binding is nil or topics is empty.
func (b *Broker) AddPublisher(topics []string, source any, binding EventBinding) error {
	if isNil(source) {
		return invalidArgument("", "source", "publisher source cannot be nil")
	}
	if binding == nil {
		return invalidArgument("", "event", "publisher event binding cannot be nil")
	}
	if len(topics) == 0 {
		return invalidArgument("", "topics", "publisher must be bound to at least one topic")
	}

	pub := &publication{
		id:     uuid.NewString(),
		topics: slices.Clone(topics),
		broker: b,
	}
	if err := binding(source, pub.fire); err != nil {
		return err
	}

	b.logger.Debug("Publisher added", "publication_id", pub.id, "topics", pub.topics, "source", typeName(source))
	return nil
}

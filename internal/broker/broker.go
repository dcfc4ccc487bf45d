package broker

import (
	"fmt"
	"log/slog"
	"reflect"
)

// Discoverer enumerates the bindings an object declares.
type Discoverer interface {
	// Discover returns obj's subscribe and publish bindings in declaration
	// order. Objects it knows nothing about yield empty Bindings.
	Discover(obj any) (Bindings, error)
}

// Bindings is what a Discoverer reports for one object.
type Bindings struct {
	Subscriptions []SubscribeBinding
	Publications  []PublishBinding
}

// SubscribeBinding subscribes Ref to Topic.
type SubscribeBinding struct {
	Topic string
	Ref   Ref
}

// PublishBinding maps one event of the discovered object to Topics.
type PublishBinding struct {
	Topics []string
	Event  EventBinding
}

// Broker routes fired topics to their subscribers.
type Broker struct {
	registry   *registry
	discoverer Discoverer
	hooks      []func(topic string)
	logger     *slog.Logger
}

// Option configures a Broker.
type Option func(*Broker)

// WithLogger sets the logger used for registration and compaction events.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Broker) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithDiscoverer sets the Discoverer used by Register.
func WithDiscoverer(d Discoverer) Option {
	return func(b *Broker) {
		b.discoverer = d
	}
}

// WithFireHook adds a func called with the topic at the start of every Fire,
// whether or not the topic has subscribers.
func WithFireHook(hook func(topic string)) Option {
	return func(b *Broker) {
		if hook != nil {
			b.hooks = append(b.hooks, hook)
		}
	}
}

// New creates an empty broker.
func New(opts ...Option) *Broker {
	b := &Broker{
		registry: newRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddSubscriber subscribes method on target to topic. The broker holds target
// weakly. Registering the same pair twice makes it run twice per fire. T must
// not be zero-size; see Bind for how small pointer-free types are released.
func AddSubscriber[T any](b *Broker, topic string, target *T, method func(*T) error) error {
	return b.Subscribe(topic, Bind(target, method))
}

// Subscribe adds ref to topic's subscribers.
func (b *Broker) Subscribe(topic string, ref Ref) error {
	if err := ref.validate(topic); err != nil {
		return err
	}
	if ref.handler.batched() {
		b.logger.Debug("Subscriber type is small and pointer-free, it may outlive its last reference",
			"topic", topic, "subscription_id", ref.ID())
	}
	n := b.registry.add(topic, ref.handler)
	b.logger.Debug("Subscriber added", "topic", topic, "subscription_id", ref.ID(), "subscribers", n)
	return nil
}

// Register wires every binding the Discoverer reports for obj: first its
// subscriptions, then its publications, each in the order supplied. A nil obj
// is ignored. Registering an object twice duplicates its subscriptions.
func (b *Broker) Register(obj any) error {
	if isNil(obj) {
		return nil
	}
	if b.discoverer == nil {
		return &Error{Kind: KindNoDiscoverer, Message: "cannot register " + typeName(obj)}
	}

	bindings, err := b.discoverer.Discover(obj)
	if err != nil {
		return fmt.Errorf("discover %s: %w", typeName(obj), err)
	}
	for _, sub := range bindings.Subscriptions {
		if err := b.Subscribe(sub.Topic, sub.Ref); err != nil {
			return err
		}
	}
	for _, pub := range bindings.Publications {
		if err := b.AddPublisher(pub.Topics, obj, pub.Event); err != nil {
			return err
		}
	}
	return nil
}

// Topics returns the topics that currently have subscriptions, in the order
// they were first subscribed to.
func (b *Broker) Topics() []string {
	return b.registry.names()
}

// SubscriberCount returns the number of subscriptions held for topic,
// including dead ones that have not been purged yet.
func (b *Broker) SubscriberCount(topic string) int {
	return b.registry.len(topic)
}

// isNil reports whether v is nil or a nil pointer, map, slice, func, chan or
// interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}

package discovery

import (
	"errors"
	"reflect"
	"sync"

	"github.com/nfrund/eventbroker/internal/broker"
)

// describer is the type-erased view of a Descriptor.
type describer interface {
	bindings(obj any) (broker.Bindings, error)
	summary() Summary
}

// Catalog maps *T types to their declared bindings.
type Catalog struct {
	mu    sync.RWMutex
	types map[reflect.Type]describer
	order []reflect.Type
}

var _ broker.Discoverer = (*Catalog)(nil)

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		types: make(map[reflect.Type]describer),
	}
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// Default returns the process-wide catalog.
func Default() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = NewCatalog()
	})
	return defaultCatalog
}

// Describe returns the descriptor for *T in c, creating it on first use.
func Describe[T any](c *Catalog) *Descriptor[T] {
	key := reflect.TypeFor[*T]()

	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.types[key]; ok {
		return d.(*Descriptor[T])
	}
	d := &Descriptor[T]{name: key.String()}
	c.types[key] = d
	c.order = append(c.order, key)
	return d
}

// Discover implements broker.Discoverer. Objects whose type was never
// described yield no bindings.
func (c *Catalog) Discover(obj any) (broker.Bindings, error) {
	if obj == nil {
		return broker.Bindings{}, nil
	}

	c.mu.RLock()
	d, ok := c.types[reflect.TypeOf(obj)]
	c.mu.RUnlock()
	if !ok {
		return broker.Bindings{}, nil
	}
	return d.bindings(obj)
}

// Types summarizes every described type in the order they were first
// described.
func (c *Catalog) Types() []Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Summary, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.types[key].summary())
	}
	return out
}

// Summary describes one catalog entry for display.
type Summary struct {
	Type       string     `json:"type"`
	Subscribes []string   `json:"subscribes,omitempty"`
	Publishes  [][]string `json:"publishes,omitempty"`
}

type subscribeDecl[T any] struct {
	topic  string
	method func(*T) error
}

type publishDecl[T any] struct {
	topics []string
	slot   func(*T) *broker.Event
}

// Descriptor collects the bindings declared for *T.
type Descriptor[T any] struct {
	name string

	mu   sync.RWMutex
	subs []subscribeDecl[T]
	pubs []publishDecl[T]
	errs []error
}

// Subscribe declares that method on every *T subscribes to topic.
func (d *Descriptor[T]) Subscribe(topic string, method func(*T) error) *Descriptor[T] {
	d.mu.Lock()
	defer d.mu.Unlock()

	if method == nil {
		d.errs = append(d.errs, d.declError("subscribe to "+topic+": method cannot be nil"))
		return d
	}
	d.subs = append(d.subs, subscribeDecl[T]{topic: topic, method: method})
	return d
}

// Publish declares that the event slot selects on every *T fires topics.
func (d *Descriptor[T]) Publish(slot func(*T) *broker.Event, topics ...string) *Descriptor[T] {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case slot == nil:
		d.errs = append(d.errs, d.declError("publish: event slot cannot be nil"))
	case len(topics) == 0:
		d.errs = append(d.errs, d.declError("publish: at least one topic is required"))
	default:
		d.pubs = append(d.pubs, publishDecl[T]{topics: append([]string(nil), topics...), slot: slot})
	}
	return d
}

// Err returns the declaration errors recorded so far, joined.
func (d *Descriptor[T]) Err() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return errors.Join(d.errs...)
}

func (d *Descriptor[T]) declError(msg string) error {
	return &broker.Error{Kind: broker.KindInvalidArgument, Arg: d.name, Message: msg}
}

func (d *Descriptor[T]) bindings(obj any) (broker.Bindings, error) {
	target, ok := obj.(*T)
	if !ok || target == nil {
		return broker.Bindings{}, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := errors.Join(d.errs...); err != nil {
		return broker.Bindings{}, err
	}

	var out broker.Bindings
	for _, s := range d.subs {
		out.Subscriptions = append(out.Subscriptions, broker.SubscribeBinding{
			Topic: s.topic,
			Ref:   broker.Bind(target, s.method),
		})
	}
	for _, p := range d.pubs {
		out.Publications = append(out.Publications, broker.PublishBinding{
			Topics: append([]string(nil), p.topics...),
			Event:  broker.EventOf(p.slot),
		})
	}
	return out, nil
}

func (d *Descriptor[T]) summary() Summary {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := Summary{Type: d.name}
	for _, sub := range d.subs {
		s.Subscribes = append(s.Subscribes, sub.topic)
	}
	for _, pub := range d.pubs {
		s.Publishes = append(s.Publishes, append([]string(nil), pub.topics...))
	}
	return s
}

package container_test

import (
	"errors"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/eventbroker/internal/broker"
	"github.com/nfrund/eventbroker/internal/container"
	"github.com/nfrund/eventbroker/internal/discovery"
)

type Publisher struct {
	Changed broker.Event
}

type Subscriber struct {
	name  string
	calls int
}

func (s *Subscriber) EventHappened() error {
	s.calls++
	return nil
}

func newCatalog() *discovery.Catalog {
	c := discovery.NewCatalog()
	discovery.Describe[Publisher](c).
		Publish(func(p *Publisher) *broker.Event { return &p.Changed }, "event1")
	discovery.Describe[Subscriber](c).
		Subscribe("event1", (*Subscriber).EventHappened)
	return c
}

func TestProvideRegistered(t *testing.T) {
	t.Run("resolved objects are wired", func(t *testing.T) {
		injector := container.New(broker.WithDiscoverer(newCatalog()))
		container.ProvideRegistered(injector, func(do.Injector) (*Publisher, error) {
			return &Publisher{}, nil
		})
		container.ProvideRegistered(injector, func(do.Injector) (*Subscriber, error) {
			return &Subscriber{name: "sub"}, nil
		})

		sub := do.MustInvoke[*Subscriber](injector)
		pub := do.MustInvoke[*Publisher](injector)
		require.NoError(t, pub.Changed.Emit())

		assert.Equal(t, 1, sub.calls)
	})

	t.Run("singletons are registered once", func(t *testing.T) {
		injector := container.New(broker.WithDiscoverer(newCatalog()))
		container.ProvideRegistered(injector, func(do.Injector) (*Subscriber, error) {
			return &Subscriber{}, nil
		})

		first := do.MustInvoke[*Subscriber](injector)
		second := do.MustInvoke[*Subscriber](injector)
		assert.Same(t, first, second)

		b, err := container.Broker(injector)
		require.NoError(t, err)
		assert.Equal(t, 1, b.SubscriberCount("event1"))
	})

	t.Run("provider errors are returned", func(t *testing.T) {
		boom := errors.New("boom")
		injector := container.New(broker.WithDiscoverer(newCatalog()))
		container.ProvideRegistered(injector, func(do.Injector) (*Subscriber, error) {
			return nil, boom
		})

		_, err := do.Invoke[*Subscriber](injector)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("registration errors are returned", func(t *testing.T) {
		c := discovery.NewCatalog()
		discovery.Describe[Publisher](c).Publish(nil, "event1")
		injector := container.New(broker.WithDiscoverer(c))
		container.ProvideRegistered(injector, func(do.Injector) (*Publisher, error) {
			return &Publisher{}, nil
		})

		_, err := do.Invoke[*Publisher](injector)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "event slot cannot be nil")
	})
}

func TestBroker(t *testing.T) {
	injector := container.New()

	b1, err := container.Broker(injector)
	require.NoError(t, err)
	b2, err := container.Broker(injector)
	require.NoError(t, err)

	assert.Same(t, b1, b2)
}

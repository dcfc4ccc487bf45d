// Package container wires the broker into a samber/do injector so that
// objects built by the injector are registered with the shared broker as
// soon as they are constructed.
package container

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/nfrund/eventbroker/internal/broker"
	"github.com/nfrund/eventbroker/internal/discovery"
)

// New creates an injector providing one shared *broker.Broker. The broker
// discovers bindings through discovery.Default() unless opts override it.
func New(opts ...broker.Option) *do.RootScope {
	injector := do.New()
	ProvideBroker(injector, opts...)
	return injector
}

// ProvideBroker registers the shared broker on an existing injector.
func ProvideBroker(i do.Injector, opts ...broker.Option) {
	options := append([]broker.Option{broker.WithDiscoverer(discovery.Default())}, opts...)
	do.Provide(i, func(do.Injector) (*broker.Broker, error) {
		return broker.New(options...), nil
	})
}

// Broker resolves the shared broker.
func Broker(i do.Injector) (*broker.Broker, error) {
	return do.Invoke[*broker.Broker](i)
}

// ProvideRegistered registers a lazy provider for *T whose instance is passed
// to the shared broker's Register right after construction. The injector
// keeps the instance alive, so its subscriptions last as long as the
// injector does.
func ProvideRegistered[T any](i do.Injector, provider do.Provider[*T]) {
	do.Provide(i, func(i do.Injector) (*T, error) {
		instance, err := provider(i)
		if err != nil {
			return nil, err
		}

		b, err := do.Invoke[*broker.Broker](i)
		if err != nil {
			return nil, fmt.Errorf("resolve broker for %T: %w", instance, err)
		}
		if err := b.Register(instance); err != nil {
			return nil, fmt.Errorf("register %T with broker: %w", instance, err)
		}
		return instance, nil
	})
}

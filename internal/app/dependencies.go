package app

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/nfrund/eventbroker/internal/broker"
	"github.com/nfrund/eventbroker/internal/config"
	"github.com/nfrund/eventbroker/internal/container"
	"github.com/nfrund/eventbroker/internal/demo"
	"github.com/nfrund/eventbroker/internal/relay"
)

// App holds the wired broker, its injector and the optional relay.
type App struct {
	Injector *do.RootScope
	Broker   *broker.Broker
	Relay    *relay.Relay
}

// New builds the injector, the shared broker and the demo components. The
// components are constructed, and registered, on first resolution.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := []broker.Option{broker.WithLogger(logger)}
	var r *relay.Relay
	if cfg.Relay.Enabled {
		r = relay.New(cfg.Relay, logger)
		opts = append(opts, broker.WithFireHook(r.Hook()))
	}

	injector := container.New(opts...)
	provideDemo(injector, logger)

	b, err := container.Broker(injector)
	if err != nil {
		if r != nil {
			_ = r.Close()
		}
		return nil, err
	}

	return &App{
		Injector: injector,
		Broker:   b,
		Relay:    r,
	}, nil
}

// provideDemo registers the demo components with the injector.
func provideDemo(i do.Injector, logger *slog.Logger) {
	container.ProvideRegistered(i, func(do.Injector) (*demo.Ticker, error) {
		return demo.NewTicker(), nil
	})
	container.ProvideRegistered(i, func(do.Injector) (*demo.Counter, error) {
		return demo.NewCounter("primary"), nil
	})
	container.ProvideRegistered(i, func(do.Injector) (*demo.Auditor, error) {
		return demo.NewAuditor(logger), nil
	})
}

// Components resolves the demo components, wiring them into the broker.
func (a *App) Components() (*demo.Ticker, *demo.Counter, *demo.Auditor, error) {
	counter, err := do.Invoke[*demo.Counter](a.Injector)
	if err != nil {
		return nil, nil, nil, err
	}
	auditor, err := do.Invoke[*demo.Auditor](a.Injector)
	if err != nil {
		return nil, nil, nil, err
	}
	ticker, err := do.Invoke[*demo.Ticker](a.Injector)
	if err != nil {
		return nil, nil, nil, err
	}
	return ticker, counter, auditor, nil
}

// Close releases the relay, if any.
func (a *App) Close() error {
	if a.Relay != nil {
		return a.Relay.Close()
	}
	return nil
}

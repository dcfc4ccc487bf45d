package broker_test

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/nfrund/eventbroker/internal/broker"
)

var errBoom = errors.New("boom")

// subscriber counts its invocations through a counter it does not own, so the
// count stays readable after the subscriber is collected.
type subscriber struct {
	name  string
	calls *atomic.Int64
	log   *callLog
	fail  error
}

func newSubscriber(name string, log *callLog) *subscriber {
	return &subscriber{name: name, calls: new(atomic.Int64), log: log}
}

func (s *subscriber) handle() error {
	s.calls.Add(1)
	if s.log != nil {
		s.log.record(s.name)
	}
	return s.fail
}

// marker is a zero-size subscriber type.
type marker struct{}

func (*marker) handle() error { return nil }

// tally is small and pointer-free, so the runtime may batch it with other
// allocations.
type tally struct{ n int64 }

func (t *tally) handle() error {
	t.n++
	return nil
}

func (s *subscriber) count() int64 {
	return s.calls.Load()
}

// callLog records the order in which handlers ran.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) record(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.calls))
	copy(out, l.calls)
	return out
}

// publisher exposes one event, like the objects wired by AddPublisher.
type publisher struct {
	name   string
	Raised broker.Event
}

func (p *publisher) trigger() error {
	return p.Raised.Emit()
}

var raisedEvent = broker.EventOf(func(p *publisher) *broker.Event { return &p.Raised })

// stubDiscoverer returns fixed bindings per object.
type stubDiscoverer struct {
	bindings map[any]func() broker.Bindings
	err      error
	calls    int
}

func (d *stubDiscoverer) Discover(obj any) (broker.Bindings, error) {
	d.calls++
	if d.err != nil {
		return broker.Bindings{}, d.err
	}
	build, ok := d.bindings[obj]
	if !ok {
		return broker.Bindings{}, nil
	}
	return build(), nil
}

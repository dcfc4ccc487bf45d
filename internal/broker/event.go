package broker

import (
	"fmt"
	"slices"
	"sync"
)

// Event is a callback slot that publishers embed as a field. The zero value
// is ready to use. An Event must not be copied after first use.
type Event struct {
	mu       sync.Mutex
	handlers []func() error
}

// AddHandler appends h to the handlers run by Emit. A nil h is ignored.
func (e *Event) AddHandler(h func() error) {
	if h == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, h)
}

// Emit runs the handlers in the order they were added and stops at the
// first error, which it returns.
func (e *Event) Emit() error {
	e.mu.Lock()
	handlers := slices.Clone(e.handlers)
	e.mu.Unlock()

	for _, h := range handlers {
		if err := h(); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of installed handlers.
func (e *Event) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers)
}

// EventBinding installs callback on one event of source.
type EventBinding func(source any, callback func() error) error

// EventOf returns a binding for the Event that slot selects on a *T source.
// It returns nil when slot is nil.
func EventOf[T any](slot func(*T) *Event) EventBinding {
	if slot == nil {
		return nil
	}
	return func(source any, callback func() error) error {
		target, ok := source.(*T)
		if !ok || target == nil {
			return invalidArgument("", "source", fmt.Sprintf("source is %T, want %T", source, target))
		}
		event := slot(target)
		if event == nil {
			return invalidArgument("", "event", fmt.Sprintf("%T has no event to bind", target))
		}
		event.AddHandler(callback)
		return nil
	}
}

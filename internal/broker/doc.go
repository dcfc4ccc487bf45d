// Package broker provides an in-process, topic-based event broker.
//
// Components publish named events and other components subscribe to those
// names without holding references to each other. The broker holds its
// subscribers weakly: registering an object never extends its lifetime, and
// once the last strong reference elsewhere is gone the subscription goes
// inert and is purged the next time its topic is fired.
//
// Subscribers are registered with a target pointer and a method that takes
// that pointer:
//
//	type Counter struct {
//		name string
//		hits int
//	}
//
//	func (c *Counter) OnTick() error {
//		c.hits++
//		return nil
//	}
//
//	b := broker.New()
//	err := broker.AddSubscriber(b, "demo.tick", counter, (*Counter).OnTick)
//
// The method must not close over the target, otherwise the target can never
// be collected.
//
// Collection is up to the Go runtime. Zero-size subscriber types are rejected,
// and pointer-free types under 16 bytes can share an allocation with other
// objects and stay alive, and subscribed, until all of them are unreachable.
// Subscriber types should hold at least one pointer field.
//
// Publishers expose an Event field. AddPublisher installs a callback on it
// that fires every bound topic, in order, whenever the event is emitted:
//
//	type Ticker struct{ Ticked broker.Event }
//
//	err := b.AddPublisher([]string{"demo.tick"}, ticker,
//		broker.EventOf(func(t *Ticker) *broker.Event { return &t.Ticked }))
//
//	_ = ticker.Ticked.Emit() // fires "demo.tick"
//
// Register asks a Discoverer for an object's declared bindings and wires all of
// them; see package discovery for the declarative catalog used by the
// application.
//
// Dispatch is synchronous. Fire invokes live subscribers in registration order
// on the caller's goroutine, and the first handler error aborts the pass and
// is returned unchanged. Removing dead subscribers swaps the last entry into
// the freed slot, so registration order only holds until the first compaction
// of a topic.
package broker

// Package discovery provides a declarative catalog of publish and subscribe
// bindings, keyed by Go type.
//
// Types declare their bindings once, usually from an init function next to
// the type:
//
//	func init() {
//		discovery.Describe[Counter](discovery.Default()).
//			Subscribe("demo.tick", (*Counter).OnTick)
//
//		discovery.Describe[Ticker](discovery.Default()).
//			Publish(func(t *Ticker) *broker.Event { return &t.Ticked }, "demo.tick", "demo.audit")
//	}
//
// A Catalog implements broker.Discoverer, so passing it to
// broker.WithDiscoverer makes broker.Register wire every *Counter and *Ticker
// it is given. Only declared bindings are ever reported.
package discovery

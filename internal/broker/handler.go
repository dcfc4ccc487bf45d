package broker

import (
	"errors"
	"reflect"
	"weak"

	"github.com/google/uuid"
)

// handlerRef is one subscription held by the registry.
type handlerRef interface {
	// id identifies the subscription in logs.
	id() string

	// resolve checks the target once. When it is still alive the returned
	// func holds a strong reference to it until the func is dropped.
	resolve() (func() error, bool)

	// alive reports whether the target has not been collected.
	alive() bool

	// batched reports whether the target may share its allocation with
	// unrelated objects, in which case it can outlive its last reference.
	batched() bool
}

// tinyAllocSize is the runtime's tiny allocator block size. Pointer-free
// objects smaller than this are packed together into one block, which is
// only freed once every object in it is unreachable.
const tinyAllocSize = 16

// weakHandler binds a method to a weakly held target.
type weakHandler[T any] struct {
	ref    string
	target weak.Pointer[T]
	method func(*T) error
	tiny   bool
}

var _ handlerRef = (*weakHandler[struct{}])(nil)

func (h *weakHandler[T]) id() string {
	return h.ref
}

func (h *weakHandler[T]) resolve() (func() error, bool) {
	target := h.target.Value()
	if target == nil {
		return nil, false
	}
	return func() error {
		return h.method(target)
	}, true
}

func (h *weakHandler[T]) alive() bool {
	return h.target.Value() != nil
}

func (h *weakHandler[T]) batched() bool {
	return h.tiny
}

// hasPointers reports whether values of t contain pointers the garbage
// collector scans.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Slice, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

// Ref is a subscription that has not been added to a broker yet: a weak
// reference to a target plus the method to call on it. The zero Ref is
// invalid.
type Ref struct {
	handler handlerRef
	err     error
}

// Bind creates a Ref calling method on target. The broker never keeps target
// alive; method receives the target as its argument and must not capture it.
// A nil target or method yields a Ref that every broker rejects with
// ErrInvalidArgument.
//
// Zero-size types are rejected: all their values share one address that is
// never freed, so the subscription could never go inert. Pointer-free types
// smaller than 16 bytes are accepted but may be packed into one allocation
// with unrelated objects, and then stay reachable, and keep being invoked,
// until every object in that allocation is unreachable. Give subscribers at
// least one pointer field to have them released promptly.
func Bind[T any](target *T, method func(*T) error) Ref {
	if target == nil {
		return Ref{err: invalidArgument("", "target", "subscriber target cannot be nil")}
	}
	if method == nil {
		return Ref{err: invalidArgument("", "method", "subscriber method cannot be nil")}
	}
	typ := reflect.TypeFor[T]()
	if typ.Size() == 0 {
		return Ref{err: invalidArgument("", "target", "subscriber type "+typ.String()+" has zero size")}
	}
	return Ref{
		handler: &weakHandler[T]{
			ref:    uuid.NewString(),
			target: weak.Make(target),
			method: method,
			tiny:   typ.Size() < tinyAllocSize && !hasPointers(typ),
		},
	}
}

// ID returns the subscription identifier, or "" for an invalid Ref.
func (r Ref) ID() string {
	if r.handler == nil {
		return ""
	}
	return r.handler.id()
}

// Alive reports whether the bound target is still reachable.
func (r Ref) Alive() bool {
	return r.handler != nil && r.handler.alive()
}

func (r Ref) validate(topic string) error {
	if r.err != nil {
		var e *Error
		if errors.As(r.err, &e) {
			withTopic := *e
			withTopic.Topic = topic
			return &withTopic
		}
		return r.err
	}
	if r.handler == nil {
		return invalidArgument(topic, "ref", "subscription is not bound")
	}
	return nil
}

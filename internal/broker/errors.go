package broker

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is matched by every registration error caused by a
	// missing target, method, source, event binding or topic list.
	ErrInvalidArgument = errors.New("broker: invalid argument")

	// ErrNoDiscoverer is returned by Register when the broker was built
	// without a Discoverer.
	ErrNoDiscoverer = errors.New("broker: no discoverer configured")
)

// ErrorKind classifies broker errors.
type ErrorKind string

const (
	// KindInvalidArgument marks a rejected registration argument.
	KindInvalidArgument ErrorKind = "invalid_argument"
	// KindNoDiscoverer marks a Register call on a broker without a Discoverer.
	KindNoDiscoverer ErrorKind = "no_discoverer"
)

// Error is the structured error returned by registration calls.
// Errors produced by subscriber handlers are never wrapped in an Error.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Topic   string    `json:"topic,omitempty"`
	Arg     string    `json:"arg,omitempty"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Arg != "" {
		msg = fmt.Sprintf("%s: %s", e.Arg, msg)
	}
	if e.Topic != "" {
		msg = fmt.Sprintf("topic %q: %s", e.Topic, msg)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return "broker: " + msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindInvalidArgument:
		return target == ErrInvalidArgument
	case KindNoDiscoverer:
		return target == ErrNoDiscoverer
	}
	return false
}

func invalidArgument(topic, arg, message string) *Error {
	return &Error{
		Kind:    KindInvalidArgument,
		Topic:   topic,
		Arg:     arg,
		Message: message,
	}
}

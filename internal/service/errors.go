// Package service implements the booking engine: validation, overlap
// checking, booking code generation and the availability queries that
// sit between the HTTP handlers and the repositories.
package service

import "errors"

// Kind classifies a service error so the transport layer can map it to
// a status code without parsing message text.
type Kind int

const (
	// KindNotFound marks a missing table or booking.
	KindNotFound Kind = iota + 1
	// KindInvalidArgument marks malformed input: empty name or phone,
	// a non-future start, end before start, guest count out of range.
	KindInvalidArgument
	// KindConflict marks a time-range overlap on the requested table.
	KindConflict
	// KindInvalidState marks an operation that is not valid for the
	// booking's current status, such as cancelling twice.
	KindInvalidState
	// KindStorage marks an underlying store failure.
	KindStorage
)

// Error carries a classification and a short human-readable message
// suitable for direct display to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, set for KindStorage
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the classification from err.  It returns zero when
// err is not a service error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

func notFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func invalidArgument(msg string) error {
	return &Error{Kind: KindInvalidArgument, Message: msg}
}

func conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func invalidState(msg string) error {
	return &Error{Kind: KindInvalidState, Message: msg}
}

func storage(err error) error {
	return &Error{Kind: KindStorage, Message: "storage error", Err: err}
}

// Package tx error types.
//
// Failures split into two categories with distinct types:
//
//   - ParseError: data errors, malformed or truncated byte streams. These are
//     expected when decoding untrusted input and never yield a partial
//     Transaction.
//   - OwnershipError: programming errors, attaching an input or output that
//     is already attached to a different transaction. This indicates a caller
//     bug, not bad external data, and is never silently repaired by
//     reassigning ownership.
package tx

import "fmt"

// ParseError is returned when transaction bytes cannot be decoded.
//
// Common causes: short reads, truncated varints, malformed witness length
// fields, or an invalid witness flag byte.
type ParseError struct {
	Field   string // Wire field being read when the failure occurred
	Message string // Human-readable error message
	Cause   error  // Underlying read error (if any)
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tx parse error: %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("tx parse error: %s: %s", e.Field, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// OwnershipError is returned when an input or output that is attached to one
// transaction is attached to another without being detached first.
//
// This is an invariant violation on the caller's side. Re-attaching an entity
// to the transaction that already owns it is a no-op and does not produce
// this error.
type OwnershipError struct {
	Entity  string // "input" or "output"
	Message string // Human-readable error message
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("ownership violation: %s: %s", e.Entity, e.Message)
}

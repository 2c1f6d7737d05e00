// Package errors defines the error taxonomy of the FTML extraction engine.
//
// Every failure the engine can produce is one of the types below. Errors are
// returned, never logged-and-swallowed; the single exception is MissingKey,
// which callers processing auxiliary keys may treat as "attribute absent,
// skip with a diagnostic". The host decides whether an error aborts the whole
// document or only the subtree being walked.
package errors

import (
	"fmt"

	"github.com/dgallion1/ftml/keys"
)

// Extraction is implemented by every error type in this package.
type Extraction interface {
	error
	extraction()
}

// MissingKey reports an absent attribute for a key a handler expected.
// In auxiliary contexts this is routinely downgraded to a no-op.
type MissingKey struct {
	Key keys.Key
}

func (e MissingKey) Error() string {
	return fmt.Sprintf("missing attribute %s", e.Key.Attr())
}

// InvalidValue reports malformed attribute content for a given key.
type InvalidValue struct {
	Key   keys.Key
	Value string
}

func (e InvalidValue) Error() string {
	return fmt.Sprintf("invalid value %q for attribute %s", e.Value, e.Key.Attr())
}

// UnexpectedEndOf reports a close with no matching open frame on the stack,
// or a popped frame of the wrong kind. This is a structural fault in the
// source document.
type UnexpectedEndOf struct {
	Key keys.Key
}

func (e UnexpectedEndOf) Error() string {
	return fmt.Sprintf("unexpected end of %s", e.Key)
}

// NotIn reports an element that requires a particular enclosing frame which
// is absent from the open stack.
type NotIn struct {
	Key keys.Key
	// Required names the container kind that was looked for, e.g.
	// "a module or structure".
	Required string
}

func (e NotIn) Error() string {
	return fmt.Sprintf("%s not in %s", e.Key, e.Required)
}

// InvalidIn reports an element that occurred inside a frame that forbids it.
type InvalidIn struct {
	Key keys.Key
	// Container names the offending enclosing frame.
	Container string
}

func (e InvalidIn) Error() string {
	return fmt.Sprintf("%s invalid in %s", e.Key, e.Container)
}

// DuplicateValue reports a second assignment to a once-only slot
// (type, definiens, return type, argument types, title).
type DuplicateValue struct {
	Key keys.Key
}

func (e DuplicateValue) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Key)
}

// MismatchedArgument reports two different terms assigned to the same
// argument position. Assigning a structurally equal term is a no-op, not an
// error.
type MismatchedArgument struct {
	Index int // 1-based argument position
}

func (e MismatchedArgument) Error() string {
	return fmt.Sprintf("mismatched argument at position %d", e.Index)
}

// MismatchedBoundArgument is MismatchedArgument for binding-bound positions.
type MismatchedBoundArgument struct {
	Index int
}

func (e MismatchedBoundArgument) Error() string {
	return fmt.Sprintf("mismatched bound argument at position %d", e.Index)
}

// MissingArgument reports an unfilled argument position at term close time.
// Index is the lowest unfilled 1-based position.
type MissingArgument struct {
	Index int
}

func (e MissingArgument) Error() string {
	return fmt.Sprintf("missing argument %d", e.Index)
}

// EncodingError reports a failure serializing a value into the blob buffer.
type EncodingError struct {
	What string
	Err  error
}

func (e EncodingError) Error() string {
	return fmt.Sprintf("encoding %s: %v", e.What, e.Err)
}

func (e EncodingError) Unwrap() error { return e.Err }

func (MissingKey) extraction()              {}
func (InvalidValue) extraction()            {}
func (UnexpectedEndOf) extraction()         {}
func (NotIn) extraction()                   {}
func (InvalidIn) extraction()               {}
func (DuplicateValue) extraction()          {}
func (MismatchedArgument) extraction()      {}
func (MismatchedBoundArgument) extraction() {}
func (MissingArgument) extraction()         {}
func (EncodingError) extraction()           {}

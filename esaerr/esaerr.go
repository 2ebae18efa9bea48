// Package esaerr defines the error taxonomy shared by every component of
// the indexing engine. Expected, recoverable failures (bad input, invalid
// configuration, overflowed packed fields) are returned as *Error values;
// broken invariants use Go's native panic and are expected to propagate to
// the enclosing CLI boundary.
package esaerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an Error for callers that want to branch on failure mode
// without string-matching messages.
type Kind int

const (
	// Other is the zero value and should not be constructed directly.
	Other Kind = iota
	// InputIo means a file could not be opened, read, or written.
	InputIo
	// InputFormat means a FASTA/FASTQ record was malformed.
	InputFormat
	// IncompatiblePair means paired inputs mix DNA and protein.
	IncompatiblePair
	// ConfigInvalid means option combination makes no sense.
	ConfigInvalid
	// BitOverflow means a packed-record field exceeded its declared width.
	BitOverflow
	// OutOfMemory surfaces from the allocator.
	OutOfMemory
	// AlphabetTooLarge means a SA-IS recursion needs an alphabet too wide
	// for the base type it would index.
	AlphabetTooLarge
	// EmptyInput means a suffix array was requested for a zero-length text.
	EmptyInput
)

func (k Kind) String() string {
	switch k {
	case InputIo:
		return "InputIo"
	case InputFormat:
		return "InputFormat"
	case IncompatiblePair:
		return "IncompatiblePair"
	case ConfigInvalid:
		return "ConfigInvalid"
	case BitOverflow:
		return "BitOverflow"
	case OutOfMemory:
		return "OutOfMemory"
	case AlphabetTooLarge:
		return "AlphabetTooLarge"
	case EmptyInput:
		return "EmptyInput"
	default:
		return "Other"
	}
}

// Error is the concrete error type returned by every fallible operation in
// this module.
type Error struct {
	Kind Kind
	msg  string
	err  error // underlying cause, may be nil
}

// New constructs an Error of the given kind from a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a Kind to an existing error, preserving it as the Cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), err: errors.WithStack(err)}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

// Cause implements the github.com/pkg/errors Causer interface.
func (e *Error) Cause() error { return e.err }

// Unwrap supports errors.Is/errors.As from the standard library.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether err (or any error in its Cause chain) has the given
// Kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind == kind {
				return true
			}
			err = e.err
			continue
		}
		cause := errors.Cause(err)
		if cause == err {
			return false
		}
		err = cause
	}
	return false
}

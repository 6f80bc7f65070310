// Package colerr defines the error taxonomy shared by the scan engine's
// packages, in the style of the standard library's *fs.PathError /
// *net.OpError: a small struct carrying a stable Kind plus the failing
// operation and an optional wrapped cause, so callers can branch on Kind
// with errors.Is/errors.As instead of parsing strings.
package colerr

import "fmt"

// Kind is the stable error taxonomy from the scan engine's contract. It is
// never presented as an exception in the non-local-transfer sense — it is
// always returned as an ordinary Go error value.
type Kind int

const (
	// InvalidArgument covers out-of-range positions, width mismatches
	// between a scan and its target bit-vector, unknown operators, and
	// literal overflow.
	InvalidArgument Kind = iota
	// WidthExceeded means an append saw a code not representable at the
	// column's configured width. Suggested carries the minimum sufficient
	// width.
	WidthExceeded
	// UsageError covers duplicate column names, removing a column that
	// doesn't exist, and advancing an iterator past its end before reading.
	UsageError
	// LengthMismatch covers bit-vector-to-column, column-to-column, and
	// block-to-block length disagreements.
	LengthMismatch
	// TypeMismatch covers a column-vs-column scan where the two sides have
	// different storage layouts or different configured widths.
	TypeMismatch
	// IOError covers file open/read/write/flush/close failures.
	IOError
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid_argument"
	case WidthExceeded:
		return "width_exceeded"
	case UsageError:
		return "usage_error"
	case LengthMismatch:
		return "length_mismatch"
	case TypeMismatch:
		return "type_mismatch"
	case IOError:
		return "io_error"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned throughout the engine.
type Error struct {
	Kind Kind
	Op   string // the operation that failed, e.g. "Block.And"
	Path string // set only for IOError
	Errno error // the wrapped OS error, set only for IOError
	Suggested uint32 // set only for WidthExceeded

	msg string // optional extra detail
}

func (e *Error) Error() string {
	switch e.Kind {
	case IOError:
		if e.Errno != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Errno)
		}
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Path, e.Kind)
	case WidthExceeded:
		return fmt.Sprintf("%s: %s (suggested width %d)", e.Op, e.Kind, e.Suggested)
	default:
		if e.msg != "" {
			return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.msg)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

// Unwrap exposes the wrapped I/O error, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Errno
}

// New builds a plain error of the given kind.
func New(op string, kind Kind, msg string) *Error {
	return &Error{Op: op, Kind: kind, msg: msg}
}

// InvalidArg is a convenience constructor for the common case.
func InvalidArg(op, msg string) *Error {
	return New(op, InvalidArgument, msg)
}

// LenMismatch is a convenience constructor for length-mismatch errors.
func LenMismatch(op, msg string) *Error {
	return New(op, LengthMismatch, msg)
}

// TypeMismatchErr is a convenience constructor for type-mismatch errors.
func TypeMismatchErr(op, msg string) *Error {
	return New(op, TypeMismatch, msg)
}

// Usage is a convenience constructor for usage errors.
func Usage(op, msg string) *Error {
	return New(op, UsageError, msg)
}

// WidthExceededErr reports that a code did not fit at the configured width.
func WidthExceededErr(op string, suggested uint32) *Error {
	return &Error{Op: op, Kind: WidthExceeded, Suggested: suggested}
}

// IO wraps an OS-level I/O failure.
func IO(op, path string, err error) *Error {
	return &Error{Op: op, Kind: IOError, Path: path, Errno: err}
}

// Is reports whether err itself is a *Error of the given kind. It does not
// look through wrapping; a *Error wrapped inside another error needs
// errors.As.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

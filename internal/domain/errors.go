package domain

import (
	"context"
	"errors"
	"io/fs"
)

// Errors returned while following a file. Callers match them with errors.Is;
// the underlying cause stays reachable through the wrap chain.
var (
	// ErrNotFound is returned when the target file is absent and the
	// missing-file policy is to fail.
	ErrNotFound = errors.New("logtail: file not found")

	// ErrPermissionDenied is returned when the file cannot be opened or read.
	ErrPermissionDenied = errors.New("logtail: permission denied")

	// ErrInterrupted is returned when following stops on operator cancellation.
	ErrInterrupted = errors.New("logtail: interrupted")

	// ErrUnexpectedIO covers every other I/O failure.
	ErrUnexpectedIO = errors.New("logtail: unexpected I/O error")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("logtail: invalid configuration")
)

// Kind is the class of a failure in the error taxonomy.
type Kind int

const (
	KindNone Kind = iota
	KindNotFound
	KindPermissionDenied
	KindInterrupted
	KindUnexpectedIO
	KindInvalidConfig
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindNotFound:
		return "NotFound"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindInterrupted:
		return "Interrupted"
	case KindUnexpectedIO:
		return "UnexpectedIO"
	case KindInvalidConfig:
		return "InvalidConfig"
	default:
		return "Unknown"
	}
}

// Classify maps err onto the taxonomy. Both the sentinels above and the
// standard library causes (fs.ErrNotExist, fs.ErrPermission, context
// cancellation) are recognised.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInterrupted),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return KindInterrupted
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, fs.ErrPermission):
		return KindPermissionDenied
	case errors.Is(err, ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, ErrInvalidConfig):
		return KindInvalidConfig
	default:
		return KindUnexpectedIO
	}
}

// Wrap annotates an I/O error with the sentinel matching its kind, keeping
// the original cause in the chain. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var sentinel error
	switch Classify(err) {
	case KindInterrupted:
		sentinel = ErrInterrupted
	case KindPermissionDenied:
		sentinel = ErrPermissionDenied
	case KindNotFound:
		sentinel = ErrNotFound
	case KindInvalidConfig:
		sentinel = ErrInvalidConfig
	default:
		sentinel = ErrUnexpectedIO
	}
	if errors.Is(err, sentinel) {
		return &opError{op: op, err: err}
	}
	return &opError{op: op, err: err, sentinel: sentinel}
}

type opError struct {
	op       string
	err      error
	sentinel error
}

func (e *opError) Error() string { return e.op + ": " + e.err.Error() }

func (e *opError) Unwrap() []error {
	if e.sentinel == nil {
		return []error{e.err}
	}
	return []error{e.sentinel, e.err}
}

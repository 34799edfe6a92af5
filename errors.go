package assetkit

import (
	"github.com/pkg/errors"
)

var (
	// ErrUsage reports a malformed command line.
	ErrUsage = errors.New("usage")
	// ErrInvalidArgument reports a parameter that is rejected before any work starts.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIO reports a file system, codec or external process failure.
	ErrIO = errors.New("io")
)

func invalidArgf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// ioError tags err as an ErrIO failure while keeping it reachable through errors.Is.
func ioError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &taggedError{kind: ErrIO, err: errors.Wrapf(err, format, args...)}
}

type taggedError struct {
	kind error
	err  error
}

func (e *taggedError) Error() string { return e.err.Error() }

func (e *taggedError) Unwrap() []error { return []error{e.kind, e.err} }

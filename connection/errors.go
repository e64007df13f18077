package connection

import "errors"

var (
	// ErrUnknownScheme is returned by Create and Aggregate when the
	// parameter bag names a scheme with no registered initializer.
	ErrUnknownScheme = errors.New("unknown connection scheme")

	// ErrInvalidInitializer is returned by Define when the supplied
	// value is neither a Constructor nor a LazyInitializer.
	ErrInvalidInitializer = errors.New("invalid connection initializer")

	// ErrContractViolation is returned by Create when an initializer
	// produced a nil connection. This is a bug in the initializer, not
	// a recoverable condition.
	ErrContractViolation = errors.New("initializer returned an invalid connection")
)

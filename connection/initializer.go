package connection

import "github.com/Konsultn-Engineering/kvconn/params"

// Constructor builds a connection directly from a parameter bag. The
// Connection return type makes capability conformance a compile-time
// property of every registered constructor. Connections built through a
// Constructor are prepared by the factory (implicit AUTH/SELECT wiring).
type Constructor func(p *params.Parameters) Connection

// LazyInitializer builds a connection from a parameter bag with access
// to the factory itself, so it can recursively create sub-connections
// and assemble composites. Connections built through a LazyInitializer
// are never auto-prepared; the initializer owns all implicit setup.
type LazyInitializer func(p *params.Parameters, factory *Factory) (Connection, error)

// initializer is the registry's tagged union: exactly one field is set.
type initializer struct {
	ctor Constructor
	lazy LazyInitializer
}

// newInitializer validates and wraps a registered value. Accepted
// shapes are Constructor, LazyInitializer and their underlying function
// signatures; anything else fails with ErrInvalidInitializer.
func newInitializer(value any) (initializer, error) {
	switch fn := value.(type) {
	case Constructor:
		if fn == nil {
			return initializer{}, ErrInvalidInitializer
		}
		return initializer{ctor: fn}, nil
	case func(*params.Parameters) Connection:
		if fn == nil {
			return initializer{}, ErrInvalidInitializer
		}
		return initializer{ctor: fn}, nil
	case LazyInitializer:
		if fn == nil {
			return initializer{}, ErrInvalidInitializer
		}
		return initializer{lazy: fn}, nil
	case func(*params.Parameters, *Factory) (Connection, error):
		if fn == nil {
			return initializer{}, ErrInvalidInitializer
		}
		return initializer{lazy: fn}, nil
	default:
		return initializer{}, ErrInvalidInitializer
	}
}

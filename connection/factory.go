package connection

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/kvconn/command"
	"github.com/Konsultn-Engineering/kvconn/params"
)

const defaultParseCacheSize = 128

// Factory maps URI schemes to initializers and orchestrates lookup,
// construction, validation and preparation of connections. Each factory
// owns its own scheme table; independent factories with different
// scheme sets may coexist.
type Factory struct {
	mu      sync.RWMutex
	schemes map[string]initializer
	parsed  *params.ParseCache
	logger  *zap.Logger
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the structured logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithParseCacheSize sizes the URI parse cache.
func WithParseCacheSize(size int) Option {
	return func(f *Factory) {
		if size > 0 {
			f.parsed = params.NewParseCache(size)
		}
	}
}

// NewFactory creates a factory pre-populated with the built-in schemes:
// "tcp", "redis" and "unix" for the stream transport, "http" for the
// HTTP bridge.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		schemes: make(map[string]initializer),
		parsed:  params.NewParseCache(defaultParseCacheSize),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.schemes["tcp"] = initializer{ctor: newStream}
	f.schemes["redis"] = initializer{ctor: newStream}
	f.schemes["unix"] = initializer{ctor: newStream}
	f.schemes["http"] = initializer{ctor: newHTTPBridge}

	return f
}

func newStream(p *params.Parameters) Connection {
	return NewStreamConnection(p)
}

func newHTTPBridge(p *params.Parameters) Connection {
	return NewHTTPConnection(p)
}

// Define registers an initializer for scheme, overwriting any previous
// registration. The value must be a Constructor or a LazyInitializer
// (or their underlying function signatures); anything else fails with
// ErrInvalidInitializer at definition time.
func (f *Factory) Define(scheme string, value any) error {
	init, err := newInitializer(value)
	if err != nil {
		return fmt.Errorf("%w for scheme %q: got %T", err, scheme, value)
	}

	f.mu.Lock()
	f.schemes[scheme] = init
	f.mu.Unlock()

	f.logger.Debug("scheme defined",
		zap.String("scheme", scheme),
		zap.Bool("lazy", init.lazy != nil),
	)
	return nil
}

// Undefine removes the initializer for scheme. Removing an unknown
// scheme is a no-op.
func (f *Factory) Undefine(scheme string) {
	f.mu.Lock()
	delete(f.schemes, scheme)
	f.mu.Unlock()

	f.logger.Debug("scheme undefined", zap.String("scheme", scheme))
}

// Create builds a connection for target, which may be a
// *params.Parameters (handed over by reference), a params.Parameters
// value, or a raw URI string normalized through the parse cache.
//
// Connections built through a Constructor get implicit setup wiring: a
// credential in the bag enqueues AUTH and a database index enqueues
// SELECT on the pending connect-command queue, in that order. A
// LazyInitializer is invoked with (parameters, factory) and is never
// auto-prepared; callers registering one own any implicit setup
// themselves. This asymmetry is deliberate: custom initializers may not
// want the default wiring.
func (f *Factory) Create(target any) (Connection, error) {
	p, err := f.normalize(target)
	if err != nil {
		return nil, err
	}

	f.mu.RLock()
	init, ok := f.schemes[p.Scheme]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, p.Scheme)
	}

	var conn Connection
	if init.lazy != nil {
		conn, err = init.lazy(p, f)
		if err != nil {
			return nil, err
		}
	} else {
		conn = init.ctor(p)
		if !isNilConnection(conn) {
			f.prepareConnection(conn)
		}
	}

	if isNilConnection(conn) {
		return nil, fmt.Errorf("%w: scheme %q", ErrContractViolation, p.Scheme)
	}

	f.logger.Debug("connection created",
		zap.String("scheme", p.Scheme),
		zap.String("address", p.Address()),
	)
	return conn, nil
}

// Aggregate populates agg from entries, in order. Each entry is either
// a ready Connection, used unchanged, or a raw target passed to Create.
// There is no rollback: a failure partway through leaves the aggregate
// holding whatever was added before the failing entry.
func (f *Factory) Aggregate(agg Aggregate, entries ...any) error {
	for i, entry := range entries {
		conn, ok := entry.(Connection)
		if !ok {
			var err error
			conn, err = f.Create(entry)
			if err != nil {
				return fmt.Errorf("aggregate entry %d: %w", i, err)
			}
		}
		agg.Add(conn)
	}
	return nil
}

// prepareConnection enqueues implicit session-setup commands from the
// connection's own parameter bag. AUTH must precede SELECT: the server
// rejects session-scoped commands before authentication.
func (f *Factory) prepareConnection(conn Connection) {
	p := conn.Parameters()
	if p == nil {
		return
	}
	if p.HasCredential() {
		conn.AddConnectCommand(command.Auth(p.Username, p.Password))
	}
	if p.HasDatabase() {
		conn.AddConnectCommand(command.Select(p.Database))
	}
}

func (f *Factory) normalize(target any) (*params.Parameters, error) {
	switch v := target.(type) {
	case *params.Parameters:
		if v == nil {
			return nil, fmt.Errorf("nil connection parameters")
		}
		return v, nil
	case params.Parameters:
		return &v, nil
	case string:
		return f.parsed.Parse(v)
	default:
		return nil, fmt.Errorf("unsupported connection target %T", target)
	}
}

// isNilConnection catches both untyped and typed nil interface values
// coming out of an initializer.
func isNilConnection(conn Connection) bool {
	if conn == nil {
		return true
	}
	rv := reflect.ValueOf(conn)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

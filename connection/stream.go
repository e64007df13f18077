package connection

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/kvconn/command"
	"github.com/Konsultn-Engineering/kvconn/params"
)

// StreamConnection is the standard stream-based transport: a lazily
// dialed tcp or unix socket. The transport is not touched at
// construction time; Connect dials and immediately flushes the pending
// connect-command queue so that session setup (AUTH, SELECT) lands
// before any user command. Replies to flushed commands are left for the
// command-execution layer that owns the socket afterwards.
type StreamConnection struct {
	id     uuid.UUID
	params *params.Parameters
	logger *zap.Logger

	mu       sync.Mutex
	conn     net.Conn
	pending  []command.Command
	connects int
}

// StreamOption configures a StreamConnection.
type StreamOption func(*StreamConnection)

// WithStreamLogger sets the structured logger for the connection.
func WithStreamLogger(logger *zap.Logger) StreamOption {
	return func(c *StreamConnection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewStreamConnection creates a disconnected stream connection owning p.
func NewStreamConnection(p *params.Parameters, opts ...StreamOption) *StreamConnection {
	c := &StreamConnection{
		id:     uuid.New(),
		params: p,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the connection's unique identity.
func (c *StreamConnection) ID() uuid.UUID {
	return c.id
}

// Connect dials the endpoint and flushes the connect-command queue.
// Connecting an already-connected connection is a no-op. The queue is
// retained so a later reconnect replays the same session setup.
func (c *StreamConnection) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	network := "tcp"
	if c.params.Scheme == "unix" {
		network = "unix"
	}

	dialer := net.Dialer{Timeout: c.params.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, network, c.params.Address())
	if err != nil {
		return fmt.Errorf("connect %s %s: %w", network, c.params.Address(), err)
	}

	if err := c.flushLocked(conn); err != nil {
		conn.Close()
		return err
	}

	c.conn = conn
	c.connects++
	c.logger.Debug("stream connected",
		zap.String("id", c.id.String()),
		zap.String("address", c.params.Address()),
		zap.Int("flushed", len(c.pending)),
	)
	return nil
}

// ConnectWithRetry dials with backoff between attempts.
func (c *StreamConnection) ConnectWithRetry(ctx context.Context, opts RetryOptions) error {
	return retryConnect(ctx, opts, c.Connect)
}

// flushLocked writes all pending commands to conn in FIFO order as one
// buffer. Caller holds c.mu.
func (c *StreamConnection) flushLocked(conn net.Conn) error {
	if len(c.pending) == 0 {
		return nil
	}
	var buf []byte
	for _, cmd := range c.pending {
		buf = cmd.AppendRESP(buf)
	}
	if _, err := conn.Write(buf); err != nil {
		return fmt.Errorf("flush connect commands: %w", err)
	}
	return nil
}

func (c *StreamConnection) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *StreamConnection) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *StreamConnection) Parameters() *params.Parameters {
	return c.params
}

func (c *StreamConnection) AddConnectCommand(cmd command.Command) {
	c.mu.Lock()
	c.pending = append(c.pending, cmd)
	c.mu.Unlock()
}

// ConnectCommands returns a snapshot of the pending connect-command
// queue in FIFO order.
func (c *StreamConnection) ConnectCommands() []command.Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]command.Command, len(c.pending))
	copy(out, c.pending)
	return out
}

// Conn exposes the underlying transport for the command-execution
// layer. Nil while disconnected.
func (c *StreamConnection) Conn() net.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// Stats returns connection counters.
func (c *StreamConnection) Stats() ConnectionStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ConnectionStats{
		Connected:       c.conn != nil,
		Connects:        c.connects,
		PendingCommands: len(c.pending),
	}
}

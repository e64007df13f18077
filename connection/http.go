package connection

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/kvconn/command"
	"github.com/Konsultn-Engineering/kvconn/params"
)

// HTTPConnection bridges the key-value protocol over a Webdis-style
// HTTP endpoint: each command is POSTed as /CMD/arg/... path segments.
// The bridge is connectionless, so Connect only replays the pending
// connect-command queue and marks the session up.
type HTTPConnection struct {
	id     uuid.UUID
	params *params.Parameters
	client *http.Client
	base   string
	logger *zap.Logger

	mu        sync.Mutex
	connected bool
	pending   []command.Command
}

// HTTPOption configures an HTTPConnection.
type HTTPOption func(*HTTPConnection)

// WithHTTPClient overrides the HTTP client used by the bridge.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *HTTPConnection) {
		if client != nil {
			c.client = client
		}
	}
}

// WithHTTPLogger sets the structured logger for the connection.
func WithHTTPLogger(logger *zap.Logger) HTTPOption {
	return func(c *HTTPConnection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewHTTPConnection creates a disconnected HTTP bridge connection
// owning p.
func NewHTTPConnection(p *params.Parameters, opts ...HTTPOption) *HTTPConnection {
	c := &HTTPConnection{
		id:     uuid.New(),
		params: p,
		base:   fmt.Sprintf("http://%s", p.Address()),
		client: &http.Client{Timeout: p.ConnectTimeout},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the connection's unique identity.
func (c *HTTPConnection) ID() uuid.UUID {
	return c.id
}

// Connect replays the pending connect-command queue against the bridge
// in FIFO order and marks the session connected. Connecting twice is a
// no-op. The queue is retained for reconnects.
func (c *HTTPConnection) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	for _, cmd := range c.pending {
		if err := c.post(ctx, cmd); err != nil {
			return err
		}
	}

	c.connected = true
	c.logger.Debug("http bridge connected",
		zap.String("id", c.id.String()),
		zap.String("base", c.base),
		zap.Int("flushed", len(c.pending)),
	)
	return nil
}

// ConnectWithRetry connects with backoff between attempts.
func (c *HTTPConnection) ConnectWithRetry(ctx context.Context, opts RetryOptions) error {
	return retryConnect(ctx, opts, c.Connect)
}

func (c *HTTPConnection) post(ctx context.Context, cmd command.Command) error {
	segments := make([]string, len(cmd))
	for i, token := range cmd {
		segments[i] = url.PathEscape(token)
	}
	target := c.base + "/" + strings.Join(segments, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return fmt.Errorf("bridge command %s: %w", cmd.Name(), err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("bridge command %s: %w", cmd.Name(), err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("bridge command %s: unexpected status %s", cmd.Name(), resp.Status)
	}
	return nil
}

func (c *HTTPConnection) Disconnect() error {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
	return nil
}

func (c *HTTPConnection) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *HTTPConnection) Parameters() *params.Parameters {
	return c.params
}

func (c *HTTPConnection) AddConnectCommand(cmd command.Command) {
	c.mu.Lock()
	c.pending = append(c.pending, cmd)
	c.mu.Unlock()
}

// ConnectCommands returns a snapshot of the pending connect-command
// queue in FIFO order.
func (c *HTTPConnection) ConnectCommands() []command.Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]command.Command, len(c.pending))
	copy(out, c.pending)
	return out
}

// Stats returns connection counters.
func (c *HTTPConnection) Stats() ConnectionStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ConnectionStats{
		Connected:       c.connected,
		PendingCommands: len(c.pending),
	}
}

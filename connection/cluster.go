package connection

import (
	"context"
	"crypto/rand"
	"fmt"
	mrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Pick strategies for Cluster.Pick.
const (
	PickFirst      = "first"
	PickRandom     = "random"
	PickRoundRobin = "round_robin"
)

// Cluster is an aggregate connection: an ordered group of single
// connections for a multi-node topology. It owns the connections added
// to it. Add order is preserved and observable via Connections.
type Cluster struct {
	id       ulid.ULID
	strategy string

	mu      sync.RWMutex
	conns   []Connection
	pickIdx int
}

// NewCluster creates an empty aggregate with the given pick strategy
// ("" means first).
func NewCluster(strategy string) *Cluster {
	return &Cluster{
		id:       ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0)),
		strategy: strategy,
	}
}

// ID returns the cluster's monotonic identity.
func (c *Cluster) ID() ulid.ULID {
	return c.id
}

// Add appends conn to the cluster, taking ownership of it.
func (c *Cluster) Add(conn Connection) {
	c.mu.Lock()
	c.conns = append(c.conns, conn)
	c.mu.Unlock()
}

// Connections returns the member connections in add order.
func (c *Cluster) Connections() []Connection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Connection, len(c.conns))
	copy(out, c.conns)
	return out
}

// Len returns the number of member connections.
func (c *Cluster) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.conns)
}

// Pick returns a member connection according to the cluster's strategy,
// or nil for an empty cluster.
func (c *Cluster) Pick() Connection {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.conns) == 0 {
		return nil
	}

	switch c.strategy {
	case PickRandom:
		return c.conns[mrand.Intn(len(c.conns))]
	case PickRoundRobin:
		idx := c.pickIdx % len(c.conns)
		c.pickIdx++
		return c.conns[idx]
	default:
		return c.conns[0]
	}
}

// Connect connects every member, failing on the first error.
func (c *Cluster) Connect(ctx context.Context) error {
	for i, conn := range c.Connections() {
		if err := conn.Connect(ctx); err != nil {
			return fmt.Errorf("cluster member %d: %w", i, err)
		}
	}
	return nil
}

// Disconnect disconnects every member, returning the last error seen.
func (c *Cluster) Disconnect() error {
	var lastErr error
	for _, conn := range c.Connections() {
		if err := conn.Disconnect(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// IsConnected reports whether every member is connected. An empty
// cluster is not connected.
func (c *Cluster) IsConnected() bool {
	conns := c.Connections()
	if len(conns) == 0 {
		return false
	}
	for _, conn := range conns {
		if !conn.IsConnected() {
			return false
		}
	}
	return true
}

// Package connection turns endpoint parameter bags into live, lazily
// connecting session objects, and composes them into aggregate
// topologies. Construction strategies are registered per URI scheme on a
// Factory; the factory itself never performs I/O.
package connection

import (
	"context"

	"github.com/Konsultn-Engineering/kvconn/command"
	"github.com/Konsultn-Engineering/kvconn/params"
)

// Connection is a single endpoint's session object. Connections are
// built disconnected; Connect brings the transport up and flushes the
// pending connect-command queue before anything else is sent.
type Connection interface {
	Connect(ctx context.Context) error
	Disconnect() error
	IsConnected() bool
	Parameters() *params.Parameters

	// AddConnectCommand appends cmd to the pending connect-command
	// queue. Queued commands are sent in FIFO order on the first real
	// Connect; nothing is sent at enqueue time.
	AddConnectCommand(cmd command.Command)
}

// Aggregate is a composite connection owning multiple single
// connections, e.g. a multi-node grouping.
type Aggregate interface {
	Add(conn Connection)
}

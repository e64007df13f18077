package connection

// ConnectionStats represents per-connection counters.
type ConnectionStats struct {
	Connected       bool
	Connects        int
	PendingCommands int
}

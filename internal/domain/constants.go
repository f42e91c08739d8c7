package domain

import "time"

// Operational constants. Compiled defaults; validation bounds live in Limits
// and are part of the persisted document instead.
const (
	// GetMessages pagination
	DefaultMessageCount = 50

	// Timeout contracts
	StoreIOTimeout = 5 * time.Second // Max time for a document load or persist

	// Graceful shutdown
	ShutdownDrainDelay      = 500 * time.Millisecond // Let LB propagate endpoint removal
	ShutdownHTTPTimeout     = 10 * time.Second       // Max time to drain in-flight requests
	ShutdownOTELTimeout     = 5 * time.Second        // Max time to flush telemetry
	GracefulShutdownTimeout = 30 * time.Second       // Total shutdown budget
)

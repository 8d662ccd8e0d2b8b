// Package lifecycle holds shared constants for component startup and
// shutdown coordination.
package lifecycle

import "time"

// DefaultTimeout bounds graceful shutdown of servers and listeners.
const DefaultTimeout = 10 * time.Second

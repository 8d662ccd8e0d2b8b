// Package delivery defines the contract every transport entrypoint of
// the application fulfills.
package delivery

import "context"

// Delivery is a serving surface (HTTP server, worker, ...) started by
// the application runtime.
type Delivery interface {
	// Serve blocks, serving until the context is cancelled or a fatal
	// error occurs.
	Serve(ctx context.Context) error
}

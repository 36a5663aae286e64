// transport.go defines the Transport interface for event delivery.

package faultline

import "context"

// Transport delivers an encoded wire document to an endpoint.
// Implementations must be safe for concurrent use.
type Transport interface {
	// Send makes one delivery attempt and returns the HTTP status, or 200
	// for transports that are not HTTP based. Send must honor ctx.
	Send(ctx context.Context, endpoint string, payload []byte) (status int, err error)

	// Close releases resources held by the transport.
	Close() error
}

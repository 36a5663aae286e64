// Package noop provides a transport that discards all events.
// Useful for testing and for disabling delivery.
package noop

import (
	"context"
	"net/http"
)

// Transport discards all events.
type Transport struct{}

// New creates a transport that discards all events.
func New() *Transport {
	return &Transport{}
}

// Send discards the payload and reports success.
func (t *Transport) Send(ctx context.Context, endpoint string, payload []byte) (int, error) {
	return http.StatusOK, nil
}

// Close is a no-op and returns nil.
func (t *Transport) Close() error {
	return nil
}

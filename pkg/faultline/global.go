// global.go provides an optional process-wide client.

package faultline

import (
	"context"
	"sync"
)

var (
	globalMu     sync.RWMutex
	globalClient *Client
)

// Init creates a client and installs it as the process-wide client,
// replacing and closing any previous one.
func Init(dsn string, opts ...Option) (*Client, error) {
	c, err := New(dsn, opts...)
	if err != nil {
		return nil, err
	}
	if prev := SetClient(c); prev != nil {
		_ = prev.Close()
	}
	return c, nil
}

// SetClient installs c as the process-wide client and returns the previous
// one. A nil c uninstalls the client.
func SetClient(c *Client) *Client {
	globalMu.Lock()
	defer globalMu.Unlock()
	prev := globalClient
	globalClient = c
	return prev
}

// CurrentClient returns the process-wide client, or nil.
func CurrentClient() *Client {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalClient
}

// CaptureError captures err with the process-wide client. Without a client
// it does nothing.
func CaptureError(ctx context.Context, err error) (EventID, bool) {
	c := CurrentClient()
	if c == nil || err == nil {
		return "", false
	}
	return c.capture(ctx, NewEvent(""), &EventHint{Err: err}, 1)
}

// CaptureMessage captures a message with the process-wide client.
func CaptureMessage(ctx context.Context, level Level, message string, params ...string) (EventID, bool) {
	c := CurrentClient()
	if c == nil {
		return "", false
	}
	e := NewEvent("")
	e.Level = level
	e.SetMessage(message, params, "")
	return c.capture(ctx, e, nil, 1)
}

// AddBreadcrumb records b on the process-wide client.
func AddBreadcrumb(b Breadcrumb) {
	if c := CurrentClient(); c != nil {
		c.AddBreadcrumb(b)
	}
}

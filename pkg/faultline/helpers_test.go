package faultline

import (
	"context"
	"sync"
	"testing"

	"github.com/tidwall/gjson"
)

// recordingTransport captures payloads for verification.
type recordingTransport struct {
	mu        sync.Mutex
	payloads  [][]byte
	endpoints []string
	status    int
	err       error
	panicVal  any
	closed    bool
}

func (r *recordingTransport) Send(ctx context.Context, endpoint string, payload []byte) (int, error) {
	if r.panicVal != nil {
		panic(r.panicVal)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, append([]byte(nil), payload...))
	r.endpoints = append(r.endpoints, endpoint)
	if r.err != nil {
		return 0, r.err
	}
	if r.status != 0 {
		return r.status, nil
	}
	return 200, nil
}

func (r *recordingTransport) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recordingTransport) events() []gjson.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]gjson.Result, len(r.payloads))
	for i, p := range r.payloads {
		out[i] = gjson.ParseBytes(p)
	}
	return out
}

func (r *recordingTransport) only(t *testing.T) gjson.Result {
	t.Helper()
	events := r.events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	return events[0]
}

const testDSN = "https://token@ingest.example.com/1"

func newTestClient(t *testing.T, transport Transport, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithTransport(transport), WithoutModules()}, opts...)
	c, err := New(testDSN, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// lastFrame returns the innermost frame of the event stacktrace.
func lastFrame(st gjson.Result) gjson.Result {
	return lastOf(st.Get("frames"))
}

// lastExceptionFrame returns the innermost frame of an exception stacktrace.
func lastExceptionFrame(st gjson.Result) gjson.Result {
	return lastOf(st.Get("contexts"))
}

func lastOf(list gjson.Result) gjson.Result {
	frames := list.Array()
	if len(frames) == 0 {
		return gjson.Result{}
	}
	return frames[len(frames)-1]
}

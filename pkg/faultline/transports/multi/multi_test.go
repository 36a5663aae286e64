package multi

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/strongdm/faultline/pkg/faultline"
)

// mockTransport tracks calls and can fail.
type mockTransport struct {
	mu       sync.Mutex
	payloads []string
	status   int
	sendErr  error
	closeErr error
	closed   bool
}

func (m *mockTransport) Send(ctx context.Context, endpoint string, payload []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, string(payload))
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	if m.status != 0 {
		return m.status, nil
	}
	return 200, nil
}

func (m *mockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.closeErr
}

func (m *mockTransport) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.payloads...)
}

func TestMultiTransport_ImplementsTransport(t *testing.T) {
	var _ faultline.Transport = New()
}

func TestMultiTransport_Send_FansOut(t *testing.T) {
	a, b := &mockTransport{}, &mockTransport{}
	status, err := New(a, b).Send(context.Background(), "e", []byte("payload"))
	if err != nil || status != 200 {
		t.Fatalf("Send = %d, %v", status, err)
	}
	for i, m := range []*mockTransport{a, b} {
		if got := m.sent(); len(got) != 1 || got[0] != "payload" {
			t.Errorf("transport %d received %v", i, got)
		}
	}
}

func TestMultiTransport_Send_AggregatesFailures(t *testing.T) {
	errA := errors.New("a failed")
	a := &mockTransport{sendErr: errA}
	b := &mockTransport{status: 503}
	c := &mockTransport{}

	status, err := New(a, b, c).Send(context.Background(), "e", []byte("payload"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errA) {
		t.Errorf("err = %v, want it to wrap errA", err)
	}
	if status == 200 {
		t.Error("status should not report success")
	}
	if len(c.sent()) != 1 {
		t.Error("healthy transports should still receive the event")
	}
}

func TestMultiTransport_Send_Empty(t *testing.T) {
	status, err := New().Send(context.Background(), "e", []byte("payload"))
	if err != nil || status != 200 {
		t.Errorf("Send = %d, %v", status, err)
	}
}

func TestMultiTransport_Close(t *testing.T) {
	closeErr := errors.New("close failed")
	a, b := &mockTransport{closeErr: closeErr}, &mockTransport{}

	err := New(a, b).Close()
	if !errors.Is(err, closeErr) {
		t.Errorf("Close() = %v, want close error", err)
	}
	if !a.closed || !b.closed {
		t.Error("all transports should be closed")
	}
}

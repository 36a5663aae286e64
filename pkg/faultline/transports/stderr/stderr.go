// Package stderr provides a transport that prints events to stderr in a
// human-readable format. Useful for development and debugging.
package stderr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
)

// Option configures the stderr transport.
type Option func(*Transport)

// WithVerbose enables full event details including stack frames.
func WithVerbose() Option {
	return func(t *Transport) {
		t.verbose = true
	}
}

// WithWriter redirects output, mainly for tests.
func WithWriter(w io.Writer) Option {
	return func(t *Transport) {
		t.out = w
	}
}

// Transport writes events in human-readable format.
type Transport struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
}

// New creates a transport that writes to stderr.
func New(opts ...Option) *Transport {
	t := &Transport{out: os.Stderr}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send formats the event and writes it out.
func (t *Transport) Send(ctx context.Context, endpoint string, payload []byte) (int, error) {
	if !gjson.ValidBytes(payload) {
		return 0, fmt.Errorf("stderr: invalid payload")
	}
	doc := gjson.ParseBytes(payload)

	var b strings.Builder

	// Format: [FAULTLINE] <timestamp> <LEVEL> <type> (<size>)
	level := strings.ToUpper(doc.Get("level").String())
	if level == "" {
		level = "ERROR"
	}
	ts := doc.Get("timestamp").Float()
	timestamp := time.UnixMicro(int64(ts * 1e6)).UTC().Format("2006-01-02T15:04:05Z07:00")

	exceptions := doc.Get("exception.values").Array()
	kind := "message"
	if len(exceptions) > 0 {
		kind = exceptions[len(exceptions)-1].Get("type").String()
	}
	fmt.Fprintf(&b, "[FAULTLINE] %s %s %s (%s)\n", timestamp, level, kind, humanize.Bytes(uint64(len(payload))))

	// Exception chain, root cause first
	for _, ex := range exceptions {
		fmt.Fprintf(&b, "        %s: %s\n", ex.Get("type").String(), ex.Get("value").String())
	}

	if msg := doc.Get("message"); msg.Exists() {
		text := msg.String()
		if msg.IsObject() {
			text = msg.Get("formatted").String()
		}
		fmt.Fprintf(&b, "        Message: %s\n", text)
	}

	fmt.Fprintf(&b, "        Event: %s\n", doc.Get("event_id").String())
	if fp := doc.Get("fingerprint.0"); fp.Exists() {
		fmt.Fprintf(&b, "        Fingerprint: %s\n", fp.String())
	}
	if ctxID := doc.Get("tags.context_id"); ctxID.Exists() {
		fmt.Fprintf(&b, "        Context: %s\n", ctxID.String())
	}

	// Frames, innermost first (only in verbose mode)
	if t.verbose {
		frames := doc.Get("stacktrace.frames").Array()
		if len(exceptions) > 0 {
			frames = exceptions[len(exceptions)-1].Get("stacktrace.contexts").Array()
		}
		if len(frames) > 0 {
			b.WriteString("        Stack trace:\n")
			for i := len(frames) - 1; i >= 0; i-- {
				f := frames[i]
				fn := f.Get("function").String()
				if fn == "" {
					fn = "?"
				}
				fmt.Fprintf(&b, "          %s\n            %s:%d\n", fn, f.Get("filename").String(), f.Get("line_number").Int())
			}
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := io.WriteString(t.out, b.String()); err != nil {
		return 0, fmt.Errorf("stderr: write: %w", err)
	}
	return http.StatusOK, nil
}

// Close is a no-op for the stderr transport.
func (t *Transport) Close() error {
	return nil
}

package agentssdk

import (
	"context"
	"sync"
	"testing"

	"github.com/strongdm/ai-agents-sdk/pkg/agents"
	"github.com/tidwall/gjson"

	"github.com/strongdm/faultline/pkg/faultline"
)

// recordingTransport captures payloads for verification.
type recordingTransport struct {
	mu       sync.Mutex
	payloads [][]byte
	status   int
	err      error
}

func (r *recordingTransport) Send(ctx context.Context, endpoint string, payload []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.payloads = append(r.payloads, append([]byte(nil), payload...))
	if r.status != 0 {
		return r.status, nil
	}
	return 200, nil
}

func (r *recordingTransport) Close() error { return nil }

func (r *recordingTransport) events() []gjson.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]gjson.Result, len(r.payloads))
	for i, p := range r.payloads {
		out[i] = gjson.ParseBytes(p)
	}
	return out
}

func newTestClient(t *testing.T, transport faultline.Transport) *faultline.Client {
	t.Helper()
	client, err := faultline.New("http://token@localhost/1",
		faultline.WithTransport(transport),
		faultline.WithoutModules(),
	)
	if err != nil {
		t.Fatalf("faultline.New: %v", err)
	}
	return client
}

// fakeRunner stands in for *agents.Runner. onRun is invoked with the hooks
// installed by the wrapper before the configured outcome is produced.
type fakeRunner struct {
	err      error
	panicVal any
	onRun    func(ctx context.Context, cfg *agents.RunConfig)

	mu     sync.Mutex
	runIDs []string
}

func (f *fakeRunner) run(ctx context.Context, cfg *agents.RunConfig) error {
	if id, ok := faultline.RunIDFromContext(ctx); ok {
		f.mu.Lock()
		f.runIDs = append(f.runIDs, id)
		f.mu.Unlock()
	}
	if f.onRun != nil {
		f.onRun(ctx, cfg)
	}
	if f.panicVal != nil {
		panic(f.panicVal)
	}
	return f.err
}

func (f *fakeRunner) Run(ctx context.Context, agent *agents.Agent, input string, session agents.Session, cfg *agents.RunConfig) (agents.RunResult, error) {
	return agents.RunResult{}, f.run(ctx, cfg)
}

func (f *fakeRunner) RunOnce(ctx context.Context, agent *agents.Agent, input string, cfg *agents.RunConfig) (agents.RunResult, error) {
	return agents.RunResult{}, f.run(ctx, cfg)
}

func (f *fakeRunner) RunStream(ctx context.Context, agent *agents.Agent, input string, session agents.Session, cfg *agents.RunConfig) (*agents.StreamingRun, error) {
	return nil, f.run(ctx, cfg)
}

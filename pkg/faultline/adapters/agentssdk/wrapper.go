// wrapper.go implements WrappedRunner that wraps agents.Runner to capture errors and panics.
// This is the PRIMARY error capture mechanism - hooks provide enrichment only.

package agentssdk

import (
	"context"

	"github.com/google/uuid"
	"github.com/strongdm/ai-agents-sdk/pkg/agents"
	"go.uber.org/zap"

	"github.com/strongdm/faultline/pkg/faultline"
)

// runner is the subset of *agents.Runner used by WrappedRunner.
type runner interface {
	Run(ctx context.Context, agent *agents.Agent, input string, session agents.Session, cfg *agents.RunConfig) (agents.RunResult, error)
	RunOnce(ctx context.Context, agent *agents.Agent, input string, cfg *agents.RunConfig) (agents.RunResult, error)
	RunStream(ctx context.Context, agent *agents.Agent, input string, session agents.Session, cfg *agents.RunConfig) (*agents.StreamingRun, error)
}

// WrappedRunner wraps an agents.Runner to capture errors and panics.
// It is the primary error capture mechanism - hooks provide enrichment only.
type WrappedRunner struct {
	base        *agents.Runner
	inner       runner
	client      *faultline.Client
	enrichments EnrichmentStore
	logger      *zap.Logger
}

// Run executes the agent with the given input and session, capturing any errors or panics.
func (w *WrappedRunner) Run(ctx context.Context, agent *agents.Agent, input string, session agents.Session, cfg *agents.RunConfig) (agents.RunResult, error) {
	runID := uuid.New().String()
	ctx = w.runContext(ctx, runID, session)
	defer w.enrichments.Delete(runID)

	wrappedCfg := w.wrapRunConfig(cfg)

	defer w.capturePanic(ctx, runID)

	result, err := w.inner.Run(ctx, agent, input, session, wrappedCfg)
	if err != nil {
		w.captureError(ctx, runID, err)
	}
	return result, err
}

// RunOnce executes a single turn of the agent, capturing any errors or panics.
func (w *WrappedRunner) RunOnce(ctx context.Context, agent *agents.Agent, input string, cfg *agents.RunConfig) (agents.RunResult, error) {
	runID := uuid.New().String()
	// No session in RunOnce; only a context ID already on ctx is used.
	ctx = w.runContext(ctx, runID, nil)
	defer w.enrichments.Delete(runID)

	wrappedCfg := w.wrapRunConfig(cfg)

	defer w.capturePanic(ctx, runID)

	result, err := w.inner.RunOnce(ctx, agent, input, wrappedCfg)
	if err != nil {
		w.captureError(ctx, runID, err)
	}
	return result, err
}

// RunStream starts a streaming run, capturing any errors at the start.
// Errors during streaming are not captured by this wrapper.
func (w *WrappedRunner) RunStream(ctx context.Context, agent *agents.Agent, input string, session agents.Session, cfg *agents.RunConfig) (*agents.StreamingRun, error) {
	runID := uuid.New().String()
	// The stream may outlive this call, so the enrichment is kept on success.
	ctx = w.runContext(ctx, runID, session)

	wrappedCfg := w.wrapRunConfig(cfg)

	defer w.capturePanic(ctx, runID)

	stream, err := w.inner.RunStream(ctx, agent, input, session, wrappedCfg)
	if err != nil {
		w.captureError(ctx, runID, err)
		w.enrichments.Delete(runID)
	}
	return stream, err
}

// runContext tags ctx with the run ID and, when known, the cxdb context ID.
func (w *WrappedRunner) runContext(ctx context.Context, runID string, session any) context.Context {
	ctx = faultline.WithRunID(ctx, runID)
	if provider, ok := session.(faultline.ContextIDProvider); ok {
		if id, err := provider.ContextID(ctx); err == nil && id != 0 {
			return faultline.WithContextID(ctx, id)
		}
	}
	// Fallback to context propagation when session cannot provide a context ID.
	return ctx
}

// wrapRunConfig clones cfg and wraps hooks with HookAdapter for enrichment capture.
func (w *WrappedRunner) wrapRunConfig(cfg *agents.RunConfig) *agents.RunConfig {
	var cloned agents.RunConfig
	if cfg != nil {
		cloned = *cfg
	}
	cloned.Hooks = NewHookAdapter(w.enrichments, cloned.Hooks, w.logger)
	return &cloned
}

// captureError records an error event with enrichment data.
func (w *WrappedRunner) captureError(ctx context.Context, runID string, err error) {
	enrichment, _ := w.enrichments.Get(runID)
	e := buildEvent(w.client, err, enrichment)
	w.safeCapture(ctx, runID, e, &faultline.EventHint{Err: err})
}

// capturePanic recovers from a panic, records it, and re-panics.
func (w *WrappedRunner) capturePanic(ctx context.Context, runID string) {
	if r := recover(); r != nil {
		perr := faultline.NewPanicError(r)
		enrichment, _ := w.enrichments.Get(runID)
		e := buildEvent(w.client, perr, enrichment)
		e.Level = faultline.LevelFatal
		e.SetTag("mechanism", "panic")
		w.safeCapture(ctx, runID, e, &faultline.EventHint{Err: perr})
		panic(r)
	}
}

// safeCapture sends an event; delivery failures are logged, never propagated.
func (w *WrappedRunner) safeCapture(ctx context.Context, runID string, e *faultline.Event, hint *faultline.EventHint) {
	if w.client == nil {
		return
	}
	if _, ok := w.client.CaptureEvent(ctx, e, hint); !ok {
		w.logger.Debug("faultline: event not accepted",
			zap.String("run_id", runID),
			zap.String("event_id", e.ID.String()))
	}
}

// Inner returns the underlying Runner for advanced usage.
func (w *WrappedRunner) Inner() *agents.Runner {
	return w.base
}

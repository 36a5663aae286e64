// instrument.go provides the Instrument function for convenient runner setup.
// This is the recommended entry point for integrating faultline with ai-agents-sdk.

package agentssdk

import (
	"github.com/strongdm/ai-agents-sdk/pkg/agents"
	"go.uber.org/zap"

	"github.com/strongdm/faultline/pkg/faultline"
)

// WrapOption configures a WrappedRunner.
type WrapOption func(*WrappedRunner)

// WithLogger sets the logger for the wrapper.
// The logger is used for debug output when an event is not accepted.
func WithLogger(logger *zap.Logger) WrapOption {
	return func(w *WrappedRunner) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithEnrichmentStore sets the enrichment store for the wrapper.
// The store is used to correlate hook data with errors captured at the runner boundary.
func WithEnrichmentStore(store EnrichmentStore) WrapOption {
	return func(w *WrappedRunner) {
		if store != nil {
			w.enrichments = store
		}
	}
}

// Instrument wraps a Runner with error and panic capture.
//
// Example:
//
//	client, _ := faultline.New(dsn)
//	runner := agents.NewRunner(llm)
//	wrapped := agentssdk.Instrument(runner, client)
//	result, err := wrapped.Run(ctx, agent, input, session, nil)
func Instrument(baseRunner *agents.Runner, client *faultline.Client, opts ...WrapOption) *WrappedRunner {
	w := newWrappedRunner(baseRunner, client, opts...)
	w.base = baseRunner
	return w
}

func newWrappedRunner(inner runner, client *faultline.Client, opts ...WrapOption) *WrappedRunner {
	w := &WrappedRunner{
		inner:       inner,
		client:      client,
		enrichments: NewEnrichmentStore(defaultTrailSize),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

package agentssdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInstrument_ReturnsWrappedRunner(t *testing.T) {
	client := newTestClient(t, &recordingTransport{})

	// Instrument with nil runner (we're just testing the wrapper creation)
	wrapped := Instrument(nil, client)

	require.NotNil(t, wrapped)
	assert.NotNil(t, wrapped.enrichments, "default enrichment store should be created")
	assert.NotNil(t, wrapped.logger, "default logger should be set")
}

func TestInstrument_PassesOptions(t *testing.T) {
	client := newTestClient(t, &recordingTransport{})
	store := NewEnrichmentStore(5)
	logger := zap.NewExample()

	wrapped := Instrument(nil, client,
		WithEnrichmentStore(store),
		WithLogger(logger),
	)

	// The wrapper should use the same store
	store.Update("test-run", func(e *Enrichment) {
		e.AgentName = "test-agent"
	})
	enrichment, ok := wrapped.enrichments.Get("test-run")
	require.True(t, ok, "enrichment store was not properly set")
	assert.Equal(t, "test-agent", enrichment.AgentName)
	assert.Same(t, logger, wrapped.logger)
}

func TestInstrument_IgnoresNilOptions(t *testing.T) {
	client := newTestClient(t, &recordingTransport{})

	wrapped := Instrument(nil, client, WithEnrichmentStore(nil), WithLogger(nil))

	assert.NotNil(t, wrapped.enrichments)
	assert.NotNil(t, wrapped.logger)
}

package agentssdk

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strongdm/faultline/pkg/faultline"
)

func TestBuildEvent_FullEnrichment(t *testing.T) {
	client := newTestClient(t, &recordingTransport{})
	client.AddBreadcrumb(crumb(t, "client"))

	enrichment := Enrichment{
		AgentName:   "researcher",
		Model:       "gpt-4o",
		ToolName:    "WebSearch",
		ToolCallID:  "call_1",
		Operation:   "tool",
		OperationID: "op-9",
		Trail:       []faultline.Breadcrumb{crumb(t, "run")},
	}

	e := buildEvent(client, context.DeadlineExceeded, enrichment)

	assert.Equal(t, map[string]string{
		"error.kind": "timeout",
		"agent":      "researcher",
		"tool":       "WebSearch",
		"operation":  "tool",
		"model":      "gpt-4o",
	}, e.Tags)
	assert.Equal(t, map[string]any{
		"agent_name":   "researcher",
		"model":        "gpt-4o",
		"tool_name":    "WebSearch",
		"tool_call_id": "call_1",
		"operation":    "tool",
		"operation_id": "op-9",
	}, e.Contexts["agent"])
	assert.Equal(t, []string{"client", "run"}, messages(e.Breadcrumbs))
}

func TestBuildEvent_EmptyEnrichment(t *testing.T) {
	client := newTestClient(t, &recordingTransport{})

	e := buildEvent(client, errors.New("boom"), Enrichment{})

	assert.Equal(t, map[string]string{"error.kind": "error"}, e.Tags)
	_, ok := e.Contexts["agent"]
	assert.False(t, ok, "empty agent context should be omitted")
	assert.Empty(t, e.Breadcrumbs)
	require.NotEmpty(t, e.ID)
}

func TestContainsGuardrailPattern(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"Guardrail tripped: pii", true},
		{"request rejected by content policy", true},
		{"SAFETY FILTER engaged", true},
		{"blocked by policy", true},
		{"policy file not found", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.msg), func(t *testing.T) {
			assert.Equal(t, tt.want, containsGuardrailPattern(tt.msg))
		})
	}
}

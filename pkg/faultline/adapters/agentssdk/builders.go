// builders.go provides helper functions to build events from run failures.

package agentssdk

import (
	"context"
	"errors"
	"strings"

	"github.com/strongdm/faultline/pkg/faultline"
)

// buildEvent creates an event carrying the run's enrichment data. The
// breadcrumbs are the client's trail followed by the run's own trail.
func buildEvent(client *faultline.Client, err error, enrichment Enrichment) *faultline.Event {
	e := faultline.NewEvent("")
	e.SetTag("error.kind", classifyError(err))

	setTag(e, "agent", enrichment.AgentName)
	setTag(e, "tool", enrichment.ToolName)
	setTag(e, "operation", enrichment.Operation)
	setTag(e, "model", enrichment.Model)

	agentCtx := make(map[string]any)
	for k, v := range map[string]string{
		"agent_name":   enrichment.AgentName,
		"model":        enrichment.Model,
		"tool_name":    enrichment.ToolName,
		"tool_call_id": enrichment.ToolCallID,
		"operation":    enrichment.Operation,
		"operation_id": enrichment.OperationID,
	} {
		if v != "" {
			agentCtx[k] = v
		}
	}
	e.SetContext("agent", agentCtx)

	e.Breadcrumbs = append(client.Breadcrumbs(), enrichment.Trail...)
	return e
}

func setTag(e *faultline.Event, key, value string) {
	if value != "" {
		e.SetTag(key, value)
	}
}

// classifyError determines the error kind based on the error.
func classifyError(err error) string {
	if err == nil {
		return "error"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}

	// Guardrail violations are only recognizable by message.
	if containsGuardrailPattern(err.Error()) {
		return "guardrail"
	}
	return "error"
}

// containsGuardrailPattern checks if an error message indicates a guardrail violation.
func containsGuardrailPattern(msg string) bool {
	msg = strings.ToLower(msg)
	for _, p := range []string{
		"guardrail",
		"content policy",
		"safety filter",
		"blocked by policy",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

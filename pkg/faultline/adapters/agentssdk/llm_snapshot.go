// Helper functions to build LLM and tool breadcrumbs without storing message text.
package agentssdk

import (
	"time"

	"github.com/strongdm/ai-agents-sdk/pkg/agents"
	llmsdk "github.com/strongdm/ai-llm-sdk/pkg/llm"

	"github.com/strongdm/faultline/pkg/faultline"
)

// maxMessageRoles bounds the roles recorded for a request.
const maxMessageRoles = 10

// newBreadcrumb creates an info breadcrumb stamped with the current time.
func newBreadcrumb(typ, category string) faultline.Breadcrumb {
	b, _ := faultline.NewBreadcrumb(faultline.LevelInfo, typ, category) // info is always valid
	return b.WithTimestamp(time.Now())
}

// llmBreadcrumb records the metadata of an LLM request.
// SECURITY: Does NOT store message text, only metadata.
func llmBreadcrumb(agentName string, req llmsdk.Request) faultline.Breadcrumb {
	b := newBreadcrumb(faultline.BreadcrumbTypeDefault, "llm").
		WithMessage("llm request " + req.Model).
		WithMetadata("model", req.Model).
		WithMetadata("provider", string(req.Provider)).
		WithMetadata("message_count", len(req.Messages)).
		WithMetadata("tool_count", len(req.Tools))
	if agentName != "" {
		b = b.WithMetadata("agent", agentName)
	}
	if req.Temperature != nil {
		b = b.WithMetadata("temperature", *req.Temperature)
	}
	if req.MaxTokens != nil {
		b = b.WithMetadata("max_tokens", *req.MaxTokens)
	}

	if len(req.Tools) > 0 {
		names := make([]string, len(req.Tools))
		for i, tool := range req.Tools {
			names[i] = tool.Name
		}
		b = b.WithMetadata("tool_names", names)
	}

	start := max(len(req.Messages)-maxMessageRoles, 0)
	roles := make([]string, 0, len(req.Messages)-start)
	for _, msg := range req.Messages[start:] {
		roles = append(roles, string(msg.Role))
	}
	if len(roles) > 0 {
		b = b.WithMetadata("roles", roles)
	}
	return b
}

// withLLMResponse adds response metadata to an LLM breadcrumb.
func withLLMResponse(b faultline.Breadcrumb, resp llmsdk.Response) faultline.Breadcrumb {
	b = b.WithMetadata("response_id", resp.ID).
		WithMetadata("finish_reason", string(resp.FinishReason)).
		WithMetadata("prompt_tokens", resp.Usage.PromptTokens).
		WithMetadata("completion_tokens", resp.Usage.CompletionTokens).
		WithMetadata("total_tokens", resp.Usage.TotalTokens).
		WithMetadata("duration_ms", time.Since(b.Timestamp()).Milliseconds())
	if len(resp.ToolCalls) > 0 {
		names := make([]string, len(resp.ToolCalls))
		for i, tc := range resp.ToolCalls {
			names[i] = tc.Name
		}
		b = b.WithMetadata("tool_call_names", names)
	}
	return b
}

// toolBreadcrumb records a tool call. Arguments are kept by size only.
func toolBreadcrumb(agentName string, tool agents.Tool, call llmsdk.ToolCall) faultline.Breadcrumb {
	b := newBreadcrumb(faultline.BreadcrumbTypeDefault, "tool").
		WithMessage("tool call " + tool.Name).
		WithMetadata("tool", tool.Name).
		WithMetadata("call_id", call.ID).
		WithMetadata("input_size", len(call.Arguments))
	if agentName != "" {
		b = b.WithMetadata("agent", agentName)
	}
	return b
}

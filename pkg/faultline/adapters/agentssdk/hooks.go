// hooks.go implements RunHooks for recording the operation trail of a run.
// This adapter provides ENRICHMENT only - error detection is done by WrappedRunner.

package agentssdk

import (
	"context"

	"github.com/strongdm/ai-agents-sdk/pkg/agents"
	llmsdk "github.com/strongdm/ai-llm-sdk/pkg/llm"
	"go.uber.org/zap"

	"github.com/strongdm/faultline/pkg/faultline"
)

// HookAdapter implements agents.RunHooks to capture operation context.
// It delegates to an inner RunHooks and records enrichment for correlation.
type HookAdapter struct {
	store  EnrichmentStore
	inner  agents.RunHooks
	logger *zap.Logger
}

// NewHookAdapter wraps an existing RunHooks and captures operation context.
//
// The store is used to correlate hook data with errors captured at the runner boundary.
// The inner hooks (if non-nil) are called for all hook methods; only their errors are returned.
// A nil logger disables debug output.
func NewHookAdapter(store EnrichmentStore, inner agents.RunHooks, logger *zap.Logger) agents.RunHooks {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HookAdapter{
		store:  store,
		inner:  inner,
		logger: logger,
	}
}

// OnAgentStart captures the agent name for enrichment.
func (h *HookAdapter) OnAgentStart(ctx context.Context, runCtx *agents.AgentHookContext, agent *agents.Agent) error {
	h.captureAgentInfo(ctx, agent)

	if h.inner != nil {
		return h.inner.OnAgentStart(ctx, runCtx, agent)
	}
	return nil
}

// OnAgentEnd delegates to inner hooks.
func (h *HookAdapter) OnAgentEnd(ctx context.Context, runCtx *agents.AgentHookContext, agent *agents.Agent, result agents.RunResult) error {
	if h.inner != nil {
		return h.inner.OnAgentEnd(ctx, runCtx, agent, result)
	}
	return nil
}

// OnHandoff records a navigation breadcrumb from one agent to another.
func (h *HookAdapter) OnHandoff(ctx context.Context, runCtx *agents.RunContext, from *agents.Agent, to *agents.Agent) error {
	if runID, ok := faultline.RunIDFromContext(ctx); ok {
		b := newBreadcrumb(faultline.BreadcrumbTypeNavigation, "handoff").
			WithMetadata("from", agentName(from)).
			WithMetadata("to", agentName(to))
		h.store.Update(runID, func(e *Enrichment) {
			e.AgentName = agentName(to)
			e.Operation = "handoff"
		})
		h.store.Record(runID, b)
		h.logger.Debug("recorded handoff",
			zap.String("run_id", runID),
			zap.String("from", agentName(from)),
			zap.String("to", agentName(to)))
	}

	if h.inner != nil {
		return h.inner.OnHandoff(ctx, runCtx, from, to)
	}
	return nil
}

// OnToolStart captures tool context for enrichment.
func (h *HookAdapter) OnToolStart(ctx context.Context, runCtx *agents.RunContext, agent *agents.Agent, tool agents.Tool, call llmsdk.ToolCall) error {
	if runID, ok := faultline.RunIDFromContext(ctx); ok {
		h.store.Update(runID, func(e *Enrichment) {
			if agent != nil {
				e.AgentName = agent.Name()
			}
			e.Operation = "tool"
			e.ToolName = tool.Name
			e.ToolCallID = call.ID
			e.OperationID = call.ID
		})
		h.store.Record(runID, toolBreadcrumb(agentName(agent), tool, call))
	}

	if h.inner != nil {
		return h.inner.OnToolStart(ctx, runCtx, agent, tool, call)
	}
	return nil
}

// OnToolEnd adds the output size to the tool breadcrumb.
func (h *HookAdapter) OnToolEnd(ctx context.Context, runCtx *agents.RunContext, agent *agents.Agent, tool agents.Tool, output string) error {
	if runID, ok := faultline.RunIDFromContext(ctx); ok {
		h.store.UpdateLast(runID, func(b faultline.Breadcrumb) faultline.Breadcrumb {
			if b.Category() != "tool" {
				return b
			}
			return b.WithMetadata("output_size", len(output))
		})
	}

	if h.inner != nil {
		return h.inner.OnToolEnd(ctx, runCtx, agent, tool, output)
	}
	return nil
}

// OnLLMStart captures LLM context for enrichment.
func (h *HookAdapter) OnLLMStart(ctx context.Context, runCtx *agents.RunContext, agent *agents.Agent, req llmsdk.Request) error {
	if runID, ok := faultline.RunIDFromContext(ctx); ok {
		h.store.Update(runID, func(e *Enrichment) {
			if agent != nil {
				e.AgentName = agent.Name()
			}
			e.Operation = "llm"
			e.Model = req.Model
		})
		h.store.Record(runID, llmBreadcrumb(agentName(agent), req))
	}

	if h.inner != nil {
		return h.inner.OnLLMStart(ctx, runCtx, agent, req)
	}
	return nil
}

// OnLLMEnd adds response metadata to the LLM breadcrumb.
func (h *HookAdapter) OnLLMEnd(ctx context.Context, runCtx *agents.RunContext, agent *agents.Agent, resp llmsdk.Response) error {
	if runID, ok := faultline.RunIDFromContext(ctx); ok {
		updated := h.store.UpdateLast(runID, func(b faultline.Breadcrumb) faultline.Breadcrumb {
			if b.Category() != "llm" {
				return b
			}
			return withLLMResponse(b, resp)
		})
		if !updated {
			h.logger.Debug("llm response without request", zap.String("run_id", runID))
		}
	}

	if h.inner != nil {
		return h.inner.OnLLMEnd(ctx, runCtx, agent, resp)
	}
	return nil
}

// captureAgentInfo captures agent information when available.
func (h *HookAdapter) captureAgentInfo(ctx context.Context, agent *agents.Agent) {
	if agent == nil {
		return
	}
	if runID, ok := faultline.RunIDFromContext(ctx); ok {
		h.store.Update(runID, func(e *Enrichment) {
			e.AgentName = agent.Name()
		})
	}
}

func agentName(agent *agents.Agent) string {
	if agent == nil {
		return ""
	}
	return agent.Name()
}

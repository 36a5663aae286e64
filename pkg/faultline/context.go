// context.go carries capture metadata on context.Context: run IDs, cxdb
// context IDs and per-request tags.

package faultline

import (
	"context"
	"maps"
)

type runIDKey struct{}
type contextIDKey struct{}
type tagsKey struct{}

// contextIDSet distinguishes a zero context ID from an absent one.
type contextIDSet struct {
	id uint64
}

// WithRunID returns a context carrying the run ID. Captured events are
// tagged with it.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the run ID, reporting false when it is absent or
// empty.
func RunIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// WithContextID returns a context carrying a cxdb context ID. Events
// captured with it are linked to that conversation.
func WithContextID(ctx context.Context, contextID uint64) context.Context {
	return context.WithValue(ctx, contextIDKey{}, contextIDSet{id: contextID})
}

// ContextIDFromContext returns the cxdb context ID.
func ContextIDFromContext(ctx context.Context) (uint64, bool) {
	set, ok := ctx.Value(contextIDKey{}).(contextIDSet)
	if !ok {
		return 0, false
	}
	return set.id, true
}

// ContextIDProvider is implemented by sessions that know their cxdb context,
// such as the ai-agents-sdk CXDBSession.
type ContextIDProvider interface {
	ContextID(ctx context.Context) (uint64, error)
}

// WithTags returns a context carrying tags for events captured with it.
// Tags already on the context are kept unless overridden.
func WithTags(ctx context.Context, tags map[string]string) context.Context {
	merged := maps.Clone(TagsFromContext(ctx))
	if merged == nil {
		merged = make(map[string]string, len(tags))
	}
	maps.Copy(merged, tags)
	return context.WithValue(ctx, tagsKey{}, merged)
}

// TagsFromContext returns the tags carried by ctx. The map must not be
// modified.
func TagsFromContext(ctx context.Context) map[string]string {
	tags, _ := ctx.Value(tagsKey{}).(map[string]string)
	return tags
}

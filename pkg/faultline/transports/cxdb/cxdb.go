// Package cxdb provides a transport that appends events to cxdb as
// SystemMessage items.
package cxdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	cxdbclient "github.com/strongdm/ai-cxdb/clients/go"
	cxdtypes "github.com/strongdm/ai-cxdb/clients/go/types"

	"github.com/strongdm/faultline/pkg/faultline"
)

// ErrInvalidPayload is returned for payloads that are not JSON documents.
var ErrInvalidPayload = errors.New("cxdb: invalid payload")

// CXDBClient is the minimal interface for cxdb client operations.
// The real *cxdb.Client satisfies this interface.
type CXDBClient interface {
	CreateContext(ctx context.Context, baseTurnID uint64) (*cxdbclient.ContextHead, error)
	AppendTurn(ctx context.Context, req *cxdbclient.AppendRequest) (*cxdbclient.AppendResult, error)
}

// Option configures the cxdb transport.
type Option func(*Transport)

// WithOrphanLabels sets labels for contexts created for unlinked events.
func WithOrphanLabels(labels []string) Option {
	return func(t *Transport) {
		t.orphanLabels = labels
	}
}

// WithClientTag sets the client tag for contexts created for unlinked events.
func WithClientTag(tag string) Option {
	return func(t *Transport) {
		t.clientTag = tag
	}
}

// Transport writes events to cxdb. Events captured with a context carrying
// a cxdb context ID (faultline.WithContextID) are appended to that context;
// others go to a new orphan context.
type Transport struct {
	client       CXDBClient
	orphanLabels []string
	clientTag    string
}

// New creates a transport that writes to cxdb.
func New(client CXDBClient, opts ...Option) *Transport {
	t := &Transport{
		client:       client,
		orphanLabels: []string{"error", "unlinked"},
		clientTag:    "faultline",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send appends the event as a turn. endpoint is not used.
func (t *Transport) Send(ctx context.Context, endpoint string, payload []byte) (int, error) {
	if !gjson.ValidBytes(payload) {
		return 0, ErrInvalidPayload
	}

	contextID, linked := faultline.ContextIDFromContext(ctx)
	if !linked {
		head, err := t.client.CreateContext(ctx, 0)
		if err != nil {
			return 0, fmt.Errorf("create orphan context: %w", err)
		}
		contextID = head.ContextID
	}

	item := t.buildConversationItem(payload, !linked)

	encoded, err := cxdbclient.EncodeMsgpack(item)
	if err != nil {
		return 0, fmt.Errorf("encode payload: %w", err)
	}

	req := &cxdbclient.AppendRequest{
		ContextID:      contextID,
		ParentTurnID:   0,
		TypeID:         cxdtypes.TypeIDConversationItem,
		TypeVersion:    cxdtypes.TypeVersionConversationItem,
		Payload:        encoded,
		IdempotencyKey: item.ID,
	}
	if _, err := t.client.AppendTurn(ctx, req); err != nil {
		return 0, fmt.Errorf("append turn: %w", err)
	}
	return http.StatusOK, nil
}

// Close is a no-op; the cxdb client is owned by the caller.
func (t *Transport) Close() error {
	return nil
}

// buildConversationItem creates a ConversationItem carrying the wire
// document as its content.
func (t *Transport) buildConversationItem(payload []byte, isOrphan bool) *cxdtypes.ConversationItem {
	doc := gjson.ParseBytes(payload)

	item := &cxdtypes.ConversationItem{
		ItemType:  cxdtypes.ItemTypeSystem,
		Status:    cxdtypes.ItemStatusComplete,
		Timestamp: timestampMillis(doc.Get("timestamp")),
		ID:        doc.Get("event_id").String(),
		System: &cxdtypes.SystemMessage{
			Kind:    cxdtypes.SystemKindError,
			Title:   Title(doc),
			Content: string(payload),
		},
	}

	// cxdb expects context metadata on the first turn of a new context.
	if isOrphan {
		item.ContextMetadata = &cxdtypes.ContextMetadata{
			Labels:    t.orphanLabels,
			ClientTag: t.clientTag,
		}
	}
	return item
}

// Title summarizes a wire document as "type: message", using the top-level
// exception when present and the message otherwise.
func Title(doc gjson.Result) string {
	var kind, msg string
	if values := doc.Get("exception.values").Array(); len(values) > 0 {
		top := values[len(values)-1]
		kind = top.Get("type").String()
		msg = top.Get("value").String()
	} else {
		kind = doc.Get("level").String()
		m := doc.Get("message")
		if m.IsObject() {
			msg = m.Get("formatted").String()
		} else {
			msg = m.String()
		}
	}

	title := kind
	if msg != "" {
		const maxMsgLen = 80
		if len(msg) > maxMsgLen {
			msg = msg[:maxMsgLen] + "..."
		}
		if title == "" {
			title = msg
		} else {
			title += ": " + msg
		}
	}

	if len(title) > 100 {
		title = title[:97] + "..."
	}
	return title
}

func timestampMillis(ts gjson.Result) int64 {
	if !ts.Exists() {
		return time.Now().UnixMilli()
	}
	return int64(ts.Float() * 1000)
}

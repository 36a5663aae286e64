// capture.go implements event preparation and delivery.

package faultline

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// EventHint carries capture inputs that are merged into an event.
type EventHint struct {
	// Err is the fault to convert into the event's exception chain. It is
	// ignored when the event already has exceptions.
	Err error

	// Stacktrace is used when the event has no stacktrace of its own.
	Stacktrace *Stacktrace
}

// CaptureError captures err with its cause chain. It returns the event ID
// and true when the ingestion endpoint accepted the event.
func (c *Client) CaptureError(ctx context.Context, err error) (EventID, bool) {
	if err == nil {
		return "", false
	}
	return c.capture(ctx, NewEvent(""), &EventHint{Err: err}, 1)
}

// CaptureMessage captures a message event. With params, message is a format
// string and params are substituted positionally.
func (c *Client) CaptureMessage(ctx context.Context, level Level, message string, params ...string) (EventID, bool) {
	e := NewEvent("")
	e.Level = level
	e.SetMessage(message, params, "")
	return c.capture(ctx, e, nil, 1)
}

// CaptureEvent prepares and sends e. hint may be nil.
func (c *Client) CaptureEvent(ctx context.Context, e *Event, hint *EventHint) (EventID, bool) {
	return c.capture(ctx, e, hint, 1)
}

// capture runs the pipeline. skip counts the frames between the caller of
// capture and the application code that requested the capture.
func (c *Client) capture(ctx context.Context, e *Event, hint *EventHint, skip int) (EventID, bool) {
	if e == nil {
		e = NewEvent("")
	}
	c.prepareEvent(ctx, e, hint, skip+1)
	return c.send(ctx, e)
}

// prepareEvent merges hint into e and applies the client defaults.
func (c *Client) prepareEvent(ctx context.Context, e *Event, hint *EventHint, skip int) {
	if e.ID == "" {
		e.ID = GenerateEventID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.Type == "" {
		e.Type = EventTypeEvent
	}

	if hint != nil {
		if hint.Err != nil && len(e.Exceptions) == 0 {
			c.addFault(e, hint.Err, skip+1)
		}
		if hint.Stacktrace != nil && e.Stacktrace == nil {
			e.Stacktrace = hint.Stacktrace
		}
	}

	if e.Stacktrace == nil && len(e.Exceptions) == 0 {
		e.Stacktrace = c.stacks.FromCallers(skip + 1)
		c.logger.Debug("synthesized stacktrace from capture site",
			zap.String("event_id", e.ID.String()))
	}

	c.applyDefaults(ctx, e)

	if c.scrubber != nil {
		if err := c.scrubber.ScrubEvent(e); err != nil {
			c.logger.Debug("scrubbing failed, event fields redacted",
				zap.String("event_id", e.ID.String()),
				zap.Error(err))
		}
	}

	if c.fingerprinting && len(e.Fingerprint) == 0 {
		e.Fingerprint = []string{Fingerprint(e)}
	}
}

// addFault stores the cause chain of err on e, top-level fault first.
func (c *Client) addFault(e *Event, err error, skip int) {
	if e.Level == "" {
		var sc SeverityCarrier
		if errors.As(err, &sc) {
			e.Level = LevelFromSeverity(sc.Severity())
		}
	}

	for i, link := range causeChain(err) {
		st := c.stacks.FromFault(link.err)
		if st == nil && i == 0 {
			st = c.stacks.FromCallers(skip + 1)
		}
		e.AddException(ExceptionRecord{
			Type:       link.typ,
			Value:      link.message,
			Stacktrace: st,
		})
	}

	if e.Level == "" {
		e.Level = LevelError
	}
}

func (c *Client) applyDefaults(ctx context.Context, e *Event) {
	if e.ServerName == "" {
		e.ServerName = c.serverName
	}
	if e.Environment == "" {
		e.Environment = c.environment
	}
	if len(e.Modules) == 0 && len(c.modules) > 0 {
		e.Modules = maps.Clone(c.modules)
	}

	for k, v := range c.tags {
		if _, ok := e.Tags[k]; !ok {
			e.SetTag(k, v)
		}
	}
	for k, v := range TagsFromContext(ctx) {
		if _, ok := e.Tags[k]; !ok {
			e.SetTag(k, v)
		}
	}
	if runID, ok := RunIDFromContext(ctx); ok {
		e.SetTag("run_id", runID)
	}
	if contextID, ok := ContextIDFromContext(ctx); ok {
		e.SetTag("context_id", fmt.Sprint(contextID))
	}

	if e.OS == nil {
		e.OS = CaptureOSContext()
	}
	if _, ok := e.Contexts["runtime"]; !ok {
		e.SetContext("runtime", CaptureRuntimeContext(c.startTime))
	}

	if len(e.Breadcrumbs) == 0 {
		e.Breadcrumbs = c.Breadcrumbs()
	}
}

// send assembles e and makes one delivery attempt. Delivery failures of any
// kind are logged and reported as ("", false).
func (c *Client) send(ctx context.Context, e *Event) (id EventID, ok bool) {
	log := c.logger.With(
		zap.String("event_id", e.ID.String()),
		zap.String("endpoint", c.dsn.Host),
	)
	defer func() {
		if r := recover(); r != nil {
			log.Warn("event delivery panicked", zap.Any("panic", r))
			id, ok = "", false
		}
	}()

	payload, err := Assemble(e).Encode()
	if err != nil {
		log.Warn("failed to encode event", zap.Error(err))
		return "", false
	}

	status, err := c.transport.Send(ctx, c.endpoint, payload)
	if err != nil {
		log.Warn("failed to send event", zap.Int("status", status), zap.Error(err))
		return "", false
	}
	if status != http.StatusOK {
		log.Warn("event rejected", zap.Int("status", status))
		return "", false
	}
	return e.ID, true
}

// event.go defines the Event, the complete report prepared for transmission.

package faultline

import (
	"maps"
	"time"
)

// Event is a capturable error report.
//
// An Event is built once per capture. Only the Client and its scrubber
// mutate it before it is assembled and sent.
type Event struct {
	// Identity

	ID        EventID
	Timestamp time.Time
	Type      EventType

	// Classification

	Level       Level
	ServerName  string
	Environment string
	Fingerprint []string

	// Message holds the raw message. When MessageParams is non-empty the
	// message is a format string; MessageFormatted overrides the formatted
	// text if set.
	Message          string
	MessageParams    []string
	MessageFormatted string

	Modules  map[string]string
	Request  map[string]any
	Tags     map[string]string
	OS       *OSContext
	User     *User
	Contexts map[string]map[string]any
	Extra    map[string]any

	Breadcrumbs []Breadcrumb

	// Exceptions is the cause chain, top-level fault first.
	Exceptions []ExceptionRecord

	Stacktrace *Stacktrace
}

// NewEvent creates an event. A zero id is replaced by a generated one.
func NewEvent(id EventID) *Event {
	if id == "" {
		id = GenerateEventID()
	}
	return &Event{
		ID:        id,
		Timestamp: time.Now(),
		Type:      EventTypeEvent,
	}
}

// SetMessage sets the message, its format params and an optional
// preformatted text.
func (e *Event) SetMessage(message string, params []string, formatted string) {
	e.Message = message
	e.MessageParams = params
	e.MessageFormatted = formatted
}

// SetTag sets a tag.
func (e *Event) SetTag(key, value string) {
	if e.Tags == nil {
		e.Tags = make(map[string]string)
	}
	e.Tags[key] = value
}

// RemoveTag deletes a tag.
func (e *Event) RemoveTag(key string) {
	delete(e.Tags, key)
}

// SetContext stores a named context. Empty data is ignored.
func (e *Event) SetContext(name string, data map[string]any) {
	if len(data) == 0 {
		return
	}
	if e.Contexts == nil {
		e.Contexts = make(map[string]map[string]any)
	}
	e.Contexts[name] = maps.Clone(data)
}

// SetExtra sets an extra value.
func (e *Event) SetExtra(key string, value any) {
	if e.Extra == nil {
		e.Extra = make(map[string]any)
	}
	e.Extra[key] = value
}

// AddException appends a cause-chain link.
func (e *Event) AddException(rec ExceptionRecord) {
	e.Exceptions = append(e.Exceptions, rec)
}

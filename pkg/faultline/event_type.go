// event_type.go defines the event type enumeration.

package faultline

import (
	"errors"
	"fmt"
)

// ErrInvalidEventType is returned when an event type token is unknown.
var ErrInvalidEventType = errors.New("invalid event type")

// EventType classifies an event.
type EventType string

const (
	EventTypeDefault EventType = "default"
	EventTypeEvent   EventType = "event"
)

// ParseEventType validates s and returns it as an EventType.
func ParseEventType(s string) (EventType, error) {
	switch t := EventType(s); t {
	case EventTypeDefault, EventTypeEvent:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEventType, s)
}

// String returns the event type token.
func (t EventType) String() string {
	return string(t)
}

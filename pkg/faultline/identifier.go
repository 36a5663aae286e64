// identifier.go defines event identifiers.

package faultline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidEventID is returned when an event identifier is not 32 hex characters.
var ErrInvalidEventID = errors.New("invalid event id")

var eventIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// EventID is a 32 character hexadecimal event identifier.
type EventID string

// ParseEventID validates s and returns it as an EventID.
func ParseEventID(s string) (EventID, error) {
	if !eventIDPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEventID, s)
	}
	return EventID(s), nil
}

// GenerateEventID returns a new time-ordered identifier.
func GenerateEventID() EventID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return EventID(strings.ReplaceAll(id.String(), "-", ""))
}

// String returns the identifier text.
func (id EventID) String() string {
	return string(id)
}

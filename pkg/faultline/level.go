// level.go defines event severity levels and the mapping from platform
// severity codes.

package faultline

import (
	"errors"
	"fmt"
)

// ErrInvalidLevel is returned when a level token is not one of the known levels.
var ErrInvalidLevel = errors.New("invalid level")

// Level is the severity of an event or breadcrumb.
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelFatal   Level = "fatal"
)

// ParseLevel validates s and returns it as a Level.
func ParseLevel(s string) (Level, error) {
	switch l := Level(s); l {
	case LevelDebug, LevelInfo, LevelWarning, LevelError, LevelFatal:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// String returns the level token.
func (l Level) String() string {
	return string(l)
}

// Severity is a platform error-severity code. Codes share their bit values
// with the runtimes that report through the ingestion service, so foreign
// reporters and Go reporters group the same way.
type Severity int

const (
	SeverityError            Severity = 1
	SeverityWarning          Severity = 2
	SeverityParse            Severity = 4
	SeverityNotice           Severity = 8
	SeverityCoreError        Severity = 16
	SeverityCoreWarning      Severity = 32
	SeverityCompileError     Severity = 64
	SeverityCompileWarning   Severity = 128
	SeverityUserError        Severity = 256
	SeverityUserWarning      Severity = 512
	SeverityUserNotice       Severity = 1024
	SeverityStrict           Severity = 2048
	SeverityRecoverableError Severity = 4096
	SeverityDeprecated       Severity = 8192
	SeverityUserDeprecated   Severity = 16384
)

// LevelFromSeverity maps a platform severity code onto a Level.
func LevelFromSeverity(code Severity) Level {
	switch code {
	case SeverityDeprecated, SeverityUserDeprecated, SeverityWarning, SeverityUserWarning:
		return LevelWarning
	case SeverityError, SeverityParse, SeverityCoreError, SeverityCoreWarning,
		SeverityCompileError, SeverityCompileWarning:
		return LevelFatal
	case SeverityNotice, SeverityUserNotice, SeverityStrict:
		return LevelInfo
	default:
		return LevelError
	}
}

// SeverityCarrier is implemented by faults that carry a platform severity code.
type SeverityCarrier interface {
	Severity() Severity
}

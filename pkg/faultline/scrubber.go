// scrubber.go implements fail-closed sensitive data redaction for events.

package faultline

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	redacted           = "[REDACTED]"
	redactedScrubError = "[REDACTED:SCRUB_ERROR]"
	truncationMarker   = "...[TRUNCATED]"
)

// ScrubberConfig controls scrubbing behavior.
type ScrubberConfig struct {
	// SensitiveKeys contains additional case-insensitive substrings marking
	// tag, extra and argument keys as sensitive.
	SensitiveKeys []string

	// MaxMessageSize is the maximum length for messages and exception
	// values (default: 4096).
	MaxMessageSize int

	// MaxValueSize is the maximum length for a single tag or extra value
	// (default: 1024).
	MaxValueSize int

	// ScrubMessages enables scrubbing of messages for secrets and PII (default: true).
	ScrubMessages bool

	// ScrubPaths replaces user-specific directories in frame paths (default: true).
	ScrubPaths bool

	// FailClosed redacts every free-text field when scrubbing fails (default: true).
	FailClosed bool
}

// DefaultScrubberConfig returns production-safe defaults.
func DefaultScrubberConfig() ScrubberConfig {
	return ScrubberConfig{
		MaxMessageSize: 4096,
		MaxValueSize:   1024,
		ScrubMessages:  true,
		ScrubPaths:     true,
		FailClosed:     true,
	}
}

// Compiled regex patterns for message scrubbing (compiled once at package init)
var messageScrubPatterns = []*regexp.Regexp{
	// API keys and tokens
	regexp.MustCompile(`(?i)(api[_-]?key|token)[=:\s]+['"]?[\w\-\.]+['"]?`),
	regexp.MustCompile(`(?i)(authorization|bearer)[=:\s]+['"]?[\w\-\.]+['"]?[\s]+['"]?[\w\-\.]+['"]?`),
	regexp.MustCompile(`(?i)sk-[a-zA-Z0-9_-]{20,}`),
	regexp.MustCompile(`(?i)ghp_[a-zA-Z0-9]{36}`),
	regexp.MustCompile(`(?i)gho_[a-zA-Z0-9]{36}`),
	regexp.MustCompile(`(?i)github_pat_[a-zA-Z0-9_]{22,}`),
	regexp.MustCompile(`(?i)xox[baprs]-[a-zA-Z0-9\-]{10,}`),
	regexp.MustCompile(`(?i)eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`), // JWT

	// Credentials
	regexp.MustCompile(`(?i)password[=:\s]+['"]?[^\s'"",]+['"]?`),
	regexp.MustCompile(`(?i)secret[=:\s]+['"]?[^\s'"",]+['"]?`),
	regexp.MustCompile(`(?i)passwd[=:\s]+['"]?[^\s'"",]+['"]?`),
	regexp.MustCompile(`(?i)credential[=:\s]+['"]?[^\s'"",]+['"]?`),

	// PII
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`), // Email
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),                                 // SSN
	regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`),           // Credit card
}

// Sensitive key patterns (case-insensitive substring match)
var sensitiveKeyPatterns = []string{
	"token",
	"key",
	"secret",
	"password",
	"credential",
	"auth",
	"passwd",
}

// User-specific directory prefixes normalized in paths
var pathNormalizationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^/home/[^/]+/`),
	regexp.MustCompile(`^/Users/[^/]+/`),
	regexp.MustCompile(`^C:\\Users\\[^\\]+\\`),
	regexp.MustCompile(`^/tmp/[^/]+/`),
}

// Scrubber redacts sensitive data from events.
type Scrubber struct {
	cfg ScrubberConfig
}

// NewScrubber creates a new scrubber with the given configuration.
func NewScrubber(cfg ScrubberConfig) *Scrubber {
	def := DefaultScrubberConfig()
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = def.MaxMessageSize
	}
	if cfg.MaxValueSize <= 0 {
		cfg.MaxValueSize = def.MaxValueSize
	}
	return &Scrubber{cfg: cfg}
}

// ScrubEvent scrubs e in place. When scrubbing fails and FailClosed is set,
// the free-text fields of e are fully redacted and the failure is returned.
func (s *Scrubber) ScrubEvent(e *Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scrub event: %v", r)
			if s.cfg.FailClosed {
				redactEvent(e)
			}
		}
	}()

	e.Message = s.ScrubMessage(e.Message)
	e.MessageFormatted = s.ScrubMessage(e.MessageFormatted)
	if len(e.MessageParams) > 0 {
		params := make([]string, len(e.MessageParams))
		for i, p := range e.MessageParams {
			params[i] = s.ScrubMessage(p)
		}
		e.MessageParams = params
	}

	e.Tags = s.ScrubTags(e.Tags)
	e.Extra = s.ScrubValues(e.Extra)
	e.Request = s.ScrubValues(e.Request)

	for i := range e.Breadcrumbs {
		b := &e.Breadcrumbs[i]
		b.message = s.ScrubMessage(b.message)
		b.metadata = s.ScrubValues(b.metadata)
	}

	for i := range e.Exceptions {
		e.Exceptions[i].Value = s.ScrubMessage(e.Exceptions[i].Value)
		s.scrubStacktrace(e.Exceptions[i].Stacktrace)
	}
	s.scrubStacktrace(e.Stacktrace)
	return nil
}

// ScrubMessage scrubs sensitive patterns from a message.
func (s *Scrubber) ScrubMessage(msg string) string {
	if !s.cfg.ScrubMessages || msg == "" {
		return msg
	}

	if len(msg) > s.cfg.MaxMessageSize {
		msg = truncateWithMarker(msg, s.cfg.MaxMessageSize)
	}

	result := msg
	for _, pattern := range messageScrubPatterns {
		result = pattern.ReplaceAllString(result, redacted)
	}
	return result
}

// ScrubTags redacts sensitive keys and bounds values.
func (s *Scrubber) ScrubTags(tags map[string]string) map[string]string {
	if tags == nil {
		return nil
	}

	result := make(map[string]string, len(tags))
	for key, value := range tags {
		if s.isSensitiveKey(key) {
			result[key] = redacted
			continue
		}
		if len(value) > s.cfg.MaxValueSize {
			value = truncateWithMarker(value, s.cfg.MaxValueSize)
		}
		result[key] = value
	}
	return result
}

// ScrubValues recursively redacts sensitive keys and scrubs string values.
func (s *Scrubber) ScrubValues(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	return s.scrubMap(values)
}

// ScrubPath replaces user-specific directory prefixes.
func (s *Scrubber) ScrubPath(path string) string {
	if !s.cfg.ScrubPaths || path == "" {
		return path
	}
	for _, pattern := range pathNormalizationPatterns {
		path = pattern.ReplaceAllString(path, "/[PATH]/")
	}
	return path
}

func (s *Scrubber) scrubStacktrace(st *Stacktrace) {
	if st == nil {
		return
	}
	for i := range st.frames {
		f := &st.frames[i]
		f.AbsPath = s.ScrubPath(f.AbsPath)
		f.Vars = s.ScrubValues(f.Vars)
	}
}

func (s *Scrubber) scrubValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return s.scrubMap(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = s.scrubValue(e)
		}
		return out
	case string:
		if len(v) > s.cfg.MaxValueSize {
			v = truncateWithMarker(v, s.cfg.MaxValueSize)
		}
		return s.ScrubMessage(v)
	default:
		return v
	}
}

func (s *Scrubber) scrubMap(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for key, value := range m {
		if s.isSensitiveKey(key) {
			result[key] = redacted
			continue
		}
		result[key] = s.scrubValue(value)
	}
	return result
}

// isSensitiveKey checks if a key matches sensitive patterns.
func (s *Scrubber) isSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	for _, pattern := range s.cfg.SensitiveKeys {
		if pattern != "" && strings.Contains(keyLower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// redactEvent replaces every free-text field of e.
func redactEvent(e *Event) {
	if e.Message != "" {
		e.Message = redactedScrubError
	}
	e.MessageParams = nil
	e.MessageFormatted = ""
	e.Extra = nil
	e.Request = nil
	for i := range e.Exceptions {
		e.Exceptions[i].Value = redactedScrubError
	}
	for i := range e.Breadcrumbs {
		e.Breadcrumbs[i].message = ""
		e.Breadcrumbs[i].metadata = nil
	}
}

// truncateWithMarker truncates a string and adds a truncation marker.
func truncateWithMarker(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= len(truncationMarker) {
		return truncationMarker[:maxLen]
	}
	return s[:maxLen-len(truncationMarker)] + truncationMarker
}

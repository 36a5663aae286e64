// fingerprint.go generates stable hashes for grouping similar events.

package faultline

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// fingerprintFrames is the number of application frames that contribute to
// a fingerprint.
const fingerprintFrames = 3

var (
	// Match memory addresses like "0x1234abcd"
	memAddrPattern = regexp.MustCompile(`0x[0-9a-fA-F]+`)

	// Match generated-name suffixes like ":12$1a"
	objectIDPattern = regexp.MustCompile(`:\d+\$[0-9a-fA-F]+`)
)

// Fingerprint generates a hash for grouping similar events.
// The fingerprint is based on:
//   - the exception types, top-level first
//   - the agent and tool tags
//   - the innermost 3 application frames (function names only, normalized)
//
// Events without exceptions use the raw message template instead of the
// types. Timestamps, event IDs, formatted messages, line numbers and memory
// addresses are ignored.
func Fingerprint(e *Event) string {
	var parts []string
	for _, rec := range e.Exceptions {
		parts = append(parts, rec.Type)
	}
	if len(e.Exceptions) == 0 {
		parts = append(parts, e.Message)
	}
	parts = append(parts, e.Tags["agent"], e.Tags["tool"])

	st := e.Stacktrace
	if len(e.Exceptions) > 0 {
		st = e.Exceptions[0].Stacktrace
	}
	parts = append(parts, normalizeFrames(st)...)

	input := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(input))

	// Return hex-encoded first 16 bytes (32 hex chars)
	return hex.EncodeToString(hash[:16])
}

// normalizeFrames returns the innermost application function names,
// stripping addresses and closure suffixes. When no frame is marked as
// application code every named frame is considered.
func normalizeFrames(st *Stacktrace) []string {
	if st == nil {
		return nil
	}

	pick := func(appOnly bool) []string {
		var names []string
		for i := len(st.frames) - 1; i >= 0 && len(names) < fingerprintFrames; i-- {
			f := st.frames[i]
			if f.Function == "" || (appOnly && !f.InApp) {
				continue
			}
			name := objectIDPattern.ReplaceAllString(f.Function, "")
			name = memAddrPattern.ReplaceAllString(name, "")
			name = goFuncLiteralPattern.ReplaceAllString(name, "")
			names = append(names, name)
		}
		return names
	}

	if names := pick(true); len(names) > 0 {
		return names
	}
	return pick(false)
}

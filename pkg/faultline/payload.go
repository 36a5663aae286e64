// payload.go maps an Event onto the wire document layout.

package faultline

import (
	"fmt"
	"sort"
	"time"
)

// Platform is the platform tag reported on every event.
const Platform = "go"

// Assemble builds the wire document for e. It is pure and deterministic:
// the same event always yields the same document.
func Assemble(e *Event) *WireDocument {
	doc := &WireDocument{}
	o := &doc.Object

	o.Set("event_id", e.ID.String())
	o.Set("timestamp", unixSeconds(e.Timestamp))
	o.Set("platform", Platform)

	if e.Level != "" {
		o.Set("level", e.Level.String())
	}
	if e.ServerName != "" {
		o.Set("server_name", e.ServerName)
	}
	if e.Environment != "" {
		o.Set("environment", e.Environment)
	}
	if len(e.Fingerprint) > 0 {
		o.Set("fingerprint", e.Fingerprint)
	}
	if len(e.Modules) > 0 {
		o.Set("modules", e.Modules)
	}
	if len(e.Extra) > 0 {
		o.Set("extra", e.Extra)
	}
	if len(e.Tags) > 0 {
		o.Set("tags", e.Tags)
	}
	if e.User != nil {
		o.Set("user", assembleUser(e.User))
	}
	if contexts := assembleContexts(e); len(contexts) > 0 {
		o.Set("contexts", contexts)
	}
	if len(e.Breadcrumbs) > 0 {
		values := make([]Object, len(e.Breadcrumbs))
		for i, b := range e.Breadcrumbs {
			values[i] = assembleBreadcrumb(b)
		}
		o.Set("breadcrumbs", Object{{Key: "values", Value: values}})
	}
	if len(e.Request) > 0 {
		o.Set("request", e.Request)
	}
	if e.Message != "" {
		o.Set("message", assembleMessage(e))
	}

	// The in-memory chain is top-level first; the wire wants the root cause
	// first.
	if n := len(e.Exceptions); n > 0 {
		values := make([]Object, 0, n)
		for i := n - 1; i >= 0; i-- {
			values = append(values, assembleException(e.Exceptions[i]))
		}
		o.Set("exception", Object{{Key: "values", Value: values}})
	}

	if e.Stacktrace != nil {
		o.Set("stacktrace", assembleStacktrace(e.Stacktrace, "frames"))
	}
	return doc
}

func assembleUser(u *User) Object {
	keys := make([]string, 0, len(u.Metadata))
	for k := range u.Metadata {
		switch k {
		case "id", "username", "email", "ip_address", "segment":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Object, 0, len(keys)+5)
	for _, k := range keys {
		out = append(out, Field{Key: k, Value: u.Metadata[k]})
	}
	out = append(out,
		Field{Key: "id", Value: nullable(u.ID)},
		Field{Key: "username", Value: nullable(u.Username)},
		Field{Key: "email", Value: nullable(u.Email)},
		Field{Key: "ip_address", Value: nullable(u.IPAddress)},
		Field{Key: "segment", Value: nullable(u.Segment)},
	)
	return out
}

// assembleContexts writes the OS context first, then the named contexts in
// key order. A named "os" context replaces the OS context in place.
func assembleContexts(e *Event) Object {
	var out Object
	if e.OS != nil {
		out.Set("os", assembleOS(e.OS))
	}
	names := make([]string, 0, len(e.Contexts))
	for name := range e.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out.Set(name, e.Contexts[name])
	}
	return out
}

func assembleOS(os *OSContext) Object {
	var out Object
	if os.Name != "" {
		out.Set("name", os.Name)
	}
	if os.Version != "" {
		out.Set("version", os.Version)
	}
	if os.Build != "" {
		out.Set("build", os.Build)
	}
	if os.KernelVersion != "" {
		out.Set("kernel_version", os.KernelVersion)
	}
	return out
}

func assembleBreadcrumb(b Breadcrumb) Object {
	out := Object{
		{Key: "type", Value: b.typ},
		{Key: "category", Value: b.category},
		{Key: "level", Value: b.level.String()},
		{Key: "timestamp", Value: unixSeconds(b.timestamp)},
	}
	if b.message != "" {
		out = append(out, Field{Key: "message", Value: b.message})
	}
	if len(b.metadata) > 0 {
		out = append(out, Field{Key: "data", Value: b.metadata})
	}
	return out
}

func assembleMessage(e *Event) any {
	if len(e.MessageParams) == 0 {
		return e.Message
	}
	formatted := e.MessageFormatted
	if formatted == "" {
		formatted = FormatMessage(e.Message, e.MessageParams)
	}
	return Object{
		{Key: "message", Value: e.Message},
		{Key: "params", Value: e.MessageParams},
		{Key: "formatted", Value: formatted},
	}
}

// FormatMessage substitutes params positionally into message.
func FormatMessage(message string, params []string) string {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p
	}
	return fmt.Sprintf(message, args...)
}

func assembleException(rec ExceptionRecord) Object {
	out := Object{
		{Key: "type", Value: rec.Type},
		{Key: "value", Value: rec.Value},
	}
	if rec.Stacktrace != nil {
		out = append(out, Field{Key: "stacktrace", Value: assembleStacktrace(rec.Stacktrace, "contexts")})
	}
	return out
}

// assembleStacktrace lists the frames of st under key. The ingestion
// protocol reads exception frames from "contexts" and the event's own
// stacktrace from "frames".
func assembleStacktrace(st *Stacktrace, key string) Object {
	frames := make([]Object, len(st.frames))
	for i, f := range st.frames {
		frames[i] = assembleFrame(f)
	}
	return Object{{Key: key, Value: frames}}
}

func assembleFrame(f Frame) Object {
	out := Object{
		{Key: "filename", Value: f.File},
		{Key: "line_number", Value: f.Line},
	}
	if f.AbsPath != "" {
		out = append(out, Field{Key: "abs_path", Value: f.AbsPath})
	}
	if f.Function != "" {
		out = append(out, Field{Key: "function", Value: f.Function})
	}
	if f.RawFunction != "" {
		out = append(out, Field{Key: "raw_function", Value: f.RawFunction})
	}
	if len(f.PreContext) > 0 {
		out = append(out, Field{Key: "pre_context", Value: f.PreContext})
	}
	if f.ContextLine != nil {
		out = append(out, Field{Key: "context_line", Value: *f.ContextLine})
	}
	if len(f.PostContext) > 0 {
		out = append(out, Field{Key: "post_context", Value: f.PostContext})
	}
	if len(f.Vars) > 0 {
		out = append(out, Field{Key: "vars", Value: f.Vars})
	}
	return out
}

// unixSeconds renders t as Unix seconds with microsecond precision.
func unixSeconds(t time.Time) rawNumber {
	us := t.UnixMicro()
	sec, frac := us/1e6, us%1e6
	if frac < 0 {
		sec--
		frac += 1e6
	}
	return rawNumber(fmt.Sprintf("%d.%06d", sec, frac))
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

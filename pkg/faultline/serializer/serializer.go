// Package serializer renders arbitrary runtime values into bounded,
// JSON-safe display values.
//
// Every leaf produced by Serialize is a string: booleans, numbers and nil are
// rendered in their literal text form so callers can treat every value as a
// display string. Composite values become []any or map[string]any trees whose
// leaves are strings. Depth, total size and reference cycles are bounded.
package serializer

import (
	"fmt"
	"math"
	"reflect"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// TruncationMarker replaces content dropped because a bound was exceeded.
	TruncationMarker = "...[TRUNCATED]"

	// RecursionMarker replaces a value that is reachable from itself.
	RecursionMarker = "[RECURSION]"
)

// Config bounds the serializer output.
type Config struct {
	// MaxDepth is the deepest container level that is expanded (default: 5).
	MaxDepth int

	// MaxSize is the byte budget for all keys and leaves emitted by one
	// Serialize call (default: 2048).
	MaxSize int

	// MaxStringLength is the maximum rune length of a single string leaf
	// (default: 1024).
	MaxStringLength int
}

// DefaultConfig returns the default bounds.
func DefaultConfig() Config {
	return Config{
		MaxDepth:        5,
		MaxSize:         2048,
		MaxStringLength: 1024,
	}
}

// Serializer converts values into bounded display values.
// A Serializer is immutable and safe for concurrent use.
type Serializer struct {
	cfg Config
}

// New creates a Serializer. Non-positive bounds fall back to the defaults.
func New(cfg Config) *Serializer {
	def := DefaultConfig()
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = def.MaxSize
	}
	if cfg.MaxStringLength <= 0 {
		cfg.MaxStringLength = def.MaxStringLength
	}
	return &Serializer{cfg: cfg}
}

// Config returns the bounds in effect.
func (s *Serializer) Config() Config {
	return s.cfg
}

// Serialize renders v. The result is a string, or a []any / map[string]any
// whose leaves are strings. Serialize never panics on user values.
func (s *Serializer) Serialize(v any) any {
	w := &walker{
		cfg:     s.cfg,
		budget:  s.cfg.MaxSize,
		visited: make(map[visitKey]struct{}),
	}
	return w.walk(reflect.ValueOf(v), 0)
}

// visitKey identifies a referenced object. The type is part of the key so a
// struct and its first field, which share an address, are not confused.
type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

type walker struct {
	cfg     Config
	budget  int
	visited map[visitKey]struct{}
}

// emit charges s against the size budget and returns what may be written.
func (w *walker) emit(s string) string {
	if w.budget <= 0 {
		return TruncationMarker
	}
	if len(s) > w.budget {
		s = truncate(s, w.budget)
	}
	w.budget -= len(s)
	return s
}

func (w *walker) exhausted() bool {
	return w.budget <= 0
}

func (w *walker) walk(v reflect.Value, depth int) any {
	if !v.IsValid() {
		return w.emit("null")
	}

	if leaf, ok := w.special(v); ok {
		return w.emit(leaf)
	}

	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return w.emit("true")
		}
		return w.emit("false")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return w.emit(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return w.emit(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32:
		return w.emit(FormatFloat(v.Float(), 32))
	case reflect.Float64:
		return w.emit(FormatFloat(v.Float(), 64))
	case reflect.Complex64, reflect.Complex128:
		return w.emit(strconv.FormatComplex(v.Complex(), 'g', -1, 128))
	case reflect.String:
		return w.emit(w.clip(v.String()))
	case reflect.Func:
		if v.IsNil() {
			return w.emit("null")
		}
		return w.emit("Function " + funcName(v))
	case reflect.Chan:
		if v.IsNil() {
			return w.emit("null")
		}
		return w.emit("Resource " + v.Type().String())
	case reflect.UnsafePointer:
		return w.emit("Object " + v.Type().String())
	case reflect.Interface:
		if v.IsNil() {
			return w.emit("null")
		}
		return w.walk(v.Elem(), depth)
	case reflect.Pointer:
		if v.IsNil() {
			return w.emit("null")
		}
		key := visitKey{ptr: v.Pointer(), typ: v.Type()}
		if _, seen := w.visited[key]; seen {
			return w.emit(RecursionMarker)
		}
		w.visited[key] = struct{}{}
		defer delete(w.visited, key)
		return w.walk(v.Elem(), depth)
	case reflect.Slice:
		if v.IsNil() {
			return w.emit("null")
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return w.emit(fmt.Sprintf("Binary of length %d", v.Len()))
		}
		if v.Len() > 0 {
			key := visitKey{ptr: v.Pointer(), typ: v.Type()}
			if _, seen := w.visited[key]; seen {
				return w.emit(RecursionMarker)
			}
			w.visited[key] = struct{}{}
			defer delete(w.visited, key)
		}
		return w.list(v, depth)
	case reflect.Array:
		return w.list(v, depth)
	case reflect.Map:
		if v.IsNil() {
			return w.emit("null")
		}
		key := visitKey{ptr: v.Pointer(), typ: v.Type()}
		if _, seen := w.visited[key]; seen {
			return w.emit(RecursionMarker)
		}
		w.visited[key] = struct{}{}
		defer delete(w.visited, key)
		return w.dict(v, depth)
	case reflect.Struct:
		return w.object(v, depth)
	}

	return w.emit("Object " + v.Type().String())
}

// special handles types whose textual form is more useful than their shape.
func (w *walker) special(v reflect.Value) (string, bool) {
	if !v.CanInterface() {
		return "", false
	}
	if v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "", false
		}
	}

	switch x := v.Interface().(type) {
	case time.Time:
		return x.Format(time.RFC3339Nano), true
	case time.Duration:
		return x.String(), true
	case error:
		msg, ok := safeString(x.Error)
		if !ok {
			return "Object " + v.Type().String(), true
		}
		return w.clip(msg), true
	case fmt.Stringer:
		msg, ok := safeString(x.String)
		if !ok {
			return "Object " + v.Type().String(), true
		}
		return w.clip(msg), true
	}
	return "", false
}

func (w *walker) list(v reflect.Value, depth int) any {
	if depth >= w.cfg.MaxDepth {
		return w.emit(fmt.Sprintf("Array of length %d", v.Len()))
	}
	out := make([]any, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		if w.exhausted() {
			out = append(out, TruncationMarker)
			break
		}
		out = append(out, w.walk(v.Index(i), depth+1))
	}
	return out
}

func (w *walker) dict(v reflect.Value, depth int) any {
	if depth >= w.cfg.MaxDepth {
		return w.emit(fmt.Sprintf("Array of length %d", v.Len()))
	}

	type entry struct {
		key string
		typ string
		val reflect.Value
	}
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k := iter.Key()
		entries = append(entries, entry{key: mapKey(k), typ: keyType(k), val: iter.Value()})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].key != entries[j].key {
			return entries[i].key < entries[j].key
		}
		return entries[i].typ < entries[j].typ
	})

	out := make(map[string]any, len(entries))
	for _, e := range entries {
		if w.exhausted() {
			out[TruncationMarker] = TruncationMarker
			break
		}
		out[uniqueKey(out, w.emit(e.key))] = w.walk(e.val, depth+1)
	}
	return out
}

// uniqueKey suffixes key with #2, #3 and so on while out already holds it.
// Distinct map keys can format to the same text, such as 1 and "1".
func uniqueKey(out map[string]any, key string) string {
	if _, taken := out[key]; !taken {
		return key
	}
	for n := 2; ; n++ {
		k := key + "#" + strconv.Itoa(n)
		if _, taken := out[k]; !taken {
			return k
		}
	}
}

func (w *walker) object(v reflect.Value, depth int) any {
	t := v.Type()
	if depth >= w.cfg.MaxDepth {
		return w.emit("Object " + t.String())
	}

	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if w.exhausted() {
			out[TruncationMarker] = TruncationMarker
			break
		}
		out[w.emit(field.Name)] = w.walk(v.Field(i), depth+1)
	}
	if len(out) == 0 {
		return w.emit("Object " + t.String())
	}
	return out
}

// clip bounds a single string leaf to MaxStringLength runes.
func (w *walker) clip(s string) string {
	if utf8.RuneCountInString(s) <= w.cfg.MaxStringLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:w.cfg.MaxStringLength]) + TruncationMarker
}

// FormatFloat renders f so that integral values keep a fractional marker,
// e.g. 1 renders as "1.0" rather than "1".
func FormatFloat(f float64, bitSize int) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, bitSize)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, bitSize) + ".0"
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}

func mapKey(k reflect.Value) string {
	for k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	switch k.Kind() {
	case reflect.String:
		return k.String()
	case reflect.Float32, reflect.Float64:
		return FormatFloat(k.Float(), 64)
	}
	if k.CanInterface() {
		return fmt.Sprint(k.Interface())
	}
	return k.Type().String()
}

func keyType(k reflect.Value) string {
	for k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	return k.Type().String()
}

func funcName(v reflect.Value) string {
	if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
		return fn.Name()
	}
	return v.Type().String()
}

// safeString calls fn, reporting false if it panics.
func safeString(fn func() string) (s string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return fn(), true
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= len(TruncationMarker) {
		return TruncationMarker[:maxLen]
	}
	cut := maxLen - len(TruncationMarker)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.ToValidUTF8(s[:cut], "") + TruncationMarker
}

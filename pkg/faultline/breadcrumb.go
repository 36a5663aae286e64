// breadcrumb.go defines the immutable breadcrumb trail entry.

package faultline

import (
	"fmt"
	"maps"
	"time"
)

// Breadcrumb types.
const (
	BreadcrumbTypeDefault    = "default"
	BreadcrumbTypeHTTP       = "http"
	BreadcrumbTypeNavigation = "navigation"
	BreadcrumbTypeUser       = "user"
)

// Breadcrumb is a timestamped, leveled diagnostic entry that precedes a fault.
// Breadcrumb values are immutable: the With methods return modified copies
// and never share the metadata map with the receiver.
type Breadcrumb struct {
	level     Level
	typ       string
	category  string
	message   string
	metadata  map[string]any
	timestamp time.Time
}

// NewBreadcrumb creates a breadcrumb stamped with the current time.
// An empty typ defaults to BreadcrumbTypeDefault.
func NewBreadcrumb(level Level, typ, category string) (Breadcrumb, error) {
	if _, err := ParseLevel(string(level)); err != nil {
		return Breadcrumb{}, fmt.Errorf("breadcrumb: %w", err)
	}
	if typ == "" {
		typ = BreadcrumbTypeDefault
	}
	return Breadcrumb{
		level:     level,
		typ:       typ,
		category:  category,
		timestamp: time.Now(),
	}, nil
}

// BreadcrumbFromMap builds a breadcrumb from a loose map using the keys
// level, type, category, message, data and timestamp. The level and category
// keys are required.
func BreadcrumbFromMap(m map[string]any) (Breadcrumb, error) {
	levelStr, _ := m["level"].(string)
	typ, _ := m["type"].(string)
	category, _ := m["category"].(string)

	b, err := NewBreadcrumb(Level(levelStr), typ, category)
	if err != nil {
		return Breadcrumb{}, err
	}
	if msg, ok := m["message"].(string); ok {
		b.message = msg
	}
	if data, ok := m["data"].(map[string]any); ok {
		b.metadata = maps.Clone(data)
	}
	switch ts := m["timestamp"].(type) {
	case time.Time:
		b.timestamp = ts
	case float64:
		b.timestamp = unixFloat(ts)
	case int64:
		b.timestamp = time.Unix(ts, 0)
	case int:
		b.timestamp = time.Unix(int64(ts), 0)
	}
	return b, nil
}

func (b Breadcrumb) Level() Level         { return b.level }
func (b Breadcrumb) Type() string         { return b.typ }
func (b Breadcrumb) Category() string     { return b.category }
func (b Breadcrumb) Message() string      { return b.message }
func (b Breadcrumb) Timestamp() time.Time { return b.timestamp }

// Metadata returns a copy of the breadcrumb metadata.
func (b Breadcrumb) Metadata() map[string]any {
	return maps.Clone(b.metadata)
}

// WithLevel returns a copy with the level replaced.
func (b Breadcrumb) WithLevel(level Level) (Breadcrumb, error) {
	if _, err := ParseLevel(string(level)); err != nil {
		return b, fmt.Errorf("breadcrumb: %w", err)
	}
	b.metadata = maps.Clone(b.metadata)
	b.level = level
	return b, nil
}

// WithType returns a copy with the type replaced.
func (b Breadcrumb) WithType(typ string) Breadcrumb {
	b.metadata = maps.Clone(b.metadata)
	b.typ = typ
	return b
}

// WithCategory returns a copy with the category replaced.
func (b Breadcrumb) WithCategory(category string) Breadcrumb {
	b.metadata = maps.Clone(b.metadata)
	b.category = category
	return b
}

// WithMessage returns a copy with the message replaced.
func (b Breadcrumb) WithMessage(message string) Breadcrumb {
	b.metadata = maps.Clone(b.metadata)
	b.message = message
	return b
}

// WithTimestamp returns a copy with the timestamp replaced.
func (b Breadcrumb) WithTimestamp(ts time.Time) Breadcrumb {
	b.metadata = maps.Clone(b.metadata)
	b.timestamp = ts
	return b
}

// WithMetadata returns a copy with key set to value.
func (b Breadcrumb) WithMetadata(key string, value any) Breadcrumb {
	md := make(map[string]any, len(b.metadata)+1)
	maps.Copy(md, b.metadata)
	md[key] = value
	b.metadata = md
	return b
}

// WithoutMetadata returns a copy with key removed.
func (b Breadcrumb) WithoutMetadata(key string) Breadcrumb {
	md := maps.Clone(b.metadata)
	delete(md, key)
	b.metadata = md
	return b
}

func unixFloat(f float64) time.Time {
	sec := int64(f)
	nsec := int64((f - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

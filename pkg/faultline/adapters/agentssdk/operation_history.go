// Operation trail for agent runs - keeps the most recent breadcrumbs in a ring buffer.
package agentssdk

import "github.com/strongdm/faultline/pkg/faultline"

// trailBuffer is a bounded ring buffer of breadcrumbs.
type trailBuffer struct {
	records  []faultline.Breadcrumb
	maxSize  int
	writeIdx int
}

// Add appends a breadcrumb, evicting the oldest if the buffer is full.
func (b *trailBuffer) Add(record faultline.Breadcrumb) {
	if len(b.records) < b.maxSize {
		b.records = append(b.records, record)
		return
	}
	b.records[b.writeIdx] = record
	b.writeIdx = (b.writeIdx + 1) % b.maxSize
}

// All returns a copy of the breadcrumbs in chronological order (oldest first).
func (b *trailBuffer) All() []faultline.Breadcrumb {
	if len(b.records) == 0 {
		return nil
	}
	result := make([]faultline.Breadcrumb, len(b.records))
	if len(b.records) < b.maxSize {
		copy(result, b.records)
		return result
	}
	// writeIdx points to the oldest record
	n := copy(result, b.records[b.writeIdx:])
	copy(result[n:], b.records[:b.writeIdx])
	return result
}

// UpdateLast replaces the most recently added breadcrumb with fn's result.
func (b *trailBuffer) UpdateLast(fn func(faultline.Breadcrumb) faultline.Breadcrumb) bool {
	if len(b.records) == 0 {
		return false
	}
	lastIdx := len(b.records) - 1
	if len(b.records) == b.maxSize {
		lastIdx = (b.writeIdx - 1 + b.maxSize) % b.maxSize
	}
	b.records[lastIdx] = fn(b.records[lastIdx])
	return true
}

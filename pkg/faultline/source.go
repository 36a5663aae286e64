// source.go reads source-line windows around frame locations.

package faultline

import (
	"bytes"
	"os"

	lru "github.com/hashicorp/golang-lru"
)

const (
	defaultContextLines    = 10
	defaultSourceCacheSize = 128

	// maxSourceFileSize bounds the files read for context windows.
	maxSourceFileSize = 8 << 20
)

// sourceWindow is the text surrounding one line.
type sourceWindow struct {
	pre  []string
	line *string
	post []string
}

// sourceCache caches file contents split into lines. Files that cannot be
// read are cached as empty.
type sourceCache struct {
	cache *lru.Cache
}

func newSourceCache(size int) *sourceCache {
	if size <= 0 {
		size = defaultSourceCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return &sourceCache{cache: cache}
}

func (c *sourceCache) lines(path string) []string {
	if v, ok := c.cache.Get(path); ok {
		return v.([]string)
	}
	var lines []string
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() && info.Size() <= maxSourceFileSize {
		if data, err := os.ReadFile(path); err == nil {
			lines = splitLines(data)
		}
	}
	c.cache.Add(path, lines)
	return lines
}

// window returns up to radius lines either side of the 1-based line.
func (c *sourceCache) window(path string, line, radius int) sourceWindow {
	if path == "" || line < 1 || radius < 0 {
		return sourceWindow{}
	}
	lines := c.lines(path)
	if line > len(lines) {
		return sourceWindow{}
	}

	idx := line - 1
	start := max(idx-radius, 0)
	end := min(idx+radius+1, len(lines))

	current := lines[idx]
	w := sourceWindow{line: &current}
	if start < idx {
		w.pre = append([]string(nil), lines[start:idx]...)
	}
	if idx+1 < end {
		w.post = append([]string(nil), lines[idx+1:end]...)
	}
	return w
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	raw := bytes.Split(data, []byte("\n"))
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = string(bytes.TrimSuffix(l, []byte("\r")))
	}
	return lines
}

// system.go captures operating system and runtime state at capture time.

package faultline

import (
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	kernelOnce    sync.Once
	kernelVersion string
)

// CaptureOSContext describes the operating system the process runs on.
func CaptureOSContext() *OSContext {
	kernelOnce.Do(func() {
		// Linux only; other platforms report no kernel version.
		if data, err := os.ReadFile("/proc/sys/kernel/osrelease"); err == nil {
			kernelVersion = strings.TrimSpace(string(data))
		}
	})
	return &OSContext{
		Name:          runtime.GOOS,
		KernelVersion: kernelVersion,
	}
}

// CaptureRuntimeContext captures Go runtime metrics at the current moment.
// startTime is used to calculate process uptime.
func CaptureRuntimeContext(startTime time.Time) map[string]any {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	uptimeMs := time.Since(startTime).Milliseconds()
	if uptimeMs < 0 {
		uptimeMs = 0 // Clamp to 0 if start time is in the future
	}

	return map[string]any{
		"name":         "go",
		"version":      runtime.Version(),
		"arch":         runtime.GOARCH,
		"goroutines":   runtime.NumGoroutine(),
		"memory_bytes": int64(memStats.Alloc),
		"uptime_ms":    uptimeMs,
	}
}

// callers.go captures Go runtime stacks and converts them into backtrace
// descriptors.

package faultline

import (
	"github.com/pkg/errors"
	"go.elastic.co/apm/stacktrace"
)

// maxCallerFrames bounds captured runtime stacks.
const maxCallerFrames = 64

func init() {
	stacktrace.RegisterLibraryPackage("github.com/strongdm/faultline/pkg/faultline")
}

// stackTracer is implemented by errors created with github.com/pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// callerFrames captures the calling goroutine's stack. skip 0 starts at the
// caller of callerFrames.
func callerFrames(skip int) []stacktrace.Frame {
	return stacktrace.AppendStacktrace(nil, skip+2, maxCallerFrames)
}

// errorsStackFrames converts the stack recorded by github.com/pkg/errors.
func errorsStackFrames(err stackTracer) []stacktrace.Frame {
	st := err.StackTrace()
	if len(st) == 0 {
		return nil
	}
	pcs := make([]uintptr, len(st))
	for i, f := range st {
		pcs[i] = uintptr(f)
	}
	return stacktrace.AppendCallerFrames(nil, pcs, maxCallerFrames)
}

// afterPanic drops the frames of the panicking machinery, keeping the frames
// from the function that panicked outward. Stacks without a panic are
// returned unchanged.
func afterPanic(frames []stacktrace.Frame) []stacktrace.Frame {
	for i, f := range frames {
		if f.Function == "runtime.gopanic" || f.Function == "runtime.panicmem" || f.Function == "runtime.sigpanic" {
			for i+1 < len(frames) && isRuntimePanicFrame(frames[i+1].Function) {
				i++
			}
			return frames[i+1:]
		}
	}
	return frames
}

func isRuntimePanicFrame(fn string) bool {
	switch fn {
	case "runtime.gopanic", "runtime.panicmem", "runtime.sigpanic",
		"runtime.panicIndex", "runtime.goPanicIndex", "runtime.panicdivide":
		return true
	}
	return false
}

// runtimeBacktrace converts runtime frames, innermost first, into
// descriptors and the fault site. Descriptor k carries function k and the
// position of frame k+1 as its call site.
func runtimeBacktrace(frames []stacktrace.Frame) ([]FrameInfo, string, int) {
	if len(frames) == 0 {
		return nil, "", 0
	}
	infos := make([]FrameInfo, len(frames))
	for k, f := range frames {
		infos[k].Function = f.Function
		if k+1 < len(frames) {
			infos[k].File = frames[k+1].File
			infos[k].Line = frames[k+1].Line
		}
	}
	return infos, frames[0].File, frames[0].Line
}

func (sb *StackBuilder) fromRuntime(frames []stacktrace.Frame) *Stacktrace {
	if len(frames) == 0 {
		return nil
	}
	infos, file, line := runtimeBacktrace(frames)
	return sb.FromBacktrace(infos, file, line)
}

// isLibraryFunction reports whether a Go function name belongs to the
// standard library, a registered library package or this module.
func isLibraryFunction(name string) bool {
	pkg, _ := stacktrace.SplitFunctionName(name)
	return pkg == "" || stacktrace.IsLibraryPackage(pkg)
}

// stack_builder.go builds stacktraces from raw backtraces and fault traces.

package faultline

// StackBuilder drives a FrameBuilder over backtraces.
type StackBuilder struct {
	frames *FrameBuilder
}

// NewStackBuilder creates a StackBuilder. A nil FrameBuilder uses defaults.
func NewStackBuilder(fb *FrameBuilder) *StackBuilder {
	if fb == nil {
		fb = NewFrameBuilder(FrameBuilderConfig{})
	}
	return &StackBuilder{frames: fb}
}

// FrameBuilder returns the underlying frame builder.
func (sb *StackBuilder) FrameBuilder() *FrameBuilder {
	return sb.frames
}

// FromBacktrace builds a stacktrace from descriptors ordered innermost call
// first. file and line locate the fault site. Each descriptor contributes the
// frame at the current location, after which the location moves to the
// descriptor's call site. A final frame for the remaining location is added
// as the oldest frame, so the result always holds len(frames)+1 frames.
func (sb *StackBuilder) FromBacktrace(frames []FrameInfo, file string, line int) *Stacktrace {
	out := make([]Frame, len(frames)+1)
	pos := len(frames)
	for i := range frames {
		info := &frames[i]
		out[pos] = sb.frames.Build(file, line, info)
		pos--

		file, line = info.File, info.Line
		if file == "" {
			file, line = InternalFile, 0
		}
	}
	out[pos] = sb.frames.Build(file, line, nil)
	return &Stacktrace{frames: out}
}

// FromFault builds a stacktrace from the fault's own trace. It returns nil
// when err carries no trace.
func (sb *StackBuilder) FromFault(err error) *Stacktrace {
	switch e := err.(type) {
	case Tracer:
		frames, file, line := e.FaultTrace()
		if file == "" && len(frames) == 0 {
			return nil
		}
		return sb.FromBacktrace(frames, file, line)
	case stackTracer:
		return sb.fromRuntime(errorsStackFrames(e))
	}
	return nil
}

// FromCallers builds a stacktrace of the calling goroutine. skip 0 starts at
// the caller of FromCallers.
func (sb *StackBuilder) FromCallers(skip int) *Stacktrace {
	return sb.fromRuntime(callerFrames(skip + 1))
}

// recover.go provides the Recover helper for panic capture.
// Use this in HTTP handlers, goroutines, or other code that must survive a
// panic.

package faultline

import (
	"context"
	"fmt"
)

// Recover captures a panic at level fatal and returns the recovered value.
// Recover does NOT re-panic after capturing.
//
// Use in defer:
//
//	func handler(ctx context.Context) {
//	    defer faultline.Recover(ctx, client)
//	    // code that might panic
//	}
//
// recover only stops a panic when called by the deferred function itself,
// so code that needs the recovered value recovers on its own and captures a
// PanicError:
//
//	func handler(ctx context.Context) (err error) {
//	    defer func() {
//	        if r := recover(); r != nil {
//	            client.CaptureError(ctx, faultline.NewPanicError(r))
//	            err = fmt.Errorf("panic: %v", r)
//	        }
//	    }()
//	    // code that might panic
//	}
func Recover(ctx context.Context, client *Client) any {
	r := recover()
	if r == nil {
		return nil
	}
	if client == nil {
		return r
	}

	e := NewEvent("")
	e.Level = LevelFatal
	e.SetTag("mechanism", "panic")

	// Capture errors are logged by the client and never affect the caller.
	client.capture(ctx, e, &EventHint{Err: NewPanicError(r)}, 1)
	return r
}

// PanicError is a recovered panic value together with the stack of the
// panicking goroutine.
type PanicError struct {
	Value any

	frames []FrameInfo
	file   string
	line   int
}

// NewPanicError wraps a recovered value, capturing the current stack. Call
// it from the deferred function that recovered.
func NewPanicError(recovered any) *PanicError {
	frames, file, line := runtimeBacktrace(afterPanic(callerFrames(0)))
	return &PanicError{Value: recovered, frames: frames, file: file, line: line}
}

func (p *PanicError) Error() string {
	return formatRecovered(p.Value)
}

// Unwrap returns the recovered value when it is an error.
func (p *PanicError) Unwrap() error {
	err, _ := p.Value.(error)
	return err
}

// FaultType reports the recovered error's type, or "panic" for other values.
func (p *PanicError) FaultType() string {
	if err, ok := p.Value.(error); ok {
		return faultType(err)
	}
	return "panic"
}

// FaultTrace implements Tracer.
func (p *PanicError) FaultTrace() ([]FrameInfo, string, int) {
	return p.frames, p.file, p.line
}

// formatRecovered formats a recovered panic value as a string.
func formatRecovered(recovered any) string {
	if recovered == nil {
		return "<nil>"
	}
	if err, ok := recovered.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", recovered)
}

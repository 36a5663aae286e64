// frame_info.go defines the raw call-site descriptor consumed by the frame
// and stack builders.

package faultline

// Call types recorded on a FrameInfo.
const (
	CallTypeInstance = "->"
	CallTypeStatic   = "::"
)

// FrameInfo describes one entry of a raw backtrace: the function that was
// executing and the call site it was invoked from.
type FrameInfo struct {
	// File and Line locate the call site. An empty File means the call
	// site is unknown.
	File string
	Line int

	// Class is the receiver type name, empty for plain functions.
	Class string

	// Function is the function or method name.
	Function string

	// CallType is CallTypeInstance, CallTypeStatic or empty.
	CallType string

	// Args holds positional argument values. A nil slice means arguments
	// were not recorded.
	Args []any
}

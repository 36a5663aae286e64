// frame.go defines a single reconstructed stack frame.

package faultline

// InternalFile is the file name of frames with no backing source file.
const InternalFile = "[internal]"

// AnonymousClassPrefix marks class names generated for anonymous classes.
// The rest of the name is the defining file path followed by an object-id
// suffix.
const AnonymousClassPrefix = "anonymous@class\x00"

// Frame is one entry of a Stacktrace.
type Frame struct {
	// Function is the normalized function name. Empty if unknown.
	Function string

	// RawFunction is the Class::function form before anonymous-class
	// rewriting. Empty unless the frame belongs to a class.
	RawFunction string

	// File is the base file name, or InternalFile.
	File string

	// AbsPath is the absolute file path. Empty for internal frames.
	AbsPath string

	// RelativePath is AbsPath relative to the configured root.
	RelativePath string

	// Line is the 1-based line number, 0 if unknown.
	Line int

	PreContext  []string
	ContextLine *string
	PostContext []string

	// Vars holds serialized argument values keyed by parameter name.
	Vars map[string]any

	// InApp reports whether the frame belongs to application code.
	InApp bool
}

// IsInternal reports whether the frame has no source file.
func (f Frame) IsInternal() bool {
	return f.File == InternalFile
}

// exception.go defines one link of a fault's cause chain.

package faultline

// ExceptionRecord describes one fault in a cause chain.
type ExceptionRecord struct {
	// Type is the fault type name.
	Type string

	// Value is the fault message.
	Value string

	// Stacktrace is the fault's own trace, nil if it carried none.
	Stacktrace *Stacktrace
}

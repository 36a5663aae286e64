// fault.go defines foreign-runtime faults and cause-chain traversal.

package faultline

import (
	"fmt"
	"reflect"
	"strings"
)

// maxCauseChain bounds the number of links read from a cause chain.
const maxCauseChain = 10

// Tracer is implemented by faults that carry their own backtrace.
// FaultTrace returns the descriptors innermost call first together with the
// fault site.
type Tracer interface {
	FaultTrace() (frames []FrameInfo, file string, line int)
}

// FaultTyper is implemented by faults that name their own type.
type FaultTyper interface {
	FaultType() string
}

// Exception is a fault raised by a foreign runtime and reported with its own
// type name, location and trace.
type Exception struct {
	Type    string
	Message string
	File    string
	Line    int

	// Trace holds the backtrace, innermost call first.
	Trace []FrameInfo

	// Code is the platform severity code, zero if the fault has none.
	Code Severity

	Cause error
}

func (e *Exception) Error() string {
	if e.Type == "" {
		return e.Message
	}
	return e.Type + ": " + e.Message
}

// Unwrap returns the cause.
func (e *Exception) Unwrap() error {
	return e.Cause
}

// FaultType implements FaultTyper.
func (e *Exception) FaultType() string {
	return e.Type
}

// FaultTrace implements Tracer.
func (e *Exception) FaultTrace() ([]FrameInfo, string, int) {
	return e.Trace, e.File, e.Line
}

// Severity implements SeverityCarrier.
func (e *Exception) Severity() Severity {
	return e.Code
}

// faultLink is one fault of a cause chain.
type faultLink struct {
	err     error
	typ     string
	message string
}

// causeChain walks err to its root cause, top-level fault first. Every
// fault becomes its own link. A link that only annotates its cause with a
// stack, such as the pkg/errors withStack and withMessage wrappers or a
// same-typed wrapper repeating the message, is folded into its neighbour.
func causeChain(err error) []faultLink {
	var links []faultLink
	for i := 0; err != nil && i < maxCauseChain; i++ {
		link := faultLink{err: err, typ: faultType(err), message: faultMessage(err)}
		if n := len(links); n > 0 && annotates(links[n-1], link) {
			prev := &links[n-1]
			if isStackAnnotation(prev.err) {
				prev.typ = link.typ
			}
			if !hasTrace(prev.err) && hasTrace(err) {
				prev.err = err
			}
		} else {
			links = append(links, link)
		}
		err = causeOf(err)
	}
	return links
}

// annotates reports whether outer adds nothing to inner but a trace.
// Foreign faults are never folded.
func annotates(outer, inner faultLink) bool {
	if outer.message != inner.message || isForeignFault(outer.err) || isForeignFault(inner.err) {
		return false
	}
	if isStackAnnotation(outer.err) || isStackAnnotation(inner.err) {
		return true
	}
	return reflect.TypeOf(outer.err) == reflect.TypeOf(inner.err)
}

func isForeignFault(err error) bool {
	switch err.(type) {
	case Tracer, FaultTyper:
		return true
	}
	return false
}

// isStackAnnotation reports whether err is one of the pkg/errors wrappers
// that add a stack or a message prefix to a cause.
func isStackAnnotation(err error) bool {
	t := reflect.TypeOf(err)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() != "github.com/pkg/errors" {
		return false
	}
	switch t.Name() {
	case "withStack", "withMessage":
		return true
	}
	return false
}

func causeOf(err error) error {
	switch e := err.(type) {
	case interface{ Unwrap() error }:
		return e.Unwrap()
	case interface{ Unwrap() []error }:
		if errs := e.Unwrap(); len(errs) > 0 {
			return errs[0]
		}
	case interface{ Cause() error }:
		return e.Cause()
	}
	return nil
}

func faultType(err error) string {
	if t, ok := err.(FaultTyper); ok {
		if name := t.FaultType(); name != "" {
			return name
		}
	}
	return fmt.Sprintf("%T", err)
}

// faultMessage returns the message of err. Foreign exceptions report their
// bare message, without the type prefix Error adds.
func faultMessage(err error) string {
	if e, ok := err.(*Exception); ok {
		return e.Message
	}
	return strings.TrimSpace(safeErrorString(err))
}

func hasTrace(err error) bool {
	switch err.(type) {
	case Tracer, stackTracer:
		return true
	}
	return false
}

// safeErrorString calls Error, recovering from panicking implementations.
func safeErrorString(err error) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("%T", err)
		}
	}()
	return err.Error()
}

// signature.go resolves declared parameter names for recorded call arguments.

package faultline

import (
	"reflect"
	"regexp"
	"runtime"
	"strconv"
	"sync"
)

// Catch-all method names looked up when a class has no entry for the called
// method.
const (
	catchAllInstance = "__call"
	catchAllStatic   = "__callStatic"
)

// SignatureResolver returns the declared parameter names of a function.
// class is empty for plain functions. ok is false when the signature is
// unknown.
type SignatureResolver interface {
	ResolveParams(class, function string) (params []string, ok bool)
}

// SignatureMap is a SignatureResolver backed by registered signatures.
// It is safe for concurrent use.
type SignatureMap struct {
	mu   sync.RWMutex
	sigs map[string][]string
}

// NewSignatureMap creates an empty SignatureMap.
func NewSignatureMap() *SignatureMap {
	return &SignatureMap{sigs: make(map[string][]string)}
}

// Register records the parameter names of class::function, or of function
// when class is empty.
func (m *SignatureMap) Register(class, function string, params ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sigs[signatureKey(class, function)] = append([]string(nil), params...)
}

// RegisterFunc records the parameter names of fn under its runtime name.
// It returns the name fn was registered as.
func (m *SignatureMap) RegisterFunc(fn any, params ...string) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	name := f.Name()
	m.Register("", name, params...)
	return name
}

// ResolveParams implements SignatureResolver.
func (m *SignatureMap) ResolveParams(class, function string) ([]string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	params, ok := m.sigs[signatureKey(class, function)]
	return params, ok
}

func signatureKey(class, function string) string {
	if class == "" {
		return function
	}
	return class + "::" + function
}

// goFuncLiteralPattern matches compiler names of function literals, such as
// main.handler.func1 or pkg.(*T).Run.func2.3.
var goFuncLiteralPattern = regexp.MustCompile(`\.func\d+(\.\d+)*$`)

// isAnonymousFunction reports whether name denotes a closure, which never
// has a registered signature.
func isAnonymousFunction(name string) bool {
	switch name {
	case "{closure}", "__lambda_func":
		return true
	}
	return goFuncLiteralPattern.MatchString(name)
}

// resolveArgs maps positional args onto parameter names. Failures of any
// kind fall back to positional names param0, param1 and so on.
func resolveArgs(resolver SignatureResolver, info *FrameInfo) map[string]any {
	params, ok := lookupParams(resolver, info)
	out := make(map[string]any, len(info.Args))
	if !ok {
		for i, arg := range info.Args {
			out["param"+strconv.Itoa(i)] = arg
		}
		return out
	}
	for i, name := range params {
		if i >= len(info.Args) {
			continue
		}
		out[name] = info.Args[i]
	}
	return out
}

func lookupParams(resolver SignatureResolver, info *FrameInfo) (params []string, ok bool) {
	if resolver == nil {
		return nil, false
	}
	defer func() {
		if r := recover(); r != nil {
			params, ok = nil, false
		}
	}()

	if info.Class != "" {
		if params, ok = resolver.ResolveParams(info.Class, info.Function); ok {
			return params, true
		}
		catchAll := catchAllInstance
		if info.CallType == CallTypeStatic {
			catchAll = catchAllStatic
		}
		return resolver.ResolveParams(info.Class, catchAll)
	}

	if isAnonymousFunction(info.Function) {
		return nil, false
	}
	return resolver.ResolveParams("", info.Function)
}

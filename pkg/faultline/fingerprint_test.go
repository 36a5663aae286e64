package faultline

import (
	"testing"
)

func appStack(t *testing.T, lines []int, functions ...string) *Stacktrace {
	t.Helper()
	fs := make([]Frame, len(functions))
	for i, fn := range functions {
		fs[i] = Frame{Function: fn, File: "main.go", AbsPath: "/app/main.go", Line: lines[i], InApp: true}
	}
	st, err := NewStacktrace(fs)
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func faultEvent(t *testing.T, typ string, st *Stacktrace) *Event {
	e := testEvent()
	e.SetTag("agent", "researcher")
	e.SetTag("tool", "WebSearch")
	e.AddException(ExceptionRecord{Type: typ, Value: "connection timed out", Stacktrace: st})
	return e
}

func TestFingerprint_Stability(t *testing.T) {
	e := faultEvent(t, "*net.OpError", appStack(t, []int{10, 30, 42}, "main.main", "main.helper", "main.doSomething"))

	fp1 := Fingerprint(e)
	fp2 := Fingerprint(e)

	if fp1 != fp2 {
		t.Errorf("Same event produced different fingerprints: %q vs %q", fp1, fp2)
	}

	// Should be 32 hex characters (16 bytes)
	if len(fp1) != 32 {
		t.Errorf("Fingerprint length = %d, want 32", len(fp1))
	}
}

func TestFingerprint_DifferentLineNumbers_SameFingerprint(t *testing.T) {
	e1 := faultEvent(t, "panic", appStack(t, []int{10, 42}, "main.main", "main.doSomething"))
	e2 := faultEvent(t, "panic", appStack(t, []int{55, 99}, "main.main", "main.doSomething"))

	if fp1, fp2 := Fingerprint(e1), Fingerprint(e2); fp1 != fp2 {
		t.Errorf("Events differing only in line numbers should have same fingerprint: %q vs %q", fp1, fp2)
	}
}

func TestFingerprint_IgnoresVolatileFields(t *testing.T) {
	e1 := faultEvent(t, "panic", appStack(t, []int{1}, "main.handler.func1"))
	e2 := faultEvent(t, "panic", appStack(t, []int{1}, "main.handler.func2"))
	e2.ID = GenerateEventID()
	e2.Exceptions[0].Value = "a different message"

	if Fingerprint(e1) != Fingerprint(e2) {
		t.Error("closure suffixes, event IDs and exception messages should not affect the fingerprint")
	}

	e3 := faultEvent(t, "panic", appStack(t, []int{1}, "anonymous@class\x00a.php:12$1a::run"))
	e4 := faultEvent(t, "panic", appStack(t, []int{1}, "anonymous@class\x00a.php:12$2f::run"))
	if Fingerprint(e3) != Fingerprint(e4) {
		t.Error("object id suffixes should not affect the fingerprint")
	}
}

func TestFingerprint_DifferentTypes_DifferentFingerprint(t *testing.T) {
	st := appStack(t, []int{1}, "main.run")
	e1 := faultEvent(t, "*net.OpError", st)
	e2 := faultEvent(t, "*os.PathError", st)

	if Fingerprint(e1) == Fingerprint(e2) {
		t.Error("Different exception types should produce different fingerprints")
	}
}

func TestFingerprint_DifferentTools_DifferentFingerprint(t *testing.T) {
	st := appStack(t, []int{1}, "main.run")
	e1 := faultEvent(t, "timeout", st)
	e2 := faultEvent(t, "timeout", st)
	e2.SetTag("tool", "Calculator")

	if Fingerprint(e1) == Fingerprint(e2) {
		t.Error("Different tools should produce different fingerprints")
	}
}

func TestFingerprint_MessageTemplate(t *testing.T) {
	e1 := testEvent()
	e1.SetMessage("user %s not found", []string{"alice"}, "")
	e2 := testEvent()
	e2.SetMessage("user %s not found", []string{"bob"}, "")
	e3 := testEvent()
	e3.SetMessage("quota %s exceeded", []string{"alice"}, "")

	if Fingerprint(e1) != Fingerprint(e2) {
		t.Error("messages with the same template should group together")
	}
	if Fingerprint(e1) == Fingerprint(e3) {
		t.Error("messages with different templates should not group together")
	}
}

func TestNormalizeFrames(t *testing.T) {
	fs := []Frame{
		{Function: "main.main", InApp: true},
		{Function: "main.a", InApp: true},
		{Function: "main.b", InApp: true},
		{Function: "net/http.serve"},
		{Function: "main.c", InApp: true},
		{Function: "runtime.gopanic"},
	}
	st, _ := NewStacktrace(fs)

	got := normalizeFrames(st)
	want := []string{"main.c", "main.b", "main.a"}
	if len(got) != len(want) {
		t.Fatalf("normalizeFrames = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("normalizeFrames[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Without application frames, every named frame counts.
	lib, _ := NewStacktrace(frames("net/http.serve", "runtime.gopanic"))
	if got := normalizeFrames(lib); len(got) != 2 || got[0] != "runtime.gopanic" {
		t.Errorf("normalizeFrames = %v", got)
	}

	if normalizeFrames(nil) != nil {
		t.Error("normalizeFrames(nil) should be nil")
	}
}

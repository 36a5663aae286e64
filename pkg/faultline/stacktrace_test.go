package faultline

import (
	"errors"
	"testing"
)

func frames(names ...string) []Frame {
	out := make([]Frame, len(names))
	for i, n := range names {
		out[i] = Frame{Function: n, File: n + ".go", AbsPath: "/src/" + n + ".go", Line: i + 1}
	}
	return out
}

func TestNewStacktrace_RejectsEmpty(t *testing.T) {
	if _, err := NewStacktrace(nil); !errors.Is(err, ErrEmptyStacktrace) {
		t.Errorf("NewStacktrace(nil) error = %v, want ErrEmptyStacktrace", err)
	}
	if _, err := NewStacktrace([]Frame{}); !errors.Is(err, ErrEmptyStacktrace) {
		t.Errorf("NewStacktrace([]) error = %v, want ErrEmptyStacktrace", err)
	}
}

func TestNewStacktrace_CopiesFrames(t *testing.T) {
	in := frames("a", "b")
	st, err := NewStacktrace(in)
	if err != nil {
		t.Fatalf("NewStacktrace error = %v", err)
	}
	in[0].Function = "changed"

	f, _ := st.Frame(0)
	if f.Function != "a" {
		t.Error("stacktrace must not alias its input")
	}

	out := st.Frames()
	out[1].Function = "changed"
	if f, _ := st.Frame(1); f.Function != "b" {
		t.Error("Frames must return a copy")
	}
}

func TestStacktrace_RemoveFrame(t *testing.T) {
	st, _ := NewStacktrace(frames("a", "b", "c"))

	if err := st.RemoveFrame(3); !errors.Is(err, ErrFrameOutOfRange) {
		t.Errorf("RemoveFrame(3) error = %v, want ErrFrameOutOfRange", err)
	}
	if err := st.RemoveFrame(-1); !errors.Is(err, ErrFrameOutOfRange) {
		t.Errorf("RemoveFrame(-1) error = %v, want ErrFrameOutOfRange", err)
	}

	if err := st.RemoveFrame(1); err != nil {
		t.Fatalf("RemoveFrame(1) error = %v", err)
	}
	if st.Len() != 2 {
		t.Fatalf("Len = %d, want 2", st.Len())
	}
	if f, _ := st.Frame(1); f.Function != "c" {
		t.Errorf("frame 1 = %q, want c", f.Function)
	}

	if err := st.RemoveFrame(0); err != nil {
		t.Fatalf("RemoveFrame(0) error = %v", err)
	}
	if err := st.RemoveFrame(0); !errors.Is(err, ErrLastFrame) {
		t.Errorf("removing the last frame error = %v, want ErrLastFrame", err)
	}
	if st.Len() != 1 {
		t.Errorf("Len = %d, want 1", st.Len())
	}
}

func TestStacktrace_AddFrame(t *testing.T) {
	st, _ := NewStacktrace(frames("b"))
	st.AddFrame(Frame{Function: "a"})

	if st.Len() != 2 {
		t.Fatalf("Len = %d, want 2", st.Len())
	}
	if f, _ := st.Frame(0); f.Function != "a" {
		t.Errorf("AddFrame should insert the oldest frame, got %q first", f.Function)
	}
	if _, err := st.Frame(2); !errors.Is(err, ErrFrameOutOfRange) {
		t.Errorf("Frame(2) error = %v", err)
	}
}

// stacktrace.go defines the ordered, non-empty frame sequence.

package faultline

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrEmptyStacktrace is returned when a stacktrace is built from no frames.
	ErrEmptyStacktrace = errors.New("stacktrace: no frames")

	// ErrLastFrame is returned when removing a frame would empty the stacktrace.
	ErrLastFrame = errors.New("stacktrace: cannot remove the last frame")

	// ErrFrameOutOfRange is returned for an index outside the stacktrace.
	ErrFrameOutOfRange = errors.New("stacktrace: frame index out of range")
)

// Stacktrace is an ordered sequence of frames, oldest call first and the
// fault site last. A Stacktrace always holds at least one frame.
type Stacktrace struct {
	frames []Frame
}

// NewStacktrace creates a stacktrace from frames, oldest first.
func NewStacktrace(frames []Frame) (*Stacktrace, error) {
	if len(frames) == 0 {
		return nil, ErrEmptyStacktrace
	}
	return &Stacktrace{frames: slices.Clone(frames)}, nil
}

// Frames returns a copy of the frames, oldest first.
func (s *Stacktrace) Frames() []Frame {
	return slices.Clone(s.frames)
}

// Len returns the number of frames.
func (s *Stacktrace) Len() int {
	return len(s.frames)
}

// Frame returns the frame at index i.
func (s *Stacktrace) Frame(i int) (Frame, error) {
	if i < 0 || i >= len(s.frames) {
		return Frame{}, fmt.Errorf("%w: %d", ErrFrameOutOfRange, i)
	}
	return s.frames[i], nil
}

// AddFrame inserts f as the oldest frame.
func (s *Stacktrace) AddFrame(f Frame) {
	s.frames = slices.Insert(s.frames, 0, f)
}

// RemoveFrame removes the frame at index i.
func (s *Stacktrace) RemoveFrame(i int) error {
	if len(s.frames) <= 1 {
		return ErrLastFrame
	}
	if i < 0 || i >= len(s.frames) {
		return fmt.Errorf("%w: %d", ErrFrameOutOfRange, i)
	}
	s.frames = slices.Delete(s.frames, i, i+1)
	return nil
}

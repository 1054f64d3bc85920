package lisp

import (
	"fmt"
	"io"

	"github.com/WarpedWartWars/lips/parser/token"
)

// CallStack is a function call stack.
type CallStack struct {
	Frames []CallFrame
}

// CallFrame is one frame in the CallStack
type CallFrame struct {
	Name   string
	Source *token.Location
}

// Copy creates a copy of the current stack so that it can be attach to a
// runtime error.
func (s *CallStack) Copy() *CallStack {
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{frames}
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Height returns the number of frames in s.
func (s *CallStack) Height() int {
	return len(s.Frames)
}

// Push pushes a new stack frame onto s.
func (s *CallStack) Push(name string, loc *token.Location) {
	s.Frames = append(s.Frames, CallFrame{Name: name, Source: loc})
}

// Pop removes the top CallFrame from the stack and returns it.
func (s *CallStack) Pop() CallFrame {
	if len(s.Frames) < 1 {
		panic("pop called on an empty stack")
	}
	f := s.Frames[len(s.Frames)-1]
	s.Frames[len(s.Frames)-1] = CallFrame{}
	s.Frames = s.Frames[:len(s.Frames)-1]
	return f
}

// DebugPrint prints s
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	n, err := fmt.Fprintf(w, "Stack Trace [%d frames -- entrypoint last]:\n", len(s.Frames))
	if err != nil {
		return n, err
	}
	indent := "  "
	for i := len(s.Frames) - 1; i >= 0; i-- {
		f := s.Frames[i]
		loc := ""
		if f.Source != nil {
			loc = " at " + f.Source.String()
		}
		_n, err := fmt.Fprintf(w, "%sheight %d: %s%s\n", indent, i, f.Name, loc)
		n += _n
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

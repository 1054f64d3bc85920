package lisp

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"
)

// DefaultMaxDepth is the default limit on nested evaluation.
const DefaultMaxDepth = 10000

// Runtime is the state shared by every environment descending from one root.
// Nothing about an interpreter lives outside of its Runtime.
type Runtime struct {
	Root     *Env
	Reader   Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Fallback Fallback
	Logger   *slog.Logger
	Loop     *Loop
	Stack    *CallStack
	// MaxDepth limits the nesting of evaluation.  Zero means unlimited.
	MaxDepth int

	stdin   *bufio.Reader
	stdinMu sync.Mutex

	depth    int
	gensym   uint64
	envCount uint
}

func newRuntime() *Runtime {
	return &Runtime{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Loop:     NewLoop(),
		Stack:    &CallStack{},
		MaxDepth: DefaultMaxDepth,
		stdin:    bufio.NewReader(os.Stdin),
	}
}

func (rt *Runtime) envID() uint {
	rt.envCount++
	return rt.envCount
}

// GenSym returns a new symbol that has not been returned before by rt.
func (rt *Runtime) GenSym() *LVal {
	rt.gensym++
	return Symbol("#" + strconv.FormatUint(rt.gensym, 10))
}

// SetStdin replaces the reader used by the read builtin.
func (rt *Runtime) SetStdin(r io.Reader) {
	rt.stdinMu.Lock()
	defer rt.stdinMu.Unlock()
	rt.stdin = bufio.NewReader(r)
}

// ReadLine returns a Deferred holding the next line of standard input without
// its line terminator.
func (rt *Runtime) ReadLine() *Deferred {
	return rt.Loop.Go(func() (*LVal, error) {
		rt.stdinMu.Lock()
		defer rt.stdinMu.Unlock()
		line, err := rt.stdin.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, &Error{Kind: ErrReadError, Msg: err.Error(), Err: err}
		}
		n := len(line)
		if n > 0 && line[n-1] == '\n' {
			n--
			if n > 0 && line[n-1] == '\r' {
				n--
			}
		}
		return String(line[:n]), nil
	})
}

// Await runs the event loop until v settles.
func (rt *Runtime) Await(ctx context.Context, v *LVal) (*LVal, error) {
	return rt.Loop.Await(ctx, v)
}

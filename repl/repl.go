// Package repl implements an interactive read-eval-print loop on top of a
// line editor.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/WarpedWartWars/lips/lisp"
	"github.com/WarpedWartWars/lips/lisp/lisplib"
	"github.com/WarpedWartWars/lips/parser"
	"github.com/chzyer/readline"
)

// DefaultPrompt is the prompt shown before a new expression.
const DefaultPrompt = "lips> "

// Option customizes a repl.
type Option func(*options)

type options struct {
	prompt     string
	contPrompt string
	history    string
	config     []lisp.Config
	stdin      io.ReadCloser
	stdout     io.Writer
	stderr     io.Writer
}

// WithPrompt sets the primary prompt.
func WithPrompt(prompt string) Option {
	return func(o *options) { o.prompt = prompt }
}

// WithContinuationPrompt sets the prompt shown while an expression is
// incomplete.  By default it is a run of spaces as wide as the prompt.
func WithContinuationPrompt(prompt string) Option {
	return func(o *options) { o.contPrompt = prompt }
}

// WithHistoryFile persists line history in path.
func WithHistoryFile(path string) Option {
	return func(o *options) { o.history = path }
}

// WithConfig applies config to the repl environment after the standard
// library is loaded.
func WithConfig(config ...lisp.Config) Option {
	return func(o *options) { o.config = append(o.config, config...) }
}

// WithIO replaces the terminal streams used by the repl.
func WithIO(stdin io.ReadCloser, stdout, stderr io.Writer) Option {
	return func(o *options) {
		o.stdin = stdin
		o.stdout = stdout
		o.stderr = stderr
	}
}

// RunRepl runs a simple repl until the input is exhausted.
func RunRepl(ctx context.Context, opts ...Option) error {
	o := &options{
		prompt: DefaultPrompt,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, fn := range opts {
		fn(o)
	}
	if o.contPrompt == "" {
		o.contPrompt = strings.Repeat(" ", len(o.prompt)) // prompt had better be ascii...
	}

	s, err := NewSession(ctx, o.stdout, o.stderr, o.config...)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          o.prompt,
		HistoryFile:     o.history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           o.stdin,
		Stdout:          o.stdout,
		Stderr:          o.stderr,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.Reset()
			rl.SetPrompt(o.prompt)
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if s.Feed(line) {
			rl.SetPrompt(o.contPrompt)
		} else {
			rl.SetPrompt(o.prompt)
		}
	}
}

// Session accumulates input lines and evaluates them once they form
// balanced expressions.
type Session struct {
	Env    *lisp.Env
	ctx    context.Context
	buf    []string
	stdout io.Writer
	stderr io.Writer
}

// NewSession returns a Session whose environment has the standard library
// and config applied.  Results are printed to stdout and errors to stderr.
func NewSession(ctx context.Context, stdout, stderr io.Writer, config ...lisp.Config) (*Session, error) {
	env := lisp.NewEnv(nil)
	base := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithStdout(stdout),
		lisp.WithStderr(stderr),
		lisplib.WithLibrary(),
	}
	err := lisp.InitializeUserEnv(env, append(base, config...)...)
	if err != nil {
		return nil, err
	}
	return &Session{Env: env, ctx: ctx, stdout: stdout, stderr: stderr}, nil
}

// Feed adds a line of input.  It returns true when more lines are needed to
// complete the pending expression.
func (s *Session) Feed(line string) bool {
	s.buf = append(s.buf, line)
	src := strings.Join(s.buf, "\n")
	if parser.Depth(src) > 0 {
		return true
	}
	s.buf = nil
	if strings.TrimSpace(src) == "" {
		return false
	}
	s.eval(src)
	return false
}

// Reset discards any pending input.
func (s *Session) Reset() {
	s.buf = nil
}

func (s *Session) eval(src string) {
	vals, err := s.Env.Run(s.ctx, src)
	if err != nil {
		errln(s.stderr, err)
		return
	}
	for _, v := range vals {
		fmt.Fprintln(s.stdout, v)
	}
}

func errln(w io.Writer, err error) {
	var lerr *lisp.Error
	if errors.As(err, &lerr) {
		lerr.WriteTrace(w)
		return
	}
	fmt.Fprintln(w, err)
}

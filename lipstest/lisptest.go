// Package lipstest runs sequences of lisp expressions against fresh
// interpreters and checks their printed results.
package lipstest

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/WarpedWartWars/lips/lisp"
	"github.com/WarpedWartWars/lips/lisp/lisplib"
	"github.com/WarpedWartWars/lips/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DefaultTimeout bounds the time a single expression may take to settle.
const DefaultTimeout = 5 * time.Second

// TestSequence is a sequence of lisp expressions which are evaluated
// sequentially in one environment.
type TestSequence []struct {
	Expr string // lisp source, one or more forms
	// Result is the printed value of the last form, or the kind of the
	// error returned by evaluation (e.g. "TypeError").
	Result string
	Output string // text written by print
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// Runner is a test runner.
type Runner struct {
	// Config is applied to each test environment after the reader, output
	// and standard library are installed.
	Config []lisp.Config
	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration
}

// NewEnv returns an initialized environment whose print output goes to
// stdout.
func (r *Runner) NewEnv(stdout io.Writer) (*lisp.Env, error) {
	env := lisp.NewEnv(nil)
	config := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithStdout(stdout),
		lisplib.WithLibrary(),
	}
	config = append(config, r.Config...)
	err := lisp.InitializeUserEnv(env, config...)
	if err != nil {
		return nil, err
	}
	return env, nil
}

// Eval runs src in env and returns its result in the form compared against
// TestSequence results.
func (r *Runner) Eval(env *lisp.Env, src string) string {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	vals, err := env.Run(ctx, src)
	if err != nil {
		return errorResult(err)
	}
	if len(vals) == 0 {
		return ""
	}
	return vals[len(vals)-1].String()
}

func errorResult(err error) string {
	kind := lisp.KindOf(err)
	if kind == lisp.ErrUnknown && err == context.DeadlineExceeded {
		return "Timeout"
	}
	return kind.String()
}

// RunTestSuite runs each TestSequence in tests on an isolated environment.
func (r *Runner) RunTestSuite(t *testing.T, tests TestSuite) {
	for _, test := range tests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			var out bytes.Buffer
			env, err := r.NewEnv(&out)
			require.NoError(t, err)
			for j, expr := range test.TestSequence {
				out.Reset()
				result := r.Eval(env, expr.Expr)
				assert.Equal(t, expr.Result, result, "expr %d: %s", j, expr.Expr)
				assert.Equal(t, expr.Output, out.String(), "expr %d output: %s", j, expr.Expr)
			}
		})
	}
}

// RunTestSuite runs tests with a default Runner.
func RunTestSuite(t *testing.T, tests TestSuite) {
	r := &Runner{}
	r.RunTestSuite(t, tests)
}

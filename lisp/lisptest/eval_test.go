package lisptest

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/WarpedWartWars/lips/lisp"
	"github.com/WarpedWartWars/lips/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv(t *testing.T, config ...lisp.Config) *lisp.Env {
	t.Helper()
	env := lisp.NewEnv(nil)
	config = append([]lisp.Config{lisp.WithReader(parser.NewReader())}, config...)
	require.NoError(t, lisp.InitializeUserEnv(env, config...))
	return env
}

func run(t *testing.T, env *lisp.Env, src string) (string, error) {
	t.Helper()
	vals, err := env.Run(context.Background(), src)
	if err != nil {
		return "", err
	}
	if len(vals) == 0 {
		return "", nil
	}
	return vals[len(vals)-1].String(), nil
}

func TestExec_results(t *testing.T) {
	env := newEnv(t)
	v, err := env.Exec("(define x 2) (* x 3) 'done")
	require.NoError(t, err)
	assert.Equal(t, "(<#undefined> 6 done)", v.String())
}

func TestExec_dynamic(t *testing.T) {
	src := `
(define x 1)
(define (f) x)
(define (g) (let ((x 2)) (f)))
(g)`
	env := newEnv(t)
	v, err := lisp.Exec(src, env, false)
	require.NoError(t, err)
	vals := lisp.ToSlice(v)
	assert.Equal(t, "1", vals[len(vals)-1].String())

	env = newEnv(t)
	v, err = lisp.Exec(src, env, true)
	require.NoError(t, err)
	vals = lisp.ToSlice(v)
	assert.Equal(t, "2", vals[len(vals)-1].String())
}

func TestError_source(t *testing.T) {
	env := newEnv(t)
	_, err := lisp.ExecNamed("test.lisp", "(define x 1)\n  (car x)", env, false)
	require.Error(t, err)
	var lerr *lisp.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, lisp.ErrTypeError, lerr.Kind)
	require.NotNil(t, lerr.Source)
	assert.Equal(t, "test.lisp", lerr.Source.File)
	assert.Equal(t, 2, lerr.Source.Line)
	assert.Equal(t, 3, lerr.Source.Col)
	assert.Equal(t, "test.lisp:2:3: TypeError: car: argument is not a pair: number", err.Error())
	require.NotNil(t, lerr.Stack)
	assert.Equal(t, "car", lerr.Stack.Top().Name)
}

func TestError_unboundSource(t *testing.T) {
	env := newEnv(t)
	_, err := lisp.ExecNamed("test.lisp", "(+ 1\n   missing)", env, false)
	assert.ErrorIs(t, err, lisp.ErrUnboundVariable)
	assert.True(t, strings.HasPrefix(err.Error(), "test.lisp:2:4: "), err.Error())
}

func TestMaxDepth(t *testing.T) {
	src := "(define (count n) (if (= n 0) 0 (+ 1 (count (- n 1)))))"
	env := newEnv(t)
	_, err := run(t, env, src)
	require.NoError(t, err)
	v, err := run(t, env, "(count 1000)")
	require.NoError(t, err)
	assert.Equal(t, "1000", v)

	env = newEnv(t, lisp.WithMaximumDepth(100))
	_, err = run(t, env, src)
	require.NoError(t, err)
	_, err = run(t, env, "(count 1000)")
	assert.ErrorIs(t, err, lisp.ErrStackOverflow)
	// the runtime is usable after an overflow
	v, err = run(t, env, "(count 10)")
	require.NoError(t, err)
	assert.Equal(t, "10", v)
}

func TestFallback(t *testing.T) {
	host := lisp.MapFallback{
		"answer": 41,
		"shout": func(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
			return lisp.String(strings.ToUpper(args[0].Str)), nil
		},
	}
	env := newEnv(t, lisp.WithFallback(host))
	v, err := run(t, env, "(+ answer 1)")
	require.NoError(t, err)
	assert.Equal(t, "42", v)
	v, err = run(t, env, `(shout "hi")`)
	require.NoError(t, err)
	assert.Equal(t, `"HI"`, v)
	v, err = run(t, env, "(define answer 1) answer")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestDefinitions(t *testing.T) {
	env := newEnv(t, lisp.WithDefinitions(map[string]interface{}{
		"xs":   []interface{}{1, "a", nil},
		"name": "lips",
	}))
	v, err := run(t, env, "xs")
	require.NoError(t, err)
	assert.Equal(t, `(1 "a" nil)`, v)
	v, err = run(t, env, "name")
	require.NoError(t, err)
	assert.Equal(t, `"lips"`, v)
}

func TestStdin(t *testing.T) {
	env := newEnv(t, lisp.WithStdin(strings.NewReader("(+ 1 2)\r\n(a b\n")))
	v, err := run(t, env, "(eval (read))")
	require.NoError(t, err)
	assert.Equal(t, "3", v)
	_, err = run(t, env, "(read)")
	assert.ErrorIs(t, err, lisp.ErrUnbalancedParenthesis)
	_, err = run(t, env, "(read)")
	assert.ErrorIs(t, err, lisp.ErrReadError)
}

func TestStdout(t *testing.T) {
	var out bytes.Buffer
	env := newEnv(t, lisp.WithStdout(&out))
	_, err := run(t, env, `(print "a" 1 '(b "c"))`)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n(b \"c\")\n", out.String())
}

func TestHostDeferred(t *testing.T) {
	env := newEnv(t)
	env.AddBuiltins(lisp.NewBuiltinDef("fetch", "(x)", func(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
		x := args[0]
		d := env.Runtime.Loop.Go(func() (*lisp.LVal, error) {
			time.Sleep(time.Millisecond)
			return x, nil
		})
		return lisp.DeferredVal(d), nil
	}))
	v, err := run(t, env, "(+ (fetch 1) (fetch 2) 3)")
	require.NoError(t, err)
	assert.Equal(t, "6", v)
	v, err = run(t, env, "(define y (fetch 5)) (* y 2)")
	require.NoError(t, err)
	assert.Equal(t, "10", v)

	env.AddBuiltins(lisp.NewBuiltinDef("hang", "()", func(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
		return lisp.DeferredVal(env.Runtime.Loop.NewDeferred()), nil
	}))
	_, err = run(t, env, "(hang)")
	assert.Error(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = env.Run(ctx, "(sleep-forever)")
	assert.ErrorIs(t, err, lisp.ErrUnboundVariable)
	_, err = env.Run(ctx, "(timer 60000 1)")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	env := newEnv(t, lisp.WithLogger(logger))
	_, err := run(t, env, "(define (f) 1) (timer 1 (f))")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "timer started")
	assert.Contains(t, buf.String(), "macro expanded")
}

func TestWithBuiltins(t *testing.T) {
	double := lisp.NewBuiltinDef("double", "(x)", func(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
		if err := lisp.CheckArgs("double", args, 1, 1); err != nil {
			return nil, err
		}
		return lisp.Number(args[0].Num.Add(args[0].Num)), nil
	})
	env := newEnv(t, lisp.WithBuiltins(double))
	v, err := run(t, env, "(double 21)")
	require.NoError(t, err)
	assert.Equal(t, "42", v)
	_, err = run(t, env, "(double)")
	assert.ErrorIs(t, err, lisp.ErrArgumentError)

	other := newEnv(t)
	_, err = run(t, other, "(double 21)")
	assert.ErrorIs(t, err, lisp.ErrUnboundVariable)
	for _, def := range lisp.DefaultBuiltins() {
		assert.NotEqual(t, "double", def.Name())
	}
}

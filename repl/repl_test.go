package repl

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession(t *testing.T) {
	var out, errout bytes.Buffer
	s, err := NewSession(context.Background(), &out, &errout)
	require.NoError(t, err)

	assert.True(t, s.Feed("(define (sq x)"))
	assert.True(t, s.Feed("  (* x"))
	assert.False(t, s.Feed("x))"))
	assert.Equal(t, "<#undefined>\n", out.String())

	out.Reset()
	assert.False(t, s.Feed("(sq 7) (sq 2)"))
	assert.Equal(t, "49\n4\n", out.String())

	out.Reset()
	assert.False(t, s.Feed(""))
	assert.Equal(t, "", out.String())

	assert.True(t, s.Feed(`(concat "a`))
	assert.False(t, s.Feed(`b")`))
	assert.Equal(t, "\"a\\nb\"\n", out.String())
	assert.Empty(t, errout.String())
}

func TestSession_errors(t *testing.T) {
	var out, errout bytes.Buffer
	s, err := NewSession(context.Background(), &out, &errout)
	require.NoError(t, err)

	assert.False(t, s.Feed("(car 1)"))
	assert.Contains(t, errout.String(), "TypeError")
	assert.Empty(t, out.String())

	errout.Reset()
	assert.False(t, s.Feed("(+ 1 2))"))
	assert.Contains(t, errout.String(), "UnbalancedParenthesis")

	// the session recovers from errors
	out.Reset()
	assert.False(t, s.Feed("(+ 1 2)"))
	assert.Equal(t, "3\n", out.String())
}

func TestSession_reset(t *testing.T) {
	var out, errout bytes.Buffer
	s, err := NewSession(context.Background(), &out, &errout)
	require.NoError(t, err)

	assert.True(t, s.Feed("(list 1"))
	s.Reset()
	assert.False(t, s.Feed("'done"))
	assert.Equal(t, "done\n", out.String())
}

package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnv_scope(t *testing.T) {
	root := NewEnv(nil)
	assert.Same(t, root, root.Root())
	assert.Same(t, root, root.Runtime.Root)
	root.Set("x", Int(1))

	child := root.Inherit("")
	assert.Equal(t, "child of global", child.Name)
	assert.Same(t, root.Runtime, child.Runtime)
	assert.NotEqual(t, root.ID, child.ID)

	v, ok := child.Get("x")
	require.True(t, ok)
	assert.Equal(t, "1", v.String())

	// Set never modifies a parent frame.
	child.Set("x", Int(2))
	v, _ = child.Get("x")
	assert.Equal(t, "2", v.String())
	v, _ = root.Get("x")
	assert.Equal(t, "1", v.String())

	_, ok = child.Get("y")
	assert.False(t, ok)

	v, ok = child.GetSymbol(Symbol("x"))
	assert.True(t, ok)
	assert.Equal(t, "2", v.String())
	_, ok = child.GetSymbol(Int(1))
	assert.False(t, ok)
}

func TestEnv_inheritBindings(t *testing.T) {
	root := NewEnv(nil)
	bindings := map[string]*LVal{"a": Int(1)}
	child := root.InheritBindings(bindings, "frame")
	bindings["a"] = Int(2)
	v, ok := child.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", v.String())
	assert.Equal(t, "frame", child.Name)
}

func TestEnv_names(t *testing.T) {
	root := NewEnv(nil)
	root.Set("b", Int(1))
	root.Set("a", Int(1))
	child := root.Inherit("")
	child.Set("c", Int(1))
	child.Set("a", Int(2))
	assert.Equal(t, []string{"a", "c", "b"}, child.Names())
}

func TestEnv_fallback(t *testing.T) {
	env := NewEnv(nil)
	env.Runtime.Fallback = MapFallback{
		"n":    7,
		"s":    "str",
		"host": struct{ X int }{1},
	}
	v, ok := env.Get("n")
	require.True(t, ok)
	assert.Equal(t, "7", v.String())
	v, ok = env.Get("s")
	require.True(t, ok)
	assert.Equal(t, `"str"`, v.String())
	v, ok = env.Get("host")
	require.True(t, ok)
	assert.Equal(t, LNative, v.Type)
	_, ok = env.Get("missing")
	assert.False(t, ok)

	env.Set("n", Int(1))
	v, _ = env.Get("n")
	assert.Equal(t, "1", v.String())
}

func TestValue(t *testing.T) {
	tests := []struct {
		x    interface{}
		want string
	}{
		{nil, "nil"},
		{true, "true"},
		{"a", `"a"`},
		{3, "3"},
		{uint64(18446744073709551615), "18446744073709551615"},
		{2.5, "2.5"},
		{[]interface{}{1, "a", []interface{}{false}}, `(1 "a" (false))`},
		{Symbol("sym"), "sym"},
	}
	for _, test := range tests {
		v, err := Value(test.x)
		require.NoError(t, err)
		assert.Equal(t, test.want, v.String())
	}

	v, err := Value(func(env *Env, args []*LVal) (*LVal, error) { return Int(len(args)), nil })
	require.NoError(t, err)
	assert.True(t, v.IsBuiltin())
}

func TestInitializeUserEnv(t *testing.T) {
	env := NewEnv(nil)
	require.NoError(t, InitializeUserEnv(env, WithMaximumDepth(5), WithDefinitions(map[string]interface{}{"answer": 42})))
	assert.Equal(t, 5, env.Runtime.MaxDepth)
	for _, name := range []string{"define", "quasiquote", "car", "+", ">=", "caddr", "nil", "true", "false", "answer"} {
		_, ok := env.Get(name)
		assert.True(t, ok, name)
	}
	v, _ := env.Get("if")
	assert.Equal(t, LMacro, v.Type)
	v, _ = env.Get("car")
	assert.Equal(t, LFun, v.Type)
}

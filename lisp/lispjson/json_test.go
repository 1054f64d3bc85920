package lispjson

import (
	"testing"

	"github.com/WarpedWartWars/lips/lisp"
	"github.com/WarpedWartWars/lips/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		src  string
		json string
	}{
		{"nil", `null`},
		{"()", `[]`},
		{"foo", `{"name":"foo"}`},
		{`"a\"b"`, `"a\"b"`},
		{"12", `12`},
		{"1.5", `1.5`},
		{"2.0", `2.0`},
		{"(a . 1)", `{"car":{"name":"a"},"cdr":1}`},
		{"(1 2)", `{"car":1,"cdr":{"car":2,"cdr":null}}`},
		{"((a) b)", `{"car":{"car":{"name":"a"},"cdr":null},"cdr":{"car":{"name":"b"},"cdr":null}}`},
		{"/a+/i", `{"regexp":"a+","flags":"i"}`},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			vals, err := parser.ParseString(test.src)
			require.NoError(t, err)
			require.Len(t, vals, 1)
			b, err := Marshal(vals[0])
			require.NoError(t, err)
			assert.Equal(t, test.json, string(b))

			v, err := Unmarshal(b)
			require.NoError(t, err)
			assert.Equal(t, vals[0].String(), v.String())
		})
	}
}

func TestMarshal_bool(t *testing.T) {
	b, err := Marshal(lisp.List(lisp.Bool(true), lisp.Bool(false)))
	require.NoError(t, err)
	assert.Equal(t, `{"car":true,"cdr":{"car":false,"cdr":null}}`, string(b))
}

func TestMarshal_errors(t *testing.T) {
	_, err := Marshal(lisp.List(lisp.Int(1), lisp.Undefined()))
	assert.Error(t, err)
	_, err = Marshal(lisp.Fun("f", func(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
		return lisp.Nil(), nil
	}))
	assert.Error(t, err)
}

func TestUnmarshal(t *testing.T) {
	v, err := Unmarshal([]byte(`123456789012345678901234567890`))
	require.NoError(t, err)
	assert.True(t, v.Num.IsBig())

	v, err = Unmarshal([]byte(`{"car": 1, "cdr": {"car": 2, "cdr": {"name": "rest"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "(1 2 . rest)", v.String())

	_, err = Unmarshal([]byte(`{"cat": 1}`))
	assert.Error(t, err)
	_, err = Unmarshal([]byte(`[1]`))
	assert.Error(t, err)
}

func TestMarshal_long(t *testing.T) {
	vals := make([]*lisp.LVal, 1000)
	for i := range vals {
		vals[i] = lisp.Int(i)
	}
	b, err := Marshal(lisp.List(vals...))
	require.NoError(t, err)
	v, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, len(vals), v.Len())
}

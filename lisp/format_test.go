package lisp

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		v    *LVal
		want string
	}{
		{Nil(), "nil"},
		{EmptyList(), "()"},
		{Undefined(), "<#undefined>"},
		{Bool(true), "true"},
		{Int(-3), "-3"},
		{Float(3), "3.0"},
		{Float(0.25), "0.25"},
		{String("a\"b\n<"), `"a\"b\n<"`},
		{Symbol("foo"), "foo"},
		{Regexp(regexp.MustCompile("(?i)a+"), "gi"), "/a+/gi"},
		{Cons(Int(1), Int(2)), "(1 . 2)"},
		{List(Int(1), List(String("x")), EmptyList()), `(1 ("x") ())`},
		{QuoteVal(Symbol("a")), "'a"},
		{Unquote(Symbol("a"), 2, false), "<#unquote[2] a>"},
		{Macro("if", nil), "#<Macro if>"},
		{Fun("car", nil), "<#function car>"},
		{Native(7), "<#native 7>"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.v.String())
	}
	assert.Equal(t, "a\"b", String("a\"b").Display())
	assert.Equal(t, `("a")`, List(String("a")).Display())
}

func TestEqual(t *testing.T) {
	a := List(Int(1))
	tests := []struct {
		a, b *LVal
		want bool
	}{
		{Int(1), Int(1), true},
		{Int(1), Float(1), false},
		{String("a"), String("a"), true},
		{String("a"), Symbol("a"), false},
		{Symbol("a"), Symbol("a"), true},
		{a, a, true},
		{a, List(Int(1)), false},
		{Nil(), Nil(), true},
		{EmptyList(), EmptyList(), true},
		{Bool(false), Bool(false), true},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.a.Equal(test.b), "%v %v", test.a, test.b)
	}
}

func TestTruthiness(t *testing.T) {
	assert.False(t, Bool(false).IsTrue())
	assert.False(t, Undefined().IsTrue())
	assert.True(t, Nil().IsTrue())
	assert.True(t, EmptyList().IsTrue())
	assert.True(t, Int(0).IsTrue())
	assert.True(t, String("").IsTrue())
}

package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(xs ...int) *LVal {
	vals := make([]*LVal, len(xs))
	for i, x := range xs {
		vals[i] = Int(x)
	}
	return List(vals...)
}

func TestListBuilder(t *testing.T) {
	b := NewListBuilder()
	assert.Same(t, Nil(), b.List())
	b.Append(Int(1), Int(2))
	b.Append(Int(3))
	assert.Equal(t, "(1 2 3)", b.List().String())
	b.SetTail(Symbol("x"))
	assert.Equal(t, "(1 2 3 . x)", b.List().String())

	b = NewListBuilder()
	b.SetTail(Int(1))
	assert.Equal(t, "1", b.List().String())
}

func TestListIterator(t *testing.T) {
	it := NewListIterator(ints(1, 2))
	var got []string
	for it.Next() {
		got = append(got, it.Value().String())
	}
	assert.Equal(t, []string{"1", "2"}, got)
	assert.NoError(t, it.Err())

	it = NewListIterator(Cons(Int(1), Int(2)))
	assert.True(t, it.Next())
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), ErrTypeError)

	it = NewListIterator(EmptyList())
	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
}

func TestFromSlice(t *testing.T) {
	assert.Same(t, Nil(), FromSlice(nil))
	nested := FromSlice([]*LVal{Int(1), Native([]*LVal{Int(2), Int(3)})})
	assert.Equal(t, "(1 (2 3))", nested.String())
	assert.Len(t, ToNested(nested), 2)
	assert.Equal(t, LNative, ToNested(nested)[1].Type)
}

func TestClone(t *testing.T) {
	orig := List(Int(1), ints(2, 3))
	c := orig.Clone()
	assert.Equal(t, orig.String(), c.String())
	assert.NotSame(t, orig, c)
	assert.NotSame(t, orig.Cdr.Car, c.Cdr.Car)
	assert.Same(t, EmptyList(), EmptyList().Clone())
}

func TestAppend(t *testing.T) {
	a := ints(1, 2)
	b := a.Append(ints(3))
	assert.Equal(t, "(1 2)", a.String())
	assert.Equal(t, "(1 2 3)", b.String())
	assert.Same(t, a, a.AppendInPlace(ints(4)))
	assert.Equal(t, "(1 2 4)", a.String())
	assert.Equal(t, "(5)", EmptyList().Append(ints(5)).String())
}

func TestReverse(t *testing.T) {
	tests := []struct {
		in   *LVal
		want string
	}{
		{ints(1, 2, 3), "(3 2 1)"},
		{ints(1), "(1)"},
		{Nil(), "nil"},
		{EmptyList(), "()"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.in.Reverse().String())
	}
}

func TestLen(t *testing.T) {
	assert.Equal(t, 0, Nil().Len())
	assert.Equal(t, 0, EmptyList().Len())
	assert.Equal(t, 3, ints(1, 2, 3).Len())
	assert.Equal(t, 1, Cons(Int(1), Int(2)).Len())
	assert.True(t, ints(1).IsProperList())
	assert.False(t, Cons(Int(1), Int(2)).IsProperList())
}

func TestMap(t *testing.T) {
	alist := List(Cons(Symbol("a"), Int(1)), Cons(String("b"), Int(2)))
	m, err := alist.ToMap()
	require.NoError(t, err)
	assert.Equal(t, "1", m["a"].String())
	assert.Equal(t, "2", m["b"].String())
	assert.Equal(t, "((a . 1) (b . 2))", FromMap(m).String())

	_, err = List(Int(1)).ToMap()
	assert.ErrorIs(t, err, ErrTypeError)
}

func TestTransform(t *testing.T) {
	tree := List(Symbol("a"), List(Symbol("b"), Symbol("a")))
	out := tree.Transform(func(v *LVal) (*LVal, bool) {
		if v.IsSymbol("a") {
			return Symbol("z"), true
		}
		return nil, false
	})
	assert.Equal(t, "(z (b z))", out.String())
	assert.Equal(t, "(a (b a))", tree.String())
}

func TestReduce(t *testing.T) {
	sum, err := ints(1, 2, 3).Reduce(Int(0), func(acc, x *LVal) (*LVal, error) {
		return Number(acc.Num.Add(x.Num)), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "6", sum.String())
}

func TestFlatten(t *testing.T) {
	tree := List(Int(1), List(Int(2), List(Int(3))), Cons(Int(4), Int(5)))
	assert.Equal(t, "(1 2 3 4 5)", tree.Flatten().String())
}

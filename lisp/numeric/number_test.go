package numeric

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, test := range []struct {
		in     interface{}
		kind   Kind
		result string
	}{
		{1, Exact, "1"},
		{int64(-7), Exact, "-7"},
		{uint64(math.MaxUint64), Exact, "18446744073709551615"},
		{2.0, Exact, "2"},
		{2.5, Float, "2.5"},
		{math.Inf(1), Float, "+Inf"},
		{big.NewInt(42), Exact, "42"},
	} {
		n, err := New(test.in)
		require.NoError(t, err, "%v", test.in)
		assert.Equal(t, test.kind, n.Kind(), "%v", test.in)
		assert.Equal(t, test.result, n.String(), "%v", test.in)
	}
	_, err := New("1")
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestParse(t *testing.T) {
	n, err := ParseInt("123456789012345678901234567890")
	require.NoError(t, err)
	assert.True(t, n.IsBig())
	assert.Equal(t, "123456789012345678901234567890", n.String())

	n, err = ParseFloat("1.0")
	require.NoError(t, err)
	assert.True(t, n.IsFloat())
	assert.Equal(t, "1.0", n.String())

	n, err = ParseFloat("-2.5e3")
	require.NoError(t, err)
	assert.Equal(t, "-2500.0", n.String())

	_, err = ParseInt("12a")
	assert.Error(t, err)
}

func TestArithmetic(t *testing.T) {
	assert.Equal(t, "3", Int(1).Add(Int(2)).String())
	assert.Equal(t, "2.0", FloatOf(1).Add(Int(1)).String())
	assert.True(t, Int(1).Add(FloatOf(1)).IsFloat())
	assert.Equal(t, "-1", Int(1).Sub(Int(2)).String())
	assert.Equal(t, "12", Int(3).Mul(Int(4)).String())
	assert.Equal(t, "-5", Int(5).Neg().String())
	assert.Equal(t, "5", Int(-5).Abs().String())
	assert.Equal(t, "2.5", FloatOf(-2.5).Abs().String())
}

func TestOverflowPromotion(t *testing.T) {
	max := Int(math.MaxInt64)
	sum := max.Add(Int(1))
	assert.True(t, sum.IsBig())
	assert.Equal(t, "9223372036854775808", sum.String())
	assert.False(t, sum.IsFloat())

	back := sum.Sub(Int(1))
	assert.False(t, back.IsBig())
	assert.Equal(t, max.String(), back.String())

	min := Int(math.MinInt64)
	assert.Equal(t, "9223372036854775808", min.Neg().String())
	assert.Equal(t, "-9223372036854775809", min.Sub(Int(1)).String())
	assert.Equal(t, "85070591730234615847396907784232501249", max.Mul(max).String())
	assert.Equal(t, "9223372036854775808", min.Mul(Int(-1)).String())
}

func TestDiv(t *testing.T) {
	n, err := Int(6).Div(Int(3))
	require.NoError(t, err)
	assert.Equal(t, "2", n.String())

	n, err = Int(1).Div(Int(2))
	require.NoError(t, err)
	assert.True(t, n.IsFloat())
	assert.Equal(t, "0.5", n.String())

	_, err = Int(1).Div(Int(0))
	assert.ErrorIs(t, err, ErrDivisionByZero)

	n, err = FloatOf(1).Div(Int(0))
	require.NoError(t, err)
	assert.Equal(t, "+Inf", n.String())
}

func TestMod(t *testing.T) {
	n, err := Int(7).Mod(Int(3))
	require.NoError(t, err)
	assert.Equal(t, "1", n.String())

	n, err = Int(-7).Mod(Int(3))
	require.NoError(t, err)
	assert.Equal(t, "-1", n.String())

	n, err = FloatOf(7.5).Mod(Int(2))
	require.NoError(t, err)
	assert.Equal(t, "1.5", n.String())

	_, err = Int(7).Mod(Int(0))
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestPow(t *testing.T) {
	n, err := Int(2).Pow(Int(100))
	require.NoError(t, err)
	assert.Equal(t, "1267650600228229401496703205376", n.String())

	n, err = Int(2).Pow(Int(-1))
	require.NoError(t, err)
	assert.Equal(t, "0.5", n.String())

	n, err = FloatOf(4).Pow(FloatOf(0.5))
	require.NoError(t, err)
	assert.Equal(t, "2.0", n.String())

	n, err = Int(1).Pow(Int(math.MaxInt64))
	require.NoError(t, err)
	assert.Equal(t, "1", n.String())

	_, err = Int(3).Pow(Int(math.MaxInt64))
	assert.ErrorIs(t, err, ErrPowerUnsupported)
}

func TestSqrt(t *testing.T) {
	assert.Equal(t, "4", Int(16).Sqrt().String())
	assert.False(t, Int(16).Sqrt().IsFloat())
	assert.True(t, Int(2).Sqrt().IsFloat())
	assert.Equal(t, "1.5", FloatOf(2.25).Sqrt().String())
	assert.Equal(t, "NaN", Int(-4).Sqrt().String())
}

func TestCmp(t *testing.T) {
	assert.Equal(t, -1, Int(1).Cmp(Int(2)))
	assert.Equal(t, 0, Int(2).Cmp(FloatOf(2)))
	assert.Equal(t, 1, FloatOf(2.5).Cmp(Int(2)))
	huge, err := ParseInt("100000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, 1, huge.Cmp(Int(math.MaxInt64)))
	assert.Equal(t, -1, Int(math.MinInt64).Cmp(huge))
	assert.False(t, Int(2).Equal(FloatOf(2)))
	assert.True(t, Int(2).Equal(Int(2)))
}

func TestParity(t *testing.T) {
	assert.True(t, Int(3).IsOdd())
	assert.False(t, Int(3).IsEven())
	assert.True(t, Int(-4).IsEven())
	assert.True(t, FloatOf(3).IsOdd())
	assert.False(t, FloatOf(2.5).IsOdd())
	assert.False(t, FloatOf(2.5).IsEven())
	huge, err := ParseInt("100000000000000000001")
	require.NoError(t, err)
	assert.True(t, huge.IsOdd())
}

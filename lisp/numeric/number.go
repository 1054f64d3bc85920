// Package numeric implements the numeric tower used by lisp values.  A
// Number is either a float or an exact integer.  Exact integers use an int64
// representation until an operation overflows, at which point they are
// promoted to a *big.Int.
package numeric

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// Kind is the representation family of a Number.
type Kind uint8

// Possible Kind values
const (
	Exact Kind = iota
	Float
)

var kindStrings = []string{
	Exact: "exact",
	Float: "float",
}

func (k Kind) String() string {
	if int(k) < len(kindStrings) {
		return kindStrings[k]
	}
	return "invalid"
}

var (
	// ErrDivisionByZero is returned when an exact integer is divided by zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrPowerUnsupported is returned when an exponentiation cannot be
	// computed in the operands' representation.
	ErrPowerUnsupported = errors.New("Power operator not supported")
	// ErrNotNumeric is returned when a non-numeric value is coerced.
	ErrNotNumeric = errors.New("value is not numeric")
)

// maxPowBits bounds the size of exact powers.  Larger results are reported
// as ErrPowerUnsupported.
const maxPowBits = 1 << 24

// Number is an immutable numeric value.
type Number struct {
	kind Kind
	f    float64
	i    int64
	// big is non-nil only when an exact value does not fit in i.
	big *big.Int
}

// Int returns an exact Number.
func Int(x int64) *Number {
	return &Number{kind: Exact, i: x}
}

// FloatOf returns a float Number.  The float tag is kept even when x is
// integral.
func FloatOf(x float64) *Number {
	return &Number{kind: Float, f: x}
}

// Big returns an exact Number with value x.  The value of x is copied.
func Big(x *big.Int) *Number {
	return normalize(new(big.Int).Set(x))
}

// New constructs a Number from a Go numeric value.  Non-integral floats
// become float Numbers and integral values become exact.
func New(x interface{}) (*Number, error) {
	switch x := x.(type) {
	case *Number:
		return x, nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Big(new(big.Int).SetUint64(uint64(x))), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return Big(new(big.Int).SetUint64(x)), nil
	case *big.Int:
		return Big(x), nil
	case float32:
		return fromFloat(float64(x)), nil
	case float64:
		return fromFloat(x), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotNumeric, x)
	}
}

func fromFloat(x float64) *Number {
	if math.IsInf(x, 0) || math.IsNaN(x) || x != math.Trunc(x) {
		return FloatOf(x)
	}
	if x >= -(1<<63) && x < 1<<63 {
		return Int(int64(x))
	}
	z, _ := big.NewFloat(x).Int(nil)
	return normalize(z)
}

// ParseInt parses a decimal integer literal as an exact Number.
func ParseInt(s string) (*Number, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return Int(i), nil
	}
	z, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer literal: %q", s)
	}
	return normalize(z), nil
}

// ParseFloat parses a float literal as a float Number.
func ParseFloat(s string) (*Number, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var nerr *strconv.NumError
		if !errors.As(err, &nerr) || nerr.Err != strconv.ErrRange {
			return nil, fmt.Errorf("invalid float literal: %q", s)
		}
	}
	return FloatOf(f), nil
}

func normalize(z *big.Int) *Number {
	if z.IsInt64() {
		return Int(z.Int64())
	}
	return &Number{kind: Exact, big: z}
}

// Kind returns the representation family of n.
func (n *Number) Kind() Kind {
	return n.kind
}

// IsFloat returns true if n is a float.
func (n *Number) IsFloat() bool {
	return n.kind == Float
}

// IsBig returns true if n is an exact value outside the int64 range.
func (n *Number) IsBig() bool {
	return n.kind == Exact && n.big != nil
}

// Float64 returns the value of n as a float64, possibly losing precision.
func (n *Number) Float64() float64 {
	switch {
	case n.kind == Float:
		return n.f
	case n.big != nil:
		f, _ := new(big.Float).SetInt(n.big).Float64()
		return f
	default:
		return float64(n.i)
	}
}

// Int64 returns the value of n as an int64 and true if it is an exact value
// in the int64 range.
func (n *Number) Int64() (int64, bool) {
	if n.kind != Exact || n.big != nil {
		return 0, false
	}
	return n.i, true
}

// BigInt returns a copy of the exact value of n.  BigInt returns nil if n is
// a float.
func (n *Number) BigInt() *big.Int {
	if n.kind != Exact {
		return nil
	}
	if n.big != nil {
		return new(big.Int).Set(n.big)
	}
	return big.NewInt(n.i)
}

func (n *Number) bigVal() *big.Int {
	if n.big != nil {
		return n.big
	}
	return big.NewInt(n.i)
}

// coerce brings a and b into a common representation family.  An exact
// operand combined with a float is promoted to float.  Floats are never
// truncated.
func coerce(a, b *Number) (*Number, *Number) {
	if a.kind == b.kind {
		return a, b
	}
	if a.kind == Exact {
		return FloatOf(a.Float64()), b
	}
	return a, FloatOf(b.Float64())
}

// Add returns n+x.
func (n *Number) Add(x *Number) *Number {
	a, b := coerce(n, x)
	if a.kind == Float {
		return FloatOf(a.f + b.f)
	}
	if a.big == nil && b.big == nil {
		s := a.i + b.i
		if (s > a.i) == (b.i > 0) {
			return Int(s)
		}
	}
	return normalize(new(big.Int).Add(a.bigVal(), b.bigVal()))
}

// Sub returns n-x.
func (n *Number) Sub(x *Number) *Number {
	a, b := coerce(n, x)
	if a.kind == Float {
		return FloatOf(a.f - b.f)
	}
	if a.big == nil && b.big == nil {
		d := a.i - b.i
		if (d < a.i) == (b.i > 0) {
			return Int(d)
		}
	}
	return normalize(new(big.Int).Sub(a.bigVal(), b.bigVal()))
}

// Mul returns n*x.
func (n *Number) Mul(x *Number) *Number {
	a, b := coerce(n, x)
	if a.kind == Float {
		return FloatOf(a.f * b.f)
	}
	if a.big == nil && b.big == nil {
		if a.i == 0 || b.i == 0 {
			return Int(0)
		}
		p := a.i * b.i
		if p/b.i == a.i && !(a.i == -1 && b.i == math.MinInt64) && !(b.i == -1 && a.i == math.MinInt64) {
			return Int(p)
		}
	}
	return normalize(new(big.Int).Mul(a.bigVal(), b.bigVal()))
}

// Div returns n/x.  Exact operands that do not divide evenly produce a float.
func (n *Number) Div(x *Number) (*Number, error) {
	a, b := coerce(n, x)
	if a.kind == Float {
		return FloatOf(a.f / b.f), nil
	}
	if b.isZero() {
		return nil, ErrDivisionByZero
	}
	q, r := new(big.Int).QuoRem(a.bigVal(), b.bigVal(), new(big.Int))
	if r.Sign() == 0 {
		return normalize(q), nil
	}
	return FloatOf(a.Float64() / b.Float64()), nil
}

// Mod returns the truncated remainder of n/x, which has the sign of n.
func (n *Number) Mod(x *Number) (*Number, error) {
	a, b := coerce(n, x)
	if a.kind == Float {
		return FloatOf(math.Mod(a.f, b.f)), nil
	}
	if b.isZero() {
		return nil, ErrDivisionByZero
	}
	if a.big == nil && b.big == nil && b.i != -1 {
		return Int(a.i % b.i), nil
	}
	return normalize(new(big.Int).Rem(a.bigVal(), b.bigVal())), nil
}

// Pow returns n raised to the power x.  An exact base with a negative exact
// exponent produces a float.
func (n *Number) Pow(x *Number) (*Number, error) {
	a, b := coerce(n, x)
	if a.kind == Float {
		return FloatOf(math.Pow(a.f, b.f)), nil
	}
	if b.Sign() < 0 {
		return FloatOf(math.Pow(a.Float64(), b.Float64())), nil
	}
	base := a.bigVal()
	switch {
	case base.Sign() == 0, base.CmpAbs(big.NewInt(1)) == 0:
		return normalize(new(big.Int).Exp(base, b.bigVal(), nil)), nil
	case b.big != nil, b.i > maxPowBits:
		return nil, ErrPowerUnsupported
	case int64(base.BitLen()-1)*b.i > maxPowBits:
		return nil, ErrPowerUnsupported
	}
	return normalize(new(big.Int).Exp(base, b.bigVal(), nil)), nil
}

// Neg returns -n.
func (n *Number) Neg() *Number {
	switch {
	case n.kind == Float:
		return FloatOf(-n.f)
	case n.big == nil && n.i != math.MinInt64:
		return Int(-n.i)
	default:
		return normalize(new(big.Int).Neg(n.bigVal()))
	}
}

// Abs returns the absolute value of n.
func (n *Number) Abs() *Number {
	if n.Sign() < 0 {
		return n.Neg()
	}
	return n
}

// Sqrt returns the square root of n.  The square root of an exact perfect
// square is exact.
func (n *Number) Sqrt() *Number {
	if n.kind == Exact && n.Sign() >= 0 {
		r := new(big.Int).Sqrt(n.bigVal())
		if new(big.Int).Mul(r, r).Cmp(n.bigVal()) == 0 {
			return normalize(r)
		}
	}
	return FloatOf(math.Sqrt(n.Float64()))
}

// Cmp returns -1, 0, or 1 depending on whether n is less than, equal to, or
// greater than x.  NaN compares as less than every value.
func (n *Number) Cmp(x *Number) int {
	a, b := coerce(n, x)
	if a.kind == Float {
		switch {
		case a.f < b.f:
			return -1
		case a.f > b.f:
			return 1
		case a.f == b.f:
			return 0
		case math.IsNaN(a.f) && !math.IsNaN(b.f):
			return -1
		case math.IsNaN(b.f) && !math.IsNaN(a.f):
			return 1
		}
		return 0
	}
	if a.big == nil && b.big == nil {
		switch {
		case a.i < b.i:
			return -1
		case a.i > b.i:
			return 1
		}
		return 0
	}
	return a.bigVal().Cmp(b.bigVal())
}

// Sign returns -1, 0, or 1 depending on the sign of n.
func (n *Number) Sign() int {
	switch {
	case n.kind == Float:
		switch {
		case n.f < 0:
			return -1
		case n.f > 0:
			return 1
		}
		return 0
	case n.big != nil:
		return n.big.Sign()
	case n.i < 0:
		return -1
	case n.i > 0:
		return 1
	}
	return 0
}

func (n *Number) isZero() bool {
	return n.Sign() == 0 && !(n.kind == Float && math.IsNaN(n.f))
}

// IsOdd returns true if n is an odd integer.  A non-integral float is
// neither odd nor even.
func (n *Number) IsOdd() bool {
	return n.parity() == 1
}

// IsEven returns true if n is an even integer.
func (n *Number) IsEven() bool {
	return n.parity() == 0
}

// parity returns 0 for even values, 1 for odd values and -1 for values that
// are not integers.
func (n *Number) parity() int {
	switch {
	case n.kind == Float:
		if math.IsInf(n.f, 0) || math.IsNaN(n.f) || n.f != math.Trunc(n.f) {
			return -1
		}
		if math.Mod(math.Abs(n.f), 2) == 1 {
			return 1
		}
		return 0
	case n.big != nil:
		return int(n.big.Bit(0))
	default:
		return int(n.i & 1)
	}
}

// Equal returns true if n and x represent the same value in the same
// representation family.
func (n *Number) Equal(x *Number) bool {
	return n.kind == x.kind && n.Cmp(x) == 0
}

// String formats n.  Integral floats carry a trailing ".0" so they read back
// as floats.
func (n *Number) String() string {
	switch {
	case n.kind == Float:
		s := strconv.FormatFloat(n.f, 'g', -1, 64)
		if math.IsInf(n.f, 0) || math.IsNaN(n.f) {
			return s
		}
		for _, c := range s {
			if c == '.' || c == 'e' || c == 'E' {
				return s
			}
		}
		return s + ".0"
	case n.big != nil:
		return n.big.String()
	default:
		return strconv.FormatInt(n.i, 10)
	}
}

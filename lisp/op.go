package lisp

import (
	"errors"

	"github.com/WarpedWartWars/lips/lisp/numeric"
)

var opBuiltins = []*BuiltinDef{
	{"+", "(&rest x)", builtinAdd},
	{"-", "(x &rest y)", builtinSub},
	{"*", "(&rest x)", builtinMul},
	{"/", "(x &rest y)", builtinDiv},
	{"%", "(a b)", builtinMod},
	{"**", "(a b)", builtinPow},
	{"abs", "(x)", unaryOp("abs", (*numeric.Number).Abs)},
	{"sqrt", "(x)", unaryOp("sqrt", (*numeric.Number).Sqrt)},
	{"1+", "(x)", unaryOp("1+", func(n *numeric.Number) *numeric.Number { return n.Add(numeric.Int(1)) })},
	{"1-", "(x)", unaryOp("1-", func(n *numeric.Number) *numeric.Number { return n.Sub(numeric.Int(1)) })},
	{"odd", "(x)", parityOp("odd", (*numeric.Number).IsOdd)},
	{"even", "(x)", parityOp("even", (*numeric.Number).IsEven)},
	{"==", "(a &rest b)", compareOp("==", func(c int) bool { return c == 0 })},
	{"=", "(a &rest b)", compareOp("=", func(c int) bool { return c == 0 })},
	{"<", "(a &rest b)", compareOp("<", func(c int) bool { return c < 0 })},
	{">", "(a &rest b)", compareOp(">", func(c int) bool { return c > 0 })},
	{"<=", "(a &rest b)", compareOp("<=", func(c int) bool { return c <= 0 })},
	{">=", "(a &rest b)", compareOp(">=", func(c int) bool { return c >= 0 })},
}

// numbers returns the numeric values of args.  A string argument to + is
// reported with a hint to use concat.
func numbers(bname string, args []*LVal) ([]*numeric.Number, error) {
	nums := make([]*numeric.Number, len(args))
	for i, v := range args {
		switch v.Type {
		case LNumber:
			nums[i] = v.Num
		case LString:
			if bname == "+" {
				return nil, typeErrorf(bname, "To concatenate strings use `concat`")
			}
			fallthrough
		default:
			return nil, typeErrorf(bname, "argument is not a number: %v", v.Type)
		}
	}
	return nums, nil
}

// numericError converts an error from package numeric into an Error.
func numericError(bname string, err error) error {
	switch {
	case errors.Is(err, numeric.ErrDivisionByZero):
		return berrf(bname, ErrDivisionByZero, "%v", err)
	case errors.Is(err, numeric.ErrPowerUnsupported):
		return berrf(bname, ErrPowerUnsupported, "%v", err)
	}
	return berrf(bname, ErrTypeError, "%v", err)
}

func builtinAdd(env *Env, args []*LVal) (*LVal, error) {
	nums, err := numbers("+", args)
	if err != nil {
		return nil, err
	}
	sum := numeric.Int(0)
	for _, n := range nums {
		sum = sum.Add(n)
	}
	return Number(sum), nil
}

func builtinSub(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("-", args, 1, -1); err != nil {
		return nil, err
	}
	nums, err := numbers("-", args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 1 {
		return Number(nums[0].Neg()), nil
	}
	diff := nums[0]
	for _, n := range nums[1:] {
		diff = diff.Sub(n)
	}
	return Number(diff), nil
}

func builtinMul(env *Env, args []*LVal) (*LVal, error) {
	nums, err := numbers("*", args)
	if err != nil {
		return nil, err
	}
	prod := numeric.Int(1)
	for _, n := range nums {
		prod = prod.Mul(n)
	}
	return Number(prod), nil
}

// builtinDiv divides its first argument by the rest.  With one argument it
// returns the reciprocal.
func builtinDiv(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("/", args, 1, -1); err != nil {
		return nil, err
	}
	nums, err := numbers("/", args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 1 {
		nums = append([]*numeric.Number{numeric.Int(1)}, nums...)
	}
	q := nums[0]
	for _, n := range nums[1:] {
		q, err = q.Div(n)
		if err != nil {
			return nil, numericError("/", err)
		}
	}
	return Number(q), nil
}

func builtinMod(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("%", args, 2, 2); err != nil {
		return nil, err
	}
	nums, err := numbers("%", args)
	if err != nil {
		return nil, err
	}
	r, err := nums[0].Mod(nums[1])
	if err != nil {
		return nil, numericError("%", err)
	}
	return Number(r), nil
}

func builtinPow(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("**", args, 2, 2); err != nil {
		return nil, err
	}
	nums, err := numbers("**", args)
	if err != nil {
		return nil, err
	}
	p, err := nums[0].Pow(nums[1])
	if err != nil {
		return nil, numericError("**", err)
	}
	return Number(p), nil
}

func unaryOp(bname string, fn func(*numeric.Number) *numeric.Number) LBuiltin {
	return func(env *Env, args []*LVal) (*LVal, error) {
		if err := nargs(bname, args, 1, 1); err != nil {
			return nil, err
		}
		nums, err := numbers(bname, args)
		if err != nil {
			return nil, err
		}
		return Number(fn(nums[0])), nil
	}
}

func parityOp(bname string, fn func(*numeric.Number) bool) LBuiltin {
	return func(env *Env, args []*LVal) (*LVal, error) {
		if err := nargs(bname, args, 1, 1); err != nil {
			return nil, err
		}
		nums, err := numbers(bname, args)
		if err != nil {
			return nil, err
		}
		return Bool(fn(nums[0])), nil
	}
}

// compareOp returns a builtin that is true when ok holds for each adjacent
// pair of arguments.
func compareOp(bname string, ok func(cmp int) bool) LBuiltin {
	return func(env *Env, args []*LVal) (*LVal, error) {
		if err := nargs(bname, args, 1, -1); err != nil {
			return nil, err
		}
		nums, err := numbers(bname, args)
		if err != nil {
			return nil, err
		}
		for i := 1; i < len(nums); i++ {
			if !ok(nums[i-1].Cmp(nums[i])) {
				return Bool(false), nil
			}
		}
		return Bool(true), nil
	}
}

package libmath

import (
	"math"

	"github.com/WarpedWartWars/lips/lisp"
	"github.com/WarpedWartWars/lips/lisp/numeric"
)

// LoadPackage adds the math functions and constants to env
func LoadPackage(env *lisp.Env) error {
	env.Set("inf", lisp.Float(math.Inf(1)))
	env.Set("-inf", lisp.Float(math.Inf(-1)))
	env.Set("pi", lisp.Float(math.Pi))
	env.AddBuiltins(builtins...)
	return nil
}

var builtins = []*lisp.BuiltinDef{
	lisp.NewBuiltinDef("ceil", "(number)", rounding("ceil", math.Ceil)),
	lisp.NewBuiltinDef("floor", "(number)", rounding("floor", math.Floor)),
	lisp.NewBuiltinDef("round", "(number)", rounding("round", math.Round)),
	lisp.NewBuiltinDef("exp", "(number)", floatFunc("exp", math.Exp)),
	lisp.NewBuiltinDef("ln", "(number)", floatFunc("ln", math.Log)),
	lisp.NewBuiltinDef("log", "(base number)", builtinLog),
}

// rounding returns a builtin that applies fn to floats.  Exact integers are
// returned unchanged.
func rounding(bname string, fn func(float64) float64) lisp.LBuiltin {
	return func(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
		x, err := number(bname, args)
		if err != nil {
			return nil, err
		}
		if !x.Num.IsFloat() {
			return x, nil
		}
		return lisp.Float(fn(x.Num.Float64())), nil
	}
}

func floatFunc(bname string, fn func(float64) float64) lisp.LBuiltin {
	return func(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
		x, err := number(bname, args)
		if err != nil {
			return nil, err
		}
		return lisp.Number(numeric.FloatOf(fn(x.Num.Float64()))), nil
	}
}

func builtinLog(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	if err := lisp.CheckArgs("log", args, 2, 2); err != nil {
		return nil, err
	}
	b, x := args[0], args[1]
	if b.Type != lisp.LNumber {
		return nil, lisp.Errorf(lisp.ErrTypeError, "log: base is not a number: %v", b.Type)
	}
	if x.Type != lisp.LNumber {
		return nil, lisp.Errorf(lisp.ErrTypeError, "log: argument is not a number: %v", x.Type)
	}
	return lisp.Float(math.Log(x.Num.Float64()) / math.Log(b.Num.Float64())), nil
}

func number(bname string, args []*lisp.LVal) (*lisp.LVal, error) {
	if err := lisp.CheckArgs(bname, args, 1, 1); err != nil {
		return nil, err
	}
	if args[0].Type != lisp.LNumber {
		return nil, lisp.Errorf(lisp.ErrTypeError, "%s: argument is not a number: %v", bname, args[0].Type)
	}
	return args[0], nil
}

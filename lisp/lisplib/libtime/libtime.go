// Package libtime provides time values and asynchronous sleeping.
package libtime

import (
	"time"

	"github.com/WarpedWartWars/lips/lisp"
)

// LoadPackage adds the time functions to env
func LoadPackage(env *lisp.Env) error {
	env.AddBuiltins(builtins...)
	return nil
}

// Time creates an LVal representing the time t.
func Time(t time.Time) *lisp.LVal {
	return lisp.Native(t)
}

// Get gets a time.Time value from v and returns it.
func Get(v *lisp.LVal) (time.Time, bool) {
	t, ok := v.Native.(time.Time)
	return t, ok
}

var builtins = []*lisp.BuiltinDef{
	lisp.NewBuiltinDef("sleep", "(ms &optional value)", BuiltinSleep),
	lisp.NewBuiltinDef("utc-now", "()", BuiltinUTCNow),
	lisp.NewBuiltinDef("parse-rfc3339", "(timestamp)", BuiltinParseRFC3339),
	lisp.NewBuiltinDef("format-rfc3339", "(datetime)", BuiltinFormatRFC3339),
	lisp.NewBuiltinDef("time-sub", "(end start)", BuiltinSub),
}

// BuiltinSleep returns a deferred value that resolves after ms milliseconds
// to value, or to undefined.
func BuiltinSleep(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	if err := lisp.CheckArgs("sleep", args, 1, 2); err != nil {
		return nil, err
	}
	ms := args[0]
	if ms.Type != lisp.LNumber {
		return nil, lisp.Errorf(lisp.ErrTypeError, "sleep: argument is not a number: %v", ms.Type)
	}
	if ms.Num.Sign() < 0 {
		return nil, lisp.Errorf(lisp.ErrArgumentError, "sleep: negative duration: %v", ms.Num)
	}
	result := lisp.Undefined()
	if len(args) == 2 {
		result = args[1]
	}
	dur := time.Duration(ms.Num.Float64() * float64(time.Millisecond))
	env.Runtime.Logger.Debug("sleep", "duration", dur)
	d := env.Runtime.Loop.After(dur)
	return lisp.Then(lisp.DeferredVal(d), func(*lisp.LVal) (*lisp.LVal, error) {
		return result, nil
	})
}

func BuiltinUTCNow(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	if err := lisp.CheckArgs("utc-now", args, 0, 0); err != nil {
		return nil, err
	}
	return Time(time.Now().UTC()), nil
}

func BuiltinParseRFC3339(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	if err := lisp.CheckArgs("parse-rfc3339", args, 1, 1); err != nil {
		return nil, err
	}
	stamp := args[0]
	if stamp.Type != lisp.LString {
		return nil, lisp.Errorf(lisp.ErrTypeError, "parse-rfc3339: argument is not a string: %v", stamp.Type)
	}
	t, err := time.Parse(time.RFC3339, stamp.Str)
	if err != nil {
		return nil, &lisp.Error{Kind: lisp.ErrArgumentError, Msg: "parse-rfc3339: " + err.Error(), Err: err}
	}
	return Time(t), nil
}

func BuiltinFormatRFC3339(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	if err := lisp.CheckArgs("format-rfc3339", args, 1, 1); err != nil {
		return nil, err
	}
	t, ok := Get(args[0])
	if !ok {
		return nil, lisp.Errorf(lisp.ErrTypeError, "format-rfc3339: argument is not a time: %v", args[0].Type)
	}
	return lisp.String(t.Format(time.RFC3339)), nil
}

// BuiltinSub returns the number of milliseconds between two times.
func BuiltinSub(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	if err := lisp.CheckArgs("time-sub", args, 2, 2); err != nil {
		return nil, err
	}
	t1, ok := Get(args[0])
	if !ok {
		return nil, lisp.Errorf(lisp.ErrTypeError, "time-sub: argument is not a time: %v", args[0].Type)
	}
	t2, ok := Get(args[1])
	if !ok {
		return nil, lisp.Errorf(lisp.ErrTypeError, "time-sub: argument is not a time: %v", args[1].Type)
	}
	return lisp.Float(float64(t1.Sub(t2)) / float64(time.Millisecond)), nil
}

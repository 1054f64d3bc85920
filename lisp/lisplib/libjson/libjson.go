// Package libjson exposes the structural JSON encoding of lisp values.
package libjson

import (
	"github.com/WarpedWartWars/lips/lisp"
	"github.com/WarpedWartWars/lips/lisp/lispjson"
)

// LoadPackage adds json-encode and json-decode to env
func LoadPackage(env *lisp.Env) error {
	env.AddBuiltins(builtins...)
	return nil
}

var builtins = []*lisp.BuiltinDef{
	lisp.NewBuiltinDef("json-encode", "(value)", BuiltinEncode),
	lisp.NewBuiltinDef("json-decode", "(string)", BuiltinDecode),
}

func BuiltinEncode(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	if err := lisp.CheckArgs("json-encode", args, 1, 1); err != nil {
		return nil, err
	}
	b, err := lispjson.Marshal(args[0])
	if err != nil {
		return nil, &lisp.Error{Kind: lisp.ErrTypeError, Msg: "json-encode: " + err.Error(), Err: err}
	}
	return lisp.String(string(b)), nil
}

func BuiltinDecode(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	if err := lisp.CheckArgs("json-decode", args, 1, 1); err != nil {
		return nil, err
	}
	if args[0].Type != lisp.LString {
		return nil, lisp.Errorf(lisp.ErrTypeError, "json-decode: argument is not a string: %v", args[0].Type)
	}
	v, err := lispjson.Unmarshal([]byte(args[0].Str))
	if err != nil {
		return nil, &lisp.Error{Kind: lisp.ErrSyntaxError, Msg: "json-decode: " + err.Error(), Err: err}
	}
	return v, nil
}

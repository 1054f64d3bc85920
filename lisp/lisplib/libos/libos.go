// Package libos provides access to the host environment and file system.
// Reading files happens off the evaluation goroutine and yields deferred
// values.
package libos

import (
	"errors"
	"os"

	"github.com/WarpedWartWars/lips/lisp"
)

// LoadPackage adds the os functions to env
func LoadPackage(env *lisp.Env) error {
	env.AddBuiltins(builtins...)
	return nil
}

var builtins = []*lisp.BuiltinDef{
	lisp.NewBuiltinDef("load", "(path)", BuiltinLoad),
	lisp.NewBuiltinDef("read-file", "(path)", BuiltinReadFile),
	lisp.NewBuiltinDef("write-file", "(path content)", BuiltinWriteFile),
	lisp.NewBuiltinDef("getenv", "(key)", BuiltinGetenv),
	lisp.NewBuiltinDef("work-dir", "()", BuiltinWorkDir),
	lisp.NewBuiltinDef("exists?", "(path)", BuiltinExists),
	lisp.NewBuiltinDef("dir?", "(path)", BuiltinIsDir),
}

// BuiltinLoad reads a source file and evaluates its forms in the global
// environment.  The result is a deferred value holding the last form's
// value.
func BuiltinLoad(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	path, err := pathArg("load", args, 1)
	if err != nil {
		return nil, err
	}
	env.Runtime.Logger.Debug("load", "path", path)
	src := lisp.DeferredVal(readFile(env, path))
	return lisp.Then(src, func(src *lisp.LVal) (*lisp.LVal, error) {
		results, err := lisp.ExecNamed(path, src.Str, env.Root(), false)
		if err != nil {
			return nil, err
		}
		return lisp.Then(results, func(results *lisp.LVal) (*lisp.LVal, error) {
			vals := lisp.ToSlice(results)
			if len(vals) == 0 {
				return lisp.Undefined(), nil
			}
			return vals[len(vals)-1], nil
		})
	})
}

// BuiltinReadFile returns a deferred value holding the contents of a file.
func BuiltinReadFile(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	path, err := pathArg("read-file", args, 1)
	if err != nil {
		return nil, err
	}
	return lisp.DeferredVal(readFile(env, path)), nil
}

func readFile(env *lisp.Env, path string) *lisp.Deferred {
	return env.Runtime.Loop.Go(func() (*lisp.LVal, error) {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, osError(err)
		}
		return lisp.String(string(b)), nil
	})
}

func BuiltinWriteFile(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	path, err := pathArg("write-file", args, 2)
	if err != nil {
		return nil, err
	}
	content := args[1]
	if content.Type != lisp.LString {
		return nil, lisp.Errorf(lisp.ErrTypeError, "write-file: content is not a string: %v", content.Type)
	}
	err = os.WriteFile(path, []byte(content.Str), 0644)
	if err != nil {
		return nil, osError(err)
	}
	return lisp.Undefined(), nil
}

// BuiltinGetenv returns the value of an environment variable, or nil.
func BuiltinGetenv(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	if err := lisp.CheckArgs("getenv", args, 1, 1); err != nil {
		return nil, err
	}
	key := args[0]
	if key.Type != lisp.LString && key.Type != lisp.LSymbol {
		return nil, lisp.Errorf(lisp.ErrTypeError, "getenv: argument not a string or symbol: %v", key.Type)
	}
	val, ok := os.LookupEnv(key.Str)
	if !ok {
		return lisp.Nil(), nil
	}
	return lisp.String(val), nil
}

func BuiltinWorkDir(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	if err := lisp.CheckArgs("work-dir", args, 0, 0); err != nil {
		return nil, err
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, osError(err)
	}
	return lisp.String(dir), nil
}

func BuiltinExists(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	path, err := pathArg("exists?", args, 1)
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return lisp.Bool(false), nil
	}
	if err != nil {
		return nil, osError(err)
	}
	return lisp.Bool(true), nil
}

func BuiltinIsDir(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	path, err := pathArg("dir?", args, 1)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return lisp.Bool(false), nil
	}
	if err != nil {
		return nil, osError(err)
	}
	return lisp.Bool(stat.IsDir()), nil
}

func pathArg(bname string, args []*lisp.LVal, n int) (string, error) {
	if err := lisp.CheckArgs(bname, args, n, n); err != nil {
		return "", err
	}
	if args[0].Type != lisp.LString {
		return "", lisp.Errorf(lisp.ErrTypeError, "%s: first argument is not a string: %v", bname, args[0].Type)
	}
	return args[0].Str, nil
}

func osError(err error) error {
	return &lisp.Error{Kind: lisp.ErrReadError, Msg: err.Error(), Err: err}
}

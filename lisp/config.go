package lisp

import (
	"io"
	"log/slog"
)

// Config is a function that configures a root environment or its runtime.
type Config func(env *Env) error

// InitializeUserEnv installs the default builtins, macros and constants in
// env and then applies each config.
func InitializeUserEnv(env *Env, config ...Config) error {
	env.AddMacros()
	env.AddBuiltins()
	env.Set("nil", Nil())
	env.Set("true", Bool(true))
	env.Set("false", Bool(false))
	for _, fn := range config {
		err := fn(env)
		if err != nil {
			return err
		}
	}
	return nil
}

// WithMaximumDepth returns a Config that will prevent an execution
// environment from nesting evaluation more than n levels deep.  A value of
// zero removes the limit.
func WithMaximumDepth(n int) Config {
	return func(env *Env) error {
		env.Runtime.MaxDepth = n
		return nil
	}
}

// WithReader returns a Config that makes environments use r to parse source
// text.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *Env) error {
		env.Runtime.Reader = r
		return nil
	}
}

// WithStdout returns a Config that makes print write to w instead of the
// default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(env *Env) error {
		env.Runtime.Stdout = w
		return nil
	}
}

// WithStderr returns a Config that makes environments write debugging output
// to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(env *Env) error {
		env.Runtime.Stderr = w
		return nil
	}
}

// WithStdin returns a Config that makes the read builtin consume lines from
// r instead of the default, os.Stdin.
func WithStdin(r io.Reader) Config {
	return func(env *Env) error {
		env.Runtime.SetStdin(r)
		return nil
	}
}

// WithFallback returns a Config that exposes the values of fb as bare
// identifiers when no environment binding exists.
func WithFallback(fb Fallback) Config {
	return func(env *Env) error {
		env.Runtime.Fallback = fb
		return nil
	}
}

// WithLogger returns a Config that sends evaluator debug logs to logger.
func WithLogger(logger *slog.Logger) Config {
	return func(env *Env) error {
		env.Runtime.Logger = logger
		return nil
	}
}

// WithDefinitions returns a Config that binds each Go value in defs in the
// environment, converting it with Value.
func WithDefinitions(defs map[string]interface{}) Config {
	return func(env *Env) error {
		for name, x := range defs {
			err := env.Define(name, x)
			if err != nil {
				return err
			}
		}
		return nil
	}
}

// WithBuiltins returns a Config that adds funs to the environment.  Other
// runtimes are not affected.
func WithBuiltins(funs ...*BuiltinDef) Config {
	return func(env *Env) error {
		env.AddBuiltins(funs...)
		return nil
	}
}

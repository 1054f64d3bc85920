package lisp

import (
	"context"
	"errors"
)

// Evaluate evaluates expr in the lexical environment env.  When dynamic is
// non-nil it is the dynamic environment of the evaluation and becomes the
// receiver of function calls.
//
// The result of Evaluate may be deferred.  Synchronous failures are returned
// as errors.  Failures after suspension reject the deferred result.
func Evaluate(expr *LVal, env *Env, dynamic *Env) (*LVal, error) {
	switch expr.Type {
	case LSymbol:
		v, ok := env.Get(expr.Str)
		if !ok {
			return nil, withSource(Errorf(ErrUnboundVariable, "unbound symbol: %s", expr.Str), expr.Source)
		}
		return v, nil
	case LPair:
		if expr == emptyList {
			return expr, nil
		}
		return evalApply(expr, env, dynamic)
	case LQuote:
		return expr.Car, nil
	case LUnquote:
		return nil, withSource(Errorf(ErrSyntaxError, "unquote outside of quasiquote"), expr.Source)
	case LUndefined, LNil, LBool, LNumber, LString, LRegexp, LMacro, LFun, LDeferred, LNative:
		return expr, nil
	case LInvalid:
		return nil, Errorf(ErrTypeError, "invalid value")
	default:
		panic("unknown type")
	}
}

// Eval evaluates v in env with lexical scope.
func (env *Env) Eval(v *LVal) (*LVal, error) {
	return Evaluate(v, env, nil)
}

// EvalDynamic evaluates v in env using env as the dynamic environment.
func (env *Env) EvalDynamic(v *LVal) (*LVal, error) {
	return Evaluate(v, env, env)
}

func evalApply(expr *LVal, env *Env, dynamic *Env) (v *LVal, err error) {
	rt := env.Runtime
	if rt.MaxDepth > 0 && rt.depth >= rt.MaxDepth {
		return nil, withSource(Errorf(ErrStackOverflow, "maximum evaluation depth exceeded: %d", rt.MaxDepth), expr.Source)
	}
	head := expr.Car
	rt.depth++
	rt.Stack.Push(callName(head), expr.Source)
	defer func() {
		if err != nil {
			err = annotate(err, rt, expr)
		}
		rt.Stack.Pop()
		rt.depth--
	}()

	switch head.Type {
	case LSymbol:
		fn, ok := env.Get(head.Str)
		if !ok {
			return nil, Errorf(ErrUnboundVariable, "unbound symbol: %s", head.Str)
		}
		if fn.Type == LMacro {
			return expandMacro(fn, expr, env, dynamic)
		}
		return applyArgs(fn, expr, env, dynamic)
	case LPair:
		fn, err := Evaluate(head, env, dynamic)
		if err != nil {
			return nil, err
		}
		return then(fn, func(fn *LVal) (*LVal, error) {
			return applyArgs(fn, expr, env, dynamic)
		})
	default:
		return applyArgs(head, expr, env, dynamic)
	}
}

func callName(head *LVal) string {
	switch head.Type {
	case LSymbol:
		return head.Str
	case LFun, LMacro:
		return head.Str
	default:
		return "(anonymous)"
	}
}

// annotate attaches a source location and a copy of the call stack to err
// when it does not have them yet.
func annotate(err error, rt *Runtime, expr *LVal) error {
	var lerr *Error
	if !errors.As(err, &lerr) {
		return err
	}
	if lerr.Source == nil {
		lerr.Source = expr.Source
	}
	if lerr.Stack == nil {
		lerr.Stack = rt.Stack.Copy()
	}
	return err
}

func expandMacro(mac *LVal, expr *LVal, env *Env, dynamic *Env) (*LVal, error) {
	res, err := mac.Macro(expr.Cdr, env, dynamic)
	if err != nil {
		return nil, err
	}
	return then(res, func(res *LVal) (*LVal, error) {
		if res.Type == LQuote {
			return res.Car, nil
		}
		env.Runtime.Logger.Debug("macro expanded", "macro", mac.Str, "expansion", res.String())
		return Evaluate(res, env, dynamic)
	})
}

func applyArgs(fn *LVal, expr *LVal, env *Env, dynamic *Env) (*LVal, error) {
	if fn.Type != LFun {
		return nil, Errorf(ErrNotAFunction, "%v is not a function", expr.Car)
	}
	var args []*LVal
	a := expr.Cdr
	for ; a.Type == LPair && a != emptyList; a = a.Cdr {
		v, err := Evaluate(a.Car, env, dynamic)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	if !a.IsEmpty() {
		return nil, Errorf(ErrSyntaxError, "improper argument list: %v", expr)
	}
	receiver := env
	if dynamic != nil {
		receiver = dynamic
	}
	return thenAll(env.Runtime, args, func(args []*LVal) (*LVal, error) {
		return Call(fn, receiver, args)
	})
}

// Call invokes the function fn with the given receiver environment.  The
// arguments must already be evaluated and must not be deferred.
func Call(fn *LVal, receiver *Env, args []*LVal) (*LVal, error) {
	if fn.Type != LFun {
		return nil, Errorf(ErrNotAFunction, "%v is not a function", fn)
	}
	if fn.Builtin != nil {
		return fn.Builtin(receiver, args)
	}
	parent := fn.Env
	if fn.Dynamic {
		parent = receiver
	}
	local := parent.Inherit("lambda")
	formals := fn.Formals
	i := 0
	for ; formals.Type == LPair && formals != emptyList; formals = formals.Cdr {
		if i < len(args) {
			local.Set(formals.Car.Str, args[i])
		} else {
			local.Set(formals.Car.Str, Nil())
		}
		i++
	}
	if formals.Type == LSymbol {
		var rest []*LVal
		if i < len(args) {
			rest = args[i:]
		}
		local.Set(formals.Str, FromSlice(rest))
	}
	var dynamic *Env
	if fn.Dynamic {
		dynamic = local
	}
	return evalSequence(fn.Body, local, dynamic)
}

// Call invokes fn with env as the receiver.  Deferred arguments are waited
// for before fn is invoked.
func (env *Env) Call(fn *LVal, args ...*LVal) (*LVal, error) {
	return thenAll(env.Runtime, args, func(args []*LVal) (*LVal, error) {
		return Call(fn, env, args)
	})
}

// evalSequence evaluates each form in the list forms in order and returns the
// value of the last.  An empty sequence evaluates to Undefined.
func evalSequence(forms *LVal, env *Env, dynamic *Env) (*LVal, error) {
	result := Undefined()
	for f := forms; f.Type == LPair && f != emptyList; f = f.Cdr {
		v, err := Evaluate(f.Car, env, dynamic)
		if err != nil {
			return nil, err
		}
		if v.Type == LDeferred {
			rest := f.Cdr
			return then(v, func(v *LVal) (*LVal, error) {
				if rest.IsEmpty() {
					return v, nil
				}
				return evalSequence(rest, env, dynamic)
			})
		}
		result = v
	}
	return result, nil
}

// then calls fn with v.  If v is deferred the call happens after v resolves
// and then returns a deferred result.
func then(v *LVal, fn func(*LVal) (*LVal, error)) (*LVal, error) {
	if v.Type != LDeferred {
		return fn(v)
	}
	return DeferredVal(v.Deferred.Then(fn)), nil
}

// Then calls fn with v, after v resolves if it is deferred.  Builtins use
// Then to continue with values that may not be available yet.
func Then(v *LVal, fn func(*LVal) (*LVal, error)) (*LVal, error) {
	return then(v, fn)
}

// thenAll calls fn with vals once every deferred value in vals has resolved.
// Values are passed to fn in their original order.
func thenAll(rt *Runtime, vals []*LVal, fn func([]*LVal) (*LVal, error)) (*LVal, error) {
	for _, v := range vals {
		if v.Type == LDeferred {
			all := rt.Loop.All(vals)
			return DeferredVal(all.Then(func(v *LVal) (*LVal, error) {
				return fn(v.Native.([]*LVal))
			})), nil
		}
	}
	return fn(vals)
}

// quoted wraps the result of a special form so it is not evaluated again.
func quoted(v *LVal, err error) (*LVal, error) {
	if err != nil {
		return nil, err
	}
	return then(v, func(v *LVal) (*LVal, error) {
		return QuoteVal(v), nil
	})
}

// Exec reads src with the runtime's Reader and evaluates the forms in order.
// A form is not evaluated until the previous form's result is known.  Exec
// returns a list of the results, or a deferred list.  Read errors prevent
// any evaluation and the first evaluation error stops the sequence.
func Exec(src string, env *Env, dynamic bool) (*LVal, error) {
	return ExecNamed("", src, env, dynamic)
}

// ExecNamed is like Exec but records name as the source file of each form.
func ExecNamed(name string, src string, env *Env, dynamic bool) (*LVal, error) {
	rt := env.Runtime
	if rt.Reader == nil {
		return nil, Errorf(ErrUnknown, "no reader configured")
	}
	forms, err := rt.Reader.Read(name, src)
	if err != nil {
		return nil, err
	}
	var dyn *Env
	if dynamic {
		dyn = env
	}
	return execForms(forms, nil, env, dyn)
}

func execForms(forms []*LVal, results []*LVal, env *Env, dynamic *Env) (*LVal, error) {
	for i, form := range forms {
		v, err := Evaluate(form, env, dynamic)
		if err != nil {
			return nil, err
		}
		if v.Type == LDeferred {
			rest := forms[i+1:]
			done := results
			return then(v, func(v *LVal) (*LVal, error) {
				next := make([]*LVal, len(done), len(done)+1)
				copy(next, done)
				return execForms(rest, append(next, v), env, dynamic)
			})
		}
		results = append(results, v)
	}
	return FromSlice(results), nil
}

// Exec reads and evaluates src in env.
func (env *Env) Exec(src string) (*LVal, error) {
	return Exec(src, env, false)
}

// Run reads and evaluates src in env and waits for every form to settle.
func (env *Env) Run(ctx context.Context, src string) ([]*LVal, error) {
	v, err := env.Exec(src)
	if err != nil {
		return nil, err
	}
	v, err = env.Runtime.Await(ctx, v)
	if err != nil {
		return nil, err
	}
	return ToSlice(v), nil
}

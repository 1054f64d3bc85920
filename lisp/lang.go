package lisp

import (
	"time"

	"github.com/WarpedWartWars/lips/lisp/numeric"
)

// MacroDef is the definition of a builtin macro.
type MacroDef struct {
	name    string
	formals string
	fun     LMacroFunc
}

// NewMacroDef returns a macro definition for use with Env.AddMacros.
func NewMacroDef(name string, formals string, fun LMacroFunc) *MacroDef {
	return &MacroDef{name, formals, fun}
}

// Name returns the symbol the macro is bound to.
func (m *MacroDef) Name() string {
	return m.name
}

// Formals describes the unevaluated arguments of the macro.
func (m *MacroDef) Formals() string {
	return m.formals
}

// Eval invokes the macro.
func (m *MacroDef) Eval(args *LVal, env *Env, dynamic *Env) (*LVal, error) {
	return m.fun(args, env, dynamic)
}

var langMacros []*MacroDef

func init() {
	langMacros = []*MacroDef{
		{"quote", "(expr)", macroQuote},
		{"quasiquote", "(template)", macroQuasiquote},
		{"unquote", "(expr)", macroUnquote},
		{"unquote-splicing", "(expr)", macroUnquote},
		{"define", "(name-or-signature &rest body)", macroDefine},
		{"set!", "(name value)", macroSet},
		{"lambda", "(formals &rest body)", macroLambda},
		{"defmacro", "((name &rest formals) &rest body)", macroDefmacro},
		{"let", "(bindings &rest body)", macroLet("let", false)},
		{"let*", "(bindings &rest body)", macroLet("let*", true)},
		{"begin", "(&rest body)", macroBegin},
		{"if", "(condition then &optional else)", macroIf},
		{"while", "(condition &rest body)", macroWhile},
		{"and", "(&rest exprs)", macroAnd},
		{"or", "(&rest exprs)", macroOr},
		{"timer", "(milliseconds &rest body)", macroTimer},
		{"++", "(name)", macroStep("++", numeric.Int(1))},
		{"--", "(name)", macroStep("--", numeric.Int(-1))},
	}
}

// DefaultMacros returns the builtin special forms.
func DefaultMacros() []*MacroDef {
	macs := make([]*MacroDef, len(langMacros))
	copy(macs, langMacros)
	return macs
}

// argN returns the nth element of the argument list args, or nil if args is
// too short.
func argN(args *LVal, n int) *LVal {
	p := args
	for i := 0; i < n; i++ {
		if p.Type != LPair || p == emptyList {
			return nil
		}
		p = p.Cdr
	}
	if p.Type != LPair || p == emptyList {
		return nil
	}
	return p.Car
}

func macroQuote(args *LVal, env *Env, dynamic *Env) (*LVal, error) {
	v := argN(args, 0)
	if v == nil {
		return nil, berrf("quote", ErrArgumentError, "missing argument")
	}
	return QuoteVal(v), nil
}

func macroDefine(args *LVal, env *Env, dynamic *Env) (*LVal, error) {
	target := argN(args, 0)
	switch {
	case target == nil:
		return nil, berrf("define", ErrArgumentError, "missing name")
	case target.Type == LPair && target != emptyList:
		// (define (name . formals) body...) => (define name (lambda formals body...))
		lambda := Cons(Symbol("lambda"), Cons(target.Cdr, args.Cdr))
		return List(Symbol("define"), target.Car, lambda), nil
	case target.Type != LSymbol:
		return nil, typeErrorf("define", "first argument is not a symbol: %v", target.Type)
	}
	expr := argN(args, 1)
	if expr == nil {
		env.Set(target.Str, Undefined())
		return QuoteVal(Undefined()), nil
	}
	v, err := Evaluate(expr, env, dynamic)
	if err != nil {
		return nil, err
	}
	return then(v, func(v *LVal) (*LVal, error) {
		if v.Type == LFun && v.Builtin == nil && v.Str == "lambda" {
			named := *v
			named.Str = target.Str
			v = &named
		}
		env.Set(target.Str, v)
		return QuoteVal(Undefined()), nil
	})
}

func macroSet(args *LVal, env *Env, dynamic *Env) (*LVal, error) {
	target, expr := argN(args, 0), argN(args, 1)
	if target == nil || expr == nil {
		return nil, berrf("set!", ErrArgumentError, "expected a name and a value")
	}
	if target.Type != LSymbol {
		return nil, typeErrorf("set!", "first argument is not a symbol: %v", target.Type)
	}
	v, err := Evaluate(expr, env, dynamic)
	if err != nil {
		return nil, err
	}
	return then(v, func(v *LVal) (*LVal, error) {
		env.Set(target.Str, v)
		return QuoteVal(Undefined()), nil
	})
}

func macroLambda(args *LVal, env *Env, dynamic *Env) (*LVal, error) {
	formals := argN(args, 0)
	if formals == nil {
		return nil, berrf("lambda", ErrArgumentError, "missing formal argument list")
	}
	if err := checkFormals("lambda", formals, true); err != nil {
		return nil, err
	}
	return QuoteVal(Lambda(formals, args.Cdr, env, dynamic != nil)), nil
}

// checkFormals verifies that formals is a list of symbols.  A trailing symbol
// after a dot, or a bare symbol in place of the list, is allowed only when
// rest is true.
func checkFormals(bname string, formals *LVal, rest bool) error {
	p := formals
	for ; p.Type == LPair && p != emptyList; p = p.Cdr {
		if p.Car.Type != LSymbol {
			return typeErrorf(bname, "formal argument is not a symbol: %v", p.Car)
		}
	}
	switch {
	case p.IsEmpty():
		return nil
	case p.Type == LSymbol && rest:
		return nil
	case p.Type == LSymbol:
		return berrf(bname, ErrSyntaxError, "rest arguments are not supported")
	default:
		return typeErrorf(bname, "invalid formal argument list: %v", formals)
	}
}

func macroDefmacro(args *LVal, env *Env, dynamic *Env) (*LVal, error) {
	sig := argN(args, 0)
	if sig == nil || sig.Type != LPair || sig == emptyList || sig.Car.Type != LSymbol {
		return nil, berrf("defmacro", ErrSyntaxError, "expected (name formals...)")
	}
	name, formals, body := sig.Car.Str, sig.Cdr, args.Cdr
	if err := checkFormals("defmacro", formals, false); err != nil {
		return nil, err
	}
	mac := Macro(name, func(margs *LVal, callEnv *Env, _ *Env) (*LVal, error) {
		local := callEnv.Inherit("defmacro")
		a := margs
		for p := formals; p.Type == LPair && p != emptyList; p = p.Cdr {
			val := Nil()
			if a.Type == LPair && a != emptyList {
				val = a.Car
				a = a.Cdr
			}
			local.Set(p.Car.Str, val)
		}
		return evalSequence(body, local, nil)
	})
	env.Set(name, mac)
	return QuoteVal(Undefined()), nil
}

// macroLet returns let or let*.  For let the values are evaluated in the
// enclosing environment.  For let* each value is evaluated in the new
// environment and sees the bindings established before it.
func macroLet(name string, sequential bool) LMacroFunc {
	return func(args *LVal, env *Env, dynamic *Env) (*LVal, error) {
		bindings := argN(args, 0)
		if bindings == nil || !bindings.IsList() {
			return nil, berrf(name, ErrSyntaxError, "expected a list of bindings")
		}
		local := env.Inherit(name)
		evalEnv := env
		if sequential {
			evalEnv = local
		}
		var bind func(b *LVal) (*LVal, error)
		bind = func(b *LVal) (*LVal, error) {
			for ; b.Type == LPair && b != emptyList; b = b.Cdr {
				binding := b.Car
				if binding.Type != LPair || binding == emptyList || binding.Car.Type != LSymbol {
					return nil, berrf(name, ErrSyntaxError, "invalid binding: %v", binding)
				}
				sym := binding.Car.Str
				expr := argN(binding, 1)
				if expr == nil {
					local.Set(sym, Nil())
					continue
				}
				v, err := Evaluate(expr, evalEnv, dynamic)
				if err != nil {
					return nil, err
				}
				if v.Type == LDeferred {
					rest := b.Cdr
					return then(v, func(v *LVal) (*LVal, error) {
						local.Set(sym, v)
						return bind(rest)
					})
				}
				local.Set(sym, v)
			}
			return Undefined(), nil
		}
		done, err := bind(bindings)
		if err != nil {
			return nil, err
		}
		return then(done, func(*LVal) (*LVal, error) {
			var dyn *Env
			if dynamic != nil {
				dyn = local
			}
			return quoted(evalSequence(args.Cdr, local, dyn))
		})
	}
}

func macroBegin(args *LVal, env *Env, dynamic *Env) (*LVal, error) {
	return quoted(evalSequence(args, env, dynamic))
}

func macroIf(args *LVal, env *Env, dynamic *Env) (*LVal, error) {
	cond, conseq, alt := argN(args, 0), argN(args, 1), argN(args, 2)
	if cond == nil || conseq == nil {
		return nil, berrf("if", ErrArgumentError, "expected a condition and a branch")
	}
	c, err := Evaluate(cond, env, dynamic)
	if err != nil {
		return nil, err
	}
	return then(c, func(c *LVal) (*LVal, error) {
		switch {
		case c.IsTrue():
			return quoted(Evaluate(conseq, env, dynamic))
		case alt != nil:
			return quoted(Evaluate(alt, env, dynamic))
		default:
			return QuoteVal(Bool(false)), nil
		}
	})
}

func macroWhile(args *LVal, env *Env, dynamic *Env) (*LVal, error) {
	cond := argN(args, 0)
	if cond == nil {
		return nil, berrf("while", ErrArgumentError, "missing condition")
	}
	body := args.Cdr
	var loop func(last *LVal) (*LVal, error)
	var step func(c, last *LVal) (*LVal, bool, error)
	// step runs the body once if c is true.  It reports whether the loop
	// should continue synchronously.
	step = func(c, last *LVal) (*LVal, bool, error) {
		if !c.IsTrue() {
			return QuoteVal(last), false, nil
		}
		r, err := evalSequence(body, env, dynamic)
		if err != nil {
			return nil, false, err
		}
		if r.Type == LDeferred {
			v, err := then(r, loop)
			return v, false, err
		}
		return r, true, nil
	}
	loop = func(last *LVal) (*LVal, error) {
		for {
			c, err := Evaluate(cond, env, dynamic)
			if err != nil {
				return nil, err
			}
			if c.Type == LDeferred {
				prev := last
				return then(c, func(c *LVal) (*LVal, error) {
					v, more, err := step(c, prev)
					if err != nil || !more {
						return v, err
					}
					return loop(v)
				})
			}
			v, more, err := step(c, last)
			if err != nil || !more {
				return v, err
			}
			last = v
		}
	}
	return loop(Undefined())
}

func macroAnd(args *LVal, env *Env, dynamic *Env) (*LVal, error) {
	var step func(a, last *LVal) (*LVal, error)
	step = func(a, last *LVal) (*LVal, error) {
		for ; a.Type == LPair && a != emptyList; a = a.Cdr {
			v, err := Evaluate(a.Car, env, dynamic)
			if err != nil {
				return nil, err
			}
			if v.Type == LDeferred {
				rest := a.Cdr
				return then(v, func(v *LVal) (*LVal, error) {
					if !v.IsTrue() {
						return QuoteVal(Bool(false)), nil
					}
					return step(rest, v)
				})
			}
			if !v.IsTrue() {
				return QuoteVal(Bool(false)), nil
			}
			last = v
		}
		return QuoteVal(last), nil
	}
	return step(args, Bool(true))
}

func macroOr(args *LVal, env *Env, dynamic *Env) (*LVal, error) {
	var step func(a *LVal) (*LVal, error)
	step = func(a *LVal) (*LVal, error) {
		for ; a.Type == LPair && a != emptyList; a = a.Cdr {
			v, err := Evaluate(a.Car, env, dynamic)
			if err != nil {
				return nil, err
			}
			if v.Type == LDeferred {
				rest := a.Cdr
				return then(v, func(v *LVal) (*LVal, error) {
					if v.IsTrue() {
						return QuoteVal(v), nil
					}
					return step(rest)
				})
			}
			if v.IsTrue() {
				return QuoteVal(v), nil
			}
		}
		return QuoteVal(Bool(false)), nil
	}
	return step(args)
}

// macroTimer evaluates its body after a delay.  The result is deferred.
func macroTimer(args *LVal, env *Env, dynamic *Env) (*LVal, error) {
	delay := argN(args, 0)
	if delay == nil {
		return nil, berrf("timer", ErrArgumentError, "missing delay")
	}
	ms, err := Evaluate(delay, env, dynamic)
	if err != nil {
		return nil, err
	}
	return then(ms, func(ms *LVal) (*LVal, error) {
		if ms.Type != LNumber {
			return nil, typeErrorf("timer", "delay is not a number: %v", ms.Type)
		}
		dur := time.Duration(ms.Num.Float64() * float64(time.Millisecond))
		rt := env.Runtime
		rt.Logger.Debug("timer started", "delay", dur)
		wait := DeferredVal(rt.Loop.After(dur))
		return then(wait, func(*LVal) (*LVal, error) {
			return quoted(evalSequence(args.Cdr, env, dynamic))
		})
	})
}

// macroStep returns ++ or --, which add delta to a numeric binding and store
// the result in the local frame.
func macroStep(name string, delta *numeric.Number) LMacroFunc {
	return func(args *LVal, env *Env, dynamic *Env) (*LVal, error) {
		target := argN(args, 0)
		if target == nil || target.Type != LSymbol {
			return nil, berrf(name, ErrArgumentError, "expected a symbol")
		}
		v, ok := env.Get(target.Str)
		if !ok {
			return nil, Errorf(ErrUnboundVariable, "unbound symbol: %s", target.Str)
		}
		if v.Type != LNumber {
			return nil, typeErrorf(name, "value is not a number: %v", v.Type)
		}
		next := Number(v.Num.Add(delta))
		env.Set(target.Str, next)
		return QuoteVal(next), nil
	}
}

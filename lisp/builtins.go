package lisp

import (
	"fmt"
	"io"
	"strings"
)

// BuiltinDef is the definition of a function implemented in Go.
type BuiltinDef struct {
	name    string
	formals string
	fun     LBuiltin
}

// NewBuiltinDef returns a builtin definition for use with Env.AddBuiltins.
// The formals string documents the arguments and is not interpreted.
func NewBuiltinDef(name string, formals string, fun LBuiltin) *BuiltinDef {
	return &BuiltinDef{name, formals, fun}
}

// Name returns the symbol the builtin is bound to.
func (fun *BuiltinDef) Name() string {
	return fun.name
}

// Formals describes the arguments of the builtin.
func (fun *BuiltinDef) Formals() string {
	return fun.formals
}

// Eval calls the builtin.
func (fun *BuiltinDef) Eval(env *Env, args []*LVal) (*LVal, error) {
	return fun.fun(env, args)
}

var langBuiltins = []*BuiltinDef{
	{"cons", "(head tail)", builtinCons},
	{"car", "(pair)", builtinCar},
	{"cdr", "(pair)", builtinCdr},
	{"set-car!", "(pair value)", builtinSetCar},
	{"set-cdr!", "(pair value)", builtinSetCdr},
	{"list", "(&rest args)", builtinList},
	{"length", "(list)", builtinLength},
	{"clone", "(list)", builtinClone},
	{"append", "(list item)", builtinAppend},
	{"append!", "(list item)", builtinAppendMutate},
	{"reverse", "(list)", builtinReverse},
	{"assoc", "(alist key)", builtinAssoc},
	{"flatten", "(list)", builtinFlatten},
	{"range", "(n)", builtinRange},
	{"map", "(fn list)", builtinMap},
	{"filter", "(predicate list)", builtinFilter},
	{"reduce", "(fn list &optional init)", builtinReduce},
	{"apply", "(fn &rest args)", builtinApply},
	{"curry", "(fn &rest args)", builtinCurry},
	{"not", "(expr)", builtinNot},
	{"eq?", "(a b)", builtinEq},
	{"gensym", "()", builtinGenSym},
	{"eval", "(expr)", builtinEval},
	{"read", "(&optional source)", builtinRead},
	{"print", "(&rest args)", builtinPrint},
	{"string", "(value)", builtinString},
	{"env", "()", builtinEnv},
	{"type", "(value)", builtinType},
}

func init() {
	langBuiltins = append(langBuiltins, opBuiltins...)
	langBuiltins = append(langBuiltins, cxrBuiltins()...)
}

// DefaultBuiltins returns the default set of BuiltinDefs added to an Env when
// Env.AddBuiltins is called without arguments.
func DefaultBuiltins() []*BuiltinDef {
	funs := make([]*BuiltinDef, len(langBuiltins))
	copy(funs, langBuiltins)
	return funs
}

// nargs checks that the builtin bname received between min and max
// arguments.  A negative max means there is no upper bound.
func nargs(bname string, args []*LVal, min, max int) error {
	switch {
	case len(args) < min:
		return berrf(bname, ErrArgumentError, "too few arguments provided: %d", len(args))
	case max >= 0 && len(args) > max:
		return berrf(bname, ErrArgumentError, "too many arguments provided: %d", len(args))
	}
	return nil
}

// CheckArgs returns an ArgumentError unless the builtin bname received
// between min and max arguments.  A negative max means there is no upper
// bound.
func CheckArgs(bname string, args []*LVal, min, max int) error {
	return nargs(bname, args, min, max)
}

func checkList(bname string, v *LVal) error {
	if !v.IsList() {
		return typeErrorf(bname, "argument is not a list: %v", v.Type)
	}
	return nil
}

func checkFun(bname string, v *LVal) error {
	if v.Type != LFun {
		return typeErrorf(bname, "first argument is not a function: %v", v.Type)
	}
	return nil
}

func builtinCons(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("cons", args, 2, 2); err != nil {
		return nil, err
	}
	return Cons(args[0], args[1]), nil
}

func builtinCar(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("car", args, 1, 1); err != nil {
		return nil, err
	}
	return car("car", args[0])
}

func builtinCdr(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("cdr", args, 1, 1); err != nil {
		return nil, err
	}
	return cdr("cdr", args[0])
}

func car(bname string, v *LVal) (*LVal, error) {
	switch {
	case v.IsEmpty():
		return Nil(), nil
	case v.Type != LPair:
		return nil, typeErrorf(bname, "argument is not a pair: %v", v.Type)
	}
	return v.Car, nil
}

func cdr(bname string, v *LVal) (*LVal, error) {
	switch {
	case v.IsEmpty():
		return Nil(), nil
	case v.Type != LPair:
		return nil, typeErrorf(bname, "argument is not a pair: %v", v.Type)
	}
	return v.Cdr, nil
}

// cxrBuiltins returns the c[ad]r compositions of two to five operations.
func cxrBuiltins() []*BuiltinDef {
	var defs []*BuiltinDef
	var gen func(ops string)
	gen = func(ops string) {
		if len(ops) >= 2 {
			defs = append(defs, cxr(ops))
		}
		if len(ops) == 5 {
			return
		}
		gen(ops + "a")
		gen(ops + "d")
	}
	gen("")
	return defs
}

func cxr(ops string) *BuiltinDef {
	name := "c" + ops + "r"
	return &BuiltinDef{name, "(pair)", func(env *Env, args []*LVal) (*LVal, error) {
		if err := nargs(name, args, 1, 1); err != nil {
			return nil, err
		}
		v := args[0]
		// The operation nearest the r is applied first.
		for i := len(ops) - 1; i >= 0; i-- {
			var err error
			if ops[i] == 'a' {
				v, err = car(name, v)
			} else {
				v, err = cdr(name, v)
			}
			if err != nil {
				return nil, err
			}
		}
		return v, nil
	}}
}

func builtinSetCar(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("set-car!", args, 2, 2); err != nil {
		return nil, err
	}
	if err := args[0].SetCar(args[1]); err != nil {
		return nil, err
	}
	return Undefined(), nil
}

func builtinSetCdr(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("set-cdr!", args, 2, 2); err != nil {
		return nil, err
	}
	if err := args[0].SetCdr(args[1]); err != nil {
		return nil, err
	}
	return Undefined(), nil
}

func builtinList(env *Env, args []*LVal) (*LVal, error) {
	return List(args...), nil
}

func builtinLength(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("length", args, 1, 1); err != nil {
		return nil, err
	}
	switch args[0].Type {
	case LString:
		return Int(len([]rune(args[0].Str))), nil
	case LNil, LPair:
		return Int(args[0].Len()), nil
	}
	return nil, typeErrorf("length", "argument is not a list or a string: %v", args[0].Type)
}

func builtinClone(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("clone", args, 1, 1); err != nil {
		return nil, err
	}
	if err := checkList("clone", args[0]); err != nil {
		return nil, err
	}
	return args[0].Clone(), nil
}

// builtinAppend returns a copy of the list with item added at the end.  When
// item is a list its elements are added.
func builtinAppend(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("append", args, 2, 2); err != nil {
		return nil, err
	}
	if err := checkList("append", args[0]); err != nil {
		return nil, err
	}
	return args[0].Append(appendTail(args[1])), nil
}

func builtinAppendMutate(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("append!", args, 2, 2); err != nil {
		return nil, err
	}
	if err := checkList("append!", args[0]); err != nil {
		return nil, err
	}
	if args[0] == emptyList {
		return appendTail(args[1]), nil
	}
	return args[0].AppendInPlace(appendTail(args[1])), nil
}

func appendTail(item *LVal) *LVal {
	if item.IsList() {
		return item
	}
	return List(item)
}

func builtinReverse(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("reverse", args, 1, 1); err != nil {
		return nil, err
	}
	if err := checkList("reverse", args[0]); err != nil {
		return nil, err
	}
	if !args[0].IsProperList() {
		return nil, typeErrorf("reverse", "argument is not a proper list")
	}
	return args[0].Reverse(), nil
}

func builtinAssoc(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("assoc", args, 2, 2); err != nil {
		return nil, err
	}
	if err := checkList("assoc", args[0]); err != nil {
		return nil, err
	}
	return args[0].Assoc(args[1]), nil
}

func builtinFlatten(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("flatten", args, 1, 1); err != nil {
		return nil, err
	}
	if err := checkList("flatten", args[0]); err != nil {
		return nil, err
	}
	return args[0].Flatten(), nil
}

// builtinRange returns the list (0 1 ... n-1).
func builtinRange(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("range", args, 1, 1); err != nil {
		return nil, err
	}
	if args[0].Type != LNumber {
		return nil, typeErrorf("range", "argument is not a number: %v", args[0].Type)
	}
	n, ok := args[0].Num.Int64()
	if !ok {
		return nil, typeErrorf("range", "argument is not an integer: %v", args[0])
	}
	b := NewListBuilder()
	for i := 0; i < int(n); i++ {
		b.Append(Int(i))
	}
	return b.List(), nil
}

// fnAndList validates the (fn list) arguments shared by map and filter.
func fnAndList(bname string, args []*LVal) ([]*LVal, error) {
	if err := nargs(bname, args, 2, 2); err != nil {
		return nil, err
	}
	if err := checkFun(bname, args[0]); err != nil {
		return nil, err
	}
	if err := checkList(bname, args[1]); err != nil {
		return nil, err
	}
	it := NewListIterator(args[1])
	var items []*LVal
	for it.Next() {
		items = append(items, it.Value())
	}
	return items, it.Err()
}

// builtinMap calls fn on every element.  Every call is started before any
// deferred result is waited for.
func builtinMap(env *Env, args []*LVal) (*LVal, error) {
	items, err := fnAndList("map", args)
	if err != nil {
		return nil, err
	}
	results := make([]*LVal, len(items))
	for i, x := range items {
		results[i], err = Call(args[0], env, []*LVal{x})
		if err != nil {
			return nil, err
		}
	}
	return thenAll(env.Runtime, results, func(results []*LVal) (*LVal, error) {
		return List(results...), nil
	})
}

func builtinFilter(env *Env, args []*LVal) (*LVal, error) {
	items, err := fnAndList("filter", args)
	if err != nil {
		return nil, err
	}
	keep := make([]*LVal, len(items))
	for i, x := range items {
		keep[i], err = Call(args[0], env, []*LVal{x})
		if err != nil {
			return nil, err
		}
	}
	return thenAll(env.Runtime, keep, func(keep []*LVal) (*LVal, error) {
		b := NewListBuilder()
		for i := range items {
			if keep[i].IsTrue() {
				b.Append(items[i])
			}
		}
		return b.List(), nil
	})
}

// builtinReduce folds the list from the left with (fn item acc).  Without an
// initial value the first element is the initial accumulator.
func builtinReduce(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("reduce", args, 2, 3); err != nil {
		return nil, err
	}
	fn, list := args[0], args[1]
	if err := checkFun("reduce", fn); err != nil {
		return nil, err
	}
	if err := checkList("reduce", list); err != nil {
		return nil, err
	}
	var acc *LVal
	if len(args) == 3 {
		acc = args[2]
	} else {
		if list.IsEmpty() {
			return Undefined(), nil
		}
		acc, list = list.Car, list.Cdr
	}
	var step func(acc *LVal, rest *LVal) (*LVal, error)
	step = func(acc *LVal, rest *LVal) (*LVal, error) {
		for ; rest.Type == LPair && rest != emptyList; rest = rest.Cdr {
			v, err := Call(fn, env, []*LVal{rest.Car, acc})
			if err != nil {
				return nil, err
			}
			if v.Type == LDeferred {
				next := rest.Cdr
				return then(v, func(v *LVal) (*LVal, error) {
					return step(v, next)
				})
			}
			acc = v
		}
		if !rest.IsEmpty() {
			return nil, typeErrorf("reduce", "argument is not a proper list")
		}
		return acc, nil
	}
	return step(acc, list)
}

// builtinApply calls fn with the given arguments.  The final argument, when
// it is a list, is spread into individual arguments.
func builtinApply(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("apply", args, 1, -1); err != nil {
		return nil, err
	}
	if err := checkFun("apply", args[0]); err != nil {
		return nil, err
	}
	callArgs := append([]*LVal(nil), args[1:]...)
	if n := len(callArgs); n > 0 && callArgs[n-1].IsList() {
		last := callArgs[n-1]
		if !last.IsProperList() {
			return nil, typeErrorf("apply", "last argument is not a proper list")
		}
		callArgs = append(callArgs[:n-1], ToSlice(last)...)
	}
	return Call(args[0], env, callArgs)
}

// builtinCurry returns a function that calls fn with the curried arguments
// followed by its own arguments.
func builtinCurry(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("curry", args, 1, -1); err != nil {
		return nil, err
	}
	fn := args[0]
	if err := checkFun("curry", fn); err != nil {
		return nil, err
	}
	bound := append([]*LVal(nil), args[1:]...)
	return Fun("curry", func(env *Env, rest []*LVal) (*LVal, error) {
		callArgs := make([]*LVal, 0, len(bound)+len(rest))
		callArgs = append(callArgs, bound...)
		callArgs = append(callArgs, rest...)
		return Call(fn, env, callArgs)
	}), nil
}

func builtinNot(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("not", args, 1, 1); err != nil {
		return nil, err
	}
	v := args[0]
	return Bool(v.IsEmpty() || !v.IsTrue()), nil
}

func builtinEq(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("eq?", args, 2, 2); err != nil {
		return nil, err
	}
	return Bool(args[0].Equal(args[1])), nil
}

func builtinGenSym(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("gensym", args, 0, 0); err != nil {
		return nil, err
	}
	return env.Runtime.GenSym(), nil
}

func builtinEval(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("eval", args, 1, 1); err != nil {
		return nil, err
	}
	return Evaluate(args[0], env, nil)
}

// builtinRead parses the first form of its string argument.  With no argument
// it reads a line from the runtime's standard input and parses that.
func builtinRead(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("read", args, 0, 1); err != nil {
		return nil, err
	}
	rt := env.Runtime
	if len(args) == 0 {
		line := DeferredVal(rt.ReadLine())
		return then(line, func(line *LVal) (*LVal, error) {
			return readFirst(rt, line.Str)
		})
	}
	if args[0].Type != LString {
		return nil, typeErrorf("read", "argument is not a string: %v", args[0].Type)
	}
	return readFirst(rt, args[0].Str)
}

func readFirst(rt *Runtime, src string) (*LVal, error) {
	if rt.Reader == nil {
		return nil, berrf("read", ErrReadError, "no reader configured")
	}
	forms, err := rt.Reader.Read("read", src)
	if err != nil {
		return nil, err
	}
	if len(forms) == 0 {
		return Undefined(), nil
	}
	return forms[0], nil
}

func builtinPrint(env *Env, args []*LVal) (*LVal, error) {
	w := env.Runtime.Stdout
	for _, v := range args {
		if _, err := io.WriteString(w, v.Display()+"\n"); err != nil {
			return nil, &Error{Kind: ErrUnknown, Msg: fmt.Sprintf("print: %v", err), Err: err}
		}
	}
	return Undefined(), nil
}

func builtinString(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("string", args, 1, 1); err != nil {
		return nil, err
	}
	return String(args[0].Display()), nil
}

func builtinEnv(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("env", args, 0, 0); err != nil {
		return nil, err
	}
	b := NewListBuilder()
	for _, name := range env.Names() {
		b.Append(Symbol(name))
	}
	return b.List(), nil
}

func builtinType(env *Env, args []*LVal) (*LVal, error) {
	if err := nargs("type", args, 1, 1); err != nil {
		return nil, err
	}
	return String(strings.ToLower(args[0].Type.String())), nil
}

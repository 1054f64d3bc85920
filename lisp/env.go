package lisp

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/WarpedWartWars/lips/lisp/numeric"
)

// Env is a lisp environment, one frame in a chain of lexical scopes.
type Env struct {
	ID      uint
	Name    string
	Scope   map[string]*LVal
	Parent  *Env
	Runtime *Runtime
}

// NewEnv returns initializes and returns a new Env.  When parent is nil a new
// Runtime is created and the returned Env becomes its root.
func NewEnv(parent *Env) *Env {
	if parent != nil {
		return parent.Inherit("")
	}
	rt := newRuntime()
	env := &Env{
		ID:      rt.envID(),
		Name:    "global",
		Scope:   make(map[string]*LVal),
		Runtime: rt,
	}
	rt.Root = env
	return env
}

// Inherit returns a new child of env.  When name is empty the child is named
// "child of <env name>".
func (env *Env) Inherit(name string) *Env {
	return env.InheritBindings(nil, name)
}

// InheritBindings returns a new child of env with initial bindings.
func (env *Env) InheritBindings(bindings map[string]*LVal, name string) *Env {
	if name == "" {
		name = "child of " + env.Name
	}
	scope := make(map[string]*LVal, len(bindings))
	for k, v := range bindings {
		scope[k] = v
	}
	return &Env{
		ID:      env.Runtime.envID(),
		Name:    name,
		Scope:   scope,
		Parent:  env,
		Runtime: env.Runtime,
	}
}

// Get returns the value bound to name.  The local frame is searched first,
// then each parent, then the runtime's host fallback.  Get reports absence
// with a false second value rather than an error.
func (env *Env) Get(name string) (*LVal, bool) {
	for e := env; e != nil; e = e.Parent {
		v, ok := e.Scope[name]
		if ok {
			return v, true
		}
	}
	fb := env.Runtime.Fallback
	if fb == nil {
		return nil, false
	}
	x, ok := fb.Lookup(name)
	if !ok {
		return nil, false
	}
	v, err := Value(x)
	if err != nil {
		return Native(x), true
	}
	return v, true
}

// GetSymbol is like Get but takes a symbol or string LVal.
func (env *Env) GetSymbol(k *LVal) (*LVal, bool) {
	if k.Type != LSymbol && k.Type != LString {
		return nil, false
	}
	return env.Get(k.Str)
}

// Set binds name to v in the local frame of env.  Set never modifies a parent
// frame.
func (env *Env) Set(name string, v *LVal) {
	if v == nil {
		panic("nil value")
	}
	env.Scope[name] = v
}

// Define converts the Go value x with Value and binds it to name in the local
// frame of env.
func (env *Env) Define(name string, x interface{}) error {
	v, err := Value(x)
	if err != nil {
		return err
	}
	env.Set(name, v)
	return nil
}

// Root returns the global environment.
func (env *Env) Root() *Env {
	return env.Runtime.Root
}

// Names returns the names visible from env, nearest frame first.  Names
// bound in more than one frame are listed once.
func (env *Env) Names() []string {
	var names []string
	seen := make(map[string]bool)
	for e := env; e != nil; e = e.Parent {
		local := make([]string, 0, len(e.Scope))
		for k := range e.Scope {
			if !seen[k] {
				seen[k] = true
				local = append(local, k)
			}
		}
		sort.Strings(local)
		names = append(names, local...)
	}
	return names
}

func (env *Env) String() string {
	return fmt.Sprintf("<#env %s>", env.Name)
}

// AddMacros binds the given macros to their names in env.  When called with no
// arguments AddMacros adds the DefaultMacros to env.
func (env *Env) AddMacros(macs ...*MacroDef) {
	if len(macs) == 0 {
		macs = DefaultMacros()
	}
	for _, mac := range macs {
		env.Set(mac.Name(), Macro(mac.Name(), mac.fun))
	}
}

// AddBuiltins binds the given funs to their names in env.  When called with no
// arguments AddBuiltins adds the DefaultBuiltins to env.
func (env *Env) AddBuiltins(funs ...*BuiltinDef) {
	if len(funs) == 0 {
		funs = DefaultBuiltins()
	}
	for _, f := range funs {
		env.Set(f.Name(), Fun(f.Name(), f.fun))
	}
}

// Value converts a Go value to an LVal.  Numbers are converted into the
// numeric tower.  Functions with the LBuiltin signature become builtins and
// other values without a lisp representation become native values.
func Value(x interface{}) (*LVal, error) {
	switch x := x.(type) {
	case nil:
		return Nil(), nil
	case *LVal:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case *numeric.Number:
		return Number(x), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, *big.Int:
		n, err := numeric.New(x)
		if err != nil {
			return nil, typeErrorf("value", "%v", err)
		}
		return Number(n), nil
	case LBuiltin:
		return Fun("native", x), nil
	case func(env *Env, args []*LVal) (*LVal, error):
		return Fun("native", x), nil
	case []interface{}:
		vals := make([]*LVal, len(x))
		for i := range x {
			v, err := Value(x[i])
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return FromSlice(vals), nil
	default:
		return Native(x), nil
	}
}

// Fallback exposes host values as bare identifiers when no environment
// binding exists.
type Fallback interface {
	Lookup(name string) (interface{}, bool)
}

// MapFallback is a Fallback backed by a map.
type MapFallback map[string]interface{}

// Lookup implements Fallback.
func (m MapFallback) Lookup(name string) (interface{}, bool) {
	x, ok := m[name]
	return x, ok
}

package lisp

import (
	"reflect"
	"regexp"

	"github.com/WarpedWartWars/lips/lisp/numeric"
	"github.com/WarpedWartWars/lips/parser/token"
)

// LType is the type of an LVal.  The set of types is closed; every switch
// over LType must handle each of them.
type LType uint

// Possible LType values
const (
	LInvalid LType = iota
	LUndefined
	LNil
	LBool
	LNumber
	LString
	LSymbol
	LRegexp
	LPair
	LQuote
	LUnquote
	LMacro
	LFun
	LDeferred
	LNative
	numLTypes
)

var lvalTypeStrings = []string{
	LInvalid:   "INVALID",
	LUndefined: "undefined",
	LNil:       "nil",
	LBool:      "boolean",
	LNumber:    "number",
	LString:    "string",
	LSymbol:    "symbol",
	LRegexp:    "regexp",
	LPair:      "pair",
	LQuote:     "quote",
	LUnquote:   "unquote",
	LMacro:     "macro",
	LFun:       "function",
	LDeferred:  "deferred",
	LNative:    "native",
}

func (t LType) String() string {
	if t >= numLTypes {
		return lvalTypeStrings[LInvalid]
	}
	return lvalTypeStrings[t]
}

// LBuiltin is a function implemented in Go.  The env passed to an LBuiltin is
// the receiver context of the call: the dynamic environment when there is
// one, otherwise the lexical environment of the caller.
type LBuiltin func(env *Env, args []*LVal) (*LVal, error)

// LMacroFunc is the implementation of a macro.  It receives its arguments
// unevaluated along with the invoking environment and the dynamic
// environment, which is nil for lexically scoped evaluation.
type LMacroFunc func(args *LVal, env *Env, dynamic *Env) (*LVal, error)

// LVal is a lisp value
type LVal struct {
	Type LType

	// Source is the location an LVal was read from, when known.
	Source *token.Location

	// Str is the content of strings and the name of symbols, functions and
	// macros.  For regexps it holds the flags.
	Str string

	Num  *numeric.Number
	Bool bool

	// Car and Cdr hold the contents of a pair.  A quote or unquote stores its
	// payload in Car.
	Car *LVal
	Cdr *LVal

	// Unquote placeholders
	Depth  int
	Splice bool

	Regexp *regexp.Regexp

	// Variables needed for function values
	Builtin LBuiltin
	Macro   LMacroFunc
	Formals *LVal
	Body    *LVal
	Env     *Env
	Dynamic bool

	Deferred *Deferred
	Native   interface{}
}

var (
	nilVal       = &LVal{Type: LNil}
	undefinedVal = &LVal{Type: LUndefined}
	trueVal      = &LVal{Type: LBool, Bool: true}
	falseVal     = &LVal{Type: LBool, Bool: false}
	emptyList    = &LVal{Type: LPair, Car: nil, Cdr: nilVal}
)

// Nil returns the shared LVal representing nil, the end of a list.
func Nil() *LVal {
	return nilVal
}

// EmptyList returns the shared LVal produced by reading "()".  It is a pair
// whose car is undefined and whose cdr is Nil.
func EmptyList() *LVal {
	return emptyList
}

// Undefined returns the shared LVal representing the absence of a value.
func Undefined() *LVal {
	return undefinedVal
}

// Bool returns an LVal representing the boolean b.
func Bool(b bool) *LVal {
	if b {
		return trueVal
	}
	return falseVal
}

// Number returns an LVal representing the number n.
func Number(n *numeric.Number) *LVal {
	return &LVal{
		Type: LNumber,
		Num:  n,
	}
}

// Int returns an LVal representing the exact integer x.
func Int(x int) *LVal {
	return Number(numeric.Int(int64(x)))
}

// Float returns an LVal representing the float x.
func Float(x float64) *LVal {
	return Number(numeric.FloatOf(x))
}

// String returns an LVal representing the string str.
func String(str string) *LVal {
	return &LVal{
		Type: LString,
		Str:  str,
	}
}

// Symbol returns an LVal representing the symbol s
func Symbol(s string) *LVal {
	return &LVal{
		Type: LSymbol,
		Str:  s,
	}
}

// Regexp returns an LVal representing the compiled regexp re.  The flags
// string retains the literal flags, of which "g" affects replacement.
func Regexp(re *regexp.Regexp, flags string) *LVal {
	return &LVal{
		Type:   LRegexp,
		Regexp: re,
		Str:    flags,
	}
}

// Cons returns a new pair.
func Cons(car, cdr *LVal) *LVal {
	return &LVal{
		Type: LPair,
		Car:  car,
		Cdr:  cdr,
	}
}

// QuoteVal returns v wrapped so the evaluator does not evaluate it further.
func QuoteVal(v *LVal) *LVal {
	return &LVal{
		Type: LQuote,
		Car:  v,
	}
}

// Unquote returns a quasiquote placeholder at the given depth.
func Unquote(v *LVal, depth int, splice bool) *LVal {
	return &LVal{
		Type:   LUnquote,
		Car:    v,
		Depth:  depth,
		Splice: splice,
	}
}

// Macro returns an LVal representing a macro named name.
func Macro(name string, fn LMacroFunc) *LVal {
	return &LVal{
		Type:  LMacro,
		Str:   name,
		Macro: fn,
	}
}

// Fun returns an LVal representing a builtin function
func Fun(name string, fn LBuiltin) *LVal {
	return &LVal{
		Type:    LFun,
		Str:     name,
		Builtin: fn,
	}
}

// Lambda returns a closure with the given formals and body expressions.  The
// body is a list of forms evaluated in sequence.
func Lambda(formals *LVal, body *LVal, env *Env, dynamic bool) *LVal {
	return &LVal{
		Type:    LFun,
		Str:     "lambda",
		Formals: formals,
		Body:    body,
		Env:     env,
		Dynamic: dynamic,
	}
}

// DeferredVal returns an LVal for the deferred result d.
func DeferredVal(d *Deferred) *LVal {
	return &LVal{
		Type:     LDeferred,
		Deferred: d,
	}
}

// Native returns an LVal containing an arbitrary Go value.
func Native(x interface{}) *LVal {
	return &LVal{
		Type:   LNative,
		Native: x,
	}
}

// IsNil returns true if v is Nil.
func (v *LVal) IsNil() bool {
	return v == nilVal
}

// IsEmpty returns true if v is Nil or the empty list.
func (v *LVal) IsEmpty() bool {
	return v == nilVal || v == emptyList
}

// IsList returns true if v is a pair or an empty list.
func (v *LVal) IsList() bool {
	return v.Type == LPair || v.Type == LNil
}

// IsSymbol returns true if v is a symbol named name.
func (v *LVal) IsSymbol(name string) bool {
	return v != nil && v.Type == LSymbol && v.Str == name
}

// IsDeferred returns true if v is a pending or settled deferred value.
func (v *LVal) IsDeferred() bool {
	return v.Type == LDeferred
}

// IsTrue returns true if v counts as true in a conditional.  Only false and
// undefined are false.  Nil is true.
func (v *LVal) IsTrue() bool {
	switch v.Type {
	case LBool:
		return v.Bool
	case LUndefined:
		return false
	}
	return true
}

// IsBuiltin returns true if v is a function implemented in Go.
func (v *LVal) IsBuiltin() bool {
	return v.Type == LFun && v.Builtin != nil
}

// SetCar replaces the car of pair v.
func (v *LVal) SetCar(car *LVal) error {
	if v.Type != LPair {
		return typeErrorf("set-car!", "argument is not a pair: %v", v.Type)
	}
	if v == emptyList {
		return typeErrorf("set-car!", "the empty list is immutable")
	}
	v.Car = car
	return nil
}

// SetCdr replaces the cdr of pair v.
func (v *LVal) SetCdr(cdr *LVal) error {
	if v.Type != LPair {
		return typeErrorf("set-cdr!", "argument is not a pair: %v", v.Type)
	}
	if v == emptyList {
		return typeErrorf("set-cdr!", "the empty list is immutable")
	}
	v.Cdr = cdr
	return nil
}

// Equal returns true if v and other are the same value.  Atoms compare by
// value, everything else by identity.
func (v *LVal) Equal(other *LVal) bool {
	if v == other {
		return true
	}
	if v == nil || other == nil || v.Type != other.Type {
		return false
	}
	switch v.Type {
	case LBool:
		return v.Bool == other.Bool
	case LNumber:
		return v.Num.Equal(other.Num)
	case LString, LSymbol:
		return v.Str == other.Str
	case LRegexp:
		return v.Regexp.String() == other.Regexp.String() && v.Str == other.Str
	case LNative:
		if v.Native != nil && !reflect.TypeOf(v.Native).Comparable() {
			return false
		}
		return v.Native == other.Native
	case LInvalid, LUndefined, LNil, LPair, LQuote, LUnquote, LMacro, LFun, LDeferred:
		return false
	default:
		panic("unknown type")
	}
}

// Package libregexp provides functions operating on regexp values.
package libregexp

import (
	"regexp"

	"github.com/WarpedWartWars/lips/lisp"
)

// LoadPackage adds the regexp functions to env
func LoadPackage(env *lisp.Env) error {
	env.AddBuiltins(builtins...)
	return nil
}

var builtins = []*lisp.BuiltinDef{
	lisp.NewBuiltinDef("regexp", "(pattern &optional flags)", BuiltinCompile),
	lisp.NewBuiltinDef("regexp?", "(value)", BuiltinIsRegexp),
	lisp.NewBuiltinDef("match", "(re text)", BuiltinMatch),
	lisp.NewBuiltinDef("search", "(re text)", BuiltinSearch),
	lisp.NewBuiltinDef("replace", "(re replacement text)", BuiltinReplace),
}

// BuiltinCompile returns a regexp value compiled from a pattern string.
func BuiltinCompile(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	if err := lisp.CheckArgs("regexp", args, 1, 2); err != nil {
		return nil, err
	}
	patt := args[0]
	if patt.Type != lisp.LString {
		return nil, lisp.Errorf(lisp.ErrTypeError, "regexp: argument is not a string: %v", patt.Type)
	}
	flags := ""
	if len(args) == 2 {
		if args[1].Type != lisp.LString {
			return nil, lisp.Errorf(lisp.ErrTypeError, "regexp: flags are not a string: %v", args[1].Type)
		}
		flags = args[1].Str
	}
	return lisp.NewRegexp(patt.Str, flags)
}

func BuiltinIsRegexp(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	if err := lisp.CheckArgs("regexp?", args, 1, 1); err != nil {
		return nil, err
	}
	return lisp.Bool(args[0].Type == lisp.LRegexp), nil
}

// BuiltinMatch returns the matched text and groups of the first match, or
// every match when the regexp is global.  Nil is returned when nothing
// matches.
func BuiltinMatch(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	lre, text, err := regexpAndText("match", args)
	if err != nil {
		return nil, err
	}
	if lre.IsGlobal() {
		return strings(lre.Regexp.FindAllString(text, -1)), nil
	}
	return strings(lre.Regexp.FindStringSubmatch(text)), nil
}

// BuiltinSearch returns the byte offset of the first match, or -1.
func BuiltinSearch(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	lre, text, err := regexpAndText("search", args)
	if err != nil {
		return nil, err
	}
	loc := lre.Regexp.FindStringIndex(text)
	if loc == nil {
		return lisp.Int(-1), nil
	}
	return lisp.Int(loc[0]), nil
}

// BuiltinReplace replaces the first match, or every match of a global
// regexp.  The replacement is a string, in which $1 refers to a group, or a
// function called with the matched text.
func BuiltinReplace(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	if err := lisp.CheckArgs("replace", args, 3, 3); err != nil {
		return nil, err
	}
	lre, repl := args[0], args[1]
	_, text, err := regexpAndText("replace", []*lisp.LVal{lre, args[2]})
	if err != nil {
		return nil, err
	}
	re := lre.Regexp
	locs := re.FindAllStringSubmatchIndex(text, -1)
	if !lre.IsGlobal() && len(locs) > 1 {
		locs = locs[:1]
	}
	switch repl.Type {
	case lisp.LString:
		var out []byte
		last := 0
		for _, loc := range locs {
			out = append(out, text[last:loc[0]]...)
			out = re.ExpandString(out, repl.Str, text, loc)
			last = loc[1]
		}
		out = append(out, text[last:]...)
		return lisp.String(string(out)), nil
	case lisp.LFun:
		return replaceFunc(env, repl, text, locs)
	}
	return nil, lisp.Errorf(lisp.ErrTypeError, "replace: replacement is not a string or function: %v", repl.Type)
}

// replaceFunc calls fn for each match.  The calls may return deferred values.
func replaceFunc(env *lisp.Env, fn *lisp.LVal, text string, locs [][]int) (*lisp.LVal, error) {
	results := make([]*lisp.LVal, len(locs))
	for i, loc := range locs {
		v, err := env.Call(fn, lisp.String(text[loc[0]:loc[1]]))
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	all := lisp.DeferredVal(env.Runtime.Loop.All(results))
	return lisp.Then(all, func(v *lisp.LVal) (*lisp.LVal, error) {
		results := v.Native.([]*lisp.LVal)
		var out []byte
		last := 0
		for i, loc := range locs {
			out = append(out, text[last:loc[0]]...)
			out = append(out, results[i].Display()...)
			last = loc[1]
		}
		out = append(out, text[last:]...)
		return lisp.String(string(out)), nil
	})
}

func regexpAndText(bname string, args []*lisp.LVal) (*lisp.LVal, string, error) {
	if err := lisp.CheckArgs(bname, args, 2, 2); err != nil {
		return nil, "", err
	}
	lre, text := args[0], args[1]
	if lre.Type != lisp.LRegexp {
		return nil, "", lisp.Errorf(lisp.ErrTypeError, "%s: first argument is not a regexp: %v", bname, lre.Type)
	}
	if text.Type != lisp.LString {
		return nil, "", lisp.Errorf(lisp.ErrTypeError, "%s: argument is not a string: %v", bname, text.Type)
	}
	return lre, text.Str, nil
}

func strings(s []string) *lisp.LVal {
	if s == nil {
		return lisp.Nil()
	}
	vals := make([]*lisp.LVal, len(s))
	for i := range s {
		vals[i] = lisp.String(s[i])
	}
	return lisp.List(vals...)
}

// Get returns the compiled regexp of v.
func Get(v *lisp.LVal) (*regexp.Regexp, bool) {
	if v.Type != lisp.LRegexp {
		return nil, false
	}
	return v.Regexp, true
}

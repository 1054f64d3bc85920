// Package libstring provides string functions including concatenation,
// splitting, templated formatting and locale aware number formatting.
package libstring

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/WarpedWartWars/lips/lisp"
)

// LoadPackage adds the string functions to env
func LoadPackage(env *lisp.Env) error {
	env.AddBuiltins(builtins...)
	env.AddBuiltins(localeBuiltins...)
	return nil
}

var builtins = []*lisp.BuiltinDef{
	lisp.NewBuiltinDef("concat", "(&rest strings)", builtinConcat),
	lisp.NewBuiltinDef("join", "(separator list)", builtinJoin),
	lisp.NewBuiltinDef("split", "(separator string)", builtinSplit),
	lisp.NewBuiltinDef("format", "(format-string &rest values)", builtinFormat),
}

// builtinConcat joins the display forms of its arguments.
func builtinConcat(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	var buf strings.Builder
	for _, v := range args {
		buf.WriteString(v.Display())
	}
	return lisp.String(buf.String()), nil
}

func builtinJoin(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	if err := lisp.CheckArgs("join", args, 2, 2); err != nil {
		return nil, err
	}
	sep, list := args[0], args[1]
	if sep.Type != lisp.LString {
		return nil, lisp.Errorf(lisp.ErrTypeError, "join: first argument is not a string: %v", sep.Type)
	}
	if !list.IsList() || !list.IsProperList() {
		return nil, lisp.Errorf(lisp.ErrTypeError, "join: second argument is not a list: %v", list.Type)
	}
	items := lisp.ToSlice(list)
	parts := make([]string, len(items))
	for i, v := range items {
		parts[i] = v.Display()
	}
	return lisp.String(strings.Join(parts, sep.Str)), nil
}

// builtinSplit splits a string on a string or regexp separator.
func builtinSplit(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	if err := lisp.CheckArgs("split", args, 2, 2); err != nil {
		return nil, err
	}
	sep, str := args[0], args[1]
	if str.Type != lisp.LString {
		return nil, lisp.Errorf(lisp.ErrTypeError, "split: second argument is not a string: %v", str.Type)
	}
	var parts []string
	switch sep.Type {
	case lisp.LString:
		parts = strings.Split(str.Str, sep.Str)
	case lisp.LRegexp:
		parts = sep.Regexp.Split(str.Str, -1)
	default:
		return nil, lisp.Errorf(lisp.ErrTypeError, "split: first argument is not a string or regexp: %v", sep.Type)
	}
	vals := make([]*lisp.LVal, len(parts))
	for i := range parts {
		vals[i] = lisp.String(parts[i])
	}
	return lisp.List(vals...), nil
}

// builtinFormat substitutes each {} directive in the format string with the
// display form of the next value.  Literal braces are written {{ and }}.
func builtinFormat(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	if err := lisp.CheckArgs("format", args, 1, -1); err != nil {
		return nil, err
	}
	format := args[0]
	fvals := args[1:]
	if format.Type != lisp.LString {
		return nil, lisp.Errorf(lisp.ErrTypeError, "format: first argument is not a string")
	}
	parts, err := parseFormatString(format.Str)
	if err != nil {
		return nil, lisp.Errorf(lisp.ErrArgumentError, "format: %v", err)
	}
	var buf bytes.Buffer
	anonIndex := 0
	for _, p := range parts {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") && len(p) > 1 {
			p = strings.Join(strings.Fields(p), "")
			if p != "{}" {
				return nil, lisp.Errorf(lisp.ErrArgumentError, "format: formatting directives must be empty")
			}
			if anonIndex >= len(fvals) {
				return nil, lisp.Errorf(lisp.ErrArgumentError, "format: too many formatting directives for supplied values")
			}
			buf.WriteString(fvals[anonIndex].Display())
			anonIndex++
		} else {
			buf.WriteString(p)
		}
	}
	return lisp.String(buf.String()), nil
}

func parseFormatString(f string) ([]string, error) {
	var s []string
	tokens := tokenizeFormatString(f)
	for len(tokens) > 0 {
		tok := tokens[0]
		if tok.typ == formatText {
			s = append(s, tok.text)
			tokens = tokens[1:]
			continue
		}
		if tok.typ == formatClose {
			if len(tokens) < 2 || tokens[1].typ != formatClose {
				return nil, fmt.Errorf("unexpected closing brace '}' outside of formatting directive")
			}
			s = append(s, "}")
			tokens = tokens[2:]
			continue
		}
		if len(tokens) < 2 {
			return nil, fmt.Errorf("unclosed formatting directive")
		}
		switch tokens[1].typ {
		case formatOpen:
			s = append(s, "{")
			tokens = tokens[2:]
			continue
		case formatClose:
			s = append(s, "{}")
			tokens = tokens[2:]
			continue
		case formatText:
			if len(tokens) < 3 {
				return nil, fmt.Errorf("unclosed formatting directive")
			}
			if tokens[2].typ != formatClose {
				return nil, fmt.Errorf("invalid formatting directive")
			}
			s = append(s, "{"+tokens[1].text+"}")
			tokens = tokens[3:]
			continue
		default:
			panic("unknown type")
		}
	}
	return s, nil
}

func tokenizeFormatString(f string) []formatToken {
	var tokens []formatToken
	for {
		i := strings.IndexAny(f, "{}")
		if i < 0 {
			tokens = append(tokens, formatToken{formatText, f})
			return tokens
		}
		if i > 0 {
			tokens = append(tokens, formatToken{formatText, f[:i]})
			f = f[i:]
		}
		if f[0] == '{' {
			tokens = append(tokens, formatToken{formatOpen, "{"})
			f = f[1:]
		} else {
			tokens = append(tokens, formatToken{formatClose, "}"})
			f = f[1:]
		}
	}
}

type formatTokenType uint

const (
	formatText formatTokenType = iota
	formatOpen
	formatClose
)

type formatToken struct {
	typ  formatTokenType
	text string
}

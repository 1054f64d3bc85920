package libstring

import (
	"github.com/WarpedWartWars/lips/lisp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is used by the locale aware formatters when no locale is
// given.
const DefaultLocale = "en"

var localeBuiltins = []*lisp.BuiltinDef{
	lisp.NewBuiltinDef("format-number", "(number &optional locale)", builtinFormatNumber),
	lisp.NewBuiltinDef("format-percent", "(number &optional locale)", builtinFormatPercent),
}

// builtinFormatNumber renders a number with the digit grouping and decimal
// separator of a locale.
func builtinFormatNumber(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	return formatLocale("format-number", args, func(x interface{}) interface{} {
		return number.Decimal(x)
	})
}

// builtinFormatPercent renders a fraction as a percentage.
func builtinFormatPercent(env *lisp.Env, args []*lisp.LVal) (*lisp.LVal, error) {
	return formatLocale("format-percent", args, func(x interface{}) interface{} {
		return number.Percent(x)
	})
}

func formatLocale(bname string, args []*lisp.LVal, fn func(interface{}) interface{}) (*lisp.LVal, error) {
	if err := lisp.CheckArgs(bname, args, 1, 2); err != nil {
		return nil, err
	}
	n := args[0]
	if n.Type != lisp.LNumber {
		return nil, lisp.Errorf(lisp.ErrTypeError, "%s: first argument is not a number: %v", bname, n.Type)
	}
	locale := DefaultLocale
	if len(args) == 2 {
		if args[1].Type != lisp.LString {
			return nil, lisp.Errorf(lisp.ErrTypeError, "%s: locale is not a string: %v", bname, args[1].Type)
		}
		locale = args[1].Str
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, &lisp.Error{Kind: lisp.ErrArgumentError, Msg: bname + ": " + err.Error(), Err: err}
	}
	var x interface{}
	if i, ok := n.Num.Int64(); ok {
		x = i
	} else {
		x = n.Num.Float64()
	}
	p := message.NewPrinter(tag)
	return lisp.String(p.Sprint(fn(x))), nil
}

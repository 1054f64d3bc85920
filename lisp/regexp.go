package lisp

import (
	"regexp"
	"strings"
)

// NewRegexp compiles a regexp literal with the given flags.  The flags "i"
// and "m" map to the inline flags of the same name.  The flag "g" is kept on
// the value and makes replacement global.  The flag "y" is accepted and has
// no effect.
func NewRegexp(body string, flags string) (*LVal, error) {
	for _, f := range flags {
		if !strings.ContainsRune("gimy", f) {
			return nil, Errorf(ErrSyntaxError, "invalid regexp flag %q", f)
		}
	}
	re, err := regexp.Compile(regexpPrefix(flags) + body)
	if err != nil {
		return nil, &Error{Kind: ErrSyntaxError, Msg: err.Error(), Err: err}
	}
	return Regexp(re, flags), nil
}

// RegexpSource returns the body of the regexp literal v, without the inline
// flags added by NewRegexp.
func (v *LVal) RegexpSource() string {
	return strings.TrimPrefix(v.Regexp.String(), regexpPrefix(v.Str))
}

// IsGlobal returns true if the regexp v has the "g" flag.
func (v *LVal) IsGlobal() bool {
	return v.Type == LRegexp && strings.ContainsRune(v.Str, 'g')
}

func regexpPrefix(flags string) string {
	var inline []byte
	if strings.ContainsRune(flags, 'i') {
		inline = append(inline, 'i')
	}
	if strings.ContainsRune(flags, 'm') {
		inline = append(inline, 'm')
	}
	if len(inline) == 0 {
		return ""
	}
	return "(?" + string(inline) + ")"
}

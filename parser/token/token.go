package token

import "fmt"

type Token struct {
	Type   Type
	Text   string
	Source *Location
}

func (tok *Token) String() string {
	return fmt.Sprintf("%v %q", tok.Type, tok.Text)
}

type Type uint

// Type constants used by the lexer and parser.
const (
	INVALID Type = iota
	ERROR
	EOF

	// Atomic expressions & literals
	ATOM
	STRING
	REGEXP

	COMMENT

	// Reader sigils
	QUOTE
	QUASIQUOTE
	UNQUOTE
	UNQUOTE_SPLICING

	// Delimiters
	DOT
	PAREN_L
	PAREN_R

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:          "invalid",
		ERROR:            "error",
		EOF:              "EOF",
		ATOM:             "atom",
		STRING:           "string",
		REGEXP:           "regexp",
		COMMENT:          ";",
		QUOTE:            "'",
		QUASIQUOTE:       "`",
		UNQUOTE:          ",",
		UNQUOTE_SPLICING: ",@",
		DOT:              ".",
		PAREN_L:          "(",
		PAREN_R:          ")",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// IsSigil returns true if typ is one of the reader sigils that wrap the
// following datum.
func (typ Type) IsSigil() bool {
	switch typ {
	case QUOTE, QUASIQUOTE, UNQUOTE, UNQUOTE_SPLICING:
		return true
	}
	return false
}

type Location struct {
	File string
	Pos  int // byte offset from the beginning of the source
	Line int // line number (starting at 1 when tracked)
	Col  int // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

// Error is a lexical error at a source location.
type Error struct {
	Source *Location
	Msg    string
}

func (err *Error) Error() string {
	if err.Source == nil {
		return err.Msg
	}
	return fmt.Sprintf("%v: %s", err.Source, err.Msg)
}

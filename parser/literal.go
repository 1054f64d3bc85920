package parser

import (
	"encoding/json"
	"strings"

	"github.com/WarpedWartWars/lips/lisp"
	"github.com/WarpedWartWars/lips/lisp/numeric"
	"github.com/WarpedWartWars/lips/parser/token"
	parsec "github.com/prataprc/goparsec"
)

const (
	termInt   = "INT"
	termFloat = "FLOAT"
)

// numberTerm matches a numeric literal.  Integers are tried first so that
// "12" and "+12" are exact while "12.0" and "1e3" are floats.
var numberTerm = parsec.OrdChoice(firstNode,
	parsec.Token(`[-+]?[0-9]+$`, termInt),
	parsec.Token(`[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`, termFloat),
)

// firstNode unwraps the single alternative matched by an OrdChoice.
func firstNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// classifyNumber returns the terminal kind of text, or the empty string when
// text is not a number in its entirety.
func classifyNumber(text string) (kind string, value string) {
	s := parsec.NewScanner([]byte(text))
	node, s := numberTerm(s)
	if node == nil || !s.Endof() {
		return "", ""
	}
	for {
		nodes, ok := node.([]parsec.ParsecNode)
		if !ok || len(nodes) != 1 {
			break
		}
		node = nodes[0]
	}
	term, ok := node.(*parsec.Terminal)
	if !ok {
		return "", ""
	}
	return term.Name, term.Value
}

// literal decodes an ATOM, STRING or REGEXP token into a value.
func literal(tok *token.Token) (*lisp.LVal, error) {
	var v *lisp.LVal
	var err error
	switch tok.Type {
	case token.STRING:
		v, err = stringLiteral(tok.Text)
	case token.REGEXP:
		v, err = regexpLiteral(tok.Text)
	case token.ATOM:
		v, err = atomLiteral(tok.Text)
	default:
		err = lisp.Errorf(lisp.ErrSyntaxError, "unexpected %v", tok.Type)
	}
	if err != nil {
		return nil, tokenError(tok, err)
	}
	if v != lisp.Nil() {
		v.Source = tok.Source
	}
	return v, nil
}

// rawControl escapes line breaks and tabs which may appear unescaped in
// multi-line string literals.
var rawControl = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)

func stringLiteral(text string) (*lisp.LVal, error) {
	var s string
	err := json.Unmarshal([]byte(rawControl.Replace(text)), &s)
	if err != nil {
		return nil, lisp.Errorf(lisp.ErrSyntaxError, "invalid string literal %s: %v", text, err)
	}
	return lisp.String(s), nil
}

func regexpLiteral(text string) (*lisp.LVal, error) {
	end := strings.LastIndexByte(text, '/')
	if end <= 0 {
		return nil, lisp.Errorf(lisp.ErrSyntaxError, "invalid regexp literal: %s", text)
	}
	return lisp.NewRegexp(text[1:end], text[end+1:])
}

func atomLiteral(text string) (*lisp.LVal, error) {
	if text == "nil" {
		return lisp.Nil(), nil
	}
	kind, value := classifyNumber(text)
	switch kind {
	case termInt:
		n, err := numeric.ParseInt(value)
		if err != nil {
			return nil, lisp.Errorf(lisp.ErrSyntaxError, "invalid integer literal: %s", text)
		}
		return lisp.Number(n), nil
	case termFloat:
		n, err := numeric.ParseFloat(value)
		if err != nil {
			return nil, lisp.Errorf(lisp.ErrSyntaxError, "invalid float literal: %s", text)
		}
		return lisp.Number(n), nil
	}
	return lisp.Symbol(text), nil
}

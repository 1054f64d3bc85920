/*
Package parser reads lisp source text into values.

	program := <datum>*
	datum   := <atom> | <sigil> <datum> | '(' <datum>* ')' | '(' <datum>+ '.' <datum> ')'
	sigil   := "'" | '`' | ',' | ',@'
	atom    := <string> | <regexp> | <number> | 'nil' | <symbol>

Parsing uses an explicit stack of open frames, so the nesting depth of the
input is not limited by the Go stack.
*/
package parser

import (
	"errors"

	"github.com/WarpedWartWars/lips/lisp"
	"github.com/WarpedWartWars/lips/parser/lexer"
	"github.com/WarpedWartWars/lips/parser/token"
)

var sigilNames = map[token.Type]string{
	token.QUOTE:            "quote",
	token.QUASIQUOTE:       "quasiquote",
	token.UNQUOTE:          "unquote",
	token.UNQUOTE_SPLICING: "unquote-splicing",
}

type reader struct{}

// NewReader returns a lisp.Reader to use in a lisp.Runtime.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.
func (*reader) Read(name string, src string) ([]*lisp.LVal, error) {
	tokens, err := lexer.TokenizeFile(name, src, false)
	if err != nil {
		return nil, lexError(err)
	}
	return Parse(tokens)
}

// ParseString tokenizes and parses src.
func ParseString(src string) ([]*lisp.LVal, error) {
	return NewReader().Read("", src)
}

// frame is an incomplete datum on the parser stack.  A sigil frame waits for
// the single datum it wraps; a list frame collects items until ')'.
type frame struct {
	tok   *token.Token
	sigil string

	items   *lisp.ListBuilder
	n       int
	dotted  bool
	tail    *lisp.LVal
	tailSet bool
}

func (f *frame) isSigil() bool {
	return f.sigil != ""
}

// Parser builds values from a token sequence.
type Parser struct {
	stack   []*frame
	results []*lisp.LVal
}

// Parse returns the top-level values formed by tokens.  COMMENT tokens are
// ignored.
func Parse(tokens []*token.Token) ([]*lisp.LVal, error) {
	p := &Parser{}
	for _, tok := range tokens {
		err := p.next(tok)
		if err != nil {
			return nil, err
		}
	}
	return p.finish()
}

func (p *Parser) top() *frame {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *Parser) push(f *frame) {
	p.stack = append(p.stack, f)
}

func (p *Parser) pop() *frame {
	f := p.top()
	p.stack[len(p.stack)-1] = nil
	p.stack = p.stack[:len(p.stack)-1]
	return f
}

func (p *Parser) next(tok *token.Token) error {
	switch tok.Type {
	case token.COMMENT:
		return nil
	case token.PAREN_L:
		p.push(&frame{tok: tok, items: lisp.NewListBuilder()})
		return nil
	case token.PAREN_R:
		return p.closeList(tok)
	case token.QUOTE, token.QUASIQUOTE, token.UNQUOTE, token.UNQUOTE_SPLICING:
		p.push(&frame{tok: tok, sigil: sigilNames[tok.Type]})
		return nil
	case token.DOT:
		f := p.top()
		if f == nil || f.isSigil() || f.n == 0 {
			sym := lisp.Symbol(".")
			sym.Source = tok.Source
			return p.emit(sym, tok)
		}
		if f.dotted {
			return tokenError(tok, lisp.Errorf(lisp.ErrSyntaxError, "unexpected dot in dotted list"))
		}
		f.dotted = true
		return nil
	case token.ATOM, token.STRING, token.REGEXP:
		v, err := literal(tok)
		if err != nil {
			return err
		}
		return p.emit(v, tok)
	case token.EOF:
		return nil
	case token.INVALID, token.ERROR:
		return tokenError(tok, lisp.Errorf(lisp.ErrSyntaxError, "%s", tok.Text))
	default:
		panic("unknown token type")
	}
}

func (p *Parser) closeList(tok *token.Token) error {
	f := p.top()
	switch {
	case f == nil:
		return tokenError(tok, lisp.Errorf(lisp.ErrUnbalancedParenthesis, "unexpected closing parenthesis"))
	case f.isSigil():
		return tokenError(tok, lisp.Errorf(lisp.ErrSyntaxError, "missing datum after sigil %s", f.tok.Text))
	case f.dotted && !f.tailSet:
		return tokenError(tok, lisp.Errorf(lisp.ErrSyntaxError, "missing datum after dot"))
	}
	p.pop()
	var v *lisp.LVal
	switch {
	case f.n == 0:
		v = lisp.EmptyList()
	case f.tailSet:
		f.items.SetTail(f.tail)
		v = f.items.List()
	default:
		v = f.items.List()
	}
	if v != lisp.EmptyList() {
		v.Source = f.tok.Source
	}
	return p.emit(v, tok)
}

// emit adds a completed datum to the enclosing frame.  Pending sigil frames
// are folded into the datum first.
func (p *Parser) emit(v *lisp.LVal, tok *token.Token) error {
	for f := p.top(); f != nil && f.isSigil(); f = p.top() {
		p.pop()
		wrapped := lisp.List(lisp.Symbol(f.sigil), v)
		wrapped.Source = f.tok.Source
		v = wrapped
	}
	f := p.top()
	switch {
	case f == nil:
		p.results = append(p.results, v)
	case f.tailSet:
		return tokenError(tok, lisp.Errorf(lisp.ErrSyntaxError, "more than one datum after dot"))
	case f.dotted:
		f.tail = v
		f.tailSet = true
	default:
		f.items.Append(v)
		f.n++
	}
	return nil
}

func (p *Parser) finish() ([]*lisp.LVal, error) {
	if f := p.top(); f != nil {
		if f.isSigil() {
			return nil, tokenError(f.tok, lisp.Errorf(lisp.ErrSyntaxError, "missing datum after sigil %s", f.tok.Text))
		}
		return nil, tokenError(f.tok, lisp.Errorf(lisp.ErrUnbalancedParenthesis, "unclosed parenthesis"))
	}
	return p.results, nil
}

// tokenError attaches the location of tok to err.
func tokenError(tok *token.Token, err error) error {
	var lerr *lisp.Error
	if !errors.As(err, &lerr) {
		lerr = &lisp.Error{Kind: lisp.ErrSyntaxError, Msg: err.Error(), Err: err}
	}
	if lerr.Source == nil {
		lerr.Source = tok.Source
	}
	return lerr
}

func lexError(err error) error {
	var terr *token.Error
	if errors.As(err, &terr) {
		return &lisp.Error{Kind: lisp.ErrSyntaxError, Msg: terr.Msg, Source: terr.Source, Err: err}
	}
	return err
}

// Balanced returns true if src contains as many closing parentheses as
// opening ones.  Parentheses inside strings, regexps and comments are not
// counted.
func Balanced(src string) bool {
	return Depth(src) == 0
}

// Depth returns the number of parentheses in src that are still open.  It is
// negative when src closes more lists than it opens.  Source ending inside a
// string literal needs more input and counts as one open level.
func Depth(src string) int {
	tokens, err := lexer.Tokenize(src, true)
	depth := 0
	for _, tok := range tokens {
		switch tok.Type {
		case token.PAREN_L:
			depth++
		case token.PAREN_R:
			depth--
		}
	}
	if err != nil && depth >= 0 {
		depth++
	}
	return depth
}

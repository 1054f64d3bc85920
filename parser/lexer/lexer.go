// Package lexer splits source text into tokens.
package lexer

import (
	"fmt"
	"io"
	"unicode"

	"github.com/WarpedWartWars/lips/parser/token"
)

const regexpFlags = "gimy"

type Lexer struct {
	scanner *token.Scanner
	ch      rune // current unicode rune

	readErr error
}

func New(s *token.Scanner) *Lexer {
	lex := &Lexer{
		scanner: s,
	}
	return lex
}

// Tokenize returns the tokens in src.  Comment tokens are only retained when
// extended is true.  Tokenize stops at the first lexical error.
func Tokenize(src string, extended bool) ([]*token.Token, error) {
	return TokenizeFile("", src, extended)
}

// TokenizeFile is like Tokenize but records file in token locations.
func TokenizeFile(file string, src string, extended bool) ([]*token.Token, error) {
	lex := New(token.NewScanner(file, src))
	var tokens []*token.Token
	for {
		tok := lex.NextToken()
		switch tok.Type {
		case token.EOF:
			return tokens, nil
		case token.ERROR, token.INVALID:
			return tokens, &token.Error{Source: tok.Source, Msg: tok.Text}
		case token.COMMENT:
			if !extended {
				continue
			}
		}
		tokens = append(tokens, tok)
	}
}

func (lex *Lexer) NextToken() *token.Token {
	if lex.readErr != nil {
		return lex.emitError(lex.readErr, true)
	}
	lex.readErr = lex.skipWhitespace()
	if lex.readErr != nil {
		return lex.emitError(lex.readErr, true)
	}
	lex.readChar()
	if lex.readErr != nil {
		return lex.emitError(lex.readErr, true)
	}
	switch lex.ch {
	case '(':
		return lex.charToken(token.PAREN_L)
	case ')':
		return lex.charToken(token.PAREN_R)
	case '\'':
		return lex.charToken(token.QUOTE)
	case '`':
		return lex.charToken(token.QUASIQUOTE)
	case ',':
		if lex.peekRune() == '@' {
			if lex.readChar() != nil {
				return lex.emitError(lex.readErr, false)
			}
			return lex.charToken(token.UNQUOTE_SPLICING)
		}
		return lex.charToken(token.UNQUOTE)
	case ';':
		for c := lex.peekRune(); c != '\n' && c >= 0; c = lex.peekRune() {
			err := lex.readChar()
			if err != nil {
				return lex.emitError(err, false)
			}
		}
		return lex.scanner.EmitToken(token.COMMENT)
	case '"':
		return lex.readString()
	case '/':
		mark := lex.scanner.Mark()
		if lex.readRegexp() {
			return lex.scanner.EmitToken(token.REGEXP)
		}
		lex.readErr = nil
		lex.scanner.Reset(mark)
		lex.ch = '/'
		return lex.readAtom()
	case '.':
		if isDelimiter(lex.peekRune()) {
			return lex.charToken(token.DOT)
		}
		return lex.readAtom()
	default:
		return lex.readAtom()
	}
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitError(err error, expectEOF bool) *token.Token {
	if err == io.EOF {
		if expectEOF {
			return lex.emit(token.EOF, "")
		}
		return lex.emit(token.ERROR, "unexpected EOF")
	}
	return lex.emit(token.ERROR, err.Error())
}

func (lex *Lexer) errorf(format string, v ...interface{}) *token.Token {
	return lex.emitError(fmt.Errorf(format, v...), false)
}

func (lex *Lexer) charToken(typ token.Type) *token.Token {
	tok := lex.scanner.EmitToken(typ)
	return tok
}

// readAtom consumes a maximal run of runes that are neither whitespace nor
// parentheses.
func (lex *Lexer) readAtom() *token.Token {
	for !isDelimiter(lex.peekRune()) {
		err := lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
	}
	return lex.scanner.EmitToken(token.ATOM)
}

// readString consumes a double quoted string.  Escape sequences are left in
// the token text and decoded by the parser.
func (lex *Lexer) readString() *token.Token {
	for {
		err := lex.readChar()
		if err == io.EOF {
			lex.readErr = nil
			return lex.errorf("unterminated string literal")
		}
		if err != nil {
			return lex.emitError(err, false)
		}
		switch lex.ch {
		case '"':
			return lex.scanner.EmitToken(token.STRING)
		case '\\':
			err := lex.readChar()
			if err == io.EOF {
				lex.readErr = nil
				return lex.errorf("unterminated string literal")
			}
			if err != nil {
				return lex.emitError(err, false)
			}
		}
	}
}

// readRegexp attempts to consume a regexp literal /body/flags following the
// opening slash.  The body must be non-empty and may not contain unescaped
// whitespace.  The literal must be followed by a delimiter.  When readRegexp
// returns false the caller must rewind the scanner.
func (lex *Lexer) readRegexp() bool {
	var n int
	inClass := false
	for {
		c, ok := lex.scanner.Peek()
		if !ok || unicode.IsSpace(c) {
			return false
		}
		if lex.readChar() != nil {
			return false
		}
		switch {
		case c == '\\':
			next, ok := lex.scanner.Peek()
			if !ok || next == '\n' {
				return false
			}
			if lex.readChar() != nil {
				return false
			}
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			if n == 0 {
				return false
			}
			for isRegexpFlag(lex.peekRune()) {
				if lex.readChar() != nil {
					return false
				}
			}
			return isDelimiter(lex.peekRune())
		}
		n++
	}
}

func (lex *Lexer) skipWhitespace() error {
	for {
		c, ok := lex.scanner.Peek()
		if !ok || !unicode.IsSpace(c) {
			break
		}
		err := lex.readChar()
		if err != nil {
			return err
		}
	}
	lex.scanner.Ignore()
	return nil
}

// peekRune returns the next rune or -1 at the end of input.
func (lex *Lexer) peekRune() rune {
	r, ok := lex.scanner.Peek()
	if !ok {
		return -1
	}
	return r
}

func (lex *Lexer) readChar() error {
	lex.readErr = lex.scanner.ScanRune()
	if lex.readErr != nil {
		return lex.readErr
	}
	lex.ch = lex.scanner.Rune()
	return nil
}

func isRegexpFlag(c rune) bool {
	for _, f := range regexpFlags {
		if c == f {
			return true
		}
	}
	return false
}

// isDelimiter returns true for runes that terminate an atom.  A negative rune
// represents the end of input.
func isDelimiter(c rune) bool {
	return c < 0 || c == '(' || c == ')' || unicode.IsSpace(c)
}

package token

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from source text.  Unlike a
// stream scanner it can rewind to a Mark, which lets the lexer attempt a
// token type and fall back to another.
type Scanner struct {
	file string
	src  string

	start     int // byte offset of the current token
	startLine int
	startCol  int

	pos  int // byte offset of the next rune to scan
	line int // line number at pos
	col  int // column number at pos
	c    rune
}

// NewScanner initializes and returns a new Scanner.
func NewScanner(file string, src string) *Scanner {
	return &Scanner{
		file:      file,
		src:       src,
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
	}
}

// Mark is a saved Scanner position.
type Mark struct {
	pos  int
	line int
	col  int
	c    rune
}

// Mark returns the current position of s.
func (s *Scanner) Mark() Mark {
	return Mark{s.pos, s.line, s.col, s.c}
}

// Reset rewinds s to m.  The current token start is not changed.
func (s *Scanner) Reset(m Mark) {
	s.pos, s.line, s.col, s.c = m.pos, m.line, m.col, m.c
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.pos
	s.startLine = s.line
	s.startCol = s.col
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return s.src[s.start:s.pos]
}

// Rune returns the last rune scanned.
func (s *Scanner) Rune() rune {
	return s.c
}

// Peek returns the next rune to be scanned.  Peek returns a false second value
// at the end of input or when the input is not valid utf-8 at that point.
func (s *Scanner) Peek() (rune, bool) {
	return s.PeekAt(0)
}

// PeekAt returns the rune n runes beyond the next rune to be scanned.
func (s *Scanner) PeekAt(n int) (rune, bool) {
	pos := s.pos
	for {
		if pos >= len(s.src) {
			return 0, false
		}
		c, size := utf8.DecodeRuneInString(s.src[pos:])
		if c == utf8.RuneError && size == 1 {
			return utf8.RuneError, false
		}
		if n == 0 {
			return c, true
		}
		pos += size
		n--
	}
}

// ScanRune scans the next rune into the current token.  ScanRune returns
// io.EOF at the end of input.
func (s *Scanner) ScanRune() error {
	if s.pos >= len(s.src) {
		return io.EOF
	}
	c, size := utf8.DecodeRuneInString(s.src[s.pos:])
	if c == utf8.RuneError && size == 1 {
		return fmt.Errorf("invalid utf-8 sequence in source text starting with byte %q", s.src[s.pos])
	}
	s.c = c
	s.pos += size
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return nil
}

// LocStart returns a Location referencing the beginning of the current token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Pos:  s.start,
		Line: s.startLine,
		Col:  s.startCol,
	}
}

// Loc returns a Location referencing the current scanner position.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Pos:  s.pos,
		Line: s.line,
		Col:  s.col,
	}
}

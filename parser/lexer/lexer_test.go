package lexer

import (
	"testing"

	"github.com/WarpedWartWars/lips/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenSummary struct {
	typ  token.Type
	text string
}

func summarize(tokens []*token.Token) []tokenSummary {
	s := make([]tokenSummary, len(tokens))
	for i, tok := range tokens {
		s[i] = tokenSummary{tok.Type, tok.Text}
	}
	return s
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		extended bool
		want     []tokenSummary
	}{
		{"empty", "", false, []tokenSummary{}},
		{"atoms", "(+ 1 2.5 foo)", false, []tokenSummary{
			{token.PAREN_L, "("},
			{token.ATOM, "+"},
			{token.ATOM, "1"},
			{token.ATOM, "2.5"},
			{token.ATOM, "foo"},
			{token.PAREN_R, ")"},
		}},
		{"sigils", "'a `(b ,c ,@d)", false, []tokenSummary{
			{token.QUOTE, "'"},
			{token.ATOM, "a"},
			{token.QUASIQUOTE, "`"},
			{token.PAREN_L, "("},
			{token.ATOM, "b"},
			{token.UNQUOTE, ","},
			{token.ATOM, "c"},
			{token.UNQUOTE_SPLICING, ",@"},
			{token.ATOM, "d"},
			{token.PAREN_R, ")"},
		}},
		{"string", `(print "a (b) \"c\"")`, false, []tokenSummary{
			{token.PAREN_L, "("},
			{token.ATOM, "print"},
			{token.STRING, `"a (b) \"c\""`},
			{token.PAREN_R, ")"},
		}},
		{"comment plain", "; hello\n1", false, []tokenSummary{
			{token.ATOM, "1"},
		}},
		{"comment extended", "; hello\n1", true, []tokenSummary{
			{token.COMMENT, "; hello"},
			{token.ATOM, "1"},
		}},
		{"regexp", `(match /a+b/gi "aab")`, false, []tokenSummary{
			{token.PAREN_L, "("},
			{token.ATOM, "match"},
			{token.REGEXP, "/a+b/gi"},
			{token.STRING, `"aab"`},
			{token.PAREN_R, ")"},
		}},
		{"division is not a regexp", "(/ 4 2) (/ 6 3)", false, []tokenSummary{
			{token.PAREN_L, "("},
			{token.ATOM, "/"},
			{token.ATOM, "4"},
			{token.ATOM, "2"},
			{token.PAREN_R, ")"},
			{token.PAREN_L, "("},
			{token.ATOM, "/"},
			{token.ATOM, "6"},
			{token.ATOM, "3"},
			{token.PAREN_R, ")"},
		}},
		{"dot", "(a . b) .5 a.b", false, []tokenSummary{
			{token.PAREN_L, "("},
			{token.ATOM, "a"},
			{token.DOT, "."},
			{token.ATOM, "b"},
			{token.PAREN_R, ")"},
			{token.ATOM, ".5"},
			{token.ATOM, "a.b"},
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tokens, err := Tokenize(test.src, test.extended)
			require.NoError(t, err)
			assert.Equal(t, test.want, summarize(tokens))
		})
	}
}

func TestTokenize_location(t *testing.T) {
	tokens, err := TokenizeFile("test", "(a\n  bc)", false)
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, &token.Location{File: "test", Pos: 0, Line: 1, Col: 1}, tokens[0].Source)
	assert.Equal(t, &token.Location{File: "test", Pos: 5, Line: 2, Col: 3}, tokens[2].Source)
	assert.Equal(t, "test:2:3", tokens[2].Source.String())
}

func TestTokenize_errors(t *testing.T) {
	_, err := Tokenize(`(print "abc`, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated string literal")
	var terr *token.Error
	assert.ErrorAs(t, err, &terr)
}

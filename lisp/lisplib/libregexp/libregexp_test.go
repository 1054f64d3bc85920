package libregexp_test

import (
	"testing"

	"github.com/WarpedWartWars/lips/lipstest"
)

func TestPackage(t *testing.T) {
	tests := lipstest.TestSuite{
		{"compile", lipstest.TestSequence{
			{`(regexp "a+" "i")`, "/a+/i", ""},
			{`(regexp "a+")`, "/a+/", ""},
			{`(regexp? (regexp "x"))`, "true", ""},
			{`(regexp? "x")`, "false", ""},
			{`(regexp "(")`, "SyntaxError", ""},
			{`(regexp "a" "q")`, "SyntaxError", ""},
			{`(regexp 1)`, "TypeError", ""},
		}},
		{"match", lipstest.TestSequence{
			{`(match /a(b+)/ "xabbb")`, `("abbb" "bbb")`, ""},
			{`(match /b/g "abcb")`, `("b" "b")`, ""},
			{`(match /z/ "abc")`, "nil", ""},
			{`(match /A/i "a")`, `("a")`, ""},
			{`(match "a" "a")`, "TypeError", ""},
		}},
		{"search", lipstest.TestSequence{
			{`(search /c/ "abc")`, "2", ""},
			{`(search /z/ "abc")`, "-1", ""},
		}},
		{"replace", lipstest.TestSequence{
			{`(replace /a/ "x" "banana")`, `"bxnana"`, ""},
			{`(replace /a/g "x" "banana")`, `"bxnxnx"`, ""},
			{`(replace /(n)a/g "${1}o" "banana")`, `"banono"`, ""},
			{`(replace /z/g "x" "banana")`, `"banana"`, ""},
			{`(replace /a/g (lambda (m) (concat "<" m ">")) "aba")`, `"<a>b<a>"`, ""},
			{`(replace /a/g (lambda (m) (sleep 1 "o")) "aa")`, `"oo"`, ""},
			{`(replace /a/ 1 "a")`, "TypeError", ""},
		}},
	}
	lipstest.RunTestSuite(t, tests)
}

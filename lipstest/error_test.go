package lipstest

import "testing"

func TestErrors(t *testing.T) {
	tests := TestSuite{
		{"error kinds", TestSequence{
			{"(car)", "ArgumentError", ""},
			{"(undefined-fn 1)", "UnboundVariable", ""},
			{`("a" 1)`, "NotAFunction", ""},
			{"(define)", "ArgumentError", ""},
			{"(define 1 2)", "TypeError", ""},
			{"(lambda (1) 1)", "TypeError", ""},
			{"(++ undefined-symbol)", "UnboundVariable", ""},
			{`(define s "a")`, "<#undefined>", ""},
			{"(++ s)", "TypeError", ""},
		}},
		{"read errors", TestSequence{
			{"(+ 1", "UnbalancedParenthesis", ""},
			{"1)", "UnbalancedParenthesis", ""},
			{`"abc`, "SyntaxError", ""},
			{"(a . b . c)", "SyntaxError", ""},
		}},
		{"later forms do not run after an error", TestSequence{
			{"(define x 1) (car) (define x 2)", "ArgumentError", ""},
			{"x", "1", ""},
			{`(print "a") (car) (print "b")`, "ArgumentError", "a\n"},
		}},
		{"read errors prevent evaluation", TestSequence{
			{`(print "a") (`, "UnbalancedParenthesis", ""},
		}},
	}
	RunTestSuite(t, tests)
}

package lipstest

import "testing"

func TestMacros(t *testing.T) {
	tests := TestSuite{
		{"quasiquote", TestSequence{
			{"`(1 2 3)", "(1 2 3)", ""},
			{"`(1 ,(+ 1 1) 3)", "(1 2 3)", ""},
			{"`(1 ,@(list 2 3) 4)", "(1 2 3 4)", ""},
			{"`(1 ,@(list) 2)", "(1 2)", ""},
			{"`(1 . ,(+ 1 1))", "(1 . 2)", ""},
			{"(quasiquote (reverse (quote (1 2 3))))", "(reverse (quote (1 2 3)))", ""},
			{"(quasiquote (unquote (reverse (quote (1 2 3)))))", "(3 2 1)", ""},
			{"(let ((xs '(2 1))) `(concat '(1 2) ,xs))", "(concat (quote (1 2)) (2 1))", ""},
			{"`,test-symbol", "UnboundVariable", ""},
			{"`(list ,@test-symbol)", "UnboundVariable", ""},
			{"`(1 ,@2)", "TypeError", ""},
		}},
		{"nested quasiquote", TestSequence{
			{"``(a ,,(+ 1 2))", "(quasiquote (a (unquote 3)))", ""},
			{"``(a ,(b ,(+ 1 2)))", "(quasiquote (a (unquote (b 3))))", ""},
			{"``(a ,b)", "(quasiquote (a (unquote b)))", ""},
		}},
		{"unquote outside quasiquote", TestSequence{
			{",a", "SyntaxError", ""},
			{"(unquote-splicing a)", "SyntaxError", ""},
		}},
		{"defmacro", TestSequence{
			{"(defmacro (m0) `(+ 1 1))", "<#undefined>", ""},
			{"(defmacro (m1 x) `(+ ,x 1))", "<#undefined>", ""},
			{"(defmacro (m2 x y) `(+ ,x ,y))", "<#undefined>", ""},
			{"(m0)", "2", ""},
			{"(m1 1)", "2", ""},
			{"(m2 1 2)", "3", ""},
			{"(m2 (* 2 3) (m0))", "8", ""},
			{"(m2 1)", "TypeError", ""},
			{"(defmacro (my-if c a b) `(if ,c ,a ,b))", "<#undefined>", ""},
			{"(my-if true 1 undefined-symbol)", "1", ""},
			{"(defmacro (rest . args) args)", "SyntaxError", ""},
		}},
		{"macro arguments are not evaluated", TestSequence{
			{"(defmacro (quote-it x) `(quote ,x))", "<#undefined>", ""},
			{"(quote-it (undefined-fn 1 2))", "(undefined-fn 1 2)", ""},
		}},
	}
	RunTestSuite(t, tests)
}

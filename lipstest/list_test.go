package lipstest

import "testing"

func TestList(t *testing.T) {
	tests := TestSuite{
		{"cons car cdr", TestSequence{
			{"(cons 1 2)", "(1 . 2)", ""},
			{"(cons 1 nil)", "(1)", ""},
			{"(cons 1 '(2 3))", "(1 2 3)", ""},
			{"(car '(1 2))", "1", ""},
			{"(cdr '(1 2))", "(2)", ""},
			{"(car nil)", "nil", ""},
			{"(cdr '())", "nil", ""},
			{"(car 1)", "TypeError", ""},
			{"(cadr '(1 2 3))", "2", ""},
			{"(cddr '(1 2 3))", "(3)", ""},
			{"(caddr '(1 2 3))", "3", ""},
		}},
		{"mutation", TestSequence{
			{"(define xs (list 1 2 3))", "<#undefined>", ""},
			{"(set-car! xs 0)", "<#undefined>", ""},
			{"xs", "(0 2 3)", ""},
			{"(set-cdr! (cddr xs) 4)", "<#undefined>", ""},
			{"xs", "(0 2 3 . 4)", ""},
			{"(set-car! '() 1)", "TypeError", ""},
		}},
		{"list functions", TestSequence{
			{"(list)", "nil", ""},
			{"(list 1 (list 2) 3)", "(1 (2) 3)", ""},
			{"(length '(1 2 3))", "3", ""},
			{"(length nil)", "0", ""},
			{`(length "héllo")`, "5", ""},
			{"(append '(1 2) 3)", "(1 2 3)", ""},
			{"(append '(1 2) '(3 4))", "(1 2 3 4)", ""},
			{"(reverse (list 1 2 3))", "(3 2 1)", ""},
			{"(flatten '(1 (2 (3 4)) 5))", "(1 2 3 4 5)", ""},
			{"(range 3)", "(0 1 2)", ""},
			{"(range 0)", "nil", ""},
			{"(assoc '((a . 1) (b . 2)) 'b)", "(b . 2)", ""},
			{"(assoc '((a . 1)) 'c)", "nil", ""},
			{"(assoc 'b '((b . 2)))", "TypeError", ""},
		}},
		{"clone and append!", TestSequence{
			{"(define a (list 1 2))", "<#undefined>", ""},
			{"(define b (clone a))", "<#undefined>", ""},
			{"(append! a 3)", "(1 2 3)", ""},
			{"a", "(1 2 3)", ""},
			{"b", "(1 2)", ""},
			{"(eq? a b)", "false", ""},
		}},
		{"equality", TestSequence{
			{"(eq? 1 1)", "true", ""},
			{"(eq? 1 1.0)", "false", ""},
			{`(eq? "a" "a")`, "true", ""},
			{"(eq? 'a 'a)", "true", ""},
			{"(eq? '() '())", "true", ""},
			{"(eq? '(1) '(1))", "false", ""},
		}},
	}
	RunTestSuite(t, tests)
}

package lipstest

import "testing"

func TestAsync(t *testing.T) {
	tests := TestSuite{
		{"timer", TestSequence{
			{"(timer 10 1 2)", "2", ""},
			{"(+ 1 (timer 5 2))", "3", ""},
			{"(timer 'a 1)", "TypeError", ""},
		}},
		{"sleep", TestSequence{
			{"(sleep 5 'done)", "done", ""},
			{"(sleep 1)", "<#undefined>", ""},
			{"(sleep -1)", "ArgumentError", ""},
		}},
		{"forms run in order", TestSequence{
			{`(timer 20 (print "first")) (print "second")`, "<#undefined>", "first\nsecond\n"},
		}},
		{"deferred arguments keep their positions", TestSequence{
			{"(list (sleep 30 1) (sleep 1 2) 3)", "(1 2 3)", ""},
			{"(map (lambda (ms) (sleep ms ms)) '(20 1 10))", "(20 1 10)", ""},
		}},
		{"deferred values in special forms", TestSequence{
			{"(define x (sleep 1 5))", "<#undefined>", ""},
			{"x", "5", ""},
			{"(if (sleep 1 false) 'yes 'no)", "no", ""},
			{"(let ((a (sleep 1 1)) (b (sleep 1 2))) (+ a b))", "3", ""},
			{"(and (sleep 1 true) (sleep 1 7))", "7", ""},
			{"(or (sleep 1 false) (sleep 1 8))", "8", ""},
			{"(begin (sleep 1) 9)", "9", ""},
			{"`(a ,(sleep 1 'b))", "(a b)", ""},
			{"(define i 0)", "<#undefined>", ""},
			{"(while (< i 3) (sleep 1) (++ i))", "3", ""},
			{"(reduce (lambda (x acc) (sleep 1 (+ x acc))) '(1 2 3) 0)", "6", ""},
		}},
		{"deferred failures", TestSequence{
			{"(define x 1) (sleep 1) (car) (define x 2)", "ArgumentError", ""},
			{"x", "1", ""},
			{"(timer 1 (car))", "ArgumentError", ""},
		}},
	}
	RunTestSuite(t, tests)
}

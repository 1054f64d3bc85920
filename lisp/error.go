package lisp

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/WarpedWartWars/lips/parser/token"
)

// ErrorKind classifies runtime and read errors.
type ErrorKind uint

// Possible ErrorKind values
const (
	ErrUnknown ErrorKind = iota
	ErrUnbalancedParenthesis
	ErrUnboundVariable
	ErrNotAFunction
	ErrTypeError
	ErrPowerUnsupported
	ErrSyntaxError
	ErrDivisionByZero
	ErrStackOverflow
	ErrArgumentError
	ErrReadError
	numErrorKinds
)

var errorKindStrings = []string{
	ErrUnknown:               "Error",
	ErrUnbalancedParenthesis: "UnbalancedParenthesis",
	ErrUnboundVariable:       "UnboundVariable",
	ErrNotAFunction:          "NotAFunction",
	ErrTypeError:             "TypeError",
	ErrPowerUnsupported:      "PowerUnsupported",
	ErrSyntaxError:           "SyntaxError",
	ErrDivisionByZero:        "DivisionByZero",
	ErrStackOverflow:         "StackOverflow",
	ErrArgumentError:         "ArgumentError",
	ErrReadError:             "ReadError",
}

func (k ErrorKind) String() string {
	if k >= numErrorKinds {
		return errorKindStrings[ErrUnknown]
	}
	return errorKindStrings[k]
}

// Error implements the error interface so errors (technically ErrorKind
// values) can be matched with errors.Is.
func (k ErrorKind) Error() string {
	return k.String()
}

// Error is an error produced while reading or evaluating lisp code.
type Error struct {
	Kind   ErrorKind
	Msg    string
	Source *token.Location
	// Stack is a copy of the call stack at the time the error was created,
	// when one was available.
	Stack *CallStack
	// Err is an underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var buf bytes.Buffer
	if e.Source != nil {
		buf.WriteString(e.Source.String())
		buf.WriteString(": ")
	}
	buf.WriteString(e.Kind.String())
	buf.WriteString(": ")
	buf.WriteString(e.Msg)
	return buf.String()
}

// Is reports whether target is the ErrorKind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// WriteTrace writes a description of e followed by its stack trace to w.
func (e *Error) WriteTrace(w io.Writer) (int, error) {
	n, err := fmt.Fprintln(w, e.Error())
	if err != nil || e.Stack == nil {
		return n, err
	}
	_n, err := e.Stack.DebugPrint(w)
	return n + _n, err
}

// Errorf returns an Error of the given kind.
func Errorf(kind ErrorKind, format string, v ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, v...)}
}

// KindOf returns the ErrorKind of err, or ErrUnknown if err is not an Error.
func KindOf(err error) ErrorKind {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr.Kind
	}
	return ErrUnknown
}

// berrf returns a tagged error from the builtin named bname
func berrf(bname string, kind ErrorKind, format string, v ...interface{}) *Error {
	return Errorf(kind, "%s: %s", bname, fmt.Sprintf(format, v...))
}

func typeErrorf(bname string, format string, v ...interface{}) *Error {
	return berrf(bname, ErrTypeError, format, v...)
}

// withSource attaches loc to err when err is an Error without a location.
func withSource(err error, loc *token.Location) error {
	var lerr *Error
	if loc != nil && errors.As(err, &lerr) && lerr.Source == nil {
		lerr.Source = loc
	}
	return err
}

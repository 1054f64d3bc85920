package lisp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// String returns the printed representation of v.  Strings are quoted.
func (v *LVal) String() string {
	var buf bytes.Buffer
	v.Format(&buf)
	return buf.String()
}

// Display returns the representation of v used by print and string.  A
// string is returned without quotes; other values are formatted by String.
func (v *LVal) Display() string {
	if v.Type == LString {
		return v.Str
	}
	return v.String()
}

// Format writes the printed representation of v to w.
func (v *LVal) Format(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	v.format(cw)
	return cw.n, cw.err
}

func (v *LVal) format(w *countingWriter) {
	if v == nil {
		w.WriteString("<#undefined>")
		return
	}
	switch v.Type {
	case LUndefined:
		w.WriteString("<#undefined>")
	case LNil:
		w.WriteString("nil")
	case LBool:
		w.WriteString(strconv.FormatBool(v.Bool))
	case LNumber:
		w.WriteString(v.Num.String())
	case LString:
		w.WriteString(quoteString(v.Str))
	case LSymbol:
		w.WriteString(v.Str)
	case LRegexp:
		w.WriteString("/")
		w.WriteString(v.RegexpSource())
		w.WriteString("/")
		w.WriteString(v.Str)
	case LPair:
		formatPair(w, v)
	case LQuote:
		w.WriteString("'")
		v.Car.format(w)
	case LUnquote:
		fmt.Fprintf(w, "<#unquote[%d] ", v.Depth)
		v.Car.format(w)
		w.WriteString(">")
	case LMacro:
		fmt.Fprintf(w, "#<Macro %s>", v.Str)
	case LFun:
		fmt.Fprintf(w, "<#function %s>", v.Str)
	case LDeferred:
		formatDeferred(w, v.Deferred)
	case LNative:
		fmt.Fprintf(w, "<#native %v>", v.Native)
	case LInvalid:
		w.WriteString("<#invalid>")
	default:
		panic("unknown type")
	}
}

func formatPair(w *countingWriter, v *LVal) {
	if v == emptyList {
		w.WriteString("()")
		return
	}
	w.WriteString("(")
	p := v
	for {
		p.Car.format(w)
		switch {
		case p.Cdr.IsEmpty():
			w.WriteString(")")
			return
		case p.Cdr.Type == LPair:
			w.WriteString(" ")
			p = p.Cdr
		default:
			w.WriteString(" . ")
			p.Cdr.format(w)
			w.WriteString(")")
			return
		}
	}
}

func formatDeferred(w *countingWriter, d *Deferred) {
	v, err, ok := d.Result()
	switch {
	case !ok:
		w.WriteString("<#deferred pending>")
	case err != nil:
		fmt.Fprintf(w, "<#deferred rejected %v>", err)
	default:
		w.WriteString("<#deferred ")
		v.format(w)
		w.WriteString(">")
	}
}

// quoteString returns s as a JSON string literal.
func quoteString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// countingWriter tracks the number of bytes written and the first error.
type countingWriter struct {
	w   io.Writer
	n   int
	err error
}

func (w *countingWriter) Write(b []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(b)
	w.n += n
	w.err = err
	return n, err
}

func (w *countingWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

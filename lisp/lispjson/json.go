// Package lispjson encodes the structure of lisp values as JSON, for
// persisting and restoring programs and data.
//
// Pairs encode as {"car": ..., "cdr": ...}, Nil as null and symbols as
// {"name": ...}.  Strings, booleans and numbers use the corresponding JSON
// types.  The empty list encodes as [] and a regexp as {"regexp": ...,
// "flags": ...}.
package lispjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/WarpedWartWars/lips/lisp"
	"github.com/WarpedWartWars/lips/lisp/numeric"
)

// Marshal returns the JSON encoding of v.
func Marshal(v *lisp.LVal) ([]byte, error) {
	var buf bytes.Buffer
	err := Encode(&buf, v)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a value from its JSON encoding.
func Unmarshal(b []byte) (*lisp.LVal, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var x interface{}
	err := dec.Decode(&x)
	if err != nil {
		return nil, err
	}
	return Decode(x)
}

// Encode writes the JSON encoding of v to buf.  Values without a structural
// encoding, such as functions and deferred values, cause an error.
func Encode(buf *bytes.Buffer, v *lisp.LVal) error {
	// Long lists are encoded iteratively along their cdr chain.
	var closers int
	defer func() {
		buf.WriteString(strings.Repeat("}", closers))
	}()
	for {
		if v == lisp.EmptyList() {
			buf.WriteString("[]")
			return nil
		}
		switch v.Type {
		case lisp.LPair:
			buf.WriteString(`{"car":`)
			err := Encode(buf, v.Car)
			if err != nil {
				return err
			}
			buf.WriteString(`,"cdr":`)
			closers++
			v = v.Cdr
			continue
		case lisp.LNil:
			buf.WriteString("null")
		case lisp.LSymbol:
			buf.WriteString(`{"name":`)
			writeString(buf, v.Str)
			buf.WriteString("}")
		case lisp.LString:
			writeString(buf, v.Str)
		case lisp.LBool:
			if v.Bool {
				buf.WriteString("true")
			} else {
				buf.WriteString("false")
			}
		case lisp.LNumber:
			f := v.Num.Float64()
			if v.Num.IsFloat() && (math.IsInf(f, 0) || math.IsNaN(f)) {
				return fmt.Errorf("lispjson: cannot encode number: %v", v.Num)
			}
			buf.WriteString(v.Num.String())
		case lisp.LRegexp:
			buf.WriteString(`{"regexp":`)
			writeString(buf, v.RegexpSource())
			buf.WriteString(`,"flags":`)
			writeString(buf, v.Str)
			buf.WriteString("}")
		case lisp.LInvalid, lisp.LUndefined, lisp.LQuote, lisp.LUnquote, lisp.LMacro, lisp.LFun, lisp.LDeferred, lisp.LNative:
			return fmt.Errorf("lispjson: cannot encode %v value", v.Type)
		default:
			panic("unknown type")
		}
		return nil
	}
}

func writeString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

// Decode converts a value decoded by encoding/json into a lisp value.
// Numbers must be json.Number values, as produced by a json.Decoder with
// UseNumber, to preserve exactness.
func Decode(x interface{}) (*lisp.LVal, error) {
	switch x := x.(type) {
	case nil:
		return lisp.Nil(), nil
	case bool:
		return lisp.Bool(x), nil
	case string:
		return lisp.String(x), nil
	case json.Number:
		return decodeNumber(x)
	case float64:
		return lisp.Number(numeric.FloatOf(x)), nil
	case []interface{}:
		if len(x) != 0 {
			return nil, fmt.Errorf("lispjson: unexpected non-empty array")
		}
		return lisp.EmptyList(), nil
	case map[string]interface{}:
		return decodeObject(x)
	default:
		return nil, fmt.Errorf("lispjson: unexpected value of type %T", x)
	}
}

func decodeNumber(x json.Number) (*lisp.LVal, error) {
	var n *numeric.Number
	var err error
	if strings.ContainsAny(string(x), ".eE") {
		n, err = numeric.ParseFloat(string(x))
	} else {
		n, err = numeric.ParseInt(string(x))
	}
	if err != nil {
		return nil, fmt.Errorf("lispjson: %w", err)
	}
	return lisp.Number(n), nil
}

func decodeObject(m map[string]interface{}) (*lisp.LVal, error) {
	if name, ok := m["name"]; ok && len(m) == 1 {
		s, ok := name.(string)
		if !ok {
			return nil, fmt.Errorf("lispjson: symbol name is not a string")
		}
		return lisp.Symbol(s), nil
	}
	if src, ok := m["regexp"]; ok {
		s, _ := src.(string)
		flags, _ := m["flags"].(string)
		return lisp.NewRegexp(s, flags)
	}
	// Long lists nest deeply along their cdr so pairs are decoded
	// iteratively.
	b := lisp.NewListBuilder()
	for {
		car, hasCar := m["car"]
		cdr, hasCdr := m["cdr"]
		if !hasCar || !hasCdr || len(m) != 2 {
			return nil, fmt.Errorf("lispjson: unrecognized object")
		}
		v, err := Decode(car)
		if err != nil {
			return nil, err
		}
		b.Append(v)
		next, ok := cdr.(map[string]interface{})
		if ok && isPairObject(next) {
			m = next
			continue
		}
		tail, err := Decode(cdr)
		if err != nil {
			return nil, err
		}
		b.SetTail(tail)
		return b.List(), nil
	}
}

func isPairObject(m map[string]interface{}) bool {
	_, hasCar := m["car"]
	_, hasCdr := m["cdr"]
	return hasCar && hasCdr
}

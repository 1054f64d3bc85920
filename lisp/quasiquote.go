package lisp

// Quasiquote expansion happens in three passes.  The template is first
// copied with each unquote form replaced by a placeholder tagged with its
// nesting depth.  Placeholders at depth one are then evaluated, left to
// right, and their values waited for together.  Finally the template is
// rebuilt with the values substituted.  Placeholders nested inside an inner
// quasiquote are rebuilt as unquote forms.

const (
	symQuasiquote      = "quasiquote"
	symUnquote         = "unquote"
	symUnquoteSplicing = "unquote-splicing"
)

func macroQuasiquote(args *LVal, env *Env, dynamic *Env) (*LVal, error) {
	tmpl := argN(args, 0)
	if tmpl == nil {
		return nil, berrf(symQuasiquote, ErrArgumentError, "missing template")
	}
	marked := markUnquotes(tmpl, 1)
	var vals []*LVal
	err := walkPlaceholders(marked, func(u *LVal) error {
		v, err := Evaluate(u.Car, env, dynamic)
		if err != nil {
			return err
		}
		vals = append(vals, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return thenAll(env.Runtime, vals, func(vals []*LVal) (*LVal, error) {
		b := &qqBuilder{vals: vals}
		v, err := b.build(marked)
		if err != nil {
			return nil, err
		}
		return QuoteVal(v), nil
	})
}

// macroUnquote is bound to unquote and unquote-splicing, which are only
// meaningful inside a quasiquote template.
func macroUnquote(args *LVal, env *Env, dynamic *Env) (*LVal, error) {
	return nil, Errorf(ErrSyntaxError, "unquote outside of quasiquote")
}

// unquoteForm returns the argument of v when v is a form (name arg).
func unquoteForm(v *LVal, name string) (*LVal, bool) {
	if v.Type != LPair || v == emptyList || !v.Car.IsSymbol(name) {
		return nil, false
	}
	rest := v.Cdr
	if rest.Type != LPair || rest == emptyList || !rest.Cdr.IsEmpty() {
		return nil, false
	}
	return rest.Car, true
}

func markUnquotes(v *LVal, depth int) *LVal {
	if v.Type != LPair || v == emptyList {
		return v
	}
	if arg, ok := unquoteForm(v, symQuasiquote); ok {
		return List(v.Car, markUnquotes(arg, depth+1))
	}
	for _, name := range []string{symUnquote, symUnquoteSplicing} {
		arg, ok := unquoteForm(v, name)
		if !ok {
			continue
		}
		splice := name == symUnquoteSplicing
		if depth == 1 {
			u := Unquote(arg, 1, splice)
			u.Source = v.Source
			return u
		}
		return Unquote(markUnquotes(arg, depth-1), depth, splice)
	}
	return Cons(markUnquotes(v.Car, depth), markUnquotes(v.Cdr, depth))
}

// walkPlaceholders calls fn for each placeholder at depth one in the order
// the builder consumes their values.
func walkPlaceholders(v *LVal, fn func(*LVal) error) error {
	switch {
	case v.Type == LUnquote && v.Depth == 1:
		return fn(v)
	case v.Type == LUnquote:
		return walkPlaceholders(v.Car, fn)
	case v.Type == LPair && v != emptyList:
		if err := walkPlaceholders(v.Car, fn); err != nil {
			return err
		}
		return walkPlaceholders(v.Cdr, fn)
	}
	return nil
}

type qqBuilder struct {
	vals []*LVal
	next int
}

func (b *qqBuilder) take() *LVal {
	v := b.vals[b.next]
	b.next++
	return v
}

func (b *qqBuilder) build(v *LVal) (*LVal, error) {
	switch {
	case v.Type == LUnquote && v.Depth == 1:
		return b.take(), nil
	case v.Type == LUnquote:
		name := symUnquote
		if v.Splice {
			name = symUnquoteSplicing
		}
		inner, err := b.build(v.Car)
		if err != nil {
			return nil, err
		}
		return List(Symbol(name), inner), nil
	case v.Type != LPair || v == emptyList:
		return v, nil
	}
	if u := v.Car; u.Type == LUnquote && u.Depth == 1 && u.Splice {
		spliced := b.take()
		rest, err := b.build(v.Cdr)
		if err != nil {
			return nil, err
		}
		if spliced.IsEmpty() {
			return rest, nil
		}
		if spliced.Type != LPair || !spliced.IsProperList() {
			return nil, withSource(typeErrorf(symUnquoteSplicing, "value is not a list: %v", spliced), u.Source)
		}
		return spliced.Clone().AppendInPlace(rest), nil
	}
	car, err := b.build(v.Car)
	if err != nil {
		return nil, err
	}
	cdr, err := b.build(v.Cdr)
	if err != nil {
		return nil, err
	}
	return Cons(car, cdr), nil
}

package lisp

import "sort"

// List returns a proper list containing v.
func List(v ...*LVal) *LVal {
	return FromSlice(v)
}

// FromSlice returns a proper list containing the elements of v.  Elements
// that are native []*LVal values become nested lists.  An empty slice
// returns Nil.
func FromSlice(v []*LVal) *LVal {
	b := NewListBuilder()
	for _, x := range v {
		if x.Type == LNative {
			if inner, ok := x.Native.([]*LVal); ok {
				x = FromSlice(inner)
			}
		}
		b.Append(x)
	}
	return b.List()
}

// ToSlice returns the elements of list v.  Nested lists are not converted.
// The returned slice ends at the first non-pair cdr.
func ToSlice(v *LVal) []*LVal {
	var s []*LVal
	it := NewListIterator(v)
	for it.Next() {
		s = append(s, it.Value())
	}
	return s
}

// ToNested returns the elements of list v.  Nested proper lists are converted
// to native []*LVal values.
func ToNested(v *LVal) []*LVal {
	var s []*LVal
	it := NewListIterator(v)
	for it.Next() {
		x := it.Value()
		if x.Type == LPair && x != emptyList && x.IsProperList() {
			x = Native(ToNested(x))
		}
		s = append(s, x)
	}
	return s
}

// Len returns the number of pairs in the chain v.  Nil and the empty list
// have length zero.
func (v *LVal) Len() int {
	n := 0
	for p := v; p.Type == LPair && p != emptyList; p = p.Cdr {
		n++
	}
	return n
}

// IsProperList returns true if v is Nil, the empty list, or a chain of pairs
// ending in Nil.
func (v *LVal) IsProperList() bool {
	p := v
	for p.Type == LPair && p != emptyList {
		p = p.Cdr
	}
	return p.IsEmpty()
}

// Clone returns a deep copy of the pair structure of v.  Atoms are shared.
// The empty list is not copied.
func (v *LVal) Clone() *LVal {
	if v.Type != LPair || v == emptyList {
		return v
	}
	b := NewListBuilder()
	p := v
	for ; p.Type == LPair && p != emptyList; p = p.Cdr {
		b.Append(p.Car.Clone())
	}
	b.SetTail(p.Clone())
	return b.List()
}

// ToMap interprets v as a list of (key . value) pairs and returns a map keyed
// by the name of each symbol or string key.  Later keys replace earlier ones.
func (v *LVal) ToMap() (map[string]*LVal, error) {
	m := make(map[string]*LVal)
	it := NewListIterator(v)
	for it.Next() {
		kv := it.Value()
		if kv.Type != LPair || kv == emptyList {
			return nil, typeErrorf("to-map", "element is not a pair: %v", kv)
		}
		switch kv.Car.Type {
		case LSymbol, LString:
			m[kv.Car.Str] = kv.Cdr
		default:
			return nil, typeErrorf("to-map", "key is not a symbol: %v", kv.Car)
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// FromMap returns a list of (key . value) pairs sorted by key.
func FromMap(m map[string]*LVal) *LVal {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b := NewListBuilder()
	for _, k := range keys {
		b.Append(Cons(Symbol(k), m[k]))
	}
	return b.List()
}

// Append returns a copy of v with other spliced onto its final cdr.  Neither
// v nor other is modified.
func (v *LVal) Append(other *LVal) *LVal {
	if v.IsEmpty() {
		return other
	}
	return v.Clone().AppendInPlace(other)
}

// AppendInPlace splices other onto the final cdr of v and returns the
// combined list.  When v is Nil or the empty list, other is returned.
func (v *LVal) AppendInPlace(other *LVal) *LVal {
	if v.IsEmpty() {
		return other
	}
	if v.Type != LPair {
		return Cons(v, other)
	}
	p := v
	for p.Cdr.Type == LPair && p.Cdr != emptyList {
		p = p.Cdr
	}
	p.Cdr = other
	return v
}

// Reverse reverses the proper list v in place and returns its new head.
func (v *LVal) Reverse() *LVal {
	if v.IsEmpty() {
		return v
	}
	prev := Nil()
	p := v
	for p.Type == LPair && p != emptyList {
		next := p.Cdr
		p.Cdr = prev
		prev, p = p, next
	}
	return prev
}

// TransformFunc computes a replacement for a node.  A nil replacement keeps
// the node.  When skip is true the replacement is used as is, without
// transforming its children.
type TransformFunc func(v *LVal) (repl *LVal, skip bool)

// Transform returns a copy of the tree v where each node is replaced using
// fn.  Nodes are visited before their children.
func (v *LVal) Transform(fn TransformFunc) *LVal {
	repl, skip := fn(v)
	if repl == nil {
		repl = v
	}
	if skip || repl.Type != LPair || repl == emptyList {
		return repl
	}
	return Cons(repl.Car.Transform(fn), repl.Cdr.Transform(fn))
}

// Reduce folds the elements of list v from the left, starting with init.
func (v *LVal) Reduce(init *LVal, fn func(acc, x *LVal) (*LVal, error)) (*LVal, error) {
	acc := init
	it := NewListIterator(v)
	for it.Next() {
		var err error
		acc, err = fn(acc, it.Value())
		if err != nil {
			return nil, err
		}
	}
	return acc, it.Err()
}

// ListBuilder constructs lists by appending at the tail.
type ListBuilder struct {
	front *LVal
	back  *LVal
}

func NewListBuilder() *ListBuilder {
	return &ListBuilder{}
}

// List returns a cons list with the elements appended so far.  If Append is
// called after List the value returned by List will be modified.
func (b *ListBuilder) List() *LVal {
	if b.front == nil {
		return Nil()
	}
	return b.front
}

// Append adds elements to the end of the cons list.
func (b *ListBuilder) Append(v ...*LVal) {
	for i := range v {
		cell := Cons(v[i], Nil())
		if b.front == nil {
			b.front = cell
		} else {
			b.back.Cdr = cell
		}
		b.back = cell
	}
}

// SetTail sets the final cdr of the list, making it improper unless tail is
// Nil.  With no elements appended SetTail makes tail the list.
func (b *ListBuilder) SetTail(tail *LVal) {
	if b.front == nil {
		b.front = tail
		return
	}
	b.back.Cdr = tail
}

// ListIterator iterates through cons lists
type ListIterator struct {
	v    *LVal
	rest *LVal
	err  error
}

// NewListIterator returns a ListIterator that will iterate through list v.
func NewListIterator(v *LVal) *ListIterator {
	return &ListIterator{
		v:    Nil(),
		rest: v,
	}
}

// Value returns the iteration's current value.  Value will return Nil if Next
// has not been called.
func (it *ListIterator) Value() *LVal {
	return it.v
}

// Rest returns any items remaining to be iterated over
func (it *ListIterator) Rest() *LVal {
	return it.rest
}

// Next advances the iterator to the next list element.  Next returns false if
// iteration terminated, either because the list had no more elements or
// because an non-list value was encountered.
func (it *ListIterator) Next() bool {
	if it.rest.IsEmpty() || it.err != nil {
		return false
	}
	if it.rest.Type != LPair {
		it.err = typeErrorf("list", "not a proper list, tail: %v", it.rest)
		return false
	}
	it.v = it.rest.Car
	it.rest = it.rest.Cdr
	return true
}

// Err returns a non-nil error if the iteration encountered a non-list value
// terminating the cons chain.
func (it *ListIterator) Err() error {
	return it.err
}

// Assoc returns the first pair in the alist v whose car equals key, or Nil.
func (v *LVal) Assoc(key *LVal) *LVal {
	it := NewListIterator(v)
	for it.Next() {
		kv := it.Value()
		if kv.Type == LPair && kv != emptyList && kv.Car.Equal(key) {
			return kv
		}
	}
	return Nil()
}

// Flatten returns a list of the atoms in the tree v in order.
func (v *LVal) Flatten() *LVal {
	b := NewListBuilder()
	var walk func(v *LVal)
	walk = func(v *LVal) {
		for p := v; ; p = p.Cdr {
			if p.IsEmpty() {
				return
			}
			if p.Type != LPair {
				b.Append(p)
				return
			}
			if p.Car.Type == LPair {
				walk(p.Car)
			} else {
				b.Append(p.Car)
			}
		}
	}
	walk(v)
	return b.List()
}

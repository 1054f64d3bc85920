package lisp

// Reader abstracts a parser implementation so that it may be implemented in a
// separate package as an optional/swappable component.
type Reader interface {
	// Read the contents of src and return the sequence of LVals that it
	// contains.  The returned LVals are evaluated in order by Exec.
	Read(name string, src string) ([]*LVal, error)
}

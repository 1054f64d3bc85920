package lipstest

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "double.lisp")
	err := os.WriteFile(path, []byte("(define (double x) (* x 2))\n(double 21)\n"), 0644)
	require.NoError(t, err)
	quoted := strconv.Quote(path)

	tests := TestSuite{
		{"load file", TestSequence{
			{"(load " + quoted + ")", "42", ""},
			{"(double 3)", "6", ""},
			{"(let ((x 1)) (load " + quoted + "))", "42", ""},
			{`(load "does-not-exist.lisp")`, "ReadError", ""},
		}},
		{"read file", TestSequence{
			{"(length (read-file " + quoted + "))", "40", ""},
			{"(exists? " + quoted + ")", "true", ""},
			{"(dir? " + quoted + ")", "false", ""},
		}},
	}
	RunTestSuite(t, tests)
}

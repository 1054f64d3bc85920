// Package lisplib is used to conveniently load the standard library into a
// lisp environment
package lisplib

import (
	"github.com/WarpedWartWars/lips/lisp"
	"github.com/WarpedWartWars/lips/lisp/lisplib/libjson"
	"github.com/WarpedWartWars/lips/lisp/lisplib/libmath"
	"github.com/WarpedWartWars/lips/lisp/lisplib/libos"
	"github.com/WarpedWartWars/lips/lisp/lisplib/libregexp"
	"github.com/WarpedWartWars/lips/lisp/lisplib/libstring"
	"github.com/WarpedWartWars/lips/lisp/lisplib/libtime"
)

// LoadLibrary binds the functions of every standard library package in env.
func LoadLibrary(env *lisp.Env) error {
	loaders := []func(*lisp.Env) error{
		libtime.LoadPackage,
		libmath.LoadPackage,
		libstring.LoadPackage,
		libjson.LoadPackage,
		libregexp.LoadPackage,
		libos.LoadPackage,
	}
	for _, load := range loaders {
		err := load(env)
		if err != nil {
			return err
		}
	}
	return nil
}

// WithLibrary returns a lisp.Config that loads the standard library.
func WithLibrary() lisp.Config {
	return LoadLibrary
}

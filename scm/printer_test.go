/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package scm

import (
	"testing"
)

func TestSerializeRoundTrip(t *testing.T) {
	for _, code := range []string{
		"(a b c)",
		"(1 2.5 -3 \"x\\ny\" #t #f)",
		"(a . b)",
		"(a b . c)",
		"((nested (lists)) ())",
		"'quoted",
		"`(a ,b ,@c)",
		"(1.0 100.0 0.001)",
		`"tab\there \"q\" back\\slash"`,
	} {
		v := readOne(t, code)
		printed := SerializeToString(v)
		back := readOne(t, printed)
		if !Equal(v, back) {
			t.Errorf("round trip of %s changed value: printed %s", code, printed)
		}
		if SerializeToString(back) != printed {
			t.Errorf("printing %s is not stable", code)
		}
	}
}

func TestDisplayVsSerialize(t *testing.T) {
	if got := String("a\"b"); got != "a\"b" {
		t.Errorf("display should print raw strings, got %s", got)
	}
	if got := SerializeToString("a\"b"); got != `"a\"b"` {
		t.Errorf("serialize should escape strings, got %s", got)
	}
	if got := SerializeToString(3.0); got != "3.0" {
		t.Errorf("integral floats keep their point, got %s", got)
	}
	if got := SerializeToString(nil); got != "()" {
		t.Errorf("nil prints as (), got %s", got)
	}
}

func TestSerializeCycles(t *testing.T) {
	p := &Pair{Car: int64(1)}
	p.Cdr = &Pair{Car: int64(2), Cdr: p}
	if got := SerializeToString(p); got != "(1 2 . #<cycle>)" {
		t.Errorf("unexpected cyclic print %s", got)
	}
	q := &Pair{Car: nil}
	q.Car = q
	if got := SerializeToString(q); got != "(#<cycle>)" {
		t.Errorf("unexpected cyclic print %s", got)
	}
	// shared but acyclic structure prints in full
	shared := List(Symbol("x"))
	if got := SerializeToString(List(shared, shared)); got != "((x) (x))" {
		t.Errorf("shared structure printed as %s", got)
	}
}

func TestSerializeProceduresAndHandles(t *testing.T) {
	it := newTestInterp(t)
	expectSerialized(t, it, "(lambda (x) (+ x 1))", "(lambda (x) (+ x 1))")
	expectSerialized(t, it, "car", "#<primitive car>")
	expectSerialized(t, it, "when", "#<macro when>")
	expectSerialized(t, it, "(try (error \"e\") (catch s s))", "#<signal UserError: e>")
	expectSerialized(t, it, "(hash-map 'a 1 \"b\" 2)", "(hash-map a 1 \"b\" 2)")
	// code is data: a printed procedure reads back and runs
	expectSerialized(t, it, "((eval (read-string (serialize (lambda (x) (* x x))))) 7)", "49")
}

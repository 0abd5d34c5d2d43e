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

func TestArithmetic(t *testing.T) {
	it := newTestInterp(t)
	expectSerialized(t, it, "(+)", "0")
	expectSerialized(t, it, "(+ 1 2 3)", "6")
	expectSerialized(t, it, "(+ 1 2.5)", "3.5")
	expectSerialized(t, it, "(- 5)", "-5")
	expectSerialized(t, it, "(- 10 1 2)", "7")
	expectSerialized(t, it, "(* 2 3 4)", "24")
	expectSerialized(t, it, "(* 2 0.5)", "1.0")
	expectSerialized(t, it, "(/ 12 3)", "4")
	expectSerialized(t, it, "(/ 7 2)", "3.5")
	expectSerialized(t, it, "(/ 2)", "0.5")
	expectSerialized(t, it, "(% 7 3)", "1")
	expectSerialized(t, it, "(% -7 3)", "-1")
	mustFail(t, it, "(/ 1 0)", TypeError)
	mustFail(t, it, "(% 1 0)", TypeError)
	mustFail(t, it, `(+ 1 "2")`, TypeError)
}

func TestComparison(t *testing.T) {
	it := newTestInterp(t)
	expectSerialized(t, it, "(< 1 2 3)", "#t")
	expectSerialized(t, it, "(< 1 3 2)", "#f")
	expectSerialized(t, it, "(<= 1 1 2)", "#t")
	expectSerialized(t, it, "(> 3 2.5 1)", "#t")
	expectSerialized(t, it, "(>= 2 2 3)", "#f")
	expectSerialized(t, it, "(= 2 2.0)", "#t")
	expectSerialized(t, it, "(= 2 3)", "#f")
	expectSerialized(t, it, `(< "a" "b")`, "#t")
	mustFail(t, it, `(< 1 "b")`, TypeError)
	mustFail(t, it, `(= "a" "a")`, TypeError)
	expectSerialized(t, it, "(nil? '())", "#t")
	expectSerialized(t, it, "(nil? 0)", "#f")
}

func TestPredicatesAndEquality(t *testing.T) {
	it := newTestInterp(t)
	expectSerialized(t, it, "(equal? '(1 (2 \"x\")) (list 1 (list 2 \"x\")))", "#t")
	expectSerialized(t, it, "(eq? '(1) '(1))", "#f")
	expectSerialized(t, it, "(let ((l '(1))) (eq? l l))", "#t")
	expectSerialized(t, it, "(eq? 'a 'a)", "#t")
	expectSerialized(t, it, "(type-of 1.5)", "float")
	expectSerialized(t, it, "(type-of car)", "primitive")
	expectSerialized(t, it, "(procedure? car)", "#t")
	expectSerialized(t, it, "(procedure? (lambda () 1))", "#t")
	expectSerialized(t, it, "(procedure? 'car)", "#f")
	expectSerialized(t, it, "(macro? when)", "#t")
	expectSerialized(t, it, "(not '())", "#t")
	expectSerialized(t, it, "(not 0)", "#t")
	expectSerialized(t, it, "(not 'a)", "#f")
	expectSerialized(t, it, "(assert-equal '(1 2) (list 1 2))", "#t")
	sig := mustFail(t, it, "(assert-equal 1 2 \"numbers\")", AssertionError)
	if sig.Message != "numbers: Assertion Failed: Expected 1, but got 2" {
		t.Errorf("unexpected message: %s", sig.Message)
	}
}

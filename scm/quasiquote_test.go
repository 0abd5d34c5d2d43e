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

func TestQuasiquote(t *testing.T) {
	it := newTestInterp(t)
	mustEval(t, it, "(define x 5)")
	mustEval(t, it, "(define xs '(1 2 3))")
	expectSerialized(t, it, "`(a b)", "(a b)")
	expectSerialized(t, it, "`(a ,x)", "(a 5)")
	expectSerialized(t, it, "`(a ,@xs b)", "(a 1 2 3 b)")
	expectSerialized(t, it, "`(,@xs)", "(1 2 3)")
	expectSerialized(t, it, "`(a ,@'() b)", "(a b)")
	expectSerialized(t, it, "`(a . ,x)", "(a . 5)")
	expectSerialized(t, it, "`(1 (2 ,(+ 1 2)))", "(1 (2 3))")
	expectSerialized(t, it, "`,x", "5")
}

func TestQuasiquoteSplicingCopies(t *testing.T) {
	it := newTestInterp(t)
	mustEval(t, it, "(define xs '(1 2))")
	mustEval(t, it, "(define ys `(,@xs 3))")
	mustEval(t, it, "(set-car! ys 9)")
	expectSerialized(t, it, "xs", "(1 2)")
	expectSerialized(t, it, "ys", "(9 2 3)")
}

func TestNestedQuasiquote(t *testing.T) {
	it := newTestInterp(t)
	// only the innermost level of unquote is evaluated
	expectSerialized(t, it, "`(a `(b ,(c ,(+ 1 2))))", "(a `(b ,(c 3)))")
	expectSerialized(t, it, "`(a `(b ,(c d)))", "(a `(b ,(c d)))")
	mustEval(t, it, "(define ys '(p q))")
	expectSerialized(t, it, "`(1 `(2 ,@(3 ,@ys)))", "(1 `(2 ,@(3 p q)))")
}

func TestQuasiquoteErrors(t *testing.T) {
	it := newTestInterp(t)
	mustFail(t, it, "`,@'(1 2)", SyntaxError)
	mustFail(t, it, "`(a ,@5)", TypeError)
	mustFail(t, it, "`(a ,undefined-name)", UnboundVariableError)
}

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

func TestListPrimitives(t *testing.T) {
	it := newTestInterp(t)
	expectSerialized(t, it, "(cons 1 '(2))", "(1 2)")
	expectSerialized(t, it, "(cons 1 2)", "(1 . 2)")
	expectSerialized(t, it, "(car '(a b))", "a")
	expectSerialized(t, it, "(cdr '(a b))", "(b)")
	expectSerialized(t, it, "(list)", "()")
	expectSerialized(t, it, "(length '(1 2 3))", "3")
	expectSerialized(t, it, `(length "häh")`, "3")
	expectSerialized(t, it, "(nth '(a b c) 2)", "c")
	expectSerialized(t, it, "(append '(1) '(2 3) '(4))", "(1 2 3 4)")
	expectSerialized(t, it, "(append '(1) 2)", "(1 . 2)")
	expectSerialized(t, it, "(reverse '(1 2 3))", "(3 2 1)")
	expectSerialized(t, it, "(map + '(1 2 3) '(10 20))", "(11 22)")
	expectSerialized(t, it, "(filter integer? '(1 a 2.5 3))", "(1 3)")
	expectSerialized(t, it, "(member? '(1) '(a (1) b))", "#t")
	expectSerialized(t, it, "(list? '(1 . 2))", "#f")
	expectSerialized(t, it, "(pair? '(1 . 2))", "#t")
	expectSerialized(t, it, "(null? '())", "#t")
	mustFail(t, it, "(car '())", TypeError)
	mustFail(t, it, "(nth '(a) 1)", TypeError)
	mustFail(t, it, "(length '(1 . 2))", TypeError)
}

func TestListMutationIsShared(t *testing.T) {
	it := newTestInterp(t)
	mustEval(t, it, "(define a (list 1 2 3))")
	mustEval(t, it, "(define b a)")
	mustEval(t, it, "(set-car! (cdr b) 'x)")
	expectSerialized(t, it, "a", "(1 x 3)")
	mustEval(t, it, "(define tail '(9))")
	mustEval(t, it, "(define joined (append '(1) tail))")
	mustEval(t, it, "(set-car! tail 0)")
	expectSerialized(t, it, "joined", "(1 0)")
	mustEval(t, it, "(set-cdr! a '())")
	expectSerialized(t, it, "b", "(1)")
}

func TestToSliceRejectsCycles(t *testing.T) {
	self := &Pair{Car: int64(1)}
	self.Cdr = self
	if _, ok := ToSlice(self); ok {
		t.Errorf("self-referencing pair should not convert")
	}
	b := &Pair{Car: int64(2)}
	a := &Pair{Car: int64(1), Cdr: b}
	c := &Pair{Car: int64(3), Cdr: b}
	b.Cdr = c
	if _, ok := ToSlice(a); ok {
		t.Errorf("list looping after its head should not convert")
	}
	if got, ok := ToSlice(List(int64(1), int64(2), int64(3))); !ok || len(got) != 3 {
		t.Errorf("proper list: got %v %v", got, ok)
	}
}

func TestCyclicLists(t *testing.T) {
	it := newTestInterp(t)
	mustEval(t, it, "(define l (list 1 2))")
	mustEval(t, it, "(set-cdr! (cdr l) l)")
	mustFail(t, it, "(length l)", TypeError)
	mustFail(t, it, "(apply + l)", TypeError)
	mustFail(t, it, `(write-source "cycle.l0" l)`, TypeError)
	expectSerialized(t, it, `(file-exists? "cycle.l0")`, "#f")

	// equal? terminates on distinct cycles
	mustEval(t, it, "(define m (list 1 2))")
	mustEval(t, it, "(set-cdr! (cdr m) m)")
	mustEval(t, it, "(define n (list 1 3))")
	mustEval(t, it, "(set-cdr! (cdr n) n)")
	expectSerialized(t, it, "(equal? l l)", "#t")
	expectSerialized(t, it, "(equal? l m)", "#t")
	expectSerialized(t, it, "(equal? l n)", "#f")
	expectSerialized(t, it, "(equal? l '(1 2 1 2))", "#f")

	// cyclic code is rejected instead of evaluated forever
	mustEval(t, it, "(define code (list '+ 1))")
	mustEval(t, it, "(set-cdr! (cdr code) code)")
	mustFail(t, it, "(eval code)", SyntaxError)
	mustFail(t, it, "(eval (list 'quasiquote l))", SyntaxError)
	mustEval(t, it, "(define params (list 'a))")
	mustEval(t, it, "(set-cdr! params params)")
	mustFail(t, it, "(eval (list 'lambda params 1))", SyntaxError)
}

func TestForEachAndApply(t *testing.T) {
	it := newTestInterp(t)
	mustEval(t, it, "(define total 0)")
	expectSerialized(t, it, "(for-each (lambda (x) (set! total (+ total x))) '(1 2 3))", "()")
	expectSerialized(t, it, "total", "6")
	expectSerialized(t, it, "(apply + 1 2 '(3 4))", "10")
	expectSerialized(t, it, "(apply list '())", "()")
}

func TestHashMaps(t *testing.T) {
	it := newTestInterp(t)
	mustEval(t, it, `(define m (hash-map "a" 1 'b 2))`)
	expectSerialized(t, it, `(hash-get m "a")`, "1")
	expectSerialized(t, it, `(hash-get m 'b)`, "2")
	expectSerialized(t, it, `(hash-get m "b" 'none)`, "none")
	mustEval(t, it, "(hash-set! m 3 'three)")
	expectSerialized(t, it, "(hash-get m 3.0)", "three")
	expectSerialized(t, it, "(hash-keys m)", `("a" b 3)`)
	expectSerialized(t, it, "(hash-values m)", "(1 2 three)")
	expectSerialized(t, it, "(hash-count m)", "3")
	expectSerialized(t, it, "(hash-remove! m 'b)", "#t")
	expectSerialized(t, it, "(hash-has? m 'b)", "#f")
	expectSerialized(t, it, "(hash-keys m)", `("a" 3)`)
	expectSerialized(t, it, `(equal? (hash-map 1 2 3 4) (hash-map 3 4 1 2))`, "#t")
	mustFail(t, it, "(hash-map 1)", ArityError)
	mustFail(t, it, "(hash-get '(1) 1)", TypeError)
}

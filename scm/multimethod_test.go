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
	"strings"
	"testing"
)

func TestMultimethodDispatch(t *testing.T) {
	it := newTestInterp(t)
	mustEval(t, it, "(defmulti describe)")
	mustEval(t, it, "(defmethod describe integer? (lambda (x) 'int))")
	mustEval(t, it, "(defmethod describe string? (lambda (x) 'str))")
	mustEval(t, it, "(defmethod describe (lambda (x) (and (number? x) (> x 100))) (lambda (x) 'big))")
	expectSerialized(t, it, "(describe 5)", "int")
	expectSerialized(t, it, `(describe "x")`, "str")
	// registration order wins over specificity
	expectSerialized(t, it, "(describe 500)", "int")
	expectSerialized(t, it, "(describe 500.5)", "big")
	expectSerialized(t, it, "(method-count describe)", "3")
	expectSerialized(t, it, "(multimethod? describe)", "#t")

	sig := mustFail(t, it, "(describe 'sym)", NoMatchingMethod)
	if !strings.Contains(sig.Message, "describe") || !strings.Contains(sig.Message, "(sym)") {
		t.Errorf("unexpected message: %s", sig.Message)
	}
}

func TestMultimethodTailCalls(t *testing.T) {
	it := newTestInterp(t)
	mustEval(t, it, "(defmulti walk)")
	mustEval(t, it, "(defmethod walk (lambda (n) (= n 0)) (lambda (n) 'bottom))")
	mustEval(t, it, "(defmethod walk (lambda (n) #t) (lambda (n) (walk (- n 1))))")
	withSmallStack(t, func() {
		expectSerialized(t, it, "(walk 1000000)", "bottom")
	})
}

func TestDefmethodValidation(t *testing.T) {
	it := newTestInterp(t)
	mustFail(t, it, "(defmethod missing integer? (lambda (x) x))", UnboundVariableError)
	mustEval(t, it, "(define plain 1)")
	mustFail(t, it, "(defmethod plain integer? (lambda (x) x))", TypeError)
	mustEval(t, it, "(defmulti m)")
	mustFail(t, it, "(defmethod m 5 (lambda (x) x))", TypeError)
}

func TestDefcontract(t *testing.T) {
	it := newTestInterp(t)
	mustEval(t, it, `(defcontract safe-div (a b)
		(require (number? a) (not (= b 0)))
		(ensure (number? result))
		(/ a b))`)
	expectSerialized(t, it, "(safe-div 10 2)", "5")
	sig := mustFail(t, it, "(safe-div 1 0)", ContractViolation)
	if sig.Message != "precondition of safe-div failed: (not (= b 0))" {
		t.Errorf("unexpected message: %s", sig.Message)
	}
	mustEval(t, it, `(defcontract liar (x) (ensure (string? result)) x)`)
	sig = mustFail(t, it, "(liar 1)", ContractViolation)
	if !strings.HasPrefix(sig.Message, "postcondition of liar failed") {
		t.Errorf("unexpected message: %s", sig.Message)
	}
	mustFail(t, it, "(safe-div 1)", ArityError)
}

func TestDefcontractWithoutEnsureIsTailCall(t *testing.T) {
	it := newTestInterp(t)
	mustEval(t, it, `(defcontract down (n) (require (>= n 0)) (if (= n 0) 'done (down (- n 1))))`)
	withSmallStack(t, func() {
		expectSerialized(t, it, "(down 1000000)", "done")
	})
	mustFail(t, it, "(down -1)", ContractViolation)
}

func TestContractWrapper(t *testing.T) {
	it := newTestInterp(t)
	mustEval(t, it, "(define checked-sqrt (contract sqrt (list 'require number? (lambda (x) (>= x 0))) (list 'ensure number?)))")
	expectSerialized(t, it, "(checked-sqrt 16)", "4.0")
	mustFail(t, it, "(checked-sqrt -1)", ContractViolation)
	mustFail(t, it, `(checked-sqrt "x")`, ContractViolation)
	mustFail(t, it, "(contract 5)", TypeError)
	mustFail(t, it, "(contract car (list 'maybe number?))", TypeError)
}

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
	"bytes"
	"strings"
	"testing"
)

func TestEvalInputWaitsForCompleteForms(t *testing.T) {
	it := newTestInterp(t)
	var out bytes.Buffer
	if !it.EvalInput("(define (f x)", &out) {
		t.Fatalf("an open list needs more input")
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be printed for incomplete input: %q", out.String())
	}
	if it.EvalInput("(define (f x)\n  (* x 2))", &out) {
		t.Fatalf("input is complete")
	}
	out.Reset()
	it.EvalInput("(f 21) (f 1)", &out)
	if got := out.String(); got != resultprompt+"42\n"+resultprompt+"2\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestEvalInputReportsSignals(t *testing.T) {
	it := newTestInterp(t)
	var out bytes.Buffer
	if it.EvalInput(`(car 1)`, &out) {
		t.Fatalf("input is complete")
	}
	if !strings.HasPrefix(out.String(), "TypeError: car expects a pair") {
		t.Errorf("unexpected report %q", out.String())
	}
	out.Reset()
	if it.EvalInput(")", &out) {
		t.Fatalf("a stray ) is an error, not incomplete input")
	}
	if !strings.Contains(out.String(), "SyntaxError") {
		t.Errorf("unexpected report %q", out.String())
	}
	out.Reset()
	it.Settings.Backtrace = false
	it.EvalInput("(define (g) (car 1))\n(g)", &out)
	if strings.Contains(out.String(), "\n  in ") {
		t.Errorf("backtrace should be off: %q", out.String())
	}
}

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

func TestMathPrimitives(t *testing.T) {
	it := newTestInterp(t)
	expectSerialized(t, it, "(sqrt 9)", "3.0")
	expectSerialized(t, it, "(floor 2.7)", "2")
	expectSerialized(t, it, "(ceiling 2.1)", "3")
	expectSerialized(t, it, "(round 2.5)", "3")
	expectSerialized(t, it, "(floor 4)", "4")
	expectSerialized(t, it, "(min 3 1.5 2)", "1.5")
	expectSerialized(t, it, "(max 3 1.5 2)", "3")
	expectSerialized(t, it, "(abs -4)", "4")
	expectSerialized(t, it, "(expt 2 10)", "1024")
	expectSerialized(t, it, "(expt 4 0.5)", "2.0")
	expectSerialized(t, it, "(exp 0)", "1.0")
	mustFail(t, it, "(sqrt 'x)", TypeError)
	// NaN is not a positive number
	mustFail(t, it, "(random-gamma (sqrt -1))", TypeError)
	mustFail(t, it, "(random-beta 2 (sqrt -1))", TypeError)
	mustFail(t, it, "(random-gamma 0)", TypeError)
}

func TestRandomIsSeeded(t *testing.T) {
	a := newTestInterp(t)
	b := newTestInterp(t)
	code := "(list (random) (random 100) (random 5 6) (random-gamma 2) (random-beta 2 3))"
	va := SerializeToString(mustEval(t, a, code))
	vb := SerializeToString(mustEval(t, b, code))
	if va != vb {
		t.Errorf("equal seeds should give equal draws: %s vs %s", va, vb)
	}
}

func TestRandomRanges(t *testing.T) {
	it := newTestInterp(t)
	for i := 0; i < 200; i++ {
		n := mustEval(t, it, "(random 10)")
		if v, ok := n.(int64); !ok || v < 0 || v >= 10 {
			t.Fatalf("(random 10) out of range: %v", n)
		}
		f := ToFloat(mustEval(t, it, "(random 5 6)"))
		if f < 5 || f >= 6 {
			t.Fatalf("(random 5 6) out of range: %v", f)
		}
		b := ToFloat(mustEval(t, it, "(random-beta 0.5 0.5)"))
		if b < 0 || b > 1 {
			t.Fatalf("beta draw out of [0,1]: %v", b)
		}
		g := ToFloat(mustEval(t, it, "(random-gamma 0.3 2)"))
		if g < 0 {
			t.Fatalf("gamma draw negative: %v", g)
		}
	}
	mustFail(t, it, "(random 0)", TypeError)
	mustFail(t, it, "(random-beta 0 1)", TypeError)
}

func TestBetaMean(t *testing.T) {
	it := newTestInterp(t)
	sum := 0.0
	const n = 4000
	for i := 0; i < n; i++ {
		sum += it.betaVariate(2, 6)
	}
	// mean of Beta(2,6) is 0.25
	if mean := sum / n; mean < 0.22 || mean > 0.28 {
		t.Errorf("unexpected mean %v", mean)
	}
}

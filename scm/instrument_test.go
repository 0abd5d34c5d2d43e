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
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSimulateJitCompile(t *testing.T) {
	it := newTestInterp(t)
	cost := ToFloat(mustEval(t, it, "(simulate-jit-compile '(+ 1 2))"))
	// three pairs and three atoms
	if math.Abs(cost-0.06) > 1e-9 {
		t.Errorf("unexpected first cost %v", cost)
	}
	expectSerialized(t, it, "(simulate-jit-compile '(+ 1 2))", "0.0")
	expectSerialized(t, it, "(jit-seen? '(+ 1 2))", "#t")
	expectSerialized(t, it, "(jit-seen? '(+ 1 3))", "#f")
	mustEval(t, it, "(jit-mark-seen '(+ 1 3))")
	expectSerialized(t, it, "(simulate-jit-compile '(+ 1 3))", "0.0")
	expectSerialized(t, it, `(metric-values "jit.compiled")`, "(1)")
}

func TestMetrics(t *testing.T) {
	it := newTestInterp(t)
	mustEval(t, it, "(metric-record 'latency 1.5)")
	mustEval(t, it, "(metric-record \"latency\" 2)")
	expectSerialized(t, it, "(metric-values 'latency)", "(1.5 2)")
	expectSerialized(t, it, "(fold + 0 (metric-values 'latency))", "3.5")
	mustEval(t, it, "(metric-clear 'latency)")
	expectSerialized(t, it, "(metric-values 'latency)", "()")
}

func TestClockIsMonotonic(t *testing.T) {
	it := newTestInterp(t)
	expectSerialized(t, it, "(let ((a (clock-ms))) (<= a (clock-ms)))", "#t")
}

func TestGensymIsFresh(t *testing.T) {
	it := newTestInterp(t)
	a := mustEval(t, it, "(gensym 'tmp)")
	b := mustEval(t, it, "(gensym 'tmp)")
	if a == b {
		t.Errorf("gensym returned %v twice", a)
	}
	if !strings.HasPrefix(string(a.(Symbol)), "tmp__") {
		t.Errorf("gensym should keep the prefix: %v", a)
	}
	// hygienic swap macro built with gensym
	mustEval(t, it, "(defmacro swap! (a b) (let ((tmp (gensym))) `(let ((,tmp ,a)) (set! ,a ,b) (set! ,b ,tmp))))")
	mustEval(t, it, "(define tmp 1)")
	mustEval(t, it, "(define other 2)")
	mustEval(t, it, "(swap! tmp other)")
	expectSerialized(t, it, "(list tmp other)", "(2 1)")
}

func TestTraceFile(t *testing.T) {
	it := newTestInterp(t)
	mustEval(t, it, "(settings 'Trace #t)")
	mustEval(t, it, `(time (+ 1 2) "adding")`)
	mustEval(t, it, "(simulate-jit-compile '(f x))")
	mustEval(t, it, "(settings 'Trace #f)")

	files, err := filepath.Glob(filepath.Join(it.Settings.TraceDir, "trace_*.json"))
	if err != nil || len(files) != 1 {
		t.Fatalf("expected one trace file, got %v %v", files, err)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	var events []map[string]any
	if err := json.Unmarshal(data, &events); err != nil {
		t.Fatalf("trace is no valid json: %v\n%s", err, data)
	}
	if len(events) != 3 {
		t.Fatalf("expected begin, end and instant event, got %d", len(events))
	}
	if events[0]["name"] != "adding" || events[0]["ph"] != "B" || events[1]["ph"] != "E" {
		t.Errorf("unexpected duration events %v", events[:2])
	}
	if events[2]["ph"] != "i" {
		t.Errorf("unexpected instant event %v", events[2])
	}
}

func TestSettings(t *testing.T) {
	it := newTestInterp(t)
	expectSerialized(t, it, "(settings 'Seed)", "42")
	expectSerialized(t, it, "(settings \"CacheCapacity\" 1)", "#t")
	mustEval(t, it, "(cache-put 'a 1)")
	mustEval(t, it, "(cache-put 'b 2)")
	expectSerialized(t, it, "(cache-keys)", `("b")`)
	mustFail(t, it, "(settings 'NoSuchSetting)", UserError)

	// reseeding repeats the sequence
	mustEval(t, it, "(settings 'Seed 7)")
	first := SerializeToString(mustEval(t, it, "(random 1000000)"))
	mustEval(t, it, "(settings 'Seed 7)")
	if again := SerializeToString(mustEval(t, it, "(random 1000000)")); again != first {
		t.Errorf("reseeding should repeat draws: %s vs %s", first, again)
	}
}

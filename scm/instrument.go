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
	"github.com/google/uuid"
)

// countNodes counts atoms and pairs of a form; cycles count once
func countNodes(v Scmer, seen map[*Pair]bool) int {
	n := 0
	for {
		p, ok := v.(*Pair)
		if !ok {
			if v != nil {
				n++
			}
			return n
		}
		if seen[p] {
			return n
		}
		seen[p] = true
		n += 1 + countNodes(p.Car, seen)
		v = p.Cdr
	}
}

func (it *Interp) RecordMetric(name string, value Scmer) {
	it.metrics[name] = append(it.metrics[name], value)
}

func init_instrument() {
	DeclareTitle("Instrumentation")

	Declare(&Declaration{
		"clock-ms", "monotonic milliseconds since the interpreter was created",
		0, 0,
		[]DeclarationParameter{}, "number",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return en.Interp().ClockMillis(), nil
		},
	})
	Declare(&Declaration{
		"simulate-jit-compile", "pretends to compile a form: the first time it is seen it costs 0.01ms per node and records jit.compiled, later calls cost nothing",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"code", "any", "form to compile"},
		}, "number",
		func(en *Env, a ...Scmer) (Scmer, error) {
			it := en.Interp()
			key := SerializeToString(a[0])
			if it.jitSeen[key] {
				return 0.0, nil
			}
			it.jitSeen[key] = true
			it.RecordMetric("jit.compiled", int64(1))
			it.trace.Event("jit-compile "+key, "jit", "i")
			return 0.01 * float64(countNodes(a[0], make(map[*Pair]bool))), nil
		},
	})
	Declare(&Declaration{
		"jit-seen?", "tells whether a form was marked as compiled",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"code", "any", "form"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return en.Interp().jitSeen[SerializeToString(a[0])], nil
		},
	})
	Declare(&Declaration{
		"jit-mark-seen", "marks a form as compiled",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"code", "any", "form"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			en.Interp().jitSeen[SerializeToString(a[0])] = true
			return true, nil
		},
	})
	Declare(&Declaration{
		"metric-record", "appends a value to a named metric",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"name", "string|symbol", "metric name"},
			DeclarationParameter{"value", "any", "value to record"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			en.Interp().RecordMetric(String(a[0]), a[1])
			return a[1], nil
		},
	})
	Declare(&Declaration{
		"metric-values", "all values recorded for a metric, oldest first",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"name", "string|symbol", "metric name"},
		}, "list",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return List(en.Interp().metrics[String(a[0])]...), nil
		},
	})
	Declare(&Declaration{
		"metric-clear", "forgets one metric or all of them",
		0, 1,
		[]DeclarationParameter{
			DeclarationParameter{"name", "string|symbol", "metric name"},
		}, "nil",
		func(en *Env, a ...Scmer) (Scmer, error) {
			it := en.Interp()
			if len(a) == 0 {
				it.metrics = make(map[string][]Scmer)
			} else {
				delete(it.metrics, String(a[0]))
			}
			return nil, nil
		},
	})
	Declare(&Declaration{
		"gensym", "returns a fresh symbol that cannot clash with any other",
		0, 1,
		[]DeclarationParameter{
			DeclarationParameter{"prefix", "string|symbol", "readable prefix, default g"},
		}, "symbol",
		func(en *Env, a ...Scmer) (Scmer, error) {
			prefix := "g"
			if len(a) > 0 {
				prefix = String(a[0])
			}
			return Symbol(prefix + "__" + uuid.NewString()), nil
		},
	})
}

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
	"fmt"
)

// Multimethod dispatches on arbitrary runtime predicates: guards are tried
// in registration order and the first accepting handler runs.
type Multimethod struct {
	Name    string
	Methods []Method
}

type Method struct {
	Guard   Scmer
	Handler Scmer
}

// Contract checks pre- and postconditions around a call. A contract built
// by defcontract owns its body (Proc) and its conditions are expressions
// over the parameters; one built by (contract f ...) wraps Target and its
// conditions are predicates.
type Contract struct {
	Name    string
	Proc    *Proc
	Target  Scmer
	Require []Scmer
	Ensure  []Scmer
}

func contractViolation(name, which string, cond Scmer) *Signal {
	return &Signal{Kind: ContractViolation, Message: fmt.Sprintf("%s of %s failed: %s", which, name, SerializeToString(cond)), Payload: cond}
}

// (defmethod name guard handler)
func defineMethod(list []Scmer, en *Env) (Scmer, error) {
	name, ok := list[0].(Symbol)
	if !ok {
		return nil, NewSignal(SyntaxError, "defmethod expects a symbol, got %s", SerializeToString(list[0]))
	}
	v, err := en.Lookup(name)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*Multimethod)
	if !ok {
		return nil, typeError("defmethod", "a multimethod", v)
	}
	guard, err := Eval(list[1], en)
	if err != nil {
		return nil, err
	}
	if !isProcedure(guard) {
		return nil, typeError("defmethod", "a procedure as guard", guard)
	}
	handler, err := Eval(list[2], en)
	if err != nil {
		return nil, err
	}
	if !isProcedure(handler) {
		return nil, typeError("defmethod", "a procedure as handler", handler)
	}
	m.Methods = append(m.Methods, Method{Guard: guard, Handler: handler})
	return m, nil
}

// splitClauses takes the leading (require ...) and (ensure ...) clauses
// off a list of forms.
func splitClauses(list []Scmer) (require, ensure, rest []Scmer, err error) {
	for len(list) > 0 {
		clause, ok := list[0].(*Pair)
		if !ok || (clause.Car != Symbol("require") && clause.Car != Symbol("ensure")) {
			break
		}
		conds, ok := ToSlice(clause.Cdr)
		if !ok {
			return nil, nil, nil, NewSignal(SyntaxError, "malformed %s clause", SerializeToString(clause.Car))
		}
		if clause.Car == Symbol("require") {
			require = append(require, conds...)
		} else {
			ensure = append(ensure, conds...)
		}
		list = list[1:]
	}
	return require, ensure, list, nil
}

// (defcontract name (params) (require cond...) (ensure cond...) body...)
func defineContract(list []Scmer, en *Env) (Scmer, error) {
	name, ok := list[0].(Symbol)
	if !ok {
		return nil, NewSignal(SyntaxError, "defcontract expects a symbol, got %s", SerializeToString(list[0]))
	}
	require, ensure, body, err := splitClauses(list[2:])
	if err != nil {
		return nil, err
	}
	proc, err := makeProc(string(name), list[1], ListWithTail(body, nil), en)
	if err != nil {
		return nil, err
	}
	c := &Contract{Name: string(name), Proc: proc, Require: require, Ensure: ensure}
	en.Root().Define(name, c)
	return c, nil
}

func init_multimethod() {
	DeclareTitle("Contracts and Multimethods")

	Declare(&Declaration{
		"contract", "wraps a procedure with predicates over its arguments (require) and its result (ensure)",
		1, -1,
		[]DeclarationParameter{
			DeclarationParameter{"fn", "func", "procedure to wrap"},
			DeclarationParameter{"clauses...", "list", "(require pred...) and (ensure pred...) given as lists of procedures"},
		}, "func",
		func(en *Env, a ...Scmer) (Scmer, error) {
			if !isProcedure(a[0]) {
				return nil, typeError("contract", "a procedure", a[0])
			}
			c := &Contract{Name: procName(a[0]), Target: a[0]}
			for _, clause := range a[1:] {
				l, ok := ToSlice(clause)
				if !ok || len(l) == 0 || (l[0] != Symbol("require") && l[0] != Symbol("ensure")) {
					return nil, typeError("contract", "(require ...) or (ensure ...)", clause)
				}
				for _, pred := range l[1:] {
					if !isProcedure(pred) {
						return nil, typeError("contract", "a procedure as predicate", pred)
					}
				}
				if l[0] == Symbol("require") {
					c.Require = append(c.Require, l[1:]...)
				} else {
					c.Ensure = append(c.Ensure, l[1:]...)
				}
			}
			return c, nil
		},
	})
	Declare(&Declaration{
		"multimethod?", "tells whether a value is a multimethod",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "any", "value to check"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			_, ok := a[0].(*Multimethod)
			return ok, nil
		},
	})
	Declare(&Declaration{
		"method-count", "number of methods registered on a multimethod",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"multimethod", "func", "multimethod"},
		}, "int",
		func(en *Env, a ...Scmer) (Scmer, error) {
			m, ok := a[0].(*Multimethod)
			if !ok {
				return nil, typeError("method-count", "a multimethod", a[0])
			}
			return int64(len(m.Methods)), nil
		},
	})
}

func procName(v Scmer) string {
	switch p := v.(type) {
	case *Proc:
		if p.Name != "" {
			return p.Name
		}
		return "lambda"
	case *Declaration:
		return p.Name
	case *Multimethod:
		return p.Name
	case *Contract:
		return p.Name
	}
	return TypeName(v)
}

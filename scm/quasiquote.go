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

// isUnaryForm tells whether p has the shape (head x)
func isUnaryForm(p *Pair) bool {
	rest, ok := p.Cdr.(*Pair)
	return ok && rest.Cdr == nil
}

// quasiquote instantiates the template x. depth counts the quasiquotes
// around x; unquotes are evaluated only at depth 1, deeper ones are rebuilt
// as data for a later expansion.
func quasiquote(x Scmer, depth int, en *Env) (Scmer, error) {
	p, ok := x.(*Pair)
	if !ok {
		return x, nil
	}
	if head, ok := p.Car.(Symbol); ok && isUnaryForm(p) {
		switch head {
		case "unquote":
			if depth == 1 {
				return Eval(nth(p, 1), en)
			}
			inner, err := quasiquote(nth(p, 1), depth-1, en)
			if err != nil {
				return nil, err
			}
			return List(head, inner), nil
		case "unquote-splicing":
			if depth == 1 {
				return nil, NewSignal(SyntaxError, "unquote-splicing is only allowed inside a list")
			}
			inner, err := quasiquote(nth(p, 1), depth-1, en)
			if err != nil {
				return nil, err
			}
			return List(head, inner), nil
		case "quasiquote":
			inner, err := quasiquote(nth(p, 1), depth+1, en)
			if err != nil {
				return nil, err
			}
			return List(head, inner), nil
		}
	}
	if isCyclic(p) {
		return nil, &Signal{Kind: SyntaxError, Message: "quasiquote template is a cyclic list", Payload: p}
	}
	var items []Scmer
	var tail Scmer
	var cur Scmer = p
	for {
		cp, ok := cur.(*Pair)
		if !ok {
			// dotted template (a . b)
			tail = cur
			break
		}
		if len(items) > 0 && isUnaryForm(cp) && (cp.Car == Symbol("unquote") || cp.Car == Symbol("quasiquote")) {
			// `(a . ,b) reads as (a unquote b)
			var err error
			if tail, err = quasiquote(cp, depth, en); err != nil {
				return nil, err
			}
			break
		}
		if ep, ok := cp.Car.(*Pair); ok && ep.Car == Symbol("unquote-splicing") && isUnaryForm(ep) {
			if depth == 1 {
				v, err := Eval(nth(ep, 1), en)
				if err != nil {
					return nil, err
				}
				spliced, ok := ToSlice(v)
				if !ok {
					return nil, typeError("unquote-splicing", "a proper list", v)
				}
				items = append(items, spliced...)
			} else {
				inner, err := quasiquote(nth(ep, 1), depth-1, en)
				if err != nil {
					return nil, err
				}
				items = append(items, List(Symbol("unquote-splicing"), inner))
			}
		} else {
			v, err := quasiquote(cp.Car, depth, en)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		cur = cp.Cdr
	}
	return ListWithTail(items, tail), nil
}

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
	"time"
)

// Eval evaluates one form. Tail positions (if branches, the last form of a
// body, macro expansions, eval, multimethod handlers) replace expression
// and en and jump back to restart instead of recursing, so the Go stack
// only grows with genuine non-tail nesting of the program.
func Eval(expression Scmer, en *Env) (Scmer, error) {
	return eval(expression, en, nil, nil, false)
}

// ApplyEx calls a procedure value with already evaluated arguments. en is
// the caller frame handed to primitives.
func ApplyEx(procedure Scmer, args []Scmer, en *Env) (Scmer, error) {
	return eval(nil, en, procedure, args, true)
}

func eval(expression Scmer, en *Env, procedure Scmer, args []Scmer, applying bool) (value Scmer, err error) {
	var form *Pair // innermost list form of this trampoline, for backtraces
	defer func() {
		if err != nil {
			err = withSource(err, form)
		}
	}()
	if applying {
		goto apply
	}
restart:
	switch e := expression.(type) {
	case Symbol:
		return en.Lookup(e)
	case *Pair:
		form = e
		if head, ok := e.Car.(Symbol); ok {
			switch head {
			case "quote":
				list, err := formArgs(e, 1, 1)
				if err != nil {
					return nil, err
				}
				return list[0], nil
			case "quasiquote":
				list, err := formArgs(e, 1, 1)
				if err != nil {
					return nil, err
				}
				return quasiquote(list[0], 1, en)
			case "unquote", "unquote-splicing":
				return nil, NewSignal(SyntaxError, "%s outside of quasiquote", head)
			case "if":
				list, err := formArgs(e, 2, 3)
				if err != nil {
					return nil, err
				}
				cond, err := Eval(list[0], en)
				if err != nil {
					return nil, err
				}
				if ToBool(cond) {
					expression = list[1]
					goto restart
				}
				if len(list) == 3 {
					expression = list[2]
					goto restart
				}
				return nil, nil
			case "and":
				list, err := formArgs(e, 0, -1)
				if err != nil {
					return nil, err
				}
				if len(list) == 0 {
					return true, nil
				}
				for _, x := range list[:len(list)-1] {
					v, err := Eval(x, en)
					if err != nil || !ToBool(v) {
						return v, err
					}
				}
				expression = list[len(list)-1]
				goto restart
			case "or":
				list, err := formArgs(e, 0, -1)
				if err != nil {
					return nil, err
				}
				if len(list) == 0 {
					return false, nil
				}
				for _, x := range list[:len(list)-1] {
					v, err := Eval(x, en)
					if err != nil || ToBool(v) {
						return v, err
					}
				}
				expression = list[len(list)-1]
				goto restart
			case "while":
				list, err := formArgs(e, 1, -1)
				if err != nil {
					return nil, err
				}
				for {
					cond, err := Eval(list[0], en)
					if err != nil {
						return nil, err
					}
					if !ToBool(cond) {
						return nil, nil
					}
					for _, x := range list[1:] {
						if _, err := Eval(x, en); err != nil {
							return nil, err
						}
					}
				}
			case "begin":
				list, err := formArgs(e, 0, -1)
				if err != nil {
					return nil, err
				}
				if len(list) == 0 {
					return nil, nil
				}
				for _, x := range list[:len(list)-1] {
					if _, err := Eval(x, en); err != nil {
						return nil, err
					}
				}
				expression = list[len(list)-1]
				goto restart
			case "let", "let*":
				list, err := formArgs(e, 1, -1)
				if err != nil {
					return nil, err
				}
				if name, ok := list[0].(Symbol); ok && head == "let" {
					// named let: (let loop ((i 0)) body...)
					if len(list) < 2 {
						return nil, NewSignal(SyntaxError, "named let needs bindings")
					}
					names, inits, err := letBindings(list[1])
					if err != nil {
						return nil, err
					}
					args = make([]Scmer, len(inits))
					for i, x := range inits {
						if args[i], err = Eval(x, en); err != nil {
							return nil, err
						}
					}
					loopEnv := en.Child()
					procedure = &Proc{Params: List(names...), Body: ListWithTail(list[2:], nil), En: loopEnv, Name: string(name)}
					loopEnv.Define(name, procedure)
					goto apply
				}
				names, inits, err := letBindings(list[0])
				if err != nil {
					return nil, err
				}
				child := en.Child()
				for i, x := range inits {
					scope := en
					if head == "let*" {
						scope = child
					}
					v, err := Eval(x, scope)
					if err != nil {
						return nil, err
					}
					child.Define(names[i].(Symbol), v)
				}
				if expression, err = evalBody(list[1:], child); err != nil {
					return nil, err
				}
				en = child
				goto restart
			case "defvar", "define":
				list, err := formArgs(e, 1, -1)
				if err != nil {
					return nil, err
				}
				target := en
				if head == "defvar" {
					target = en.Root()
				}
				if sig, ok := list[0].(*Pair); ok && head == "define" {
					// (define (name . params) body...)
					name, ok := sig.Car.(Symbol)
					if !ok {
						return nil, NewSignal(SyntaxError, "define expects a symbol, got %s", SerializeToString(sig.Car))
					}
					proc, err := makeProc(string(name), sig.Cdr, ListWithTail(list[1:], nil), en)
					if err != nil {
						return nil, err
					}
					target.Define(name, proc)
					return proc, nil
				}
				name, ok := list[0].(Symbol)
				if !ok || len(list) > 2 {
					return nil, NewSignal(SyntaxError, "usage: (%s name value)", head)
				}
				var v Scmer
				if len(list) == 2 {
					if v, err = Eval(list[1], en); err != nil {
						return nil, err
					}
				}
				nameProc(v, name)
				target.Define(name, v)
				return v, nil
			case "defun":
				list, err := formArgs(e, 2, -1)
				if err != nil {
					return nil, err
				}
				name, ok := list[0].(Symbol)
				if !ok {
					return nil, NewSignal(SyntaxError, "defun expects a symbol, got %s", SerializeToString(list[0]))
				}
				proc, err := makeProc(string(name), list[1], ListWithTail(list[2:], nil), en)
				if err != nil {
					return nil, err
				}
				en.Root().Define(name, proc)
				return proc, nil
			case "set!":
				list, err := formArgs(e, 2, 2)
				if err != nil {
					return nil, err
				}
				name, ok := list[0].(Symbol)
				if !ok {
					return nil, NewSignal(SyntaxError, "set! expects a symbol, got %s", SerializeToString(list[0]))
				}
				v, err := Eval(list[1], en)
				if err != nil {
					return nil, err
				}
				if err := en.Set(name, v); err != nil {
					return nil, err
				}
				return v, nil
			case "lambda":
				list, err := formArgs(e, 1, -1)
				if err != nil {
					return nil, err
				}
				return makeProc("", list[0], ListWithTail(list[1:], nil), en)
			case "defmacro":
				list, err := formArgs(e, 2, -1)
				if err != nil {
					return nil, err
				}
				name, ok := list[0].(Symbol)
				if !ok {
					return nil, NewSignal(SyntaxError, "defmacro expects a symbol, got %s", SerializeToString(list[0]))
				}
				if err := checkParams(list[1]); err != nil {
					return nil, err
				}
				m := &Macro{Params: list[1], Body: ListWithTail(list[2:], nil), En: en, Name: string(name)}
				en.Define(name, m)
				return m, nil
			case "eval":
				list, err := formArgs(e, 1, 2)
				if err != nil {
					return nil, err
				}
				code, err := Eval(list[0], en)
				if err != nil {
					return nil, err
				}
				if len(list) == 2 {
					target, err := Eval(list[1], en)
					if err != nil {
						return nil, err
					}
					en2, ok := target.(*Env)
					if !ok {
						return nil, typeError("eval", "an environment", target)
					}
					en = en2
				}
				expression = code
				goto restart
			case "try":
				list, err := formArgs(e, 1, -1)
				if err != nil {
					return nil, err
				}
				clause, ok := list[len(list)-1].(*Pair)
				if !ok || clause.Car != Symbol("catch") {
					return nil, NewSignal(SyntaxError, "usage: (try expr... (catch var body...))")
				}
				handler, err := formArgs(clause, 1, -1)
				if err != nil {
					return nil, err
				}
				name, ok := handler[0].(Symbol)
				if !ok {
					return nil, NewSignal(SyntaxError, "catch expects a symbol, got %s", SerializeToString(handler[0]))
				}
				var result Scmer
				var failure error
				for _, x := range list[:len(list)-1] {
					if result, failure = Eval(x, en); failure != nil {
						break
					}
				}
				if failure == nil {
					return result, nil
				}
				child := en.Child()
				child.Define(name, asSignal(failure))
				if expression, err = evalBody(handler[1:], child); err != nil {
					return nil, err
				}
				en = child
				goto restart
			case "defmulti":
				list, err := formArgs(e, 1, 1)
				if err != nil {
					return nil, err
				}
				name, ok := list[0].(Symbol)
				if !ok {
					return nil, NewSignal(SyntaxError, "defmulti expects a symbol, got %s", SerializeToString(list[0]))
				}
				m := &Multimethod{Name: string(name)}
				en.Root().Define(name, m)
				return m, nil
			case "defmethod":
				list, err := formArgs(e, 3, 3)
				if err != nil {
					return nil, err
				}
				return defineMethod(list, en)
			case "defcontract":
				list, err := formArgs(e, 2, -1)
				if err != nil {
					return nil, err
				}
				return defineContract(list, en)
			case "time":
				list, err := formArgs(e, 1, 2)
				if err != nil {
					return nil, err
				}
				return evalTimed(list, en)
			case "the-environment":
				if _, err := formArgs(e, 0, 0); err != nil {
					return nil, err
				}
				return en, nil
			}
		}
		// application: the head is evaluated exactly once
		if procedure, err = Eval(e.Car, en); err != nil {
			return nil, err
		}
		if m, ok := procedure.(*Macro); ok {
			if expression, err = expandMacro(m, e.Cdr); err != nil {
				return nil, err
			}
			goto restart
		}
		operands, ok := ToSlice(e.Cdr)
		if !ok {
			return nil, NewSignal(SyntaxError, "cannot apply improper list %s", SerializeToString(e))
		}
		args = make([]Scmer, len(operands))
		for i, x := range operands {
			if args[i], err = Eval(x, en); err != nil {
				return nil, err
			}
		}
		goto apply
	default:
		return expression, nil
	}
apply:
	switch p := procedure.(type) {
	case *Proc:
		if en, err = bindParams(p.Params, p.Name, p.En, args); err != nil {
			return nil, err
		}
		if expression, err = evalBody(p.Body, en); err != nil {
			return nil, err
		}
		goto restart
	case *Declaration:
		if len(args) < p.MinParameter || p.MaxParameter >= 0 && len(args) > p.MaxParameter {
			return nil, declarationArityError(p, len(args))
		}
		return p.Fn(en, args...)
	case *Multimethod:
		for _, m := range p.Methods {
			ok, err := ApplyEx(m.Guard, args, en)
			if err != nil {
				return nil, err
			}
			if ToBool(ok) {
				procedure = m.Handler
				goto apply
			}
		}
		return nil, &Signal{Kind: NoMatchingMethod, Message: fmt.Sprintf("no method of %s accepts %s", p.Name, SerializeToString(List(args...))), Payload: List(args...)}
	case *Contract:
		if p.Proc != nil {
			callEnv, err := bindParams(p.Proc.Params, p.Name, p.Proc.En, args)
			if err != nil {
				return nil, err
			}
			for _, cond := range p.Require {
				ok, err := Eval(cond, callEnv)
				if err != nil {
					return nil, err
				}
				if !ToBool(ok) {
					return nil, contractViolation(p.Name, "precondition", cond)
				}
			}
			if len(p.Ensure) == 0 {
				if expression, err = evalBody(p.Proc.Body, callEnv); err != nil {
					return nil, err
				}
				en = callEnv
				goto restart
			}
			result, err := evalSequence(p.Proc.Body, callEnv)
			if err != nil {
				return nil, err
			}
			post := callEnv.Child()
			post.Define(Symbol("result"), result)
			for _, cond := range p.Ensure {
				ok, err := Eval(cond, post)
				if err != nil {
					return nil, err
				}
				if !ToBool(ok) {
					return nil, contractViolation(p.Name, "postcondition", cond)
				}
			}
			return result, nil
		}
		for _, pred := range p.Require {
			ok, err := ApplyEx(pred, args, en)
			if err != nil {
				return nil, err
			}
			if !ToBool(ok) {
				return nil, contractViolation(p.Name, "precondition", pred)
			}
		}
		if len(p.Ensure) == 0 {
			procedure = p.Target
			goto apply
		}
		result, err := ApplyEx(p.Target, args, en)
		if err != nil {
			return nil, err
		}
		for _, pred := range p.Ensure {
			ok, err := ApplyEx(pred, []Scmer{result}, en)
			if err != nil {
				return nil, err
			}
			if !ToBool(ok) {
				return nil, contractViolation(p.Name, "postcondition", pred)
			}
		}
		return result, nil
	default:
		return nil, &Signal{Kind: NotApplicableError, Message: SerializeToString(procedure) + " is not a procedure", Payload: procedure}
	}
}

// formArgs returns the operands of a special form and checks their count;
// max < 0 means unbounded
func formArgs(e *Pair, min, max int) ([]Scmer, error) {
	list, ok := ToSlice(e.Cdr)
	if !ok {
		return nil, NewSignal(SyntaxError, "malformed %s form", SerializeToString(e.Car))
	}
	if len(list) < min || max >= 0 && len(list) > max {
		return nil, &Signal{Kind: SyntaxError, Message: "malformed " + SerializeToString(e.Car) + " form: " + SerializeToString(e), Payload: e}
	}
	return list, nil
}

// evalBody evaluates all forms of a body but the last one and returns the
// last one unevaluated; the caller continues with it in tail position.
func evalBody(body Scmer, en *Env) (Scmer, error) {
	list, ok := ToSlice(body)
	if !ok {
		return nil, NewSignal(SyntaxError, "malformed body %s", SerializeToString(body))
	}
	if len(list) == 0 {
		return nil, nil
	}
	for _, x := range list[:len(list)-1] {
		if _, err := Eval(x, en); err != nil {
			return nil, err
		}
	}
	return list[len(list)-1], nil
}

// evalSequence evaluates a whole body in a nested trampoline.
func evalSequence(body Scmer, en *Env) (Scmer, error) {
	last, err := evalBody(body, en)
	if err != nil {
		return nil, err
	}
	return Eval(last, en)
}

func letBindings(bindings Scmer) (names []Scmer, inits []Scmer, err error) {
	list, ok := ToSlice(bindings)
	if !ok {
		return nil, nil, NewSignal(SyntaxError, "malformed let bindings %s", SerializeToString(bindings))
	}
	for _, b := range list {
		switch b_ := b.(type) {
		case Symbol:
			names = append(names, b_)
			inits = append(inits, nil)
		case *Pair:
			name, ok := b_.Car.(Symbol)
			parts, ok2 := ToSlice(b_.Cdr)
			if !ok || !ok2 || len(parts) > 1 {
				return nil, nil, NewSignal(SyntaxError, "malformed let binding %s", SerializeToString(b))
			}
			names = append(names, name)
			inits = append(inits, nth(b_.Cdr, 0))
		default:
			return nil, nil, NewSignal(SyntaxError, "malformed let binding %s", SerializeToString(b))
		}
	}
	return names, inits, nil
}

// checkParams accepts (a b), (a b . rest) and a single symbol collecting
// all arguments.
func checkParams(params Scmer) error {
	if isCyclic(params) {
		return &Signal{Kind: SyntaxError, Message: "parameter list is cyclic", Payload: params}
	}
	for {
		switch p := params.(type) {
		case nil, Symbol:
			return nil
		case *Pair:
			if _, ok := p.Car.(Symbol); !ok {
				return &Signal{Kind: SyntaxError, Message: "parameter must be a symbol: " + SerializeToString(p.Car), Payload: p.Car}
			}
			params = p.Cdr
		default:
			return &Signal{Kind: SyntaxError, Message: "malformed parameter list: " + SerializeToString(params), Payload: params}
		}
	}
}

func paramArity(params Scmer) (n int, variadic bool) {
	for {
		switch p := params.(type) {
		case *Pair:
			n++
			params = p.Cdr
		case Symbol:
			return n, true
		default:
			return n, false
		}
	}
}

func makeProc(name string, params Scmer, body Scmer, en *Env) (*Proc, error) {
	if err := checkParams(params); err != nil {
		return nil, err
	}
	return &Proc{Params: params, Body: body, En: en, Name: name}, nil
}

// nameProc gives anonymous lambdas the name they are first bound to
func nameProc(v Scmer, name Symbol) {
	if p, ok := v.(*Proc); ok && p.Name == "" {
		p.Name = string(name)
	}
}

func arityError(name string, n int, variadic bool, got int) *Signal {
	who := "Procedure"
	if name != "" {
		who = "Procedure " + name
	}
	if variadic {
		return NewSignal(ArityError, "%s expects at least %d arguments, got %d", who, n, got)
	}
	return NewSignal(ArityError, "%s expects %d arguments, got %d", who, n, got)
}

func declarationArityError(def *Declaration, got int) *Signal {
	if def.MaxParameter < 0 {
		return NewSignal(ArityError, "%s expects at least %d arguments, got %d", def.Name, def.MinParameter, got)
	}
	if def.MinParameter == def.MaxParameter {
		return NewSignal(ArityError, "%s expects %d arguments, got %d", def.Name, def.MinParameter, got)
	}
	return NewSignal(ArityError, "%s expects %d to %d arguments, got %d", def.Name, def.MinParameter, def.MaxParameter, got)
}

// bindParams creates the call frame of a closure or macro below outer.
func bindParams(params Scmer, name string, outer *Env, args []Scmer) (*Env, error) {
	n, variadic := paramArity(params)
	if len(args) < n || !variadic && len(args) != n {
		return nil, arityError(name, n, variadic, len(args))
	}
	en := outer.Child()
	i := 0
	for {
		switch p := params.(type) {
		case *Pair:
			en.Vars[p.Car.(Symbol)] = args[i]
			i++
			params = p.Cdr
		case Symbol:
			en.Vars[p] = List(args[i:]...)
			return en, nil
		default:
			return en, nil
		}
	}
}

// expandMacro runs a macro body on the unevaluated operand forms. The
// expansion is returned as data; the evaluator evaluates it afterwards.
func expandMacro(m *Macro, operands Scmer) (Scmer, error) {
	args, ok := ToSlice(operands)
	if !ok {
		return nil, NewSignal(SyntaxError, "cannot expand %s with improper operands", m.Name)
	}
	en, err := bindParams(m.Params, m.Name, m.En, args)
	if err != nil {
		return nil, err
	}
	return evalSequence(m.Body, en)
}

func evalTimed(list []Scmer, en *Env) (Scmer, error) {
	it := en.Interp()
	label := "(time)"
	if len(list) > 1 {
		l, err := Eval(list[1], en)
		if err != nil {
			return nil, err
		}
		label = String(l)
	}
	start := time.Now()
	var timedResult Scmer
	var timedErr error
	it.trace.Duration(label, "scm", func() {
		timedResult, timedErr = Eval(list[0], en)
	})
	if it.Settings.TracePrint {
		fmt.Fprintln(it.Out, "trace", time.Since(start).String(), label)
	}
	return timedResult, timedErr
}

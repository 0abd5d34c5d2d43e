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
	"strings"
)

func specialForm(name, desc string, min, max int, params ...DeclarationParameter) {
	Declare(&Declaration{name, desc, min, max, params, "any", nil})
}

func init_core() {
	DeclareTitle("Special Forms")
	specialForm("quote", "returns a symbol or list without evaluating it", 1, 1,
		DeclarationParameter{"code", "any", "code to return as data"})
	specialForm("quasiquote", "builds a template; (unquote x) is evaluated and inserted, (unquote-splicing x) spliced in", 1, 1,
		DeclarationParameter{"template", "any", "template"})
	specialForm("if", "evaluates the true-branch if condition is truthy, the false-branch otherwise", 2, 3,
		DeclarationParameter{"condition", "any", "condition to evaluate"},
		DeclarationParameter{"true-branch", "any", "code to evaluate if condition is true"},
		DeclarationParameter{"false-branch", "any", "code to evaluate if condition is false"})
	specialForm("and", "evaluates conditions from left to right until one is falsy, returns the last value", 0, -1,
		DeclarationParameter{"condition...", "any", "condition to evaluate"})
	specialForm("or", "evaluates conditions from left to right until one is truthy, returns the last value", 0, -1,
		DeclarationParameter{"condition...", "any", "condition to evaluate"})
	specialForm("while", "evaluates body as long as condition is truthy", 1, -1,
		DeclarationParameter{"condition", "any", "condition to evaluate"},
		DeclarationParameter{"body...", "any", "code to evaluate"})
	specialForm("begin", "evaluates forms in sequence and returns the last value", 0, -1,
		DeclarationParameter{"form...", "any", "code to evaluate"})
	specialForm("let", "binds names in a new frame; (let name ((var init)...) body...) is a named loop", 1, -1,
		DeclarationParameter{"bindings", "list", "((name init)...)"},
		DeclarationParameter{"body...", "any", "code to evaluate"})
	specialForm("let*", "like let but every init sees the previous bindings", 1, -1,
		DeclarationParameter{"bindings", "list", "((name init)...)"},
		DeclarationParameter{"body...", "any", "code to evaluate"})
	specialForm("defvar", "defines a variable in the global frame, regardless of where it is evaluated", 1, 2,
		DeclarationParameter{"name", "symbol", "variable name"},
		DeclarationParameter{"value", "any", "value"})
	specialForm("define", "defines a variable in the current frame; (define (name params...) body...) defines a procedure", 1, -1,
		DeclarationParameter{"name", "any", "variable name or (name params...)"},
		DeclarationParameter{"value", "any", "value"})
	specialForm("defun", "defines a global procedure", 2, -1,
		DeclarationParameter{"name", "symbol", "procedure name"},
		DeclarationParameter{"params", "any", "parameter list"},
		DeclarationParameter{"body...", "any", "code to evaluate"})
	specialForm("set!", "changes the innermost existing binding of a variable", 2, 2,
		DeclarationParameter{"name", "symbol", "variable name"},
		DeclarationParameter{"value", "any", "new value"})
	specialForm("lambda", "creates a procedure; params is (a b), (a b . rest) or a single symbol", 1, -1,
		DeclarationParameter{"params", "any", "parameter list"},
		DeclarationParameter{"body...", "any", "code to evaluate"})
	specialForm("defmacro", "defines a macro in the current frame; it receives its operands unevaluated", 2, -1,
		DeclarationParameter{"name", "symbol", "macro name"},
		DeclarationParameter{"params", "any", "parameter list"},
		DeclarationParameter{"body...", "any", "code computing the expansion"})
	specialForm("eval", "evaluates code in the current or the given environment", 1, 2,
		DeclarationParameter{"code", "any", "code to evaluate"},
		DeclarationParameter{"environment", "any", "environment, e.g. from (the-environment)"})
	specialForm("try", "evaluates code; on a signal the catch clause runs with the signal bound to var", 1, -1,
		DeclarationParameter{"code...", "any", "code to evaluate"},
		DeclarationParameter{"handler", "list", "(catch var body...)"})
	specialForm("defmulti", "defines an empty multimethod in the global frame", 1, 1,
		DeclarationParameter{"name", "symbol", "multimethod name"})
	specialForm("defmethod", "appends a guarded handler to a multimethod", 3, 3,
		DeclarationParameter{"name", "symbol", "multimethod name"},
		DeclarationParameter{"guard", "any", "predicate over the arguments"},
		DeclarationParameter{"handler", "any", "procedure called when the guard accepts"})
	specialForm("defcontract", "defines a global procedure with (require cond...) and (ensure cond...) clauses; result is bound in ensure", 2, -1,
		DeclarationParameter{"name", "symbol", "procedure name"},
		DeclarationParameter{"params", "any", "parameter list"},
		DeclarationParameter{"clauses-and-body...", "any", "conditions followed by the body"})
	specialForm("time", "measures the time it takes to compute the first argument", 1, 2,
		DeclarationParameter{"code", "any", "code to execute"},
		DeclarationParameter{"label", "string", "label to print in the log or trace"})
	specialForm("the-environment", "returns the current environment", 0, 0)

	DeclareTitle("Signals")
	Declare(&Declaration{
		"error", "raises a UserError; the message is made of all arguments",
		0, -1,
		[]DeclarationParameter{
			DeclarationParameter{"message...", "any", "parts of the message"},
		}, "nil",
		func(en *Env, a ...Scmer) (Scmer, error) {
			parts := make([]string, len(a))
			for i, x := range a {
				parts[i] = String(x)
			}
			var payload Scmer
			if len(a) == 1 {
				payload = a[0]
			} else {
				payload = List(a...)
			}
			return nil, &Signal{Kind: UserError, Message: strings.Join(parts, " "), Payload: payload}
		},
	})
	Declare(&Declaration{
		"signal", "raises a signal of any kind",
		2, 3,
		[]DeclarationParameter{
			DeclarationParameter{"kind", "symbol|string", "kind such as UserError or TypeError"},
			DeclarationParameter{"message", "string", "message"},
			DeclarationParameter{"payload", "any", "payload for handlers"},
		}, "nil",
		func(en *Env, a ...Scmer) (Scmer, error) {
			sig := &Signal{Kind: Kind(String(a[0])), Message: String(a[1])}
			if len(a) > 2 {
				sig.Payload = a[2]
			}
			return nil, sig
		},
	})
	Declare(&Declaration{
		"raise", "raises a caught signal again; any other value is raised as UserError",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"signal", "any", "signal from a catch clause"},
		}, "nil",
		func(en *Env, a ...Scmer) (Scmer, error) {
			if sig, ok := a[0].(*Signal); ok {
				// the caught value stays as it was; the copy collects the new unwind
				raised := *sig
				raised.Backtrace = nil
				return nil, &raised
			}
			return nil, &Signal{Kind: UserError, Message: String(a[0]), Payload: a[0]}
		},
	})
	Declare(&Declaration{
		"signal?", "tells whether a value is a signal",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "any", "value to check"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			_, ok := a[0].(*Signal)
			return ok, nil
		},
	})
	signalField := func(name, desc, returns string, get func(*Signal) Scmer) {
		Declare(&Declaration{
			name, desc,
			1, 1,
			[]DeclarationParameter{
				DeclarationParameter{"signal", "any", "signal from a catch clause"},
			}, returns,
			func(en *Env, a ...Scmer) (Scmer, error) {
				sig, ok := a[0].(*Signal)
				if !ok {
					return nil, typeError(name, "a signal", a[0])
				}
				return get(sig), nil
			},
		})
	}
	signalField("signal-kind", "kind of a signal as symbol", "symbol", func(s *Signal) Scmer { return Symbol(s.Kind) })
	signalField("signal-message", "message of a signal", "string", func(s *Signal) Scmer { return s.Message })
	signalField("signal-payload", "payload of a signal", "any", func(s *Signal) Scmer { return s.Payload })
	signalField("signal-backtrace", "source positions the signal unwound through", "list", func(s *Signal) Scmer {
		result := make([]Scmer, len(s.Backtrace))
		for i, si := range s.Backtrace {
			result[i] = si.String()
		}
		return List(result...)
	})
	Declare(&Declaration{
		"assert-equal", "raises an AssertionError unless expected and actual are structurally equal",
		2, 3,
		[]DeclarationParameter{
			DeclarationParameter{"expected", "any", "expected value"},
			DeclarationParameter{"actual", "any", "actual value"},
			DeclarationParameter{"message", "string", "optional description"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			if Equal(a[0], a[1]) {
				return true, nil
			}
			msg := fmt.Sprintf("Assertion Failed: Expected %s, but got %s", SerializeToString(a[0]), SerializeToString(a[1]))
			if len(a) > 2 {
				msg = String(a[2]) + ": " + msg
			}
			return nil, &Signal{Kind: AssertionError, Message: msg, Payload: List(a[0], a[1])}
		},
	})

	DeclareTitle("Evaluation")
	Declare(&Declaration{
		"apply", "calls a procedure; the last argument is a list of further arguments",
		1, -1,
		[]DeclarationParameter{
			DeclarationParameter{"procedure", "func", "procedure to call"},
			DeclarationParameter{"args...", "any", "arguments, the last one a list"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			args := append([]Scmer{}, a[1:]...)
			if len(args) > 0 {
				rest, ok := ToSlice(args[len(args)-1])
				if !ok {
					return nil, typeError("apply", "a list as last argument", args[len(args)-1])
				}
				args = append(args[:len(args)-1], rest...)
			}
			return ApplyEx(a[0], args, en)
		},
	})
	Declare(&Declaration{
		"macroexpand-1", "expands a macro call once; other forms are returned unchanged",
		1, 2,
		[]DeclarationParameter{
			DeclarationParameter{"code", "any", "code to expand"},
			DeclarationParameter{"environment", "any", "environment to look up macros in"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			target, err := envArg("macroexpand-1", en, a, 1)
			if err != nil {
				return nil, err
			}
			result, _, err := macroexpand1(a[0], target)
			return result, err
		},
	})
	Declare(&Declaration{
		"macroexpand", "expands a macro call until the head is no macro anymore",
		1, 2,
		[]DeclarationParameter{
			DeclarationParameter{"code", "any", "code to expand"},
			DeclarationParameter{"environment", "any", "environment to look up macros in"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			target, err := envArg("macroexpand", en, a, 1)
			if err != nil {
				return nil, err
			}
			code := a[0]
			for {
				result, expanded, err := macroexpand1(code, target)
				if err != nil || !expanded {
					return result, err
				}
				code = result
			}
		},
	})
	Declare(&Declaration{
		"interaction-environment", "returns the global environment",
		0, 0,
		[]DeclarationParameter{}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return en.Root(), nil
		},
	})
	Declare(&Declaration{
		"validate", "checks the calls to primitives inside code without running it and returns the guessed result type",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"code", "any", "code to check"},
		}, "string",
		func(en *Env, a ...Scmer) (Scmer, error) {
			typ, err := Validate(a[0], "any")
			if err != nil {
				return nil, err
			}
			return typ, nil
		},
	})
	Declare(&Declaration{
		"settings", "reads or changes interpreter settings: (settings), (settings key), (settings key value)",
		0, 2,
		[]DeclarationParameter{
			DeclarationParameter{"key", "string|symbol", "name of the setting"},
			DeclarationParameter{"value", "any", "new value"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return en.Interp().ChangeSettings(a...)
		},
	})

	DeclareTitle("Predicates")
	predicate := func(name, desc string, test func(Scmer) bool) {
		Declare(&Declaration{
			name, desc,
			1, 1,
			[]DeclarationParameter{
				DeclarationParameter{"value", "any", "value to check"},
			}, "bool",
			func(en *Env, a ...Scmer) (Scmer, error) {
				return test(a[0]), nil
			},
		})
	}
	predicate("not", "negates the truthiness of a value", func(v Scmer) bool { return !ToBool(v) })
	predicate("number?", "tells whether a value is a number", isNumber)
	predicate("integer?", "tells whether a value is an integer", func(v Scmer) bool { _, ok := v.(int64); return ok })
	predicate("float?", "tells whether a value is a floating point number", func(v Scmer) bool { _, ok := v.(float64); return ok })
	predicate("string?", "tells whether a value is a string", func(v Scmer) bool { _, ok := v.(string); return ok })
	predicate("symbol?", "tells whether a value is a symbol", func(v Scmer) bool { _, ok := v.(Symbol); return ok })
	predicate("boolean?", "tells whether a value is #t or #f", func(v Scmer) bool { _, ok := v.(bool); return ok })
	predicate("procedure?", "tells whether a value can be called", isProcedure)
	predicate("macro?", "tells whether a value is a macro", func(v Scmer) bool { _, ok := v.(*Macro); return ok })
	predicate("environment?", "tells whether a value is an environment", func(v Scmer) bool { _, ok := v.(*Env); return ok })
	Declare(&Declaration{
		"equal?", "structural equality",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"a", "any", "first value"},
			DeclarationParameter{"b", "any", "second value"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return Equal(a[0], a[1]), nil
		},
	})
	Declare(&Declaration{
		"eq?", "identity: atoms by value, lists and procedures by reference",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"a", "any", "first value"},
			DeclarationParameter{"b", "any", "second value"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return Eq(a[0], a[1]), nil
		},
	})
	Declare(&Declaration{
		"type-of", "name of the type of a value as symbol",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "any", "value to examine"},
		}, "symbol",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return Symbol(TypeName(a[0])), nil
		},
	})

	DeclareTitle("IO")
	Declare(&Declaration{
		"print", "prints values separated by spaces, followed by a newline",
		0, -1,
		[]DeclarationParameter{
			DeclarationParameter{"value...", "any", "values to print"},
		}, "nil",
		func(en *Env, a ...Scmer) (Scmer, error) {
			out := en.Interp().Out
			for i, x := range a {
				if i > 0 {
					fmt.Fprint(out, " ")
				}
				fmt.Fprint(out, String(x))
			}
			fmt.Fprintln(out)
			return nil, nil
		},
	})
	Declare(&Declaration{
		"display", "prints a value without newline",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "any", "value to print"},
		}, "nil",
		func(en *Env, a ...Scmer) (Scmer, error) {
			fmt.Fprint(en.Interp().Out, String(a[0]))
			return nil, nil
		},
	})
	Declare(&Declaration{
		"newline", "prints a newline",
		0, 0,
		[]DeclarationParameter{}, "nil",
		func(en *Env, a ...Scmer) (Scmer, error) {
			fmt.Fprintln(en.Interp().Out)
			return nil, nil
		},
	})
	Declare(&Declaration{
		"help", "lists all primitives or describes one",
		0, 1,
		[]DeclarationParameter{
			DeclarationParameter{"name", "string|symbol", "name of the primitive"},
		}, "nil",
		func(en *Env, a ...Scmer) (Scmer, error) {
			if len(a) == 0 {
				return nil, Help(en.Interp().Out, nil)
			}
			return nil, Help(en.Interp().Out, a[0])
		},
	})
}

// envArg returns the optional environment argument at index i or en
func envArg(fn string, en *Env, a []Scmer, i int) (*Env, error) {
	if len(a) <= i {
		return en, nil
	}
	target, ok := a[i].(*Env)
	if !ok {
		return nil, typeError(fn, "an environment", a[i])
	}
	return target, nil
}

// macroexpand1 expands code once if its head names a macro in en.
func macroexpand1(code Scmer, en *Env) (Scmer, bool, error) {
	p, ok := code.(*Pair)
	if !ok {
		return code, false, nil
	}
	head, ok := p.Car.(Symbol)
	if !ok {
		return code, false, nil
	}
	frame := en.FindRead(head)
	if frame == nil {
		return code, false, nil
	}
	m, ok := frame.Vars[head].(*Macro)
	if !ok {
		return code, false, nil
	}
	result, err := expandMacro(m, p.Cdr)
	return result, err == nil, err
}

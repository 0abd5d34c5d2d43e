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
	"math"
)

// checkNumbers raises a TypeError for the first non-number and reports
// whether all arguments are integers.
func checkNumbers(fn string, a []Scmer) (allInt bool, err error) {
	allInt = true
	for _, x := range a {
		switch x.(type) {
		case int64:
		case float64:
			allInt = false
		default:
			return false, typeError(fn, "numbers", x)
		}
	}
	return allInt, nil
}

// Less orders numbers numerically and strings bytewise.
func Less(fn string, a, b Scmer) (bool, error) {
	switch a_ := a.(type) {
	case int64:
		switch b_ := b.(type) {
		case int64:
			return a_ < b_, nil
		case float64:
			return float64(a_) < b_, nil
		}
	case float64:
		switch b_ := b.(type) {
		case int64:
			return a_ < float64(b_), nil
		case float64:
			return a_ < b_, nil
		}
	case string:
		if b_, ok := b.(string); ok {
			return a_ < b_, nil
		}
	}
	return false, typeError(fn, "two numbers or two strings", List(a, b))
}

func declareCompare(name, desc string, test func(a, b Scmer) (bool, error)) {
	Declare(&Declaration{
		name, desc,
		1, -1,
		[]DeclarationParameter{
			DeclarationParameter{"value...", "any", "values"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			for i := 1; i < len(a); i++ {
				ok, err := test(a[i-1], a[i])
				if err != nil || !ok {
					return false, err
				}
			}
			return true, nil
		},
	})
}

func init_alu() {
	DeclareTitle("Arithmetic / Logic")

	Declare(&Declaration{
		"+", "adds numbers; integers stay integers",
		0, -1,
		[]DeclarationParameter{
			DeclarationParameter{"value...", "number", "values to add"},
		}, "number",
		func(en *Env, a ...Scmer) (Scmer, error) {
			allInt, err := checkNumbers("+", a)
			if err != nil {
				return nil, err
			}
			if allInt {
				var sum int64
				for _, x := range a {
					sum += x.(int64)
				}
				return sum, nil
			}
			var sum float64
			for _, x := range a {
				sum += ToFloat(x)
			}
			return sum, nil
		},
	})
	Declare(&Declaration{
		"-", "subtracts numbers from the first one; negates a single number",
		1, -1,
		[]DeclarationParameter{
			DeclarationParameter{"value...", "number", "values"},
		}, "number",
		func(en *Env, a ...Scmer) (Scmer, error) {
			allInt, err := checkNumbers("-", a)
			if err != nil {
				return nil, err
			}
			if allInt {
				if len(a) == 1 {
					return -a[0].(int64), nil
				}
				v := a[0].(int64)
				for _, x := range a[1:] {
					v -= x.(int64)
				}
				return v, nil
			}
			if len(a) == 1 {
				return -ToFloat(a[0]), nil
			}
			v := ToFloat(a[0])
			for _, x := range a[1:] {
				v -= ToFloat(x)
			}
			return v, nil
		},
	})
	Declare(&Declaration{
		"*", "multiplies numbers",
		0, -1,
		[]DeclarationParameter{
			DeclarationParameter{"value...", "number", "values"},
		}, "number",
		func(en *Env, a ...Scmer) (Scmer, error) {
			allInt, err := checkNumbers("*", a)
			if err != nil {
				return nil, err
			}
			if allInt {
				v := int64(1)
				for _, x := range a {
					v *= x.(int64)
				}
				return v, nil
			}
			v := 1.0
			for _, x := range a {
				v *= ToFloat(x)
			}
			return v, nil
		},
	})
	Declare(&Declaration{
		"/", "divides the first number by the others; exact integer quotients stay integers",
		1, -1,
		[]DeclarationParameter{
			DeclarationParameter{"value...", "number", "values"},
		}, "number",
		func(en *Env, a ...Scmer) (Scmer, error) {
			allInt, err := checkNumbers("/", a)
			if err != nil {
				return nil, err
			}
			if len(a) == 1 {
				a = []Scmer{int64(1), a[0]}
			}
			if allInt {
				v := a[0].(int64)
				exact := true
				for _, x := range a[1:] {
					d := x.(int64)
					if d == 0 {
						return nil, &Signal{Kind: TypeError, Message: "division by zero", Payload: List(a...)}
					}
					if v%d != 0 {
						exact = false
						break
					}
					v /= d
				}
				if exact {
					return v, nil
				}
			}
			v := ToFloat(a[0])
			for _, x := range a[1:] {
				d := ToFloat(x)
				if d == 0 {
					return nil, &Signal{Kind: TypeError, Message: "division by zero", Payload: List(a...)}
				}
				v /= d
			}
			return v, nil
		},
	})
	Declare(&Declaration{
		"%", "remainder of a division; the sign follows the dividend",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"a", "number", "dividend"},
			DeclarationParameter{"b", "number", "divisor"},
		}, "number",
		func(en *Env, a ...Scmer) (Scmer, error) {
			allInt, err := checkNumbers("%", a)
			if err != nil {
				return nil, err
			}
			if allInt {
				if a[1].(int64) == 0 {
					return nil, &Signal{Kind: TypeError, Message: "division by zero", Payload: List(a...)}
				}
				return a[0].(int64) % a[1].(int64), nil
			}
			if ToFloat(a[1]) == 0 {
				return nil, &Signal{Kind: TypeError, Message: "division by zero", Payload: List(a...)}
			}
			return math.Mod(ToFloat(a[0]), ToFloat(a[1])), nil
		},
	})

	declareCompare("<", "compares numbers or strings: strictly ascending", func(a, b Scmer) (bool, error) {
		return Less("<", a, b)
	})
	declareCompare("<=", "compares numbers or strings: ascending", func(a, b Scmer) (bool, error) {
		less, err := Less("<=", b, a)
		return !less, err
	})
	declareCompare(">", "compares numbers or strings: strictly descending", func(a, b Scmer) (bool, error) {
		return Less(">", b, a)
	})
	declareCompare(">=", "compares numbers or strings: descending", func(a, b Scmer) (bool, error) {
		less, err := Less(">=", a, b)
		return !less, err
	})
	declareCompare("=", "numeric equality", func(a, b Scmer) (bool, error) {
		if _, err := checkNumbers("=", []Scmer{a, b}); err != nil {
			return false, err
		}
		return Equal(a, b), nil
	})
	Declare(&Declaration{
		"nil?", "returns true if value is nil",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "any", "value"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return a[0] == nil, nil
		},
	})
}

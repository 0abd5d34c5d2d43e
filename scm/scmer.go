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
	"math"
)

// Scmer is any value of the language. Code and data share this representation:
//
//	nil        empty list / nil
//	bool       #t #f
//	int64      integer numbers
//	float64    floating point numbers
//	string     strings
//	Symbol     identifiers
//	*Pair      cons cells (proper or dotted lists)
//	*HashMap   hash maps
//	*Proc      closures, *Macro macros, *Declaration primitives
//	*Multimethod, *Contract, *Env, *Signal
type Scmer any

type Symbol string // symbols are compared by value which makes them interned

// Pair is a mutable cons cell. pos is the source location the reader found
// the list at; it never takes part in equality.
type Pair struct {
	Car Scmer
	Cdr Scmer
	pos *SourceInfo
}

type SourceInfo struct {
	source string
	line   int
	col    int
}

func (si SourceInfo) String() string {
	return fmt.Sprintf("%s:%d:%d", si.source, si.line, si.col)
}

// Proc is a closure: parameter list, body forms and the captured frame.
type Proc struct {
	Params Scmer
	Body   Scmer // list of forms
	En     *Env
	Name   string
}

// Macro has the shape of a Proc but receives unevaluated operands and its
// result is evaluated again in the caller's environment.
type Macro struct {
	Params Scmer
	Body   Scmer
	En     *Env
	Name   string
}

func Cons(car, cdr Scmer) *Pair {
	return &Pair{Car: car, Cdr: cdr}
}

func List(a ...Scmer) Scmer {
	return ListWithTail(a, nil)
}

func ListWithTail(a []Scmer, tail Scmer) Scmer {
	result := tail
	for i := len(a) - 1; i >= 0; i-- {
		result = &Pair{Car: a[i], Cdr: result}
	}
	return result
}

// ToSlice converts a proper list into a slice. ok is false for dotted lists,
// cyclic lists and non-list values.
func ToSlice(v Scmer) (result []Scmer, ok bool) {
	slow := v
	for {
		switch p := v.(type) {
		case nil:
			return result, true
		case *Pair:
			result = append(result, p.Car)
			v = p.Cdr
			if len(result)%2 == 0 {
				slow = slow.(*Pair).Cdr
			}
			if next, isPair := v.(*Pair); isPair && next == slow {
				return result, false // cyclic
			}
		default:
			return result, false
		}
	}
}

func isProperList(v Scmer) bool {
	slow := v
	for {
		p, ok := v.(*Pair)
		if !ok {
			return v == nil
		}
		v = p.Cdr
		p, ok = v.(*Pair)
		if !ok {
			return v == nil
		}
		v = p.Cdr
		slow = slow.(*Pair).Cdr
		if slow == v {
			return false // cyclic
		}
	}
}

// isCyclic reports whether the cdr chain of v loops back on itself.
func isCyclic(v Scmer) bool {
	slow, fast := v, v
	for {
		p, ok := fast.(*Pair)
		if !ok {
			return false
		}
		if p, ok = p.Cdr.(*Pair); !ok {
			return false
		}
		fast = p.Cdr
		slow = slow.(*Pair).Cdr
		if fp, ok := fast.(*Pair); ok && fp == slow {
			return true
		}
	}
}

func listLength(v Scmer) int {
	n := 0
	for p, ok := v.(*Pair); ok; p, ok = p.Cdr.(*Pair) {
		n++
	}
	return n
}

// nth element of a list, nil if the list is too short
func nth(v Scmer, i int) Scmer {
	for p, ok := v.(*Pair); ok; p, ok = p.Cdr.(*Pair) {
		if i == 0 {
			return p.Car
		}
		i--
	}
	return nil
}

// ToBool implements truthiness: nil, #f, 0, 0.0 and "" are false.
func ToBool(v Scmer) bool {
	switch v_ := v.(type) {
	case nil:
		return false
	case bool:
		return v_
	case int64:
		return v_ != 0
	case float64:
		return v_ != 0.0
	case string:
		return v_ != ""
	default:
		return true
	}
}

func ToInt(v Scmer) int {
	switch v_ := v.(type) {
	case int64:
		return int(v_)
	case float64:
		return int(v_)
	case bool:
		if v_ {
			return 1
		}
	}
	return 0
}

func ToFloat(v Scmer) float64 {
	switch v_ := v.(type) {
	case int64:
		return float64(v_)
	case float64:
		return v_
	case bool:
		if v_ {
			return 1.0
		}
	}
	return 0.0
}

func isNumber(v Scmer) bool {
	switch v.(type) {
	case int64, float64:
		return true
	}
	return false
}

func isProcedure(v Scmer) bool {
	switch v.(type) {
	case *Proc, *Declaration, *Multimethod, *Contract:
		return true
	}
	return false
}

// TypeName is used in error messages and by (type-of)
func TypeName(v Scmer) string {
	switch v.(type) {
	case nil:
		return "nil"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case Symbol:
		return "symbol"
	case *Pair:
		return "list"
	case *HashMap:
		return "hash-map"
	case *Proc:
		return "procedure"
	case *Macro:
		return "macro"
	case *Declaration:
		return "primitive"
	case *Multimethod:
		return "multimethod"
	case *Contract:
		return "contract"
	case *Env:
		return "environment"
	case *Signal:
		return "signal"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Equal is structural equality (equal?). Numbers compare by value across
// int and float, pairs element by element, hash maps by content.
func Equal(a, b Scmer) bool {
	return equal(a, b, nil)
}

// seen holds pair pairs already under comparison; meeting one again means
// both structures loop the same way.
func equal(a, b Scmer, seen map[[2]*Pair]bool) bool {
	for {
		switch a_ := a.(type) {
		case nil:
			return b == nil
		case int64:
			switch b_ := b.(type) {
			case int64:
				return a_ == b_
			case float64:
				return float64(a_) == b_
			}
			return false
		case float64:
			switch b_ := b.(type) {
			case int64:
				return a_ == float64(b_)
			case float64:
				return a_ == b_ || (math.IsNaN(a_) && math.IsNaN(b_))
			}
			return false
		case *Pair:
			b_, ok := b.(*Pair)
			if !ok {
				return false
			}
			if a_ == b_ {
				return true
			}
			if seen == nil {
				seen = make(map[[2]*Pair]bool)
			}
			if seen[[2]*Pair{a_, b_}] {
				return true
			}
			seen[[2]*Pair{a_, b_}] = true
			if !equal(a_.Car, b_.Car, seen) {
				return false
			}
			a, b = a_.Cdr, b_.Cdr
			continue
		case *HashMap:
			b_, ok := b.(*HashMap)
			if !ok {
				return false
			}
			return a_.equal(b_)
		default:
			return a == b
		}
	}
}

// Eq is identity (eq?): atoms by value, everything else by reference.
func Eq(a, b Scmer) bool {
	return a == b
}

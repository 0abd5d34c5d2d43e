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

func listArg(fn string, v Scmer) ([]Scmer, error) {
	list, ok := ToSlice(v)
	if !ok {
		return nil, typeError(fn, "a proper list", v)
	}
	return list, nil
}

func pairArg(fn string, v Scmer) (*Pair, error) {
	p, ok := v.(*Pair)
	if !ok {
		return nil, typeError(fn, "a pair", v)
	}
	return p, nil
}

// mapLists calls fn with the i-th elements of all lists until the shortest
// one is exhausted
func mapLists(fn string, en *Env, a []Scmer, collect bool) (Scmer, error) {
	lists := make([][]Scmer, len(a)-1)
	n := -1
	for i, x := range a[1:] {
		list, err := listArg(fn, x)
		if err != nil {
			return nil, err
		}
		lists[i] = list
		if n < 0 || len(list) < n {
			n = len(list)
		}
	}
	var result []Scmer
	if collect {
		result = make([]Scmer, 0, n)
	}
	for j := 0; j < n; j++ {
		args := make([]Scmer, len(lists))
		for i, list := range lists {
			args[i] = list[j]
		}
		v, err := ApplyEx(a[0], args, en)
		if err != nil {
			return nil, err
		}
		if collect {
			result = append(result, v)
		}
	}
	return List(result...), nil
}

func init_list() {
	// list functions
	DeclareTitle("Lists")

	Declare(&Declaration{
		"cons", "creates a pair",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"car", "any", "first element"},
			DeclarationParameter{"cdr", "any", "rest, usually a list"},
		}, "list",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return Cons(a[0], a[1]), nil
		},
	})
	Declare(&Declaration{
		"car", "first element of a pair",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"pair", "list", "non-empty list"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			p, err := pairArg("car", a[0])
			if err != nil {
				return nil, err
			}
			return p.Car, nil
		},
	})
	Declare(&Declaration{
		"cdr", "rest of a pair",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"pair", "list", "non-empty list"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			p, err := pairArg("cdr", a[0])
			if err != nil {
				return nil, err
			}
			return p.Cdr, nil
		},
	})
	Declare(&Declaration{
		"set-car!", "replaces the first element of a pair in place",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"pair", "list", "pair to modify"},
			DeclarationParameter{"value", "any", "new first element"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			p, err := pairArg("set-car!", a[0])
			if err != nil {
				return nil, err
			}
			p.Car = a[1]
			return a[1], nil
		},
	})
	Declare(&Declaration{
		"set-cdr!", "replaces the rest of a pair in place",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"pair", "list", "pair to modify"},
			DeclarationParameter{"value", "any", "new rest"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			p, err := pairArg("set-cdr!", a[0])
			if err != nil {
				return nil, err
			}
			p.Cdr = a[1]
			return a[1], nil
		},
	})
	Declare(&Declaration{
		"list", "creates a list from its arguments",
		0, -1,
		[]DeclarationParameter{
			DeclarationParameter{"value...", "any", "elements"},
		}, "list",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return List(a...), nil
		},
	})
	Declare(&Declaration{
		"list?", "tells whether a value is a proper list (the empty list included)",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "any", "value to check"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return isProperList(a[0]), nil
		},
	})
	Declare(&Declaration{
		"pair?", "tells whether a value is a pair",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "any", "value to check"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			_, ok := a[0].(*Pair)
			return ok, nil
		},
	})
	Declare(&Declaration{
		"null?", "tells whether a value is the empty list",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "any", "value to check"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return a[0] == nil, nil
		},
	})
	Declare(&Declaration{
		"length", "number of elements of a list or characters of a string",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"list", "list|string", "list or string"},
		}, "int",
		func(en *Env, a ...Scmer) (Scmer, error) {
			if s, ok := a[0].(string); ok {
				return int64(len([]rune(s))), nil
			}
			if !isProperList(a[0]) {
				return nil, typeError("length", "a proper list", a[0])
			}
			return int64(listLength(a[0])), nil
		},
	})
	Declare(&Declaration{
		"nth", "get the nth item of a list",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"list", "list", "base list"},
			DeclarationParameter{"index", "int", "index beginning from 0"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			i, ok := a[1].(int64)
			if !ok {
				return nil, typeError("nth", "an integer index", a[1])
			}
			for p, ok := a[0].(*Pair); ok && i >= 0; p, ok = p.Cdr.(*Pair) {
				if i == 0 {
					return p.Car, nil
				}
				i--
			}
			return nil, &Signal{Kind: TypeError, Message: "nth: index out of range", Payload: a[1]}
		},
	})
	Declare(&Declaration{
		"append", "concatenates lists into a new list; the last argument is shared, not copied",
		0, -1,
		[]DeclarationParameter{
			DeclarationParameter{"list...", "list", "lists to concatenate"},
		}, "list",
		func(en *Env, a ...Scmer) (Scmer, error) {
			if len(a) == 0 {
				return nil, nil
			}
			var items []Scmer
			for _, x := range a[:len(a)-1] {
				list, err := listArg("append", x)
				if err != nil {
					return nil, err
				}
				items = append(items, list...)
			}
			return ListWithTail(items, a[len(a)-1]), nil
		},
	})
	Declare(&Declaration{
		"reverse", "returns a reversed copy of a list",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"list", "list", "list to reverse"},
		}, "list",
		func(en *Env, a ...Scmer) (Scmer, error) {
			list, err := listArg("reverse", a[0])
			if err != nil {
				return nil, err
			}
			var result Scmer
			for _, x := range list {
				result = Cons(x, result)
			}
			return result, nil
		},
	})
	Declare(&Declaration{
		"map", "applies a procedure to the elements of one or more lists and returns the results",
		2, -1,
		[]DeclarationParameter{
			DeclarationParameter{"procedure", "func", "procedure taking one argument per list"},
			DeclarationParameter{"list...", "list", "lists"},
		}, "list",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return mapLists("map", en, a, true)
		},
	})
	Declare(&Declaration{
		"for-each", "applies a procedure to the elements of one or more lists for its side effects",
		2, -1,
		[]DeclarationParameter{
			DeclarationParameter{"procedure", "func", "procedure taking one argument per list"},
			DeclarationParameter{"list...", "list", "lists"},
		}, "nil",
		func(en *Env, a ...Scmer) (Scmer, error) {
			_, err := mapLists("for-each", en, a, false)
			return nil, err
		},
	})
	Declare(&Declaration{
		"filter", "returns the elements of a list the predicate accepts",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"predicate", "func", "procedure taking one element"},
			DeclarationParameter{"list", "list", "list to filter"},
		}, "list",
		func(en *Env, a ...Scmer) (Scmer, error) {
			list, err := listArg("filter", a[1])
			if err != nil {
				return nil, err
			}
			var result []Scmer
			for _, x := range list {
				ok, err := ApplyEx(a[0], []Scmer{x}, en)
				if err != nil {
					return nil, err
				}
				if ToBool(ok) {
					result = append(result, x)
				}
			}
			return List(result...), nil
		},
	})
	Declare(&Declaration{
		"member?", "tells whether a list contains a value (equal?)",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"value", "any", "value to search"},
			DeclarationParameter{"list", "list", "list to search in"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			list, err := listArg("member?", a[1])
			if err != nil {
				return nil, err
			}
			for _, x := range list {
				if Equal(a[0], x) {
					return true, nil
				}
			}
			return false, nil
		},
	})
}

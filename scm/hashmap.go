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

import "math"

// HashMap maps atoms to values and remembers the insertion order of its
// keys for printing. Keys are compared like eq?, except that integral
// floats and integers denote the same key.
type HashMap struct {
	keys   []Scmer
	values map[Scmer]Scmer
}

func NewHashMap() *HashMap {
	return &HashMap{values: make(map[Scmer]Scmer)}
}

func hashKey(k Scmer) Scmer {
	if f, ok := k.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<63 {
		return int64(f)
	}
	return k
}

func (m *HashMap) Get(k Scmer) (Scmer, bool) {
	v, ok := m.values[hashKey(k)]
	return v, ok
}

func (m *HashMap) Set(k, v Scmer) {
	k = hashKey(k)
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

func (m *HashMap) Remove(k Scmer) bool {
	k = hashKey(k)
	if _, ok := m.values[k]; !ok {
		return false
	}
	delete(m.values, k)
	for i, x := range m.keys {
		if x == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

func (m *HashMap) Count() int {
	return len(m.keys)
}

func (m *HashMap) equal(b *HashMap) bool {
	if m == b {
		return true
	}
	if len(m.values) != len(b.values) {
		return false
	}
	for k, v := range m.values {
		w, ok := b.values[k]
		if !ok || !Equal(v, w) {
			return false
		}
	}
	return true
}

func hashMapArg(fn string, v Scmer) (*HashMap, error) {
	m, ok := v.(*HashMap)
	if !ok {
		return nil, typeError(fn, "a hash map", v)
	}
	return m, nil
}

func init_hashmap() {
	DeclareTitle("Hash Maps")

	Declare(&Declaration{
		"hash-map", "creates a hash map from alternating keys and values",
		0, -1,
		[]DeclarationParameter{
			DeclarationParameter{"key-value...", "any", "alternating keys and values"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			if len(a)%2 != 0 {
				return nil, &Signal{Kind: ArityError, Message: "hash-map expects an even number of arguments", Payload: List(a...)}
			}
			m := NewHashMap()
			for i := 0; i < len(a); i += 2 {
				m.Set(a[i], a[i+1])
			}
			return m, nil
		},
	})
	Declare(&Declaration{
		"hash-map?", "tells whether a value is a hash map",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "any", "value to check"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			_, ok := a[0].(*HashMap)
			return ok, nil
		},
	})
	Declare(&Declaration{
		"hash-get", "looks up a key; returns default (or nil) when it is missing",
		2, 3,
		[]DeclarationParameter{
			DeclarationParameter{"map", "any", "hash map"},
			DeclarationParameter{"key", "any", "key"},
			DeclarationParameter{"default", "any", "value for missing keys"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			m, err := hashMapArg("hash-get", a[0])
			if err != nil {
				return nil, err
			}
			if v, ok := m.Get(a[1]); ok {
				return v, nil
			}
			if len(a) > 2 {
				return a[2], nil
			}
			return nil, nil
		},
	})
	Declare(&Declaration{
		"hash-set!", "stores a value under a key",
		3, 3,
		[]DeclarationParameter{
			DeclarationParameter{"map", "any", "hash map"},
			DeclarationParameter{"key", "any", "key"},
			DeclarationParameter{"value", "any", "value"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			m, err := hashMapArg("hash-set!", a[0])
			if err != nil {
				return nil, err
			}
			m.Set(a[1], a[2])
			return a[2], nil
		},
	})
	Declare(&Declaration{
		"hash-has?", "tells whether a key is present",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"map", "any", "hash map"},
			DeclarationParameter{"key", "any", "key"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			m, err := hashMapArg("hash-has?", a[0])
			if err != nil {
				return nil, err
			}
			_, ok := m.Get(a[1])
			return ok, nil
		},
	})
	Declare(&Declaration{
		"hash-remove!", "removes a key; returns whether it was present",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"map", "any", "hash map"},
			DeclarationParameter{"key", "any", "key"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			m, err := hashMapArg("hash-remove!", a[0])
			if err != nil {
				return nil, err
			}
			return m.Remove(a[1]), nil
		},
	})
	Declare(&Declaration{
		"hash-keys", "keys in insertion order",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"map", "any", "hash map"},
		}, "list",
		func(en *Env, a ...Scmer) (Scmer, error) {
			m, err := hashMapArg("hash-keys", a[0])
			if err != nil {
				return nil, err
			}
			return List(m.keys...), nil
		},
	})
	Declare(&Declaration{
		"hash-values", "values in insertion order of their keys",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"map", "any", "hash map"},
		}, "list",
		func(en *Env, a ...Scmer) (Scmer, error) {
			m, err := hashMapArg("hash-values", a[0])
			if err != nil {
				return nil, err
			}
			result := make([]Scmer, len(m.keys))
			for i, k := range m.keys {
				result[i] = m.values[k]
			}
			return List(result...), nil
		},
	})
	Declare(&Declaration{
		"hash-count", "number of keys",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"map", "any", "hash map"},
		}, "int",
		func(en *Env, a ...Scmer) (Scmer, error) {
			m, err := hashMapArg("hash-count", a[0])
			if err != nil {
				return nil, err
			}
			return int64(m.Count()), nil
		},
	})
}

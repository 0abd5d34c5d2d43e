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
	"github.com/docker/go-units"
	"github.com/google/btree"
)

/*
 Memoization cache

 Entries are indexed twice: by key for ordered listing and by last use for
 eviction of the least recently used entry.
*/

const ifaceOverhead = 16   // an interface value
const goAllocOverhead = 16 // header of a heap object

type cacheEntry struct {
	key   string
	value Scmer
	tick  uint64
	size  uint
}

type Cache struct {
	capacity  int // <= 0: unlimited
	byKey     *btree.BTreeG[*cacheEntry]
	byUse     *btree.BTreeG[*cacheEntry]
	tick      uint64
	bytes     uint
	hits      int64
	misses    int64
	evictions int64
}

func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		byKey: btree.NewG[*cacheEntry](8, func(a, b *cacheEntry) bool {
			return a.key < b.key
		}),
		byUse: btree.NewG[*cacheEntry](8, func(a, b *cacheEntry) bool {
			return a.tick < b.tick
		}),
	}
}

func (c *Cache) touch(e *cacheEntry) {
	c.byUse.Delete(e)
	c.tick++
	e.tick = c.tick
	c.byUse.ReplaceOrInsert(e)
}

func (c *Cache) Get(key string) (Scmer, bool) {
	e, ok := c.byKey.Get(&cacheEntry{key: key})
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.touch(e)
	return e.value, true
}

func (c *Cache) Has(key string) bool {
	_, ok := c.byKey.Get(&cacheEntry{key: key})
	return ok
}

func (c *Cache) Put(key string, value Scmer) {
	size := ComputeSize(value) + goAllocOverhead + uint(len(key))
	if e, ok := c.byKey.Get(&cacheEntry{key: key}); ok {
		c.bytes = c.bytes - e.size + size
		e.value = value
		e.size = size
		c.touch(e)
		return
	}
	c.tick++
	e := &cacheEntry{key: key, value: value, tick: c.tick, size: size}
	c.byKey.ReplaceOrInsert(e)
	c.byUse.ReplaceOrInsert(e)
	c.bytes += size
	c.evict()
}

func (c *Cache) evict() {
	for c.capacity > 0 && c.byKey.Len() > c.capacity {
		e, ok := c.byUse.DeleteMin()
		if !ok {
			return
		}
		c.byKey.Delete(e)
		c.bytes -= e.size
		c.evictions++
	}
}

func (c *Cache) SetCapacity(capacity int) {
	c.capacity = capacity
	c.evict()
}

func (c *Cache) Clear() {
	c.byKey.Clear(false)
	c.byUse.Clear(false)
	c.bytes = 0
}

// Keys in ascending order
func (c *Cache) Keys() []Scmer {
	result := make([]Scmer, 0, c.byKey.Len())
	c.byKey.Ascend(func(e *cacheEntry) bool {
		result = append(result, e.key)
		return true
	})
	return result
}

func (c *Cache) Stats() *HashMap {
	m := NewHashMap()
	m.Set("entries", int64(c.byKey.Len()))
	m.Set("capacity", int64(c.capacity))
	m.Set("hits", c.hits)
	m.Set("misses", c.misses)
	m.Set("evictions", c.evictions)
	m.Set("bytes", int64(c.bytes))
	m.Set("size", units.BytesSize(float64(c.bytes)))
	return m
}

// ComputeSize estimates the memory a value occupies.
func ComputeSize(v Scmer) uint {
	return computeSize(v, make(map[any]bool))
}

func align8(n uint) uint {
	return (n + 7) &^ 7
}

func computeSize(v Scmer, seen map[any]bool) uint {
	sz := uint(0)
	for {
		switch v_ := v.(type) {
		case string:
			return sz + ifaceOverhead + goAllocOverhead + align8(uint(len(v_)))
		case Symbol:
			return sz + ifaceOverhead + goAllocOverhead + align8(uint(len(v_)))
		case *Pair:
			if seen[v_] {
				return sz + ifaceOverhead
			}
			seen[v_] = true
			sz += ifaceOverhead + goAllocOverhead + 2*ifaceOverhead + 8
			sz += computeSize(v_.Car, seen)
			v = v_.Cdr
		case *HashMap:
			if seen[v_] {
				return sz + ifaceOverhead
			}
			seen[v_] = true
			sz += ifaceOverhead + goAllocOverhead + 48
			for _, k := range v_.keys {
				sz += computeSize(k, seen) + computeSize(v_.values[hashKey(k)], seen)
			}
			return sz
		case *Proc:
			if seen[v_] {
				return sz + ifaceOverhead
			}
			seen[v_] = true
			return sz + ifaceOverhead + goAllocOverhead + computeSize(v_.Params, seen) + computeSize(v_.Body, seen)
		case nil, bool, int64, float64:
			return sz + ifaceOverhead
		default:
			return sz + ifaceOverhead + goAllocOverhead
		}
	}
}

// cacheKeyOf accepts strings as they are and prints everything else.
func cacheKeyOf(v Scmer) string {
	if s, ok := v.(string); ok {
		return s
	}
	return SerializeToString(v)
}

func init_cache() {
	DeclareTitle("Memoization Cache")

	Declare(&Declaration{
		"cache-key", "builds a cache key from the printed form of all arguments",
		0, -1,
		[]DeclarationParameter{
			DeclarationParameter{"value...", "any", "values identifying the computation"},
		}, "string",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return SerializeToString(List(a...)), nil
		},
	})
	Declare(&Declaration{
		"cache-get", "looks up a cached value; returns default (or nil) on a miss",
		1, 2,
		[]DeclarationParameter{
			DeclarationParameter{"key", "any", "cache key"},
			DeclarationParameter{"default", "any", "value returned on a miss"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			if v, ok := en.Interp().cache.Get(cacheKeyOf(a[0])); ok {
				return v, nil
			}
			if len(a) > 1 {
				return a[1], nil
			}
			return nil, nil
		},
	})
	Declare(&Declaration{
		"cache-put", "stores a value; the least recently used entry is evicted when the cache is full",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"key", "any", "cache key"},
			DeclarationParameter{"value", "any", "value to store"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			en.Interp().cache.Put(cacheKeyOf(a[0]), a[1])
			return a[1], nil
		},
	})
	Declare(&Declaration{
		"cache-has?", "tells whether a key is cached",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"key", "any", "cache key"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return en.Interp().cache.Has(cacheKeyOf(a[0])), nil
		},
	})
	Declare(&Declaration{
		"cache-clear", "removes all entries",
		0, 0,
		[]DeclarationParameter{}, "nil",
		func(en *Env, a ...Scmer) (Scmer, error) {
			en.Interp().cache.Clear()
			return nil, nil
		},
	})
	Declare(&Declaration{
		"cache-keys", "all keys in ascending order",
		0, 0,
		[]DeclarationParameter{}, "list",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return List(en.Interp().cache.Keys()...), nil
		},
	})
	Declare(&Declaration{
		"cache-stats", "hash map with entries, capacity, hits, misses, evictions, bytes and a human readable size",
		0, 0,
		[]DeclarationParameter{}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return en.Interp().cache.Stats(), nil
		},
	})
	Declare(&Declaration{
		"size", "estimates the memory size of a value in bytes",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "any", "value to examine"},
		}, "int",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return int64(ComputeSize(a[0])), nil
		},
	})
	Declare(&Declaration{
		"human-size", "formats a byte count with binary units, e.g. 1.5KiB",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"bytes", "number", "number of bytes"},
		}, "string",
		func(en *Env, a ...Scmer) (Scmer, error) {
			if !isNumber(a[0]) {
				return nil, typeError("human-size", "a number", a[0])
			}
			return units.BytesSize(ToFloat(a[0])), nil
		},
	})
}

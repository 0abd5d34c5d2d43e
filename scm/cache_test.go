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
	"testing"
)

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	c.Put("a", int64(1))
	c.Put("b", int64(2))
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("a should be cached")
	}
	c.Put("c", int64(3)) // b is the least recently used now
	if c.Has("b") {
		t.Errorf("b should have been evicted")
	}
	if !c.Has("a") || !c.Has("c") {
		t.Errorf("a and c should survive, keys %v", c.Keys())
	}
	stats := c.Stats()
	if v, _ := stats.Get("evictions"); v != int64(1) {
		t.Errorf("expected 1 eviction, got %v", v)
	}
	if v, _ := stats.Get("hits"); v != int64(1) {
		t.Errorf("expected 1 hit, got %v", v)
	}
}

func TestCacheOverwriteTouches(t *testing.T) {
	c := NewCache(2)
	c.Put("a", int64(1))
	c.Put("b", int64(2))
	c.Put("a", int64(10))
	c.Put("c", int64(3))
	if v, ok := c.Get("a"); !ok || v != int64(10) {
		t.Errorf("a should hold the new value, got %v %v", v, ok)
	}
	if c.Has("b") {
		t.Errorf("b should have been evicted")
	}
}

func TestCacheShrinkAndUnlimited(t *testing.T) {
	c := NewCache(0)
	for _, k := range []string{"d", "b", "a", "c"} {
		c.Put(k, k)
	}
	if got := SerializeToString(List(c.Keys()...)); got != `("a" "b" "c" "d")` {
		t.Errorf("keys should be sorted, got %s", got)
	}
	c.SetCapacity(1)
	if got := SerializeToString(List(c.Keys()...)); got != `("c")` {
		t.Errorf("only the newest entry should remain, got %s", got)
	}
	c.Clear()
	if len(c.Keys()) != 0 {
		t.Errorf("cache should be empty after Clear")
	}
	if v, _ := c.Stats().Get("bytes"); v != int64(0) {
		t.Errorf("bytes should be 0 after Clear, got %v", v)
	}
}

func TestCachePrimitives(t *testing.T) {
	it := newTestInterp(t)
	mustEval(t, it, `(define (slow-square n)
		(let ((key (cache-key 'square n)))
			(if (cache-has? key)
				(cache-get key)
				(cache-put key (* n n)))))`)
	expectSerialized(t, it, "(slow-square 12)", "144")
	expectSerialized(t, it, "(slow-square 12)", "144")
	expectSerialized(t, it, "(cache-keys)", `("(square 12)")`)
	expectSerialized(t, it, "(hash-get (cache-stats) \"entries\")", "1")
	expectSerialized(t, it, "(hash-get (cache-stats) \"hits\")", "1")
	expectSerialized(t, it, "(cache-get 'missing 'fallback)", "fallback")
	mustEval(t, it, "(cache-clear)")
	expectSerialized(t, it, "(cache-keys)", "()")
}

func TestComputeSize(t *testing.T) {
	if ComputeSize(int64(1)) != ifaceOverhead {
		t.Errorf("scalars cost one interface value")
	}
	small := ComputeSize(List(int64(1)))
	big := ComputeSize(List(int64(1), int64(2), int64(3)))
	if big <= small {
		t.Errorf("longer lists should be larger: %d <= %d", big, small)
	}
	cyclic := &Pair{Car: int64(1)}
	cyclic.Cdr = cyclic
	if ComputeSize(cyclic) == 0 {
		t.Errorf("cyclic lists must terminate with a size")
	}
	it := newTestInterp(t)
	expectSerialized(t, it, "(human-size 1536)", `"1.5KiB"`)
	expectSerialized(t, it, "(> (size \"a long string value\") (size \"a\"))", "#t")
}
